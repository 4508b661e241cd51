package domain

import (
	"slices"
	"strings"
)

// Ranking is the performance tier an account is classified into.
type Ranking string

const (
	RankingA Ranking = "A"
	RankingB Ranking = "B"
	RankingC Ranking = "C"
)

// Rankings lists the tiers in report order.
var Rankings = []Ranking{RankingA, RankingB, RankingC}

// Fact is one normalized sales record ready for aggregation.
type Fact struct {
	Account string
	Year    int
	Amount  float64
	Margin  float64
}

// YearBucket accumulates one calendar year of an account's sales.
type YearBucket struct {
	TotalSales  float64
	TotalMargin float64
	Count       int
}

// Account is identified by its name within a single report run.
// Totals are only ever changed through Record so they always equal the
// sum of the year buckets.
type Account struct {
	Name        string
	Years       map[int]YearBucket
	TotalSales  float64
	TotalMargin float64
	TotalCount  int
	Ranking     Ranking
}

func NewAccount(name string) *Account {
	return &Account{
		Name:  name,
		Years: make(map[int]YearBucket),
	}
}

// Record adds one fact to the year bucket and to the running totals in a
// single step.
func (a *Account) Record(year int, sales, margin float64) {
	b := a.Years[year]
	b.TotalSales += sales
	b.TotalMargin += margin
	b.Count++
	a.Years[year] = b

	a.TotalSales += sales
	a.TotalMargin += margin
	a.TotalCount++
}

// Year returns the bucket for year, or a zero bucket when the account has no
// sales in that year.
func (a *Account) Year(year int) YearBucket {
	return a.Years[year]
}

// RankingBucket holds the accounts of one tier and their summed totals.
type RankingBucket struct {
	Ranking     Ranking
	Accounts    []*Account
	TotalSales  float64
	TotalMargin float64
	TotalCount  int
}

func (b *RankingBucket) Add(account *Account) {
	b.Accounts = append(b.Accounts, account)
	b.TotalSales += account.TotalSales
	b.TotalMargin += account.TotalMargin
	b.TotalCount += account.TotalCount
}

func (b *RankingBucket) IsEmpty() bool {
	return len(b.Accounts) == 0
}

// YearTotals sums the member accounts' buckets for one year.
func (b *RankingBucket) YearTotals(year int) YearBucket {
	var total YearBucket
	for _, account := range b.Accounts {
		y := account.Year(year)
		total.TotalSales += y.TotalSales
		total.TotalMargin += y.TotalMargin
		total.Count += y.Count
	}
	return total
}

// Report is the assembled result of one build: the three tiers in A, B, C
// order. Empty marks a build whose filtered record set had no records.
type Report struct {
	Buckets []RankingBucket
	Empty   bool
}

// NewEmptyReport returns a report with three empty tiers.
func NewEmptyReport() Report {
	buckets := make([]RankingBucket, 0, len(Rankings))
	for _, r := range Rankings {
		buckets = append(buckets, RankingBucket{Ranking: r})
	}
	return Report{Buckets: buckets, Empty: true}
}

// Bucket returns the tier with the given ranking, or nil.
func (r Report) Bucket(ranking Ranking) *RankingBucket {
	for i := range r.Buckets {
		if r.Buckets[i].Ranking == ranking {
			return &r.Buckets[i]
		}
	}
	return nil
}

// Years is the union of years across all accounts, newest first.
func (r Report) Years() []int {
	seen := make(map[int]struct{})
	for _, bucket := range r.Buckets {
		for _, account := range bucket.Accounts {
			for year := range account.Years {
				seen[year] = struct{}{}
			}
		}
	}

	years := make([]int, 0, len(seen))
	for year := range seen {
		years = append(years, year)
	}
	slices.SortFunc(years, func(a, b int) int { return b - a })
	return years
}

// AccountCount returns the number of accounts across all tiers.
func (r Report) AccountCount() int {
	n := 0
	for _, bucket := range r.Buckets {
		n += len(bucket.Accounts)
	}
	return n
}

// Basis selects which account total a policy looks at.
type Basis string

const (
	BasisMargin Basis = "margin"
	BasisSales  Basis = "sales"
)

func ParseBasis(s string) (Basis, bool) {
	switch Basis(strings.ToLower(strings.TrimSpace(s))) {
	case BasisMargin:
		return BasisMargin, true
	case BasisSales:
		return BasisSales, true
	}
	return "", false
}

// Value returns the account total the basis refers to.
func (b Basis) Value(account *Account) float64 {
	if b == BasisSales {
		return account.TotalSales
	}
	return account.TotalMargin
}
