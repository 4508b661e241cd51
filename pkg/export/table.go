package export

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/de-tools/account-ranking/pkg/models/domain"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const summaryName = "RANK TOTAL"

// Labels names the tiers after the thresholds they were ranked with.
type Labels struct {
	Upper float64
	Lower float64
	Basis domain.Basis
}

func NewLabels(upper, lower float64, basis domain.Basis) Labels {
	if parsed, ok := domain.ParseBasis(string(basis)); ok {
		basis = parsed
	}
	return Labels{Upper: upper, Lower: lower, Basis: basis}
}

// For returns e.g. "A (>$30K margin)".
func (l Labels) For(r domain.Ranking) string {
	basis := string(l.Basis)
	if basis == "" {
		basis = string(domain.BasisMargin)
	}
	switch r {
	case domain.RankingA:
		return fmt.Sprintf("A (>%s %s)", compactMoney(l.Upper), basis)
	case domain.RankingB:
		return fmt.Sprintf("B (%s-%s %s)", compactMoney(l.Lower), compactMoney(l.Upper), basis)
	case domain.RankingC:
		return fmt.Sprintf("C (<%s %s)", compactMoney(l.Lower), basis)
	}
	return string(r)
}

func compactMoney(v float64) string {
	abs := math.Abs(v)
	switch {
	case abs >= 1e6:
		return "$" + strconv.FormatFloat(v/1e6, 'f', -1, 64) + "M"
	case abs >= 1e3:
		return "$" + strconv.FormatFloat(v/1e3, 'f', -1, 64) + "K"
	}
	return "$" + strconv.FormatFloat(v, 'f', -1, 64)
}

// row is one line of a tier table: the account name followed by a
// sales/margin/count triplet per year and the multi-year triplet.
type row struct {
	Name    string
	Years   []domain.YearBucket
	Total   domain.YearBucket
	Summary bool
}

type section struct {
	Ranking domain.Ranking
	Label   string
	Bucket  *domain.RankingBucket
	Rows    []row
}

// sections lays out the non-empty tiers of the view in A, B, C order.
func sections(v View) ([]int, []section) {
	years := v.Report.Years()
	var out []section
	for i := range v.Report.Buckets {
		bucket := &v.Report.Buckets[i]
		if bucket.IsEmpty() {
			continue
		}

		s := section{
			Ranking: bucket.Ranking,
			Label:   v.Labels.For(bucket.Ranking),
			Bucket:  bucket,
		}
		for _, account := range bucket.Accounts {
			r := row{
				Name: account.Name,
				Total: domain.YearBucket{
					TotalSales:  account.TotalSales,
					TotalMargin: account.TotalMargin,
					Count:       account.TotalCount,
				},
			}
			for _, year := range years {
				r.Years = append(r.Years, account.Year(year))
			}
			s.Rows = append(s.Rows, r)
		}

		summary := row{
			Name: summaryName,
			Total: domain.YearBucket{
				TotalSales:  bucket.TotalSales,
				TotalMargin: bucket.TotalMargin,
				Count:       bucket.TotalCount,
			},
			Summary: true,
		}
		for _, year := range years {
			summary.Years = append(summary.Years, bucket.YearTotals(year))
		}
		s.Rows = append(s.Rows, summary)
		out = append(out, s)
	}
	return years, out
}

// headers returns the column titles of a tier table.
func headers(years []int) []string {
	h := []string{"Account Name"}
	for _, year := range years {
		h = append(h,
			fmt.Sprintf("%d Total Sales", year),
			fmt.Sprintf("%d Total Margin", year),
			fmt.Sprintf("%d # Sales", year),
		)
	}
	return append(h, "3-Year Total Sales", "3-Year Total Margin", "3-Year # Sales")
}

// formatNumber prints the shortest representation that round-trips, in
// exponent form ("1e+21", "1.5e-7") outside [1e-6, 1e21) like a JavaScript
// number does.
func formatNumber(v float64) string {
	if v == 0 {
		return "0"
	}
	abs := math.Abs(v)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(v, 'e', -1, 64)
		mantissa, exp, _ := strings.Cut(s, "e")
		sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
		return mantissa + "e" + sign + digits
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var printer = message.NewPrinter(language.AmericanEnglish)

// FormatCurrency formats whole US dollars, e.g. "$1,235" or "-$40".
func FormatCurrency(v float64) string {
	rounded := math.Round(v)
	if rounded == 0 {
		return "$0"
	}
	if rounded < 0 {
		return "-$" + printer.Sprint(number.Decimal(-rounded, number.MaxFractionDigits(0)))
	}
	return "$" + printer.Sprint(number.Decimal(rounded, number.MaxFractionDigits(0)))
}

// SortDescription describes the active sort, e.g. "2024 Total Sales (descending)".
func SortDescription(s domain.SortState) string {
	if !s.IsActive() {
		return ""
	}
	var column string
	switch s.Key {
	case domain.SortKeyName:
		column = "Account Name"
	case domain.SortKeyTotalSales:
		column = "Total Sales"
	case domain.SortKeyTotalMargin:
		column = "Total Margin"
	case domain.SortKeyCount:
		column = "# Sales"
	default:
		column = string(s.Key)
	}
	if s.Year != 0 {
		column = fmt.Sprintf("%d %s", s.Year, column)
	} else if s.Key != domain.SortKeyName {
		column = "3-Year " + column
	}
	direction := "descending"
	if s.Direction == domain.Ascending {
		direction = "ascending"
	}
	return fmt.Sprintf("%s (%s)", column, direction)
}
