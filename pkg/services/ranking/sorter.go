package ranking

import (
	"cmp"
	"slices"
	"strings"

	"github.com/de-tools/account-ranking/pkg/models/domain"
)

// Sorter orders the accounts of a bucket. It never mutates its input.
//
// The column comparator is two-way: an account only moves behind another
// when its value is strictly greater (ascending) or strictly smaller
// (descending). Equal values therefore end up with the later account in
// front of the earlier one, unless stableTies is set.
type Sorter struct {
	defaultOrder domain.Basis
	stableTies   bool
}

func NewSorter(settings Settings) *Sorter {
	settings = settings.Canonical()
	return &Sorter{
		defaultOrder: settings.DefaultOrder,
		stableTies:   settings.StableTies,
	}
}

// Apply orders accounts by the active column of state, or by the default
// order when no column is active.
func (s *Sorter) Apply(accounts []*domain.Account, state domain.SortState) []*domain.Account {
	if !state.IsActive() {
		return s.Default(accounts)
	}
	return s.Sort(accounts, state.Key, state.Direction, state.Year)
}

// Default orders accounts by the configured total, largest first. Equal
// totals keep their incoming order.
func (s *Sorter) Default(accounts []*domain.Account) []*domain.Account {
	out := slices.Clone(accounts)
	slices.SortStableFunc(out, func(a, b *domain.Account) int {
		return cmp.Compare(s.defaultOrder.Value(b), s.defaultOrder.Value(a))
	})
	return out
}

// Sort orders accounts by key in direction. A non-zero year compares that
// year's bucket, treating a missing year as zero. Unknown keys, and the name
// key within a year, leave the order unchanged.
func (s *Sorter) Sort(accounts []*domain.Account, key domain.SortKey, direction domain.Direction, year int) []*domain.Account {
	out := slices.Clone(accounts)

	natural := comparator(key, year)
	if natural == nil {
		return out
	}

	type entry struct {
		account *domain.Account
		pos     int
	}
	entries := make([]entry, len(out))
	for i, account := range out {
		entries[i] = entry{account: account, pos: i}
	}

	slices.SortFunc(entries, func(a, b entry) int {
		c := natural(a.account, b.account)
		if direction != domain.Ascending {
			c = -c
		}
		if c != 0 {
			return c
		}
		if s.stableTies {
			return cmp.Compare(a.pos, b.pos)
		}
		return cmp.Compare(b.pos, a.pos)
	})

	for i, e := range entries {
		out[i] = e.account
	}
	return out
}

func comparator(key domain.SortKey, year int) func(a, b *domain.Account) int {
	if year != 0 {
		var field func(domain.YearBucket) float64
		switch key {
		case domain.SortKeyTotalSales:
			field = func(y domain.YearBucket) float64 { return y.TotalSales }
		case domain.SortKeyTotalMargin:
			field = func(y domain.YearBucket) float64 { return y.TotalMargin }
		case domain.SortKeyCount:
			field = func(y domain.YearBucket) float64 { return float64(y.Count) }
		default:
			return nil
		}
		return func(a, b *domain.Account) int {
			return cmp.Compare(field(a.Year(year)), field(b.Year(year)))
		}
	}

	switch key {
	case domain.SortKeyTotalSales:
		return func(a, b *domain.Account) int { return cmp.Compare(a.TotalSales, b.TotalSales) }
	case domain.SortKeyTotalMargin:
		return func(a, b *domain.Account) int { return cmp.Compare(a.TotalMargin, b.TotalMargin) }
	case domain.SortKeyCount:
		return func(a, b *domain.Account) int { return cmp.Compare(a.TotalCount, b.TotalCount) }
	case domain.SortKeyName:
		return func(a, b *domain.Account) int {
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		}
	}
	return nil
}
