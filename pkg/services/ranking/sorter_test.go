package ranking

import (
	"testing"

	"github.com/de-tools/account-ranking/pkg/models/domain"
	"github.com/stretchr/testify/assert"
)

func names(accounts []*domain.Account) []string {
	out := make([]string, len(accounts))
	for i, a := range accounts {
		out[i] = a.Name
	}
	return out
}

func yearly(name string, years map[int][2]float64) *domain.Account {
	a := domain.NewAccount(name)
	for year, v := range years {
		a.Record(year, v[0], v[1])
	}
	return a
}

func TestSorter_TotalColumns(t *testing.T) {
	s := NewSorter(DefaultSettings())
	accounts := []*domain.Account{
		accountWith("bravo", 300, 10),
		accountWith("Alpha", 100, 30),
		accountWith("charlie", 200, 20),
	}

	tests := []struct {
		name      string
		key       domain.SortKey
		direction domain.Direction
		expected  []string
	}{
		{"sales asc", domain.SortKeyTotalSales, domain.Ascending, []string{"Alpha", "charlie", "bravo"}},
		{"sales desc", domain.SortKeyTotalSales, domain.Descending, []string{"bravo", "charlie", "Alpha"}},
		{"margin desc", domain.SortKeyTotalMargin, domain.Descending, []string{"Alpha", "charlie", "bravo"}},
		{"name asc is case-insensitive", domain.SortKeyName, domain.Ascending, []string{"Alpha", "bravo", "charlie"}},
		{"name desc", domain.SortKeyName, domain.Descending, []string{"charlie", "bravo", "Alpha"}},
		{"unknown key keeps order", domain.SortKey("profitability"), domain.Descending, []string{"bravo", "Alpha", "charlie"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := s.Sort(accounts, tc.key, tc.direction, 0)
			assert.Equal(t, tc.expected, names(got))
		})
	}

	assert.Equal(t, []string{"bravo", "Alpha", "charlie"}, names(accounts), "input must not be reordered")
}

func TestSorter_CountColumn(t *testing.T) {
	s := NewSorter(DefaultSettings())
	one := accountWith("one", 0, 0)
	three := accountWith("three", 0, 0)
	three.Record(2024, 0, 0)
	three.Record(2023, 0, 0)

	got := s.Sort([]*domain.Account{one, three}, domain.SortKeyCount, domain.Descending, 0)
	assert.Equal(t, []string{"three", "one"}, names(got))
}

func TestSorter_YearScope(t *testing.T) {
	s := NewSorter(DefaultSettings())
	accounts := []*domain.Account{
		yearly("old", map[int][2]float64{2022: {900, 90}}),
		yearly("both", map[int][2]float64{2022: {10, 1}, 2024: {50, 5}}),
		yearly("new", map[int][2]float64{2024: {100, 10}}),
	}

	got := s.Sort(accounts, domain.SortKeyTotalSales, domain.Descending, 2024)
	assert.Equal(t, []string{"new", "both", "old"}, names(got))

	got = s.Sort(accounts, domain.SortKeyTotalMargin, domain.Descending, 2022)
	assert.Equal(t, []string{"old", "both", "new"}, names(got))

	got = s.Sort(accounts, domain.SortKeyCount, domain.Ascending, 2024)
	// old has no 2024 bucket; both and new tie at one sale.
	assert.Equal(t, []string{"old", "new", "both"}, names(got))

	got = s.Sort(accounts, domain.SortKeyName, domain.Ascending, 2024)
	assert.Equal(t, []string{"old", "both", "new"}, names(got), "name has no year-scoped column")
}

func TestSorter_TiesPlaceLaterAccountsFirst(t *testing.T) {
	s := NewSorter(DefaultSettings())
	accounts := []*domain.Account{
		accountWith("a", 1, 0),
		accountWith("b", 2, 0),
		accountWith("c", 1, 0),
		accountWith("d", 1, 0),
	}

	got := s.Sort(accounts, domain.SortKeyTotalSales, domain.Ascending, 0)
	assert.Equal(t, []string{"d", "c", "a", "b"}, names(got))

	got = s.Sort(accounts, domain.SortKeyTotalSales, domain.Descending, 0)
	assert.Equal(t, []string{"b", "d", "c", "a"}, names(got))
}

func TestSorter_StableTies(t *testing.T) {
	settings := DefaultSettings()
	settings.StableTies = true
	s := NewSorter(settings)
	accounts := []*domain.Account{
		accountWith("a", 1, 0),
		accountWith("b", 2, 0),
		accountWith("c", 1, 0),
	}

	got := s.Sort(accounts, domain.SortKeyTotalSales, domain.Ascending, 0)
	assert.Equal(t, []string{"a", "c", "b"}, names(got))
}

func TestSorter_DefaultOrder(t *testing.T) {
	accounts := []*domain.Account{
		accountWith("low-margin-high-sales", 9000, 100),
		accountWith("high-margin", 500, 400),
		accountWith("tie-first", 100, 100),
	}

	margin := NewSorter(DefaultSettings())
	got := margin.Apply(accounts, domain.InitialSortState())
	assert.Equal(t, []string{"high-margin", "low-margin-high-sales", "tie-first"}, names(got))

	settings := DefaultSettings()
	settings.DefaultOrder = domain.BasisSales
	sales := NewSorter(settings)
	got = sales.Apply(accounts, domain.InitialSortState())
	assert.Equal(t, []string{"low-margin-high-sales", "high-margin", "tie-first"}, names(got))
}

func TestSorter_ApplyActiveState(t *testing.T) {
	s := NewSorter(DefaultSettings())
	accounts := []*domain.Account{
		accountWith("x", 1, 5),
		accountWith("y", 2, 1),
	}

	state := domain.InitialSortState().Toggle(domain.SortKeyTotalSales, 0)
	assert.Equal(t, []string{"y", "x"}, names(s.Apply(accounts, state)))

	state = state.Toggle(domain.SortKeyTotalSales, 0)
	assert.Equal(t, []string{"x", "y"}, names(s.Apply(accounts, state)))
}
