package ranking

import (
	"encoding/json"
	"testing"

	"github.com/de-tools/account-ranking/pkg/models/domain"
	"github.com/de-tools/account-ranking/pkg/models/store"
	"github.com/stretchr/testify/assert"
)

func TestNormalizer_Normalize(t *testing.T) {
	n := NewNormalizer(DefaultSettings())

	tests := []struct {
		name     string
		record   store.SalesRecord
		expected domain.Fact
		skipped  bool
	}{
		{
			name:     "numeric strings",
			record:   store.SalesRecord{Account: "Acme", Date: "2024-03-01", Total: "10000", Profit: "4000"},
			expected: domain.Fact{Account: "Acme", Year: 2024, Amount: 10000, Margin: 4000},
		},
		{
			name:     "json numbers",
			record:   store.SalesRecord{Account: "Acme", Date: "2023-12-31", Total: json.Number("25000"), Profit: json.Number("-120.5")},
			expected: domain.Fact{Account: "Acme", Year: 2023, Amount: 25000, Margin: -120.5},
		},
		{
			name:     "native numbers",
			record:   store.SalesRecord{Account: "Acme", Date: "2025-01-15", Total: 8000.0, Profit: 1200},
			expected: domain.Fact{Account: "Acme", Year: 2025, Amount: 8000, Margin: 1200},
		},
		{
			name:     "missing and garbage numerics default to zero",
			record:   store.SalesRecord{Account: "Acme", Date: "2024-01-01", Total: nil, Profit: "n/a"},
			expected: domain.Fact{Account: "Acme", Year: 2024, Amount: 0, Margin: 0},
		},
		{
			name:     "numeric prefix is read",
			record:   store.SalesRecord{Account: "Acme", Date: "2024-01-01", Total: " 12.5 USD", Profit: "1,234"},
			expected: domain.Fact{Account: "Acme", Year: 2024, Amount: 12.5, Margin: 1},
		},
		{
			name:     "boolean is not a number",
			record:   store.SalesRecord{Account: "Acme", Date: "2024-01-01", Total: true, Profit: false},
			expected: domain.Fact{Account: "Acme", Year: 2024},
		},
		{
			name:     "account is kept as supplied",
			record:   store.SalesRecord{Account: "  Acme\r\n", Date: "2024-01-01", Total: "1"},
			expected: domain.Fact{Account: "  Acme\r\n", Year: 2024, Amount: 1},
		},
		{
			name:     "US date",
			record:   store.SalesRecord{Account: "Acme", Date: "03/01/2022", Total: "1"},
			expected: domain.Fact{Account: "Acme", Year: 2022, Amount: 1},
		},
		{
			name:     "timestamp",
			record:   store.SalesRecord{Account: "Acme", Date: "2021-06-30T23:15:00Z", Total: "1"},
			expected: domain.Fact{Account: "Acme", Year: 2021, Amount: 1},
		},
		{
			name:    "canceled status",
			record:  store.SalesRecord{Account: "Acme", Date: "2024-01-01", Total: "1", Status: "Canceled"},
			skipped: true,
		},
		{
			name:    "canceled status in any case and position",
			record:  store.SalesRecord{Account: "Acme", Date: "2024-01-01", Total: "1", Status: "Order CANCELED by client"},
			skipped: true,
		},
		{
			name:    "excluded account",
			record:  store.SalesRecord{Account: "Test Corp", Date: "2024-01-01", Total: "1"},
			skipped: true,
		},
		{
			name:    "excluded account with carriage return",
			record:  store.SalesRecord{Account: "Test Corp\r", Date: "2024-01-01", Total: "1"},
			skipped: true,
		},
		{
			name:    "unreadable date",
			record:  store.SalesRecord{Account: "Acme", Date: "sometime", Total: "1"},
			skipped: true,
		},
		{
			name:    "missing date",
			record:  store.SalesRecord{Account: "Acme", Total: "1"},
			skipped: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fact, ok := n.Normalize(tc.record)
			assert.Equal(t, !tc.skipped, ok)
			if !tc.skipped {
				assert.Equal(t, tc.expected, fact)
			}
		})
	}
}

func TestNormalizer_ConfigurableExclusions(t *testing.T) {
	settings := DefaultSettings()
	settings.ExcludedAccounts = []string{"Placeholder Inc"}
	settings.CanceledMarker = "void"
	n := NewNormalizer(settings)

	_, ok := n.Normalize(store.SalesRecord{Account: "Test Corp", Date: "2024-01-01"})
	assert.True(t, ok, "default sentinel is no longer excluded")

	_, ok = n.Normalize(store.SalesRecord{Account: " Placeholder Inc ", Date: "2024-01-01"})
	assert.False(t, ok)

	_, ok = n.Normalize(store.SalesRecord{Account: "Acme", Date: "2024-01-01", Status: "Canceled"})
	assert.True(t, ok)

	_, ok = n.Normalize(store.SalesRecord{Account: "Acme", Date: "2024-01-01", Status: "VOID"})
	assert.False(t, ok)
}

func TestNormalizer_InternalWhitespaceIsKept(t *testing.T) {
	n := NewNormalizer(DefaultSettings())

	a, _ := n.Normalize(store.SalesRecord{Account: "Acme Corp", Date: "2024-01-01"})
	b, _ := n.Normalize(store.SalesRecord{Account: "Acme  Corp", Date: "2024-01-01"})
	c, _ := n.Normalize(store.SalesRecord{Account: "acme corp", Date: "2024-01-01"})

	d, _ := n.Normalize(store.SalesRecord{Account: "Acme Corp ", Date: "2024-01-01"})

	assert.NotEqual(t, a.Account, b.Account)
	assert.NotEqual(t, a.Account, c.Account)
	assert.NotEqual(t, a.Account, d.Account)
}
