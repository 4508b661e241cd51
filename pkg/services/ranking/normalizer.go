package ranking

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/de-tools/account-ranking/pkg/models/domain"
	"github.com/de-tools/account-ranking/pkg/models/store"
	"github.com/spf13/cast"
)

// dateLayouts are tried in order; the first successful parse wins.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"1/2/2006 15:04:05",
	"1/2/2006 3:04:05 PM",
	"1/2/2006",
	"Jan 2, 2006",
	"2 Jan 2006",
	time.RFC1123Z,
	time.RFC1123,
}

// leadingNumber matches the numeric prefix of a string, so "12.5 USD" reads as 12.5.
var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// Normalizer turns raw records into facts, dropping canceled records,
// excluded accounts and records without a readable date. The account name
// is kept as supplied; only the exclusion check ignores surrounding
// whitespace and carriage returns.
type Normalizer struct {
	excluded map[string]struct{}
	canceled string
}

func NewNormalizer(settings Settings) *Normalizer {
	excluded := make(map[string]struct{}, len(settings.ExcludedAccounts))
	for _, name := range settings.ExcludedAccounts {
		excluded[cleanAccount(name)] = struct{}{}
	}
	return &Normalizer{
		excluded: excluded,
		canceled: strings.ToLower(settings.CanceledMarker),
	}
}

// Normalize returns the fact for rec, or false when the record is skipped.
func (n *Normalizer) Normalize(rec store.SalesRecord) (domain.Fact, bool) {
	if n.canceled != "" && strings.Contains(strings.ToLower(rec.Status), n.canceled) {
		return domain.Fact{}, false
	}

	if _, ok := n.excluded[cleanAccount(rec.Account)]; ok {
		return domain.Fact{}, false
	}

	year, ok := parseYear(rec.Date)
	if !ok {
		return domain.Fact{}, false
	}

	return domain.Fact{
		Account: rec.Account,
		Year:    year,
		Amount:  parseAmount(rec.Total),
		Margin:  parseAmount(rec.Profit),
	}, true
}

// cleanAccount is the name used for exclusion matching.
func cleanAccount(name string) string {
	return strings.TrimSpace(strings.ReplaceAll(name, "\r", ""))
}

func parseYear(value string) (int, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Year(), true
		}
	}
	return 0, false
}

// parseAmount reads a monetary field; anything unreadable is 0.
func parseAmount(value any) float64 {
	var f float64
	switch v := value.(type) {
	case nil, bool:
		return 0
	case string:
		f = parseLeadingFloat(v)
	case json.Number:
		f = parseLeadingFloat(v.String())
	default:
		parsed, err := cast.ToFloat64E(v)
		if err != nil {
			return 0
		}
		f = parsed
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func parseLeadingFloat(s string) float64 {
	m := leadingNumber.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return f
}
