package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrUnknownSortKey = errors.New("unknown sort key")

// SortKey names a sortable column. The same numeric keys are used for the
// multi-year totals and for a single year's columns.
type SortKey string

const (
	SortKeyNone        SortKey = ""
	SortKeyName        SortKey = "name"
	SortKeyTotalSales  SortKey = "totalSales"
	SortKeyTotalMargin SortKey = "totalMargin"
	SortKeyCount       SortKey = "count"
)

func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.TrimSpace(s)); k {
	case SortKeyName, SortKeyTotalSales, SortKeyTotalMargin, SortKeyCount:
		return k, nil
	}
	return SortKeyNone, fmt.Errorf("%w: %q", ErrUnknownSortKey, s)
}

// ParseSortColumn parses "key" or "key:year".
func ParseSortColumn(s string) (SortKey, int, error) {
	name, yearStr, scoped := strings.Cut(s, ":")
	key, err := ParseSortKey(name)
	if err != nil {
		return SortKeyNone, 0, err
	}
	if !scoped {
		return key, 0, nil
	}
	year, err := strconv.Atoi(strings.TrimSpace(yearStr))
	if err != nil || year <= 0 {
		return SortKeyNone, 0, fmt.Errorf("invalid sort year %q", yearStr)
	}
	return key, year, nil
}

type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// SortState is the active column, direction and optional year scope.
// Year 0 means the column is the multi-year total.
type SortState struct {
	Key       SortKey
	Direction Direction
	Year      int
}

// InitialSortState has no active key; buckets use the default order.
func InitialSortState() SortState {
	return SortState{Key: SortKeyNone, Direction: Ascending}
}

func (s SortState) IsActive() bool {
	return s.Key != SortKeyNone
}

// Toggle returns the state after selecting key/year. Selecting the active
// column flips the direction; any other column starts ascending for names
// and descending for numbers.
func (s SortState) Toggle(key SortKey, year int) SortState {
	next := SortState{Key: key, Year: year}
	switch {
	case s.Key == key && s.Year == year:
		if s.Direction == Ascending {
			next.Direction = Descending
		} else {
			next.Direction = Ascending
		}
	case key == SortKeyName:
		next.Direction = Ascending
	default:
		next.Direction = Descending
	}
	return next
}

// Indicator returns the header arrow for a column, or "".
func (s SortState) Indicator(key SortKey, year int) string {
	if s.Key != key || s.Year != year {
		return ""
	}
	if s.Direction == Ascending {
		return "▲"
	}
	return "▼"
}
