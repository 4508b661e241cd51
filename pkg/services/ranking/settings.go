package ranking

import (
	"fmt"

	"github.com/de-tools/account-ranking/pkg/models/domain"
)

// Settings contains the configurable policies of the ranking engine
type Settings struct {
	// ExcludedAccounts are placeholder accounts dropped before aggregation (default: "Test Corp")
	ExcludedAccounts []string `mapstructure:"excluded_accounts"`
	// CanceledMarker drops records whose status contains it, case-insensitively (default: "canceled")
	CanceledMarker string `mapstructure:"canceled_marker"`
	// UpperThreshold is the total above which an account ranks A (default: 30000)
	UpperThreshold float64 `mapstructure:"upper_threshold"`
	// LowerThreshold is the total below which an account ranks C (default: 3000)
	LowerThreshold float64 `mapstructure:"lower_threshold"`
	// RankBasis selects the total compared to the thresholds (default: margin)
	RankBasis domain.Basis `mapstructure:"rank_basis"`
	// DefaultOrder selects the total used to order accounts when no column is sorted (default: margin)
	DefaultOrder domain.Basis `mapstructure:"default_order"`
	// StableTies keeps equal rows in incoming order instead of placing later rows first (default: false)
	StableTies bool `mapstructure:"stable_ties"`
}

// DefaultSettings returns the canonical engine configuration
func DefaultSettings() Settings {
	return Settings{
		ExcludedAccounts: []string{"Test Corp"},
		CanceledMarker:   "canceled",
		UpperThreshold:   30000,
		LowerThreshold:   3000,
		RankBasis:        domain.BasisMargin,
		DefaultOrder:     domain.BasisMargin,
		StableTies:       false,
	}
}

// Canonical returns s with RankBasis and DefaultOrder in their parsed
// form, so "Sales" and " SALES " both select the sales total.
func (s Settings) Canonical() Settings {
	if b, ok := domain.ParseBasis(string(s.RankBasis)); ok {
		s.RankBasis = b
	}
	if b, ok := domain.ParseBasis(string(s.DefaultOrder)); ok {
		s.DefaultOrder = b
	}
	return s
}

func (s Settings) Validate() error {
	if s.LowerThreshold > s.UpperThreshold {
		return fmt.Errorf("lower threshold %.2f exceeds upper threshold %.2f", s.LowerThreshold, s.UpperThreshold)
	}
	if _, ok := domain.ParseBasis(string(s.RankBasis)); !ok {
		return fmt.Errorf("unsupported rank basis %q", s.RankBasis)
	}
	if _, ok := domain.ParseBasis(string(s.DefaultOrder)); !ok {
		return fmt.Errorf("unsupported default order %q", s.DefaultOrder)
	}
	return nil
}
