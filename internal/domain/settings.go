package domain

import (
	"fmt"
	"time"
)

const (
	MinMonthsCount      = 1
	MaxMonthsCount      = 36
	DefaultMonthsCount  = 12
	DefaultWeekendColor = "#ffcccc"
)

// DisplaySettings controls which months are laid out and how weekends look.
type DisplaySettings struct {
	StartMonth        YearMonth `json:"startMonth" yaml:"startMonth"`
	MonthsCount       int       `json:"monthsCount" yaml:"monthsCount"`
	HighlightWeekends bool      `json:"highlightWeekends" yaml:"highlightWeekends"`
	WeekendColor      string    `json:"weekendColor" yaml:"weekendColor"`
}

// DefaultSettings returns the settings of a fresh calendar starting at the
// month containing now.
func DefaultSettings(now time.Time) DisplaySettings {
	return DisplaySettings{
		StartMonth:        YearMonthOf(now),
		MonthsCount:       DefaultMonthsCount,
		HighlightWeekends: false,
		WeekendColor:      DefaultWeekendColor,
	}
}

// Validate checks the settings a user submits.
func (s DisplaySettings) Validate() error {
	if s.StartMonth.IsZero() {
		return fmt.Errorf("%w: start month is required", ErrValidation)
	}
	if s.MonthsCount < MinMonthsCount || s.MonthsCount > MaxMonthsCount {
		return fmt.Errorf("%w: months count must be between %d and %d", ErrValidation, MinMonthsCount, MaxMonthsCount)
	}
	if !IsHexColor(s.WeekendColor) {
		return fmt.Errorf("%w: weekend color must be a #RRGGBB value", ErrValidation)
	}
	return nil
}

// Months returns the displayed months in order.
func (s DisplaySettings) Months() []YearMonth {
	months := make([]YearMonth, 0, s.MonthsCount)
	for i := 0; i < s.MonthsCount; i++ {
		months = append(months, s.StartMonth.AddMonths(i))
	}
	return months
}
