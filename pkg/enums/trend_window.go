package enums

import "fmt"

// TrendWindow selects the reporting span for dashboard trend series.
type TrendWindow string

const (
	TrendWindowDaily   TrendWindow = "daily"
	TrendWindowWeekly  TrendWindow = "weekly"
	TrendWindowMonthly TrendWindow = "monthly"
)

var validTrendWindows = []TrendWindow{
	TrendWindowDaily,
	TrendWindowWeekly,
	TrendWindowMonthly,
}

// String implements fmt.Stringer.
func (w TrendWindow) String() string {
	return string(w)
}

// IsValid reports whether the value is a known TrendWindow.
func (w TrendWindow) IsValid() bool {
	for _, candidate := range validTrendWindows {
		if candidate == w {
			return true
		}
	}
	return false
}

// ParseTrendWindow converts raw input into a TrendWindow.
func ParseTrendWindow(value string) (TrendWindow, error) {
	for _, candidate := range validTrendWindows {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid trend window %q", value)
}
