package forecast

import (
	"fmt"
	"strings"
	"time"
)

const day = 24 * time.Hour

// MonthKey formats t as "YYYY-MM" in UTC.
func MonthKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// QuarterKey formats t as "YYYY-Qn" with calendar quarters 1..4.
func QuarterKey(t time.Time) string {
	u := t.UTC()
	return fmt.Sprintf("%d-Q%d", u.Year(), (int(u.Month())-1)/3+1)
}

func MonthStart(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// ParseMonthKey parses "YYYY-MM" into the first instant of that month (UTC).
func ParseMonthKey(s string) (time.Time, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q: want YYYY-MM", s)
	}
	return t.UTC(), nil
}

// Horizon selects how far ahead the pipeline forecast looks.
type Horizon string

const (
	// HorizonThreeMonths covers the current month and the next two.
	HorizonThreeMonths Horizon = "3m"
	// HorizonQuarterEnd runs from now through the end of the next calendar quarter.
	HorizonQuarterEnd Horizon = "quarter"
)

func ParseHorizon(s string) (Horizon, error) {
	switch Horizon(strings.ToLower(strings.TrimSpace(s))) {
	case HorizonThreeMonths, "3months", "three_months":
		return HorizonThreeMonths, nil
	case HorizonQuarterEnd, "quarter_end", "q":
		return HorizonQuarterEnd, nil
	default:
		return "", fmt.Errorf("unknown horizon %q", s)
	}
}

// End returns the exclusive end of the horizon as seen from now. An unset
// horizon behaves as HorizonQuarterEnd.
func (h Horizon) End(now time.Time) time.Time {
	start := MonthStart(now)
	if h == HorizonThreeMonths {
		return start.AddDate(0, 3, 0)
	}
	q0 := (int(start.Month()) - 1) / 3
	// time.Date normalizes months past December into the next year.
	return time.Date(start.Year(), time.Month((q0+2)*3+1), 1, 0, 0, 0, 0, time.UTC)
}

// Months lists the first day of every month from MonthStart(now) up to end.
func Months(now, end time.Time) []time.Time {
	var out []time.Time
	for m := MonthStart(now); m.Before(end); m = m.AddDate(0, 1, 0) {
		out = append(out, m)
	}
	return out
}
