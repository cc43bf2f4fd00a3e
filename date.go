package legalfeed

import "time"

// DateLayout is the normalized record date format (DD-MM-YYYY).
const DateLayout = "02-01-2006"

// ParseDate parses a normalized record date.
func ParseDate(fecha string) (time.Time, error) {
	t, err := time.Parse(DateLayout, fecha)
	if err != nil {
		return time.Time{}, Errorf(EINVALID, "invalid date %q", fecha)
	}
	return t, nil
}

// InDateRange reports whether fecha falls within [from, to]. Empty or
// unparseable bounds are open. A record date that cannot be parsed is
// reported as in range.
func InDateRange(fecha, from, to string) bool {
	t, err := ParseDate(fecha)
	if err != nil {
		return true
	}
	if lo, err := ParseDate(from); err == nil && t.Before(lo) {
		return false
	}
	if hi, err := ParseDate(to); err == nil && t.After(hi) {
		return false
	}
	return true
}

// OnOrAfter reports whether fecha is on or after cutoff, with the same
// conservative policy for unparseable dates as InDateRange.
func OnOrAfter(fecha string, cutoff time.Time) bool {
	t, err := ParseDate(fecha)
	if err != nil {
		return true
	}
	y, m, d := cutoff.Date()
	return !t.Before(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}
