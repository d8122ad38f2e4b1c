// Package dates provides the date range and format-conversion helpers
// shared by provider adapters.
package dates

import (
	"strconv"
	"time"
)

const isoLayout = "2006-01-02"

// Range returns the [from, to] window of the last days days as
// YYYY-MM-DD strings, anchored on the current UTC date.
func Range(days int) (from, to string) {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	fromDate := today.AddDate(0, 0, -days)
	return fromDate.Format(isoLayout), today.Format(isoLayout)
}

// DaysAgo returns how many days before today dateStr falls, or false if
// dateStr cannot be parsed as YYYY-MM-DD.
func DaysAgo(dateStr string) (int, bool) {
	if dateStr == "" {
		return 0, false
	}
	dt, err := time.Parse(isoLayout, dateStr)
	if err != nil {
		return 0, false
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	return int(today.Sub(dt).Hours() / 24), true
}

// RecencyScore maps a date's age to 0-100: 0 days ago scores 100,
// maxDays or older scores 0. An unparseable date scores 0 (treated as
// maximally stale).
func RecencyScore(dateStr string, maxDays int) int {
	age, ok := DaysAgo(dateStr)
	if !ok {
		return 0
	}
	if age < 0 {
		return 100
	}
	if age >= maxDays {
		return 0
	}
	return int(100 * (1 - float64(age)/float64(maxDays)))
}

// OffsetDate shifts a YYYY-MM-DD date string by days (may be negative).
func OffsetDate(dateStr string, days int) (string, error) {
	dt, err := time.Parse(isoLayout, dateStr)
	if err != nil {
		return "", err
	}
	return dt.AddDate(0, 0, days).Format(isoLayout), nil
}

// ToWikimediaFormat converts YYYY-MM-DD to YYYYMMDD00 (Wikimedia
// Pageviews API format: trailing 00 is hour 00, start of day).
func ToWikimediaFormat(dateStr string) string {
	return compact(dateStr) + "00"
}

// ToGDELTFormat converts YYYY-MM-DD to YYYYMMDDHHMMSS (GDELT DOC 2.0
// API format: trailing six zeros is midnight).
func ToGDELTFormat(dateStr string) string {
	return compact(dateStr) + "000000"
}

// ToAPIFormat is the identity function: npm, PyPI, and ISO-consuming
// APIs take YYYY-MM-DD directly. Kept for documentation symmetry with
// the other format converters.
func ToAPIFormat(dateStr string) string {
	return dateStr
}

func compact(dateStr string) string {
	out := make([]byte, 0, len(dateStr))
	for i := 0; i < len(dateStr); i++ {
		if dateStr[i] != '-' {
			out = append(out, dateStr[i])
		}
	}
	return string(out)
}

// CurrentYear returns the current UTC year.
func CurrentYear() int {
	return time.Now().UTC().Year()
}

// YearString formats a year as a decimal string, matching the yearly
// timestamp format used by year-granularity signals.
func YearString(year int) string {
	return strconv.Itoa(year)
}
