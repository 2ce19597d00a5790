package timeutil

import (
	"fmt"
	"time"
)

// ISTOffset is the fixed UTC+5:30 offset used for all rendered timestamps.
const ISTOffset = 5*time.Hour + 30*time.Minute

// FormatWithOffset renders t shifted by the given fixed offset as
// "DD-MM-YYYY HH:MM:SS <label>". The host timezone never participates.
func FormatWithOffset(t time.Time, offset time.Duration, label string) string {
	shifted := t.UTC().Add(offset)
	return fmt.Sprintf("%02d-%02d-%04d %02d:%02d:%02d %s",
		shifted.Day(), int(shifted.Month()), shifted.Year(),
		shifted.Hour(), shifted.Minute(), shifted.Second(), label)
}

// FormatIST renders t as "DD-MM-YYYY HH:MM:SS IST".
func FormatIST(t time.Time) string {
	return FormatWithOffset(t, ISTOffset, "IST")
}

// NowISO returns the current time as an ISO-8601 string at +05:30,
// e.g. "2024-01-15T18:30:00.000+05:30". Used by the health endpoint.
func NowISO() string {
	zone := time.FixedZone("IST", int(ISTOffset/time.Second))
	return time.Now().In(zone).Format("2006-01-02T15:04:05.000-07:00")
}

// MonthRange returns the first instant of now's calendar month and the last
// millisecond of its final day, both in UTC.
func MonthRange(now time.Time) (start, end time.Time) {
	now = now.UTC()
	start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	end = start.AddDate(0, 1, 0).Add(-time.Millisecond)
	return start, end
}

// EndOfDay pushes t to 23:59:59.999 of the same day. Used to make endDate
// range filters inclusive.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999000000, t.Location())
}

// ParseDate accepts either a bare date ("2006-01-02") or a full RFC3339
// timestamp.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
