package timezone

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const hour = 60 * 60

// Brazil has not observed DST since 2019, so every zone maps to a fixed offset.
var offsets = map[string]int{
	"America/Sao_Paulo":    -3 * hour,
	"America/Fortaleza":    -3 * hour,
	"America/Recife":       -3 * hour,
	"America/Belem":        -3 * hour,
	"America/Bahia":        -3 * hour,
	"America/Maceio":       -3 * hour,
	"America/Araguaina":    -3 * hour,
	"America/Cuiaba":       -4 * hour,
	"America/Campo_Grande": -4 * hour,
	"America/Manaus":       -4 * hour,
	"America/Porto_Velho":  -4 * hour,
	"America/Boa_Vista":    -4 * hour,
	"America/Rio_Branco":   -5 * hour,
	"America/Eirunepe":     -5 * hour,
	"America/Noronha":      -2 * hour,
}

const fallbackOffset = -3 * hour

var zoneSuffix = regexp.MustCompile(`(?:\.\d+)?(?:Z|[+-]\d{2}:?\d{2})?$`)

var wallClockLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// Offset returns the fixed UTC offset in seconds for tz.
// Unknown zones get -03:00.
func Offset(tz string) int {
	if off, ok := offsets[tz]; ok {
		return off
	}
	return fallbackOffset
}

// Fixed returns a fixed-offset location for tz.
func Fixed(tz string) *time.Location {
	return time.FixedZone(OrDefault(tz), Offset(tz))
}

// StripZone removes a trailing Z, ±HH:MM or fractional seconds from s.
func StripZone(s string) string {
	return zoneSuffix.ReplaceAllString(strings.TrimSpace(s), "")
}

// ToUTC reads local as a wall-clock time in tz and returns the UTC instant.
// Any zone information carried by local is discarded, so callers must never
// pass instants that are already UTC.
func ToUTC(local, tz string) (time.Time, error) {
	clean := StripZone(local)
	loc := Fixed(tz)

	for _, layout := range wallClockLayouts {
		if t, err := time.ParseInLocation(layout, clean, loc); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("timezone: invalid local datetime %q", local)
}

// DayBounds returns the UTC instants of 00:00:00 and 23:59:59 local time on
// the date part of date. Any time of day in date is ignored.
func DayBounds(date, tz string) (time.Time, time.Time, error) {
	d := DatePart(date)

	start, err := time.ParseInLocation("2006-01-02", d, Fixed(tz))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("timezone: invalid date %q", date)
	}

	end := start.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
	return start.UTC(), end.UTC(), nil
}

// DatePart returns the YYYY-MM-DD portion of s.
func DatePart(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, "T "); i >= 0 {
		return s[:i]
	}
	return s
}

// LocalClock renders instant in the fixed local offset of tz.
func LocalClock(instant time.Time, tz string) time.Time {
	return instant.In(Fixed(tz))
}
