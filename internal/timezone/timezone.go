package timezone

import "time"

const DefaultTimezone = "America/Sao_Paulo"

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

// Location resolves an IANA location, falling back to DefaultTimezone.
// Used for schedulers and display; booking instants go through ToUTC.
func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		return Fixed(DefaultTimezone)
	}
	return loc
}

// OrDefault returns tz, or DefaultTimezone when tz is empty.
func OrDefault(tz string) string {
	if tz == "" {
		return DefaultTimezone
	}
	return tz
}
