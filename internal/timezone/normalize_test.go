package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToUTC(t *testing.T) {
	tests := []struct {
		name  string
		local string
		tz    string
		want  time.Time
	}{
		{"sao paulo", "2025-03-10T14:00:00", "America/Sao_Paulo", time.Date(2025, 3, 10, 17, 0, 0, 0, time.UTC)},
		{"no seconds", "2025-03-10T14:00", "America/Sao_Paulo", time.Date(2025, 3, 10, 17, 0, 0, 0, time.UTC)},
		{"space separator", "2025-03-10 14:00", "America/Sao_Paulo", time.Date(2025, 3, 10, 17, 0, 0, 0, time.UTC)},
		{"manaus", "2025-03-10T14:00:00", "America/Manaus", time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC)},
		{"rio branco", "2025-03-10T14:00:00", "America/Rio_Branco", time.Date(2025, 3, 10, 19, 0, 0, 0, time.UTC)},
		{"noronha", "2025-03-10T14:00:00", "America/Noronha", time.Date(2025, 3, 10, 16, 0, 0, 0, time.UTC)},
		{"unknown zone falls back", "2025-03-10T14:00:00", "Europe/Lisbon", time.Date(2025, 3, 10, 17, 0, 0, 0, time.UTC)},
		{"empty zone falls back", "2025-03-10T14:00:00", "", time.Date(2025, 3, 10, 17, 0, 0, 0, time.UTC)},
		{"crosses midnight", "2025-03-10T22:30:00", "America/Sao_Paulo", time.Date(2025, 3, 11, 1, 30, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToUTC(tt.local, tt.tz)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s want %s", got, tt.want)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestToUTCIgnoresZoneSuffix(t *testing.T) {
	inputs := []string{
		"2025-06-01T10:00:00",
		"2025-06-01T10:00:00Z",
		"2025-06-01T10:00:00-03:00",
		"2025-06-01T10:00:00+05:30",
		"2025-06-01T10:00:00.000Z",
		"2025-06-01T10:00:00.123-0300",
	}

	want := time.Date(2025, 6, 1, 13, 0, 0, 0, time.UTC)
	for _, in := range inputs {
		got, err := ToUTC(in, "America/Sao_Paulo")
		require.NoError(t, err, in)
		assert.True(t, want.Equal(got), "%s -> %s", in, got)
	}
}

func TestToUTCRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "amanhã", "2025-13-01T10:00", "10:00"} {
		_, err := ToUTC(in, "America/Sao_Paulo")
		assert.Error(t, err, in)
	}
}

func TestDayBounds(t *testing.T) {
	start, end, err := DayBounds("2025-03-10T15:45:00", "America/Sao_Paulo")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 3, 10, 3, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 3, 11, 2, 59, 59, 0, time.UTC), end)

	_, _, err = DayBounds("10/03/2025", "America/Sao_Paulo")
	assert.Error(t, err)
}

func TestLocalClock(t *testing.T) {
	instant := time.Date(2025, 3, 10, 17, 0, 0, 0, time.UTC)

	local := LocalClock(instant, "America/Cuiaba")
	assert.Equal(t, "13:00", local.Format("15:04"))
	assert.Equal(t, "10/03", local.Format("02/01"))
}

func TestLocationFallsBack(t *testing.T) {
	assert.Equal(t, "America/Sao_Paulo", OrDefault(""))
	assert.Equal(t, "America/Manaus", OrDefault("America/Manaus"))
	assert.False(t, IsValid(""))
	assert.NotNil(t, Location("Not/AZone"))
}
