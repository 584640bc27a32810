package appointment

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barber-agenda/internal/models"
)

func TestFixedGridMarks(t *testing.T) {
	marks := FixedGrid().Marks()

	require.Len(t, marks, 26)
	assert.Equal(t, "08:00", marks[0])
	assert.Equal(t, "08:30", marks[1])
	assert.Equal(t, "20:30", marks[25])
}

func TestUnitHoursGrid(t *testing.T) {
	tests := []struct {
		name      string
		open      string
		close     string
		wantFirst string
		wantLast  string
		wantLen   int
	}{
		{"unit hours", "09:00", "18:00", "09:00", "17:30", 18},
		{"half hour close", "10:00", "12:30", "10:00", "12:00", 5},
		{"missing falls back", "", "", "08:00", "20:30", 26},
		{"inverted falls back", "18:00", "09:00", "08:00", "20:30", 26},
		{"garbage falls back", "9h", "18h", "08:00", "20:30", 26},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			marks := UnitHoursGrid(tt.open, tt.close).Marks()
			require.Len(t, marks, tt.wantLen)
			assert.Equal(t, tt.wantFirst, marks[0])
			assert.Equal(t, tt.wantLast, marks[len(marks)-1])
		})
	}
}

func TestGridFor(t *testing.T) {
	unit := &models.Unit{OpeningTime: "09:00", ClosingTime: "12:00"}

	assert.Len(t, GridFor(GridFixed, unit).Marks(), 26)
	assert.Len(t, GridFor(GridUnitHours, unit).Marks(), 6)
	assert.Len(t, GridFor(GridUnitHours, nil).Marks(), 26)
}

func barberFixture(name string) models.Barber {
	return models.Barber{ID: uuid.New(), Name: name, IsActive: true}
}

func TestComputeSlotsEmptyDay(t *testing.T) {
	barbers := []models.Barber{barberFixture("Bruno"), barberFixture("Carlos")}

	slots, err := ComputeSlots("2025-03-10", "America/Sao_Paulo", FixedGrid(), barbers, nil, 0)
	require.NoError(t, err)

	require.Len(t, slots, 26*2)
	assert.Equal(t, "08:00", slots[0].Time)
	assert.Equal(t, "2025-03-10T11:00:00.000Z", slots[0].Datetime)
	assert.Equal(t, "Bruno", slots[0].BarberName)
	assert.Equal(t, "Carlos", slots[1].BarberName)
	assert.Equal(t, "20:30", slots[51].Time)
}

func TestComputeSlotsMarksOccupied(t *testing.T) {
	bruno := barberFixture("Bruno")
	carlos := barberFixture("Carlos")

	// 14:00-14:45 local for Bruno
	apts := []models.Appointment{{
		BarberID:  &bruno.ID,
		Status:    string(StatusPending),
		StartTime: time.Date(2025, 3, 10, 17, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2025, 3, 10, 17, 45, 0, 0, time.UTC),
	}}

	slots, err := ComputeSlots("2025-03-10", "America/Sao_Paulo", FixedGrid(), []models.Barber{bruno, carlos}, apts, 0)
	require.NoError(t, err)
	require.Len(t, slots, 26*2-2)

	free := map[string]bool{}
	for _, s := range slots {
		if s.BarberID == bruno.ID {
			free[s.Time] = true
		}
	}
	assert.True(t, free["13:30"])
	assert.False(t, free["14:00"])
	assert.False(t, free["14:30"])
	assert.True(t, free["15:00"])
}

func TestComputeSlotsIgnoresCancelled(t *testing.T) {
	bruno := barberFixture("Bruno")
	apts := []models.Appointment{{
		BarberID:  &bruno.ID,
		Status:    string(StatusCancelled),
		StartTime: time.Date(2025, 3, 10, 17, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2025, 3, 10, 17, 30, 0, 0, time.UTC),
	}}

	slots, err := ComputeSlots("2025-03-10", "America/Sao_Paulo", FixedGrid(), []models.Barber{bruno}, apts, 0)
	require.NoError(t, err)
	assert.Len(t, slots, 26)
}

func TestComputeSlotsWithServiceLength(t *testing.T) {
	bruno := barberFixture("Bruno")

	// 14:15-14:45 local
	apts := []models.Appointment{{
		BarberID:  &bruno.ID,
		Status:    string(StatusConfirmed),
		StartTime: time.Date(2025, 3, 10, 17, 15, 0, 0, time.UTC),
		EndTime:   time.Date(2025, 3, 10, 17, 45, 0, 0, time.UTC),
	}}

	pointSlots, err := ComputeSlots("2025-03-10", "America/Sao_Paulo", FixedGrid(), []models.Barber{bruno}, apts, 0)
	require.NoError(t, err)
	assert.Contains(t, times(pointSlots), "14:00")
	assert.NotContains(t, times(pointSlots), "14:30")

	sized, err := ComputeSlots("2025-03-10", "America/Sao_Paulo", FixedGrid(), []models.Barber{bruno}, apts, 30*time.Minute)
	require.NoError(t, err)
	assert.NotContains(t, times(sized), "14:00")
	assert.NotContains(t, times(sized), "14:30")
	assert.Contains(t, times(sized), "13:30")
	assert.Contains(t, times(sized), "15:00")
}

func times(slots []Slot) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.Time)
	}
	return out
}

func TestNameMatching(t *testing.T) {
	barbers := []models.Barber{barberFixture("Bruno Souza"), barberFixture("João Bruno"), barberFixture("ÉRICO")}

	assert.Len(t, FilterBarbers(barbers, "bruno"), 2)
	assert.Len(t, FilterBarbers(barbers, "  "), 3)
	assert.Len(t, FilterBarbers(barbers, "érico"), 1)
	assert.Empty(t, FilterBarbers(barbers, "pedro"))

	first := FirstBarber(barbers, "BRUNO")
	require.NotNil(t, first)
	assert.Equal(t, "Bruno Souza", first.Name)
	assert.Nil(t, FirstBarber(barbers, "pedro"))

	services := []models.Service{{Name: "Corte Masculino"}, {Name: "Barba"}}
	require.NotNil(t, FirstService(services, "corte"))
	assert.Equal(t, "Barba", FirstService(services, "barb").Name)

	assert.True(t, NameEquals(" Ana Maria ", "ana maria"))
	assert.False(t, NameEquals("Ana", "Ana Maria"))
}
