package appointment

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/barber-agenda/internal/models"
	"github.com/BruksfildServices01/barber-agenda/internal/timezone"
)

type GridMode string

const (
	GridFixed     GridMode = "fixed"
	GridUnitHours GridMode = "unit_hours"
)

const slotStep = 30 * time.Minute

// Grid is the list of candidate start marks of a day, as offsets from local
// midnight. Close is exclusive.
type Grid struct {
	Open  time.Duration
	Close time.Duration
	Step  time.Duration
}

// FixedGrid is the 08:00 to 20:30 half-hour grid.
func FixedGrid() Grid {
	return Grid{Open: 8 * time.Hour, Close: 21 * time.Hour, Step: slotStep}
}

// UnitHoursGrid builds the grid from the unit's opening and closing times and
// falls back to FixedGrid when they are missing or inconsistent.
func UnitHoursGrid(opening, closing string) Grid {
	open, err1 := parseClock(opening)
	closeAt, err2 := parseClock(closing)
	if err1 != nil || err2 != nil || closeAt <= open {
		return FixedGrid()
	}
	return Grid{Open: open, Close: closeAt, Step: slotStep}
}

func GridFor(mode GridMode, unit *models.Unit) Grid {
	if mode == GridUnitHours && unit != nil {
		return UnitHoursGrid(unit.OpeningTime, unit.ClosingTime)
	}
	return FixedGrid()
}

// Marks lists the grid as HH:MM labels.
func (g Grid) Marks() []string {
	var marks []string
	for at := g.Open; at < g.Close; at += g.Step {
		h := int(at / time.Hour)
		m := int((at % time.Hour) / time.Minute)
		marks = append(marks, fmt.Sprintf("%02d:%02d", h, m))
	}
	return marks
}

func parseClock(hm string) (time.Duration, error) {
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return 0, err
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

type Slot struct {
	Time       string    `json:"time"`
	Datetime   string    `json:"datetime"`
	BarberID   uuid.UUID `json:"barber_id"`
	BarberName string    `json:"barber_name"`
}

// ComputeSlots walks the grid on date and returns every free (mark, barber)
// pair, ordered by time and then by the order of barbers.
//
// With length zero a slot is taken when it starts inside an existing
// appointment of the barber. With a positive length the whole
// [start, start+length) interval must be free.
func ComputeSlots(
	date string,
	tz string,
	grid Grid,
	barbers []models.Barber,
	appointments []models.Appointment,
	length time.Duration,
) ([]Slot, error) {

	busy := make(map[uuid.UUID][]models.Appointment, len(barbers))
	for _, ap := range appointments {
		if ap.BarberID == nil || Status(ap.Status) == StatusCancelled {
			continue
		}
		busy[*ap.BarberID] = append(busy[*ap.BarberID], ap)
	}

	day := timezone.DatePart(date)
	slots := []Slot{}

	for _, mark := range grid.Marks() {
		start, err := timezone.ToUTC(day+"T"+mark+":00", tz)
		if err != nil {
			return nil, err
		}

		for _, b := range barbers {
			if isTaken(busy[b.ID], start, length) {
				continue
			}
			slots = append(slots, Slot{
				Time:       mark,
				Datetime:   start.Format("2006-01-02T15:04:05.000Z"),
				BarberID:   b.ID,
				BarberName: b.Name,
			})
		}
	}

	return slots, nil
}

func isTaken(appointments []models.Appointment, start time.Time, length time.Duration) bool {
	for _, ap := range appointments {
		if length > 0 {
			if Overlaps(start, start.Add(length), ap.StartTime, ap.EndTime) {
				return true
			}
			continue
		}
		if !start.Before(ap.StartTime) && start.Before(ap.EndTime) {
			return true
		}
	}
	return false
}
