package appointment

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/BruksfildServices01/barber-agenda/internal/models"
)

// A cases.Caser keeps state, so one is built per call.
func fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// NameContains is the case-insensitive substring match used to resolve staff
// and services from free text.
func NameContains(name, query string) bool {
	return strings.Contains(fold(name), fold(query))
}

// NameEquals is the case-insensitive exact match.
func NameEquals(a, b string) bool {
	return fold(a) == fold(b)
}

// FilterBarbers keeps the barbers whose name contains query, in order.
// An empty query keeps everyone.
func FilterBarbers(barbers []models.Barber, query string) []models.Barber {
	if strings.TrimSpace(query) == "" {
		return barbers
	}

	out := make([]models.Barber, 0, len(barbers))
	for _, b := range barbers {
		if NameContains(b.Name, query) {
			out = append(out, b)
		}
	}
	return out
}

// FirstBarber returns the first barber matching query, or nil.
func FirstBarber(barbers []models.Barber, query string) *models.Barber {
	for i := range barbers {
		if NameContains(barbers[i].Name, query) {
			return &barbers[i]
		}
	}
	return nil
}

// FirstService returns the first service matching query, or nil.
func FirstService(services []models.Service, query string) *models.Service {
	for i := range services {
		if NameContains(services[i].Name, query) {
			return &services[i]
		}
	}
	return nil
}
