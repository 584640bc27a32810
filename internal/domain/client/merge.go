package client

import (
	"strings"
	"time"

	"gorm.io/datatypes"

	"github.com/BruksfildServices01/barber-agenda/internal/models"
)

// DefaultTags are given to clients created without explicit tags.
var DefaultTags = []string{"Novo"}

// Profile is the incoming data for a client contact.
type Profile struct {
	BirthDate *datatypes.Date
	Notes     string
	Tags      []string
}

// Merge applies p to c without destroying stored data: birth date only fills
// a null, notes only change to a different non-empty value and tags are
// unioned. It reports whether c changed.
func Merge(c *models.Client, p Profile) bool {
	changed := false

	if c.BirthDate == nil && p.BirthDate != nil {
		bd := *p.BirthDate
		c.BirthDate = &bd
		changed = true
	}

	notes := strings.TrimSpace(p.Notes)
	if notes != "" && (c.Notes == nil || *c.Notes != notes) {
		c.Notes = &notes
		changed = true
	}

	if merged, ok := UnionTags(c.Tags, p.Tags); ok {
		c.Tags = merged
		changed = true
	}

	return changed
}

// UnionTags returns existing plus the new tags not already present, and
// whether anything was added. Blank tags are ignored.
func UnionTags(existing, incoming []string) ([]string, bool) {
	seen := make(map[string]struct{}, len(existing)+len(incoming))
	out := make([]string, 0, len(existing)+len(incoming))

	for _, t := range existing {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}

	added := false
	for _, t := range incoming {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
		added = true
	}

	return out, added
}

// ParseBirthDate accepts YYYY-MM-DD and DD/MM/YYYY.
func ParseBirthDate(s string) (*datatypes.Date, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, true
	}

	for _, layout := range []string{"2006-01-02", "02/01/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			d := datatypes.Date(t)
			return &d, true
		}
	}
	return nil, false
}
