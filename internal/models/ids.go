package models

import "github.com/google/uuid"

// assignID fills an empty primary key before insert so the schema does not
// depend on database-side uuid generation.
func assignID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
