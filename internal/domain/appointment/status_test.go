package appointment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/BruksfildServices01/barber-agenda/internal/httperr"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from Status
		to   Status
		ok   bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCompleted, true},
		{StatusPending, StatusCancelled, true},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusConfirmed, false},
		{StatusConfirmed, StatusPending, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCompleted, StatusConfirmed, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusCancelled, StatusCompleted, false},
		{StatusCancelled, StatusCancelled, false},
	}

	for _, tt := range tests {
		err := CanTransition(tt.from, tt.to)
		if tt.ok {
			assert.NoError(t, err, "%s -> %s", tt.from, tt.to)
			continue
		}
		assert.Error(t, err, "%s -> %s", tt.from, tt.to)
		assert.Equal(t, httperr.KindConflict, httperr.KindOf(err))
	}
}

func TestParseStatus(t *testing.T) {
	st, ok := ParseStatus("confirmed")
	assert.True(t, ok)
	assert.Equal(t, StatusConfirmed, st)

	_, ok = ParseStatus("scheduled")
	assert.False(t, ok)

	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusPending.IsTerminal())
	assert.Equal(t, []string{"pending", "confirmed"}, ActiveStatusValues())
}
