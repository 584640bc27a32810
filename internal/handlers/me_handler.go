package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-agenda/internal/httperr"
	"github.com/BruksfildServices01/barber-agenda/internal/middleware"
	"github.com/BruksfildServices01/barber-agenda/internal/unit"
)

type MeHandler struct {
	units unit.Store
}

func NewMeHandler(units unit.Store) *MeHandler {
	return &MeHandler{units: units}
}

// GetMe returns the authenticated user and the unit they act on.
func (h *MeHandler) GetMe(c *gin.Context) {
	u, err := h.units.GetUnit(c.Request.Context(), middleware.UnitID(c))
	if errors.Is(err, unit.ErrNotFound) {
		// token outlived its unit
		httperr.Respond(c, httperr.Unauthorized("unit_not_found", "Unidade não encontrada"))
		return
	}
	if err != nil {
		httperr.Respond(c, httperr.Internal("unit_lookup_failed", err))
		return
	}

	role, _ := c.Get(middleware.ContextUserRole)

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":   middleware.Actor(c),
			"role": role,
		},
		"unit": gin.H{
			"id":                              u.ID,
			"name":                            u.Name,
			"timezone":                        u.Timezone,
			"opening_time":                    u.OpeningTime,
			"closing_time":                    u.ClosingTime,
			"evolution_instance_name":         u.EvolutionInstanceName,
			"cancellation_time_limit_minutes": u.CancellationTimeLimitMinutes,
			"appointment_reminder_enabled":    u.AppointmentReminderEnabled,
			"appointment_reminder_minutes":    u.AppointmentReminderMinutes,
		},
	})
}
