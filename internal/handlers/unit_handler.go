package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-agenda/internal/audit"
	"github.com/BruksfildServices01/barber-agenda/internal/httperr"
	"github.com/BruksfildServices01/barber-agenda/internal/middleware"
	"github.com/BruksfildServices01/barber-agenda/internal/models"
	"github.com/BruksfildServices01/barber-agenda/internal/timezone"
)

// UnitHandler exposes the unit settings that drive scheduling and reminders.
type UnitHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewUnitHandler(db *gorm.DB, audit *audit.Dispatcher) *UnitHandler {
	return &UnitHandler{db: db, audit: audit}
}

type UpdateUnitSettingsRequest struct {
	Name                         *string `json:"name"`
	Timezone                     *string `json:"timezone"`
	OpeningTime                  *string `json:"opening_time"`
	ClosingTime                  *string `json:"closing_time"`
	EvolutionInstanceName        *string `json:"evolution_instance_name"`
	CancellationTimeLimitMinutes *int    `json:"cancellation_time_limit_minutes"`
	AppointmentReminderEnabled   *bool   `json:"appointment_reminder_enabled"`
	AppointmentReminderMinutes   *int    `json:"appointment_reminder_minutes"`
	AppointmentReminderTemplate  *string `json:"appointment_reminder_template"`
}

func (h *UnitHandler) load(c *gin.Context) (*models.Unit, bool) {
	var u models.Unit
	if err := h.db.WithContext(c.Request.Context()).
		Where("id = ?", middleware.UnitID(c)).
		First(&u).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Respond(c, httperr.NotFound("unit_not_found", "Unidade não encontrada"))
			return nil, false
		}
		httperr.Respond(c, httperr.Internal("unit_lookup_failed", err))
		return nil, false
	}
	return &u, true
}

func (h *UnitHandler) GetSettings(c *gin.Context) {
	u, ok := h.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, u)
}

func validClock(s string) bool {
	_, err := time.Parse("15:04", s)
	return err == nil
}

func (h *UnitHandler) UpdateSettings(c *gin.Context) {
	u, ok := h.load(c)
	if !ok {
		return
	}

	var req UpdateUnitSettingsRequest
	if !bindJSON(c, &req) {
		return
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		u.Name = strings.TrimSpace(*req.Name)
	}

	if req.Timezone != nil {
		if !timezone.IsValid(*req.Timezone) {
			httperr.BadRequest(c, "invalid_timezone", "Fuso horário inválido")
			return
		}
		u.Timezone = *req.Timezone
	}

	// empty clears the unit hours and falls back to the fixed grid
	if req.OpeningTime != nil {
		if *req.OpeningTime != "" && !validClock(*req.OpeningTime) {
			httperr.BadRequest(c, "invalid_opening_time", "Horário de abertura inválido")
			return
		}
		u.OpeningTime = *req.OpeningTime
	}
	if req.ClosingTime != nil {
		if *req.ClosingTime != "" && !validClock(*req.ClosingTime) {
			httperr.BadRequest(c, "invalid_closing_time", "Horário de fechamento inválido")
			return
		}
		u.ClosingTime = *req.ClosingTime
	}
	if u.OpeningTime != "" && u.ClosingTime != "" && u.ClosingTime <= u.OpeningTime {
		httperr.BadRequest(c, "invalid_hours", "Fechamento deve ser após a abertura")
		return
	}

	if req.EvolutionInstanceName != nil {
		name := strings.TrimSpace(*req.EvolutionInstanceName)
		if name == "" {
			u.EvolutionInstanceName = nil
		} else {
			u.EvolutionInstanceName = &name
		}
	}

	if req.CancellationTimeLimitMinutes != nil {
		if *req.CancellationTimeLimitMinutes < 0 {
			httperr.BadRequest(c, "invalid_cancellation_limit", "Limite de cancelamento deve ser zero ou positivo (em minutos)")
			return
		}
		u.CancellationTimeLimitMinutes = req.CancellationTimeLimitMinutes
	}

	if req.AppointmentReminderEnabled != nil {
		u.AppointmentReminderEnabled = *req.AppointmentReminderEnabled
	}
	if req.AppointmentReminderMinutes != nil {
		if *req.AppointmentReminderMinutes <= 0 {
			httperr.BadRequest(c, "invalid_reminder_minutes", "Antecedência do lembrete deve ser positiva (em minutos)")
			return
		}
		u.AppointmentReminderMinutes = *req.AppointmentReminderMinutes
	}
	if req.AppointmentReminderTemplate != nil {
		u.AppointmentReminderTemplate = *req.AppointmentReminderTemplate
	}

	if err := h.db.WithContext(c.Request.Context()).Save(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || httperr.IsUniqueViolation(err) {
			httperr.Respond(c, httperr.Conflict("instance_name_taken", "Instância já vinculada a outra unidade"))
			return
		}
		httperr.Respond(c, httperr.Internal("unit_update_failed", err))
		return
	}

	h.audit.Dispatch(audit.Event{
		UnitID:   u.ID,
		Actor:    middleware.Actor(c),
		Action:   "unit_settings_updated",
		Entity:   "unit",
		EntityID: &u.ID,
		Metadata: req,
	})
	c.JSON(http.StatusOK, u)
}
