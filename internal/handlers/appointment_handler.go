package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domain "github.com/BruksfildServices01/barber-agenda/internal/domain/appointment"
	domainClient "github.com/BruksfildServices01/barber-agenda/internal/domain/client"
	"github.com/BruksfildServices01/barber-agenda/internal/httperr"
	"github.com/BruksfildServices01/barber-agenda/internal/httpresp"
	"github.com/BruksfildServices01/barber-agenda/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/barber-agenda/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentDeps struct {
	Check        *ucAppointment.CheckAvailability
	List         *ucAppointment.ListAppointments
	Create       *ucAppointment.CreateAppointment
	Update       *ucAppointment.UpdateAppointment
	Status       *ucAppointment.UpdateStatus
	Cancel       *ucAppointment.CancelAppointment
	NoShow       *ucAppointment.MarkNoShow
	QuickService *ucAppointment.CreateQuickService
}

// AppointmentHandler serves the staff agenda under /api/me.
type AppointmentHandler struct {
	deps AppointmentDeps
}

func NewAppointmentHandler(deps AppointmentDeps) *AppointmentHandler {
	return &AppointmentHandler{deps: deps}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	ClientName      string   `json:"client_name"`
	ClientPhone     string   `json:"client_phone"`
	ClientBirthDate string   `json:"client_birth_date"`
	Tags            []string `json:"tags"`

	BarberID     *uuid.UUID `json:"barber_id"`
	Professional string     `json:"professional"`
	ServiceID    *uuid.UUID `json:"service_id"`
	Service      string     `json:"service"`

	Datetime string `json:"datetime"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Notes    string `json:"notes"`
}

type UpdateAppointmentRequest struct {
	ClientName      *string    `json:"client_name"`
	ClientPhone     *string    `json:"client_phone"`
	ClientBirthDate *string    `json:"client_birth_date"`
	Notes           *string    `json:"notes"`
	BarberID        *uuid.UUID `json:"barber_id"`
	ServiceID       *uuid.UUID `json:"service_id"`
	Start           *string    `json:"start"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type CancelAppointmentRequest struct {
	Notes string `json:"notes"`
}

type QuickServiceRequest struct {
	BarberID    uuid.UUID        `json:"barber_id" binding:"required"`
	ServiceID   uuid.UUID        `json:"service_id" binding:"required"`
	ClientName  string           `json:"client_name"`
	ClientPhone string           `json:"client_phone"`
	TotalPrice  *decimal.Decimal `json:"total_price"`
	Notes       string           `json:"notes"`
}

// ======================================================
// HELPERS
// ======================================================

func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "ID inválido")
		return uuid.Nil, false
	}
	return id, true
}

func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos")
		return false
	}
	return true
}

// ======================================================
// AVAILABILITY / LIST
// ======================================================

func (h *AppointmentHandler) Availability(c *gin.Context) {
	out, err := h.deps.Check.Execute(c.Request.Context(), ucAppointment.CheckAvailabilityInput{
		UnitID:       middleware.UnitID(c),
		Date:         c.Query("date"),
		Professional: c.Query("professional"),
		Service:      c.Query("service"),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, out)
}

func (h *AppointmentHandler) List(c *gin.Context) {
	in := ucAppointment.ListAppointmentsInput{
		UnitID:    middleware.UnitID(c),
		StartDate: c.Query("start"),
		EndDate:   c.Query("end"),
	}
	if in.StartDate == "" {
		in.StartDate = c.Query("date")
	}

	if raw := c.Query("barber_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httperr.BadRequest(c, "invalid_barber_id", "barber_id inválido")
			return
		}
		in.BarberID = &id
	}
	in.IncludeCancelled, _ = strconv.ParseBool(c.Query("include_cancelled"))

	out, err := h.deps.List.Execute(c.Request.Context(), in)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, out)
}

// ======================================================
// CREATE / UPDATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	in := ucAppointment.CreateAppointmentInput{
		UnitID:       middleware.UnitID(c),
		ClientName:   req.ClientName,
		ClientPhone:  req.ClientPhone,
		ClientTags:   req.Tags,
		BarberID:     req.BarberID,
		Professional: req.Professional,
		ServiceID:    req.ServiceID,
		Service:      req.Service,
		Datetime:     req.Datetime,
		Notes:        req.Notes,
	}
	if in.Datetime == "" && req.Date != "" && req.Time != "" {
		in.Datetime = req.Date + "T" + req.Time
	}

	if strings.TrimSpace(req.ClientBirthDate) != "" {
		d, ok := domainClient.ParseBirthDate(req.ClientBirthDate)
		if !ok {
			httperr.BadRequest(c, "invalid_birth_date", "Data de nascimento inválida")
			return
		}
		in.ClientBirthDate = d
	}

	out, err := h.deps.Create.Execute(c.Request.Context(), in)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.Created(c, out)
}

func (h *AppointmentHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdateAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	in := ucAppointment.UpdateAppointmentInput{
		UnitID:        middleware.UnitID(c),
		AppointmentID: id,
		ClientName:    req.ClientName,
		ClientPhone:   req.ClientPhone,
		Notes:         req.Notes,
		BarberID:      req.BarberID,
		ServiceID:     req.ServiceID,
		Start:         req.Start,
	}
	if req.ClientBirthDate != nil {
		d, ok := domainClient.ParseBirthDate(*req.ClientBirthDate)
		if !ok {
			httperr.BadRequest(c, "invalid_birth_date", "Data de nascimento inválida")
			return
		}
		in.ClientBirthDate = d
	}

	ap, err := h.deps.Update.Execute(c.Request.Context(), in)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, ap)
}

// ======================================================
// STATUS
// ======================================================

func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	next, valid := domain.ParseStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	if !valid || next == domain.StatusPending {
		httperr.BadRequest(c, "invalid_status", "Status inválido")
		return
	}

	ap, err := h.deps.Status.Execute(c.Request.Context(), middleware.UnitID(c), id, next)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	// body is optional
	var req CancelAppointmentRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}

	out, err := h.deps.Cancel.Execute(c.Request.Context(), ucAppointment.CancelInput{
		UnitID:        middleware.UnitID(c),
		AppointmentID: id,
		Notes:         req.Notes,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, out)
}

func (h *AppointmentHandler) NoShow(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	out, err := h.deps.NoShow.Execute(c.Request.Context(), middleware.UnitID(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, out)
}

// ======================================================
// QUICK SERVICE (walk-in)
// ======================================================

func (h *AppointmentHandler) QuickService(c *gin.Context) {
	var req QuickServiceRequest
	if !bindJSON(c, &req) {
		return
	}

	out, err := h.deps.QuickService.Execute(c.Request.Context(), ucAppointment.QuickServiceInput{
		UnitID:      middleware.UnitID(c),
		BarberID:    req.BarberID,
		ServiceID:   req.ServiceID,
		ClientName:  req.ClientName,
		ClientPhone: req.ClientPhone,
		TotalPrice:  req.TotalPrice,
		Notes:       req.Notes,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.Created(c, out)
}
