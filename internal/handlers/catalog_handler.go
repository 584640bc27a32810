package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-agenda/internal/audit"
	"github.com/BruksfildServices01/barber-agenda/internal/httperr"
	"github.com/BruksfildServices01/barber-agenda/internal/httpresp"
	"github.com/BruksfildServices01/barber-agenda/internal/middleware"
	"github.com/BruksfildServices01/barber-agenda/internal/models"
)

// CatalogHandler manages the unit's services and barbers.
type CatalogHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewCatalogHandler(db *gorm.DB, audit *audit.Dispatcher) *CatalogHandler {
	return &CatalogHandler{db: db, audit: audit}
}

// --------- Requests ---------

type CreateServiceRequest struct {
	Name            string          `json:"name" binding:"required"`
	DurationMinutes int             `json:"duration_minutes" binding:"required,min=1"`
	Price           decimal.Decimal `json:"price"`
}

type UpdateServiceRequest struct {
	Name            *string          `json:"name,omitempty"`
	DurationMinutes *int             `json:"duration_minutes,omitempty"`
	Price           *decimal.Decimal `json:"price,omitempty"`
	IsActive        *bool            `json:"is_active,omitempty"`
}

type CreateBarberRequest struct {
	Name string `json:"name" binding:"required"`
}

type UpdateBarberRequest struct {
	Name     *string `json:"name,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// activeFilter applies ?active=true|false; anything else lists all.
func activeFilter(q *gorm.DB, raw string) *gorm.DB {
	switch strings.TrimSpace(raw) {
	case "true":
		return q.Where("is_active = ?", true)
	case "false":
		return q.Where("is_active = ?", false)
	}
	return q
}

// --------- Services ---------

func (h *CatalogHandler) ListServices(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).
		Where("unit_id = ?", middleware.UnitID(c))
	q = activeFilter(q, c.Query("active"))

	var services []models.Service
	if err := q.Order("name ASC").Find(&services).Error; err != nil {
		httperr.Respond(c, httperr.Internal("service_list_failed", err))
		return
	}
	httpresp.List(c, services)
}

func (h *CatalogHandler) CreateService(c *gin.Context) {
	var req CreateServiceRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Price.IsNegative() {
		httperr.BadRequest(c, "invalid_price", "Valor inválido")
		return
	}

	service := models.Service{
		UnitID:          middleware.UnitID(c),
		Name:            strings.TrimSpace(req.Name),
		DurationMinutes: req.DurationMinutes,
		Price:           req.Price,
		IsActive:        true,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&service).Error; err != nil {
		httperr.Respond(c, httperr.Internal("service_create_failed", err))
		return
	}

	h.audit.Dispatch(audit.Event{
		UnitID:   service.UnitID,
		Actor:    middleware.Actor(c),
		Action:   "service_created",
		Entity:   "service",
		EntityID: &service.ID,
	})
	httpresp.Created(c, service)
}

func (h *CatalogHandler) UpdateService(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	unitID := middleware.UnitID(c)

	var service models.Service
	if err := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND unit_id = ?", id, unitID).
		First(&service).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Respond(c, httperr.NotFound("service_not_found", "Serviço não encontrado"))
			return
		}
		httperr.Respond(c, httperr.Internal("service_lookup_failed", err))
		return
	}

	var req UpdateServiceRequest
	if !bindJSON(c, &req) {
		return
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		service.Name = strings.TrimSpace(*req.Name)
	}
	if req.DurationMinutes != nil {
		if *req.DurationMinutes <= 0 {
			httperr.BadRequest(c, "invalid_duration", "Duração inválida")
			return
		}
		service.DurationMinutes = *req.DurationMinutes
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			httperr.BadRequest(c, "invalid_price", "Valor inválido")
			return
		}
		service.Price = *req.Price
	}
	if req.IsActive != nil {
		service.IsActive = *req.IsActive
	}

	if err := h.db.WithContext(c.Request.Context()).Save(&service).Error; err != nil {
		httperr.Respond(c, httperr.Internal("service_update_failed", err))
		return
	}

	h.audit.Dispatch(audit.Event{
		UnitID:   unitID,
		Actor:    middleware.Actor(c),
		Action:   "service_updated",
		Entity:   "service",
		EntityID: &service.ID,
		Metadata: req,
	})
	httpresp.OK(c, service)
}

// --------- Barbers ---------

func (h *CatalogHandler) ListBarbers(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).
		Where("unit_id = ?", middleware.UnitID(c))
	q = activeFilter(q, c.Query("active"))

	var barbers []models.Barber
	if err := q.Order("name ASC").Find(&barbers).Error; err != nil {
		httperr.Respond(c, httperr.Internal("barber_list_failed", err))
		return
	}
	httpresp.List(c, barbers)
}

func (h *CatalogHandler) CreateBarber(c *gin.Context) {
	var req CreateBarberRequest
	if !bindJSON(c, &req) {
		return
	}

	barber := models.Barber{
		UnitID:   middleware.UnitID(c),
		Name:     strings.TrimSpace(req.Name),
		IsActive: true,
	}
	if barber.Name == "" {
		httperr.BadRequest(c, "barber_name_required", "Nome é obrigatório")
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&barber).Error; err != nil {
		httperr.Respond(c, httperr.Internal("barber_create_failed", err))
		return
	}

	h.audit.Dispatch(audit.Event{
		UnitID:   barber.UnitID,
		Actor:    middleware.Actor(c),
		Action:   "barber_created",
		Entity:   "barber",
		EntityID: &barber.ID,
	})
	httpresp.Created(c, barber)
}

func (h *CatalogHandler) UpdateBarber(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	unitID := middleware.UnitID(c)

	var barber models.Barber
	if err := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND unit_id = ?", id, unitID).
		First(&barber).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Respond(c, httperr.NotFound("barber_not_found", "Profissional não encontrado"))
			return
		}
		httperr.Respond(c, httperr.Internal("barber_lookup_failed", err))
		return
	}

	var req UpdateBarberRequest
	if !bindJSON(c, &req) {
		return
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		barber.Name = strings.TrimSpace(*req.Name)
	}
	if req.IsActive != nil {
		barber.IsActive = *req.IsActive
	}

	if err := h.db.WithContext(c.Request.Context()).Save(&barber).Error; err != nil {
		httperr.Respond(c, httperr.Internal("barber_update_failed", err))
		return
	}

	h.audit.Dispatch(audit.Event{
		UnitID:   unitID,
		Actor:    middleware.Actor(c),
		Action:   "barber_updated",
		Entity:   "barber",
		EntityID: &barber.ID,
		Metadata: req,
	})
	httpresp.OK(c, barber)
}
