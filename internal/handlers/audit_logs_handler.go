package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-agenda/internal/httperr"
	"github.com/BruksfildServices01/barber-agenda/internal/middleware"
	"github.com/BruksfildServices01/barber-agenda/internal/models"
	"github.com/BruksfildServices01/barber-agenda/internal/timezone"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	db *gorm.DB
}

func NewAuditLogsHandler(db *gorm.DB) *AuditLogsHandler {
	return &AuditLogsHandler{db: db}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	unitID := middleware.UnitID(c)

	action := c.Query("action")
	entity := c.Query("entity")
	fromStr := c.Query("from")
	toStr := c.Query("to")

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	offset := (page - 1) * limit

	// --------------------------------------------------
	// Query base (sempre protegido pela unidade)
	// --------------------------------------------------

	q := h.db.WithContext(c.Request.Context()).
		Model(&models.AuditLog{}).
		Where("unit_id = ?", unitID)

	// --------------------------------------------------
	// Filtros opcionais
	// --------------------------------------------------

	if action != "" {
		q = q.Where("action = ?", action)
	}

	if entity != "" {
		q = q.Where("entity = ?", entity)
	}

	if fromStr != "" || toStr != "" {
		// days are the unit's local days
		var unit models.Unit
		h.db.WithContext(c.Request.Context()).Select("timezone").Where("id = ?", unitID).Take(&unit)
		loc := timezone.Location(unit.Timezone)

		if from, err := time.ParseInLocation("2006-01-02", fromStr, loc); err == nil {
			q = q.Where("created_at >= ?", from.UTC())
		}
		if to, err := time.ParseInLocation("2006-01-02", toStr, loc); err == nil {
			q = q.Where("created_at < ?", to.AddDate(0, 0, 1).UTC())
		}
	}

	// --------------------------------------------------
	// Total
	// --------------------------------------------------

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Respond(c, httperr.Internal("audit_count_failed", err))
		return
	}

	// --------------------------------------------------
	// Listagem
	// --------------------------------------------------

	var logs []models.AuditLog
	if err := q.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&logs).Error; err != nil {

		httperr.Respond(c, httperr.Internal("audit_list_failed", err))
		return
	}
	if logs == nil {
		logs = []models.AuditLog{}
	}

	c.JSON(200, gin.H{
		"page":  page,
		"limit": limit,
		"total": total,
		"logs":  logs,
	})
}
