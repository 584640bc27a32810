package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domainClient "github.com/BruksfildServices01/barber-agenda/internal/domain/client"
	"github.com/BruksfildServices01/barber-agenda/internal/dto"
	"github.com/BruksfildServices01/barber-agenda/internal/httperr"
	"github.com/BruksfildServices01/barber-agenda/internal/httpresp"
	"github.com/BruksfildServices01/barber-agenda/internal/middleware"
	"github.com/BruksfildServices01/barber-agenda/internal/models"
	ucClient "github.com/BruksfildServices01/barber-agenda/internal/usecase/client"
	"github.com/BruksfildServices01/barber-agenda/internal/validators"
)

type ClientHandler struct {
	db       *gorm.DB
	check    *ucClient.CheckClient
	register *ucClient.RegisterClient
}

func NewClientHandler(
	db *gorm.DB,
	check *ucClient.CheckClient,
	register *ucClient.RegisterClient,
) *ClientHandler {
	return &ClientHandler{db: db, check: check, register: register}
}

type RegisterClientRequest struct {
	Name      string   `json:"name" binding:"required"`
	Phone     string   `json:"phone"`
	BirthDate string   `json:"birth_date"`
	Notes     string   `json:"notes"`
	Tags      []string `json:"tags"`
}

// ======================================================
// LIST CLIENTS
// ======================================================
func (h *ClientHandler) List(c *gin.Context) {
	unitID := middleware.UnitID(c)

	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.WithContext(c.Request.Context()).Where("unit_id = ?", unitID)

	if query != "" {
		like := "%" + query + "%"
		if digits := validators.NormalizePhone(query); digits != "" {
			q = q.Where("LOWER(name) LIKE ? OR phone LIKE ?", like, "%"+digits+"%")
		} else {
			q = q.Where("LOWER(name) LIKE ?", like)
		}
	}

	var clients []models.Client
	if err := q.
		Order("name ASC").
		Find(&clients).Error; err != nil {

		httperr.Respond(c, httperr.Internal("client_list_failed", err))
		return
	}

	out := make([]dto.ClientDTO, 0, len(clients))
	for i := range clients {
		out = append(out, *dto.FromClient(&clients[i]))
	}
	httpresp.List(c, out)
}

// ======================================================
// LOOKUP BY PHONE
// ======================================================
func (h *ClientHandler) Lookup(c *gin.Context) {
	res, err := h.check.Execute(c.Request.Context(), middleware.UnitID(c), c.Query("phone"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"found":  res.Found,
		"client": dto.FromClient(res.Client),
	})
}

// ======================================================
// REGISTER
// ======================================================
func (h *ClientHandler) Register(c *gin.Context) {
	var req RegisterClientRequest
	if !bindJSON(c, &req) {
		return
	}

	in := ucClient.ResolveInput{
		UnitID: middleware.UnitID(c),
		Name:   req.Name,
		Phone:  req.Phone,
		Notes:  req.Notes,
		Tags:   req.Tags,
	}
	if strings.TrimSpace(req.BirthDate) != "" {
		d, ok := domainClient.ParseBirthDate(req.BirthDate)
		if !ok {
			httperr.BadRequest(c, "invalid_birth_date", "Data de nascimento inválida")
			return
		}
		in.BirthDate = d
	}

	created, err := h.register.Execute(c.Request.Context(), in)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.Created(c, dto.FromClient(created))
}
