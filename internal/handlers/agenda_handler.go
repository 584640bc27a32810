package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/BruksfildServices01/barber-agenda/internal/cancellation"
	domainClient "github.com/BruksfildServices01/barber-agenda/internal/domain/client"
	"github.com/BruksfildServices01/barber-agenda/internal/dto"
	"github.com/BruksfildServices01/barber-agenda/internal/httperr"
	"github.com/BruksfildServices01/barber-agenda/internal/httpresp"
	"github.com/BruksfildServices01/barber-agenda/internal/unit"
	ucAppointment "github.com/BruksfildServices01/barber-agenda/internal/usecase/appointment"
	ucClient "github.com/BruksfildServices01/barber-agenda/internal/usecase/client"
)

// ======================================================
// HANDLER
// ======================================================

// AgendaDeps are the operations exposed to the messaging automation.
type AgendaDeps struct {
	Units          *unit.Resolver
	Check          *ucAppointment.CheckAvailability
	Create         *ucAppointment.CreateAppointment
	Cancel         *ucAppointment.CancelAppointment
	CancelByPhone  *ucAppointment.CancelByPhone
	CheckClient    *ucClient.CheckClient
	RegisterClient *ucClient.RegisterClient
}

// AgendaHandler serves POST /api/agenda, a single action-dispatched endpoint
// called by the WhatsApp automation.
type AgendaHandler struct {
	deps AgendaDeps
}

func NewAgendaHandler(deps AgendaDeps) *AgendaHandler {
	return &AgendaHandler{deps: deps}
}

// ======================================================
// REQUEST
// ======================================================

// AgendaRequest accepts the Portuguese field names the automation sends and
// their English aliases.
type AgendaRequest struct {
	Action string `json:"action"`

	UnitID       string `json:"unit_id"`
	InstanceName string `json:"instance_name"`

	Nome       string `json:"nome"`
	ClientName string `json:"client_name"`

	Telefone    string `json:"telefone"`
	ClientPhone string `json:"client_phone"`

	Data     string `json:"data"`
	Datetime string `json:"datetime"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Horario  string `json:"horario"`

	BarbeiroNome string `json:"barbeiro_nome"`
	Barbeiro     string `json:"barbeiro"`
	Professional string `json:"professional"`

	Servico string `json:"servico"`
	Service string `json:"service"`

	DataNascimento  string `json:"data_nascimento"`
	BirthDate       string `json:"birth_date"`
	ClientBirthDate string `json:"client_birth_date"`

	Observacoes string   `json:"observacoes"`
	Notes       string   `json:"notes"`
	Tags        []string `json:"tags"`

	AppointmentID string `json:"appointment_id"`
	Source        string `json:"source"`
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

func (r *AgendaRequest) name() string  { return firstNonEmpty(r.Nome, r.ClientName) }
func (r *AgendaRequest) phone() string { return firstNonEmpty(r.Telefone, r.ClientPhone) }
func (r *AgendaRequest) notes() string { return firstNonEmpty(r.Observacoes, r.Notes) }

func (r *AgendaRequest) professional() string {
	return firstNonEmpty(r.BarbeiroNome, r.Barbeiro, r.Professional)
}

func (r *AgendaRequest) service() string { return firstNonEmpty(r.Servico, r.Service) }

func (r *AgendaRequest) day() string { return firstNonEmpty(r.Data, r.Datetime, r.Date) }

// datetime joins a date-only field with a separate time field when the
// automation sends them apart.
func (r *AgendaRequest) datetime() string {
	dt := firstNonEmpty(r.Datetime, r.Data, r.Date)
	clock := firstNonEmpty(r.Time, r.Horario)
	if dt != "" && clock != "" && !strings.ContainsAny(dt, "T ") {
		return dt + "T" + clock
	}
	return dt
}

func (r *AgendaRequest) birthDate() (*datatypes.Date, error) {
	raw := firstNonEmpty(r.DataNascimento, r.BirthDate, r.ClientBirthDate)
	if raw == "" {
		return nil, nil
	}
	d, ok := domainClient.ParseBirthDate(raw)
	if !ok {
		return nil, httperr.Validation("invalid_birth_date", "Data de nascimento inválida")
	}
	return d, nil
}

// ======================================================
// ACTIONS
// ======================================================

type agendaAction func(h *AgendaHandler, c *gin.Context, unitID uuid.UUID, req *AgendaRequest) error

var agendaActions = map[string]agendaAction{
	"check":                (*AgendaHandler).check,
	"check_availability":   (*AgendaHandler).check,
	"create":               (*AgendaHandler).create,
	"schedule_appointment": (*AgendaHandler).create,
	"cancel":               (*AgendaHandler).cancel,
	"cancel_appointment":   (*AgendaHandler).cancel,
	"check_client":         (*AgendaHandler).checkClient,
	"register_client":      (*AgendaHandler).registerClient,
}

var errInvalidAction = httperr.Validation(
	"invalid_action",
	"Ação inválida. Actions válidas: check, check_availability, create, schedule_appointment, cancel, cancel_appointment, check_client, register_client",
)

func (h *AgendaHandler) Handle(c *gin.Context) {
	var req AgendaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "JSON inválido")
		return
	}

	action, ok := agendaActions[strings.ToLower(strings.TrimSpace(req.Action))]
	if !ok {
		httperr.Respond(c, errInvalidAction)
		return
	}

	u, err := h.deps.Units.Resolve(c.Request.Context(), req.UnitID, req.InstanceName)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	if err := action(h, c, u.ID, &req); err != nil {
		httperr.Respond(c, err)
	}
}

func (h *AgendaHandler) check(c *gin.Context, unitID uuid.UUID, req *AgendaRequest) error {
	out, err := h.deps.Check.Execute(c.Request.Context(), ucAppointment.CheckAvailabilityInput{
		UnitID:       unitID,
		Date:         req.day(),
		Professional: req.professional(),
	})
	if err != nil {
		return err
	}

	body := gin.H{
		"date":            out.Date,
		"available_slots": out.AvailableSlots,
		"services":        out.Services,
	}
	if out.Message != "" {
		body["message"] = out.Message
	}
	httpresp.Success(c, body)
	return nil
}

func (h *AgendaHandler) create(c *gin.Context, unitID uuid.UUID, req *AgendaRequest) error {
	birth, err := req.birthDate()
	if err != nil {
		return err
	}

	out, err := h.deps.Create.Execute(c.Request.Context(), ucAppointment.CreateAppointmentInput{
		UnitID:          unitID,
		ClientName:      req.name(),
		ClientPhone:     req.phone(),
		ClientBirthDate: birth,
		ClientTags:      req.Tags,
		Professional:    req.professional(),
		Service:         req.service(),
		Datetime:        req.datetime(),
		Notes:           req.notes(),
		Source:          firstNonEmpty(req.Source, cancellation.SourceWhatsApp),
	})
	if err != nil {
		return err
	}

	httpresp.Success(c, gin.H{
		"message":        "Agendamento criado com sucesso!",
		"appointment":    dto.FromBooked(out.Appointment),
		"client":         dto.FromClient(out.Client),
		"client_created": out.ClientCreated,
	})
	return nil
}

func (h *AgendaHandler) cancel(c *gin.Context, unitID uuid.UUID, req *AgendaRequest) error {
	ctx := c.Request.Context()
	source := firstNonEmpty(req.Source, cancellation.SourceWhatsApp)

	var (
		out *ucAppointment.CancelOutput
		err error
	)

	switch {
	case strings.TrimSpace(req.AppointmentID) != "":
		id, perr := uuid.Parse(strings.TrimSpace(req.AppointmentID))
		if perr != nil {
			return httperr.Validation("invalid_appointment_id", "appointment_id inválido")
		}
		out, err = h.deps.Cancel.Execute(ctx, ucAppointment.CancelInput{
			UnitID:        unitID,
			AppointmentID: id,
			Source:        source,
			Notes:         req.notes(),
		})

	case req.phone() != "":
		out, err = h.deps.CancelByPhone.Execute(ctx, ucAppointment.CancelByPhoneInput{
			UnitID: unitID,
			Phone:  req.phone(),
			Date:   req.day(),
			Source: source,
			Notes:  req.notes(),
		})

	default:
		return httperr.Validation(
			"cancel_target_required",
			"Informe appointment_id ou telefone para cancelar",
		)
	}
	if err != nil {
		return err
	}

	body := gin.H{
		"message":               "Agendamento cancelado com sucesso!",
		"cancelled_appointment": dto.FromBooked(out.Appointment),
	}
	if out.LateByUnitPolicy != nil {
		body["late_by_unit_policy"] = *out.LateByUnitPolicy
	}
	httpresp.Success(c, body)
	return nil
}

func (h *AgendaHandler) checkClient(c *gin.Context, unitID uuid.UUID, req *AgendaRequest) error {
	res, err := h.deps.CheckClient.Execute(c.Request.Context(), unitID, req.phone())
	if err != nil {
		return err
	}

	if !res.Found {
		httpresp.Success(c, gin.H{
			"found":   false,
			"message": "Cliente não encontrado",
		})
		return nil
	}

	httpresp.Success(c, gin.H{
		"found":  true,
		"client": dto.FromClient(res.Client),
	})
	return nil
}

func (h *AgendaHandler) registerClient(c *gin.Context, unitID uuid.UUID, req *AgendaRequest) error {
	birth, err := req.birthDate()
	if err != nil {
		return err
	}

	created, err := h.deps.RegisterClient.Execute(c.Request.Context(), ucClient.ResolveInput{
		UnitID:    unitID,
		Name:      req.name(),
		Phone:     req.phone(),
		BirthDate: birth,
		Notes:     req.notes(),
		Tags:      req.Tags,
	})

	var already *ucClient.AlreadyRegisteredError
	if errors.As(err, &already) {
		c.JSON(httperr.Status(httperr.KindConflict), gin.H{
			"success":    false,
			"error_code": "client_already_registered",
			"error":      httperr.MessageOf(err),
			"existing_client": gin.H{
				"id":    already.Client.ID,
				"name":  already.Client.Name,
				"phone": already.Client.Phone,
			},
		})
		return nil
	}
	if err != nil {
		return err
	}

	httpresp.Success(c, gin.H{
		"message": "Cliente cadastrado com sucesso!",
		"client":  dto.FromClient(created),
	})
	return nil
}
