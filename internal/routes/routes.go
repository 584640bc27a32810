package routes

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-agenda/internal/audit"
	"github.com/BruksfildServices01/barber-agenda/internal/cancellation"
	"github.com/BruksfildServices01/barber-agenda/internal/config"
	domain "github.com/BruksfildServices01/barber-agenda/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-agenda/internal/handlers"
	infraRepo "github.com/BruksfildServices01/barber-agenda/internal/infra/repository"
	"github.com/BruksfildServices01/barber-agenda/internal/middleware"
	"github.com/BruksfildServices01/barber-agenda/internal/unit"
	ucAppointment "github.com/BruksfildServices01/barber-agenda/internal/usecase/appointment"
	ucClient "github.com/BruksfildServices01/barber-agenda/internal/usecase/client"
)

func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	cfg *config.Config,
	auditDispatcher *audit.Dispatcher,
	log *slog.Logger,
) error {

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware())
	if cfg.MetricsEnabled {
		r.Use(middleware.MetricsMiddleware())
	}

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)
	clientRepo := infraRepo.NewClientGormRepository(db)
	cancellationRepo := infraRepo.NewCancellationGormRepository(db)
	unitRepo := infraRepo.NewUnitGormRepository(db)

	unitResolver, err := unit.NewResolver(unitRepo, cfg.InstanceCacheSize)
	if err != nil {
		return err
	}

	// ======================================================
	// 🧠 USE CASES (CLIENTS)
	// ======================================================
	clientResolver := ucClient.NewResolver(clientRepo, log)
	visitCounter := ucClient.NewVisitCounter(clientRepo, log)
	checkClientUC := ucClient.NewCheckClient(clientRepo)
	registerClientUC := ucClient.NewRegisterClient(clientRepo)

	// ======================================================
	// 🧠 USE CASES (APPOINTMENTS)
	// ======================================================
	recorder := cancellation.NewRecorder(cancellationRepo, log)

	cancelAppointmentUC := ucAppointment.NewCancelAppointment(
		appointmentRepo,
		recorder,
		auditDispatcher,
	)

	checkAvailabilityUC := ucAppointment.NewCheckAvailability(
		appointmentRepo,
		domain.GridMode(cfg.AvailabilityGrid),
	)

	createAppointmentUC := ucAppointment.NewCreateAppointment(
		appointmentRepo,
		clientResolver,
		auditDispatcher,
	)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	agendaHandler := handlers.NewAgendaHandler(handlers.AgendaDeps{
		Units:          unitResolver,
		Check:          checkAvailabilityUC,
		Create:         createAppointmentUC,
		Cancel:         cancelAppointmentUC,
		CancelByPhone:  ucAppointment.NewCancelByPhone(appointmentRepo, cancelAppointmentUC),
		CheckClient:    checkClientUC,
		RegisterClient: registerClientUC,
	})

	appointmentHandler := handlers.NewAppointmentHandler(handlers.AppointmentDeps{
		Check:  checkAvailabilityUC,
		List:   ucAppointment.NewListAppointments(appointmentRepo),
		Create: createAppointmentUC,
		Update: ucAppointment.NewUpdateAppointment(appointmentRepo, auditDispatcher),
		Status: ucAppointment.NewUpdateStatus(
			appointmentRepo,
			cancelAppointmentUC,
			visitCounter,
			auditDispatcher,
		),
		Cancel: cancelAppointmentUC,
		NoShow: ucAppointment.NewMarkNoShow(cancelAppointmentUC),
		QuickService: ucAppointment.NewCreateQuickService(
			appointmentRepo,
			clientResolver,
			visitCounter,
			auditDispatcher,
		),
	})

	meHandler := handlers.NewMeHandler(unitRepo)
	unitHandler := handlers.NewUnitHandler(db, auditDispatcher)
	catalogHandler := handlers.NewCatalogHandler(db, auditDispatcher)
	clientHandler := handlers.NewClientHandler(db, checkClientUC, registerClientUC)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	// ======================================================
	// 🩺 INFRA ROUTES
	// ======================================================
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if cfg.MetricsEnabled {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🤖 AGENDA (automação WhatsApp)
		// ------------------------------
		api.POST("/agenda", middleware.APIKeyMiddleware(cfg), agendaHandler.Handle)

		// ------------------------------
		// 🔐 API PRIVADA
		// ------------------------------
		secured := api.Group("/me")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("", meHandler.GetMe)

			secured.GET("/unit", unitHandler.GetSettings)
			secured.PATCH("/unit", unitHandler.UpdateSettings)

			secured.GET("/services", catalogHandler.ListServices)
			secured.POST("/services", catalogHandler.CreateService)
			secured.PATCH("/services/:id", catalogHandler.UpdateService)

			secured.GET("/barbers", catalogHandler.ListBarbers)
			secured.POST("/barbers", catalogHandler.CreateBarber)
			secured.PATCH("/barbers/:id", catalogHandler.UpdateBarber)

			secured.GET("/clients", clientHandler.List)
			secured.GET("/clients/lookup", clientHandler.Lookup)
			secured.POST("/clients", clientHandler.Register)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.GET("/availability", appointmentHandler.Availability)
			secured.GET("/appointments", appointmentHandler.List)
			secured.POST("/appointments", appointmentHandler.Create)
			secured.POST("/appointments/quick", appointmentHandler.QuickService)
			secured.PATCH("/appointments/:id", appointmentHandler.Update)
			secured.PATCH("/appointments/:id/status", appointmentHandler.UpdateStatus)
			secured.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)
			secured.PATCH("/appointments/:id/no-show", appointmentHandler.NoShow)

			secured.GET("/audit-logs", auditLogsHandler.List)
		}
	}

	return nil
}
