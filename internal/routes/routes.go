package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
	"github.com/BruksfildServices01/clinic-scheduler/internal/handlers"
	infraRepo "github.com/BruksfildServices01/clinic-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/clinic-scheduler/internal/metrics"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	ucAppointment "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/appointment"
)

// Deps are the process singletons shared by every route.
type Deps struct {
	DB       *gorm.DB
	Redis    *redis.Client
	Config   *config.Config
	Log      *zap.Logger
	Metrics  *metrics.Collector
	Gatherer prometheus.Gatherer
	Audit    *audit.Dispatcher
}

func RegisterRoutes(r *gin.Engine, d Deps) {

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(d.Log),
		middleware.Metrics(d.Metrics),
		middleware.CORSMiddleware(d.Config.CORSAllowedOrigins),
		gin.Recovery(),
	)

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(d.DB)
	profileRepo := infraRepo.NewProfileGormRepository(d.DB)

	availabilityStore := infraRepo.NewCachedAvailability(
		infraRepo.NewAvailabilityGormRepository(d.DB),
		d.Redis,
		d.Config.AvailabilityCacheTTL,
		d.Log,
		d.Metrics,
	)

	obs := ucAppointment.Observer{Log: d.Log, Metrics: d.Metrics}
	resolver := ucAppointment.NewAvailabilityResolver(appointmentRepo, availabilityStore)

	// ======================================================
	// USE CASES: APPOINTMENTS
	// ======================================================
	appointmentUC := handlers.AppointmentUseCases{
		Create:   ucAppointment.NewCreateAppointment(appointmentRepo, resolver, d.Audit, obs),
		Update:   ucAppointment.NewUpdateAppointment(appointmentRepo, resolver, d.Audit, obs),
		Cancel:   ucAppointment.NewCancelAppointment(appointmentRepo, d.Audit, obs),
		Complete: ucAppointment.NewCompleteAppointment(appointmentRepo, d.Audit, obs),
		NoShow:   ucAppointment.NewMarkNoShow(appointmentRepo, d.Audit, obs),
		Get:      ucAppointment.NewGetAppointment(appointmentRepo),
		List:     ucAppointment.NewListAppointments(appointmentRepo),
		Slots:    ucAppointment.NewGetAvailability(appointmentRepo, resolver, d.Config.SlotWidthMinutes, obs),
	}

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(d.DB, d.Config.JWT, d.Log)
	doctorHandler := handlers.NewDoctorHandler(d.DB, availabilityStore, d.Log)
	patientHandler := handlers.NewPatientHandler(d.DB, d.Log)
	appointmentHandler := handlers.NewAppointmentHandler(appointmentUC, profileRepo, d.Log)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.DB, d.Log)

	// ======================================================
	// OPS
	// ======================================================
	r.GET("/health", func(c *gin.Context) {
		sqlDB, err := d.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler(d.Gatherer)))

	auth := middleware.AuthMiddleware(d.Config.JWT)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// AUTH
		// ------------------------------
		limiter := middleware.NewIPRateLimiter(d.Config.AuthRateLimitRPS, d.Config.AuthRateLimitBurst)

		authAPI := api.Group("/auth")
		{
			authAPI.POST("/register", limiter.Middleware(), authHandler.Register)
			authAPI.POST("/login", limiter.Middleware(), authHandler.Login)
			authAPI.GET("/profile", auth, authHandler.Profile)
		}

		api.GET("/audit-logs", auth, auditLogsHandler.List)

		// ------------------------------
		// DOCTORS
		// ------------------------------
		doctors := api.Group("/doctors")
		doctors.Use(auth, middleware.RequireRole(models.RoleDoctor))
		{
			doctors.GET("/profile", doctorHandler.GetProfile)
			doctors.PUT("/profile", doctorHandler.UpdateProfile)

			doctors.GET("/availability", doctorHandler.GetAvailability)
			doctors.PUT("/availability", doctorHandler.UpdateAvailability)

			doctors.GET("/patients", doctorHandler.ListPatients)
			doctors.GET("/patients/search", doctorHandler.SearchPatients)
			doctors.POST("/assign-patient", doctorHandler.AssignPatient)
			doctors.GET("/patients/:patientId", doctorHandler.GetPatient)
			doctors.DELETE("/patients/:patientId", doctorHandler.RemovePatient)
			doctors.GET("/patients/:patientId/condition-details", doctorHandler.PatientConditionDetails)
			doctors.POST("/patients/:patientId/medical-history", doctorHandler.AddMedicalHistory)
			doctors.POST("/patients/:patientId/prescriptions", doctorHandler.AddPrescription)
		}

		// ------------------------------
		// PATIENTS
		// ------------------------------
		patients := api.Group("/patients")
		patients.Use(auth, middleware.RequireRole(models.RolePatient))
		{
			patients.GET("/profile", patientHandler.GetProfile)
			patients.PUT("/profile", patientHandler.UpdateProfile)

			patients.GET("/allergies", patientHandler.GetAllergies())
			patients.POST("/allergies", patientHandler.AddAllergy())
			patients.DELETE("/allergies/:allergy", patientHandler.RemoveAllergy())

			patients.GET("/conditions", patientHandler.GetConditions())
			patients.POST("/conditions", patientHandler.AddCondition())
			patients.DELETE("/conditions/:condition", patientHandler.RemoveCondition())

			patients.GET("/condition-details", patientHandler.ListConditionDetails)
			patients.POST("/condition-details", patientHandler.AddConditionDetail)
			patients.GET("/condition-details/:conditionId", patientHandler.GetConditionDetail)
			patients.PUT("/condition-details/:conditionId", patientHandler.UpdateConditionDetail)
			patients.DELETE("/condition-details/:conditionId", patientHandler.DeleteConditionDetail)

			patients.GET("/medical-history", patientHandler.MedicalHistory)
			patients.GET("/prescriptions", patientHandler.Prescriptions)
			patients.GET("/doctors", patientHandler.Doctors)
		}

		// ------------------------------
		// APPOINTMENTS
		// ------------------------------
		appointments := api.Group("/appointments")
		appointments.Use(auth)
		{
			appointments.POST("", appointmentHandler.Create)
			appointments.GET("/:id", appointmentHandler.Get)
			appointments.PUT("/:id", appointmentHandler.Update)
			appointments.PATCH("/:id/cancel", appointmentHandler.Cancel)

			doctorOnly := middleware.RequireRole(models.RoleDoctor)
			appointments.PATCH("/:id/complete", doctorOnly, appointmentHandler.Complete)
			appointments.PATCH("/:id/no-show", doctorOnly, appointmentHandler.NoShow)

			appointments.GET("/doctor/:doctorId", doctorOnly, appointmentHandler.ListForDoctor)
			appointments.GET("/patient/:patientId", middleware.RequireRole(models.RolePatient), appointmentHandler.ListForPatient)
			appointments.GET("/doctor/:doctorId/available-slots", appointmentHandler.AvailableSlots)
		}
	}
}
