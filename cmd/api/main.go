package main

import (
	"context"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/harentsoaR/hospital-api/internal/config"
	"github.com/harentsoaR/hospital-api/internal/handlers"
	"github.com/harentsoaR/hospital-api/internal/middleware"
	"github.com/harentsoaR/hospital-api/internal/services"
	"github.com/harentsoaR/hospital-api/internal/storage"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()
	db, disconnect, err := storage.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer disconnect()
	logger.Info().Str("database", cfg.MongoDatabase).Msg("connected to MongoDB")

	// The partial unique index on appointments is the correctness guarantee
	// behind slot uniqueness; refuse to start without it.
	if err := storage.EnsureIndexes(ctx, db); err != nil {
		logger.Fatal().Err(err).Msg("failed to create indexes")
	}

	// --- Services ---
	gate := services.NewPermissionGate(logger)
	resolver := services.NewIdentityResolver(db)
	notifier := services.NewNotificationFanout(db, logger)
	scheduler := services.NewSchedulingEngine(db, gate, notifier, logger)
	records := services.NewClinicalRecords(db, gate, notifier, logger)
	settings := services.NewSettingsService(db, gate)

	h := handlers.New(db, cfg, logger, gate, scheduler, records, notifier, settings)

	// --- Router ---
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	authRoutes := r.Group("/auth")
	{
		authRoutes.POST("/superadmin/register", h.RegisterSuperAdmin)
		authRoutes.POST("/login", h.Login)
		authRoutes.POST("/logout", h.Logout)
	}

	apiRoutes := r.Group("/api")
	apiRoutes.Use(middleware.Auth(cfg.JWTSecret, resolver))
	{
		apiRoutes.GET("/profile", h.GetProfile)

		// Actor management
		apiRoutes.POST("/admins", h.CreateAdmin)
		apiRoutes.POST("/doctors", h.CreateDoctor)
		apiRoutes.GET("/doctors", h.ListDoctors)
		apiRoutes.DELETE("/doctors/:id", h.DeleteDoctor)
		apiRoutes.POST("/patients", h.CreatePatient)
		apiRoutes.GET("/patients", h.ListPatients)
		apiRoutes.DELETE("/patients/:id", h.DeletePatient)
		apiRoutes.PATCH("/actors/:role/:id/status", h.UpdateActorStatus)

		// Appointments
		apiRoutes.POST("/appointments", h.CreateAppointment)
		apiRoutes.GET("/appointments", h.GetAppointments)
		apiRoutes.GET("/appointments/:id", h.GetAppointment)
		apiRoutes.PATCH("/appointments/:id/status", h.UpdateAppointmentStatus)
		apiRoutes.DELETE("/appointments/:id", h.DeleteAppointment)

		// Prescriptions
		apiRoutes.POST("/prescriptions", h.CreatePrescription)
		apiRoutes.GET("/prescriptions", h.GetPrescriptions)
		apiRoutes.PUT("/prescriptions/:id", h.UpdatePrescription)
		apiRoutes.DELETE("/prescriptions/:id", h.DeletePrescription)

		// Medical records
		apiRoutes.POST("/medical-records", h.CreateMedicalRecord)
		apiRoutes.GET("/medical-records", h.GetMedicalRecords)
		apiRoutes.PUT("/medical-records/:id", h.UpdateMedicalRecord)
		apiRoutes.DELETE("/medical-records/:id", h.DeleteMedicalRecord)

		// Notifications
		apiRoutes.GET("/notifications", h.GetNotifications)
		apiRoutes.PATCH("/notifications/:id/read", h.MarkNotificationRead)
		// PATCH on the collection marks everything read for the caller.
		apiRoutes.PATCH("/notifications", h.MarkAllNotificationsRead)

		// Settings
		apiRoutes.GET("/settings", h.GetSettings)
		apiRoutes.PUT("/settings", h.UpdateSettings)
	}

	logger.Info().Str("port", cfg.Port).Str("mode", cfg.AppMode).Msg("starting server")
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
