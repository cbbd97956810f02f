package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/harentsoaR/hospital-api/internal/apperr"
	"github.com/harentsoaR/hospital-api/internal/config"
	"github.com/harentsoaR/hospital-api/internal/models"
	"github.com/harentsoaR/hospital-api/internal/response"
	"github.com/harentsoaR/hospital-api/internal/services"
)

// Handler carries the database and services every endpoint needs. All route
// handlers are methods on this struct.
type Handler struct {
	DB        *mongo.Database
	Cfg       *config.Config
	Log       zerolog.Logger
	Gate      *services.PermissionGate
	Scheduler *services.SchedulingEngine
	Records   *services.ClinicalRecords
	Notifier  *services.NotificationFanout
	Settings  *services.SettingsService

	superAdmins superAdminStore
}

func New(db *mongo.Database, cfg *config.Config, log zerolog.Logger, gate *services.PermissionGate,
	scheduler *services.SchedulingEngine, records *services.ClinicalRecords,
	notifier *services.NotificationFanout, settings *services.SettingsService) *Handler {
	return &Handler{
		DB:          db,
		Cfg:         cfg,
		Log:         log,
		Gate:        gate,
		Scheduler:   scheduler,
		Records:     records,
		Notifier:    notifier,
		Settings:    settings,
		superAdmins: mongoSuperAdminStore{db: db},
	}
}

// superAdminStore is the bootstrap seam; duplicate-key errors pass through
// untranslated so the handler decides the response.
type superAdminStore interface {
	Count(ctx context.Context) (int64, error)
	Insert(ctx context.Context, admin models.SuperAdmin) error
}

type mongoSuperAdminStore struct {
	db *mongo.Database
}

func (s mongoSuperAdminStore) Count(ctx context.Context) (int64, error) {
	return s.db.Collection(models.KindSuperAdmin.Collection()).CountDocuments(ctx, bson.M{})
}

func (s mongoSuperAdminStore) Insert(ctx context.Context, admin models.SuperAdmin) error {
	_, err := s.db.Collection(models.KindSuperAdmin.Collection()).InsertOne(ctx, admin)
	return err
}

// fail writes the error envelope and logs unclassified failures with their
// internal detail, which never reaches the caller outside dev mode.
func (h *Handler) fail(c *gin.Context, err error) {
	if apperr.KindOf(err) == apperr.KindInternal {
		h.Log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	}
	response.FromError(c, err, h.Cfg.IsDev())
}
