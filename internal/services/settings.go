package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harentsoaR/hospital-api/internal/apperr"
	"github.com/harentsoaR/hospital-api/internal/models"
)

// SettingsService manages the singleton hospital settings record. The record
// is a find-or-create against the store, never a module-level variable.
type SettingsService struct {
	DB   *mongo.Database
	Gate *PermissionGate
}

func NewSettingsService(db *mongo.Database, gate *PermissionGate) *SettingsService {
	return &SettingsService{DB: db, Gate: gate}
}

// UpdateSettingsInput carries the mutable settings fields.
type UpdateSettingsInput struct {
	Name                *string `json:"name"`
	Address             *string `json:"address"`
	ContactEmail        *string `json:"contactEmail"`
	OpeningTime         *string `json:"openingTime"`
	ClosingTime         *string `json:"closingTime"`
	SlotDurationMinutes *int    `json:"slotDurationMinutes"`
}

// Get returns the settings record, lazily creating it with defaults on the
// first read.
func (s *SettingsService) Get(ctx context.Context) (*models.HospitalSettings, error) {
	defaults := bson.M{
		"name":                "General Hospital",
		"address":             "",
		"contactEmail":        "",
		"openingTime":         "08:00",
		"closingTime":         "18:00",
		"slotDurationMinutes": 30,
		"updatedAt":           time.Now(),
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var settings models.HospitalSettings
	err := s.DB.Collection("settings").
		FindOneAndUpdate(ctx, bson.M{}, bson.M{"$setOnInsert": defaults}, opts).
		Decode(&settings)
	if err != nil {
		return nil, apperr.Internal("failed to load settings", err)
	}
	return &settings, nil
}

// Update mutates the singleton, admin-side only, stamping the actor.
func (s *SettingsService) Update(ctx context.Context, in UpdateSettingsInput, actor *models.AuthActor) (*models.HospitalSettings, error) {
	if err := s.Gate.Require(actor, "admin"); err != nil {
		return nil, err
	}

	// Ensure the singleton exists before updating it.
	current, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	set := UpdateStamps(actor, time.Now())
	if in.Name != nil {
		set["name"] = *in.Name
	}
	if in.Address != nil {
		set["address"] = *in.Address
	}
	if in.ContactEmail != nil {
		set["contactEmail"] = *in.ContactEmail
	}
	if in.OpeningTime != nil {
		set["openingTime"] = *in.OpeningTime
	}
	if in.ClosingTime != nil {
		set["closingTime"] = *in.ClosingTime
	}
	if in.SlotDurationMinutes != nil {
		if *in.SlotDurationMinutes <= 0 {
			return nil, apperr.Validation("Slot duration must be positive")
		}
		set["slotDurationMinutes"] = *in.SlotDurationMinutes
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var settings models.HospitalSettings
	err = s.DB.Collection("settings").
		FindOneAndUpdate(ctx, bson.M{"_id": current.ID}, bson.M{"$set": set}, opts).
		Decode(&settings)
	if err != nil {
		return nil, apperr.Internal("failed to update settings", err)
	}
	return &settings, nil
}
