package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HospitalSettings is the lazily-created singleton configuration record. It is
// find-or-created with these defaults on first read.
type HospitalSettings struct {
	ID                  primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name                string              `bson:"name" json:"name"`
	Address             string              `bson:"address" json:"address"`
	ContactEmail        string              `bson:"contactEmail" json:"contactEmail"`
	OpeningTime         string              `bson:"openingTime" json:"openingTime"`
	ClosingTime         string              `bson:"closingTime" json:"closingTime"`
	SlotDurationMinutes int                 `bson:"slotDurationMinutes" json:"slotDurationMinutes"`
	UpdatedBy           *primitive.ObjectID `bson:"updatedBy,omitempty" json:"updatedBy,omitempty"`
	UpdatedByModel      string              `bson:"updatedByModel,omitempty" json:"updatedByModel,omitempty"`
	UpdatedAt           time.Time           `bson:"updatedAt" json:"updatedAt"`
}
