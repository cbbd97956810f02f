package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MedicalRecord is a clinical document owned by the authoring doctor. Records
// are soft-deleted only: clinical history is never destroyed.
type MedicalRecord struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	AppointmentID  primitive.ObjectID  `bson:"appointmentId" json:"appointmentId"`
	DoctorID       primitive.ObjectID  `bson:"doctorId" json:"doctorId"`
	PatientID      primitive.ObjectID  `bson:"patientId" json:"patientId"`
	RecordType     string              `bson:"recordType" json:"recordType"`
	Description    string              `bson:"description" json:"description"`
	Attachments    []string            `bson:"attachments,omitempty" json:"attachments,omitempty"`
	CreatedBy      primitive.ObjectID  `bson:"createdBy" json:"createdBy"`
	CreatedByModel string              `bson:"createdByModel" json:"createdByModel"`
	UpdatedBy      *primitive.ObjectID `bson:"updatedBy,omitempty" json:"updatedBy,omitempty"`
	UpdatedByModel string              `bson:"updatedByModel,omitempty" json:"updatedByModel,omitempty"`
	IsDeleted      bool                `bson:"isDeleted" json:"isDeleted"`
	DeletedBy      *primitive.ObjectID `bson:"deletedBy,omitempty" json:"deletedBy,omitempty"`
	DeletedByModel string              `bson:"deletedByModel,omitempty" json:"deletedByModel,omitempty"`
	DeletedAt      *time.Time          `bson:"deletedAt,omitempty" json:"deletedAt,omitempty"`
	CreatedAt      time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time           `bson:"updatedAt" json:"updatedAt"`
}
