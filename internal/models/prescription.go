package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Medicine is one line item of a prescription.
type Medicine struct {
	Name      string `bson:"name" json:"name"`
	Dosage    string `bson:"dosage" json:"dosage"`
	Frequency string `bson:"frequency" json:"frequency"`
	Duration  string `bson:"duration" json:"duration"`
}

// Prescription is a clinical document owned by the issuing doctor. It is
// hard-deleted only, never soft-deleted.
type Prescription struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	AppointmentID  primitive.ObjectID  `bson:"appointmentId" json:"appointmentId"`
	DoctorID       primitive.ObjectID  `bson:"doctorId" json:"doctorId"`
	PatientID      primitive.ObjectID  `bson:"patientId" json:"patientId"`
	Diagnosis      string              `bson:"diagnosis" json:"diagnosis"`
	Medicines      []Medicine          `bson:"medicines" json:"medicines"`
	Notes          string              `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedBy      primitive.ObjectID  `bson:"createdBy" json:"createdBy"`
	CreatedByModel string              `bson:"createdByModel" json:"createdByModel"`
	UpdatedBy      *primitive.ObjectID `bson:"updatedBy,omitempty" json:"updatedBy,omitempty"`
	UpdatedByModel string              `bson:"updatedByModel,omitempty" json:"updatedByModel,omitempty"`
	CreatedAt      time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time           `bson:"updatedAt" json:"updatedAt"`
}
