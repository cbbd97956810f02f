package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AppointmentStatus is the lifecycle state of a booking.
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusNoShow    AppointmentStatus = "no_show"
)

// Valid reports whether s is a member of the status enum.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusScheduled, StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// Terminal reports whether no further transition may leave s.
func (s AppointmentStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// Appointment occupies one (doctor, date, timeSlot) unit. At most one
// non-deleted document per slot exists, enforced by a partial unique index.
type Appointment struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	PatientID      primitive.ObjectID  `bson:"patientId" json:"patientId"`
	DoctorID       primitive.ObjectID  `bson:"doctorId" json:"doctorId"`
	Date           time.Time           `bson:"date" json:"date"`
	TimeSlot       string              `bson:"timeSlot" json:"timeSlot"`
	Status         AppointmentStatus   `bson:"status" json:"status"`
	Reason         string              `bson:"reason" json:"reason"`
	Notes          string              `bson:"notes,omitempty" json:"notes,omitempty"`
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

// AppointmentView is the denormalized read shape joining patient and doctor
// summaries. Either side may have been hard-deleted, so the names fall back.
type AppointmentView struct {
	Appointment `bson:",inline"`

	PatientName  string `json:"patientName"`
	PatientEmail string `json:"patientEmail,omitempty"`
	DoctorName   string `json:"doctorName"`
	DoctorEmail  string `json:"doctorEmail,omitempty"`
}
