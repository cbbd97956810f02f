package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ActorKind tags which of the four identity collections a record lives in.
type ActorKind string

const (
	KindSuperAdmin ActorKind = "SuperAdmin"
	KindAdmin      ActorKind = "Admin"
	KindDoctor     ActorKind = "Doctor"
	KindPatient    ActorKind = "Patient"
)

// Collection returns the mongo collection backing this actor kind.
func (k ActorKind) Collection() string {
	switch k {
	case KindSuperAdmin:
		return "superadmins"
	case KindAdmin:
		return "admins"
	case KindDoctor:
		return "doctors"
	default:
		return "patients"
	}
}

// Role returns the lowercase role string carried in tokens.
func (k ActorKind) Role() string {
	switch k {
	case KindSuperAdmin:
		return "superadmin"
	case KindAdmin:
		return "admin"
	case KindDoctor:
		return "doctor"
	default:
		return "patient"
	}
}

// KindFromModel maps a token's model claim back to an actor kind.
func KindFromModel(model string) (ActorKind, bool) {
	switch model {
	case string(KindSuperAdmin):
		return KindSuperAdmin, true
	case string(KindAdmin):
		return KindAdmin, true
	case string(KindDoctor):
		return KindDoctor, true
	case string(KindPatient):
		return KindPatient, true
	}
	return "", false
}

// ActorStatus is the liveness of an actor record, re-checked on every request.
type ActorStatus string

const (
	StatusActive   ActorStatus = "active"
	StatusInactive ActorStatus = "inactive"
	StatusOnLeave  ActorStatus = "on_leave"
)

// SuperAdminSingleton is the constant key every SuperAdmin document carries.
// A unique index on it caps the collection at one document, so concurrent
// bootstrap registrations cannot both succeed.
const SuperAdminSingleton = "root"

// SuperAdmin is the single bootstrap identity. Exactly one may exist.
type SuperAdmin struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Email       string             `bson:"email" json:"email"`
	Password    string             `bson:"password" json:"-"`
	Status      ActorStatus        `bson:"status" json:"status"`
	Permissions PermissionSet      `bson:"permissions" json:"permissions"`
	Singleton   string             `bson:"singleton" json:"-"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type Admin struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name           string             `bson:"name" json:"name"`
	Email          string             `bson:"email" json:"email"`
	Password       string             `bson:"password" json:"-"`
	Status         ActorStatus        `bson:"status" json:"status"`
	Permissions    PermissionSet      `bson:"permissions" json:"permissions"`
	CreatedBy      primitive.ObjectID `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	CreatedByModel string             `bson:"createdByModel,omitempty" json:"createdByModel,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type Doctor struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name           string             `bson:"name" json:"name"`
	Email          string             `bson:"email" json:"email"`
	Password       string             `bson:"password" json:"-"`
	Specialization string             `bson:"specialization" json:"specialization"`
	Phone          string             `bson:"phone" json:"phone"`
	Status         ActorStatus        `bson:"status" json:"status"`
	Permissions    PermissionSet      `bson:"permissions" json:"permissions"`
	CreatedBy      primitive.ObjectID `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	CreatedByModel string             `bson:"createdByModel,omitempty" json:"createdByModel,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type Patient struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name           string             `bson:"name" json:"name"`
	Email          string             `bson:"email" json:"email"`
	Password       string             `bson:"password" json:"-"`
	Age            int                `bson:"age" json:"age"`
	Gender         string             `bson:"gender" json:"gender"`
	Phone          string             `bson:"phone" json:"phone"`
	Status         ActorStatus        `bson:"status" json:"status"`
	Permissions    PermissionSet      `bson:"permissions" json:"permissions"`
	CreatedBy      primitive.ObjectID `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	CreatedByModel string             `bson:"createdByModel,omitempty" json:"createdByModel,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// AuthActor is a resolved identity, freshly re-read from its collection for
// the current request. Permissions reflect the stored record, not the token.
type AuthActor struct {
	ID          primitive.ObjectID `json:"id"`
	Name        string             `json:"name"`
	Email       string             `json:"email"`
	Kind        ActorKind          `json:"kind"`
	Status      ActorStatus        `json:"status"`
	Permissions PermissionSet      `json:"permissions"`
}

// IsActive reports whether the actor may act at all.
func (a *AuthActor) IsActive() bool { return a.Status == StatusActive }
