package services

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/hospital-api/internal/apperr"
	"github.com/harentsoaR/hospital-api/internal/models"
)

// EntityType keys the deletion policy table.
type EntityType string

const (
	EntityPatient       EntityType = "patient"
	EntityAppointment   EntityType = "appointment"
	EntityPrescription  EntityType = "prescription"
	EntityMedicalRecord EntityType = "medical_record"
)

// DeleteMode is the outcome of a deletion policy lookup.
type DeleteMode int

const (
	// DeleteDenied rejects the deletion outright for this (entity, kind) pair.
	DeleteDenied DeleteMode = iota
	// DeleteSoft marks the record hidden and keeps it recoverable.
	DeleteSoft
	// DeleteHard removes the record permanently.
	DeleteHard
)

// deletionPolicy is keyed by entity type and actor kind, not a single flag:
// administrative removals stay auditable and reversible while clinician
// self-service removals are destructive but narrowly scoped.
var deletionPolicy = map[EntityType]map[models.ActorKind]DeleteMode{
	EntityPatient: {
		models.KindSuperAdmin: DeleteHard,
		models.KindAdmin:      DeleteHard,
	},
	EntityAppointment: {
		models.KindSuperAdmin: DeleteSoft,
		models.KindAdmin:      DeleteSoft,
		models.KindDoctor:     DeleteHard,
	},
	EntityPrescription: {
		models.KindSuperAdmin: DeleteHard,
		models.KindDoctor:     DeleteHard,
	},
	EntityMedicalRecord: {
		models.KindSuperAdmin: DeleteSoft,
		models.KindAdmin:      DeleteSoft,
		models.KindDoctor:     DeleteSoft,
	},
}

// DeletionPolicyFor looks up the soft-vs-hard decision for a deletion.
func DeletionPolicyFor(entity EntityType, kind models.ActorKind) DeleteMode {
	modes, ok := deletionPolicy[entity]
	if !ok {
		return DeleteDenied
	}
	return modes[kind]
}

// UpdateStamps returns the audit fields every mutation writes.
func UpdateStamps(actor *models.AuthActor, now time.Time) bson.M {
	return bson.M{
		"updatedBy":      actor.ID,
		"updatedByModel": string(actor.Kind),
		"updatedAt":      now,
	}
}

// SoftDeleteStamps returns the fields a recoverable deletion sets.
func SoftDeleteStamps(actor *models.AuthActor, now time.Time) bson.M {
	return bson.M{
		"isDeleted":      true,
		"deletedBy":      actor.ID,
		"deletedByModel": string(actor.Kind),
		"deletedAt":      now,
	}
}

// RequireOwnerOrCapability rejects a mutation unless the caller owns the
// record (the stored doctor id equals the actor id) or holds the explicit
// override capability. SuperAdmins pass through the gate unconditionally.
func RequireOwnerOrCapability(gate *PermissionGate, actor *models.AuthActor, owner primitive.ObjectID, capability string) error {
	if actor.Kind == models.KindDoctor && actor.ID == owner {
		return nil
	}
	if gate.Allow(actor, capability) {
		return nil
	}
	return apperr.Authorization("Permission denied")
}
