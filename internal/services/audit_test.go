package services

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/hospital-api/internal/apperr"
	"github.com/harentsoaR/hospital-api/internal/models"
)

func TestDeletionPolicyTable(t *testing.T) {
	cases := []struct {
		entity EntityType
		kind   models.ActorKind
		want   DeleteMode
	}{
		// Patient records are always hard-deleted.
		{EntityPatient, models.KindAdmin, DeleteHard},
		{EntityPatient, models.KindSuperAdmin, DeleteHard},
		{EntityPatient, models.KindDoctor, DeleteDenied},
		{EntityPatient, models.KindPatient, DeleteDenied},

		// Administrative appointment removal is recoverable, a doctor's is not.
		{EntityAppointment, models.KindAdmin, DeleteSoft},
		{EntityAppointment, models.KindSuperAdmin, DeleteSoft},
		{EntityAppointment, models.KindDoctor, DeleteHard},
		{EntityAppointment, models.KindPatient, DeleteDenied},

		// Prescriptions are hard-deleted, doctor-side only.
		{EntityPrescription, models.KindDoctor, DeleteHard},
		{EntityPrescription, models.KindAdmin, DeleteDenied},

		// Medical records are soft-deleted only.
		{EntityMedicalRecord, models.KindDoctor, DeleteSoft},
		{EntityMedicalRecord, models.KindAdmin, DeleteSoft},
		{EntityMedicalRecord, models.KindPatient, DeleteDenied},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, DeletionPolicyFor(tc.entity, tc.kind), "%s by %s", tc.entity, tc.kind)
	}
}

func TestDeletionPolicyUnknownEntity(t *testing.T) {
	assert.Equal(t, DeleteDenied, DeletionPolicyFor(EntityType("invoice"), models.KindSuperAdmin))
}

func TestUpdateStamps(t *testing.T) {
	actor := actorOf(models.KindAdmin)
	now := time.Now()

	stamps := UpdateStamps(actor, now)
	assert.Equal(t, actor.ID, stamps["updatedBy"])
	assert.Equal(t, "Admin", stamps["updatedByModel"])
	assert.Equal(t, now, stamps["updatedAt"])
}

func TestSoftDeleteStamps(t *testing.T) {
	actor := actorOf(models.KindAdmin)
	now := time.Now()

	stamps := SoftDeleteStamps(actor, now)
	assert.Equal(t, true, stamps["isDeleted"])
	assert.Equal(t, actor.ID, stamps["deletedBy"])
	assert.Equal(t, "Admin", stamps["deletedByModel"])
	assert.Equal(t, now, stamps["deletedAt"])
}

func TestRequireOwnerOrCapability(t *testing.T) {
	gate := newTestGate()
	owner := primitive.NewObjectID()

	owningDoctor := actorOf(models.KindDoctor)
	owningDoctor.ID = owner
	assert.NoError(t, RequireOwnerOrCapability(gate, owningDoctor, owner, models.CapUpdatePrescription))

	otherDoctor := actorOf(models.KindDoctor)
	err := RequireOwnerOrCapability(gate, otherDoctor, owner, models.CapUpdatePrescription)
	assert.Equal(t, http.StatusForbidden, apperr.Status(err))

	overrideHolder := actorOf(models.KindAdmin, models.CapUpdatePrescription)
	assert.NoError(t, RequireOwnerOrCapability(gate, overrideHolder, owner, models.CapUpdatePrescription))

	superadmin := actorOf(models.KindSuperAdmin)
	assert.NoError(t, RequireOwnerOrCapability(gate, superadmin, owner, models.CapUpdatePrescription))
}

func TestMedicalRecordViewCapabilityDoesNotMutate(t *testing.T) {
	gate := newTestGate()
	owner := primitive.NewObjectID()

	// A read grant must not clear the mutation gates.
	viewer := actorOf(models.KindAdmin, models.CapMedicalRecordsView)
	err := RequireOwnerOrCapability(gate, viewer, owner, models.CapUpdateMedicalRecord)
	assert.Equal(t, http.StatusForbidden, apperr.Status(err))
	err = RequireOwnerOrCapability(gate, viewer, owner, models.CapDeleteMedicalRecord)
	assert.Equal(t, http.StatusForbidden, apperr.Status(err))

	editor := actorOf(models.KindAdmin, models.CapUpdateMedicalRecord)
	assert.NoError(t, RequireOwnerOrCapability(gate, editor, owner, models.CapUpdateMedicalRecord))
	assert.Error(t, RequireOwnerOrCapability(gate, editor, owner, models.CapDeleteMedicalRecord))
}
