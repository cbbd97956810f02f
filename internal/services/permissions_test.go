package services

import (
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/hospital-api/internal/apperr"
	"github.com/harentsoaR/hospital-api/internal/models"
)

func actorOf(kind models.ActorKind, permissions ...string) *models.AuthActor {
	return &models.AuthActor{
		ID:          primitive.NewObjectID(),
		Kind:        kind,
		Status:      models.StatusActive,
		Permissions: models.PermissionSet(permissions),
	}
}

func newTestGate() *PermissionGate {
	return NewPermissionGate(zerolog.Nop())
}

func TestAllowSuperAdminBypass(t *testing.T) {
	gate := newTestGate()
	superadmin := actorOf(models.KindSuperAdmin)

	assert.True(t, gate.Allow(superadmin, models.CapAppointmentsDelete))
	assert.True(t, gate.Allow(superadmin, "anything_at_all"))
}

func TestAllowRoleLiterals(t *testing.T) {
	gate := newTestGate()

	admin := actorOf(models.KindAdmin)
	assert.True(t, gate.Allow(admin, "admin"), "role literal passes without capability list")
	assert.False(t, gate.Allow(admin, "superadmin"))

	doctor := actorOf(models.KindDoctor)
	assert.False(t, gate.Allow(doctor, "admin"))
}

func TestAllowCapabilityMembership(t *testing.T) {
	gate := newTestGate()

	admin := actorOf(models.KindAdmin, models.CapAppointmentsDelete)
	assert.True(t, gate.Allow(admin, models.CapAppointmentsDelete))
	// An admin role does not blanket-pass explicit capability checks.
	assert.False(t, gate.Allow(admin, models.CapDeleteDoctors))

	patient := actorOf(models.KindPatient)
	assert.False(t, gate.Allow(patient, models.CapAppointmentsCreate))
}

func TestAllowUnknownCapabilityTolerated(t *testing.T) {
	gate := newTestGate()

	holder := actorOf(models.KindDoctor, "experimental_cap")
	assert.True(t, gate.Allow(holder, "experimental_cap"), "unrecognized strings still match literally")
	assert.False(t, gate.Allow(actorOf(models.KindDoctor), "experimental_cap"))
}

func TestAllowNilActor(t *testing.T) {
	gate := newTestGate()
	assert.False(t, gate.Allow(nil, models.CapAppointmentsView))
}

func TestRequireDenialMessage(t *testing.T) {
	gate := newTestGate()

	err := gate.Require(actorOf(models.KindAdmin), models.CapAppointmentsDelete)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, apperr.Status(err))
	assert.Equal(t, "Permission denied", apperr.PublicMessage(err))
}

func TestRequireAnyRoleOrCapability(t *testing.T) {
	gate := newTestGate()

	// Kind match passes without any capability.
	doctor := actorOf(models.KindDoctor)
	assert.NoError(t, gate.RequireAny(doctor, []models.ActorKind{models.KindDoctor}, models.CapAppointmentsCreate))

	// Capability passes without the kind.
	admin := actorOf(models.KindAdmin, models.CapAppointmentsCreate)
	assert.NoError(t, gate.RequireAny(admin, []models.ActorKind{models.KindDoctor}, models.CapAppointmentsCreate))

	// Neither: denied.
	patient := actorOf(models.KindPatient)
	err := gate.RequireAny(patient, []models.ActorKind{models.KindDoctor}, models.CapAppointmentsCreate)
	assert.Equal(t, http.StatusForbidden, apperr.Status(err))
}
