package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppointmentStatusValid(t *testing.T) {
	for _, s := range []AppointmentStatus{StatusScheduled, StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow} {
		assert.True(t, s.Valid(), "%s should be valid", s)
	}
	assert.False(t, AppointmentStatus("rescheduled").Valid())
	assert.False(t, AppointmentStatus("").Valid())
}

func TestAppointmentStatusTerminal(t *testing.T) {
	terminal := []AppointmentStatus{StatusCompleted, StatusCancelled, StatusNoShow}
	for _, s := range terminal {
		assert.True(t, s.Terminal(), "%s should be terminal", s)
	}
	for _, s := range []AppointmentStatus{StatusScheduled, StatusPending, StatusConfirmed} {
		assert.False(t, s.Terminal(), "%s should not be terminal", s)
	}
}

func TestActorKindDispatch(t *testing.T) {
	assert.Equal(t, "doctors", KindDoctor.Collection())
	assert.Equal(t, "superadmins", KindSuperAdmin.Collection())
	assert.Equal(t, "admin", KindAdmin.Role())

	kind, ok := KindFromModel("Patient")
	assert.True(t, ok)
	assert.Equal(t, KindPatient, kind)

	_, ok = KindFromModel("Nurse")
	assert.False(t, ok)
}

func TestPermissionSet(t *testing.T) {
	set := PermissionSet{CapAppointmentsCreate, "custom_future_cap"}
	assert.True(t, set.Has(CapAppointmentsCreate))
	assert.True(t, set.Has("custom_future_cap"), "unknown strings stay matchable")
	assert.False(t, set.Has(CapAppointmentsDelete))

	assert.True(t, KnownCapability(CapDeletePrescription))
	assert.False(t, KnownCapability("custom_future_cap"))
}
