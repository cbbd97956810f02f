package models

// Capability constants for compile-time-checked references. Stored permission
// sets stay free-form strings; unknown values are tolerated for forward
// compatibility.
const (
	CapAppointmentsCreate      = "appointments_create"
	CapAppointmentsDelete      = "appointments_delete"
	CapAppointmentsView        = "appointments_view"
	CapAppointmentsViewDeleted = "appointments_view_deleted"
	CapViewDoctors             = "view_doctors"
	CapDeleteDoctors           = "delete_doctors"
	CapViewPatients            = "view_patients"
	CapDeletePatients          = "delete_patients"
	CapMedicalRecordsView      = "medical_records_view"
	CapUpdateMedicalRecord     = "update_medical_record"
	CapDeleteMedicalRecord     = "delete_medical_record"
	CapDeletePrescription      = "delete_prescription"
	CapUpdatePrescription      = "update_prescription"
	// Legacy alias still present in older permission sets.
	CapDeleteAppointments = "delete_appointments"
)

var knownCapabilities = map[string]struct{}{
	CapAppointmentsCreate:      {},
	CapAppointmentsDelete:      {},
	CapAppointmentsView:        {},
	CapAppointmentsViewDeleted: {},
	CapViewDoctors:             {},
	CapDeleteDoctors:           {},
	CapViewPatients:            {},
	CapDeletePatients:          {},
	CapMedicalRecordsView:      {},
	CapUpdateMedicalRecord:     {},
	CapDeleteMedicalRecord:     {},
	CapDeletePrescription:      {},
	CapUpdatePrescription:      {},
	CapDeleteAppointments:      {},
}

// KnownCapability reports whether the string is in the registered catalogue.
func KnownCapability(capability string) bool {
	_, ok := knownCapabilities[capability]
	return ok
}

// PermissionSet is the list of capability strings granted to an actor.
type PermissionSet []string

// Has reports whether the set contains the capability.
func (p PermissionSet) Has(capability string) bool {
	for _, c := range p {
		if c == capability {
			return true
		}
	}
	return false
}
