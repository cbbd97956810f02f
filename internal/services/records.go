package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harentsoaR/hospital-api/internal/apperr"
	"github.com/harentsoaR/hospital-api/internal/models"
)

// ClinicalRecords owns prescription and medical-record mutations. Both are
// keyed to (appointment, doctor, patient) and mutable only by the owning
// doctor or an actor with the entity's override capability; deletions follow
// the per-entity policy table.
type ClinicalRecords struct {
	DB       *mongo.Database
	Gate     *PermissionGate
	Notifier *NotificationFanout
	Log      zerolog.Logger
}

func NewClinicalRecords(db *mongo.Database, gate *PermissionGate, notifier *NotificationFanout, log zerolog.Logger) *ClinicalRecords {
	return &ClinicalRecords{DB: db, Gate: gate, Notifier: notifier, Log: log}
}

// CreatePrescriptionInput is the write shape for a new prescription.
type CreatePrescriptionInput struct {
	AppointmentID string            `json:"appointmentId" binding:"required"`
	Diagnosis     string            `json:"diagnosis" binding:"required"`
	Medicines     []models.Medicine `json:"medicines" binding:"required,min=1"`
	Notes         string            `json:"notes"`
}

// UpdatePrescriptionInput carries the mutable prescription fields.
type UpdatePrescriptionInput struct {
	Diagnosis *string            `json:"diagnosis"`
	Medicines *[]models.Medicine `json:"medicines"`
	Notes     *string            `json:"notes"`
}

// CreatePrescription issues a prescription against an appointment. Only
// doctors write prescriptions, and only against their own appointments.
func (s *ClinicalRecords) CreatePrescription(ctx context.Context, in CreatePrescriptionInput, actor *models.AuthActor) (*models.Prescription, error) {
	if actor.Kind != models.KindDoctor {
		return nil, apperr.Authorization("Only doctors can create prescriptions")
	}

	aptID, err := primitive.ObjectIDFromHex(in.AppointmentID)
	if err != nil {
		return nil, apperr.Validation("Invalid appointment ID")
	}

	var apt models.Appointment
	err = s.DB.Collection("appointments").FindOne(ctx, bson.M{"_id": aptID, "isDeleted": false}).Decode(&apt)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("Appointment not found")
		}
		return nil, apperr.Internal("failed to load appointment", err)
	}
	if apt.DoctorID != actor.ID {
		return nil, apperr.Authorization("Permission denied")
	}

	now := time.Now()
	prescription := models.Prescription{
		ID:             primitive.NewObjectID(),
		AppointmentID:  aptID,
		DoctorID:       apt.DoctorID,
		PatientID:      apt.PatientID,
		Diagnosis:      in.Diagnosis,
		Medicines:      in.Medicines,
		Notes:          in.Notes,
		CreatedBy:      actor.ID,
		CreatedByModel: string(actor.Kind),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if _, err := s.DB.Collection("prescriptions").InsertOne(ctx, prescription); err != nil {
		return nil, apperr.Internal("failed to create prescription", err)
	}

	s.Notifier.Send(ctx, NotificationEvent{
		Type:    "prescription_created",
		Title:   "New Prescription",
		Message: "A prescription has been issued for your appointment",
	}, []models.NotificationRecipient{
		{RecipientID: apt.PatientID, Model: string(models.KindPatient)},
	})
	return &prescription, nil
}

// UpdatePrescription mutates a prescription for its owning doctor, or for a
// caller holding the explicit override capability.
func (s *ClinicalRecords) UpdatePrescription(ctx context.Context, idHex string, in UpdatePrescriptionInput, actor *models.AuthActor) (*models.Prescription, error) {
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return nil, apperr.Validation("Invalid prescription ID")
	}

	collection := s.DB.Collection("prescriptions")
	var prescription models.Prescription
	if err := collection.FindOne(ctx, bson.M{"_id": id}).Decode(&prescription); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("Prescription not found")
		}
		return nil, apperr.Internal("failed to load prescription", err)
	}

	if err := RequireOwnerOrCapability(s.Gate, actor, prescription.DoctorID, models.CapUpdatePrescription); err != nil {
		return nil, err
	}

	now := time.Now()
	set := UpdateStamps(actor, now)
	if in.Diagnosis != nil {
		set["diagnosis"] = *in.Diagnosis
		prescription.Diagnosis = *in.Diagnosis
	}
	if in.Medicines != nil {
		set["medicines"] = *in.Medicines
		prescription.Medicines = *in.Medicines
	}
	if in.Notes != nil {
		set["notes"] = *in.Notes
		prescription.Notes = *in.Notes
	}

	if _, err := collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set}); err != nil {
		return nil, apperr.Internal("failed to update prescription", err)
	}
	prescription.UpdatedBy = &actor.ID
	prescription.UpdatedByModel = string(actor.Kind)
	prescription.UpdatedAt = now
	return &prescription, nil
}

// DeletePrescription removes a prescription permanently. The policy table
// restricts the hard delete to the owning doctor, with delete_prescription as
// the administrative override.
func (s *ClinicalRecords) DeletePrescription(ctx context.Context, idHex string, actor *models.AuthActor) error {
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return apperr.Validation("Invalid prescription ID")
	}

	collection := s.DB.Collection("prescriptions")
	var prescription models.Prescription
	if err := collection.FindOne(ctx, bson.M{"_id": id}).Decode(&prescription); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return apperr.NotFound("Prescription not found")
		}
		return apperr.Internal("failed to load prescription", err)
	}

	if DeletionPolicyFor(EntityPrescription, actor.Kind) != DeleteHard && !s.Gate.Allow(actor, models.CapDeletePrescription) {
		return apperr.Authorization("Permission denied")
	}
	if err := RequireOwnerOrCapability(s.Gate, actor, prescription.DoctorID, models.CapDeletePrescription); err != nil {
		return err
	}

	if _, err := collection.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return apperr.Internal("failed to delete prescription", err)
	}
	return nil
}

// ListPrescriptions returns prescriptions scoped to the caller: patients see
// their own, doctors the ones they issued, admin-side actors everything.
func (s *ClinicalRecords) ListPrescriptions(ctx context.Context, actor *models.AuthActor) ([]models.Prescription, error) {
	filter := bson.M{}
	switch actor.Kind {
	case models.KindPatient:
		filter["patientId"] = actor.ID
	case models.KindDoctor:
		filter["doctorId"] = actor.ID
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.DB.Collection("prescriptions").Find(ctx, filter, findOptions)
	if err != nil {
		return nil, apperr.Internal("failed to list prescriptions", err)
	}
	defer cursor.Close(ctx)

	prescriptions := make([]models.Prescription, 0)
	if err := cursor.All(ctx, &prescriptions); err != nil {
		return nil, apperr.Internal("failed to decode prescriptions", err)
	}
	return prescriptions, nil
}

// CreateMedicalRecordInput is the write shape for a new medical record.
type CreateMedicalRecordInput struct {
	AppointmentID string   `json:"appointmentId" binding:"required"`
	RecordType    string   `json:"recordType" binding:"required"`
	Description   string   `json:"description" binding:"required"`
	Attachments   []string `json:"attachments"`
}

// UpdateMedicalRecordInput carries the mutable medical record fields.
type UpdateMedicalRecordInput struct {
	RecordType  *string   `json:"recordType"`
	Description *string   `json:"description"`
	Attachments *[]string `json:"attachments"`
}

// CreateMedicalRecord files a record against an appointment, doctor-only.
func (s *ClinicalRecords) CreateMedicalRecord(ctx context.Context, in CreateMedicalRecordInput, actor *models.AuthActor) (*models.MedicalRecord, error) {
	if actor.Kind != models.KindDoctor {
		return nil, apperr.Authorization("Only doctors can create medical records")
	}

	aptID, err := primitive.ObjectIDFromHex(in.AppointmentID)
	if err != nil {
		return nil, apperr.Validation("Invalid appointment ID")
	}

	var apt models.Appointment
	err = s.DB.Collection("appointments").FindOne(ctx, bson.M{"_id": aptID, "isDeleted": false}).Decode(&apt)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("Appointment not found")
		}
		return nil, apperr.Internal("failed to load appointment", err)
	}
	if apt.DoctorID != actor.ID {
		return nil, apperr.Authorization("Permission denied")
	}

	now := time.Now()
	record := models.MedicalRecord{
		ID:             primitive.NewObjectID(),
		AppointmentID:  aptID,
		DoctorID:       apt.DoctorID,
		PatientID:      apt.PatientID,
		RecordType:     in.RecordType,
		Description:    in.Description,
		Attachments:    in.Attachments,
		CreatedBy:      actor.ID,
		CreatedByModel: string(actor.Kind),
		IsDeleted:      false,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if _, err := s.DB.Collection("medicalrecords").InsertOne(ctx, record); err != nil {
		return nil, apperr.Internal("failed to create medical record", err)
	}
	return &record, nil
}

// UpdateMedicalRecord mutates a record for its owning doctor or an override
// capability holder.
func (s *ClinicalRecords) UpdateMedicalRecord(ctx context.Context, idHex string, in UpdateMedicalRecordInput, actor *models.AuthActor) (*models.MedicalRecord, error) {
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return nil, apperr.Validation("Invalid medical record ID")
	}

	collection := s.DB.Collection("medicalrecords")
	var record models.MedicalRecord
	if err := collection.FindOne(ctx, bson.M{"_id": id, "isDeleted": false}).Decode(&record); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("Medical record not found")
		}
		return nil, apperr.Internal("failed to load medical record", err)
	}

	if err := RequireOwnerOrCapability(s.Gate, actor, record.DoctorID, models.CapUpdateMedicalRecord); err != nil {
		return nil, err
	}

	now := time.Now()
	set := UpdateStamps(actor, now)
	if in.RecordType != nil {
		set["recordType"] = *in.RecordType
		record.RecordType = *in.RecordType
	}
	if in.Description != nil {
		set["description"] = *in.Description
		record.Description = *in.Description
	}
	if in.Attachments != nil {
		set["attachments"] = *in.Attachments
		record.Attachments = *in.Attachments
	}

	if _, err := collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set}); err != nil {
		return nil, apperr.Internal("failed to update medical record", err)
	}
	record.UpdatedBy = &actor.ID
	record.UpdatedByModel = string(actor.Kind)
	record.UpdatedAt = now
	return &record, nil
}

// DeleteMedicalRecord soft-deletes only: clinical history stays recoverable
// for every actor kind.
func (s *ClinicalRecords) DeleteMedicalRecord(ctx context.Context, idHex string, actor *models.AuthActor) error {
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return apperr.Validation("Invalid medical record ID")
	}

	collection := s.DB.Collection("medicalrecords")
	var record models.MedicalRecord
	if err := collection.FindOne(ctx, bson.M{"_id": id, "isDeleted": false}).Decode(&record); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return apperr.NotFound("Medical record not found")
		}
		return apperr.Internal("failed to load medical record", err)
	}

	if DeletionPolicyFor(EntityMedicalRecord, actor.Kind) != DeleteSoft {
		return apperr.Authorization("Permission denied")
	}
	if err := RequireOwnerOrCapability(s.Gate, actor, record.DoctorID, models.CapDeleteMedicalRecord); err != nil {
		return err
	}

	stamps := SoftDeleteStamps(actor, time.Now())
	if _, err := collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": stamps}); err != nil {
		return apperr.Internal("failed to delete medical record", err)
	}
	return nil
}

// ListMedicalRecords returns non-deleted records scoped to the caller.
// Patients see their own; doctors theirs; others need medical_records_view.
func (s *ClinicalRecords) ListMedicalRecords(ctx context.Context, actor *models.AuthActor) ([]models.MedicalRecord, error) {
	filter := bson.M{"isDeleted": false}
	switch actor.Kind {
	case models.KindPatient:
		filter["patientId"] = actor.ID
	case models.KindDoctor:
		filter["doctorId"] = actor.ID
	default:
		if err := s.Gate.Require(actor, models.CapMedicalRecordsView); err != nil {
			return nil, err
		}
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.DB.Collection("medicalrecords").Find(ctx, filter, findOptions)
	if err != nil {
		return nil, apperr.Internal("failed to list medical records", err)
	}
	defer cursor.Close(ctx)

	records := make([]models.MedicalRecord, 0)
	if err := cursor.All(ctx, &records); err != nil {
		return nil, apperr.Internal("failed to decode medical records", err)
	}
	return records, nil
}
