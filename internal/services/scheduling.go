package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/harentsoaR/hospital-api/internal/apperr"
	"github.com/harentsoaR/hospital-api/internal/models"
)

// SchedulingEngine allocates, transitions and deletes appointments under the
// slot-uniqueness and terminal-state invariants.
type SchedulingEngine struct {
	store    appointmentStore
	actors   actorStore
	Gate     *PermissionGate
	Notifier *NotificationFanout
	Log      zerolog.Logger
}

func NewSchedulingEngine(db *mongo.Database, gate *PermissionGate, notifier *NotificationFanout, log zerolog.Logger) *SchedulingEngine {
	return &SchedulingEngine{
		store:    mongoAppointmentStore{db: db},
		actors:   mongoActorStore{db: db},
		Gate:     gate,
		Notifier: notifier,
		Log:      log,
	}
}

// CreateAppointmentInput is the write shape for a new booking. Date uses the
// calendar-day format "2006-01-02".
type CreateAppointmentInput struct {
	DoctorID  string `json:"doctorId" binding:"required"`
	PatientID string `json:"patientId" binding:"required"`
	Date      string `json:"date" binding:"required"`
	TimeSlot  string `json:"timeSlot" binding:"required"`
	Reason    string `json:"reason" binding:"required"`
	Notes     string `json:"notes"`
}

// ListAppointmentsQuery carries the optional listing filters.
type ListAppointmentsQuery struct {
	DoctorID       string
	PatientID      string
	Status         string
	FromDate       string
	ToDate         string
	IncludeDeleted bool
}

// NormalizeDate truncates a timestamp to calendar-day granularity in local time.
func NormalizeDate(t time.Time) time.Time {
	local := t.In(time.Local)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.Local)
}

// parseAppointmentDate validates the wire format and rejects dates earlier
// than the current calendar day.
func parseAppointmentDate(raw string, now time.Time) (time.Time, error) {
	parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		return time.Time{}, apperr.Validation("Invalid date format, use YYYY-MM-DD")
	}
	date := NormalizeDate(parsed)
	if date.Before(NormalizeDate(now)) {
		return time.Time{}, apperr.Validation("Appointment date cannot be in the past")
	}
	return date, nil
}

// validateStatusChange enforces terminality. No ordering is enforced beyond
// it; `scheduled` is the initial state only, never a transition target.
func validateStatusChange(current, next models.AppointmentStatus) error {
	if current.Terminal() {
		return apperr.Validation(fmt.Sprintf("Cannot update status of %s appointment", current))
	}
	if !next.Valid() || next == models.StatusScheduled {
		return apperr.Validation("Invalid appointment status")
	}
	return nil
}

// Create books a slot. The existence check here is an optimistic pre-check
// only; the partial unique index on (doctorId, date, timeSlot) is the actual
// guarantee, and its violation is translated to a conflict as well.
func (s *SchedulingEngine) Create(ctx context.Context, in CreateAppointmentInput, actor *models.AuthActor) (*models.AppointmentView, error) {
	if err := s.Gate.RequireAny(actor, []models.ActorKind{models.KindDoctor, models.KindAdmin}, models.CapAppointmentsCreate); err != nil {
		return nil, err
	}

	doctorID, err := primitive.ObjectIDFromHex(in.DoctorID)
	if err != nil {
		return nil, apperr.Validation("Invalid doctor ID")
	}
	patientID, err := primitive.ObjectIDFromHex(in.PatientID)
	if err != nil {
		return nil, apperr.Validation("Invalid patient ID")
	}

	now := time.Now()
	date, err := parseAppointmentDate(in.Date, now)
	if err != nil {
		return nil, err
	}

	if err := s.requireActorRecord(ctx, models.KindDoctor, doctorID); err != nil {
		return nil, err
	}
	if err := s.requireActorRecord(ctx, models.KindPatient, patientID); err != nil {
		return nil, err
	}

	taken, err := s.store.SlotTaken(ctx, doctorID, date, in.TimeSlot)
	if err != nil {
		return nil, apperr.Internal("failed to check slot availability", err)
	}
	if taken {
		return nil, apperr.Conflict("This time slot is already booked")
	}

	apt := models.Appointment{
		ID:             primitive.NewObjectID(),
		PatientID:      patientID,
		DoctorID:       doctorID,
		Date:           date,
		TimeSlot:       in.TimeSlot,
		Status:         models.StatusScheduled,
		Reason:         in.Reason,
		Notes:          in.Notes,
		CreatedBy:      actor.ID,
		CreatedByModel: string(actor.Kind),
		IsDeleted:      false,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.store.Insert(ctx, apt); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperr.Conflict("This time slot is already booked")
		}
		return nil, apperr.Internal("failed to create appointment", err)
	}

	s.Notifier.Send(ctx, NotificationEvent{
		Type:    "appointment_created",
		Title:   "New Appointment",
		Message: fmt.Sprintf("Appointment booked for %s at %s", in.Date, in.TimeSlot),
	}, []models.NotificationRecipient{
		{RecipientID: doctorID, Model: string(models.KindDoctor)},
		{RecipientID: patientID, Model: string(models.KindPatient)},
	})

	return s.buildView(ctx, &apt), nil
}

// UpdateStatus transitions a booking. Only the owning doctor or an admin-side
// actor may transition; no capability grants the operation to anyone else.
// Terminal states reject every further change. Last write wins.
func (s *SchedulingEngine) UpdateStatus(ctx context.Context, idHex string, newStatus models.AppointmentStatus, actor *models.AuthActor) (*models.Appointment, error) {
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return nil, apperr.Validation("Invalid appointment ID")
	}

	apt, err := s.store.FindActive(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("Appointment not found")
		}
		return nil, apperr.Internal("failed to load appointment", err)
	}

	if actor.Kind == models.KindDoctor {
		if apt.DoctorID != actor.ID {
			return nil, apperr.Authorization("Permission denied")
		}
	} else if err := s.Gate.Require(actor, "admin"); err != nil {
		return nil, err
	}

	if err := validateStatusChange(apt.Status, newStatus); err != nil {
		return nil, err
	}

	now := time.Now()
	update := bson.M{"status": newStatus}
	for k, v := range UpdateStamps(actor, now) {
		update[k] = v
	}
	if err := s.store.SetFields(ctx, id, update); err != nil {
		return nil, apperr.Internal("failed to update appointment status", err)
	}

	s.Notifier.Send(ctx, NotificationEvent{
		Type:    "appointment_status",
		Title:   "Appointment Updated",
		Message: fmt.Sprintf("Appointment on %s is now %s", apt.Date.Format("2006-01-02"), newStatus),
	}, []models.NotificationRecipient{
		{RecipientID: apt.PatientID, Model: string(models.KindPatient)},
		{RecipientID: apt.DoctorID, Model: string(models.KindDoctor)},
	})

	apt.Status = newStatus
	apt.UpdatedBy = &actor.ID
	apt.UpdatedByModel = string(actor.Kind)
	apt.UpdatedAt = now
	return apt, nil
}

// Delete applies the per-actor-kind deletion policy: admin-side removal is a
// recoverable soft-delete, a doctor's removal of their own booking is a hard
// delete refused for completed clinical history.
func (s *SchedulingEngine) Delete(ctx context.Context, idHex string, actor *models.AuthActor) error {
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return apperr.Validation("Invalid appointment ID")
	}

	apt, err := s.store.FindActive(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return apperr.NotFound("Appointment not found")
		}
		return apperr.Internal("failed to load appointment", err)
	}

	switch DeletionPolicyFor(EntityAppointment, actor.Kind) {
	case DeleteSoft:
		if !s.Gate.Allow(actor, models.CapAppointmentsDelete) && !s.Gate.Allow(actor, models.CapDeleteAppointments) {
			return apperr.Authorization("Permission denied")
		}
		stamps := SoftDeleteStamps(actor, time.Now())
		if err := s.store.SetFields(ctx, id, stamps); err != nil {
			return apperr.Internal("failed to delete appointment", err)
		}

	case DeleteHard:
		if apt.DoctorID != actor.ID {
			return apperr.Authorization("Permission denied")
		}
		if apt.Status == models.StatusCompleted {
			return apperr.Validation("Cannot delete completed appointment")
		}
		if err := s.store.Remove(ctx, id); err != nil {
			return apperr.Internal("failed to delete appointment", err)
		}

	default:
		return apperr.Authorization("Permission denied")
	}

	s.Notifier.Send(ctx, NotificationEvent{
		Type:    "appointment_deleted",
		Title:   "Appointment Removed",
		Message: fmt.Sprintf("Appointment on %s at %s was removed", apt.Date.Format("2006-01-02"), apt.TimeSlot),
	}, []models.NotificationRecipient{
		{RecipientID: apt.PatientID, Model: string(models.KindPatient)},
	})
	return nil
}

// Get loads one appointment as a denormalized view, scoped to the caller.
func (s *SchedulingEngine) Get(ctx context.Context, idHex string, actor *models.AuthActor) (*models.AppointmentView, error) {
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return nil, apperr.Validation("Invalid appointment ID")
	}

	apt, err := s.store.FindActive(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("Appointment not found")
		}
		return nil, apperr.Internal("failed to load appointment", err)
	}

	switch actor.Kind {
	case models.KindPatient:
		if apt.PatientID != actor.ID {
			return nil, apperr.Authorization("Permission denied")
		}
	case models.KindDoctor:
		if apt.DoctorID != actor.ID {
			return nil, apperr.Authorization("Permission denied")
		}
	default:
		if err := s.Gate.RequireAny(actor, []models.ActorKind{models.KindAdmin}, models.CapAppointmentsView); err != nil {
			return nil, err
		}
	}
	return s.buildView(ctx, apt), nil
}

// List returns appointments scoped by actor kind: patients see their own,
// doctors their own schedule, admin-side actors everything. Deleted rows are
// excluded unless explicitly requested with the matching capability.
func (s *SchedulingEngine) List(ctx context.Context, q ListAppointmentsQuery, actor *models.AuthActor) ([]models.Appointment, error) {
	filter := bson.M{"isDeleted": false}

	switch actor.Kind {
	case models.KindPatient:
		filter["patientId"] = actor.ID
	case models.KindDoctor:
		filter["doctorId"] = actor.ID
	default:
		if q.DoctorID != "" {
			doctorID, err := primitive.ObjectIDFromHex(q.DoctorID)
			if err != nil {
				return nil, apperr.Validation("Invalid doctor ID")
			}
			filter["doctorId"] = doctorID
		}
		if q.PatientID != "" {
			patientID, err := primitive.ObjectIDFromHex(q.PatientID)
			if err != nil {
				return nil, apperr.Validation("Invalid patient ID")
			}
			filter["patientId"] = patientID
		}
		if q.IncludeDeleted && s.Gate.Allow(actor, models.CapAppointmentsViewDeleted) {
			delete(filter, "isDeleted")
		}
	}

	if q.Status != "" {
		status := models.AppointmentStatus(q.Status)
		if !status.Valid() {
			return nil, apperr.Validation("Invalid appointment status")
		}
		filter["status"] = status
	}
	if q.FromDate != "" {
		from, err := time.ParseInLocation("2006-01-02", q.FromDate, time.Local)
		if err != nil {
			return nil, apperr.Validation("Invalid date format, use YYYY-MM-DD")
		}
		filter["date"] = bson.M{"$gte": NormalizeDate(from)}
	}
	if q.ToDate != "" {
		to, err := time.ParseInLocation("2006-01-02", q.ToDate, time.Local)
		if err != nil {
			return nil, apperr.Validation("Invalid date format, use YYYY-MM-DD")
		}
		if f, ok := filter["date"].(bson.M); ok {
			f["$lte"] = NormalizeDate(to)
		} else {
			filter["date"] = bson.M{"$lte": NormalizeDate(to)}
		}
	}

	appointments, err := s.store.FindAll(ctx, filter)
	if err != nil {
		return nil, apperr.Internal("failed to list appointments", err)
	}
	return appointments, nil
}

// requireActorRecord checks the referenced actor exists and is active.
func (s *SchedulingEngine) requireActorRecord(ctx context.Context, kind models.ActorKind, id primitive.ObjectID) error {
	doc, err := s.actors.FindActor(ctx, kind, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return apperr.NotFound(string(kind) + " not found")
		}
		return apperr.Internal("failed to load "+kind.Role(), err)
	}
	if doc.Status != models.StatusActive {
		return apperr.Validation(string(kind) + " is not active")
	}
	return nil
}

// buildView joins patient and doctor summaries onto an appointment. Either
// side may have been hard-deleted; the view degrades to fallback values
// instead of failing the read.
func (s *SchedulingEngine) buildView(ctx context.Context, apt *models.Appointment) *models.AppointmentView {
	view := &models.AppointmentView{
		Appointment: *apt,
		PatientName: "Unknown Patient",
		DoctorName:  "Unknown Doctor",
	}

	if patient, err := s.actors.FindActor(ctx, models.KindPatient, apt.PatientID); err == nil {
		view.PatientName = patient.Name
		view.PatientEmail = patient.Email
	}
	if doctor, err := s.actors.FindActor(ctx, models.KindDoctor, apt.DoctorID); err == nil {
		view.DoctorName = doctor.Name
		view.DoctorEmail = doctor.Email
	}
	return view
}
