package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harentsoaR/hospital-api/internal/apperr"
	"github.com/harentsoaR/hospital-api/internal/models"
)

// NotificationEvent is the message to fan out.
type NotificationEvent struct {
	Type    string
	Title   string
	Message string
}

// NotificationFanout distributes one message to many recipients with
// independent read state. Delivery is fire-and-forget: no retry, no ordering
// guarantee, no priority.
type NotificationFanout struct {
	store notificationStore
	Log   zerolog.Logger
}

func NewNotificationFanout(db *mongo.Database, log zerolog.Logger) *NotificationFanout {
	return &NotificationFanout{store: mongoNotificationStore{db: db}, Log: log}
}

// newNotification builds the stored document: one record embedding an unread
// marker per recipient.
func newNotification(event NotificationEvent, recipients []models.NotificationRecipient, now time.Time) models.Notification {
	markers := make([]models.NotificationRecipient, 0, len(recipients))
	for _, r := range recipients {
		markers = append(markers, models.NotificationRecipient{
			RecipientID: r.RecipientID,
			Model:       r.Model,
			IsRead:      false,
		})
	}
	return models.Notification{
		ID:         primitive.NewObjectID(),
		EventID:    uuid.NewString(),
		Type:       event.Type,
		Title:      event.Title,
		Message:    event.Message,
		Recipients: markers,
		CreatedAt:  now,
	}
}

// recipientMarkerFilter matches documents carrying the caller's embedded
// marker; unreadOnly narrows it to markers not yet read.
func recipientMarkerFilter(actor *models.AuthActor, unreadOnly bool) bson.M {
	match := bson.M{
		"recipientId": actor.ID,
		"model":       string(actor.Kind),
	}
	if unreadOnly {
		match["isRead"] = false
	}
	return bson.M{"recipients": bson.M{"$elemMatch": match}}
}

// readMarkerUpdate flips the array entries selected by
// readMarkerArrayFilters. The positional filter restricts the write to the
// caller's own unread marker, so other recipients' state is never touched.
func readMarkerUpdate(now time.Time) bson.M {
	return bson.M{"$set": bson.M{
		"recipients.$[r].isRead": true,
		"recipients.$[r].readAt": now,
	}}
}

func readMarkerArrayFilters(actor *models.AuthActor) options.ArrayFilters {
	return options.ArrayFilters{Filters: []interface{}{bson.M{
		"r.recipientId": actor.ID,
		"r.model":       string(actor.Kind),
		"r.isRead":      false,
	}}}
}

// Send persists the fanned-out record and kicks off best-effort delivery in a
// goroutine so it never blocks the API response. A failed store is logged and
// dropped; the caller's operation already succeeded.
func (s *NotificationFanout) Send(ctx context.Context, event NotificationEvent, recipients []models.NotificationRecipient) {
	if len(recipients) == 0 {
		return
	}
	notification := newNotification(event, recipients, time.Now())
	if err := s.store.Insert(ctx, notification); err != nil {
		s.Log.Error().Err(err).Str("type", event.Type).Msg("failed to store notification")
		return
	}
	go s.deliver(notification)
}

// deliver is the transport hook. Push and email transports are external
// collaborators; the in-process hook only records the attempt.
func (s *NotificationFanout) deliver(n models.Notification) {
	s.Log.Info().
		Str("eventId", n.EventID).
		Str("type", n.Type).
		Int("recipients", len(n.Recipients)).
		Msg("notification dispatched")
}

// MarkRead flips the read flag of the single recipient entry matching the
// caller's (id, model).
func (s *NotificationFanout) MarkRead(ctx context.Context, idHex string, actor *models.AuthActor) error {
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return apperr.Validation("Invalid notification ID")
	}

	filter := recipientMarkerFilter(actor, true)
	filter["_id"] = id

	modified, err := s.store.UpdateOne(ctx, filter, readMarkerUpdate(time.Now()), readMarkerArrayFilters(actor))
	if err != nil {
		return apperr.Internal("failed to mark notification read", err)
	}
	if modified == 0 {
		return apperr.NotFound("Notification not found or already read")
	}
	return nil
}

// MarkAllRead flips every unread entry matching the caller across all
// notifications in one pass and returns how many documents changed.
func (s *NotificationFanout) MarkAllRead(ctx context.Context, actor *models.AuthActor) (int64, error) {
	modified, err := s.store.UpdateMany(ctx, recipientMarkerFilter(actor, true), readMarkerUpdate(time.Now()), readMarkerArrayFilters(actor))
	if err != nil {
		return 0, apperr.Internal("failed to mark notifications read", err)
	}
	return modified, nil
}

// ListForActor returns the caller's notifications, newest first.
func (s *NotificationFanout) ListForActor(ctx context.Context, actor *models.AuthActor) ([]models.Notification, error) {
	notifications, err := s.store.FindAll(ctx, recipientMarkerFilter(actor, false))
	if err != nil {
		return nil, apperr.Internal("failed to list notifications", err)
	}
	return notifications, nil
}
