package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harentsoaR/hospital-api/internal/apperr"
	"github.com/harentsoaR/hospital-api/internal/models"
)

type notificationStoreMock struct {
	insert     func(ctx context.Context, n models.Notification) error
	updateOne  func(ctx context.Context, filter, update bson.M, arrayFilters options.ArrayFilters) (int64, error)
	updateMany func(ctx context.Context, filter, update bson.M, arrayFilters options.ArrayFilters) (int64, error)
	findAll    func(ctx context.Context, filter bson.M) ([]models.Notification, error)
}

func (m *notificationStoreMock) Insert(ctx context.Context, n models.Notification) error {
	if m.insert == nil {
		return nil
	}
	return m.insert(ctx, n)
}

func (m *notificationStoreMock) UpdateOne(ctx context.Context, filter, update bson.M, arrayFilters options.ArrayFilters) (int64, error) {
	if m.updateOne == nil {
		return 0, nil
	}
	return m.updateOne(ctx, filter, update, arrayFilters)
}

func (m *notificationStoreMock) UpdateMany(ctx context.Context, filter, update bson.M, arrayFilters options.ArrayFilters) (int64, error) {
	if m.updateMany == nil {
		return 0, nil
	}
	return m.updateMany(ctx, filter, update, arrayFilters)
}

func (m *notificationStoreMock) FindAll(ctx context.Context, filter bson.M) ([]models.Notification, error) {
	if m.findAll == nil {
		return nil, nil
	}
	return m.findAll(ctx, filter)
}

func newTestFanout(store notificationStore) *NotificationFanout {
	return &NotificationFanout{store: store, Log: zerolog.Nop()}
}

func TestNewNotificationFanout(t *testing.T) {
	recipients := []models.NotificationRecipient{
		{RecipientID: primitive.NewObjectID(), Model: "Doctor"},
		{RecipientID: primitive.NewObjectID(), Model: "Patient"},
		{RecipientID: primitive.NewObjectID(), Model: "Patient"},
	}
	now := time.Now()

	n := newNotification(NotificationEvent{
		Type:    "appointment_created",
		Title:   "New Appointment",
		Message: "Appointment booked",
	}, recipients, now)

	require.Len(t, n.Recipients, 3, "one embedded marker per recipient")
	for i, marker := range n.Recipients {
		assert.Equal(t, recipients[i].RecipientID, marker.RecipientID)
		assert.Equal(t, recipients[i].Model, marker.Model)
		assert.False(t, marker.IsRead, "markers start unread")
		assert.Nil(t, marker.ReadAt)
	}
	assert.False(t, n.ID.IsZero())
	assert.NotEmpty(t, n.EventID)
	assert.Equal(t, "appointment_created", n.Type)
	assert.Equal(t, now, n.CreatedAt)
}

func TestNewNotificationIgnoresCallerReadState(t *testing.T) {
	readAt := time.Now()
	tainted := []models.NotificationRecipient{
		{RecipientID: primitive.NewObjectID(), Model: "Doctor", IsRead: true, ReadAt: &readAt},
	}

	n := newNotification(NotificationEvent{Type: "x"}, tainted, time.Now())
	require.Len(t, n.Recipients, 1)
	assert.False(t, n.Recipients[0].IsRead)
	assert.Nil(t, n.Recipients[0].ReadAt)
}

func TestMarkReadScopesToCallersUnreadMarker(t *testing.T) {
	actor := actorOf(models.KindPatient)
	var gotFilter, gotUpdate bson.M
	var gotArrayFilters options.ArrayFilters
	fanout := newTestFanout(&notificationStoreMock{
		updateOne: func(_ context.Context, filter, update bson.M, arrayFilters options.ArrayFilters) (int64, error) {
			gotFilter, gotUpdate, gotArrayFilters = filter, update, arrayFilters
			return 1, nil
		},
	})

	id := primitive.NewObjectID()
	require.NoError(t, fanout.MarkRead(context.Background(), id.Hex(), actor))

	assert.Equal(t, id, gotFilter["_id"])
	match := gotFilter["recipients"].(bson.M)["$elemMatch"].(bson.M)
	assert.Equal(t, actor.ID, match["recipientId"])
	assert.Equal(t, "Patient", match["model"])
	assert.Equal(t, false, match["isRead"])

	// The positional filter narrows the write to the same single marker;
	// other recipients' read state stays untouched.
	require.Len(t, gotArrayFilters.Filters, 1)
	marker := gotArrayFilters.Filters[0].(bson.M)
	assert.Equal(t, actor.ID, marker["r.recipientId"])
	assert.Equal(t, "Patient", marker["r.model"])
	assert.Equal(t, false, marker["r.isRead"])

	set := gotUpdate["$set"].(bson.M)
	assert.Contains(t, set, "recipients.$[r].isRead")
	assert.Contains(t, set, "recipients.$[r].readAt")
	assert.Len(t, set, 2, "only the read marker fields may change")
}

func TestMarkReadAlreadyReadOrMissing(t *testing.T) {
	fanout := newTestFanout(&notificationStoreMock{
		updateOne: func(context.Context, bson.M, bson.M, options.ArrayFilters) (int64, error) {
			return 0, nil
		},
	})

	err := fanout.MarkRead(context.Background(), primitive.NewObjectID().Hex(), actorOf(models.KindDoctor))
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperr.Status(err))
	assert.Equal(t, "Notification not found or already read", apperr.PublicMessage(err))
}

func TestMarkReadInvalidID(t *testing.T) {
	fanout := newTestFanout(&notificationStoreMock{})

	err := fanout.MarkRead(context.Background(), "not-an-object-id", actorOf(models.KindDoctor))
	assert.Equal(t, http.StatusBadRequest, apperr.Status(err))
}

func TestMarkAllReadReturnsModifiedCount(t *testing.T) {
	actor := actorOf(models.KindDoctor)
	fanout := newTestFanout(&notificationStoreMock{
		updateMany: func(_ context.Context, filter, _ bson.M, _ options.ArrayFilters) (int64, error) {
			match := filter["recipients"].(bson.M)["$elemMatch"].(bson.M)
			assert.Equal(t, actor.ID, match["recipientId"])
			assert.Equal(t, false, match["isRead"])
			return 4, nil
		},
	})

	count, err := fanout.MarkAllRead(context.Background(), actor)
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
}

func TestSendPersistsFannedOutRecord(t *testing.T) {
	var stored *models.Notification
	fanout := newTestFanout(&notificationStoreMock{
		insert: func(_ context.Context, n models.Notification) error {
			stored = &n
			return nil
		},
	})

	recipients := []models.NotificationRecipient{
		{RecipientID: primitive.NewObjectID(), Model: "Doctor"},
		{RecipientID: primitive.NewObjectID(), Model: "Patient"},
	}
	fanout.Send(context.Background(), NotificationEvent{Type: "appointment_created", Title: "New Appointment"}, recipients)

	require.NotNil(t, stored)
	require.Len(t, stored.Recipients, 2)
	assert.Equal(t, "appointment_created", stored.Type)
	assert.False(t, stored.Recipients[0].IsRead)
	assert.False(t, stored.Recipients[1].IsRead)
}

func TestSendSkipsEmptyRecipients(t *testing.T) {
	inserted := false
	fanout := newTestFanout(&notificationStoreMock{
		insert: func(context.Context, models.Notification) error {
			inserted = true
			return nil
		},
	})

	fanout.Send(context.Background(), NotificationEvent{Type: "noop"}, nil)
	assert.False(t, inserted)
}
