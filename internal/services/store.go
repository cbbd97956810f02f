package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harentsoaR/hospital-api/internal/models"
)

// The services own their queries and decision logic; these seams only carry
// the operations to the driver so the logic stays unit-testable with fakes.
// Not-found surfaces as mongo.ErrNoDocuments from fakes and the real store
// alike, and duplicate-key errors pass through untranslated.

type actorStore interface {
	FindActor(ctx context.Context, kind models.ActorKind, id primitive.ObjectID) (*actorDoc, error)
}

type appointmentStore interface {
	SlotTaken(ctx context.Context, doctorID primitive.ObjectID, date time.Time, timeSlot string) (bool, error)
	Insert(ctx context.Context, apt models.Appointment) error
	FindActive(ctx context.Context, id primitive.ObjectID) (*models.Appointment, error)
	SetFields(ctx context.Context, id primitive.ObjectID, set bson.M) error
	Remove(ctx context.Context, id primitive.ObjectID) error
	FindAll(ctx context.Context, filter bson.M) ([]models.Appointment, error)
}

type notificationStore interface {
	Insert(ctx context.Context, n models.Notification) error
	UpdateOne(ctx context.Context, filter, update bson.M, arrayFilters options.ArrayFilters) (int64, error)
	UpdateMany(ctx context.Context, filter, update bson.M, arrayFilters options.ArrayFilters) (int64, error)
	FindAll(ctx context.Context, filter bson.M) ([]models.Notification, error)
}

type mongoActorStore struct {
	db *mongo.Database
}

func (s mongoActorStore) FindActor(ctx context.Context, kind models.ActorKind, id primitive.ObjectID) (*actorDoc, error) {
	var doc actorDoc
	if err := s.db.Collection(kind.Collection()).FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

type mongoAppointmentStore struct {
	db *mongo.Database
}

func (s mongoAppointmentStore) collection() *mongo.Collection {
	return s.db.Collection("appointments")
}

func (s mongoAppointmentStore) SlotTaken(ctx context.Context, doctorID primitive.ObjectID, date time.Time, timeSlot string) (bool, error) {
	err := s.collection().FindOne(ctx, bson.M{
		"doctorId":  doctorID,
		"date":      date,
		"timeSlot":  timeSlot,
		"isDeleted": false,
	}).Err()
	if err == nil {
		return true, nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	return false, err
}

func (s mongoAppointmentStore) Insert(ctx context.Context, apt models.Appointment) error {
	_, err := s.collection().InsertOne(ctx, apt)
	return err
}

func (s mongoAppointmentStore) FindActive(ctx context.Context, id primitive.ObjectID) (*models.Appointment, error) {
	var apt models.Appointment
	if err := s.collection().FindOne(ctx, bson.M{"_id": id, "isDeleted": false}).Decode(&apt); err != nil {
		return nil, err
	}
	return &apt, nil
}

func (s mongoAppointmentStore) SetFields(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	_, err := s.collection().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	return err
}

func (s mongoAppointmentStore) Remove(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.collection().DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (s mongoAppointmentStore) FindAll(ctx context.Context, filter bson.M) ([]models.Appointment, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "timeSlot", Value: 1}})
	cursor, err := s.collection().Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	appointments := make([]models.Appointment, 0)
	if err := cursor.All(ctx, &appointments); err != nil {
		return nil, err
	}
	return appointments, nil
}

type mongoNotificationStore struct {
	db *mongo.Database
}

func (s mongoNotificationStore) collection() *mongo.Collection {
	return s.db.Collection("notifications")
}

func (s mongoNotificationStore) Insert(ctx context.Context, n models.Notification) error {
	_, err := s.collection().InsertOne(ctx, n)
	return err
}

func (s mongoNotificationStore) UpdateOne(ctx context.Context, filter, update bson.M, arrayFilters options.ArrayFilters) (int64, error) {
	result, err := s.collection().UpdateOne(ctx, filter, update, options.Update().SetArrayFilters(arrayFilters))
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

func (s mongoNotificationStore) UpdateMany(ctx context.Context, filter, update bson.M, arrayFilters options.ArrayFilters) (int64, error) {
	result, err := s.collection().UpdateMany(ctx, filter, update, options.Update().SetArrayFilters(arrayFilters))
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

func (s mongoNotificationStore) FindAll(ctx context.Context, filter bson.M) ([]models.Notification, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.collection().Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	notifications := make([]models.Notification, 0)
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}
