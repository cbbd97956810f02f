package storage

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harentsoaR/hospital-api/internal/models"
)

// Connect opens the mongo client and returns the database plus a disconnect
// function for main to defer.
func Connect(ctx context.Context, uri, dbName string) (*mongo.Database, func(), error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		return nil, nil, fmt.Errorf("ping mongodb: %w", err)
	}

	disconnect := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(ctx)
	}
	return client.Database(dbName), disconnect, nil
}

// EnsureIndexes creates the indexes the application depends on for
// correctness. The partial unique index on appointments is the real guarantee
// behind slot uniqueness; the in-process existence check is only a fast-fail
// pre-check.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	slotIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "doctorId", Value: 1},
			{Key: "date", Value: 1},
			{Key: "timeSlot", Value: 1},
		},
		Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"isDeleted": false}),
	}
	if _, err := db.Collection("appointments").Indexes().CreateOne(ctx, slotIndex); err != nil {
		return fmt.Errorf("create appointment slot index: %w", err)
	}

	emailIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	for _, kind := range []models.ActorKind{models.KindSuperAdmin, models.KindAdmin, models.KindDoctor, models.KindPatient} {
		if _, err := db.Collection(kind.Collection()).Indexes().CreateOne(ctx, emailIndex); err != nil {
			return fmt.Errorf("create email index on %s: %w", kind.Collection(), err)
		}
	}

	// Caps the superadmins collection at a single document; concurrent
	// bootstrap registrations race on it instead of on a count read.
	singletonIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "singleton", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := db.Collection(models.KindSuperAdmin.Collection()).Indexes().CreateOne(ctx, singletonIndex); err != nil {
		return fmt.Errorf("create superadmin singleton index: %w", err)
	}

	recipientIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "recipients.recipientId", Value: 1},
			{Key: "recipients.model", Value: 1},
		},
	}
	if _, err := db.Collection("notifications").Indexes().CreateOne(ctx, recipientIndex); err != nil {
		return fmt.Errorf("create notification recipient index: %w", err)
	}
	return nil
}
