package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the unique indexes the lookups rely on. Safe to call
// on every startup; Mongo treats an existing identical index as a no-op.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)

	indexes := map[string]mongo.IndexModel{
		usersCollection:        {Keys: bson.D{{Key: "user_name", Value: 1}}, Options: unique},
		tripRequestsCollection: {Keys: bson.D{{Key: "trip_req_id", Value: 1}}, Options: unique},
		tripsCollection:        {Keys: bson.D{{Key: "trip_id", Value: 1}}, Options: unique},
	}

	for collection, model := range indexes {
		if _, err := db.Collection(collection).Indexes().CreateOne(ctx, model); err != nil {
			return err
		}
	}

	// Email is also a unique human key (login, OTP issuance).
	_, err := db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
