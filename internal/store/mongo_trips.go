package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/beside-app/beside-backend/internal/models"
)

const (
	tripRequestsCollection = "trip_requests"
	tripsCollection        = "trips"
)

// MongoTripRequestStore implements TripRequestStore.
type MongoTripRequestStore struct {
	col *mongo.Collection
}

func NewMongoTripRequestStore(db *mongo.Database) *MongoTripRequestStore {
	return &MongoTripRequestStore{col: db.Collection(tripRequestsCollection)}
}

func (s *MongoTripRequestStore) Insert(ctx context.Context, req *models.TripRequest) error {
	now := time.Now()
	req.CreatedAt = now
	req.UpdatedAt = now
	if req.ID.IsZero() {
		req.ID = primitive.NewObjectID()
	}
	_, err := s.col.InsertOne(ctx, req)
	return err
}

func (s *MongoTripRequestStore) FindByTripReqID(ctx context.Context, tripReqID string) (*models.TripRequest, error) {
	var req models.TripRequest
	err := s.col.FindOne(ctx, bson.M{"trip_req_id": tripReqID}).Decode(&req)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (s *MongoTripRequestStore) Replace(ctx context.Context, req *models.TripRequest) error {
	req.UpdatedAt = time.Now()
	res, err := s.col.ReplaceOne(ctx, bson.M{"trip_req_id": req.TripReqID}, req)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MongoTripStore implements TripStore.
type MongoTripStore struct {
	col *mongo.Collection
}

func NewMongoTripStore(db *mongo.Database) *MongoTripStore {
	return &MongoTripStore{col: db.Collection(tripsCollection)}
}

func (s *MongoTripStore) Insert(ctx context.Context, trip *models.Trip) error {
	now := time.Now()
	trip.CreatedAt = now
	trip.UpdatedAt = now
	if trip.ID.IsZero() {
		trip.ID = primitive.NewObjectID()
	}
	_, err := s.col.InsertOne(ctx, trip)
	return err
}

func (s *MongoTripStore) FindByTripID(ctx context.Context, tripID string) (*models.Trip, error) {
	var trip models.Trip
	err := s.col.FindOne(ctx, bson.M{"trip_id": tripID}).Decode(&trip)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &trip, nil
}
