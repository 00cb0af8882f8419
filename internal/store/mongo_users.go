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

const usersCollection = "users"

// MongoUserStore implements UserStore on a MongoDB collection.
type MongoUserStore struct {
	col *mongo.Collection
}

func NewMongoUserStore(db *mongo.Database) *MongoUserStore {
	return &MongoUserStore{col: db.Collection(usersCollection)}
}

func (s *MongoUserStore) Create(ctx context.Context, user *models.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	_, err := s.col.InsertOne(ctx, user)
	return err
}

func (s *MongoUserStore) FindByUserName(ctx context.Context, userName string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"user_name": userName})
}

func (s *MongoUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *MongoUserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *MongoUserStore) FindByResetHash(ctx context.Context, resetHash string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"password_reset_hash": resetHash})
}

func (s *MongoUserStore) SetEmailOTP(ctx context.Context, id primitive.ObjectID, otpHash string, expiry time.Time) error {
	return s.updateOne(ctx, id, bson.M{
		"$set": bson.M{
			"email_otp_hash":   otpHash,
			"email_otp_expiry": expiry,
			"updated_at":       time.Now(),
		},
	})
}

func (s *MongoUserStore) MarkVerified(ctx context.Context, id primitive.ObjectID) error {
	return s.updateOne(ctx, id, bson.M{
		"$set": bson.M{
			"is_verified": true,
			"updated_at":  time.Now(),
		},
		"$unset": bson.M{
			"email_otp_hash":   "",
			"email_otp_expiry": "",
		},
	})
}

func (s *MongoUserStore) SetPasswordReset(ctx context.Context, id primitive.ObjectID, resetHash string, expiry time.Time) error {
	return s.updateOne(ctx, id, bson.M{
		"$set": bson.M{
			"password_reset_hash":   resetHash,
			"password_reset_expiry": expiry,
			"updated_at":            time.Now(),
		},
	})
}

func (s *MongoUserStore) UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error {
	return s.updateOne(ctx, id, bson.M{
		"$set": bson.M{
			"password":   passwordHash,
			"updated_at": time.Now(),
		},
		"$unset": bson.M{
			"password_reset_hash":   "",
			"password_reset_expiry": "",
		},
	})
}

func (s *MongoUserStore) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	err := s.col.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *MongoUserStore) updateOne(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	res, err := s.col.UpdateByID(ctx, id, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
