// Package store holds the persistence interfaces the workflow layer depends
// on, plus their MongoDB implementations. Services never see mongo-driver
// types other than ObjectID.
package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/beside-app/beside-backend/internal/models"
)

// ErrNotFound is returned when a lookup matches no document.
var ErrNotFound = errors.New("not found")

// UserStore is the account collection.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByUserName(ctx context.Context, userName string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByResetHash(ctx context.Context, resetHash string) (*models.User, error)

	// SetEmailOTP overwrites the account's OTP credential. A previously
	// issued code is superseded; at most one valid credential exists.
	SetEmailOTP(ctx context.Context, id primitive.ObjectID, otpHash string, expiry time.Time) error

	// MarkVerified flags the account verified and clears the OTP credential
	// so the consumed code cannot be replayed.
	MarkVerified(ctx context.Context, id primitive.ObjectID) error

	SetPasswordReset(ctx context.Context, id primitive.ObjectID, resetHash string, expiry time.Time) error

	// UpdatePassword stores a new password hash and clears any pending
	// reset token.
	UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error
}

// TripRequestStore is the trip_requests collection.
type TripRequestStore interface {
	Insert(ctx context.Context, req *models.TripRequest) error
	FindByTripReqID(ctx context.Context, tripReqID string) (*models.TripRequest, error)

	// Replace persists a mutated trip request, keyed by its tripReqId.
	Replace(ctx context.Context, req *models.TripRequest) error
}

// TripStore is the trips collection. Trips are created and read, never mutated.
type TripStore interface {
	Insert(ctx context.Context, trip *models.Trip) error
	FindByTripID(ctx context.Context, tripID string) (*models.Trip, error)
}
