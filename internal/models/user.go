package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`

	UserName     string `bson:"user_name" json:"userName"`
	Email        string `bson:"email" json:"email"`
	Password     string `bson:"password" json:"-"` // Don't return password in JSON
	ProfilePhoto string `bson:"profile_photo,omitempty" json:"profilePhoto,omitempty"`
	IsVerified   bool   `bson:"is_verified" json:"isVerified"`

	// Email verification OTP. Only the SHA-256 digest is stored; the
	// plaintext code is emailed and never persisted.
	EmailOTPHash   string     `bson:"email_otp_hash,omitempty" json:"-"`
	EmailOTPExpiry *time.Time `bson:"email_otp_expiry,omitempty" json:"-"`

	// Password reset token, same digest-only rule as the OTP.
	PasswordResetHash   string     `bson:"password_reset_hash,omitempty" json:"-"`
	PasswordResetExpiry *time.Time `bson:"password_reset_expiry,omitempty" json:"-"`
}

// Snapshot returns the embedded copy of the user that trip records store.
// The copy is taken at creation time; later profile edits do not propagate.
func (u *User) Snapshot() UserSnapshot {
	image := u.ProfilePhoto
	if image == "" {
		image = DefaultUserImage
	}
	return UserSnapshot{
		UserID:    u.ID.Hex(),
		UserName:  u.UserName,
		UserImage: image,
	}
}
