package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultUserImage is used in snapshots when the account has no profile photo.
const DefaultUserImage = "default.jpg"

// UserSnapshot is a copy of select account fields embedded inside trip
// records at creation time. It is not a live reference.
type UserSnapshot struct {
	UserID    string `bson:"user_id" json:"userId"`
	UserName  string `bson:"user_name" json:"userName"`
	UserImage string `bson:"user_image" json:"userImage"`
}

// Photo is a binary object stored with the external storage provider.
// PublicID is the provider-side handle needed to delete the object later.
type Photo struct {
	URL      string `bson:"url" json:"url"`
	PublicID string `bson:"public_id" json:"publicId"`
}

// TripRequest is a standalone request for a travel companion, not yet matched.
type TripRequest struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`

	TripReqID string       `bson:"trip_req_id" json:"tripReqId"`
	User      UserSnapshot `bson:"user" json:"user"`

	Destination      string `bson:"destination,omitempty" json:"destination,omitempty"`
	DestinationType  string `bson:"destination_type,omitempty" json:"destinationType,omitempty"`
	Date             string `bson:"date,omitempty" json:"date,omitempty"`
	Time             string `bson:"time,omitempty" json:"time,omitempty"`
	GenderPreference string `bson:"gender_preference,omitempty" json:"genderPreference,omitempty"`

	Photo *Photo `bson:"photo,omitempty" json:"photo,omitempty"`
}

// Trip is a confirmed pairing of two accounts with travel-safety parameters.
// There is no update or delete; a trip is immutable once created.
type Trip struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`

	TripID    string       `bson:"trip_id" json:"tripId"`
	User      UserSnapshot `bson:"user" json:"user"`
	Companion UserSnapshot `bson:"companion" json:"companion"`

	Consent            bool   `bson:"consent" json:"consent"`
	DistanceMaintained string `bson:"distance_maintained,omitempty" json:"distanceMaintained,omitempty"`
	DistancePreferred  string `bson:"distance_preferred,omitempty" json:"distancePreferred,omitempty"`
	GenderPreference   string `bson:"gender_preference,omitempty" json:"genderPreference,omitempty"`
	ImageVerification  bool   `bson:"image_verification" json:"imageVerification"`
}
