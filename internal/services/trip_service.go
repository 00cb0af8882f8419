package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"strings"
	"time"

	"github.com/beside-app/beside-backend/internal/models"
	"github.com/beside-app/beside-backend/internal/store"
	"github.com/beside-app/beside-backend/pkg/apperrors"
	"github.com/beside-app/beside-backend/pkg/utils"
)

const (
	// storageCallTimeout bounds each external storage call (delete and
	// upload are bounded independently).
	storageCallTimeout = 10 * time.Second

	tripPhotoFolder = "trip-photos"
)

// TripService implements the trip-request and trip workflows.
type TripService struct {
	users    store.UserStore
	requests store.TripRequestStore
	trips    store.TripStore
	storage  PhotoStorage
	ids      *TripIDGenerator
}

func NewTripService(users store.UserStore, requests store.TripRequestStore, trips store.TripStore, storage PhotoStorage, ids *TripIDGenerator) *TripService {
	return &TripService{
		users:    users,
		requests: requests,
		trips:    trips,
		storage:  storage,
		ids:      ids,
	}
}

// CreateTripRequestInput carries the parameters for a new companion request.
type CreateTripRequestInput struct {
	UserName         string
	Destination      string
	DestinationType  string
	Date             string
	Time             string
	GenderPreference string
}

// UpdateTripRequestInput carries a partial update. A nil field leaves the
// stored value untouched; a present field replaces it and must be non-empty
// (clearing a field to empty is not supported).
type UpdateTripRequestInput struct {
	Destination      *string
	DestinationType  *string
	Date             *string
	Time             *string
	GenderPreference *string
}

// CreateTripInput carries the parameters for a confirmed pairing.
type CreateTripInput struct {
	UserName           string
	CompanionName      string
	Consent            bool
	DistanceMaintained string
	DistancePreferred  string
	GenderPreference   string
	ImageVerification  bool
}

// CreateTripRequest resolves the requester, snapshots their account fields,
// and persists a new trip request under a freshly generated ID.
func (s *TripService) CreateTripRequest(ctx context.Context, in CreateTripRequestInput) (*models.TripRequest, error) {
	if strings.TrimSpace(in.UserName) == "" {
		return nil, apperrors.NewValidation("User name is required")
	}

	user, err := s.findUser(ctx, in.UserName, "User not found")
	if err != nil {
		return nil, err
	}

	req := &models.TripRequest{
		TripReqID:        s.ids.ForRequest(user.UserName),
		User:             user.Snapshot(),
		Destination:      in.Destination,
		DestinationType:  in.DestinationType,
		Date:             in.Date,
		Time:             in.Time,
		GenderPreference: in.GenderPreference,
	}

	if err := s.requests.Insert(ctx, req); err != nil {
		return nil, fmt.Errorf("insert trip request: %w", err)
	}
	return req, nil
}

// GetTripRequest fetches a trip request by its tripReqId. Side-effect-free.
func (s *TripService) GetTripRequest(ctx context.Context, tripReqID string) (*models.TripRequest, error) {
	if strings.TrimSpace(tripReqID) == "" {
		return nil, apperrors.NewValidation("Trip Request ID is required")
	}
	return s.findTripRequest(ctx, tripReqID)
}

// UpdateTripRequest applies a partial update. Only fields present in the
// input are replaced.
func (s *TripService) UpdateTripRequest(ctx context.Context, tripReqID string, in UpdateTripRequestInput) (*models.TripRequest, error) {
	if strings.TrimSpace(tripReqID) == "" {
		return nil, apperrors.NewValidation("Trip Request ID is required")
	}

	req, err := s.findTripRequest(ctx, tripReqID)
	if err != nil {
		return nil, err
	}

	fields := []struct {
		name  string
		input *string
		dest  *string
	}{
		{"destination", in.Destination, &req.Destination},
		{"destinationType", in.DestinationType, &req.DestinationType},
		{"date", in.Date, &req.Date},
		{"time", in.Time, &req.Time},
		{"genderPreference", in.GenderPreference, &req.GenderPreference},
	}
	for _, f := range fields {
		if f.input == nil {
			continue
		}
		if strings.TrimSpace(*f.input) == "" {
			return nil, apperrors.NewValidation(f.name + " cannot be empty")
		}
		*f.dest = *f.input
	}

	if err := s.requests.Replace(ctx, req); err != nil {
		return nil, fmt.Errorf("update trip request: %w", err)
	}
	return req, nil
}

// UploadTripPhoto replaces the photo attached to a trip request. A previously
// stored object is deleted first; that delete is best-effort, while the new
// upload and the store write are critical.
func (s *TripService) UploadTripPhoto(ctx context.Context, tripReqID string, file multipart.File) (string, error) {
	if file == nil {
		return "", apperrors.NewValidation("No file uploaded")
	}
	if strings.TrimSpace(tripReqID) == "" {
		return "", apperrors.NewValidation("Trip Request ID is required")
	}

	req, err := s.findTripRequest(ctx, tripReqID)
	if err != nil {
		return "", err
	}

	if req.Photo != nil && req.Photo.PublicID != "" {
		deleteCtx, cancel := context.WithTimeout(ctx, storageCallTimeout)
		err := s.storage.Delete(deleteCtx, req.Photo.PublicID)
		cancel()
		if err != nil {
			// Orphaned object; left for offline cleanup.
			log.Printf("WARNING: failed to delete replaced photo %s for trip request %s: %v", req.Photo.PublicID, tripReqID, err)
		}
	}

	uploadCtx, cancel := context.WithTimeout(ctx, storageCallTimeout)
	photo, err := s.storage.Upload(uploadCtx, file, tripPhotoFolder, req.User.UserID)
	cancel()
	if err != nil {
		return "", apperrors.NewDependency("Failed to upload photo")
	}

	req.Photo = photo
	if err := s.requests.Replace(ctx, req); err != nil {
		return "", fmt.Errorf("save trip request photo: %w", err)
	}
	return photo.URL, nil
}

// CreateTrip resolves both parties, snapshots each account independently, and
// persists a confirmed trip.
func (s *TripService) CreateTrip(ctx context.Context, in CreateTripInput) (*models.Trip, error) {
	if strings.TrimSpace(in.UserName) == "" || strings.TrimSpace(in.CompanionName) == "" {
		return nil, apperrors.NewValidation("Both user and companion usernames are required")
	}

	user, err := s.findUser(ctx, in.UserName, "User not found")
	if err != nil {
		return nil, err
	}
	companion, err := s.findUser(ctx, in.CompanionName, "Companion not found")
	if err != nil {
		return nil, err
	}

	trip := &models.Trip{
		TripID:             s.ids.ForTrip(user.UserName, companion.UserName),
		User:               user.Snapshot(),
		Companion:          companion.Snapshot(),
		Consent:            in.Consent,
		DistanceMaintained: in.DistanceMaintained,
		DistancePreferred:  in.DistancePreferred,
		GenderPreference:   in.GenderPreference,
		ImageVerification:  in.ImageVerification,
	}

	if err := s.trips.Insert(ctx, trip); err != nil {
		return nil, fmt.Errorf("insert trip: %w", err)
	}
	return trip, nil
}

// GetTrip fetches a trip by its tripId. Side-effect-free.
func (s *TripService) GetTrip(ctx context.Context, tripID string) (*models.Trip, error) {
	if strings.TrimSpace(tripID) == "" {
		return nil, apperrors.NewValidation("Trip ID is required")
	}

	trip, err := s.trips.FindByTripID(ctx, tripID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NewNotFound("Trip not found")
		}
		return nil, fmt.Errorf("find trip: %w", err)
	}
	return trip, nil
}

func (s *TripService) findUser(ctx context.Context, userName, notFoundMessage string) (*models.User, error) {
	user, err := s.users.FindByUserName(ctx, utils.NormalizeUsername(userName))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NewNotFound(notFoundMessage)
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (s *TripService) findTripRequest(ctx context.Context, tripReqID string) (*models.TripRequest, error) {
	req, err := s.requests.FindByTripReqID(ctx, tripReqID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NewNotFound("Trip Request not found")
		}
		return nil, fmt.Errorf("find trip request: %w", err)
	}
	return req, nil
}
