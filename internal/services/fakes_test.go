package services

import (
	"context"
	"mime/multipart"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/beside-app/beside-backend/internal/models"
	"github.com/beside-app/beside-backend/internal/store"
)

// fakeUserStore is an in-memory UserStore keyed by username and email.
type fakeUserStore struct {
	users map[string]*models.User // by username

	markVerifiedCalls int
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	s := &fakeUserStore{users: make(map[string]*models.User)}
	for _, u := range users {
		s.users[u.UserName] = u
	}
	return s
}

func (s *fakeUserStore) Create(_ context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	s.users[user.UserName] = user
	return nil
}

func (s *fakeUserStore) FindByUserName(_ context.Context, userName string) (*models.User, error) {
	if u, ok := s.users[userName]; ok {
		return u, nil
	}
	return nil, store.ErrNotFound
}

func (s *fakeUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *fakeUserStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *fakeUserStore) FindByResetHash(_ context.Context, resetHash string) (*models.User, error) {
	for _, u := range s.users {
		if u.PasswordResetHash != "" && u.PasswordResetHash == resetHash {
			return u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *fakeUserStore) SetEmailOTP(ctx context.Context, id primitive.ObjectID, otpHash string, expiry time.Time) error {
	u, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	u.EmailOTPHash = otpHash
	u.EmailOTPExpiry = &expiry
	return nil
}

func (s *fakeUserStore) MarkVerified(ctx context.Context, id primitive.ObjectID) error {
	u, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	s.markVerifiedCalls++
	u.IsVerified = true
	u.EmailOTPHash = ""
	u.EmailOTPExpiry = nil
	return nil
}

func (s *fakeUserStore) SetPasswordReset(ctx context.Context, id primitive.ObjectID, resetHash string, expiry time.Time) error {
	u, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	u.PasswordResetHash = resetHash
	u.PasswordResetExpiry = &expiry
	return nil
}

func (s *fakeUserStore) UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error {
	u, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	u.Password = passwordHash
	u.PasswordResetHash = ""
	u.PasswordResetExpiry = nil
	return nil
}

// fakeTripRequestStore keeps trip requests by tripReqId.
type fakeTripRequestStore struct {
	requests map[string]*models.TripRequest
	inserts  int
}

func newFakeTripRequestStore() *fakeTripRequestStore {
	return &fakeTripRequestStore{requests: make(map[string]*models.TripRequest)}
}

func (s *fakeTripRequestStore) Insert(_ context.Context, req *models.TripRequest) error {
	s.inserts++
	req.CreatedAt = time.Now()
	req.UpdatedAt = time.Now()
	copied := *req
	s.requests[req.TripReqID] = &copied
	return nil
}

func (s *fakeTripRequestStore) FindByTripReqID(_ context.Context, tripReqID string) (*models.TripRequest, error) {
	if req, ok := s.requests[tripReqID]; ok {
		copied := *req
		return &copied, nil
	}
	return nil, store.ErrNotFound
}

func (s *fakeTripRequestStore) Replace(_ context.Context, req *models.TripRequest) error {
	if _, ok := s.requests[req.TripReqID]; !ok {
		return store.ErrNotFound
	}
	req.UpdatedAt = time.Now()
	copied := *req
	s.requests[req.TripReqID] = &copied
	return nil
}

// fakeTripStore keeps trips by tripId.
type fakeTripStore struct {
	trips   map[string]*models.Trip
	inserts int
}

func newFakeTripStore() *fakeTripStore {
	return &fakeTripStore{trips: make(map[string]*models.Trip)}
}

func (s *fakeTripStore) Insert(_ context.Context, trip *models.Trip) error {
	s.inserts++
	trip.CreatedAt = time.Now()
	trip.UpdatedAt = time.Now()
	copied := *trip
	s.trips[trip.TripID] = &copied
	return nil
}

func (s *fakeTripStore) FindByTripID(_ context.Context, tripID string) (*models.Trip, error) {
	if trip, ok := s.trips[tripID]; ok {
		copied := *trip
		return &copied, nil
	}
	return nil, store.ErrNotFound
}

// fakePhotoStorage records the order of storage calls.
type fakePhotoStorage struct {
	calls     []string // "delete:<publicID>" / "upload"
	deleteErr error
	uploadErr error
	next      *models.Photo
}

func (s *fakePhotoStorage) Upload(_ context.Context, _ multipart.File, folder, ownerID string) (*models.Photo, error) {
	s.calls = append(s.calls, "upload")
	if s.uploadErr != nil {
		return nil, s.uploadErr
	}
	if s.next != nil {
		return s.next, nil
	}
	return &models.Photo{
		URL:      "https://res.example.com/" + folder + "/" + ownerID + "/photo.jpg",
		PublicID: folder + "/" + ownerID + "/photo",
	}, nil
}

func (s *fakePhotoStorage) Delete(_ context.Context, publicID string) error {
	s.calls = append(s.calls, "delete:"+publicID)
	return s.deleteErr
}

// fakeMailer records sent mail instead of dialing SMTP.
type fakeMailer struct {
	otpTo    []string
	otpCodes []string
	resetTo  []string
	resetURL []string
	sendErr  error
}

func (m *fakeMailer) SendEmailOTP(to, code string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.otpTo = append(m.otpTo, to)
	m.otpCodes = append(m.otpCodes, code)
	return nil
}

func (m *fakeMailer) SendPasswordReset(to, resetURL string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.resetTo = append(m.resetTo, to)
	m.resetURL = append(m.resetURL, resetURL)
	return nil
}

// fakeLimiter allows or blocks every resend, recording the cooldown keys.
type fakeLimiter struct {
	allow bool
	keys  []string
}

func (l *fakeLimiter) Allow(_ context.Context, email string) (bool, error) {
	l.keys = append(l.keys, email)
	return l.allow, nil
}
