package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/beside-app/beside-backend/internal/handlers"
	"github.com/beside-app/beside-backend/internal/middleware"
	"github.com/beside-app/beside-backend/internal/models"
	"github.com/beside-app/beside-backend/internal/routes"
	"github.com/beside-app/beside-backend/internal/services"
)

var errNotStubbed = errors.New("not stubbed")

// tripServicerMock lets each test stub only the calls it exercises.
type tripServicerMock struct {
	createTripRequestFn func(ctx context.Context, in services.CreateTripRequestInput) (*models.TripRequest, error)
	getTripRequestFn    func(ctx context.Context, tripReqID string) (*models.TripRequest, error)
	updateTripRequestFn func(ctx context.Context, tripReqID string, in services.UpdateTripRequestInput) (*models.TripRequest, error)
	uploadTripPhotoFn   func(ctx context.Context, tripReqID string, file multipart.File) (string, error)
	createTripFn        func(ctx context.Context, in services.CreateTripInput) (*models.Trip, error)
	getTripFn           func(ctx context.Context, tripID string) (*models.Trip, error)
}

func (m *tripServicerMock) CreateTripRequest(ctx context.Context, in services.CreateTripRequestInput) (*models.TripRequest, error) {
	if m.createTripRequestFn == nil {
		return nil, errNotStubbed
	}
	return m.createTripRequestFn(ctx, in)
}

func (m *tripServicerMock) GetTripRequest(ctx context.Context, tripReqID string) (*models.TripRequest, error) {
	if m.getTripRequestFn == nil {
		return nil, errNotStubbed
	}
	return m.getTripRequestFn(ctx, tripReqID)
}

func (m *tripServicerMock) UpdateTripRequest(ctx context.Context, tripReqID string, in services.UpdateTripRequestInput) (*models.TripRequest, error) {
	if m.updateTripRequestFn == nil {
		return nil, errNotStubbed
	}
	return m.updateTripRequestFn(ctx, tripReqID, in)
}

func (m *tripServicerMock) UploadTripPhoto(ctx context.Context, tripReqID string, file multipart.File) (string, error) {
	if m.uploadTripPhotoFn == nil {
		return "", errNotStubbed
	}
	return m.uploadTripPhotoFn(ctx, tripReqID, file)
}

func (m *tripServicerMock) CreateTrip(ctx context.Context, in services.CreateTripInput) (*models.Trip, error) {
	if m.createTripFn == nil {
		return nil, errNotStubbed
	}
	return m.createTripFn(ctx, in)
}

func (m *tripServicerMock) GetTrip(ctx context.Context, tripID string) (*models.Trip, error) {
	if m.getTripFn == nil {
		return nil, errNotStubbed
	}
	return m.getTripFn(ctx, tripID)
}

type authServicerMock struct {
	registerFn       func(ctx context.Context, in services.RegisterInput) (*models.User, error)
	loginFn          func(ctx context.Context, email, password string) (*models.User, string, error)
	currentUserFn    func(ctx context.Context, userID string) (*models.User, error)
	verifyUserFn     func(ctx context.Context, userID string) error
	forgotPasswordFn func(ctx context.Context, email string) error
	resetPasswordFn  func(ctx context.Context, token, newPassword string) error
}

func (m *authServicerMock) Register(ctx context.Context, in services.RegisterInput) (*models.User, error) {
	if m.registerFn == nil {
		return nil, errNotStubbed
	}
	return m.registerFn(ctx, in)
}

func (m *authServicerMock) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	if m.loginFn == nil {
		return nil, "", errNotStubbed
	}
	return m.loginFn(ctx, email, password)
}

func (m *authServicerMock) CurrentUser(ctx context.Context, userID string) (*models.User, error) {
	if m.currentUserFn == nil {
		return nil, errNotStubbed
	}
	return m.currentUserFn(ctx, userID)
}

func (m *authServicerMock) VerifyUser(ctx context.Context, userID string) error {
	if m.verifyUserFn == nil {
		return errNotStubbed
	}
	return m.verifyUserFn(ctx, userID)
}

func (m *authServicerMock) ForgotPassword(ctx context.Context, email string) error {
	if m.forgotPasswordFn == nil {
		return errNotStubbed
	}
	return m.forgotPasswordFn(ctx, email)
}

func (m *authServicerMock) ResetPassword(ctx context.Context, token, newPassword string) error {
	if m.resetPasswordFn == nil {
		return errNotStubbed
	}
	return m.resetPasswordFn(ctx, token, newPassword)
}

type otpServicerMock struct {
	sendFn   func(ctx context.Context, email string) error
	verifyFn func(ctx context.Context, email, code string) error
}

func (m *otpServicerMock) SendEmailOTP(ctx context.Context, email string) error {
	if m.sendFn == nil {
		return errNotStubbed
	}
	return m.sendFn(ctx, email)
}

func (m *otpServicerMock) VerifyEmailOTP(ctx context.Context, email, code string) error {
	if m.verifyFn == nil {
		return errNotStubbed
	}
	return m.verifyFn(ctx, email, code)
}

// validatorMock stands in for the JWT validator behind Protect.
type validatorMock struct {
	userID string
	err    error
}

func (v *validatorMock) ValidateJWT(string) (string, error) {
	return v.userID, v.err
}

func newTestRouter(auth handlers.AuthServicer, otp handlers.OTPServicer, trips handlers.TripServicer, validator middleware.TokenValidator) *chi.Mux {
	if auth == nil {
		auth = &authServicerMock{}
	}
	if otp == nil {
		otp = &otpServicerMock{}
	}
	if trips == nil {
		trips = &tripServicerMock{}
	}
	if validator == nil {
		validator = &validatorMock{err: errors.New("no token")}
	}

	r := chi.NewRouter()
	routes.SetupRoutes(r, handlers.NewAuthHandler(auth, otp), handlers.NewTripHandler(trips), middleware.Protect(validator))
	return r
}

func doJSON(t *testing.T, router http.Handler, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func dataField(t *testing.T, body map[string]interface{}, key string) map[string]interface{} {
	t.Helper()

	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok, "response has no data object")
	field, ok := data[key].(map[string]interface{})
	require.True(t, ok, "data has no %q object", key)
	return field
}

func multipartPhoto(t *testing.T, field, filename string, contents []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(contents)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}
