package handlers

import (
	"context"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/beside-app/beside-backend/internal/models"
	"github.com/beside-app/beside-backend/internal/services"
)

// maxPhotoUploadBytes caps multipart photo uploads at 10MB.
const maxPhotoUploadBytes = 10 << 20

// TripServicer is what the trip handlers need from the workflow layer.
type TripServicer interface {
	CreateTripRequest(ctx context.Context, in services.CreateTripRequestInput) (*models.TripRequest, error)
	GetTripRequest(ctx context.Context, tripReqID string) (*models.TripRequest, error)
	UpdateTripRequest(ctx context.Context, tripReqID string, in services.UpdateTripRequestInput) (*models.TripRequest, error)
	UploadTripPhoto(ctx context.Context, tripReqID string, file multipart.File) (string, error)
	CreateTrip(ctx context.Context, in services.CreateTripInput) (*models.Trip, error)
	GetTrip(ctx context.Context, tripID string) (*models.Trip, error)
}

var _ TripServicer = (*services.TripService)(nil)

// TripHandler binds the trip workflows to HTTP.
type TripHandler struct {
	trips TripServicer
}

func NewTripHandler(trips TripServicer) *TripHandler {
	return &TripHandler{trips: trips}
}

type partyRef struct {
	UserName string `json:"userName"`
}

type createTripReqRequest struct {
	User             partyRef `json:"user"`
	Destination      string   `json:"destination"`
	DestinationType  string   `json:"destinationType"`
	Date             string   `json:"date"`
	Time             string   `json:"time"`
	GenderPreference string   `json:"genderPreference"`
}

type getTripReqRequest struct {
	TripReqID string `json:"tripReqId"`
}

type updateTripReqRequest struct {
	Destination      *string `json:"destination"`
	DestinationType  *string `json:"destinationType"`
	Date             *string `json:"date"`
	Time             *string `json:"time"`
	GenderPreference *string `json:"genderPreference"`
}

type createTripRequest struct {
	User               partyRef `json:"user"`
	Companion          partyRef `json:"companion"`
	Consent            bool     `json:"consent"`
	DistanceMaintained string   `json:"distanceMaintained"`
	DistancePreferred  string   `json:"distancePreferred"`
	GenderPreference   string   `json:"genderPreference"`
	ImageVerification  bool     `json:"imageVerification"`
}

type getTripRequest struct {
	TripID string `json:"tripId"`
}

// CreateTripRequest handles POST /api/v1/trips/request.
func (h *TripHandler) CreateTripRequest(w http.ResponseWriter, r *http.Request) {
	var req createTripReqRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	tripReq, err := h.trips.CreateTripRequest(r.Context(), services.CreateTripRequestInput{
		UserName:         req.User.UserName,
		Destination:      req.Destination,
		DestinationType:  req.DestinationType,
		Date:             req.Date,
		Time:             req.Time,
		GenderPreference: req.GenderPreference,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondData(w, http.StatusCreated, map[string]interface{}{"tripRequest": tripReq})
}

// GetTripRequest handles POST /api/v1/trips/request/get. The ID travels in
// the body, matching the mobile client.
func (h *TripHandler) GetTripRequest(w http.ResponseWriter, r *http.Request) {
	var req getTripReqRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	tripReq, err := h.trips.GetTripRequest(r.Context(), req.TripReqID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondData(w, http.StatusOK, map[string]interface{}{"tripRequest": tripReq})
}

// UpdateTripRequest handles PATCH /api/v1/trips/request/{tripReqId}.
// Absent body fields are left untouched.
func (h *TripHandler) UpdateTripRequest(w http.ResponseWriter, r *http.Request) {
	var req updateTripReqRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	tripReq, err := h.trips.UpdateTripRequest(r.Context(), chi.URLParam(r, "tripReqId"), services.UpdateTripRequestInput{
		Destination:      req.Destination,
		DestinationType:  req.DestinationType,
		Date:             req.Date,
		Time:             req.Time,
		GenderPreference: req.GenderPreference,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondMessage(w, http.StatusOK, "Trip request updated successfully", map[string]interface{}{"tripRequest": tripReq})
}

// UploadTripPhoto handles POST /api/v1/trips/request/{tripReqId}/photo with a
// multipart "photo" field. Bodies over the cap are rejected, not spooled to
// temp files.
func (h *TripHandler) UploadTripPhoto(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoUploadBytes)
	if err := r.ParseMultipartForm(maxPhotoUploadBytes); err != nil {
		respondFail(w, http.StatusBadRequest, "Failed to parse form")
		return
	}

	file, _, err := r.FormFile("photo")
	if err != nil {
		respondFail(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	photoURL, err := h.trips.UploadTripPhoto(r.Context(), chi.URLParam(r, "tripReqId"), file)
	if err != nil {
		respondError(w, err)
		return
	}

	respondMessage(w, http.StatusOK, "Photo uploaded successfully", map[string]interface{}{"photoUrl": photoURL})
}

// CreateTrip handles POST /api/v1/trips.
func (h *TripHandler) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var req createTripRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	trip, err := h.trips.CreateTrip(r.Context(), services.CreateTripInput{
		UserName:           req.User.UserName,
		CompanionName:      req.Companion.UserName,
		Consent:            req.Consent,
		DistanceMaintained: req.DistanceMaintained,
		DistancePreferred:  req.DistancePreferred,
		GenderPreference:   req.GenderPreference,
		ImageVerification:  req.ImageVerification,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondData(w, http.StatusCreated, map[string]interface{}{"trip": trip})
}

// GetTrip handles POST /api/v1/trips/get.
func (h *TripHandler) GetTrip(w http.ResponseWriter, r *http.Request) {
	var req getTripRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	trip, err := h.trips.GetTrip(r.Context(), req.TripID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondData(w, http.StatusOK, map[string]interface{}{"trip": trip})
}
