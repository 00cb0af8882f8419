package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/beside-app/beside-backend/internal/middleware"
	"github.com/beside-app/beside-backend/internal/models"
	"github.com/beside-app/beside-backend/internal/services"
)

// AuthServicer is what the auth handlers need from the account layer.
type AuthServicer interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	CurrentUser(ctx context.Context, userID string) (*models.User, error)
	VerifyUser(ctx context.Context, userID string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

// OTPServicer issues and verifies email one-time codes.
type OTPServicer interface {
	SendEmailOTP(ctx context.Context, email string) error
	VerifyEmailOTP(ctx context.Context, email, code string) error
}

var (
	_ AuthServicer = (*services.AuthService)(nil)
	_ OTPServicer  = (*services.OTPService)(nil)
)

// AuthHandler binds registration, login, OTP, and password recovery to HTTP.
type AuthHandler struct {
	auth AuthServicer
	otp  OTPServicer
}

func NewAuthHandler(auth AuthServicer, otp OTPServicer) *AuthHandler {
	return &AuthHandler{auth: auth, otp: otp}
}

type registerRequest struct {
	UserName     string `json:"userName"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	ProfilePhoto string `json:"profilePhoto,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type verifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type resetPasswordRequest struct {
	Password string `json:"password"`
}

// Register handles POST /api/v1/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.auth.Register(r.Context(), services.RegisterInput{
		UserName:     req.UserName,
		Email:        req.Email,
		Password:     req.Password,
		ProfilePhoto: req.ProfilePhoto,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondData(w, http.StatusCreated, map[string]interface{}{"user": user})
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	respondData(w, http.StatusOK, map[string]interface{}{"user": user, "token": token})
}

// Logout handles GET /api/v1/auth/logout. Tokens are stateless, so logout is
// the client dropping its copy; the endpoint exists for the mobile client.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	respondMessage(w, http.StatusOK, "Logged out", nil)
}

// CurrentUser handles GET /api/v1/auth/current-user (protected).
func (h *AuthHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.CurrentUser(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}

	respondData(w, http.StatusOK, map[string]interface{}{"user": user})
}

// VerifyUser handles POST /api/v1/auth/verify (protected).
func (h *AuthHandler) VerifyUser(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.VerifyUser(r.Context(), middleware.GetUserID(r.Context())); err != nil {
		respondError(w, err)
		return
	}

	respondMessage(w, http.StatusOK, "User verified", nil)
}

// ForgotPassword handles POST /api/v1/auth/forgot-password. The reset token
// travels only by email, never in the response.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.auth.ForgotPassword(r.Context(), req.Email); err != nil {
		respondError(w, err)
		return
	}

	respondMessage(w, http.StatusOK, "Password reset email sent", nil)
}

// ResetPassword handles POST /api/v1/auth/reset-password/{token}.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.auth.ResetPassword(r.Context(), chi.URLParam(r, "token"), req.Password); err != nil {
		respondError(w, err)
		return
	}

	respondMessage(w, http.StatusOK, "Password has been reset", nil)
}

// SendEmailOTP handles POST /api/v1/auth/send-email-otp. The code travels
// only by email, never in the response.
func (h *AuthHandler) SendEmailOTP(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.otp.SendEmailOTP(r.Context(), req.Email); err != nil {
		respondError(w, err)
		return
	}

	respondMessage(w, http.StatusOK, "Verification code sent", nil)
}

// VerifyEmailOTP handles POST /api/v1/auth/verify-email-otp.
func (h *AuthHandler) VerifyEmailOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.otp.VerifyEmailOTP(r.Context(), req.Email, req.OTP); err != nil {
		respondError(w, err)
		return
	}

	respondMessage(w, http.StatusOK, "Email verified successfully", nil)
}
