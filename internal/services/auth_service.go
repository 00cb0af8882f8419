package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/beside-app/beside-backend/internal/models"
	"github.com/beside-app/beside-backend/internal/store"
	"github.com/beside-app/beside-backend/pkg/apperrors"
	"github.com/beside-app/beside-backend/pkg/utils"
)

const (
	jwtExpiry          = 7 * 24 * time.Hour
	passwordResetTTL   = 30 * time.Minute
	minPasswordLength  = 8
	resetPasswordRoute = "/resetPassword/"
)

// AuthService handles registration, login, and password recovery.
type AuthService struct {
	users       store.UserStore
	mailer      Mailer
	jwtSecret   string
	frontendURL string
	now         func() time.Time
}

func NewAuthService(users store.UserStore, mailer Mailer, jwtSecret, frontendURL string) *AuthService {
	return &AuthService{
		users:       users,
		mailer:      mailer,
		jwtSecret:   jwtSecret,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		now:         time.Now,
	}
}

// RegisterInput carries the signup fields.
type RegisterInput struct {
	UserName     string
	Email        string
	Password     string
	ProfilePhoto string
}

// Register creates a new account. The username is normalized for storage so
// lookups are case-insensitive.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	if in.Email == "" || in.Password == "" {
		return nil, apperrors.NewValidation("Username, email, and password are required")
	}
	if err := utils.ValidateUsername(in.UserName); err != nil {
		return nil, apperrors.NewValidation(err.Error())
	}
	if len(in.Password) < minPasswordLength {
		return nil, apperrors.NewValidation("Password must be at least 8 characters")
	}

	userName := utils.NormalizeUsername(in.UserName)
	if _, err := s.users.FindByUserName(ctx, userName); err == nil {
		return nil, apperrors.NewConflict("Username is already taken")
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
		return nil, apperrors.NewConflict("An account with this email already exists")
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		UserName:     userName,
		Email:        in.Email,
		Password:     hash,
		ProfilePhoto: in.ProfilePhoto,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Login verifies credentials and issues a signed JWT.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, "", apperrors.NewValidation("Email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, "", apperrors.NewUnauthorized("Invalid email or password")
		}
		return nil, "", fmt.Errorf("find user: %w", err)
	}

	ok, err := utils.VerifyPassword(password, user.Password)
	if err != nil || !ok {
		return nil, "", apperrors.NewUnauthorized("Invalid email or password")
	}

	token, err := s.GenerateJWT(user.ID.Hex())
	if err != nil {
		return nil, "", fmt.Errorf("sign token: %w", err)
	}
	return user, token, nil
}

// CurrentUser loads the account behind an authenticated request.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*models.User, error) {
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, apperrors.NewUnauthorized("Invalid token")
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NewUnauthorized("Invalid token")
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// VerifyUser flags the authenticated account as verified. Used by the mobile
// client's consent flow.
func (s *AuthService) VerifyUser(ctx context.Context, userID string) error {
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return apperrors.NewUnauthorized("Invalid token")
	}
	if err := s.users.MarkVerified(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.NewNotFound("User not found")
		}
		return fmt.Errorf("mark verified: %w", err)
	}
	return nil
}

// ForgotPassword issues a reset token: 32 random bytes hex-encoded, with only
// the SHA-256 digest persisted, and emails the plaintext link.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return apperrors.NewValidation("Email is required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.NewNotFound("User not found")
		}
		return fmt.Errorf("find user: %w", err)
	}

	token, err := utils.GenerateToken()
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}

	expiry := s.now().Add(passwordResetTTL)
	if err := s.users.SetPasswordReset(ctx, user.ID, utils.HashToken(token), expiry); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	resetURL := s.frontendURL + resetPasswordRoute + token
	if err := s.mailer.SendPasswordReset(email, resetURL); err != nil {
		return apperrors.NewDependency("Failed to send password reset email")
	}
	return nil
}

// ResetPassword consumes a reset token and stores a new password hash.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if strings.TrimSpace(token) == "" {
		return apperrors.NewValidation("Reset token is required")
	}
	if len(newPassword) < minPasswordLength {
		return apperrors.NewValidation("Password must be at least 8 characters")
	}

	user, err := s.users.FindByResetHash(ctx, utils.HashToken(token))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.NewAuth("Token is invalid or has expired")
		}
		return fmt.Errorf("find reset token: %w", err)
	}
	if user.PasswordResetExpiry == nil || s.now().After(*user.PasswordResetExpiry) {
		return apperrors.NewAuth("Token is invalid or has expired")
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// GenerateJWT signs an HS256 token carrying the user ID.
func (s *AuthService) GenerateJWT(userID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     s.now().Add(jwtExpiry).Unix(),
		"iat":     s.now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// ValidateJWT parses a token and returns the user ID it carries.
func (s *AuthService) ValidateJWT(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return "", errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid token claims")
	}
	userID, ok := claims["user_id"].(string)
	if !ok {
		return "", errors.New("user_id not found in token")
	}
	return userID, nil
}
