package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/beside-app/beside-backend/internal/store"
	"github.com/beside-app/beside-backend/pkg/apperrors"
	"github.com/beside-app/beside-backend/pkg/utils"
)

const (
	// OTPExpiry is how long an issued code stays valid.
	OTPExpiry = 10 * time.Minute
	// OTPResendCooldown is the minimum gap between issuance requests for
	// the same email.
	OTPResendCooldown = 60 * time.Second
	// otpCooldownKeyPrefix is the Redis key prefix for resend cooldowns.
	otpCooldownKeyPrefix = "otp_cooldown:"
)

// ResendLimiter throttles repeated OTP issuance for the same email.
type ResendLimiter interface {
	Allow(ctx context.Context, email string) (bool, error)
}

// RedisResendLimiter implements ResendLimiter with a SETNX-style key per email.
type RedisResendLimiter struct {
	client *redis.Client
}

func NewRedisResendLimiter(client *redis.Client) *RedisResendLimiter {
	return &RedisResendLimiter{client: client}
}

func (l *RedisResendLimiter) Allow(ctx context.Context, email string) (bool, error) {
	ok, err := l.client.SetNX(ctx, otpCooldownKeyPrefix+email, "1", OTPResendCooldown).Result()
	if err != nil {
		// If Redis is down, allow the send (fail open).
		return true, nil
	}
	return ok, nil
}

// OTPService issues and verifies email one-time codes.
type OTPService struct {
	users   store.UserStore
	mailer  Mailer
	limiter ResendLimiter
	now     func() time.Time
}

func NewOTPService(users store.UserStore, mailer Mailer, limiter ResendLimiter) *OTPService {
	return &OTPService{
		users:   users,
		mailer:  mailer,
		limiter: limiter,
		now:     time.Now,
	}
}

// SendEmailOTP generates a fresh 6-digit code, stores its digest with an
// expiry on the account, and emails the plaintext. A new issuance supersedes
// any earlier pending code. The code is never returned to the caller.
func (s *OTPService) SendEmailOTP(ctx context.Context, email string) error {
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
	if user.IsVerified {
		return apperrors.NewValidation("Email is already verified")
	}

	if s.limiter != nil {
		ok, err := s.limiter.Allow(ctx, email)
		if err != nil {
			return fmt.Errorf("otp cooldown: %w", err)
		}
		if !ok {
			return apperrors.NewRateLimited("A code was sent recently, please wait before requesting another")
		}
	}

	code, err := utils.GenerateOTP()
	if err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}

	expiry := s.now().Add(OTPExpiry)
	if err := s.users.SetEmailOTP(ctx, user.ID, utils.HashToken(code), expiry); err != nil {
		return fmt.Errorf("store otp: %w", err)
	}

	if err := s.mailer.SendEmailOTP(email, code); err != nil {
		return apperrors.NewDependency("Failed to send verification email")
	}
	return nil
}

// VerifyEmailOTP checks a candidate code against the stored digest. The
// three failure modes (nothing pending, expired, mismatch) are distinct.
// On success the account is marked verified and the credential is cleared,
// so the same code cannot be used twice.
func (s *OTPService) VerifyEmailOTP(ctx context.Context, email, code string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	code = strings.TrimSpace(code)
	if email == "" || code == "" {
		return apperrors.NewValidation("Email and OTP are required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.NewNotFound("User not found")
		}
		return fmt.Errorf("find user: %w", err)
	}

	if user.EmailOTPHash == "" || user.EmailOTPExpiry == nil {
		return apperrors.NewAuth("No verification code is pending for this email")
	}
	if s.now().After(*user.EmailOTPExpiry) {
		return apperrors.NewAuth("Verification code has expired")
	}
	if !utils.TokenEqual(code, user.EmailOTPHash) {
		return apperrors.NewAuth("Invalid verification code")
	}

	if err := s.users.MarkVerified(ctx, user.ID); err != nil {
		return fmt.Errorf("mark verified: %w", err)
	}
	return nil
}
