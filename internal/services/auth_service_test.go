package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beside-app/beside-backend/pkg/apperrors"
)

func newAuthService(users *fakeUserStore, mailer *fakeMailer) *AuthService {
	return NewAuthService(users, mailer, "test-secret", "http://localhost:3000")
}

func registerAlice(t *testing.T, svc *AuthService) {
	t.Helper()
	_, err := svc.Register(context.Background(), RegisterInput{
		UserName: "alice",
		Email:    "alice@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
}

func TestRegister_HashesPassword(t *testing.T) {
	users := newFakeUserStore()
	svc := newAuthService(users, &fakeMailer{})

	user, err := svc.Register(context.Background(), RegisterInput{
		UserName: "Alice",
		Email:    "Alice@Example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	assert.Equal(t, "alice", user.UserName)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEqual(t, "correct-horse", user.Password)
	assert.True(t, strings.HasPrefix(user.Password, "$argon2id$"))
	assert.False(t, user.IsVerified)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc := newAuthService(newFakeUserStore(), &fakeMailer{})
	registerAlice(t, svc)

	_, err := svc.Register(context.Background(), RegisterInput{
		UserName: "alice",
		Email:    "other@example.com",
		Password: "correct-horse",
	})
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
}

func TestRegister_InvalidUsername(t *testing.T) {
	svc := newAuthService(newFakeUserStore(), &fakeMailer{})

	_, err := svc.Register(context.Background(), RegisterInput{
		UserName: "a!",
		Email:    "a@example.com",
		Password: "correct-horse",
	})
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestLogin_IssuesValidJWT(t *testing.T) {
	users := newFakeUserStore()
	svc := newAuthService(users, &fakeMailer{})
	registerAlice(t, svc)

	user, token, err := svc.Login(context.Background(), "alice@example.com", "correct-horse")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := svc.ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), userID)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := newAuthService(newFakeUserStore(), &fakeMailer{})
	registerAlice(t, svc)

	_, _, err := svc.Login(context.Background(), "alice@example.com", "wrong")
	assert.True(t, apperrors.IsKind(err, apperrors.KindAuth))
}

func TestValidateJWT_RejectsTampered(t *testing.T) {
	svc := newAuthService(newFakeUserStore(), &fakeMailer{})
	registerAlice(t, svc)

	_, token, err := svc.Login(context.Background(), "alice@example.com", "correct-horse")
	require.NoError(t, err)

	_, err = svc.ValidateJWT(token + "x")
	assert.Error(t, err)
}

func TestForgotPassword_EmailsTokenStoresDigest(t *testing.T) {
	users := newFakeUserStore()
	mailer := &fakeMailer{}
	svc := newAuthService(users, mailer)
	registerAlice(t, svc)

	require.NoError(t, svc.ForgotPassword(context.Background(), "alice@example.com"))

	require.Len(t, mailer.resetURL, 1)
	assert.Contains(t, mailer.resetURL[0], "http://localhost:3000/resetPassword/")

	user, err := users.FindByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, user.PasswordResetHash)
	// The URL carries the plaintext token, the store only its digest.
	assert.NotContains(t, mailer.resetURL[0], user.PasswordResetHash)
}

func TestResetPassword_RoundTrip(t *testing.T) {
	users := newFakeUserStore()
	mailer := &fakeMailer{}
	svc := newAuthService(users, mailer)
	registerAlice(t, svc)

	require.NoError(t, svc.ForgotPassword(context.Background(), "alice@example.com"))
	token := strings.TrimPrefix(mailer.resetURL[0], "http://localhost:3000/resetPassword/")

	require.NoError(t, svc.ResetPassword(context.Background(), token, "new-password-1"))

	// Old password no longer works, the new one does.
	_, _, err := svc.Login(context.Background(), "alice@example.com", "correct-horse")
	assert.Error(t, err)
	_, _, err = svc.Login(context.Background(), "alice@example.com", "new-password-1")
	assert.NoError(t, err)

	// The token is single use.
	err = svc.ResetPassword(context.Background(), token, "another-password")
	assert.True(t, apperrors.IsKind(err, apperrors.KindAuth))
}

func TestResetPassword_ExpiredToken(t *testing.T) {
	users := newFakeUserStore()
	mailer := &fakeMailer{}
	svc := newAuthService(users, mailer)
	registerAlice(t, svc)

	require.NoError(t, svc.ForgotPassword(context.Background(), "alice@example.com"))
	token := strings.TrimPrefix(mailer.resetURL[0], "http://localhost:3000/resetPassword/")

	svc.now = func() time.Time { return time.Now().Add(passwordResetTTL + time.Minute) }

	err := svc.ResetPassword(context.Background(), token, "new-password-1")
	assert.True(t, apperrors.IsKind(err, apperrors.KindAuth))
}

func TestVerifyUser_MarksVerified(t *testing.T) {
	users := newFakeUserStore()
	svc := newAuthService(users, &fakeMailer{})
	registerAlice(t, svc)

	user, err := users.FindByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)

	require.NoError(t, svc.VerifyUser(context.Background(), user.ID.Hex()))
	assert.True(t, user.IsVerified)
}
