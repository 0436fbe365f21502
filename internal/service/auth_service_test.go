package service

import (
	"context"
	"testing"
	"time"

	"storefront/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type authFixture struct {
	auth     *AuthService
	users    *fakeUserRepo
	sessions *fakeSessionRepo
	tokens   *fakeTokenRepo
	audit    *fakeAuditRepo
}

func newAuthFixture(t *testing.T, users ...*entity.User) *authFixture {
	t.Helper()
	clock := &fakeClock{now: time.Now()}
	userRepo := newFakeUserRepo(users...)
	sessionRepo := newFakeSessionRepo()
	auditRepo := &fakeAuditRepo{}
	tokenSvc, tokenRepo := newTestTokenService(t, userRepo, clock)
	sessionSvc := NewSessionService(sessionRepo, clock, 0)

	auth := NewAuthService(
		userRepo,
		nil,
		nil,
		auditRepo,
		sessionSvc,
		tokenSvc,
		nil,
		BcryptPasswordHasher{Cost: bcrypt.MinCost},
		nil,
		nil,
		clock,
		AuthConfig{},
	)
	return &authFixture{
		auth:     auth,
		users:    userRepo,
		sessions: sessionRepo,
		tokens:   tokenRepo,
		audit:    auditRepo,
	}
}

func registeredUser(t *testing.T, email, password string, role entity.UserRole) *entity.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	hashed := string(hash)
	user := testUser(role)
	user.Email = email
	user.PasswordHash = &hashed
	return user
}

func TestRegisterThenLoginKeepsSessionID(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	require.NoError(t, f.sessions.Upsert(ctx, &entity.Session{SessionID: "sess_keep"}))

	result, err := f.auth.Register(ctx, RegisterInput{
		Name:     "Ada",
		Email:    "Ada@Example.com",
		Password: "correct horse",
	}, "sess_keep")
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)
	assert.Equal(t, "ada@example.com", result.User.Email)

	session, err := f.sessions.FindByID(ctx, "sess_keep")
	require.NoError(t, err)
	require.NotNil(t, session.UserID)
	assert.Equal(t, result.User.ID, *session.UserID)

	require.NoError(t, f.auth.Logout(ctx, result.User.ID, "sess_keep", nil))
	session, err = f.sessions.FindByID(ctx, "sess_keep")
	require.NoError(t, err)
	assert.True(t, session.IsGuest())

	again, err := f.auth.Login(ctx, LoginInput{
		Email:     "ada@example.com",
		Password:  "correct horse",
		SessionID: "sess_keep",
	})
	require.NoError(t, err)
	assert.NotEqual(t, result.Token, again.Token, "each login issues a fresh token")

	session, err = f.sessions.FindByID(ctx, "sess_keep")
	require.NoError(t, err)
	require.NotNil(t, session.UserID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t, registeredUser(t, "taken@example.com", "pw1234567", entity.UserRoleCustomer))

	_, err := f.auth.Register(ctx, RegisterInput{
		Email:    "TAKEN@example.com",
		Password: "pw1234567",
	}, "")
	assert.ErrorIs(t, err, ErrEmailAlreadyRegistered)
}

func TestLoginWrongPassword(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t, registeredUser(t, "user@example.com", "right", entity.UserRoleCustomer))

	_, err := f.auth.Login(ctx, LoginInput{Email: "user@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.auth.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "whatever"})
	assert.ErrorIs(t, err, ErrInvalidCredentials, "unknown email and bad password are indistinguishable")
}

func TestLogoutRevokesBearer(t *testing.T) {
	ctx := context.Background()
	user := registeredUser(t, "user@example.com", "secret99", entity.UserRoleCustomer)
	f := newAuthFixture(t, user)

	_, err := f.auth.Login(ctx, LoginInput{Email: "user@example.com", Password: "secret99", SessionID: "sess_1"})
	require.NoError(t, err)

	require.NoError(t, f.auth.Logout(ctx, user.ID, "sess_1", nil))

	record, err := f.tokens.FindByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, record, "logout deletes the token row")
}

func TestAdminLoginRejectsCustomer(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t, registeredUser(t, "user@example.com", "secret99", entity.UserRoleCustomer))

	_, err := f.auth.AdminLogin(ctx, AdminLoginInput{Email: "user@example.com", Password: "secret99"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAdminLoginIssuesAdminToken(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t, registeredUser(t, "boss@example.com", "secret99", entity.UserRoleAdmin))

	result, err := f.auth.AdminLogin(ctx, AdminLoginInput{Email: "boss@example.com", Password: "secret99"})
	require.NoError(t, err)
	assert.False(t, result.MFARequired)
	assert.NotEmpty(t, result.AdminToken)
}

func TestListUsersReturnsAccounts(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t,
		registeredUser(t, "alice@example.com", "secret99", entity.UserRoleCustomer),
		registeredUser(t, "boss@example.com", "secret99", entity.UserRoleAdmin),
	)

	users, err := f.auth.ListUsers(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}
