package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"storefront/internal/entity"
	"storefront/internal/repository"
	"storefront/internal/utils"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const dummyPasswordHash = "$2a$10$CwTycUXWue0Thq9StjUM0uJ8yQbWc1x9uxw2sQ2sXUNx5x9xJ9F2S"

type AuthConfig struct {
	ResetTokenTTL time.Duration
	MFAIssuer     string
}

type AuthService struct {
	users         repository.UserRepository
	verifications repository.VerificationTokenRepository
	mfaSecrets    repository.MFASecretRepository
	auditLogs     repository.AuditLogRepository

	sessions *SessionService
	tokens   *TokenService

	emailSender  EmailSender
	passwordHash PasswordHasher
	mfaTokens    MFATokenIssuer
	mfaProvider  MFAProvider
	clock        Clock
	config       AuthConfig
}

func NewAuthService(
	users repository.UserRepository,
	verifications repository.VerificationTokenRepository,
	mfaSecrets repository.MFASecretRepository,
	auditLogs repository.AuditLogRepository,
	sessions *SessionService,
	tokens *TokenService,
	emailSender EmailSender,
	passwordHash PasswordHasher,
	mfaTokens MFATokenIssuer,
	mfaProvider MFAProvider,
	clock Clock,
	config AuthConfig,
) *AuthService {
	if clock == nil {
		clock = RealClock{}
	}
	return &AuthService{
		users:         users,
		verifications: verifications,
		mfaSecrets:    mfaSecrets,
		auditLogs:     auditLogs,
		sessions:      sessions,
		tokens:        tokens,
		emailSender:   emailSender,
		passwordHash:  passwordHash,
		mfaTokens:     mfaTokens,
		mfaProvider:   mfaProvider,
		clock:         clock,
		config:        config,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type LoginInput struct {
	Email     string
	Password  string
	SessionID string
	IPAddress *string
}

type AppLoginInput struct {
	Email       string
	Password    string
	DeviceToken string
	DeviceType  string
	SessionID   string
	IPAddress   *string
}

type LoginResult struct {
	Token string
	User  *entity.User
}

type AdminLoginInput struct {
	Email     string
	Password  string
	IPAddress *string
}

type AdminLoginResult struct {
	AdminToken        string
	MFARequired       bool
	MFAToken          string
	MFATokenExpiresIn int64
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput, sessionID string) (*LoginResult, error) {
	if strings.TrimSpace(input.Email) == "" || strings.TrimSpace(input.Password) == "" {
		return nil, ErrInvalidInput
	}

	email := utils.NormalizeEmail(input.Email)
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyRegistered
	}

	hash, err := s.passwordHash.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: &hash,
		Role:         entity.UserRoleCustomer,
		IsRegistered: true,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.establishWebSession(ctx, user, sessionID, nil)
}

// Login authenticates and issues a web bearer token. The session id keeps its
// value; only the session's user association changes.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := s.authenticate(ctx, input.Email, input.Password, input.IPAddress)
	if err != nil {
		return nil, err
	}
	return s.establishWebSession(ctx, user, input.SessionID, input.IPAddress)
}

// AppLogin is the mobile variant: it persists the push device token and type
// alongside the bearer credential.
func (s *AuthService) AppLogin(ctx context.Context, input AppLoginInput) (*LoginResult, error) {
	if strings.TrimSpace(input.DeviceToken) == "" {
		return nil, ErrInvalidInput
	}
	user, err := s.authenticate(ctx, input.Email, input.Password, input.IPAddress)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.IssueAppToken(ctx, user, input.DeviceToken, input.DeviceType)
	if err != nil {
		return nil, err
	}
	if input.SessionID != "" {
		if err := s.sessions.AssociateWithUser(ctx, input.SessionID, user.ID); err != nil {
			return nil, err
		}
	}
	_ = s.audit(ctx, &user.ID, &input.SessionID, input.IPAddress, entity.AuditLoginSuccess, map[string]any{"channel": "app"})
	return &LoginResult{Token: token, User: user}, nil
}

// Logout revokes the user's token row and detaches the session from the user.
// The session row survives so the guest cart does too.
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID, sessionID string, ipAddress *string) error {
	if err := s.tokens.Revoke(ctx, userID); err != nil {
		return err
	}
	if sessionID != "" {
		if err := s.sessions.DisassociateFromUser(ctx, sessionID); err != nil {
			return err
		}
	}
	_ = s.audit(ctx, &userID, &sessionID, ipAddress, entity.AuditLogout, nil)
	return nil
}

// AdminLogin verifies the credentials of a registered admin. When TOTP is
// enabled it returns a short-lived challenge token instead of the admin
// credential; otherwise the encrypted admin token is issued directly.
func (s *AuthService) AdminLogin(ctx context.Context, input AdminLoginInput) (*AdminLoginResult, error) {
	user, err := s.authenticate(ctx, input.Email, input.Password, input.IPAddress)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin() || !user.IsRegistered {
		_ = s.audit(ctx, &user.ID, nil, input.IPAddress, entity.AuditAdminLoginFailed, nil)
		return nil, ErrInvalidCredentials
	}

	if s.mfaProvider != nil && s.mfaSecrets != nil && s.mfaTokens != nil {
		secret, err := s.mfaSecrets.FindByUserID(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		if secret != nil && secret.EnabledAt != nil {
			challenge, expiresIn, err := s.mfaTokens.IssueChallengeToken(user.ID)
			if err != nil {
				return nil, err
			}
			return &AdminLoginResult{
				MFARequired:       true,
				MFAToken:          challenge,
				MFATokenExpiresIn: int64(expiresIn.Seconds()),
			}, nil
		}
	}

	return s.issueAdmin(ctx, user, input.IPAddress)
}

func (s *AuthService) AdminLoginMFA(ctx context.Context, challengeToken, code string, ipAddress *string) (*AdminLoginResult, error) {
	if s.mfaProvider == nil || s.mfaTokens == nil || s.mfaSecrets == nil {
		return nil, ErrMFANotConfigured
	}
	if strings.TrimSpace(challengeToken) == "" || strings.TrimSpace(code) == "" {
		return nil, ErrInvalidInput
	}
	userID, err := s.mfaTokens.ParseChallengeToken(challengeToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsAdmin() || !user.IsRegistered {
		return nil, ErrInvalidCredentials
	}

	secret, err := s.mfaSecrets.FindByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if secret == nil || secret.EnabledAt == nil {
		return nil, ErrMFARequired
	}
	if !s.mfaProvider.ValidateCode(secret.Secret, code) {
		_ = s.audit(ctx, &user.ID, nil, ipAddress, entity.AuditAdminLoginFailed, map[string]any{"reason": "mfa"})
		return nil, ErrInvalidMFACode
	}

	return s.issueAdmin(ctx, user, ipAddress)
}

func (s *AuthService) EnableMFA(ctx context.Context, userID uuid.UUID) (string, error) {
	if s.mfaProvider == nil || s.mfaSecrets == nil {
		return "", ErrMFANotConfigured
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrUserNotFound
	}

	secret, err := s.mfaProvider.GenerateSecret()
	if err != nil {
		return "", err
	}
	if err := s.mfaSecrets.Upsert(ctx, &entity.MFASecret{
		UserID:    user.ID,
		Secret:    secret,
		EnabledAt: nil,
	}); err != nil {
		return "", err
	}

	issuer := s.config.MFAIssuer
	if strings.TrimSpace(issuer) == "" {
		issuer = "Storefront"
	}
	return s.mfaProvider.QRCodeURL(user.Email, issuer, secret)
}

func (s *AuthService) VerifyMFA(ctx context.Context, userID uuid.UUID, code string) error {
	if s.mfaProvider == nil || s.mfaSecrets == nil {
		return ErrMFANotConfigured
	}
	if strings.TrimSpace(code) == "" {
		return ErrInvalidInput
	}
	secret, err := s.mfaSecrets.FindByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if secret == nil {
		return ErrMFARequired
	}
	if !s.mfaProvider.ValidateCode(secret.Secret, code) {
		return ErrInvalidMFACode
	}

	now := s.clock.Now()
	secret.EnabledAt = &now
	return s.mfaSecrets.Upsert(ctx, secret)
}

func (s *AuthService) DisableMFA(ctx context.Context, userID uuid.UUID) error {
	if s.mfaSecrets == nil {
		return nil
	}
	return s.mfaSecrets.Disable(ctx, userID)
}

func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	if strings.TrimSpace(email) == "" {
		return ErrInvalidInput
	}

	user, err := s.users.FindByEmail(ctx, utils.NormalizeEmail(email))
	if err != nil {
		return err
	}
	if user == nil {
		// Do not reveal whether the address exists.
		return nil
	}

	rawToken, err := utils.GenerateRandomToken(32)
	if err != nil {
		return err
	}
	ttl := s.config.ResetTokenTTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	verification := &entity.VerificationToken{
		UserID:    user.ID,
		TokenHash: utils.HashToken(rawToken),
		Type:      entity.PasswordReset,
		ExpiresAt: s.clock.Now().Add(ttl),
	}
	if err := s.verifications.Create(ctx, verification); err != nil {
		return err
	}

	if s.emailSender != nil {
		if err := s.emailSender.SendPasswordResetEmail(ctx, user.Email, rawToken); err != nil {
			return err
		}
	}
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if strings.TrimSpace(token) == "" || strings.TrimSpace(newPassword) == "" {
		return ErrInvalidInput
	}

	verification, err := s.verifications.FindValid(ctx, utils.HashToken(token), entity.PasswordReset)
	if err != nil {
		return err
	}
	if verification == nil {
		return ErrInvalidToken
	}

	user, err := s.users.FindByID(ctx, verification.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	hash, err := s.passwordHash.Hash(newPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = &hash
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}
	if err := s.verifications.MarkUsed(ctx, verification.ID); err != nil {
		return err
	}

	_ = s.tokens.Revoke(ctx, user.ID)
	_ = s.audit(ctx, &user.ID, nil, nil, entity.AuditPasswordReset, nil)
	return nil
}

func (s *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	return s.users.FindByID(ctx, userID)
}

// ListUsers pages through active accounts for the back office.
func (s *AuthService) ListUsers(ctx context.Context, limit, offset int) ([]entity.User, error) {
	return s.users.List(ctx, limit, offset)
}

func (s *AuthService) authenticate(ctx context.Context, email, password string, ipAddress *string) (*entity.User, error) {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		return nil, ErrInvalidInput
	}

	normalized := utils.NormalizeEmail(email)
	user, err := s.users.FindByEmail(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if user == nil || user.PasswordHash == nil {
		// Burn a comparison so response timing is uniform.
		_ = s.passwordHash.Verify(dummyPasswordHash, password)
		_ = s.audit(ctx, nil, nil, ipAddress, entity.AuditLoginFailed, map[string]any{"email": normalized})
		return nil, ErrInvalidCredentials
	}
	if !s.passwordHash.Verify(*user.PasswordHash, password) {
		_ = s.audit(ctx, &user.ID, nil, ipAddress, entity.AuditLoginFailed, map[string]any{"email": normalized})
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *AuthService) establishWebSession(ctx context.Context, user *entity.User, sessionID string, ipAddress *string) (*LoginResult, error) {
	token, err := s.tokens.IssueWebToken(ctx, user)
	if err != nil {
		return nil, err
	}
	if sessionID != "" {
		if err := s.sessions.AssociateWithUser(ctx, sessionID, user.ID); err != nil {
			return nil, err
		}
	}
	_ = s.audit(ctx, &user.ID, &sessionID, ipAddress, entity.AuditLoginSuccess, map[string]any{"channel": "web"})
	return &LoginResult{Token: token, User: user}, nil
}

func (s *AuthService) issueAdmin(ctx context.Context, user *entity.User, ipAddress *string) (*AdminLoginResult, error) {
	blob, err := s.tokens.IssueAdminToken(ctx, user)
	if err != nil {
		return nil, err
	}
	_ = s.audit(ctx, &user.ID, nil, ipAddress, entity.AuditAdminLogin, nil)
	return &AdminLoginResult{AdminToken: blob}, nil
}

func (s *AuthService) audit(
	ctx context.Context,
	userID *uuid.UUID,
	sessionID *string,
	ipAddress *string,
	action entity.AuditAction,
	metadata map[string]any,
) error {
	if s.auditLogs == nil {
		return nil
	}
	var payload datatypes.JSON
	if metadata != nil {
		bytes, err := json.Marshal(metadata)
		if err != nil {
			return err
		}
		payload = datatypes.JSON(bytes)
	}
	return s.auditLogs.Log(ctx, &entity.AuditLog{
		UserID:    userID,
		SessionID: sessionID,
		IPAddress: ipAddress,
		Action:    action,
		Metadata:  payload,
	})
}
