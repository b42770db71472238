package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/finoteselam-court/court-portal-api/internal/models"
	"github.com/finoteselam-court/court-portal-api/internal/repository"
	"github.com/finoteselam-court/court-portal-api/internal/validation"
	appErrors "github.com/finoteselam-court/court-portal-api/pkg/errors"
	"github.com/finoteselam-court/court-portal-api/pkg/mailer"
)

type authUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	UpdateLastLogin(ctx context.Context, id string, ts time.Time) error
	UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error
	UpdateCredentials(ctx context.Context, id, email, passwordHash string, updatedAt time.Time) error
}

type sessionStore interface {
	Save(ctx context.Context, session models.Session) error
	Get(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, userID, id string) error
	DeleteAllForUser(ctx context.Context, userID string) ([]string, error)
	SaveResetToken(ctx context.Context, token string, grant models.PasswordResetToken, ttl time.Duration) error
	ConsumeResetToken(ctx context.Context, token string) (*models.PasswordResetToken, error)
}

type auditRecorder interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

type jobSubmitter interface {
	Submit(jobType string, payload interface{}) (string, error)
}

type sessionDiscarder interface {
	Discard(sessionIDs ...string)
}

// RequestMeta carries caller details recorded with audit entries.
type RequestMeta struct {
	IP        string
	UserAgent string
}

// AuthConfig defines configuration for authentication flows.
type AuthConfig struct {
	AccessTokenSecret string
	AccessTokenExpiry time.Duration
	Issuer            string
	SignInPath        string
	ResetURL          string
	ResetTTL          time.Duration
	SiteName          string
}

// Decision is the outcome of an admin session check.
type Decision struct {
	Allowed   bool
	Principal *models.User
	Claims    *models.JWTClaims
	Redirect  string
	Reason    string
}

// CredentialUpdateResult reports what UpdateCredentials changed.
type CredentialUpdateResult struct {
	User            models.UserInfo `json:"user"`
	EmailChanged    bool            `json:"email_changed"`
	PasswordChanged bool            `json:"password_changed"`
}

// Changed reports whether anything was written.
func (r CredentialUpdateResult) Changed() bool {
	return r.EmailChanged || r.PasswordChanged
}

// AuthServiceParams groups constructor dependencies.
type AuthServiceParams struct {
	Users    authUserRepository
	Sessions sessionStore
	Audit    auditRecorder
	Mail     jobSubmitter
	Editors  sessionDiscarder
	Metrics  *MetricsService
	Logger   *zap.Logger
	Config   AuthConfig
}

// AuthService provides admin identity use cases and the session guard.
type AuthService struct {
	users    authUserRepository
	sessions sessionStore
	audit    auditRecorder
	mail     jobSubmitter
	editors  sessionDiscarder
	metrics  *MetricsService
	logger   *zap.Logger
	config   AuthConfig
	now      func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(params AuthServiceParams) *AuthService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg := params.Config
	if cfg.SignInPath == "" {
		cfg.SignInPath = "/admin/login"
	}
	if cfg.AccessTokenExpiry <= 0 {
		cfg.AccessTokenExpiry = 12 * time.Hour
	}
	if cfg.ResetTTL <= 0 {
		cfg.ResetTTL = time.Hour
	}
	return &AuthService{
		users:    params.Users,
		sessions: params.Sessions,
		audit:    params.Audit,
		mail:     params.Mail,
		editors:  params.Editors,
		metrics:  params.Metrics,
		logger:   logger,
		config:   cfg,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// SignInPath is where denied requests are sent.
func (s *AuthService) SignInPath() string {
	return s.config.SignInPath
}

// Authorize checks a bearer token for administrator capability. The session
// record and the principal are re-read on every call; nothing is cached.
func (s *AuthService) Authorize(ctx context.Context, token string) Decision {
	decision := s.authorize(ctx, token)
	s.metrics.RecordGuardDecision(decision.Allowed)
	if !decision.Allowed {
		s.logger.Debug("admin access denied", zap.String("reason", decision.Reason))
	}
	return decision
}

func (s *AuthService) authorize(ctx context.Context, token string) Decision {
	if strings.TrimSpace(token) == "" {
		return s.deny("missing token")
	}
	claims, err := s.ValidateToken(token)
	if err != nil {
		return s.deny("invalid token")
	}
	session, err := s.sessions.Get(ctx, claims.SessionID())
	if err != nil {
		if !errors.Is(err, repository.ErrSessionNotFound) {
			s.logger.Warn("session lookup failed", zap.Error(err))
		}
		return s.deny("no live session")
	}
	if session.UserID != claims.UserID {
		return s.deny("session does not match token")
	}
	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("principal lookup failed", zap.Error(err))
		}
		return s.deny("principal not found")
	}
	if !user.Active {
		return s.deny("principal inactive")
	}
	if user.Role != models.RoleAdmin {
		return s.deny("principal lacks administrator capability")
	}
	return Decision{Allowed: true, Principal: user, Claims: claims}
}

func (s *AuthService) deny(reason string) Decision {
	return Decision{Allowed: false, Redirect: s.config.SignInPath, Reason: reason}
}

// SignIn authenticates an administrator and opens a session.
func (s *AuthService) SignIn(ctx context.Context, form *validation.SignInForm, meta RequestMeta) (*models.SignInResponse, error) {
	if err := validation.Validate(form); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, form.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")
		}
		return nil, appErrors.Store(err, "failed to fetch user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(form.Password)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")
	}
	if !user.Active {
		return nil, appErrors.Clone(appErrors.ErrInactiveAccount, "account is inactive")
	}
	if user.Role != models.RoleAdmin {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")
	}

	sessionID := uuid.NewString()
	accessToken, expiresAt, err := s.generateAccessToken(user, sessionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token")
	}

	session := models.Session{
		ID:        sessionID,
		UserID:    user.ID,
		IPAddress: meta.IP,
		UserAgent: meta.UserAgent,
		CreatedAt: s.now(),
		ExpiresAt: expiresAt,
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, appErrors.Store(err, "failed to open session")
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID, s.now()); err != nil {
		s.logger.Warn("failed to update last login", zap.Error(err))
	}
	s.record(ctx, user.ID, models.AuditActionSignIn, "session", sessionID, meta)

	return &models.SignInResponse{
		AccessToken: accessToken,
		ExpiresIn:   int64(s.config.AccessTokenExpiry.Seconds()),
		ExpiresAt:   expiresAt,
		User:        user.Info(),
	}, nil
}

// SignOut ends the session behind claims and drops any open editor draft.
func (s *AuthService) SignOut(ctx context.Context, claims *models.JWTClaims) error {
	if claims == nil {
		return appErrors.ErrUnauthorized
	}
	if err := s.sessions.Delete(ctx, claims.UserID, claims.SessionID()); err != nil {
		return appErrors.Store(err, "failed to end session")
	}
	if s.editors != nil {
		s.editors.Discard(claims.SessionID())
	}
	return nil
}

// CurrentSession returns the signed-in principal.
func (s *AuthService) CurrentSession(ctx context.Context, claims *models.JWTClaims) (*models.UserInfo, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrUnauthorized
		}
		return nil, appErrors.Store(err, "failed to load user")
	}
	info := user.Info()
	return &info, nil
}

// RequestPasswordReset mails a single-use reset link. It reports success
// whether or not the address belongs to an administrator.
func (s *AuthService) RequestPasswordReset(ctx context.Context, form *validation.PasswordResetRequest) error {
	if err := validation.Validate(form); err != nil {
		return err
	}

	user, err := s.users.FindByEmail(ctx, form.Email)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("password reset lookup failed", zap.Error(err))
		}
		return nil
	}
	if !user.IsAdmin() {
		return nil
	}

	token, err := generateToken()
	if err != nil {
		s.logger.Error("failed to generate reset token", zap.Error(err))
		return nil
	}
	grant := models.PasswordResetToken{UserID: user.ID, Email: user.Email, CreatedAt: s.now()}
	if err := s.sessions.SaveResetToken(ctx, token, grant, s.config.ResetTTL); err != nil {
		s.logger.Error("failed to store reset token", zap.Error(err))
		return nil
	}

	msg, err := mailer.RenderPasswordReset(mailer.PasswordReset{
		To:       user.Email,
		SiteName: s.config.SiteName,
		Link:     resetLink(s.config.ResetURL, token),
		Expires:  s.config.ResetTTL,
	})
	if err != nil {
		s.logger.Error("failed to render reset mail", zap.Error(err))
		return nil
	}
	if s.mail == nil {
		s.logger.Warn("mail queue not configured, reset mail dropped")
		return nil
	}
	if _, err := s.mail.Submit(mailer.JobPasswordReset, msg); err != nil {
		s.logger.Error("failed to enqueue reset mail", zap.Error(err))
	}
	return nil
}

// ResetPassword consumes a reset token, sets the new password and ends every
// session of the account.
func (s *AuthService) ResetPassword(ctx context.Context, form *validation.PasswordResetConfirm, meta RequestMeta) error {
	if err := validation.Validate(form); err != nil {
		return err
	}

	grant, err := s.sessions.ConsumeResetToken(ctx, form.Token)
	if err != nil {
		if errors.Is(err, repository.ErrResetTokenNotFound) {
			return appErrors.FieldError("token", "reset link is invalid or has expired", err)
		}
		return appErrors.Store(err, "failed to verify reset link")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}
	if err := s.users.UpdatePassword(ctx, grant.UserID, string(hash), s.now()); err != nil {
		if repository.IsNotFound(err) {
			return appErrors.FieldError("token", "reset link is invalid or has expired", err)
		}
		return appErrors.Store(err, "failed to update password")
	}

	s.revokeSessions(ctx, grant.UserID, "")
	s.record(ctx, grant.UserID, models.AuditActionPasswordReset, "admin_user", grant.UserID, meta)
	return nil
}

// UpdateCredentials changes the signed-in admin's email and/or password.
// Other sessions are ended when the password changes.
func (s *AuthService) UpdateCredentials(ctx context.Context, claims *models.JWTClaims, form *validation.CredentialUpdate) (*CredentialUpdateResult, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := validation.Validate(form); err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrUnauthorized
		}
		return nil, appErrors.Store(err, "failed to load user")
	}

	result := &CredentialUpdateResult{
		EmailChanged:    form.Email != user.Email,
		PasswordChanged: form.Password != "" && bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(form.Password)) != nil,
	}
	if !result.Changed() {
		result.User = user.Info()
		return result, nil
	}

	var hash []byte
	if result.PasswordChanged {
		hash, err = bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
		}
	}

	if err := s.users.UpdateCredentials(ctx, user.ID, form.Email, string(hash), s.now()); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			conflict := appErrors.Clone(appErrors.ErrConflict, "email already in use")
			conflict.Field = "email"
			return nil, conflict
		}
		return nil, appErrors.Store(err, "failed to update credentials")
	}
	user.Email = form.Email
	if result.PasswordChanged {
		s.revokeSessions(ctx, user.ID, claims.SessionID())
	}

	result.User = user.Info()
	return result, nil
}

// EnsureBootstrapAdmin creates the first administrator when the email is not yet registered.
func (s *AuthService) EnsureBootstrapAdmin(ctx context.Context, email, password string) (bool, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return false, nil
	}
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return false, nil
	} else if !errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("lookup bootstrap admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("hash bootstrap password: %w", err)
	}
	user := &models.User{Email: email, PasswordHash: string(hash), Role: models.RoleAdmin, Active: true}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return false, nil
		}
		return false, fmt.Errorf("create bootstrap admin: %w", err)
	}
	return true, nil
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.config.Issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.AccessTokenSecret), nil
	}, opts...)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid || claims.SessionID() == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}

	return claims, nil
}

// revokeSessions ends every session of the user except keep.
func (s *AuthService) revokeSessions(ctx context.Context, userID, keep string) {
	var kept *models.Session
	if keep != "" {
		current, err := s.sessions.Get(ctx, keep)
		if err == nil {
			kept = current
		}
	}
	ids, err := s.sessions.DeleteAllForUser(ctx, userID)
	if err != nil {
		s.logger.Warn("failed to revoke sessions", zap.String("user_id", userID), zap.Error(err))
		return
	}
	discard := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != keep {
			discard = append(discard, id)
		}
	}
	if s.editors != nil && len(discard) > 0 {
		s.editors.Discard(discard...)
	}
	if kept != nil {
		if err := s.sessions.Save(ctx, *kept); err != nil {
			s.logger.Warn("failed to restore current session", zap.Error(err))
		}
	}
}

func (s *AuthService) record(ctx context.Context, userID, action, resource, resourceID string, meta RequestMeta) {
	if s.audit == nil {
		return
	}
	if err := s.audit.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     &userID,
		Action:     action,
		Resource:   resource,
		ResourceID: &resourceID,
		IPAddress:  meta.IP,
		UserAgent:  meta.UserAgent,
	}); err != nil {
		s.logger.Warn("failed to record audit log", zap.String("action", action), zap.Error(err))
	}
}

func (s *AuthService) generateAccessToken(user *models.User, sessionID string) (string, time.Time, error) {
	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.config.AccessTokenExpiry)
	claims := &models.JWTClaims{
		UserID: user.ID,
		Role:   user.Role,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			Issuer:    s.config.Issuer,
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.AccessTokenSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func generateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func resetLink(base, token string) string {
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + "token=" + url.QueryEscape(token)
}
