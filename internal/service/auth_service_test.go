package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/finoteselam-court/court-portal-api/internal/models"
	"github.com/finoteselam-court/court-portal-api/internal/repository"
	"github.com/finoteselam-court/court-portal-api/internal/validation"
	appErrors "github.com/finoteselam-court/court-portal-api/pkg/errors"
	"github.com/finoteselam-court/court-portal-api/pkg/mailer"
)

type mockUserRepo struct {
	users          map[string]*models.User
	findErr        error
	updateCredErr  error
	credWrites     int
	lastLogins     int
}

func newMockUserRepo(users ...*models.User) *mockUserRepo {
	repo := &mockUserRepo{users: map[string]*models.User{}}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (m *mockUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	for _, u := range m.users {
		if u.Email == email {
			copy := *u
			return &copy, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	u, ok := m.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copy := *u
	return &copy, nil
}

func (m *mockUserRepo) Create(_ context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = "generated"
	}
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) UpdateLastLogin(context.Context, string, time.Time) error {
	m.lastLogins++
	return nil
}

func (m *mockUserRepo) UpdatePassword(_ context.Context, id, hash string, _ time.Time) error {
	u, ok := m.users[id]
	if !ok {
		return sql.ErrNoRows
	}
	u.PasswordHash = hash
	return nil
}

func (m *mockUserRepo) UpdateCredentials(_ context.Context, id, email, hash string, _ time.Time) error {
	m.credWrites++
	if m.updateCredErr != nil {
		return m.updateCredErr
	}
	m.users[id].Email = email
	if hash != "" {
		m.users[id].PasswordHash = hash
	}
	return nil
}

type mockSessionStore struct {
	mu       sync.Mutex
	sessions map[string]models.Session
	resets   map[string]models.PasswordResetToken
	getErr   error
}

func newMockSessionStore() *mockSessionStore {
	return &mockSessionStore{sessions: map[string]models.Session{}, resets: map[string]models.PasswordResetToken{}}
}

func (m *mockSessionStore) Save(_ context.Context, session models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.ID] = session
	return nil
}

func (m *mockSessionStore) Get(_ context.Context, id string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	session, ok := m.sessions[id]
	if !ok {
		return nil, repository.ErrSessionNotFound
	}
	return &session, nil
}

func (m *mockSessionStore) Delete(_ context.Context, _, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *mockSessionStore) DeleteAllForUser(_ context.Context, userID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []string
	for id, session := range m.sessions {
		if session.UserID == userID {
			ids = append(ids, id)
			delete(m.sessions, id)
		}
	}
	return ids, nil
}

func (m *mockSessionStore) SaveResetToken(_ context.Context, token string, grant models.PasswordResetToken, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resets[token] = grant
	return nil
}

func (m *mockSessionStore) ConsumeResetToken(_ context.Context, token string) (*models.PasswordResetToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	grant, ok := m.resets[token]
	if !ok {
		return nil, repository.ErrResetTokenNotFound
	}
	delete(m.resets, token)
	return &grant, nil
}

type mockAudit struct {
	logs []*models.AuditLog
}

func (m *mockAudit) CreateAuditLog(_ context.Context, log *models.AuditLog) error {
	m.logs = append(m.logs, log)
	return nil
}

type mockMailQueue struct {
	jobs []mailer.Message
}

func (m *mockMailQueue) Submit(jobType string, payload interface{}) (string, error) {
	if jobType != mailer.JobPasswordReset {
		return "", errors.New("unexpected job type")
	}
	m.jobs = append(m.jobs, payload.(mailer.Message))
	return "job-1", nil
}

type mockDiscarder struct {
	discarded []string
}

func (m *mockDiscarder) Discard(ids ...string) {
	m.discarded = append(m.discarded, ids...)
}

type authFixture struct {
	svc      *AuthService
	users    *mockUserRepo
	sessions *mockSessionStore
	audit    *mockAudit
	mail     *mockMailQueue
	editors  *mockDiscarder
	metrics  *MetricsService
	admin    *models.User
}

const fixturePassword = "s3cret-pass"

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(fixturePassword), bcrypt.MinCost)
	require.NoError(t, err)
	admin := &models.User{ID: "admin-1", Email: "admin@court.example", PasswordHash: string(hash), Role: models.RoleAdmin, Active: true}
	editor := &models.User{ID: "editor-1", Email: "editor@court.example", PasswordHash: string(hash), Role: models.RoleEditor, Active: true}
	inactive := &models.User{ID: "admin-2", Email: "former@court.example", PasswordHash: string(hash), Role: models.RoleAdmin, Active: false}

	f := &authFixture{
		users:    newMockUserRepo(admin, editor, inactive),
		sessions: newMockSessionStore(),
		audit:    &mockAudit{},
		mail:     &mockMailQueue{},
		editors:  &mockDiscarder{},
		metrics:  NewMetricsService(),
		admin:    admin,
	}
	f.svc = NewAuthService(AuthServiceParams{
		Users:    f.users,
		Sessions: f.sessions,
		Audit:    f.audit,
		Mail:     f.mail,
		Editors:  f.editors,
		Metrics:  f.metrics,
		Logger:   zap.NewNop(),
		Config: AuthConfig{
			AccessTokenSecret: "test-secret",
			AccessTokenExpiry: time.Hour,
			Issuer:            "court-portal",
			SignInPath:        "/admin/login",
			ResetURL:          "https://court.example/admin/reset",
			ResetTTL:          30 * time.Minute,
			SiteName:          "Court Portal",
		},
	})
	return f
}

func (f *authFixture) signIn(t *testing.T, email string) *models.SignInResponse {
	t.Helper()
	resp, err := f.svc.SignIn(context.Background(), &validation.SignInForm{Email: email, Password: fixturePassword}, RequestMeta{IP: "127.0.0.1", UserAgent: "test"})
	require.NoError(t, err)
	return resp
}

func TestAuthServiceSignInSuccess(t *testing.T) {
	f := newAuthFixture(t)

	resp := f.signIn(t, f.admin.Email)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
	assert.Equal(t, f.admin.ID, resp.User.ID)
	assert.Len(t, f.sessions.sessions, 1)
	assert.Equal(t, 1, f.users.lastLogins)
	require.Len(t, f.audit.logs, 1)
	assert.Equal(t, models.AuditActionSignIn, f.audit.logs[0].Action)

	claims, err := f.svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	_, ok := f.sessions.sessions[claims.SessionID()]
	assert.True(t, ok)
}

func TestAuthServiceSignInRejections(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.svc.SignIn(ctx, &validation.SignInForm{Email: f.admin.Email, Password: "wrong-pass"}, RequestMeta{})
	assert.True(t, errors.Is(err, appErrors.ErrInvalidCredentials))

	_, err = f.svc.SignIn(ctx, &validation.SignInForm{Email: "nobody@court.example", Password: fixturePassword}, RequestMeta{})
	assert.True(t, errors.Is(err, appErrors.ErrInvalidCredentials))

	_, err = f.svc.SignIn(ctx, &validation.SignInForm{Email: "editor@court.example", Password: fixturePassword}, RequestMeta{})
	assert.True(t, errors.Is(err, appErrors.ErrInvalidCredentials))

	_, err = f.svc.SignIn(ctx, &validation.SignInForm{Email: "former@court.example", Password: fixturePassword}, RequestMeta{})
	assert.True(t, errors.Is(err, appErrors.ErrInactiveAccount))

	_, err = f.svc.SignIn(ctx, &validation.SignInForm{Email: "", Password: fixturePassword}, RequestMeta{})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	assert.Empty(t, f.sessions.sessions)
}

func TestAuthServiceAuthorizeAllowsLiveAdminSession(t *testing.T) {
	f := newAuthFixture(t)
	resp := f.signIn(t, f.admin.Email)

	decision := f.svc.Authorize(context.Background(), resp.AccessToken)
	require.True(t, decision.Allowed)
	assert.Equal(t, f.admin.ID, decision.Principal.ID)
	assert.NotNil(t, decision.Claims)
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.guardDecisions.WithLabelValues("allowed")))
}

func TestAuthServiceAuthorizeDeniesUnauthenticated(t *testing.T) {
	f := newAuthFixture(t)

	decision := f.svc.Authorize(context.Background(), "")
	assert.False(t, decision.Allowed)
	assert.Equal(t, "/admin/login", decision.Redirect)
	assert.Nil(t, decision.Principal)
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.guardDecisions.WithLabelValues("denied")))
}

func TestAuthServiceAuthorizeDeniesGarbageToken(t *testing.T) {
	f := newAuthFixture(t)

	decision := f.svc.Authorize(context.Background(), "not.a.jwt")
	assert.False(t, decision.Allowed)
	assert.Equal(t, "/admin/login", decision.Redirect)
}

func TestAuthServiceAuthorizeDeniesAfterSignOutElsewhere(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	resp := f.signIn(t, f.admin.Email)
	claims, err := f.svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	require.True(t, f.svc.Authorize(ctx, resp.AccessToken).Allowed)

	require.NoError(t, f.svc.SignOut(ctx, claims))

	decision := f.svc.Authorize(ctx, resp.AccessToken)
	assert.False(t, decision.Allowed)
	assert.Equal(t, []string{claims.SessionID()}, f.editors.discarded)
}

func TestAuthServiceAuthorizeDeniesDemotedPrincipal(t *testing.T) {
	f := newAuthFixture(t)
	resp := f.signIn(t, f.admin.Email)

	f.users.users[f.admin.ID].Role = models.RoleEditor
	assert.False(t, f.svc.Authorize(context.Background(), resp.AccessToken).Allowed)

	f.users.users[f.admin.ID].Role = models.RoleAdmin
	f.users.users[f.admin.ID].Active = false
	assert.False(t, f.svc.Authorize(context.Background(), resp.AccessToken).Allowed)
}

func TestAuthServiceAuthorizeDeniesWhenSessionStoreFails(t *testing.T) {
	f := newAuthFixture(t)
	resp := f.signIn(t, f.admin.Email)
	f.sessions.getErr = errors.New("redis down")

	assert.False(t, f.svc.Authorize(context.Background(), resp.AccessToken).Allowed)
}

func TestAuthServiceValidateTokenRejectsOtherSecret(t *testing.T) {
	f := newAuthFixture(t)
	resp := f.signIn(t, f.admin.Email)

	other := NewAuthService(AuthServiceParams{Config: AuthConfig{AccessTokenSecret: "different", Issuer: "court-portal"}})
	_, err := other.ValidateToken(resp.AccessToken)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
}

func TestAuthServiceCurrentSession(t *testing.T) {
	f := newAuthFixture(t)
	resp := f.signIn(t, f.admin.Email)
	claims, err := f.svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)

	info, err := f.svc.CurrentSession(context.Background(), claims)
	require.NoError(t, err)
	assert.Equal(t, f.admin.Email, info.Email)

	_, err = f.svc.CurrentSession(context.Background(), nil)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
}

func TestAuthServicePasswordResetFlow(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	resp := f.signIn(t, f.admin.Email)

	require.NoError(t, f.svc.RequestPasswordReset(ctx, &validation.PasswordResetRequest{Email: f.admin.Email}))
	require.Len(t, f.mail.jobs, 1)
	assert.Equal(t, f.admin.Email, f.mail.jobs[0].To)
	require.Len(t, f.sessions.resets, 1)

	var token string
	for tok := range f.sessions.resets {
		token = tok
	}
	assert.Contains(t, f.mail.jobs[0].HTML, "token="+token)

	err := f.svc.ResetPassword(ctx, &validation.PasswordResetConfirm{Token: token, Password: "brand-new", PasswordConfirmation: "brand-new"}, RequestMeta{})
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(f.users.users[f.admin.ID].PasswordHash), []byte("brand-new")))
	assert.False(t, f.svc.Authorize(ctx, resp.AccessToken).Allowed)
	assert.Equal(t, models.AuditActionPasswordReset, f.audit.logs[len(f.audit.logs)-1].Action)

	err = f.svc.ResetPassword(ctx, &validation.PasswordResetConfirm{Token: token, Password: "again-new", PasswordConfirmation: "again-new"}, RequestMeta{})
	require.Error(t, err)
	assert.Equal(t, "token", appErrors.FromError(err).Field)
}

func TestAuthServicePasswordResetUnknownEmailIsSilent(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.RequestPasswordReset(ctx, &validation.PasswordResetRequest{Email: "stranger@example.com"}))
	require.NoError(t, f.svc.RequestPasswordReset(ctx, &validation.PasswordResetRequest{Email: "editor@court.example"}))
	assert.Empty(t, f.mail.jobs)
	assert.Empty(t, f.sessions.resets)

	err := f.svc.RequestPasswordReset(ctx, &validation.PasswordResetRequest{Email: "bad"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestAuthServiceUpdateCredentials(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	current := f.signIn(t, f.admin.Email)
	other := f.signIn(t, f.admin.Email)
	claims, err := f.svc.ValidateToken(current.AccessToken)
	require.NoError(t, err)
	otherClaims, err := f.svc.ValidateToken(other.AccessToken)
	require.NoError(t, err)

	result, err := f.svc.UpdateCredentials(ctx, claims, &validation.CredentialUpdate{
		Email:                "registrar@court.example",
		Password:             "changed-pass",
		PasswordConfirmation: "changed-pass",
	})
	require.NoError(t, err)
	assert.True(t, result.EmailChanged)
	assert.True(t, result.PasswordChanged)
	assert.Equal(t, "registrar@court.example", result.User.Email)

	assert.True(t, f.svc.Authorize(ctx, current.AccessToken).Allowed)
	assert.False(t, f.svc.Authorize(ctx, other.AccessToken).Allowed)
	assert.Contains(t, f.editors.discarded, otherClaims.SessionID())
	assert.NotContains(t, f.editors.discarded, claims.SessionID())
}

func TestAuthServiceUpdateCredentialsNoChanges(t *testing.T) {
	f := newAuthFixture(t)
	resp := f.signIn(t, f.admin.Email)
	claims, err := f.svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)

	result, err := f.svc.UpdateCredentials(context.Background(), claims, &validation.CredentialUpdate{Email: f.admin.Email})
	require.NoError(t, err)
	assert.False(t, result.Changed())
	assert.Zero(t, f.users.credWrites)
}

func TestAuthServiceUpdateCredentialsCaseOnlyEmailChange(t *testing.T) {
	f := newAuthFixture(t)
	resp := f.signIn(t, f.admin.Email)
	claims, err := f.svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)

	result, err := f.svc.UpdateCredentials(context.Background(), claims, &validation.CredentialUpdate{Email: "Admin@Court.example"})
	require.NoError(t, err)
	assert.True(t, result.EmailChanged)
	assert.False(t, result.PasswordChanged)
	assert.Equal(t, "Admin@Court.example", result.User.Email)
	assert.Equal(t, "Admin@Court.example", f.users.users[f.admin.ID].Email)
	assert.Equal(t, 1, f.users.credWrites)
}

func TestAuthServiceUpdateCredentialsValidation(t *testing.T) {
	f := newAuthFixture(t)
	resp := f.signIn(t, f.admin.Email)
	claims, err := f.svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = f.svc.UpdateCredentials(ctx, claims, &validation.CredentialUpdate{Email: f.admin.Email, Password: "short", PasswordConfirmation: "short"})
	assert.Equal(t, "password", appErrors.FromError(err).Field)

	_, err = f.svc.UpdateCredentials(ctx, claims, &validation.CredentialUpdate{Email: f.admin.Email, Password: "long-enough", PasswordConfirmation: "different"})
	assert.Equal(t, "password_confirmation", appErrors.FromError(err).Field)
}

func TestAuthServiceUpdateCredentialsEmailTaken(t *testing.T) {
	f := newAuthFixture(t)
	resp := f.signIn(t, f.admin.Email)
	claims, err := f.svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	f.users.updateCredErr = repository.ErrEmailTaken

	_, err = f.svc.UpdateCredentials(context.Background(), claims, &validation.CredentialUpdate{Email: "editor@court.example"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Equal(t, "email", appErr.Field)
}

func TestAuthServiceUpdateCredentialsEmailTakenKeepsPassword(t *testing.T) {
	f := newAuthFixture(t)
	resp := f.signIn(t, f.admin.Email)
	other := f.signIn(t, f.admin.Email)
	claims, err := f.svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	hashBefore := f.users.users[f.admin.ID].PasswordHash
	f.users.updateCredErr = repository.ErrEmailTaken

	_, err = f.svc.UpdateCredentials(context.Background(), claims, &validation.CredentialUpdate{
		Email:                "editor@court.example",
		Password:             "changed-pass",
		PasswordConfirmation: "changed-pass",
	})
	require.Error(t, err)
	assert.Equal(t, 1, f.users.credWrites)
	assert.Equal(t, hashBefore, f.users.users[f.admin.ID].PasswordHash)
	assert.Equal(t, f.admin.Email, f.users.users[f.admin.ID].Email)
	assert.True(t, f.svc.Authorize(context.Background(), other.AccessToken).Allowed)
}

func TestAuthServiceEnsureBootstrapAdmin(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	created, err := f.svc.EnsureBootstrapAdmin(ctx, f.admin.Email, "whatever")
	require.NoError(t, err)
	assert.False(t, created)

	created, err = f.svc.EnsureBootstrapAdmin(ctx, "first@court.example", "initial-pass")
	require.NoError(t, err)
	assert.True(t, created)
	user, err := f.users.FindByEmail(ctx, "first@court.example")
	require.NoError(t, err)
	assert.True(t, user.IsAdmin())

	created, err = f.svc.EnsureBootstrapAdmin(ctx, "", "")
	require.NoError(t, err)
	assert.False(t, created)
}

func TestResetLink(t *testing.T) {
	assert.Equal(t, "https://x/reset?token=a%2Bb", resetLink("https://x/reset", "a+b"))
	assert.Equal(t, "https://x/reset?lang=am&token=t", resetLink("https://x/reset?lang=am", "t"))
}
