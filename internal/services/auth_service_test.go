package services

import (
	"context"
	"testing"
	"time"

	"github.com/formar-para-liderar/app-bolsas/internal/models"
	"github.com/formar-para-liderar/app-bolsas/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_SignUp(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	resp, err := env.svc.Auth.SignUp(ctx, models.SignUpRequest{
		Email:    "  Ana@Example.AO ",
		Password: "segredo",
		FullName: " Ana Silva ",
	}, models.AuditContext{})
	require.NoError(t, err)

	require.NotNil(t, resp.Session)
	assert.NotEmpty(t, resp.Session.Token)
	assert.Equal(t, "ana@example.ao", resp.Session.Email)
	assert.Equal(t, testNow.Add(24*time.Hour), resp.Session.ExpiresAt)
	assert.Equal(t, []models.Role{models.RoleCandidato}, resp.Roles)
	assert.Equal(t, "/perfil", resp.Redirect)

	profile, err := env.store.Profiles.Get(ctx, resp.Session.UserID)
	require.NoError(t, err)
	assert.Equal(t, "Ana Silva", profile.DisplayName())
	require.NotNil(t, profile.Email)
	assert.Equal(t, "ana@example.ao", *profile.Email)

	account, err := env.store.Accounts.FindByEmail(ctx, "ana@example.ao")
	require.NoError(t, err)
	assert.NotEqual(t, "segredo", account.PasswordHash)

	entries := env.auditEntries()
	require.Len(t, entries, 1)
	assert.Equal(t, models.AuditResourceProfile, entries[0].Resource)
	assert.Equal(t, resp.Session.UserID, entries[0].UserID)
}

func TestAuthService_SignUpValidation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Auth.SignUp(context.Background(), models.SignUpRequest{Email: "not-an-email", Password: "123"}, models.AuditContext{})
	verr, ok := models.IsValidationError(err)
	require.True(t, ok, "got %v", err)

	fields := map[string]bool{}
	for _, e := range verr.Errors {
		fields[e.Field] = true
	}
	assert.True(t, fields["email"])
	assert.True(t, fields["password"])
}

func TestAuthService_SignUpEmailTaken(t *testing.T) {
	env := newTestEnv(t)
	env.signUp(t, "ana@example.ao", "Ana")

	_, err := env.svc.Auth.SignUp(context.Background(), models.SignUpRequest{Email: "ANA@example.ao", Password: "outrasenha"}, models.AuditContext{})
	assert.ErrorIs(t, err, models.ErrEmailTaken)
}

func TestAuthService_SignIn(t *testing.T) {
	env := newTestEnv(t)
	created := env.signUp(t, "ana@example.ao", "Ana Silva")
	ctx := context.Background()

	t.Run("valid credentials", func(t *testing.T) {
		resp, err := env.svc.Auth.SignIn(ctx, models.SignInRequest{Email: "Ana@example.ao", Password: "segredo123"}, models.AuditContext{})
		require.NoError(t, err)
		assert.Equal(t, created.Session.UserID, resp.Session.UserID)
		assert.NotEqual(t, created.Session.Token, resp.Session.Token)
		assert.Equal(t, "Ana Silva", resp.Profile.DisplayName())
		assert.Contains(t, resp.Roles, models.RoleCandidato)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := env.svc.Auth.SignIn(ctx, models.SignInRequest{Email: "ana@example.ao", Password: "errada"}, models.AuditContext{})
		assert.ErrorIs(t, err, models.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := env.svc.Auth.SignIn(ctx, models.SignInRequest{Email: "ninguem@example.ao", Password: "segredo123"}, models.AuditContext{})
		assert.ErrorIs(t, err, models.ErrInvalidCredentials)
	})
}

func TestAuthService_Authenticate(t *testing.T) {
	env := newTestEnv(t)
	resp := env.signUp(t, "ana@example.ao", "Ana")
	ctx := context.Background()

	session, err := env.svc.Auth.Authenticate(ctx, resp.Session.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.Session.UserID, session.UserID)

	_, err = env.svc.Auth.Authenticate(ctx, "")
	assert.ErrorIs(t, err, models.ErrUnauthenticated)

	_, err = env.svc.Auth.Authenticate(ctx, "forged-token")
	assert.ErrorIs(t, err, models.ErrUnauthenticated)
}

func TestAuthService_SessionExpires(t *testing.T) {
	env := newTestEnv(t)
	resp := env.signUp(t, "ana@example.ao", "Ana")

	env.clock.Advance(24*time.Hour + time.Second)
	_, err := env.svc.Auth.Authenticate(context.Background(), resp.Session.Token)
	assert.ErrorIs(t, err, models.ErrUnauthenticated)
}

func TestAuthService_SignOut(t *testing.T) {
	env := newTestEnv(t)
	resp := env.signUp(t, "ana@example.ao", "Ana")
	ctx := context.Background()

	require.NoError(t, env.svc.Auth.SignOut(ctx, resp.Session, models.AuditContext{}))
	_, err := env.svc.Auth.Authenticate(ctx, resp.Session.Token)
	assert.ErrorIs(t, err, models.ErrUnauthenticated)

	assert.NoError(t, env.svc.Auth.SignOut(ctx, nil, models.AuditContext{}))
}

func TestAuthService_BackendFailure(t *testing.T) {
	env := newTestEnv(t)
	resp := env.signUp(t, "ana@example.ao", "Ana")

	env.store.Roles = failingRoles{}
	env.rewire()

	_, err := env.svc.Auth.Describe(context.Background(), resp.Session)
	assert.ErrorIs(t, err, models.ErrBackendUnavailable)
	assert.ErrorIs(t, err, errStorage)
}

func TestAuthService_SignUpRollsBackAccount(t *testing.T) {
	ctx := context.Background()
	req := models.SignUpRequest{Email: "ana@example.ao", Password: "segredo123", FullName: "Ana"}

	t.Run("profile insert fails", func(t *testing.T) {
		env := newTestEnv(t)
		profiles := env.store.Profiles
		env.store.Profiles = failingProfileCreate{profiles}
		env.rewire()

		_, err := env.svc.Auth.SignUp(ctx, req, models.AuditContext{})
		require.ErrorIs(t, err, models.ErrBackendUnavailable)
		_, err = env.store.Accounts.FindByEmail(ctx, req.Email)
		assert.ErrorIs(t, err, repository.ErrNotFound)

		env.store.Profiles = profiles
		env.rewire()
		_, err = env.svc.Auth.SignUp(ctx, req, models.AuditContext{})
		assert.NoError(t, err, "the email can be registered again")
	})

	t.Run("role insert fails", func(t *testing.T) {
		env := newTestEnv(t)
		roles := env.store.Roles
		env.store.Roles = failingRoles{}
		env.rewire()

		_, err := env.svc.Auth.SignUp(ctx, req, models.AuditContext{})
		require.ErrorIs(t, err, models.ErrBackendUnavailable)
		_, err = env.store.Accounts.FindByEmail(ctx, req.Email)
		assert.ErrorIs(t, err, repository.ErrNotFound)

		env.store.Roles = roles
		env.rewire()
		resp, err := env.svc.Auth.SignUp(ctx, req, models.AuditContext{})
		require.NoError(t, err)
		assert.Equal(t, []models.Role{models.RoleCandidato}, resp.Roles)
	})
}
