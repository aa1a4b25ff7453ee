package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/formar-para-liderar/app-bolsas/internal/config"
	"github.com/formar-para-liderar/app-bolsas/internal/logging"
	"github.com/formar-para-liderar/app-bolsas/internal/models"
	"github.com/formar-para-liderar/app-bolsas/internal/observability"
	"github.com/formar-para-liderar/app-bolsas/internal/repository"
	"github.com/formar-para-liderar/app-bolsas/internal/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles accounts and bearer sessions
type AuthService struct {
	store  *repository.Store
	cfg    *config.Config
	audit  *AuditWorker
	logger *logging.SafeLogger
	now    func() time.Time

	hashCost int
}

// NewAuthService creates a new auth service
func NewAuthService(store *repository.Store, cfg *config.Config, audit *AuditWorker, logger *logging.SafeLogger) *AuthService {
	return &AuthService{
		store:    store,
		cfg:      cfg,
		audit:    audit,
		logger:   logger.With(zap.String("service", "auth")),
		now:      time.Now,
		hashCost: bcrypt.DefaultCost,
	}
}

// SignUp registers an account, creates its profile with the candidato role
// and opens a session
func (s *AuthService) SignUp(ctx context.Context, req models.SignUpRequest, actx models.AuditContext) (*models.SessionResponse, error) {
	ctx, span, cleanup := utils.TraceOperation(ctx, "auth.sign_up", nil)
	defer cleanup()

	result := utils.ValidateEmailAddress("email", req.Email)
	for _, e := range utils.ValidatePassword(req.Password).Errors {
		result.AddError(e.Field, e.Message)
	}
	if err := result.AsError(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		utils.RecordErrorInSpan(span, err, nil)
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	account := &models.Account{
		ID:           uuid.NewString(),
		Email:        models.NormalizeEmail(req.Email),
		PasswordHash: string(hash),
		CreatedAt:    now,
	}
	if err := s.store.Accounts.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, models.ErrEmailTaken
		}
		utils.RecordErrorInSpan(span, err, nil)
		return nil, backendError("create account", err)
	}

	email := account.Email
	profile := &models.Profile{
		ID:        account.ID,
		FullName:  utils.OptionalString(req.FullName),
		Email:     &email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Profiles.Create(ctx, profile); err != nil {
		s.rollbackAccount(ctx, account.ID)
		return nil, backendError("create profile", err)
	}

	role := &models.RoleAssignment{ID: uuid.NewString(), UserID: account.ID, Role: models.RoleCandidato, CreatedAt: now}
	if err := s.store.Roles.Insert(ctx, role); err != nil && !errors.Is(err, repository.ErrDuplicate) {
		s.rollbackAccount(ctx, account.ID)
		return nil, backendError("assign candidato role", err)
	}

	s.logger.Info("account created",
		zap.String("user_id", account.ID),
		zap.String("email", observability.MaskEmail(account.Email)))
	s.audit.Log(ctx, withUser(actx, account.ID), models.AuditActionCreate, models.AuditResourceProfile, account.ID, nil, profile, nil)

	session, err := s.openSession(ctx, account)
	if err != nil {
		return nil, err
	}
	return &models.SessionResponse{
		Session:  session,
		Profile:  profile,
		Roles:    []models.Role{models.RoleCandidato},
		Redirect: s.cfg.ApplicationsRedirect,
	}, nil
}

// rollbackAccount removes an account whose sign-up did not complete so the
// email can be registered again
func (s *AuthService) rollbackAccount(ctx context.Context, accountID string) {
	if err := s.store.Accounts.Delete(context.WithoutCancel(ctx), accountID); err != nil {
		s.logger.Error("failed to roll back account after incomplete sign-up",
			zap.Error(err),
			zap.String("user_id", accountID))
	}
}

// SignIn checks credentials and opens a session
func (s *AuthService) SignIn(ctx context.Context, req models.SignInRequest, actx models.AuditContext) (*models.SessionResponse, error) {
	ctx, span, cleanup := utils.TraceOperation(ctx, "auth.sign_in", nil)
	defer cleanup()

	account, err := s.store.Accounts.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		utils.RecordErrorInSpan(span, err, nil)
		return nil, backendError("find account", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Debug("password mismatch", zap.String("user_id", account.ID))
		return nil, models.ErrInvalidCredentials
	}

	session, err := s.openSession(ctx, account)
	if err != nil {
		return nil, err
	}
	s.audit.Log(ctx, withUser(actx, account.ID), models.AuditActionLogin, models.AuditResourceSession, account.ID, nil, nil, nil)

	resp, err := s.Describe(ctx, session)
	if err != nil {
		return nil, err
	}
	resp.Redirect = s.cfg.ApplicationsRedirect
	return resp, nil
}

// SignOut revokes a session. Unknown tokens are ignored.
func (s *AuthService) SignOut(ctx context.Context, session *models.Session, actx models.AuditContext) error {
	if session == nil {
		return nil
	}
	if err := s.store.Sessions.Delete(ctx, session.Token); err != nil {
		return backendError("delete session", err)
	}
	s.audit.Log(ctx, withUser(actx, session.UserID), models.AuditActionLogout, models.AuditResourceSession, session.UserID, nil, nil, nil)
	return nil
}

// Authenticate resolves a bearer token into its session
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, models.ErrUnauthenticated
	}

	session, err := s.store.Sessions.Get(ctx, token)
	if err != nil {
		return nil, lookupError("get session", err, models.ErrUnauthenticated)
	}
	if session.Expired(s.now()) {
		if err := s.store.Sessions.Delete(ctx, token); err != nil {
			s.logger.Warn("failed to delete expired session", zap.Error(err))
		}
		return nil, models.ErrUnauthenticated
	}
	return session, nil
}

// Describe returns the session with its profile and current roles
func (s *AuthService) Describe(ctx context.Context, session *models.Session) (*models.SessionResponse, error) {
	profile, err := s.store.Profiles.Get(ctx, session.UserID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, backendError("get profile", err)
	}

	assignments, err := s.store.Roles.ListByUser(ctx, session.UserID)
	if err != nil {
		return nil, backendError("list roles", err)
	}
	roles := make([]models.Role, 0, len(assignments))
	for _, a := range assignments {
		roles = append(roles, a.Role)
	}

	return &models.SessionResponse{Session: session, Profile: profile, Roles: roles}, nil
}

func (s *AuthService) openSession(ctx context.Context, account *models.Account) (*models.Session, error) {
	token, err := newSessionToken()
	if err != nil {
		return nil, fmt.Errorf("generate session token: %w", err)
	}

	now := s.now()
	session := &models.Session{
		Token:     token,
		UserID:    account.ID,
		Email:     account.Email,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.SessionTTL),
	}
	if err := s.store.Sessions.Create(ctx, session, s.cfg.SessionTTL); err != nil {
		return nil, backendError("create session", err)
	}
	return session, nil
}

func newSessionToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func withUser(actx models.AuditContext, userID string) models.AuditContext {
	if actx.UserID == "" {
		actx.UserID = userID
	}
	return actx
}
