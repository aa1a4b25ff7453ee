package services

import (
	"context"
	"errors"

	"github.com/formar-para-liderar/app-bolsas/internal/logging"
	"github.com/formar-para-liderar/app-bolsas/internal/models"
	"github.com/formar-para-liderar/app-bolsas/internal/observability"
	"github.com/formar-para-liderar/app-bolsas/internal/repository"
	"go.uber.org/zap"
)

// AccessGate decides whether a session may reach the administrative
// surface. Roles are read from storage on every check.
type AccessGate struct {
	roles  repository.RoleRepository
	auth   *AuthService
	logger *logging.SafeLogger
}

// NewAccessGate creates a new access gate
func NewAccessGate(roles repository.RoleRepository, auth *AuthService, logger *logging.SafeLogger) *AccessGate {
	return &AccessGate{
		roles:  roles,
		auth:   auth,
		logger: logger.With(zap.String("service", "access_gate")),
	}
}

// RequireAdmin returns nil when the session's user holds the admin role.
// A session without it is revoked and ErrForbidden is returned.
func (g *AccessGate) RequireAdmin(ctx context.Context, session *models.Session, actx models.AuditContext) error {
	if session == nil {
		observability.AccessDenials.WithLabelValues("unauthenticated").Inc()
		return models.ErrUnauthenticated
	}

	assignments, err := g.roles.ListByUser(ctx, session.UserID)
	if err != nil {
		return backendError("list roles", err)
	}
	if models.HasRole(assignments, models.RoleAdmin) {
		return nil
	}

	observability.AccessDenials.WithLabelValues("not_admin").Inc()
	g.logger.Warn("non-admin session revoked at admin gate", zap.String("user_id", session.UserID))

	if err := g.auth.SignOut(ctx, session, actx); err != nil {
		g.logger.Error("failed to revoke non-admin session", zap.Error(err), zap.String("user_id", session.UserID))
	}
	return models.ErrForbidden
}

// AdminSignIn authenticates and then applies the admin check to the new
// session
func (g *AccessGate) AdminSignIn(ctx context.Context, req models.SignInRequest, actx models.AuditContext) (*models.SessionResponse, error) {
	resp, err := g.auth.SignIn(ctx, req, actx)
	if err != nil {
		return nil, err
	}
	if err := g.RequireAdmin(ctx, resp.Session, actx); err != nil {
		if !errors.Is(err, models.ErrForbidden) {
			// role lookup failed; do not leave an unchecked session behind
			_ = g.auth.SignOut(ctx, resp.Session, actx)
		}
		return nil, err
	}
	resp.Redirect = g.auth.cfg.AdminHomeRedirect
	return resp, nil
}
