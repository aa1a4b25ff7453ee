package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/formar-para-liderar/app-bolsas/internal/logging"
	"github.com/formar-para-liderar/app-bolsas/internal/models"
	"github.com/formar-para-liderar/app-bolsas/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RoleService manages role assignments from the user management screen
type RoleService struct {
	roles    repository.RoleRepository
	profiles repository.ProfileRepository
	audit    *AuditWorker
	logger   *logging.SafeLogger
	now      func() time.Time
}

// NewRoleService creates a new role service
func NewRoleService(roles repository.RoleRepository, profiles repository.ProfileRepository, audit *AuditWorker, logger *logging.SafeLogger) *RoleService {
	return &RoleService{
		roles:    roles,
		profiles: profiles,
		audit:    audit,
		logger:   logger.With(zap.String("service", "roles")),
		now:      time.Now,
	}
}

// ListUsers returns profiles, newest first, joined with their roles
func (s *RoleService) ListUsers(ctx context.Context, filter models.UserFilter) ([]models.UserWithRoles, error) {
	roleFilter := strings.TrimSpace(filter.Role)
	if roleFilter != "" && roleFilter != models.FilterAll {
		if _, err := models.ParseRole(roleFilter); err != nil {
			return nil, models.NewValidationError("role", "papel desconhecido")
		}
	}

	profiles, err := s.profiles.List(ctx)
	if err != nil {
		return nil, backendError("list profiles", err)
	}
	assignments, err := s.roles.ListAll(ctx)
	if err != nil {
		return nil, backendError("list roles", err)
	}

	byUser := make(map[string][]models.RoleAssignment)
	for _, a := range assignments {
		byUser[a.UserID] = append(byUser[a.UserID], a)
	}

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	out := []models.UserWithRoles{}
	for _, p := range profiles {
		roles := byUser[p.ID]
		if roles == nil {
			roles = []models.RoleAssignment{}
		}
		if search != "" && !profileMatches(p, search) {
			continue
		}
		if roleFilter != "" && roleFilter != models.FilterAll && !models.HasRole(roles, models.Role(roleFilter)) {
			continue
		}
		out = append(out, models.UserWithRoles{Profile: p, Roles: roles})
	}
	return out, nil
}

func profileMatches(p models.Profile, search string) bool {
	return strings.Contains(strings.ToLower(p.DisplayName()), search) ||
		(p.Email != nil && strings.Contains(strings.ToLower(*p.Email), search))
}

// Grant assigns a role. Granting a role the user already holds fails with
// ErrRoleAlreadyAssigned and leaves a single assignment in place.
func (s *RoleService) Grant(ctx context.Context, userID string, raw string, actx models.AuditContext) (*models.RoleAssignment, error) {
	role, err := models.ParseRole(raw)
	if err != nil {
		return nil, models.NewValidationError("role", "papel desconhecido")
	}

	if _, err := s.profiles.Get(ctx, userID); err != nil {
		return nil, lookupError("get profile", err, models.ErrUserNotFound)
	}

	assignment := &models.RoleAssignment{
		ID:        uuid.NewString(),
		UserID:    userID,
		Role:      role,
		CreatedAt: s.now(),
	}
	if err := s.roles.Insert(ctx, assignment); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, models.ErrRoleAlreadyAssigned
		}
		return nil, backendError("insert role", err)
	}

	s.logger.Info("role granted",
		zap.String("user_id", userID),
		zap.String("role", string(role)),
		zap.String("granted_by", actx.UserID))
	s.audit.Log(ctx, actx, models.AuditActionCreate, models.AuditResourceRole, userID, nil, map[string]string{"role": string(role)}, nil)
	return assignment, nil
}

// Revoke removes exactly the (user, role) assignment
func (s *RoleService) Revoke(ctx context.Context, userID string, raw string, actx models.AuditContext) error {
	role, err := models.ParseRole(raw)
	if err != nil {
		return models.NewValidationError("role", "papel desconhecido")
	}

	if err := s.roles.Delete(ctx, userID, role); err != nil {
		return lookupError("delete role", err, models.ErrRoleNotAssigned)
	}

	s.logger.Info("role revoked",
		zap.String("user_id", userID),
		zap.String("role", string(role)),
		zap.String("revoked_by", actx.UserID))
	s.audit.Log(ctx, actx, models.AuditActionDelete, models.AuditResourceRole, userID, map[string]string{"role": string(role)}, nil, nil)
	return nil
}
