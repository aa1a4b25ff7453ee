package services

import (
	"context"
	"time"

	"github.com/formar-para-liderar/app-bolsas/internal/logging"
	"github.com/formar-para-liderar/app-bolsas/internal/models"
	"github.com/formar-para-liderar/app-bolsas/internal/repository"
	"github.com/formar-para-liderar/app-bolsas/internal/utils"
	"go.uber.org/zap"
)

const maxFullNameLength = 200

// CandidateService is the read-mostly view a candidate has of their own data
type CandidateService struct {
	apps     repository.ApplicationRepository
	profiles repository.ProfileRepository
	audit    *AuditWorker
	logger   *logging.SafeLogger
	now      func() time.Time
}

// NewCandidateService creates a new candidate service
func NewCandidateService(apps repository.ApplicationRepository, profiles repository.ProfileRepository, audit *AuditWorker, logger *logging.SafeLogger) *CandidateService {
	return &CandidateService{
		apps:     apps,
		profiles: profiles,
		audit:    audit,
		logger:   logger.With(zap.String("service", "candidate")),
		now:      time.Now,
	}
}

// ListApplications returns the caller's applications, newest first
func (s *CandidateService) ListApplications(ctx context.Context, userID string) ([]models.CandidateApplication, error) {
	apps, err := s.apps.ListByUser(ctx, userID)
	if err != nil {
		return nil, backendError("list user applications", err)
	}

	out := make([]models.CandidateApplication, 0, len(apps))
	for _, app := range apps {
		// the repository filter is the only guard; check again
		if !app.IsOwnedBy(userID) {
			continue
		}
		out = append(out, models.NewCandidateApplication(app))
	}
	return out, nil
}

// GetApplication returns one of the caller's applications. Applications
// owned by anyone else are reported as not found.
func (s *CandidateService) GetApplication(ctx context.Context, userID, id string) (*models.CandidateApplication, error) {
	app, err := s.apps.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError("get application", err, models.ErrApplicationNotFound)
	}
	if !app.IsOwnedBy(userID) {
		return nil, models.ErrApplicationNotFound
	}
	out := models.NewCandidateApplication(*app)
	return &out, nil
}

// GetProfile returns the caller's profile
func (s *CandidateService) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, lookupError("get profile", err, models.ErrProfileNotFound)
	}
	return profile, nil
}

// UpdateProfile changes the caller's display name. A blank name clears it.
func (s *CandidateService) UpdateProfile(ctx context.Context, userID string, req models.UpdateProfileRequest, actx models.AuditContext) (*models.Profile, error) {
	req.Normalize()

	v := utils.NewValidationResult()
	v.MaxLength("full_name", req.FullName, maxFullNameLength)
	if err := v.AsError(); err != nil {
		return nil, err
	}

	before, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	name := utils.OptionalString(req.FullName)
	if err := s.profiles.UpdateFullName(ctx, userID, name, s.now()); err != nil {
		return nil, lookupError("update profile", err, models.ErrProfileNotFound)
	}
	s.audit.Log(ctx, withUser(actx, userID), models.AuditActionUpdate, models.AuditResourceProfile, userID,
		map[string]interface{}{"full_name": before.FullName}, map[string]interface{}{"full_name": name}, nil)

	return s.GetProfile(ctx, userID)
}
