package services

import (
	"context"
	"time"

	"github.com/formar-para-liderar/app-bolsas/internal/logging"
	"github.com/formar-para-liderar/app-bolsas/internal/models"
	"github.com/formar-para-liderar/app-bolsas/internal/observability"
	"github.com/formar-para-liderar/app-bolsas/internal/repository"
	"github.com/formar-para-liderar/app-bolsas/internal/utils"
	"go.uber.org/zap"
)

// ReviewService backs the administrative dashboard. Every read loads the
// full application set; every mutation is followed by a fresh read.
type ReviewService struct {
	apps     repository.ApplicationRepository
	audit    *AuditWorker
	notifier Notifier
	logger   *logging.SafeLogger
	now      func() time.Time
}

// NewReviewService creates a new review service. notifier may be nil.
func NewReviewService(apps repository.ApplicationRepository, audit *AuditWorker, notifier Notifier, logger *logging.SafeLogger) *ReviewService {
	return &ReviewService{
		apps:     apps,
		audit:    audit,
		notifier: notifier,
		logger:   logger.With(zap.String("service", "review")),
		now:      time.Now,
	}
}

// List returns the filtered listing together with counts over the full set
func (s *ReviewService) List(ctx context.Context, filter models.ApplicationFilter) (*models.ApplicationListing, error) {
	filter.Normalize()
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	ctx, _, cleanup := utils.TraceOperation(ctx, "review.list", map[string]interface{}{
		"filter.status":           filter.Status,
		"filter.scholarship_type": filter.ScholarshipType,
	})
	defer cleanup()

	all, err := s.apps.List(ctx)
	if err != nil {
		return nil, backendError("list applications", err)
	}
	listing := models.NewApplicationListing(all, filter)
	return &listing, nil
}

// Get returns one application
func (s *ReviewService) Get(ctx context.Context, id string) (*models.Application, error) {
	app, err := s.apps.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError("get application", err, models.ErrApplicationNotFound)
	}
	return app, nil
}

// UpdateStatus changes the status of one application and returns the
// refreshed listing for filter
func (s *ReviewService) UpdateStatus(ctx context.Context, id string, req models.StatusUpdateRequest, filter models.ApplicationFilter, actx models.AuditContext) (*models.ApplicationListing, error) {
	status, err := models.ParseStatus(req.Status)
	if err != nil {
		return nil, models.NewValidationError("status", "estado desconhecido")
	}

	filter.Normalize()
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !models.CanTransition(current.Status, status) {
		return nil, models.ErrInvalidTransition
	}

	if err := s.apps.UpdateStatus(ctx, id, status, s.now()); err != nil {
		return nil, lookupError("update application status", err, models.ErrApplicationNotFound)
	}
	s.recordTransition(ctx, current, status, current.AdminNotes, actx)

	return s.List(ctx, filter)
}

// SaveReview commits status and admin notes in one update and returns the
// re-fetched record
func (s *ReviewService) SaveReview(ctx context.Context, id string, req models.ReviewRequest, actx models.AuditContext) (*models.Application, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	status := models.ApplicationStatus(req.Status)
	notes := utils.OptionalString(derefString(req.AdminNotes))

	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !models.CanTransition(current.Status, status) {
		return nil, models.ErrInvalidTransition
	}

	if err := s.apps.UpdateReview(ctx, id, status, notes, s.now()); err != nil {
		return nil, lookupError("update application review", err, models.ErrApplicationNotFound)
	}
	s.recordTransition(ctx, current, status, notes, actx)

	return s.Get(ctx, id)
}

func (s *ReviewService) recordTransition(ctx context.Context, before *models.Application, status models.ApplicationStatus, notes *string, actx models.AuditContext) {
	resource := models.AuditResourceApplication
	newValue := map[string]interface{}{"status": status}
	if derefString(notes) != derefString(before.AdminNotes) {
		resource = models.AuditResourceReview
		newValue["admin_notes"] = notes
	}
	s.audit.Log(ctx, actx, models.AuditActionUpdate, resource, before.ID,
		map[string]interface{}{"status": before.Status, "admin_notes": before.AdminNotes}, newValue, nil)

	if before.Status == status {
		return
	}
	observability.StatusTransitions.WithLabelValues(string(before.Status), string(status)).Inc()
	s.logger.Info("application status changed",
		zap.String("application_id", before.ID),
		zap.String("from", string(before.Status)),
		zap.String("to", string(status)),
		zap.String("reviewer", actx.UserID))

	updated := *before
	updated.Status = status
	notify(ctx, s.notifier, &updated, s.logger)
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
