package services

import (
	"context"
	"errors"
	"time"

	"github.com/formar-para-liderar/app-bolsas/internal/logging"
	"github.com/formar-para-liderar/app-bolsas/internal/models"
	"github.com/formar-para-liderar/app-bolsas/internal/repository"
	"github.com/formar-para-liderar/app-bolsas/internal/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DraftService drives the six-step application wizard
type DraftService struct {
	drafts      repository.DraftStore
	submissions *SubmissionService
	ttl         time.Duration
	lockTTL     time.Duration
	logger      *logging.SafeLogger
	now         func() time.Time
}

// NewDraftService creates a new draft service. Drafts expire ttl after
// their last change; a submit lock is held for at most lockTTL.
func NewDraftService(drafts repository.DraftStore, submissions *SubmissionService, ttl, lockTTL time.Duration, logger *logging.SafeLogger) *DraftService {
	return &DraftService{
		drafts:      drafts,
		submissions: submissions,
		ttl:         ttl,
		lockTTL:     lockTTL,
		logger:      logger.With(zap.String("service", "drafts")),
		now:         time.Now,
	}
}

// Create starts a draft on the first step, optionally prefilled
func (s *DraftService) Create(ctx context.Context, userID *string, patch *models.ApplicationFormPatch) (*models.ApplicationDraft, error) {
	draft := models.NewApplicationDraft(uuid.NewString(), userID, s.now())
	if patch != nil {
		patch.Apply(&draft.Form)
	}
	if err := s.drafts.Save(ctx, draft, s.ttl); err != nil {
		return nil, backendError("save draft", err)
	}
	return draft, nil
}

// Get returns a draft. A draft started under a session is only visible to
// that user; anyone else gets ErrDraftNotFound.
func (s *DraftService) Get(ctx context.Context, id string, callerID *string) (*models.ApplicationDraft, error) {
	draft, err := s.drafts.Get(ctx, id)
	if err != nil {
		return nil, lookupError("get draft", err, models.ErrDraftNotFound)
	}
	if !draftVisibleTo(draft, callerID) {
		s.logger.Warn("draft access by non-owner", zap.String("draft_id", id))
		return nil, models.ErrDraftNotFound
	}
	return draft, nil
}

func draftVisibleTo(draft *models.ApplicationDraft, callerID *string) bool {
	if draft.UserID == nil {
		return true
	}
	return callerID != nil && *callerID == *draft.UserID
}

// Save merges field changes into the draft. It never validates.
func (s *DraftService) Save(ctx context.Context, id string, callerID *string, patch models.ApplicationFormPatch) (*models.ApplicationDraft, error) {
	return s.update(ctx, id, callerID, func(d *models.ApplicationDraft) error {
		patch.Apply(&d.Form)
		return nil
	})
}

// Next advances the draft one step
func (s *DraftService) Next(ctx context.Context, id string, callerID *string) (*models.ApplicationDraft, error) {
	return s.update(ctx, id, callerID, (*models.ApplicationDraft).Next)
}

// Back moves the draft one step back
func (s *DraftService) Back(ctx context.Context, id string, callerID *string) (*models.ApplicationDraft, error) {
	return s.update(ctx, id, callerID, (*models.ApplicationDraft).Back)
}

func (s *DraftService) update(ctx context.Context, id string, callerID *string, change func(*models.ApplicationDraft) error) (*models.ApplicationDraft, error) {
	ctx, span, cleanup := utils.TraceCacheOperation(ctx, "draft.update", id)
	defer cleanup()

	draft, err := s.Get(ctx, id, callerID)
	if err != nil {
		return nil, err
	}
	if err := change(draft); err != nil {
		return nil, err
	}
	draft.UpdatedAt = s.now()
	if err := s.drafts.Save(ctx, draft, s.ttl); err != nil {
		utils.RecordErrorInSpan(span, err, nil)
		return nil, backendError("save draft", err)
	}
	return draft, nil
}

// Submit converts the draft into an application. A concurrent submit of
// the same draft fails with ErrSubmissionInFlight. On any failure the
// draft is kept so the candidate can correct it and retry. An owned draft
// can only be submitted by its owner; an anonymous one is claimed by the
// submitting session, if any.
func (s *DraftService) Submit(ctx context.Context, id string, sessionUserID *string, actx models.AuditContext) (*models.Application, error) {
	acquired, err := s.drafts.AcquireSubmitLock(ctx, id, s.lockTTL)
	if err != nil {
		return nil, backendError("acquire submit lock", err)
	}
	if !acquired {
		return nil, models.ErrSubmissionInFlight
	}
	defer func() {
		if err := s.drafts.ReleaseSubmitLock(context.WithoutCancel(ctx), id); err != nil {
			s.logger.Warn("failed to release submit lock", zap.Error(err), zap.String("draft_id", id))
		}
	}()

	// read under the lock so a draft consumed by a finished submit is gone
	draft, err := s.Get(ctx, id, sessionUserID)
	if err != nil {
		return nil, err
	}

	owner := draft.UserID
	if owner == nil {
		owner = sessionUserID
	}

	app, err := s.submissions.SubmitForm(ctx, draft.Form, owner, actx)
	if err != nil {
		return nil, err
	}

	if err := s.drafts.Delete(ctx, id); err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.logger.Warn("failed to delete submitted draft", zap.Error(err), zap.String("draft_id", id))
	}
	return app, nil
}
