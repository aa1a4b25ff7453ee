package services

import (
	"github.com/formar-para-liderar/app-bolsas/internal/config"
	"github.com/formar-para-liderar/app-bolsas/internal/logging"
	"github.com/formar-para-liderar/app-bolsas/internal/repository"
)

// Services bundles every domain service wired to one store
type Services struct {
	Auth        *AuthService
	Gate        *AccessGate
	Submissions *SubmissionService
	Drafts      *DraftService
	Review      *ReviewService
	Candidates  *CandidateService
	Roles       *RoleService
}

// New wires the services. audit and notifier may be nil.
func New(store *repository.Store, cfg *config.Config, audit *AuditWorker, notifier Notifier, logger *logging.SafeLogger) *Services {
	auth := NewAuthService(store, cfg, audit, logger)
	submissions := NewSubmissionService(store.Applications, audit, logger)

	return &Services{
		Auth:        auth,
		Gate:        NewAccessGate(store.Roles, auth, logger),
		Submissions: submissions,
		Drafts:      NewDraftService(store.Drafts, submissions, cfg.DraftTTL, cfg.SubmitLockTTL, logger),
		Review:      NewReviewService(store.Applications, audit, notifier, logger),
		Candidates:  NewCandidateService(store.Applications, store.Profiles, audit, logger),
		Roles:       NewRoleService(store.Roles, store.Profiles, audit, logger),
	}
}
