package repository

import (
	"context"
	"errors"
	"time"

	"github.com/formar-para-liderar/app-bolsas/internal/models"
)

// Storage-level errors. Services translate them into domain errors.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// ApplicationRepository stores scholarship applications. Updates touch only
// status, admin notes and the update timestamp.
type ApplicationRepository interface {
	Insert(ctx context.Context, app *models.Application) error
	GetByID(ctx context.Context, id string) (*models.Application, error)
	// List returns every application, newest first
	List(ctx context.Context) ([]models.Application, error)
	// ListByUser returns the applications owned by userID, newest first
	ListByUser(ctx context.Context, userID string) ([]models.Application, error)
	UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus, now time.Time) error
	UpdateReview(ctx context.Context, id string, status models.ApplicationStatus, notes *string, now time.Time) error
}

// RoleRepository stores role assignments
type RoleRepository interface {
	ListByUser(ctx context.Context, userID string) ([]models.RoleAssignment, error)
	ListAll(ctx context.Context) ([]models.RoleAssignment, error)
	// Insert returns ErrDuplicate when the (user, role) pair exists
	Insert(ctx context.Context, assignment *models.RoleAssignment) error
	// Delete returns ErrNotFound when no assignment matched
	Delete(ctx context.Context, userID string, role models.Role) error
}

// ProfileRepository stores user profiles
type ProfileRepository interface {
	Create(ctx context.Context, profile *models.Profile) error
	Get(ctx context.Context, id string) (*models.Profile, error)
	// List returns every profile, newest first
	List(ctx context.Context) ([]models.Profile, error)
	UpdateFullName(ctx context.Context, id string, fullName *string, now time.Time) error
}

// AccountRepository stores credentials
type AccountRepository interface {
	// Create returns ErrDuplicate when the email is taken
	Create(ctx context.Context, account *models.Account) error
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	// Delete returns ErrNotFound for an unknown id
	Delete(ctx context.Context, id string) error
}

// SessionStore keeps bearer sessions with an expiry
type SessionStore interface {
	Create(ctx context.Context, session *models.Session, ttl time.Duration) error
	Get(ctx context.Context, token string) (*models.Session, error)
	Delete(ctx context.Context, token string) error
}

// DraftStore keeps wizard drafts with an expiry, plus a per-draft submit lock
type DraftStore interface {
	Save(ctx context.Context, draft *models.ApplicationDraft, ttl time.Duration) error
	Get(ctx context.Context, id string) (*models.ApplicationDraft, error)
	Delete(ctx context.Context, id string) error
	// AcquireSubmitLock returns false when a submission of id is already in flight
	AcquireSubmitLock(ctx context.Context, id string, ttl time.Duration) (bool, error)
	ReleaseSubmitLock(ctx context.Context, id string) error
}

// AuditRepository is the sink of the audit worker
type AuditRepository interface {
	InsertMany(ctx context.Context, logs []models.AuditLog) error
}

// Store bundles every repository the services need
type Store struct {
	Applications ApplicationRepository
	Roles        RoleRepository
	Profiles     ProfileRepository
	Accounts     AccountRepository
	Sessions     SessionStore
	Drafts       DraftStore
	Audit        AuditRepository
}

func draftKey(id string) string {
	return "draft:" + id
}

func draftLockKey(id string) string {
	return "draft:" + id + ":submit"
}

func sessionKey(token string) string {
	return "session:" + token
}
