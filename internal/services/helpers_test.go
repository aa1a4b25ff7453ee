package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/formar-para-liderar/app-bolsas/internal/config"
	"github.com/formar-para-liderar/app-bolsas/internal/logging"
	"github.com/formar-para-liderar/app-bolsas/internal/models"
	"github.com/formar-para-liderar/app-bolsas/internal/repository"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var (
	testNow      = time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	errStorage   = errors.New("connection reset by peer")
	testAuditCtx = models.AuditContext{UserID: "admin-1", IPAddress: "10.0.0.1", RequestID: "req-1"}
)

func testConfig() *config.Config {
	return &config.Config{
		SessionTTL:           24 * time.Hour,
		DraftTTL:             72 * time.Hour,
		SubmitLockTTL:        30 * time.Second,
		LoginRedirect:        "/candidato/login",
		AdminLoginRedirect:   "/admin/login",
		AdminHomeRedirect:    "/admin",
		ApplicationsRedirect: "/perfil",
	}
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []models.Application
	err  error
}

func (n *recordingNotifier) NotifyDecision(_ context.Context, app *models.Application) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, *app)
	return n.err
}

func (n *recordingNotifier) Sent() []models.Application {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]models.Application(nil), n.sent...)
}

type testEnv struct {
	store    *repository.Store
	cfg      *config.Config
	clock    *testClock
	auditLog *repository.MemoryAuditRepo
	audit    *AuditWorker
	notifier *recordingNotifier
	svc      *Services
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	clock := &testClock{now: testNow}
	auditLog := repository.NewMemoryAuditRepo()
	store := &repository.Store{
		Applications: repository.NewMemoryApplicationRepo(),
		Roles:        repository.NewMemoryRoleRepo(),
		Profiles:     repository.NewMemoryProfileRepo(),
		Accounts:     repository.NewMemoryAccountRepo(),
		Sessions:     repository.NewMemorySessionStore(clock.Now),
		Drafts:       repository.NewMemoryDraftStore(clock.Now),
		Audit:        auditLog,
	}
	env := &testEnv{
		store:    store,
		cfg:      testConfig(),
		clock:    clock,
		auditLog: auditLog,
		notifier: &recordingNotifier{},
	}
	env.rewire()
	t.Cleanup(func() { env.audit.Stop() })
	return env
}

// rewire rebuilds the services on the current store
func (e *testEnv) rewire() {
	if e.audit != nil {
		e.audit.Stop()
	}
	e.audit = NewAuditWorker(e.store.Audit, 1, 16, logging.Logger)
	e.audit.now = e.clock.Now
	e.audit.Start()

	e.svc = New(e.store, e.cfg, e.audit, e.notifier, logging.Logger)
	e.svc.Auth.now = e.clock.Now
	e.svc.Auth.hashCost = bcrypt.MinCost
	e.svc.Submissions.now = e.clock.Now
	e.svc.Drafts.now = e.clock.Now
	e.svc.Review.now = e.clock.Now
	e.svc.Candidates.now = e.clock.Now
	e.svc.Roles.now = e.clock.Now
}

// auditEntries stops the worker so every queued entry is written
func (e *testEnv) auditEntries() []models.AuditLog {
	e.audit.Stop()
	return e.auditLog.Entries()
}

func (e *testEnv) signUp(t *testing.T, email, name string) *models.SessionResponse {
	t.Helper()
	resp, err := e.svc.Auth.SignUp(context.Background(), models.SignUpRequest{Email: email, Password: "segredo123", FullName: name}, models.AuditContext{})
	require.NoError(t, err)
	return resp
}

func (e *testEnv) signUpAdmin(t *testing.T, email string) *models.SessionResponse {
	t.Helper()
	resp := e.signUp(t, email, "Administrador")
	require.NoError(t, e.store.Roles.Insert(context.Background(), &models.RoleAssignment{
		ID: "admin-" + resp.Session.UserID, UserID: resp.Session.UserID, Role: models.RoleAdmin, CreatedAt: testNow,
	}))
	return resp
}

func validForm() models.ApplicationForm {
	return models.ApplicationForm{
		FullName:            "Ana Silva",
		BirthDate:           "2001-04-12",
		BINumber:            "004512345LA041",
		Phone:               "923456789",
		Email:               "ana.silva@example.ao",
		Province:            "Luanda",
		Municipality:        "Viana",
		Address:             "Rua 21, Casa 4",
		EducationLevel:      string(models.EducationUniversitario),
		Institution:         "Universidade Agostinho Neto",
		Course:              "Engenharia Informática",
		CurrentYear:         "2",
		ScholarshipType:     string(models.ScholarshipUniversitariaComparticipada),
		HouseholdIncome:     string(models.Income50000To150000),
		HouseholdMembers:    "4",
		EmploymentStatus:    models.EmploymentDesempregado,
		Motivation:          "Quero contribuir para o desenvolvimento de Angola.",
		DeclarationAccepted: true,
	}
}

// seedApplication stores an application built from form with the given
// status and creation offset from testNow
func (e *testEnv) seedApplication(t *testing.T, mutate func(*models.ApplicationForm), userID *string, status models.ApplicationStatus, offset time.Duration) *models.Application {
	t.Helper()
	form := validForm()
	if mutate != nil {
		mutate(&form)
	}
	app, err := BuildApplication(form, userID, testNow.Add(offset))
	require.NoError(t, err)
	app.Status = status
	require.NoError(t, e.store.Applications.Insert(context.Background(), app))
	return app
}

func strPtr(s string) *string { return &s }

// failingApps fails every call
type failingApps struct{}

func (failingApps) Insert(context.Context, *models.Application) error { return errStorage }
func (failingApps) GetByID(context.Context, string) (*models.Application, error) {
	return nil, errStorage
}
func (failingApps) List(context.Context) ([]models.Application, error) { return nil, errStorage }
func (failingApps) ListByUser(context.Context, string) ([]models.Application, error) {
	return nil, errStorage
}
func (failingApps) UpdateStatus(context.Context, string, models.ApplicationStatus, time.Time) error {
	return errStorage
}
func (failingApps) UpdateReview(context.Context, string, models.ApplicationStatus, *string, time.Time) error {
	return errStorage
}

// failingUpdates wraps a repository and fails only updates
type failingUpdates struct {
	repository.ApplicationRepository
}

func (failingUpdates) UpdateStatus(context.Context, string, models.ApplicationStatus, time.Time) error {
	return errStorage
}
func (failingUpdates) UpdateReview(context.Context, string, models.ApplicationStatus, *string, time.Time) error {
	return errStorage
}

// failingRoles fails every call
type failingRoles struct{}

func (failingRoles) ListByUser(context.Context, string) ([]models.RoleAssignment, error) {
	return nil, errStorage
}
func (failingRoles) ListAll(context.Context) ([]models.RoleAssignment, error) { return nil, errStorage }
func (failingRoles) Insert(context.Context, *models.RoleAssignment) error     { return errStorage }
func (failingRoles) Delete(context.Context, string, models.Role) error        { return errStorage }

// trackingSessions records every session created
type trackingSessions struct {
	repository.SessionStore
	mu      sync.Mutex
	created []string
}

func (s *trackingSessions) Create(ctx context.Context, session *models.Session, ttl time.Duration) error {
	s.mu.Lock()
	s.created = append(s.created, session.Token)
	s.mu.Unlock()
	return s.SessionStore.Create(ctx, session, ttl)
}

func (s *trackingSessions) last() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.created) == 0 {
		return ""
	}
	return s.created[len(s.created)-1]
}

// failingProfileCreate fails profile inserts only
type failingProfileCreate struct {
	repository.ProfileRepository
}

func (failingProfileCreate) Create(context.Context, *models.Profile) error { return errStorage }
