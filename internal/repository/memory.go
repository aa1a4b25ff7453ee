package repository

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/formar-para-liderar/app-bolsas/internal/models"
)

// NewMemoryStore returns a Store kept entirely in process memory. It backs
// STORAGE_BACKEND=memory and the service and handler tests.
func NewMemoryStore() *Store {
	return &Store{
		Applications: NewMemoryApplicationRepo(),
		Roles:        NewMemoryRoleRepo(),
		Profiles:     NewMemoryProfileRepo(),
		Accounts:     NewMemoryAccountRepo(),
		Sessions:     NewMemorySessionStore(time.Now),
		Drafts:       NewMemoryDraftStore(time.Now),
		Audit:        NewMemoryAuditRepo(),
	}
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// MemoryApplicationRepo keeps applications in insertion order
type MemoryApplicationRepo struct {
	mu   sync.RWMutex
	apps []models.Application
}

func NewMemoryApplicationRepo() *MemoryApplicationRepo {
	return &MemoryApplicationRepo{}
}

func (r *MemoryApplicationRepo) Insert(_ context.Context, app *models.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.apps {
		if r.apps[i].ID == app.ID {
			return ErrDuplicate
		}
	}
	r.apps = append(r.apps, *app)
	return nil
}

func (r *MemoryApplicationRepo) GetByID(_ context.Context, id string) (*models.Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.apps {
		if r.apps[i].ID == id {
			app := r.apps[i]
			return &app, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryApplicationRepo) List(_ context.Context) ([]models.Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return newestFirst(r.apps, func(models.Application) bool { return true }), nil
}

func (r *MemoryApplicationRepo) ListByUser(_ context.Context, userID string) ([]models.Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return newestFirst(r.apps, func(a models.Application) bool { return a.IsOwnedBy(userID) }), nil
}

// newestFirst orders by created_at descending; among equal timestamps the
// later insert comes first
func newestFirst(apps []models.Application, keep func(models.Application) bool) []models.Application {
	out := make([]models.Application, 0, len(apps))
	for i := len(apps) - 1; i >= 0; i-- {
		if keep(apps[i]) {
			out = append(out, apps[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (r *MemoryApplicationRepo) UpdateStatus(_ context.Context, id string, status models.ApplicationStatus, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.apps {
		if r.apps[i].ID == id {
			r.apps[i].Status = status
			r.apps[i].UpdatedAt = now
			return nil
		}
	}
	return ErrNotFound
}

func (r *MemoryApplicationRepo) UpdateReview(_ context.Context, id string, status models.ApplicationStatus, notes *string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.apps {
		if r.apps[i].ID == id {
			r.apps[i].Status = status
			r.apps[i].AdminNotes = copyString(notes)
			r.apps[i].UpdatedAt = now
			return nil
		}
	}
	return ErrNotFound
}

// MemoryRoleRepo keeps role assignments
type MemoryRoleRepo struct {
	mu    sync.RWMutex
	roles []models.RoleAssignment
}

func NewMemoryRoleRepo() *MemoryRoleRepo {
	return &MemoryRoleRepo{}
}

func (r *MemoryRoleRepo) ListByUser(_ context.Context, userID string) ([]models.RoleAssignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.RoleAssignment{}
	for _, a := range r.roles {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *MemoryRoleRepo) ListAll(_ context.Context) ([]models.RoleAssignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.RoleAssignment, len(r.roles))
	copy(out, r.roles)
	return out, nil
}

func (r *MemoryRoleRepo) Insert(_ context.Context, assignment *models.RoleAssignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.roles {
		if a.UserID == assignment.UserID && a.Role == assignment.Role {
			return ErrDuplicate
		}
	}
	r.roles = append(r.roles, *assignment)
	return nil
}

func (r *MemoryRoleRepo) Delete(_ context.Context, userID string, role models.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, a := range r.roles {
		if a.UserID == userID && a.Role == role {
			r.roles = append(r.roles[:i], r.roles[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// MemoryProfileRepo keeps profiles by id
type MemoryProfileRepo struct {
	mu       sync.RWMutex
	profiles map[string]models.Profile
}

func NewMemoryProfileRepo() *MemoryProfileRepo {
	return &MemoryProfileRepo{profiles: map[string]models.Profile{}}
}

func (r *MemoryProfileRepo) Create(_ context.Context, profile *models.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.profiles[profile.ID]; ok {
		return ErrDuplicate
	}
	r.profiles[profile.ID] = *profile
	return nil
}

func (r *MemoryProfileRepo) Get(_ context.Context, id string) (*models.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.profiles[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (r *MemoryProfileRepo) List(_ context.Context) ([]models.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Profile, 0, len(r.profiles))
	for _, p := range r.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryProfileRepo) UpdateFullName(_ context.Context, id string, fullName *string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.profiles[id]
	if !ok {
		return ErrNotFound
	}
	p.FullName = copyString(fullName)
	p.UpdatedAt = now
	r.profiles[id] = p
	return nil
}

// MemoryAccountRepo keeps accounts by normalized email
type MemoryAccountRepo struct {
	mu       sync.RWMutex
	accounts map[string]models.Account
}

func NewMemoryAccountRepo() *MemoryAccountRepo {
	return &MemoryAccountRepo{accounts: map[string]models.Account{}}
}

func (r *MemoryAccountRepo) Create(_ context.Context, account *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := models.NormalizeEmail(account.Email)
	if _, ok := r.accounts[email]; ok {
		return ErrDuplicate
	}
	r.accounts[email] = *account
	return nil
}

func (r *MemoryAccountRepo) FindByEmail(_ context.Context, email string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.accounts[models.NormalizeEmail(email)]
	if !ok {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (r *MemoryAccountRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for email, a := range r.accounts {
		if a.ID == id {
			delete(r.accounts, email)
			return nil
		}
	}
	return ErrNotFound
}

type expiringValue struct {
	data      []byte
	expiresAt time.Time
}

// expiringMap is a small TTL map mirroring the Redis semantics the
// Redis-backed stores rely on
type expiringMap struct {
	mu     sync.Mutex
	now    func() time.Time
	values map[string]expiringValue
}

func newExpiringMap(now func() time.Time) *expiringMap {
	return &expiringMap{now: now, values: map[string]expiringValue{}}
}

func (m *expiringMap) get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.values[key]
	if !ok {
		return nil, false
	}
	if !v.expiresAt.IsZero() && !m.now().Before(v.expiresAt) {
		delete(m.values, key)
		return nil, false
	}
	return v.data, true
}

func (m *expiringMap) set(key string, data []byte, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = expiringValue{data: data, expiresAt: m.expiry(ttl)}
}

func (m *expiringMap) setNX(key string, data []byte, ttl time.Duration) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if v, ok := m.values[key]; ok && (v.expiresAt.IsZero() || m.now().Before(v.expiresAt)) {
		return false
	}
	m.values[key] = expiringValue{data: data, expiresAt: m.expiry(ttl)}
	return true
}

func (m *expiringMap) del(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
}

func (m *expiringMap) expiry(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return m.now().Add(ttl)
}

// MemorySessionStore keeps sessions with expiry
type MemorySessionStore struct {
	m *expiringMap
}

func NewMemorySessionStore(now func() time.Time) *MemorySessionStore {
	return &MemorySessionStore{m: newExpiringMap(now)}
}

func (s *MemorySessionStore) Create(_ context.Context, session *models.Session, ttl time.Duration) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	s.m.set(sessionKey(session.Token), data, ttl)
	return nil
}

func (s *MemorySessionStore) Get(_ context.Context, token string) (*models.Session, error) {
	data, ok := s.m.get(sessionKey(token))
	if !ok {
		return nil, ErrNotFound
	}
	var session models.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *MemorySessionStore) Delete(_ context.Context, token string) error {
	s.m.del(sessionKey(token))
	return nil
}

// MemoryDraftStore keeps drafts and submit locks with expiry
type MemoryDraftStore struct {
	m *expiringMap
}

func NewMemoryDraftStore(now func() time.Time) *MemoryDraftStore {
	return &MemoryDraftStore{m: newExpiringMap(now)}
}

func (s *MemoryDraftStore) Save(_ context.Context, draft *models.ApplicationDraft, ttl time.Duration) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	s.m.set(draftKey(draft.ID), data, ttl)
	return nil
}

func (s *MemoryDraftStore) Get(_ context.Context, id string) (*models.ApplicationDraft, error) {
	data, ok := s.m.get(draftKey(id))
	if !ok {
		return nil, ErrNotFound
	}
	var draft models.ApplicationDraft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

func (s *MemoryDraftStore) Delete(_ context.Context, id string) error {
	s.m.del(draftKey(id))
	return nil
}

func (s *MemoryDraftStore) AcquireSubmitLock(_ context.Context, id string, ttl time.Duration) (bool, error) {
	return s.m.setNX(draftLockKey(id), []byte("1"), ttl), nil
}

func (s *MemoryDraftStore) ReleaseSubmitLock(_ context.Context, id string) error {
	s.m.del(draftLockKey(id))
	return nil
}

// MemoryAuditRepo collects audit entries
type MemoryAuditRepo struct {
	mu   sync.RWMutex
	logs []models.AuditLog
}

func NewMemoryAuditRepo() *MemoryAuditRepo {
	return &MemoryAuditRepo{}
}

func (r *MemoryAuditRepo) InsertMany(_ context.Context, logs []models.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, logs...)
	return nil
}

// Entries returns a copy of the collected entries
func (r *MemoryAuditRepo) Entries() []models.AuditLog {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.AuditLog, len(r.logs))
	copy(out, r.logs)
	return out
}
