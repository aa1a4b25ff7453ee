package repository

import (
	"context"
	"testing"
	"time"

	"github.com/formar-para-liderar/app-bolsas/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func sampleApplication(id string, userID *string, createdAt time.Time) *models.Application {
	app := &models.Application{
		ID:               id,
		UserID:           userID,
		FullName:         "Ana Manuel",
		BirthDate:        "2001-04-12",
		BINumber:         "004512345LA042",
		Phone:            "+244923456789",
		Email:            "ana@example.ao",
		Address:          "Rua 1, Maianga",
		Province:         "Luanda",
		Municipality:     "Luanda",
		EducationLevel:   models.EducationUniversitario,
		Institution:      "Universidade Agostinho Neto",
		ScholarshipType:  models.ScholarshipUniversitariaComparticipada,
		HouseholdIncome:  models.Income50000To150000,
		HouseholdMembers: 5,
		EmploymentStatus: models.EmploymentDesempregado,
		Motivation:       "Quero concluir o curso de engenharia.",
	}
	app.DeclarationAccepted = true
	app.BeforeCreate(createdAt)
	return app
}

func runApplicationRepositoryContract(t *testing.T, newRepo func(t *testing.T) ApplicationRepository) {
	ctx := context.Background()

	t.Run("insert and get", func(t *testing.T) {
		repo := newRepo(t)
		app := sampleApplication("app-1", strPtr("user-1"), baseTime)
		require.NoError(t, repo.Insert(ctx, app))

		got, err := repo.GetByID(ctx, "app-1")
		require.NoError(t, err)
		assert.Equal(t, "Ana Manuel", got.FullName)
		assert.Equal(t, models.StatusNova, got.Status)
		assert.Nil(t, got.AdminNotes)
		require.NotNil(t, got.UserID)
		assert.Equal(t, "user-1", *got.UserID)
		assert.True(t, got.CreatedAt.Equal(baseTime))
	})

	t.Run("missing id", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.GetByID(ctx, "nope")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("duplicate id", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Insert(ctx, sampleApplication("dup", nil, baseTime)))
		assert.ErrorIs(t, repo.Insert(ctx, sampleApplication("dup", nil, baseTime)), ErrDuplicate)
	})

	t.Run("list newest first", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Insert(ctx, sampleApplication("old", nil, baseTime)))
		require.NoError(t, repo.Insert(ctx, sampleApplication("new", strPtr("user-1"), baseTime.Add(2*time.Hour))))
		require.NoError(t, repo.Insert(ctx, sampleApplication("mid", strPtr("user-2"), baseTime.Add(time.Hour))))

		apps, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, apps, 3)
		assert.Equal(t, []string{"new", "mid", "old"}, ids(apps))
	})

	t.Run("list by user", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Insert(ctx, sampleApplication("a", strPtr("user-1"), baseTime)))
		require.NoError(t, repo.Insert(ctx, sampleApplication("b", strPtr("user-2"), baseTime.Add(time.Minute))))
		require.NoError(t, repo.Insert(ctx, sampleApplication("c", strPtr("user-1"), baseTime.Add(2*time.Minute))))
		require.NoError(t, repo.Insert(ctx, sampleApplication("d", nil, baseTime.Add(3*time.Minute))))

		apps, err := repo.ListByUser(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, []string{"c", "a"}, ids(apps))

		none, err := repo.ListByUser(ctx, "user-9")
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("update status touches only status and updated_at", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Insert(ctx, sampleApplication("s", nil, baseTime)))

		later := baseTime.Add(24 * time.Hour)
		require.NoError(t, repo.UpdateStatus(ctx, "s", models.StatusEmAnalise, later))

		got, err := repo.GetByID(ctx, "s")
		require.NoError(t, err)
		assert.Equal(t, models.StatusEmAnalise, got.Status)
		assert.True(t, got.UpdatedAt.Equal(later))
		assert.True(t, got.CreatedAt.Equal(baseTime))
		assert.Equal(t, "Ana Manuel", got.FullName)
		assert.Nil(t, got.AdminNotes)
	})

	t.Run("update review sets and clears notes", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Insert(ctx, sampleApplication("r", nil, baseTime)))

		require.NoError(t, repo.UpdateReview(ctx, "r", models.StatusAprovada, strPtr("Documentação completa"), baseTime.Add(time.Hour)))
		got, err := repo.GetByID(ctx, "r")
		require.NoError(t, err)
		assert.Equal(t, models.StatusAprovada, got.Status)
		require.NotNil(t, got.AdminNotes)
		assert.Equal(t, "Documentação completa", *got.AdminNotes)

		require.NoError(t, repo.UpdateReview(ctx, "r", models.StatusRejeitada, nil, baseTime.Add(2*time.Hour)))
		got, err = repo.GetByID(ctx, "r")
		require.NoError(t, err)
		assert.Equal(t, models.StatusRejeitada, got.Status)
		assert.Nil(t, got.AdminNotes)
	})

	t.Run("update missing", func(t *testing.T) {
		repo := newRepo(t)
		assert.ErrorIs(t, repo.UpdateStatus(ctx, "ghost", models.StatusAprovada, baseTime), ErrNotFound)
		assert.ErrorIs(t, repo.UpdateReview(ctx, "ghost", models.StatusAprovada, nil, baseTime), ErrNotFound)
	})
}

func ids(apps []models.Application) []string {
	out := make([]string, len(apps))
	for i, a := range apps {
		out[i] = a.ID
	}
	return out
}

func runRoleRepositoryContract(t *testing.T, newRepo func(t *testing.T) RoleRepository) {
	ctx := context.Background()

	t.Run("insert, list and delete", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Insert(ctx, &models.RoleAssignment{ID: "r1", UserID: "u1", Role: models.RoleAdmin, CreatedAt: baseTime}))
		require.NoError(t, repo.Insert(ctx, &models.RoleAssignment{ID: "r2", UserID: "u1", Role: models.RoleCandidato, CreatedAt: baseTime}))
		require.NoError(t, repo.Insert(ctx, &models.RoleAssignment{ID: "r3", UserID: "u2", Role: models.RoleModerator, CreatedAt: baseTime}))

		roles, err := repo.ListByUser(ctx, "u1")
		require.NoError(t, err)
		assert.True(t, models.HasRole(roles, models.RoleAdmin))
		assert.True(t, models.HasRole(roles, models.RoleCandidato))
		assert.False(t, models.HasRole(roles, models.RoleModerator))

		all, err := repo.ListAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 3)

		require.NoError(t, repo.Delete(ctx, "u1", models.RoleAdmin))
		roles, err = repo.ListByUser(ctx, "u1")
		require.NoError(t, err)
		assert.False(t, models.HasRole(roles, models.RoleAdmin))
		assert.Len(t, roles, 1)
	})

	t.Run("duplicate pair", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Insert(ctx, &models.RoleAssignment{ID: "a", UserID: "u1", Role: models.RoleAdmin, CreatedAt: baseTime}))
		err := repo.Insert(ctx, &models.RoleAssignment{ID: "b", UserID: "u1", Role: models.RoleAdmin, CreatedAt: baseTime})
		assert.ErrorIs(t, err, ErrDuplicate)
	})

	t.Run("delete missing", func(t *testing.T) {
		repo := newRepo(t)
		assert.ErrorIs(t, repo.Delete(ctx, "u1", models.RoleAdmin), ErrNotFound)
	})

	t.Run("no roles", func(t *testing.T) {
		repo := newRepo(t)
		roles, err := repo.ListByUser(ctx, "nobody")
		require.NoError(t, err)
		assert.Empty(t, roles)
	})
}

func runProfileRepositoryContract(t *testing.T, newRepo func(t *testing.T) ProfileRepository) {
	ctx := context.Background()

	t.Run("create, get and rename", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Create(ctx, &models.Profile{ID: "u1", FullName: strPtr("Ana"), Email: strPtr("ana@example.ao"), CreatedAt: baseTime, UpdatedAt: baseTime}))

		got, err := repo.Get(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, "Ana", got.DisplayName())

		require.NoError(t, repo.UpdateFullName(ctx, "u1", strPtr("Ana Manuel"), baseTime.Add(time.Hour)))
		got, err = repo.Get(ctx, "u1")
		require.NoError(t, err)
		require.NotNil(t, got.FullName)
		assert.Equal(t, "Ana Manuel", *got.FullName)
		assert.True(t, got.UpdatedAt.Equal(baseTime.Add(time.Hour)))

		require.NoError(t, repo.UpdateFullName(ctx, "u1", nil, baseTime.Add(2*time.Hour)))
		got, err = repo.Get(ctx, "u1")
		require.NoError(t, err)
		assert.Nil(t, got.FullName)
	})

	t.Run("missing profile", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Get(ctx, "ghost")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, repo.UpdateFullName(ctx, "ghost", nil, baseTime), ErrNotFound)
	})

	t.Run("list newest first", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Create(ctx, &models.Profile{ID: "old", CreatedAt: baseTime, UpdatedAt: baseTime}))
		require.NoError(t, repo.Create(ctx, &models.Profile{ID: "new", CreatedAt: baseTime.Add(time.Hour), UpdatedAt: baseTime}))

		profiles, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, profiles, 2)
		assert.Equal(t, "new", profiles[0].ID)
		assert.Equal(t, "old", profiles[1].ID)
	})
}

func runAccountRepositoryContract(t *testing.T, newRepo func(t *testing.T) AccountRepository) {
	ctx := context.Background()

	t.Run("email lookup is case insensitive", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Create(ctx, &models.Account{ID: "u1", Email: "Ana@Example.ao", PasswordHash: "hash", CreatedAt: baseTime}))

		got, err := repo.FindByEmail(ctx, "  ana@example.AO ")
		require.NoError(t, err)
		assert.Equal(t, "u1", got.ID)
		assert.Equal(t, "hash", got.PasswordHash)
	})

	t.Run("email taken", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Create(ctx, &models.Account{ID: "u1", Email: "ana@example.ao", CreatedAt: baseTime}))
		err := repo.Create(ctx, &models.Account{ID: "u2", Email: "ANA@example.ao", CreatedAt: baseTime})
		assert.ErrorIs(t, err, ErrDuplicate)
	})

	t.Run("unknown email", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.FindByEmail(ctx, "ghost@example.ao")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("delete frees the email", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Create(ctx, &models.Account{ID: "u1", Email: "ana@example.ao", CreatedAt: baseTime}))
		require.NoError(t, repo.Delete(ctx, "u1"))
		assert.ErrorIs(t, repo.Delete(ctx, "u1"), ErrNotFound)

		_, err := repo.FindByEmail(ctx, "ana@example.ao")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NoError(t, repo.Create(ctx, &models.Account{ID: "u2", Email: "ana@example.ao", CreatedAt: baseTime}))
	})
}

func runSessionStoreContract(t *testing.T, store SessionStore) {
	ctx := context.Background()

	session := &models.Session{Token: "tok-1", UserID: "u1", Email: "ana@example.ao", CreatedAt: baseTime, ExpiresAt: baseTime.Add(time.Hour)}
	require.NoError(t, store.Create(ctx, session, time.Hour))

	got, err := store.Get(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, "ana@example.ao", got.Email)

	require.NoError(t, store.Delete(ctx, "tok-1"))
	_, err = store.Get(ctx, "tok-1")
	assert.ErrorIs(t, err, ErrNotFound)

	// deleting twice is fine
	assert.NoError(t, store.Delete(ctx, "tok-1"))
}

func runDraftStoreContract(t *testing.T, store DraftStore) {
	ctx := context.Background()

	draft := models.NewApplicationDraft("d1", strPtr("u1"), baseTime)
	draft.Form.FullName = "Ana Manuel"
	draft.Form.CurrentYear = "3"
	require.NoError(t, draft.Next())
	require.NoError(t, store.Save(ctx, draft, time.Hour))

	got, err := store.Get(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, models.StepAcademic, got.Step)
	assert.Equal(t, "Ana Manuel", got.Form.FullName)
	assert.Equal(t, "3", got.Form.CurrentYear.String())

	ok, err := store.AcquireSubmitLock(ctx, "d1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.AcquireSubmitLock(ctx, "d1", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "second acquire must fail while the first holds the lock")

	require.NoError(t, store.ReleaseSubmitLock(ctx, "d1"))
	ok, err = store.AcquireSubmitLock(ctx, "d1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, store.Delete(ctx, "d1"))
	_, err = store.Get(ctx, "d1")
	assert.ErrorIs(t, err, ErrNotFound)
}
