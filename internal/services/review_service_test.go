package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/formar-para-liderar/app-bolsas/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedReviewSet stores three applications, oldest first: Ana (aprovada),
// Mariana (nova) and Pedro (aprovada)
func seedReviewSet(t *testing.T, env *testEnv) (ana, mariana, pedro *models.Application) {
	t.Helper()
	ana = env.seedApplication(t, func(f *models.ApplicationForm) {
		f.FullName = "Ana Silva"
		f.Email = "ana.silva@example.ao"
	}, nil, models.StatusAprovada, -3*time.Hour)
	mariana = env.seedApplication(t, func(f *models.ApplicationForm) {
		f.FullName = "Mariana Costa"
		f.Email = "mcosta@example.ao"
		f.Province = "Benguela"
		f.Municipality = "Lobito"
		f.ScholarshipType = string(models.ScholarshipFormacaoProfissional)
	}, nil, models.StatusNova, -2*time.Hour)
	pedro = env.seedApplication(t, func(f *models.ApplicationForm) {
		f.FullName = "Pedro Neto"
		f.Email = "pedro@example.ao"
	}, nil, models.StatusAprovada, -time.Hour)
	return ana, mariana, pedro
}

func namesOf(apps []models.Application) []string {
	out := make([]string, 0, len(apps))
	for _, a := range apps {
		out = append(out, a.FullName)
	}
	return out
}

func TestReviewService_List(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seedReviewSet(t, env)

	t.Run("newest first with full counts", func(t *testing.T) {
		listing, err := env.svc.Review.List(ctx, models.ApplicationFilter{})
		require.NoError(t, err)
		assert.Equal(t, []string{"Pedro Neto", "Mariana Costa", "Ana Silva"}, namesOf(listing.Applications))
		assert.Equal(t, models.StatusCounts{Total: 3, Nova: 1, Aprovada: 2}, listing.Counts)
		assert.Equal(t, []string{"Benguela", "Luanda"}, listing.Provinces)
		assert.Equal(t, 3, listing.Shown)
		assert.Equal(t, models.FilterAll, listing.Filter.Status)
	})

	t.Run("search and status combine", func(t *testing.T) {
		listing, err := env.svc.Review.List(ctx, models.ApplicationFilter{Search: " ana ", Status: "aprovada"})
		require.NoError(t, err)
		assert.Equal(t, []string{"Ana Silva"}, namesOf(listing.Applications))
		assert.Equal(t, 1, listing.Shown)
		assert.Equal(t, 3, listing.Total)
		assert.Equal(t, models.StatusCounts{Total: 3, Nova: 1, Aprovada: 2}, listing.Counts, "counts ignore filters")
	})

	t.Run("search matches email and phone", func(t *testing.T) {
		listing, err := env.svc.Review.List(ctx, models.ApplicationFilter{Search: "MCOSTA"})
		require.NoError(t, err)
		assert.Equal(t, []string{"Mariana Costa"}, namesOf(listing.Applications))

		listing, err = env.svc.Review.List(ctx, models.ApplicationFilter{Search: "923456"})
		require.NoError(t, err)
		assert.Len(t, listing.Applications, 3)
	})

	t.Run("province and scholarship", func(t *testing.T) {
		listing, err := env.svc.Review.List(ctx, models.ApplicationFilter{Province: "Benguela"})
		require.NoError(t, err)
		assert.Equal(t, []string{"Mariana Costa"}, namesOf(listing.Applications))

		listing, err = env.svc.Review.List(ctx, models.ApplicationFilter{Province: "Huambo"})
		require.NoError(t, err)
		assert.Empty(t, listing.Applications)

		listing, err = env.svc.Review.List(ctx, models.ApplicationFilter{ScholarshipType: string(models.ScholarshipFormacaoProfissional)})
		require.NoError(t, err)
		assert.Equal(t, []string{"Mariana Costa"}, namesOf(listing.Applications))
	})

	t.Run("unknown filter values", func(t *testing.T) {
		_, err := env.svc.Review.List(ctx, models.ApplicationFilter{Status: "arquivada"})
		assert.Contains(t, fieldsOf(t, err), "status")

		_, err = env.svc.Review.List(ctx, models.ApplicationFilter{ScholarshipType: "integral"})
		assert.Contains(t, fieldsOf(t, err), "scholarship_type")
	})
}

func TestReviewService_ListEmpty(t *testing.T) {
	env := newTestEnv(t)

	listing, err := env.svc.Review.List(context.Background(), models.ApplicationFilter{})
	require.NoError(t, err)
	assert.NotNil(t, listing.Applications)
	assert.Empty(t, listing.Applications)
	assert.Equal(t, models.StatusCounts{}, listing.Counts)
}

func TestReviewService_UpdateStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, mariana, _ := seedReviewSet(t, env)

	env.clock.Advance(time.Minute)
	listing, err := env.svc.Review.UpdateStatus(ctx, mariana.ID,
		models.StatusUpdateRequest{Status: "em_analise"},
		models.ApplicationFilter{Status: "nova"}, testAuditCtx)
	require.NoError(t, err)

	assert.Empty(t, listing.Applications, "the refreshed view honours the active filter")
	assert.Equal(t, models.StatusCounts{Total: 3, EmAnalise: 1, Aprovada: 2}, listing.Counts)

	stored, err := env.store.Applications.GetByID(ctx, mariana.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusEmAnalise, stored.Status)
	assert.Equal(t, testNow.Add(time.Minute), stored.UpdatedAt)
	assert.Empty(t, env.notifier.Sent(), "only decisions are notified")

	entries := env.auditEntries()
	require.Len(t, entries, 1)
	assert.Equal(t, models.AuditActionUpdate, entries[0].Action)
	assert.Equal(t, models.AuditResourceApplication, entries[0].Resource)
	assert.Equal(t, mariana.ID, entries[0].ResourceID)
	assert.Equal(t, "admin-1", entries[0].UserID)
}

func TestReviewService_UpdateStatusErrors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, mariana, _ := seedReviewSet(t, env)

	t.Run("unknown application", func(t *testing.T) {
		_, err := env.svc.Review.UpdateStatus(ctx, "missing", models.StatusUpdateRequest{Status: "aprovada"}, models.ApplicationFilter{}, testAuditCtx)
		assert.ErrorIs(t, err, models.ErrApplicationNotFound)

		listing, err := env.svc.Review.List(ctx, models.ApplicationFilter{})
		require.NoError(t, err)
		assert.Equal(t, models.StatusCounts{Total: 3, Nova: 1, Aprovada: 2}, listing.Counts)
	})

	t.Run("unknown status", func(t *testing.T) {
		_, err := env.svc.Review.UpdateStatus(ctx, mariana.ID, models.StatusUpdateRequest{Status: "arquivada"}, models.ApplicationFilter{}, testAuditCtx)
		assert.Equal(t, "estado desconhecido", fieldsOf(t, err)["status"])

		stored, err := env.store.Applications.GetByID(ctx, mariana.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusNova, stored.Status)
	})

	t.Run("storage failure leaves status untouched", func(t *testing.T) {
		repo := env.store.Applications
		env.store.Applications = failingUpdates{ApplicationRepository: repo}
		env.rewire()
		defer func() {
			env.store.Applications = repo
			env.rewire()
		}()

		_, err := env.svc.Review.UpdateStatus(ctx, mariana.ID, models.StatusUpdateRequest{Status: "rejeitada"}, models.ApplicationFilter{}, testAuditCtx)
		assert.ErrorIs(t, err, models.ErrBackendUnavailable)

		stored, err := repo.GetByID(ctx, mariana.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusNova, stored.Status)
		assert.Empty(t, env.notifier.Sent())
	})
}

func TestReviewService_SaveReview(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, mariana, _ := seedReviewSet(t, env)

	notes := "  Bom percurso académico  "
	app, err := env.svc.Review.SaveReview(ctx, mariana.ID, models.ReviewRequest{Status: "aprovada", AdminNotes: &notes}, testAuditCtx)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAprovada, app.Status)
	require.NotNil(t, app.AdminNotes)
	assert.Equal(t, "Bom percurso académico", *app.AdminNotes)

	sent := env.notifier.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, mariana.ID, sent[0].ID)
	assert.Equal(t, models.StatusAprovada, sent[0].Status)

	// clearing the notes keeps the status
	blank := "   "
	app, err = env.svc.Review.SaveReview(ctx, mariana.ID, models.ReviewRequest{Status: "aprovada", AdminNotes: &blank}, testAuditCtx)
	require.NoError(t, err)
	assert.Nil(t, app.AdminNotes)
	assert.Equal(t, models.StatusAprovada, app.Status)
	assert.Len(t, env.notifier.Sent(), 1, "an unchanged status is not notified again")

	entries := env.auditEntries()
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, models.AuditResourceReview, e.Resource)
	}
}

func TestReviewService_SaveReviewValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, mariana, _ := seedReviewSet(t, env)

	long := make([]rune, models.MaxReviewNotesLength+1)
	for i := range long {
		long[i] = 'á'
	}
	notes := string(long)
	_, err := env.svc.Review.SaveReview(ctx, mariana.ID, models.ReviewRequest{Status: "aprovada", AdminNotes: &notes}, testAuditCtx)
	assert.Contains(t, fieldsOf(t, err), "admin_notes")

	_, err = env.svc.Review.SaveReview(ctx, mariana.ID, models.ReviewRequest{Status: "pendente"}, testAuditCtx)
	assert.Contains(t, fieldsOf(t, err), "status")

	_, err = env.svc.Review.SaveReview(ctx, "missing", models.ReviewRequest{Status: "aprovada"}, testAuditCtx)
	assert.ErrorIs(t, err, models.ErrApplicationNotFound)

	stored, err := env.store.Applications.GetByID(ctx, mariana.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusNova, stored.Status)
	assert.Nil(t, stored.AdminNotes)
}

func TestReviewService_NotifierFailureIsTolerated(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, mariana, _ := seedReviewSet(t, env)
	env.notifier.err = errors.New("ses throttled")

	app, err := env.svc.Review.SaveReview(ctx, mariana.ID, models.ReviewRequest{Status: "rejeitada"}, testAuditCtx)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejeitada, app.Status)
	assert.Len(t, env.notifier.Sent(), 1)
}

func TestReviewService_DecisionsCanBeReopened(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ana, _, _ := seedReviewSet(t, env)

	listing, err := env.svc.Review.UpdateStatus(ctx, ana.ID, models.StatusUpdateRequest{Status: "nova"}, models.ApplicationFilter{}, testAuditCtx)
	require.NoError(t, err)
	assert.Equal(t, 2, listing.Counts.Nova)
}
