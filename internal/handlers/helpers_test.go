package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/formar-para-liderar/app-bolsas/internal/config"
	"github.com/formar-para-liderar/app-bolsas/internal/logging"
	"github.com/formar-para-liderar/app-bolsas/internal/models"
	"github.com/formar-para-liderar/app-bolsas/internal/repository"
	"github.com/formar-para-liderar/app-bolsas/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router *gin.Engine
	store  *repository.Store
	svc    *services.Services
}

func testConfig() *config.Config {
	return &config.Config{
		SessionTTL:           time.Hour,
		DraftTTL:             time.Hour,
		SubmitLockTTL:        5 * time.Second,
		LoginRedirect:        "/candidato/login",
		AdminLoginRedirect:   "/admin/login",
		AdminHomeRedirect:    "/admin",
		ApplicationsRedirect: "/perfil",
	}
}

func newTestServer(t *testing.T, checks map[string]DependencyCheck) *testServer {
	t.Helper()
	store := repository.NewMemoryStore()
	cfg := testConfig()
	svc := services.New(store, cfg, nil, nil, logging.Logger)

	router := gin.New()
	New(svc, cfg, checks, logging.Logger).RegisterRoutes(router.Group("/v1"))
	return &testServer{router: router, store: store, svc: svc}
}

func (s *testServer) do(method, path, body, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// signUp registers a candidate and returns the session token and user id
func (s *testServer) signUp(t *testing.T, email string) (string, string) {
	t.Helper()
	resp, err := s.svc.Auth.SignUp(context.Background(), models.SignUpRequest{Email: email, Password: "segredo123", FullName: "Teste"}, models.AuditContext{})
	require.NoError(t, err)
	return resp.Session.Token, resp.Session.UserID
}

func (s *testServer) signUpAdmin(t *testing.T, email string) (string, string) {
	t.Helper()
	token, userID := s.signUp(t, email)
	require.NoError(t, s.store.Roles.Insert(context.Background(), &models.RoleAssignment{
		ID: "admin-" + userID, UserID: userID, Role: models.RoleAdmin, CreatedAt: time.Now(),
	}))
	return token, userID
}

func formFields() map[string]interface{} {
	return map[string]interface{}{
		"full_name":            "Ana Silva",
		"birth_date":           "2001-04-12",
		"bi_number":            "004512345LA041",
		"phone":                "923456789",
		"email":                "ana.silva@example.ao",
		"province":             "Luanda",
		"municipality":         "Viana",
		"address":              "Rua 21, Casa 4",
		"education_level":      "universitario",
		"institution":          "Universidade Agostinho Neto",
		"course":               "Engenharia Informática",
		"current_year":         "2",
		"scholarship_type":     "universitaria_comparticipada",
		"household_income":     "50000_150000",
		"household_members":    4,
		"employment_status":    "desempregado",
		"motivation":           "Quero contribuir para o desenvolvimento de Angola.",
		"declaration_accepted": true,
	}
}

func formJSON(t *testing.T, mutate func(map[string]interface{})) string {
	t.Helper()
	fields := formFields()
	if mutate != nil {
		mutate(fields)
	}
	data, err := json.Marshal(fields)
	require.NoError(t, err)
	return string(data)
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func fieldMessages(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	body := decode[models.ErrorResponse](t, w)
	out := map[string]string{}
	for _, f := range body.Fields {
		out[f.Field] = f.Message
	}
	return out
}
