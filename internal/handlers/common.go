package handlers

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/formar-para-liderar/app-bolsas/internal/config"
	"github.com/formar-para-liderar/app-bolsas/internal/logging"
	"github.com/formar-para-liderar/app-bolsas/internal/middleware"
	"github.com/formar-para-liderar/app-bolsas/internal/models"
	"github.com/formar-para-liderar/app-bolsas/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const healthCheckTimeout = 2 * time.Second

// DependencyCheck reports whether a backing service is reachable
type DependencyCheck func(ctx context.Context) error

// Handlers serves the HTTP API on top of the domain services
type Handlers struct {
	svc    *services.Services
	cfg    *config.Config
	checks map[string]DependencyCheck
	logger *logging.SafeLogger
}

// New creates the handlers. checks are run by the health endpoint.
func New(svc *services.Services, cfg *config.Config, checks map[string]DependencyCheck, logger *logging.SafeLogger) *Handlers {
	return &Handlers{
		svc:    svc,
		cfg:    cfg,
		checks: checks,
		logger: logger.With(zap.String("component", "http")),
	}
}

func init() {
	// report binding failures by their JSON field names
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// HealthResponse is the body of the health endpoint
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services"`
}

// SubmissionResponse is returned after an application is created
type SubmissionResponse struct {
	Application *models.Application `json:"application"`
	Redirect    string              `json:"redirect"`
}

// errorStatus maps a domain error onto its HTTP status and public message
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, models.ErrMalformedBody):
		return http.StatusBadRequest, "Dados inválidos"
	case errors.Is(err, models.ErrUnauthenticated):
		return http.StatusUnauthorized, "Sessão inválida ou expirada"
	case errors.Is(err, models.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Email ou palavra-passe incorretos"
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden, "Acesso negado - apenas administradores"
	case errors.Is(err, models.ErrApplicationNotFound):
		return http.StatusNotFound, "Candidatura não encontrada"
	case errors.Is(err, models.ErrProfileNotFound):
		return http.StatusNotFound, "Perfil não encontrado"
	case errors.Is(err, models.ErrDraftNotFound):
		return http.StatusNotFound, "Rascunho não encontrado ou expirado"
	case errors.Is(err, models.ErrUserNotFound):
		return http.StatusNotFound, "Utilizador não encontrado"
	case errors.Is(err, models.ErrRoleNotAssigned):
		return http.StatusNotFound, "O utilizador não tem este papel"
	case errors.Is(err, models.ErrEmailTaken):
		return http.StatusConflict, "Este email já está registado"
	case errors.Is(err, models.ErrRoleAlreadyAssigned):
		return http.StatusConflict, "Este utilizador já tem este papel"
	case errors.Is(err, models.ErrSubmissionInFlight):
		return http.StatusConflict, "A candidatura já está a ser submetida"
	case errors.Is(err, models.ErrFirstStep):
		return http.StatusConflict, "Já está no primeiro passo"
	case errors.Is(err, models.ErrLastStep):
		return http.StatusConflict, "Já está no último passo"
	case errors.Is(err, models.ErrInvalidTransition):
		return http.StatusConflict, "Mudança de estado não permitida"
	case errors.Is(err, models.ErrBackendUnavailable):
		return http.StatusServiceUnavailable, "Serviço temporariamente indisponível. Tente novamente."
	}
	return http.StatusInternalServerError, "Erro interno do servidor"
}

// respondError writes err as an ErrorResponse
func (h *Handlers) respondError(c *gin.Context, err error) {
	if verr, ok := models.IsValidationError(err); ok && !errors.Is(err, models.ErrMalformedBody) {
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{Error: "Dados inválidos", Fields: verr.Errors})
		return
	}

	status, message := errorStatus(err)
	resp := models.ErrorResponse{Error: message}
	switch status {
	case http.StatusUnauthorized:
		if errors.Is(err, models.ErrUnauthenticated) {
			resp.Redirect = h.cfg.LoginRedirect
		}
	case http.StatusForbidden:
		resp.Redirect = h.cfg.AdminLoginRedirect
	case http.StatusServiceUnavailable, http.StatusInternalServerError:
		_ = c.Error(err)
		h.logger.Error("request failed",
			zap.Error(err),
			zap.String("path", c.FullPath()),
			zap.String("request_id", middleware.GetRequestID(c)))
	}
	c.JSON(status, resp)
}

// bindJSON decodes the body into obj. Missing required fields become a 422
// with per-field messages; anything else is a malformed body.
func (h *Handlers) bindJSON(c *gin.Context, obj interface{}) bool {
	err := c.ShouldBindJSON(obj)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := &models.ValidationError{}
		for _, fe := range verrs {
			out.Add(fe.Field(), bindingMessage(fe))
		}
		h.respondError(c, out)
		return false
	}

	c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Dados inválidos: " + err.Error()})
	return false
}

func bindingMessage(fe validator.FieldError) string {
	if fe.Tag() == "required" {
		return "Campo obrigatório"
	}
	return "Valor inválido"
}

// HealthCheck godoc
// @Summary Verificar saúde da API
// @Description Verifica a ligação ao MongoDB e ao Redis
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func (h *Handlers) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	resp := HealthResponse{Status: "healthy", Timestamp: time.Now(), Services: map[string]string{}}
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			h.logger.Warn("health check failed", zap.String("dependency", name), zap.Error(err))
			resp.Services[name] = "unhealthy"
			resp.Status = "unhealthy"
			continue
		}
		resp.Services[name] = "healthy"
	}

	status := http.StatusOK
	if resp.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, resp)
}
