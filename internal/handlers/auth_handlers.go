package handlers

import (
	"net/http"

	"github.com/formar-para-liderar/app-bolsas/internal/middleware"
	"github.com/formar-para-liderar/app-bolsas/internal/models"
	"github.com/gin-gonic/gin"
)

// SignUp godoc
// @Summary Criar conta de candidato
// @Description Regista uma conta com email e palavra-passe (mínimo 6 caracteres), atribui o papel candidato e abre uma sessão
// @Tags auth
// @Accept json
// @Produce json
// @Param body body models.SignUpRequest true "Dados da conta"
// @Success 201 {object} models.SessionResponse
// @Failure 400 {object} models.ErrorResponse "Corpo inválido"
// @Failure 409 {object} models.ErrorResponse "Email já registado"
// @Failure 422 {object} models.ErrorResponse "Dados inválidos"
// @Failure 503 {object} models.ErrorResponse
// @Router /auth/signup [post]
func (h *Handlers) SignUp(c *gin.Context) {
	var req models.SignUpRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.svc.Auth.SignUp(c.Request.Context(), req, middleware.AuditContext(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// SignIn godoc
// @Summary Iniciar sessão
// @Tags auth
// @Accept json
// @Produce json
// @Param body body models.SignInRequest true "Credenciais"
// @Success 200 {object} models.SessionResponse
// @Failure 401 {object} models.ErrorResponse "Credenciais inválidas"
// @Failure 422 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /auth/signin [post]
func (h *Handlers) SignIn(c *gin.Context) {
	var req models.SignInRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.svc.Auth.SignIn(c.Request.Context(), req, middleware.AuditContext(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SignOut godoc
// @Summary Terminar sessão
// @Tags auth
// @Security BearerAuth
// @Success 204
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/signout [post]
func (h *Handlers) SignOut(c *gin.Context) {
	if err := h.svc.Auth.SignOut(c.Request.Context(), middleware.GetSession(c), middleware.AuditContext(c)); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetSession godoc
// @Summary Obter a sessão atual
// @Description Devolve a sessão, o perfil e os papéis do utilizador autenticado
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.SessionResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/session [get]
func (h *Handlers) GetSession(c *gin.Context) {
	resp, err := h.svc.Auth.Describe(c.Request.Context(), middleware.GetSession(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AdminSignIn godoc
// @Summary Iniciar sessão como administrador
// @Description Autentica e verifica o papel admin. Contas sem o papel são desligadas de imediato.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body models.SignInRequest true "Credenciais"
// @Success 200 {object} models.SessionResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse "Acesso negado - apenas administradores"
// @Failure 503 {object} models.ErrorResponse
// @Router /admin/signin [post]
func (h *Handlers) AdminSignIn(c *gin.Context) {
	var req models.SignInRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.svc.Gate.AdminSignIn(c.Request.Context(), req, middleware.AuditContext(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
