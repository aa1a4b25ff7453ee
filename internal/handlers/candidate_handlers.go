package handlers

import (
	"net/http"

	"github.com/formar-para-liderar/app-bolsas/internal/middleware"
	"github.com/formar-para-liderar/app-bolsas/internal/models"
	"github.com/gin-gonic/gin"
)

// ListMyApplications godoc
// @Summary Listar as minhas candidaturas
// @Description Candidaturas do utilizador autenticado, mais recentes primeiro, com a apresentação do estado
// @Tags me
// @Security BearerAuth
// @Produce json
// @Success 200 {array} models.CandidateApplication
// @Failure 401 {object} models.ErrorResponse
// @Router /me/applications [get]
func (h *Handlers) ListMyApplications(c *gin.Context) {
	apps, err := h.svc.Candidates.ListApplications(c.Request.Context(), middleware.GetSession(c).UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apps)
}

// GetMyApplication godoc
// @Summary Obter uma das minhas candidaturas
// @Tags me
// @Security BearerAuth
// @Produce json
// @Param id path string true "ID da candidatura"
// @Success 200 {object} models.CandidateApplication
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /me/applications/{id} [get]
func (h *Handlers) GetMyApplication(c *gin.Context) {
	app, err := h.svc.Candidates.GetApplication(c.Request.Context(), middleware.GetSession(c).UserID, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

// GetMyProfile godoc
// @Summary Obter o meu perfil
// @Tags me
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Profile
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /me/profile [get]
func (h *Handlers) GetMyProfile(c *gin.Context) {
	profile, err := h.svc.Candidates.GetProfile(c.Request.Context(), middleware.GetSession(c).UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateMyProfile godoc
// @Summary Atualizar o meu nome
// @Description Apenas o nome pode ser alterado; o email não é editável
// @Tags me
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body models.UpdateProfileRequest true "Novo nome"
// @Success 200 {object} models.Profile
// @Failure 401 {object} models.ErrorResponse
// @Failure 422 {object} models.ErrorResponse
// @Router /me/profile [put]
func (h *Handlers) UpdateMyProfile(c *gin.Context) {
	var req models.UpdateProfileRequest
	if !h.bindJSON(c, &req) {
		return
	}

	profile, err := h.svc.Candidates.UpdateProfile(c.Request.Context(), middleware.GetSession(c).UserID, req, middleware.AuditContext(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
