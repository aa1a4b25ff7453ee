package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/formar-para-liderar/app-bolsas/internal/middleware"
	"github.com/formar-para-liderar/app-bolsas/internal/models"
	"github.com/gin-gonic/gin"
)

// SubmitApplication godoc
// @Summary Submeter candidatura
// @Description Valida o formulário completo e cria uma candidatura com estado nova. Com sessão, a candidatura fica associada ao utilizador.
// @Tags applications
// @Accept json
// @Produce json
// @Param body body models.ApplicationForm true "Formulário de candidatura"
// @Success 201 {object} SubmissionResponse
// @Failure 400 {object} models.ErrorResponse "JSON inválido"
// @Failure 422 {object} models.ErrorResponse "Erros por campo"
// @Failure 503 {object} models.ErrorResponse
// @Router /applications [post]
func (h *Handlers) SubmitApplication(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Dados inválidos"})
		return
	}

	app, err := h.svc.Submissions.SubmitDocument(c.Request.Context(), body, middleware.SessionUserID(c), middleware.AuditContext(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, SubmissionResponse{Application: app, Redirect: h.cfg.ApplicationsRedirect})
}

// CreateDraft godoc
// @Summary Iniciar rascunho de candidatura
// @Description Cria um rascunho no primeiro passo, opcionalmente preenchido
// @Tags drafts
// @Accept json
// @Produce json
// @Param body body models.ApplicationFormPatch false "Campos iniciais"
// @Success 201 {object} models.ApplicationDraft
// @Failure 400 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /applications/drafts [post]
func (h *Handlers) CreateDraft(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Dados inválidos"})
		return
	}

	var patch *models.ApplicationFormPatch
	if len(bytes.TrimSpace(body)) > 0 {
		patch = &models.ApplicationFormPatch{}
		if err := json.Unmarshal(body, patch); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Dados inválidos: " + err.Error()})
			return
		}
	}

	draft, err := h.svc.Drafts.Create(c.Request.Context(), middleware.SessionUserID(c), patch)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, draft)
}

// GetDraft godoc
// @Summary Obter rascunho
// @Tags drafts
// @Produce json
// @Param id path string true "ID do rascunho"
// @Success 200 {object} models.ApplicationDraft
// @Description Rascunhos iniciados com sessão só são visíveis ao próprio utilizador
// @Failure 404 {object} models.ErrorResponse "Rascunho não encontrado ou expirado"
// @Router /applications/drafts/{id} [get]
func (h *Handlers) GetDraft(c *gin.Context) {
	draft, err := h.svc.Drafts.Get(c.Request.Context(), c.Param("id"), middleware.SessionUserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

// SaveDraft godoc
// @Summary Guardar campos do rascunho
// @Description Atualiza os campos enviados sem validar e sem mudar de passo
// @Tags drafts
// @Accept json
// @Produce json
// @Param id path string true "ID do rascunho"
// @Param body body models.ApplicationFormPatch true "Campos alterados"
// @Success 200 {object} models.ApplicationDraft
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /applications/drafts/{id} [put]
func (h *Handlers) SaveDraft(c *gin.Context) {
	var patch models.ApplicationFormPatch
	if !h.bindJSON(c, &patch) {
		return
	}

	draft, err := h.svc.Drafts.Save(c.Request.Context(), c.Param("id"), middleware.SessionUserID(c), patch)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

// NextStep godoc
// @Summary Avançar um passo
// @Tags drafts
// @Produce json
// @Param id path string true "ID do rascunho"
// @Success 200 {object} models.ApplicationDraft
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse "Já está no último passo"
// @Router /applications/drafts/{id}/next [post]
func (h *Handlers) NextStep(c *gin.Context) {
	draft, err := h.svc.Drafts.Next(c.Request.Context(), c.Param("id"), middleware.SessionUserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

// PreviousStep godoc
// @Summary Recuar um passo
// @Tags drafts
// @Produce json
// @Param id path string true "ID do rascunho"
// @Success 200 {object} models.ApplicationDraft
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse "Já está no primeiro passo"
// @Router /applications/drafts/{id}/back [post]
func (h *Handlers) PreviousStep(c *gin.Context) {
	draft, err := h.svc.Drafts.Back(c.Request.Context(), c.Param("id"), middleware.SessionUserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

// SubmitDraft godoc
// @Summary Submeter rascunho
// @Description Converte o rascunho numa candidatura. Em caso de erro o rascunho é mantido.
// @Tags drafts
// @Produce json
// @Param id path string true "ID do rascunho"
// @Success 201 {object} SubmissionResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse "Submissão já em curso"
// @Failure 422 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /applications/drafts/{id}/submit [post]
func (h *Handlers) SubmitDraft(c *gin.Context) {
	app, err := h.svc.Drafts.Submit(c.Request.Context(), c.Param("id"), middleware.SessionUserID(c), middleware.AuditContext(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, SubmissionResponse{Application: app, Redirect: h.cfg.ApplicationsRedirect})
}
