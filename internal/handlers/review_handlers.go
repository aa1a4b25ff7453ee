package handlers

import (
	"fmt"
	"net/http"

	"github.com/formar-para-liderar/app-bolsas/internal/middleware"
	"github.com/formar-para-liderar/app-bolsas/internal/models"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// bindFilter reads the listing filter from the query string
func (h *Handlers) bindFilter(c *gin.Context) (models.ApplicationFilter, bool) {
	var filter models.ApplicationFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Parâmetros inválidos: " + err.Error()})
		return filter, false
	}
	return filter, true
}

// ListApplications godoc
// @Summary Listar candidaturas
// @Description Todas as candidaturas, mais recentes primeiro, filtradas por estado, tipo de bolsa, província e pesquisa (nome, email ou telefone). As contagens por estado são sempre calculadas sobre o conjunto completo.
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param status query string false "Estado (all, nova, em_analise, aprovada, rejeitada)"
// @Param scholarship_type query string false "Tipo de bolsa ou all"
// @Param province query string false "Província ou all"
// @Param search query string false "Texto de pesquisa"
// @Success 200 {object} models.ApplicationListing
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 422 {object} models.ErrorResponse "Filtro inválido"
// @Failure 503 {object} models.ErrorResponse
// @Router /admin/applications [get]
func (h *Handlers) ListApplications(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "ListApplications")
	defer span.End()

	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}

	listing, err := h.svc.Review.List(ctx, filter)
	if err != nil {
		h.respondError(c, err)
		return
	}
	span.SetAttributes(
		attribute.Int("listing.shown", listing.Shown),
		attribute.Int("listing.total", listing.Total),
	)
	c.JSON(http.StatusOK, listing)
}

// GetApplication godoc
// @Summary Obter candidatura
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param id path string true "ID da candidatura"
// @Success 200 {object} models.Application
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/applications/{id} [get]
func (h *Handlers) GetApplication(c *gin.Context) {
	app, err := h.svc.Review.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

// UpdateApplicationStatus godoc
// @Summary Alterar estado de uma candidatura
// @Description Altera apenas o estado e devolve a listagem atualizada com os filtros indicados
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "ID da candidatura"
// @Param body body models.StatusUpdateRequest true "Novo estado"
// @Param status query string false "Filtro de estado da listagem devolvida"
// @Param scholarship_type query string false "Filtro de tipo de bolsa"
// @Param province query string false "Filtro de província"
// @Param search query string false "Texto de pesquisa"
// @Success 200 {object} models.ApplicationListing
// @Failure 404 {object} models.ErrorResponse
// @Failure 422 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /admin/applications/{id}/status [patch]
func (h *Handlers) UpdateApplicationStatus(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "UpdateApplicationStatus")
	defer span.End()

	var req models.StatusUpdateRequest
	if !h.bindJSON(c, &req) {
		return
	}
	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}
	span.SetAttributes(
		attribute.String("application.id", c.Param("id")),
		attribute.String("application.status", req.Status),
	)

	listing, err := h.svc.Review.UpdateStatus(ctx, c.Param("id"), req, filter, middleware.AuditContext(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

// SaveReview godoc
// @Summary Guardar revisão
// @Description Grava o estado e as notas internas numa única atualização e devolve a candidatura atualizada
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "ID da candidatura"
// @Param body body models.ReviewRequest true "Estado e notas"
// @Success 200 {object} models.Application
// @Failure 404 {object} models.ErrorResponse
// @Failure 422 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /admin/applications/{id}/review [put]
func (h *Handlers) SaveReview(c *gin.Context) {
	var req models.ReviewRequest
	if !h.bindJSON(c, &req) {
		return
	}

	app, err := h.svc.Review.SaveReview(c.Request.Context(), c.Param("id"), req, middleware.AuditContext(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

// ExportApplications godoc
// @Summary Exportar candidaturas
// @Description Exporta a vista filtrada, pela ordem apresentada, em CSV ou XLSX
// @Tags admin
// @Security BearerAuth
// @Produce text/csv
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param format query string false "csv (padrão) ou xlsx"
// @Param status query string false "Filtro de estado"
// @Param scholarship_type query string false "Filtro de tipo de bolsa"
// @Param province query string false "Filtro de província"
// @Param search query string false "Texto de pesquisa"
// @Success 200 {file} file
// @Failure 422 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /admin/applications/export [get]
func (h *Handlers) ExportApplications(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "ExportApplications")
	defer span.End()

	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}

	file, err := h.svc.Review.Export(ctx, filter, c.Query("format"), middleware.AuditContext(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	span.SetAttributes(attribute.Int("export.rows", file.Rows))

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
