package handlers

import (
	"net/http"

	"github.com/formar-para-liderar/app-bolsas/internal/middleware"
	"github.com/formar-para-liderar/app-bolsas/internal/models"
	"github.com/gin-gonic/gin"
)

// ListUsers godoc
// @Summary Listar utilizadores
// @Description Perfis, mais recentes primeiro, com os respetivos papéis
// @Tags users
// @Security BearerAuth
// @Produce json
// @Param search query string false "Pesquisa por nome ou email"
// @Param role query string false "Papel (all, admin, moderator, candidato)"
// @Success 200 {array} models.UserWithRoles
// @Failure 403 {object} models.ErrorResponse
// @Failure 422 {object} models.ErrorResponse
// @Router /admin/users [get]
func (h *Handlers) ListUsers(c *gin.Context) {
	var filter models.UserFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Parâmetros inválidos: " + err.Error()})
		return
	}

	users, err := h.svc.Roles.ListUsers(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// GrantRole godoc
// @Summary Atribuir papel
// @Tags users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param user_id path string true "ID do utilizador"
// @Param body body models.GrantRoleRequest true "Papel"
// @Success 201 {object} models.RoleAssignment
// @Failure 404 {object} models.ErrorResponse "Utilizador não encontrado"
// @Failure 409 {object} models.ErrorResponse "Este utilizador já tem este papel"
// @Failure 422 {object} models.ErrorResponse
// @Router /admin/users/{user_id}/roles [post]
func (h *Handlers) GrantRole(c *gin.Context) {
	var req models.GrantRoleRequest
	if !h.bindJSON(c, &req) {
		return
	}

	assignment, err := h.svc.Roles.Grant(c.Request.Context(), c.Param("user_id"), req.Role, middleware.AuditContext(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, assignment)
}

// RevokeRole godoc
// @Summary Remover papel
// @Tags users
// @Security BearerAuth
// @Param user_id path string true "ID do utilizador"
// @Param role path string true "Papel"
// @Success 204
// @Failure 404 {object} models.ErrorResponse
// @Failure 422 {object} models.ErrorResponse
// @Router /admin/users/{user_id}/roles/{role} [delete]
func (h *Handlers) RevokeRole(c *gin.Context) {
	if err := h.svc.Roles.Revoke(c.Request.Context(), c.Param("user_id"), c.Param("role"), middleware.AuditContext(c)); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
