package handlers

import (
	"github.com/formar-para-liderar/app-bolsas/internal/middleware"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the API on the /v1 group
func (h *Handlers) RegisterRoutes(v1 *gin.RouterGroup) {
	v1.Use(middleware.LoadSession(h.svc.Auth))

	requireSession := middleware.RequireSession(h.cfg.LoginRedirect)
	requireAdmin := middleware.RequireAdmin(h.svc.Gate, h.cfg.AdminLoginRedirect)

	v1.GET("/health", h.HealthCheck)

	auth := v1.Group("/auth")
	{
		auth.POST("/signup", h.SignUp)
		auth.POST("/signin", h.SignIn)
		auth.POST("/signout", requireSession, h.SignOut)
		auth.GET("/session", requireSession, h.GetSession)
	}

	apps := v1.Group("/applications")
	{
		apps.POST("", h.SubmitApplication)
		apps.POST("/drafts", h.CreateDraft)
		apps.GET("/drafts/:id", h.GetDraft)
		apps.PUT("/drafts/:id", h.SaveDraft)
		apps.POST("/drafts/:id/next", h.NextStep)
		apps.POST("/drafts/:id/back", h.PreviousStep)
		apps.POST("/drafts/:id/submit", h.SubmitDraft)
	}

	me := v1.Group("/me", requireSession)
	{
		me.GET("/applications", h.ListMyApplications)
		me.GET("/applications/:id", h.GetMyApplication)
		me.GET("/profile", h.GetMyProfile)
		me.PUT("/profile", h.UpdateMyProfile)
	}

	v1.POST("/admin/signin", h.AdminSignIn)
	admin := v1.Group("/admin", requireAdmin)
	{
		admin.GET("/applications", h.ListApplications)
		admin.GET("/applications/export", h.ExportApplications)
		admin.GET("/applications/:id", h.GetApplication)
		admin.PATCH("/applications/:id/status", h.UpdateApplicationStatus)
		admin.PUT("/applications/:id/review", h.SaveReview)

		admin.GET("/users", h.ListUsers)
		admin.POST("/users/:user_id/roles", h.GrantRole)
		admin.DELETE("/users/:user_id/roles/:role", h.RevokeRole)
	}
}
