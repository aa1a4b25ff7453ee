package middleware

import (
	"github.com/formar-para-liderar/app-bolsas/internal/models"
	"github.com/gin-gonic/gin"
)

// AuditContext identifies the caller of the current request for audit
// entries
func AuditContext(c *gin.Context) models.AuditContext {
	actx := models.AuditContext{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		RequestID: GetRequestID(c),
	}
	if session := GetSession(c); session != nil {
		actx.UserID = session.UserID
	}
	return actx
}
