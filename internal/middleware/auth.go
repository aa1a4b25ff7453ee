package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/formar-para-liderar/app-bolsas/internal/logging"
	"github.com/formar-para-liderar/app-bolsas/internal/models"
	"github.com/formar-para-liderar/app-bolsas/internal/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const sessionKey = "session"

// LoadSession resolves the bearer token, when present, into a session and
// stores it in the context. Requests without a valid token continue
// anonymously; routes that need a session add RequireSession.
func LoadSession(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.Next()
			return
		}

		session, err := auth.Authenticate(c.Request.Context(), token)
		switch {
		case err == nil:
			c.Set(sessionKey, session)
		case errors.Is(err, models.ErrUnauthenticated):
			// unknown or expired token: treated as no session
		default:
			logging.Logger.Error("failed to resolve session", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, models.ErrorResponse{Error: "Serviço temporariamente indisponível"})
			return
		}
		c.Next()
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header
func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// GetSession returns the session resolved by LoadSession, or nil
func GetSession(c *gin.Context) *models.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	session, _ := v.(*models.Session)
	return session
}

// SessionUserID returns the caller's user id for optional-session routes
func SessionUserID(c *gin.Context) *string {
	session := GetSession(c)
	if session == nil {
		return nil
	}
	id := session.UserID
	return &id
}

// RequireSession rejects requests without a session, pointing the client
// at loginRedirect
func RequireSession(loginRedirect string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetSession(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
				Error:    "Sessão inválida ou expirada",
				Redirect: loginRedirect,
			})
			return
		}
		c.Next()
	}
}

// RequireAdmin runs the admin gate on every request. Roles are looked up
// each time, so a revoked admin is refused on the next request.
func RequireAdmin(gate *services.AccessGate, loginRedirect string) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := gate.RequireAdmin(c.Request.Context(), GetSession(c), AuditContext(c))
		switch {
		case err == nil:
			c.Next()
		case errors.Is(err, models.ErrUnauthenticated):
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
				Error:    "Sessão inválida ou expirada",
				Redirect: loginRedirect,
			})
		case errors.Is(err, models.ErrForbidden):
			c.AbortWithStatusJSON(http.StatusForbidden, models.ErrorResponse{
				Error:    "Acesso negado - apenas administradores",
				Redirect: loginRedirect,
			})
		default:
			logging.Logger.Error("admin gate failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, models.ErrorResponse{Error: "Serviço temporariamente indisponível"})
		}
	}
}
