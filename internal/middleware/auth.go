package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"teamtrack/internal/auth"
	"teamtrack/internal/constants"
	apierrors "teamtrack/internal/errors"
	"teamtrack/internal/models"
)

// RequireAuth checks for a valid session and places the signed claims into
// the request context. Claims are read only from the cookie; they are never
// refreshed from the store during the session's lifetime.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)

		userID, okUser := session.Get(constants.SessionKeyUserID).(uint64)
		role, okRole := session.Get(constants.SessionKeyRole).(string)
		projectID, okProject := session.Get(constants.SessionKeyProjectID).(uint64)

		if !okUser || !okRole || !okProject {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyClaims, auth.Claims{
			UserID:    userID,
			Role:      models.Role(role),
			ProjectID: projectID,
		})
		c.Next()
	}
}

// GetClaims retrieves the session claims from the request context.
func GetClaims(c *gin.Context) (auth.Claims, bool) {
	value, exists := c.Get(constants.ContextKeyClaims)
	if !exists {
		return auth.Claims{}, false
	}

	claims, ok := value.(auth.Claims)
	return claims, ok
}

// SetSessionClaims writes the claims into the session cookie. Called on login.
func SetSessionClaims(c *gin.Context, user *models.User) error {
	session := sessions.Default(c)
	session.Set(constants.SessionKeyUserID, user.ID)
	session.Set(constants.SessionKeyRole, string(user.Role))
	session.Set(constants.SessionKeyProjectID, user.ProjectID)
	return session.Save()
}

// ClearSession drops the session cookie. Safe to call when not logged in.
func ClearSession(c *gin.Context) error {
	session := sessions.Default(c)
	session.Clear()
	return session.Save()
}
