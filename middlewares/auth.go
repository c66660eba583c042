package middlewares

import (
	"net/http"
	"strings"

	"fitroom/services"

	"github.com/gin-gonic/gin"
)

// SessionCookie is the cookie the login endpoint sets.
const SessionCookie = "session"

// UserIDKey is the gin context key the session middleware stores the
// authenticated user id under.
const UserIDKey = "userID"

// Session verifies the session token from the cookie or the Authorization
// header and aborts with 401 when neither carries a valid token.
func Session(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookie)
		if err != nil || token == "" {
			header := c.GetHeader("Authorization")
			if strings.HasPrefix(header, "Bearer ") {
				token = strings.TrimPrefix(header, "Bearer ")
			}
		}

		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		userID, err := auth.VerifyToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// UserID reads the authenticated user id set by Session.
func UserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}
