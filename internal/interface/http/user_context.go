package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	userIDKey    = "user_id"
	maxUserIDLen = 64
)

// userScope validates the :userID path segment and stores it on the context.
func userScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.Param("userID"))
		if userID == "" || len(userID) > maxUserIDLen {
			abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "invalid user id", nil))
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

func getUserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
