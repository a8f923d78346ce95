package handlers

import (
	"net/http"
	"strings"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/gin-gonic/gin"
	"github.com/testprep-hub/ielts-grading-service/internal/utils"
)

const contextUserIDKey = "user_id"

// AuthMiddleware verifies the Casdoor bearer token and stores the actor id
// on the request context.
func AuthMiddleware(logger utils.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Missing bearer token",
			})
			return
		}

		token := strings.TrimPrefix(header, "Bearer ")
		claims, err := casdoorsdk.ParseJwtToken(token)
		if err != nil {
			logger.Warn("Rejected invalid token", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Invalid or expired token",
			})
			return
		}

		c.Set(contextUserIDKey, claims.User.Id)
		c.Next()
	}
}

// GetUserID returns the authenticated actor id for the request.
func GetUserID(c *gin.Context) string {
	if id, exists := c.Get(contextUserIDKey); exists {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return ""
}
