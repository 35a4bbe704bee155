package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/saviare/saviare-backend/internal/model"
	"github.com/saviare/saviare-backend/internal/response"
)

// RequireRole checks that the authenticated user has the given role.
// Must run after RequireJWT.
func RequireRole(role model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		if claims.Role != role {
			response.AbortFail(c, http.StatusForbidden, roleDeniedCode(role))
			return
		}

		c.Next()
	}
}

func roleDeniedCode(role model.Role) response.ErrCode {
	switch role {
	case model.RoleStudent:
		return response.ErrStudentAccessOnly
	case model.RoleTeacher:
		return response.ErrTeacherAccessOnly
	default:
		return response.ErrForbidden
	}
}
