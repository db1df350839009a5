package middleware

import (
	"errors"
	"net/http"
	"strings"

	"hotel-reservation/models"
	"hotel-reservation/services"
	"hotel-reservation/utils"

	"github.com/gin-gonic/gin"
)

const currentUserKey = "currentUser"

func unauthorized(c *gin.Context, message string) {
	c.Header("WWW-Authenticate", `Bearer realm="api"`)
	utils.JSONError(c, http.StatusUnauthorized, "error.unauthenticated", message)
}

// Authenticate requires a valid access token and loads its user.
func Authenticate(tokens *services.TokenService, users *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			unauthorized(c, services.ErrUnauthenticated.Error())
			return
		}

		claims, err := tokens.Parse(strings.TrimSpace(raw), services.TokenTypeAccess)
		if err != nil {
			unauthorized(c, "Given token not valid for any token type")
			return
		}

		user, err := users.Get(c.Request.Context(), claims.UserID)
		if err != nil {
			var nf *services.NotFoundError
			if errors.As(err, &nf) {
				unauthorized(c, "User not found")
				return
			}
			utils.JSONError(c, http.StatusInternalServerError, "error.internal", "Internal server error")
			return
		}

		c.Set(currentUserKey, *user)
		c.Next()
	}
}

// RequirePermission rejects roles the table does not allow. Actions that an owner may also
// perform pass through; the handler makes the ownership decision once the object is loaded.
func RequirePermission(action services.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			unauthorized(c, services.ErrUnauthenticated.Error())
			return
		}
		if services.Allowed(user.Role, action) || services.GrantsOwnership(action) {
			c.Next()
			return
		}
		utils.JSONError(c, http.StatusForbidden, "error.forbidden", services.ErrForbidden.Error())
	}
}

func CurrentUser(c *gin.Context) (models.User, bool) {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return models.User{}, false
	}
	user, ok := v.(models.User)
	return user, ok
}
