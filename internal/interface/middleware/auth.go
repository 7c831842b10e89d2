package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/taskman-io/taskman/internal/domain/entity"
	"github.com/taskman-io/taskman/internal/domain/repository"
	"github.com/taskman-io/taskman/pkg/helpers"
	"github.com/taskman-io/taskman/pkg/response"
)

// CtxUserKey is the gin context key holding the authenticated *entity.User.
const CtxUserKey = "currentUser"

const bearerPrefix = "Bearer "

// Auth resolves the Authorization header into an authenticated user.
// Every rejection branch (missing header, wrong scheme, malformed token, bad
// signature, expired token, user no longer present) produces the same 401
// body so token state cannot be probed.
func Auth(users repository.UserRepository, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
			unauthorized(c)
			return
		}
		subject, err := jwt.Verify(strings.TrimSpace(header[len(bearerPrefix):]))
		if err != nil || subject == "" {
			unauthorized(c)
			return
		}
		u, err := users.GetByUsername(c.Request.Context(), subject)
		if err != nil || u == nil {
			unauthorized(c)
			return
		}
		c.Set(CtxUserKey, u)
		c.Next()
	}
}

func unauthorized(c *gin.Context) {
	c.Header("WWW-Authenticate", "Bearer")
	response.Error[any](c, http.StatusUnauthorized, "could not validate credentials", nil)
	c.Abort()
}

// CurrentUser returns the user resolved by Auth for the current request.
func CurrentUser(c *gin.Context) (*entity.User, bool) {
	v, ok := c.Get(CtxUserKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*entity.User)
	return u, ok
}
