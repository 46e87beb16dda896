package identity

import (
	"net/http"

	"companion-app/frontend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// UserIDKey is the gin context key holding the caller's user id.
const UserIDKey = "userID"

// RequestResolver resolves the caller of an HTTP request.
type RequestResolver interface {
	Resolve(req *http.Request) (Identity, error)
}

// Middleware attaches the caller to the request context. Requests with an
// invalid token continue anonymously; the operations that need a user
// reject them.
func Middleware(resolver RequestResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.FromGin(c)

		id, err := resolver.Resolve(c.Request)
		if err != nil {
			log.Warn("Ignoring invalid session token", "error", err.Error())
		}

		if id.Authenticated() {
			log = log.WithUserID(id.UserID)
			c.Set(UserIDKey, id.UserID)
			c.Set(logger.ContextKey, log)
		}

		ctx := WithIdentity(c.Request.Context(), id)
		c.Request = c.Request.WithContext(logger.IntoContext(ctx, log))
		c.Next()
	}
}
