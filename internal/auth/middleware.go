package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	dom "github.com/grpansare/task-management/internal/domain"
)

const contextKeyUser = "current_user"

// UserLookup resolves the account behind a verified token.
type UserLookup interface {
	GetByEmail(ctx context.Context, email string) (dom.User, error)
}

// UserFromContext returns the user set by RequireBearer.
// The zero User if the middleware did not run.
func UserFromContext(c *gin.Context) dom.User {
	v, ok := c.Get(contextKeyUser)
	if !ok {
		return dom.User{}
	}
	u, ok := v.(dom.User)
	if !ok {
		return dom.User{}
	}
	return u
}

// RequireBearer returns a middleware that verifies the Authorization
// bearer token and puts the resolved user in context. Missing, malformed,
// expired or unknown-account tokens all get a 401.
func RequireBearer(tokens *TokenManager, users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		claims, err := tokens.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		user, err := users.GetByEmail(c.Request.Context(), claims.Email)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		c.Set(contextKeyUser, user)
		c.Next()
	}
}
