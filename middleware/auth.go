package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"houseshow-backend/models"
	"houseshow-backend/services"
	"houseshow-backend/utils"
)

const actorKey = "actor"

// RequireActor resolves the bearer token into a services.Actor stored on the context.
func RequireActor(auth *utils.JWTAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			utils.JSONError(c, http.StatusUnauthorized, "error.unauthorized", "missing or malformed authorization header")
			c.Abort()
			return
		}

		userID, role, err := auth.Subject(strings.TrimSpace(token))
		if err != nil || !models.Role(role).IsValid() || models.Role(role) == models.RoleSystem {
			utils.JSONError(c, http.StatusUnauthorized, "error.unauthorized", "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(actorKey, services.Actor{UserID: userID, Role: models.Role(role)})
		c.Next()
	}
}

// RequireRole lets the request through only for the listed roles.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFrom(c)
		if ok {
			for _, r := range roles {
				if actor.Role == r {
					c.Next()
					return
				}
			}
		}
		utils.JSONError(c, http.StatusForbidden, "error.forbidden", "you don't have permission to do this")
		c.Abort()
	}
}

func ActorFrom(c *gin.Context) (services.Actor, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return services.Actor{}, false
	}
	actor, ok := v.(services.Actor)
	return actor, ok
}

// SetActor is used by tests and internal callers that authenticate differently.
func SetActor(c *gin.Context, actor services.Actor) {
	c.Set(actorKey, actor)
}
