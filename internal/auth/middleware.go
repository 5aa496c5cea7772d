package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type ctxKey int

const actorKey ctxKey = 1

func ActorFromContext(ctx context.Context) (ActingUser, bool) {
	u, ok := ctx.Value(actorKey).(ActingUser)
	return u, ok
}

func WithActor(ctx context.Context, u ActingUser) context.Context {
	return context.WithValue(ctx, actorKey, u)
}

// Middleware verifies the bearer token and injects the acting LP into the
// request context.
func Middleware(j JWT) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok := bearerToken(c.GetHeader("Authorization"))
		if tok == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": http.StatusUnauthorized, "message": "missing bearer token"})
			return
		}
		claims, err := j.Verify(tok)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": http.StatusUnauthorized, "message": "invalid token"})
			return
		}
		actor := ActingUser{
			LPID:        claims.LPID,
			Name:        claims.Name,
			PartnerType: claims.PartnerType,
		}
		c.Request = c.Request.WithContext(WithActor(c.Request.Context(), actor))
		c.Next()
	}
}

func bearerToken(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	parts := strings.SplitN(v, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
