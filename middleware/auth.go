package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yatube/yatube/utils"
)

const (
	// ContextUserIDKey is the key used to store the authenticated user ID in Gin context.
	ContextUserIDKey = "user_id"
	// ContextUsernameKey stores the username inside Gin context.
	ContextUsernameKey = "username"

	// LoginPath is where anonymous callers of protected routes are sent.
	LoginPath = "/auth/login"

	authCookieName = "auth_token"
)

// Identify resolves the caller's identity from a Bearer token or the auth
// cookie when present. It never rejects: anonymous requests simply carry no
// identity in the context.
func Identify() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := bearerToken(ctx)
		if token == "" {
			if c, err := ctx.Cookie(authCookieName); err == nil {
				token = c
			}
		}
		if token != "" {
			if claims, err := utils.ParseToken(token); err == nil {
				ctx.Set(ContextUserIDKey, claims.UserID)
				ctx.Set(ContextUsernameKey, claims.Username)
			}
		}
		ctx.Next()
	}
}

// LoginRequired redirects anonymous requests to the login route, carrying the
// originally requested path in the next parameter.
func LoginRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if _, exists := ctx.Get(ContextUserIDKey); !exists {
			next := url.QueryEscape(ctx.Request.URL.Path)
			ctx.Redirect(http.StatusFound, LoginPath+"?next="+next)
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}

func bearerToken(ctx *gin.Context) string {
	authHeader := ctx.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
