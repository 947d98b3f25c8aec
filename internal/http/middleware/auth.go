// README: Firebase ID-token auth middleware; exposes the caller's identity to handlers.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"strollpath/internal/infra"
)

const (
	ctxUID     = "auth.uid"
	ctxName    = "auth.name"
	ctxPicture = "auth.picture"
)

// Auth rejects requests without a valid "Authorization: Bearer <id token>" header.
func Auth(verifier infra.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		token, err := verifier.VerifyIDToken(c.Request.Context(), strings.TrimSpace(raw))
		if err != nil || token == nil || token.UID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(ctxUID, token.UID)
		c.Set(ctxName, token.Name)
		c.Set(ctxPicture, token.Picture)
		c.Next()
	}
}

// CallerUID returns the authenticated user's ID, or "" outside Auth.
func CallerUID(c *gin.Context) string {
	return c.GetString(ctxUID)
}

// CallerName is the display name carried by the token, if any.
func CallerName(c *gin.Context) string {
	return c.GetString(ctxName)
}

func CallerPicture(c *gin.Context) string {
	return c.GetString(ctxPicture)
}
