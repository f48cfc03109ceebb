package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// corsMiddleware answers preflights and rejects browser origins outside the allowlist.
// An empty allowlist or a "*" entry allows every origin.
func corsMiddleware(allowed []string) gin.HandlerFunc {
	allowAll := len(allowed) == 0
	for _, origin := range allowed {
		if strings.TrimSpace(origin) == "*" {
			allowAll = true
		}
	}
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && !allowAll && !originAllowed(origin, allowed) {
			abortWithError(c, NewHTTPError(http.StatusForbidden, "cors_forbidden", "Not allowed by CORS", nil))
			return
		}

		headers := c.Writer.Header()
		if allowAll {
			headers.Set("Access-Control-Allow-Origin", "*")
		} else if origin != "" {
			headers.Set("Access-Control-Allow-Origin", origin)
			headers.Add("Vary", "Origin")
		}
		headers.Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		headers.Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
		headers.Set("Access-Control-Expose-Headers", "X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func originAllowed(origin string, allowed []string) bool {
	for _, candidate := range allowed {
		if strings.EqualFold(strings.TrimSpace(candidate), origin) {
			return true
		}
	}
	return false
}
