package middleware

import (
	"github.com/gin-gonic/gin"
)

// SecurityHeadersMiddleware adds security headers to all responses
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Browsers must not guess content types; an uploaded .png stays an image
		c.Header("X-Content-Type-Options", "nosniff")

		// 2. No framing of API responses
		c.Header("X-Frame-Options", "DENY")

		// 3. Legacy XSS filter for older browsers
		c.Header("X-XSS-Protection", "1; mode=block")

		// 4. Content Security Policy: the API serves JSON and uploaded images only
		c.Header("Content-Security-Policy",
			"default-src 'none'; "+
				"img-src 'self' data:; "+
				"frame-ancestors 'none';",
		)

		// 5. Referrer Policy
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		// 6. Permissions Policy
		c.Header("Permissions-Policy",
			"camera=(), microphone=(), geolocation=(), payment=()",
		)

		c.Next()
	}
}

// HSTSMiddleware enforces HTTPS (only for production)
func HSTSMiddleware(isProduction bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if isProduction {
			// One year, subdomains included
			c.Header("Strict-Transport-Security",
				"max-age=31536000; includeSubDomains; preload",
			)
		}
		c.Next()
	}
}
