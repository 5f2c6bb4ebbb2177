package http

import (
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/seooptima/backend/internal/usecase"
)

const contextUserKey = "currentUser"

// CORSMiddleware handles CORS for the dashboard frontend
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		// Check if origin is allowed
		if isAllowedOrigin(origin, allowedOrigins) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
			c.Writer.Header().Set("Access-Control-Max-Age", "3600")
		}

		// Handle preflight requests
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// isAllowedOrigin checks if the origin is in the allowed list
func isAllowedOrigin(origin string, allowedOrigins []string) bool {
	for _, allowed := range allowedOrigins {
		// Support wildcard matching for local development origins
		if strings.HasSuffix(allowed, "*") {
			prefix := strings.TrimSuffix(allowed, "*")
			if strings.HasPrefix(origin, prefix) {
				return true
			}
		} else if origin == allowed {
			return true
		}
	}
	return false
}

// LoggerMiddleware logs requests (simple version for now)
func LoggerMiddleware() gin.HandlerFunc {
	return gin.Logger()
}

// RecoveryMiddleware recovers from panics
func RecoveryMiddleware() gin.HandlerFunc {
	return gin.Recovery()
}

// AuthMiddleware resolves the bearer token to a user and attaches it to
// the request context. Requests without a valid session get 401.
func AuthMiddleware(auth *usecase.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		user, err := auth.UserFromSession(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired session"})
			return
		}

		c.Set(contextUserKey, user)
		c.Next()
	}
}

// ipLimiters keeps one token bucket per client IP.
type ipLimiters struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	perMin   int
}

func (l *ipLimiters) limiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.limiters[ip]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(float64(l.perMin)/60), l.perMin)
		l.limiters[ip] = limiter
	}
	return limiter
}

// RateLimitMiddleware limits each client IP to perMin requests per
// minute, with a burst of the same size. A non-positive limit disables
// rate limiting.
func RateLimitMiddleware(perMin int) gin.HandlerFunc {
	if perMin <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	limiters := &ipLimiters{limiters: map[string]*rate.Limiter{}, perMin: perMin}
	return func(c *gin.Context) {
		if !limiters.limiter(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
