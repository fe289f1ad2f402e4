package server

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/abhisek/pathmind/internal/identity"
	"github.com/abhisek/pathmind/internal/logger"
)

const (
	userHeader  = "X-User-ID"
	userCookie  = "pathmind_uid"
	identityKey = "pathmind.identity"

	cookieMaxAge = 365 * 24 * 60 * 60
)

// RequestLogger logs one line per request, at warn or error level for
// failed ones.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		fields := []any{
			"method", strings.ToUpper(c.Request.Method),
			"path", path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if id, ok := c.Get(identityKey); ok {
			fields = append(fields, "user_id", id.(identity.Identity).String())
		}

		switch {
		case status >= 500:
			log.Error("HTTP request", fields...)
		case status >= 400:
			log.Warn("HTTP request", fields...)
		default:
			log.Info("HTTP request", fields...)
		}
	}
}

// Recovery turns a panic into a logged 500.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error("panic recovered", "path", c.Request.URL.Path, "panic", recovered)
		internalError(c)
	})
}

// CORS allows the configured browser origins.
func CORS(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", userHeader},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

// Identity resolves the caller from the X-User-ID header or the
// pathmind_uid cookie and issues a new anonymous cookie when neither is
// present.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h := c.GetHeader(userHeader); h != "" {
			id, err := identity.Parse(h)
			if err != nil {
				badRequest(c, "Invalid user id")
				return
			}
			setIdentity(c, id)
			return
		}

		if v, err := c.Cookie(userCookie); err == nil {
			if id, err := identity.Parse(v); err == nil {
				setIdentity(c, id)
				return
			}
		}

		id := identity.Anonymous()
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(userCookie, id.String(), cookieMaxAge, "/", "", false, true)
		setIdentity(c, id)
	}
}

func setIdentity(c *gin.Context, id identity.Identity) {
	c.Set(identityKey, id)
	c.Request = c.Request.WithContext(identity.WithIdentity(c.Request.Context(), id))
	c.Next()
}

func currentIdentity(c *gin.Context) identity.Identity {
	v, _ := c.Get(identityKey)
	id, _ := v.(identity.Identity)
	return id
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter limits each client to rps requests per second with the
// given burst. Clients are keyed by identity, else by IP.
type RateLimiter struct {
	rps   rate.Limit
	burst int

	mu       sync.Mutex
	visitors map[string]*visitor
	now      func() time.Time
}

// NewRateLimiter creates a limiter. rps <= 0 disables limiting.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		rps:      rate.Limit(rps),
		burst:    burst,
		visitors: make(map[string]*visitor),
		now:      time.Now,
	}
}

// Middleware enforces the limit.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.rps <= 0 {
			c.Next()
			return
		}
		key := c.ClientIP()
		if id := currentIdentity(c); !id.IsZero() {
			key = id.String()
		}
		if !rl.limiter(key).Allow() {
			fail(c, http.StatusTooManyRequests, "Too many requests. Please slow down.")
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, ok := rl.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.visitors[key] = v
	}
	v.lastSeen = rl.now()
	return v.limiter
}

// Sweep forgets clients idle for longer than idle.
func (rl *RateLimiter) Sweep(idle time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-idle)
	for k, v := range rl.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(rl.visitors, k)
		}
	}
}
