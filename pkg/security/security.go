package security

import (
	"elearn_backend/pkg/monitoring"
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// CORS echoes the Origin back only when it is allow-listed. The checkout
// page calls the API with a bearer token, so credentials are allowed.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	originSet := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		originSet[o] = true
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" && originSet[origin] {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Vary", "Origin")
		}
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, Accept, Origin, X-Requested-With")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// Secure sets browser hardening headers. Responses that carry tokens or
// payment details are marked uncacheable.
func Secure() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "same-origin")
		if c.Request.TLS != nil {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		if isSensitive(c.Request.URL.Path, DefaultSensitivePaths) {
			c.Header("Cache-Control", "no-store")
		}
		c.Next()
	}
}

// DefaultSensitivePaths are the credential and checkout endpoints. An entry
// ending in "/" matches every path below it.
var DefaultSensitivePaths = []string{
	"/api/login",
	"/api/register",
	"/api/account",
	"/api/payments/",
}

func isSensitive(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasSuffix(p, "/") {
			if strings.HasPrefix(path, p) {
				return true
			}
		} else if path == p {
			return true
		}
	}
	return false
}

// Budget is Max requests per Window for one client. Max <= 0 means unlimited.
type Budget struct {
	Max    int
	Window time.Duration
}

func (b Budget) enabled() bool {
	return b.Max > 0 && b.Window > 0
}

// Limits splits traffic into a general bucket and a stricter one for
// SensitivePaths, each counted per client IP.
type Limits struct {
	General        Budget
	Sensitive      Budget
	SensitivePaths []string
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type bucket struct {
	name   string
	budget Budget
	every  rate.Limit

	mu       sync.Mutex
	visitors map[string]*visitor
}

func newBucket(name string, b Budget) *bucket {
	bk := &bucket{name: name, budget: b, visitors: make(map[string]*visitor)}
	if b.enabled() {
		bk.every = rate.Every(b.Window / time.Duration(b.Max))
	}
	return bk
}

func (b *bucket) allow(ip string) bool {
	b.mu.Lock()
	v, ok := b.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(b.every, b.budget.Max)}
		b.visitors[ip] = v
	}
	v.lastSeen = time.Now()
	b.mu.Unlock()
	return v.limiter.Allow()
}

// retryAfter is how long a client waits for one token to refill.
func (b *bucket) retryAfter() string {
	secs := math.Ceil((b.budget.Window / time.Duration(b.budget.Max)).Seconds())
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(int(secs))
}

func (b *bucket) sweep(idle time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ip, v := range b.visitors {
		if time.Since(v.lastSeen) > idle {
			delete(b.visitors, ip)
		}
	}
}

// RateLimiter enforces l. A sensitive request is charged to the sensitive
// bucket only, so a burst of logins cannot use up the general budget.
func RateLimiter(l Limits) gin.HandlerFunc {
	general := newBucket("general", l.General)
	sensitive := newBucket("sensitive", l.Sensitive)
	if !general.budget.enabled() && !sensitive.budget.enabled() {
		return func(c *gin.Context) { c.Next() }
	}

	go func() {
		idle := 3 * maxDuration(l.General.Window, l.Sensitive.Window)
		if idle < time.Minute {
			idle = time.Minute
		}
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			general.sweep(idle)
			sensitive.sweep(idle)
		}
	}()

	return func(c *gin.Context) {
		b := general
		if isSensitive(c.Request.URL.Path, l.SensitivePaths) {
			b = sensitive
		}
		if !b.budget.enabled() {
			c.Next()
			return
		}

		if !b.allow(c.ClientIP()) {
			monitoring.RateLimited.WithLabelValues(b.name).Inc()
			c.Header("Retry-After", b.retryAfter())
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":    http.StatusTooManyRequests,
				"message": "Too many requests",
			})
			return
		}
		c.Next()
	}
}

func maxDuration(a, b time.Duration) time.Duration {
	if a > b {
		return a
	}
	return b
}
