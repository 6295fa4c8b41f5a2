package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sophro-cabinet/site-backend/pkg/metrics"
	"golang.org/x/time/rate"
)

// per-key limiter store (simple in-memory token-bucket)
type limiterStore struct {
	m     sync.Map // map[string]*rate.Limiter
	every rate.Limit
	burst int
}

func (s *limiterStore) get(key string) *rate.Limiter {
	if v, ok := s.m.Load(key); ok {
		return v.(*rate.Limiter)
	}
	v, _ := s.m.LoadOrStore(key, rate.NewLimiter(s.every, s.burst))
	return v.(*rate.Limiter)
}

// RateLimitMiddleware allows max requests per window and key, refilled continuously.
// Key selection: the authenticated admin when present, otherwise the client IP.
func RateLimitMiddleware(max int, window time.Duration) gin.HandlerFunc {
	if max <= 0 {
		max = 1
	}
	if window <= 0 {
		window = time.Second
	}
	store := &limiterStore{every: rate.Every(window / time.Duration(max)), burst: max}
	retry := strconv.Itoa(int((window / time.Duration(max)).Seconds()) + 1)
	return func(c *gin.Context) {
		if !store.get(rateKey(c)).Allow() {
			c.Header("Retry-After", retry)
			metrics.RateLimitRejected.WithLabelValues("memory").Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"success": false, "error": "Trop de requêtes, veuillez réessayer plus tard."})
			return
		}
		metrics.RateLimitAllowed.WithLabelValues("memory").Inc()
		c.Next()
	}
}
