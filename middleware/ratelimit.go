// Package middleware provides the HTTP middleware of the filter service:
// request ids, access logging and an in-memory token bucket rate limiter.
// The limiter is per instance and not distributed.
package middleware

import (
	"context"
	"net/http"
	"net/netip"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// bucket represents a token bucket for a specific client and route.
type bucket struct {
	capacity   int
	tokens     float64
	ratePerSec float64
	lastAccess time.Time
}

// Rule defines the rate-limiting parameters for a specific route.
type Rule struct {
	Capacity int           // The maximum number of tokens the bucket can hold.
	Refill   time.Duration // The time it takes to generate one new token.
}

// Limiter manages rate-limiting rules and active token buckets.
type Limiter struct {
	mu      sync.Mutex
	rules   map[string]Rule    // Key: "METHOD route"
	buckets map[string]*bucket // Key: "METHOD route|ip"
	now     func() time.Time
	// trusted proxies whose forwarding headers identify the client
	trusted []netip.Prefix
}

// NewRateLimiter creates a Limiter whose stale buckets are collected in the
// background until ctx is done.
func NewRateLimiter(ctx context.Context, cleanupInterval, staleThreshold time.Duration) *Limiter {
	l := &Limiter{
		rules:   make(map[string]Rule),
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
	go l.cleanupStaleBuckets(ctx, cleanupInterval, staleThreshold)
	return l
}

// TrustProxies makes the limiter identify clients by their forwarding
// headers when a request comes through one of prefixes.
func (l *Limiter) TrustProxies(prefixes ...netip.Prefix) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.trusted = append(l.trusted[:0:0], prefixes...)
}

func (l *Limiter) trustedProxies() []netip.Prefix {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.trusted
}

// AddRule adds a new rate-limiting rule for a given method and route.
func (l *Limiter) AddRule(method, route string, rule Rule) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rules[method+" "+route] = rule
}

// Allow checks if a request is permitted under the configured rate limits.
func (l *Limiter) Allow(method, route, ip string) bool {
	key := method + " " + route
	l.mu.Lock()
	defer l.mu.Unlock()

	rule, ok := l.rules[key]
	if !ok || rule.Capacity <= 0 || rule.Refill <= 0 {
		return true
	}

	now := l.now()
	bucketKey := key + "|" + ip
	bk, exists := l.buckets[bucketKey]
	if !exists {
		bk = &bucket{
			capacity:   rule.Capacity,
			tokens:     float64(rule.Capacity),
			ratePerSec: 1.0 / rule.Refill.Seconds(),
			lastAccess: now,
		}
		l.buckets[bucketKey] = bk
	}

	bk.tokens += now.Sub(bk.lastAccess).Seconds() * bk.ratePerSec
	if bk.tokens > float64(bk.capacity) {
		bk.tokens = float64(bk.capacity)
	}
	bk.lastAccess = now

	if bk.tokens >= 1.0 {
		bk.tokens--
		return true
	}
	return false
}

func (l *Limiter) cleanupStaleBuckets(ctx context.Context, interval, threshold time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.sweep(threshold)
		}
	}
}

func (l *Limiter) sweep(threshold time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	for key, bk := range l.buckets {
		if now.Sub(bk.lastAccess) > threshold {
			delete(l.buckets, key)
		}
	}
}

// RateLimit enforces the limiter's rule for route. Rejected requests get
// 429 with a Retry-After header and are passed to reject, which writes the
// body.
func RateLimit(limiter *Limiter, route string, log *zerolog.Logger, reject http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r, limiter.trustedProxies())
			if !limiter.Allow(r.Method, route, ip) {
				log.Warn().Str("ip", ip).Str("route", route).Msg("Rate limit exceeded")
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter(limiter, r.Method, route)))
				reject(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func retryAfter(l *Limiter, method, route string) int {
	l.mu.Lock()
	rule := l.rules[method+" "+route]
	l.mu.Unlock()
	return max(int(rule.Refill.Round(time.Second)/time.Second), 1)
}
