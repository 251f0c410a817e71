package middleware

import (
	"fmt"
	"log/slog"
	"mime"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/information-sharing-networks/blog-api/internal/blog"
	"github.com/information-sharing-networks/blog-api/internal/logger"
)

// JSONBody guards the routes that accept a post in the request body (POST and PUT).
//
// Requests whose Content-Length is over maxBytes are rejected with 413 before the handler runs;
// bodies without a Content-Length are wrapped in http.MaxBytesReader so the handler's decoder
// fails with *http.MaxBytesError instead. A Content-Type other than application/json is
// rejected with 415 (a missing Content-Type is accepted).
//
// Responses carry X-Max-Request-Size so clients can discover the limit.
func JSONBody(maxBytes int64) func(http.Handler) http.Handler {
	limit := strconv.FormatInt(maxBytes, 10)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Max-Request-Size", limit)

			if r.ContentLength > maxBytes {
				blog.RespondWithErrorResponse(w, r, blog.NewRequestTooLargeError(
					fmt.Sprintf("Request body size (%d bytes) exceeds maximum allowed size (%d bytes)", r.ContentLength, maxBytes),
				))
				return
			}

			if ct := r.Header.Get("Content-Type"); ct != "" {
				mediaType, _, err := mime.ParseMediaType(ct)
				if err != nil || mediaType != "application/json" {
					blog.RespondWithErrorResponse(w, r, blog.NewUnsupportedMediaTypeError(ct))
					return
				}
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// SecurityHeaders sets the response headers for a JSON only API.
// HSTS is only sent in prod and staging, where the service sits behind TLS.
func SecurityHeaders(environment string) func(http.Handler) http.Handler {
	sendHSTS := environment == "prod" || environment == "staging"

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
			h.Set("Referrer-Policy", "no-referrer")
			h.Set("Cache-Control", "no-store")

			if sendHSTS {
				h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIdleTTL is how long a client's limiter is kept after its last request
const clientIdleTTL = 10 * time.Minute

// clientLimiters holds a token bucket per client address
type clientLimiters struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	clients   map[string]*clientLimiter
	lastSweep time.Time
	now       func() time.Time
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newClientLimiters(requestsPerSecond int32, burst int32) *clientLimiters {
	return &clientLimiters{
		limit:   rate.Limit(requestsPerSecond),
		burst:   int(burst),
		clients: make(map[string]*clientLimiter),
		now:     time.Now,
	}
}

// allow reports whether client may make a request now.
// Limiters idle for longer than clientIdleTTL are dropped.
func (c *clientLimiters) allow(client string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if now.Sub(c.lastSweep) > clientIdleTTL {
		for key, cl := range c.clients {
			if now.Sub(cl.lastSeen) > clientIdleTTL {
				delete(c.clients, key)
			}
		}
		c.lastSweep = now
	}

	cl, ok := c.clients[client]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(c.limit, c.burst)}
		c.clients[client] = cl
	}
	cl.lastSeen = now
	return cl.limiter.AllowN(now, 1)
}

func (c *clientLimiters) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.clients)
}

// clientAddress returns the client IP. chi's RealIP middleware replaces RemoteAddr
// with the X-Real-IP / X-Forwarded-For address (no port) when the proxy sets one.
func clientAddress(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimit limits each client IP to requestsPerSecond with the given burst.
// If requestsPerSecond <= 0, rate limiting is disabled.
func RateLimit(requestsPerSecond int32, burst int32) func(http.Handler) http.Handler {
	if requestsPerSecond <= 0 {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	return rateLimit(newClientLimiters(requestsPerSecond, burst))
}

func rateLimit(limiters *clientLimiters) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			client := clientAddress(r)
			if limiters.allow(client) {
				next.ServeHTTP(w, r)
				return
			}

			logger.ContextRequestLogger(r.Context()).Warn("Rate limit exceeded",
				slog.String("component", "RateLimit"),
				slog.String("client", client),
			)
			logger.ContextWithLogAttrs(r.Context(), slog.String("client", client))

			w.Header().Set("Retry-After", "1")
			blog.RespondWithErrorResponse(w, r, blog.NewRateLimitError("Too many requests. Please try again later."))
		})
	}
}
