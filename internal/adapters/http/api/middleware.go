package api

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/okian/alumnet/internal/domain/dedupe"
	"github.com/okian/alumnet/pkg/logger"
	"github.com/okian/alumnet/pkg/metrics"
)

// HTTP status code constants.
const (
	statusBadRequest      = 400
	statusNotFound        = 404
	statusTooManyRequests = 429
	statusInternalError   = 500
)

// Request headers.
const (
	HeaderUserID         = "X-User-ID"
	HeaderIdempotencyKey = "Idempotency-Key"
	HeaderReplay         = "Idempotent-Replay"
)

// MetricsMiddleware records Prometheus metrics per route pattern.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		endpoint := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			endpoint = rc.RoutePattern()
		}
		durationMs := float64(time.Since(start).Microseconds()) / 1000
		statusCodeStr := strconv.Itoa(wrapped.statusCode)

		metrics.RecordHTTPRequest(endpoint, r.Method, statusCodeStr)
		metrics.RecordHTTPRequestDuration(endpoint, r.Method, statusCodeStr, durationMs)
		if wrapped.statusCode >= statusBadRequest {
			metrics.RecordErrorByComponent("api", getErrorType(wrapped.statusCode))
		}
	})
}

// getErrorType returns a standardized error type based on HTTP status code.
func getErrorType(statusCode int) string {
	switch {
	case statusCode >= statusInternalError:
		return "server_error"
	case statusCode == statusTooManyRequests:
		return "rate_limit"
	case statusCode == statusNotFound:
		return "not_found"
	case statusCode >= statusBadRequest:
		return "client_error"
	default:
		return "unknown"
	}
}

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	if err != nil {
		return n, fmt.Errorf("failed to write response: %w", err)
	}
	return n, nil
}

func (rw *responseWriter) Unwrap() http.ResponseWriter { return rw.ResponseWriter }

// Hijack lets websocket upgrades pass through the wrapper.
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	rw.statusCode = http.StatusSwitchingProtocols
	return h.Hijack()
}

func requestLogger(l logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ctx := logger.WithRequestID(r.Context(), middleware.GetReqID(r.Context()))
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))
			l.Debug(ctx, "request",
				logger.String("method", r.Method),
				logger.String("path", r.URL.Path),
				logger.Int("status", ww.Status()),
				logger.Duration("duration", time.Since(start)),
			)
		})
	}
}

type userKey struct{}

// UserID returns the caller identity set by RequireUser.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userKey{}).(string)
	return id
}

// RequireUser rejects requests without an X-User-ID header.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderUserID)
		if id == "" {
			writeError(w, NewKind("api.identity", ErrUnauthorized))
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey{}, id)))
	})
}

// captureWriter buffers the body of a response so it can be cached.
type captureWriter struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (c *captureWriter) WriteHeader(code int) {
	c.status = code
	c.ResponseWriter.WriteHeader(code)
}

func (c *captureWriter) Write(b []byte) (int, error) {
	if c.status == 0 {
		c.status = http.StatusOK
	}
	c.body.Write(b)
	return c.ResponseWriter.Write(b)
}

// Idempotency replays the cached response of a mutating request retried
// with the same Idempotency-Key. Keys are scoped per user, method and path.
// Only 2xx responses are cached; anything else may be retried.
func Idempotency(d dedupe.Deduper) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(HeaderIdempotencyKey)
			if key == "" || r.Method == http.MethodGet || r.Method == http.MethodHead {
				next.ServeHTTP(w, r)
				return
			}
			scoped := UserID(r.Context()) + " " + r.Method + " " + r.URL.Path + " " + key

			state, cached := d.Begin(r.Context(), scoped)
			switch state {
			case dedupe.Completed:
				metrics.RecordIdempotentReplay()
				w.Header().Set("Content-Type", cached.ContentType)
				w.Header().Set(HeaderReplay, "true")
				w.WriteHeader(cached.Status)
				_, _ = w.Write(cached.Body)
				return
			case dedupe.InFlight:
				writeError(w, NewKind("api.idempotency", ErrInFlight))
				return
			}

			defer func() {
				if p := recover(); p != nil {
					d.Unrecord(r.Context(), scoped)
					panic(p)
				}
			}()
			cw := &captureWriter{ResponseWriter: w}
			next.ServeHTTP(cw, r)
			if cw.status >= 200 && cw.status < 300 {
				d.Complete(r.Context(), scoped, dedupe.Response{
					Status:      cw.status,
					ContentType: w.Header().Get("Content-Type"),
					Body:        cw.body.Bytes(),
				})
				return
			}
			d.Unrecord(r.Context(), scoped)
		})
	}
}

// limiterIdleTTL is how long an unused bucket is kept.
const limiterIdleTTL = 10 * time.Minute

type bucket struct {
	lim  *rate.Limiter
	seen time.Time
}

// userLimiter keeps one token bucket per user. Buckets that are full again or
// idle past limiterIdleTTL are swept, so spoofed ids cannot grow the map
// without bound.
type userLimiter struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	buckets   map[string]*bucket
	lastSweep time.Time
	now       func() time.Time
}

func newUserLimiter(perSec float64, burst int) *userLimiter {
	return &userLimiter{
		limit:   rate.Limit(perSec),
		burst:   burst,
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

func (u *userLimiter) allow(id string) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	now := u.now()
	u.sweep(now)
	b, ok := u.buckets[id]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(u.limit, u.burst)}
		u.buckets[id] = b
	}
	b.seen = now
	return b.lim.AllowN(now, 1)
}

// sweep drops buckets whose removal cannot change a later decision. It runs
// at most once a minute.
func (u *userLimiter) sweep(now time.Time) {
	if now.Sub(u.lastSweep) < time.Minute {
		return
	}
	u.lastSweep = now
	for id, b := range u.buckets {
		if now.Sub(b.seen) > limiterIdleTTL || b.lim.TokensAt(now) >= float64(u.burst) {
			delete(u.buckets, id)
		}
	}
}

func (u *userLimiter) size() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.buckets)
}

// Middleware answers 429 once the caller's bucket is empty.
func (u *userLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !u.allow(UserID(r.Context())) {
			endpoint := r.URL.Path
			if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
				endpoint = rc.RoutePattern()
			}
			metrics.RecordRateLimited(endpoint)
			w.Header().Set("Retry-After", strconv.Itoa(int(1/float64(u.limit))+1))
			writeError(w, NewKind("api.rate_limit", ErrRateLimited))
			return
		}
		next.ServeHTTP(w, r)
	})
}
