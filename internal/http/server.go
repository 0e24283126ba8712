// Package http serves the dashboard query API as JSON over HTTP.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"sync"
	"time"

	"loandash/internal/amqp"
	"loandash/internal/cache"
	"loandash/internal/engine"
	applog "loandash/internal/log"
)

// AuditPublisher forwards query audit records to the eventing layer. It is
// optional; a nil publisher disables auditing.
type AuditPublisher interface {
	PublishQueryAudit(ctx context.Context, msg *amqp.QueryAuditMessage) error
}

// Options tunes server behavior beyond the defaults.
type Options struct {
	CacheSize int
	CacheTTL  time.Duration
	Audit     AuditPublisher
	Logger    *applog.Logger
}

type Server struct {
	http.Server
	engine      *engine.Engine
	audit       AuditPublisher
	logger      *applog.Logger
	rateLimiter *rateLimiter

	// Result caches keyed by canonical query parameters. Monthly and state
	// views walk the whole portfolio; the rest are cheap enough to recompute.
	monthlyCache *cache.LRUCache[engine.MonthlyMatrix]
	statesCache  *cache.LRUCache[[]engine.StateRow]
	cacheManager *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes and caches, returning a ready-to-run server.
func NewServer(addr string, eng *engine.Engine, opts Options) *Server {
	if opts.CacheSize <= 0 {
		opts.CacheSize = 256
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 5 * time.Minute
	}
	if opts.Logger == nil {
		logCfg := applog.DefaultConfig()
		logCfg.Component = applog.ComponentHTTP
		opts.Logger = applog.New(logCfg)
	}

	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		engine:       eng,
		audit:        opts.Audit,
		logger:       opts.Logger,
		rateLimiter:  newRateLimiter(),
		monthlyCache: cache.NewLRUCache[engine.MonthlyMatrix](opts.CacheSize, opts.CacheTTL),
		statesCache:  cache.NewLRUCache[[]engine.StateRow](opts.CacheSize, opts.CacheTTL),
		cacheManager: cache.NewManager(),
	}

	s.cacheManager.Register(s.monthlyCache)
	s.cacheManager.Register(s.statesCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/api/monthly", s.withRequestContext(s.handleMonthly))
	mux.HandleFunc("/api/states", s.withRequestContext(s.handleStates))
	mux.HandleFunc("/api/categories", s.withRequestContext(s.handleCategories))
	mux.HandleFunc("/api/hierarchy", s.withRequestContext(s.handleHierarchy))
	mux.HandleFunc("/api/risk", s.withRequestContext(s.handleRisk))
	mux.HandleFunc("/api/meta", s.withRequestContext(s.handleMeta))
	mux.HandleFunc("/api/values", s.withRequestContext(s.handleValues))

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// withRequestContext wraps an API handler with the logging middleware chain,
// rate limiting, and security headers. The chain injects a request-id-tagged
// logger into the context; handlers retrieve it with applog.FromContext.
func (s *Server) withRequestContext(next http.HandlerFunc) http.HandlerFunc {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := r.Context()
		clientIP := clientAddr(r)
		sl := applog.NewStructuredLogger(applog.FromContext(ctx))

		sl.LogHTTPStart(ctx, r, clientIP)

		if !s.rateLimiter.allow(clientIP) {
			applog.FromContext(ctx).WarnContext(ctx, "Rate limit exceeded",
				applog.NewFields().WithClientIP(clientIP).WithOperation(r.URL.Path).ToSlice()...)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		sl.LogHTTPEnd(ctx, r, rw.statusCode, time.Since(start).Milliseconds(), clientIP)
	})

	chain := applog.Middleware(s.logger)(applog.RequestIDMiddleware(requestID)(inner))
	return chain.ServeHTTP
}

// clientAddr resolves the client address behind common proxy headers.
func clientAddr(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

// requestID honors a caller-supplied X-Request-ID header, minting an id
// otherwise.
func requestID(r *http.Request) string {
	if id := r.Header.Get("X-Request-ID"); id != "" {
		return id
	}
	return generateRequestID()
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// generateRequestID creates a unique request ID for tracing
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.engine == nil || s.engine.Dataset() == nil {
		writeError(w, http.StatusServiceUnavailable, "dataset not loaded")
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// finishQuery logs a served query and forwards the audit record.
func (s *Server) finishQuery(r *http.Request, view string, p QueryParams, rowCount int, start time.Time) {
	ctx := r.Context()
	sl := applog.NewStructuredLogger(applog.FromContext(ctx))
	sl.LogQueryServed(ctx, view, p.Start, p.End, rowCount, time.Since(start).Milliseconds())
	s.publishAudit(ctx, view, r.URL.RawQuery, rowCount, start)
}

// publishAudit sends a query audit record when auditing is enabled. Failures
// are logged and swallowed so auditing never affects responses.
func (s *Server) publishAudit(ctx context.Context, view, params string, rowCount int, start time.Time) {
	if s.audit == nil {
		return
	}
	msg := amqp.NewQueryAuditMessage(view, params, rowCount, time.Since(start))
	if err := s.audit.PublishQueryAudit(ctx, msg); err != nil {
		applog.FromContext(ctx).WarnContext(ctx, "Query audit publish failed", "view", view, "error", err)
	}
}
