package http

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	applog "fintrack/internal/log"
	"fintrack/internal/services"
)

type Server struct {
	http.Server
	service     *services.TransactionService
	logger      *applog.Logger
	structured  *applog.StructuredLogger
	rateLimiter *rateLimiter
	metrics     *securityMetrics

	shutdownOnce sync.Once
}

type serverOptions struct {
	rateLimit       int
	rateLimitWindow time.Duration
}

// Option customizes a Server built by NewServer.
type Option func(*serverOptions)

// WithRateLimit bounds the transactions one client IP may record per window.
// Non-positive values keep the defaults.
func WithRateLimit(limit int, window time.Duration) Option {
	return func(o *serverOptions) {
		o.rateLimit = limit
		o.rateLimitWindow = window
	}
}

// NewServer configures routes, returning a ready-to-run http.Server.
func NewServer(addr string, svc *services.TransactionService, logger *applog.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	logger = logger.WithComponent(applog.ComponentHTTP)

	var o serverOptions
	for _, opt := range opts {
		opt(&o)
	}

	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: applog.Middleware(logger)(mux),
		},
		service:     svc,
		logger:      logger,
		structured:  applog.NewStructuredLogger(logger),
		rateLimiter: newRateLimiter(o.rateLimit, o.rateLimitWindow),
		metrics:     &securityMetrics{},
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/transactions", s.withSecurityHeaders(s.handleTransactions))
	mux.HandleFunc("/transactions/all", s.withSecurityHeaders(s.handleAllTransactions))
	mux.HandleFunc("/export.xlsx", s.withSecurityHeaders(s.handleExportXLSX))
	mux.HandleFunc("/export.csv", s.withSecurityHeaders(s.handleExportCSV))

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}

		hits, suspicious := s.metrics.snapshot()
		s.logger.InfoContext(ctx, "HTTP server shutting down",
			"rate_limit_hits", hits,
			"suspicious_requests", suspicious)

		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// withSecurityHeaders adds security headers, rate limiting, and request logging to responses
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := extractClientIP(r)
		requestID := generateRequestID()

		ctx := applog.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)
		logger := applog.FromContext(ctx)

		logger.DebugContext(ctx, "Request started",
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP)

		if reason := detectSuspiciousRequest(r, s.metrics); reason != "" {
			logger.WarnContext(ctx, "Suspicious request detected",
				"reason", reason,
				"client_ip", clientIP,
				"method", r.Method,
				"url", r.URL.Path,
				"user_agent", r.Header.Get("User-Agent"))
		}

		if r.Method == http.MethodPost && !s.rateLimiter.allow(clientIP, s.metrics) {
			logger.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			ErrorResponse(http.StatusTooManyRequests, "rate limit exceeded, try again later").
				Header("Retry-After", strconv.Itoa(s.rateLimiter.retryAfter(clientIP))).
				Write(w)
			return
		}

		w.Header().Set("X-Request-ID", requestID)
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Cache-Control", "no-store")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		s.structured.LogHTTPEnd(ctx, r, rw.statusCode, time.Since(start).Milliseconds(), clientIP)
	}
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
