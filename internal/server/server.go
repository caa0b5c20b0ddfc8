// Package server provides the web front end for the resume form. Each browser
// session owns one form controller.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/resume-form/internal/form"
	"github.com/jonathan/resume-form/internal/imagecapture"
	"github.com/jonathan/resume-form/internal/server/middleware"
	"github.com/jonathan/resume-form/internal/server/ratelimit"
)

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	sessions    *SessionStore
	rateLimiter *ratelimit.Limiter
	validate    *validator.Validate
	page        *template.Template
	maxUpload   int64
}

// Config holds server configuration
type Config struct {
	Port          int
	SessionTTL    time.Duration
	FormOptions   *form.Options
	RateLimit     *ratelimit.Config
	SecureCookies bool
}

// New creates a new server instance. Every session's controller submits
// through submitter.
func New(cfg Config, submitter form.Submitter) (*Server, error) {
	page, err := parsePage()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	formOpts := cfg.FormOptions
	if formOpts == nil {
		formOpts = &form.Options{}
	}
	maxImage := imagecapture.DefaultMaxBytes
	if formOpts.Image != nil && formOpts.Image.MaxBytes > 0 {
		maxImage = formOpts.Image.MaxBytes
	}

	rlConfig := cfg.RateLimit
	if rlConfig == nil {
		rlConfig = ratelimit.LoadConfig()
	}

	s := &Server{
		sessions: NewSessionStore(cfg.SessionTTL, func() *form.Controller {
			return form.New(submitter, formOpts)
		}),
		rateLimiter: ratelimit.NewLimiter(rlConfig),
		validate:    validator.New(),
		page:        page,
		// Both images plus the multipart envelope.
		maxUpload: 2*maxImage + 1<<20,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /form/state", s.handleState)
	mux.HandleFunc("POST /form/profile", s.handleProfile)
	mux.HandleFunc("POST /form/edits", s.handleEdits)
	mux.HandleFunc("POST /form/images", s.handleImages)
	mux.HandleFunc("POST /form/images/{target}", s.handleImage)
	mux.HandleFunc("POST /form/sections/{section}/items", s.handleAddItem)
	mux.HandleFunc("POST /form/sections/{section}/items/{index}", s.handleSetItem)
	mux.HandleFunc("POST /form/sections/{section}/items/{index}/delete", s.handleRemoveItem)
	mux.HandleFunc("POST /form/notice/dismiss", s.handleDismissNotice)
	mux.HandleFunc("POST /form/submit", s.handleSubmit)
	mux.HandleFunc("POST /form/submit/stream", s.handleSubmitStream)
	mux.HandleFunc("GET /health", s.handleHealth)

	sessionTTL := cfg.SessionTTL
	s.handler = middleware.Chain(mux,
		s.withRateLimit,
		s.withLogging,
		middleware.SecurityHeaders(middleware.SecurityHeadersConfig{
			ContentSecurityPolicy: middleware.DefaultContentSecurityPolicy,
		}),
		middleware.Session(middleware.SessionOptions{MaxAge: sessionTTL, Secure: cfg.SecureCookies}),
	)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second, // Covers the outbound submit timeout
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start begins listening for requests and blocks until SIGINT or SIGTERM.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[server] Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		s.Close()
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}
	log.Println("[server] Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.Close()
	log.Println("[server] Server stopped")
	return nil
}

// Close stops the background goroutines of the session store and rate limiter.
func (s *Server) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if s.sessions != nil {
		s.sessions.Stop()
	}
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)
		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)

		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.sessions.Len(),
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[server] Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// extractClientID extracts the client identifier from the request.
// This uses the IP address from RemoteAddr.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
	}

	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Round(time.Second).Seconds())
		if seconds < 1 {
			seconds = 1
		}
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d RetryAfter=%v", info.Limit, info.RetryAfter)

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
