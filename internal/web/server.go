// Package web serves the operator console: a JSON API for list screens,
// exports, membership import and the session lifecycle, plus HTML pages for
// the list screens and import results.
package web

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/JonMunkholm/crmdesk/internal/config"
	"github.com/JonMunkholm/crmdesk/internal/core"
	"github.com/JonMunkholm/crmdesk/internal/crmapi"
	"github.com/JonMunkholm/crmdesk/internal/logging"
	"github.com/JonMunkholm/crmdesk/internal/session"
	mw "github.com/JonMunkholm/crmdesk/internal/web/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Authenticator is the part of the backend that signs operators in.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*crmapi.LoginResult, error)
	Me(ctx context.Context) (*core.User, error)
	ChangePassword(ctx context.Context, form core.PasswordChangeForm) error
}

// API is everything the console relays to the backend directly.
type API interface {
	Authenticator
	Records
}

var _ API = (*crmapi.Client)(nil)

// Server is the HTTP server of the console.
type Server struct {
	service  *core.Service
	auth     Authenticator
	records  Records
	sessions *session.Manager
	cfg      *config.Config
	router   *chi.Mux
	server   *http.Server
	limiter  *mw.RateLimiter
}

// NewServer wires routes and middleware.
func NewServer(service *core.Service, api API, sessions *session.Manager, cfg *config.Config) *Server {
	s := &Server{
		service:  service,
		auth:     api,
		records:  api,
		sessions: sessions,
		cfg:      cfg,
		router:   chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(mw.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(mw.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))
	s.router.Use(s.securityHeaders)

	if s.cfg.Rate.Enabled {
		s.limiter = mw.NewRateLimiter(s.cfg.Rate.RequestsPerMinute, time.Minute)
		s.router.Use(s.limiter.Middleware)
	}
}

func (s *Server) setupRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		r.Use(mw.APIKeyAuth(&s.cfg.Security))

		r.Get("/health", s.handleHealth)

		r.Route("/session", func(r chi.Router) {
			r.Get("/", s.handleSession)
			r.Post("/login", s.handleLogin)
			r.Post("/logout", s.handleLogout)
			r.With(mw.RequireSession(s.sessions.Token)).Patch("/password", s.handleChangePassword)
		})

		r.Group(func(r chi.Router) {
			r.Use(mw.RequireSession(s.sessions.Token))

			r.Get("/screens", s.handleScreens)

			// Imports
			r.Post("/memberships/import", s.handleImport)
			r.Get("/imports/history", s.handleImportHistory)
			r.Get("/imports/template", s.handleImportTemplate)
			r.Get("/imports/status", s.handleImportStatus)

			r.Get("/settlements/summary", s.handleSettlementSummary)

			// Creates
			r.Post("/customers", s.handleCreateCustomer)
			r.Post("/leads", s.handleCreateLead)
			r.Post("/memberships", s.handleCreateMembership)
			r.Post("/branches", s.handleCreateBranch)

			s.setupRecordRoutes(r)

			// One list and one export route per registered screen.
			for _, screen := range core.Screens() {
				r.Get("/"+screen.Key, s.handleList(screen.Key))
				r.Get("/"+screen.Key+"/export", s.handleExport(screen.Key))
			}
		})
	})

	// HTML pages
	s.router.Route("/console", func(r chi.Router) {
		r.Use(mw.APIKeyAuth(&s.cfg.Security))
		r.Use(mw.RequireSession(s.sessions.Token))

		r.Get("/{screen}", s.handleListPage)
		r.Post("/memberships/import", s.handleImportPage)
	})
}

// Start listens on the configured address until Shutdown.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.limiter != nil {
		s.limiter.Close()
	}
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds hardening headers to every response.
func (s *Server) securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		if s.cfg.Security.EnableCSP {
			w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON encodes v with status. Encoding errors are logged since headers are already sent.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(r.Context()).Error("json encode error", "error", err)
	}
}
