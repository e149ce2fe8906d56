package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/levenlabs/go-lflag"
	"github.com/peakguard/peakguard/pkg/controller"
	"github.com/peakguard/peakguard/pkg/log"
	"github.com/peakguard/peakguard/pkg/predictor"
	"github.com/peakguard/peakguard/pkg/session"
	"github.com/peakguard/peakguard/pkg/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// tokenVerifier is a function that validates an OIDC ID Token.
type tokenVerifier func(ctx context.Context, rawIDToken string) (*oidc.IDToken, error)

// Server handles the HTTP API for the interactive operator shell. Every
// request is bound to a session whose toggles feed the evaluation.
type Server struct {
	catalog    *storage.Catalog
	controller *controller.Controller
	sessions   *session.Map
	metrics    *metrics
	registry   *prometheus.Registry

	listenAddr  string
	httpServer  *http.Server
	verifier    tokenVerifier
	secure      bool
	idleTimeout time.Duration
	now         func() time.Time
}

// New creates a Server. It's used by Configured and tests.
func New(p controller.LoadPredictor, db storage.Database) *Server {
	s := &Server{
		catalog:     storage.NewCatalog(db),
		sessions:    session.NewMap(),
		registry:    prometheus.NewRegistry(),
		idleTimeout: 2 * time.Hour,
		now:         time.Now,
	}
	if p != nil {
		s.controller = controller.NewController(p)
	}
	s.metrics = newMetrics(s.registry, s.sessions)
	return s
}

// Configured initializes the Server with dependencies.
// It uses lflag to register command-line flags for configuration.
// The predictor must already be configured since the controller is created
// once flags are parsed.
func Configured(p *predictor.Predictor, db storage.Database) *Server {
	srv := New(nil, db)

	// get the port from PORT when running in cloud run
	port := os.Getenv("PORT")
	if port == "" {
		// otherwise default to 8080
		port = "8080"
	}

	listenAddr := lflag.String("http-listen", ":"+port, "HTTP server listen address")
	oidcIssuer := lflag.String("oidc-issuer", "https://accounts.google.com", "Issuer of the operator ID tokens")
	oidcAudience := lflag.String("oidc-audience", "", "Audience to validate operator ID tokens against. Empty disables auth.")
	cookieSecure := lflag.Bool("session-cookie-secure", true, "Set the Secure attribute on the session cookie")
	idleTimeout := lflag.Duration("session-idle-timeout", 2*time.Hour, "Remove sessions that haven't been used for this long")

	lflag.Do(func() {
		srv.listenAddr = *listenAddr
		srv.secure = *cookieSecure
		srv.idleTimeout = *idleTimeout
		srv.controller = controller.NewController(p)

		if *oidcAudience != "" {
			provider, err := oidc.NewProvider(context.Background(), *oidcIssuer)
			if err != nil {
				log.Ctx(context.Background()).Error("failed to initialize OIDC provider", slog.String("issuer", *oidcIssuer), slog.Any("error", err))
				os.Exit(1)
			}
			srv.verifier = provider.Verifier(&oidc.Config{ClientID: *oidcAudience}).Verify
		}
	})

	return srv
}

func (s *Server) setupHandler() http.Handler {
	apiMux := http.NewServeMux()
	s.handle(apiMux, "GET /api/archetypes", s.handleListArchetypes)
	s.handle(apiMux, "GET /api/defaults", s.handleDefaults)
	s.handle(apiMux, "GET /api/tariffs", s.handleListTariffs)
	s.handle(apiMux, "POST /api/evaluate", s.handleEvaluate)
	s.handle(apiMux, "POST /api/report", s.handleReport)
	s.handle(apiMux, "GET /api/toggles", s.handleGetToggles)
	s.handle(apiMux, "POST /api/toggles", s.handleSetToggle)
	s.handle(apiMux, "POST /api/toggles/reset", s.handleResetToggles)

	mux := http.NewServeMux()
	mux.Handle("/api/", s.authMiddleware(s.sessionMiddleware(apiMux)))
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", s.handleHealthz)
	return gziphandler.GzipHandler(s.securityHeadersMiddleware(mux))
}

// Run starts the HTTP server and blocks until the context is canceled or an error occurs.
// It also handles graceful shutdown when the context is done.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:         s.listenAddr,
		Handler:      s.setupHandler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	go s.pruneSessions(ctx, time.Minute)

	// use a channel to capturing server errors
	errChan := make(chan error, 1)
	go func() {
		defer close(errChan)
		log.Ctx(ctx).InfoContext(ctx, "starting server", slog.String("addr", s.listenAddr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		// Context canceled, shut down gracefully
		log.Ctx(ctx).InfoContext(ctx, "shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	}
}

func (s *Server) pruneSessions(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.sessions.Prune(s.now().Add(-s.idleTimeout)); n > 0 {
				log.Ctx(ctx).DebugContext(ctx, "pruned idle sessions", slog.Int("count", n))
			}
		}
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to write response", slog.Any("error", err))
		panic(http.ErrAbortHandler)
	}
}

func writeJSONError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(struct {
		Error string `json:"error"`
	}{Error: msg}); err != nil {
		slog.Warn("failed to write error response", slog.Any("error", err))
		panic(http.ErrAbortHandler)
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("ok")); err != nil {
		panic(http.ErrAbortHandler)
	}
}
