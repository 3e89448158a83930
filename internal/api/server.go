package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/nerrad567/currently-core/internal/audit"
	"github.com/nerrad567/currently-core/internal/auth"
	"github.com/nerrad567/currently-core/internal/catalogue"
	"github.com/nerrad567/currently-core/internal/household"
	"github.com/nerrad567/currently-core/internal/infrastructure/config"
	"github.com/nerrad567/currently-core/internal/infrastructure/influxdb"
	"github.com/nerrad567/currently-core/internal/infrastructure/logging"
	"github.com/nerrad567/currently-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/currently-core/internal/usage"
)

// gracefulShutdownTimeout bounds how long Close waits for in-flight requests.
const gracefulShutdownTimeout = 10 * time.Second

// EventPublisher receives a change event after every successful write.
// *mqtt.Client satisfies it.
type EventPublisher interface {
	PublishChange(userID string, resource mqtt.Resource, action mqtt.Action, data any) error
}

// EstimateWriter records appliance estimates. *influxdb.Client satisfies it.
type EstimateWriter interface {
	WriteEstimate(e influxdb.Estimate)
}

// HealthChecker is anything the health endpoint can check.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Deps holds the server's collaborators.
type Deps struct {
	Config     config.APIConfig
	Logger     *logging.Logger
	Auth       *auth.Service
	Households household.Repository
	Catalogue  *catalogue.Index
	Calculator *usage.Calculator

	// Optional.
	Events    EventPublisher
	Estimates EstimateWriter
	Activity  audit.Repository
	Metrics   *Metrics
	// Checks are run by /api/health. A failing "database" check makes
	// the server unhealthy; others are reported as degraded.
	Checks  map[string]HealthChecker
	Version string
}

// Server is the HTTP API server.
type Server struct {
	cfg        config.APIConfig
	logger     *logging.Logger
	auth       *auth.Service
	households household.Repository
	catalogue  *catalogue.Index
	calc       *usage.Calculator
	events     EventPublisher
	estimates  EstimateWriter
	activity   audit.Repository
	metrics    *Metrics
	checks     map[string]HealthChecker
	version    string
	server     *http.Server
}

// New validates deps and returns a server that is not yet listening.
//
// Logger, Auth, Households and a non-empty Catalogue are required. A nil
// Calculator prices with usage.DefaultTariff and a nil Metrics gets a
// fresh registry. Events, Estimates and Activity are optional; when nil
// the corresponding side effect is skipped.
//
// Parameters:
//   - deps: Collaborators and configuration
//
// Returns:
//   - *Server: Server ready for Handler or Start
//   - error: If a required dependency is missing
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Auth == nil {
		return nil, fmt.Errorf("auth service is required")
	}
	if deps.Households == nil {
		return nil, fmt.Errorf("household repository is required")
	}
	if deps.Catalogue == nil || deps.Catalogue.Len() == 0 {
		return nil, fmt.Errorf("a non-empty catalogue is required")
	}
	calc := deps.Calculator
	if calc == nil {
		calc = usage.NewCalculator(deps.Catalogue, 0)
	}
	metrics := deps.Metrics
	if metrics == nil {
		metrics = NewMetrics()
	}

	return &Server{
		cfg:        deps.Config,
		logger:     deps.Logger.With("component", "api"),
		auth:       deps.Auth,
		households: deps.Households,
		catalogue:  deps.Catalogue,
		calc:       calc,
		events:     deps.Events,
		estimates:  deps.Estimates,
		activity:   deps.Activity,
		metrics:    metrics,
		checks:     deps.Checks,
		version:    deps.Version,
	}, nil
}

// Handler returns the fully wired router.
func (s *Server) Handler() http.Handler {
	return s.buildRouter()
}

// Start listens in the background until Close is called.
func (s *Server) Start(_ context.Context) error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           s.buildRouter(),
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		var err error
		if s.cfg.TLS.Enabled {
			s.logger.Info("API server starting with TLS", "address", s.server.Addr, "cert", s.cfg.TLS.CertFile)
			err = s.server.ListenAndServeTLS(s.cfg.TLS.CertFile, s.cfg.TLS.KeyFile)
		} else {
			s.logger.Info("API server starting", "address", s.server.Addr)
			err = s.server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()
	return nil
}

// Close waits up to 10 seconds for in-flight requests, then stops.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck reports whether the server has been started.
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}
	if s.server == nil {
		return fmt.Errorf("api server not started")
	}
	return nil
}
