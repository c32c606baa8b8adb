package host

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-services-teamwork/adapters/gologger"
	"github.com/goliatone/go-services-teamwork/core"
	"github.com/goliatone/go-services-teamwork/inbound"
	"github.com/labstack/echo/v4"
)

const (
	HealthPath  = "/health/live"
	MetricsPath = "/metrics"
)

// Startable is anything the runtime starts before serving, usually a
// *core.Connector.
type Startable interface {
	Start(ctx context.Context) error
}

type Option func(*Runtime)

func WithLogger(logger core.Logger) Option {
	return func(r *Runtime) {
		r.logger = logger
	}
}

func WithLoggerProvider(provider core.LoggerProvider) Option {
	return func(r *Runtime) {
		r.loggerProvider = provider
	}
}

// WithMetricsHandler mounts handler on MetricsPath.
func WithMetricsHandler(handler http.Handler) Option {
	return func(r *Runtime) {
		r.metricsHandler = handler
	}
}

func WithMaxBodyBytes(limit int64) Option {
	return func(r *Runtime) {
		r.maxBodyBytes = limit
	}
}

func WithEcho(e *echo.Echo) Option {
	return func(r *Runtime) {
		if e != nil {
			r.echo = e
		}
	}
}

// Runtime implements core.Host on top of an echo router and an EventBus.
type Runtime struct {
	echo           *echo.Echo
	bus            *EventBus
	logger         core.Logger
	loggerProvider core.LoggerProvider
	metricsHandler http.Handler
	maxBodyBytes   int64

	mu         sync.Mutex
	delegates  map[string]core.HTTPDelegate
	components []Startable
	started    bool
}

func New(opts ...Option) *Runtime {
	r := &Runtime{
		echo:      echo.New(),
		bus:       NewEventBus(),
		delegates: map[string]core.HTTPDelegate{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	r.logger = gologger.Named("teamwork.host", r.loggerProvider, r.logger)

	r.echo.HideBanner = true
	r.echo.HidePort = true
	r.echo.GET(HealthPath, func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{"status": "ok"})
	})
	if r.metricsHandler != nil {
		r.echo.GET(MetricsPath, echo.WrapHandler(r.metricsHandler))
	}
	return r
}

func (r *Runtime) Echo() *echo.Echo {
	return r.echo
}

func (r *Runtime) Bus() *EventBus {
	return r.bus
}

// RegisterHTTPDelegate routes every method on path to delegate. A path can
// be claimed once.
func (r *Runtime) RegisterHTTPDelegate(path string, delegate core.HTTPDelegate) error {
	path = strings.TrimSpace(path)
	if path == "" || !strings.HasPrefix(path, "/") {
		return hostBadInput("host: delegate path must start with /", map[string]any{"path": path})
	}
	if delegate == nil {
		return hostBadInput("host: delegate is nil", map[string]any{"path": path})
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.delegates[path]; exists {
		return hostConflict("host: path already has a delegate", map[string]any{"path": path})
	}
	r.delegates[path] = delegate
	r.echo.Any(path, r.delegateHandler(path, delegate))
	r.logger.Info("host http delegate registered", "path", path)
	return nil
}

func (r *Runtime) When(subscription *core.EventConfiguration, handler core.EventHandler) error {
	return r.bus.When(subscription, handler)
}

func (r *Runtime) HandleEvent(ctx context.Context, eventID string, payload any) error {
	return r.bus.HandleEvent(ctx, eventID, payload)
}

// Register queues a component to be started by Start.
func (r *Runtime) Register(component Startable) {
	if component == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.components = append(r.components, component)
}

// Start starts registered components in order and stops at the first error.
func (r *Runtime) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.started {
		r.mu.Unlock()
		return nil
	}
	components := append([]Startable(nil), r.components...)
	r.started = true
	r.mu.Unlock()

	for _, component := range components {
		if err := component.Start(ctx); err != nil {
			r.mu.Lock()
			r.started = false
			r.mu.Unlock()
			return err
		}
	}
	return nil
}

func (r *Runtime) Handler() http.Handler {
	return r.echo
}

func (r *Runtime) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.echo.ServeHTTP(w, req)
}

// ListenAndServe blocks until the server stops. A clean Shutdown returns nil.
func (r *Runtime) ListenAndServe(addr string) error {
	r.logger.Info("host listening", "addr", addr)
	if err := r.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (r *Runtime) Shutdown(ctx context.Context) error {
	return r.echo.Shutdown(ctx)
}

func (r *Runtime) delegateHandler(path string, delegate core.HTTPDelegate) echo.HandlerFunc {
	return func(c echo.Context) error {
		startedAt := time.Now()
		req, err := inbound.FromHTTPRequest(c.Request(), inbound.RequestOptions{MaxBodyBytes: r.maxBodyBytes})
		if err != nil {
			r.logger.Warn("host inbound request rejected", "path", path, "error", err.Error())
			return c.JSON(statusFor(err), map[string]any{"error": err.Error()})
		}

		result, err := delegate.Handle(c.Request().Context(), req)
		if err != nil {
			r.logger.Error("host delegate returned error",
				"path", path,
				"status_code", result.StatusCode,
				"error", err.Error(),
			)
		}
		if !result.Handled {
			return echo.ErrNotFound
		}
		if result.StatusCode == 0 && err != nil {
			result.StatusCode = statusFor(err)
		}
		r.logger.Debug("host delegate completed",
			"path", path,
			"status_code", result.StatusCode,
			"duration_ms", time.Since(startedAt).Milliseconds(),
		)
		return inbound.WriteResult(c.Response(), result)
	}
}

func statusFor(err error) int {
	var rich *goerrors.Error
	if goerrors.As(err, &rich) && rich.Code > 0 {
		return rich.Code
	}
	return http.StatusInternalServerError
}

var _ core.Host = (*Runtime)(nil)
