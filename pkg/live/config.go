package live

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/vtree/pkg/vdom"
)

// Config holds configuration for the live server.
type Config struct {
	// Address is the address to listen on.
	// Default: ":8080".
	Address string

	// Title is the page title of the server-rendered page.
	Title string

	// Context is the root context every session renders with.
	Context vdom.Context

	// Engine tunes the per-session engines.
	// Default: vdom.DefaultConfig().
	Engine vdom.Config

	// ReadTimeout is the maximum time to wait for a client message,
	// pongs included.
	// Default: 60s.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum time to wait when sending a frame.
	// Default: 10s.
	WriteTimeout time.Duration

	// HeartbeatInterval is the time between server pings.
	// Default: 30s.
	HeartbeatInterval time.Duration

	// PendingTimeout is how long a session created by a page render
	// waits for its WebSocket before it is dropped.
	// Default: 1m.
	PendingTimeout time.Duration

	// MaxMessageSize is the largest client message accepted.
	// Default: 64KB.
	MaxMessageSize int64

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 10s.
	ShutdownTimeout time.Duration

	// Registry receives the server metrics and backs /metrics.
	// Default: a fresh registry per server.
	Registry *prometheus.Registry

	// TracerName names the OpenTelemetry tracer.
	// Default: "vtree".
	TracerName string

	// Logger is the server logger.
	// Default: slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Address:           ":8080",
		Title:             "vtree",
		Engine:            vdom.DefaultConfig(),
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
		HeartbeatInterval: 30 * time.Second,
		PendingTimeout:    time.Minute,
		MaxMessageSize:    64 * 1024,
		ShutdownTimeout:   10 * time.Second,
		TracerName:        "vtree",
	}
}

// withDefaults fills unset fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Address == "" {
		c.Address = d.Address
	}
	if c.Title == "" {
		c.Title = d.Title
	}
	if c.Engine.KeyIndexThreshold == 0 {
		c.Engine.KeyIndexThreshold = d.Engine.KeyIndexThreshold
	}
	if c.Engine.KeyIndexMinNew == 0 {
		c.Engine.KeyIndexMinNew = d.Engine.KeyIndexMinNew
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = d.ReadTimeout
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = d.WriteTimeout
	}
	if c.HeartbeatInterval == 0 {
		c.HeartbeatInterval = d.HeartbeatInterval
	}
	if c.PendingTimeout == 0 {
		c.PendingTimeout = d.PendingTimeout
	}
	if c.MaxMessageSize == 0 {
		c.MaxMessageSize = d.MaxMessageSize
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = d.ShutdownTimeout
	}
	if c.Registry == nil {
		c.Registry = prometheus.NewRegistry()
	}
	if c.TracerName == "" {
		c.TracerName = d.TracerName
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}
