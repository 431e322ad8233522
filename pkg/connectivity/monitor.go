// Package connectivity tracks whether the device can reach the network. The
// stores never consult it; callers gate online-only actions on it.
package connectivity

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/aretw0/introspection"
	"github.com/aretw0/lifecycle"
	"github.com/sethvargo/go-retry"

	"github.com/aretw0/runways/pkg/core"
)

const (
	// DefaultAddress is dialled when no probe address is configured.
	DefaultAddress = "1.1.1.1:443"
	// DefaultInterval is the time between probes.
	DefaultInterval = 30 * time.Second
	// DefaultTimeout bounds a single dial.
	DefaultTimeout = 3 * time.Second
	// DefaultRetryDelay separates redials within one probe.
	DefaultRetryDelay = 250 * time.Millisecond
)

// Provider reports connectivity.
type Provider interface {
	Online() bool
}

// Static is a Provider with a fixed answer.
type Static bool

// Online implements Provider.
func (s Static) Online() bool { return bool(s) }

// DialFunc opens a connection; it matches net.Dialer.DialContext.
type DialFunc func(ctx context.Context, network, address string) (net.Conn, error)

// Config configures a Monitor.
type Config struct {
	Address      string
	Interval     time.Duration
	Timeout      time.Duration
	Retries      int // extra dials before a probe reports offline
	RetryDelay   time.Duration
	Logger       *slog.Logger
	Dial         DialFunc
	ErrorHandler core.ErrorHandler
	EventBuffer  int
}

// Monitor probes a TCP address periodically. It reports online until a
// probe says otherwise.
type Monitor struct {
	config Config
	logger *slog.Logger
	broker *core.Broker

	mu        sync.RWMutex
	online    bool
	probes    int
	lastProbe time.Time
	lastErr   error
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewMonitor creates a stopped monitor.
func NewMonitor(cfg Config) *Monitor {
	if cfg.Address == "" {
		cfg.Address = DefaultAddress
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = DefaultRetryDelay
	}
	if cfg.Retries < 0 {
		cfg.Retries = 0
	}
	if cfg.Dial == nil {
		cfg.Dial = (&net.Dialer{}).DialContext
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Monitor{
		config: cfg,
		logger: logger,
		broker: core.NewBroker(cfg.EventBuffer),
		online: true,
	}
}

// Online implements Provider.
func (m *Monitor) Online() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.online
}

// Probe dials the address, retrying up to Retries times, and updates the
// flag. A probe cut short by ctx leaves the state untouched.
func (m *Monitor) Probe(ctx context.Context) bool {
	backoff := retry.WithMaxRetries(uint64(m.config.Retries), retry.NewConstant(m.config.RetryDelay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := m.dial(ctx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if ctx.Err() != nil {
		m.logger.Debug("probe cancelled", "address", m.config.Address)
		return m.Online()
	}
	online := err == nil

	m.mu.Lock()
	changed := m.online != online
	m.online = online
	m.probes++
	m.lastProbe = time.Now()
	if err != nil {
		m.lastErr = fmt.Errorf("probe %s: %w", m.config.Address, err)
	} else {
		m.lastErr = nil
	}
	m.mu.Unlock()

	if changed {
		id := "offline"
		if online {
			id = "online"
		}
		m.logger.Info("connectivity changed", "online", online, "address", m.config.Address)
		m.broker.Publish(core.Event{Type: core.EventModify, Store: core.StoreConnectivity, ID: id})
	} else {
		m.logger.Debug("probe finished", "online", online, "error", err)
	}
	return online
}

func (m *Monitor) dial(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, m.config.Timeout)
	defer cancel()

	conn, err := m.config.Dial(ctx, "tcp", m.config.Address)
	if err != nil {
		return err
	}
	return conn.Close()
}

// Start probes immediately and then every interval until ctx is done or Stop
// is called.
func (m *Monitor) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.cancel != nil {
		m.mu.Unlock()
		return fmt.Errorf("monitor already started")
	}
	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.done = make(chan struct{})
	done := m.done
	m.mu.Unlock()

	lifecycle.Go(runCtx, func(ctx context.Context) error {
		defer close(done)
		m.Probe(ctx)

		ticker := time.NewTicker(m.config.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				m.Probe(ctx)
			}
		}
	}, lifecycle.WithErrorHandler(func(err error) {
		m.logger.Error("connectivity probe panic", "error", err)
		if m.config.ErrorHandler != nil {
			m.config.ErrorHandler(fmt.Errorf("connectivity probe panic: %w", err))
		}
	}))
	return nil
}

// Stop ends the probe loop and waits for it to exit.
func (m *Monitor) Stop() {
	m.mu.Lock()
	cancel, done := m.cancel, m.done
	m.cancel = nil
	m.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Subscribe streams online/offline transitions.
func (m *Monitor) Subscribe() (<-chan core.Event, func()) {
	return m.broker.Subscribe()
}

// State describes the monitor for observability.
type State struct {
	Online    bool       `json:"online"`
	Address   string     `json:"address"`
	Interval  string     `json:"interval"`
	Running   bool       `json:"running"`
	Probes    int        `json:"probes"`
	LastProbe *time.Time `json:"last_probe,omitempty"`
	LastError string     `json:"last_error,omitempty"`
}

// State implements introspection.Introspectable.
func (m *Monitor) State() any {
	m.mu.RLock()
	defer m.mu.RUnlock()

	st := State{
		Online:   m.online,
		Address:  m.config.Address,
		Interval: m.config.Interval.String(),
		Running:  m.cancel != nil,
		Probes:   m.probes,
	}
	if !m.lastProbe.IsZero() {
		t := m.lastProbe
		st.LastProbe = &t
	}
	if m.lastErr != nil {
		st.LastError = m.lastErr.Error()
	}
	return st
}

// ComponentType implements introspection.Component.
func (m *Monitor) ComponentType() string {
	return "connectivity"
}

var (
	_ Provider                     = (*Monitor)(nil)
	_ Provider                     = Static(true)
	_ introspection.Introspectable = (*Monitor)(nil)
	_ introspection.Component      = (*Monitor)(nil)
)
