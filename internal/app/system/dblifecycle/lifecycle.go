// Package dblifecycle owns the process-wide MongoDB connection.
//
// The manager runs a strict startup sequence before the application begins
// serving requests: Connect establishes the pooled client, Verify probes
// reachability, and EnsureIndexes provisions the index catalogue
// idempotently. Only after all three succeed does Handle return the shared
// database. Any failure rolls the manager back to Uninitialized after
// best-effort cleanup and is surfaced to the process entry point, which must
// exit non-zero rather than serve in a half-initialized state.
//
// The manager is constructed once at startup and threaded through the
// application explicitly (no package-level singleton), so tests can build a
// fresh manager per test with nothing to reset in between.
package dblifecycle

import (
	"context"
	"strings"
	"sync"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/anvarov/qmshub/internal/app/system/indexes"
)

// State tracks the manager through its startup and shutdown sequence.
type State int

const (
	Uninitialized State = iota
	Connecting
	Verifying
	Provisioning
	Ready
	ShuttingDown
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Connecting:
		return "connecting"
	case Verifying:
		return "verifying"
	case Provisioning:
		return "provisioning"
	case Ready:
		return "ready"
	case ShuttingDown:
		return "shutting-down"
	default:
		return "unknown"
	}
}

// DefaultStepTimeout bounds each individual startup step (connect, ping,
// single index creation). Exceeding it is a fatal startup error, not a
// retryable condition.
const DefaultStepTimeout = 10 * time.Second

// Config holds the connection parameters for the manager.
type Config struct {
	URI         string
	Database    string
	MinPoolSize uint64
	MaxPoolSize uint64

	// StepTimeout bounds each startup step. Zero means DefaultStepTimeout.
	StepTimeout time.Duration
}

// Validate checks the configuration without touching the network.
func (c Config) Validate() error {
	if strings.TrimSpace(c.URI) == "" {
		return &ConfigError{Reason: "mongo URI is empty"}
	}
	if err := wafflemongo.ValidateURI(c.URI); err != nil {
		return &ConfigError{Reason: "mongo URI is malformed: " + err.Error()}
	}
	if strings.TrimSpace(c.Database) == "" {
		return &ConfigError{Reason: "database name is empty"}
	}
	if c.MinPoolSize == 0 || c.MaxPoolSize == 0 {
		return &ConfigError{Reason: "pool sizes must be positive"}
	}
	if c.MinPoolSize > c.MaxPoolSize {
		return &ConfigError{Reason: "min pool size exceeds max pool size"}
	}
	return nil
}

func (c Config) stepTimeout() time.Duration {
	if c.StepTimeout > 0 {
		return c.StepTimeout
	}
	return DefaultStepTimeout
}

// Manager owns the shared client/database pair and its state machine.
// After Ready, concurrent request handlers borrow pooled connections from
// the client directly; the manager adds no locking on the data path.
type Manager struct {
	cfg Config
	log *zap.Logger

	mu     sync.RWMutex
	state  State
	client *mongo.Client
	db     *mongo.Database
}

// NewManager builds an unconnected manager. The logger may be nil, in which
// case a no-op logger is used.
func NewManager(cfg Config, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{cfg: cfg, log: log, state: Uninitialized}
}

// Connect validates the configuration and establishes the pooled client.
//
// Configuration problems are reported as *ConfigError before any network
// call. A second Connect while a connection exists fails with
// ErrAlreadyConnected; callers that need a fresh connection must Disconnect
// first. Connect leaves the manager in Connecting; the caller is expected to
// run Verify and EnsureIndexes before serving.
func (m *Manager) Connect(ctx context.Context) error {
	if err := m.cfg.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.client != nil {
		return ErrAlreadyConnected
	}

	m.log.Info("connecting to MongoDB",
		zap.String("database", m.cfg.Database),
		zap.Uint64("min_pool_size", m.cfg.MinPoolSize),
		zap.Uint64("max_pool_size", m.cfg.MaxPoolSize))

	m.state = Connecting

	opts := options.Client().
		ApplyURI(m.cfg.URI).
		SetMinPoolSize(m.cfg.MinPoolSize).
		SetMaxPoolSize(m.cfg.MaxPoolSize).
		SetConnectTimeout(m.cfg.stepTimeout()).
		SetServerSelectionTimeout(m.cfg.stepTimeout())

	ctx, cancel := context.WithTimeout(ctx, m.cfg.stepTimeout())
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		m.state = Uninitialized
		return &ConnectivityError{Err: err}
	}

	m.client = client
	m.db = client.Database(m.cfg.Database)
	return nil
}

// Verify issues an admin ping against the active client. It must run once
// immediately after Connect; a failure is fatal to startup.
func (m *Manager) Verify(ctx context.Context) error {
	m.mu.Lock()
	if m.client == nil {
		m.mu.Unlock()
		return ErrNotConnected
	}
	m.state = Verifying
	client := m.client
	m.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, m.cfg.stepTimeout())
	defer cancel()

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		m.failStartup(ctx)
		return &ConnectivityError{Err: err}
	}

	m.log.Info("MongoDB connection verified", zap.String("database", m.cfg.Database))
	return nil
}

// EnsureIndexes applies the descriptors idempotently and, on success,
// transitions the manager to Ready. A descriptor that cannot be applied is
// reported as a *ProvisionError naming the offending collection and index,
// and startup must abort: correctness after a half-applied index set cannot
// be assumed.
func (m *Manager) EnsureIndexes(ctx context.Context, descs []indexes.Descriptor) error {
	m.mu.Lock()
	if m.client == nil {
		m.mu.Unlock()
		return ErrNotConnected
	}
	m.state = Provisioning
	db := m.db
	m.mu.Unlock()

	for _, d := range descs {
		stepCtx, cancel := context.WithTimeout(ctx, m.cfg.stepTimeout())
		err := indexes.Ensure(stepCtx, db, d)
		cancel()
		if err != nil {
			m.failStartup(ctx)
			return &ProvisionError{Collection: d.Collection, Index: d.Name, Err: err}
		}
	}

	m.mu.Lock()
	m.state = Ready
	m.mu.Unlock()

	m.log.Info("index provisioning complete",
		zap.String("database", m.cfg.Database),
		zap.Int("descriptors", len(descs)))
	return nil
}

// Handle returns the shared database. It succeeds only in the Ready state.
func (m *Manager) Handle() (*mongo.Database, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.state != Ready {
		return nil, ErrNotConnected
	}
	return m.db, nil
}

// Client returns the underlying client for callers that need client-level
// operations (health pings). Ready-only, like Handle.
func (m *Manager) Client() (*mongo.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.state != Ready {
		return nil, ErrNotConnected
	}
	return m.client, nil
}

// State reports the current lifecycle state.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Disconnect releases all pooled sockets and resets the manager to
// Uninitialized. It is idempotent and safe to call from a shutdown signal
// handler, including after a partially failed startup: disconnecting an
// already-clean manager is a no-op, never an error.
func (m *Manager) Disconnect(ctx context.Context) error {
	m.mu.Lock()
	client := m.client
	if client != nil {
		m.state = ShuttingDown
	}
	m.client = nil
	m.db = nil
	m.mu.Unlock()

	if client == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, m.cfg.stepTimeout())
	defer cancel()

	err := client.Disconnect(ctx)

	m.mu.Lock()
	m.state = Uninitialized
	m.mu.Unlock()

	if err != nil {
		m.log.Error("MongoDB disconnect failed", zap.Error(err))
		return err
	}
	m.log.Info("MongoDB connection closed")
	return nil
}

// failStartup performs best-effort cleanup after a failed startup step.
func (m *Manager) failStartup(ctx context.Context) {
	m.mu.Lock()
	client := m.client
	m.client = nil
	m.db = nil
	m.state = Uninitialized
	m.mu.Unlock()

	if client != nil {
		cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.cfg.stepTimeout())
		defer cancel()
		_ = client.Disconnect(cleanupCtx)
	}
}
