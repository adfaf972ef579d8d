package dblifecycle_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/anvarov/qmshub/internal/app/system/dblifecycle"
	"github.com/anvarov/qmshub/internal/app/system/indexes"
	"github.com/anvarov/qmshub/internal/testutil"
)

func validConfig() dblifecycle.Config {
	return dblifecycle.Config{
		URI:         testutil.MongoURI(),
		Database:    "qmshub_lifecycle_test",
		MinPoolSize: 2,
		MaxPoolSize: 10,
		StepTimeout: 5 * time.Second,
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*dblifecycle.Config)
	}{
		{"empty URI", func(c *dblifecycle.Config) { c.URI = "" }},
		{"malformed URI", func(c *dblifecycle.Config) { c.URI = "http://not-a-mongo-uri" }},
		{"empty database", func(c *dblifecycle.Config) { c.Database = "" }},
		{"zero min pool", func(c *dblifecycle.Config) { c.MinPoolSize = 0 }},
		{"zero max pool", func(c *dblifecycle.Config) { c.MaxPoolSize = 0 }},
		{"inverted pool bounds", func(c *dblifecycle.Config) { c.MinPoolSize = 20; c.MaxPoolSize = 5 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			var cfgErr *dblifecycle.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Errorf("expected *ConfigError, got %T: %v", err, err)
			}
		})
	}

	if err := validConfig().Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}
}

// Connect with a bad configuration must fail before any network call,
// so it returns immediately even with an unroutable host.
func TestConnect_BadConfigFailsFast(t *testing.T) {
	cfg := validConfig()
	cfg.URI = "mongodb://10.255.255.1:27017"
	cfg.MinPoolSize = 50
	cfg.MaxPoolSize = 5

	m := dblifecycle.NewManager(cfg, nil)

	start := time.Now()
	err := m.Connect(context.Background())
	elapsed := time.Since(start)

	var cfgErr *dblifecycle.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *ConfigError, got %T: %v", err, err)
	}
	if elapsed > time.Second {
		t.Errorf("config error took %v; should not touch the network", elapsed)
	}
	if m.State() != dblifecycle.Uninitialized {
		t.Errorf("state after config error: %v, want uninitialized", m.State())
	}
}

func TestHandle_BeforeConnect(t *testing.T) {
	m := dblifecycle.NewManager(validConfig(), nil)

	if _, err := m.Handle(); !errors.Is(err, dblifecycle.ErrNotConnected) {
		t.Errorf("Handle before Connect: got %v, want ErrNotConnected", err)
	}
	if _, err := m.Client(); !errors.Is(err, dblifecycle.ErrNotConnected) {
		t.Errorf("Client before Connect: got %v, want ErrNotConnected", err)
	}
}

func TestVerify_BeforeConnect(t *testing.T) {
	m := dblifecycle.NewManager(validConfig(), nil)
	if err := m.Verify(context.Background()); !errors.Is(err, dblifecycle.ErrNotConnected) {
		t.Errorf("Verify before Connect: got %v, want ErrNotConnected", err)
	}
}

func TestVerify_UnreachableServer(t *testing.T) {
	cfg := validConfig()
	cfg.URI = "mongodb://127.0.0.1:1" // nothing listens here
	cfg.StepTimeout = 2 * time.Second

	m := dblifecycle.NewManager(cfg, nil)
	if err := m.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed before ping: %v", err)
	}

	start := time.Now()
	err := m.Verify(context.Background())
	elapsed := time.Since(start)

	var connErr *dblifecycle.ConnectivityError
	if !errors.As(err, &connErr) {
		t.Fatalf("expected *ConnectivityError, got %T: %v", err, err)
	}
	if elapsed > 2*cfg.StepTimeout {
		t.Errorf("Verify took %v, want bounded by ~%v", elapsed, cfg.StepTimeout)
	}
	if m.State() != dblifecycle.Uninitialized {
		t.Errorf("state after failed Verify: %v, want uninitialized", m.State())
	}
}

func TestDisconnect_Idempotent(t *testing.T) {
	m := dblifecycle.NewManager(validConfig(), nil)

	for i := 0; i < 3; i++ {
		if err := m.Disconnect(context.Background()); err != nil {
			t.Fatalf("Disconnect #%d on unconnected manager: %v", i+1, err)
		}
	}
	if m.State() != dblifecycle.Uninitialized {
		t.Errorf("state: %v, want uninitialized", m.State())
	}
}

func TestStateString(t *testing.T) {
	want := map[dblifecycle.State]string{
		dblifecycle.Uninitialized: "uninitialized",
		dblifecycle.Connecting:    "connecting",
		dblifecycle.Verifying:     "verifying",
		dblifecycle.Provisioning:  "provisioning",
		dblifecycle.Ready:         "ready",
		dblifecycle.ShuttingDown:  "shutting-down",
	}
	for state, name := range want {
		if state.String() != name {
			t.Errorf("State(%d).String() = %q, want %q", state, state.String(), name)
		}
	}
}

// Full startup sequence against a live MongoDB; skipped when unavailable.
func TestStartupSequence(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)

	cfg := validConfig()
	cfg.Database = db.Name()

	m := dblifecycle.NewManager(cfg, nil)
	if err := m.Connect(ctx); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if err := m.Verify(ctx); err != nil {
		t.Fatalf("Verify: %v", err)
	}

	// Handle must stay unavailable until provisioning completes.
	if _, err := m.Handle(); !errors.Is(err, dblifecycle.ErrNotConnected) {
		t.Errorf("Handle before EnsureIndexes: got %v, want ErrNotConnected", err)
	}

	if err := m.EnsureIndexes(ctx, indexes.All()); err != nil {
		t.Fatalf("EnsureIndexes: %v", err)
	}
	if m.State() != dblifecycle.Ready {
		t.Fatalf("state: %v, want ready", m.State())
	}

	handle, err := m.Handle()
	if err != nil {
		t.Fatalf("Handle after Ready: %v", err)
	}
	if handle.Name() != cfg.Database {
		t.Errorf("handle database: %q, want %q", handle.Name(), cfg.Database)
	}

	// Second Connect while connected is rejected.
	if err := m.Connect(ctx); !errors.Is(err, dblifecycle.ErrAlreadyConnected) {
		t.Errorf("second Connect: got %v, want ErrAlreadyConnected", err)
	}

	if err := m.Disconnect(ctx); err != nil {
		t.Fatalf("Disconnect: %v", err)
	}
	if _, err := m.Handle(); !errors.Is(err, dblifecycle.ErrNotConnected) {
		t.Errorf("Handle after Disconnect: got %v, want ErrNotConnected", err)
	}
	if err := m.Disconnect(ctx); err != nil {
		t.Errorf("Disconnect after Disconnect: %v", err)
	}
}

// Provisioning the same catalogue twice must not duplicate indexes.
func TestEnsureIndexes_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)

	cfg := validConfig()
	cfg.Database = db.Name()

	m := dblifecycle.NewManager(cfg, nil)
	if err := m.Connect(ctx); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if err := m.Verify(ctx); err != nil {
		t.Fatalf("Verify: %v", err)
	}
	defer m.Disconnect(context.Background())

	for i := 0; i < 2; i++ {
		if err := m.EnsureIndexes(ctx, indexes.All()); err != nil {
			t.Fatalf("EnsureIndexes pass %d: %v", i+1, err)
		}
	}

	handle, err := m.Handle()
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}

	cursor, err := handle.Collection(indexes.Users).Indexes().List(ctx)
	if err != nil {
		t.Fatalf("list user indexes: %v", err)
	}
	var specs []bson.M
	if err := cursor.All(ctx, &specs); err != nil {
		t.Fatalf("decode index specs: %v", err)
	}

	// _id plus the three catalogued user indexes, with no duplicates.
	if len(specs) != 4 {
		names := make([]any, 0, len(specs))
		for _, s := range specs {
			names = append(names, s["name"])
		}
		t.Errorf("users has %d indexes after double provisioning, want 4: %v", len(specs), names)
	}
}
