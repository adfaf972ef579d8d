// internal/app/system/dblifecycle/errors.go
package dblifecycle

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConnected is returned when the database handle is requested
	// outside the Ready state. It always indicates a programming error:
	// handlers must not run before startup completes or after shutdown.
	ErrNotConnected = errors.New("database lifecycle: not connected")

	// ErrAlreadyConnected is returned when Connect is called while a
	// connection is already established. Connect is not idempotent; the
	// caller owns exactly one Connect/Disconnect pair per process.
	ErrAlreadyConnected = errors.New("database lifecycle: already connected")
)

// ConfigError reports malformed or missing configuration. It is detected
// before any network call and is fatal at startup; retrying without a
// config change cannot succeed.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "database lifecycle: invalid configuration: " + e.Reason
}

// ConnectivityError reports a failure to reach the database within the
// bounded step timeout. Fatal at startup; the process supervisor owns any
// retry policy.
type ConnectivityError struct {
	Err error
}

func (e *ConnectivityError) Error() string {
	return "database lifecycle: database unreachable: " + e.Err.Error()
}

func (e *ConnectivityError) Unwrap() error { return e.Err }

// ProvisionError reports that a specific index descriptor could not be
// applied. It names the offending collection and index so the operator can
// resolve conflicts (for example, duplicate data blocking a unique index).
type ProvisionError struct {
	Collection string
	Index      string
	Err        error
}

func (e *ProvisionError) Error() string {
	return fmt.Sprintf("database lifecycle: provisioning index %s on %s: %v", e.Index, e.Collection, e.Err)
}

func (e *ProvisionError) Unwrap() error { return e.Err }
