// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/anvarov/qmshub/internal/app/system/dblifecycle"
)

// DBDeps holds database/back-end dependencies for the app. The lifecycle
// manager owns the Mongo client; handlers obtain the shared database
// through Manager.Handle once startup has reached Ready.
type DBDeps struct {
	Manager *dblifecycle.Manager
}
