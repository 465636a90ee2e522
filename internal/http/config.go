package http

import (
	"github.com/annuaire-qc/directory/internal/auth"
	"github.com/annuaire-qc/directory/internal/database"
	"github.com/annuaire-qc/directory/internal/geo"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Importer   PlaceImporter
	Quota      QuotaTracker
	Businesses BusinessStore
	Database   *database.Database

	// Region/MRC/city tables (optional; nil uses the built-in ones)
	Geo *geo.Table

	// Audit trail (optional)
	Audit       AuditLogger
	Snapshotter DraftSnapshotter

	// Admin bearer token check (optional; without it no caller is privileged)
	AuthMiddleware *auth.Middleware
	// Send HSTS headers (enable behind TLS only)
	StrictTransportSecurity bool

	// Task queue client (optional)
	Tasks       TaskQueue
	Maintenance MaintenanceRunner

	// Application info
	Version string
}
