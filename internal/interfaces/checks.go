package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/annuaire-qc/directory/internal/audit"
	auditRepo "github.com/annuaire-qc/directory/internal/database/audit"
	"github.com/annuaire-qc/directory/internal/database/businesses"
	dbquota "github.com/annuaire-qc/directory/internal/database/quota"
	"github.com/annuaire-qc/directory/internal/http"
	"github.com/annuaire-qc/directory/internal/importer"
	"github.com/annuaire-qc/directory/internal/places"
	"github.com/annuaire-qc/directory/internal/quota"
	"github.com/annuaire-qc/directory/internal/scheduler"
	"github.com/annuaire-qc/directory/internal/storage/dynamo"
	"github.com/annuaire-qc/directory/internal/storage/postgres"
	"github.com/annuaire-qc/directory/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// Quota counter backends
var _ quota.Store = (*quota.MemoryStore)(nil)
var _ quota.Store = (*dbquota.Repository)(nil)
var _ quota.HistoryStore = (*dbquota.Repository)(nil)
var _ quota.Store = (*postgres.QuotaStore)(nil)
var _ quota.Store = (*dynamo.QuotaStore)(nil)

// Listing storage
var _ http.BusinessStore = (*businesses.Repository)(nil)
var _ tasks.ListingStore = (*businesses.Repository)(nil)

// Audit storage
var _ audit.EventStore = (*auditRepo.Repository)(nil)

// =============================================================================
// External Services
// =============================================================================

var _ importer.PlaceProvider = (*places.Client)(nil)

// =============================================================================
// Services
// =============================================================================

var _ http.PlaceImporter = (*importer.Importer)(nil)
var _ tasks.PlaceImporter = (*importer.Importer)(nil)
var _ http.QuotaTracker = (*quota.Tracker)(nil)
var _ tasks.QuotaGate = (*quota.Tracker)(nil)

var _ http.AuditLogger = (*audit.Service)(nil)
var _ http.DraftSnapshotter = (*audit.Snapshotter)(nil)
var _ tasks.RefreshRecorder = (*audit.Service)(nil)
var _ tasks.AuditEventCleaner = (*audit.Service)(nil)
var _ tasks.MaintenanceRecorder = (*audit.Service)(nil)

// =============================================================================
// Background Work
// =============================================================================

var _ http.TaskQueue = (*tasks.Client)(nil)
var _ http.MaintenanceRunner = (*scheduler.MaintenanceScheduler)(nil)
var _ scheduler.TaskEnqueuer = (*tasks.Client)(nil)
