package http

import (
	"context"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/annuaire-qc/directory/internal/audit"
	"github.com/annuaire-qc/directory/internal/database/businesses"
	"github.com/annuaire-qc/directory/internal/entities"
	"github.com/annuaire-qc/directory/internal/importer"
	"github.com/annuaire-qc/directory/internal/quota"
)

// This file consolidates the collaborator interfaces used by HTTP
// controllers. Each controller depends only on what it calls.

// PlaceImporter runs the import pipeline.
type PlaceImporter interface {
	ImportPlace(ctx context.Context, input, address string, wantMultiple bool) (*importer.Result, error)
	Categories() *importer.CategoryTable
}

// QuotaTracker reads and gates the daily Google Places allowance.
type QuotaTracker interface {
	Info(ctx context.Context) quota.Info
	Gate(ctx context.Context, privileged, override bool) (quota.Decision, error)
	RecordImport(ctx context.Context) (int, error)
	History(ctx context.Context, days int) ([]quota.DayUsage, error)
}

// BusinessStore persists and lists listings.
type BusinessStore interface {
	CreateFromDraft(draft *importer.Draft, categoryOverride string) (*entities.Business, error)
	GetByID(id uint) (*entities.Business, error)
	GetByPublicID(publicID string) (*entities.Business, error)
	GetByPlaceID(placeID string) (*entities.Business, error)
	GetBySlug(slug string) (*entities.Business, error)
	List(filter businesses.ListFilter) ([]entities.Business, int64, error)
	UpdateStatus(id uint, status entities.BusinessStatus) (*entities.Business, error)
}

// AuditLogger records what the API did.
type AuditLogger interface {
	LogImport(req audit.RequestInfo, input, mode string, drafts int, code string, err error)
	LogConfirm(req audit.RequestInfo, business *entities.Business, placeID string, err error)
	LogQuotaOverride(req audit.RequestInfo, importsToday, limit int)
	LogModeration(req audit.RequestInfo, businessID uint, status entities.BusinessStatus)
	GetEvents(eventType entities.AuditEventType, limit, offset int) ([]entities.AuditEvent, int64, error)
	GetEventsForEntity(entityType string, entityID uint) ([]entities.AuditEvent, error)
	GetEventByID(id uint) (*entities.AuditEvent, error)
}

// DraftSnapshotter keeps a copy of each confirmed draft.
type DraftSnapshotter interface {
	SaveJSON(data any) (string, error)
}

// TaskQueue enqueues background work and reports its status.
type TaskQueue interface {
	Enqueue(tasks ...backlite.Task) ([]string, error)
	Status(ctx context.Context, taskID string) (backlite.TaskStatus, error)
}

// MaintenanceRunner triggers scheduled maintenance on demand.
type MaintenanceRunner interface {
	RunNow() ([]string, error)
	LastRun() time.Time
	NextRun() time.Time
}
