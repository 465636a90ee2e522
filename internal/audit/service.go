package audit

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/annuaire-qc/directory/internal/entities"
)

// Actors recorded on events.
const (
	ActorAdmin  = "admin"
	ActorPublic = "public"
	ActorSystem = "system"
)

// EventStore persists audit events.
type EventStore interface {
	LogEvent(event *entities.AuditEvent) error
	GetEvents(eventType entities.AuditEventType, limit, offset int) ([]entities.AuditEvent, int64, error)
	GetEventsForEntity(entityType string, entityID uint) ([]entities.AuditEvent, error)
	GetEventByID(id uint) (*entities.AuditEvent, error)
	DeleteOldEvents(olderThan time.Time) (int64, error)
}

// RequestInfo describes who triggered an event.
type RequestInfo struct {
	Actor     string
	IPAddress string
	UserAgent string
}

// Service provides high-level audit logging functionality.
type Service struct {
	repo    EventStore
	pending sync.WaitGroup
}

// NewService creates a new audit service.
func NewService(repo EventStore) *Service {
	return &Service{repo: repo}
}

// Log records a generic audit event.
func (s *Service) Log(event *entities.AuditEvent) error {
	return s.repo.LogEvent(event)
}

// LogAsync records an audit event in the background (non-blocking).
func (s *Service) LogAsync(event *entities.AuditEvent) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		if err := s.repo.LogEvent(event); err != nil {
			log.Printf("Failed to log audit event: %v", err)
		}
	}()
}

// Wait blocks until every event queued with LogAsync is written.
func (s *Service) Wait() {
	s.pending.Wait()
}

// LogImport records a lookup against Google Places. code is the API error
// code when err is set.
func (s *Service) LogImport(req RequestInfo, input, mode string, drafts int, code string, err error) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventImport,
		Action:      "place_import",
		Description: truncate("Import lookup for "+input, 500),
		EntityType:  "place",
		Status:      entities.AuditStatusSuccess,
	}
	applyRequest(event, req)
	event.Metadata = marshalMetadata(map[string]any{
		"input":  input,
		"mode":   mode,
		"drafts": drafts,
	})
	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorCode = code
		event.ErrorMsg = truncate(err.Error(), 500)
	}

	s.LogAsync(event)
}

// LogConfirm records a draft saved as a listing.
func (s *Service) LogConfirm(req RequestInfo, business *entities.Business, placeID string, err error) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventConfirm,
		Action:      "business_create",
		Description: "Confirmed import of " + placeID,
		EntityType:  "business",
		Status:      entities.AuditStatusSuccess,
	}
	applyRequest(event, req)
	if business != nil {
		id := business.ID
		event.EntityID = &id
		event.Description = "Created listing " + business.Name
	}
	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}

	s.LogAsync(event)
}

// LogRefresh records a listing refreshed from Google Places.
func (s *Service) LogRefresh(businessID uint, name string, err error) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventRefresh,
		Action:      "business_refresh",
		Description: "Refreshed listing " + name,
		Actor:       ActorSystem,
		EntityType:  "business",
		EntityID:    &businessID,
		Status:      entities.AuditStatusSuccess,
	}
	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}

	s.LogAsync(event)
}

// LogQuotaOverride records a privileged import past the daily allowance.
func (s *Service) LogQuotaOverride(req RequestInfo, importsToday, limit int) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventQuotaOverride,
		Action:      "quota_override",
		Description: "Import allowed past the daily Google Places allowance",
		Status:      entities.AuditStatusSuccess,
		Metadata: marshalMetadata(map[string]any{
			"imports_today": importsToday,
			"limit":         limit,
		}),
	}
	applyRequest(event, req)

	s.LogAsync(event)
}

// LogModeration records a listing status change.
func (s *Service) LogModeration(req RequestInfo, businessID uint, status entities.BusinessStatus) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventModeration,
		Action:      "business_" + string(status),
		Description: "Listing status set to " + string(status),
		EntityType:  "business",
		EntityID:    &businessID,
		Status:      entities.AuditStatusSuccess,
	}
	applyRequest(event, req)

	s.LogAsync(event)
}

// LogAuth records an admin authentication attempt.
func (s *Service) LogAuth(req RequestInfo, success bool) {
	event := &entities.AuditEvent{
		EventType: entities.AuditEventAuth,
		Action:    "admin_token",
		Status:    entities.AuditStatusSuccess,
	}
	applyRequest(event, req)

	if !success {
		event.Status = entities.AuditStatusFailed
	}

	s.LogAsync(event)
}

// LogMaintenance records a scheduled maintenance run.
func (s *Service) LogMaintenance(action, description string, err error) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventMaintenance,
		Action:      action,
		Description: description,
		Actor:       ActorSystem,
		Status:      entities.AuditStatusSuccess,
	}

	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}

	s.LogAsync(event)
}

// GetEvents retrieves paginated audit events, optionally of one type.
func (s *Service) GetEvents(eventType entities.AuditEventType, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEvents(eventType, limit, offset)
}

// GetEventsForEntity returns the history of one record, newest first.
func (s *Service) GetEventsForEntity(entityType string, entityID uint) ([]entities.AuditEvent, error) {
	return s.repo.GetEventsForEntity(entityType, entityID)
}

// GetEventByID returns one event by id.
func (s *Service) GetEventByID(id uint) (*entities.AuditEvent, error) {
	return s.repo.GetEventByID(id)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *Service) DeleteOldEvents(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	return s.repo.DeleteOldEvents(cutoff)
}

func applyRequest(event *entities.AuditEvent, req RequestInfo) {
	event.Actor = req.Actor
	if event.Actor == "" {
		event.Actor = ActorPublic
	}
	event.IPAddress = req.IPAddress
	event.UserAgent = truncate(req.UserAgent, 500)
}

func marshalMetadata(metadata map[string]any) string {
	mdBytes, err := json.Marshal(metadata)
	if err != nil {
		return ""
	}
	return string(mdBytes)
}

// truncate shortens a string to max length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
