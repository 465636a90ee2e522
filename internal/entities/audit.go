package entities

import "time"

type AuditEventType string

const (
	AuditEventImport        AuditEventType = "import"
	AuditEventConfirm       AuditEventType = "confirm"
	AuditEventRefresh       AuditEventType = "refresh"
	AuditEventQuotaOverride AuditEventType = "quota_override"
	AuditEventModeration    AuditEventType = "moderation"
	AuditEventMaintenance   AuditEventType = "maintenance"
	AuditEventAuth          AuditEventType = "auth"
)

type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailed  AuditStatus = "failed"
)

type AuditEvent struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	EventType   AuditEventType `gorm:"index;size:50" json:"event_type"`
	Action      string         `gorm:"size:100" json:"action"`      // e.g. "place_import", "business_refresh"
	Description string         `gorm:"size:500" json:"description"` // Human-readable summary
	Actor       string         `gorm:"size:20" json:"actor"`        // "admin", "public" or "system"
	EntityType  string         `gorm:"size:50" json:"entity_type"`
	EntityID    *uint          `gorm:"index" json:"entity_id,omitempty"`
	Metadata    string         `gorm:"type:text" json:"metadata,omitempty"` // JSON for extra data
	IPAddress   string         `gorm:"size:45" json:"ip_address,omitempty"`
	UserAgent   string         `gorm:"size:500" json:"user_agent,omitempty"`
	Status      AuditStatus    `gorm:"size:20" json:"status"`
	ErrorCode   string         `gorm:"size:50" json:"error_code,omitempty"`
	ErrorMsg    string         `gorm:"size:500" json:"error_msg,omitempty"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
}

func (AuditEvent) TableName() string {
	return "audit_events"
}
