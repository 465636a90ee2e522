package entities

import "time"

// ImportQuota is the Google Places import counter for one calendar day.
type ImportQuota struct {
	Date         string    `gorm:"primaryKey;size:10" json:"date"` // YYYY-MM-DD, server local
	ImportsCount int       `gorm:"not null;default:0" json:"imports_count"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (ImportQuota) TableName() string {
	return "import_quota"
}
