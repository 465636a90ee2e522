package entities

import "time"

type BusinessStatus string

const (
	BusinessStatusPending   BusinessStatus = "pending"
	BusinessStatusPublished BusinessStatus = "published"
	BusinessStatusRejected  BusinessStatus = "rejected"
)

// Valid reports whether s is a known moderation status.
func (s BusinessStatus) Valid() bool {
	switch s {
	case BusinessStatusPending, BusinessStatusPublished, BusinessStatusRejected:
		return true
	}
	return false
}

// Business is a directory listing. Listings created from Google Places keep
// the place id so they can be refreshed later.
type Business struct {
	ID          uint     `gorm:"primaryKey" json:"id"`
	PublicID    string   `gorm:"uniqueIndex;size:36" json:"public_id"`
	Slug        string   `gorm:"uniqueIndex;size:200" json:"slug"`
	Name        string   `gorm:"size:255;not null" json:"name"`
	Description string   `gorm:"type:text" json:"description"`
	Phone       string   `gorm:"size:50" json:"phone"`
	Email       string   `gorm:"size:255" json:"email"`
	Website     string   `gorm:"size:500" json:"website"`
	Address     string   `gorm:"size:255" json:"address"`
	City        string   `gorm:"index;size:100" json:"city"`
	Province    string   `gorm:"size:100" json:"province"`
	PostalCode  string   `gorm:"size:20" json:"postal_code"`
	Country     string   `gorm:"size:100" json:"country"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`

	CategorySlug string         `gorm:"index;size:100" json:"category_slug"`
	Status       BusinessStatus `gorm:"index;size:20" json:"status"`

	ExternalPlaceID string  `gorm:"uniqueIndex;size:255" json:"external_place_id,omitempty"`
	ExternalMapsURL string  `gorm:"size:500" json:"external_maps_url,omitempty"`
	RatingAverage   float64 `json:"rating_average"`
	RatingCount     int     `json:"rating_count"`
	ProviderStatus  string  `gorm:"size:50" json:"provider_status,omitempty"`

	Icon                string `gorm:"size:500" json:"icon,omitempty"`
	IconBackgroundColor string `gorm:"size:20" json:"icon_background_color,omitempty"`

	Reviews      []BusinessReview  `gorm:"serializer:json" json:"reviews"`
	Photos       []BusinessPhoto   `gorm:"serializer:json" json:"photos"`
	OpeningHours []string          `gorm:"serializer:json" json:"opening_hours"`
	SocialLinks  map[string]string `gorm:"serializer:json" json:"social_links"`
	// Attributes holds the optional provider attribute groups keyed by
	// group name (restaurant, parking, payment, accessibility, ev_charge, fuel).
	Attributes map[string]any `gorm:"serializer:json" json:"attributes,omitempty"`

	ImportedAt  time.Time  `json:"imported_at"`
	RefreshedAt *time.Time `json:"refreshed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (Business) TableName() string {
	return "businesses"
}

type BusinessReview struct {
	AuthorName              string `json:"author_name"`
	Rating                  int    `json:"rating"`
	Text                    string `json:"text"`
	Time                    int64  `json:"time"`
	RelativeTimeDescription string `json:"relative_time_description,omitempty"`
	ProfilePhotoURL         string `json:"profile_photo_url,omitempty"`
}

type BusinessPhoto struct {
	Reference    string   `json:"reference"`
	WidthPx      int      `json:"width_px"`
	HeightPx     int      `json:"height_px"`
	Attributions []string `json:"attributions,omitempty"` // raw HTML from Google
	Credits      []string `json:"credits,omitempty"`      // plain text for display
	CreditURLs   []string `json:"credit_urls,omitempty"`  // contributor profile links
}
