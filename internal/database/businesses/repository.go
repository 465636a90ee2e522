// Package businesses persists directory listings created from import drafts.
//
// # Usage
//
//	repo := businesses.NewRepository(db)
//	business, err := repo.CreateFromDraft(draft, "")
//	if errors.Is(err, businesses.ErrAlreadyImported) { ... }
package businesses

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/annuaire-qc/directory/internal/entities"
	"github.com/annuaire-qc/directory/internal/importer"
	"github.com/annuaire-qc/directory/internal/places"
	"github.com/annuaire-qc/directory/internal/slug"
)

var (
	// ErrAlreadyImported is returned when a listing for the place exists.
	ErrAlreadyImported = errors.New("place already imported")
	// ErrNotFound is returned when no listing matches.
	ErrNotFound = errors.New("business not found")
	// ErrInvalidDraft is returned for drafts that cannot become a listing.
	ErrInvalidDraft = errors.New("draft is missing a name or place id")
)

// ListFilter narrows List results. Zero values mean no filter. Cities
// matches any of the given names; region and MRC filters expand to it.
type ListFilter struct {
	Status   entities.BusinessStatus
	Category string
	City     string
	Cities   []string
	Search   string
	Limit    int
	Offset   int
}

type Repository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db, now: time.Now}
}

// CreateFromDraft saves a confirmed draft as a pending listing. The category
// is categoryOverride when set, else the draft's suggestion.
func (r *Repository) CreateFromDraft(draft *importer.Draft, categoryOverride string) (*entities.Business, error) {
	if draft == nil || strings.TrimSpace(draft.Name) == "" || draft.ExternalPlaceID == "" {
		return nil, ErrInvalidDraft
	}

	category := strings.TrimSpace(categoryOverride)
	if category == "" && draft.SuggestedCategorySlug != nil {
		category = *draft.SuggestedCategorySlug
	}

	business := &entities.Business{
		PublicID:     uuid.NewString(),
		CategorySlug: category,
		Status:       entities.BusinessStatusPending,
		Email:        draft.Email,
		ImportedAt:   r.now(),
	}
	applyDraft(business, draft)

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&entities.Business{}).Where("external_place_id = ?", draft.ExternalPlaceID).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrAlreadyImported
		}

		s, err := slug.Unique(slug.ForName(draft.Name), func(candidate string) (bool, error) {
			var n int64
			err := tx.Model(&entities.Business{}).Where("slug = ?", candidate).Count(&n).Error
			return n > 0, err
		})
		if err != nil {
			return err
		}
		business.Slug = s

		return tx.Create(business).Error
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyImported) {
			return nil, fmt.Errorf("%w: %s", ErrAlreadyImported, draft.ExternalPlaceID)
		}
		return nil, fmt.Errorf("create business: %w", err)
	}
	return business, nil
}

// RefreshFromDraft updates the provider-owned fields of a listing from a new
// draft. Name, category, slug, contact email and moderation status are
// editorial and left alone.
func (r *Repository) RefreshFromDraft(id uint, draft *importer.Draft) (*entities.Business, error) {
	if draft == nil {
		return nil, ErrInvalidDraft
	}
	business, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}

	now := r.now()
	business.RatingAverage = draft.RatingAverage
	business.RatingCount = draft.RatingCount
	business.ProviderStatus = draft.BusinessStatus
	business.Reviews = toReviews(draft.Reviews)
	business.Photos = toPhotos(draft.Photos)
	business.OpeningHours = append([]string{}, draft.OpeningHoursText...)
	business.SocialLinks = toSocialLinks(draft.SocialLinks)
	business.Attributes = toAttributes(draft)
	if draft.ExternalMapsURL != "" {
		business.ExternalMapsURL = draft.ExternalMapsURL
	}
	business.RefreshedAt = &now

	if err := r.db.Save(business).Error; err != nil {
		return nil, fmt.Errorf("refresh business %d: %w", id, err)
	}
	return business, nil
}

func (r *Repository) GetByID(id uint) (*entities.Business, error) {
	var business entities.Business
	err := r.db.First(&business, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &business, nil
}

func (r *Repository) GetByPublicID(publicID string) (*entities.Business, error) {
	return r.findOne("public_id = ?", publicID)
}

func (r *Repository) GetByPlaceID(placeID string) (*entities.Business, error) {
	return r.findOne("external_place_id = ?", placeID)
}

func (r *Repository) GetBySlug(s string) (*entities.Business, error) {
	return r.findOne("slug = ?", s)
}

func (r *Repository) findOne(query string, arg any) (*entities.Business, error) {
	var business entities.Business
	err := r.db.Where(query, arg).First(&business).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &business, nil
}

// List returns a page of listings, newest first, with the total match count.
func (r *Repository) List(filter ListFilter) ([]entities.Business, int64, error) {
	query := r.db.Model(&entities.Business{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Category != "" {
		query = query.Where("category_slug = ?", filter.Category)
	}
	if filter.City != "" {
		query = query.Where("LOWER(city) = LOWER(?)", filter.City)
	}
XX, "%"+strings.ToLower(filter.Search)+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	var items []entities.Business
	err := query.Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&items).Error
	return items, total, err
}

// UpdateStatus moves a listing through moderation.
func (r *Repository) UpdateStatus(id uint, status entities.BusinessStatus) (*entities.Business, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("invalid status %q", status)
	}
	result := r.db.Model(&entities.Business{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(id)
}

// ListPlaceIDs returns the id and place id of every imported listing.
func (r *Repository) ListPlaceIDs() (map[uint]string, error) {
	var rows []struct {
		ID              uint
		ExternalPlaceID string
	}
	err := r.db.Model(&entities.Business{}).
		Select("id", "external_place_id").
		Where("external_place_id <> ''").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[uint]string, len(rows))
	for _, row := range rows {
		out[row.ID] = row.ExternalPlaceID
	}
	return out, nil
}

func applyDraft(b *entities.Business, d *importer.Draft) {
	b.Name = strings.TrimSpace(d.Name)
	b.Description = d.Description
	b.Phone = d.Phone
	b.Website = d.Website
	b.Address = d.Address
	b.City = d.City
	b.Province = d.Province
	b.PostalCode = d.PostalCode
	b.Country = d.Country
	b.Latitude = d.Latitude
	b.Longitude = d.Longitude
	b.ExternalPlaceID = d.ExternalPlaceID
	b.ExternalMapsURL = d.ExternalMapsURL
	b.RatingAverage = d.RatingAverage
	b.RatingCount = d.RatingCount
	b.ProviderStatus = d.BusinessStatus
	b.Icon = d.Icon
	b.IconBackgroundColor = d.IconBackgroundColor
	b.Reviews = toReviews(d.Reviews)
	b.Photos = toPhotos(d.Photos)
	b.OpeningHours = append([]string{}, d.OpeningHoursText...)
	b.SocialLinks = toSocialLinks(d.SocialLinks)
	b.Attributes = toAttributes(d)
}

func toReviews(src []importer.Review) []entities.BusinessReview {
	out := make([]entities.BusinessReview, 0, len(src))
	for _, r := range src {
		out = append(out, entities.BusinessReview{
			AuthorName:              r.AuthorName,
			Rating:                  r.Rating,
			Text:                    r.Text,
			Time:                    r.Time,
			RelativeTimeDescription: r.RelativeTimeDescription,
			ProfilePhotoURL:         r.ProfilePhotoURL,
		})
	}
	return out
}

func toPhotos(src []importer.Photo) []entities.BusinessPhoto {
	out := make([]entities.BusinessPhoto, 0, len(src))
	for _, p := range src {
		out = append(out, entities.BusinessPhoto{
			Reference:    p.Reference,
			WidthPx:      p.WidthPx,
			HeightPx:     p.HeightPx,
			Attributions: p.Attributions,
			Credits:      places.PlainAttributions(p.Attributions),
			CreditURLs:   places.AttributionLinks(p.Attributions),
		})
	}
	return out
}

func toSocialLinks(links importer.SocialLinks) map[string]string {
	out := make(map[string]string)
	set := func(network string, url *string) {
		if url != nil {
			out[network] = *url
		}
	}
	set("facebook", links.FacebookURL)
	set("instagram", links.InstagramURL)
	set("twitter", links.TwitterURL)
	set("linkedin", links.LinkedInURL)
	set("threads", links.ThreadsURL)
	set("tiktok", links.TikTokURL)
	return out
}

// toAttributes stores each present attribute group as its JSON object form.
func toAttributes(d *importer.Draft) map[string]any {
	groups := map[string]any{
		"restaurant":    d.RestaurantAttributes,
		"parking":       d.ParkingOptions,
		"payment":       d.PaymentOptions,
		"accessibility": d.AccessibilityOptions,
		"ev_charge":     d.EVChargeOptions,
		"fuel":          d.FuelOptions,
	}
	out := make(map[string]any)
	for name, group := range groups {
		raw, err := json.Marshal(group)
		if err != nil || string(raw) == "null" {
			continue
		}
		var decoded map[string]any
		if json.Unmarshal(raw, &decoded) == nil {
			out[name] = decoded
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
