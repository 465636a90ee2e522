package tasks

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"

	"github.com/annuaire-qc/directory/internal/entities"
	"github.com/annuaire-qc/directory/internal/importer"
	"github.com/annuaire-qc/directory/internal/quota"
)

// ErrNoPlaceID is returned for listings that were not imported from Google.
var ErrNoPlaceID = errors.New("listing has no Google place id")

// ListingStore is the part of the business repository a refresh touches.
type ListingStore interface {
	GetByID(id uint) (*entities.Business, error)
	RefreshFromDraft(id uint, draft *importer.Draft) (*entities.Business, error)
	ListPlaceIDs() (map[uint]string, error)
}

// PlaceImporter fetches a fresh draft for a known place id.
type PlaceImporter interface {
	ImportByID(ctx context.Context, id string) (*importer.Draft, error)
}

// QuotaGate admits and counts Google Places lookups.
type QuotaGate interface {
	Gate(ctx context.Context, privileged, override bool) (quota.Decision, error)
	RecordImport(ctx context.Context) (int, error)
}

// RefreshRecorder records refresh outcomes.
type RefreshRecorder interface {
	LogRefresh(businessID uint, name string, err error)
}

// BusinessRefresher re-imports listings from Google Places. Each refresh is
// one lookup against the daily quota.
type BusinessRefresher struct {
	listings ListingStore
	importer PlaceImporter
	quota    QuotaGate
	recorder RefreshRecorder
}

// NewBusinessRefresher wires a refresher. recorder may be nil.
func NewBusinessRefresher(listings ListingStore, imp PlaceImporter, gate QuotaGate, recorder RefreshRecorder) *BusinessRefresher {
	return &BusinessRefresher{listings: listings, importer: imp, quota: gate, recorder: recorder}
}

// Refresh updates one listing. Admin-triggered refreshes are privileged and
// may pass the daily allowance when force is set.
func (r *BusinessRefresher) Refresh(ctx context.Context, businessID uint, force bool) (*entities.Business, error) {
	return r.refresh(ctx, businessID, true, force)
}

func (r *BusinessRefresher) refresh(ctx context.Context, businessID uint, privileged, force bool) (*entities.Business, error) {
	business, err := r.listings.GetByID(businessID)
	if err != nil {
		return nil, fmt.Errorf("load business %d: %w", businessID, err)
	}
	if business.ExternalPlaceID == "" {
		return nil, fmt.Errorf("business %d: %w", businessID, ErrNoPlaceID)
	}

	if _, err := r.quota.Gate(ctx, privileged, force); err != nil {
		return nil, err
	}

	draft, err := r.importer.ImportByID(ctx, business.ExternalPlaceID)
	if err != nil {
		r.record(business, err)
		return nil, fmt.Errorf("re-import business %d: %w", businessID, err)
	}
	if _, err := r.quota.RecordImport(ctx); err != nil {
		log.Printf("[QUOTA] Failed to record refresh of business %d: %v", businessID, err)
	}

	updated, err := r.listings.RefreshFromDraft(businessID, draft)
	r.record(business, err)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *BusinessRefresher) record(business *entities.Business, err error) {
	if r.recorder != nil {
		r.recorder.LogRefresh(business.ID, business.Name, err)
	}
}

// RefreshAll refreshes imported listings in id order until limit listings
// are done or the unprivileged quota is exhausted. A listing that fails is
// logged and skipped.
func (r *BusinessRefresher) RefreshAll(ctx context.Context, limit int) (int, error) {
	placeIDs, err := r.listings.ListPlaceIDs()
	if err != nil {
		return 0, fmt.Errorf("list imported businesses: %w", err)
	}

	ids := make([]uint, 0, len(placeIDs))
	for id := range placeIDs {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	refreshed := 0
	for _, id := range ids {
		if limit > 0 && refreshed >= limit {
			break
		}
		if err := ctx.Err(); err != nil {
			return refreshed, err
		}

		_, err := r.refresh(ctx, id, false, false)
		switch {
		case errors.Is(err, quota.ErrQuotaBlocked):
			log.Printf("[TASK] Daily quota reached after refreshing %d listings", refreshed)
			return refreshed, nil
		case err != nil:
			log.Printf("[TASK] Skipping business %d: %v", id, err)
		default:
			refreshed++
		}
	}
	return refreshed, nil
}
