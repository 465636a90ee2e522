package tasks

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/mikestefanello/backlite"

	"github.com/annuaire-qc/directory/internal/quota"
)

// RefreshBusinessTask re-imports one listing from Google Places.
type RefreshBusinessTask struct {
	BusinessID uint `json:"business_id"`
	// Force lets the refresh pass the daily allowance.
	Force bool `json:"force,omitempty"`
}

// Config returns the queue configuration for listing refresh tasks.
func (t RefreshBusinessTask) Config() backlite.QueueConfig {
	return queueConfig(QueueRefreshBusiness)
}

// RefreshBusinessProcessor creates a processor function for RefreshBusinessTask.
// A blocked quota fails the attempt so backlite retries it after the backoff.
func RefreshBusinessProcessor(refresher *BusinessRefresher) backlite.QueueProcessor[RefreshBusinessTask] {
	return func(ctx context.Context, task RefreshBusinessTask) error {
		if refresher == nil {
			return fmt.Errorf("refresher not configured")
		}

		business, err := refresher.Refresh(ctx, task.BusinessID, task.Force)
		if errors.Is(err, quota.ErrQuotaBlocked) {
			log.Printf("[TASK] Refresh of business %d deferred: %v", task.BusinessID, err)
			return err
		}
		if err != nil {
			return fmt.Errorf("refresh business %d: %w", task.BusinessID, err)
		}

		log.Printf("[TASK] Refreshed business %d (%s): rating %.1f from %d reviews",
			business.ID, business.Name, business.RatingAverage, business.RatingCount)
		return nil
	}
}

// NewRefreshBusinessQueue creates a backlite queue for listing refresh tasks.
func NewRefreshBusinessQueue(refresher *BusinessRefresher) backlite.Queue {
	return backlite.NewQueue(RefreshBusinessProcessor(refresher))
}

// RefreshAllBusinessesTask refreshes imported listings sequentially, using
// only the unprivileged share of the daily allowance.
type RefreshAllBusinessesTask struct {
	// Limit caps the number of listings refreshed (0 = no cap)
	Limit int `json:"limit,omitempty"`
}

// Config returns the queue configuration for bulk refresh tasks.
func (t RefreshAllBusinessesTask) Config() backlite.QueueConfig {
	return queueConfig(QueueRefreshAll)
}

// RefreshAllBusinessesProcessor creates a processor function for RefreshAllBusinessesTask.
func RefreshAllBusinessesProcessor(refresher *BusinessRefresher) backlite.QueueProcessor[RefreshAllBusinessesTask] {
	return func(ctx context.Context, task RefreshAllBusinessesTask) error {
		if refresher == nil {
			return fmt.Errorf("refresher not configured")
		}

		log.Printf("[TASK] Starting bulk listing refresh")
		refreshed, err := refresher.RefreshAll(ctx, task.Limit)
		if err != nil {
			return fmt.Errorf("refresh all businesses: %w", err)
		}

		log.Printf("[TASK] Bulk refresh complete: %d listings refreshed", refreshed)
		return nil
	}
}

// NewRefreshAllBusinessesQueue creates a backlite queue for bulk refresh tasks.
func NewRefreshAllBusinessesQueue(refresher *BusinessRefresher) backlite.Queue {
	return backlite.NewQueue(RefreshAllBusinessesProcessor(refresher))
}
