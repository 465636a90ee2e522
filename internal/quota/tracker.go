package quota

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
)

const (
	// DefaultDailyLimit is the free Google Places allowance per day.
	DefaultDailyLimit = 90
	// WarningPercent is where the quota status turns to warning.
	WarningPercent = 80.0

	dateLayout = "2006-01-02"
)

// ErrQuotaBlocked is returned by Gate when the day's allowance is used up.
var ErrQuotaBlocked = errors.New("daily import quota reached")

// Store keeps one import counter per calendar day. Increment must be atomic
// at the storage layer: concurrent callers may never lose an update.
type Store interface {
	Increment(ctx context.Context, date string) (int, error)
	Count(ctx context.Context, date string) (int, error)
}

// Info is the quota state for one day.
type Info struct {
	ImportsToday   int     `json:"imports_today" yaml:"imports_today"`
	Limit          int     `json:"limit" yaml:"limit"`
	Remaining      int     `json:"remaining" yaml:"remaining"`
	CanImport      bool    `json:"can_import" yaml:"can_import"`
	PercentageUsed float64 `json:"percentage_used" yaml:"percentage_used"`
	Date           string  `json:"date" yaml:"date"`
	// Error is set when the counter could not be read and the state was
	// reported as unused instead.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Status classifies quota usage for display.
type Status string

const (
	StatusInfo    Status = "info"
	StatusWarning Status = "warning"
	StatusBlocked Status = "blocked"
)

// Classify returns info below 80% usage, warning from 80% and blocked once
// the limit is reached.
func Classify(info Info) Status {
	switch {
	case !info.CanImport || info.PercentageUsed >= 100:
		return StatusBlocked
	case info.PercentageUsed >= WarningPercent:
		return StatusWarning
	default:
		return StatusInfo
	}
}

// Decision is the outcome of Gate.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Status  Status `json:"status"`
	// CostWarning is set when a privileged caller goes past the free allowance.
	CostWarning bool `json:"cost_warning"`
	Info        Info `json:"quota"`
}

// Tracker computes quota state on top of a Store.
type Tracker struct {
	store Store
	limit int
	now   func() time.Time
}

// NewTracker creates a tracker. A non-positive limit uses DefaultDailyLimit.
func NewTracker(store Store, limit int) *Tracker {
	if limit <= 0 {
		limit = DefaultDailyLimit
	}
	return &Tracker{store: store, limit: limit, now: time.Now}
}

// SetClock replaces the time source (optional, for tests).
func (t *Tracker) SetClock(now func() time.Time) {
	t.now = now
}

// Limit returns the daily allowance.
func (t *Tracker) Limit() int {
	return t.limit
}

// Today returns the counter key for the current server-local day.
func (t *Tracker) Today() string {
	return t.now().Local().Format(dateLayout)
}

// Info reads today's counter. Read failures are logged and reported as an
// unused quota with Error set, so an unreachable store never blocks imports.
func (t *Tracker) Info(ctx context.Context) Info {
	date := t.Today()
	count, err := t.store.Count(ctx, date)
	if err != nil {
		log.Printf("[QUOTA] Failed to read counter for %s, allowing imports: %v", date, err)
		info := t.build(date, 0)
		info.Error = err.Error()
		return info
	}
	return t.build(date, count)
}

// RecordImport adds one import to today's counter and returns the new total.
func (t *Tracker) RecordImport(ctx context.Context) (int, error) {
	date := t.Today()
	count, err := t.store.Increment(ctx, date)
	if err != nil {
		return 0, fmt.Errorf("record import for %s: %w", date, err)
	}
	if count == t.limit {
		log.Printf("[QUOTA] Daily allowance of %d imports reached for %s", t.limit, date)
	}
	return count, nil
}

// Gate decides whether an import may start. Once the allowance is used up
// only a privileged caller asking to override gets through, and the decision
// then carries a cost warning.
func (t *Tracker) Gate(ctx context.Context, privileged, override bool) (Decision, error) {
	info := t.Info(ctx)
	decision := Decision{Status: Classify(info), Info: info}

	if decision.Status != StatusBlocked {
		decision.Allowed = true
		return decision, nil
	}
	if privileged && override {
		log.Printf("[QUOTA] Privileged override past daily allowance (%d/%d)", info.ImportsToday, info.Limit)
		decision.Allowed = true
		decision.CostWarning = true
		return decision, nil
	}
	return decision, ErrQuotaBlocked
}

func (t *Tracker) build(date string, count int) Info {
	remaining := t.limit - count
	if remaining < 0 {
		remaining = 0
	}
	return Info{
		ImportsToday:   count,
		Limit:          t.limit,
		Remaining:      remaining,
		CanImport:      count < t.limit,
		PercentageUsed: 100 * float64(count) / float64(t.limit),
		Date:           date,
	}
}
