// Package scheduler runs periodic maintenance on a cron schedule. Jobs do
// not do the work themselves; they enqueue tasks so retries and history go
// through the task queue.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/robfig/cron/v3"

	"github.com/annuaire-qc/directory/internal/tasks"
)

// TaskEnqueuer saves tasks to the queue.
type TaskEnqueuer interface {
	Enqueue(tasks ...backlite.Task) ([]string, error)
}

// MaintenanceScheduler enqueues audit cleanup on a cron schedule.
type MaintenanceScheduler struct {
	enqueuer      TaskEnqueuer
	schedule      string
	retentionDays int

	cron      *cron.Cron
	entryID   cron.EntryID
	mu        sync.RWMutex
	isRunning bool

	// runMu guards lastRun; jobs take it while Stop holds mu.
	runMu   sync.Mutex
	lastRun time.Time
}

func NewMaintenanceScheduler(enqueuer TaskEnqueuer, schedule string, retentionDays int) *MaintenanceScheduler {
	return &MaintenanceScheduler{
		enqueuer:      enqueuer,
		schedule:      schedule,
		retentionDays: retentionDays,
		cron:          cron.New(cron.WithParser(parser)),
	}
}

// Start registers the job and starts the cron loop. The scheduler stops
// when ctx is cancelled.
func (s *MaintenanceScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if err := ValidateSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		if _, err := s.RunNow(); err != nil {
			log.Printf("[SCHEDULER] Failed to enqueue maintenance: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule maintenance job: %w", err)
	}
	s.entryID = entryID

	s.cron.Start()
	s.isRunning = true

	nextRun, _ := NextRun(s.schedule, time.Now())
	log.Printf("[SCHEDULER] Maintenance started with schedule '%s' (%s). Next run: %v",
		s.schedule, Describe(s.schedule), nextRun)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop waits for a running job and stops the cron loop.
func (s *MaintenanceScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	stopped := s.cron.Stop()
	<-stopped.Done()
	s.cron.Remove(s.entryID)

	s.isRunning = false
	log.Printf("[SCHEDULER] Maintenance stopped")
}

// RunNow enqueues the maintenance tasks immediately and returns their ids.
func (s *MaintenanceScheduler) RunNow() ([]string, error) {
	ids, err := s.enqueuer.Enqueue(tasks.CleanupAuditEventsTask{RetentionDays: s.retentionDays})
	if err != nil {
		return nil, err
	}

	s.runMu.Lock()
	s.lastRun = time.Now()
	s.runMu.Unlock()

	log.Printf("[SCHEDULER] Enqueued audit cleanup (retention %d days)", s.retentionDays)
	return ids, nil
}

func (s *MaintenanceScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// LastRun returns when maintenance was last enqueued (zero if never).
func (s *MaintenanceScheduler) LastRun() time.Time {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	return s.lastRun
}

// NextRun returns the next scheduled run, or zero when not running.
func (s *MaintenanceScheduler) NextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.isRunning {
		return time.Time{}
	}
	return s.cron.Entry(s.entryID).Next
}
