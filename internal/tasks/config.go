package tasks

import (
	"sync"
	"time"

	"github.com/mikestefanello/backlite"
)

// Queue names, also the task type strings reported by the admin API.
const (
	QueueRefreshBusiness = "refresh_business"
	QueueRefreshAll      = "refresh_all_businesses"
	QueueCleanupAudit    = "cleanup_audit_events"
)

// QueuePolicy sets how one queue retries and bounds its tasks.
type QueuePolicy struct {
	MaxAttempts int
	Backoff     time.Duration
	Timeout     time.Duration
}

// Config holds the worker pool settings and the per-queue policies.
type Config struct {
	Workers int

	// ReleaseAfter hands a claimed task back to the queue when its worker
	// stops reporting.
	ReleaseAfter    time.Duration
	CleanupInterval time.Duration

	// Retention is how long finished tasks stay visible to Status.
	// Payloads are only kept for failed tasks.
	Retention time.Duration

	Queues map[string]QueuePolicy
}

// DefaultQueuePolicies returns the built-in policy of every queue. The bulk
// refresh runs once per request.
func DefaultQueuePolicies() map[string]QueuePolicy {
	return map[string]QueuePolicy{
		QueueRefreshBusiness: {MaxAttempts: 3, Backoff: 30 * time.Second, Timeout: time.Minute},
		QueueRefreshAll:      {MaxAttempts: 1, Backoff: time.Minute, Timeout: 30 * time.Minute},
		QueueCleanupAudit:    {MaxAttempts: 3, Backoff: 5 * time.Minute, Timeout: 2 * time.Minute},
	}
}

func DefaultConfig() Config {
	return Config{
		Workers:         2,
		ReleaseAfter:    10 * time.Minute,
		CleanupInterval: time.Hour,
		Retention:       24 * time.Hour,
		Queues:          DefaultQueuePolicies(),
	}
}

// Override replaces the non-zero fields of one queue's policy.
func (c *Config) Override(queue string, p QueuePolicy) {
	if c.Queues == nil {
		c.Queues = DefaultQueuePolicies()
	}
	current := c.Queues[queue]
	if p.MaxAttempts > 0 {
		current.MaxAttempts = p.MaxAttempts
	}
	if p.Backoff > 0 {
		current.Backoff = p.Backoff
	}
	if p.Timeout > 0 {
		current.Timeout = p.Timeout
	}
	c.Queues[queue] = current
}

// Task types read their queue configuration from here. backlite asks a task
// for it when a queue is built and on every enqueue, so NewClient installs
// the configured policies before any queue is registered.
var active = struct {
	sync.RWMutex
	policies  map[string]QueuePolicy
	retention time.Duration
}{
	policies:  DefaultQueuePolicies(),
	retention: 24 * time.Hour,
}

func install(cfg Config) {
	policies := DefaultQueuePolicies()
	for name, p := range cfg.Queues {
		policies[name] = p
	}

	active.Lock()
	defer active.Unlock()
	active.policies = policies
	if cfg.Retention > 0 {
		active.retention = cfg.Retention
	}
}

func queueConfig(name string) backlite.QueueConfig {
	active.RLock()
	defer active.RUnlock()

	p := active.policies[name]
	return backlite.QueueConfig{
		Name:        name,
		MaxAttempts: p.MaxAttempts,
		Backoff:     p.Backoff,
		Timeout:     p.Timeout,
		Retention: &backlite.Retention{
			Duration:   active.retention,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}
