// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Storage Interfaces
//
//   - quota.Store: one import counter per day (internal/quota/tracker.go),
//     backed by SQLite, Postgres (Supabase) or DynamoDB (internal/storage)
//   - http.BusinessStore / tasks.ListingStore: listings (internal/database/businesses)
//   - audit.EventStore: audit events (internal/database/audit)
//
// ## External Service Interfaces
//
//   - importer.PlaceProvider: Google Places details and text search (internal/places)
//
// ## Service Interfaces
//
//   - http.PlaceImporter, tasks.PlaceImporter: the import pipeline (internal/importer)
//   - http.QuotaTracker, tasks.QuotaGate: the fail-open quota (internal/quota)
//   - http.TaskQueue, scheduler.TaskEnqueuer: the backlite queue (internal/tasks)
//
// # Adding a New Quota Backend
//
//  1. Create a package under internal/storage/ with a type implementing
//     Increment and Count. Increment must be atomic in the backend itself:
//
//     type QuotaStore struct { client *redis.Client }
//
//     func (s *QuotaStore) Increment(ctx context.Context, date string) (int, error)
//     func (s *QuotaStore) Count(ctx context.Context, date string) (int, error)
//
//  2. Add a Backend constant and a case in storage.OpenQuotaStore.
//
//  3. Add a compile-time check to checks.go.
//
// # Adding a New Background Task
//
//  1. Define the task in internal/tasks/ with a Config() backlite.QueueConfig
//     method, a processor and a NewXQueue constructor.
//
//  2. Register the queue in entrypoint.Run.
//
//  3. Expose an admin route in internal/http/tasks.go if it can be triggered by hand.
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for the full list.
package interfaces
