// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup and migrations
//	├── businesses/      # Directory listings created from import drafts
//	├── quota/           # Daily Google Places import counter
//	└── audit/           # Audit trail of imports, refreshes and overrides
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type with domain-specific operations:
//
//	db, err := database.NewDatabase("./directory.db")
//
//	businessRepo := businesses.NewRepository(db.DB)
//	quotaRepo := quota.NewRepository(db.DB)
//
//	business, err := businessRepo.CreateFromDraft(draft, "")
//	count, err := quotaRepo.Increment(ctx, "2026-03-14")
//
// # Interface Implementations
//
//   - businesses.Repository: implements http.BusinessStore and tasks.ListingStore
//   - quota.Repository: implements quota.Store
//   - audit.Repository: implements audit.EventStore
//
// The quota counter can also live in Postgres or DynamoDB; see internal/storage.
package database
