package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/annuaire-qc/directory/internal/audit"
	"github.com/annuaire-qc/directory/internal/config"
	"github.com/annuaire-qc/directory/internal/database"
	auditRepo "github.com/annuaire-qc/directory/internal/database/audit"
	"github.com/annuaire-qc/directory/internal/database/businesses"
	"github.com/annuaire-qc/directory/internal/importer"
	"github.com/annuaire-qc/directory/internal/places"
	"github.com/annuaire-qc/directory/internal/quota"
	"github.com/annuaire-qc/directory/internal/storage"
)

// App holds the components shared by the HTTP server and the CLI.
type App struct {
	Config      *config.Config
	DB          *database.Database
	QuotaStore  storage.QuotaStore
	Tracker     *quota.Tracker
	Places      *places.Client
	Importer    *importer.Importer
	Businesses  *businesses.Repository
	Audit       *audit.Service
	Snapshotter *audit.Snapshotter // nil unless AUDIT_DIR is set
}

// Build opens storage and wires the import pipeline.
func Build(ctx context.Context, cfg *config.Config) (*App, error) {
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	store, err := storage.OpenQuotaStore(ctx, storage.Config{
		Backend:     storage.Backend(cfg.Quota.Backend),
		PostgresURL: cfg.Quota.PostgresURL,
		DynamoTable: cfg.Quota.DynamoTable,
		AWSRegion:   cfg.Quota.AWSRegion,
	}, db.DB)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open quota store: %w", err)
	}

	categories := importer.DefaultCategories()
	if cfg.Import.CategoryRulesPath != "" {
		categories, err = importer.LoadCategoryRules(cfg.Import.CategoryRulesPath)
		if err != nil {
			_ = store.Close()
			_ = db.Close()
			return nil, err
		}
		log.Printf("[IMPORT] Loaded %d category rules from %s", len(categories.Rules()), cfg.Import.CategoryRulesPath)
	}

	placesClient := places.NewClient(places.Config{
		APIKey:   cfg.Places.APIKey,
		BaseURL:  cfg.Places.BaseURL,
		Language: cfg.Places.Language,
		Timeout:  cfg.Places.Timeout,
	})
	if !placesClient.Configured() {
		log.Printf("WARNING: Google Places API key is not set. Imports will fail until 'GOOGLE_PLACES_API_KEY' is configured.")
	}

	imp := importer.NewImporter(placesClient, categories)
	imp.SetMaxCandidates(cfg.Import.MaxCandidates)

	app := &App{
		Config:     cfg,
		DB:         db,
		QuotaStore: store,
		Tracker:    quota.NewTracker(store, cfg.Quota.DailyLimit),
		Places:     placesClient,
		Importer:   imp,
		Businesses: businesses.NewRepository(db.DB),
		Audit:      audit.NewService(auditRepo.NewRepository(db.DB)),
	}
	if cfg.Audit.Dir != "" {
		app.Snapshotter = audit.NewSnapshotter(cfg.Audit.Dir)
	}
	return app, nil
}

// Close flushes pending audit events and releases storage.
func (a *App) Close() error {
	a.Audit.Wait()
	return errors.Join(a.QuotaStore.Close(), a.DB.Close())
}
