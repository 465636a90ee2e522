package http

import (
	"github.com/gin-gonic/gin"

	"github.com/annuaire-qc/directory/internal/auth"
	"github.com/annuaire-qc/directory/internal/geo"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Optional dependencies left nil disable the routes that need them.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware())
	if cfg.StrictTransportSecurity {
		router.Use(auth.StrictTransportSecurityMiddleware())
	}

	// Anonymous callers pass through unprivileged; a valid admin token
	// marks the request privileged.
	if cfg.AuthMiddleware != nil {
		router.Use(cfg.AuthMiddleware.Handler())
	}

	health := NewHealthController(cfg.Database, cfg.Quota, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	api := router.Group("/api")
	admin := api.Group("", auth.RequireAdmin())

	regions := cfg.Geo
	if regions == nil {
		regions = geo.Default()
	}
	geoController := NewGeoController(regions)
	api.GET("/regions", geoController.ListRegions)
	api.GET("/regions/:region/mrcs", geoController.ListMRCs)
	api.GET("/regions/:region/cities", geoController.ListCities)

	if cfg.Quota != nil {
		quotaController := NewQuotaController(cfg.Quota)
		api.GET("/quota", quotaController.GetQuota)
		admin.GET("/quota/history", quotaController.GetHistory)
	}

	if cfg.Importer != nil {
		categories := NewCategoriesController(cfg.Importer.Categories())
		api.GET("/categories", categories.ListCategories)
	}

	if cfg.Importer != nil && cfg.Quota != nil && cfg.Businesses != nil {
		importController := NewImportController(cfg.Importer, cfg.Quota, cfg.Businesses, cfg.Audit, cfg.Snapshotter)
		api.POST("/import", importController.Import)
		api.POST("/import/confirm", importController.Confirm)
	}

	if cfg.Businesses != nil {
		businessesController := NewBusinessesController(cfg.Businesses, cfg.Audit, regions)
		api.GET("/businesses", businessesController.List)
		api.GET("/businesses/:id", businessesController.Get)
		admin.PATCH("/businesses/:id/status", businessesController.UpdateStatus)
	}

	if cfg.Tasks != nil {
		tasksController := NewTasksController(cfg.Tasks, cfg.Maintenance)
		admin.GET("/tasks/types", tasksController.ListTaskTypes)
		admin.GET("/tasks/:id", tasksController.GetTaskStatus)
		admin.POST("/businesses/:id/refresh", tasksController.RefreshBusiness)
		admin.POST("/businesses/refresh", tasksController.RefreshAll)
		admin.POST("/maintenance/run", tasksController.RunMaintenance)
	}

	if cfg.Audit != nil {
		auditController := NewAuditController(cfg.Audit)
		admin.GET("/audit", auditController.GetAuditEvents)
		admin.GET("/audit/:id", auditController.GetAuditEvent)
	}

	redirects := NewRedirectsController(cfg.Businesses)
	router.NoRoute(redirects.Resolve)

	return router
}
