package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/annuaire-qc/directory/internal/auth"
	"github.com/annuaire-qc/directory/internal/database/businesses"
	"github.com/annuaire-qc/directory/internal/entities"
	"github.com/annuaire-qc/directory/internal/geo"
	"github.com/annuaire-qc/directory/internal/slug"
)

// BusinessResponse adds the public listing path to a business.
type BusinessResponse struct {
	*entities.Business
	Path string `json:"path"`
}

// StatusRequest is the body of PATCH /api/businesses/:id/status.
type StatusRequest struct {
	Status entities.BusinessStatus `json:"status"`
}

type BusinessesController struct {
	store   BusinessStore
	audit   AuditLogger
	regions *geo.Table
}

// NewBusinessesController creates the listings controller. A nil regions
// table uses the built-in one.
func NewBusinessesController(store BusinessStore, auditLogger AuditLogger, regions *geo.Table) *BusinessesController {
	if regions == nil {
		regions = geo.Default()
	}
	return &BusinessesController{store: store, audit: auditLogger, regions: regions}
}

func withPath(b *entities.Business) BusinessResponse {
	return BusinessResponse{Business: b, Path: slug.ListingPath(b.CategorySlug, b.City, b.Slug)}
}

// List handles GET /api/businesses
// Anonymous callers only see published listings; admins may filter by status.
// region and mrc filter by the cities they contain.
func (bc *BusinessesController) List(c *gin.Context) {
	cities, ok := cityFilter(c, bc.regions)
	if !ok {
		return
	}

	limit, offset := parsePagination(c, 20, 100)
	filter := businesses.ListFilter{
		Status:   entities.BusinessStatusPublished,
		Category: c.Query("category"),
		City:     c.Query("city"),
		Cities:   cities,
		Search:   c.Query("q"),
		Limit:    limit,
		Offset:   offset,
	}
	if auth.IsPrivileged(c) {
		filter.Status = entities.BusinessStatus(c.Query("status"))
		if filter.Status != "" && !filter.Status.Valid() {
			respondBadRequest(c, "invalid status")
			return
		}
	}

	items, total, err := bc.store.List(filter)
	if err != nil {
		respondInternalError(c, err, "list businesses")
		return
	}

	out := make([]BusinessResponse, 0, len(items))
	for i := range items {
		out = append(out, withPath(&items[i]))
	}
	respondPage(c, out, total, limit, offset)
}

// Get handles GET /api/businesses/:id
// The id may be the numeric id or the public UUID.
func (bc *BusinessesController) Get(c *gin.Context) {
	param := c.Param("id")

	var (
		business *entities.Business
		err      error
	)
	if id, parseErr := strconv.ParseUint(param, 10, 32); parseErr == nil {
		business, err = bc.store.GetByID(uint(id))
	} else {
		business, err = bc.store.GetByPublicID(param)
	}
	if errors.Is(err, businesses.ErrNotFound) {
		respondNotFound(c, "business")
		return
	}
	if err != nil {
		respondInternalError(c, err, "get business")
		return
	}
	if business.Status != entities.BusinessStatusPublished && !auth.IsPrivileged(c) {
		respondNotFound(c, "business")
		return
	}

	c.JSON(http.StatusOK, withPath(business))
}

// UpdateStatus handles PATCH /api/businesses/:id/status (admin only).
func (bc *BusinessesController) UpdateStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.Status.Valid() {
		respondBadRequest(c, "status must be pending, published or rejected")
		return
	}

	business, err := bc.store.UpdateStatus(id, req.Status)
	if errors.Is(err, businesses.ErrNotFound) {
		respondNotFound(c, "business")
		return
	}
	if err != nil {
		respondInternalError(c, err, "update business status")
		return
	}
	if bc.audit != nil {
		bc.audit.LogModeration(requestInfo(c), id, req.Status)
	}

	c.JSON(http.StatusOK, withPath(business))
}
