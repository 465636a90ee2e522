package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/annuaire-qc/directory/internal/database/businesses"
	"github.com/annuaire-qc/directory/internal/entities"
	"github.com/annuaire-qc/directory/internal/slug"
)

// RedirectsController answers requests no route matched. Old and
// non-canonical listing URLs get a permanent redirect to the current path;
// everything else is a JSON 404.
type RedirectsController struct {
	store BusinessStore
}

// NewRedirectsController creates the controller. Without a store only the
// path rewrites that need no lookup are served.
func NewRedirectsController(store BusinessStore) *RedirectsController {
	return &RedirectsController{store: store}
}

// Resolve is installed as the router's NoRoute handler.
func (rc *RedirectsController) Resolve(c *gin.Context) {
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		respondNotFound(c, "route")
		return
	}

	path := c.Request.URL.Path
	target, err := rc.canonicalPath(path)
	if err != nil {
		respondInternalError(c, err, "resolve legacy url")
		return
	}
	if target == "" || target == path {
		respondNotFound(c, "route")
		return
	}

	if raw := c.Request.URL.RawQuery; raw != "" {
		target += "?" + raw
	}
	c.Redirect(http.StatusMovedPermanently, target)
}

// canonicalPath returns where path should live now, or "" when it is not a
// listing URL we know. A stored listing's own path wins over the rewritten
// one, so listings that changed category or city still resolve.
func (rc *RedirectsController) canonicalPath(path string) (string, error) {
	candidate := ""
	if rewritten, ok := slug.ResolveLegacy(path); ok {
		candidate = rewritten
	}
	if rc.store == nil {
		return candidate, nil
	}

	lookupPath := path
	if candidate != "" {
		lookupPath = candidate
	}
	businessSlug, ok := slug.LegacySlug(lookupPath)
	if !ok {
		_, _, businessSlug, ok = slug.ParseListingPath(lookupPath)
	}
	if !ok {
		return candidate, nil
	}

	business, err := rc.store.GetBySlug(businessSlug)
	if errors.Is(err, businesses.ErrNotFound) {
		return candidate, nil
	}
	if err != nil {
		return "", err
	}
	if business.Status != entities.BusinessStatusPublished {
		return candidate, nil
	}
	return slug.ListingPath(business.CategorySlug, business.City, business.Slug), nil
}
