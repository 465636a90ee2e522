package http

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/annuaire-qc/directory/internal/auth"
	"github.com/annuaire-qc/directory/internal/database/businesses"
	"github.com/annuaire-qc/directory/internal/importer"
	"github.com/annuaire-qc/directory/internal/places"
	"github.com/annuaire-qc/directory/internal/quota"
)

// ImportRequest is the body of POST /api/import.
type ImportRequest struct {
	Input    string `json:"input"`
	Address  string `json:"address"`
	Multiple bool   `json:"multiple"`
	// Force lets an admin import past the daily allowance.
	Force bool `json:"force"`
}

// ImportResponse carries either a draft or a candidate list.
type ImportResponse struct {
	Mode        string            `json:"mode"`
	Draft       *importer.Draft   `json:"draft,omitempty"`
	Candidates  []*importer.Draft `json:"candidates,omitempty"`
	Quota       quota.Info        `json:"quota"`
	CostWarning bool              `json:"cost_warning,omitempty"`
	// Existing maps place ids already in the directory to their listing id.
	Existing map[string]uint `json:"existing,omitempty"`
}

// ConfirmRequest is the body of POST /api/import/confirm.
type ConfirmRequest struct {
	Draft        *importer.Draft `json:"draft"`
	CategorySlug string          `json:"category_slug"`
}

type ImportController struct {
	importer    PlaceImporter
	quota       QuotaTracker
	businesses  BusinessStore
	audit       AuditLogger
	snapshotter DraftSnapshotter
}

func NewImportController(imp PlaceImporter, tracker QuotaTracker, store BusinessStore, auditLogger AuditLogger, snapshotter DraftSnapshotter) *ImportController {
	return &ImportController{
		importer:    imp,
		quota:       tracker,
		businesses:  store,
		audit:       auditLogger,
		snapshotter: snapshotter,
	}
}

// Import handles POST /api/import.
func (ic *ImportController) Import(c *gin.Context) {
	var req ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	req.Input = strings.TrimSpace(req.Input)
	if req.Input == "" {
		respondBadRequest(c, "input is required")
		return
	}

	ctx := c.Request.Context()
	info := requestInfo(c)
	mode := "single"
	if req.Multiple {
		mode = "multiple"
	}

	decision, err := ic.quota.Gate(ctx, auth.IsPrivileged(c), req.Force)
	if err != nil {
		ic.logImport(c, req.Input, mode, 0, CodeQuotaBlocked, err)
		respondError(c, http.StatusTooManyRequests, CodeQuotaBlocked, "daily import quota reached", decision.Info)
		return
	}
	if decision.CostWarning && ic.audit != nil {
		ic.audit.LogQuotaOverride(info, decision.Info.ImportsToday, decision.Info.Limit)
	}

	result, err := ic.importer.ImportPlace(ctx, req.Input, req.Address, req.Multiple)
	if err != nil {
		code := ic.respondImportError(c, err)
		ic.logImport(c, req.Input, mode, 0, code, err)
		return
	}

	// The lookup already happened; a counter failure only gets logged.
	if _, err := ic.quota.RecordImport(ctx); err != nil {
		log.Printf("[QUOTA] Failed to record import: %v", err)
	}

	ic.logImport(c, req.Input, result.Mode, len(result.Drafts()), "", nil)
	c.JSON(http.StatusOK, ImportResponse{
		Mode:        result.Mode,
		Draft:       result.Draft,
		Candidates:  result.Candidates,
		Quota:       ic.quota.Info(ctx),
		CostWarning: decision.CostWarning,
		Existing:    ic.existingListings(result),
	})
}

// existingListings finds drafts whose place is already listed, so the
// client can skip confirming them. Lookup failures are only logged.
func (ic *ImportController) existingListings(result *importer.Result) map[string]uint {
	var existing map[string]uint
	for _, draft := range result.Drafts() {
		if draft == nil || draft.ExternalPlaceID == "" {
			continue
		}
		business, err := ic.businesses.GetByPlaceID(draft.ExternalPlaceID)
		if errors.Is(err, businesses.ErrNotFound) {
			continue
		}
		if err != nil {
			log.Printf("[IMPORT] Failed to check existing listing for %s: %v", draft.ExternalPlaceID, err)
			continue
		}
		if existing == nil {
			existing = make(map[string]uint)
		}
		existing[draft.ExternalPlaceID] = business.ID
	}
	return existing
}

// respondImportError maps an importer failure onto the API error codes and
// returns the code it used.
func (ic *ImportController) respondImportError(c *gin.Context, err error) string {
	var upstream *places.UpstreamError
	switch {
	case errors.Is(err, importer.ErrInvalidInput):
		respondBadRequest(c, err.Error())
		return CodeInvalidInput
	case errors.Is(err, importer.ErrNotFound):
		respondError(c, http.StatusNotFound, CodeNotFound, err.Error(), nil)
		return CodeNotFound
	case errors.As(err, &upstream):
		if places.IsConfiguration(err) {
			log.Printf("[IMPORT] Google Places is misconfigured: %v", err)
		}
		respondError(c, http.StatusBadGateway, CodeUpstreamUnavailable, upstream.Error(), gin.H{
			"kind":            upstream.Kind,
			"provider_status": upstream.ProviderStatus,
		})
		return CodeUpstreamUnavailable
	default:
		respondInternalError(c, err, "import place")
		return CodeInternal
	}
}

func (ic *ImportController) logImport(c *gin.Context, input, mode string, drafts int, code string, err error) {
	if ic.audit == nil {
		return
	}
	ic.audit.LogImport(requestInfo(c), input, mode, drafts, code, err)
}

// Confirm handles POST /api/import/confirm and saves a reviewed draft as a
// pending listing.
func (ic *ImportController) Confirm(c *gin.Context) {
	var req ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if req.Draft == nil {
		respondBadRequest(c, "draft is required")
		return
	}
	if req.CategorySlug != "" {
		if _, ok := ic.importer.Categories().Lookup(req.CategorySlug); !ok {
			respondBadRequest(c, "unknown category_slug")
			return
		}
	}

	business, err := ic.businesses.CreateFromDraft(req.Draft, req.CategorySlug)
	if ic.audit != nil {
		ic.audit.LogConfirm(requestInfo(c), business, req.Draft.ExternalPlaceID, err)
	}
	switch {
	case errors.Is(err, businesses.ErrAlreadyImported):
		respondError(c, http.StatusConflict, CodeAlreadyImported, "place already imported", gin.H{
			"external_place_id": req.Draft.ExternalPlaceID,
		})
		return
	case errors.Is(err, businesses.ErrInvalidDraft):
		respondBadRequest(c, err.Error())
		return
	case err != nil:
		respondInternalError(c, err, "confirm import")
		return
	}

	if ic.snapshotter != nil {
		if _, err := ic.snapshotter.SaveJSON(req.Draft); err != nil {
			log.Printf("[IMPORT] Failed to snapshot draft for %s: %v", req.Draft.ExternalPlaceID, err)
		}
	}

	respondCreated(c, business)
}
