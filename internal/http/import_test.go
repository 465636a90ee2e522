package http

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annuaire-qc/directory/internal/audit"
	"github.com/annuaire-qc/directory/internal/importer"
	"github.com/annuaire-qc/directory/internal/places"
	"github.com/annuaire-qc/directory/internal/quota"
)

func TestImport_DirectLookup(t *testing.T) {
	api := newTestAPI(t, 90)
	api.importer.result = &importer.Result{Mode: importer.ModeDirect, Draft: testDraft("ChIJfilet", "Le Filet")}

	w := api.do(t, "POST", "/api/import", ImportRequest{Input: "  ChIJfilet  "}, false)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decodeJSON[ImportResponse](t, w)
	assert.Equal(t, importer.ModeDirect, resp.Mode)
	require.NotNil(t, resp.Draft)
	assert.Equal(t, "Le Filet", resp.Draft.Name)
	assert.Empty(t, resp.Candidates)
	assert.Equal(t, 1, resp.Quota.ImportsToday)
	assert.Equal(t, 89, resp.Quota.Remaining)
	assert.False(t, resp.CostWarning)

	require.Len(t, api.importer.calls, 1)
	assert.Equal(t, "ChIJfilet", api.importer.calls[0].Input)

	require.Len(t, api.audit.imports, 1)
	assert.Equal(t, audit.ActorPublic, api.audit.imports[0].actor)
	assert.Empty(t, api.audit.imports[0].code)
	assert.NoError(t, api.audit.imports[0].err)
}

func TestImport_MultipleCandidates(t *testing.T) {
	api := newTestAPI(t, 90)
	api.importer.result = &importer.Result{
		Mode:       importer.ModeSearch,
		Candidates: []*importer.Draft{testDraft("a", "Café A"), testDraft("b", "Café B")},
	}

	w := api.do(t, "POST", "/api/import", ImportRequest{Input: "café", Address: "Québec", Multiple: true}, false)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeJSON[ImportResponse](t, w)
	assert.Nil(t, resp.Draft)
	assert.Len(t, resp.Candidates, 2)
	assert.Equal(t, ImportRequest{Input: "café", Address: "Québec", Multiple: true}, api.importer.calls[0])
	assert.Equal(t, importer.ModeSearch, api.audit.imports[0].mode)
}

func TestImport_FlagsExistingListings(t *testing.T) {
	api := newTestAPI(t, 90)
	listed, err := api.businesses.CreateFromDraft(testDraft("b", "Café B"), "")
	require.NoError(t, err)
	api.importer.result = &importer.Result{
		Mode:       importer.ModeSearch,
		Candidates: []*importer.Draft{testDraft("a", "Café A"), testDraft("b", "Café B")},
	}

	w := api.do(t, "POST", "/api/import", ImportRequest{Input: "café", Multiple: true}, false)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeJSON[ImportResponse](t, w)
	assert.Equal(t, map[string]uint{"b": listed.ID}, resp.Existing)
}

func TestImport_InvalidRequests(t *testing.T) {
	api := newTestAPI(t, 90)

	w := api.do(t, "POST", "/api/import", ImportRequest{Input: "   "}, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, CodeInvalidInput, decodeJSON[ErrorResponse](t, w).Code)

	w = api.do(t, "POST", "/api/import", "not an object", false)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Empty(t, api.importer.calls)
	count, err := api.store.Count(t.Context(), api.tracker.Today())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestImport_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"invalid input", importer.ErrInvalidInput, http.StatusBadRequest, CodeInvalidInput},
		{"not found", fmt.Errorf("%w: %q", importer.ErrNotFound, "nowhere"), http.StatusNotFound, CodeNotFound},
		{
			"upstream",
			&places.UpstreamError{Kind: places.KindConfiguration, Operation: "details", StatusCode: 200, ProviderStatus: "REQUEST_DENIED"},
			http.StatusBadGateway,
			CodeUpstreamUnavailable,
		},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t, 90)
			api.importer.err = tt.err

			w := api.do(t, "POST", "/api/import", ImportRequest{Input: "Le Filet"}, false)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCode, decodeJSON[ErrorResponse](t, w).Code)

			// Failed lookups are not counted.
			count, err := api.store.Count(t.Context(), api.tracker.Today())
			require.NoError(t, err)
			assert.Zero(t, count)

			require.Len(t, api.audit.imports, 1)
			assert.Equal(t, tt.wantCode, api.audit.imports[0].code)
			assert.Error(t, api.audit.imports[0].err)
		})
	}
}

func TestImport_UpstreamDetails(t *testing.T) {
	api := newTestAPI(t, 90)
	api.importer.err = &places.UpstreamError{Kind: places.KindNetwork, Operation: "text search", StatusCode: 503}

	w := api.do(t, "POST", "/api/import", ImportRequest{Input: "Le Filet"}, false)
	require.Equal(t, http.StatusBadGateway, w.Code)

	resp := decodeJSON[ErrorResponse](t, w)
	details, ok := resp.Details.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "network", details["kind"])
	assert.Contains(t, resp.Error, "HTTP 503")
}

func TestImport_QuotaBlocked(t *testing.T) {
	api := newTestAPI(t, 90)
	api.store.Set(api.tracker.Today(), 90)
	api.importer.result = &importer.Result{Mode: importer.ModeDirect, Draft: testDraft("p", "Le Filet")}

	t.Run("anonymous caller is refused", func(t *testing.T) {
		w := api.do(t, "POST", "/api/import", ImportRequest{Input: "Le Filet", Force: true}, false)
		require.Equal(t, http.StatusTooManyRequests, w.Code)

		resp := decodeJSON[ErrorResponse](t, w)
		assert.Equal(t, CodeQuotaBlocked, resp.Code)
		details, ok := resp.Details.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, float64(90), details["limit"])
		assert.Equal(t, false, details["can_import"])
		assert.Empty(t, api.importer.calls)
	})

	t.Run("admin without force is refused", func(t *testing.T) {
		w := api.do(t, "POST", "/api/import", ImportRequest{Input: "Le Filet"}, true)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
	})

	t.Run("admin with force goes through with a cost warning", func(t *testing.T) {
		w := api.do(t, "POST", "/api/import", ImportRequest{Input: "Le Filet", Force: true}, true)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		resp := decodeJSON[ImportResponse](t, w)
		assert.True(t, resp.CostWarning)
		assert.Equal(t, 91, resp.Quota.ImportsToday)
		assert.Equal(t, 1, api.audit.overrides)
		assert.Equal(t, audit.ActorAdmin, api.audit.imports[len(api.audit.imports)-1].actor)
	})
}

func TestImport_QuotaStoreDownFailsOpen(t *testing.T) {
	api := newTestAPI(t, 90)
	api.importer.result = &importer.Result{Mode: importer.ModeDirect, Draft: testDraft("p", "Le Filet")}
	api.router = NewRouter(RouterConfig{
		Importer:   api.importer,
		Quota:      quota.NewTracker(failingStore{}, 90),
		Businesses: api.businesses,
	})

	w := api.do(t, "POST", "/api/import", ImportRequest{Input: "Le Filet"}, false)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decodeJSON[ImportResponse](t, w)
	assert.True(t, resp.Quota.CanImport)
	assert.Equal(t, "counter offline", resp.Quota.Error)
}

func TestConfirm(t *testing.T) {
	api := newTestAPI(t, 90)

	w := api.do(t, "POST", "/api/import/confirm", ConfirmRequest{Draft: testDraft("ChIJfilet", "Le Filet")}, false)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	created := decodeJSON[map[string]any](t, w)
	assert.Equal(t, "le-filet", created["slug"])
	assert.Equal(t, "pending", created["status"])
	assert.Equal(t, importer.FoodServiceSlug, created["category_slug"])
	assert.Len(t, api.snapshotter.saved, 1)
	require.Len(t, api.audit.confirms, 1)
	assert.NoError(t, api.audit.confirms[0])

	t.Run("duplicate place", func(t *testing.T) {
		w := api.do(t, "POST", "/api/import/confirm", ConfirmRequest{Draft: testDraft("ChIJfilet", "Le Filet")}, false)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, CodeAlreadyImported, decodeJSON[ErrorResponse](t, w).Code)
		assert.Error(t, api.audit.confirms[1])
	})

	t.Run("category override", func(t *testing.T) {
		w := api.do(t, "POST", "/api/import/confirm", ConfirmRequest{
			Draft:        testDraft("ChIJother", "Autre Commerce"),
			CategorySlug: importer.FoodServiceSlug,
		}, false)
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("unknown category", func(t *testing.T) {
		w := api.do(t, "POST", "/api/import/confirm", ConfirmRequest{
			Draft:        testDraft("ChIJnew", "Nouveau"),
			CategorySlug: "does-not-exist",
		}, false)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing draft", func(t *testing.T) {
		w := api.do(t, "POST", "/api/import/confirm", ConfirmRequest{}, false)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("draft without place id", func(t *testing.T) {
		w := api.do(t, "POST", "/api/import/confirm", ConfirmRequest{Draft: testDraft("", "Sans Identifiant")}, false)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
