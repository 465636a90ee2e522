package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annuaire-qc/directory/internal/quota"
)

func TestQuotaController_GetQuota(t *testing.T) {
	tests := []struct {
		name       string
		used       int
		wantStatus quota.Status
		canImport  bool
	}{
		{"fresh day", 0, quota.StatusInfo, true},
		{"warning from 80 percent", 72, quota.StatusWarning, true},
		{"blocked at the limit", 90, quota.StatusBlocked, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t, 90)
			api.store.Set(api.tracker.Today(), tt.used)

			w := api.do(t, "GET", "/api/quota", nil, false)
			require.Equal(t, http.StatusOK, w.Code)

			resp := decodeJSON[QuotaResponse](t, w)
			assert.Equal(t, tt.wantStatus, resp.Status)
			assert.Equal(t, tt.used, resp.ImportsToday)
			assert.Equal(t, 90, resp.Limit)
			assert.Equal(t, tt.canImport, resp.CanImport)
			assert.Equal(t, api.tracker.Today(), resp.Date)
		})
	}
}

func TestQuotaController_GetHistory(t *testing.T) {
	api := newTestAPI(t, 90)
	api.store.Set(api.tracker.Today(), 12)

	w := api.do(t, "GET", "/api/quota/history", nil, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.do(t, "GET", "/api/quota/history?days=3", nil, true)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeJSON[QuotaHistoryResponse](t, w)
	require.Len(t, resp.Days, 3)
	assert.Equal(t, quota.DayUsage{Date: api.tracker.Today(), Imports: 12}, resp.Days[0])
	assert.Equal(t, 0, resp.Days[1].Imports)

	w = api.do(t, "GET", "/api/quota/history", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeJSON[QuotaHistoryResponse](t, w).Days, 7)

	w = api.do(t, "GET", "/api/quota/history?days=-1", nil, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCategoriesController_ListCategories(t *testing.T) {
	api := newTestAPI(t, 90)

	w := api.do(t, "GET", "/api/categories", nil, false)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeJSON[map[string]any](t, w)
	categories, ok := resp["categories"].([]any)
	require.True(t, ok)
	assert.NotEmpty(t, categories)
	assert.Equal(t, float64(len(categories)), resp["total"])

	slugs := make([]string, 0, len(categories))
	for _, c := range categories {
		slugs = append(slugs, c.(map[string]any)["slug"].(string))
	}
	assert.Contains(t, slugs, "restauration-et-alimentation")
}
