package places

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: time.Second},
		baseURL:    baseURL,
		apiKey:     "test-key",
		language:   "fr",
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestDetails_ByPlaceID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/details/json", r.URL.Path)
		assert.Equal(t, "ChIJN1t_tDeuEmsRUsoyG83frY4", r.URL.Query().Get("place_id"))
		assert.Empty(t, r.URL.Query().Get("cid"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "fr", r.URL.Query().Get("language"))
		assert.Contains(t, r.URL.Query().Get("fields"), "address_components")

		writeJSON(w, map[string]any{
			"status": "OK",
			"result": map[string]any{
				"place_id": "ChIJN1t_tDeuEmsRUsoyG83frY4",
				"name":     "Le Filet",
				"types":    []string{"restaurant", "food"},
				"dine_in":  false,
			},
		})
	}))
	defer server.Close()

	place, err := newTestClient(server.URL).Details(context.Background(), "ChIJN1t_tDeuEmsRUsoyG83frY4")
	require.NoError(t, err)
	assert.Equal(t, "Le Filet", place.Name)
	assert.Equal(t, []string{"restaurant", "food"}, place.Types)
	require.NotNil(t, place.DineIn)
	assert.False(t, *place.DineIn)
	assert.Nil(t, place.Takeout)
}

func TestDetails_NumericIdentifierUsesCID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "12345", r.URL.Query().Get("cid"))
		assert.Empty(t, r.URL.Query().Get("place_id"))
		writeJSON(w, map[string]any{"status": "OK", "result": map[string]any{"place_id": "abc"}})
	}))
	defer server.Close()

	place, err := newTestClient(server.URL).Details(context.Background(), "12345")
	require.NoError(t, err)
	assert.Equal(t, "abc", place.PlaceID)
}

func TestDetails_ProviderStatuses(t *testing.T) {
	tests := []struct {
		status   string
		notFound bool
		kind     ErrorKind
	}{
		{status: "ZERO_RESULTS", notFound: true},
		{status: "NOT_FOUND", notFound: true},
		{status: "INVALID_REQUEST", notFound: true},
		{status: "REQUEST_DENIED", kind: KindConfiguration},
		{status: "OVER_QUERY_LIMIT", kind: KindNetwork},
		{status: "UNKNOWN_ERROR", kind: KindNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, map[string]any{"status": tt.status, "error_message": "nope"})
			}))
			defer server.Close()

			_, err := newTestClient(server.URL).Details(context.Background(), "ChIJN1t_tDeuEmsRUsoyG83frY4")
			require.Error(t, err)
			if tt.notFound {
				assert.ErrorIs(t, err, ErrNotFound)
				return
			}
			assert.ErrorIs(t, err, ErrUpstream)
			var upstream *UpstreamError
			require.True(t, errors.As(err, &upstream))
			assert.Equal(t, tt.kind, upstream.Kind)
			assert.Equal(t, tt.status, upstream.ProviderStatus)
			assert.Contains(t, err.Error(), "nope")
		})
	}
}

func TestDetails_HTTPFailureIsNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Details(context.Background(), "ChIJN1t_tDeuEmsRUsoyG83frY4")
	var upstream *UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, KindNetwork, upstream.Kind)
	assert.Equal(t, http.StatusBadGateway, upstream.StatusCode)
}

func TestDetails_MissingKeySendsNoRequest(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	client.apiKey = ""

	_, err := client.Details(context.Background(), "ChIJN1t_tDeuEmsRUsoyG83frY4")
	assert.True(t, IsConfiguration(err))
	assert.ErrorIs(t, err, ErrUpstream)
	assert.Zero(t, calls.Load())
	assert.False(t, client.Configured())
}

func TestDetails_TimeoutIsNetworkError(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := newTestClient(server.URL)
	client.httpClient.Timeout = 50 * time.Millisecond

	_, err := client.Details(context.Background(), "ChIJN1t_tDeuEmsRUsoyG83frY4")
	var upstream *UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, KindNetwork, upstream.Kind)
}

func TestDetails_Cancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(server.URL).Details(ctx, "ChIJN1t_tDeuEmsRUsoyG83frY4")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestTextSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/textsearch/json", r.URL.Path)
		assert.Equal(t, "Le Filet 219 Mont-Royal", r.URL.Query().Get("query"))
		writeJSON(w, map[string]any{
			"status": "OK",
			"results": []map[string]any{
				{"place_id": "one", "name": "Le Filet"},
				{"place_id": "two", "name": "Le Filet Express"},
			},
		})
	}))
	defer server.Close()

	results, err := newTestClient(server.URL).TextSearch(context.Background(), "  Le Filet 219 Mont-Royal ")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "one", results[0].PlaceID)
	assert.Equal(t, "two", results[1].PlaceID)
}

func TestTextSearch_ZeroResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"status": "ZERO_RESULTS", "results": []any{}})
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).TextSearch(context.Background(), "nowhere")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNewClient_Defaults(t *testing.T) {
	client := NewClient(Config{APIKey: "k", BaseURL: "http://example.test/"})
	assert.Equal(t, "http://example.test", client.baseURL)
	assert.Equal(t, DefaultLanguage, client.language)
	assert.Equal(t, DefaultTimeout, client.httpClient.Timeout)
	assert.True(t, client.Configured())
}

func TestPlainAttributions(t *testing.T) {
	got := PlainAttributions([]string{
		`<a href="https://maps.google.com/maps/contrib/1">Marie  Tremblay</a>`,
		``,
		`Photo par <b>Jean</b>`,
	})
	assert.Equal(t, []string{"Marie Tremblay", "Photo par Jean"}, got)

	links := AttributionLinks([]string{`<a href="https://maps.google.com/maps/contrib/1">Marie</a>`, `plain`})
	assert.Equal(t, []string{"https://maps.google.com/maps/contrib/1"}, links)
}
