package businesses

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annuaire-qc/directory/internal/database"
	"github.com/annuaire-qc/directory/internal/entities"
	"github.com/annuaire-qc/directory/internal/importer"
)

func setupTestRepo(t *testing.T) *Repository {
	t.Helper()
	db, err := database.NewTestDatabase(filepath.Join(t.TempDir(), "businesses.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(db.DB)
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool { return &b }

func testDraft(placeID, name string) *importer.Draft {
	lat, lng := 45.5228, -73.5840
	return &importer.Draft{
		Name:                  name,
		Description:           "Poissons et fruits de mer",
		Phone:                 "(514) 360-6060",
		Website:               "https://lefilet.ca",
		Address:               "219 Avenue du Mont-Royal Ouest",
		City:                  "Montréal",
		Province:              "Québec",
		PostalCode:            "H2T 2S5",
		Country:               "Canada",
		Latitude:              &lat,
		Longitude:             &lng,
		ExternalPlaceID:       placeID,
		ExternalMapsURL:       "https://maps.google.com/?cid=1",
		RatingAverage:         4.6,
		RatingCount:           812,
		BusinessStatus:        "OPERATIONAL",
		SuggestedCategorySlug: strPtr(importer.FoodServiceSlug),
		Reviews:               []importer.Review{{AuthorName: "Marie", Rating: 5, Text: "Superbe"}},
		SocialLinks:           importer.SocialLinks{FacebookURL: strPtr("https://facebook.com/lefilet")},
		OpeningHoursText:      []string{"lundi: Fermé"},
		Photos: []importer.Photo{{
			Identifier:   "ref",
			Reference:    "ref",
			WidthPx:      800,
			HeightPx:     600,
			Attributions: []string{`<a href="https://maps.google.com/contrib/1">Marie Tremblay</a>`},
		}},
		RestaurantAttributes: &importer.RestaurantAttributes{DineIn: boolPtr(false)},
	}
}

func TestRepository_CreateFromDraft(t *testing.T) {
	repo := setupTestRepo(t)

	business, err := repo.CreateFromDraft(testDraft("place-1", "Le Filet"), "")
	require.NoError(t, err)

	assert.NotZero(t, business.ID)
	assert.Len(t, business.PublicID, 36)
	assert.Equal(t, "le-filet", business.Slug)
	assert.Equal(t, entities.BusinessStatusPending, business.Status)
	assert.Equal(t, importer.FoodServiceSlug, business.CategorySlug)
	assert.False(t, business.ImportedAt.IsZero())

	stored, err := repo.GetByID(business.ID)
	require.NoError(t, err)
	assert.Equal(t, "Montréal", stored.City)
	require.Len(t, stored.Reviews, 1)
	assert.Equal(t, "Marie", stored.Reviews[0].AuthorName)
	require.Len(t, stored.Photos, 1)
	assert.Equal(t, []string{"Marie Tremblay"}, stored.Photos[0].Credits)
	assert.Equal(t, []string{"https://maps.google.com/contrib/1"}, stored.Photos[0].CreditURLs)
	assert.Equal(t, map[string]string{"facebook": "https://facebook.com/lefilet"}, stored.SocialLinks)
	assert.Equal(t, []string{"lundi: Fermé"}, stored.OpeningHours)
	require.Contains(t, stored.Attributes, "restaurant")
	assert.NotContains(t, stored.Attributes, "parking")
	assert.Equal(t, map[string]any{"dine_in": false}, stored.Attributes["restaurant"])
	require.NotNil(t, stored.Latitude)
	assert.InDelta(t, 45.5228, *stored.Latitude, 1e-9)
}

func TestRepository_CreateFromDraft_CategoryOverride(t *testing.T) {
	repo := setupTestRepo(t)

	business, err := repo.CreateFromDraft(testDraft("place-1", "Le Filet"), "commerce-de-detail")
	require.NoError(t, err)
	assert.Equal(t, "commerce-de-detail", business.CategorySlug)
}

func TestRepository_CreateFromDraft_Duplicate(t *testing.T) {
	repo := setupTestRepo(t)

	_, err := repo.CreateFromDraft(testDraft("place-1", "Le Filet"), "")
	require.NoError(t, err)

	_, err = repo.CreateFromDraft(testDraft("place-1", "Le Filet"), "")
	assert.ErrorIs(t, err, ErrAlreadyImported)
}

func TestRepository_CreateFromDraft_SlugCollisions(t *testing.T) {
	repo := setupTestRepo(t)

	for i := 1; i <= 3; i++ {
		business, err := repo.CreateFromDraft(testDraft(fmt.Sprintf("place-%d", i), "Le Filet"), "")
		require.NoError(t, err)
		if i == 1 {
			assert.Equal(t, "le-filet", business.Slug)
		} else {
			assert.Equal(t, fmt.Sprintf("le-filet-%d", i), business.Slug)
		}
	}
}

func TestRepository_CreateFromDraft_Invalid(t *testing.T) {
	repo := setupTestRepo(t)

	_, err := repo.CreateFromDraft(nil, "")
	assert.ErrorIs(t, err, ErrInvalidDraft)
	_, err = repo.CreateFromDraft(testDraft("", "Le Filet"), "")
	assert.ErrorIs(t, err, ErrInvalidDraft)
	_, err = repo.CreateFromDraft(testDraft("place-1", "  "), "")
	assert.ErrorIs(t, err, ErrInvalidDraft)
}

func TestRepository_RefreshFromDraft(t *testing.T) {
	repo := setupTestRepo(t)
	business, err := repo.CreateFromDraft(testDraft("place-1", "Le Filet"), "")
	require.NoError(t, err)
	_, err = repo.UpdateStatus(business.ID, entities.BusinessStatusPublished)
	require.NoError(t, err)

	refreshed := testDraft("place-1", "Nouveau nom")
	refreshed.RatingAverage = 4.8
	refreshed.RatingCount = 900
	refreshed.BusinessStatus = "CLOSED_TEMPORARILY"
	refreshed.Reviews = append(refreshed.Reviews, importer.Review{AuthorName: "Jean"})
	refreshed.SocialLinks = importer.SocialLinks{}
	refreshed.RestaurantAttributes = nil

	repo.now = func() time.Time { return time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC) }
	updated, err := repo.RefreshFromDraft(business.ID, refreshed)
	require.NoError(t, err)

	assert.Equal(t, "Le Filet", updated.Name)
	assert.Equal(t, "le-filet", updated.Slug)
	assert.Equal(t, entities.BusinessStatusPublished, updated.Status)
	assert.InDelta(t, 4.8, updated.RatingAverage, 1e-9)
	assert.Equal(t, 900, updated.RatingCount)
	assert.Equal(t, "CLOSED_TEMPORARILY", updated.ProviderStatus)
	require.NotNil(t, updated.RefreshedAt)

	stored, err := repo.GetByID(business.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Reviews, 2)
	assert.Empty(t, stored.SocialLinks)
	assert.Nil(t, stored.Attributes)

	_, err = repo.RefreshFromDraft(9999, refreshed)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_Lookups(t *testing.T) {
	repo := setupTestRepo(t)
	business, err := repo.CreateFromDraft(testDraft("place-1", "Le Filet"), "")
	require.NoError(t, err)

	byPublic, err := repo.GetByPublicID(business.PublicID)
	require.NoError(t, err)
	assert.Equal(t, business.ID, byPublic.ID)

	byPlace, err := repo.GetByPlaceID("place-1")
	require.NoError(t, err)
	assert.Equal(t, business.ID, byPlace.ID)

	bySlug, err := repo.GetBySlug("le-filet")
	require.NoError(t, err)
	assert.Equal(t, business.ID, bySlug.ID)

	_, err = repo.GetByPlaceID("missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.GetByID(4242)
	assert.ErrorIs(t, err, ErrNotFound)

	ids, err := repo.ListPlaceIDs()
	require.NoError(t, err)
	assert.Equal(t, map[uint]string{business.ID: "place-1"}, ids)
}

func TestRepository_List(t *testing.T) {
	repo := setupTestRepo(t)

	for i := 0; i < 5; i++ {
		draft := testDraft(fmt.Sprintf("place-%d", i), fmt.Sprintf("Commerce %d", i))
		if i%2 == 0 {
			draft.City = "Québec"
		}
		_, err := repo.CreateFromDraft(draft, "")
		require.NoError(t, err)
	}
	first, err := repo.GetByPlaceID("place-0")
	require.NoError(t, err)
	_, err = repo.UpdateStatus(first.ID, entities.BusinessStatusPublished)
	require.NoError(t, err)

	t.Run("all", func(t *testing.T) {
		items, total, err := repo.List(ListFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
		assert.Len(t, items, 5)
	})

	t.Run("by city", func(t *testing.T) {
		items, total, err := repo.List(ListFilter{City: "québec"})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, items, 3)
	})

	t.Run("by city list", func(t *testing.T) {
		items, total, err := repo.List(ListFilter{Cities: []string{"Québec", "Lévis"}})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		for _, item := range items {
			assert.Equal(t, "Québec", item.City)
		}
	})

	t.Run("by status", func(t *testing.T) {
		items, total, err := repo.List(ListFilter{Status: entities.BusinessStatusPublished})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, "place-0", items[0].ExternalPlaceID)
	})

	t.Run("search and pagination", func(t *testing.T) {
		items, total, err := repo.List(ListFilter{Search: "commerce", Limit: 2, Offset: 1})
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
		assert.Len(t, items, 2)
	})
}

func TestRepository_UpdateStatus(t *testing.T) {
	repo := setupTestRepo(t)

	_, err := repo.UpdateStatus(1, "archived")
	assert.Error(t, err)

	_, err = repo.UpdateStatus(1, entities.BusinessStatusRejected)
	assert.ErrorIs(t, err, ErrNotFound)
}
