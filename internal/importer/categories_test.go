package importer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapCategory(t *testing.T) {
	tests := []struct {
		name   string
		types  []string
		want   string
		wantOK bool
	}{
		{"restaurant first", []string{"restaurant", "point_of_interest"}, FoodServiceSlug, true},
		{"cafe", []string{"cafe", "food", "point_of_interest", "establishment"}, FoodServiceSlug, true},
		{"bakery", []string{"bakery"}, FoodServiceSlug, true},
		{"generic tags skipped", []string{"point_of_interest", "establishment", "dentist"}, "sante-et-bien-etre", true},
		{"first match wins", []string{"lodging", "restaurant", "bar"}, "hebergement-et-tourisme", true},
		{"unknown", []string{"unknown_type_xyz"}, "", false},
		{"empty", nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MapCategory(tt.types)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMapCategory_FirstMatchIgnoresLaterTags(t *testing.T) {
	types := []string{"restaurant"}
	for _, extra := range []string{"store", "gym", "lawyer", "museum", "lodging", "church"} {
		types = append(types, extra)
		got, ok := MapCategory(types)
		require.True(t, ok)
		assert.Equal(t, FoodServiceSlug, got)
	}
}

func TestDefaultCategories_EveryRuleIsReachable(t *testing.T) {
	table := DefaultCategories()
	rules := table.Rules()
	require.NotEmpty(t, rules)

	for _, rule := range rules {
		require.NotEmpty(t, rule.Types, rule.Slug)
		for _, placeType := range rule.Types {
			got, ok := table.Map([]string{placeType})
			require.True(t, ok, placeType)
			assert.Equal(t, rule.Slug, got, placeType)
		}
		found, ok := table.Lookup(rule.Slug)
		require.True(t, ok)
		assert.NotEmpty(t, found.NameFR)
		assert.NotEmpty(t, found.NameEN)
	}
}

func TestParseCategoryRules_RejectsAmbiguousTypes(t *testing.T) {
	_, err := ParseCategoryRules([]byte(`
- slug: a
  types: [cafe]
- slug: b
  types: [cafe]
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cafe")
}

func TestParseCategoryRules_RejectsDuplicateSlug(t *testing.T) {
	_, err := ParseCategoryRules([]byte(`
- slug: a
  types: [cafe]
- slug: a
  types: [bar]
`))
	require.Error(t, err)
}

func TestLoadCategoryRules_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
- slug: cafes
  name_fr: Cafés
  name_en: Coffee shops
  types: [cafe]
`), 0o600))

	table, err := LoadCategoryRules(path)
	require.NoError(t, err)

	got, ok := table.Map([]string{"restaurant", "cafe"})
	assert.True(t, ok)
	assert.Equal(t, "cafes", got)

	_, err = LoadCategoryRules(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
