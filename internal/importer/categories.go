package importer

import (
	_ "embed"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// FoodServiceSlug is the category restaurants, cafés, bars and bakeries land in.
const FoodServiceSlug = "restauration-et-alimentation"

//go:embed categories.yaml
var defaultCategoryRules []byte

// CategoryRule maps a set of Google place types to one directory category.
type CategoryRule struct {
	Slug   string   `yaml:"slug" json:"slug"`
	NameFR string   `yaml:"name_fr" json:"name_fr"`
	NameEN string   `yaml:"name_en" json:"name_en"`
	Types  []string `yaml:"types" json:"types"`
}

// CategoryTable is an immutable lookup from place type to category slug.
type CategoryTable struct {
	rules  []CategoryRule
	byType map[string]string
	bySlug map[string]CategoryRule
}

// ParseCategoryRules builds a table from YAML. A type listed under two
// categories is rejected since the lookup would be ambiguous.
func ParseCategoryRules(data []byte) (*CategoryTable, error) {
	var rules []CategoryRule
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("parse category rules: %w", err)
	}

	table := &CategoryTable{
		rules:  rules,
		byType: make(map[string]string),
		bySlug: make(map[string]CategoryRule, len(rules)),
	}
	for _, rule := range rules {
		if rule.Slug == "" {
			return nil, fmt.Errorf("category rule without slug")
		}
		if _, dup := table.bySlug[rule.Slug]; dup {
			return nil, fmt.Errorf("duplicate category slug %q", rule.Slug)
		}
		table.bySlug[rule.Slug] = rule
		for _, t := range rule.Types {
			if existing, dup := table.byType[t]; dup {
				return nil, fmt.Errorf("place type %q mapped to both %q and %q", t, existing, rule.Slug)
			}
			table.byType[t] = rule.Slug
		}
	}
	return table, nil
}

// LoadCategoryRules reads a rule file from disk.
func LoadCategoryRules(path string) (*CategoryTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read category rules: %w", err)
	}
	return ParseCategoryRules(data)
}

var defaultCategories = sync.OnceValue(func() *CategoryTable {
	table, err := ParseCategoryRules(defaultCategoryRules)
	if err != nil {
		panic(fmt.Sprintf("embedded category rules: %v", err))
	}
	return table
})

// DefaultCategories returns the table compiled into the binary.
func DefaultCategories() *CategoryTable {
	return defaultCategories()
}

// Map returns the slug of the first type with a rule. Types are checked in
// the order given, which Google sorts roughly by specificity.
func (t *CategoryTable) Map(types []string) (string, bool) {
	for _, placeType := range types {
		if slug, ok := t.byType[placeType]; ok {
			return slug, true
		}
	}
	return "", false
}

// Rules returns the rules in file order.
func (t *CategoryTable) Rules() []CategoryRule {
	out := make([]CategoryRule, len(t.rules))
	copy(out, t.rules)
	return out
}

// Lookup returns the rule for a slug.
func (t *CategoryTable) Lookup(slug string) (CategoryRule, bool) {
	rule, ok := t.bySlug[slug]
	return rule, ok
}

// MapCategory maps place types with the built-in table.
func MapCategory(types []string) (string, bool) {
	return DefaultCategories().Map(types)
}
