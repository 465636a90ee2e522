// Package geo holds the static Quebec lookup tables behind the directory's
// cascading location filters: region, then MRC, then city.
package geo

import (
	_ "embed"
	"fmt"
	"slices"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/annuaire-qc/directory/internal/slug"
)

//go:embed regions.yaml
var defaultRegions []byte

type Region struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// MRC is a regional county municipality or an equivalent territory.
type MRC struct {
	Slug       string `json:"slug"`
	Name       string `json:"name"`
	RegionSlug string `json:"region_slug"`
}

type City struct {
	Slug       string `json:"slug"`
	Name       string `json:"name"`
	MRCSlug    string `json:"mrc_slug"`
	RegionSlug string `json:"region_slug"`
}

type regionRecord struct {
	Slug string      `yaml:"slug"`
	Name string      `yaml:"name"`
	Code string      `yaml:"code"`
	MRCs []mrcRecord `yaml:"mrcs"`
}

type mrcRecord struct {
	Slug   string   `yaml:"slug"`
	Name   string   `yaml:"name"`
	Cities []string `yaml:"cities"`
}

// Table is an immutable region/MRC/city index. Regions keep file order;
// MRC and city lists are sorted by French collation.
type Table struct {
	regions        []Region
	regionBySlug   map[string]Region
	mrcBySlug      map[string]MRC
	cityBySlug     map[string]City
	mrcsByRegion   map[string][]MRC
	citiesByRegion map[string][]City
	citiesByMRC    map[string][]City
}

// Parse builds a table from YAML. Slugs must be unique per level, and a
// city name may appear only once so lookups by name stay unambiguous.
func Parse(data []byte) (*Table, error) {
	var records []regionRecord
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse regions: %w", err)
	}

	t := &Table{
		regionBySlug:   make(map[string]Region, len(records)),
		mrcBySlug:      make(map[string]MRC),
		cityBySlug:     make(map[string]City),
		mrcsByRegion:   make(map[string][]MRC, len(records)),
		citiesByRegion: make(map[string][]City, len(records)),
		citiesByMRC:    make(map[string][]City),
	}

	for _, rec := range records {
		if rec.Slug == "" || rec.Name == "" {
			return nil, fmt.Errorf("region without slug or name")
		}
		if _, dup := t.regionBySlug[rec.Slug]; dup {
			return nil, fmt.Errorf("duplicate region slug %q", rec.Slug)
		}
		region := Region{Slug: rec.Slug, Name: rec.Name, Code: rec.Code}
		t.regions = append(t.regions, region)
		t.regionBySlug[region.Slug] = region

		for _, m := range rec.MRCs {
			if m.Slug == "" || m.Name == "" {
				return nil, fmt.Errorf("region %q: mrc without slug or name", rec.Slug)
			}
			if _, dup := t.mrcBySlug[m.Slug]; dup {
				return nil, fmt.Errorf("duplicate mrc slug %q", m.Slug)
			}
			mrc := MRC{Slug: m.Slug, Name: m.Name, RegionSlug: rec.Slug}
			t.mrcBySlug[mrc.Slug] = mrc
			t.mrcsByRegion[rec.Slug] = append(t.mrcsByRegion[rec.Slug], mrc)

			for _, name := range m.Cities {
				citySlug := slug.Slugify(name)
				if citySlug == "" {
					return nil, fmt.Errorf("mrc %q: city %q has no usable slug", m.Slug, name)
				}
				if existing, dup := t.cityBySlug[citySlug]; dup {
					return nil, fmt.Errorf("city %q listed under both %q and %q", name, existing.MRCSlug, m.Slug)
				}
				city := City{Slug: citySlug, Name: name, MRCSlug: m.Slug, RegionSlug: rec.Slug}
				t.cityBySlug[citySlug] = city
				t.citiesByMRC[m.Slug] = append(t.citiesByMRC[m.Slug], city)
				t.citiesByRegion[rec.Slug] = append(t.citiesByRegion[rec.Slug], city)
			}
		}
	}

	col := collate.New(language.CanadianFrench, collate.IgnoreCase)
	for _, mrcs := range t.mrcsByRegion {
		slices.SortStableFunc(mrcs, func(a, b MRC) int { return col.CompareString(a.Name, b.Name) })
	}
	byName := func(a, b City) int { return col.CompareString(a.Name, b.Name) }
	for _, cities := range t.citiesByRegion {
		slices.SortStableFunc(cities, byName)
	}
	for _, cities := range t.citiesByMRC {
		slices.SortStableFunc(cities, byName)
	}
	return t, nil
}

var defaultTable = sync.OnceValue(func() *Table {
	t, err := Parse(defaultRegions)
	if err != nil {
		panic(fmt.Sprintf("embedded regions: %v", err))
	}
	return t
})

// Default returns the table compiled into the binary.
func Default() *Table {
	return defaultTable()
}

// Regions returns every region in official order.
func (t *Table) Regions() []Region {
	return slices.Clone(t.regions)
}

func (t *Table) Region(regionSlug string) (Region, bool) {
	r, ok := t.regionBySlug[regionSlug]
	return r, ok
}

func (t *Table) MRC(mrcSlug string) (MRC, bool) {
	m, ok := t.mrcBySlug[mrcSlug]
	return m, ok
}

// MRCsForRegion returns the MRCs of a region, nil for an unknown region.
func (t *Table) MRCsForRegion(regionSlug string) []MRC {
	return slices.Clone(t.mrcsByRegion[regionSlug])
}

// CitiesForRegion returns every city of a region, nil for an unknown region.
func (t *Table) CitiesForRegion(regionSlug string) []City {
	return slices.Clone(t.citiesByRegion[regionSlug])
}

// CitiesForMRC returns the cities of one MRC.
func (t *Table) CitiesForMRC(mrcSlug string) []City {
	return slices.Clone(t.citiesByMRC[mrcSlug])
}

// FindCity looks a city up by name or slug, ignoring case and accents.
// "MONTREAL", "Montréal" and "montreal" all match.
func (t *Table) FindCity(name string) (City, bool) {
	c, ok := t.cityBySlug[slug.Slugify(strings.TrimSpace(name))]
	return c, ok
}

// CityNames returns the display names of cities, the form stored on listings.
func CityNames(cities []City) []string {
	out := make([]string, len(cities))
	for i, c := range cities {
		out[i] = c.Name
	}
	return out
}

// MRCsForRegion filters the built-in table.
func MRCsForRegion(regionSlug string) []MRC {
	return Default().MRCsForRegion(regionSlug)
}

// CitiesForRegion filters the built-in table.
func CitiesForRegion(regionSlug string) []City {
	return Default().CitiesForRegion(regionSlug)
}

// CitiesForMRC filters the built-in table.
func CitiesForMRC(mrcSlug string) []City {
	return Default().CitiesForMRC(mrcSlug)
}
