package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/annuaire-qc/directory/internal/geo"
)

// GeoController serves the cascading region, MRC and city lists.
type GeoController struct {
	table *geo.Table
}

func NewGeoController(table *geo.Table) *GeoController {
	return &GeoController{table: table}
}

// ListRegions handles GET /api/regions
func (gc *GeoController) ListRegions(c *gin.Context) {
	regions := gc.table.Regions()
	c.JSON(http.StatusOK, gin.H{
		"regions": regions,
		"total":   len(regions),
	})
}

// ListMRCs handles GET /api/regions/:region/mrcs
func (gc *GeoController) ListMRCs(c *gin.Context) {
	region, ok := gc.table.Region(c.Param("region"))
	if !ok {
		respondNotFound(c, "region")
		return
	}
	mrcs := gc.table.MRCsForRegion(region.Slug)
	c.JSON(http.StatusOK, gin.H{
		"region": region,
		"mrcs":   mrcs,
		"total":  len(mrcs),
	})
}

// ListCities handles GET /api/regions/:region/cities?mrc=
// The optional mrc narrows the list and must belong to the region.
func (gc *GeoController) ListCities(c *gin.Context) {
	region, ok := gc.table.Region(c.Param("region"))
	if !ok {
		respondNotFound(c, "region")
		return
	}

	cities := gc.table.CitiesForRegion(region.Slug)
	if mrcSlug := c.Query("mrc"); mrcSlug != "" {
		mrc, found := gc.table.MRC(mrcSlug)
		if !found || mrc.RegionSlug != region.Slug {
			respondBadRequest(c, "mrc is not part of this region")
			return
		}
		cities = gc.table.CitiesForMRC(mrc.Slug)
	}

	c.JSON(http.StatusOK, gin.H{
		"region": region,
		"cities": cities,
		"total":  len(cities),
	})
}

// cityFilter expands the region and mrc query parameters into the city
// names listings are stored with. ok is false once a 400 has been sent.
func cityFilter(c *gin.Context, table *geo.Table) (names []string, ok bool) {
	regionSlug, mrcSlug := c.Query("region"), c.Query("mrc")
	switch {
	case mrcSlug != "":
		mrc, found := table.MRC(mrcSlug)
		if !found {
			respondBadRequest(c, "unknown mrc")
			return nil, false
		}
		if regionSlug != "" && mrc.RegionSlug != regionSlug {
			respondBadRequest(c, "mrc is not part of this region")
			return nil, false
		}
		return geo.CityNames(table.CitiesForMRC(mrc.Slug)), true
	case regionSlug != "":
		if _, found := table.Region(regionSlug); !found {
			respondBadRequest(c, "unknown region")
			return nil, false
		}
		return geo.CityNames(table.CitiesForRegion(regionSlug)), true
	default:
		return nil, true
	}
}
