package quorumlib

import (
	"strings"

	"github.com/pariz/gountries"
)

// RegionResolver maps a 2-letter ISO3166 country code to a coarse
// geographic region. The table is built once and never mutated, so
// lookups need no locking.
type RegionResolver struct {
	regions map[string]RegionInfo
}

// RegionFor is total: an unknown country code yields an empty
// RegionInfo, never an error.
func (r *RegionResolver) RegionFor(countryCode string) RegionInfo {
	return r.regions[strings.ToUpper(countryCode)]
}

// NewRegionResolver builds the country-to-region table. The region is
// the UN subregion of the country ("Northern America", "Western
// Europe") falling back to the continental region when gountries has no
// subregion data.
func NewRegionResolver() *RegionResolver {
	query := gountries.New()
	regions := make(map[string]RegionInfo, len(query.Countries))

	for alpha2, country := range query.Countries {
		region := country.Geo.SubRegion
		if region == "" {
			region = country.Geo.Region
		}

		regions[strings.ToUpper(alpha2)] = RegionInfo{
			Region:           region,
			NormalizedRegion: NormalizeName(region),
		}
	}

	return &RegionResolver{regions: regions}
}
