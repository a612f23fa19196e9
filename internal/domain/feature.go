package domain

// FeatureKind classifies a mapped element by its relevance to apiary
// placement.
type FeatureKind string

const (
	KindWater    FeatureKind = "water"
	KindForest   FeatureKind = "forest"
	KindOrchard  FeatureKind = "orchard"
	KindScrub    FeatureKind = "scrub"
	KindMeadow   FeatureKind = "meadow"
	KindFarmland FeatureKind = "farmland"
	KindHighway  FeatureKind = "highway"
	KindBuilding FeatureKind = "building"
)

// LandFeature is one classified OSM element. Position is optional: some ways
// arrive without a usable center, and only water distance calculations need
// coordinates.
type LandFeature struct {
	Kind        FeatureKind
	Lat         float64
	Lng         float64
	HasPosition bool
}

// ClassifyTags maps an element's OSM tags to feature kinds. An element
// yields at most one flora kind, but water, highway, and building are
// independent checks, so a single element can produce several kinds: a
// reservoir tagged natural=water inside landuse=forest counts as both.
func ClassifyTags(tags map[string]string) []FeatureKind {
	var kinds []FeatureKind

	natural := tags["natural"]
	landuse := tags["landuse"]

	if natural == "water" {
		kinds = append(kinds, KindWater)
	}

	switch {
	case landuse == "forest" || natural == "wood":
		kinds = append(kinds, KindForest)
	case landuse == "orchard":
		kinds = append(kinds, KindOrchard)
	case natural == "scrub" || natural == "heath":
		kinds = append(kinds, KindScrub)
	case landuse == "meadow":
		kinds = append(kinds, KindMeadow)
	case landuse == "farm" || landuse == "farmland":
		kinds = append(kinds, KindFarmland)
	}

	if _, ok := tags["highway"]; ok {
		kinds = append(kinds, KindHighway)
	}
	if _, ok := tags["building"]; ok {
		kinds = append(kinds, KindBuilding)
	}
	return kinds
}
