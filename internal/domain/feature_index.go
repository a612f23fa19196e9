package domain

import (
	"github.com/dhconnelly/rtreego"

	"github.com/couchcryptid/apiary-site-analyzer/internal/geo"
)

const (
	rtreeDimensions  = 2
	rtreeMinChildren = 25
	rtreeMaxChildren = 50
	// rtreeTolerance expands each point into a tiny rect, required because
	// rtreego indexes rectangles rather than bare points.
	rtreeTolerance = 0.0001

	// waterCandidates is how many nearest-in-degree-space water features are
	// re-measured with haversine. Degree distance is anisotropic away from
	// the equator, so the closest candidate by degrees is not always the
	// closest by meters.
	waterCandidates = 4
)

// waterEntry is a positioned water feature wrapped for R-tree indexing.
type waterEntry struct {
	lat, lng float64
	rect     *rtreego.Rect
}

func (w *waterEntry) Bounds() *rtreego.Rect {
	return w.rect
}

// FeatureIndex holds the classified features of one analysis: per-kind
// counts plus a spatial index over positioned water features for
// nearest-distance queries. It is immutable after construction.
type FeatureIndex struct {
	counts map[FeatureKind]int
	water  *rtreego.Rtree
}

// NewFeatureIndex builds an index from classified features. Water features
// without a position are counted but excluded from distance queries.
func NewFeatureIndex(features []LandFeature) *FeatureIndex {
	idx := &FeatureIndex{
		counts: make(map[FeatureKind]int),
		water:  rtreego.NewTree(rtreeDimensions, rtreeMinChildren, rtreeMaxChildren),
	}
	for _, f := range features {
		idx.counts[f.Kind]++
		if f.Kind == KindWater && f.HasPosition {
			point := rtreego.Point{f.Lat, f.Lng}
			idx.water.Insert(&waterEntry{
				lat:  f.Lat,
				lng:  f.Lng,
				rect: point.ToRect(rtreeTolerance),
			})
		}
	}
	return idx
}

// Count returns how many features of the given kind were indexed.
func (idx *FeatureIndex) Count(kind FeatureKind) int {
	return idx.counts[kind]
}

// NearestWaterDistance returns the haversine distance in meters from the
// given point to the closest positioned water feature. The second return is
// false when no water feature has a position.
func (idx *FeatureIndex) NearestWaterDistance(lat, lng float64) (float64, bool) {
	results := idx.water.NearestNeighbors(waterCandidates, rtreego.Point{lat, lng})

	best := 0.0
	found := false
	for _, r := range results {
		entry, ok := r.(*waterEntry)
		if !ok || entry == nil {
			continue
		}
		d := geo.Distance(lat, lng, entry.lat, entry.lng)
		if !found || d < best {
			best = d
			found = true
		}
	}
	return best, found
}
