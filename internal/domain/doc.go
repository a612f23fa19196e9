// Package domain models apiary site suitability analysis.
//
// # Data Sources
//
// Land cover comes from OpenStreetMap via the Overpass API: nodes and ways
// within the requested radius whose tags indicate water, flora, roads, or
// buildings. Ways carry an Overpass-computed center point instead of a full
// geometry. Weather and elevation come from the Open-Meteo forecast and
// elevation APIs, which require no API key.
//
// # Tag Conventions
//
// OSM tags map to feature kinds as follows:
//
//	natural=water                      → water
//	landuse=forest or natural=wood     → forest
//	landuse=orchard                    → orchard
//	natural=scrub or natural=heath     → scrub
//	landuse=meadow                     → meadow
//	landuse=farm or landuse=farmland   → farmland
//	any highway=* tag                  → highway
//	any building=* tag                 → building
//
// An element contributes at most one flora kind (the first match in the
// order above) but may additionally count as water, highway, or building,
// because those are tracked on independent tag keys.
//
// # Scoring Conventions
//
// Each category produces a 0–100 subscore:
//
//	flora:    weighted feature points through log1p(points)*25, truncated.
//	          Weights: forest 5, orchard 4, scrub 2, meadow 2, farmland 1.
//	water:    110/(1+d/900) on the rounded distance in meters to the nearest
//	          water feature; a site with no mapped water scores 10.
//	wind:     100 - (windspeed_kmh - 12)*6, so winds at or below 12 km/h are
//	          ideal and each extra km/h costs six points.
//	humidity: 100 inside the 40–70% comfort band, else 100-|h-55|*2.2.
//	slope:    100 for a gentle 2–10% grade, 70 below, 60 up to 20%, then
//	          declining by 2 per extra percent with a floor of 5.
//	aspect:   100 for south-facing slopes (135°–225°), 65 otherwise.
//	pressure: 100 - buildings_per_km2 * 3.5.
//
// The total is a weighted sum: flora 30%, water 20%, and 10% each for the
// five remaining categories, clamped to 0–100 and rounded.
//
// # ID Generation
//
// Site IDs are deterministic SHA-256 hashes of the normalized request
// coordinates and radius, so repeated analyses of the same site produce the
// same ID and downstream consumers can deduplicate. See [SiteID].
package domain
