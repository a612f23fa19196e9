package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
)

// ErrInvalidRequest marks validation failures, so transport layers can map
// them to a client error instead of a server error.
var ErrInvalidRequest = errors.New("invalid request")

// Radius bounds in meters. Requests outside the bounds are clamped rather
// than rejected; only out-of-range coordinates fail validation.
const (
	MinRadiusM     = 250
	MaxRadiusM     = 10000
	DefaultRadiusM = 2000
)

// AnalysisRequest identifies the candidate site: a center point and a
// search radius for surrounding land cover.
type AnalysisRequest struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	RadiusM int     `json:"radius"`
}

// Normalize validates the coordinates and clamps the radius into the
// supported range. A zero or negative radius means "not provided" and gets
// the default.
func (r AnalysisRequest) Normalize() (AnalysisRequest, error) {
	if math.IsNaN(r.Lat) || r.Lat < -90 || r.Lat > 90 {
		return AnalysisRequest{}, fmt.Errorf("%w: lat %v out of range [-90, 90]", ErrInvalidRequest, r.Lat)
	}
	if math.IsNaN(r.Lng) || r.Lng < -180 || r.Lng > 180 {
		return AnalysisRequest{}, fmt.Errorf("%w: lng %v out of range [-180, 180]", ErrInvalidRequest, r.Lng)
	}

	if r.RadiusM <= 0 {
		r.RadiusM = DefaultRadiusM
	} else if r.RadiusM < MinRadiusM {
		r.RadiusM = MinRadiusM
	} else if r.RadiusM > MaxRadiusM {
		r.RadiusM = MaxRadiusM
	}
	return r, nil
}

// SiteID produces a deterministic ID from the normalized request.
// Re-analyzing the same site yields the same ID, so downstream consumers
// can deduplicate replayed results.
func SiteID(req AnalysisRequest) string {
	input := fmt.Sprintf("%.5f|%.5f|%d", req.Lat, req.Lng, req.RadiusM)
	hash := sha256.Sum256([]byte(input))
	return "site-" + hex.EncodeToString(hash[:8])
}
