// Package overpass fetches land cover around a site from the OpenStreetMap
// Overpass API.
package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/couchcryptid/apiary-site-analyzer/internal/domain"
	"github.com/couchcryptid/apiary-site-analyzer/internal/httpx"
)

// queryTimeoutSec is the server-side Overpass execution budget, matching the
// client-side HTTP timeout.
const queryTimeoutSec = 45

// querySelectors are the tag filters of interest, applied to both nodes and
// ways. The landuse regex is unanchored, so "farm" also matches "farmland".
var querySelectors = []string{
	`["natural"="water"]`,
	`["landuse"~"forest|orchard|farm|meadow"]`,
	`["natural"~"wood|scrub|heath"]`,
	`["highway"]`,
	`["building"]`,
}

// Client implements domain.LandCoverSource against a list of Overpass
// endpoints, tried in order until one answers.
type Client struct {
	endpoints  []string
	httpClient *httpx.Client
	logger     *slog.Logger
}

// NewClient creates an Overpass client. Endpoints are full interpreter URLs.
func NewClient(endpoints []string, httpClient *httpx.Client, logger *slog.Logger) *Client {
	return &Client{
		endpoints:  endpoints,
		httpClient: httpClient,
		logger:     logger,
	}
}

// FetchFeatures queries each endpoint in order for elements around the site
// and returns the classified features from the first parseable answer. The
// returned error wraps the last endpoint's failure.
func (c *Client) FetchFeatures(ctx context.Context, lat, lng float64, radiusM int) ([]domain.LandFeature, error) {
	query := buildQuery(lat, lng, radiusM)

	var lastErr error
	for _, endpoint := range c.endpoints {
		fullURL := endpoint + "?data=" + url.QueryEscape(query)

		body, err := c.httpClient.Get(ctx, fullURL)
		if err != nil {
			c.logger.Warn("overpass endpoint failed", "endpoint", endpoint, "error", err)
			lastErr = err
			continue
		}

		var resp overpassResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			c.logger.Warn("overpass endpoint returned bad payload", "endpoint", endpoint, "error", err)
			lastErr = fmt.Errorf("decode response: %w", err)
			continue
		}

		return mapElements(resp.Elements), nil
	}
	return nil, fmt.Errorf("all overpass endpoints failed: %w", lastErr)
}

// buildQuery renders the areal Overpass QL query for one site.
func buildQuery(lat, lng float64, radiusM int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[out:json][timeout:%d];(", queryTimeoutSec)
	for _, selector := range querySelectors {
		for _, elementType := range []string{"node", "way"} {
			fmt.Fprintf(&b, "%s%s(around:%d,%.5f,%.5f);", elementType, selector, radiusM, lat, lng)
		}
	}
	b.WriteString(");out center;")
	return b.String()
}

// mapElements classifies raw elements into land features. Elements with no
// relevant tags are dropped; an element with several relevant tags yields
// one feature per kind, all sharing the element's position.
func mapElements(elements []element) []domain.LandFeature {
	var features []domain.LandFeature
	for _, e := range elements {
		kinds := domain.ClassifyTags(e.Tags)
		if len(kinds) == 0 {
			continue
		}

		lat, lng, hasPosition := e.position()
		for _, kind := range kinds {
			features = append(features, domain.LandFeature{
				Kind:        kind,
				Lat:         lat,
				Lng:         lng,
				HasPosition: hasPosition,
			})
		}
	}
	return features
}

// Overpass API response types. Nodes carry lat/lon directly; ways carry a
// computed center from the "out center" output mode.

type overpassResponse struct {
	Elements []element `json:"elements"`
}

type element struct {
	Type   string            `json:"type"`
	Lat    *float64          `json:"lat"`
	Lon    *float64          `json:"lon"`
	Center *center           `json:"center"`
	Tags   map[string]string `json:"tags"`
}

type center struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func (e element) position() (lat, lng float64, ok bool) {
	switch {
	case e.Lat != nil && e.Lon != nil:
		return *e.Lat, *e.Lon, true
	case e.Center != nil:
		return e.Center.Lat, e.Center.Lon, true
	}
	return 0, 0, false
}
