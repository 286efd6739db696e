// Copyright 2026 The MapeoCL Authors
// SPDX-License-Identifier: Apache-2.0

package mapeo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/geochile/mapeo/utils/httputils"
)

const googleGeocodeBaseURL = "https://maps.googleapis.com/maps/api/geocode/json"

// Google location_type precision tags, best to worst.
const (
	PrecisionRooftop           = "ROOFTOP"
	PrecisionRangeInterpolated = "RANGE_INTERPOLATED"
	PrecisionGeometricCenter   = "GEOMETRIC_CENTER"
	PrecisionApproximate       = "APPROXIMATE"
)

// GoogleMapsGeocoder uses Google Maps Geocoding API.
type GoogleMapsGeocoder struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewGoogleMapsGeocoder creates a new Google Maps geocoder.
func NewGoogleMapsGeocoder(apiKey, userAgent string, timeout time.Duration) *GoogleMapsGeocoder {
	return &GoogleMapsGeocoder{
		apiKey:     apiKey,
		baseURL:    googleGeocodeBaseURL,
		httpClient: httputils.NewClient(userAgent, timeout, nil, false),
	}
}

// NewGoogleMapsGeocoderWithClient is used by tests.
func NewGoogleMapsGeocoderWithClient(apiKey, baseURL string, client *http.Client) *GoogleMapsGeocoder {
	return &GoogleMapsGeocoder{apiKey: apiKey, baseURL: baseURL, httpClient: client}
}

type googleMapsResponse struct {
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
			LocationType string `json:"location_type"`
		} `json:"geometry"`
		FormattedAddress string `json:"formatted_address"`
	} `json:"results"`
	Status string `json:"status"` // OK, ZERO_RESULTS, etc.
}

// Geocodificar queries the API biased to Chile and returns the first result
// with its precision tag. ZERO_RESULTS is a miss; other non-OK statuses are
// errors.
func (g *GoogleMapsGeocoder) Geocodificar(ctx context.Context, direccion string) (*Candidato, error) {
	params := url.Values{}
	params.Set("address", direccion)
	params.Set("key", g.apiKey)
	params.Set("region", "cl")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building geocoding request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocoding request failed: %w", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ClassifyHTTPError(resp.StatusCode, "google maps")
	}

	var gmResp googleMapsResponse
	if err := json.NewDecoder(resp.Body).Decode(&gmResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if gmResp.Status == "ZERO_RESULTS" || len(gmResp.Results) == 0 {
		return nil, nil
	}

	if gmResp.Status == "OVER_QUERY_LIMIT" {
		return nil, &GeocodingError{Type: ErrorTypeQuotaExceeded, Message: "google maps status: OVER_QUERY_LIMIT"}
	}

	if gmResp.Status != "OK" {
		return nil, fmt.Errorf("google maps status: %s", gmResp.Status)
	}

	result := gmResp.Results[0]

	return &Candidato{
		DireccionFormateada: result.FormattedAddress,
		Latitud:             result.Geometry.Location.Lat,
		Longitud:            result.Geometry.Location.Lng,
		Precision:           result.Geometry.LocationType,
	}, nil
}
