// Copyright 2026 The MapeoCL Authors
// SPDX-License-Identifier: Apache-2.0

package mapeo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/geochile/mapeo/utils/httputils"
)

const nominatimBaseURL = "https://nominatim.openstreetmap.org/search"

// NominatimGeocoder queries the public Nominatim instance. Nominatim's usage
// policy requires an identifying User-Agent; the client from httputils sets
// it on every request.
type NominatimGeocoder struct {
	baseURL    string
	httpClient *http.Client
}

// NewNominatimGeocoder creates a Nominatim client with the given User-Agent.
func NewNominatimGeocoder(userAgent string, timeout time.Duration) *NominatimGeocoder {
	return &NominatimGeocoder{
		baseURL:    nominatimBaseURL,
		httpClient: httputils.NewClient(userAgent, timeout, nil, false),
	}
}

// NewNominatimGeocoderWithClient is used by tests and by deployments that
// point at a self-hosted instance.
func NewNominatimGeocoderWithClient(baseURL string, client *http.Client) *NominatimGeocoder {
	return &NominatimGeocoder{baseURL: baseURL, httpClient: client}
}

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocodificar searches for the address, country-suffixed to keep results
// inside Chile, and returns the single best candidate.
func (g *NominatimGeocoder) Geocodificar(ctx context.Context, direccion string) (*Candidato, error) {
	params := url.Values{}
	params.Set("q", direccion+", Chile")
	params.Set("format", "json")
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building nominatim request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nominatim request failed: %w", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ClassifyHTTPError(resp.StatusCode, "nominatim")
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("decoding nominatim response: %w", err)
	}

	if len(results) == 0 {
		return nil, nil
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("nominatim latitude %q: %w", results[0].Lat, err)
	}

	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("nominatim longitude %q: %w", results[0].Lon, err)
	}

	return &Candidato{
		DireccionFormateada: results[0].DisplayName,
		Latitud:             lat,
		Longitud:            lon,
	}, nil
}
