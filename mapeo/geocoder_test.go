// Copyright 2026 The MapeoCL Authors
// SPDX-License-Identifier: Apache-2.0

package mapeo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geochile/mapeo/utils/httputils"
)

func TestNominatimGeocodificar(t *testing.T) {
	var consulta string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		consulta = r.URL.Query().Get("q")

		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		assert.Equal(t, "mapeo-test/1.0", r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"lat":"-33.4488897","lon":"-70.6692655","display_name":"Moneda 1200, Santiago, Región Metropolitana de Santiago, Chile"}]`))
	}))
	defer srv.Close()

	client := httputils.NewClient("mapeo-test/1.0", 5*time.Second, nil, false)
	g := NewNominatimGeocoderWithClient(srv.URL, client)

	c, err := g.Geocodificar(context.Background(), "MONEDA 1200, SANTIAGO")
	require.NoError(t, err)
	require.NotNil(t, c)

	assert.Equal(t, "MONEDA 1200, SANTIAGO, Chile", consulta, "country suffix is always appended")
	assert.InDelta(t, -33.4488897, c.Latitud, 1e-9)
	assert.InDelta(t, -70.6692655, c.Longitud, 1e-9)
	assert.Contains(t, c.DireccionFormateada, "Moneda 1200")
	assert.Empty(t, c.Precision)
}

func TestNominatimSinResultados(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	g := NewNominatimGeocoderWithClient(srv.URL, srv.Client())

	c, err := g.Geocodificar(context.Background(), "CALLE QUE NO EXISTE 999999")
	require.NoError(t, err)
	assert.Nil(t, c, "an empty result set is a miss, not an error")
}

func TestGoogleGeocodificar(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "cl", r.URL.Query().Get("region"))
		assert.Equal(t, "clave-de-prueba", r.URL.Query().Get("key"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": "OK",
			"results": [{
				"formatted_address": "Av. Libertador Bernardo O'Higgins 1000, Santiago, Chile",
				"geometry": {
					"location": {"lat": -33.4451, "lng": -70.6573},
					"location_type": "ROOFTOP"
				}
			}]
		}`))
	}))
	defer srv.Close()

	g := NewGoogleMapsGeocoderWithClient("clave-de-prueba", srv.URL, srv.Client())

	c, err := g.Geocodificar(context.Background(), "LIBERTADOR BERNARDO O'HIGGINS 1000, SANTIAGO")
	require.NoError(t, err)
	require.NotNil(t, c)

	assert.Equal(t, PrecisionRooftop, c.Precision)
	assert.InDelta(t, -33.4451, c.Latitud, 1e-9)
	assert.InDelta(t, -70.6573, c.Longitud, 1e-9)
}

func TestGoogleZeroResultsEsMiss(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status": "ZERO_RESULTS", "results": []}`))
	}))
	defer srv.Close()

	g := NewGoogleMapsGeocoderWithClient("k", srv.URL, srv.Client())

	c, err := g.Geocodificar(context.Background(), "NADA")
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestGoogleEstadoDeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status": "REQUEST_DENIED", "results": []}`))
	}))
	defer srv.Close()

	g := NewGoogleMapsGeocoderWithClient("k", srv.URL, srv.Client())

	_, err := g.Geocodificar(context.Background(), "MONEDA 1200")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REQUEST_DENIED")
}

func TestGeocoderRespetaContexto(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	g := NewNominatimGeocoderWithClient(srv.URL, srv.Client())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := g.Geocodificar(ctx, "MONEDA 1200")
	require.Error(t, err, "an exhausted deadline surfaces as an error, which the cascade treats as a miss")
}
