package geocode

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const googleOK = `{
	"status": "OK",
	"results": [{"geometry": {"location": {"lat": 47.5990, "lng": -122.3150}}}]
}`

const censusOK = `{
	"result": {"addressMatches": [{"coordinates": {"x": -122.3151, "y": 47.5991}}]}
}`

func jsonServer(t *testing.T, body string, hits *int32, check func(r *http.Request)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			atomic.AddInt32(hits, 1)
		}
		if check != nil {
			check(r)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGeocode_Google(t *testing.T) {
	srv := jsonServer(t, googleOK, nil, func(r *http.Request) {
		assert.Equal(t, "1314 S JACKSON ST Seattle, WA 98144", r.URL.Query().Get("address"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
	})

	c := NewClient(WithGoogleAPIKey("test-key"), WithGoogleURL(srv.URL), WithoutCensus())
	res, err := c.Geocode(context.Background(), "1314 S JACKSON ST Seattle, WA 98144")
	require.NoError(t, err)
	assert.True(t, res.Matched)
	assert.Equal(t, "google", res.Source)
	assert.InDelta(t, 47.5990, res.Latitude, 1e-6)
	assert.InDelta(t, -122.3150, res.Longitude, 1e-6)
}

func TestGeocode_GoogleZeroResultsFallsBackToCensus(t *testing.T) {
	google := jsonServer(t, `{"status": "ZERO_RESULTS", "results": []}`, nil, nil)
	census := jsonServer(t, censusOK, nil, func(r *http.Request) {
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, censusBenchmark, r.URL.Query().Get("benchmark"))
	})

	c := NewClient(WithGoogleAPIKey("k"), WithGoogleURL(google.URL), WithCensusURL(census.URL))
	res, err := c.Geocode(context.Background(), "4214 UNIVERSITY WAY NE")
	require.NoError(t, err)
	assert.True(t, res.Matched)
	assert.Equal(t, "census", res.Source)
	assert.InDelta(t, 47.5991, res.Latitude, 1e-6)
	assert.InDelta(t, -122.3151, res.Longitude, 1e-6)
}

func TestGeocode_NoKeyUsesCensus(t *testing.T) {
	var googleHits int32
	google := jsonServer(t, googleOK, &googleHits, nil)
	census := jsonServer(t, censusOK, nil, nil)

	c := NewClient(WithGoogleURL(google.URL), WithCensusURL(census.URL))
	res, err := c.Geocode(context.Background(), "1 Main St")
	require.NoError(t, err)
	assert.Equal(t, "census", res.Source)
	assert.Zero(t, atomic.LoadInt32(&googleHits))
}

func TestGeocode_EmptyAddress(t *testing.T) {
	var hits int32
	srv := jsonServer(t, googleOK, &hits, nil)

	c := NewClient(WithGoogleAPIKey("k"), WithGoogleURL(srv.URL), WithCensusURL(srv.URL))
	res, err := c.Geocode(context.Background(), "   ")
	require.NoError(t, err)
	assert.False(t, res.Matched)
	assert.Zero(t, atomic.LoadInt32(&hits))
}

func TestGeocode_GoogleErrorWithoutFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(WithGoogleAPIKey("k"), WithGoogleURL(srv.URL), WithoutCensus())
	_, err := c.Geocode(context.Background(), "1 Main St")
	assert.ErrorContains(t, err, "geocode: google returned status 500")
}

func TestGeocode_GoogleUnmatchedWithoutFallback(t *testing.T) {
	srv := jsonServer(t, `{"status": "ZERO_RESULTS", "results": []}`, nil, nil)

	c := NewClient(WithGoogleAPIKey("k"), WithGoogleURL(srv.URL), WithoutCensus())
	res, err := c.Geocode(context.Background(), "nowhere")
	require.NoError(t, err)
	assert.False(t, res.Matched)
	assert.Equal(t, "google", res.Source)
}

func TestGeocode_CensusNoMatch(t *testing.T) {
	srv := jsonServer(t, `{"result": {"addressMatches": []}}`, nil, nil)

	c := NewClient(WithCensusURL(srv.URL))
	res, err := c.Geocode(context.Background(), "nowhere")
	require.NoError(t, err)
	assert.False(t, res.Matched)
	assert.Equal(t, "census", res.Source)
}

func TestGeocode_CensusBadJSON(t *testing.T) {
	srv := jsonServer(t, `{not json`, nil, nil)

	c := NewClient(WithCensusURL(srv.URL))
	_, err := c.Geocode(context.Background(), "1 Main St")
	assert.ErrorContains(t, err, "geocode: census parse response")
}

func TestGeocode_NoProviders(t *testing.T) {
	c := NewClient(WithoutCensus())
	res, err := c.Geocode(context.Background(), "1 Main St")
	require.NoError(t, err)
	assert.False(t, res.Matched)
}
