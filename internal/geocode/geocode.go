// Package geocode resolves free-text street addresses to coordinates using
// the Google Geocoding API, falling back to the Census geocoder.
package geocode

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Client geocodes a single one-line address.
type Client interface {
	Geocode(ctx context.Context, address string) (*Result, error)
}

// Result holds the geocoding output for an address.
type Result struct {
	Latitude  float64
	Longitude float64
	Source    string // "google" or "census"
	Matched   bool
}

// Option configures the geocoder.
type Option func(*geocoder)

// WithGoogleAPIKey enables the Google Geocoding API.
func WithGoogleAPIKey(key string) Option {
	return func(g *geocoder) {
		g.googleKey = key
	}
}

// WithHTTPClient sets a custom HTTP client for both providers.
func WithHTTPClient(hc *http.Client) Option {
	return func(g *geocoder) {
		g.httpClient = hc
	}
}

// WithGoogleURL overrides the Google endpoint.
func WithGoogleURL(u string) Option {
	return func(g *geocoder) {
		g.googleURL = u
	}
}

// WithCensusURL overrides the Census one-line endpoint.
func WithCensusURL(u string) Option {
	return func(g *geocoder) {
		g.censusURL = u
	}
}

// WithoutCensus disables the Census fallback.
func WithoutCensus() Option {
	return func(g *geocoder) {
		g.censusURL = ""
	}
}

type geocoder struct {
	httpClient *http.Client
	googleKey  string
	googleURL  string
	censusURL  string
}

// NewClient creates a geocoding Client. Google is tried first when a key is
// configured; Census is used when Google is unavailable or finds nothing.
func NewClient(opts ...Option) Client {
	g := &geocoder{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		googleURL:  googleGeocodeURL,
		censusURL:  censusOneLineURL,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Geocode implements Client. An empty address is an unmatched result, not
// an error.
func (g *geocoder) Geocode(ctx context.Context, address string) (*Result, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return &Result{Matched: false}, nil
	}

	var last *Result
	if g.googleKey != "" {
		res, err := g.geocodeGoogle(ctx, address)
		if err != nil {
			if g.censusURL == "" {
				return nil, err
			}
			zap.L().Warn("geocode: google failed, trying census",
				zap.String("address", address),
				zap.Error(err),
			)
		} else if res.Matched {
			return res, nil
		} else {
			last = res
		}
	}

	if g.censusURL != "" {
		return g.geocodeCensus(ctx, address)
	}
	if last == nil {
		last = &Result{Matched: false}
	}
	return last, nil
}
