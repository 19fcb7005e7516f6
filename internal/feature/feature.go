// Package feature turns restaurant records into GeoJSON features.
package feature

import (
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"mspro-labs/inspection-map/internal/geocode"
	"mspro-labs/inspection-map/internal/models"
)

// propertyKeys are the only record keys copied into feature properties.
var propertyKeys = []string{
	models.LabelBusinessName,
	models.KeyAverageScore,
	models.KeyTotalInspections,
	models.KeyHighScore,
}

// Assemble geocodes the record's address and returns its feature. A record
// without an address, or whose address the geocoder cannot place, yields a
// nil feature and no error. Geocoder failures are returned.
func Assemble(ctx context.Context, gc geocode.Client, rec models.Record) (*geojson.Feature, error) {
	address := rec.Metadata.Joined(models.LabelAddress)
	if strings.TrimSpace(address) == "" {
		zap.L().Debug("record has no address", zap.String("block", rec.ID))
		return nil, nil
	}

	res, err := gc.Geocode(ctx, address)
	if err != nil {
		return nil, eris.Wrapf(err, "feature: geocode %s", rec.ID)
	}
	if res == nil || !res.Matched {
		zap.L().Warn("address not geocoded",
			zap.String("block", rec.ID),
			zap.String("address", address),
		)
		return nil, nil
	}

	return &geojson.Feature{
		Geometry:   point(res.Latitude, res.Longitude),
		Properties: Properties(rec),
	}, nil
}

// Properties selects the map properties of rec. Multi-valued metadata is
// joined with single spaces; labels missing from the record are omitted.
func Properties(rec models.Record) map[string]interface{} {
	props := make(map[string]interface{}, len(propertyKeys))
	for _, key := range propertyKeys {
		v, ok := rec.Get(key)
		if !ok {
			continue
		}
		if vals, isList := v.([]string); isList {
			v = strings.Join(vals, " ")
		}
		props[key] = v
	}
	return props
}

// FromRestaurant rebuilds the feature of a stored restaurant, or nil when
// it was never located.
func FromRestaurant(r models.Restaurant) *geojson.Feature {
	if !r.Located {
		return nil
	}
	props := map[string]interface{}{
		models.KeyAverageScore:     r.AverageScore,
		models.KeyTotalInspections: r.TotalInspections,
		models.KeyHighScore:        r.HighScore,
	}
	if r.BusinessName != "" {
		props[models.LabelBusinessName] = r.BusinessName
	}
	return &geojson.Feature{
		Geometry:   point(r.Latitude, r.Longitude),
		Properties: props,
	}
}

// Location returns the latitude and longitude of a point feature.
func Location(f *geojson.Feature) (lat, lng float64, ok bool) {
	if f == nil {
		return 0, 0, false
	}
	p, isPoint := f.Geometry.(*geom.Point)
	if !isPoint {
		return 0, 0, false
	}
	return p.Y(), p.X(), true
}

func point(lat, lng float64) *geom.Point {
	return geom.NewPointFlat(geom.XY, []float64{lng, lat})
}

// NewCollection returns an empty FeatureCollection.
func NewCollection() *geojson.FeatureCollection {
	return &geojson.FeatureCollection{Features: []*geojson.Feature{}}
}

// Write encodes fc as JSON to w.
func Write(w io.Writer, fc *geojson.FeatureCollection) error {
	raw, err := json.Marshal(fc)
	if err != nil {
		return eris.Wrap(err, "feature: encode collection")
	}
	if _, err := w.Write(raw); err != nil {
		return eris.Wrap(err, "feature: write collection")
	}
	return nil
}
