package scraper

import (
	"context"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"mspro-labs/inspection-map/internal/config"
	"mspro-labs/inspection-map/internal/feature"
	"mspro-labs/inspection-map/internal/geocode"
	"mspro-labs/inspection-map/internal/htmldoc"
	"mspro-labs/inspection-map/internal/inspection"
	"mspro-labs/inspection-map/internal/models"
)

// Options controls a single Run.
type Options struct {
	Limit           int
	ContentColumnID string
	Geocoder        geocode.Client
	// OnRecord, when set, is called for every record in order. f is nil
	// when the record could not be placed on the map.
	OnRecord func(rec models.Record, f *geojson.Feature) error
}

// Load returns the results page described by cfg: the cached page when one
// is configured, otherwise a live fetch. A response charset that cannot be
// decoded is replaced by cfg.Encoding.
func Load(ctx context.Context, cfg *config.SiteConfig) (*Page, error) {
	if cfg.CachedPage != "" {
		zap.L().Info("loading cached results page", zap.String("path", cfg.CachedPage))
		return LoadFile(cfg.CachedPage)
	}
	if cfg.Browser {
		return FetchWithBrowser(cfg.ResultsURL, cfg.Params, cfg.WaitSelector)
	}
	page, err := Fetch(ctx, &http.Client{Timeout: 60 * time.Second}, cfg.ResultsURL, cfg.Params)
	if err != nil {
		return nil, err
	}
	if page.Encoding != "" && !htmldoc.Supported(page.Encoding) {
		zap.L().Warn("ignoring unknown response charset",
			zap.String("charset", page.Encoding),
			zap.String("fallback", cfg.Encoding),
		)
		page.Encoding = ""
	}
	if page.Encoding == "" {
		page.Encoding = cfg.Encoding
	}
	return page, nil
}

// Run extracts up to opts.Limit restaurants from page and geocodes them one
// at a time into a FeatureCollection. A geocoder or callback error stops the
// run; the features assembled so far are returned with it.
func Run(ctx context.Context, page *Page, opts Options) (*geojson.FeatureCollection, error) {
	fc := feature.NewCollection()

	doc, err := htmldoc.Parse(page.Body, page.Encoding)
	if err != nil {
		return fc, err
	}

	scope := doc.Root()
	if opts.ContentColumnID != "" {
		if col, ok := scope.FindFirst("td", "id", opts.ContentColumnID); ok {
			scope = col
		} else {
			zap.L().Warn("content column not found, searching whole page",
				zap.String("id", opts.ContentColumnID),
			)
		}
	}

	blocks := inspection.LocateBlocks(scope)
	zap.L().Info("located restaurant blocks", zap.Int("blocks", len(blocks)), zap.Int("limit", opts.Limit))

	for rec := range inspection.BuildRecords(blocks, opts.Limit) {
		if err := ctx.Err(); err != nil {
			return fc, eris.Wrap(err, "scraper: run cancelled")
		}

		var f *geojson.Feature
		if opts.Geocoder != nil {
			f, err = feature.Assemble(ctx, opts.Geocoder, rec)
			if err != nil {
				return fc, err
			}
		}
		if f != nil {
			fc.Features = append(fc.Features, f)
		}

		if opts.OnRecord != nil {
			if err := opts.OnRecord(rec, f); err != nil {
				return fc, eris.Wrapf(err, "scraper: handle %s", rec.ID)
			}
		}
	}

	zap.L().Info("run complete", zap.Int("features", len(fc.Features)))
	return fc, nil
}
