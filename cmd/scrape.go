package cmd

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"mspro-labs/inspection-map/internal/config"
	"mspro-labs/inspection-map/internal/db"
	"mspro-labs/inspection-map/internal/feature"
	"mspro-labs/inspection-map/internal/geocode"
	"mspro-labs/inspection-map/internal/models"
	"mspro-labs/inspection-map/internal/scraper"
)

var scrapeFlags struct {
	limit   int
	file    string
	output  string
	browser bool
	noStore bool
	params  map[string]string
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape inspection results and write the GeoJSON map",
	Long: `Fetches the inspection results page (or reads a saved copy), extracts each restaurant's
metadata and inspection score statistics, geocodes the addresses and writes a GeoJSON
FeatureCollection. Restaurants are also stored in the local database for 'list' and 'serve'.

Examples:
  inspection-map scrape --limit 5
  inspection-map scrape --file inspection_page.html
  inspection-map scrape --param Zip_Code=98104 --param Business_Name=pho`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScrape(cmd)
	},
}

func init() {
	f := scrapeCmd.Flags()
	f.IntVar(&scrapeFlags.limit, "limit", config.DefaultLimit, "maximum number of restaurants")
	f.StringVar(&scrapeFlags.file, "file", "", "read a saved results page instead of fetching")
	f.StringVar(&scrapeFlags.output, "output", "", "GeoJSON output path (default from config)")
	f.BoolVar(&scrapeFlags.browser, "browser", false, "fetch with a headless browser")
	f.BoolVar(&scrapeFlags.noStore, "no-store", false, "do not write to the database")
	f.StringToStringVar(&scrapeFlags.params, "param", nil, "query parameter override, e.g. Zip_Code=98101")
	rootCmd.AddCommand(scrapeCmd)
}

func runScrape(cmd *cobra.Command) error {
	ctx := context.Background()
	logger := zap.L()

	// 1. Load Config (flags win over YAML)
	siteCfg, err := config.LoadSiteConfig(appCfg.ConfigPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("limit") {
		siteCfg.Limit = scrapeFlags.limit
	}
	if scrapeFlags.file != "" {
		siteCfg.CachedPage = scrapeFlags.file
	}
	if scrapeFlags.output != "" {
		siteCfg.Output = scrapeFlags.output
	}
	if scrapeFlags.browser {
		siteCfg.Browser = true
	}
	for k, v := range scrapeFlags.params {
		siteCfg.Params[k] = v
	}

	// 2. Get the page
	page, err := scraper.Load(ctx, siteCfg)
	if err != nil {
		return err
	}

	// 3. Extract and geocode
	var opts []geocode.Option
	if appCfg.GoogleAPIKey != "" {
		opts = append(opts, geocode.WithGoogleAPIKey(appCfg.GoogleAPIKey))
	}
	var items []models.Restaurant
	fc, runErr := scraper.Run(ctx, page, scraper.Options{
		Limit:           siteCfg.Limit,
		ContentColumnID: siteCfg.ContentColumnID,
		Geocoder:        geocode.NewClient(opts...),
		OnRecord: func(rec models.Record, f *geojson.Feature) error {
			r, err := models.NewRestaurant(rec)
			if err != nil {
				return err
			}
			r.Latitude, r.Longitude, r.Located = feature.Location(f)
			items = append(items, r)
			return nil
		},
	})
	if runErr != nil {
		logger.Error("scrape stopped early", zap.Error(runErr), zap.Int("restaurants", len(items)))
	}

	// 4. Write the map (whatever was assembled before a failure)
	if err := writeMap(siteCfg.Output, fc); err != nil {
		return err
	}
	logger.Info("wrote map", zap.String("path", siteCfg.Output), zap.Int("features", len(fc.Features)))

	// 5. Save to DB
	if !scrapeFlags.noStore && len(items) > 0 {
		if err := store(items); err != nil {
			return err
		}
	}
	return runErr
}

func writeMap(path string, fc *geojson.FeatureCollection) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := feature.Write(fh, fc); err != nil {
		fh.Close()
		return err
	}
	return fh.Close()
}

func store(items []models.Restaurant) error {
	if err := os.MkdirAll(filepath.Dir(appCfg.DBPath), 0o755); err != nil {
		return err
	}
	database, err := db.Connect(appCfg.DBPath)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := db.MarkAllAsInactive(database); err != nil {
		return err
	}
	count, err := db.SaveData(database, items)
	if err != nil {
		return err
	}
	zap.L().Info("stored restaurants", zap.Int64("upserted", count))
	return nil
}
