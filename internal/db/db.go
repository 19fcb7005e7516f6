package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // Import for side-effects only
	"github.com/rotisserie/eris"

	"mspro-labs/inspection-map/internal/models"
)

// ErrUnknownSort is returned by GetActiveRestaurants for an unsupported sort order.
var ErrUnknownSort = eris.New("db: unknown sort")

// Sort orders for GetActiveRestaurants.
const (
	SortAverage = "average"
	SortHigh    = "high"
)

// Connect opens a connection to the SQLite database and ensures the schema exists.
// It automatically applies recommended settings for concurrency (WAL mode).
func Connect(dbPath string) (*sql.DB, error) {
	dsn := fmt.Sprintf("%s?_busy_timeout=5000&_journal_mode=WAL", dbPath)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "db: open")
	}

	if err = db.Ping(); err != nil {
		return nil, eris.Wrap(err, "db: ping")
	}

	if err = createSchema(db); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "db: ensure schema")
	}

	return db, nil
}

// MarkAllAsInactive sets is_active=0 for all restaurants.
// This is called at the start of a scrape run.
func MarkAllAsInactive(db *sql.DB) error {
	_, err := db.Exec(`UPDATE restaurant SET is_active = 0 WHERE is_active = 1;`)
	if err != nil {
		return eris.Wrap(err, "db: mark restaurants inactive")
	}
	return nil
}

func createSchema(db *sql.DB) error {
	_, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS restaurant (
	  id INTEGER PRIMARY KEY AUTOINCREMENT,
	  block_id TEXT UNIQUE NOT NULL,
	  business_name TEXT,
	  address TEXT,
	  average_score REAL,
	  high_score INTEGER,
	  total_inspections INTEGER,
	  metadata TEXT,
	  latitude REAL,
	  longitude REAL,
	  first_scraped_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	  last_scraped_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	  is_active INTEGER DEFAULT 1
	);
	CREATE INDEX IF NOT EXISTS idx_block_id ON restaurant(block_id);
	CREATE INDEX IF NOT EXISTS idx_is_active ON restaurant(is_active);
	`)
	return err
}

// SaveData performs a batch UPSERT of restaurants keyed by block id.
// Saved rows are marked active. A restaurant that could not be located
// keeps NULL coordinates.
func SaveData(db *sql.DB, items []models.Restaurant) (int64, error) {
	upsertSQL := `
	INSERT INTO restaurant (
	  block_id, business_name, address, average_score, high_score, total_inspections,
	  metadata, latitude, longitude, last_scraped_at, is_active
	) VALUES (
	  ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, 1
	) ON CONFLICT(block_id) DO UPDATE SET
	  business_name = excluded.business_name,
	  address = excluded.address,
	  average_score = excluded.average_score,
	  high_score = excluded.high_score,
	  total_inspections = excluded.total_inspections,
	  metadata = excluded.metadata,
	  latitude = excluded.latitude,
	  longitude = excluded.longitude,
	  last_scraped_at = CURRENT_TIMESTAMP,
	  is_active = 1;
	`

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "db: begin")
	}

	stmt, err := tx.PrepareContext(ctx, upsertSQL)
	if err != nil {
		tx.Rollback()
		return 0, eris.Wrap(err, "db: prepare upsert")
	}
	defer stmt.Close()

	var totalAffected int64
	for _, item := range items {
		res, err := stmt.ExecContext(ctx,
			item.BlockID,
			sql.NullString{String: item.BusinessName, Valid: item.BusinessName != ""},
			sql.NullString{String: item.Address, Valid: item.Address != ""},
			item.AverageScore,
			item.HighScore,
			item.TotalInspections,
			item.Metadata,
			sql.NullFloat64{Float64: item.Latitude, Valid: item.Located},
			sql.NullFloat64{Float64: item.Longitude, Valid: item.Located},
		)
		if err != nil {
			tx.Rollback()
			return 0, eris.Wrapf(err, "db: upsert %s", item.BlockID)
		}
		rows, _ := res.RowsAffected()
		totalAffected += rows
	}

	if err = tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "db: commit")
	}

	return totalAffected, nil
}

// GetActiveRestaurants returns the restaurants seen in the last run with
// the highest inspection scores first, ordered by SortAverage or SortHigh.
// Ties fall back to name.
func GetActiveRestaurants(db *sql.DB, sortBy string) ([]models.Restaurant, error) {
	var order string
	switch sortBy {
	case SortAverage, "":
		order = "average_score DESC, high_score DESC"
	case SortHigh:
		order = "high_score DESC, average_score DESC"
	default:
		return nil, eris.Wrapf(ErrUnknownSort, "%q", sortBy)
	}

	rows, err := db.Query(`
		SELECT block_id, business_name, address, average_score, high_score,
		       total_inspections, metadata, latitude, longitude
		FROM restaurant
		WHERE is_active = 1
		ORDER BY ` + order + `, business_name ASC`)
	if err != nil {
		return nil, eris.Wrap(err, "db: query restaurants")
	}
	defer rows.Close()

	var items []models.Restaurant
	for rows.Next() {
		var r models.Restaurant
		var name, addr, meta sql.NullString
		var lat, lng sql.NullFloat64
		if err := rows.Scan(&r.BlockID, &name, &addr, &r.AverageScore, &r.HighScore,
			&r.TotalInspections, &meta, &lat, &lng); err != nil {
			return nil, eris.Wrap(err, "db: scan restaurant")
		}
		r.BusinessName = name.String
		r.Address = addr.String
		r.Metadata = meta.String
		r.Latitude, r.Longitude = lat.Float64, lng.Float64
		r.Located = lat.Valid && lng.Valid
		items = append(items, r)
	}
	return items, rows.Err()
}
