package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mspro-labs/inspection-map/internal/models"
)

func memoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, createSchema(db))
	return db
}

func TestSaveData_InsertAndUpdate(t *testing.T) {
	db := memoryDB(t)

	count, err := SaveData(db, []models.Restaurant{{
		BlockID:          "PR1~",
		BusinessName:     "PHO BAC",
		Address:          "1314 S JACKSON ST",
		AverageScore:     10,
		HighScore:        10,
		TotalInspections: 1,
		Metadata:         `{}`,
		Latitude:         47.6,
		Longitude:        -122.3,
		Located:          true,
	}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	_, err = SaveData(db, []models.Restaurant{{
		BlockID:          "PR1~",
		BusinessName:     "PHO BAC SUP SHOP",
		AverageScore:     15,
		HighScore:        20,
		TotalInspections: 2,
	}})
	require.NoError(t, err)

	items, err := GetActiveRestaurants(db, SortAverage)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "PHO BAC SUP SHOP", items[0].BusinessName)
	assert.Equal(t, "", items[0].Address)
	assert.Equal(t, 15.0, items[0].AverageScore)
	assert.Equal(t, 20, items[0].HighScore)
	assert.False(t, items[0].Located)
}

func TestMarkAllAsInactive(t *testing.T) {
	db := memoryDB(t)

	_, err := SaveData(db, []models.Restaurant{{BlockID: "PR1~"}, {BlockID: "PR2~"}})
	require.NoError(t, err)
	require.NoError(t, MarkAllAsInactive(db))

	items, err := GetActiveRestaurants(db, SortAverage)
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = SaveData(db, []models.Restaurant{{BlockID: "PR2~"}})
	require.NoError(t, err)
	items, err = GetActiveRestaurants(db, SortAverage)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "PR2~", items[0].BlockID)
}

func TestGetActiveRestaurants_Sort(t *testing.T) {
	db := memoryDB(t)

	_, err := SaveData(db, []models.Restaurant{
		{BlockID: "PR1~", BusinessName: "A", AverageScore: 5, HighScore: 40},
		{BlockID: "PR2~", BusinessName: "B", AverageScore: 25, HighScore: 30},
		{BlockID: "PR3~", BusinessName: "C", AverageScore: 0, HighScore: 0},
	})
	require.NoError(t, err)

	names := func(sortBy string) []string {
		items, err := GetActiveRestaurants(db, sortBy)
		require.NoError(t, err)
		var out []string
		for _, it := range items {
			out = append(out, it.BusinessName)
		}
		return out
	}

	assert.Equal(t, []string{"B", "A", "C"}, names(SortAverage))
	assert.Equal(t, []string{"A", "B", "C"}, names(SortHigh))

	_, err = GetActiveRestaurants(db, "alphabetical")
	assert.ErrorIs(t, err, ErrUnknownSort)
	assert.ErrorContains(t, err, "alphabetical")
}
