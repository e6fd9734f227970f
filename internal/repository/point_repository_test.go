package repository

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomaszbielNCI/kml-procesor/internal/database"
	"github.com/tomaszbielNCI/kml-procesor/internal/models"
)

func testRepo(t *testing.T) *PointRepository {
	t.Helper()
	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "tracks.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.InitSchema(db))
	return NewPointRepository(db)
}

func TestReplaceAllAndLoadAll(t *testing.T) {
	repo := testRepo(t)

	ts := "2025-06-01T08:00:00Z"
	dist := 5.2
	cal := int64(300)
	points := []models.TrackPoint{
		{
			UniquePointID:      "53.100000_18.200000_" + ts,
			TrackName:          "Ride",
			Latitude:           53.1,
			Longitude:          18.2,
			Altitude:           101.5,
			Time:               ts,
			RouteTimestamp:     &ts,
			SourceFile:         "ride.gpx",
			FileHash:           "abc123",
			FileType:           models.FileTypeGPX,
			ProcessedTimestamp: "2025-06-15T12:00:00Z",
			RouteStats: models.RouteStats{
				RouteDistanceKM:    &dist,
				RouteTotalCalories: &cal,
			},
		},
		{
			UniquePointID:      "50.000000_19.900000_no_time",
			TrackName:          "Walk",
			Latitude:           50.0,
			Longitude:          19.9,
			Time:               models.NoTime,
			SourceFile:         "walk.kml",
			FileHash:           "def456",
			FileType:           models.FileTypeKML,
			ProcessedTimestamp: "2025-06-15T12:00:00Z",
		},
	}

	require.NoError(t, repo.ReplaceAll(points))

	n, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	loaded, err := repo.LoadAll()
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	// Insertion order is preserved.
	assert.Equal(t, points[0], loaded[0])
	assert.Equal(t, points[1], loaded[1])
	assert.Nil(t, loaded[1].RouteTimestamp)
	assert.Nil(t, loaded[1].RouteDistanceKM)
	assert.Nil(t, loaded[1].RouteTotalCalories)
}

func TestReplaceAllDiscardsPreviousRun(t *testing.T) {
	repo := testRepo(t)

	first := []models.TrackPoint{
		{UniquePointID: "a", TrackName: "A", Time: models.NoTime, FileType: models.FileTypeGPX},
		{UniquePointID: "b", TrackName: "B", Time: models.NoTime, FileType: models.FileTypeGPX},
	}
	require.NoError(t, repo.ReplaceAll(first))

	second := []models.TrackPoint{
		{UniquePointID: "c", TrackName: "C", Time: models.NoTime, FileType: models.FileTypeGPX},
	}
	require.NoError(t, repo.ReplaceAll(second))

	loaded, err := repo.LoadAll()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "c", loaded[0].UniquePointID)
}

func TestLoadAllEmpty(t *testing.T) {
	repo := testRepo(t)

	loaded, err := repo.LoadAll()
	require.NoError(t, err)
	assert.Empty(t, loaded)

	n, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}
