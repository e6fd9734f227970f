package ingest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomaszbielNCI/kml-procesor/internal/models"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testExtractor() *Extractor {
	e := New()
	e.Now = func() time.Time { return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC) }
	return e
}

const timedTrack = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="device">
  <trk>
    <name>Morning Ride</name>
    <desc>Date: 01/06/2025 Distance: 5.2 km Energy Consumption: 300 Calories</desc>
    <trkseg>
      <trkpt lat="53.1" lon="18.2"><ele>101.5</ele><time>2025-06-01T08:00:00Z</time></trkpt>
      <trkpt lat="53.2" lon="18.3"><time>2025-06-01T08:00:05Z</time></trkpt>
      <trkpt lat="53.3" lon="18.4"></trkpt>
    </trkseg>
  </trk>
</gpx>`

func TestGPXFileTimedTrack(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "ride.gpx", timedTrack)

	points, err := testExtractor().GPXFile(path)
	require.NoError(t, err)
	require.Len(t, points, 3)

	first := points[0]
	assert.Equal(t, "Morning Ride", first.TrackName)
	assert.Equal(t, 53.1, first.Latitude)
	assert.Equal(t, 18.2, first.Longitude)
	assert.Equal(t, 101.5, first.Altitude)
	assert.Equal(t, "2025-06-01T08:00:00Z", first.Time)
	assert.Equal(t, "ride.gpx", first.SourceFile)
	assert.Equal(t, models.FileTypeGPX, first.FileType)
	assert.NotEmpty(t, first.FileHash)
	assert.Equal(t, "2025-06-15T12:00:00Z", first.ProcessedTimestamp)
	assert.Equal(t, "53.100000_18.200000_2025-06-01T08:00:00Z", first.UniquePointID)

	// Missing elevation normalizes to 0.0, not absence.
	assert.Equal(t, 0.0, points[1].Altitude)

	// Route metadata is denormalized onto every point of the track, and
	// route_timestamp comes from the first point for all of them.
	for _, p := range points {
		require.NotNil(t, p.RouteTimestamp)
		assert.Equal(t, "2025-06-01T08:00:00Z", *p.RouteTimestamp)
		require.NotNil(t, p.RouteDate)
		assert.Equal(t, "01/06/2025", *p.RouteDate)
		require.NotNil(t, p.RouteDistanceKM)
		assert.Equal(t, 5.2, *p.RouteDistanceKM)
		require.NotNil(t, p.RouteTotalCalories)
		assert.Equal(t, int64(300), *p.RouteTotalCalories)
		require.NotNil(t, p.TrackDescription)
	}

	// The timeless third point falls back to the measured track-level value.
	assert.Equal(t, "2025-06-01T08:00:00Z", points[2].Time)
}

const clockTrack = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="device">
  <trk>
    <name>Backup Walk</name>
    <trkseg>
      <trkpt lat="50.0" lon="19.9">
        <time>2025-03-01T10:00:00Z</time>
        <extensions>
          <gpxtpx:TrackPointExtension xmlns:gpxtpx="http://www.garmin.com/xmlschemas/TrackPointExtension/v1">
            <gpxtpx:clock>2025-03-01T10:00:01Z</gpxtpx:clock>
            <gpxtpx:seconds>1</gpxtpx:seconds>
          </gpxtpx:TrackPointExtension>
        </extensions>
      </trkpt>
      <trkpt lat="50.1" lon="20.0">
        <extensions>
          <gpxtpx:TrackPointExtension xmlns:gpxtpx="http://www.garmin.com/xmlschemas/TrackPointExtension/v1">
            <gpxtpx:clock>2025-03-01T10:00:07Z</gpxtpx:clock>
            <gpxtpx:seconds>7</gpxtpx:seconds>
          </gpxtpx:TrackPointExtension>
        </extensions>
      </trkpt>
    </trkseg>
  </trk>
</gpx>`

func TestVendorClockPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "backup.gpx", clockTrack)

	points, err := testExtractor().GPXFile(path)
	require.NoError(t, err)
	require.Len(t, points, 2)

	// A native timestamp always beats the vendor clock, but the raw
	// clock/seconds values are still captured.
	assert.Equal(t, "2025-03-01T10:00:00Z", points[0].Time)
	require.NotNil(t, points[0].PointClock)
	assert.Equal(t, "2025-03-01T10:00:01Z", *points[0].PointClock)
	require.NotNil(t, points[0].PointSeconds)
	assert.Equal(t, "1", *points[0].PointSeconds)

	// Without a native timestamp the clock value is the point's time.
	assert.Equal(t, "2025-03-01T10:00:07Z", points[1].Time)
}

const namedDateTrack = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="device">
  <trk>
    <name>Valley hike 12/10/2025</name>
    <trkseg>
      <trkpt lat="52.0" lon="17.0"></trkpt>
      <trkpt lat="52.1" lon="17.1"></trkpt>
    </trkseg>
  </trk>
</gpx>`

func TestRouteTimestampFromTrackName(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "hike.gpx", namedDateTrack)

	points, err := testExtractor().GPXFile(path)
	require.NoError(t, err)
	require.Len(t, points, 2)

	for _, p := range points {
		require.NotNil(t, p.RouteTimestamp)
		assert.Equal(t, "2025-10-12T09:00:00Z", *p.RouteTimestamp)
		require.NotNil(t, p.RouteDate)
		assert.Equal(t, "12/10/2025", *p.RouteDate)

		// A name-synthesized timestamp is track-level only: the points
		// themselves keep the sentinel.
		assert.Equal(t, models.NoTime, p.Time)
	}
}

const namelessTimelessTrack = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="device">
  <trk>
    <trkseg>
      <trkpt lat="52.0" lon="17.0"></trkpt>
    </trkseg>
  </trk>
</gpx>`

func TestNoTimeSentinelAndSynthesizedName(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bare.gpx", namelessTimelessTrack)

	points, err := testExtractor().GPXFile(path)
	require.NoError(t, err)
	require.Len(t, points, 1)

	p := points[0]
	assert.Equal(t, "Track_0", p.TrackName)
	assert.Equal(t, models.NoTime, p.Time)
	assert.Nil(t, p.RouteTimestamp)
	assert.Nil(t, p.RouteDate)
	assert.Nil(t, p.TrackDescription)
}

const sampleKML = `<?xml version="1.0" encoding="UTF-8"?>
<kml xmlns="http://www.opengis.net/kml/2.2">
  <Document>
    <Placemark>
      <name>Evening Walk</name>
      <LineString>
        <coordinates>18.2,53.1,100.5 18.3,53.2,101</coordinates>
      </LineString>
    </Placemark>
  </Document>
</kml>`

func TestKMLFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "walk.kml", sampleKML)

	points, err := testExtractor().KMLFile(path)
	require.NoError(t, err)
	require.Len(t, points, 2)

	p := points[0]
	assert.Equal(t, "Evening Walk", p.TrackName)
	assert.Equal(t, 53.1, p.Latitude)
	assert.Equal(t, 18.2, p.Longitude)
	assert.Equal(t, 100.5, p.Altitude)
	assert.Equal(t, models.NoTime, p.Time)
	assert.Equal(t, models.FileTypeKML, p.FileType)
	assert.Nil(t, p.RouteTimestamp)
	assert.Nil(t, p.TrackDescription)
}

func TestFileDispatchAndErrors(t *testing.T) {
	dir := t.TempDir()
	gpxPath := writeFile(t, dir, "a.gpx", timedTrack)
	kmlPath := writeFile(t, dir, "b.kml", sampleKML)
	badPath := writeFile(t, dir, "c.gpx", "<gpx><trk>")
	txtPath := writeFile(t, dir, "d.txt", "not a track")

	e := testExtractor()

	points, err := e.File(gpxPath)
	require.NoError(t, err)
	assert.Len(t, points, 3)

	points, err = e.File(kmlPath)
	require.NoError(t, err)
	assert.Len(t, points, 2)

	_, err = e.File(badPath)
	assert.Error(t, err)

	_, err = e.File(txtPath)
	assert.Error(t, err)

	_, err = e.File(filepath.Join(dir, "missing.gpx"))
	assert.Error(t, err)
}

const outOfRangeTrack = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="device">
  <trk>
    <trkseg>
      <trkpt lat="95.0" lon="17.0"></trkpt>
    </trkseg>
  </trk>
</gpx>`

func TestCoordinateRangeValidation(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.gpx", outOfRangeTrack)

	_, err := testExtractor().GPXFile(path)
	assert.Error(t, err)
}

func TestParseTimestamp(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"2025-06-01T08:00:00Z", true},
		{"2025-06-01T08:00:00+02:00", true},
		{"2025-06-01T08:00:00", true},
		{"2025-06-01 08:00:00", true},
		{"2025-06-01T08:00:00.500Z", true},
		{models.NoTime, false},
		{"", false},
		{"10:15:00", false},
	}
	for _, c := range cases {
		_, ok := ParseTimestamp(c.in)
		assert.Equal(t, c.ok, ok, c.in)
	}
}

func TestCustomRouteClock(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "hike.gpx", namedDateTrack)

	e := testExtractor()
	e.RouteClock = "15:30:00"
	points, err := e.GPXFile(path)
	require.NoError(t, err)
	require.NotNil(t, points[0].RouteTimestamp)
	assert.Equal(t, "2025-10-12T15:30:00Z", *points[0].RouteTimestamp)
}
