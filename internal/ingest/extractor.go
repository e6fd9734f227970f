// Package ingest turns GPX and KML source files into master-table rows:
// it drives the format decoders, applies the route metadata patterns,
// resolves per-point and per-track time, hashes file content and assigns
// point identities.
package ingest

import (
	"bytes"
	"crypto/md5"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tomaszbielNCI/kml-procesor/internal/dedupe"
	"github.com/tomaszbielNCI/kml-procesor/internal/gpx"
	"github.com/tomaszbielNCI/kml-procesor/internal/kml"
	"github.com/tomaszbielNCI/kml-procesor/internal/models"
	"github.com/tomaszbielNCI/kml-procesor/internal/routemeta"
)

// DefaultRouteClock is the time-of-day combined with a date found in a
// track name when no point in the track carries any time source. The
// choice of 09:00 is arbitrary but must stay stable so synthesized
// timestamps remain comparable across runs.
const DefaultRouteClock = "09:00:00"

// Extractor produces TrackPoint rows from source files.
type Extractor struct {
	// RouteClock overrides DefaultRouteClock when non-empty ("HH:MM:SS").
	RouteClock string

	// Now stamps rows with the processing time; tests may pin it.
	Now func() time.Time
}

// New returns an Extractor with default settings.
func New() *Extractor {
	return &Extractor{RouteClock: DefaultRouteClock, Now: time.Now}
}

// File dispatches on the file extension. Unrecognized extensions are an
// error; the batch merger filters candidates before calling this.
func (e *Extractor) File(path string) ([]models.TrackPoint, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gpx":
		return e.GPXFile(path)
	case ".kml":
		return e.KMLFile(path)
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", path)
	}
}

// GPXFile extracts every point of every track in a GPX file, in document
// order. Any structural problem fails the whole file so the caller can
// skip it and continue with the batch.
func (e *Extractor) GPXFile(path string) ([]models.TrackPoint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	doc, err := gpx.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	var (
		filename  = filepath.Base(path)
		fileHash  = contentHash(data)
		processed = e.now().Format(time.RFC3339)
		out       []models.TrackPoint
	)

	for trackIdx, track := range doc.Tracks {
		stats := routemeta.Extract(track.Description)
		routeTimestamp, measured := e.resolveRouteTimestamp(track)
		if stats.RouteDate == nil && routeTimestamp != nil {
			if d, ok := calendarDate(*routeTimestamp); ok {
				stats.RouteDate = &d
			}
		}

		trackName := track.Name
		if trackName == "" {
			trackName = fmt.Sprintf("Track_%d", trackIdx)
		}
		var description *string
		if track.Description != "" {
			d := track.Description
			description = &d
		}

		for _, segment := range track.Segments {
			for _, point := range segment.Points {
				if err := checkCoordinates(point.Latitude, point.Longitude); err != nil {
					return nil, fmt.Errorf("invalid point in %s: %w", path, err)
				}

				clock, seconds := point.Clock()
				resolved := resolvePointTime(point.Time, clock, routeTimestamp, measured)

				altitude := 0.0
				if point.Elevation != nil {
					altitude = *point.Elevation
				}

				row := models.TrackPoint{
					UniquePointID:      dedupe.Key(point.Latitude, point.Longitude, resolved),
					TrackName:          trackName,
					Latitude:           point.Latitude,
					Longitude:          point.Longitude,
					Altitude:           altitude,
					Time:               resolved,
					RouteTimestamp:     routeTimestamp,
					SourceFile:         filename,
					FileHash:           fileHash,
					FileType:           models.FileTypeGPX,
					TrackDescription:   description,
					ProcessedTimestamp: processed,
					RouteStats:         stats,
				}
				if clock != "" {
					row.PointClock = &clock
				}
				if seconds != "" {
					row.PointSeconds = &seconds
				}
				out = append(out, row)
			}
		}
	}

	return out, nil
}

// KMLFile extracts every coordinate of every placemark in a KML file.
// KML carries no per-point time and no track description, so those
// columns come out as the sentinel and nil respectively.
func (e *Extractor) KMLFile(path string) ([]models.TrackPoint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	doc, err := kml.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	var (
		filename  = filepath.Base(path)
		fileHash  = contentHash(data)
		processed = e.now().Format(time.RFC3339)
		out       []models.TrackPoint
	)

	for placemarkIdx, placemark := range doc.Document.Placemarks {
		if placemark.LineString == nil {
			continue
		}
		coords, err := kml.ParseCoordinates(placemark.LineString.Coordinates)
		if err != nil {
			return nil, fmt.Errorf("invalid placemark in %s: %w", path, err)
		}

		trackName := placemark.Name
		if trackName == "" {
			trackName = fmt.Sprintf("Track_%d", placemarkIdx)
		}

		for _, c := range coords {
			if err := checkCoordinates(c.Latitude, c.Longitude); err != nil {
				return nil, fmt.Errorf("invalid point in %s: %w", path, err)
			}
			out = append(out, models.TrackPoint{
				UniquePointID:      dedupe.Key(c.Latitude, c.Longitude, models.NoTime),
				TrackName:          trackName,
				Latitude:           c.Latitude,
				Longitude:          c.Longitude,
				Altitude:           c.Altitude,
				Time:               models.NoTime,
				SourceFile:         filename,
				FileHash:           fileHash,
				FileType:           models.FileTypeKML,
				ProcessedTimestamp: processed,
			})
		}
	}

	return out, nil
}

func (e *Extractor) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func contentHash(data []byte) string {
	return fmt.Sprintf("%x", md5.Sum(data))
}

func checkCoordinates(lat, lon float64) error {
	if lat < -90 || lat > 90 {
		return fmt.Errorf("latitude %v out of range [-90, 90]", lat)
	}
	if lon < -180 || lon > 180 {
		return fmt.Errorf("longitude %v out of range [-180, 180]", lon)
	}
	return nil
}
