// Package convert round-trips master-table rows into GPX or KML bytes
// and back. Unlike the full ingestion pipeline it runs no cross-point
// time fallback: each direction carries only what the format natively
// encodes.
package convert

import (
	"bytes"
	"crypto/md5"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tomaszbielNCI/kml-procesor/internal/dedupe"
	"github.com/tomaszbielNCI/kml-procesor/internal/gpx"
	"github.com/tomaszbielNCI/kml-procesor/internal/ingest"
	"github.com/tomaszbielNCI/kml-procesor/internal/kml"
	"github.com/tomaszbielNCI/kml-procesor/internal/models"
)

// KeyFunc picks the grouping key for a point when emitting a file: one
// track (GPX) or one placemark (KML) per distinct key.
type KeyFunc func(p models.TrackPoint) string

// ByTrackName groups points by their track name, the native GPX grouping.
func ByTrackName(p models.TrackPoint) string { return p.TrackName }

// ToGPX renders rows as a GPX document, one track per distinct key in
// first-encounter order. A point's time is emitted only when it parses
// as a real timestamp: vendor clock strings and the sentinel are not
// re-emitted as native GPX time.
func ToGPX(points []models.TrackPoint, key KeyFunc) ([]byte, error) {
	if key == nil {
		key = ByTrackName
	}
	doc := &gpx.GPX{}
	index := make(map[string]int)
	for _, p := range points {
		name := key(p)
		ti, ok := index[name]
		if !ok {
			ti = len(doc.Tracks)
			index[name] = ti
			doc.Tracks = append(doc.Tracks, gpx.Track{
				Name:     name,
				Segments: []gpx.Segment{{}},
			})
		}

		ele := p.Altitude
		pt := gpx.Point{
			Latitude:  p.Latitude,
			Longitude: p.Longitude,
			Elevation: &ele,
		}
		if _, ok := ingest.ParseTimestamp(p.Time); ok {
			pt.Time = p.Time
		}
		doc.Tracks[ti].Segments[0].Points = append(doc.Tracks[ti].Segments[0].Points, pt)
	}

	var buf bytes.Buffer
	if err := doc.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ToKML renders rows as a KML document, one placemark per distinct key
// with a single ordered coordinate list. KML has no per-point time, so
// time is dropped on this path.
func ToKML(points []models.TrackPoint, key KeyFunc) ([]byte, error) {
	if key == nil {
		key = ByTrackName
	}
	doc := &kml.KML{}
	index := make(map[string]int)
	coords := make(map[string][]kml.Coordinate)
	var order []string
	for _, p := range points {
		name := key(p)
		if _, ok := index[name]; !ok {
			index[name] = len(order)
			order = append(order, name)
		}
		coords[name] = append(coords[name], kml.Coordinate{
			Longitude: p.Longitude,
			Latitude:  p.Latitude,
			Altitude:  p.Altitude,
		})
	}

	for _, name := range order {
		doc.Document.Placemarks = append(doc.Document.Placemarks, kml.Placemark{
			Name:       name,
			LineString: &kml.LineString{Coordinates: kml.FormatCoordinates(coords[name])},
		})
	}

	var buf bytes.Buffer
	if err := doc.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FromGPX reads a GPX file into rows without the ingestion pipeline's
// time fallback: each point's time is whatever is natively present, or
// the sentinel.
func FromGPX(path string) ([]models.TrackPoint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	doc, err := gpx.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	filename := filepath.Base(path)
	fileHash := fmt.Sprintf("%x", md5.Sum(data))
	var out []models.TrackPoint
	for trackIdx, track := range doc.Tracks {
		name := track.Name
		if name == "" {
			name = fmt.Sprintf("Track_%d", trackIdx)
		}
		for _, segment := range track.Segments {
			for _, point := range segment.Points {
				t := point.Time
				if t == "" {
					t = models.NoTime
				}
				altitude := 0.0
				if point.Elevation != nil {
					altitude = *point.Elevation
				}
				out = append(out, models.TrackPoint{
					UniquePointID: dedupe.Key(point.Latitude, point.Longitude, t),
					TrackName:     name,
					Latitude:      point.Latitude,
					Longitude:     point.Longitude,
					Altitude:      altitude,
					Time:          t,
					SourceFile:    filename,
					FileHash:      fileHash,
					FileType:      models.FileTypeGPX,
				})
			}
		}
	}
	return out, nil
}

// FromKML reads a KML file into rows. KML points never carry time.
func FromKML(path string) ([]models.TrackPoint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	doc, err := kml.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	filename := filepath.Base(path)
	fileHash := fmt.Sprintf("%x", md5.Sum(data))
	var out []models.TrackPoint
	for placemarkIdx, placemark := range doc.Document.Placemarks {
		if placemark.LineString == nil {
			continue
		}
		coords, err := kml.ParseCoordinates(placemark.LineString.Coordinates)
		if err != nil {
			return nil, fmt.Errorf("invalid placemark in %s: %w", path, err)
		}
		name := placemark.Name
		if name == "" {
			name = fmt.Sprintf("Track_%d", placemarkIdx)
		}
		for _, c := range coords {
			out = append(out, models.TrackPoint{
				UniquePointID: dedupe.Key(c.Latitude, c.Longitude, models.NoTime),
				TrackName:     name,
				Latitude:      c.Latitude,
				Longitude:     c.Longitude,
				Altitude:      c.Altitude,
				Time:          models.NoTime,
				SourceFile:    filename,
				FileHash:      fileHash,
				FileType:      models.FileTypeKML,
			})
		}
	}
	return out, nil
}
