// Package dedupe assigns content-derived identities to track points and
// removes exact duplicates across a merged batch.
//
// Identity is the tuple (latitude, longitude, time string) with
// coordinates rounded to six decimal places. Altitude and route metadata
// are deliberately excluded: two files recording the same sample may
// disagree on elevation, and the first file encountered wins. This also
// means two genuinely different recordings at the same rounded place and
// time string collapse to one row - a known lossy trade-off kept for
// compatibility with the master tables produced so far.
package dedupe

import (
	"fmt"

	"github.com/tomaszbielNCI/kml-procesor/internal/models"
)

// KeyPrecision is the number of coordinate decimal places participating
// in point identity.
const KeyPrecision = 6

// Key returns the stable identity of a sample.
func Key(lat, lon float64, timeStr string) string {
	return fmt.Sprintf("%.*f_%.*f_%s", KeyPrecision, lat, KeyPrecision, lon, timeStr)
}

// Points returns a new slice with later identity repeats removed, keeping
// the first occurrence in input order, plus the number of rows dropped.
// Running it on its own output removes nothing further.
func Points(points []models.TrackPoint) ([]models.TrackPoint, int) {
	if len(points) <= 1 {
		return append([]models.TrackPoint(nil), points...), 0
	}

	seen := make(map[string]struct{}, len(points))
	out := make([]models.TrackPoint, 0, len(points))
	for _, p := range points {
		id := p.UniquePointID
		if id == "" {
			id = Key(p.Latitude, p.Longitude, p.Time)
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, p)
	}
	return out, len(points) - len(out)
}
