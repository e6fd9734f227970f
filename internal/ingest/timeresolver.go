package ingest

import (
	"time"

	"github.com/tomaszbielNCI/kml-procesor/internal/gpx"
	"github.com/tomaszbielNCI/kml-procesor/internal/models"
	"github.com/tomaszbielNCI/kml-procesor/internal/routemeta"
)

// Textual layouts accepted for resolved time values. Vendor clock strings
// that match none of these still count as a present time value; they just
// cannot be ordered chronologically.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

const nameDateLayout = "02/01/2006"

// ParseTimestamp parses a resolved time string. The sentinel and
// unparseable vendor strings report false.
func ParseTimestamp(s string) (time.Time, bool) {
	if s == "" || s == models.NoTime {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// resolvePointTime picks the point's time value: native timestamp first,
// then the vendor clock, then the track-level timestamp when that value
// was measured from an actual point (a timestamp synthesized from a date
// in the track name stays track-level only), then the sentinel.
func resolvePointTime(native, clock string, routeTimestamp *string, measured bool) string {
	if native != "" {
		return native
	}
	if clock != "" {
		return clock
	}
	if measured && routeTimestamp != nil {
		return *routeTimestamp
	}
	return models.NoTime
}

// resolveRouteTimestamp determines the track-level timestamp using only
// the first point, before any later point is resolved: later points fall
// back to this value. When the first point has neither a native time nor
// a vendor clock, a DD/MM/YYYY date embedded in the track name combines
// with the configured time-of-day into a synthetic timestamp, reported
// with measured=false.
func (e *Extractor) resolveRouteTimestamp(track gpx.Track) (ts *string, measured bool) {
	if first := firstPoint(track); first != nil {
		if t := pointOwnTime(first); t != "" {
			return &t, true
		}
	}
	if date, ok := routemeta.FindDate(track.Name); ok {
		if s, ok := e.synthesizeTimestamp(date); ok {
			return &s, false
		}
	}
	return nil, false
}

// synthesizeTimestamp combines a DD/MM/YYYY date with the configured
// default time-of-day into an RFC3339 instant in UTC.
func (e *Extractor) synthesizeTimestamp(date string) (string, bool) {
	day, err := time.Parse(nameDateLayout, date)
	if err != nil {
		return "", false
	}
	clockStr := e.RouteClock
	if clockStr == "" {
		clockStr = DefaultRouteClock
	}
	clock, err := time.Parse("15:04:05", clockStr)
	if err != nil {
		return "", false
	}
	t := time.Date(day.Year(), day.Month(), day.Day(),
		clock.Hour(), clock.Minute(), clock.Second(), 0, time.UTC)
	return t.Format(time.RFC3339), true
}

// calendarDate renders a resolved timestamp's date as DD/MM/YYYY, the
// same shape route dates take in track descriptions.
func calendarDate(timestamp string) (string, bool) {
	t, ok := ParseTimestamp(timestamp)
	if !ok {
		return "", false
	}
	return t.Format(nameDateLayout), true
}

func firstPoint(track gpx.Track) *gpx.Point {
	for _, segment := range track.Segments {
		if len(segment.Points) > 0 {
			return &segment.Points[0]
		}
	}
	return nil
}

// pointOwnTime is the point-level portion of the fallback chain: the
// native timestamp wins over the vendor clock.
func pointOwnTime(p *gpx.Point) string {
	if p.Time != "" {
		return p.Time
	}
	clock, _ := p.Clock()
	return clock
}
