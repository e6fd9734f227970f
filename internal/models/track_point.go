package models

// Sentinel value stored in TrackPoint.Time when no time source resolved.
// Tracks recorded without any clock produce this for every point; it is a
// normal terminal state, not an error.
const NoTime = "no_time"

// Recognized source file types.
const (
	FileTypeGPX = "gpx"
	FileTypeKML = "kml"
)

// TrackPoint represents one GPS sample as a row of the master table.
// Optional columns are pointers; nil means the source carried no value.
// The column set is a superset contract - downstream consumers must
// tolerate additional columns appearing.
type TrackPoint struct {
	UniquePointID string  `json:"unique_point_id" db:"unique_point_id"`
	TrackName     string  `json:"track_name" db:"track_name"`
	Latitude      float64 `json:"latitude" db:"latitude"`
	Longitude     float64 `json:"longitude" db:"longitude"`
	Altitude      float64 `json:"altitude" db:"altitude"` // 0.0 substitutes for missing elevation

	// Time is textual: an RFC3339 timestamp, a vendor clock string, or NoTime.
	Time string `json:"time" db:"time"`

	// RouteTimestamp is the track-level first-point time, identical for
	// every point of the same track.
	RouteTimestamp *string `json:"route_timestamp,omitempty" db:"route_timestamp"`

	SourceFile         string  `json:"source_file" db:"source_file"`
	FileHash           string  `json:"file_hash" db:"file_hash"`
	FileType           string  `json:"file_type" db:"file_type"`
	TrackDescription   *string `json:"track_description,omitempty" db:"track_description"`
	ProcessedTimestamp string  `json:"processed_timestamp" db:"processed_timestamp"`

	// Raw vendor extension values, present only when the source point
	// carried a TrackPointExtension block.
	PointClock   *string `json:"point_clock,omitempty" db:"point_clock"`
	PointSeconds *string `json:"point_seconds,omitempty" db:"point_seconds"`

	RouteStats
}

// RouteStats holds per-track metadata extracted from the free-text track
// description and denormalized onto every point of the track. Every field
// is optional; absence means the pattern did not match.
type RouteStats struct {
	RouteDate          *string  `json:"route_date,omitempty" db:"route_date"`
	RouteDistanceKM    *float64 `json:"route_distance_km,omitempty" db:"route_distance_km"`
	RouteTime          *string  `json:"route_time,omitempty" db:"route_time"`
	RouteMinAltitude   *float64 `json:"route_min_altitude,omitempty" db:"route_min_altitude"`
	RouteMaxAltitude   *float64 `json:"route_max_altitude,omitempty" db:"route_max_altitude"`
	RouteTotalCalories *int64   `json:"route_total_calories,omitempty" db:"route_total_calories"`
}

// HasTime reports whether the point resolved a real time value.
func (p *TrackPoint) HasTime() bool {
	return p.Time != "" && p.Time != NoTime
}
