// Package export writes the master table as a flat CSV file, one row per
// point. The column list is a superset contract: consumers must tolerate
// columns being added, and nullable columns render as empty cells.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/tomaszbielNCI/kml-procesor/internal/models"
)

// Columns is the master CSV header, in emission order.
var Columns = []string{
	"unique_point_id",
	"track_name",
	"latitude",
	"longitude",
	"altitude",
	"time",
	"route_timestamp",
	"source_file",
	"file_hash",
	"file_type",
	"track_description",
	"processed_timestamp",
	"point_clock",
	"point_seconds",
	"route_date",
	"route_distance_km",
	"route_time",
	"route_min_altitude",
	"route_max_altitude",
	"route_total_calories",
}

// WriteCSV writes the header and one record per point to w.
func WriteCSV(w io.Writer, points []models.TrackPoint) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for i := range points {
		if err := cw.Write(record(&points[i])); err != nil {
			return fmt.Errorf("failed to write csv record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes the master table to path, truncating any previous
// file.
func WriteCSVFile(path string, points []models.TrackPoint) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := WriteCSV(f, points); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func record(p *models.TrackPoint) []string {
	return []string{
		p.UniquePointID,
		p.TrackName,
		formatFloat(p.Latitude),
		formatFloat(p.Longitude),
		formatFloat(p.Altitude),
		p.Time,
		strOrEmpty(p.RouteTimestamp),
		p.SourceFile,
		p.FileHash,
		p.FileType,
		strOrEmpty(p.TrackDescription),
		p.ProcessedTimestamp,
		strOrEmpty(p.PointClock),
		strOrEmpty(p.PointSeconds),
		strOrEmpty(p.RouteDate),
		floatOrEmpty(p.RouteDistanceKM),
		strOrEmpty(p.RouteTime),
		floatOrEmpty(p.RouteMinAltitude),
		floatOrEmpty(p.RouteMaxAltitude),
		intOrEmpty(p.RouteTotalCalories),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func strOrEmpty(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func floatOrEmpty(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

func intOrEmpty(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}
