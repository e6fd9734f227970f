package repository

import (
	"database/sql"
	"fmt"

	"github.com/tomaszbielNCI/kml-procesor/internal/database"
	"github.com/tomaszbielNCI/kml-procesor/internal/models"
)

// pointColumns is the column list shared by inserts and selects.
const pointColumns = `unique_point_id, track_name, latitude, longitude, altitude,
	time, route_timestamp, source_file, file_hash, file_type, track_description,
	processed_timestamp, point_clock, point_seconds, route_date, route_distance_km,
	route_time, route_min_altitude, route_max_altitude, route_total_calories`

// PointRepository handles database operations for master-table points
type PointRepository struct {
	db *sql.DB
}

// NewPointRepository creates a new point repository
func NewPointRepository(db *sql.DB) *PointRepository {
	return &PointRepository{db: db}
}

// ReplaceAll swaps the stored master table for the given points in one
// transaction. A merge run fully owns the table, so the previous content
// is discarded rather than reconciled.
func (r *PointRepository) ReplaceAll(points []models.TrackPoint) error {
	return database.Transaction(r.db, func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM track_points"); err != nil {
			return fmt.Errorf("failed to clear track_points: %w", err)
		}

		stmt, err := tx.Prepare(`INSERT INTO track_points (` + pointColumns + `)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare insert: %w", err)
		}
		defer stmt.Close()

		for i := range points {
			p := &points[i]
			_, err := stmt.Exec(
				p.UniquePointID, p.TrackName, p.Latitude, p.Longitude, p.Altitude,
				p.Time, p.RouteTimestamp, p.SourceFile, p.FileHash, p.FileType,
				p.TrackDescription, p.ProcessedTimestamp, p.PointClock, p.PointSeconds,
				p.RouteDate, p.RouteDistanceKM, p.RouteTime, p.RouteMinAltitude,
				p.RouteMaxAltitude, p.RouteTotalCalories,
			)
			if err != nil {
				return fmt.Errorf("failed to insert point %s: %w", p.UniquePointID, err)
			}
		}
		return nil
	})
}

// LoadAll returns the stored master table in insertion order.
func (r *PointRepository) LoadAll() ([]models.TrackPoint, error) {
	rows, err := r.db.Query(`SELECT ` + pointColumns + ` FROM track_points ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query track points: %w", err)
	}
	defer rows.Close()

	var points []models.TrackPoint
	for rows.Next() {
		var (
			p              models.TrackPoint
			routeTimestamp sql.NullString
			description    sql.NullString
			pointClock     sql.NullString
			pointSeconds   sql.NullString
			routeDate      sql.NullString
			routeDistance  sql.NullFloat64
			routeTime      sql.NullString
			routeMinAlt    sql.NullFloat64
			routeMaxAlt    sql.NullFloat64
			routeCalories  sql.NullInt64
		)
		err := rows.Scan(
			&p.UniquePointID, &p.TrackName, &p.Latitude, &p.Longitude, &p.Altitude,
			&p.Time, &routeTimestamp, &p.SourceFile, &p.FileHash, &p.FileType,
			&description, &p.ProcessedTimestamp, &pointClock, &pointSeconds,
			&routeDate, &routeDistance, &routeTime, &routeMinAlt, &routeMaxAlt,
			&routeCalories,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan track point: %w", err)
		}

		p.RouteTimestamp = nullString(routeTimestamp)
		p.TrackDescription = nullString(description)
		p.PointClock = nullString(pointClock)
		p.PointSeconds = nullString(pointSeconds)
		p.RouteDate = nullString(routeDate)
		p.RouteDistanceKM = nullFloat(routeDistance)
		p.RouteTime = nullString(routeTime)
		p.RouteMinAltitude = nullFloat(routeMinAlt)
		p.RouteMaxAltitude = nullFloat(routeMaxAlt)
		p.RouteTotalCalories = nullInt(routeCalories)

		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate track points: %w", err)
	}
	return points, nil
}

// Count returns the number of stored points.
func (r *PointRepository) Count() (int64, error) {
	var n int64
	if err := r.db.QueryRow("SELECT COUNT(*) FROM track_points").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count track points: %w", err)
	}
	return n, nil
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func nullInt(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	i := v.Int64
	return &i
}
