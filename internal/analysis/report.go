// Package analysis computes the exploratory statistics report over a
// merged master table: descriptive distributions, derived segment speeds
// and cross-variable correlations.
package analysis

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tomaszbielNCI/kml-procesor/internal/ingest"
	"github.com/tomaszbielNCI/kml-procesor/internal/models"
	"github.com/tomaszbielNCI/kml-procesor/internal/spatial"
	"github.com/tomaszbielNCI/kml-procesor/internal/stats"
)

// ErrNoData reports an empty master table.
var ErrNoData = errors.New("no data to analyze")

// Distribution summarizes one numeric column.
type Distribution struct {
	Count  int
	Mean   float64
	Median float64
	Min    float64
	Max    float64
	StdDev float64
}

// Correlation holds the coefficients reported for a variable pair.
type Correlation struct {
	Samples  int
	Pearson  float64
	Spearman float64
	RSquared float64
}

// Summary is the computed analysis over a master table.
type Summary struct {
	Points      int
	Tracks      int
	SourceFiles int
	TimedPoints int

	Altitude     Distribution
	SpeedKmh     Distribution // derived from consecutive timed points
	PathLengthKM Distribution // measured per-track haversine path length

	// Route-level figures, present only when the metadata occurred.
	RouteDistanceKM *Distribution
	RouteCalories   *Distribution

	SpeedAltitude    *Correlation // segment speed vs altitude
	DistanceCalories *Correlation // per-track route distance vs calories
}

// Summarize computes the report figures for a master table.
func Summarize(points []models.TrackPoint) (*Summary, error) {
	if len(points) == 0 {
		return nil, ErrNoData
	}

	s := &Summary{Points: len(points)}

	tracks := make(map[string]struct{})
	files := make(map[string]struct{})
	altitudes := make([]float64, 0, len(points))
	for i := range points {
		p := &points[i]
		tracks[p.TrackName] = struct{}{}
		files[p.SourceFile] = struct{}{}
		altitudes = append(altitudes, p.Altitude)
		if p.HasTime() {
			s.TimedPoints++
		}
	}
	s.Tracks = len(tracks)
	s.SourceFiles = len(files)
	s.Altitude = describe(altitudes)

	speeds, speedAltitudes := segmentSpeeds(points)
	s.SpeedKmh = describe(speeds)
	s.PathLengthKM = describe(trackPathLengths(points))
	if len(speeds) >= 2 {
		s.SpeedAltitude = correlate(speeds, speedAltitudes)
	}

	distances, calories := trackRouteFigures(points)
	if len(distances) > 0 {
		d := describe(distances)
		s.RouteDistanceKM = &d
	}
	if len(calories) > 0 {
		c := describe(calories)
		s.RouteCalories = &c
	}
	paired := pairedRouteFigures(points)
	if len(paired.distances) >= 2 {
		s.DistanceCalories = correlate(paired.distances, paired.calories)
	}

	return s, nil
}

func correlate(x, y []float64) *Correlation {
	return &Correlation{
		Samples:  len(x),
		Pearson:  stats.PearsonCorrelation(x, y),
		Spearman: stats.SpearmanCorrelation(x, y),
		RSquared: stats.RSquared(x, y),
	}
}

// trackPathLengths measures one haversine path length in km per track,
// following the table's row order within each source file. Single-point
// tracks contribute no length.
func trackPathLengths(points []models.TrackPoint) []float64 {
	type coords struct {
		lats, lons []float64
	}
	groups := make(map[string]*coords)
	var order []string
	for i := range points {
		p := &points[i]
		key := p.SourceFile + "\x00" + p.TrackName
		g, ok := groups[key]
		if !ok {
			g = &coords{}
			groups[key] = g
			order = append(order, key)
		}
		g.lats = append(g.lats, p.Latitude)
		g.lons = append(g.lons, p.Longitude)
	}

	var lengths []float64
	for _, key := range order {
		g := groups[key]
		if len(g.lats) < 2 {
			continue
		}
		lengths = append(lengths, spatial.PathLengthKm(g.lats, g.lons))
	}
	return lengths
}

// segmentSpeeds derives km/h speeds between consecutive timed points of
// the same track in the same source file, paired with the altitude at the
// segment end. Zero or negative time deltas are ignored: duplicate-second
// samples and clock corrections produce no meaningful speed.
func segmentSpeeds(points []models.TrackPoint) (speeds, altitudes []float64) {
	for i := 1; i < len(points); i++ {
		prev, cur := &points[i-1], &points[i]
		if prev.SourceFile != cur.SourceFile || prev.TrackName != cur.TrackName {
			continue
		}
		t0, ok0 := ingest.ParseTimestamp(prev.Time)
		t1, ok1 := ingest.ParseTimestamp(cur.Time)
		if !ok0 || !ok1 {
			continue
		}
		dt := t1.Sub(t0).Seconds()
		if dt <= 0 {
			continue
		}
		meters := spatial.HaversineDistance(prev.Latitude, prev.Longitude, cur.Latitude, cur.Longitude)
		speeds = append(speeds, meters/dt*3.6)
		altitudes = append(altitudes, cur.Altitude)
	}
	return speeds, altitudes
}

// trackRouteFigures collects one route distance and one calorie figure
// per distinct track carrying the metadata.
func trackRouteFigures(points []models.TrackPoint) (distances, calories []float64) {
	seenDist := make(map[string]struct{})
	seenCal := make(map[string]struct{})
	for i := range points {
		p := &points[i]
		if p.RouteDistanceKM != nil {
			if _, ok := seenDist[p.TrackName]; !ok {
				seenDist[p.TrackName] = struct{}{}
				distances = append(distances, *p.RouteDistanceKM)
			}
		}
		if p.RouteTotalCalories != nil {
			if _, ok := seenCal[p.TrackName]; !ok {
				seenCal[p.TrackName] = struct{}{}
				calories = append(calories, float64(*p.RouteTotalCalories))
			}
		}
	}
	return distances, calories
}

type pairedFigures struct {
	distances []float64
	calories  []float64
}

// pairedRouteFigures collects tracks carrying both distance and calorie
// metadata, aligned for correlation.
func pairedRouteFigures(points []models.TrackPoint) pairedFigures {
	var out pairedFigures
	seen := make(map[string]struct{})
	for i := range points {
		p := &points[i]
		if p.RouteDistanceKM == nil || p.RouteTotalCalories == nil {
			continue
		}
		if _, ok := seen[p.TrackName]; ok {
			continue
		}
		seen[p.TrackName] = struct{}{}
		out.distances = append(out.distances, *p.RouteDistanceKM)
		out.calories = append(out.calories, float64(*p.RouteTotalCalories))
	}
	return out
}

func describe(values []float64) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}
	return Distribution{
		Count:  len(values),
		Mean:   stats.Mean(values),
		Median: stats.Median(values),
		Min:    stats.Min(values),
		Max:    stats.Max(values),
		StdDev: stats.StdDev(values),
	}
}

// Render formats the summary as the human-readable analysis report.
func (s *Summary) Render() string {
	var b strings.Builder
	b.WriteString("ROUTE ANALYSIS REPORT\n")
	b.WriteString("=====================\n\n")
	fmt.Fprintf(&b, "Points:        %d\n", s.Points)
	fmt.Fprintf(&b, "Tracks:        %d\n", s.Tracks)
	fmt.Fprintf(&b, "Source files:  %d\n", s.SourceFiles)
	fmt.Fprintf(&b, "Timed points:  %d / %d\n\n", s.TimedPoints, s.Points)

	writeDistribution(&b, "Altitude (m)", &s.Altitude)
	writeDistribution(&b, "Segment speed (km/h)", &s.SpeedKmh)
	writeDistribution(&b, "Measured path length (km)", &s.PathLengthKM)
	if s.RouteDistanceKM != nil {
		writeDistribution(&b, "Route distance (km)", s.RouteDistanceKM)
	}
	if s.RouteCalories != nil {
		writeDistribution(&b, "Route calories (kcal)", s.RouteCalories)
	}

	if s.SpeedAltitude != nil {
		writeCorrelation(&b, "Speed vs altitude", s.SpeedAltitude)
	}
	if s.DistanceCalories != nil {
		writeCorrelation(&b, "Route distance vs calories", s.DistanceCalories)
	}

	return b.String()
}

func writeDistribution(b *strings.Builder, title string, d *Distribution) {
	fmt.Fprintf(b, "%s (n=%d)\n", title, d.Count)
	if d.Count == 0 {
		b.WriteString("  no samples\n\n")
		return
	}
	fmt.Fprintf(b, "  mean=%.2f median=%.2f min=%.2f max=%.2f stddev=%.2f\n\n",
		d.Mean, d.Median, d.Min, d.Max, d.StdDev)
}

func writeCorrelation(b *strings.Builder, title string, c *Correlation) {
	fmt.Fprintf(b, "%s (n=%d)\n  pearson=%.3f spearman=%.3f r2=%.3f\n\n",
		title, c.Samples, c.Pearson, c.Spearman, c.RSquared)
}
