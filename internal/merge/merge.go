// Package merge drives extraction across a directory of track files and
// produces the master table: the concatenated, deduplicated, sorted set
// of points from every file that parsed.
package merge

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/schollz/progressbar/v3"

	"github.com/tomaszbielNCI/kml-procesor/internal/dedupe"
	"github.com/tomaszbielNCI/kml-procesor/internal/ingest"
	"github.com/tomaszbielNCI/kml-procesor/internal/models"
)

// ErrInputMissing reports an absent input directory or one containing no
// candidate files: there was nothing to read.
var ErrInputMissing = errors.New("no input files")

// ErrNoUsableFiles reports that candidate files existed but none of them
// contributed a point: every file failed extraction, or the files parsed
// but held no track points. Kept distinct from ErrInputMissing so callers
// can tell "nothing to read" from "nothing usable".
var ErrNoUsableFiles = errors.New("no usable input files")

// Stats summarizes one merge run.
type Stats struct {
	FilesFound        int
	FilesProcessed    int
	FilesSkipped      int
	PointsExtracted   int
	DuplicatesRemoved int
	Points            int
	Tracks            int
	TimedPoints       int
	MinAltitude       float64
	MaxAltitude       float64
	MinCalories       int64
	MaxCalories       int64
	CalorieTracks     int
}

// Merger merges every recognized track file in a directory.
type Merger struct {
	Extractor *ingest.Extractor

	// ShowProgress draws a per-file progress bar on stderr.
	ShowProgress bool
}

// New returns a Merger with a default extractor.
func New() *Merger {
	return &Merger{Extractor: ingest.New()}
}

// Directory extracts every *.gpx and *.kml file under dir, skipping and
// logging files that fail to parse, then deduplicates and sorts the
// concatenated result. Per-file failures never abort the batch; only a
// missing/empty directory or a batch that yields no points is terminal.
func (m *Merger) Directory(dir string) ([]models.TrackPoint, *Stats, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: failed to read directory %s: %v", ErrInputMissing, dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext == ".gpx" || ext == ".kml" {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)

	if len(files) == 0 {
		return nil, nil, fmt.Errorf("%w: no gpx or kml files in %s", ErrInputMissing, dir)
	}

	stats := &Stats{FilesFound: len(files)}
	extractor := m.Extractor
	if extractor == nil {
		extractor = ingest.New()
	}

	var bar *progressbar.ProgressBar
	if m.ShowProgress {
		bar = progressbar.Default(int64(len(files)), "merging")
	}

	var all []models.TrackPoint
	for _, file := range files {
		points, err := extractor.File(file)
		if bar != nil {
			_ = bar.Add(1)
		}
		if err != nil {
			log.Printf("skipping %s: %v", filepath.Base(file), err)
			stats.FilesSkipped++
			continue
		}
		stats.FilesProcessed++
		all = append(all, points...)
	}

	if stats.FilesProcessed == 0 {
		return nil, nil, fmt.Errorf("%w: all %d files in %s failed extraction", ErrNoUsableFiles, len(files), dir)
	}
	if len(all) == 0 {
		return nil, nil, fmt.Errorf("%w: %d files in %s parsed but contained no points", ErrNoUsableFiles, stats.FilesProcessed, dir)
	}

	stats.PointsExtracted = len(all)
	merged, removed := dedupe.Points(all)
	stats.DuplicatesRemoved = removed

	sortPoints(merged)
	fillStats(stats, merged)

	return merged, stats, nil
}

// sortPoints orders the table chronologically when any point resolved a
// real time. Rows whose time does not parse (the sentinel, and vendor
// clock strings with no date) sort last, otherwise stable. A batch with
// no timed points keeps source-then-track encounter order.
func sortPoints(points []models.TrackPoint) {
	type row struct {
		point models.TrackPoint
		timed bool
		when  int64
	}
	rows := make([]row, len(points))
	anyTimed := false
	for i, p := range points {
		rows[i] = row{point: p}
		if t, ok := ingest.ParseTimestamp(p.Time); ok {
			rows[i].timed = true
			rows[i].when = t.UnixNano()
			anyTimed = true
		}
	}
	if !anyTimed {
		return
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].timed != rows[j].timed {
			return rows[i].timed
		}
		if !rows[i].timed {
			return false
		}
		return rows[i].when < rows[j].when
	})
	for i := range rows {
		points[i] = rows[i].point
	}
}

// fillStats derives the summary figures surfaced after a merge.
func fillStats(stats *Stats, points []models.TrackPoint) {
	stats.Points = len(points)
	tracks := make(map[string]struct{})
	calorieTracks := make(map[string]struct{})
	for i, p := range points {
		tracks[p.TrackName] = struct{}{}
		if p.HasTime() {
			stats.TimedPoints++
		}
		if i == 0 || p.Altitude < stats.MinAltitude {
			stats.MinAltitude = p.Altitude
		}
		if i == 0 || p.Altitude > stats.MaxAltitude {
			stats.MaxAltitude = p.Altitude
		}
		if p.RouteTotalCalories != nil {
			c := *p.RouteTotalCalories
			if _, seen := calorieTracks[p.TrackName]; !seen {
				calorieTracks[p.TrackName] = struct{}{}
				if len(calorieTracks) == 1 || c < stats.MinCalories {
					stats.MinCalories = c
				}
				if len(calorieTracks) == 1 || c > stats.MaxCalories {
					stats.MaxCalories = c
				}
			}
		}
	}
	stats.Tracks = len(tracks)
	stats.CalorieTracks = len(calorieTracks)
}
