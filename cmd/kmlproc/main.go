// Command kmlproc converts GPS track files between GPX and KML, merges a
// directory of them into the master table and runs the analysis report.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/tomaszbielNCI/kml-procesor/internal/analysis"
	"github.com/tomaszbielNCI/kml-procesor/internal/config"
	"github.com/tomaszbielNCI/kml-procesor/internal/convert"
	"github.com/tomaszbielNCI/kml-procesor/internal/database"
	"github.com/tomaszbielNCI/kml-procesor/internal/export"
	"github.com/tomaszbielNCI/kml-procesor/internal/merge"
	"github.com/tomaszbielNCI/kml-procesor/internal/models"
	"github.com/tomaszbielNCI/kml-procesor/internal/repository"
)

func main() {
	var (
		action   = flag.String("action", "convert", "one of: convert, batch, merge, analyze")
		input    = flag.String("input", "", "input folder (overrides INPUT_DIR)")
		output   = flag.String("output", "", "output folder (overrides OUTPUT_DIR)")
		file     = flag.String("file", "", "file to convert, relative to the input folder (convert action)")
		from     = flag.String("from", "", "source format: gpx or kml")
		to       = flag.String("to", "", "target format: gpx or kml")
		progress = flag.Bool("progress", true, "show a progress bar while merging")
	)
	flag.Parse()

	cfg := config.Load()
	if *input != "" {
		cfg.InputDir = *input
	}
	if *output != "" {
		cfg.OutputDir = *output
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		log.Fatalf("failed to create output folder: %v", err)
	}

	var err error
	switch *action {
	case "convert":
		err = runConvert(cfg, *file, *from, *to)
	case "batch":
		err = runBatch(cfg, *from, *to)
	case "merge":
		err = runMerge(cfg, *progress)
	case "analyze":
		err = runAnalyze(cfg)
	default:
		err = fmt.Errorf("unknown action %q", *action)
	}
	if err != nil {
		log.Fatalf("%s failed: %v", *action, err)
	}
}

func runConvert(cfg *config.Config, file, from, to string) error {
	if file == "" || from == "" || to == "" {
		return fmt.Errorf("convert requires -file, -from and -to")
	}
	inPath := filepath.Join(cfg.InputDir, file)
	stem := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	outPath := filepath.Join(cfg.OutputDir, stem+"."+to)

	if err := convertFile(inPath, outPath, from, to); err != nil {
		return err
	}
	log.Printf("converted %s (%s) -> %s (%s)", file, from, filepath.Base(outPath), to)
	return nil
}

func runBatch(cfg *config.Config, from, to string) error {
	if from == "" || to == "" {
		return fmt.Errorf("batch requires -from and -to")
	}
	entries, err := os.ReadDir(cfg.InputDir)
	if err != nil {
		return fmt.Errorf("failed to read input folder %s: %w", cfg.InputDir, err)
	}

	converted := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), "."+from) {
			continue
		}
		inPath := filepath.Join(cfg.InputDir, entry.Name())
		stem := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		outPath := filepath.Join(cfg.OutputDir, stem+"."+to)
		if err := convertFile(inPath, outPath, from, to); err != nil {
			log.Printf("skipping %s: %v", entry.Name(), err)
			continue
		}
		converted++
	}
	log.Printf("converted %d files", converted)
	return nil
}

func convertFile(inPath, outPath, from, to string) error {
	var (
		points []models.TrackPoint
		err    error
	)
	switch from {
	case models.FileTypeGPX:
		points, err = convert.FromGPX(inPath)
	case models.FileTypeKML:
		points, err = convert.FromKML(inPath)
	default:
		return fmt.Errorf("unsupported source format %q", from)
	}
	if err != nil {
		return err
	}

	var data []byte
	switch to {
	case models.FileTypeGPX:
		data, err = convert.ToGPX(points, nil)
	case models.FileTypeKML:
		data, err = convert.ToKML(points, nil)
	default:
		return fmt.Errorf("unsupported target format %q", to)
	}
	if err != nil {
		return err
	}

	return os.WriteFile(outPath, data, 0o644)
}

func runMerge(cfg *config.Config, progress bool) error {
	merger := merge.New()
	merger.Extractor.RouteClock = cfg.RouteClock
	merger.ShowProgress = progress

	points, stats, err := merger.Directory(cfg.InputDir)
	if err != nil {
		return err
	}

	csvPath := filepath.Join(cfg.OutputDir, "gps_master.csv")
	if err := export.WriteCSVFile(csvPath, points); err != nil {
		return err
	}

	db, err := database.Open(database.Config{Path: cfg.DBPath})
	if err != nil {
		return err
	}
	defer db.Close()
	if err := database.InitSchema(db); err != nil {
		return err
	}
	if err := repository.NewPointRepository(db).ReplaceAll(points); err != nil {
		return err
	}

	log.Printf("files: %d processed, %d skipped", stats.FilesProcessed, stats.FilesSkipped)
	log.Printf("points: %d (removed %d duplicates)", stats.Points, stats.DuplicatesRemoved)
	log.Printf("tracks: %d", stats.Tracks)
	log.Printf("altitude: %.1f - %.1f m", stats.MinAltitude, stats.MaxAltitude)
	if stats.CalorieTracks > 0 {
		log.Printf("calories: %d - %d kcal over %d tracks", stats.MinCalories, stats.MaxCalories, stats.CalorieTracks)
	}
	log.Printf("points with time: %d / %d", stats.TimedPoints, stats.Points)
	log.Printf("master table: %s and %s", csvPath, cfg.DBPath)
	return nil
}

func runAnalyze(cfg *config.Config) error {
	db, err := database.Open(database.Config{Path: cfg.DBPath})
	if err != nil {
		return err
	}
	defer db.Close()
	if err := database.InitSchema(db); err != nil {
		return err
	}

	points, err := repository.NewPointRepository(db).LoadAll()
	if err != nil {
		return err
	}
	if len(points) == 0 {
		return fmt.Errorf("master table is empty: run -action merge first")
	}

	summary, err := analysis.Summarize(points)
	if err != nil {
		return err
	}
	report := summary.Render()

	reportPath := filepath.Join(cfg.OutputDir, "stats_report.txt")
	if err := os.WriteFile(reportPath, []byte(report), 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	fmt.Print(report)
	log.Printf("report saved to %s", reportPath)
	return nil
}
