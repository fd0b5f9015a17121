package telemetry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/darwinio/config"
)

// Output file names inside the run directory.
const (
	TelemetryFile  = "telemetry.csv"
	PerfFile       = "perf.csv"
	BookmarksFile  = "bookmarks.csv"
	ConfigFile     = "config.yaml"
	HallOfFameFile = "hall_of_fame.json"
)

// csvStream appends records to one CSV file, writing the header once.
type csvStream struct {
	name          string
	f             *os.File
	headerWritten bool
}

func openStream(dir, name string) (*csvStream, error) {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", name, err)
	}
	return &csvStream{name: name, f: f}, nil
}

// write marshals records, which must be a slice of gocsv-tagged structs.
func (s *csvStream) write(records any) error {
	var err error
	if s.headerWritten {
		err = gocsv.MarshalWithoutHeaders(records, s.f)
	} else {
		err = gocsv.Marshal(records, s.f)
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", s.name, err)
	}
	s.headerWritten = true
	return nil
}

// OutputManager handles structured experiment output with CSV logging.
// A nil manager discards everything.
type OutputManager struct {
	dir       string
	telemetry *csvStream
	perf      *csvStream
	bookmarks *csvStream
}

// NewOutputManager creates the output directory and its CSV files.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}
	var err error
	if om.telemetry, err = openStream(dir, TelemetryFile); err != nil {
		return nil, err
	}
	if om.perf, err = openStream(dir, PerfFile); err != nil {
		om.Close()
		return nil, err
	}
	if om.bookmarks, err = openStream(dir, BookmarksFile); err != nil {
		om.Close()
		return nil, err
	}
	return om, nil
}

// WriteConfig saves the run configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, ConfigFile))
}

// WriteTelemetry appends a window stats record to telemetry.csv.
func (om *OutputManager) WriteTelemetry(stats WindowStats) error {
	if om == nil {
		return nil
	}
	return om.telemetry.write([]WindowStats{stats})
}

// WritePerf appends a performance record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd int32) error {
	if om == nil {
		return nil
	}
	return om.perf.write([]PerfStatsCSV{stats.ToCSV(windowEnd)})
}

// WriteBookmark appends a bookmark record to bookmarks.csv.
func (om *OutputManager) WriteBookmark(b Bookmark) error {
	if om == nil {
		return nil
	}
	return om.bookmarks.write([]Bookmark{b})
}

// WriteHallOfFame saves the hall of fame as JSON.
func (om *OutputManager) WriteHallOfFame(hof *HallOfFame) error {
	if om == nil || hof == nil {
		return nil
	}
	return SaveHallOfFame(filepath.Join(om.dir, HallOfFameFile), hof)
}

// SaveHallOfFame writes hof to path in the format LoadHallOfFameFromFile reads.
func SaveHallOfFame(path string, hof *HallOfFame) error {
	data, err := hof.MarshalJSON()
	if err != nil {
		return fmt.Errorf("marshaling hall of fame: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	var errs []error
	for _, s := range []*csvStream{om.telemetry, om.perf, om.bookmarks} {
		if s != nil {
			errs = append(errs, s.f.Close())
		}
	}
	return errors.Join(errs...)
}
