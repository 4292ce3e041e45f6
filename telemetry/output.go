package telemetry

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/foodchain/components"
	"github.com/pthm-cable/foodchain/config"
	"github.com/pthm-cable/foodchain/systems"
)

// csvStream appends records to a writer, emitting the header once.
type csvStream struct {
	w             io.Writer
	headerWritten bool
}

func (s *csvStream) write(records any) error {
	if !s.headerWritten {
		// First write includes headers
		if err := gocsv.Marshal(records, s.w); err != nil {
			return err
		}
		s.headerWritten = true
		return nil
	}
	return gocsv.MarshalWithoutHeaders(records, s.w)
}

// PopulationRow is one step of the population log.
type PopulationRow struct {
	Step int `csv:"step"`
	Prey int `csv:"prey"`
	Mid  int `csv:"mid_predator"`
	Apex int `csv:"apex_predator"`
}

// PopulationLog writes one CSV row of per-species counts per step.
type PopulationLog struct {
	out csvStream
}

// NewPopulationLog creates a log writing to w.
func NewPopulationLog(w io.Writer) *PopulationLog {
	return &PopulationLog{out: csvStream{w: w}}
}

// LogData counts the field and appends a row for step.
func (pl *PopulationLog) LogData(step int, field *systems.Field) error {
	if pl == nil {
		return nil
	}
	c := CountField(field)
	row := []PopulationRow{{
		Step: step,
		Prey: c.Count(components.KindPrey),
		Mid:  c.Count(components.KindMidPredator),
		Apex: c.Count(components.KindApexPredator),
	}}
	if err := pl.out.write(row); err != nil {
		return fmt.Errorf("writing population row: %w", err)
	}
	return nil
}

// OutputManager handles structured run output with CSV logging.
type OutputManager struct {
	dir            string
	populationFile *os.File
	telemetryFile  *os.File
	bookmarkFile   *os.File
	perfFile       *os.File

	population *PopulationLog
	telemetry  csvStream
	bookmarks  csvStream
	perf       csvStream
}

// NewOutputManager creates a new output manager and initializes the output directory.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}
	files := []struct {
		name string
		dst  **os.File
	}{
		{"population.csv", &om.populationFile},
		{"telemetry.csv", &om.telemetryFile},
		{"bookmarks.csv", &om.bookmarkFile},
		{"perf.csv", &om.perfFile},
	}
	for _, f := range files {
		file, err := os.Create(filepath.Join(dir, f.name))
		if err != nil {
			om.Close()
			return nil, fmt.Errorf("creating %s: %w", f.name, err)
		}
		*f.dst = file
	}

	om.population = NewPopulationLog(om.populationFile)
	om.telemetry = csvStream{w: om.telemetryFile}
	om.bookmarks = csvStream{w: om.bookmarkFile}
	om.perf = csvStream{w: om.perfFile}
	return om, nil
}

// PopulationLog returns the per-step population logger, or nil when output
// is disabled.
func (om *OutputManager) PopulationLog() *PopulationLog {
	if om == nil {
		return nil
	}
	return om.population
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteTelemetry writes a window stats record to telemetry.csv.
func (om *OutputManager) WriteTelemetry(stats WindowStats) error {
	if om == nil {
		return nil
	}
	if err := om.telemetry.write([]WindowStats{stats}); err != nil {
		return fmt.Errorf("writing telemetry: %w", err)
	}
	return nil
}

// WriteBookmark writes a bookmark record to bookmarks.csv.
func (om *OutputManager) WriteBookmark(b Bookmark) error {
	if om == nil {
		return nil
	}
	if err := om.bookmarks.write([]Bookmark{b}); err != nil {
		return fmt.Errorf("writing bookmark: %w", err)
	}
	return nil
}

// WritePerf writes a performance stats record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd int) error {
	if om == nil {
		return nil
	}
	if err := om.perf.write([]PerfStatsCSV{stats.ToCSV(windowEnd)}); err != nil {
		return fmt.Errorf("writing perf: %w", err)
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

	var firstErr error
	for _, f := range []*os.File{om.populationFile, om.telemetryFile, om.bookmarkFile, om.perfFile} {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
