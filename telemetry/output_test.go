package telemetry

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/foodchain/components"
	"github.com/pthm-cable/foodchain/config"
)

func TestPopulationLog(t *testing.T) {
	env := newEnv(2, 2, nil)
	env.Spawn(components.KindPrey, at(0, 0), false, nil)
	env.Spawn(components.KindMidPredator, at(0, 1), false, nil)

	var buf bytes.Buffer
	pl := NewPopulationLog(&buf)
	if err := pl.LogData(0, env.Field); err != nil {
		t.Fatalf("LogData: %v", err)
	}
	env.Spawn(components.KindApexPredator, at(1, 1), false, nil)
	if err := pl.LogData(1, env.Field); err != nil {
		t.Fatalf("LogData: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header + 2 rows:\n%s", len(lines), buf.String())
	}
	if lines[0] != "step,prey,mid_predator,apex_predator" {
		t.Errorf("header = %q", lines[0])
	}

	var rows []PopulationRow
	if err := gocsv.UnmarshalBytes(buf.Bytes(), &rows); err != nil {
		t.Fatalf("UnmarshalBytes: %v", err)
	}
	want := []PopulationRow{
		{Step: 0, Prey: 1, Mid: 1, Apex: 0},
		{Step: 1, Prey: 1, Mid: 1, Apex: 1},
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Errorf("row %d = %+v, want %+v", i, rows[i], want[i])
		}
	}
}

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v; want nil, nil", om, err)
	}
	// All methods are no-ops on a nil manager.
	if err := om.WriteTelemetry(WindowStats{}); err != nil {
		t.Error(err)
	}
	if err := om.WriteBookmark(Bookmark{}); err != nil {
		t.Error(err)
	}
	if err := om.PopulationLog().LogData(0, newEnv(1, 1, nil).Field); err != nil {
		t.Error(err)
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
}

func TestOutputManagerWritesFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}
	for i := 1; i <= 2; i++ {
		if err := om.WriteTelemetry(WindowStats{WindowEnd: i * 50, Prey: 10 * i}); err != nil {
			t.Fatalf("WriteTelemetry: %v", err)
		}
	}
	if err := om.WriteBookmark(Bookmark{Type: BookmarkSaturation, Step: 100, Description: "full"}); err != nil {
		t.Fatalf("WriteBookmark: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatal(err)
	}
	var stats []WindowStats
	if err := gocsv.UnmarshalBytes(data, &stats); err != nil {
		t.Fatalf("UnmarshalBytes telemetry: %v", err)
	}
	if len(stats) != 2 || stats[1].WindowEnd != 100 || stats[1].Prey != 20 {
		t.Errorf("telemetry rows = %+v", stats)
	}

	data, err = os.ReadFile(filepath.Join(dir, "bookmarks.csv"))
	if err != nil {
		t.Fatal(err)
	}
	var bookmarks []Bookmark
	if err := gocsv.UnmarshalBytes(data, &bookmarks); err != nil {
		t.Fatalf("UnmarshalBytes bookmarks: %v", err)
	}
	if len(bookmarks) != 1 || bookmarks[0].Type != BookmarkSaturation {
		t.Errorf("bookmarks = %+v", bookmarks)
	}

	for _, name := range []string{"population.csv", "perf.csv", "config.yaml"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s missing: %v", name, err)
		}
	}
}
