package telemetry

import (
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/darwinio/config"
)

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v; want nil, nil", om, err)
	}
	// All writes on a nil manager are no-ops.
	if err := om.WriteTelemetry(WindowStats{}); err != nil {
		t.Error(err)
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
}

func TestOutputManagerWritesCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	if err := om.WriteTelemetry(WindowStats{WindowEndTick: 10, Population: 5, ReproductionRatio: math.NaN()}); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteTelemetry(WindowStats{WindowEndTick: 20, Population: 4, ReproductionRatio: 1}); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteBookmark(Bookmark{Type: BookmarkExtinction, Tick: 20, Description: "gone"}); err != nil {
		t.Fatal(err)
	}
	if err := om.WritePerf(PerfStats{}, 20); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteConfig(config.Default()); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, TelemetryFile))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("telemetry.csv has %d lines, want header + 2", len(lines))
	}
	if !strings.Contains(lines[0], "reproduction_ratio") || strings.Contains(lines[0], "window_start") {
		t.Errorf("unexpected header %q", lines[0])
	}
	if !strings.Contains(lines[1], "NaN") {
		t.Errorf("undefined ratio not written as NaN: %q", lines[1])
	}

	if _, err := config.Load(filepath.Join(dir, ConfigFile)); err != nil {
		t.Errorf("written config does not load: %v", err)
	}
	bm, err := os.ReadFile(filepath.Join(dir, BookmarksFile))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(bm), "extinction") {
		t.Errorf("bookmarks.csv = %q", bm)
	}
}

func testHallConfig() config.HallOfFameConfig {
	return config.HallOfFameConfig{Size: 3, MinChildren: 1, MinAgeTicks: 100, ChildrenWeight: 1, AgeWeight: 0.01}
}

func TestHallOfFameConsider(t *testing.T) {
	hof := NewHallOfFame(testHallConfig(), rand.New(rand.NewSource(42)))

	if hof.Consider("aaa", true, 1, &LifetimeStats{BirthTick: 0}, 10) {
		t.Error("admitted an organism that neither bred nor lived long")
	}
	if !hof.Consider("bbb", true, 2, &LifetimeStats{BirthTick: 0}, 150) {
		t.Error("rejected a long-lived organism")
	}
	for i, children := range []int{5, 2, 9} {
		hof.Consider(strings.Repeat("c", i+1), false, uint32(10+i), &LifetimeStats{Children: children}, 1)
	}

	entries := hof.Entries()
	if len(entries) != 3 {
		t.Fatalf("hall holds %d entries, want 3", len(entries))
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].Fitness > entries[i-1].Fitness {
			t.Fatalf("entries not sorted: %+v", entries)
		}
	}
	if entries[0].Children != 9 || hof.TopFitness() != entries[0].Fitness {
		t.Errorf("top entry = %+v", entries[0])
	}

	g := hof.Sample()
	found := false
	for _, e := range entries {
		found = found || e.Genome == g
	}
	if !found {
		t.Errorf("Sample returned %q, not in the hall", g)
	}
}

func TestHallOfFameRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	hof := NewHallOfFame(testHallConfig(), rng)
	hof.Consider("0a0b0c", true, 7, &LifetimeStats{Children: 3, FounderID: 2, Generation: 4}, 30)

	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := om.WriteHallOfFame(hof); err != nil {
		t.Fatal(err)
	}
	om.Close()

	loaded, err := LoadHallOfFameFromFile(filepath.Join(dir, HallOfFameFile), testHallConfig(), rng)
	if err != nil {
		t.Fatal(err)
	}
	got := loaded.Entries()
	if len(got) != 1 || got[0] != hof.Entries()[0] {
		t.Errorf("loaded %+v, want %+v", got, hof.Entries())
	}
}
