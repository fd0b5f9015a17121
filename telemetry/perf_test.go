package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseSweep)
		time.Sleep(200 * time.Microsecond)
		pc.StartPhase(PhaseCensus)
		time.Sleep(100 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration")
	}
	if stats.MinTickDuration > stats.MaxTickDuration {
		t.Error("min tick longer than max tick")
	}
	if _, ok := stats.PhaseAvg[PhaseSweep]; !ok {
		t.Error("expected sweep phase to be tracked")
	}
	if _, ok := stats.PhaseAvg[PhaseCensus]; !ok {
		t.Error("expected census phase to be tracked")
	}
	if stats.PhasePct[PhaseSweep] <= 0 || stats.PhasePct[PhaseSweep] > 100 {
		t.Errorf("sweep pct = %v, want in (0,100]", stats.PhasePct[PhaseSweep])
	}
}

func TestPerfCollector_Empty(t *testing.T) {
	stats := NewPerfCollector(0).Stats()
	if stats.AvgTickDuration != 0 || stats.PhaseAvg == nil {
		t.Errorf("empty collector stats = %+v", stats)
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)
	for i := 0; i < 10; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseSweep)
		pc.EndTick()
	}
	if pc.sampleCount != 5 {
		t.Errorf("sampleCount = %d, want 5", pc.sampleCount)
	}
}

func TestPerfStats_ToCSV(t *testing.T) {
	s := PerfStats{
		AvgTickDuration: 1500 * time.Microsecond,
		PhasePct:        map[string]float64{PhaseSweep: 80, PhaseTelemetry: 5},
	}
	csv := s.ToCSV(120)
	if csv.WindowEnd != 120 || csv.AvgTickUS != 1500 || csv.SweepPct != 80 || csv.TelemetryPct != 5 {
		t.Errorf("ToCSV = %+v", csv)
	}
}
