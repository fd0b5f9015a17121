package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkExtinction       BookmarkType = "extinction"
	BookmarkPopulationCrash  BookmarkType = "population_crash"
	BookmarkPopulationBoom   BookmarkType = "population_boom"
	BookmarkStrategyTakeover BookmarkType = "strategy_takeover"
	BookmarkStablePopulation BookmarkType = "stable_population"
)

// Detection thresholds.
const (
	crashDrop         = 0.30 // fraction lost from recent peak
	crashMinLoss      = 10
	boomGrowth        = 2.0 // multiple of the rolling average
	boomMinPopulation = 20
	takeoverShare     = 0.90
	takeoverMinPop    = 20
	stableMinPop      = 10
	stableCVSquared   = 0.04 // CV < 0.2
	stableWindows     = 5
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int32        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in the simulation.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	recentPeak         int
	dominant           string // "asexual", "sexual" or ""
	stableWindowsCount int
	extinct            bool
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5 // minimum for stable population detection
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if b := bd.checkExtinction(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if bd.historyFull || bd.historyIdx > 0 {
		if b := bd.checkCrash(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkBoom(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkStable(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}
	if b := bd.checkTakeover(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)
	if stats.Population > bd.recentPeak {
		bd.recentPeak = stats.Population
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

// recent returns up to n of the latest windows, oldest first.
func (bd *BookmarkDetector) recent(n int) []WindowStats {
	count := bd.historyIdx
	if bd.historyFull {
		count = bd.historySize
	}
	n = min(n, count)
	out := make([]WindowStats, n)
	for i := 0; i < n; i++ {
		idx := (bd.historyIdx - n + i + bd.historySize) % bd.historySize
		out[i] = bd.history[idx]
	}
	return out
}

func (bd *BookmarkDetector) checkExtinction(stats WindowStats) *Bookmark {
	if stats.Population > 0 {
		bd.extinct = false
		return nil
	}
	if bd.extinct {
		return nil
	}
	bd.extinct = true
	return &Bookmark{
		Type:        BookmarkExtinction,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Population died out (peak %d)", bd.recentPeak),
	}
}

func (bd *BookmarkDetector) checkCrash(stats WindowStats) *Bookmark {
	if bd.recentPeak == 0 {
		return nil
	}

	drop := 1.0 - float64(stats.Population)/float64(bd.recentPeak)
	if drop > crashDrop && stats.Population < bd.recentPeak-crashMinLoss {
		oldPeak := bd.recentPeak
		bd.recentPeak = stats.Population

		return &Bookmark{
			Type:        BookmarkPopulationCrash,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Population crashed %.0f%% from peak %d to %d", drop*100, oldPeak, stats.Population),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkBoom(stats WindowStats) *Bookmark {
	history := bd.recent(bd.historySize)
	if len(history) < 3 {
		return nil
	}

	var total float64
	for _, h := range history {
		total += float64(h.Population)
	}
	avg := total / float64(len(history))
	if avg == 0 {
		return nil
	}

	if float64(stats.Population) > avg*boomGrowth && stats.Population >= boomMinPopulation {
		return &Bookmark{
			Type:        BookmarkPopulationBoom,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Population %d is %.1fx average (%.0f)", stats.Population, float64(stats.Population)/avg, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkTakeover(stats WindowStats) *Bookmark {
	if stats.Population < takeoverMinPop {
		return nil
	}

	dominant := ""
	share := 0.0
	switch {
	case float64(stats.Asexual) >= takeoverShare*float64(stats.Population):
		dominant, share = "asexual", float64(stats.Asexual)/float64(stats.Population)
	case float64(stats.Sexual) >= takeoverShare*float64(stats.Population):
		dominant, share = "sexual", float64(stats.Sexual)/float64(stats.Population)
	}

	if dominant == "" || dominant == bd.dominant {
		if dominant == "" {
			bd.dominant = ""
		}
		return nil
	}
	bd.dominant = dominant

	return &Bookmark{
		Type:        BookmarkStrategyTakeover,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("%s organisms reached %.0f%% of %d", dominant, share*100, stats.Population),
	}
}

func (bd *BookmarkDetector) checkStable(stats WindowStats) *Bookmark {
	if stats.Population < stableMinPop {
		bd.stableWindowsCount = 0
		return nil
	}

	history := bd.recent(4)
	if len(history) < 4 {
		return nil
	}

	var total float64
	for _, h := range history {
		total += float64(h.Population)
	}
	mean := total / 4

	var variance float64
	for _, h := range history {
		d := float64(h.Population) - mean
		variance += d * d
	}
	variance /= 4

	if mean > 0 && variance/(mean*mean) < stableCVSquared {
		bd.stableWindowsCount++
	} else {
		bd.stableWindowsCount = 0
	}

	if bd.stableWindowsCount == stableWindows {
		return &Bookmark{
			Type:        BookmarkStablePopulation,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Stable population of %d over %d+ windows", stats.Population, stableWindows),
		}
	}
	return nil
}
