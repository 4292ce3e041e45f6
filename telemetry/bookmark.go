package telemetry

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/foodchain/components"
	"github.com/pthm-cable/foodchain/config"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkExtinction      BookmarkType = "extinction"
	BookmarkPreyCrash       BookmarkType = "prey_crash"
	BookmarkSaturation      BookmarkType = "saturation"
	BookmarkStableEcosystem BookmarkType = "stable_ecosystem"
)

// stableLookback is the number of windows the stability test spans.
const stableLookback = 4

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Step        int          `csv:"step"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"step", b.Step,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in the simulation.
type BookmarkDetector struct {
	cfg config.BookmarksConfig

	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	recentPreyPeak     int
	stableWindowsCount int
	saturated          bool
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int, cfg config.BookmarksConfig) *BookmarkDetector {
	if historySize < stableLookback+1 {
		historySize = stableLookback + 1
	}
	return &BookmarkDetector{
		cfg:         cfg,
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if bd.historyFull || bd.historyIdx > 0 {
		bookmarks = append(bookmarks, bd.checkExtinction(stats)...)

		if b := bd.checkPreyCrash(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}
	if b := bd.checkSaturation(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)

	if b := bd.checkStableEcosystem(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	if stats.Prey > bd.recentPreyPeak {
		bd.recentPreyPeak = stats.Prey
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

// recent returns up to n most recent windows, oldest first.
func (bd *BookmarkDetector) recent(n int) []WindowStats {
	size := bd.historyIdx
	if bd.historyFull {
		size = bd.historySize
	}
	if n > size {
		n = size
	}
	out := make([]WindowStats, n)
	for i := 0; i < n; i++ {
		idx := (bd.historyIdx - n + i + bd.historySize) % bd.historySize
		out[i] = bd.history[idx]
	}
	return out
}

func countsOf(s WindowStats) [components.NumKinds]int {
	return [components.NumKinds]int{s.Prey, s.Mid, s.Apex}
}

func (bd *BookmarkDetector) checkExtinction(stats WindowStats) []Bookmark {
	prev := bd.recent(1)[0]
	before, now := countsOf(prev), countsOf(stats)

	var out []Bookmark
	for _, k := range components.Kinds {
		if before[k] > 0 && now[k] == 0 {
			out = append(out, Bookmark{
				Type:        BookmarkExtinction,
				Step:        stats.WindowEnd,
				Description: fmt.Sprintf("%s went extinct (was %d)", k.Name(), before[k]),
			})
		}
	}
	return out
}

func (bd *BookmarkDetector) checkPreyCrash(stats WindowStats) *Bookmark {
	if bd.recentPreyPeak == 0 {
		return nil
	}

	dropPercent := 1.0 - float64(stats.Prey)/float64(bd.recentPreyPeak)
	if dropPercent > bd.cfg.PreyCrash.DropPercent && stats.Prey < bd.recentPreyPeak-bd.cfg.PreyCrash.MinDrop {
		// Reset peak after crash
		oldPeak := bd.recentPreyPeak
		bd.recentPreyPeak = stats.Prey

		return &Bookmark{
			Type:        BookmarkPreyCrash,
			Step:        stats.WindowEnd,
			Description: fmt.Sprintf("Prey crashed %.0f%% from peak %d to %d", dropPercent*100, oldPeak, stats.Prey),
		}
	}

	return nil
}

// checkSaturation fires on entering saturation and rearms once occupancy drops.
func (bd *BookmarkDetector) checkSaturation(stats WindowStats) *Bookmark {
	if stats.Occupancy < bd.cfg.Saturation.Occupancy {
		bd.saturated = false
		return nil
	}
	if bd.saturated {
		return nil
	}
	bd.saturated = true
	return &Bookmark{
		Type:        BookmarkSaturation,
		Step:        stats.WindowEnd,
		Description: fmt.Sprintf("Field %.0f%% occupied", stats.Occupancy*100),
	}
}

func (bd *BookmarkDetector) checkStableEcosystem(stats WindowStats) *Bookmark {
	if stats.Prey == 0 || stats.Mid == 0 || stats.Apex == 0 {
		bd.stableWindowsCount = 0
		return nil
	}

	window := bd.recent(stableLookback)
	if len(window) < stableLookback {
		return nil
	}

	stable := true
	series := make([]float64, len(window))
	for _, k := range components.Kinds {
		for i, h := range window {
			series[i] = float64(countsOf(h)[k])
		}
		mean, std := stat.MeanStdDev(series, nil)
		if mean == 0 || std/mean >= bd.cfg.StableEcosystem.CVThreshold {
			stable = false
			break
		}
	}

	if stable {
		bd.stableWindowsCount++
	} else {
		bd.stableWindowsCount = 0
	}

	// Trigger exactly once per stable stretch
	if bd.stableWindowsCount == bd.cfg.StableEcosystem.StableWindows {
		return &Bookmark{
			Type: BookmarkStableEcosystem,
			Step: stats.WindowEnd,
			Description: fmt.Sprintf("Stable ecosystem with %d prey, %d mid, %d apex over %d windows",
				stats.Prey, stats.Mid, stats.Apex, bd.stableWindowsCount),
		}
	}

	return nil
}
