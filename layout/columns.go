package layout

import (
	"math"
	"sort"

	"github.com/marginote/marginote/model"
)

// ColumnConfig holds thresholds for column estimation.
type ColumnConfig struct {
	// MinColumnWidth is the narrowest region of text accepted as a column.
	MinColumnWidth float64

	// MinGapWidth is the narrowest whitespace channel accepted as a
	// column separator.
	MinGapWidth float64

	// MinGapHeightRatio is the fraction of page height a channel must
	// keep clear of text to count as a separator.
	MinGapHeightRatio float64

	// MaxColumns caps the estimate.
	MaxColumns int

	// MergeSlack is how close two text spans may sit, horizontally, and
	// still read as continuous coverage.
	MergeSlack float64

	// SpanningWidthRatio is the fraction of page width above which a line
	// is treated as spanning content (a title or heading crossing every
	// column) and left out of coverage. Zero keeps every line in.
	SpanningWidthRatio float64
}

// DefaultColumnConfig returns thresholds suited to letter and A4 pages.
func DefaultColumnConfig() ColumnConfig {
	return ColumnConfig{
		MinColumnWidth:     50.0,
		MinGapWidth:        20.0,
		MinGapHeightRatio:  0.5,
		MaxColumns:         6,
		MergeSlack:         5.0,
		SpanningWidthRatio: 0.6,
	}
}

// PageLines carries one page's text line boxes for column estimation.
type PageLines struct {
	Lines  []model.BBox
	Width  float64
	Height float64
}

// ColumnEstimator counts text columns from line geometry. Pages with text
// in side-by-side columns leave a tall whitespace channel between them;
// the estimator looks for such channels and counts the regions they
// separate.
type ColumnEstimator struct {
	config ColumnConfig
}

// NewColumnEstimator creates an estimator with default thresholds.
func NewColumnEstimator() *ColumnEstimator {
	return &ColumnEstimator{config: DefaultColumnConfig()}
}

// NewColumnEstimatorWithConfig creates an estimator with custom thresholds.
func NewColumnEstimatorWithConfig(config ColumnConfig) *ColumnEstimator {
	return &ColumnEstimator{config: config}
}

// Estimate returns the column count that best describes a document: the
// most common per-page estimate, preferring fewer columns on a tie. Pages
// without text do not vote. An empty document estimates one column.
func (e *ColumnEstimator) Estimate(pages []PageLines) int {
	votes := make(map[int]int)
	for _, p := range pages {
		if len(p.Lines) == 0 {
			continue
		}
		votes[e.EstimatePage(p.Lines, p.Width, p.Height)]++
	}
	best, bestVotes := 1, 0
	for cols, n := range votes {
		if n > bestVotes || (n == bestVotes && cols < best) {
			best, bestVotes = cols, n
		}
	}
	return best
}

// EstimatePage counts the text columns on one page from its line boxes.
// A page that defeats the analysis reads as a single column.
func (e *ColumnEstimator) EstimatePage(lines []model.BBox, pageWidth, pageHeight float64) int {
	if len(lines) == 0 || pageWidth <= 0 || pageHeight <= 0 {
		return 1
	}
	gaps := e.findColumnGaps(lines, pageWidth, pageHeight)
	if len(gaps) == 0 {
		return 1
	}
	if n := e.countRegions(lines, gaps); n > 1 {
		return n
	}
	return 1
}

// Gap is a vertical whitespace channel between regions of text.
type Gap struct {
	Left  float64
	Right float64
}

// Width returns the horizontal extent of the gap.
func (g Gap) Width() float64 {
	return g.Right - g.Left
}

// Center returns the X coordinate halfway across the gap.
func (g Gap) Center() float64 {
	return (g.Left + g.Right) / 2
}

// slab is a horizontal range covered by text at some height.
type slab struct {
	left, right float64
}

// findColumnGaps locates whitespace channels wide enough, and clear over
// enough of the page height, to separate columns. Lines wide enough to be
// spanning content contribute no coverage but still block channels.
func (e *ColumnEstimator) findColumnGaps(lines []model.BBox, pageWidth, pageHeight float64) []Gap {
	spanLimit := e.config.SpanningWidthRatio * pageWidth
	var slabs []slab
	for _, b := range lines {
		if spanLimit > 0 && b.Width > spanLimit {
			continue
		}
		slabs = append(slabs, slab{left: b.Left(), right: b.Right()})
	}
	if len(slabs) == 0 {
		return nil
	}
	sort.Slice(slabs, func(i, j int) bool {
		return slabs[i].left < slabs[j].left
	})
	merged := mergeSlabs(slabs, e.config.MergeSlack)

	var gaps []Gap
	for i := 0; i+1 < len(merged); i++ {
		g := Gap{Left: merged[i].right, Right: merged[i+1].left}
		if g.Width() < e.config.MinGapWidth {
			continue
		}
		if e.clearHeightRatio(lines, g, pageHeight) < e.config.MinGapHeightRatio {
			continue
		}
		gaps = append(gaps, g)
	}
	if e.config.MaxColumns > 0 && len(gaps) >= e.config.MaxColumns {
		gaps = gaps[:e.config.MaxColumns-1]
	}
	return gaps
}

// mergeSlabs folds sorted spans into maximal covered ranges, bridging
// breaks of at most slack.
func mergeSlabs(slabs []slab, slack float64) []slab {
	if len(slabs) == 0 {
		return nil
	}
	merged := []slab{slabs[0]}
	for _, s := range slabs[1:] {
		last := &merged[len(merged)-1]
		if s.left <= last.right+slack {
			if s.right > last.right {
				last.right = s.right
			}
		} else {
			merged = append(merged, s)
		}
	}
	return merged
}

// clearHeightRatio measures the fraction of the page height over which
// the gap is free of text.
func (e *ColumnEstimator) clearHeightRatio(lines []model.BBox, g Gap, pageHeight float64) float64 {
	type span struct {
		bottom, top float64
	}
	var blockers []span
	for _, b := range lines {
		if b.Right() > g.Left && b.Left() < g.Right {
			blockers = append(blockers, span{bottom: b.Bottom(), top: b.Top()})
		}
	}
	if len(blockers) == 0 {
		return 1
	}
	sort.Slice(blockers, func(i, j int) bool {
		return blockers[i].bottom < blockers[j].bottom
	})
	merged := []span{blockers[0]}
	for _, s := range blockers[1:] {
		last := &merged[len(merged)-1]
		if s.bottom <= last.top {
			if s.top > last.top {
				last.top = s.top
			}
		} else {
			merged = append(merged, s)
		}
	}
	blocked := 0.0
	for _, s := range merged {
		blocked += s.top - s.bottom
	}
	return (pageHeight - blocked) / pageHeight
}

// countRegions splits the line boxes at each gap's center and counts the
// regions whose content is wide enough to be a column.
func (e *ColumnEstimator) countRegions(lines []model.BBox, gaps []Gap) int {
	cuts := make([]float64, 0, len(gaps)+2)
	cuts = append(cuts, math.Inf(-1))
	for _, g := range gaps {
		cuts = append(cuts, g.Center())
	}
	cuts = append(cuts, math.Inf(1))

	count := 0
	for i := 0; i+1 < len(cuts); i++ {
		left, right := 0.0, 0.0
		empty := true
		for _, b := range lines {
			center := b.Left() + b.Width/2
			if center < cuts[i] || center >= cuts[i+1] {
				continue
			}
			if empty || b.Left() < left {
				left = b.Left()
			}
			if empty || b.Right() > right {
				right = b.Right()
			}
			empty = false
		}
		if !empty && right-left >= e.config.MinColumnWidth {
			count++
		}
	}
	return count
}
