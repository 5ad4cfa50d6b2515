package layout

import (
	"testing"

	"github.com/marginote/marginote/model"
)

const (
	pageW = 612.0
	pageH = 792.0
)

// lineBox is a 12pt-tall text line at (x, y) of width w.
func lineBox(x, y, w float64) model.BBox {
	return model.NewBBox(x, y, w, 12)
}

// columnLines stacks n lines of width w at x, walking down from y=700.
func columnLines(x, w float64, n int) []model.BBox {
	out := make([]model.BBox, n)
	for i := range out {
		out[i] = lineBox(x, 700-float64(i)*14, w)
	}
	return out
}

func twoColumnLines() []model.BBox {
	return append(columnLines(72, 228, 10), columnLines(330, 210, 10)...)
}

func TestEstimatePageSingleColumn(t *testing.T) {
	e := NewColumnEstimator()
	if got := e.EstimatePage(columnLines(72, 300, 10), pageW, pageH); got != 1 {
		t.Errorf("EstimatePage = %d, want 1", got)
	}
}

func TestEstimatePageTwoColumns(t *testing.T) {
	e := NewColumnEstimator()
	if got := e.EstimatePage(twoColumnLines(), pageW, pageH); got != 2 {
		t.Errorf("EstimatePage = %d, want 2", got)
	}
}

func TestEstimatePageIgnoresSpanningTitle(t *testing.T) {
	lines := append(twoColumnLines(), lineBox(72, 750, 468))

	e := NewColumnEstimator()
	if got := e.EstimatePage(lines, pageW, pageH); got != 2 {
		t.Errorf("EstimatePage = %d, want 2", got)
	}
}

func TestEstimatePageRejectsNarrowGap(t *testing.T) {
	lines := append(columnLines(72, 228, 10), columnLines(315, 225, 10)...)

	e := NewColumnEstimator()
	if got := e.EstimatePage(lines, pageW, pageH); got != 1 {
		t.Errorf("EstimatePage = %d, want 1", got)
	}
}

func TestEstimatePageRejectsBlockedGap(t *testing.T) {
	// Full-width lines over more than half the page height block the
	// channel between the columns.
	lines := twoColumnLines()
	for i := 0; i < 40; i++ {
		lines = append(lines, lineBox(72, 100+float64(i)*12, 468))
	}

	e := NewColumnEstimator()
	if got := e.EstimatePage(lines, pageW, pageH); got != 1 {
		t.Errorf("EstimatePage = %d, want 1", got)
	}
}

func TestEstimatePageCapsColumns(t *testing.T) {
	var lines []model.BBox
	for _, x := range []float64{0, 150, 300, 450} {
		lines = append(lines, columnLines(x, 100, 10)...)
	}

	cfg := DefaultColumnConfig()
	cfg.MaxColumns = 3
	e := NewColumnEstimatorWithConfig(cfg)
	if got := e.EstimatePage(lines, pageW, pageH); got != 3 {
		t.Errorf("EstimatePage = %d, want 3", got)
	}
}

func TestEstimatePageEmpty(t *testing.T) {
	e := NewColumnEstimator()
	if got := e.EstimatePage(nil, pageW, pageH); got != 1 {
		t.Errorf("EstimatePage(no lines) = %d, want 1", got)
	}
	if got := e.EstimatePage(columnLines(72, 228, 3), 0, 0); got != 1 {
		t.Errorf("EstimatePage(no page size) = %d, want 1", got)
	}
}

func TestEstimateVotesAcrossPages(t *testing.T) {
	two := PageLines{Lines: twoColumnLines(), Width: pageW, Height: pageH}
	one := PageLines{Lines: columnLines(72, 300, 10), Width: pageW, Height: pageH}
	empty := PageLines{Width: pageW, Height: pageH}

	tests := []struct {
		name  string
		pages []PageLines
		want  int
	}{
		{"majority wins", []PageLines{two, two, one}, 2},
		{"tie prefers fewer columns", []PageLines{two, one}, 1},
		{"blank pages do not vote", []PageLines{empty, two}, 2},
		{"no pages", nil, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewColumnEstimator()
			if got := e.Estimate(tt.pages); got != tt.want {
				t.Errorf("Estimate = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMergeSlabs(t *testing.T) {
	tests := []struct {
		name  string
		slabs []slab
		slack float64
		want  []slab
	}{
		{
			name:  "overlap merges",
			slabs: []slab{{0, 10}, {8, 20}},
			slack: 5,
			want:  []slab{{0, 20}},
		},
		{
			name:  "slack bridges small breaks",
			slabs: []slab{{0, 10}, {14, 20}},
			slack: 5,
			want:  []slab{{0, 20}},
		},
		{
			name:  "wide break stays split",
			slabs: []slab{{0, 10}, {16, 20}},
			slack: 5,
			want:  []slab{{0, 10}, {16, 20}},
		},
		{
			name:  "contained span changes nothing",
			slabs: []slab{{0, 20}, {5, 10}},
			slack: 5,
			want:  []slab{{0, 20}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mergeSlabs(tt.slabs, tt.slack)
			if len(got) != len(tt.want) {
				t.Fatalf("mergeSlabs = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("mergeSlabs[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}
