package ui

import (
	"math"
	"strings"

	"github.com/olivier-w/wavetrack/internal/curve"
	"github.com/olivier-w/wavetrack/internal/snap"
)

// Braille dot positions (col, row) → bit offset:
//
//	(0,0)=0  (1,0)=3
//	(0,1)=1  (1,1)=4
//	(0,2)=2  (1,2)=5
//	(0,3)=6  (1,3)=7
var brailleBits = [2][4]uint{
	{0, 1, 2, 6},
	{3, 4, 5, 7},
}

// rasterize fills the closed outline in table as a braille mask. One dot
// column is one content unit starting at left; the track height maps onto
// all dot rows. Each dot column is filled between the lowest and highest
// outline point that crosses it.
func rasterize(table curve.LookupTable, left float64, cols, rows int, height float64) []string {
	cols, rows = max(cols, 1), max(rows, 1)
	dotCols, dotRows := cols*2, rows*4

	lo := make([]float64, dotCols)
	hi := make([]float64, dotCols)
	for i := range lo {
		lo[i], hi[i] = math.Inf(1), math.Inf(-1)
	}
	mark := func(x, y float64) {
		dc := int(math.Floor(x - left))
		if dc < 0 || dc >= dotCols {
			return
		}
		dy := y / height * float64(dotRows)
		lo[dc] = min(lo[dc], dy)
		hi[dc] = max(hi[dc], dy)
	}

	if height > 0 {
		for i, p := range table {
			if i == 0 {
				mark(p.X, p.Y)
				continue
			}
			prev := table[i-1]
			// walk the chord so steep or sparse segments leave no gaps
			steps := int(math.Ceil(math.Abs(p.X-prev.X))) + 1
			for s := 1; s <= steps; s++ {
				q := prev.Lerp(p, float64(s)/float64(steps))
				mark(q.X, q.Y)
			}
		}
	}

	out := make([]string, rows)
	for row := range rows {
		var line strings.Builder
		for col := range cols {
			var pattern uint
			for dx := range 2 {
				dc := col*2 + dx
				if math.IsInf(lo[dc], 1) {
					continue
				}
				r0 := clampInt(int(math.Floor(lo[dc])), 0, dotRows-1)
				r1 := clampInt(int(math.Floor(hi[dc])), 0, dotRows-1)
				for dy := range 4 {
					if r := row*4 + dy; r >= r0 && r <= r1 {
						pattern |= 1 << brailleBits[dx][dy]
					}
				}
			}
			line.WriteRune(rune(0x2800 + pattern))
		}
		out[row] = line.String()
	}
	return out
}

// marker kinds in a marker row
const (
	markNone = iota
	markSnap
	markHighlight
	markCandidate
	markCursor
)

// markerCells places each snap point's cursor position on a row of cols
// cells. The cursor itself sits in the middle cell and wins over snaps.
func markerCells(points []snap.Point, markerSize, left float64, cols, highlighted, candidate int) []int {
	cells := make([]int, max(cols, 0))
	for i, p := range points {
		cell := int(math.Floor((p.Offset + markerSize/2 - left) / 2))
		if cell < 0 || cell >= len(cells) {
			continue
		}
		kind := markSnap
		switch i {
		case candidate:
			kind = markCandidate
		case highlighted:
			kind = markHighlight
		}
		if kind > cells[cell] {
			cells[cell] = kind
		}
	}
	if len(cells) > 0 {
		cells[len(cells)/2] = markCursor
	}
	return cells
}

func renderMarkers(cells []int) string {
	var b strings.Builder
	for _, c := range cells {
		switch c {
		case markSnap:
			b.WriteString(markerStyle.Render("▴"))
		case markHighlight:
			b.WriteString(highlightStyle.Render("▲"))
		case markCandidate:
			b.WriteString(magnetStyle.Render("▲"))
		case markCursor:
			b.WriteString(cursorStyle.Render("┃"))
		default:
			b.WriteByte(' ')
		}
	}
	return b.String()
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
