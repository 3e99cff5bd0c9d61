package screen

import (
	"bytes"
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// CommitStats describes what a commit sent to the terminal.
type CommitStats struct {
	// Cells is the number of cells whose content or style changed.
	Cells int
	// Regions counts runs of adjacent changed cells, i.e. cursor moves.
	Regions int
	Bytes   int
}

// Commit writes the cells of next that differ from prev to w. A nil prev, or
// one of a different size, forces every cell to be written. Unchanged frames
// produce no output at all. The whole frame is handed to w in one Write.
func Commit(w io.Writer, prev, next *Buffer, profile termenv.Profile) (CommitStats, error) {
	var (
		stats  CommitStats
		out    bytes.Buffer
		full   = prev == nil || prev.Area != next.Area
		cx, cy = -1, -1
		last   *Style
	)

	for y := next.Area.Y; y < next.Area.Bottom(); y++ {
		for x := next.Area.X; x < next.Area.Right(); x++ {
			i := next.index(x, y)
			cell := next.Cells[i]
			if !full && prev.Cells[i] == cell {
				continue
			}
			px := x
			if cell.continuation() {
				switch {
				case x == next.Area.X:
					cell = Cell{Symbol: " ", Style: cell.Style}
				case full || prev.Cells[i-1] != next.Cells[i-1]:
					// already rewritten together with the wide character on its left
					continue
				default:
					px, cell = x-1, next.Cells[i-1]
				}
			}
			stats.Cells++
			if cx != px || cy != y {
				fmt.Fprintf(&out, termenv.CSI+termenv.CursorPositionSeq, y+1, px+1)
				stats.Regions++
			}
			if last == nil || *last != cell.Style {
				out.WriteString(cell.Style.sgr(profile))
				st := cell.Style
				last = &st
			}
			out.WriteString(cell.Symbol)
			cx, cy = px+max(StringWidth(cell.Symbol), 1), y
		}
	}

	if out.Len() == 0 {
		return stats, nil
	}
	out.WriteString(termenv.CSI + termenv.ResetSeq + "m")
	n, err := w.Write(out.Bytes())
	stats.Bytes = n
	return stats, err
}
