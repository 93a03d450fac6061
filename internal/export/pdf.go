// Package export renders a board snapshot to a PDF document.
package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"collaboard/internal/state"
)

// surface-to-page scale: the drawing surface is pixel-sized, A4 is mm.
const scale = 3.0

// PDF writes the completed strokes to path as an A4 document,
// preserving each stroke's color and width.
func PDF(path string, strokes []state.Stroke) error {
	p := gofpdf.New("P", "mm", "A4", "")
	p.AddPage()

	for _, st := range strokes {
		r, g, b := parseHexColor(st.Color)
		p.SetDrawColor(r, g, b)
		p.SetLineWidth(st.Width / scale)
		for i := 1; i < len(st.Points); i++ {
			p.Line(
				st.Points[i-1].X/scale, st.Points[i-1].Y/scale,
				st.Points[i].X/scale, st.Points[i].Y/scale,
			)
		}
	}
	if err := p.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// parseHexColor decodes #rrggbb; anything unparsable falls back to
// black.
func parseHexColor(s string) (r, g, b int) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return 0, 0, 0
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, 0, 0
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}
