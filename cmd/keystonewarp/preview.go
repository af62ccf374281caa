package main

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"strings"

	"github.com/charmbracelet/x/ansi"
	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/keystone"
)

// previewCols is the terminal width the preview is scaled to fit.
const previewCols = 80

// printPreview renders the pixmap to the terminal using truecolor
// half-block cells: each character covers two vertically stacked pixels,
// upper as foreground and lower as background of '▀'.
func printPreview(out *keystone.Pixmap) {
	w, h := out.Width(), out.Height()
	if w == 0 || h == 0 {
		return
	}

	cols := previewCols
	if w < cols {
		cols = w
	}
	// Two pixel rows per text row; terminal cells are about twice as tall
	// as they are wide, so the half blocks keep the aspect roughly right.
	rows := h * cols / w
	if rows < 2 {
		rows = 2
	}
	rows -= rows % 2

	scaled := image.NewRGBA(image.Rect(0, 0, cols, rows))
	xdraw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), out.ToImage(), out.Bounds(), xdraw.Src, nil)

	var sb strings.Builder
	for y := 0; y < rows; y += 2 {
		for x := 0; x < cols; x++ {
			upper := trueColor(scaled.RGBAAt(x, y))
			lower := trueColor(scaled.RGBAAt(x, y+1))
			style := ansi.Style{}.ForegroundColor(upper).BackgroundColor(lower)
			sb.WriteString(style.Styled("▀"))
		}
		sb.WriteString(ansi.ResetStyle)
		sb.WriteByte('\n')
	}
	fmt.Fprint(os.Stdout, sb.String())
}

// trueColor packs an RGBA pixel into a 24-bit terminal color.
func trueColor(c color.RGBA) ansi.TrueColor {
	return ansi.TrueColor(uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B))
}
