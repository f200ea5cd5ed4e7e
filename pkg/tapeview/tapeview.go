// Package tapeview draws an engine tape as a grid of shaded cells with
// their hex values.
package tapeview

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"backtick/pkg/grid"
)

// CellSize is the edge of one cell in pixels, including a one pixel gap.
const CellSize = 20

var (
	background = color.RGBA{0x10, 0x10, 0x18, 0xFF}
	unbacked   = color.RGBA{0x1D, 0x2B, 0x53, 0xFF}
	cursor     = color.RGBA{0xFF, 0x00, 0x4D, 0xFF}
)

// Shade is the fill used for a cell holding v.
func Shade(v byte) color.RGBA {
	return color.RGBA{v, v, v, 0xFF}
}

// Render draws every backed cell, plus the cells up to position when it
// lies past the end of the tape.
func Render(tape []byte, position uint16, cols int) *image.RGBA {
	n := max(len(tape), int(position)+1)
	return RenderWindow(tape, position, 0, n, cols)
}

// RenderWindow draws count cells starting at first, cols to a row.
func RenderWindow(tape []byte, position uint16, first, count, cols int) *image.RGBA {
	if cols <= 0 {
		cols = 16
	}
	if count <= 0 {
		count = cols
	}
	rows := grid.Rows(count, cols)
	img := image.NewRGBA(image.Rect(0, 0, cols*CellSize, rows*CellSize))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	for i := 0; i < count; i++ {
		idx := first + i
		x, y := grid.GetGridCoords(i, cols)
		cell := image.Rect(x*CellSize, y*CellSize, (x+1)*CellSize-1, (y+1)*CellSize-1)

		if idx < len(tape) {
			v := tape[idx]
			draw.Draw(img, cell, image.NewUniform(Shade(v)), image.Point{}, draw.Src)
			label(img, cell, fmt.Sprintf("%02x", v), ink(v))
		} else {
			draw.Draw(img, cell, image.NewUniform(unbacked), image.Point{}, draw.Src)
		}
		if idx == int(position) {
			outline(img, cell, cursor)
		}
	}
	return img
}

// ink picks a text colour readable on Shade(v).
func ink(v byte) color.Color {
	if v < 0x80 {
		return color.White
	}
	return color.Black
}

func label(img *image.RGBA, cell image.Rectangle, s string, c color.Color) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
	}
	width := d.MeasureString(s).Ceil()
	x := cell.Min.X + (cell.Dx()-width)/2
	y := cell.Min.Y + (cell.Dy()+face.Ascent)/2
	d.Dot = fixed.P(x, y)
	d.DrawString(s)
}

func outline(img *image.RGBA, r image.Rectangle, c color.Color) {
	const w = 2
	u := image.NewUniform(c)
	draw.Draw(img, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+w), u, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(r.Min.X, r.Max.Y-w, r.Max.X, r.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(r.Min.X, r.Min.Y, r.Min.X+w, r.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(r.Max.X-w, r.Min.Y, r.Max.X, r.Max.Y), u, image.Point{}, draw.Src)
}

// SavePNG encodes img as a PNG and writes it to filename.
func SavePNG(filename string, img image.Image) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
