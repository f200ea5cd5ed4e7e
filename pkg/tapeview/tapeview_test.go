package tapeview

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func at(img *image.RGBA, cell, cols, dx, dy int) color.RGBA {
	x := (cell%cols)*CellSize + dx
	y := (cell/cols)*CellSize + dy
	return img.RGBAAt(x, y)
}

func TestRenderLayout(t *testing.T) {
	img := Render([]byte{0x00, 0x40, 0xC0}, 0, 2)

	if got := img.Bounds(); got != image.Rect(0, 0, 2*CellSize, 2*CellSize) {
		t.Fatalf("bounds = %v", got)
	}

	// corner pixels sit outside both the label and the cursor outline
	if got := at(img, 1, 2, 1, 1); got != Shade(0x40) {
		t.Errorf("cell 1 fill = %v; want %v", got, Shade(0x40))
	}
	if got := at(img, 2, 2, 1, 1); got != Shade(0xC0) {
		t.Errorf("cell 2 fill = %v; want %v", got, Shade(0xC0))
	}
	if got := at(img, 0, 2, 0, 0); got != cursor {
		t.Errorf("cursor outline = %v; want %v", got, cursor)
	}
	// the slot after the last cell on a short final row stays background
	if got := at(img, 3, 2, 1, 1); got != background {
		t.Errorf("empty slot = %v; want background", got)
	}
	// the gap column between cells
	if got := img.RGBAAt(CellSize-1, 5); got != background {
		t.Errorf("gap pixel = %v; want background", got)
	}
}

func TestRenderDrawsLabels(t *testing.T) {
	img := Render([]byte{0x00}, 1, 4)
	fill := Shade(0x00)
	inked := false
	for y := 0; y < CellSize-1 && !inked; y++ {
		for x := 0; x < CellSize-1; x++ {
			if img.RGBAAt(x, y) != fill {
				inked = true
				break
			}
		}
	}
	if !inked {
		t.Errorf("no label pixels drawn on cell 0")
	}
}

func TestRenderUnbackedPosition(t *testing.T) {
	img := Render(nil, 2, 4)
	if got := at(img, 0, 4, 1, 1); got != unbacked {
		t.Errorf("cell 0 = %v; want unbacked fill", got)
	}
	if got := at(img, 2, 4, 0, 0); got != cursor {
		t.Errorf("cursor at unbacked cell = %v", got)
	}
}

func TestRenderWindowOffset(t *testing.T) {
	tape := make([]byte, 64)
	tape[32] = 0x20
	img := RenderWindow(tape, 40, 32, 16, 8)
	if got := img.Bounds().Dy(); got != 2*CellSize {
		t.Errorf("height = %d; want %d", got, 2*CellSize)
	}
	if got := at(img, 0, 8, 1, 1); got != Shade(0x20) {
		t.Errorf("first shown cell = %v; want shade of tape[32]", got)
	}
	if got := at(img, 8, 8, 0, 0); got != cursor {
		t.Errorf("cursor should sit on window cell 8")
	}
}

func TestSavePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tape.png")
	img := Render([]byte("Hi"), 0, 16)
	if err := SavePNG(path, img); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	decoded, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Bounds() != img.Bounds() {
		t.Errorf("decoded bounds %v; want %v", decoded.Bounds(), img.Bounds())
	}
}
