package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"backtick/pkg/engine"
	"backtick/pkg/grammar"
	"backtick/pkg/tapeview"
	"backtick/pkg/utils"
)

const (
	cols       = 16
	rows       = 16
	statusRows = 4
	lineHeight = 16

	defaultStepsPerFrame = 200
	maxStepsPerFrame     = 100000
)

type Game struct {
	vm       *engine.Engine
	out      *bytes.Buffer
	snapshot string

	stepsPerFrame int
	paused        bool
	err           error
	note          string

	tapeImg *ebiten.Image // reused cols×rows cell canvas
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyUp) {
		g.stepsPerFrame = min(g.stepsPerFrame*2, maxStepsPerFrame)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDown) {
		g.stepsPerFrame = max(g.stepsPerFrame/2, 1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		img := tapeview.Render(g.vm.Tape, g.vm.Position, cols)
		if err := tapeview.SavePNG(g.snapshot, img); err != nil {
			g.note = fmt.Sprintf("snapshot failed: %v", err)
		} else {
			g.note = "saved " + g.snapshot
		}
	}

	n := g.stepsPerFrame
	if g.paused {
		n = 0
		if inpututil.IsKeyJustPressed(ebiten.KeyS) {
			n = 1
		}
	}
	if g.err == nil && n > 0 {
		g.err = advance(g.vm, n)
	}
	return nil
}

// advance runs at most n dispatch steps. Running out of budget is not an
// error; the remaining work continues next frame.
func advance(vm *engine.Engine, n int) error {
	err := vm.RunSteps(n)
	if errors.Is(err, engine.ErrStepLimit) {
		return nil
	}
	return err
}

// windowStart picks the first cell shown so that position stays on screen,
// roughly centred once the tape scrolls.
func windowStart(position uint16, cols, rows int) int {
	row := int(position) / cols
	first := max(row-rows/2, 0)
	first = min(first, engine.MaxTape/cols-rows)
	return first * cols
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.tapeImg == nil {
		g.tapeImg = ebiten.NewImage(cols*tapeview.CellSize, rows*tapeview.CellSize)
	}
	first := windowStart(g.vm.Position, cols, rows)
	img := tapeview.RenderWindow(g.vm.Tape, g.vm.Position, first, cols*rows, cols)
	g.tapeImg.WritePixels(img.Pix)
	screen.DrawImage(g.tapeImg, &ebiten.DrawImageOptions{})

	y := rows * tapeview.CellSize
	for i, line := range g.status() {
		ebitenutil.DebugPrintAt(screen, line, 4, y+i*lineHeight)
	}
}

func (g *Game) status() []string {
	state := "running"
	switch {
	case g.err != nil:
		state = "error: " + g.err.Error()
	case g.vm.Done():
		state = "done"
	case g.paused:
		state = "paused (S steps)"
	}
	lines := []string{
		fmt.Sprintf("pos %d  len %d  steps %d  pending %d  x%d", g.vm.Position, len(g.vm.Tape), g.vm.Steps, g.vm.Pending(), g.stepsPerFrame),
		state,
	}
	lines = append(lines, lastLines(g.out.String(), statusRows-len(lines)-1)...)
	if g.note != "" {
		lines = append(lines, g.note)
	}
	return lines
}

// lastLines returns up to n trailing lines of program output with
// unprintable bytes escaped.
func lastLines(s string, n int) []string {
	if n <= 0 || s == "" {
		return nil
	}
	parts := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(parts) > n {
		parts = parts[len(parts)-n:]
	}
	for i, p := range parts {
		q := fmt.Sprintf("%q", p)
		parts[i] = "> " + q[1:len(q)-1]
	}
	return parts
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return cols * tapeview.CellSize, rows*tapeview.CellSize + statusRows*lineHeight
}

func newGame(src []byte, input io.Reader, snapshot string, stdout io.Writer) (*Game, error) {
	tokens, err := grammar.Parse(src)
	if err != nil {
		return nil, err
	}
	out := &bytes.Buffer{}
	vm := engine.New()
	vm.Output = io.MultiWriter(stdout, out)
	if input != nil {
		vm.Input = engine.NewLineReader(input)
	}
	vm.Load(tokens)
	return &Game{vm: vm, out: out, snapshot: snapshot, stepsPerFrame: defaultStepsPerFrame}, nil
}

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: desktop <file> [input-file]")
	}
	src, fullPath, err := utils.ReadSource(os.Args[1])
	if err != nil {
		log.Fatalf("Failed to read source file: %v", err)
	}

	var input io.Reader
	if len(os.Args) > 2 {
		f, err := os.Open(os.Args[2])
		if err != nil {
			log.Fatalf("Failed to open input file: %v", err)
		}
		defer f.Close()
		input = f
	}

	game, err := newGame(src, input, utils.SiblingPath(fullPath, ".png"), os.Stdout)
	if err != nil {
		log.Fatalf("Parse failed: %v", err)
	}

	w, h := game.Layout(0, 0)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(w*2, h*2)
	ebiten.SetWindowTitle("Backtick Tape")

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
