package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lodeb/tilewave/grid"
	"github.com/lodeb/tilewave/navigation"
	"github.com/lodeb/tilewave/tilemap"
	"github.com/lodeb/tilewave/wfc"
)

// Terrain options for the built-in rule set.
const (
	water uint32 = iota
	sand
	grass
	forest
)

var terrainStyles = map[wfc.Option]tcell.Style{
	wfc.Option(water):  tcell.StyleDefault.Background(tcell.ColorNavy),
	wfc.Option(sand):   tcell.StyleDefault.Background(tcell.ColorDarkKhaki),
	wfc.Option(grass):  tcell.StyleDefault.Background(tcell.ColorGreen),
	wfc.Option(forest): tcell.StyleDefault.Background(tcell.ColorDarkGreen),
}

// terrainRules builds a coastline chain: water touches sand, sand touches
// grass, grass touches forest. Grass is weighted up so maps read as land.
func terrainRules() (*wfc.RuleSet, error) {
	same := func(opts ...uint32) [grid.DirCount][]uint32 {
		return [grid.DirCount][]uint32{opts, opts, opts, opts}
	}
	return wfc.NewRuleSet([][grid.DirCount][]uint32{
		same(water, sand),
		same(water, sand, grass),
		same(sand, grass, forest),
		same(grass, forest),
	}, []float64{1, 1, 2, 1})
}

type Sandbox struct {
	screen        tcell.Screen
	width, height int

	rules *wfc.RuleSet
	m     *tilemap.Tilemap
	seed  int64

	// Path demo: route from map center to the cursor.
	cursorX, cursorY int
	path             *navigation.Path
	solveErr         error
}

func NewSandbox() (*Sandbox, error) {
	rules, err := terrainRules()
	if err != nil {
		return nil, err
	}
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}

	s := &Sandbox{
		screen: screen,
		rules:  rules,
		seed:   time.Now().UnixNano(),
	}
	s.width, s.height = screen.Size()
	s.cursorX = s.width / 2
	s.cursorY = s.height / 2
	s.regenerate()
	return s, nil
}

func (s *Sandbox) region() grid.Rect {
	w, h := s.width, s.height
	if w < 1 {
		w = 1
	}
	if h < 2 {
		h = 2
	}
	// Bottom row is the status line.
	return grid.NewRect(grid.Point{X: 0, Y: 0}, grid.Point{X: w - 1, Y: h - 2})
}

func (s *Sandbox) regenerate() {
	s.m = tilemap.New("sandbox", grid.Square, 0)
	cfg := wfc.DefaultConfig()
	cfg.Seed = s.seed

	s.solveErr = s.m.Collapse(context.Background(), s.rules, s.region(), cfg, "terrain")
	if s.solveErr != nil {
		s.path = nil
		return
	}

	// Land is walkable, forest costs double, water blocks.
	s.region().Each(func(p grid.Point) {
		t, _ := s.m.GetTile("terrain", p)
		switch uint32(t.Texture) {
		case sand, grass:
			s.m.Paths().SetCost(p, 1)
		case forest:
			s.m.Paths().SetCost(p, 2)
		}
	})
	s.replan()
}

func (s *Sandbox) replan() {
	if s.solveErr != nil {
		return
	}
	r := s.region()
	origin := grid.Point{X: (r.Min.X + r.Max.X) / 2, Y: (r.Min.Y + r.Max.Y) / 2}
	dest := s.cell(s.cursorX, s.cursorY)

	path, err := navigation.FindPath(s.m.Paths(), navigation.Options{
		Origin:   origin,
		Dest:     dest,
		Topology: grid.Square,
	})
	if err != nil {
		s.path = nil
		return
	}
	s.path = path
}

// cell maps screen coordinates to map coordinates (+Y up, so rows flip).
func (s *Sandbox) cell(x, y int) grid.Point {
	return grid.Point{X: x, Y: s.region().Max.Y - y}
}

func (s *Sandbox) draw() {
	s.screen.Clear()
	r := s.region()

	r.Each(func(p grid.Point) {
		x, y := p.X, r.Max.Y-p.Y
		if t, ok := s.m.GetTile("terrain", p); ok {
			s.screen.SetContent(x, y, ' ', nil, terrainStyles[t.Texture])
		}
	})

	if s.path != nil {
		for _, p := range s.path.Points() {
			t, _ := s.m.GetTile("terrain", p)
			style := terrainStyles[t.Texture].Foreground(tcell.ColorWhite)
			s.screen.SetContent(p.X, r.Max.Y-p.Y, '•', nil, style)
		}
	}

	cursorStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite).Reverse(true)
	s.screen.SetContent(s.cursorX, s.cursorY, '+', nil, cursorStyle)

	status := fmt.Sprintf(" seed %d | arrows move, r regenerate, q quit ", s.seed)
	if s.solveErr != nil {
		status = fmt.Sprintf(" solve failed: %v | r retries ", s.solveErr)
	} else if s.path == nil {
		status += "| no route "
	} else {
		status += fmt.Sprintf("| route %d steps ", s.path.Len()-1)
	}
	for i, ch := range status {
		if i >= s.width {
			break
		}
		s.screen.SetContent(i, s.height-1, ch, nil, tcell.StyleDefault.Reverse(true))
	}

	s.screen.Show()
}

func (s *Sandbox) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC:
			return false
		case ev.Key() == tcell.KeyRune && ev.Rune() == 'q':
			return false
		case ev.Key() == tcell.KeyRune && ev.Rune() == 'r':
			s.seed = time.Now().UnixNano()
			s.regenerate()
		case ev.Key() == tcell.KeyUp:
			s.moveCursor(0, -1)
		case ev.Key() == tcell.KeyDown:
			s.moveCursor(0, 1)
		case ev.Key() == tcell.KeyLeft:
			s.moveCursor(-1, 0)
		case ev.Key() == tcell.KeyRight:
			s.moveCursor(1, 0)
		}

	case *tcell.EventResize:
		s.width, s.height = s.screen.Size()
		if s.cursorX >= s.width {
			s.cursorX = s.width - 1
		}
		if s.cursorY >= s.height-1 {
			s.cursorY = s.height - 2
		}
		s.regenerate()
	}
	return true
}

func (s *Sandbox) moveCursor(dx, dy int) {
	x, y := s.cursorX+dx, s.cursorY+dy
	if x < 0 || x >= s.width || y < 0 || y >= s.height-1 {
		return
	}
	s.cursorX, s.cursorY = x, y
	s.replan()
}

func (s *Sandbox) run() {
	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			eventChan <- s.screen.PollEvent()
		}
	}()

	ticker := time.NewTicker(33 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case ev := <-eventChan:
			if !s.handleInput(ev) {
				return
			}
		case <-ticker.C:
			s.draw()
		}
	}
}

func main() {
	s, err := NewSandbox()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer s.screen.Fini()

	s.run()
}
