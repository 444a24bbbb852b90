package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/lodeb/tilewave/grid"
	"github.com/lodeb/tilewave/wfc"
)

// Glyph ramp indexed by option, wraps for large tile sets.
var glyphs = []rune(" .:-=+*#%@")

func main() {
	// Batch mode: a YAML config as the first argument skips the prompts.
	if len(os.Args) > 1 {
		cfg, err := loadGenConfig(os.Args[1])
		if err != nil {
			log.Fatalf("mapgen: %v", err)
		}
		if err := generate(cfg); err != nil {
			log.Fatalf("mapgen: %v", err)
		}
		return
	}

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Println("\n=== WAVE FUNCTION COLLAPSE MAP GENERATOR ===")

		cfg := defaultGenConfig()
		cfg.Rules = getString(reader, "Rule file (default rules.yaml): ", cfg.Rules)
		cfg.Width = getInt(reader, "Width (default 48): ", cfg.Width)
		cfg.Height = getInt(reader, "Height (default 24): ", cfg.Height)
		cfg.Seed = int64(getInt(reader, "Seed [0 = random] (default 0): ", 0))
		cfg.RetraceStrength = uint32(getInt(reader, "Retrace strength (default 1): ", 1))

		if err := generate(cfg); err != nil {
			fmt.Printf("Generation failed: %v\n", err)
		}
		if !again(reader) {
			break
		}
	}
}

func generate(cfg genConfig) error {
	rules, err := wfc.LoadRuleSet(cfg.Rules)
	if err != nil {
		return err
	}

	solve := wfc.DefaultConfig()
	solve.Seed = cfg.Seed
	solve.RetraceStrength = cfg.RetraceStrength
	if cfg.MaxRetraceCount > 0 {
		solve.MaxRetraceCount = cfg.MaxRetraceCount
	}
	if cfg.MaxHistory > 0 {
		solve.MaxHistory = cfg.MaxHistory
	}

	region := grid.NewRect(grid.Point{X: 0, Y: 0}, grid.Point{X: cfg.Width - 1, Y: cfg.Height - 1})
	c := wfc.NewCollapser(rules, region, solve)

	fmt.Println("\nSolving...")
	startT := time.Now()
	res, err := c.Solve(context.Background())
	dur := time.Since(startT)

	if err != nil {
		return fmt.Errorf("after %v (%d retraces): %w", dur, c.Retraces(), err)
	}
	fmt.Printf("Done in %v (%d retraces, %d propagation ops)\n", dur, c.Retraces(), c.PropagationOps())
	draw(res)
	return nil
}

func draw(res *wfc.Result) {
	r := res.Region()
	// Top row last: +Y is up.
	for y := r.Max.Y; y >= r.Min.Y; y-- {
		var sb strings.Builder
		for x := r.Min.X; x <= r.Max.X; x++ {
			o := res.At(grid.Point{X: x, Y: y})
			sb.WriteRune(glyphs[int(o)%len(glyphs)])
		}
		fmt.Println(sb.String())
	}
}

func again(r *bufio.Reader) bool {
	fmt.Print("\nGenerate another? [Y/n]: ")
	s, _ := r.ReadString('\n')
	return strings.ToLower(strings.TrimSpace(s)) != "n"
}

// --- Input Helpers ---

func getString(r *bufio.Reader, prompt, def string) string {
	fmt.Print(prompt)
	s, _ := r.ReadString('\n')
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	return s
}

func getInt(r *bufio.Reader, prompt string, def int) int {
	fmt.Print(prompt)
	s, _ := r.ReadString('\n')
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
