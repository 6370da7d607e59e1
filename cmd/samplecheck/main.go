// Sample check tool - draws positions from the scene sampler and tests them
// against the distributions they are meant to follow.
//
// Usage: go run ./cmd/samplecheck -n 20000 -csv samples.csv
//
// Each check maps a sample to a statistic that is uniform on [0, 1] when the
// sampler is correct and runs a two-sample Kolmogorov-Smirnov test against an
// exact uniform grid. The exit status is 1 if any check fails.
package main

import (
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"sort"

	"github.com/gocarina/gocsv"
	"github.com/go-gl/mathgl/mgl32"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/evergreen/config"
	"github.com/pthm-cable/evergreen/systems"
)

// ksCritical is c(alpha) for alpha = 0.01.
const ksCritical = 1.628

// sampleRow is one sampled position in the CSV dump.
type sampleRow struct {
	Field string  `csv:"field"`
	Index int     `csv:"index"`
	X     float32 `csv:"x"`
	Y     float32 `csv:"y"`
	Z     float32 `csv:"z"`
}

type check struct {
	name   string
	values []float64
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	n := flag.Int("n", 20000, "Samples per field")
	seed := flag.Int64("seed", 1, "RNG seed")
	csvPath := flag.String("csv", "", "Write sampled positions to this CSV file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	s := systems.NewSampler(cfg, rand.New(rand.NewSource(*seed)))
	height := float64(cfg.Derived.TreeHeight32)
	radius := float64(cfg.Derived.TreeRadius32)
	overflow := cfg.Foliage.RadiusOverflow
	scatter := float64(cfg.Derived.ScatterRadius32)

	heights := check{name: "foliage height"}
	radial := check{name: "foliage radial area"}
	volume := check{name: "scatter volume"}
	var rows []sampleRow

	for i := 0; i < *n; i++ {
		p := s.FoliageTreePosition(i)
		h := (float64(p.Y()) + height/2) / height
		heights.values = append(heights.values, h)
		if maxR := (1 - h) * radius * overflow; maxR > 1e-6 {
			r := math.Hypot(float64(p.X()), float64(p.Z()))
			radial.values = append(radial.values, (r/maxR)*(r/maxR))
		}

		q := s.ScatterPosition()
		volume.values = append(volume.values, math.Pow(float64(q.Len())/scatter, 3))

		if *csvPath != "" {
			rows = append(rows, row("foliage", i, p), row("scatter", i, q))
		}
	}

	failed := false
	for _, c := range []check{heights, radial, volume} {
		d, limit := ksUniform(c.values)
		status := "ok"
		if d > limit {
			status = "FAIL"
			failed = true
		}
		fmt.Printf("%-22s n=%-6d D=%.4f limit=%.4f %s\n", c.name, len(c.values), d, limit, status)
	}

	if *csvPath != "" {
		if err := writeCSV(*csvPath, rows); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", *csvPath, err)
			os.Exit(1)
		}
		fmt.Printf("Samples written to: %s\n", *csvPath)
	}

	if failed {
		os.Exit(1)
	}
}

func row(field string, i int, p mgl32.Vec3) sampleRow {
	return sampleRow{Field: field, Index: i, X: p.X(), Y: p.Y(), Z: p.Z()}
}

// ksUniform returns the KS distance between values and U(0, 1) and the
// rejection threshold for the sample sizes involved.
func ksUniform(values []float64) (d, limit float64) {
	n := len(values)
	if n == 0 {
		return 0, 0
	}
	x := make([]float64, n)
	copy(x, values)
	sort.Float64s(x)

	m := 4 * n
	grid := make([]float64, m)
	for i := range grid {
		grid[i] = (float64(i) + 0.5) / float64(m)
	}

	d = stat.KolmogorovSmirnov(x, nil, grid, nil)
	limit = ksCritical * math.Sqrt(float64(n+m)/float64(n*m))
	return d, limit
}

func writeCSV(path string, rows []sampleRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := gocsv.MarshalFile(&rows, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
