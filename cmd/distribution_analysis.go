//go:build analysis
// +build analysis

package main

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	signer "github.com/shafriraxu/crypto/Signer"
	Parameters "github.com/shafriraxu/crypto/System"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/tuneinsight/lattigo/v4/ring"
)

// saveCoeffSignature reads the last signature and stores its centered coefficients in dstDir.
func saveCoeffSignature(dstDir string) error {
	params, err := signer.LoadParams("Parameters/Parameters.json")
	if err != nil {
		return err
	}
	ringQ, err := ring.NewRing(params.N, []uint64{params.Q})
	if err != nil {
		return err
	}
	raw, err := os.ReadFile("Signature/Signature.json")
	if err != nil {
		return err
	}
	var sig struct {
		Signature [][]uint64 `json:"signature"`
	}
	if err := json.Unmarshal(raw, &sig); err != nil {
		return err
	}
	halfQ := params.Q / 2
	coeffSigs := make([][]int64, len(sig.Signature))
	for i, row := range sig.Signature {
		p := ringQ.NewPoly()
		copy(p.Coeffs[0], row)
		ringQ.InvNTT(p, p)
		coeffRow := make([]int64, params.N)
		for j, cu := range p.Coeffs[0] {
			if cu > halfQ {
				coeffRow[j] = int64(cu) - int64(params.Q)
			} else {
				coeffRow[j] = int64(cu)
			}
		}
		coeffSigs[i] = coeffRow
	}
	out := struct {
		Timestamp string    `json:"timestamp"`
		Coeffs    [][]int64 `json:"coeffs"`
	}{
		Timestamp: time.Now().Format("20060102_150405"),
		Coeffs:    coeffSigs,
	}
	if err := os.MkdirAll(dstDir, 0755); err != nil {
		return err
	}
	fname := filepath.Join(dstDir, fmt.Sprintf("coeffsig_%s.json", out.Timestamp))
	f, err := os.Create(fname)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return err
	}
	log.Printf("saved coefficient signature to %s", fname)
	return nil
}

// collectCoeffs reads all signature files in dir and returns flattened coefficients.
func collectCoeffs(dir string) ([]float64, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var values []float64
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		var sig struct {
			Coeffs [][]int64 `json:"coeffs"`
		}
		if err := json.Unmarshal(data, &sig); err != nil {
			continue
		}
		for _, row := range sig.Coeffs {
			for _, c := range row {
				values = append(values, float64(c))
			}
		}
	}
	return values, nil
}

func computeStats(values []float64) (mean, std float64) {
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	for _, v := range values {
		std += (v - mean) * (v - mean)
	}
	std = math.Sqrt(std / float64(len(values)))
	return mean, std
}

// freedmanDiaconisBins picks a bin count from the interquartile range.
func freedmanDiaconisBins(values []float64) int {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	n := len(sorted)
	iqr := sorted[(3*n)/4] - sorted[n/4]
	if iqr == 0 {
		return 50
	}
	width := 2 * iqr / math.Cbrt(float64(n))
	bins := int(math.Ceil((sorted[n-1] - sorted[0]) / width))
	if bins < 1 {
		bins = 1
	}
	if bins > 400 {
		bins = 400
	}
	return bins
}

func computeHistogram(values []float64, bins int) (labels []string, counts []int) {
	lo, hi := values[0], values[0]
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	width := (hi - lo) / float64(bins)
	if width == 0 {
		width = 1
	}
	counts = make([]int, bins)
	for _, v := range values {
		idx := int((v - lo) / width)
		if idx >= bins {
			idx = bins - 1
		}
		counts[idx]++
	}
	labels = make([]string, bins)
	for i := range labels {
		labels[i] = fmt.Sprintf("%.0f", lo+(float64(i)+0.5)*width)
	}
	return labels, counts
}

func toBarItems(counts []int) []opts.BarData {
	items := make([]opts.BarData, len(counts))
	for i, c := range counts {
		items[i] = opts.BarData{Value: c}
	}
	return items
}

func newHistogramChart(title string, values []float64) *charts.Bar {
	mean, std := computeStats(values)
	labels, counts := computeHistogram(values, freedmanDiaconisBins(values))

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: fmt.Sprintf("n=%d  mean=%.3f  std=%.3f", len(values), mean, std),
		}),
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "1200px", Height: "600px"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "inside"}, opts.DataZoom{Type: "slider"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(labels).AddSeries("count", toBarItems(counts))
	return bar
}

func main() {
	const runs = 10

	Parameters.Generate()
	for i := 0; i < runs; i++ {
		log.Printf("Run %d/%d", i+1, runs)
		signer.Sign(fmt.Sprintf("analysis run %d", i))
		if err := saveCoeffSignature("Read_signatures"); err != nil {
			log.Fatalf("saveCoeffSignature: %v", err)
		}
	}
	values, err := collectCoeffs("Read_signatures")
	if err != nil {
		log.Fatalf("collectCoeffs: %v", err)
	}
	if len(values) == 0 {
		log.Fatal("no coefficients collected")
	}

	page := components.NewPage()
	page.AddCharts(newHistogramChart("Preimage coefficient distribution", values))

	out := filepath.Join("Read_signatures", "coefficient_distribution.html")
	f, err := os.Create(out)
	if err != nil {
		log.Fatalf("create report: %v", err)
	}
	defer f.Close()
	if err := page.Render(f); err != nil {
		log.Fatalf("render report: %v", err)
	}
	fmt.Println("Histogram saved to", out)
}
