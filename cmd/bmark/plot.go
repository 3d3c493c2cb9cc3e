package main

import (
	"fmt"
	"image/color"
	"slices"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// plotLatencies draws one group of bars per structure/config, with one bar
// per workload phase. Footprint rows carry the load cost, not a workload
// latency, and are left out.
func plotLatencies(results []BenchResult, path string) error {
	var (
		labels []string
		ops    []string
	)
	byOp := map[string]map[string]float64{}
	for _, r := range results {
		if r.Operation == "Footprint_SteadyState" {
			continue
		}
		label := fmt.Sprintf("%s/%s", r.Name, r.Config)
		if !slices.Contains(labels, label) {
			labels = append(labels, label)
		}
		if byOp[r.Operation] == nil {
			byOp[r.Operation] = map[string]float64{}
			ops = append(ops, r.Operation)
		}
		byOp[r.Operation][label] = float64(r.LatencyNs)
	}
	if len(labels) == 0 {
		return errors.New("no workload results to plot")
	}

	p := plot.New()
	p.Title.Text = "Per-operation latency"
	p.Y.Label.Text = "ns/op"
	p.Legend.Top = true

	w := vg.Points(60 / float64(len(ops)))
	for i, op := range ops {
		vals := make(plotter.Values, len(labels))
		for j, l := range labels {
			vals[j] = byOp[op][l]
		}
		bars, err := plotter.NewBarChart(vals, w)
		if err != nil {
			return errors.Wrapf(err, "bars for %s", op)
		}
		bars.LineStyle.Width = vg.Length(0)
		bars.Color = plotutil.Color(i)
		bars.Offset = w * vg.Length(float64(i)-float64(len(ops)-1)/2)
		p.Add(bars)
		p.Legend.Add(op, bars)
	}
	p.Add(plotter.NewGrid())
	p.BackgroundColor = color.White
	p.NominalX(labels...)

	width := vg.Length(len(labels)) * 1.5 * vg.Inch
	if width < 6*vg.Inch {
		width = 6 * vg.Inch
	}
	return p.Save(width, 4*vg.Inch, path)
}
