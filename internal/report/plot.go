package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/roach88/clapeyron/internal/analysis"
)

// ErrNothingToPlot is returned when no result has a fitted regression.
var ErrNothingToPlot = errors.New("no fitted results to plot")

// PlotOptions controls the rendered figure.
type PlotOptions struct {
	Width  vg.Length
	Height vg.Length
	DPI    int
}

// DefaultPlotOptions is a 16:9 figure at print resolution.
func DefaultPlotOptions() PlotOptions {
	return PlotOptions{Width: 12 * vg.Inch, Height: 6.75 * vg.Inch, DPI: 300}
}

// Plot builds the ln(P) vs 1/T figure: measured points as a scatter and the
// fitted trendline dashed, one colour per compound. Failed results are skipped.
func Plot(results []analysis.Result) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Clausius-Clapeyron Analysis: ln(P) vs 1/T"
	p.X.Label.Text = "1/T (K⁻¹)"
	p.Y.Label.Text = "ln(P/Pa)"
	p.Add(plotter.NewGrid())
	p.Legend.Top = true

	plotted := 0
	for _, r := range results {
		if r.Regression == nil || len(r.Points) == 0 {
			continue
		}
		color := plotutil.Color(plotted)

		pts := make(plotter.XYs, len(r.Points))
		for i, lp := range r.Points {
			pts[i].X, pts[i].Y = lp.X, lp.Y
		}
		sort.Slice(pts, func(i, j int) bool { return pts[i].X < pts[j].X })

		scatter, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, fmt.Errorf("%s: scatter: %w", r.Compound, err)
		}
		scatter.GlyphStyle.Color = color
		scatter.GlyphStyle.Shape = plotutil.Shape(plotted)
		scatter.GlyphStyle.Radius = vg.Points(3)

		reg := *r.Regression
		trend := plotter.XYs{
			{X: pts[0].X, Y: reg.Predict(pts[0].X)},
			{X: pts[len(pts)-1].X, Y: reg.Predict(pts[len(pts)-1].X)},
		}
		line, err := plotter.NewLine(trend)
		if err != nil {
			return nil, fmt.Errorf("%s: trendline: %w", r.Compound, err)
		}
		line.LineStyle.Color = color
		line.LineStyle.Width = vg.Points(1.5)
		line.LineStyle.Dashes = []vg.Length{vg.Points(6), vg.Points(3)}

		p.Add(scatter, line)
		p.Legend.Add(DisplayName(r), scatter)
		p.Legend.Add(trendLabel(r), line)
		plotted++
	}
	if plotted == 0 {
		return nil, ErrNothingToPlot
	}
	return p, nil
}

func trendLabel(r analysis.Result) string {
	label := fmt.Sprintf("%s (R² = %.4f)", Equation(*r.Regression), r.Regression.RSquared)
	if r.Estimate != nil && r.Reference != nil {
		label += fmt.Sprintf(", ΔH %.1f vs %.1f kJ/mol",
			r.Estimate.Enthalpy/1000, r.Reference.Enthalpy/1000)
	}
	return label
}

// WritePNG renders the figure for results as a PNG.
func WritePNG(w io.Writer, results []analysis.Result, opts PlotOptions) error {
	p, err := Plot(results)
	if err != nil {
		return err
	}
	return encodePNG(w, p, opts)
}

// SavePNG writes the figure to path. No file is created when there is
// nothing to plot.
func SavePNG(path string, results []analysis.Result, opts PlotOptions) (err error) {
	p, err := Plot(results)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return encodePNG(f, p, opts)
}

func encodePNG(w io.Writer, p *plot.Plot, opts PlotOptions) error {
	if opts.Width <= 0 || opts.Height <= 0 || opts.DPI <= 0 {
		opts = DefaultPlotOptions()
	}
	c := vgimg.NewWith(vgimg.UseWH(opts.Width, opts.Height), vgimg.UseDPI(opts.DPI))
	p.Draw(draw.New(c))
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
