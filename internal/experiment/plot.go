package experiment

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"slices"

	"github.com/YuminosukeSato/statlearn/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// writePlots renders every figure of a run into cfg.Plots.Dir and returns
// the written paths.
func (r *Runner) writePlots(cls *classificationResult, rep *Report) ([]string, error) {
	dir := r.cfg.Plots.Dir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "experiment: create %s", dir)
	}

	var paths []string
	save := func(p *plot.Plot, name string) error {
		path := filepath.Join(dir, fmt.Sprintf("%s-%s.png", r.runID.String()[:8], name))
		w := vg.Length(r.cfg.Plots.WidthInches) * vg.Inch
		h := vg.Length(r.cfg.Plots.HeightInches) * vg.Inch
		if err := p.Save(w, h, path); err != nil {
			return errors.Wrapf(err, "experiment: save %s", path)
		}
		paths = append(paths, path)
		return nil
	}

	if cls.grid != nil {
		for _, c := range []struct {
			name   string
			labels *mat.VecDense
		}{
			{"lda", cls.ldaLabel},
			{"qda", cls.qdaLabel},
		} {
			p, err := decisionPlot(c.name, cls, c.labels)
			if err != nil {
				return nil, err
			}
			if err := save(p, c.name+"-regions"); err != nil {
				return nil, err
			}
		}
	}

	ridge, err := linePlot("Ridge regression", "λ", "MSE", []series{
		{"closed form train", rep.Ridge.Lambdas, rep.Ridge.TrainMSE},
		{"closed form test", rep.Ridge.Lambdas, rep.Ridge.TestMSE},
		{"CG train", rep.RidgeCG.Lambdas, rep.RidgeCG.TrainMSE},
		{"CG test", rep.RidgeCG.Lambdas, rep.RidgeCG.TestMSE},
	})
	if err != nil {
		return nil, err
	}
	if err := save(ridge, "ridge-mse"); err != nil {
		return nil, err
	}

	degrees := make([]float64, len(rep.Polynomial.Degrees))
	for i, p := range rep.Polynomial.Degrees {
		degrees[i] = float64(p)
	}
	ridgeLabel := fmt.Sprintf("λ=%g", rep.Polynomial.LambdaOpt)
	poly, err := linePlot("Polynomial degree", "degree", "MSE", []series{
		{"λ=0 train", degrees, rep.Polynomial.TrainMSE},
		{"λ=0 test", degrees, rep.Polynomial.TestMSE},
		{ridgeLabel + " train", degrees, rep.Polynomial.TrainMSERidge},
		{ridgeLabel + " test", degrees, rep.Polynomial.TestMSERidge},
	})
	if err != nil {
		return nil, err
	}
	if err := save(poly, "degree-mse"); err != nil {
		return nil, err
	}

	r.logger.Info("plots written", "plots.count", len(paths), "plots.dir", dir)
	return paths, nil
}

type series struct {
	name string
	x, y []float64
}

func linePlot(title, xLabel, yLabel string, ss []series) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel

	args := make([]interface{}, 0, 2*len(ss))
	for _, s := range ss {
		xys := make(plotter.XYs, len(s.x))
		for i := range s.x {
			xys[i].X, xys[i].Y = s.x[i], s.y[i]
		}
		args = append(args, s.name, xys)
	}
	if err := plotutil.AddLinePoints(p, args...); err != nil {
		return nil, errors.Wrapf(err, "experiment: plot %q", title)
	}
	return p, nil
}

// decisionPlot colours every grid point by its predicted class and overlays
// the test set in the full class colour.
func decisionPlot(name string, cls *classificationResult, labels *mat.VecDense) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s decision regions", name)
	p.X.Label.Text = "x₁"
	p.Y.Label.Text = "x₂"

	classIndex := func(label float64) int {
		i, _ := slices.BinarySearch(cls.classes, label)
		return i
	}

	n, _ := cls.grid.Dims()
	gridXYs := make(plotter.XYs, n)
	for i := range gridXYs {
		gridXYs[i].X, gridXYs[i].Y = cls.grid.At(i, 0), cls.grid.At(i, 1)
	}
	regions, err := plotter.NewScatter(gridXYs)
	if err != nil {
		return nil, errors.Wrap(err, "experiment: region scatter")
	}
	regions.GlyphStyleFunc = func(i int) draw.GlyphStyle {
		return draw.GlyphStyle{
			Color:  faded(plotutil.Color(classIndex(labels.AtVec(i)))),
			Radius: vg.Points(2),
			Shape:  draw.BoxGlyph{},
		}
	}
	p.Add(regions)

	m, _ := cls.test.Dims()
	testXYs := make(plotter.XYs, m)
	for i := range testXYs {
		testXYs[i].X, testXYs[i].Y = cls.test.X.At(i, 0), cls.test.X.At(i, 1)
	}
	points, err := plotter.NewScatter(testXYs)
	if err != nil {
		return nil, errors.Wrap(err, "experiment: test scatter")
	}
	points.GlyphStyleFunc = func(i int) draw.GlyphStyle {
		return draw.GlyphStyle{
			Color:  plotutil.Color(classIndex(cls.test.Y.At(i, 0))),
			Radius: vg.Points(3),
			Shape:  draw.CircleGlyph{},
		}
	}
	p.Add(points)
	return p, nil
}

func faded(c color.Color) color.Color {
	r, g, b, _ := c.RGBA()
	return color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 70}
}
