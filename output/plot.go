package output

import (
	"fmt"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// 图片尺寸
const (
	plotWidth  = 6 * vg.Inch
	plotHeight = 4 * vg.Inch
)

// newFieldPlot 绘制节点解 u(x)
func newFieldPlot(title string, x, u []float64) (*plot.Plot, error) {
	if len(x) != len(u) {
		return nil, fmt.Errorf("output: %d coordinates for %d values", len(x), len(u))
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x"
	p.Y.Label.Text = "u"

	pts := make(plotter.XYs, len(x))
	for i := range pts {
		pts[i].X, pts[i].Y = x[i], u[i]
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, err
	}
	p.Add(plotter.NewGrid(), line)
	return p, nil
}

// WriteFieldPlot 以 format（svg、png）格式写出 u(x) 曲线
func WriteFieldPlot(w io.Writer, format, title string, x, u []float64) error {
	p, err := newFieldPlot(title, x, u)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(plotWidth, plotHeight, format)
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}
