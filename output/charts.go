package output

import (
	"fmt"
	"io"
	"log"
	"math"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"asfem/nlsolver"
)

// maxSnapshots 解曲线图中最多显示的时间步
const maxSnapshots = 12

// Charts 结果曲线
type Charts struct {
	Record
	History *nlsolver.History // 可为 nil
}

func legend() charts.GlobalOpts {
	return charts.WithLegendOpts(opts.Legend{
		Type:   "scroll",
		Orient: "vertical",
		Right:  "10",
		Top:    "20",
		Bottom: "20",
	})
}

func theme() charts.GlobalOpts {
	return charts.WithInitializationOpts(opts.Initialization{
		Theme: types.ThemeWesteros,
	})
}

// FieldChart 节点解随坐标的分布，均匀抽取若干时间步
func (c *Charts) FieldChart() *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		theme(),
		charts.WithTitleOpts(opts.Title{
			Title:    "解曲线",
			Subtitle: "节点解随坐标分布",
		}),
		legend(),
		charts.WithXAxisOpts(opts.XAxis{Name: "x"}),
		charts.WithYAxisOpts(opts.YAxis{Scale: opts.Bool(true)}),
		charts.WithAnimation(false),
	)
	labels := make([]string, len(c.X))
	for i, x := range c.X {
		labels[i] = fmt.Sprintf("%.4g", x)
	}
	line.SetXAxis(labels)

	n := c.Len()
	stride := max(1, (n+maxSnapshots-1)/maxSnapshots)
	for k := 0; k < n; k += stride {
		line.AddSeries(fmt.Sprintf("t=%.4g", c.Time[k]), lineData(c.Fields[k]))
	}
	if n > 0 && (n-1)%stride != 0 {
		line.AddSeries(fmt.Sprintf("t=%.4g", c.Time[n-1]), lineData(c.Fields[n-1]))
	}
	return line
}

// IntegralChart 体积分随时间变化
func (c *Charts) IntegralChart() *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		theme(),
		charts.WithTitleOpts(opts.Title{
			Title:    "体积分",
			Subtitle: "场变量体积分随时间变化曲线",
		}),
		legend(),
		charts.WithXAxisOpts(opts.XAxis{SplitNumber: 20}),
		charts.WithYAxisOpts(opts.YAxis{Scale: opts.Bool(true)}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:       "inside",
			Start:      0,
			End:        100,
			XAxisIndex: []int{0},
		}),
	)
	line.SetXAxis(c.Time)
	line.AddSeries("integral", lineData(c.Integrals))
	return line
}

// ConvergenceChart 每次非线性求解的残差范数（以10为底的对数）
func ConvergenceChart(h *nlsolver.History) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		theme(),
		charts.WithTitleOpts(opts.Title{
			Title:    "收敛历史",
			Subtitle: "log10 ||F|| 随迭代变化",
		}),
		legend(),
		charts.WithXAxisOpts(opts.XAxis{Name: "iteration"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "log10 ||F||", Scale: opts.Bool(true)}),
	)
	longest := 0
	for _, s := range h.Solves {
		longest = max(longest, len(s.FNorm))
	}
	iters := make([]int, longest)
	for i := range iters {
		iters[i] = i
	}
	line.SetXAxis(iters)
	for k, s := range h.Solves {
		data := make([]opts.LineData, len(s.FNorm))
		for i, f := range s.FNorm {
			data[i] = opts.LineData{Value: math.Log10(math.Max(f, math.SmallestNonzeroFloat64))}
		}
		line.AddSeries(fmt.Sprintf("solve %d (%s)", k+1, s.Reason), data)
	}
	return line
}

func lineData(vals []float64) []opts.LineData {
	data := make([]opts.LineData, len(vals))
	for i, v := range vals {
		data[i] = opts.LineData{Value: v}
	}
	return data
}

// Render 输出 HTML 页面
func (c *Charts) Render(w io.Writer) error {
	page := components.NewPage()
	page.PageTitle = "asfem"
	page.AddCharts(c.FieldChart(), c.IntegralChart())
	if c.History != nil && len(c.History.Solves) > 0 {
		page.AddCharts(ConvergenceChart(c.History))
	}
	return page.Render(w)
}

// Handler 发布到网页面
func (c *Charts) Handler(w http.ResponseWriter, _ *http.Request) {
	if err := c.Render(w); err != nil {
		c.Error(err)
	}
}

func (c *Charts) Error(err error) { log.Println(err) }
