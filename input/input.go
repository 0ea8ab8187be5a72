// Package input JSON 输入文件解析
//
// 输入文件由 mesh、kernel、material、bcs、nlsolver、timestepping、output 等块组成，
// 缺省的字段使用默认值。
package input

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/gjson"

	"asfem/nlsolver"
)

var ErrInvalidInput = errors.New("input: invalid input file")

// MeshBlock 网格块
type MeshBlock struct {
	Nx         int
	XMin, XMax float64
	Order      int
}

// Block 带参数的命名块（kernel、material）
type Block struct {
	Type   string
	Params []float64
}

// BCBlock 边界条件块，Boundary 为 left/right 或直接给出 DofID
type BCBlock struct {
	Type     string
	Boundary string
	DofID    int
	Params   []float64
}

// TimeBlock 时间步进块，Dt 为 0 时为稳态求解
type TimeBlock struct {
	Dt       float64
	EndTime  float64
	DtMin    float64
	DtMax    float64
	Adaptive bool
}

// OutputBlock 输出块
type OutputBlock struct {
	Type     string
	Interval int
	Dir      string
}

// ICBlock 初始条件：常数值加可选的随机扰动幅度
type ICBlock struct {
	Value  float64
	Random float64
	Seed   int64
}

// Input 完整输入
type Input struct {
	Mesh     MeshBlock
	Kernel   Block
	Material *Block // 可缺省
	BCs      []BCBlock
	IC       ICBlock
	QPoints  int
	NLSolver nlsolver.Config
	Time     TimeBlock
	Output   OutputBlock
}

// Load 读取并解析输入文件
func Load(path string) (*Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	in, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return in, nil
}

// Parse 解析 JSON 输入
func Parse(data []byte) (*Input, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: malformed JSON", ErrInvalidInput)
	}
	root := gjson.ParseBytes(data)
	in := &Input{}

	mesh := root.Get("mesh")
	if !mesh.Exists() {
		return nil, fmt.Errorf("%w: missing mesh block", ErrInvalidInput)
	}
	in.Mesh = MeshBlock{
		Nx:    int(intOr(mesh, "nx", 10)),
		XMin:  floatOr(mesh, "xmin", 0),
		XMax:  floatOr(mesh, "xmax", 1),
		Order: int(intOr(mesh, "order", 1)),
	}

	kernel := root.Get("kernel")
	if !kernel.Get("type").Exists() {
		return nil, fmt.Errorf("%w: missing kernel type", ErrInvalidInput)
	}
	in.Kernel = parseBlock(kernel)
	if mate := root.Get("material"); mate.Exists() {
		b := parseBlock(mate)
		in.Material = &b
	}

	for i, b := range root.Get("bcs").Array() {
		blk := BCBlock{
			Type:     strings.ToLower(b.Get("type").String()),
			Boundary: strings.ToLower(b.Get("boundary").String()),
			DofID:    int(b.Get("dof").Int()),
			Params:   floats(b.Get("params")),
		}
		if blk.Type == "" {
			return nil, fmt.Errorf("%w: bcs[%d] missing type", ErrInvalidInput, i)
		}
		if blk.Boundary == "" && blk.DofID == 0 {
			return nil, fmt.Errorf("%w: bcs[%d] needs boundary or dof", ErrInvalidInput, i)
		}
		in.BCs = append(in.BCs, blk)
	}

	ic := root.Get("ics")
	in.IC = ICBlock{
		Value:  floatOr(ic, "value", 0),
		Random: floatOr(ic, "random", 0),
		Seed:   intOr(ic, "seed", 1),
	}
	in.QPoints = int(intOr(root, "qpoints", int64(in.Mesh.Order+1)))

	cfg, err := parseSolver(root.Get("nlsolver"))
	if err != nil {
		return nil, err
	}
	in.NLSolver = cfg

	ts := root.Get("timestepping")
	in.Time = TimeBlock{
		Dt:       floatOr(ts, "dt", 0),
		EndTime:  floatOr(ts, "endtime", 0),
		Adaptive: ts.Get("adaptive").Bool(),
	}
	in.Time.DtMin = floatOr(ts, "dtmin", in.Time.Dt*1e-3)
	in.Time.DtMax = floatOr(ts, "dtmax", in.Time.Dt*1e3)
	if in.Time.Dt < 0 || (in.Time.Dt > 0 && in.Time.EndTime <= 0) {
		return nil, fmt.Errorf("%w: timestepping needs dt >= 0 and a positive endtime", ErrInvalidInput)
	}

	out := root.Get("output")
	in.Output = OutputBlock{
		Type:     strings.ToLower(stringOr(out, "type", "csv")),
		Interval: int(intOr(out, "interval", 1)),
		Dir:      stringOr(out, "dir", "output"),
	}
	if in.Output.Interval < 1 {
		return nil, fmt.Errorf("%w: output interval %d", ErrInvalidInput, in.Output.Interval)
	}
	return in, nil
}

// parseSolver 解析 nlsolver 块，缺省字段保留默认配置
func parseSolver(blk gjson.Result) (nlsolver.Config, error) {
	cfg := nlsolver.DefaultConfig()
	if !blk.Exists() {
		return cfg, nil
	}
	if v := blk.Get("type"); v.Exists() {
		t, err := nlsolver.ParseSolverType(v.String())
		if err != nil {
			return cfg, err
		}
		cfg.SolverType = t
	}
	if v := blk.Get("linesearch"); v.Exists() {
		t, err := nlsolver.ParseLineSearchType(v.String())
		if err != nil {
			return cfg, err
		}
		cfg.LineSearchType = t
	}
	cfg.MaxIters = int(intOr(blk, "maxiters", int64(cfg.MaxIters)))
	cfg.AbsTol = floatOr(blk, "abs-tolerance", cfg.AbsTol)
	cfg.RelTol = floatOr(blk, "rel-tolerance", cfg.RelTol)
	cfg.STol = floatOr(blk, "s-tolerance", cfg.STol)
	cfg.LineSearchOrder = int(intOr(blk, "linesearchorder", int64(cfg.LineSearchOrder)))
	return cfg, nil
}

func parseBlock(r gjson.Result) Block {
	return Block{Type: strings.ToLower(r.Get("type").String()), Params: floats(r.Get("params"))}
}

func floats(r gjson.Result) []float64 {
	arr := r.Array()
	if len(arr) == 0 {
		return nil
	}
	out := make([]float64, len(arr))
	for i, v := range arr {
		out[i] = v.Float()
	}
	return out
}

func floatOr(r gjson.Result, path string, def float64) float64 {
	if v := r.Get(path); v.Exists() {
		return v.Float()
	}
	return def
}

func intOr(r gjson.Result, path string, def int64) int64 {
	if v := r.Get(path); v.Exists() {
		return v.Int()
	}
	return def
}

func stringOr(r gjson.Result, path, def string) string {
	if v := r.Get(path); v.Exists() {
		return v.String()
	}
	return def
}
