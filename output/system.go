// Package output 结果输出：CSV、SVG/PNG 曲线与 HTML 图表
package output

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"asfem/input"
	"asfem/maths"
	"asfem/nlsolver"
)

// Type 输出格式
type Type int

const (
	CSV Type = iota
	SVG
	PNG
	HTML
)

var typeNames = map[Type]string{CSV: "csv", SVG: "svg", PNG: "png", HTML: "html"}

func (t Type) String() string {
	if n, ok := typeNames[t]; ok {
		return n
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

var ErrUnknownType = errors.New("output: unknown output type")

// ParseType 解析输出格式名称
func ParseType(name string) (Type, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for t, n := range typeNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownType, name)
}

// System 输出系统，每 Interval 步写出一次
type System struct {
	Interval int
	Type     Type
	Dir      string

	charts Charts
}

// NewSystem 默认每步输出 CSV 到当前目录
func NewSystem() *System {
	return &System{Interval: 1, Type: CSV, Dir: "."}
}

// InitFromBlock 使用输入文件的 output 块
func (s *System) InitFromBlock(b input.OutputBlock) error {
	t, err := ParseType(b.Type)
	if err != nil {
		return err
	}
	if b.Interval < 1 {
		return fmt.Errorf("output: interval %d", b.Interval)
	}
	s.Type, s.Interval, s.Dir = t, b.Interval, b.Dir
	return nil
}

// Init 创建输出目录并设置节点坐标
func (s *System) Init(x []float64, history *nlsolver.History) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return err
	}
	s.charts.Init(x)
	s.charts.History = history
	return nil
}

// ShouldWrite 第 step 步是否输出
func (s *System) ShouldWrite(step int) bool { return step%s.Interval == 0 }

// Path 第 step 步的文件路径
func (s *System) Path(step int) string {
	return filepath.Join(s.Dir, fmt.Sprintf("step-%06d.%s", step, s.Type))
}

// Record 已记录的历史
func (s *System) Record() *Record { return &s.charts.Record }

// Write 记录第 step 步，按间隔写出文件
func (s *System) Write(step int, t float64, u maths.Vector, integral float64) error {
	s.charts.Update(step, t, u, integral)
	if !s.ShouldWrite(step) || s.Type == HTML {
		return nil
	}
	f, err := os.Create(s.Path(step))
	if err != nil {
		return err
	}
	switch s.Type {
	case CSV:
		err = WriteCSV(f, s.charts.X, u.ToDense())
	case SVG, PNG:
		err = WriteFieldPlot(f, s.Type.String(), fmt.Sprintf("step %d, t=%.6g", step, t), s.charts.X, u.ToDense())
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

// Finish 写出汇总：HTML 图表与 JSON 历史
func (s *System) Finish() error {
	if s.Type == HTML {
		if err := s.writeFile("index.html", s.charts.Render); err != nil {
			return err
		}
	}
	return s.writeFile("record.json", s.charts.Record.Render)
}

func (s *System) writeFile(name string, render func(w io.Writer) error) error {
	f, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return err
	}
	err = render(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}
