package output

import (
	"encoding/json"
	"io"
	"slices"

	"asfem/maths"
)

// Record 记录历史解
type Record struct {
	X         []float64   // 节点坐标
	Steps     []int       // 时间步编号
	Time      []float64   // 时间列
	Fields    [][]float64 // 每步的节点解
	Integrals []float64   // 每步的体积分
}

// Init 设置节点坐标并清空历史
func (r *Record) Init(x []float64) {
	r.X = slices.Clone(x)
	r.Steps, r.Time, r.Fields, r.Integrals = nil, nil, nil, nil
}

// Update 记录一步
func (r *Record) Update(step int, t float64, u maths.Vector, integral float64) {
	r.Steps = append(r.Steps, step)
	r.Time = append(r.Time, t)
	r.Fields = append(r.Fields, slices.Clone(u.ToDense()))
	r.Integrals = append(r.Integrals, integral)
}

// Len 记录的步数
func (r *Record) Len() int { return len(r.Steps) }

// Render 格式化输出内容
func (r *Record) Render(w io.Writer) error { return json.NewEncoder(w).Encode(r) }
