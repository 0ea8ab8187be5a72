// Package bc 全局系统的边界条件
//
// Dirichlet 类条件使用罚函数法：求解前把边界值写入解向量，
// 残差对应行置零，雅可比对角加罚系数。自由度编号从 1 开始。
package bc

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/interp"

	"asfem/assembly"
	"asfem/maths"
)

// Penalty 罚系数
const Penalty = 1e16

var ErrInvalidBC = errors.New("bc: invalid boundary condition")

// Condition 边界条件
type Condition interface {
	// Impose 把 t 时刻的边界值写入 U
	Impose(t float64, U maths.Vector)
	// Apply 修改组装好的 K 或 R
	Apply(calc assembly.CalcType, t float64, U maths.Vector, K maths.Matrix, R maths.Vector)
}

// Set 一组边界条件
type Set []Condition

// Impose 依次写入边界值
func (s Set) Impose(t float64, U maths.Vector) {
	for _, c := range s {
		c.Impose(t, U)
	}
}

// Apply 依次修改系统
func (s Set) Apply(calc assembly.CalcType, t float64, U maths.Vector, K maths.Matrix, R maths.Vector) {
	for _, c := range s {
		c.Apply(calc, t, U, K, R)
	}
}

func checkDof(dof int) error {
	if dof < 1 {
		return fmt.Errorf("%w: dof id %d", ErrInvalidBC, dof)
	}
	return nil
}

// penalize 罚函数法修改第 dof 行
func penalize(calc assembly.CalcType, dof int, K maths.Matrix, R maths.Vector) {
	switch calc {
	case assembly.ComputeResidual:
		R.Set(dof-1, 0)
	case assembly.ComputeJacobian:
		K.Increment(dof-1, dof-1, Penalty)
	}
}

// Dirichlet 固定值
type Dirichlet struct {
	DofID int
	Value float64
}

// NewDirichlet 创建固定值条件
func NewDirichlet(dof int, value float64) (*Dirichlet, error) {
	if err := checkDof(dof); err != nil {
		return nil, err
	}
	return &Dirichlet{DofID: dof, Value: value}, nil
}

func (d *Dirichlet) Impose(t float64, U maths.Vector) { U.Set(d.DofID-1, d.Value) }

func (d *Dirichlet) Apply(calc assembly.CalcType, t float64, U maths.Vector, K maths.Matrix, R maths.Vector) {
	penalize(calc, d.DofID, K, R)
}

// CyclicDirichlet 周期分段线性边界值，一个周期由 (TSpan, YSpan) 给出
type CyclicDirichlet struct {
	DofID int
	TSpan []float64
	YSpan []float64
	curve interp.PiecewiseLinear
}

// NewCyclicDirichlet 创建周期条件，时间点需严格递增且至少两个
func NewCyclicDirichlet(dof int, tspan, yspan []float64) (*CyclicDirichlet, error) {
	if err := checkDof(dof); err != nil {
		return nil, err
	}
	switch {
	case len(tspan) != len(yspan):
		return nil, fmt.Errorf("%w: tspan has %d points, yspan has %d", ErrInvalidBC, len(tspan), len(yspan))
	case len(tspan) < 2:
		return nil, fmt.Errorf("%w: cyclic dirichlet needs at least 2 points", ErrInvalidBC)
	}
	for i := 1; i < len(tspan); i++ {
		if tspan[i] <= tspan[i-1] {
			return nil, fmt.Errorf("%w: tspan not increasing at %d", ErrInvalidBC, i)
		}
	}
	c := &CyclicDirichlet{DofID: dof, TSpan: tspan, YSpan: yspan}
	if err := c.curve.Fit(tspan, yspan); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBC, err)
	}
	return c, nil
}

// ValueAt t 时刻的边界值
func (c *CyclicDirichlet) ValueAt(t float64) float64 {
	t0 := c.TSpan[0]
	period := c.TSpan[len(c.TSpan)-1] - t0
	tt := math.Mod(t-t0, period)
	if tt < 0 {
		tt += period
	}
	return c.curve.Predict(t0 + tt)
}

func (c *CyclicDirichlet) Impose(t float64, U maths.Vector) { U.Set(c.DofID-1, c.ValueAt(t)) }

func (c *CyclicDirichlet) Apply(calc assembly.CalcType, t float64, U maths.Vector, K maths.Matrix, R maths.Vector) {
	penalize(calc, c.DofID, K, R)
}

// Neumann 集中通量，残差加 -flux
type Neumann struct {
	DofID int
	Flux  float64
}

// NewNeumann 创建通量条件
func NewNeumann(dof int, flux float64) (*Neumann, error) {
	if err := checkDof(dof); err != nil {
		return nil, err
	}
	return &Neumann{DofID: dof, Flux: flux}, nil
}

func (n *Neumann) Impose(t float64, U maths.Vector) {}

func (n *Neumann) Apply(calc assembly.CalcType, t float64, U maths.Vector, K maths.Matrix, R maths.Vector) {
	if calc == assembly.ComputeResidual {
		R.Increment(n.DofID-1, -n.Flux)
	}
}

// New 按名称创建边界条件：dirichlet [value]、cyclicdirichlet [t1..tn, y1..yn]、neumann [flux]
func New(kind string, dof int, params []float64) (Condition, error) {
	switch strings.ToLower(kind) {
	case "dirichlet":
		if len(params) != 1 {
			return nil, fmt.Errorf("%w: dirichlet expects 1 parameter", ErrInvalidBC)
		}
		return NewDirichlet(dof, params[0])
	case "cyclicdirichlet":
		if len(params)%2 != 0 {
			return nil, fmt.Errorf("%w: cyclic dirichlet expects tspan and yspan of equal length", ErrInvalidBC)
		}
		h := len(params) / 2
		return NewCyclicDirichlet(dof, params[:h], params[h:])
	case "neumann":
		if len(params) != 1 {
			return nil, fmt.Errorf("%w: neumann expects 1 parameter", ErrInvalidBC)
		}
		return NewNeumann(dof, params[0])
	}
	return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidBC, kind)
}
