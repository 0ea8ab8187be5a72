// Package assembly 单元局部组装上下文
//
// 单元核函数在 Context 的局部缓冲区中按 1 起始的局部编号写入贡献，
// 再由 Stamp/StampRightSide 按 DofIDs 叠加到全局系统。自由度编号小于等于 0 的不参与组装。
package assembly

import (
	"fmt"

	"asfem/local"
	"asfem/maths"
)

// CalcType 有限元计算类型
type CalcType int

const (
	ComputeResidual CalcType = iota // 计算残差
	ComputeJacobian                 // 计算雅可比
)

func (c CalcType) String() string {
	switch c {
	case ComputeResidual:
		return "residual"
	case ComputeJacobian:
		return "jacobian"
	}
	return fmt.Sprintf("CalcType(%d)", int(c))
}

// GaussPoint 高斯点上的形函数与插值解
type GaussPoint struct {
	X    float64       // 物理坐标
	JxW  float64       // 积分权重乘雅可比行列式
	N    *local.Vector // 形函数值
	DNdx *local.Vector // 形函数物理导数
	U    float64       // 当前解
	UOld float64       // 上一时间步解
	DUdx float64       // 当前解梯度
}

// Context 单元局部组装缓冲区
type Context struct {
	ElmtID    int           // 单元编号（1 起始）
	DofIDs    []int         // 全局自由度编号（1 起始）
	Coords    []float64     // 节点坐标
	LocalK    *local.Matrix // 局部雅可比
	LocalR    *local.Vector // 局部残差
	LocalU    *local.Vector // 局部当前解
	LocalUOld *local.Vector // 局部上一步解
	Time      float64
	Dt        float64
}

// NewContext 创建空上下文
func NewContext() *Context {
	return &Context{
		LocalK:    local.NewMatrix(0, 0),
		LocalR:    local.NewVector(0),
		LocalU:    local.NewVector(0),
		LocalUOld: local.NewVector(0),
	}
}

// Reset 按自由度数调整缓冲区并清零
func (ctx *Context) Reset(nDofs int) {
	ctx.LocalK.Resize(nDofs, nDofs)
	ctx.LocalR.Resize(nDofs)
	ctx.LocalU.Resize(nDofs)
	ctx.LocalUOld.Resize(nDofs)
	if cap(ctx.DofIDs) < nDofs {
		ctx.DofIDs = make([]int, nDofs)
	}
	ctx.DofIDs = ctx.DofIDs[:nDofs]
	clear(ctx.DofIDs)
}

// NDofs 局部自由度数
func (ctx *Context) NDofs() int { return len(ctx.DofIDs) }

// Gather 从全局向量提取局部值
func (ctx *Context) Gather(u maths.Vector, dst *local.Vector) {
	for i, id := range ctx.DofIDs {
		if id <= 0 {
			dst.Set(i+1, 0)
			continue
		}
		dst.Set(i+1, u.Get(id-1))
	}
}

// Stamp 将局部雅可比叠加到全局矩阵
func (ctx *Context) Stamp(K maths.Matrix) {
	for i, gi := range ctx.DofIDs {
		if gi <= 0 {
			continue
		}
		for j, gj := range ctx.DofIDs {
			if gj <= 0 {
				continue
			}
			if v := ctx.LocalK.At(i+1, j+1); v != 0 {
				K.Increment(gi-1, gj-1, v)
			}
		}
	}
}

// StampRightSide 将局部残差叠加到全局向量
func (ctx *Context) StampRightSide(R maths.Vector) {
	for i, gi := range ctx.DofIDs {
		if gi <= 0 {
			continue
		}
		R.Increment(gi-1, ctx.LocalR.At(i+1))
	}
}
