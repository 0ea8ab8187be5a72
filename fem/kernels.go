package fem

import (
	"fmt"

	"asfem/assembly"
	"asfem/local"
	"asfem/material"
	"asfem/message"
)

func init() {
	assembly.Register("diffusion", func(params []float64) (assembly.Kernel, error) {
		return NewDiffusion(params)
	})
	assembly.Register("allencahn", func(params []float64) (assembly.Kernel, error) {
		if len(params) != 0 {
			return nil, fmt.Errorf("fem: allencahn takes no parameters, got %d", len(params))
		}
		return AllenCahn{}, nil
	})
}

// outer a b^T
func outer(a, b *local.Vector) *local.Matrix {
	col := message.Must(local.NewMatrixFrom(a.M(), 1, a.Data()))
	row := message.Must(local.NewMatrixFrom(1, b.M(), b.Data()))
	return message.Must(col.Mul(row))
}

// timeRate (u - uold)/dt，稳态（dt<=0）时为 0
func timeRate(ctx *assembly.Context, gp *assembly.GaussPoint) (rate, dRate float64) {
	if ctx.Dt <= 0 {
		return 0, 0
	}
	return (gp.U - gp.UOld) / ctx.Dt, 1 / ctx.Dt
}

// Diffusion 扩散方程 dc/dt = div(D grad c)
// 残差 R_i = (c-c_old)/dt N_i + D dc/dx dN_i/dx
type Diffusion struct {
	D float64 // 材料未给出 D 时使用
}

// NewDiffusion 参数 [] 或 [D]
func NewDiffusion(params []float64) (*Diffusion, error) {
	d := &Diffusion{D: 1}
	switch len(params) {
	case 0:
	case 1:
		d.D = params[0]
	default:
		return nil, fmt.Errorf("fem: diffusion takes at most 1 parameter, got %d", len(params))
	}
	return d, nil
}

func (k *Diffusion) Compute(calc assembly.CalcType, ctx *assembly.Context, gp *assembly.GaussPoint, mate *material.Materials) {
	d := k.D
	if mate.Has(material.PropD) {
		d = mate.Scalar(material.PropD)
	}
	rate, dRate := timeRate(ctx, gp)
	switch calc {
	case assembly.ComputeResidual:
		r := gp.N.Scale(rate * gp.JxW)
		message.Check(r.AddInPlace(gp.DNdx.Scale(d * gp.DUdx * gp.JxW)))
		message.Check(ctx.LocalR.AddInPlace(r))
	case assembly.ComputeJacobian:
		kk := outer(gp.N, gp.N).Scale(dRate * gp.JxW)
		message.Check(kk.AddInPlace(outer(gp.DNdx, gp.DNdx).Scale(d * gp.JxW)))
		message.Check(ctx.LocalK.AddInPlace(kk))
	}
}

// AllenCahn 非守恒相场方程 dc/dt = -L (dF/dc - kappa lap c)
// 残差 R_i = (c-c_old)/dt N_i + L (dF/dc N_i + kappa dc/dx dN_i/dx)
type AllenCahn struct{}

func (AllenCahn) Compute(calc assembly.CalcType, ctx *assembly.Context, gp *assembly.GaussPoint, mate *material.Materials) {
	l := mate.Scalar(material.PropL)
	kappa := mate.Scalar(material.PropKappa)
	rate, dRate := timeRate(ctx, gp)
	switch calc {
	case assembly.ComputeResidual:
		r := gp.N.Scale((rate + l*mate.Scalar(material.PropDFDC)) * gp.JxW)
		message.Check(r.AddInPlace(gp.DNdx.Scale(l * kappa * gp.DUdx * gp.JxW)))
		message.Check(ctx.LocalR.AddInPlace(r))
	case assembly.ComputeJacobian:
		kk := outer(gp.N, gp.N).Scale((dRate + l*mate.Scalar(material.PropD2FDC2)) * gp.JxW)
		message.Check(kk.AddInPlace(outer(gp.DNdx, gp.DNdx).Scale(l * kappa * gp.JxW)))
		message.Check(ctx.LocalK.AddInPlace(kk))
	}
}
