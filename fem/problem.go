package fem

import (
	"errors"

	"asfem/assembly"
	"asfem/bc"
	"asfem/local"
	"asfem/material"
	"asfem/maths"
)

// Problem 单变量一维问题，实现 nlsolver.System
// 时间离散为隐式欧拉，UOld 为上一时间步的解
type Problem struct {
	Mesh     *Mesh1D
	Kernel   assembly.Kernel
	Material material.Material // 可为 nil
	BCs      bc.Set
	UOld     maths.Vector
	Time     float64
	Dt       float64 // 0 表示稳态

	gauss GaussRule
	ctx   *assembly.Context
	mate  *material.Materials
	gp    assembly.GaussPoint
	dndxi []float64
}

// NewProblem 创建问题，nGauss 为每单元积分点数
func NewProblem(mesh *Mesh1D, kernel assembly.Kernel, mate material.Material, bcs bc.Set, nGauss int) (*Problem, error) {
	if mesh == nil || kernel == nil {
		return nil, errors.New("fem: problem needs a mesh and a kernel")
	}
	g, err := NewGaussRule(nGauss)
	if err != nil {
		return nil, err
	}
	nn := mesh.NodesPerElmt()
	return &Problem{
		Mesh:     mesh,
		Kernel:   kernel,
		Material: mate,
		BCs:      bcs,
		UOld:     maths.NewDenseVector(mesh.NNodes()),
		gauss:    g,
		ctx:      assembly.NewContext(),
		mate:     material.NewMaterials(),
		gp: assembly.GaussPoint{
			N:    local.NewVector(nn),
			DNdx: local.NewVector(nn),
		},
		dndxi: make([]float64, nn),
	}, nil
}

// Size 自由度数，每个节点一个
func (p *Problem) Size() int { return p.Mesh.NNodes() }

// NewJacobian 全局稀疏矩阵
func (p *Problem) NewJacobian() maths.Matrix {
	n := p.Size()
	return maths.NewSparseMatrix(n, n)
}

// Impose 把当前时刻的边界值写入 u
func (p *Problem) Impose(u maths.Vector) { p.BCs.Impose(p.Time, u) }

// Residual 组装 r = F(x)
func (p *Problem) Residual(x, r maths.Vector) error {
	r.Zero()
	p.assemble(assembly.ComputeResidual, x, nil, r)
	p.BCs.Apply(assembly.ComputeResidual, p.Time, x, nil, r)
	return nil
}

// Jacobian 组装 J = dF/dx
func (p *Problem) Jacobian(x maths.Vector, J maths.Matrix) error {
	p.assemble(assembly.ComputeJacobian, x, J, nil)
	p.BCs.Apply(assembly.ComputeJacobian, p.Time, x, J, nil)
	return nil
}

// assemble 遍历单元与积分点
func (p *Problem) assemble(calc assembly.CalcType, x maths.Vector, K maths.Matrix, R maths.Vector) {
	ctx := p.ctx
	nn := p.Mesh.NodesPerElmt()
	for e := 1; e <= p.Mesh.NElmts; e++ {
		ctx.Reset(nn)
		ctx.ElmtID = e
		copy(ctx.DofIDs, p.Mesh.Conn[e-1])
		ctx.Coords = p.Mesh.ElmtCoords(e, ctx.Coords)
		ctx.Time, ctx.Dt = p.Time, p.Dt
		ctx.Gather(x, ctx.LocalU)
		ctx.Gather(p.UOld, ctx.LocalUOld)

		for q := range p.gauss.Points {
			p.evalGaussPoint(q)
			p.mate.Reset()
			if p.Material != nil {
				p.Material.Compute(p.gp.U, p.mate)
			}
			p.Kernel.Compute(calc, ctx, &p.gp, p.mate)
		}

		switch calc {
		case assembly.ComputeResidual:
			ctx.StampRightSide(R)
		case assembly.ComputeJacobian:
			ctx.Stamp(K)
		}
	}
}

// evalGaussPoint 计算第 q 个积分点的形函数与插值
func (p *Problem) evalGaussPoint(q int) {
	ctx, gp := p.ctx, &p.gp
	n := gp.N.Data()
	ShapeFun1D(p.Mesh.Order, p.gauss.Points[q], n, p.dndxi)

	var x, jac float64
	for a, xa := range ctx.Coords {
		x += n[a] * xa
		jac += p.dndxi[a] * xa
	}
	gp.X = x
	gp.JxW = p.gauss.Weights[q] * jac
	gp.U, gp.UOld, gp.DUdx = 0, 0, 0
	for a := range n {
		dndx := p.dndxi[a] / jac
		gp.DNdx.Set(a+1, dndx)
		gp.U += n[a] * ctx.LocalU.At(a+1)
		gp.UOld += n[a] * ctx.LocalUOld.At(a+1)
		gp.DUdx += dndx * ctx.LocalU.At(a+1)
	}
}

// VolumeIntegral 节点场 u 在整个网格上的积分
func (p *Problem) VolumeIntegral(u maths.Vector) float64 {
	n := make([]float64, p.Mesh.NodesPerElmt())
	dndxi := make([]float64, len(n))
	var coords []float64
	var sum float64
	for e := 1; e <= p.Mesh.NElmts; e++ {
		coords = p.Mesh.ElmtCoords(e, coords)
		conn := p.Mesh.Conn[e-1]
		for q, xi := range p.gauss.Points {
			ShapeFun1D(p.Mesh.Order, xi, n, dndxi)
			var jac, uq float64
			for a := range n {
				jac += dndxi[a] * coords[a]
				uq += n[a] * u.Get(conn[a]-1)
			}
			sum += p.gauss.Weights[q] * jac * uq
		}
	}
	return sum
}
