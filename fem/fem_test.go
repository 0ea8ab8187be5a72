package fem

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"asfem/assembly"
	"asfem/bc"
	"asfem/material"
	"asfem/maths"
	"asfem/nlsolver"
)

var _ nlsolver.System = (*Problem)(nil)

func TestMesh1D(t *testing.T) {
	m, err := NewMesh1D(4, 0, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, 5, m.NNodes())
	assert.Equal(t, []float64{0, 0.5, 1, 1.5, 2}, m.Nodes)
	assert.Equal(t, []int{3, 4}, m.Conn[2])
	assert.Equal(t, []float64{1, 1.5}, m.ElmtCoords(3, nil))

	q, err := NewMesh1D(2, -1, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, q.NNodes())
	assert.Equal(t, 3, q.NodesPerElmt())
	assert.Equal(t, []int{3, 4, 5}, q.Conn[1])

	_, err = NewMesh1D(0, 0, 1, 1)
	assert.ErrorIs(t, err, ErrInvalidMesh)
	_, err = NewMesh1D(2, 1, 1, 1)
	assert.ErrorIs(t, err, ErrInvalidMesh)
	_, err = NewMesh1D(2, 0, 1, 3)
	assert.ErrorIs(t, err, ErrInvalidMesh)
}

func TestShapeFunctions(t *testing.T) {
	for _, order := range []int{1, 2} {
		n := make([]float64, order+1)
		dn := make([]float64, order+1)
		for _, xi := range []float64{-1, -0.3, 0, 0.7, 1} {
			ShapeFun1D(order, xi, n, dn)
			var sn, sdn float64
			for a := range n {
				sn += n[a]
				sdn += dn[a]
			}
			assert.InDelta(t, 1, sn, 1e-14)
			assert.InDelta(t, 0, sdn, 1e-14)
		}
		// 节点处的插值性质
		ShapeFun1D(order, -1, n, dn)
		assert.Equal(t, 1.0, n[0])
		ShapeFun1D(order, 1, n, dn)
		assert.Equal(t, 1.0, n[order])
	}
	assert.Panics(t, func() { ShapeFun1D(3, 0, make([]float64, 4), make([]float64, 4)) })
}

func TestGaussRuleExactness(t *testing.T) {
	for n := 1; n <= 4; n++ {
		g, err := NewGaussRule(n)
		require.NoError(t, err)
		for p := 0; p <= 2*n-1; p++ {
			var sum float64
			for q, x := range g.Points {
				sum += g.Weights[q] * math.Pow(x, float64(p))
			}
			want := 0.0
			if p%2 == 0 {
				want = 2 / float64(p+1)
			}
			assert.InDelta(t, want, sum, 1e-13, "n=%d p=%d", n, p)
		}
	}
	_, err := NewGaussRule(5)
	assert.Error(t, err)
}

func solve(t *testing.T, p *Problem, u maths.Vector) nlsolver.Result {
	t.Helper()
	e := nlsolver.NewEngine()
	require.NoError(t, e.Init(nlsolver.DefaultConfig()))
	p.Impose(u)
	res, err := e.Solve(context.Background(), p, u)
	require.NoError(t, err)
	require.True(t, res.Converged, res.Reason.String())
	return res
}

func TestSteadyDiffusionDirichlet(t *testing.T) {
	mesh, err := NewMesh1D(8, 0, 1, 1)
	require.NoError(t, err)
	k, err := assembly.New("diffusion", nil)
	require.NoError(t, err)
	left, _ := bc.NewDirichlet(1, 0)
	right, _ := bc.NewDirichlet(mesh.NNodes(), 1)
	p, err := NewProblem(mesh, k, nil, bc.Set{left, right}, 2)
	require.NoError(t, err)

	u := maths.NewDenseVector(p.Size())
	solve(t, p, u)
	for i, x := range mesh.Nodes {
		assert.InDelta(t, x, u.Get(i), 1e-9)
	}
	assert.InDelta(t, 0.5, p.VolumeIntegral(u), 1e-9)
}

func TestSteadyDiffusionNeumann(t *testing.T) {
	mesh, err := NewMesh1D(5, 0, 1, 2)
	require.NoError(t, err)
	mate, err := material.New("constdiffusion", []float64{4})
	require.NoError(t, err)
	k, err := NewDiffusion(nil)
	require.NoError(t, err)
	left, _ := bc.NewDirichlet(1, 0)
	flux, _ := bc.NewNeumann(mesh.NNodes(), 2)
	p, err := NewProblem(mesh, k, mate, bc.Set{left, flux}, 3)
	require.NoError(t, err)

	u := maths.NewDenseVector(p.Size())
	solve(t, p, u)
	// D u'(1) = 2
	for i, x := range mesh.Nodes {
		assert.InDelta(t, 0.5*x, u.Get(i), 1e-9)
	}
}

func TestAllenCahnJacobian(t *testing.T) {
	mesh, err := NewMesh1D(3, 0, 1, 2)
	require.NoError(t, err)
	mate, err := material.New("doublewell", []float64{0, 1, 1, 2, 0.05})
	require.NoError(t, err)
	k, err := assembly.New("allencahn", nil)
	require.NoError(t, err)
	p, err := NewProblem(mesh, k, mate, nil, 3)
	require.NoError(t, err)
	p.Dt = 0.1

	n := p.Size()
	x := maths.NewDenseVector(n)
	for i := 0; i < n; i++ {
		x.Set(i, 0.3+0.1*math.Sin(float64(i)))
		p.UOld.Set(i, 0.25)
	}
	J := p.NewJacobian()
	require.NoError(t, p.Jacobian(x, J))

	const h = 1e-7
	r0 := maths.NewDenseVector(n)
	r1 := maths.NewDenseVector(n)
	require.NoError(t, p.Residual(x, r0))
	for j := 0; j < n; j++ {
		xp := maths.NewDenseVector(n)
		x.Copy(xp)
		xp.Increment(j, h)
		require.NoError(t, p.Residual(xp, r1))
		for i := 0; i < n; i++ {
			fd := (r1.Get(i) - r0.Get(i)) / h
			assert.InDelta(t, fd, J.Get(i, j), 1e-5, "J(%d,%d)", i, j)
		}
	}
}

func TestAllenCahnRelaxes(t *testing.T) {
	mesh, err := NewMesh1D(10, 0, 1, 1)
	require.NoError(t, err)
	mate, err := material.New("doublewell", []float64{0, 1, 1})
	require.NoError(t, err)
	k, err := assembly.New("allencahn", nil)
	require.NoError(t, err)
	p, err := NewProblem(mesh, k, mate, nil, 2)
	require.NoError(t, err)
	p.Dt = 0.5

	u := maths.NewDenseVector(p.Size())
	for i := range mesh.Nodes {
		u.Set(i, 0.8)
	}
	u.Copy(p.UOld)
	for step := 0; step < 20; step++ {
		solve(t, p, u)
		u.Copy(p.UOld)
	}
	// 均匀场向最近的势阱 c=1 演化
	for i := range mesh.Nodes {
		assert.InDelta(t, 1, u.Get(i), 1e-3)
	}
}

func TestVolumeIntegralQuadratic(t *testing.T) {
	mesh, err := NewMesh1D(3, 0, 2, 2)
	require.NoError(t, err)
	k, _ := NewDiffusion(nil)
	p, err := NewProblem(mesh, k, nil, nil, 2)
	require.NoError(t, err)
	u := maths.NewDenseVector(p.Size())
	for i, x := range mesh.Nodes {
		u.Set(i, x*x)
	}
	assert.InDelta(t, 8.0/3, p.VolumeIntegral(u), 1e-12)
}

func TestKernelParams(t *testing.T) {
	_, err := assembly.New("allencahn", []float64{1})
	assert.Error(t, err)
	_, err = NewDiffusion([]float64{1, 2})
	assert.Error(t, err)
	d, err := NewDiffusion([]float64{3})
	require.NoError(t, err)
	assert.Equal(t, 3.0, d.D)
}
