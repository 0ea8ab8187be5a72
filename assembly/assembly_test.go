package assembly

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"asfem/local"
	"asfem/material"
	"asfem/maths"
)

// massKernel 局部质量矩阵 N_i N_j
type massKernel struct{ scale float64 }

func (k massKernel) Compute(calc CalcType, ctx *Context, gp *GaussPoint, mate *material.Materials) {
	n := gp.N.M()
	for i := 1; i <= n; i++ {
		if calc == ComputeResidual {
			ctx.LocalR.AddAt(i, k.scale*gp.U*gp.N.At(i)*gp.JxW)
			continue
		}
		for j := 1; j <= n; j++ {
			ctx.LocalK.AddAt(i, j, k.scale*gp.N.At(i)*gp.N.At(j)*gp.JxW)
		}
	}
}

func init() {
	Register("mass", func(params []float64) (Kernel, error) {
		s := 1.0
		if len(params) > 0 {
			s = params[0]
		}
		return massKernel{scale: s}, nil
	})
}

func TestContextReset(t *testing.T) {
	ctx := NewContext()
	ctx.Reset(3)
	assert.Equal(t, 3, ctx.NDofs())
	assert.Equal(t, 3, ctx.LocalK.M())
	assert.Equal(t, 3, ctx.LocalK.N())
	assert.Equal(t, 3, ctx.LocalR.M())

	ctx.LocalK.Set(1, 1, 5)
	ctx.LocalR.Set(2, 1)
	ctx.DofIDs[0] = 7
	ctx.Reset(2)
	assert.Equal(t, 2, ctx.LocalK.M())
	assert.Zero(t, ctx.LocalK.At(1, 1))
	assert.Zero(t, ctx.LocalR.At(2))
	assert.Equal(t, []int{0, 0}, ctx.DofIDs)
}

func TestStampSkipsInactiveDofs(t *testing.T) {
	ctx := NewContext()
	ctx.Reset(3)
	copy(ctx.DofIDs, []int{2, 0, 3})
	for i := 1; i <= 3; i++ {
		ctx.LocalR.Set(i, float64(i))
		for j := 1; j <= 3; j++ {
			ctx.LocalK.Set(i, j, float64(10*i+j))
		}
	}

	K := maths.NewSparseMatrix(3, 3)
	R := maths.NewDenseVector(3)
	ctx.Stamp(K)
	ctx.StampRightSide(R)
	ctx.Stamp(K)

	assert.Equal(t, []float64{0, 1, 3}, R.ToDense())
	assert.Equal(t, 22.0, K.Get(1, 1))
	assert.Equal(t, 26.0, K.Get(1, 2))
	assert.Equal(t, 62.0, K.Get(2, 1))
	assert.Equal(t, 66.0, K.Get(2, 2))
	assert.Zero(t, K.Get(0, 0))
	assert.Equal(t, 4, K.NonZeroCount())
}

func TestGather(t *testing.T) {
	ctx := NewContext()
	ctx.Reset(3)
	copy(ctx.DofIDs, []int{3, -1, 1})
	u := maths.NewDenseVectorWithData([]float64{10, 20, 30})
	ctx.Gather(u, ctx.LocalU)
	assert.Equal(t, []float64{30, 0, 10}, ctx.LocalU.Data())
}

func TestKernelRegistry(t *testing.T) {
	k, err := New("MASS", []float64{2})
	require.NoError(t, err)
	assert.Contains(t, Names(), "mass")

	ctx := NewContext()
	ctx.Reset(2)
	gp := &GaussPoint{
		JxW: 0.5,
		N:   local.NewVectorFrom([]float64{0.5, 0.5}),
		U:   4,
	}
	k.Compute(ComputeJacobian, ctx, gp, material.NewMaterials())
	k.Compute(ComputeResidual, ctx, gp, material.NewMaterials())
	assert.InDelta(t, 0.25, ctx.LocalK.At(1, 2), 1e-15)
	assert.InDelta(t, 2.0, ctx.LocalR.At(2), 1e-15)

	_, err = New("elasticity", nil)
	assert.ErrorIs(t, err, ErrUnknownKernel)
}

func TestCalcTypeString(t *testing.T) {
	assert.Equal(t, "residual", ComputeResidual.String())
	assert.Equal(t, "jacobian", ComputeJacobian.String())
	assert.Equal(t, "CalcType(9)", CalcType(9).String())
}
