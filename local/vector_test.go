package local

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorBasics(t *testing.T) {
	v := NewVectorFill(3, 1)
	assert.Equal(t, 3, v.M())
	v.Set(2, 5)
	v.AddAt(3, 1)
	assert.Equal(t, []float64{1, 5, 2}, v.Data())
	assert.Equal(t, 5.0, v.At(2))

	v.Resize(2)
	assert.Equal(t, []float64{0, 0}, v.Data())
}

func TestVectorArithmetic(t *testing.T) {
	a := NewVectorFrom([]float64{1, 2, 3})
	b := NewVectorFrom([]float64{3, 4, 5})

	sum, err := a.Add(b)
	require.NoError(t, err)
	back, err := sum.Sub(b)
	require.NoError(t, err)
	assert.True(t, back.Equal(a, 1e-14))

	dot, err := a.Dot(b)
	require.NoError(t, err)
	assert.Equal(t, 26.0, dot)
	assert.InDelta(t, 5.0, NewVectorFrom([]float64{3, 4}).Norm(), 1e-15)

	assert.True(t, a.Scale(4).DivScalar(4).Equal(a, 1e-14))
	assert.True(t, a.AddScalar(2).SubScalar(2).Equal(a, 1e-14))

	c := a.Clone()
	require.NoError(t, c.AddInPlace(b))
	require.NoError(t, c.SubInPlace(b))
	c.ScaleInPlace(3)
	c.DivScalarInPlace(3)
	c.AddScalarInPlace(1)
	c.SubScalarInPlace(1)
	assert.True(t, c.Equal(a, 1e-14))
}

func TestVectorMismatch(t *testing.T) {
	a := NewVector(2)
	b := NewVector(3)
	_, err := a.Add(b)
	assert.ErrorIs(t, err, ErrShapeMismatch)
	_, err = a.Sub(b)
	assert.ErrorIs(t, err, ErrShapeMismatch)
	_, err = a.Dot(b)
	assert.ErrorIs(t, err, ErrShapeMismatch)
	assert.ErrorIs(t, a.AddInPlace(b), ErrShapeMismatch)
	assert.ErrorIs(t, a.Assign(b), ErrShapeMismatch)

	var fresh Vector
	require.NoError(t, fresh.Assign(b))
	assert.Equal(t, 3, fresh.M())
}
