//go:build asfemdebug

package local

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDebugBoundsChecks(t *testing.T) {
	a := NewMatrix(2, 2)
	assert.PanicsWithValue(t, "local: index (3,1) out of range for 2x2 matrix", func() { a.At(3, 1) })
	assert.Panics(t, func() { a.Set(1, 0, 1) })
	assert.Panics(t, func() { a.Elem(5) })

	v := NewVector(2)
	assert.Panics(t, func() { v.At(0) })
	assert.NotPanics(t, func() { v.At(2) })
}
