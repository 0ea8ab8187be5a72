package message_test

import (
	"bytes"
	"log"
	"testing"

	"asfem/local"
	"asfem/message"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type exitCalled struct{ code int }

// capture 把 exit 变成 panic，便于断言终止路径
func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	message.SetOutput(log.New(&buf, "", 0))
	restore := message.SetExitFunc(func(code int) { panic(exitCalled{code}) })
	t.Cleanup(func() {
		restore()
		message.SetOutput(log.Default())
	})
	return &buf
}

func expectExit(t *testing.T, fn func()) (code int) {
	t.Helper()
	defer func() {
		r := recover()
		e, ok := r.(exitCalled)
		require.True(t, ok, "expected exit, got %v", r)
		code = e.code
	}()
	fn()
	return -1
}

func TestMustAbortsOnShapeMismatch(t *testing.T) {
	buf := capture(t)
	a := local.NewMatrix(2, 2)
	b := local.NewMatrix(3, 2)

	code := expectExit(t, func() {
		message.Must(a.Add(b))
	})
	assert.Equal(t, 1, code)
	assert.Contains(t, buf.String(), "shape mismatch")
	assert.Contains(t, buf.String(), "*** Error")
}

func TestMustAbortsOnMatMulMismatch(t *testing.T) {
	buf := capture(t)
	a := local.NewMatrix(2, 3)
	b := local.NewMatrix(2, 3)
	expectExit(t, func() {
		message.Must(a.Mul(b))
	})
	assert.Contains(t, buf.String(), "Mul")
}

func TestMustAbortsOnNotSquare(t *testing.T) {
	buf := capture(t)
	a := local.NewMatrix(2, 3)
	expectExit(t, func() {
		message.Must(a.Det())
	})
	assert.Contains(t, buf.String(), "not square")

	expectExit(t, func() {
		message.Must(a.Inverse())
	})
}

func TestMustPassesValue(t *testing.T) {
	capture(t)
	a, err := local.NewMatrixFrom(2, 2, []float64{1, 2, 3, 4})
	require.NoError(t, err)
	det := message.Must(a.Det())
	assert.InDelta(t, -2.0, det, 1e-12)
}

func TestFatalNilIsNoop(t *testing.T) {
	buf := capture(t)
	message.Fatal(nil)
	message.Check(nil)
	assert.Empty(t, buf.String())
}

func TestWarningAndInfo(t *testing.T) {
	buf := capture(t)
	message.PrintWarningTxt("dt reduced")
	message.PrintInfoTxt("step 1")
	assert.Contains(t, buf.String(), "*** Warning: dt reduced")
	assert.Contains(t, buf.String(), "step 1")
}
