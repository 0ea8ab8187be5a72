package nlsolver

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"asfem/maths"
)

// ngmresMemory 非线性GMRES窗口大小
const ngmresMemory = 30

// ngmres 非线性GMRES：线搜索牛顿步得到 xM，再在历史迭代张成的空间中
// 最小化线性化残差得到 xA，残差更小时取 xA
func (s *solver) ngmres(x maths.Vector) error {
	n := x.Length()
	f := maths.NewDenseVector(n)
	y := maths.NewDenseVector(n)
	xM := maths.NewDenseVector(n)
	fM := maths.NewDenseVector(n)
	xA := maths.NewDenseVector(n)
	fA := maths.NewDenseVector(n)
	xold := maths.NewDenseVector(n)
	window := min(ngmresMemory, n)

	var hx, hf []maths.Vector

	fnorm, err := s.start(x, f)
	if err != nil {
		return err
	}
	ynorm := 0.0
	for it := 0; !s.step(it, x, ynorm, fnorm); it++ {
		if len(hx) == window {
			hx, hf = hx[1:], hf[1:]
		}
		hx = append(hx, clone(x))
		hf = append(hf, clone(f))
		x.Copy(xold)

		if err := s.jacobian(x); err != nil {
			return s.linearFailure(err)
		}
		if err := s.linearSolve(f, y); err != nil {
			return s.linearFailure(err)
		}
		x.Copy(xM)
		f.Copy(fM)
		_, gnorm, err := s.ls.Apply(s.residual, xM, fM, y, fnorm)
		if err != nil {
			return s.lineSearchFailure(err)
		}

		accepted := false
		if alpha, ok := ngmresCoefficients(fM, hf); ok {
			xM.Copy(xA)
			for i, a := range alpha {
				xA.AddScaled(a, hx[i])
				xA.AddScaled(-a, xM)
			}
			if err := s.residual(xA, fA); err != nil {
				return err
			}
			if an := fA.Norm(); !math.IsNaN(an) && an < gnorm {
				xA.Copy(x)
				fA.Copy(f)
				fnorm = an
				accepted = true
			}
		}
		if !accepted {
			xM.Copy(x)
			fM.Copy(f)
			fnorm = gnorm
		}
		xold.AddScaled(-1, x)
		ynorm = xold.Norm()
	}
	return nil
}

// ngmresCoefficients 最小二乘求 alpha，使 ||fM + sum alpha_i (f_i - fM)|| 最小
func ngmresCoefficients(fM maths.Vector, hf []maths.Vector) ([]float64, bool) {
	n, k := fM.Length(), len(hf)
	if k == 0 || k >= n {
		return nil, false
	}
	a := mat.NewDense(n, k, nil)
	b := mat.NewVecDense(n, nil)
	for r := 0; r < n; r++ {
		fr := fM.Get(r)
		b.SetVec(r, -fr)
		for c := 0; c < k; c++ {
			a.Set(r, c, hf[c].Get(r)-fr)
		}
	}
	var alpha mat.VecDense
	if err := alpha.SolveVec(a, b); err != nil {
		return nil, false
	}
	out := make([]float64, k)
	for i := range out {
		out[i] = alpha.AtVec(i)
		if math.IsNaN(out[i]) || math.IsInf(out[i], 0) {
			return nil, false
		}
	}
	return out, true
}
