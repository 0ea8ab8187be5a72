package nlsolver

import (
	"math"

	"asfem/maths"
)

// qnMemory 拟牛顿保存的更新对数
const qnMemory = 10

// qnHistory 有限内存的逆雅可比近似 H，H0 = J(x0)^-1
type qnHistory struct {
	kind QNType
	s    []maths.Vector // 步长 s_i
	g    []maths.Vector // 残差差 g_i
	u    []maths.Vector // Broyden 修正向量
	rho  []float64      // LBFGS 1/(s_i·g_i)
	tmp  maths.Vector
}

func (h *qnHistory) reset() {
	h.s, h.g, h.u, h.rho = h.s[:0], h.g[:0], h.u[:0], h.rho[:0]
}

// apply out = H v
func (h *qnHistory) apply(s *solver, v, out maths.Vector) error {
	switch h.kind {
	case QNLBFGS:
		q := h.tmp
		v.Copy(q)
		k := len(h.s)
		alpha := make([]float64, k)
		for i := k - 1; i >= 0; i-- {
			alpha[i] = h.rho[i] * h.s[i].DotProduct(q)
			q.AddScaled(-alpha[i], h.g[i])
		}
		if err := s.linearSolve(q, out); err != nil {
			return err
		}
		for i := 0; i < k; i++ {
			beta := h.rho[i] * h.g[i].DotProduct(out)
			out.AddScaled(alpha[i]-beta, h.s[i])
		}
	case QNBroyden:
		if err := s.linearSolve(v, out); err != nil {
			return err
		}
		for i := range h.u {
			out.AddScaled(h.s[i].DotProduct(out), h.u[i])
		}
	case QNBadBroyden:
		if err := s.linearSolve(v, out); err != nil {
			return err
		}
		for i := range h.u {
			out.AddScaled(h.g[i].DotProduct(v), h.u[i])
		}
	}
	return nil
}

// update 加入一对 (s, g)
func (h *qnHistory) update(s *solver, sv, gv maths.Vector) error {
	switch h.kind {
	case QNLBFGS:
		sg := sv.DotProduct(gv)
		if sg <= maths.Epsilon {
			return nil
		}
		if len(h.s) == qnMemory {
			h.s, h.g, h.rho = h.s[1:], h.g[1:], h.rho[1:]
		}
		h.s = append(h.s, clone(sv))
		h.g = append(h.g, clone(gv))
		h.rho = append(h.rho, 1/sg)
		return nil
	}

	if len(h.u) == qnMemory {
		h.reset()
	}
	hg := maths.NewDenseVector(sv.Length())
	if err := h.apply(s, gv, hg); err != nil {
		return err
	}
	var denom float64
	if h.kind == QNBroyden {
		denom = sv.DotProduct(hg)
	} else {
		denom = gv.DotProduct(gv)
	}
	if math.Abs(denom) <= maths.Epsilon {
		h.reset()
		return nil
	}
	u := clone(sv)
	u.AddScaled(-1, hg)
	u.Scale(1 / denom)
	if h.kind == QNBroyden {
		h.s = append(h.s, clone(sv))
	} else {
		h.g = append(h.g, clone(gv))
	}
	h.u = append(h.u, u)
	return nil
}

// quasiNewton 拟牛顿法（LBFGS / Broyden / BadBroyden），沿 H F 方向线搜索
func (s *solver) quasiNewton(x maths.Vector, kind QNType) error {
	n := x.Length()
	f := maths.NewDenseVector(n)
	y := maths.NewDenseVector(n)
	xold := maths.NewDenseVector(n)
	fold := maths.NewDenseVector(n)
	sv := maths.NewDenseVector(n)
	gv := maths.NewDenseVector(n)
	h := &qnHistory{kind: kind, tmp: maths.NewDenseVector(n)}

	fnorm, err := s.start(x, f)
	if err != nil {
		return err
	}

	ynorm := 0.0
	for it := 0; !s.step(it, x, ynorm, fnorm); it++ {
		// H0 只在初值未收敛时构造
		if it == 0 {
			if err := s.jacobian(x); err != nil {
				return s.linearFailure(err)
			}
		}
		if err := h.apply(s, f, y); err != nil {
			return s.linearFailure(err)
		}
		x.Copy(xold)
		f.Copy(fold)
		_, gnorm, err := s.ls.Apply(s.residual, x, f, y, fnorm)
		if err != nil {
			return s.lineSearchFailure(err)
		}

		x.Copy(sv)
		sv.AddScaled(-1, xold)
		f.Copy(gv)
		gv.AddScaled(-1, fold)
		if err := h.update(s, sv, gv); err != nil {
			return s.linearFailure(err)
		}
		ynorm = sv.Norm()
		fnorm = gnorm
	}
	return nil
}
