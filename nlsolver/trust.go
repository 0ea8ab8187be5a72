package nlsolver

import (
	"math"

	"asfem/maths"
)

// 信赖域参数
const (
	trDelta0   = 0.2   // 初始半径相对 ||x||
	trEta1     = 1e-3  // 接受步长的最小比值
	trEta2     = 0.25  // 低于此值缩小半径
	trEta3     = 0.75  // 高于此值且步长触边时扩大半径
	trShrink   = 0.25  // 缩小系数
	trGrow     = 2.0   // 扩大系数
	trDeltaMin = 1e-12 // 最小半径
)

// newtonTR 信赖域牛顿法，牛顿步超过半径时截断；不使用线搜索
func (s *solver) newtonTR(x maths.Vector) error {
	n := x.Length()
	f := maths.NewDenseVector(n)
	y := maths.NewDenseVector(n)
	p := maths.NewDenseVector(n)
	w := maths.NewDenseVector(n)
	g := maths.NewDenseVector(n)
	jp := maths.NewDenseVector(n)

	fnorm, err := s.start(x, f)
	if err != nil {
		return err
	}
	delta := trDelta0 * x.Norm()
	if delta == 0 {
		delta = trDelta0
	}

	ynorm := 0.0
	for it := 0; !s.step(it, x, ynorm, fnorm); it++ {
		if err := s.jacobian(x); err != nil {
			return s.linearFailure(err)
		}
		if err := s.linearSolve(f, y); err != nil {
			return s.linearFailure(err)
		}
		full := y.Norm()

		for {
			scale := 1.0
			if full > delta {
				scale = delta / full
			}
			y.Copy(p)
			p.Scale(scale)
			pnorm := scale * full

			x.Copy(w)
			w.AddScaled(-1, p)
			if err := s.residual(w, g); err != nil {
				return err
			}
			gnorm := g.Norm()

			// 线性模型 0.5||F - J p||^2 预测下降量
			s.J.MulVecTo(p, jp)
			jp.Scale(-1)
			jp.Add(f)
			mnorm := jp.Norm()
			pred := 0.5 * (fnorm*fnorm - mnorm*mnorm)
			actual := 0.5 * (fnorm*fnorm - gnorm*gnorm)
			rho := -1.0
			if pred > 0 && !math.IsNaN(gnorm) {
				rho = actual / pred
			}

			switch {
			case rho < trEta2:
				delta = trShrink * pnorm
			case rho > trEta3 && scale < 1:
				delta *= trGrow
			}
			if rho > trEta1 {
				w.Copy(x)
				g.Copy(f)
				fnorm = gnorm
				ynorm = pnorm
				break
			}
			if delta < trDeltaMin*math.Max(x.Norm(), 1) {
				s.res.Reason = DivergedTrDelta
				return nil
			}
		}
	}
	return nil
}
