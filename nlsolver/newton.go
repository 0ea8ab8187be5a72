package nlsolver

import "asfem/maths"

// newtonLS 线搜索牛顿法：J y = F, x <- x - lambda*y
func (s *solver) newtonLS(x maths.Vector) error {
	n := x.Length()
	f := maths.NewDenseVector(n)
	y := maths.NewDenseVector(n)

	fnorm, err := s.start(x, f)
	if err != nil {
		return err
	}
	ynorm := 0.0
	for it := 0; !s.step(it, x, ynorm, fnorm); it++ {
		if err := s.jacobian(x); err != nil {
			return s.linearFailure(err)
		}
		if err := s.linearSolve(f, y); err != nil {
			return s.linearFailure(err)
		}
		lambda, gnorm, err := s.ls.Apply(s.residual, x, f, y, fnorm)
		if err != nil {
			return s.lineSearchFailure(err)
		}
		ynorm = lambda * y.Norm()
		fnorm = gnorm
	}
	return nil
}
