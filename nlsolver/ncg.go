package nlsolver

import "asfem/maths"

// ncg 非线性共轭梯度（Polak-Ribiere+），以 J^-1 F 作为预条件残差
func (s *solver) ncg(x maths.Vector) error {
	n := x.Length()
	f := maths.NewDenseVector(n)
	z := maths.NewDenseVector(n)
	d := maths.NewDenseVector(n)
	zold := maths.NewDenseVector(n)
	fold := maths.NewDenseVector(n)
	df := maths.NewDenseVector(n)

	fnorm, err := s.start(x, f)
	if err != nil {
		return err
	}
	ynorm := 0.0
	for it := 0; !s.step(it, x, ynorm, fnorm); it++ {
		if err := s.jacobian(x); err != nil {
			return s.linearFailure(err)
		}
		if err := s.linearSolve(f, z); err != nil {
			return s.linearFailure(err)
		}

		beta := 0.0
		if it > 0 {
			f.Copy(df)
			df.AddScaled(-1, fold)
			if den := zold.DotProduct(fold); den != 0 {
				beta = max(z.DotProduct(df)/den, 0)
			}
		}
		d.Scale(beta)
		d.Add(z)
		if d.DotProduct(f)*z.DotProduct(f) <= 0 {
			z.Copy(d)
		}

		z.Copy(zold)
		f.Copy(fold)
		lambda, gnorm, err := s.ls.Apply(s.residual, x, f, d, fnorm)
		if err != nil {
			return s.lineSearchFailure(err)
		}
		ynorm = lambda * d.Norm()
		fnorm = gnorm
	}
	return nil
}
