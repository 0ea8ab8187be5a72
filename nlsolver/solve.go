package nlsolver

import (
	"errors"
	"math"

	"asfem/maths"
)

// Tolerances 非线性收敛参数
type Tolerances struct {
	AbsTol           float64 // 绝对残差
	RelTol           float64 // 相对初始残差
	STol             float64 // 步长相对解范数
	MaxIt            int     // 最大非线性迭代
	MaxFunctionEvals int     // 最大残差计算次数，-1 不限制
}

// Result 一次求解的结果
type Result struct {
	Converged        bool
	Iterations       int
	FNorm            float64
	Reason           ConvergedReason
	FunctionEvals    int
	LinearIterations int
}

// solver 一次求解的状态
type solver struct {
	sys    System
	tol    Tolerances
	ksp    *maths.KSP
	ls     *LineSearch
	mon    Monitor
	J      maths.Matrix
	res    Result
	fnorm0 float64
}

// residual 计算 F(x) 并计数
func (s *solver) residual(x, f maths.Vector) error {
	s.res.FunctionEvals++
	return s.sys.Residual(x, f)
}

// jacobian 组装 J(x) 并设置为线性算子
func (s *solver) jacobian(x maths.Vector) error {
	s.J.Zero()
	if err := s.sys.Jacobian(x, s.J); err != nil {
		return err
	}
	return s.ksp.SetOperator(s.J)
}

// linearSolve y = J^-1 b
func (s *solver) linearSolve(b, y maths.Vector) error {
	y.Zero()
	r, err := s.ksp.Solve(b, y)
	s.res.LinearIterations += r.Iterations
	return err
}

// linearFailure 线性求解失败转为 DivergedLinearSolve，其他错误原样返回
func (s *solver) linearFailure(err error) error {
	if errors.Is(err, maths.ErrSingular) || errors.Is(err, maths.ErrKSPDiverged) {
		s.res.Reason = DivergedLinearSolve
		return nil
	}
	return err
}

// lineSearchFailure 线搜索失败转为 DivergedLineSearch
func (s *solver) lineSearchFailure(err error) error {
	if errors.Is(err, errLineSearch) {
		s.res.Reason = DivergedLineSearch
		return nil
	}
	return err
}

// start 计算初始残差
func (s *solver) start(x, f maths.Vector) (float64, error) {
	if err := s.residual(x, f); err != nil {
		return 0, err
	}
	fnorm := f.Norm()
	s.fnorm0 = fnorm
	return fnorm, nil
}

// step 记录迭代并做收敛判断，返回 true 表示结束
func (s *solver) step(it int, x maths.Vector, ynorm, fnorm float64) bool {
	s.res.Iterations = it
	s.res.FNorm = fnorm
	if s.mon != nil {
		s.mon.Iteration(it, fnorm)
	}
	s.res.Reason = s.test(it, x.Norm(), ynorm, fnorm)
	return s.res.Reason != ConvergedIterating
}

// test 默认收敛判据
func (s *solver) test(it int, xnorm, ynorm, fnorm float64) ConvergedReason {
	switch {
	case math.IsNaN(fnorm) || math.IsInf(fnorm, 0):
		return DivergedFnormNaN
	case fnorm < s.tol.AbsTol:
		return ConvergedFnormAbs
	case it > 0 && fnorm <= s.tol.RelTol*s.fnorm0:
		return ConvergedFnormRelative
	case it > 0 && ynorm < s.tol.STol*xnorm:
		return ConvergedSnormRelative
	case s.tol.MaxFunctionEvals >= 0 && s.res.FunctionEvals >= s.tol.MaxFunctionEvals:
		return DivergedFunctionCount
	case it >= s.tol.MaxIt:
		return DivergedMaxIt
	}
	return ConvergedIterating
}

// clone 复制向量
func clone(v maths.Vector) maths.Vector {
	c := maths.NewDenseVector(v.Length())
	v.Copy(c)
	return c
}
