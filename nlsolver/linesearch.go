package nlsolver

import (
	"math"

	"asfem/maths"
)

// residualFunc 计算 f = F(x)
type residualFunc func(x, f maths.Vector) error

// 线搜索默认参数
const (
	defaultAlpha     = 1e-4  // Armijo 充分下降系数
	defaultMinLambda = 1e-12 // 最小步长
	defaultMaxLambda = 10    // l2/cp 的最大步长
	defaultBTMaxIt   = 40    // 回溯最大次数
	defaultL2Steps   = 1     // l2 二次模型迭代次数
	defaultCPSteps   = 2     // cp 割线迭代次数
)

// LineSearch 线搜索句柄，沿 x - lambda*y 选取步长
type LineSearch struct {
	Alpha     float64
	MinLambda float64
	MaxLambda float64
	MaxIt     int
	L2Steps   int
	CPSteps   int

	strategy  LineSearchStrategy
	order     int
	orderSets int
	types     []LineSearchStrategy

	w, g maths.Vector
}

func newLineSearch() *LineSearch {
	return &LineSearch{
		Alpha:     defaultAlpha,
		MinLambda: defaultMinLambda,
		MaxLambda: defaultMaxLambda,
		MaxIt:     defaultBTMaxIt,
		L2Steps:   defaultL2Steps,
		CPSteps:   defaultCPSteps,
	}
}

// SetStrategy 设置线搜索类型
func (ls *LineSearch) SetStrategy(s LineSearchStrategy) {
	ls.strategy = s
	ls.types = append(ls.types, s)
}

// Strategy 当前线搜索类型
func (ls *LineSearch) Strategy() LineSearchStrategy { return ls.strategy }

// SetOrder 设置回溯插值阶数
func (ls *LineSearch) SetOrder(order int) {
	ls.order = order
	ls.orderSets++
}

// Order 配置的阶数
func (ls *LineSearch) Order() int { return ls.order }

// effectiveOrder 1 线性, 2 二次, 3 三次；非正数取三次
func (ls *LineSearch) effectiveOrder() int {
	if ls.order <= 0 || ls.order > 3 {
		return 3
	}
	return ls.order
}

func (ls *LineSearch) ensure(n int) {
	if ls.w == nil || ls.w.Length() != n {
		ls.w = maths.NewDenseVector(n)
		ls.g = maths.NewDenseVector(n)
	}
}

// trial w = x - lambda*y, g = F(w)，返回 ||g||
func (ls *LineSearch) trial(eval residualFunc, x, y maths.Vector, lambda float64) (float64, error) {
	x.Copy(ls.w)
	ls.w.AddScaled(-lambda, y)
	if err := eval(ls.w, ls.g); err != nil {
		return 0, err
	}
	return ls.g.Norm(), nil
}

// accept 把试探点写回 x, f
func (ls *LineSearch) accept(x, f maths.Vector) {
	ls.w.Copy(x)
	ls.g.Copy(f)
}

// Apply 沿方向 y 搜索，成功时就地更新 x 和 f
// 返回步长与新的残差范数；找不到可接受步长时返回 errLineSearch
func (ls *LineSearch) Apply(eval residualFunc, x, f, y maths.Vector, fnorm float64) (lambda, gnorm float64, err error) {
	ls.ensure(x.Length())
	switch ls.strategy {
	case StrategyBackTrace:
		return ls.backtrack(eval, x, f, y, fnorm)
	case StrategyL2:
		return ls.l2(eval, x, f, y, fnorm)
	case StrategyCriticalPoint:
		return ls.criticalPoint(eval, x, f, y)
	default:
		gnorm, err = ls.trial(eval, x, y, 1)
		if err != nil {
			return 0, 0, err
		}
		ls.accept(x, f)
		return 1, gnorm, nil
	}
}

// backtrack Armijo 回溯，按阶数做线性/二次/三次插值
func (ls *LineSearch) backtrack(eval residualFunc, x, f, y maths.Vector, fnorm float64) (float64, float64, error) {
	f0 := 0.5 * fnorm * fnorm
	slope := -fnorm * fnorm
	order := ls.effectiveOrder()

	lambda := 1.0
	gnorm, err := ls.trial(eval, x, y, lambda)
	if err != nil {
		return 0, 0, err
	}
	f1 := 0.5 * gnorm * gnorm
	var prevLambda, fPrev float64

	for k := 0; ; k++ {
		if !math.IsNaN(f1) && f1 <= f0+ls.Alpha*lambda*slope {
			ls.accept(x, f)
			return lambda, gnorm, nil
		}
		if k >= ls.MaxIt || lambda < ls.MinLambda {
			return lambda, fnorm, errLineSearch
		}

		next := 0.5 * lambda
		switch {
		case math.IsNaN(f1) || order == 1:
		case order == 2 || k == 0:
			next = -slope * lambda * lambda / (2 * (f1 - f0 - slope*lambda))
		default:
			t1 := f1 - f0 - slope*lambda
			t2 := fPrev - f0 - slope*prevLambda
			a := (t1/(lambda*lambda) - t2/(prevLambda*prevLambda)) / (lambda - prevLambda)
			b := (-prevLambda*t1/(lambda*lambda) + lambda*t2/(prevLambda*prevLambda)) / (lambda - prevLambda)
			if a == 0 {
				next = -slope / (2 * b)
			} else {
				d := math.Max(b*b-3*a*slope, 0)
				next = (-b + math.Sqrt(d)) / (3 * a)
			}
		}
		if math.IsNaN(next) || math.IsInf(next, 0) {
			next = 0.5 * lambda
		}
		next = math.Min(math.Max(next, 0.1*lambda), 0.5*lambda)

		prevLambda, fPrev = lambda, f1
		lambda = next
		gnorm, err = ls.trial(eval, x, y, lambda)
		if err != nil {
			return 0, 0, err
		}
		f1 = 0.5 * gnorm * gnorm
	}
}

// l2 在 [0, lambda] 上用 ||F||^2 的二次模型求极小
func (ls *LineSearch) l2(eval residualFunc, x, f, y maths.Vector, fnorm float64) (float64, float64, error) {
	phi0 := fnorm * fnorm
	lambda := 1.0
	for i := 0; i < ls.L2Steps; i++ {
		h := 0.5 * lambda
		gMid, err := ls.trial(eval, x, y, h)
		if err != nil {
			return 0, 0, err
		}
		gEnd, err := ls.trial(eval, x, y, lambda)
		if err != nil {
			return 0, 0, err
		}
		phi1, phi2 := gMid*gMid, gEnd*gEnd
		if math.IsNaN(phi2) {
			lambda = h
			continue
		}
		c := (phi2 - 2*phi1 + phi0) / (2 * h * h)
		b := (4*phi1 - 3*phi0 - phi2) / (2 * h)
		if c <= 0 || math.IsNaN(c) {
			break
		}
		next := math.Min(math.Max(-b/(2*c), ls.MinLambda), ls.MaxLambda)
		converged := math.Abs(next-lambda) < 1e-6*lambda
		lambda = next
		if converged {
			break
		}
	}
	gnorm, err := ls.trial(eval, x, y, lambda)
	if err != nil {
		return 0, 0, err
	}
	if math.IsNaN(gnorm) {
		return lambda, fnorm, errLineSearch
	}
	ls.accept(x, f)
	return lambda, gnorm, nil
}

// criticalPoint 割线法求 F(x - lambda*y)·y = 0
func (ls *LineSearch) criticalPoint(eval residualFunc, x, f, y maths.Vector) (float64, float64, error) {
	lambda0, g0 := 0.0, f.DotProduct(y)
	lambda1 := 1.0
	gnorm, err := ls.trial(eval, x, y, lambda1)
	if err != nil {
		return 0, 0, err
	}
	g1 := ls.g.DotProduct(y)

	for i := 0; i < ls.CPSteps; i++ {
		if g1 == g0 || math.IsNaN(g1) {
			break
		}
		next := lambda1 - g1*(lambda1-lambda0)/(g1-g0)
		if math.IsNaN(next) || next <= 0 {
			break
		}
		next = math.Min(math.Max(next, ls.MinLambda), ls.MaxLambda)
		lambda0, g0 = lambda1, g1
		lambda1 = next
		gnorm, err = ls.trial(eval, x, y, lambda1)
		if err != nil {
			return 0, 0, err
		}
		g1 = ls.g.DotProduct(y)
	}
	if math.IsNaN(gnorm) {
		return lambda1, 0, errLineSearch
	}
	ls.accept(x, f)
	return lambda1, gnorm, nil
}
