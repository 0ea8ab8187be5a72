// Package nlsolver 非线性求解器的配置分派与迭代
//
// Engine 的生命周期分两步：Init 使用一次配置建立外层算法、线搜索与内层线性求解，
// 之后可多次调用 Solve。同一个 Engine 同一时刻只允许一个 Solve。
package nlsolver

import (
	"context"
	"fmt"
	"slices"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"asfem/maths"
)

// Settings Init 之后的求解器状态快照
type Settings struct {
	SolverType        SolverType
	Method            Method
	QN                QNType
	LineSearch        LineSearchStrategy   // 最终线搜索类型
	LineSearchTypes   []LineSearchStrategy // 依次设置过的线搜索类型
	LineSearchOrder   int
	OrderApplications int // 阶数被设置的次数
	Tolerances        Tolerances
	KSPRestart        int
	KSPAbsTol         float64
	KSPRelTol         float64
	KSPMaxIt          int
	PC                maths.PCType
	Fallback          bool // 未知求解器类型，保留默认状态
}

// Engine 非线性求解引擎
type Engine struct {
	cfg        Config
	settings   Settings
	spec       methodSpec
	ls         *LineSearch
	ksp        *maths.KSP
	mon        Monitor
	tracer     trace.Tracer
	configured bool
	busy       atomic.Bool
}

// Option 引擎选项
type Option func(*Engine)

// WithMonitor 设置迭代监视器
func WithMonitor(m Monitor) Option {
	return func(e *Engine) { e.mon = m }
}

// WithTracer 设置 tracer，默认使用全局 provider
func WithTracer(t trace.Tracer) Option {
	return func(e *Engine) { e.tracer = t }
}

// NewEngine 创建未配置的引擎
func NewEngine(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	if e.tracer == nil {
		e.tracer = otel.Tracer("asfem/nlsolver")
	}
	return e
}

// Init 按配置建立求解器，只能成功调用一次
func (e *Engine) Init(cfg Config) error {
	if e.configured {
		return ErrAlreadyConfigured
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	ksp := maths.NewKSP()
	spec, ls, fallback := dispatch(cfg)

	e.cfg = cfg
	e.spec = spec
	e.ls = ls
	e.ksp = ksp
	e.settings = Settings{
		SolverType:        cfg.SolverType,
		Method:            spec.method,
		QN:                spec.qn,
		LineSearch:        ls.Strategy(),
		LineSearchTypes:   slices.Clone(ls.types),
		LineSearchOrder:   ls.Order(),
		OrderApplications: ls.orderSets,
		Tolerances: Tolerances{
			AbsTol:           cfg.AbsTol,
			RelTol:           cfg.RelTol,
			STol:             cfg.STol,
			MaxIt:            cfg.MaxIters,
			MaxFunctionEvals: -1,
		},
		KSPRestart: ksp.Restart,
		KSPAbsTol:  ksp.AbsTol,
		KSPRelTol:  ksp.RelTol,
		KSPMaxIt:   ksp.MaxIt,
		PC:         ksp.PC,
		Fallback:   fallback,
	}
	e.configured = true
	return nil
}

// Configured 是否已 Init
func (e *Engine) Configured() bool { return e.configured }

// Settings 返回配置快照
func (e *Engine) Settings() Settings {
	s := e.settings
	s.LineSearchTypes = slices.Clone(s.LineSearchTypes)
	return s
}

// Config 返回 Init 使用的配置
func (e *Engine) Config() Config { return e.cfg }

// Solve 从初值 x 出发求解 sys，x 就地更新为最终迭代值
// 未收敛不是错误，通过 Result.Reason 报告；回调失败返回错误
func (e *Engine) Solve(ctx context.Context, sys System, x maths.Vector) (Result, error) {
	if !e.configured {
		return Result{}, ErrNotConfigured
	}
	if !e.busy.CompareAndSwap(false, true) {
		return Result{}, ErrBusy
	}
	defer e.busy.Store(false)
	if sys.Size() != x.Length() {
		return Result{}, fmt.Errorf("%w: system %d, x %d", ErrSizeMismatch, sys.Size(), x.Length())
	}

	_, span := e.tracer.Start(ctx, "nlsolver.Solve", trace.WithAttributes(
		attribute.String("nlsolver.type", e.cfg.SolverType.String()),
		attribute.String("nlsolver.method", e.spec.method.String()),
		attribute.String("nlsolver.linesearch", e.ls.Strategy().String()),
		attribute.Int("nlsolver.dofs", x.Length()),
	))
	defer span.End()

	s := &solver{
		sys: sys,
		tol: e.settings.Tolerances,
		ksp: e.ksp,
		ls:  e.ls,
		mon: e.mon,
		J:   sys.NewJacobian(),
	}
	var err error
	switch e.spec.method {
	case MethodNewtonLS:
		err = s.newtonLS(x)
	case MethodNewtonTR:
		err = s.newtonTR(x)
	case MethodQN:
		err = s.quasiNewton(x, e.spec.qn)
	case MethodNCG:
		err = s.ncg(x)
	case MethodNGMRES:
		err = s.ngmres(x)
	}
	s.res.Converged = s.res.Reason.Converged()

	span.SetAttributes(
		attribute.Int("nlsolver.iterations", s.res.Iterations),
		attribute.Int("nlsolver.function_evals", s.res.FunctionEvals),
		attribute.Int("nlsolver.linear_iterations", s.res.LinearIterations),
		attribute.Float64("nlsolver.fnorm", s.res.FNorm),
		attribute.String("nlsolver.reason", s.res.Reason.String()),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if e.mon != nil {
		e.mon.Done(s.res)
	}
	return s.res, err
}
