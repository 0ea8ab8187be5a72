// Package asfem 一维有限元求解驱动：读取输入、组装问题并推进时间
package asfem

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"asfem/assembly"
	"asfem/bc"
	"asfem/fem"
	"asfem/input"
	"asfem/material"
	"asfem/maths"
	"asfem/message"
	"asfem/nlsolver"
	"asfem/output"
)

// 自适应步长参数
const (
	growAfter    = 10  // 连续成功步数超过此值后放大步长
	growFactor   = 1.2 // 放大系数
	shrinkFactor = 1.5 // 失败后缩小系数
	MaxFailures  = 50  // 同一时间点允许的最大失败次数
)

var (
	ErrNotConverged    = errors.New("asfem: nonlinear solve did not converge")
	ErrTooManyFailures = errors.New("asfem: too many failed time steps")
	ErrUnknownBoundary = errors.New("asfem: unknown boundary")
)

// Simulation 一次完整计算
type Simulation struct {
	Input   *input.Input
	Mesh    *fem.Mesh1D
	Problem *fem.Problem
	Engine  *nlsolver.Engine
	History *nlsolver.History
	Output  *output.System
	U       maths.Vector // 当前解

	Time float64 // 已完成的时间
	Step int     // 已完成的步数
	Dt   float64 // 最近一次成功的步长

	tracer trace.Tracer
}

// Load 读取输入文件并建立计算
func Load(path string) (*Simulation, error) {
	in, err := input.Load(path)
	if err != nil {
		return nil, err
	}
	return New(in)
}

// New 由解析后的输入建立计算，求解器配置可被 ASFEM_NLSOLVER_* 环境变量覆盖
func New(in *input.Input) (*Simulation, error) {
	mesh, err := fem.NewMesh1D(in.Mesh.Nx, in.Mesh.XMin, in.Mesh.XMax, in.Mesh.Order)
	if err != nil {
		return nil, err
	}
	kernel, err := assembly.New(in.Kernel.Type, in.Kernel.Params)
	if err != nil {
		return nil, err
	}
	var mate material.Material
	if in.Material != nil {
		if mate, err = material.New(in.Material.Type, in.Material.Params); err != nil {
			return nil, err
		}
	}
	bcs, err := buildBCs(in.BCs, mesh)
	if err != nil {
		return nil, err
	}
	prob, err := fem.NewProblem(mesh, kernel, mate, bcs, in.QPoints)
	if err != nil {
		return nil, err
	}

	cfg := in.NLSolver
	if err := input.ApplySolverEnv(&cfg, nil); err != nil {
		return nil, err
	}
	hist := &nlsolver.History{}
	engine := nlsolver.NewEngine(nlsolver.WithMonitor(hist))
	if err := engine.Init(cfg); err != nil {
		return nil, err
	}
	if engine.Settings().Fallback {
		message.PrintWarningTxt(fmt.Sprintf("未知求解器 %s，使用默认 newtonls", cfg.SolverType))
	}

	out := output.NewSystem()
	if err := out.InitFromBlock(in.Output); err != nil {
		return nil, err
	}
	if err := out.Init(mesh.Nodes, hist); err != nil {
		return nil, err
	}

	sim := &Simulation{
		Input:   in,
		Mesh:    mesh,
		Problem: prob,
		Engine:  engine,
		History: hist,
		Output:  out,
		U:       maths.NewDenseVector(prob.Size()),
		tracer:  otel.Tracer("asfem"),
	}
	sim.initialCondition()
	return sim, nil
}

// buildBCs 把 left/right 边界映射到首末节点
func buildBCs(blocks []input.BCBlock, mesh *fem.Mesh1D) (bc.Set, error) {
	var set bc.Set
	for i, b := range blocks {
		dof := b.DofID
		switch b.Boundary {
		case "left":
			dof = 1
		case "right":
			dof = mesh.NNodes()
		case "":
		default:
			return nil, fmt.Errorf("%w: bcs[%d] %q", ErrUnknownBoundary, i, b.Boundary)
		}
		c, err := bc.New(b.Type, dof, b.Params)
		if err != nil {
			return nil, fmt.Errorf("bcs[%d]: %w", i, err)
		}
		set = append(set, c)
	}
	return set, nil
}

// initialCondition 常数加均匀随机扰动，再施加 t=0 的边界值
func (s *Simulation) initialCondition() {
	ic := s.Input.IC
	r := rand.New(rand.NewSource(ic.Seed))
	for i := 0; i < s.U.Length(); i++ {
		v := ic.Value
		if ic.Random != 0 {
			v += ic.Random * (2*r.Float64() - 1)
		}
		s.U.Set(i, v)
	}
	s.Problem.Time = 0
	s.Problem.Impose(s.U)
	s.U.Copy(s.Problem.UOld)
}

// Run 执行计算：dt 为 0 时求一次稳态解，否则隐式时间推进到 endtime
func (s *Simulation) Run(ctx context.Context) (err error) {
	ctx, span := s.tracer.Start(ctx, "asfem.Run", trace.WithAttributes(
		attribute.String("asfem.kernel", s.Input.Kernel.Type),
		attribute.Int("asfem.dofs", s.Problem.Size()),
	))
	defer func() {
		span.SetAttributes(attribute.Int("asfem.steps", s.Step))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if s.Input.Time.Dt == 0 {
		err = s.steady(ctx)
	} else {
		err = s.transient(ctx)
	}
	if err != nil {
		return err
	}
	return s.Output.Finish()
}

func (s *Simulation) steady(ctx context.Context) error {
	p := s.Problem
	p.Time, p.Dt = 0, 0
	p.Impose(s.U)
	res, err := s.Engine.Solve(ctx, p, s.U)
	if err != nil {
		return err
	}
	if !res.Converged {
		return fmt.Errorf("%w: %s after %d iterations", ErrNotConverged, res.Reason, res.Iterations)
	}
	message.PrintInfoTxt(fmt.Sprintf("稳态求解完成: %d 次迭代, |R|=%.6e, %s", res.Iterations, res.FNorm, res.Reason))
	return s.Output.Write(0, 0, s.U, p.VolumeIntegral(s.U))
}

// transient 隐式欧拉时间推进，失败时回退到上一步的解
func (s *Simulation) transient(ctx context.Context) error {
	p, tb := s.Problem, s.Input.Time
	if err := s.Output.Write(0, 0, s.U, p.VolumeIntegral(s.U)); err != nil {
		return err
	}
	dt := tb.Dt
	if tb.Adaptive {
		dt = math.Min(math.Max(dt, tb.DtMin), tb.DtMax)
	}
	var good, failures int
	end := tb.EndTime * (1 - 1e-12)
	for s.Time < end {
		if err := ctx.Err(); err != nil {
			return err
		}
		// 尝试增加步进长度
		if tb.Adaptive && good > growAfter && dt < tb.DtMax {
			dt = math.Min(dt*growFactor, tb.DtMax)
			good = 0
		}
		step := math.Min(dt, tb.EndTime-s.Time)
		p.Time, p.Dt = s.Time+step, step
		p.Impose(s.U)

		res, err := s.Engine.Solve(ctx, p, s.U)
		if err != nil {
			return err
		}
		if res.Converged {
			s.Time += step
			s.Step++
			s.Dt = step
			good++
			failures = 0
			s.U.Copy(p.UOld)
			message.PrintInfoTxt(fmt.Sprintf("step %d, t=%.6e, dt=%.3e, %d 次迭代", s.Step, s.Time, step, res.Iterations))
			if err := s.Output.Write(s.Step, s.Time, s.U, p.VolumeIntegral(s.U)); err != nil {
				return err
			}
			continue
		}

		// 失败不更新
		p.UOld.Copy(s.U)
		good = 0
		failures++
		if !tb.Adaptive || dt <= tb.DtMin {
			return fmt.Errorf("%w: t=%g, dt=%g, %s", ErrNotConverged, p.Time, step, res.Reason)
		}
		if failures > MaxFailures {
			return fmt.Errorf("%w: t=%g", ErrTooManyFailures, s.Time)
		}
		dt = math.Max(dt/shrinkFactor, tb.DtMin)
		message.PrintWarningTxt(fmt.Sprintf("t=%.6e 未收敛 (%s)，步长减小到 %.3e", p.Time, res.Reason, dt))
	}
	return nil
}
