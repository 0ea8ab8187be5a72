package asfem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"asfem/assembly"
	"asfem/bc"
	"asfem/input"
	"asfem/nlsolver"
)

// writeInput 在临时目录写出输入文件，output 目录指向同一临时目录
func writeInput(t *testing.T, body string) (path, dir string) {
	t.Helper()
	dir = t.TempDir()
	path = filepath.Join(dir, "input.json")
	data := fmt.Sprintf(body, filepath.ToSlash(filepath.Join(dir, "out")))
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path, filepath.Join(dir, "out")
}

const steadyInput = `{
	"mesh": {"nx": 10, "xmin": 0, "xmax": 2, "order": 1},
	"kernel": {"type": "diffusion", "params": [1]},
	"bcs": [
		{"type": "dirichlet", "boundary": "left", "params": [0]},
		{"type": "dirichlet", "boundary": "right", "params": [1]}
	],
	"nlsolver": {"type": "newton"},
	"output": {"type": "csv", "dir": %q}
}`

func TestSteadyDiffusion(t *testing.T) {
	path, out := writeInput(t, steadyInput)
	sim, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, sim.Run(context.Background()))

	for i, x := range sim.Mesh.Nodes {
		assert.InDelta(t, x/2, sim.U.Get(i), 1e-9)
	}
	assert.Equal(t, 0, sim.Step)
	assert.FileExists(t, filepath.Join(out, "step-000000.csv"))
	assert.FileExists(t, filepath.Join(out, "record.json"))
	require.Equal(t, 1, sim.Output.Record().Len())
	assert.InDelta(t, 1, sim.Output.Record().Integrals[0], 1e-9)

	last, ok := sim.History.Last()
	require.True(t, ok)
	assert.True(t, last.Reason.Converged())
}

const allenCahnInput = `{
	"mesh": {"nx": 10, "order": 1},
	"kernel": {"type": "allencahn"},
	"material": {"type": "doublewell", "params": [0, 1, 1]},
	"ics": {"value": 0.8},
	"nlsolver": {"type": "newtonls", "linesearch": "bt"},
	"timestepping": {"dt": 0.5, "endtime": 5},
	"output": {"type": "csv", "interval": 2, "dir": %q}
}`

func TestTransientAllenCahn(t *testing.T) {
	path, out := writeInput(t, allenCahnInput)
	sim, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, sim.Run(context.Background()))

	assert.Equal(t, 10, sim.Step)
	assert.InDelta(t, 5, sim.Time, 1e-12)
	assert.Equal(t, 11, sim.Output.Record().Len())
	assert.Len(t, sim.History.Solves, 10)
	for i := range sim.Mesh.Nodes {
		u := sim.U.Get(i)
		assert.Greater(t, u, 0.8)
		assert.LessOrEqual(t, u, 1+1e-9)
	}
	// 积分随时间增大
	ints := sim.Output.Record().Integrals
	for k := 1; k < len(ints); k++ {
		assert.Greater(t, ints[k], ints[k-1])
	}
	assert.FileExists(t, filepath.Join(out, "step-000004.csv"))
	assert.NoFileExists(t, filepath.Join(out, "step-000003.csv"))
}

func TestCyclicDirichletFollowsTime(t *testing.T) {
	path, _ := writeInput(t, `{
	"mesh": {"nx": 4, "order": 2},
	"kernel": {"type": "diffusion"},
	"bcs": [
		{"type": "cyclicdirichlet", "boundary": "left", "params": [0, 1, 2, 0, 1, 0]},
		{"type": "dirichlet", "boundary": "right", "params": [0]}
	],
	"timestepping": {"dt": 0.25, "endtime": 1},
	"output": {"dir": %q}
}`)
	sim, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, sim.Run(context.Background()))

	assert.Equal(t, 4, sim.Step)
	assert.InDelta(t, 1, sim.U.Get(0), 1e-9)
	assert.InDelta(t, 0, sim.U.Get(sim.Problem.Size()-1), 1e-9)
}

func TestAdaptiveStepGrows(t *testing.T) {
	path, _ := writeInput(t, `{
	"mesh": {"nx": 5},
	"kernel": {"type": "diffusion"},
	"bcs": [{"type": "dirichlet", "boundary": "left", "params": [1]}],
	"timestepping": {"dt": 0.01, "endtime": 1, "adaptive": true, "dtmax": 0.1},
	"output": {"interval": 1000, "dir": %q}
}`)
	sim, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, sim.Run(context.Background()))

	assert.InDelta(t, 1, sim.Time, 1e-9)
	assert.Less(t, sim.Step, 100)
}

func TestSolverEnvOverride(t *testing.T) {
	t.Setenv(input.SolverEnvPrefix+"SOLVER", "newtontr")
	t.Setenv(input.SolverEnvPrefix+"MAX_ITERS", "40")
	path, _ := writeInput(t, steadyInput)
	sim, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, nlsolver.MethodNewtonTR, sim.Engine.Settings().Method)
	assert.Equal(t, 40, sim.Engine.Config().MaxIters)
	require.NoError(t, sim.Run(context.Background()))
	assert.InDelta(t, 0.5, sim.U.Get(5), 1e-8)
}

func TestNotConverged(t *testing.T) {
	path, _ := writeInput(t, `{
	"mesh": {"nx": 10},
	"kernel": {"type": "allencahn"},
	"material": {"type": "doublewell", "params": [0, 1, 1]},
	"ics": {"value": 0.6},
	"nlsolver": {"type": "newton", "maxiters": 1, "rel-tolerance": 1e-14},
	"timestepping": {"dt": 1, "endtime": 2},
	"output": {"dir": %q}
}`)
	sim, err := Load(path)
	require.NoError(t, err)
	err = sim.Run(context.Background())
	assert.ErrorIs(t, err, ErrNotConverged)
	assert.Equal(t, 0, sim.Step)
	// 失败后回退到初值
	assert.InDelta(t, 0.6, sim.U.Get(3), 1e-15)
}

func TestRunCancelled(t *testing.T) {
	path, _ := writeInput(t, allenCahnInput)
	sim, err := Load(path)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sim.Run(ctx), context.Canceled)
	assert.Equal(t, 0, sim.Step)
}

func TestInitialCondition(t *testing.T) {
	in := &input.Input{
		Mesh:     input.MeshBlock{Nx: 20, XMax: 1, Order: 1},
		Kernel:   input.Block{Type: "diffusion"},
		BCs:      []input.BCBlock{{Type: "dirichlet", Boundary: "right", Params: []float64{3}}},
		IC:       input.ICBlock{Value: 0.5, Random: 0.1, Seed: 7},
		QPoints:  2,
		NLSolver: nlsolver.DefaultConfig(),
		Output:   input.OutputBlock{Type: "csv", Interval: 1, Dir: t.TempDir()},
	}
	a, err := New(in)
	require.NoError(t, err)
	b, err := New(in)
	require.NoError(t, err)

	n := a.Problem.Size()
	assert.Equal(t, 3.0, a.U.Get(n-1))
	for i := 0; i < n-1; i++ {
		assert.InDelta(t, 0.5, a.U.Get(i), 0.1)
		assert.Equal(t, a.U.Get(i), b.U.Get(i))
		assert.Equal(t, a.U.Get(i), a.Problem.UOld.Get(i))
	}
}

func TestNewErrors(t *testing.T) {
	base := func() *input.Input {
		return &input.Input{
			Mesh:     input.MeshBlock{Nx: 4, XMax: 1, Order: 1},
			Kernel:   input.Block{Type: "diffusion"},
			QPoints:  2,
			NLSolver: nlsolver.DefaultConfig(),
			Output:   input.OutputBlock{Type: "csv", Interval: 1, Dir: t.TempDir()},
		}
	}

	in := base()
	in.BCs = []input.BCBlock{{Type: "dirichlet", Boundary: "top", Params: []float64{0}}}
	_, err := New(in)
	assert.ErrorIs(t, err, ErrUnknownBoundary)

	in = base()
	in.Kernel.Type = "elasticity"
	_, err = New(in)
	assert.ErrorIs(t, err, assembly.ErrUnknownKernel)

	in = base()
	in.BCs = []input.BCBlock{{Type: "neumann", Boundary: "left"}}
	_, err = New(in)
	assert.ErrorIs(t, err, bc.ErrInvalidBC)

	in = base()
	in.Mesh.Nx = 0
	_, err = New(in)
	assert.Error(t, err)
}
