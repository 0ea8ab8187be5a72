package input

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"asfem/nlsolver"
)

const allenCahnInput = `{
  "mesh": {"nx": 40, "xmin": 0, "xmax": 2, "order": 2},
  "kernel": {"type": "AllenCahn"},
  "material": {"type": "doublewell", "params": [0, 1, 1, 1, 0.01]},
  "bcs": [
    {"type": "dirichlet", "boundary": "left", "params": [0]},
    {"type": "cyclicdirichlet", "dof": 81, "params": [0, 1, 2, 0, 1, 0]}
  ],
  "ics": {"value": 0.5, "random": 0.05, "seed": 7},
  "nlsolver": {
    "type": "newtonls",
    "maxiters": 50,
    "abs-tolerance": 1e-8,
    "rel-tolerance": 1e-10,
    "linesearch": "bt",
    "linesearchorder": 3
  },
  "timestepping": {"dt": 0.01, "endtime": 1, "adaptive": true},
  "output": {"type": "HTML", "interval": 5, "dir": "results"}
}`

func TestParseFull(t *testing.T) {
	in, err := Parse([]byte(allenCahnInput))
	require.NoError(t, err)

	assert.Equal(t, MeshBlock{Nx: 40, XMin: 0, XMax: 2, Order: 2}, in.Mesh)
	assert.Equal(t, Block{Type: "allencahn"}, in.Kernel)
	require.NotNil(t, in.Material)
	assert.Equal(t, []float64{0, 1, 1, 1, 0.01}, in.Material.Params)
	require.Len(t, in.BCs, 2)
	assert.Equal(t, "left", in.BCs[0].Boundary)
	assert.Equal(t, 81, in.BCs[1].DofID)
	assert.Equal(t, ICBlock{Value: 0.5, Random: 0.05, Seed: 7}, in.IC)
	assert.Equal(t, 3, in.QPoints)

	assert.Equal(t, nlsolver.Config{
		SolverType:      nlsolver.SNESNewtonLs,
		MaxIters:        50,
		AbsTol:          1e-8,
		RelTol:          1e-10,
		STol:            0,
		LineSearchType:  nlsolver.LineSearchBackTrace,
		LineSearchOrder: 3,
	}, in.NLSolver)

	assert.Equal(t, 0.01, in.Time.Dt)
	assert.Equal(t, 1.0, in.Time.EndTime)
	assert.True(t, in.Time.Adaptive)
	assert.InDelta(t, 1e-5, in.Time.DtMin, 1e-18)
	assert.InDelta(t, 10, in.Time.DtMax, 1e-12)
	assert.Equal(t, OutputBlock{Type: "html", Interval: 5, Dir: "results"}, in.Output)
}

func TestParseDefaults(t *testing.T) {
	in, err := Parse([]byte(`{"mesh": {}, "kernel": {"type": "diffusion"}}`))
	require.NoError(t, err)
	assert.Equal(t, MeshBlock{Nx: 10, XMin: 0, XMax: 1, Order: 1}, in.Mesh)
	assert.Nil(t, in.Material)
	assert.Empty(t, in.BCs)
	assert.Equal(t, nlsolver.DefaultConfig(), in.NLSolver)
	assert.Equal(t, TimeBlock{}, in.Time)
	assert.Equal(t, OutputBlock{Type: "csv", Interval: 1, Dir: "output"}, in.Output)
	assert.Equal(t, 2, in.QPoints)
}

func TestParseErrors(t *testing.T) {
	for name, doc := range map[string]string{
		"malformed":      `{"mesh": `,
		"no mesh":        `{"kernel": {"type": "diffusion"}}`,
		"no kernel":      `{"mesh": {}}`,
		"bc without dof": `{"mesh": {}, "kernel": {"type": "diffusion"}, "bcs": [{"type": "dirichlet"}]}`,
		"no endtime":     `{"mesh": {}, "kernel": {"type": "diffusion"}, "timestepping": {"dt": 0.1}}`,
		"bad interval":   `{"mesh": {}, "kernel": {"type": "diffusion"}, "output": {"interval": 0}}`,
	} {
		_, err := Parse([]byte(doc))
		assert.ErrorIs(t, err, ErrInvalidInput, name)
	}

	_, err := Parse([]byte(`{"mesh": {}, "kernel": {"type": "diffusion"}, "nlsolver": {"type": "jfnk"}}`))
	assert.ErrorIs(t, err, nlsolver.ErrUnknownSolverType)
	_, err = Parse([]byte(`{"mesh": {}, "kernel": {"type": "diffusion"}, "nlsolver": {"linesearch": "wolfe"}}`))
	assert.ErrorIs(t, err, nlsolver.ErrUnknownLineSearch)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "case.json")
	require.NoError(t, os.WriteFile(path, []byte(allenCahnInput), 0o644))
	in, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 40, in.Mesh.Nx)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestApplySolverEnv(t *testing.T) {
	cfg := nlsolver.DefaultConfig()
	cfg.MaxIters = 40
	require.NoError(t, ApplySolverEnv(&cfg, map[string]string{
		"ASFEM_NLSOLVER_SOLVER":      "lbfgs",
		"ASFEM_NLSOLVER_ABS_TOL":     "1e-12",
		"ASFEM_NLSOLVER_LINE_SEARCH": "l2",
	}))
	assert.Equal(t, nlsolver.SNESLBfgs, cfg.SolverType)
	assert.Equal(t, 1e-12, cfg.AbsTol)
	assert.Equal(t, nlsolver.LineSearchL2, cfg.LineSearchType)
	assert.Equal(t, 40, cfg.MaxIters)
	assert.Equal(t, 1e-9, cfg.RelTol)

	before := cfg
	err := ApplySolverEnv(&cfg, map[string]string{"ASFEM_NLSOLVER_MAX_ITERS": "many"})
	assert.Error(t, err)
	assert.Equal(t, before, cfg)
	assert.ErrorIs(t, ApplySolverEnv(&cfg, map[string]string{"ASFEM_NLSOLVER_SOLVER": "jfnk"}), nlsolver.ErrUnknownSolverType)
}

func TestApplySolverEnvTypedFields(t *testing.T) {
	cfg := nlsolver.DefaultConfig()
	cfg.STol = 1e-8
	require.NoError(t, ApplySolverEnv(&cfg, map[string]string{
		"ASFEM_NLSOLVER_SOLVER":            "badbroyden",
		"ASFEM_NLSOLVER_MAX_ITERS":         "7",
		"ASFEM_NLSOLVER_REL_TOL":           "1e-6",
		"ASFEM_NLSOLVER_LINE_SEARCH_ORDER": "3",
	}))
	want := nlsolver.DefaultConfig()
	want.SolverType = nlsolver.SNESBadBroyden
	want.MaxIters = 7
	want.RelTol = 1e-6
	want.STol = 1e-8
	want.LineSearchOrder = 3
	assert.Equal(t, want, cfg)

	require.NoError(t, ApplySolverEnv(&cfg, map[string]string{}))
	assert.Equal(t, want, cfg)

	err := ApplySolverEnv(&cfg, map[string]string{"ASFEM_NLSOLVER_LINE_SEARCH": "wolfe"})
	assert.ErrorIs(t, err, nlsolver.ErrUnknownLineSearch)
	assert.Contains(t, err.Error(), "LineSearchType")
	assert.Equal(t, want, cfg)

	_, err = SolverConfigFromEnv(map[string]string{"ASFEM_NLSOLVER_SOLVER": "jfnk"})
	assert.ErrorIs(t, err, nlsolver.ErrUnknownSolverType)
}

func TestSolverConfigFromEnv(t *testing.T) {
	cfg, err := SolverConfigFromEnv(map[string]string{})
	require.NoError(t, err)
	assert.Equal(t, nlsolver.DefaultConfig(), cfg)

	cfg, err = SolverConfigFromEnv(map[string]string{
		"ASFEM_NLSOLVER_SOLVER":            "newtongmres",
		"ASFEM_NLSOLVER_LINE_SEARCH_ORDER": "1",
	})
	require.NoError(t, err)
	assert.Equal(t, nlsolver.SNESNewtonGMRES, cfg.SolverType)
	assert.Equal(t, 1, cfg.LineSearchOrder)
}
