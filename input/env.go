package input

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"

	"asfem/nlsolver"
)

// SolverEnvPrefix 非线性求解器环境变量前缀
const SolverEnvPrefix = "ASFEM_NLSOLVER_"

// ParseEnv 从环境变量读取配置
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// solverEnv 未设置的环境变量保持为 nil
type solverEnv struct {
	SolverType      *nlsolver.SolverType     `env:"SOLVER"`
	MaxIters        *int                     `env:"MAX_ITERS"`
	AbsTol          *float64                 `env:"ABS_TOL"`
	RelTol          *float64                 `env:"REL_TOL"`
	STol            *float64                 `env:"S_TOL"`
	LineSearchType  *nlsolver.LineSearchType `env:"LINE_SEARCH"`
	LineSearchOrder *int                     `env:"LINE_SEARCH_ORDER"`
}

// ApplySolverEnv 用 ASFEM_NLSOLVER_* 环境变量覆盖输入文件中的求解器配置
// environ 为 nil 时读取进程环境
func ApplySolverEnv(cfg *nlsolver.Config, environ map[string]string) error {
	var raw solverEnv
	opts := env.Options{Prefix: SolverEnvPrefix, Environment: environ}
	if err := env.ParseWithOptions(&raw, opts); err != nil {
		return envError(err)
	}
	next := *cfg
	override(&next.SolverType, raw.SolverType)
	override(&next.MaxIters, raw.MaxIters)
	override(&next.AbsTol, raw.AbsTol)
	override(&next.RelTol, raw.RelTol)
	override(&next.STol, raw.STol)
	override(&next.LineSearchType, raw.LineSearchType)
	override(&next.LineSearchOrder, raw.LineSearchOrder)
	*cfg = next
	return nil
}

func override[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// envError 展开 env 的解析错误，保留字段解析器返回的哨兵错误
func envError(err error) error {
	var pe env.ParseError
	if errors.As(err, &pe) {
		return fmt.Errorf("parse env: %s: %w", pe.Name, pe.Err)
	}
	return fmt.Errorf("parse env: %w", err)
}

// SolverConfigFromEnv 完全由环境变量给出的求解器配置，未设置的字段取默认值
func SolverConfigFromEnv(environ map[string]string) (nlsolver.Config, error) {
	var cfg nlsolver.Config
	opts := env.Options{Prefix: SolverEnvPrefix, Environment: environ}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return cfg, envError(err)
	}
	return cfg, nil
}
