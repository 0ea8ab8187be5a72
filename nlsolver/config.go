package nlsolver

import "fmt"

// Config 非线性求解器配置，由输入文件解析后交给 Engine.Init 使用一次
type Config struct {
	SolverType      SolverType     `env:"SOLVER" envDefault:"newton"`
	MaxIters        int            `env:"MAX_ITERS" envDefault:"25"`
	AbsTol          float64        `env:"ABS_TOL" envDefault:"5e-7"`
	RelTol          float64        `env:"REL_TOL" envDefault:"1e-9"`
	STol            float64        `env:"S_TOL" envDefault:"0"`
	LineSearchType  LineSearchType `env:"LINE_SEARCH" envDefault:"default"`
	LineSearchOrder int            `env:"LINE_SEARCH_ORDER" envDefault:"2"`
}

// DefaultConfig 默认配置
func DefaultConfig() Config {
	return Config{
		SolverType:      NewtonRaphson,
		MaxIters:        25,
		AbsTol:          5e-7,
		RelTol:          1e-9,
		STol:            0,
		LineSearchType:  LineSearchDefault,
		LineSearchOrder: 2,
	}
}

// Validate 检查数值范围，求解器类型不在此检查
func (c Config) Validate() error {
	switch {
	case c.MaxIters < 1:
		return fmt.Errorf("%w: max iterations %d", ErrInvalidConfig, c.MaxIters)
	case c.AbsTol < 0 || c.RelTol < 0 || c.STol < 0:
		return fmt.Errorf("%w: negative tolerance", ErrInvalidConfig)
	}
	return nil
}
