package nlsolver

import "errors"

var (
	ErrUnknownSolverType = errors.New("nlsolver: unknown solver type")
	ErrUnknownLineSearch = errors.New("nlsolver: unknown line search type")
	ErrAlreadyConfigured = errors.New("nlsolver: engine already configured")
	ErrNotConfigured     = errors.New("nlsolver: engine not configured")
	ErrBusy              = errors.New("nlsolver: a solve is already in flight")
	ErrSizeMismatch      = errors.New("nlsolver: initial guess does not match system size")
	ErrInvalidConfig     = errors.New("nlsolver: invalid configuration")

	// errLineSearch 线搜索未找到可接受步长，映射为 DivergedLineSearch
	errLineSearch = errors.New("nlsolver: line search failed")
)
