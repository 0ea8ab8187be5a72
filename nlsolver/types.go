package nlsolver

import (
	"fmt"
	"strings"
)

// SolverType 输入文件中选择的非线性求解器
type SolverType int

const (
	NewtonRaphson SolverType = iota
	SNESNewtonLs
	SNESNewtonTr
	SNESLBfgs
	SNESBroyden
	SNESBadBroyden
	SNESNewtonCG
	SNESNewtonGMRES
)

var solverNames = map[SolverType]string{
	NewtonRaphson:   "newton",
	SNESNewtonLs:    "newtonls",
	SNESNewtonTr:    "newtontr",
	SNESLBfgs:       "lbfgs",
	SNESBroyden:     "broyden",
	SNESBadBroyden:  "badbroyden",
	SNESNewtonCG:    "newtoncg",
	SNESNewtonGMRES: "newtongmres",
}

// String 返回输入文件中的名称
func (t SolverType) String() string {
	if name, ok := solverNames[t]; ok {
		return name
	}
	return fmt.Sprintf("SolverType(%d)", int(t))
}

// ParseSolverType 解析求解器名称（大小写不敏感）
func ParseSolverType(name string) (SolverType, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "nr", "newtonraphson":
		return NewtonRaphson, nil
	case "ncg":
		return SNESNewtonCG, nil
	case "ngmres":
		return SNESNewtonGMRES, nil
	}
	for t, n := range solverNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSolverType, name)
}

// UnmarshalText 支持从环境变量等文本源解析
func (t *SolverType) UnmarshalText(text []byte) error {
	v, err := ParseSolverType(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// LineSearchType 输入文件中请求的线搜索类型
type LineSearchType int

const (
	LineSearchDefault LineSearchType = iota
	LineSearchBackTrace
	LineSearchCP
	LineSearchL2
	LineSearchBasic
)

var lineSearchNames = map[LineSearchType]string{
	LineSearchDefault:   "default",
	LineSearchBackTrace: "backtrace",
	LineSearchCP:        "cp",
	LineSearchL2:        "l2",
	LineSearchBasic:     "basic",
}

func (t LineSearchType) String() string {
	if name, ok := lineSearchNames[t]; ok {
		return name
	}
	return fmt.Sprintf("LineSearchType(%d)", int(t))
}

// ParseLineSearchType 解析线搜索名称，空字符串视为 default
func ParseLineSearchType(name string) (LineSearchType, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "":
		return LineSearchDefault, nil
	case "bt":
		return LineSearchBackTrace, nil
	case "none":
		return LineSearchBasic, nil
	}
	for t, n := range lineSearchNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownLineSearch, name)
}

// UnmarshalText 支持从环境变量等文本源解析
func (t *LineSearchType) UnmarshalText(text []byte) error {
	v, err := ParseLineSearchType(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// LineSearchStrategy 实际使用的线搜索策略
type LineSearchStrategy int

const (
	StrategyBasic LineSearchStrategy = iota
	StrategyBackTrace
	StrategyCriticalPoint
	StrategyL2
)

func (s LineSearchStrategy) String() string {
	switch s {
	case StrategyBasic:
		return "basic"
	case StrategyBackTrace:
		return "bt"
	case StrategyCriticalPoint:
		return "cp"
	case StrategyL2:
		return "l2"
	}
	return fmt.Sprintf("LineSearchStrategy(%d)", int(s))
}

// Method 外层迭代算法
type Method int

const (
	MethodNewtonLS Method = iota
	MethodNewtonTR
	MethodQN
	MethodNCG
	MethodNGMRES
)

func (m Method) String() string {
	switch m {
	case MethodNewtonLS:
		return "newtonls"
	case MethodNewtonTR:
		return "newtontr"
	case MethodQN:
		return "qn"
	case MethodNCG:
		return "ncg"
	case MethodNGMRES:
		return "ngmres"
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

// QNType 拟牛顿更新方式
type QNType int

const (
	QNNone QNType = iota
	QNLBFGS
	QNBroyden
	QNBadBroyden
)

func (q QNType) String() string {
	switch q {
	case QNNone:
		return "none"
	case QNLBFGS:
		return "lbfgs"
	case QNBroyden:
		return "broyden"
	case QNBadBroyden:
		return "badbroyden"
	}
	return fmt.Sprintf("QNType(%d)", int(q))
}

// ConvergedReason 求解结束原因，正数收敛，负数发散
type ConvergedReason int

const (
	ConvergedIterating     ConvergedReason = 0
	ConvergedFnormAbs      ConvergedReason = 2
	ConvergedFnormRelative ConvergedReason = 3
	ConvergedSnormRelative ConvergedReason = 4
	DivergedFunctionCount  ConvergedReason = -2
	DivergedLinearSolve    ConvergedReason = -3
	DivergedFnormNaN       ConvergedReason = -4
	DivergedMaxIt          ConvergedReason = -5
	DivergedLineSearch     ConvergedReason = -6
	DivergedTrDelta        ConvergedReason = -11
)

// Converged 是否为收敛原因
func (r ConvergedReason) Converged() bool {
	return r > 0
}

func (r ConvergedReason) String() string {
	switch r {
	case ConvergedIterating:
		return "CONVERGED_ITERATING"
	case ConvergedFnormAbs:
		return "CONVERGED_FNORM_ABS"
	case ConvergedFnormRelative:
		return "CONVERGED_FNORM_RELATIVE"
	case ConvergedSnormRelative:
		return "CONVERGED_SNORM_RELATIVE"
	case DivergedFunctionCount:
		return "DIVERGED_FUNCTION_COUNT"
	case DivergedLinearSolve:
		return "DIVERGED_LINEAR_SOLVE"
	case DivergedFnormNaN:
		return "DIVERGED_FNORM_NAN"
	case DivergedMaxIt:
		return "DIVERGED_MAX_IT"
	case DivergedLineSearch:
		return "DIVERGED_LINE_SEARCH"
	case DivergedTrDelta:
		return "DIVERGED_TR_DELTA"
	}
	return fmt.Sprintf("ConvergedReason(%d)", int(r))
}
