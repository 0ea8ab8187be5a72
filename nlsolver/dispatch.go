package nlsolver

// methodSpec 一种求解器类型对应的外层算法与线搜索配置
type methodSpec struct {
	method    Method
	qn        QNType
	defaultLS LineSearchStrategy  // 请求 Default 时使用
	preset    *LineSearchStrategy // 解析请求前先设置的类型
	setsOrder bool                // 分支内设置阶数
}

var presetL2 = StrategyL2

// methodTable 求解器类型 -> 外层算法
var methodTable = map[SolverType]methodSpec{
	NewtonRaphson:   {method: MethodNewtonLS, defaultLS: StrategyBasic, setsOrder: true},
	SNESNewtonLs:    {method: MethodNewtonLS, defaultLS: StrategyBackTrace, preset: &presetL2, setsOrder: true},
	SNESNewtonTr:    {method: MethodNewtonTR, defaultLS: StrategyBasic},
	SNESLBfgs:       {method: MethodQN, qn: QNLBFGS, defaultLS: StrategyCriticalPoint},
	SNESBroyden:     {method: MethodQN, qn: QNBroyden, defaultLS: StrategyBasic},
	SNESBadBroyden:  {method: MethodQN, qn: QNBadBroyden, defaultLS: StrategyL2},
	SNESNewtonCG:    {method: MethodNCG, defaultLS: StrategyCriticalPoint},
	SNESNewtonGMRES: {method: MethodNGMRES, defaultLS: StrategyL2},
}

// lineSearchTable 显式请求的线搜索与外层算法无关，一一对应
var lineSearchTable = map[LineSearchType]LineSearchStrategy{
	LineSearchBackTrace: StrategyBackTrace,
	LineSearchCP:        StrategyCriticalPoint,
	LineSearchL2:        StrategyL2,
	LineSearchBasic:     StrategyBasic,
}

// backendLineSearch 创建句柄时的默认类型
var backendLineSearch = map[Method]LineSearchStrategy{
	MethodNewtonLS: StrategyBackTrace,
	MethodNewtonTR: StrategyBasic,
	MethodQN:       StrategyCriticalPoint,
	MethodNCG:      StrategyCriticalPoint,
	MethodNGMRES:   StrategyBasic,
}

// fallbackSpec 未知求解器类型时保留的默认状态
var fallbackSpec = methodSpec{method: MethodNewtonLS, defaultLS: StrategyBackTrace}

// ResolveLineSearch 返回求解器类型与请求线搜索对应的实际策略
// Default 先按求解器的默认表解析；未知求解器类型返回默认状态且 ok 为 false
func ResolveLineSearch(solver SolverType, ls LineSearchType) (s LineSearchStrategy, ok bool) {
	spec, ok := methodTable[solver]
	if !ok {
		return backendLineSearch[fallbackSpec.method], false
	}
	return spec.resolve(ls), true
}

func (spec methodSpec) resolve(ls LineSearchType) LineSearchStrategy {
	if ls == LineSearchDefault {
		return spec.defaultLS
	}
	if s, ok := lineSearchTable[ls]; ok {
		return s
	}
	if spec.preset != nil {
		return *spec.preset
	}
	return backendLineSearch[spec.method]
}

// dispatch 按配置建立外层算法与线搜索句柄
// 阶数在设置阶数的分支内应用一次，分派结束后再无条件应用一次
func dispatch(cfg Config) (spec methodSpec, ls *LineSearch, fallback bool) {
	spec, known := methodTable[cfg.SolverType]
	if !known {
		spec = fallbackSpec
	}
	ls = newLineSearch()
	ls.SetStrategy(backendLineSearch[spec.method])
	if known {
		if spec.preset != nil {
			ls.SetStrategy(*spec.preset)
		}
		ls.SetStrategy(spec.resolve(cfg.LineSearchType))
		if spec.setsOrder {
			ls.SetOrder(cfg.LineSearchOrder)
		}
	}
	ls.SetOrder(cfg.LineSearchOrder)
	return spec, ls, !known
}
