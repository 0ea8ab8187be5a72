package material

import "fmt"

// DoubleWell 双势阱自由能 F = factor (c-ca)^2 (c-cb)^2
// 同时给出 Allen-Cahn 所需的 L 与 kappa
type DoubleWell struct {
	CA, CB, Factor float64
	L, Kappa       float64
}

// NewDoubleWell 参数 [ca, cb, factor] 或 [ca, cb, factor, L, kappa]，L 与 kappa 缺省为 1
func NewDoubleWell(params []float64) (*DoubleWell, error) {
	if len(params) != 3 && len(params) != 5 {
		return nil, fmt.Errorf("%w: doublewell expects 3 or 5 parameters, got %d", ErrInvalidParams, len(params))
	}
	dw := &DoubleWell{CA: params[0], CB: params[1], Factor: params[2], L: 1, Kappa: 1}
	if len(params) == 5 {
		dw.L, dw.Kappa = params[3], params[4]
	}
	if dw.L < 0 || dw.Kappa < 0 {
		return nil, fmt.Errorf("%w: doublewell L=%g kappa=%g", ErrInvalidParams, dw.L, dw.Kappa)
	}
	return dw, nil
}

func (dw *DoubleWell) F(c float64) float64 {
	a, b := c-dw.CA, c-dw.CB
	return dw.Factor * a * a * b * b
}

func (dw *DoubleWell) DFDC(c float64) float64 {
	a, b := c-dw.CA, c-dw.CB
	return 2 * dw.Factor * a * b * (a + b)
}

func (dw *DoubleWell) D2FDC2(c float64) float64 {
	a, b := c-dw.CA, c-dw.CB
	return 2 * dw.Factor * (a*a + 4*a*b + b*b)
}

// Compute 写入 F、dFdc、d2Fdc2、L、kappa
func (dw *DoubleWell) Compute(c float64, mate *Materials) {
	mate.SetScalar(PropF, dw.F(c))
	mate.SetScalar(PropDFDC, dw.DFDC(c))
	mate.SetScalar(PropD2FDC2, dw.D2FDC2(c))
	mate.SetScalar(PropL, dw.L)
	mate.SetScalar(PropKappa, dw.Kappa)
}

// ConstantDiffusion 常扩散系数
type ConstantDiffusion struct {
	D float64
}

// NewConstantDiffusion 参数 [D]
func NewConstantDiffusion(params []float64) (*ConstantDiffusion, error) {
	if len(params) != 1 {
		return nil, fmt.Errorf("%w: constdiffusion expects 1 parameter, got %d", ErrInvalidParams, len(params))
	}
	if params[0] < 0 {
		return nil, fmt.Errorf("%w: negative diffusivity %g", ErrInvalidParams, params[0])
	}
	return &ConstantDiffusion{D: params[0]}, nil
}

func (cd *ConstantDiffusion) Compute(c float64, mate *Materials) {
	mate.SetScalar(PropD, cd.D)
}
