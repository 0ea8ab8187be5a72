package local

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// dense 以 gonum 稠密矩阵包装数据副本
func (a *Matrix) dense() *mat.Dense {
	vals := make([]float64, len(a.vals))
	copy(vals, a.vals)
	return mat.NewDense(a.m, a.n, vals)
}

// Inverse 返回逆矩阵（LU 分解），接收者不变
// 非方阵返回 ErrNotSquare；分解报告奇异或病态时返回 ErrSingular
func (a *Matrix) Inverse() (*Matrix, error) {
	if a.m != a.n {
		return nil, unary("Inverse", ErrNotSquare, a.m, a.n)
	}
	if a.m == 0 {
		return &Matrix{}, nil
	}
	var inv mat.Dense
	if err := inv.Inverse(a.dense()); err != nil {
		var cond mat.Condition
		if errors.As(err, &cond) {
			return nil, fmt.Errorf("%w (condition number %g)", unary("Inverse", ErrSingular, a.m, a.n), float64(cond))
		}
		return nil, err
	}
	out := NewMatrix(a.m, a.n)
	copy(out.vals, inv.RawMatrix().Data)
	return out, nil
}

// Det 行列式（与 Inverse 相同的 LU 分解）
func (a *Matrix) Det() (float64, error) {
	if a.m != a.n {
		return 0, unary("Det", ErrNotSquare, a.m, a.n)
	}
	if a.m == 0 {
		return 1, nil
	}
	var lu mat.LU
	lu.Factorize(a.dense())
	return lu.Det(), nil
}
