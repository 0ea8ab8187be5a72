package maths

import (
	"fmt"
	"math"
)

// NewLU 创建稠密矩阵LU分解器（输入矩阵维度n）
// 参数:
//
//	n - 矩阵维度（必须为正整数）
//
// 返回:
//
//	LU接口实例，错误信息
func NewLU(n int) (LU, error) {
	if n < 1 {
		return nil, fmt.Errorf("lu dimension must be positive: %w", ErrDimensionMismatch)
	}
	return &luFactor{
		n:        n,
		sparse:   false,
		L:        NewDenseMatrix(n, n),
		U:        NewDenseMatrix(n, n),
		Y:        NewDenseVector(n),
		P:        make([]int, n),
		pinverse: make([]int, n),
	}, nil
}

// NewLUSparse 创建稀疏矩阵LU分解器（输入矩阵维度n）
// 消元时只遍历主元行的非零列，适合带状的有限元刚度矩阵
func NewLUSparse(n int) (LU, error) {
	if n < 1 {
		return nil, fmt.Errorf("lu sparse dimension must be positive: %w", ErrDimensionMismatch)
	}
	return &luFactor{
		n:        n,
		sparse:   true,
		L:        NewSparseMatrix(n, n),
		U:        NewSparseMatrix(n, n),
		Y:        NewDenseVector(n), // 中间向量用稠密更高效
		P:        make([]int, n),
		pinverse: make([]int, n),
	}, nil
}

// NewLUFor 按矩阵存储类型选择分解器
func NewLUFor(matrix Matrix) (LU, error) {
	if _, ok := matrix.(*sparseMatrix); ok {
		return NewLUSparse(matrix.Rows())
	}
	return NewLU(matrix.Rows())
}

// luFactor PA = LU 分解，其中：
//
//	P - 置换矩阵（用向量表示）
//	L - 单位下三角矩阵（对角线为1）
//	U - 上三角矩阵
type luFactor struct {
	n        int    // 矩阵维度（方阵n×n）
	sparse   bool   // 是否使用稀疏消元
	L        Matrix // 下三角矩阵L（严格下三角存储消元因子）
	U        Matrix // 上三角矩阵U
	Y        Vector // 中间变量：存储前向替换结果Ly=Pb
	P        []int  // 置换向量：P[i] = 分解后第i行对应的原始矩阵行索引
	pinverse []int  // 逆置换向量：pinverse[i] = 原始第i行对应的分解后行索引
}

// Dim 获取矩阵维度
func (lu *luFactor) Dim() int {
	return lu.n
}

// init 拷贝A到U，重置置换向量和L的对角线
func (lu *luFactor) init(matrix Matrix) {
	lu.L.Zero()
	lu.U.Zero()
	matrix.Copy(lu.U)
	for i := 0; i < lu.n; i++ {
		lu.P[i] = i
		lu.pinverse[i] = i
	}
}

// updatePermutation 交换置换向量并同步更新逆置换
func (lu *luFactor) updatePermutation(k, maxRow int) {
	lu.P[k], lu.P[maxRow] = lu.P[maxRow], lu.P[k]
	lu.pinverse[lu.P[k]] = k
	lu.pinverse[lu.P[maxRow]] = maxRow
}

// Decompose 执行LU分解（高斯消元+部分主元）
// 参数:
//
//	matrix - 输入矩阵A（必须为方阵且维度为n）
//
// 返回:
//
//	错误信息（如果矩阵奇异或维度不匹配）
func (lu *luFactor) Decompose(matrix Matrix) error {
	if !matrix.IsSquare() || matrix.Rows() != lu.n {
		return fmt.Errorf("lu decompose: %dx%d matrix for dimension %d: %w", matrix.Rows(), matrix.Cols(), lu.n, ErrDimensionMismatch)
	}
	lu.init(matrix)

	for k := 0; k < lu.n; k++ {
		// 部分主元选择
		maxRow := k
		maxAbsVal := math.Abs(lu.U.Get(k, k))
		for i := k + 1; i < lu.n; i++ {
			if v := math.Abs(lu.U.Get(i, k)); v > maxAbsVal {
				maxAbsVal = v
				maxRow = i
			}
		}
		if maxAbsVal < Epsilon {
			return fmt.Errorf("lu decompose: zero pivot in column %d: %w", k, ErrSingular)
		}

		// 行交换，L只交换前k列的消元因子
		if maxRow != k {
			lu.U.SwapRows(k, maxRow)
			lu.L.SwapRows(k, maxRow)
			lu.updatePermutation(k, maxRow)
		}

		pivotVal := lu.U.Get(k, k)
		pivotCols, pivotVals := lu.U.GetRow(k)
		for i := k + 1; i < lu.n; i++ {
			valIK := lu.U.Get(i, k)
			if lu.sparse && math.Abs(valIK) < Epsilon {
				continue
			}
			factor := valIK / pivotVal
			lu.L.Set(i, k, factor)
			lu.U.Set(i, k, 0.0)
			for idx, j := range pivotCols {
				if j <= k {
					continue
				}
				lu.U.Set(i, j, lu.U.Get(i, j)-factor*pivotVals.Get(idx))
			}
		}
	}
	return nil
}

// SolveReuse 利用分解结果求解Ax=b（重用预分配向量）
// 数学步骤:
//  1. 前向替换：求解Ly = Pb
//  2. 后向替换：求解Ux = y
func (lu *luFactor) SolveReuse(b, x Vector) error {
	if b.Length() != lu.n || x.Length() != lu.n {
		return fmt.Errorf("lu solve: vector length %d/%d for dimension %d: %w", b.Length(), x.Length(), lu.n, ErrDimensionMismatch)
	}

	lu.Y.Zero()
	for i := 0; i < lu.n; i++ {
		sum := b.Get(lu.P[i])
		cols, vals := lu.L.GetRow(i)
		for idx, j := range cols {
			if j < i {
				sum -= vals.Get(idx) * lu.Y.Get(j)
			}
		}
		lu.Y.Set(i, sum)
	}

	x.Zero()
	for i := lu.n - 1; i >= 0; i-- {
		sum := lu.Y.Get(i)
		diag := lu.U.Get(i, i)
		if math.Abs(diag) < Epsilon {
			return fmt.Errorf("lu solve: zero diagonal at %d: %w", i, ErrSingular)
		}
		cols, vals := lu.U.GetRow(i)
		for idx, j := range cols {
			if j > i {
				sum -= vals.Get(idx) * x.Get(j)
			}
		}
		x.Set(i, sum/diag)
	}
	return nil
}
