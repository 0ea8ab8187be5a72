package maths

import "errors"

var (
	// ErrDimensionMismatch 维度不匹配
	ErrDimensionMismatch = errors.New("maths: dimension mismatch")
	// ErrSingular 矩阵奇异或接近奇异
	ErrSingular = errors.New("maths: matrix is singular or nearly singular")
	// ErrKSPDiverged 线性迭代在最大步数内未收敛
	ErrKSPDiverged = errors.New("maths: krylov solver did not converge")
	// ErrNoOperator 线性求解前未设置算子
	ErrNoOperator = errors.New("maths: operator not set")
)
