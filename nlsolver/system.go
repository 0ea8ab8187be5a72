package nlsolver

import "asfem/maths"

// System 全局非线性方程组 F(x)=0 的回调
type System interface {
	// Size 自由度数
	Size() int
	// NewJacobian 创建雅可比矩阵存储（稠密或稀疏由实现决定）
	NewJacobian() maths.Matrix
	// Residual 计算 r = F(x)
	Residual(x, r maths.Vector) error
	// Jacobian 计算 J = dF/dx
	Jacobian(x maths.Vector, J maths.Matrix) error
}
