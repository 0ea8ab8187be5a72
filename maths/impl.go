package maths

// Matrix 全局矩阵接口
// 定义矩阵的基本操作，支持稀疏和密集两种实现，索引从0开始
type Matrix interface {
	// BuildFromDense 从稠密矩阵构建矩阵
	BuildFromDense(dense [][]float64)
	// Cols 返回矩阵列数
	Cols() int
	// Copy 将自身值复制到 a 矩阵
	Copy(a Matrix)
	// Get 获取指定位置的元素值
	Get(row int, col int) float64
	// GetRow 获取指定行的非零元素
	GetRow(row int) ([]int, Vector)
	// Increment 增量设置矩阵元素（累加值）
	Increment(row int, col int, value float64)
	// IsSquare 检查矩阵是否为方阵
	IsSquare() bool
	// MatrixVectorMultiply 执行矩阵向量乘法
	MatrixVectorMultiply(x Vector) Vector
	// MulVecTo 执行矩阵向量乘法并写入 dst
	MulVecTo(x, dst Vector)
	// NonZeroCount 返回非零元素数量
	NonZeroCount() int
	// Rows 返回矩阵行数
	Rows() int
	// Set 设置矩阵元素值
	Set(row int, col int, value float64)
	// String 返回矩阵的字符串表示
	String() string
	// SwapRows 交换两行
	SwapRows(row1, row2 int)
	// ToDense 转换为稠密向量（行优先展开）
	ToDense() Vector
	// Zero 清空矩阵，重置为零矩阵
	Zero()
}

// Vector 全局向量接口
type Vector interface {
	// Add 向量加法
	Add(other Vector)
	// AddScaled 计算 v += alpha*other
	AddScaled(alpha float64, other Vector)
	// BuildFromDense 从稠密向量构建向量
	BuildFromDense(dense []float64)
	// Copy 将自身值复制到 a 向量
	Copy(a Vector)
	// DotProduct 计算与另一个向量的点积
	DotProduct(other Vector) float64
	// Get 获取指定位置的元素值
	Get(index int) float64
	// Increment 增量设置向量元素（累加值）
	Increment(index int, value float64)
	// Length 返回向量长度
	Length() int
	// NonZeroCount 返回非零元素数量
	NonZeroCount() int
	// Norm 返回二范数
	Norm() float64
	// Scale 向量缩放
	Scale(scalar float64)
	// Set 设置向量元素值
	Set(index int, value float64)
	// String 返回向量的字符串表示
	String() string
	// ToDense 返回底层数据（直接引用）
	ToDense() []float64
	// Zero 清空向量，重置为零向量
	Zero()
}

// LU LU分解接口
// 定义矩阵LU分解的基本操作，支持部分主元法
type LU interface {
	// Decompose 执行LU分解
	// 参数：
	//   matrix - 待分解的矩阵
	// 返回：
	//   error - 如果矩阵奇异或接近奇异则返回错误
	Decompose(matrix Matrix) error
	// SolveReuse 解线性方程组 Ax = b，重用预分配的向量
	// 参数：
	//   b - 右侧向量
	//   x - 解向量（预分配，结果将存储在此）
	// 返回：
	//   error - 如果向量维度不匹配则返回错误
	SolveReuse(b, x Vector) error
}
