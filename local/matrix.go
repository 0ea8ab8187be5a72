// Package local 单元局部稠密矩阵与向量
//
// 下标从1开始，(i,j) 映射到行优先偏移 (i-1)*N+(j-1)。
// 调用者保证 1<=i<=M, 1<=j<=N；只有使用 asfemdebug 构建标签时才检查边界。
// 维度不兼容的运算返回 *ShapeError，是否终止由上层决定。
package local

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"gonum.org/v1/gonum/floats"
)

// Matrix 单元局部稠密矩阵，零值为 0x0 矩阵
type Matrix struct {
	m, n int
	vals []float64
}

// NewMatrix 创建 m×n 零矩阵
func NewMatrix(m, n int) *Matrix {
	return NewMatrixFill(m, n, 0)
}

// NewMatrixFill 创建 m×n 矩阵并填充 val
func NewMatrixFill(m, n int, val float64) *Matrix {
	a := &Matrix{}
	a.ResizeFill(m, n, val)
	return a
}

// NewMatrixFrom 按行优先数据创建 m×n 矩阵，数据被复制
func NewMatrixFrom(m, n int, rowMajor []float64) (*Matrix, error) {
	if len(rowMajor) != m*n {
		return nil, mismatch("NewMatrixFrom", m, n, len(rowMajor), 1)
	}
	a := NewMatrix(m, n)
	copy(a.vals, rowMajor)
	return a, nil
}

// Resize 重新分配为 m×n，所有元素置零
func (a *Matrix) Resize(m, n int) {
	a.ResizeFill(m, n, 0)
}

// ResizeFill 重新分配为 m×n，所有元素置为 val
func (a *Matrix) ResizeFill(m, n int, val float64) {
	if m < 0 || n < 0 {
		panic(fmt.Sprintf("local: negative matrix dimensions %dx%d", m, n))
	}
	a.m, a.n = m, n
	if cap(a.vals) >= m*n {
		a.vals = a.vals[:m*n]
	} else {
		a.vals = make([]float64, m*n)
	}
	a.Fill(val)
}

// M 行数
func (a *Matrix) M() int { return a.m }

// N 列数
func (a *Matrix) N() int { return a.n }

// Data 底层行优先数据
func (a *Matrix) Data() []float64 { return a.vals }

// Clean 释放存储，矩阵回到 0x0
func (a *Matrix) Clean() {
	a.m, a.n = 0, 0
	a.vals = nil
}

// At 返回 (i,j) 元素
func (a *Matrix) At(i, j int) float64 {
	return a.vals[a.offset(i, j)]
}

// Set 设置 (i,j) 元素
func (a *Matrix) Set(i, j int, v float64) {
	a.vals[a.offset(i, j)] = v
}

// AddAt (i,j) 元素累加 v
func (a *Matrix) AddAt(i, j int, v float64) {
	a.vals[a.offset(i, j)] += v
}

// Elem 线性访问第 k 个元素
func (a *Matrix) Elem(k int) float64 {
	return a.vals[a.elem(k)]
}

// SetElem 线性设置第 k 个元素
func (a *Matrix) SetElem(k int, v float64) {
	a.vals[a.elem(k)] = v
}

// Fill 标量广播赋值
func (a *Matrix) Fill(val float64) {
	for i := range a.vals {
		a.vals[i] = val
	}
}

// SetZero 置零
func (a *Matrix) SetZero() {
	clear(a.vals)
}

// SetRandom 以当前时间为种子填充 [0,1) 均匀随机数
func (a *Matrix) SetRandom() {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	for i := range a.vals {
		a.vals[i] = rng.Float64()
	}
}

// Assign 复制 b；0x0 接收者采用 b 的维度，否则维度必须一致
func (a *Matrix) Assign(b *Matrix) error {
	if a.m == 0 && a.n == 0 {
		a.Resize(b.m, b.n)
	} else if a.m != b.m || a.n != b.n {
		return mismatch("Assign", a.m, a.n, b.m, b.n)
	}
	copy(a.vals, b.vals)
	return nil
}

// Clone 深拷贝
func (a *Matrix) Clone() *Matrix {
	c := &Matrix{m: a.m, n: a.n, vals: make([]float64, len(a.vals))}
	copy(c.vals, a.vals)
	return c
}

func (a *Matrix) sameShape(op string, b *Matrix) error {
	if a.m != b.m || a.n != b.n {
		return mismatch(op, a.m, a.n, b.m, b.n)
	}
	return nil
}

// Add 返回 a+b
func (a *Matrix) Add(b *Matrix) (*Matrix, error) {
	if err := a.sameShape("Add", b); err != nil {
		return nil, err
	}
	c := a.Clone()
	floats.Add(c.vals, b.vals)
	return c, nil
}

// Sub 返回 a-b
func (a *Matrix) Sub(b *Matrix) (*Matrix, error) {
	if err := a.sameShape("Sub", b); err != nil {
		return nil, err
	}
	c := a.Clone()
	floats.Sub(c.vals, b.vals)
	return c, nil
}

// AddInPlace a += b
func (a *Matrix) AddInPlace(b *Matrix) error {
	if err := a.sameShape("AddInPlace", b); err != nil {
		return err
	}
	floats.Add(a.vals, b.vals)
	return nil
}

// SubInPlace a -= b
func (a *Matrix) SubInPlace(b *Matrix) error {
	if err := a.sameShape("SubInPlace", b); err != nil {
		return err
	}
	floats.Sub(a.vals, b.vals)
	return nil
}

// Mul 返回矩阵乘积 a*b，要求 a.N == b.M
func (a *Matrix) Mul(b *Matrix) (*Matrix, error) {
	if a.n != b.m {
		return nil, mismatch("Mul", a.m, a.n, b.m, b.n)
	}
	c := NewMatrix(a.m, b.n)
	for i := 0; i < a.m; i++ {
		row := c.vals[i*b.n : (i+1)*b.n]
		for k := 0; k < a.n; k++ {
			if aik := a.vals[i*a.n+k]; aik != 0 {
				floats.AddScaled(row, aik, b.vals[k*b.n:(k+1)*b.n])
			}
		}
	}
	return c, nil
}

// MulVec 返回矩阵向量积 a*v，要求 a.N == v.M
func (a *Matrix) MulVec(v *Vector) (*Vector, error) {
	if a.n != len(v.vals) {
		return nil, mismatch("MulVec", a.m, a.n, len(v.vals), 1)
	}
	c := NewVector(a.m)
	for i := 0; i < a.m; i++ {
		c.vals[i] = floats.Dot(a.vals[i*a.n:(i+1)*a.n], v.vals)
	}
	return c, nil
}

// Scale 返回 a*s
func (a *Matrix) Scale(s float64) *Matrix {
	c := a.Clone()
	floats.Scale(s, c.vals)
	return c
}

// DivScalar 返回 a/s
func (a *Matrix) DivScalar(s float64) *Matrix {
	c := a.Clone()
	c.DivScalarInPlace(s)
	return c
}

// AddScalar 返回 a+s（逐元素）
func (a *Matrix) AddScalar(s float64) *Matrix {
	c := a.Clone()
	floats.AddConst(s, c.vals)
	return c
}

// SubScalar 返回 a-s（逐元素）
func (a *Matrix) SubScalar(s float64) *Matrix {
	return a.AddScalar(-s)
}

// ScaleInPlace a *= s
func (a *Matrix) ScaleInPlace(s float64) {
	floats.Scale(s, a.vals)
}

// DivScalarInPlace a /= s
func (a *Matrix) DivScalarInPlace(s float64) {
	for i := range a.vals {
		a.vals[i] /= s
	}
}

// AddScalarInPlace a += s
func (a *Matrix) AddScalarInPlace(s float64) {
	floats.AddConst(s, a.vals)
}

// SubScalarInPlace a -= s
func (a *Matrix) SubScalarInPlace(s float64) {
	floats.AddConst(-s, a.vals)
}

// Transpose 返回转置，不修改接收者
func (a *Matrix) Transpose() *Matrix {
	t := NewMatrix(a.n, a.m)
	for i := 0; i < a.m; i++ {
		for j := 0; j < a.n; j++ {
			t.vals[j*a.m+i] = a.vals[i*a.n+j]
		}
	}
	return t
}

// Transposed 原地转置，接收者变为 N×M
func (a *Matrix) Transposed() {
	t := a.Transpose()
	a.m, a.n = t.m, t.n
	copy(a.vals, t.vals)
}

// Equal 在容差内逐元素比较
func (a *Matrix) Equal(b *Matrix, tol float64) bool {
	return a.m == b.m && a.n == b.n && floats.EqualApprox(a.vals, b.vals, tol)
}

// String 按行输出
func (a *Matrix) String() string {
	var sb strings.Builder
	for i := 0; i < a.m; i++ {
		for j := 0; j < a.n; j++ {
			fmt.Fprintf(&sb, "%8.4f ", a.vals[i*a.n+j])
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
