package maths

import (
	"gonum.org/v1/gonum/floats"
)

// denseVector 稠密向量实现
// 基于 DataManager 实现 Vector 接口
type denseVector struct {
	*DataManager
}

// NewDenseVector 创建新的稠密向量
func NewDenseVector(length int) Vector {
	return &denseVector{
		DataManager: NewDataManager(length),
	}
}

// NewDenseVectorWithData 从现有数据创建稠密向量（共享切片）
func NewDenseVectorWithData(data []float64) Vector {
	return &denseVector{
		DataManager: NewDataManagerWithData(data),
	}
}

// BuildFromDense 从稠密向量构建向量
func (v *denseVector) BuildFromDense(dense []float64) {
	if len(dense) != v.Length() {
		panic("dimension mismatch")
	}
	copy(v.data, dense)
}

// Copy 将自身值复制到 a 向量
func (v *denseVector) Copy(a Vector) {
	switch target := a.(type) {
	case *denseVector:
		v.DataManager.Copy(target.DataManager)
	default:
		if a.Length() != v.Length() {
			panic("vector dimension mismatch")
		}
		for i := 0; i < v.Length(); i++ {
			a.Set(i, v.Get(i))
		}
	}
}

// ToDense 返回底层数据
func (v *denseVector) ToDense() []float64 {
	return v.DataManager.Data()
}

// DotProduct 计算与另一个向量的点积
func (v *denseVector) DotProduct(other Vector) float64 {
	if other.Length() != v.Length() {
		panic("vector dimension mismatch")
	}
	return floats.Dot(v.data, other.ToDense())
}

// Norm 二范数
func (v *denseVector) Norm() float64 {
	return floats.Norm(v.data, 2)
}

// Scale 向量缩放
func (v *denseVector) Scale(scalar float64) {
	floats.Scale(scalar, v.data)
}

// Add 向量加法
func (v *denseVector) Add(other Vector) {
	if other.Length() != v.Length() {
		panic("vector dimension mismatch")
	}
	floats.Add(v.data, other.ToDense())
}

// AddScaled v += alpha*other
func (v *denseVector) AddScaled(alpha float64, other Vector) {
	if other.Length() != v.Length() {
		panic("vector dimension mismatch")
	}
	floats.AddScaled(v.data, alpha, other.ToDense())
}
