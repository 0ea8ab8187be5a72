package local

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"gonum.org/v1/gonum/floats"
)

// Vector 单元局部稠密向量，零值为空向量
type Vector struct {
	vals []float64
}

// NewVector 创建长度为 m 的零向量
func NewVector(m int) *Vector {
	return NewVectorFill(m, 0)
}

// NewVectorFill 创建长度为 m 的向量并填充 val
func NewVectorFill(m int, val float64) *Vector {
	v := &Vector{}
	v.ResizeFill(m, val)
	return v
}

// NewVectorFrom 复制 data 创建向量
func NewVectorFrom(data []float64) *Vector {
	v := NewVector(len(data))
	copy(v.vals, data)
	return v
}

// Resize 重新分配为长度 m，元素置零
func (v *Vector) Resize(m int) {
	v.ResizeFill(m, 0)
}

// ResizeFill 重新分配为长度 m，元素置为 val
func (v *Vector) ResizeFill(m int, val float64) {
	if m < 0 {
		panic(fmt.Sprintf("local: negative vector length %d", m))
	}
	if cap(v.vals) >= m {
		v.vals = v.vals[:m]
	} else {
		v.vals = make([]float64, m)
	}
	v.Fill(val)
}

// M 长度
func (v *Vector) M() int { return len(v.vals) }

// Data 底层数据
func (v *Vector) Data() []float64 { return v.vals }

// Clean 释放存储
func (v *Vector) Clean() { v.vals = nil }

// At 返回第 i 个元素
func (v *Vector) At(i int) float64 {
	return v.vals[v.index(i)]
}

// Set 设置第 i 个元素
func (v *Vector) Set(i int, val float64) {
	v.vals[v.index(i)] = val
}

// AddAt 第 i 个元素累加 val
func (v *Vector) AddAt(i int, val float64) {
	v.vals[v.index(i)] += val
}

// Fill 标量广播赋值
func (v *Vector) Fill(val float64) {
	for i := range v.vals {
		v.vals[i] = val
	}
}

// SetZero 置零
func (v *Vector) SetZero() { clear(v.vals) }

// SetRandom 以当前时间为种子填充 [0,1) 均匀随机数
func (v *Vector) SetRandom() {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	for i := range v.vals {
		v.vals[i] = rng.Float64()
	}
}

// Assign 复制 b；空接收者采用 b 的长度，否则长度必须一致
func (v *Vector) Assign(b *Vector) error {
	if len(v.vals) == 0 {
		v.Resize(len(b.vals))
	} else if len(v.vals) != len(b.vals) {
		return mismatch("Assign", len(v.vals), 1, len(b.vals), 1)
	}
	copy(v.vals, b.vals)
	return nil
}

// Clone 深拷贝
func (v *Vector) Clone() *Vector {
	return NewVectorFrom(v.vals)
}

func (v *Vector) sameLen(op string, b *Vector) error {
	if len(v.vals) != len(b.vals) {
		return mismatch(op, len(v.vals), 1, len(b.vals), 1)
	}
	return nil
}

// Add 返回 v+b
func (v *Vector) Add(b *Vector) (*Vector, error) {
	if err := v.sameLen("Add", b); err != nil {
		return nil, err
	}
	c := v.Clone()
	floats.Add(c.vals, b.vals)
	return c, nil
}

// Sub 返回 v-b
func (v *Vector) Sub(b *Vector) (*Vector, error) {
	if err := v.sameLen("Sub", b); err != nil {
		return nil, err
	}
	c := v.Clone()
	floats.Sub(c.vals, b.vals)
	return c, nil
}

// AddInPlace v += b
func (v *Vector) AddInPlace(b *Vector) error {
	if err := v.sameLen("AddInPlace", b); err != nil {
		return err
	}
	floats.Add(v.vals, b.vals)
	return nil
}

// SubInPlace v -= b
func (v *Vector) SubInPlace(b *Vector) error {
	if err := v.sameLen("SubInPlace", b); err != nil {
		return err
	}
	floats.Sub(v.vals, b.vals)
	return nil
}

// Dot 点积
func (v *Vector) Dot(b *Vector) (float64, error) {
	if err := v.sameLen("Dot", b); err != nil {
		return 0, err
	}
	return floats.Dot(v.vals, b.vals), nil
}

// Norm 二范数
func (v *Vector) Norm() float64 {
	return floats.Norm(v.vals, 2)
}

// Scale 返回 v*s
func (v *Vector) Scale(s float64) *Vector {
	c := v.Clone()
	floats.Scale(s, c.vals)
	return c
}

// DivScalar 返回 v/s
func (v *Vector) DivScalar(s float64) *Vector {
	c := v.Clone()
	c.DivScalarInPlace(s)
	return c
}

// AddScalar 返回 v+s
func (v *Vector) AddScalar(s float64) *Vector {
	c := v.Clone()
	floats.AddConst(s, c.vals)
	return c
}

// SubScalar 返回 v-s
func (v *Vector) SubScalar(s float64) *Vector {
	return v.AddScalar(-s)
}

// ScaleInPlace v *= s
func (v *Vector) ScaleInPlace(s float64) { floats.Scale(s, v.vals) }

// DivScalarInPlace v /= s
func (v *Vector) DivScalarInPlace(s float64) {
	for i := range v.vals {
		v.vals[i] /= s
	}
}

// AddScalarInPlace v += s
func (v *Vector) AddScalarInPlace(s float64) { floats.AddConst(s, v.vals) }

// SubScalarInPlace v -= s
func (v *Vector) SubScalarInPlace(s float64) { floats.AddConst(-s, v.vals) }

// Equal 在容差内逐元素比较
func (v *Vector) Equal(b *Vector, tol float64) bool {
	return len(v.vals) == len(b.vals) && floats.EqualApprox(v.vals, b.vals, tol)
}

// String 输出
func (v *Vector) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for _, x := range v.vals {
		fmt.Fprintf(&sb, "%8.4f ", x)
	}
	sb.WriteString("]")
	return sb.String()
}
