// Package material 高斯点材料属性计算
package material

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// 材料属性名称
const (
	PropF      = "F"      // 自由能
	PropDFDC   = "dFdc"   // 化学势
	PropD2FDC2 = "d2Fdc2" // 化学势导数
	PropD      = "D"      // 扩散系数
	PropL      = "L"      // 迁移率
	PropKappa  = "kappa"  // 梯度能系数
)

var ErrUnknownMaterial = errors.New("material: unknown material")

// ErrInvalidParams 参数个数或取值错误
var ErrInvalidParams = errors.New("material: invalid parameters")

// Materials 一个高斯点上的标量材料属性
type Materials struct {
	scalars map[string]float64
}

// NewMaterials 创建空属性表
func NewMaterials() *Materials {
	return &Materials{scalars: map[string]float64{}}
}

// Scalar 读取属性，不存在时为 0
func (m *Materials) Scalar(name string) float64 { return m.scalars[name] }

// SetScalar 写入属性
func (m *Materials) SetScalar(name string, v float64) { m.scalars[name] = v }

// Has 属性是否存在
func (m *Materials) Has(name string) bool {
	_, ok := m.scalars[name]
	return ok
}

// Names 已写入的属性名（排序）
func (m *Materials) Names() []string {
	return slices.Sorted(maps.Keys(m.scalars))
}

// Reset 清空所有属性
func (m *Materials) Reset() { clear(m.scalars) }

// Material 材料计算接口，按当前浓度 c 写入属性
type Material interface {
	Compute(c float64, mate *Materials)
}

// FreeEnergy 自由能及其导数
type FreeEnergy interface {
	F(c float64) float64
	DFDC(c float64) float64
	D2FDC2(c float64) float64
}

// Factory 由输入参数创建材料
type Factory func(params []float64) (Material, error)

var factories = map[string]Factory{
	"doublewell": func(params []float64) (Material, error) { return NewDoubleWell(params) },
	"constdiffusion": func(params []float64) (Material, error) {
		return NewConstantDiffusion(params)
	},
}

// New 按名称创建材料（大小写不敏感）
func New(name string, params []float64) (Material, error) {
	f, ok := factories[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMaterial, name)
	}
	return f(params)
}

// Compute 计算 c 处的材料属性
func Compute(m Material, c float64, mate *Materials) {
	m.Compute(c, mate)
}
