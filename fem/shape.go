package fem

import (
	"fmt"

	"gonum.org/v1/gonum/integrate/quad"
)

// ShapeFun1D 参考单元 [-1,1] 上的拉格朗日形函数及其导数
// 二次单元节点顺序为 左、中、右
func ShapeFun1D(order int, xi float64, n, dndxi []float64) {
	switch order {
	case 1:
		n[0], n[1] = 0.5*(1-xi), 0.5*(1+xi)
		dndxi[0], dndxi[1] = -0.5, 0.5
	case 2:
		n[0] = 0.5 * xi * (xi - 1)
		n[1] = 1 - xi*xi
		n[2] = 0.5 * xi * (xi + 1)
		dndxi[0] = xi - 0.5
		dndxi[1] = -2 * xi
		dndxi[2] = xi + 0.5
	default:
		panic(fmt.Sprintf("fem: unsupported shape order %d", order))
	}
}

// GaussRule 参考单元上的高斯-勒让德积分点
type GaussRule struct {
	Points  []float64
	Weights []float64
}

// NewGaussRule 创建 n 点积分（1..4）
func NewGaussRule(n int) (GaussRule, error) {
	if n < 1 || n > 4 {
		return GaussRule{}, fmt.Errorf("fem: unsupported gauss point count %d", n)
	}
	g := GaussRule{Points: make([]float64, n), Weights: make([]float64, n)}
	quad.Legendre{}.FixedLocations(g.Points, g.Weights, -1, 1)
	return g, nil
}
