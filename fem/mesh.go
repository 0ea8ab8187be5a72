// Package fem 一维有限元问题：网格、形函数、单元核函数与全局残差/雅可比
package fem

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

var ErrInvalidMesh = errors.New("fem: invalid mesh")

// Mesh1D 均匀一维拉格朗日网格，节点与单元编号从 1 开始
type Mesh1D struct {
	XMin, XMax float64
	NElmts     int
	Order      int       // 1 线性, 2 二次
	Nodes      []float64 // 节点坐标，Nodes[i-1] 为第 i 个节点
	Conn       [][]int   // 单元连接，节点按坐标递增排列
}

// NewMesh1D 生成 [xmin, xmax] 上 nx 个单元的网格
func NewMesh1D(nx int, xmin, xmax float64, order int) (*Mesh1D, error) {
	switch {
	case nx < 1:
		return nil, fmt.Errorf("%w: %d elements", ErrInvalidMesh, nx)
	case xmax <= xmin:
		return nil, fmt.Errorf("%w: xmax %g <= xmin %g", ErrInvalidMesh, xmax, xmin)
	case order != 1 && order != 2:
		return nil, fmt.Errorf("%w: unsupported order %d", ErrInvalidMesh, order)
	}
	nNodes := nx*order + 1
	m := &Mesh1D{
		XMin:   xmin,
		XMax:   xmax,
		NElmts: nx,
		Order:  order,
		Nodes:  floats.Span(make([]float64, nNodes), xmin, xmax),
		Conn:   make([][]int, nx),
	}
	for e := range m.Conn {
		conn := make([]int, order+1)
		for a := range conn {
			conn[a] = e*order + a + 1
		}
		m.Conn[e] = conn
	}
	return m, nil
}

// NNodes 节点数
func (m *Mesh1D) NNodes() int { return len(m.Nodes) }

// NodesPerElmt 每个单元的节点数
func (m *Mesh1D) NodesPerElmt() int { return m.Order + 1 }

// ElmtCoords 第 e 个单元（1 起始）的节点坐标
func (m *Mesh1D) ElmtCoords(e int, dst []float64) []float64 {
	dst = dst[:0]
	for _, id := range m.Conn[e-1] {
		dst = append(dst, m.Nodes[id-1])
	}
	return dst
}
