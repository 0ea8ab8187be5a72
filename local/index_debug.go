//go:build asfemdebug

package local

import "fmt"

// offset 1-based (i,j) 到行优先偏移，调试构建下检查边界
func (a *Matrix) offset(i, j int) int {
	if i < 1 || i > a.m || j < 1 || j > a.n {
		panic(fmt.Sprintf("local: index (%d,%d) out of range for %dx%d matrix", i, j, a.m, a.n))
	}
	return (i-1)*a.n + (j - 1)
}

// index 1-based 线性下标，调试构建下检查边界
func (v *Vector) index(i int) int {
	if i < 1 || i > len(v.vals) {
		panic(fmt.Sprintf("local: index %d out of range for vector of length %d", i, len(v.vals)))
	}
	return i - 1
}

func (a *Matrix) elem(k int) int {
	if k < 1 || k > len(a.vals) {
		panic(fmt.Sprintf("local: linear index %d out of range for %dx%d matrix", k, a.m, a.n))
	}
	return k - 1
}
