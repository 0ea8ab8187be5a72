//go:build !asfemdebug

package local

// offset 1-based (i,j) 到行优先偏移，不检查边界
func (a *Matrix) offset(i, j int) int {
	return (i-1)*a.n + (j - 1)
}

// index 1-based 线性下标，不检查边界
func (v *Vector) index(i int) int {
	return i - 1
}

func (a *Matrix) elem(k int) int {
	return k - 1
}
