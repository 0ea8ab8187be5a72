package maths

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

// TestLuDenseSolve 验证稠密矩阵 LU 分解和求解
func TestLuDenseSolve(t *testing.T) {
	// A = [[2, 3, 1],
	//      [1, 2, 3],
	//      [3, 1, 2]]
	// b = [9, 6, 8]
	// 预期解 x = [35/18, 29/18, 5/18]
	a := NewDenseMatrix(3, 3)
	a.BuildFromDense([][]float64{{2, 3, 1}, {1, 2, 3}, {3, 1, 2}})
	b := NewDenseVectorWithData([]float64{9, 6, 8})

	lu, err := NewLU(3)
	if err != nil {
		t.Fatalf("NewLU failed: %v", err)
	}
	if err := lu.Decompose(a); err != nil {
		t.Fatalf("Decomposition failed: %v", err)
	}
	x := NewDenseVector(3)
	if err := lu.SolveReuse(b, x); err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	expected := []float64{35.0 / 18.0, 29.0 / 18.0, 5.0 / 18.0}
	for i := range expected {
		if math.Abs(x.Get(i)-expected[i]) > 1e-9 {
			t.Errorf("Element x[%d] is incorrect. Got %f, expected %f", i, x.Get(i), expected[i])
		}
	}
}

// TestLuSparseMatchesDense 随机对角占优矩阵上比较稀疏与稠密分解
func TestLuSparseMatchesDense(t *testing.T) {
	const n = 12
	rng := rand.New(rand.NewSource(7))
	dense := NewDenseMatrix(n, n)
	sparse := NewSparseMatrix(n, n)
	for i := 0; i < n; i++ {
		for j := max(0, i-2); j <= min(n-1, i+2); j++ {
			v := rng.Float64()
			if i == j {
				v += 5
			}
			dense.Set(i, j, v)
			sparse.Set(i, j, v)
		}
	}
	b := NewDenseVector(n)
	for i := 0; i < n; i++ {
		b.Set(i, rng.Float64())
	}

	luD, _ := NewLU(n)
	luS, _ := NewLUSparse(n)
	if err := luD.Decompose(dense); err != nil {
		t.Fatalf("dense decompose: %v", err)
	}
	if err := luS.Decompose(sparse); err != nil {
		t.Fatalf("sparse decompose: %v", err)
	}
	xd, xs := NewDenseVector(n), NewDenseVector(n)
	_ = luD.SolveReuse(b, xd)
	_ = luS.SolveReuse(b, xs)
	for i := 0; i < n; i++ {
		if math.Abs(xd.Get(i)-xs.Get(i)) > 1e-10 {
			t.Fatalf("x[%d]: dense %g sparse %g", i, xd.Get(i), xs.Get(i))
		}
	}
}

// TestLuSingular 奇异矩阵返回 ErrSingular
func TestLuSingular(t *testing.T) {
	a := NewDenseMatrix(2, 2)
	a.BuildFromDense([][]float64{{1, 2}, {2, 4}})
	lu, _ := NewLU(2)
	if err := lu.Decompose(a); !errors.Is(err, ErrSingular) {
		t.Fatalf("Expected ErrSingular, got %v", err)
	}
}

// BenchmarkLuSparse 稀疏三对角分解性能
func BenchmarkLuSparse(b *testing.B) {
	const n = 200
	a := NewSparseMatrix(n, n)
	for i := 0; i < n; i++ {
		a.Set(i, i, 2)
		if i > 0 {
			a.Set(i, i-1, -1)
			a.Set(i-1, i, -1)
		}
	}
	lu, _ := NewLUSparse(n)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = lu.Decompose(a)
	}
}
