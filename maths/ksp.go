package maths

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// PCType 预条件类型
type PCType uint8

const (
	PCNone PCType = iota // 不使用预条件
	PCLU                 // 直接LU分解预条件
)

// String 预条件名称
func (pc PCType) String() string {
	switch pc {
	case PCNone:
		return "none"
	case PCLU:
		return "lu"
	}
	return fmt.Sprintf("PCType(%d)", uint8(pc))
}

// 内层线性求解默认参数
const (
	DefaultKSPAbsTol  = 1e-10
	DefaultKSPRelTol  = 1e-10
	DefaultKSPMaxIt   = 500000
	DefaultKSPRestart = 1200
)

// KSPResult 线性求解结果
type KSPResult struct {
	Iterations int     // Krylov迭代次数
	Residual   float64 // 最终残差二范数
	Converged  bool    // 是否收敛
}

// KSP 重启GMRES线性求解器（右预条件）
type KSP struct {
	AbsTol  float64 // 绝对残差容差
	RelTol  float64 // 相对残差容差（相对初始残差）
	MaxIt   int     // 最大迭代次数
	Restart int     // 重启长度
	PC      PCType  // 预条件类型

	op Matrix // 系数矩阵
	lu LU     // 预条件分解
	z  Vector // 预条件输出缓存
}

// NewKSP 创建默认配置的线性求解器
// GMRES(1200) + LU 预条件，容差 1e-10/1e-10，最大迭代 500000
func NewKSP() *KSP {
	return &KSP{
		AbsTol:  DefaultKSPAbsTol,
		RelTol:  DefaultKSPRelTol,
		MaxIt:   DefaultKSPMaxIt,
		Restart: DefaultKSPRestart,
		PC:      PCLU,
	}
}

// SetOperator 设置系数矩阵并建立预条件
func (ksp *KSP) SetOperator(a Matrix) error {
	if !a.IsSquare() {
		return fmt.Errorf("ksp operator %dx%d: %w", a.Rows(), a.Cols(), ErrDimensionMismatch)
	}
	ksp.op = a
	ksp.lu = nil
	ksp.z = NewDenseVector(a.Rows())
	if ksp.PC == PCLU {
		lu, err := NewLUFor(a)
		if err != nil {
			return err
		}
		if err := lu.Decompose(a); err != nil {
			return fmt.Errorf("ksp preconditioner: %w", err)
		}
		ksp.lu = lu
	}
	return nil
}

// applyPC z = M^-1 v
func (ksp *KSP) applyPC(v, z []float64) error {
	if ksp.lu == nil {
		copy(z, v)
		return nil
	}
	return ksp.lu.SolveReuse(NewDenseVectorWithData(v), NewDenseVectorWithData(z))
}

// residual r = b - A x，返回二范数
func (ksp *KSP) residual(b, x Vector, r []float64) float64 {
	ax := NewDenseVectorWithData(r)
	ksp.op.MulVecTo(x, ax)
	floats.SubTo(r, b.ToDense(), r)
	return floats.Norm(r, 2)
}

// Solve 求解 A x = b，x 为初值并保存结果
func (ksp *KSP) Solve(b, x Vector) (KSPResult, error) {
	var res KSPResult
	if ksp.op == nil {
		return res, ErrNoOperator
	}
	n := ksp.op.Rows()
	if b.Length() != n || x.Length() != n {
		return res, fmt.Errorf("ksp solve: vector length %d/%d for dimension %d: %w", b.Length(), x.Length(), n, ErrDimensionMismatch)
	}
	restart := min(ksp.Restart, n)
	if restart < 1 {
		restart = 1
	}

	r := make([]float64, n)
	beta := ksp.residual(b, x, r)
	tol := math.Max(ksp.RelTol*beta, ksp.AbsTol)
	res.Residual = beta
	if beta <= tol {
		res.Converged = true
		return res, nil
	}

	// Krylov基与Hessenberg矩阵
	V := make([][]float64, restart+1)
	for i := range V {
		V[i] = make([]float64, n)
	}
	H := make([][]float64, restart+1)
	for i := range H {
		H[i] = make([]float64, restart)
	}
	cs := make([]float64, restart)
	sn := make([]float64, restart)
	g := make([]float64, restart+1)
	y := make([]float64, restart)
	w := make([]float64, n)
	z := ksp.z.ToDense()
	u := make([]float64, n)

	for res.Iterations < ksp.MaxIt {
		clear(g)
		g[0] = beta
		floats.ScaleTo(V[0], 1/beta, r)

		k := 0
		for j := 0; j < restart && res.Iterations < ksp.MaxIt; j++ {
			if err := ksp.applyPC(V[j], z); err != nil {
				return res, err
			}
			ksp.op.MulVecTo(ksp.z, NewDenseVectorWithData(w))
			// 修正Gram-Schmidt正交化
			for i := 0; i <= j; i++ {
				H[i][j] = floats.Dot(w, V[i])
				floats.AddScaled(w, -H[i][j], V[i])
			}
			H[j+1][j] = floats.Norm(w, 2)
			breakdown := H[j+1][j] <= Epsilon*beta
			if !breakdown {
				floats.ScaleTo(V[j+1], 1/H[j+1][j], w)
			}
			// Givens旋转
			for i := 0; i < j; i++ {
				t := cs[i]*H[i][j] + sn[i]*H[i+1][j]
				H[i+1][j] = -sn[i]*H[i][j] + cs[i]*H[i+1][j]
				H[i][j] = t
			}
			d := math.Hypot(H[j][j], H[j+1][j])
			if d == 0 {
				d = Epsilon
			}
			cs[j] = H[j][j] / d
			sn[j] = H[j+1][j] / d
			H[j][j] = d
			H[j+1][j] = 0
			g[j+1] = -sn[j] * g[j]
			g[j] = cs[j] * g[j]

			res.Iterations++
			k = j + 1
			if math.Abs(g[j+1]) <= tol || breakdown {
				break
			}
		}

		// 回代求解 H y = g
		for i := k - 1; i >= 0; i-- {
			sum := g[i]
			for l := i + 1; l < k; l++ {
				sum -= H[i][l] * y[l]
			}
			y[i] = sum / H[i][i]
		}
		clear(u)
		for i := 0; i < k; i++ {
			floats.AddScaled(u, y[i], V[i])
		}
		if err := ksp.applyPC(u, z); err != nil {
			return res, err
		}
		floats.Add(x.ToDense(), z)

		beta = ksp.residual(b, x, r)
		res.Residual = beta
		if beta <= tol {
			res.Converged = true
			return res, nil
		}
	}
	return res, fmt.Errorf("ksp: residual %g after %d iterations: %w", res.Residual, res.Iterations, ErrKSPDiverged)
}
