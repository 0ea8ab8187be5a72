package local

import (
	"errors"
	"fmt"
)

var (
	// ErrShapeMismatch 运算双方维度不兼容
	ErrShapeMismatch = errors.New("shape mismatch")
	// ErrNotSquare 求逆/行列式要求方阵
	ErrNotSquare = errors.New("matrix is not square")
	// ErrSingular 稠密分解报告矩阵奇异
	ErrSingular = errors.New("matrix is singular")
)

// ShapeError 带维度信息的运算错误，可用 errors.Is 匹配 Kind
type ShapeError struct {
	Op     string // 运算名称
	Kind   error  // ErrShapeMismatch, ErrNotSquare 或 ErrSingular
	LeftM  int
	LeftN  int
	RightM int // 单操作数运算为 -1
	RightN int
}

func (e *ShapeError) Error() string {
	if e.RightM < 0 {
		return fmt.Sprintf("local: %s on %dx%d: %v", e.Op, e.LeftM, e.LeftN, e.Kind)
	}
	return fmt.Sprintf("local: %s of %dx%d and %dx%d: %v", e.Op, e.LeftM, e.LeftN, e.RightM, e.RightN, e.Kind)
}

func (e *ShapeError) Unwrap() error {
	return e.Kind
}

func mismatch(op string, lm, ln, rm, rn int) error {
	return &ShapeError{Op: op, Kind: ErrShapeMismatch, LeftM: lm, LeftN: ln, RightM: rm, RightN: rn}
}

func unary(op string, kind error, m, n int) error {
	return &ShapeError{Op: op, Kind: kind, LeftM: m, LeftN: n, RightM: -1, RightN: -1}
}
