package nlsolver

import (
	"encoding/json"
	"fmt"
	"io"

	"asfem/message"
)

// Monitor 迭代监视器
type Monitor interface {
	// Iteration 每次迭代（含第0次）后调用
	Iteration(it int, fnorm float64)
	// Done 一次求解结束
	Done(res Result)
}

// SolveRecord 一次求解的残差历史
type SolveRecord struct {
	FNorm      []float64       // 各迭代残差范数
	Reason     ConvergedReason // 结束原因
	Iterations int             // 迭代次数
}

// History 记录所有求解的残差历史
type History struct {
	Solves  []SolveRecord
	Verbose bool // 打印每次迭代
	current []float64
}

// Iteration 记录残差
func (h *History) Iteration(it int, fnorm float64) {
	if it == 0 {
		h.current = nil
	}
	h.current = append(h.current, fnorm)
	if h.Verbose {
		message.PrintInfoTxt(fmt.Sprintf("  SNES iteration %3d, ||F|| = %14.6e", it, fnorm))
	}
}

// Done 结束一次求解
func (h *History) Done(res Result) {
	h.Solves = append(h.Solves, SolveRecord{
		FNorm:      h.current,
		Reason:     res.Reason,
		Iterations: res.Iterations,
	})
	h.current = nil
}

// Last 最近一次求解记录
func (h *History) Last() (SolveRecord, bool) {
	if len(h.Solves) == 0 {
		return SolveRecord{}, false
	}
	return h.Solves[len(h.Solves)-1], true
}

// Render 以 JSON 输出
func (h *History) Render(w io.Writer) error { return json.NewEncoder(w).Encode(h.Solves) }
