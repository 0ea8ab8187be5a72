package assembly

import (
	"errors"
	"fmt"
	"log"
	"maps"
	"slices"
	"strings"

	"asfem/material"
)

var ErrUnknownKernel = errors.New("assembly: unknown kernel")

// Kernel 单元核函数，在一个高斯点上向 ctx.LocalR 或 ctx.LocalK 累加贡献
type Kernel interface {
	Compute(calc CalcType, ctx *Context, gp *GaussPoint, mate *material.Materials)
}

// Factory 由输入参数创建核函数
type Factory func(params []float64) (Kernel, error)

// kernelList 核函数注册表
var kernelList = map[string]Factory{}

// Register 注册核函数，名称重复时终止程序
func Register(name string, f Factory) string {
	name = strings.ToLower(name)
	if _, ok := kernelList[name]; ok {
		log.Fatalf("核函数重复注册: %s", name)
	}
	kernelList[name] = f
	return name
}

// New 按名称创建核函数
func New(name string, params []float64) (Kernel, error) {
	f, ok := kernelList[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKernel, name)
	}
	return f(params)
}

// Names 已注册的核函数名称
func Names() []string {
	return slices.Sorted(maps.Keys(kernelList))
}
