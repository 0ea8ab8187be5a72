// Package message 诊断输出与终止策略
//
// 底层容器与求解器只返回错误；是否打印诊断并终止进程由驱动层通过本包决定。
package message

import (
	"log"
	"os"
	"sync"
)

var (
	mu     sync.Mutex
	exitFn = os.Exit
	logger = log.New(os.Stderr, "asfem: ", log.LstdFlags)
)

// SetOutput 设置诊断输出的 logger
func SetOutput(l *log.Logger) {
	mu.Lock()
	defer mu.Unlock()
	logger = l
}

// SetExitFunc 替换退出函数，返回恢复原值的函数
func SetExitFunc(fn func(code int)) (restore func()) {
	mu.Lock()
	defer mu.Unlock()
	prev := exitFn
	exitFn = fn
	return func() {
		mu.Lock()
		defer mu.Unlock()
		exitFn = prev
	}
}

// PrintErrorTxt 输出错误信息
func PrintErrorTxt(txt string) {
	current().Printf("*** Error: %s", txt)
}

// PrintWarningTxt 输出警告信息
func PrintWarningTxt(txt string) {
	current().Printf("*** Warning: %s", txt)
}

// PrintInfoTxt 输出普通信息
func PrintInfoTxt(txt string) {
	current().Printf("%s", txt)
}

// Exit 通过退出函数终止
func Exit(code int) {
	mu.Lock()
	fn := exitFn
	mu.Unlock()
	fn(code)
}

// Fatal 打印诊断并以状态码1终止，err 为 nil 时不做任何事
func Fatal(err error) {
	if err == nil {
		return
	}
	PrintErrorTxt(err.Error())
	Exit(1)
}

// Must 成功时返回 v，失败时按 Fatal 处理
func Must[T any](v T, err error) T {
	Fatal(err)
	return v
}

// Check 失败时按 Fatal 处理
func Check(err error) {
	Fatal(err)
}

func current() *log.Logger {
	mu.Lock()
	defer mu.Unlock()
	return logger
}
