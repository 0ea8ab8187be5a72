package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"asfem"
	"asfem/input"
	"asfem/message"
	"asfem/telemetry"
)

// Config 命令行配置，环境变量给出默认值，命令行参数覆盖
type Config struct {
	Input   string `env:"ASFEM_INPUT" envDefault:"input.json"`
	Output  string `env:"ASFEM_OUTPUT_DIR"`
	Verbose bool   `env:"ASFEM_VERBOSE"`
}

// ParseConfig 依次读取环境变量与命令行参数
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := input.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.Input, "i", cfg.Input, "输入文件")
	fs.StringVar(&cfg.Output, "o", cfg.Output, "输出目录（覆盖输入文件中的 output.dir）")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "打印每次非线性迭代的残差")
	if args == nil {
		args = []string{}
	}
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// run 读取输入并执行计算
func run(ctx context.Context, cfg Config) error {
	in, err := input.Load(cfg.Input)
	if err != nil {
		return err
	}
	if cfg.Output != "" {
		in.Output.Dir = cfg.Output
	}
	sim, err := asfem.New(in)
	if err != nil {
		return err
	}
	sim.History.Verbose = cfg.Verbose

	st := sim.Engine.Settings()
	message.PrintInfoTxt(fmt.Sprintf("%d 个节点, kernel=%s, 求解器=%s, 线搜索=%s",
		sim.Problem.Size(), in.Kernel.Type, st.Method, st.LineSearch))
	if err := sim.Run(ctx); err != nil {
		return err
	}
	message.PrintInfoTxt(fmt.Sprintf("计算完成: %d 步, t=%g, 结果写入 %s", sim.Step, sim.Time, sim.Output.Dir))
	return nil
}

func main() {
	cfg, err := ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[ASFEM] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	message.Fatal(telemetry.Run(ctx, "asfem", func(ctx context.Context) error {
		return run(ctx, cfg)
	}))
}
