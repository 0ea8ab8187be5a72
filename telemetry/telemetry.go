// Package telemetry 初始化 OpenTelemetry 链路追踪
//
// 追踪为可选项：ASFEM_OTEL_ENDPOINT 为空或 ASFEM_OTEL_ENABLED 为 "false" 时
// 不注册全局 provider，返回空的 shutdown。
package telemetry

import (
	"context"
	"errors"
	"log"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// 环境变量
const (
	EnvEndpoint = "ASFEM_OTEL_ENDPOINT"
	EnvEnabled  = "ASFEM_OTEL_ENABLED"
)

// ShutdownTimeout 刷新 span 的最长等待时间
const ShutdownTimeout = 5 * time.Second

// Enabled 当前环境是否开启追踪
func Enabled() bool {
	if strings.EqualFold(os.Getenv(EnvEnabled), "false") {
		return false
	}
	return os.Getenv(EnvEndpoint) != ""
}

// Setup 为 serviceName 建立 tracer provider，返回的 shutdown 用于刷新未发送的 span
func Setup(ctx context.Context, serviceName string) (shutdown func(context.Context) error, err error) {
	noop := func(context.Context) error { return nil }
	if !Enabled() {
		return noop, nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(os.Getenv(EnvEndpoint)),
	)
	if err != nil {
		return noop, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return noop, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}

// Run 在追踪环境中执行 run，结束后刷新并关闭 provider
func Run(ctx context.Context, service string, run func(context.Context) error) error {
	if run == nil {
		return errors.New("telemetry: run function is required")
	}
	shutdown, err := Setup(ctx, service)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			log.Printf("%s otel shutdown: %v", service, err)
		}
	}()
	return run(ctx)
}
