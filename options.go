package eventsource

import (
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dep2p/go-eventsource/internal/config"
	"github.com/dep2p/go-eventsource/internal/core/dispatch"
)

// FailurePolicy 同步处理器失败策略
type FailurePolicy = dispatch.Policy

const (
	// FailFast 首个同步处理器错误中止分发（默认）
	FailFast = dispatch.FailFast

	// Isolate 所有处理器都会执行，错误合并后返回
	Isolate = dispatch.Isolate
)

// Option 用户配置选项函数
type Option func(*options) error

// options 内部选项结构
type options struct {
	cfg *config.Config

	// 指标
	registerer prometheus.Registerer

	// 异步任务失败回调
	errorHook func(error)

	// 日志
	installLogger bool
	logOutput     io.Writer
}

// newOptions 创建默认选项
func newOptions() *options {
	return &options{
		cfg: config.NewConfig(),
	}
}

// apply 依次应用选项并校验
func (o *options) apply(opts []Option) error {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(o); err != nil {
			return err
		}
	}
	if err := o.cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// ════════════════════════════════════════════════════════════════════════════
//                              分发选项
// ════════════════════════════════════════════════════════════════════════════

// WithFailurePolicy 设置同步处理器失败策略
func WithFailurePolicy(p FailurePolicy) Option {
	return func(o *options) error {
		switch p {
		case FailFast:
			o.cfg.Dispatch.FailurePolicy = config.PolicyFailFast
		case Isolate:
			o.cfg.Dispatch.FailurePolicy = config.PolicyIsolate
		default:
			return fmt.Errorf("%w: %s", ErrUnknownPolicy, p)
		}
		return nil
	}
}

// ════════════════════════════════════════════════════════════════════════════
//                              异步运行时选项
// ════════════════════════════════════════════════════════════════════════════

// WithDrainTimeout 设置 Close 时等待异步任务结束的最长时间
//
// 0 表示只受 Close 的 context 约束。
func WithDrainTimeout(d time.Duration) Option {
	return func(o *options) error {
		if d < 0 {
			return fmt.Errorf("%w: drain timeout must not be negative", ErrInvalidConfig)
		}
		o.cfg.Async.DrainTimeout = d
		return nil
	}
}

// WithErrorHook 设置异步任务失败回调
//
// 异步处理器的错误和 panic 不会返回给触发方，只记录日志并交给此回调。
func WithErrorHook(hook func(error)) Option {
	return func(o *options) error {
		o.errorHook = hook
		return nil
	}
}

// ════════════════════════════════════════════════════════════════════════════
//                              指标选项
// ════════════════════════════════════════════════════════════════════════════

// WithMetrics 启用或禁用分发指标
func WithMetrics(enable bool) Option {
	return func(o *options) error {
		o.cfg.Metrics.Enable = enable
		return nil
	}
}

// WithMetricsNamespace 设置 Prometheus 指标命名空间
func WithMetricsNamespace(ns string) Option {
	return func(o *options) error {
		o.cfg.Metrics.Namespace = ns
		return nil
	}
}

// WithRegisterer 注册 Prometheus 收集器
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) error {
		o.registerer = reg
		return nil
	}
}

// ════════════════════════════════════════════════════════════════════════════
//                              日志选项
// ════════════════════════════════════════════════════════════════════════════

// WithLogLevel 设置日志级别并安装默认 logger
//
// 格式同 EVENTSOURCE_LOG_LEVEL：组件=级别,组件=级别,默认级别
func WithLogLevel(level string) Option {
	return func(o *options) error {
		o.cfg.Log.Level = level
		o.installLogger = true
		return nil
	}
}

// WithLogFormat 设置日志格式 (text 或 json) 并安装默认 logger
func WithLogFormat(format string) Option {
	return func(o *options) error {
		o.cfg.Log.Format = format
		o.installLogger = true
		return nil
	}
}

// WithLogOutput 设置日志输出目标，默认 os.Stderr
func WithLogOutput(w io.Writer) Option {
	return func(o *options) error {
		o.logOutput = w
		o.installLogger = true
		return nil
	}
}

// ════════════════════════════════════════════════════════════════════════════
//                              配置文件
// ════════════════════════════════════════════════════════════════════════════

// WithConfig 应用用户配置
func WithConfig(uc *UserConfig) Option {
	return func(o *options) error {
		if uc == nil {
			return nil
		}
		for _, opt := range uc.ToOptions() {
			if err := opt(o); err != nil {
				return err
			}
		}
		return nil
	}
}
