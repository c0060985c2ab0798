// Package config 提供 go-eventsource 配置管理层
//
// config 包负责：
// - 定义内部配置结构
// - 提供默认值
// - 配置校验
package config

import "time"

// Config 内部配置结构
//
// 用户配置（根包 UserConfig / Option）会被转换为此结构。
type Config struct {
	// Dispatch 分发循环配置
	Dispatch DispatchConfig

	// Async 异步运行时配置
	Async AsyncConfig

	// Metrics 指标配置
	Metrics MetricsConfig

	// Log 日志配置
	Log LogConfig
}

// DispatchConfig 分发循环配置
type DispatchConfig struct {
	// FailurePolicy 同步处理器失败策略
	// "fail-fast": 首个错误中止本轮分发并返回（默认）
	// "isolate": 所有处理器都会执行，错误合并后返回
	FailurePolicy string
}

// AsyncConfig 异步运行时配置
type AsyncConfig struct {
	// DrainTimeout 关闭时等待异步任务结束的最长时间
	// 0 表示只受调用方 context 约束
	DrainTimeout time.Duration
}

// MetricsConfig 指标配置
type MetricsConfig struct {
	// Enable 是否收集分发指标
	Enable bool

	// Namespace Prometheus 指标命名空间
	Namespace string
}

// LogConfig 日志配置
type LogConfig struct {
	// Level 日志级别配置，格式同 EVENTSOURCE_LOG_LEVEL
	// 为空时使用环境变量
	Level string

	// Format 日志格式 (text 或 json)
	Format string
}

// NewConfig 创建默认配置
func NewConfig() *Config {
	return &Config{
		Dispatch: DefaultDispatchConfig(),
		Async:    DefaultAsyncConfig(),
		Metrics:  DefaultMetricsConfig(),
		Log:      DefaultLogConfig(),
	}
}

// DefaultDispatchConfig 默认分发配置
func DefaultDispatchConfig() DispatchConfig {
	return DispatchConfig{
		FailurePolicy: PolicyFailFast,
	}
}

// DefaultAsyncConfig 默认异步运行时配置
func DefaultAsyncConfig() AsyncConfig {
	return AsyncConfig{
		DrainTimeout: DefaultDrainTimeout,
	}
}

// DefaultMetricsConfig 默认指标配置
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Enable:    true,
		Namespace: DefaultMetricsNamespace,
	}
}

// DefaultLogConfig 默认日志配置
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Format: "text",
	}
}
