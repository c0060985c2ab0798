package config

import "time"

// ============================================================================
//                              预设默认值
// ============================================================================

// 分发失败策略
const (
	// PolicyFailFast 首个同步处理器错误中止分发
	PolicyFailFast = "fail-fast"

	// PolicyIsolate 隔离处理器错误，所有处理器都会执行
	PolicyIsolate = "isolate"
)

// 异步运行时默认值
const (
	// DefaultDrainTimeout 默认关闭排空超时
	DefaultDrainTimeout = 5 * time.Second
)

// 指标默认值
const (
	// DefaultMetricsNamespace 默认指标命名空间
	DefaultMetricsNamespace = "eventsource"
)
