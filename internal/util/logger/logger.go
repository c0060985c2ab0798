// Package logger 提供 go-eventsource 的日志安装
//
// 组件代码统一使用 pkg/lib/log.Logger(component)，
// 本包负责根据配置构造默认 slog.Logger 并安装：
//
//	cfg := logger.ConfigFromEnv()
//	logger.Install(os.Stderr, cfg)
//
// 环境变量配置:
//
//	# 所有组件为 info，分发循环为 debug
//	EVENTSOURCE_LOG_LEVEL=core/dispatch=debug,info
//
//	# 使用 JSON 格式输出
//	EVENTSOURCE_LOG_FORMAT=json
package logger

import (
	"io"
	"log/slog"

	"github.com/dep2p/go-eventsource/pkg/lib/log"
)

// New 根据配置创建 Logger
func New(w io.Writer, cfg *Config) *slog.Logger {
	if cfg == nil {
		cfg = ConfigFromEnv()
	}
	return slog.New(newHandler(w, cfg))
}

// Install 根据配置创建 Logger 并设为默认
//
// pkg/lib/log.LazyLogger 每次调用都读取 slog.Default()，
// 所以安装后已创建的组件 logger 立即生效。
func Install(w io.Writer, cfg *Config) *slog.Logger {
	l := New(w, cfg)
	log.SetDefault(l)
	return l
}

// Discard 返回一个丢弃所有日志的 Logger
//
// 主要用于测试，避免日志输出干扰测试结果。
func Discard() *slog.Logger {
	return slog.New(DiscardHandler())
}
