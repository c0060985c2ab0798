package source

import (
	"github.com/dep2p/go-eventsource/internal/core/dispatch"
	"github.com/dep2p/go-eventsource/internal/core/metrics"
	pkgif "github.com/dep2p/go-eventsource/pkg/interfaces"
	"github.com/dep2p/go-eventsource/pkg/types"
)

// settings EventSource 构造参数
type settings struct {
	name     string
	factory  types.PayloadFactory
	loop     *dispatch.Loop
	loopOpts []dispatch.Option
}

// Option EventSource 选项
type Option func(*settings)

// WithName 设置事件名称，仅用于日志
func WithName(name string) Option {
	return func(s *settings) {
		s.name = name
	}
}

// WithPayload 设置载荷构造器
func WithPayload(factory types.PayloadFactory) Option {
	return func(s *settings) {
		s.factory = factory
	}
}

// WithEventArgs 以 *types.EventArgs 作为载荷类型
func WithEventArgs() Option {
	return WithPayload(func(args *types.EventArgs) types.Payload {
		return args
	})
}

// WithLoop 使用已有的分发循环，忽略其它分发选项
func WithLoop(loop *dispatch.Loop) Option {
	return func(s *settings) {
		s.loop = loop
	}
}

// WithDetacher 设置异步桥
func WithDetacher(d pkgif.Detacher) Option {
	return func(s *settings) {
		s.loopOpts = append(s.loopOpts, dispatch.WithDetacher(d))
	}
}

// WithPolicy 设置失败策略
func WithPolicy(p dispatch.Policy) Option {
	return func(s *settings) {
		s.loopOpts = append(s.loopOpts, dispatch.WithPolicy(p))
	}
}

// WithReporter 设置指标上报器
func WithReporter(r pkgif.DispatchReporter) Option {
	return func(s *settings) {
		s.loopOpts = append(s.loopOpts, dispatch.WithReporter(r))
	}
}

// buildSettings 应用选项
func buildSettings(opts []Option) *settings {
	s := &settings{}
	for _, opt := range opts {
		opt(s)
	}
	if s.loop == nil {
		s.loop = dispatch.New(metrics.SourceEvent, s.loopOpts...)
	}
	return s
}
