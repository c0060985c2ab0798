package dispatch

import (
	"errors"
	"fmt"

	"github.com/benbjohnson/clock"
	"go.uber.org/multierr"

	"github.com/dep2p/go-eventsource/internal/core/async"
	"github.com/dep2p/go-eventsource/internal/core/metrics"
	pkgif "github.com/dep2p/go-eventsource/pkg/interfaces"
	"github.com/dep2p/go-eventsource/pkg/lib/log"
)

var logger = log.Logger("core/dispatch")

// ============================================================================
// 错误定义
// ============================================================================

var (
	// ErrHandlerPanic 处理器 panic（仅 Isolate 策略下作为错误返回）
	ErrHandlerPanic = errors.New("handler panicked")
	// ErrUnknownPolicy 未知的失败策略
	ErrUnknownPolicy = errors.New("unknown failure policy")
)

// ============================================================================
// Loop 实现
// ============================================================================

// Loop 分发循环
//
// Loop 不持有处理器，每次 Dispatch 由调用方传入处理器快照。
// Loop 创建后只读，可被多个 goroutine 并发使用。
type Loop struct {
	source   string
	detacher pkgif.Detacher
	policy   Policy
	reporter pkgif.DispatchReporter
	clock    clock.Clock
}

// Option 分发循环选项
type Option func(*Loop)

// WithDetacher 设置异步桥，默认使用 async.Default()
func WithDetacher(d pkgif.Detacher) Option {
	return func(l *Loop) {
		if d != nil {
			l.detacher = d
		}
	}
}

// WithPolicy 设置失败策略
func WithPolicy(p Policy) Option {
	return func(l *Loop) {
		l.policy = p
	}
}

// WithReporter 设置指标上报器
func WithReporter(r pkgif.DispatchReporter) Option {
	return func(l *Loop) {
		if r != nil {
			l.reporter = r
		}
	}
}

// WithClock 设置时钟
func WithClock(c clock.Clock) Option {
	return func(l *Loop) {
		if c != nil {
			l.clock = c
		}
	}
}

// New 创建分发循环
//
// source 用于日志与指标标签，取值为 metrics.SourceEvent 或 metrics.SourceObservable。
func New(source string, opts ...Option) *Loop {
	l := &Loop{
		source:   source,
		policy:   FailFast,
		reporter: metrics.Nop(),
		clock:    clock.New(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.detacher == nil {
		l.detacher = async.Default()
	}
	return l
}

// Source 返回发布者类型
func (l *Loop) Source() string {
	return l.source
}

// Policy 返回失败策略
func (l *Loop) Policy() Policy {
	return l.policy
}

// Detacher 返回异步桥
func (l *Loop) Detacher() pkgif.Detacher {
	return l.detacher
}

// Dispatch 以 primary/full 调用所有处理器
//
// 同步处理器的返回值被丢弃；异步处理器返回的 Task 交给 Detacher 后立即继续。
// FailFast 下返回首个错误，Isolate 下返回合并后的错误。
func (l *Loop) Dispatch(handlers []pkgif.Handler, primary any, full []any) (err error) {
	if len(handlers) == 0 {
		return nil
	}

	// called 实际调用的处理器数，FailFast 中止后小于快照长度
	called := 0
	start := l.clock.Now()
	defer func() {
		elapsed := l.clock.Since(start)
		l.reporter.ObserveDispatch(l.source, called, elapsed)
		if !logger.Enabled(log.LevelDebug) {
			return
		}
		logger.Debug("分发完成",
			"source", l.source,
			"handlers", len(handlers),
			"called", called,
			"elapsed", elapsed,
			"failed", err != nil)
	}()

	for _, h := range handlers {
		called++
		task, herr := l.invoke(h, primary, full)
		if herr != nil {
			l.reporter.HandlerFailed(l.source)
			if l.policy == FailFast {
				return herr
			}
			err = multierr.Append(err, herr)
			continue
		}
		if task != nil {
			l.detacher.Detach(task)
		}
	}
	return err
}

// invoke 调用单个处理器
func (l *Loop) invoke(h pkgif.Handler, primary any, full []any) (task pkgif.Task, err error) {
	args := BuildCall(h.Arity(), primary, full)

	if l.policy == Isolate {
		defer func() {
			if r := recover(); r != nil {
				logger.Warn("处理器 panic", "source", l.source, "panic", r)
				task = nil
				err = fmt.Errorf("%w: %v", ErrHandlerPanic, r)
			}
		}()
	}

	return h.Invoke(args)
}
