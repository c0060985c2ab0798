package eventsource

import (
	"context"
	"fmt"
	"maps"
	"os"
	"sync"

	"github.com/dep2p/go-eventsource/internal/config"
	"github.com/dep2p/go-eventsource/internal/core/async"
	"github.com/dep2p/go-eventsource/internal/core/dispatch"
	"github.com/dep2p/go-eventsource/internal/core/metrics"
	"github.com/dep2p/go-eventsource/internal/core/observable"
	"github.com/dep2p/go-eventsource/internal/core/source"
	"github.com/dep2p/go-eventsource/internal/util/logger"
	pkgif "github.com/dep2p/go-eventsource/pkg/interfaces"
	"github.com/dep2p/go-eventsource/pkg/lib/log"
	"github.com/dep2p/go-eventsource/pkg/types"
)

var engineLogger = log.Logger("eventsource")

// Stats 分发统计快照
type Stats = metrics.Stats

// SourceStats 单类发布者统计
type SourceStats = metrics.SourceStats

// ════════════════════════════════════════════════════════════════════════════
//                              Engine
// ════════════════════════════════════════════════════════════════════════════

// Engine 分发引擎
//
// Engine 持有异步运行时、指标计数器以及两条分发循环（EventSource 与 Observable），
// 通过 NewEventSource/NewObservable 创建的实例共享它们。
type Engine struct {
	cfg     *config.Config
	runtime *async.Runtime
	counter *metrics.DispatchCounter
	policy  dispatch.Policy
	events  *dispatch.Loop
	values  *dispatch.Loop
}

// New 创建分发引擎
func New(opts ...Option) (*Engine, error) {
	o := newOptions()
	if err := o.apply(opts); err != nil {
		return nil, err
	}

	if o.installLogger {
		installLogger(o)
	}

	counter := metrics.NewDispatchCounter()
	var reporter pkgif.DispatchReporter = metrics.Nop()
	if o.cfg.Metrics.Enable {
		reporter = counter
		if o.registerer != nil {
			if err := o.registerer.Register(metrics.NewCollector(o.cfg.Metrics.Namespace, counter)); err != nil {
				return nil, fmt.Errorf("register metrics collector: %w", err)
			}
		}
	}

	rt := async.NewRuntime(
		async.WithReporter(reporter),
		async.WithErrorHook(o.errorHook),
	)
	return newEngine(o.cfg, rt, counter, reporter)
}

// newEngine 由已构造的组件组装引擎
func newEngine(cfg *config.Config, rt *async.Runtime, counter *metrics.DispatchCounter, reporter pkgif.DispatchReporter) (*Engine, error) {
	policy, err := dispatch.ParsePolicy(cfg.Dispatch.FailurePolicy)
	if err != nil {
		return nil, err
	}

	newLoop := func(source string) *dispatch.Loop {
		return dispatch.New(source,
			dispatch.WithDetacher(rt),
			dispatch.WithPolicy(policy),
			dispatch.WithReporter(reporter),
		)
	}

	engineLogger.Debug("分发引擎已创建",
		"policy", policy.String(),
		"metrics", cfg.Metrics.Enable,
		"drain_timeout", cfg.Async.DrainTimeout)

	return &Engine{
		cfg:     cfg,
		runtime: rt,
		counter: counter,
		policy:  policy,
		events:  newLoop(metrics.SourceEvent),
		values:  newLoop(metrics.SourceObservable),
	}, nil
}

// installLogger 按配置安装默认 logger
func installLogger(o *options) {
	lc := *logger.ConfigFromEnv()
	lc.ComponentLevels = maps.Clone(lc.ComponentLevels)
	if o.cfg.Log.Level != "" {
		logger.ParseLevelConfig(&lc, o.cfg.Log.Level)
	}
	if o.cfg.Log.Format != "" {
		lc.Format = logger.ParseFormat(o.cfg.Log.Format)
	}

	w := o.logOutput
	if w == nil {
		w = os.Stderr
	}
	logger.Install(w, &lc)
}

// Policy 返回失败策略
func (e *Engine) Policy() FailurePolicy {
	return e.policy
}

// Detacher 返回异步桥
func (e *Engine) Detacher() pkgif.Detacher {
	return e.runtime
}

// Stats 返回分发统计快照
func (e *Engine) Stats() Stats {
	return e.counter.Snapshot()
}

// Pending 返回运行中的异步任务数
func (e *Engine) Pending() int64 {
	return e.runtime.Pending()
}

// Wait 等待所有异步任务结束
func (e *Engine) Wait(ctx context.Context) error {
	return e.runtime.Wait(ctx)
}

// Close 关闭引擎
//
// 停止接收新的异步任务，并在排空超时内等待运行中的任务结束。
// 由 fx 管理的引擎在应用停止时自动关闭。
func (e *Engine) Close(ctx context.Context) error {
	if d := e.cfg.Async.DrainTimeout; d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}
	return e.runtime.Close(ctx)
}

// ════════════════════════════════════════════════════════════════════════════
//                              进程级默认引擎
// ════════════════════════════════════════════════════════════════════════════

// Default 返回进程级默认引擎
//
// 默认引擎使用 async.Default() 运行时，使用默认配置，不收集指标。
var Default = sync.OnceValue(func() *Engine {
	e, err := newEngine(config.NewConfig(), async.Default(), metrics.NewDispatchCounter(), metrics.Nop())
	if err != nil {
		panic(err)
	}
	return e
})

// engineOrDefault nil 时返回默认引擎
func engineOrDefault(e *Engine) *Engine {
	if e == nil {
		return Default()
	}
	return e
}

// ════════════════════════════════════════════════════════════════════════════
//                              EventSource
// ════════════════════════════════════════════════════════════════════════════

// EventOption EventSource 选项
type EventOption = source.Option

// WithPayload 设置载荷构造器
func WithPayload(factory types.PayloadFactory) EventOption {
	return source.WithPayload(factory)
}

// WithEventArgs 以 *types.EventArgs 作为载荷类型
func WithEventArgs() EventOption {
	return source.WithEventArgs()
}

// WithEventName 设置事件名称，仅用于日志
func WithEventName(name string) EventOption {
	return source.WithName(name)
}

// NewEventSource 创建事件源
//
// e 为 nil 时使用默认引擎。fn 的第一个参数始终是 sender。
func NewEventSource[R any](e *Engine, fn func(sender any, args ...any) (R, error), opts ...EventOption) (pkgif.EventSource[R], error) {
	e = engineOrDefault(e)
	if fn == nil {
		return nil, ErrNilFunc
	}

	all := append([]EventOption{source.WithLoop(e.events)}, opts...)
	src, err := source.New(source.Func[R](fn), all...)
	if err != nil {
		return nil, err
	}
	return src, nil
}

// ════════════════════════════════════════════════════════════════════════════
//                              Observable
// ════════════════════════════════════════════════════════════════════════════

// ObservableOption Observable 选项
type ObservableOption = observable.Option

// WithObservableName 设置 Observable 名称，仅用于日志
func WithObservableName(name string) ObservableOption {
	return observable.WithName(name)
}

// NewObservable 创建未赋值的 Observable
//
// e 为 nil 时使用默认引擎。
func NewObservable[T any](e *Engine, opts ...ObservableOption) pkgif.Observable[T] {
	e = engineOrDefault(e)

	all := append([]ObservableOption{observable.WithLoop(e.values)}, opts...)
	return observable.New[T](all...)
}
