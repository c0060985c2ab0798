package async

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-eventsource/internal/core/metrics"
	pkgif "github.com/dep2p/go-eventsource/pkg/interfaces"
	"github.com/dep2p/go-eventsource/pkg/lib/log"
)

var logger = log.Logger("core/async")

// ============================================================================
// 错误定义
// ============================================================================

var (
	// ErrRuntimeClosed 运行时已关闭，新提交的任务被丢弃
	ErrRuntimeClosed = errors.New("async runtime closed")
	// ErrTaskPanic 异步任务 panic
	ErrTaskPanic = errors.New("detached task panicked")
)

// ErrorHook 异步任务失败回调
//
// 回调在任务所在的 goroutine 中执行，不应阻塞。
type ErrorHook func(err error)

// ============================================================================
// Runtime 实现
// ============================================================================

// Runtime 异步运行时
type Runtime struct {
	ctx    context.Context
	cancel context.CancelFunc

	onError  ErrorHook
	reporter pkgif.DispatchReporter
	clock    clock.Clock

	mu      sync.Mutex
	closed  bool
	running int64
	waiters []chan struct{}
}

// 确保 Runtime 实现 Detacher 接口
var _ pkgif.Detacher = (*Runtime)(nil)

// Option 运行时选项
type Option func(*Runtime)

// WithErrorHook 设置失败回调
func WithErrorHook(hook ErrorHook) Option {
	return func(r *Runtime) {
		r.onError = hook
	}
}

// WithReporter 设置指标上报器
func WithReporter(rep pkgif.DispatchReporter) Option {
	return func(r *Runtime) {
		if rep != nil {
			r.reporter = rep
		}
	}
}

// WithClock 设置时钟
func WithClock(c clock.Clock) Option {
	return func(r *Runtime) {
		if c != nil {
			r.clock = c
		}
	}
}

// WithBaseContext 设置任务的基础 context
func WithBaseContext(ctx context.Context) Option {
	return func(r *Runtime) {
		if ctx != nil {
			r.ctx = ctx
		}
	}
}

// NewRuntime 创建异步运行时
func NewRuntime(opts ...Option) *Runtime {
	r := &Runtime{
		ctx:      context.Background(),
		reporter: metrics.Nop(),
		clock:    clock.New(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.ctx, r.cancel = context.WithCancel(r.ctx)
	return r
}

// Detach 提交任务独立执行
//
// 运行时已关闭时任务被丢弃，ErrRuntimeClosed 交给错误钩子。
func (r *Runtime) Detach(task pkgif.Task) {
	if err := r.Go(task); err != nil {
		r.fail(err)
	}
}

// Go 提交任务独立执行，运行时已关闭时返回 ErrRuntimeClosed
func (r *Runtime) Go(task pkgif.Task) error {
	if task == nil {
		return nil
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrRuntimeClosed
	}
	r.running++
	r.mu.Unlock()

	r.reporter.TaskDetached()
	go r.run(task)
	return nil
}

// run 执行任务
func (r *Runtime) run(task pkgif.Task) {
	start := r.clock.Now()
	var err error

	defer func() {
		if p := recover(); p != nil {
			r.reporter.TaskPanicked()
			logger.ErrorContext(r.ctx, "异步任务 panic", "panic", p, "stack", string(debug.Stack()))
			err = fmt.Errorf("%w: %v", ErrTaskPanic, p)
		}
		r.reporter.TaskFinished(err, r.clock.Since(start))
		if err != nil {
			r.fail(err)
		}
		r.done()
	}()

	err = task(r.ctx)
}

// fail 记录失败并调用钩子
func (r *Runtime) fail(err error) {
	logger.Error("异步任务失败", "err", err)
	if r.onError != nil {
		r.onError(err)
	}
}

// done 任务结束，唤醒等待者
func (r *Runtime) done() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.running--
	if r.running == 0 {
		for _, ch := range r.waiters {
			close(ch)
		}
		r.waiters = nil
	}
}

// Pending 返回运行中的任务数
func (r *Runtime) Pending() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// Wait 等待所有已提交任务结束
//
// 等待期间新提交的任务也会被等待。ctx 结束时返回 ctx.Err()。
func (r *Runtime) Wait(ctx context.Context) error {
	r.mu.Lock()
	if r.running == 0 {
		r.mu.Unlock()
		return nil
	}
	ch := make(chan struct{})
	r.waiters = append(r.waiters, ch)
	r.mu.Unlock()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close 关闭运行时
//
// 停止接收新任务，等待运行中的任务直到 ctx 结束，然后取消基础 context。
// 重复调用只会再次等待。
func (r *Runtime) Close(ctx context.Context) error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()

	err := r.Wait(ctx)
	r.cancel()
	if err != nil {
		logger.Warn("关闭时仍有异步任务未结束", "pending", r.Pending(), "err", err)
	}
	return err
}

// Closed 是否已关闭
func (r *Runtime) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

// ============================================================================
// 进程级默认运行时
// ============================================================================

// Default 返回进程级默认运行时
//
// 未注入运行时的 EventSource/Observable 使用它。
var Default = sync.OnceValue(func() *Runtime {
	return NewRuntime()
})
