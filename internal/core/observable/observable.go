package observable

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/dep2p/go-eventsource/internal/core/dispatch"
	"github.com/dep2p/go-eventsource/internal/core/metrics"
	"github.com/dep2p/go-eventsource/internal/core/registry"
	pkgif "github.com/dep2p/go-eventsource/pkg/interfaces"
	"github.com/dep2p/go-eventsource/pkg/lib/log"
	"github.com/dep2p/go-eventsource/pkg/types"
)

var logger = log.Logger("core/observable")

// ============================================================================
// 错误定义
// ============================================================================

var (
	// ErrValueType 写入值的类型与 Observable 不匹配
	ErrValueType = errors.New("observable value type mismatch")
)

// ============================================================================
// 选项
// ============================================================================

// settings Observable 构造参数
type settings struct {
	name     string
	loop     *dispatch.Loop
	loopOpts []dispatch.Option
}

// Option Observable 选项
type Option func(*settings)

// WithName 设置名称，仅用于日志
func WithName(name string) Option {
	return func(s *settings) {
		s.name = name
	}
}

// WithLoop 使用已有的分发循环
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

// ============================================================================
// Observable 实现
// ============================================================================

// Observable 可观察值
type Observable[T any] struct {
	name     string
	registry *registry.Registry
	loop     *dispatch.Loop

	mu    sync.RWMutex
	value T
	has   bool
}

var _ pkgif.Observable[any] = (*Observable[any])(nil)

// New 创建未赋值的 Observable
func New[T any](opts ...Option) *Observable[T] {
	s := &settings{}
	for _, opt := range opts {
		opt(s)
	}
	if s.loop == nil {
		s.loop = dispatch.New(metrics.SourceObservable, s.loopOpts...)
	}

	return &Observable[T]{
		name:     s.name,
		registry: registry.New(),
		loop:     s.loop,
	}
}

// Name 返回名称
func (o *Observable[T]) Name() string {
	return o.name
}

// ----------------------------------------------------------------------------
// 观察者管理
// ----------------------------------------------------------------------------

// Attach 附加观察者
func (o *Observable[T]) Attach(h pkgif.Handler) (types.Token, error) {
	tok, added, err := o.registry.Add(h)
	if err != nil {
		return "", err
	}
	if added {
		logger.Debug("附加观察者", "observable", o.name, "token", tok.ShortString(), "arity", h.Arity())
	}
	return tok, nil
}

// Detach 分离观察者，未附加时静默忽略
func (o *Observable[T]) Detach(h pkgif.Handler) {
	o.registry.Remove(h)
}

// DetachToken 按令牌分离观察者，未附加时静默忽略
func (o *Observable[T]) DetachToken(tok types.Token) {
	o.registry.RemoveToken(tok)
}

// Len 已附加观察者数量
func (o *Observable[T]) Len() int {
	return o.registry.Len()
}

// ----------------------------------------------------------------------------
// 值槽位
// ----------------------------------------------------------------------------

// State 返回当前值，未赋值时返回零值
func (o *Observable[T]) State() T {
	v, _ := o.Value()
	return v
}

// Value 返回当前值以及是否持有值
func (o *Observable[T]) Value() (T, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.value, o.has
}

// HasValue 是否持有值
func (o *Observable[T]) HasValue() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.has
}

// Set 赋值并通知所有观察者
func (o *Observable[T]) Set(v T) error {
	return o.Notify(v)
}

// Notify 赋值并通知所有观察者
//
// 即使新值与旧值相等也会通知。
func (o *Observable[T]) Notify(v T) error {
	o.mu.Lock()
	o.value, o.has = v, true
	o.mu.Unlock()

	return o.dispatch(v)
}

// Clear 回到未赋值状态并以零值通知观察者
func (o *Observable[T]) Clear() error {
	var zero T
	o.mu.Lock()
	o.value, o.has = zero, false
	o.mu.Unlock()

	return o.dispatch(nil)
}

// dispatch 通知观察者
//
// 未赋值状态下观察者收到 nil，由处理器适配器转换为零值。
func (o *Observable[T]) dispatch(v any) error {
	handlers := o.registry.Snapshot()
	if len(handlers) == 0 {
		return nil
	}
	return o.loop.Dispatch(handlers, v, []any{v})
}

// ----------------------------------------------------------------------------
// 处理器形态
// ----------------------------------------------------------------------------

// Arity 实现 interfaces.Handler
//
// 作为 EventSource 处理器时收到 (sender, payload)；
// 作为另一个 Observable 的观察者时收到 (value, nil)。
func (o *Observable[T]) Arity() int {
	return 2
}

// Invoke 实现 interfaces.Handler
//
//   - 第二个参数属于载荷族时以它为新值（丢弃 sender）
//   - 否则以第一个参数为新值
//   - 无参数时不做任何事
func (o *Observable[T]) Invoke(args []any) (pkgif.Task, error) {
	switch {
	case len(args) > 1 && isPayload(args[1]):
		return nil, o.write(args[1])
	case len(args) > 0:
		return nil, o.write(args[0])
	default:
		return nil, nil
	}
}

// Call 动态调用约定：无参数为读取，否则等同于 Invoke
func (o *Observable[T]) Call(values ...any) (T, error) {
	if len(values) > 0 {
		if _, err := o.Invoke(values); err != nil {
			return o.State(), err
		}
	}
	return o.State(), nil
}

// write 将任意值写入槽位
//
// nil 清空；共享空载荷在 T 无法持有时写入零值；其它不可赋值的值返回 ErrValueType。
func (o *Observable[T]) write(v any) error {
	if v == nil {
		return o.Clear()
	}
	if t, ok := v.(T); ok {
		return o.Notify(t)
	}
	if types.IsEmptyPayload(v) {
		var zero T
		return o.Notify(zero)
	}
	return fmt.Errorf("%w: got %T, want %s", ErrValueType, v, reflect.TypeOf((*T)(nil)).Elem())
}

// isPayload 是否属于载荷族
func isPayload(v any) bool {
	_, ok := types.AsPayload(v)
	return ok
}
