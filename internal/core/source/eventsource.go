package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/dep2p/go-eventsource/internal/core/dispatch"
	"github.com/dep2p/go-eventsource/internal/core/registry"
	pkgif "github.com/dep2p/go-eventsource/pkg/interfaces"
	"github.com/dep2p/go-eventsource/pkg/lib/log"
	"github.com/dep2p/go-eventsource/pkg/types"
)

var logger = log.Logger("core/source")

// ============================================================================
// 错误定义
// ============================================================================

var (
	// ErrUnknownHandler 移除未注册的处理器
	ErrUnknownHandler = errors.New("handler is not registered")
	// ErrNilFunc 被包装的调用为 nil
	ErrNilFunc = errors.New("nil event func")
	// ErrCallPanic 异步调用过程中发生 panic
	ErrCallPanic = errors.New("event call panicked")
)

// Func 被包装的调用
//
// sender 始终是第一个参数；返回错误时不触发处理器。
type Func[R any] func(sender any, args ...any) (R, error)

// submitter 可报告提交失败的异步桥
type submitter interface {
	Go(task pkgif.Task) error
}

// ============================================================================
// EventSource 实现
// ============================================================================

// EventSource 事件源
type EventSource[R any] struct {
	name     string
	fn       Func[R]
	factory  types.PayloadFactory
	registry *registry.Registry
	loop     *dispatch.Loop
}

var _ pkgif.EventSource[any] = (*EventSource[any])(nil)

// New 创建事件源
func New[R any](fn Func[R], opts ...Option) (*EventSource[R], error) {
	if fn == nil {
		return nil, ErrNilFunc
	}

	s := buildSettings(opts)
	return &EventSource[R]{
		name:     s.name,
		fn:       fn,
		factory:  s.factory,
		registry: registry.New(),
		loop:     s.loop,
	}, nil
}

// Name 返回事件名称
func (e *EventSource[R]) Name() string {
	return e.name
}

// AddHandler 注册处理器
func (e *EventSource[R]) AddHandler(h pkgif.Handler) (types.Token, error) {
	tok, added, err := e.registry.Add(h)
	if err != nil {
		return "", err
	}
	if added {
		logger.Debug("注册处理器", "event", e.name, "token", tok.ShortString(), "arity", h.Arity())
	}
	return tok, nil
}

// RemoveHandler 移除处理器，未注册时返回 ErrUnknownHandler
func (e *EventSource[R]) RemoveHandler(h pkgif.Handler) error {
	if !e.registry.Remove(h) {
		return ErrUnknownHandler
	}
	return nil
}

// RemoveToken 按令牌移除处理器，未注册时返回 ErrUnknownHandler
func (e *EventSource[R]) RemoveToken(tok types.Token) error {
	if !e.registry.RemoveToken(tok) {
		return ErrUnknownHandler
	}
	return nil
}

// HasHandlers 是否存在已注册的处理器
func (e *EventSource[R]) HasHandlers() bool {
	return e.registry.Len() > 0
}

// Len 已注册处理器数量
func (e *EventSource[R]) Len() int {
	return e.registry.Len()
}

// Call 执行被包装的调用并分发事件
func (e *EventSource[R]) Call(sender any, args ...any) (R, error) {
	res, err := e.fn(sender, args...)
	if err != nil {
		return res, err
	}
	return res, e.fire(sender, args)
}

// CallAsync 在异步桥上执行被包装的调用
//
// 结果通道恰好收到一个结果后关闭。ctx 在调用开始前结束时投递 ctx.Err()。
// 调用或同步处理器 panic 时投递 ErrCallPanic，同一错误作为任务错误交给异步桥，
// panic 不会传出 CallAsync。
func (e *EventSource[R]) CallAsync(ctx context.Context, sender any, args ...any) <-chan types.Result[R] {
	out := make(chan types.Result[R], 1)
	deliver := func(r types.Result[R]) {
		out <- r
		close(out)
	}

	task := func(context.Context) (err error) {
		defer func() {
			if p := recover(); p != nil {
				err = fmt.Errorf("%w: %v", ErrCallPanic, p)
				deliver(types.Result[R]{Err: err})
			}
		}()

		if err := ctx.Err(); err != nil {
			deliver(types.Result[R]{Err: err})
			return nil
		}
		res, err := e.Call(sender, args...)
		deliver(types.Result[R]{Value: res, Err: err})
		return nil
	}

	d := e.loop.Detacher()
	if sub, ok := d.(submitter); ok {
		if err := sub.Go(task); err != nil {
			deliver(types.Result[R]{Err: err})
		}
		return out
	}
	d.Detach(task)
	return out
}

// Bind 返回绑定到接收者的事件
func (e *EventSource[R]) Bind(receiver any) pkgif.BoundEvent[R] {
	return &BoundEvent[R]{source: e, receiver: receiver}
}

// Payload 按载荷规则构造载荷
func (e *EventSource[R]) Payload(args []any) types.Payload {
	if len(args) == 0 {
		return types.Empty()
	}
	if p, ok := types.AsPayload(args[0]); ok {
		return p
	}
	if e.factory != nil {
		if p := e.factory(types.NewEventArgs(args...)); p != nil {
			return p
		}
	}
	return types.Empty()
}

// fire 以 (sender, payload) 通知所有处理器
func (e *EventSource[R]) fire(sender any, args []any) error {
	handlers := e.registry.Snapshot()
	if len(handlers) == 0 {
		return nil
	}

	payload := e.Payload(args)
	return e.loop.Dispatch(handlers, payload, []any{sender, payload})
}
