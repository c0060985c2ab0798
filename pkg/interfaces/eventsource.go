// Package interfaces 定义 go-eventsource 公共接口
//
// 本文件定义 EventSource 与 Observable 接口。
package interfaces

import (
	"context"

	"github.com/dep2p/go-eventsource/pkg/types"
)

// HandlerSet 定义处理器集合的管理操作
type HandlerSet interface {
	// AddHandler 注册处理器，重复注册同一处理器返回已有令牌
	AddHandler(h Handler) (types.Token, error)

	// RemoveHandler 移除处理器，未注册时返回错误
	RemoveHandler(h Handler) error

	// RemoveToken 按令牌移除处理器，未注册时返回错误
	RemoveToken(tok types.Token) error

	// HasHandlers 是否存在已注册的处理器
	HasHandlers() bool

	// Len 已注册处理器数量
	Len() int
}

// EventSource 定义事件源接口
//
// 事件源包装一个调用：调用成功返回后，以 (sender, args) 通知所有处理器。
type EventSource[R any] interface {
	HandlerSet

	// Call 执行被包装的调用并分发事件
	//
	// sender 始终是被包装调用的第一个参数。被包装调用失败时直接返回错误，
	// 不触发任何处理器；否则返回其结果以及分发过程中的同步处理器错误。
	Call(sender any, args ...any) (R, error)

	// CallAsync 在异步运行时上执行被包装的调用，完成并分发后投递结果
	CallAsync(ctx context.Context, sender any, args ...any) <-chan types.Result[R]

	// Bind 返回绑定到接收者的事件
	Bind(receiver any) BoundEvent[R]
}

// BoundEvent 定义绑定到接收者的事件
//
// 处理器注册在共享的 EventSource 上，Call 时接收者作为 sender。
type BoundEvent[R any] interface {
	HandlerSet

	// Call 以绑定的接收者作为 sender 调用事件源
	Call(args ...any) (R, error)

	// CallAsync 以绑定的接收者作为 sender 异步调用事件源
	CallAsync(ctx context.Context, args ...any) <-chan types.Result[R]

	// Receiver 返回绑定的接收者
	Receiver() any
}

// Observable 定义可观察值接口
//
// Observable 自身也是 Handler（Arity 为 2），可直接注册到 EventSource 上，
// 此时收到的载荷成为新的状态。
type Observable[T any] interface {
	Handler

	// Attach 附加观察者，重复附加同一观察者返回已有令牌
	Attach(h Handler) (types.Token, error)

	// Detach 分离观察者，未附加时静默忽略
	Detach(h Handler)

	// DetachToken 按令牌分离观察者，未附加时静默忽略
	DetachToken(tok types.Token)

	// State 返回当前值，未赋值时返回零值
	State() T

	// Value 返回当前值以及是否持有值
	Value() (T, bool)

	// HasValue 是否持有值
	HasValue() bool

	// Set 赋值并通知所有观察者
	Set(v T) error

	// Notify 赋值并通知所有观察者，不做相等性短路
	Notify(v T) error

	// Clear 回到未赋值状态并以零值通知观察者
	Clear() error

	// Call 动态调用约定：无参数为读取，否则等同于 Invoke
	Call(values ...any) (T, error)

	// Len 已附加观察者数量
	Len() int
}
