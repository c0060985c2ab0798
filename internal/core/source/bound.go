package source

import (
	"context"

	pkgif "github.com/dep2p/go-eventsource/pkg/interfaces"
	"github.com/dep2p/go-eventsource/pkg/types"
)

// BoundEvent 绑定到接收者的事件
//
// 处理器的增删作用于共享的 EventSource，对所有接收者生效。
type BoundEvent[R any] struct {
	source   *EventSource[R]
	receiver any
}

var _ pkgif.BoundEvent[any] = (*BoundEvent[any])(nil)

// Receiver 返回绑定的接收者
func (b *BoundEvent[R]) Receiver() any {
	return b.receiver
}

// Source 返回共享的事件源
func (b *BoundEvent[R]) Source() *EventSource[R] {
	return b.source
}

// Call 以接收者作为 sender 调用事件源
func (b *BoundEvent[R]) Call(args ...any) (R, error) {
	return b.source.Call(b.receiver, args...)
}

// CallAsync 以接收者作为 sender 异步调用事件源
func (b *BoundEvent[R]) CallAsync(ctx context.Context, args ...any) <-chan types.Result[R] {
	return b.source.CallAsync(ctx, b.receiver, args...)
}

// AddHandler 注册处理器
func (b *BoundEvent[R]) AddHandler(h pkgif.Handler) (types.Token, error) {
	return b.source.AddHandler(h)
}

// RemoveHandler 移除处理器
func (b *BoundEvent[R]) RemoveHandler(h pkgif.Handler) error {
	return b.source.RemoveHandler(h)
}

// RemoveToken 按令牌移除处理器
func (b *BoundEvent[R]) RemoveToken(tok types.Token) error {
	return b.source.RemoveToken(tok)
}

// HasHandlers 是否存在已注册的处理器
func (b *BoundEvent[R]) HasHandlers() bool {
	return b.source.HasHandlers()
}

// Len 已注册处理器数量
func (b *BoundEvent[R]) Len() int {
	return b.source.Len()
}
