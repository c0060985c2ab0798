// Package handler 提供处理器适配器
//
// 适配器在构造时固定处理器的参数个数（Arity），
// 分发循环据此构造调用参数，无需在分发时检查函数签名。
package handler

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	pkgif "github.com/dep2p/go-eventsource/pkg/interfaces"
	"github.com/dep2p/go-eventsource/pkg/types"
)

// ============================================================================
// 错误定义
// ============================================================================

var (
	// ErrArgType 参数类型与处理器声明不匹配
	ErrArgType = errors.New("handler argument type mismatch")
	// ErrNotFunc Adapt 的参数不是函数
	ErrNotFunc = errors.New("handler is not a func")
	// ErrBadSignature 不支持的处理器签名
	ErrBadSignature = errors.New("unsupported handler signature")
)

// ============================================================================
// 同步处理器
// ============================================================================

type func0 struct {
	fn func() error
}

// Func0 创建不接收参数的同步处理器
func Func0(fn func() error) pkgif.Handler {
	return &func0{fn: fn}
}

func (h *func0) Arity() int { return 0 }

func (h *func0) Invoke([]any) (pkgif.Task, error) {
	return nil, h.fn()
}

type func1[T any] struct {
	fn func(T) error
}

// Func1 创建接收载荷的同步处理器
//
// EventSource 上传入 args，Observable 上传入新值。
func Func1[T any](fn func(T) error) pkgif.Handler {
	return &func1[T]{fn: fn}
}

func (h *func1[T]) Arity() int { return 1 }

func (h *func1[T]) Invoke(args []any) (pkgif.Task, error) {
	v, err := convert[T](argAt(args, 0))
	if err != nil {
		return nil, err
	}
	return nil, h.fn(v)
}

type func2[S, A any] struct {
	fn func(S, A) error
}

// Func2 创建接收 (sender, args) 的同步处理器
func Func2[S, A any](fn func(S, A) error) pkgif.Handler {
	return &func2[S, A]{fn: fn}
}

func (h *func2[S, A]) Arity() int { return 2 }

func (h *func2[S, A]) Invoke(args []any) (pkgif.Task, error) {
	s, err := convert[S](argAt(args, 0))
	if err != nil {
		return nil, err
	}
	a, err := convert[A](argAt(args, 1))
	if err != nil {
		return nil, err
	}
	return nil, h.fn(s, a)
}

// ============================================================================
// 异步处理器
// ============================================================================

type async0 struct {
	fn func(context.Context) error
}

// Async0 创建不接收参数的异步处理器
//
// 调用时立即返回 Task，由异步运行时独立执行。
func Async0(fn func(ctx context.Context) error) pkgif.Handler {
	return &async0{fn: fn}
}

func (h *async0) Arity() int { return 0 }

func (h *async0) Invoke([]any) (pkgif.Task, error) {
	return h.fn, nil
}

type async1[T any] struct {
	fn func(context.Context, T) error
}

// Async1 创建接收载荷的异步处理器
func Async1[T any](fn func(ctx context.Context, v T) error) pkgif.Handler {
	return &async1[T]{fn: fn}
}

func (h *async1[T]) Arity() int { return 1 }

func (h *async1[T]) Invoke(args []any) (pkgif.Task, error) {
	v, err := convert[T](argAt(args, 0))
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context) error {
		return h.fn(ctx, v)
	}, nil
}

type async2[S, A any] struct {
	fn func(context.Context, S, A) error
}

// Async2 创建接收 (sender, args) 的异步处理器
func Async2[S, A any](fn func(ctx context.Context, sender S, args A) error) pkgif.Handler {
	return &async2[S, A]{fn: fn}
}

func (h *async2[S, A]) Arity() int { return 2 }

func (h *async2[S, A]) Invoke(args []any) (pkgif.Task, error) {
	s, err := convert[S](argAt(args, 0))
	if err != nil {
		return nil, err
	}
	a, err := convert[A](argAt(args, 1))
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context) error {
		return h.fn(ctx, s, a)
	}, nil
}

// ============================================================================
// 参数转换
// ============================================================================

// argAt 取第 i 个参数，缺失视为 nil
func argAt(args []any, i int) any {
	if i < len(args) {
		return args[i]
	}
	return nil
}

// convert 将槽位值转换为处理器声明的类型
//
// nil 与共享空载荷都转换为零值；其它不可赋值的值返回 ErrArgType。
func convert[T any](v any) (T, error) {
	var zero T
	if v == nil {
		return zero, nil
	}
	if t, ok := v.(T); ok {
		return t, nil
	}
	if types.IsEmptyPayload(v) {
		return zero, nil
	}
	return zero, fmt.Errorf("%w: got %T, want %s", ErrArgType, v, reflect.TypeOf((*T)(nil)).Elem())
}
