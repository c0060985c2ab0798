package eventsource

import (
	"errors"

	"github.com/dep2p/go-eventsource/internal/core/async"
	"github.com/dep2p/go-eventsource/internal/core/dispatch"
	"github.com/dep2p/go-eventsource/internal/core/observable"
	"github.com/dep2p/go-eventsource/internal/core/registry"
	"github.com/dep2p/go-eventsource/internal/core/source"
	"github.com/dep2p/go-eventsource/pkg/handler"
	"github.com/dep2p/go-eventsource/pkg/types"
)

// 公共错误定义
var (
	// ────────────────────────────────────────────────────────────────────────
	// 注册错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrNilHandler 处理器为 nil
	ErrNilHandler = registry.ErrNilHandler

	// ErrHandlerNotComparable 处理器类型不可比较，无法按身份去重
	ErrHandlerNotComparable = registry.ErrHandlerNotComparable

	// ErrUnknownHandler 从 EventSource 移除未注册的处理器
	ErrUnknownHandler = source.ErrUnknownHandler

	// ────────────────────────────────────────────────────────────────────────
	// 调用与分发错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrNilFunc 被包装的调用为 nil
	ErrNilFunc = source.ErrNilFunc

	// ErrCallPanic 异步调用过程中发生 panic
	ErrCallPanic = source.ErrCallPanic

	// ErrHandlerPanic 处理器 panic（Isolate 策略）
	ErrHandlerPanic = dispatch.ErrHandlerPanic

	// ErrUnknownPolicy 未知的失败策略
	ErrUnknownPolicy = dispatch.ErrUnknownPolicy

	// ErrValueType 写入 Observable 的值类型不匹配
	ErrValueType = observable.ErrValueType

	// ────────────────────────────────────────────────────────────────────────
	// 处理器适配错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrArgType 处理器参数类型不匹配
	ErrArgType = handler.ErrArgType

	// ErrNotFunc 适配的对象不是函数
	ErrNotFunc = handler.ErrNotFunc

	// ErrBadSignature 不支持的函数签名
	ErrBadSignature = handler.ErrBadSignature

	// ErrArgIndexOutOfRange 载荷位置参数越界
	ErrArgIndexOutOfRange = types.ErrArgIndexOutOfRange

	// ────────────────────────────────────────────────────────────────────────
	// 运行时错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrRuntimeClosed 异步运行时已关闭
	ErrRuntimeClosed = async.ErrRuntimeClosed

	// ErrTaskPanic 异步任务 panic
	ErrTaskPanic = async.ErrTaskPanic

	// ErrInvalidConfig 无效的配置
	ErrInvalidConfig = errors.New("invalid config")
)
