// Package interfaces 定义 go-eventsource 公共接口
//
// 本文件定义分发指标上报接口。
package interfaces

import "time"

// DispatchReporter 分发指标上报器
type DispatchReporter interface {
	// ObserveDispatch 记录一次分发（source 为 "event" 或 "observable"）
	//
	// handlers 为本次实际调用的处理器数。
	ObserveDispatch(source string, handlers int, elapsed time.Duration)

	// HandlerFailed 记录同步处理器失败
	HandlerFailed(source string)

	// TaskDetached 记录一个异步任务被提交
	TaskDetached()

	// TaskFinished 记录异步任务结束
	TaskFinished(err error, elapsed time.Duration)

	// TaskPanicked 记录异步任务 panic
	TaskPanicked()
}
