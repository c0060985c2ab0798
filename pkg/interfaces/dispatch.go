// Package interfaces 定义 go-eventsource 公共接口
//
// 本文件定义分发引擎的处理器契约与异步桥接口。
package interfaces

import "context"

// Task 待执行的异步计算
//
// 处理器调用返回非 nil 的 Task 表示其主体尚未完成，
// 分发循环不会等待它，而是交给 Detacher 独立执行。
type Task func(ctx context.Context) error

// Handler 定义可被分发循环调用的处理器
//
// Arity 在注册时即已确定，分发循环据此构造调用参数：
//   - 0：不传参数
//   - 1：仅传载荷（EventSource 为 args，Observable 为新值）
//   - >=2：传递全部槽位（EventSource 为 sender, args），不足部分补 nil
type Handler interface {
	// Arity 处理器声明的位置参数个数
	Arity() int

	// Invoke 以构造好的参数调用处理器
	//
	// 同步处理器返回 (nil, err)；异步处理器返回待执行的 Task。
	Invoke(args []any) (Task, error)
}

// Detacher 定义异步桥
//
// Detach 提交一个脱离调用方的任务，不保留句柄、不回传结果。
type Detacher interface {
	// Detach 提交任务独立执行
	Detach(task Task)
}
