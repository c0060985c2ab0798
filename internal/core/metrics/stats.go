package metrics

import "time"

// SourceStats 单类发布者统计
type SourceStats struct {
	// Dispatches 分发次数
	Dispatches int64

	// HandlerCalls 处理器调用次数
	HandlerCalls int64

	// HandlerFailures 同步处理器失败次数
	HandlerFailures int64

	// DispatchTime 分发循环累计耗时（不含异步任务）
	DispatchTime time.Duration

	// DispatchRate 最近 60 秒平均分发速率（次/秒）
	DispatchRate float64
}

// Stats 分发统计快照
type Stats struct {
	// Sources 按发布者类型统计
	Sources map[string]SourceStats

	// TasksDetached 提交的异步任务数
	TasksDetached int64

	// TasksFinished 结束的异步任务数（含失败）
	TasksFinished int64

	// TasksFailed 失败的异步任务数（含 panic）
	TasksFailed int64

	// TasksPanicked panic 的异步任务数
	TasksPanicked int64

	// TaskTime 异步任务累计耗时
	TaskTime time.Duration
}

// Pending 已提交但未结束的异步任务数
func (s Stats) Pending() int64 {
	return s.TasksDetached - s.TasksFinished
}
