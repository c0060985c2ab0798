// Package metrics 提供分发指标收集
//
// metrics 模块统计 EventSource 与 Observable 的分发情况：
//   - 分发次数、处理器调用次数、同步处理器失败次数（按发布者类型）
//   - 分发循环耗时与最近 60 秒的分发速率
//   - 异步任务提交、结束、失败、panic 次数及耗时
//
// # 快速开始
//
//	counter := metrics.NewDispatchCounter()
//	loop := dispatch.New(metrics.SourceEvent, dispatch.WithReporter(counter))
//
//	stats := counter.Snapshot()
//	fmt.Println(stats.Sources[metrics.SourceEvent].Dispatches, stats.Pending())
//
// # Prometheus
//
// Collector 将计数器导出为 Prometheus 指标：
//
//	reg := prometheus.NewRegistry()
//	reg.MustRegister(metrics.NewCollector("eventsource", counter))
//
// # 并发安全
//
// 所有计数器基于原子操作，速率计算器使用互斥锁保护。
package metrics
