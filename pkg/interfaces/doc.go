// Package interfaces 定义 go-eventsource 的公共接口
//
// 本包只包含接口定义，实现位于 internal/core 下的对应组件：
//
// # 分发契约
//
//   - dispatch.go      - Handler、Task、Detacher
//
// 处理器在注册时声明 Arity，分发循环据此构造参数。
// 异步处理器的 Invoke 返回 Task，由 Detacher 独立执行。
//
// # 发布者
//
//   - eventsource.go   - HandlerSet、EventSource、BoundEvent、Observable
//
// 实现：
//
//	EventSource → internal/core/source
//	Observable  → internal/core/observable
//	Detacher    → internal/core/async
//
// # 指标
//
//   - metrics.go       - DispatchReporter
//
// 实现：internal/core/metrics
//
// # 依赖规则
//
// interfaces 只依赖 pkg/types，不依赖任何 internal 包。
package interfaces
