// Package dispatch 实现分发循环
//
// 分发循环负责：
//   - 根据处理器的 Arity 构造调用参数
//   - 依次调用处理器快照中的每个处理器
//   - 将异步处理器返回的 Task 交给 Detacher
//   - 按失败策略处理同步处理器错误
//
// EventSource 与 Observable 共用同一个分发循环实现，
// 区别只在于 primary（单参数处理器收到的值）与 full（全部槽位）。
package dispatch
