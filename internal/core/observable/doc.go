// Package observable 实现 Observable
//
// Observable 持有单个值槽位，每次写入都会通知所有观察者，
// 不做相等性短路。Observable 本身也是 Arity 为 2 的处理器，
// 可以直接注册到 EventSource 或另一个 Observable 上。
package observable
