// Package source 实现 EventSource
//
// EventSource 包装一个调用。调用成功返回后，以 (sender, payload)
// 通知所有已注册处理器；调用失败时直接返回错误，不触发处理器。
//
// 载荷构造规则（sender 之后的参数记为 args）：
//  1. args 为空：共享空载荷 types.Empty()
//  2. args[0] 属于载荷族：原样转发，其余参数忽略
//  3. 配置了载荷构造器：factory(types.NewEventArgs(args...))
//  4. 其它情况：types.Empty()
//
// Bind 返回绑定到接收者的事件，处理器仍注册在共享的 EventSource 上。
package source
