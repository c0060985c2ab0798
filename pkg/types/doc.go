// Package types 定义 go-eventsource 的公共数据结构
//
// 这是整个系统的最底层包，不依赖任何其他内部包。
//
// # 文件组织
//
//   - eventargs.go - EventArgs 参数容器、Empty 共享实例、Payload 载荷族
//   - token.go     - 处理器注册令牌
//   - result.go    - 异步调用结果
//   - errors.go    - 公共错误定义
//
// # 载荷族
//
// 任何嵌入 *EventArgs 的类型都满足 Payload：
//
//	type FileArgs struct{ *types.EventArgs }
//
//	func (a *FileArgs) Path() string {
//	    v, _ := a.Get("path", 0)
//	    return v.(string)
//	}
//
// EventSource 在发布时遇到载荷族实例会原样转发，不再重新构造。
package types
