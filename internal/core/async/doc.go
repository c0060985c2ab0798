// Package async 实现异步桥
//
// 异步处理器被调用后返回一个待执行的 Task，分发循环通过 Detacher 提交它，
// 不等待、不保留句柄、不回传结果。Runtime 是默认实现：
//
//   - 每个 Task 在独立 goroutine 中运行，接收 Runtime 的基础 context
//   - panic 被恢复，失败被记录日志并交给可选的错误钩子
//   - Pending/Wait 用于测试与关闭时排空
//
// Inline 是同步执行 Task 的 Detacher，用于需要确定性的场景。
package async
