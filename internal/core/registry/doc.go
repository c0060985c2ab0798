// Package registry 实现处理器注册表
//
// Registry 是每个发布者（EventSource 或 Observable）私有的处理器集合：
//   - 按处理器身份去重（接口值相等，指针按地址比较）
//   - 每个条目附带 types.Token，可按令牌移除
//   - 分发时遍历快照，不保证顺序
//
// # 并发安全
//
// 增删与快照由 sync.RWMutex 保护；处理器在锁外执行。
//
// # 架构定位
//
// Tier: Core Layer Level 1（无依赖）
//
// 依赖关系：
//   - 依赖：pkg/interfaces, pkg/types
//   - 被依赖：core/source, core/observable
package registry
