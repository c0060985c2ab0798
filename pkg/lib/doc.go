// Package lib 包含基础设施工具库
//
// 本目录包含与分发引擎无关的通用工具库：
//
//   - log: 日志封装
//
// # 与 pkg/ 其他目录的关系
//
//   - interfaces/: 组件公共接口（架构核心）
//   - types/: 公共类型定义（架构核心）
//   - handler/: 处理器适配器
//   - lib/: 基础设施工具库（本目录）
package lib
