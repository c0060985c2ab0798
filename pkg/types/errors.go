// Package types 定义 go-eventsource 的基础类型
//
// 本文件定义所有公共错误类型。
package types

import "errors"

// ============================================================================
//                              参数相关错误
// ============================================================================

var (
	// ErrArgIndexOutOfRange 位置参数越界且没有匹配的命名参数
	ErrArgIndexOutOfRange = errors.New("event args index out of range")
)
