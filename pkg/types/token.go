package types

import "github.com/google/uuid"

// Token 处理器注册令牌
//
// 每次成功注册处理器时生成，可用于按令牌移除。
// 重复注册同一处理器返回已有令牌。
type Token string

// NewToken 生成新的注册令牌
func NewToken() Token {
	return Token(uuid.New().String())
}

// String 返回令牌字符串
func (t Token) String() string {
	return string(t)
}

// ShortString 返回令牌前 8 位（用于日志）
func (t Token) ShortString() string {
	if len(t) > 8 {
		return string(t[:8])
	}
	return string(t)
}

// IsEmpty 是否为空令牌
func (t Token) IsEmpty() bool {
	return t == ""
}
