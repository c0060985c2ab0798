package dispatch

import (
	"fmt"
	"strings"
)

// Policy 同步处理器失败策略
type Policy int

const (
	// FailFast 首个同步处理器错误中止本轮分发并返回给触发方，panic 向上传播
	FailFast Policy = iota

	// Isolate 所有处理器都会被调用，panic 被恢复为错误，错误合并后返回
	Isolate
)

// String 返回策略名称
func (p Policy) String() string {
	switch p {
	case FailFast:
		return "fail-fast"
	case Isolate:
		return "isolate"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy 解析策略名称
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fail-fast", "failfast":
		return FailFast, nil
	case "isolate":
		return Isolate, nil
	default:
		return FailFast, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}
