package types

// Result 异步调用结果
type Result[R any] struct {
	// Value 被包装调用的返回值
	Value R

	// Err 被包装调用或同步处理器的错误
	Err error
}
