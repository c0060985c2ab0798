package dispatch

// BuildCall 按处理器声明的参数个数构造调用参数
//
//   - arity <= 0：不传参数
//   - arity == 1：仅传 primary
//   - arity >= 2：传 full 的前 arity 个槽位，不足部分补 nil
//
// 返回的切片归调用方所有，不与 full 共享底层数组。
func BuildCall(arity int, primary any, full []any) []any {
	switch {
	case arity <= 0:
		return nil
	case arity == 1:
		return []any{primary}
	}

	args := make([]any, arity)
	copy(args, full)
	return args
}
