// Package handler 提供处理器适配器
//
// 分发循环只认识 interfaces.Handler：声明参数个数的 Arity 和按参数调用的 Invoke。
// 本包把普通函数包装成 Handler。
//
// # 类型化适配器
//
//	handler.Func0(func() error { ... })
//	handler.Func1(func(v int) error { ... })                      // 载荷
//	handler.Func2(func(sender any, e *MyArgs) error { ... })      // (sender, args)
//	handler.Async1(func(ctx context.Context, v int) error { ... }) // 异步，分发循环不等待
//
// # 反射适配器
//
// Adapt 在注册时读取函数签名确定 Arity，首个参数为 context.Context 视为异步：
//
//	h, err := handler.Adapt(func(sender any, e *MyArgs, extra string) {})
//	// Arity() == 3，extra 以零值填充
//
// # 参数转换
//
//   - nil 转换为零值
//   - 共享的 types.Empty() 传给期望更具体载荷类型的参数时转换为零值
//   - 其它不可赋值的值返回 ErrArgType
//
// # 身份
//
// 每个适配器调用都会返回新的处理器值。注册表按处理器值去重，
// 因此重复注册与移除都应使用同一个返回值。
package handler
