// Package eventsource 提供进程内发布/订阅原语
//
// go-eventsource 提供两个核心原语：
//
//   - EventSource：包装一个调用，调用成功返回后以 (sender, args) 通知所有处理器
//   - Observable：单值槽位，每次写入都会通知所有观察者
//
// 两者都支持同步处理器与异步处理器。异步处理器被调用后返回一个 Task，
// 由 Engine 的异步运行时独立执行，分发方不等待其结束。
//
// # 快速开始
//
//	engine, err := eventsource.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer engine.Close(context.Background())
//
//	// 1. 包装调用
//	decode, _ := eventsource.NewEventSource(engine,
//	    func(sender any, args ...any) (string, error) {
//	        return fmt.Sprint(args...), nil
//	    },
//	    eventsource.WithEventArgs(),
//	)
//
//	// 2. 注册处理器
//	decode.AddHandler(handler.Func2(func(sender any, args *types.EventArgs) error {
//	    fmt.Println("decoded", args)
//	    return nil
//	}))
//
//	// 3. 调用
//	text, err := decode.Call(device, "Hello, World!")
//
// # 处理器形态
//
// 处理器在注册时即确定参数个数（见 pkg/handler）：
//
//   - Func0/Async0：不接收参数
//   - Func1/Async1：只接收载荷（EventSource）或新值（Observable）
//   - Func2/Async2：接收 (sender, args)
//   - Adapt：通过反射适配任意函数，缺失的参数补零值
//
// # 载荷
//
// 载荷族由 types.Payload 接口定义，所有嵌入 *types.EventArgs 的类型都属于载荷族。
// 通过 WithPayload 为 EventSource 配置载荷构造器，调用参数会被封装为具体载荷。
//
// # 失败策略
//
// 默认 FailFast：首个同步处理器错误中止本轮分发并返回给调用方。
// Isolate：所有处理器都会执行，panic 被恢复为错误，错误合并后返回。
// 异步处理器的错误不会返回给调用方，只记录日志并交给 WithErrorHook。
//
// # 移除语义
//
// EventSource.RemoveHandler 移除未注册的处理器时返回 ErrUnknownHandler，
// Observable.Detach 则静默忽略。两者的差异是有意保留的。
package eventsource
