package async

import (
	"context"

	"go.uber.org/fx"

	"github.com/dep2p/go-eventsource/internal/config"
	pkgif "github.com/dep2p/go-eventsource/pkg/interfaces"
)

// Params Runtime 依赖参数
type Params struct {
	fx.In

	Reporter  pkgif.DispatchReporter `optional:"true"`
	ErrorHook ErrorHook              `optional:"true"`
}

// Result Runtime 导出结果
type Result struct {
	fx.Out

	Runtime  *Runtime
	Detacher pkgif.Detacher
}

// ProvideRuntime 提供异步运行时
func ProvideRuntime(p Params) Result {
	rt := NewRuntime(
		WithReporter(p.Reporter),
		WithErrorHook(p.ErrorHook),
	)
	return Result{
		Runtime:  rt,
		Detacher: rt,
	}
}

// lifecycleInput 生命周期依赖
type lifecycleInput struct {
	fx.In

	LC      fx.Lifecycle
	Runtime *Runtime
	Config  *config.Config `optional:"true"`
}

// registerLifecycle 停止时排空异步任务
func registerLifecycle(input lifecycleInput) {
	drain := config.DefaultDrainTimeout
	if input.Config != nil {
		drain = input.Config.Async.DrainTimeout
	}

	input.LC.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if drain > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, drain)
				defer cancel()
			}
			logger.Debug("排空异步任务", "pending", input.Runtime.Pending())
			return input.Runtime.Close(ctx)
		},
	})
}

// Module 返回 fx 模块
func Module() fx.Option {
	return fx.Module("async",
		fx.Provide(ProvideRuntime),
		fx.Invoke(registerLifecycle),
	)
}
