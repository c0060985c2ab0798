package eventsource

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/dep2p/go-eventsource/internal/config"
	"github.com/dep2p/go-eventsource/internal/core/async"
	"github.com/dep2p/go-eventsource/internal/core/metrics"
	pkgif "github.com/dep2p/go-eventsource/pkg/interfaces"
	"github.com/dep2p/go-eventsource/pkg/lib/log"
)

var fxLogger = log.Logger("eventsource/fx")

// Module 返回提供 *Engine 的 fx 模块
//
// 模块组装顺序：
//  1. 配置：由选项构造并校验
//  2. metrics：分发计数器与可选的 Prometheus 收集器
//  3. async：异步运行时，应用停止时排空
//  4. Engine：组装分发循环
//
// 选项错误以 fx.Error 返回，在 fx.New 时暴露。
func Module(opts ...Option) fx.Option {
	o := newOptions()
	if err := o.apply(opts); err != nil {
		return fx.Error(err)
	}
	if o.installLogger {
		installLogger(o)
	}

	// ════════════════════════════════════════════════════════════════════════
	// 1. 配置
	// ════════════════════════════════════════════════════════════════════════
	modules := []fx.Option{
		fx.Supply(o.cfg),
	}

	if reg := o.registerer; reg != nil {
		modules = append(modules, fx.Provide(func() prometheus.Registerer { return reg }))
	}
	if hook := o.errorHook; hook != nil {
		modules = append(modules, fx.Provide(func() async.ErrorHook { return hook }))
	}

	// ════════════════════════════════════════════════════════════════════════
	// 2-4. 组件
	// ════════════════════════════════════════════════════════════════════════
	modules = append(modules,
		metrics.Module,
		async.Module(),
		fx.Provide(provideEngine),
	)

	return fx.Module("eventsource", modules...)
}

// engineParams Engine 依赖参数
type engineParams struct {
	fx.In

	Config   *config.Config
	Runtime  *async.Runtime
	Counter  *metrics.DispatchCounter
	Reporter pkgif.DispatchReporter
}

// provideEngine 组装 Engine
func provideEngine(p engineParams) (*Engine, error) {
	return newEngine(p.Config, p.Runtime, p.Counter, p.Reporter)
}

// StartApp 以 fx 应用方式创建并启动 Engine
//
// 返回的 stop 函数停止应用，停止时按排空超时等待异步任务结束。
func StartApp(ctx context.Context, opts ...Option) (*Engine, func(context.Context) error, error) {
	var engine *Engine

	app := fx.New(
		Module(opts...),
		fx.Populate(&engine),
		// 禁用 Fx 日志输出（避免干扰用户日志）
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: zap.NewNop()}
		}),
	)
	if err := app.Err(); err != nil {
		return nil, nil, fmt.Errorf("build fx app: %w", err)
	}

	if err := app.Start(ctx); err != nil {
		return nil, nil, fmt.Errorf("start fx app: %w", err)
	}
	fxLogger.Debug("fx 应用已启动")

	return engine, app.Stop, nil
}
