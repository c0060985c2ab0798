package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/dep2p/go-eventsource/internal/config"
	pkgif "github.com/dep2p/go-eventsource/pkg/interfaces"
)

// Params Metrics 依赖参数
type Params struct {
	fx.In

	Config     *config.Config        `optional:"true"`
	Registerer prometheus.Registerer `optional:"true"`
}

// Result Metrics 导出结果
type Result struct {
	fx.Out

	Counter  *DispatchCounter
	Reporter pkgif.DispatchReporter
}

// Module 是 metrics 的 Fx 模块
var Module = fx.Module("metrics",
	fx.Provide(ProvideCounter),
)

// ProvideCounter 提供分发计数器
//
// 禁用指标时 Reporter 为 Nop，计数器仍然可用但不会被写入。
// 提供了 Registerer 时注册 Prometheus 收集器。
func ProvideCounter(p Params) (Result, error) {
	cfg := config.DefaultMetricsConfig()
	if p.Config != nil {
		cfg = p.Config.Metrics
	}

	counter := NewDispatchCounter()
	if !cfg.Enable {
		return Result{Counter: counter, Reporter: Nop()}, nil
	}

	if p.Registerer != nil {
		if err := p.Registerer.Register(NewCollector(cfg.Namespace, counter)); err != nil {
			return Result{}, fmt.Errorf("register metrics collector: %w", err)
		}
	}
	return Result{Counter: counter, Reporter: counter}, nil
}
