package eventsource

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dep2p/go-eventsource/internal/config"
	"github.com/dep2p/go-eventsource/internal/core/dispatch"
)

// Duration 是 time.Duration 的 JSON 友好版本
//
// 支持 "30s" 形式的字符串或纳秒数。
type Duration = config.Duration

// UserConfig 用户配置结构
//
// 这是面向用户的简化配置结构，可以从 JSON 文件加载。
// 配置文件的读取应由应用层负责，示例用法：
//
//	f, _ := os.Open("eventsource.json")
//	cfg, _ := eventsource.LoadUserConfig(f)
//	engine, _ := eventsource.New(eventsource.WithConfig(cfg))
type UserConfig struct {
	// FailurePolicy 同步处理器失败策略
	// 可选值: fail-fast, isolate
	FailurePolicy string `json:"failure_policy,omitempty"`

	// DrainTimeout 关闭时等待异步任务结束的最长时间
	DrainTimeout *Duration `json:"drain_timeout,omitempty"`

	// Metrics 指标配置
	Metrics *MetricsUserConfig `json:"metrics,omitempty"`

	// Log 日志配置
	Log *LogUserConfig `json:"log,omitempty"`
}

// MetricsUserConfig 指标配置
type MetricsUserConfig struct {
	// Enable 启用分发指标，默认启用
	Enable *bool `json:"enable,omitempty"`

	// Namespace Prometheus 命名空间，默认 "eventsource"
	Namespace string `json:"namespace,omitempty"`
}

// LogUserConfig 日志配置
type LogUserConfig struct {
	// Level 日志级别，格式同 EVENTSOURCE_LOG_LEVEL
	Level string `json:"level,omitempty"`

	// Format 日志格式 (text 或 json)
	Format string `json:"format,omitempty"`
}

// LoadUserConfig 从 JSON 读取用户配置
//
// 未知字段视为错误。
func LoadUserConfig(r io.Reader) (*UserConfig, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var uc UserConfig
	if err := dec.Decode(&uc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return &uc, nil
}

// ============================================================================
//                              配置转换
// ============================================================================

// ToOptions 将用户配置转换为选项列表
func (c *UserConfig) ToOptions() []Option {
	var opts []Option

	if c.FailurePolicy != "" {
		policy := c.FailurePolicy
		opts = append(opts, func(o *options) error {
			p, err := dispatch.ParsePolicy(policy)
			if err != nil {
				return err
			}
			return WithFailurePolicy(p)(o)
		})
	}

	if c.DrainTimeout != nil {
		opts = append(opts, WithDrainTimeout(c.DrainTimeout.Duration()))
	}

	if m := c.Metrics; m != nil {
		if m.Enable != nil {
			opts = append(opts, WithMetrics(*m.Enable))
		}
		if m.Namespace != "" {
			opts = append(opts, WithMetricsNamespace(m.Namespace))
		}
	}

	if l := c.Log; l != nil {
		if l.Level != "" {
			opts = append(opts, WithLogLevel(l.Level))
		}
		if l.Format != "" {
			opts = append(opts, WithLogFormat(l.Format))
		}
	}

	return opts
}
