package config

import (
	"fmt"
	"strings"

	"github.com/dep2p/go-eventsource/internal/util/logger"
)

// ValidationError 配置校验错误
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("配置错误 [%s]: %s", e.Field, e.Message)
}

// ValidationErrors 多个配置校验错误
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}

	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// HasErrors 是否有错误
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// Validator 配置校验器
type Validator struct {
	errors ValidationErrors
}

// NewValidator 创建校验器
func NewValidator() *Validator {
	return &Validator{
		errors: make(ValidationErrors, 0),
	}
}

// addError 添加错误
func (v *Validator) addError(field, message string) {
	v.errors = append(v.errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// Errors 返回所有错误
func (v *Validator) Errors() ValidationErrors {
	return v.errors
}

// Validate 校验配置
func Validate(config *Config) error {
	v := NewValidator()

	v.validateDispatch(&config.Dispatch)
	v.validateAsync(&config.Async)
	v.validateMetrics(&config.Metrics)
	v.validateLog(&config.Log)

	if v.errors.HasErrors() {
		return v.errors
	}
	return nil
}

// Validate 校验配置
func (c *Config) Validate() error {
	return Validate(c)
}

// validateDispatch 校验分发配置
func (v *Validator) validateDispatch(cfg *DispatchConfig) {
	switch cfg.FailurePolicy {
	case PolicyFailFast, PolicyIsolate:
	default:
		v.addError(
			"dispatch.failure_policy",
			fmt.Sprintf("未知策略 %q，可选值: %s, %s", cfg.FailurePolicy, PolicyFailFast, PolicyIsolate),
		)
	}
}

// validateAsync 校验异步运行时配置
func (v *Validator) validateAsync(cfg *AsyncConfig) {
	if cfg.DrainTimeout < 0 {
		v.addError("async.drain_timeout", "不能为负数")
	}
}

// validateMetrics 校验指标配置
func (v *Validator) validateMetrics(cfg *MetricsConfig) {
	if cfg.Enable && strings.ContainsAny(cfg.Namespace, " -.") {
		v.addError("metrics.namespace", "只能包含字母、数字和下划线")
	}
}

// validateLog 校验日志配置
func (v *Validator) validateLog(cfg *LogConfig) {
	switch strings.ToLower(cfg.Format) {
	case "", "text", "json":
	default:
		v.addError("log.format", "可选值: text, json")
	}

	for _, part := range strings.Split(cfg.Level, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if _, level, ok := strings.Cut(part, "="); ok {
			part = strings.TrimSpace(level)
		}
		if _, ok := logger.ParseLevel(part); !ok {
			v.addError("log.level", fmt.Sprintf("未知日志级别 %q", part))
		}
	}
}
