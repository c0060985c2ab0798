package log

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestLazyLogger_FollowsDefault 测试 LazyLogger 跟随默认 logger 切换
func TestLazyLogger_FollowsDefault(t *testing.T) {
	prev := slog.Default()
	defer SetDefault(prev)

	l := Logger("core/test")

	buf := &bytes.Buffer{}
	SetDefault(slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: LevelDebug})))

	l.Debug("after switch", "n", 1)

	assert.Contains(t, buf.String(), "after switch")
	assert.Contains(t, buf.String(), "component=core/test")
	assert.Contains(t, buf.String(), "n=1")
}

// TestLazyLogger_Enabled 测试级别判断
func TestLazyLogger_Enabled(t *testing.T) {
	prev := slog.Default()
	defer SetDefault(prev)

	SetDefault(slog.New(slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: LevelWarn})))
	l := Logger("core/test")

	assert.False(t, l.Enabled(LevelDebug))
	assert.True(t, l.Enabled(LevelError))
}

// TestLazyLogger_ErrorContext 测试带 context 的错误日志
func TestLazyLogger_ErrorContext(t *testing.T) {
	prev := slog.Default()
	defer SetDefault(prev)

	buf := &bytes.Buffer{}
	SetDefault(slog.New(slog.NewTextHandler(buf, nil)))

	Logger("core/test").ErrorContext(context.Background(), "task failed", "err", "boom")

	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "task failed")
	assert.Contains(t, buf.String(), "component=core/test")
}
