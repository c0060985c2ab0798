package eventsource

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/dep2p/go-eventsource/pkg/handler"
)

// TestModule_ProvidesEngine 测试 fx 模块提供 Engine
func TestModule_ProvidesEngine(t *testing.T) {
	var engine *Engine
	reg := prometheus.NewRegistry()

	app := fxtest.New(t,
		Module(WithFailurePolicy(Isolate), WithRegisterer(reg)),
		fx.Populate(&engine),
	)
	app.RequireStart()

	require.NotNil(t, engine)
	assert.Equal(t, Isolate, engine.Policy())

	obs := NewObservable[int](engine)
	_, err := obs.Attach(handler.Func0(func() error { return nil }))
	require.NoError(t, err)
	require.NoError(t, obs.Set(1))
	assert.Equal(t, int64(1), engine.Stats().Sources["observable"].Dispatches)

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)

	app.RequireStop()
}

// TestModule_InvalidOption 测试选项错误
func TestModule_InvalidOption(t *testing.T) {
	app := fx.New(Module(WithDrainTimeout(-1)), fx.NopLogger)
	assert.ErrorIs(t, app.Err(), ErrInvalidConfig)
}

// TestStartApp 测试以 fx 应用方式启动
func TestStartApp(t *testing.T) {
	var hooked atomic.Int32
	ctx := context.Background()

	engine, stop, err := StartApp(ctx,
		WithDrainTimeout(time.Second),
		WithErrorHook(func(error) { hooked.Add(1) }),
	)
	require.NoError(t, err)

	obs := NewObservable[string](engine)
	var done atomic.Bool
	_, err = obs.Attach(handler.Async0(func(context.Context) error {
		time.Sleep(20 * time.Millisecond)
		done.Store(true)
		return nil
	}))
	require.NoError(t, err)
	require.NoError(t, obs.Set("go"))

	// 停止时排空异步任务
	require.NoError(t, stop(ctx))
	assert.True(t, done.Load())
	assert.Zero(t, hooked.Load())

	_, _, err = StartApp(ctx, WithLogFormat("xml"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
