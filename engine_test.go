package eventsource

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-eventsource/pkg/handler"
	"github.com/dep2p/go-eventsource/pkg/lib/log"
	"github.com/dep2p/go-eventsource/pkg/types"
)

// ============================================================================
//                              测试载荷
// ============================================================================

// Kind 测试事件类型
type Kind int

const KindA Kind = 1

// FakeEventArgs 测试载荷
type FakeEventArgs struct {
	*types.EventArgs
}

func (f *FakeEventArgs) Type() Kind {
	v, _ := f.Get("type", 0)
	k, _ := v.(Kind)
	return k
}

func (f *FakeEventArgs) Data() []byte {
	v, _ := f.Get("data", 1)
	b, _ := v.([]byte)
	return b
}

type fakeObject struct{}

// f 被包装的调用：返回 data 的文本
func f(sender any, args ...any) (string, error) {
	data, _ := args[1].([]byte)
	return string(data), nil
}

// ============================================================================
//                              Engine 测试
// ============================================================================

// TestEngine_HelloWorld 测试同步与异步处理器
func TestEngine_HelloWorld(t *testing.T) {
	engine, err := New()
	require.NoError(t, err)
	defer engine.Close(context.Background())

	ev, err := NewEventSource(engine, f,
		WithPayload(func(a *types.EventArgs) types.Payload { return &FakeEventArgs{a} }),
	)
	require.NoError(t, err)

	var mu sync.Mutex
	var kind Kind
	var data []byte

	_, err = ev.AddHandler(handler.Func2(func(_ *fakeObject, args *FakeEventArgs) error {
		mu.Lock()
		defer mu.Unlock()
		kind = args.Type()
		return nil
	}))
	require.NoError(t, err)
	_, err = ev.AddHandler(handler.MustAdapt(func(ctx context.Context, _ *fakeObject, args *FakeEventArgs) error {
		mu.Lock()
		defer mu.Unlock()
		data = args.Data()
		return nil
	}))
	require.NoError(t, err)

	got, err := ev.Call(&fakeObject{}, KindA, []byte("Hello, World!"))
	require.NoError(t, err)
	assert.Equal(t, "Hello, World!", got)

	require.NoError(t, engine.Wait(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, KindA, kind)
	assert.Equal(t, []byte("Hello, World!"), data)

	stats := engine.Stats()
	assert.Equal(t, int64(1), stats.Sources["event"].Dispatches)
	assert.Equal(t, int64(1), stats.TasksFinished)
}

// TestEngine_ErrorHook 测试异步处理器错误交给回调
func TestEngine_ErrorHook(t *testing.T) {
	boom := errors.New("async failure")
	errs := make(chan error, 1)

	engine, err := New(WithErrorHook(func(err error) { errs <- err }))
	require.NoError(t, err)
	defer engine.Close(context.Background())

	obs := NewObservable[int](engine)
	_, err = obs.Attach(handler.Async1(func(context.Context, int) error { return boom }))
	require.NoError(t, err)

	// 异步错误不返回给写入方
	require.NoError(t, obs.Set(1))

	select {
	case got := <-errs:
		assert.ErrorIs(t, got, boom)
	case <-time.After(time.Second):
		t.Fatal("错误回调未被调用")
	}
}

// TestEngine_Isolate 测试隔离策略
func TestEngine_Isolate(t *testing.T) {
	engine, err := New(WithFailurePolicy(Isolate))
	require.NoError(t, err)
	assert.Equal(t, Isolate, engine.Policy())

	ev, err := NewEventSource(engine, func(sender any, args ...any) (int, error) { return 1, nil })
	require.NoError(t, err)

	called := false
	_, err = ev.AddHandler(handler.Func0(func() error { panic("bad") }))
	require.NoError(t, err)
	_, err = ev.AddHandler(handler.Func0(func() error {
		called = true
		return nil
	}))
	require.NoError(t, err)

	_, err = ev.Call(nil)
	assert.ErrorIs(t, err, ErrHandlerPanic)
	assert.True(t, called)
}

// TestEngine_Close 测试关闭后异步调用失败
func TestEngine_Close(t *testing.T) {
	engine, err := New(WithDrainTimeout(100 * time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, engine.Close(context.Background()))

	ev, err := NewEventSource(engine, func(sender any, args ...any) (int, error) { return 1, nil })
	require.NoError(t, err)

	res := <-ev.CallAsync(context.Background(), nil)
	assert.ErrorIs(t, res.Err, ErrRuntimeClosed)
}

// TestEngine_Registerer 测试 Prometheus 注册
func TestEngine_Registerer(t *testing.T) {
	reg := prometheus.NewRegistry()
	engine, err := New(WithRegisterer(reg), WithMetricsNamespace("demo"))
	require.NoError(t, err)

	obs := NewObservable[string](engine)
	_, err = obs.Attach(handler.Func0(func() error { return nil }))
	require.NoError(t, err)
	require.NoError(t, obs.Set("x"))

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, mf := range families {
		names = append(names, mf.GetName())
	}
	assert.Contains(t, names, "demo_dispatches_total")

	// 重复注册同名收集器失败
	_, err = New(WithRegisterer(reg), WithMetricsNamespace("demo"))
	assert.Error(t, err)
}

// TestEngine_MetricsDisabled 测试禁用指标
func TestEngine_MetricsDisabled(t *testing.T) {
	engine, err := New(WithMetrics(false))
	require.NoError(t, err)

	obs := NewObservable[int](engine)
	_, err = obs.Attach(handler.Func0(func() error { return nil }))
	require.NoError(t, err)
	require.NoError(t, obs.Set(1))

	assert.Empty(t, engine.Stats().Sources)
}

// TestEngine_InvalidOptions 测试无效选项
func TestEngine_InvalidOptions(t *testing.T) {
	_, err := New(WithDrainTimeout(-time.Second))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = New(WithFailurePolicy(FailurePolicy(9)))
	assert.ErrorIs(t, err, ErrUnknownPolicy)

	_, err = New(WithLogFormat("xml"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

// TestEngine_LogOutput 测试日志安装
func TestEngine_LogOutput(t *testing.T) {
	prev := log.Default()
	defer log.SetDefault(prev)

	var buf bytes.Buffer
	engine, err := New(WithLogOutput(&buf), WithLogLevel("debug"), WithLogFormat("json"))
	require.NoError(t, err)

	obs := NewObservable[int](engine)
	_, err = obs.Attach(handler.Func0(func() error { return nil }))
	require.NoError(t, err)
	require.NoError(t, obs.Set(1))

	assert.True(t, strings.Contains(buf.String(), `"component":"core/dispatch"`), buf.String())
}

// ============================================================================
//                              默认引擎测试
// ============================================================================

// TestDefault_NilEngine 测试 nil 引擎使用默认引擎
func TestDefault_NilEngine(t *testing.T) {
	assert.Same(t, Default(), Default())
	assert.Equal(t, FailFast, Default().Policy())

	ev, err := NewEventSource[int](nil, func(sender any, args ...any) (int, error) { return len(args), nil })
	require.NoError(t, err)

	n, err := ev.Call(nil, 1, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = NewEventSource[int](nil, nil)
	assert.ErrorIs(t, err, ErrNilFunc)

	obs := NewObservable[int](nil)
	require.NoError(t, obs.Set(2))
	assert.Equal(t, 2, obs.State())
}

// TestRemoveAsymmetry 测试移除语义差异
func TestRemoveAsymmetry(t *testing.T) {
	h := handler.Func0(func() error { return nil })

	ev, err := NewEventSource[int](nil, func(sender any, args ...any) (int, error) { return 0, nil })
	require.NoError(t, err)
	assert.ErrorIs(t, ev.RemoveHandler(h), ErrUnknownHandler)

	obs := NewObservable[int](nil)
	assert.NotPanics(t, func() { obs.Detach(h) })
}
