package observable

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-eventsource/internal/core/async"
	"github.com/dep2p/go-eventsource/internal/core/dispatch"
	"github.com/dep2p/go-eventsource/internal/core/metrics"
	"github.com/dep2p/go-eventsource/internal/core/source"
	"github.com/dep2p/go-eventsource/pkg/handler"
	"github.com/dep2p/go-eventsource/pkg/types"
)

// inline 同步执行异步任务，便于断言
func inline() Option {
	return WithDetacher(async.Inline(nil))
}

// ============================================================================
//                              值槽位测试
// ============================================================================

// TestObservable_BasicVerification 测试写入与读取
func TestObservable_BasicVerification(t *testing.T) {
	o := New[int](inline())

	v, ok := o.Value()
	assert.False(t, ok)
	assert.Equal(t, 0, v)
	assert.False(t, o.HasValue())

	var seen []int
	_, err := o.Attach(handler.Func1(func(v int) error {
		seen = append(seen, v)
		return nil
	}))
	require.NoError(t, err)

	require.NoError(t, o.Set(1))
	require.NoError(t, o.Set(2))

	assert.Equal(t, 2, o.State())
	assert.True(t, o.HasValue())
	assert.Equal(t, []int{1, 2}, seen)
}

// TestObservable_SameValueTwice 测试相同值重复写入仍然通知
func TestObservable_SameValueTwice(t *testing.T) {
	o := New[string](inline())

	calls := 0
	_, err := o.Attach(handler.Func0(func() error {
		calls++
		return nil
	}))
	require.NoError(t, err)

	require.NoError(t, o.Set("x"))
	require.NoError(t, o.Notify("x"))
	assert.Equal(t, 2, calls)
}

// TestObservable_Clear 测试清空
func TestObservable_Clear(t *testing.T) {
	o := New[*int](inline())
	n := 7
	require.NoError(t, o.Set(&n))

	var got []*int
	_, err := o.Attach(handler.Func1(func(v *int) error {
		got = append(got, v)
		return nil
	}))
	require.NoError(t, err)

	require.NoError(t, o.Clear())
	assert.False(t, o.HasValue())
	assert.Nil(t, o.State())
	assert.Equal(t, []*int{nil}, got)
}

// ============================================================================
//                              观察者管理测试
// ============================================================================

// TestObservable_Dedup 测试重复附加
func TestObservable_Dedup(t *testing.T) {
	o := New[int](inline())

	calls := 0
	h := handler.Func1(func(int) error {
		calls++
		return nil
	})

	tok1, err := o.Attach(h)
	require.NoError(t, err)
	tok2, err := o.Attach(h)
	require.NoError(t, err)
	assert.Equal(t, tok1, tok2)
	assert.Equal(t, 1, o.Len())

	require.NoError(t, o.Set(1))
	assert.Equal(t, 1, calls)
}

// TestObservable_DetachMidSequence 测试中途分离
func TestObservable_DetachMidSequence(t *testing.T) {
	o := New[int](inline())

	var seen, others []int
	h := handler.Func1(func(v int) error {
		seen = append(seen, v)
		return nil
	})
	other := handler.Func1(func(v int) error {
		others = append(others, v)
		return nil
	})
	_, err := o.Attach(h)
	require.NoError(t, err)
	_, err = o.Attach(other)
	require.NoError(t, err)

	require.NoError(t, o.Set(1))
	o.Detach(h)
	require.NoError(t, o.Set(2))
	require.NoError(t, o.Set(3))

	assert.Equal(t, []int{1}, seen)
	assert.Equal(t, []int{1, 2, 3}, others)
	assert.Equal(t, 1, o.Len())
	assert.Equal(t, 3, o.State())
}

// TestObservable_DetachUnknownIsSilent 测试分离未附加的观察者不报错
func TestObservable_DetachUnknownIsSilent(t *testing.T) {
	o := New[int]()
	h := handler.Func0(func() error { return nil })

	assert.NotPanics(t, func() {
		o.Detach(h)
		o.DetachToken(types.NewToken())
		o.Detach(nil)
	})

	tok, err := o.Attach(h)
	require.NoError(t, err)
	o.DetachToken(tok)
	assert.Equal(t, 0, o.Len())
}

// TestRemoveAsymmetry 测试 EventSource 与 Observable 移除语义的差异
func TestRemoveAsymmetry(t *testing.T) {
	h := handler.Func0(func() error { return nil })

	src, err := source.New(func(sender any, args ...any) (struct{}, error) {
		return struct{}{}, nil
	})
	require.NoError(t, err)
	assert.ErrorIs(t, src.RemoveHandler(h), source.ErrUnknownHandler)

	o := New[int]()
	assert.NotPanics(t, func() { o.Detach(h) })
}

// ============================================================================
//                              异步观察者测试
// ============================================================================

// TestObservable_AsyncObservers 测试异步观察者不阻塞写入
func TestObservable_AsyncObservers(t *testing.T) {
	rt := async.NewRuntime()
	o := New[int](WithDetacher(rt))

	release := make(chan struct{})
	var mu sync.Mutex
	var seen []int

	_, err := o.Attach(handler.Async1(func(ctx context.Context, v int) error {
		<-release
		mu.Lock()
		seen = append(seen, v)
		mu.Unlock()
		return nil
	}))
	require.NoError(t, err)

	require.NoError(t, o.Set(42))
	assert.Equal(t, 42, o.State())
	assert.Equal(t, int64(1), rt.Pending())

	close(release)
	require.NoError(t, rt.Wait(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{42}, seen)
}

// TestObservable_ObserverError 测试同步观察者错误返回给写入方
func TestObservable_ObserverError(t *testing.T) {
	boom := errors.New("boom")
	counter := metrics.NewDispatchCounter()
	o := New[int](inline(), WithPolicy(dispatch.Isolate), WithReporter(counter), WithName("level"))
	assert.Equal(t, "level", o.Name())

	_, err := o.Attach(handler.Func0(func() error { return boom }))
	require.NoError(t, err)

	assert.ErrorIs(t, o.Set(1), boom)
	assert.Equal(t, 1, o.State(), "观察者失败不影响已写入的值")
	assert.Equal(t, int64(1), counter.Snapshot().Sources[metrics.SourceObservable].HandlerFailures)
}

// ============================================================================
//                              处理器形态测试
// ============================================================================

// TestObservable_CallConvention 测试动态调用约定
func TestObservable_CallConvention(t *testing.T) {
	o := New[string](inline())

	v, err := o.Call()
	require.NoError(t, err)
	assert.Equal(t, "", v)

	v, err = o.Call("a")
	require.NoError(t, err)
	assert.Equal(t, "a", v)

	_, err = o.Call(3)
	assert.ErrorIs(t, err, ErrValueType)
	assert.Equal(t, "a", o.State())

	v, err = o.Call(nil)
	require.NoError(t, err)
	assert.Equal(t, "", v)
	assert.False(t, o.HasValue())

	_, err = o.Invoke(nil)
	assert.NoError(t, err)
	assert.Equal(t, 2, o.Arity())
}

// TestObservable_ChainedObservables 测试 Observable 作为另一个 Observable 的观察者
func TestObservable_ChainedObservables(t *testing.T) {
	upstream := New[int](inline())
	downstream := New[int](inline())

	_, err := upstream.Attach(downstream)
	require.NoError(t, err)

	require.NoError(t, upstream.Set(5))
	assert.Equal(t, 5, downstream.State())

	require.NoError(t, upstream.Clear())
	assert.False(t, downstream.HasValue())
}

// payloadArgs 测试载荷
type payloadArgs struct {
	*types.EventArgs
}

// TestObservable_ConsumesEvents 测试 Observable 作为 EventSource 处理器
func TestObservable_ConsumesEvents(t *testing.T) {
	src, err := source.New(func(sender any, args ...any) (int, error) {
		return len(args), nil
	},
		source.WithPayload(func(a *types.EventArgs) types.Payload { return &payloadArgs{a} }),
		source.WithDetacher(async.Inline(nil)),
	)
	require.NoError(t, err)

	last := New[*payloadArgs](inline())
	_, err = src.AddHandler(last)
	require.NoError(t, err)

	_, err = src.Call("sender", 1, 2)
	require.NoError(t, err)

	got := last.State()
	require.NotNil(t, got)
	assert.Equal(t, []any{1, 2}, got.Args())

	// 仅 sender：空载荷写入零值
	_, err = src.Call("sender")
	require.NoError(t, err)
	assert.True(t, last.HasValue())
	assert.Nil(t, last.State())

	// 通用 Observable 直接保存载荷
	anyObs := New[any](inline())
	_, err = src.AddHandler(anyObs)
	require.NoError(t, err)
	_, err = src.Call("sender")
	require.NoError(t, err)
	assert.Same(t, types.Empty(), anyObs.State())
}
