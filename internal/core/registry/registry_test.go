package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	pkgif "github.com/dep2p/go-eventsource/pkg/interfaces"
)

// ============================================================================
// 测试辅助
// ============================================================================

type stubHandler struct{ id int }

func (h *stubHandler) Arity() int { return 0 }
func (h *stubHandler) Invoke([]any) (pkgif.Task, error) { return nil, nil }

// funcHandler 不可比较的处理器类型
type funcHandler func()

func (f funcHandler) Arity() int { return 0 }
func (f funcHandler) Invoke([]any) (pkgif.Task, error) { f(); return nil, nil }

// boxedHandler 类型可比较，但字段可能装入不可比较的值
type boxedHandler struct{ f any }

func (h boxedHandler) Arity() int { return 0 }
func (h boxedHandler) Invoke([]any) (pkgif.Task, error) { return nil, nil }

// ============================================================================
// 基础功能测试
// ============================================================================

// TestRegistry_AddIsIdempotent 测试重复注册只保留一个条目
func TestRegistry_AddIsIdempotent(t *testing.T) {
	r := New()
	h := &stubHandler{id: 1}

	tok1, added, err := r.Add(h)
	require.NoError(t, err)
	assert.True(t, added)

	for i := 0; i < 3; i++ {
		tok, added, err := r.Add(h)
		require.NoError(t, err)
		assert.False(t, added)
		assert.Equal(t, tok1, tok)
	}

	assert.Equal(t, 1, r.Len())
	assert.True(t, r.Contains(h))

	// 移除一次即完全移除
	assert.True(t, r.Remove(h))
	assert.False(t, r.Contains(h))
	assert.Equal(t, 0, r.Len())
	assert.False(t, r.Remove(h))
}

// TestRegistry_DistinctValues 测试结构相同但不同的处理器是两个条目
func TestRegistry_DistinctValues(t *testing.T) {
	r := New()
	a := &stubHandler{id: 1}
	b := &stubHandler{id: 1}

	tokA, _, err := r.Add(a)
	require.NoError(t, err)
	tokB, _, err := r.Add(b)
	require.NoError(t, err)

	assert.NotEqual(t, tokA, tokB)
	assert.Equal(t, 2, r.Len())
}

// TestRegistry_RemoveToken 测试按令牌移除
func TestRegistry_RemoveToken(t *testing.T) {
	r := New()
	a := &stubHandler{id: 1}
	b := &stubHandler{id: 2}

	tokA, _, _ := r.Add(a)
	_, _, _ = r.Add(b)

	assert.True(t, r.RemoveToken(tokA))
	assert.False(t, r.RemoveToken(tokA))
	assert.False(t, r.Contains(a))
	assert.True(t, r.Contains(b))

	tok, ok := r.Token(b)
	assert.True(t, ok)
	assert.False(t, tok.IsEmpty())
}

// TestRegistry_RejectsInvalid 测试拒绝 nil 与不可比较的处理器
func TestRegistry_RejectsInvalid(t *testing.T) {
	r := New()

	_, _, err := r.Add(nil)
	assert.ErrorIs(t, err, ErrNilHandler)

	_, _, err = r.Add(funcHandler(func() {}))
	assert.ErrorIs(t, err, ErrHandlerNotComparable)

	assert.False(t, r.Contains(funcHandler(func() {})))
	assert.False(t, r.Remove(nil))
	assert.Equal(t, 0, r.Len())
}

// TestRegistry_RejectsUnhashableValue 测试按动态值拒绝无法作为 map 键的处理器
func TestRegistry_RejectsUnhashableValue(t *testing.T) {
	r := New()
	h := boxedHandler{f: func() {}}

	assert.NotPanics(t, func() {
		_, _, err := r.Add(h)
		assert.ErrorIs(t, err, ErrHandlerNotComparable)
		assert.False(t, r.Contains(h))
		assert.False(t, r.Remove(h))
		_, ok := r.Token(h)
		assert.False(t, ok)
	})
	assert.Equal(t, 0, r.Len())

	// 装入可比较值时正常注册
	ok := boxedHandler{f: 42}
	_, added, err := r.Add(ok)
	require.NoError(t, err)
	assert.True(t, added)
	assert.True(t, r.Contains(boxedHandler{f: 42}))
}

// TestRegistry_SnapshotIsolation 测试快照不受后续修改影响
func TestRegistry_SnapshotIsolation(t *testing.T) {
	r := New()
	a := &stubHandler{id: 1}
	b := &stubHandler{id: 2}
	_, _, _ = r.Add(a)
	_, _, _ = r.Add(b)

	snap := r.Snapshot()
	r.Remove(a)

	assert.Len(t, snap, 2)
	assert.ElementsMatch(t, []pkgif.Handler{a, b}, snap)
	assert.Equal(t, []pkgif.Handler{b}, r.Snapshot())

	r.Clear()
	assert.Empty(t, r.Snapshot())
}

// ============================================================================
// 并发测试
// ============================================================================

// TestRegistry_Concurrent 测试并发增删
func TestRegistry_Concurrent(t *testing.T) {
	r := New()
	handlers := make([]*stubHandler, 50)
	for i := range handlers {
		handlers[i] = &stubHandler{id: i}
	}

	var g errgroup.Group
	for _, h := range handlers {
		h := h
		g.Go(func() error {
			_, _, err := r.Add(h)
			return err
		})
		g.Go(func() error {
			if _, _, err := r.Add(h); err != nil {
				return err
			}
			_ = r.Snapshot()
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, len(handlers), r.Len())
}
