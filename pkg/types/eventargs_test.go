package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
//                              构造测试
// ============================================================================

// TestNewEventArgs_SplitsKeywords 测试命名参数与位置参数拆分
func TestNewEventArgs_SplitsKeywords(t *testing.T) {
	e := NewEventArgs(1, Kw("name", "alice"), "two")

	assert.Equal(t, []any{1, "two"}, e.Args())
	assert.Equal(t, map[string]any{"name": "alice"}, e.Kwargs())
	assert.Equal(t, 2, e.Len())
	assert.False(t, e.IsEmpty())
}

// TestEmpty_IsShared 测试共享空实例
func TestEmpty_IsShared(t *testing.T) {
	assert.True(t, Empty().IsEmpty())
	assert.Equal(t, 0, Empty().Len())
	assert.Same(t, Empty(), Empty().Base())
	assert.Same(t, Empty(), Empty())
	assert.True(t, IsEmptyPayload(Empty()))
	assert.False(t, IsEmptyPayload(NewEventArgs()))
}

// TestEventArgs_Immutable 测试访问器返回副本
func TestEventArgs_Immutable(t *testing.T) {
	e := NewEventArgs(1, Kw("k", "v"))

	args := e.Args()
	args[0] = 99
	kwargs := e.Kwargs()
	kwargs["k"] = "changed"

	v, err := e.Arg(0)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	kv, ok := e.Kwarg("k")
	assert.True(t, ok)
	assert.Equal(t, "v", kv)
}

// ============================================================================
//                              查找测试
// ============================================================================

// TestEventArgs_Get 测试按名称或位置查找
func TestEventArgs_Get(t *testing.T) {
	e := NewEventArgs("positional", Kw("data", []byte("kw")), Kw("none", nil))

	tests := []struct {
		name    string
		key     string
		index   int
		want    any
		wantErr bool
	}{
		{"命名参数优先", "data", 0, []byte("kw"), false},
		{"回退到位置参数", "kind", 0, "positional", false},
		{"命名参数为 nil 仍然命中", "none", 5, nil, false},
		{"越界", "missing", 1, nil, true},
		{"负索引", "missing", -1, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Get(tt.key, tt.index)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrArgIndexOutOfRange)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestEventArgs_NilReceiver 测试 nil 容器的访问器
func TestEventArgs_NilReceiver(t *testing.T) {
	var e *EventArgs

	assert.True(t, e.IsEmpty())
	assert.Equal(t, 0, e.Len())
	assert.Nil(t, e.Args())
	assert.Empty(t, e.Kwargs())

	_, err := e.Get("x", 0)
	assert.ErrorIs(t, err, ErrArgIndexOutOfRange)
}

// ============================================================================
//                              载荷族测试
// ============================================================================

type fakeArgs struct{ *EventArgs }

// TestAsPayload 测试载荷族判定
func TestAsPayload(t *testing.T) {
	inner := NewEventArgs(1)
	custom := &fakeArgs{inner}

	p, ok := AsPayload(custom)
	require.True(t, ok)
	assert.Same(t, inner, p.Base())

	_, ok = AsPayload(inner)
	assert.True(t, ok)

	_, ok = AsPayload("not a payload")
	assert.False(t, ok)

	_, ok = AsPayload(nil)
	assert.False(t, ok)
}

// TestToken 测试注册令牌
func TestToken(t *testing.T) {
	a := NewToken()
	b := NewToken()

	assert.NotEqual(t, a, b)
	assert.False(t, a.IsEmpty())
	assert.Len(t, a.ShortString(), 8)
	assert.True(t, Token("").IsEmpty())
}
