// Package registry 实现处理器注册表
package registry

import (
	"errors"
	"reflect"
	"sync"

	pkgif "github.com/dep2p/go-eventsource/pkg/interfaces"
	"github.com/dep2p/go-eventsource/pkg/types"
)

// ============================================================================
// 错误定义
// ============================================================================

var (
	// ErrNilHandler 处理器为 nil
	ErrNilHandler = errors.New("nil handler")
	// ErrHandlerNotComparable 处理器的动态类型不可比较，无法按身份去重
	ErrHandlerNotComparable = errors.New("handler type is not comparable")
)

// ============================================================================
// Registry 实现
// ============================================================================

// entry 注册项
type entry struct {
	handler pkgif.Handler
	token   types.Token
}

// Registry 去重的处理器集合
//
// 去重依据处理器值本身的相等性（指针按地址比较），而不是生成的令牌：
// 重复注册同一处理器是空操作；包装了相同闭包的两个不同适配器是两个条目。
// 每个条目附带一个令牌，便于调用方按令牌移除。
type Registry struct {
	mu sync.RWMutex

	entries  []entry
	byHandle map[pkgif.Handler]types.Token
	byToken  map[types.Token]pkgif.Handler
}

// New 创建空注册表
func New() *Registry {
	return &Registry{
		byHandle: make(map[pkgif.Handler]types.Token),
		byToken:  make(map[types.Token]pkgif.Handler),
	}
}

// Add 注册处理器
//
// 返回该处理器的令牌，以及本次是否新增了条目。
func (r *Registry) Add(h pkgif.Handler) (types.Token, bool, error) {
	if err := checkHandler(h); err != nil {
		return "", false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if tok, ok := r.byHandle[h]; ok {
		return tok, false, nil
	}

	tok := types.NewToken()
	r.entries = append(r.entries, entry{handler: h, token: tok})
	r.byHandle[h] = tok
	r.byToken[tok] = h
	return tok, true, nil
}

// Remove 移除处理器，返回是否存在
func (r *Registry) Remove(h pkgif.Handler) bool {
	if checkHandler(h) != nil {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	tok, ok := r.byHandle[h]
	if !ok {
		return false
	}
	r.removeLocked(h, tok)
	return true
}

// RemoveToken 按令牌移除处理器，返回是否存在
func (r *Registry) RemoveToken(tok types.Token) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, ok := r.byToken[tok]
	if !ok {
		return false
	}
	r.removeLocked(h, tok)
	return true
}

// removeLocked 删除条目（调用方持有写锁）
func (r *Registry) removeLocked(h pkgif.Handler, tok types.Token) {
	delete(r.byHandle, h)
	delete(r.byToken, tok)
	for i, e := range r.entries {
		if e.token == tok {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			break
		}
	}
}

// Contains 处理器是否已注册
func (r *Registry) Contains(h pkgif.Handler) bool {
	if checkHandler(h) != nil {
		return false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byHandle[h]
	return ok
}

// Token 返回处理器的令牌
func (r *Registry) Token(h pkgif.Handler) (types.Token, bool) {
	if checkHandler(h) != nil {
		return "", false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	tok, ok := r.byHandle[h]
	return tok, ok
}

// Len 已注册处理器数量
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Snapshot 返回当前处理器快照
//
// 分发循环遍历快照，处理器在分发过程中增删处理器不影响本轮分发。
// 调用方不得依赖返回顺序。
func (r *Registry) Snapshot() []pkgif.Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pkgif.Handler, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.handler
	}
	return out
}

// Clear 清空注册表
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = nil
	r.byHandle = make(map[pkgif.Handler]types.Token)
	r.byToken = make(map[types.Token]pkgif.Handler)
}

// checkHandler 处理器必须非 nil 且可作为 map 键
//
// 按动态值检查：字段中装有函数、切片或 map 的结构体类型本身可比较，
// 但作为 map 键时会 panic。
func checkHandler(h pkgif.Handler) error {
	if h == nil {
		return ErrNilHandler
	}
	if !reflect.ValueOf(h).Comparable() {
		return ErrHandlerNotComparable
	}
	return nil
}
