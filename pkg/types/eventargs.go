// Package types 定义 go-eventsource 的基础类型
//
// 本文件定义事件参数容器 EventArgs 及其载荷族。
package types

import (
	"fmt"
	"maps"
	"slices"
)

// ============================================================================
//                              KeywordArg - 命名参数
// ============================================================================

// KeywordArg 命名参数
//
// 作为位置参数传入 NewEventArgs 或 EventSource.Call 时，
// 不会进入位置参数列表，而是写入命名参数表。
type KeywordArg struct {
	Name  string
	Value any
}

// Kw 创建命名参数
func Kw(name string, value any) KeywordArg {
	return KeywordArg{Name: name, Value: value}
}

// ============================================================================
//                              EventArgs - 事件参数容器
// ============================================================================

// EventArgs 事件参数容器
//
// 持有有序的位置参数和按名称索引的命名参数，构造后不可变。
// 自定义载荷类型通过嵌入 *EventArgs 加入载荷族：
//
//	type MessageArgs struct{ *types.EventArgs }
//
//	func (a *MessageArgs) Kind() Kind { v, _ := a.Get("kind", 0); return v.(Kind) }
type EventArgs struct {
	args   []any
	kwargs map[string]any
}

// empty 进程级共享的空参数容器
var empty = &EventArgs{}

// Empty 返回进程级共享的空参数容器
//
// 发布者在没有载荷时统一传递此实例，每次返回同一个指针。
func Empty() *EventArgs {
	return empty
}

// NewEventArgs 创建事件参数容器
//
// KeywordArg 类型的值写入命名参数表，其余按顺序作为位置参数。
// 同名命名参数以最后一次出现为准。
func NewEventArgs(values ...any) *EventArgs {
	e := &EventArgs{}
	for _, v := range values {
		if kw, ok := v.(KeywordArg); ok {
			if e.kwargs == nil {
				e.kwargs = make(map[string]any)
			}
			e.kwargs[kw.Name] = kw.Value
			continue
		}
		e.args = append(e.args, v)
	}
	return e
}

// Base 返回自身，使 *EventArgs 满足 Payload
func (e *EventArgs) Base() *EventArgs {
	return e
}

// Len 返回位置参数个数
func (e *EventArgs) Len() int {
	if e == nil {
		return 0
	}
	return len(e.args)
}

// IsEmpty 没有任何位置参数和命名参数
func (e *EventArgs) IsEmpty() bool {
	return e == nil || (len(e.args) == 0 && len(e.kwargs) == 0)
}

// Args 返回位置参数副本
func (e *EventArgs) Args() []any {
	if e == nil {
		return nil
	}
	return slices.Clone(e.args)
}

// Kwargs 返回命名参数副本
func (e *EventArgs) Kwargs() map[string]any {
	if e == nil || e.kwargs == nil {
		return map[string]any{}
	}
	return maps.Clone(e.kwargs)
}

// Arg 返回指定位置的参数
func (e *EventArgs) Arg(index int) (any, error) {
	if index < 0 || index >= e.Len() {
		return nil, fmt.Errorf("%w: index %d, len %d", ErrArgIndexOutOfRange, index, e.Len())
	}
	return e.args[index], nil
}

// Kwarg 返回指定名称的命名参数
func (e *EventArgs) Kwarg(name string) (any, bool) {
	if e == nil {
		return nil, false
	}
	v, ok := e.kwargs[name]
	return v, ok
}

// Get 按名称或位置查找参数
//
// 命名参数表中存在 name 时返回其值（即使值为 nil），
// 否则返回第 index 个位置参数；越界时返回 ErrArgIndexOutOfRange。
func (e *EventArgs) Get(name string, index int) (any, error) {
	if v, ok := e.Kwarg(name); ok {
		return v, nil
	}
	return e.Arg(index)
}

// String 实现 fmt.Stringer
func (e *EventArgs) String() string {
	if e.IsEmpty() {
		return "EventArgs{}"
	}
	return fmt.Sprintf("EventArgs{args=%v, kwargs=%v}", e.args, e.kwargs)
}

// ============================================================================
//                              Payload - 载荷族
// ============================================================================

// Payload 事件载荷
//
// 所有嵌入 *EventArgs 的类型都属于载荷族。
type Payload interface {
	Base() *EventArgs
}

// PayloadFactory 载荷构造器
//
// EventSource 配置了载荷类型时，用发布参数构造的 EventArgs 生成具体载荷。
type PayloadFactory func(args *EventArgs) Payload

// AsPayload 判断值是否属于载荷族
func AsPayload(v any) (Payload, bool) {
	if v == nil {
		return nil, false
	}
	p, ok := v.(Payload)
	return p, ok
}

// IsEmptyPayload 判断载荷是否为共享空实例
func IsEmptyPayload(v any) bool {
	p, ok := AsPayload(v)
	if !ok {
		return false
	}
	return p.Base() == empty
}
