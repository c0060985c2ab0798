package handler

import (
	"context"
	"fmt"
	"reflect"

	lru "github.com/hashicorp/golang-lru/v2"

	pkgif "github.com/dep2p/go-eventsource/pkg/interfaces"
	"github.com/dep2p/go-eventsource/pkg/types"
)

var (
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
	taskType    = reflect.TypeOf(pkgif.Task(nil))
)

// signatureCacheSize 签名缓存容量
const signatureCacheSize = 256

// signatures 按函数类型缓存解析后的签名
var signatures = mustSignatureCache()

func mustSignatureCache() *lru.Cache[reflect.Type, *signature] {
	c, err := lru.New[reflect.Type, *signature](signatureCacheSize)
	if err != nil {
		panic(err)
	}
	return c
}

// signature 解析后的函数签名
type signature struct {
	params []reflect.Type
	async  bool
	result resultKind
}

// reflectHandler 通过反射调用任意签名的函数
type reflectHandler struct {
	fn reflect.Value
	*signature
}

type resultKind int

const (
	resultNone resultKind = iota
	resultError
	resultTask
)

// Adapt 将任意函数适配为处理器
//
// 支持的签名：
//   - 参数：任意个数的非变参参数；首个参数为 context.Context 时视为异步处理器，
//     该参数不计入 Arity
//   - 返回值：无、error，或 Task / func(context.Context) error（处理器自身返回待执行计算）
//
// 声明的参数多于可用槽位时，多出的参数以零值填充。
// 每次调用都会创建新的处理器值，移除时需使用返回值本身。
func Adapt(fn any) (pkgif.Handler, error) {
	if fn == nil {
		return nil, ErrNotFunc
	}
	v := reflect.ValueOf(fn)
	t := v.Type()
	if t.Kind() != reflect.Func || v.IsNil() {
		return nil, fmt.Errorf("%w: %T", ErrNotFunc, fn)
	}

	sig, err := signatureOf(t)
	if err != nil {
		return nil, err
	}
	return &reflectHandler{fn: v, signature: sig}, nil
}

// signatureOf 解析函数类型，结果按类型缓存
func signatureOf(t reflect.Type) (*signature, error) {
	if sig, ok := signatures.Get(t); ok {
		return sig, nil
	}
	if t.IsVariadic() {
		return nil, fmt.Errorf("%w: variadic %s", ErrBadSignature, t)
	}

	sig := &signature{}
	for i := 0; i < t.NumIn(); i++ {
		in := t.In(i)
		if i == 0 && in == contextType {
			sig.async = true
			continue
		}
		sig.params = append(sig.params, in)
	}

	switch {
	case t.NumOut() == 0:
		sig.result = resultNone
	case t.NumOut() == 1 && t.Out(0) == errorType:
		sig.result = resultError
	case t.NumOut() == 1 && t.Out(0).ConvertibleTo(taskType):
		if sig.async {
			return nil, fmt.Errorf("%w: async handler cannot return a task: %s", ErrBadSignature, t)
		}
		sig.result = resultTask
	default:
		return nil, fmt.Errorf("%w: %s", ErrBadSignature, t)
	}

	signatures.Add(t, sig)
	return sig, nil
}

// MustAdapt 同 Adapt，失败时 panic
func MustAdapt(fn any) pkgif.Handler {
	h, err := Adapt(fn)
	if err != nil {
		panic(err)
	}
	return h
}

func (h *reflectHandler) Arity() int {
	return len(h.params)
}

func (h *reflectHandler) Invoke(args []any) (pkgif.Task, error) {
	in, err := h.values(args)
	if err != nil {
		return nil, err
	}

	if h.async {
		return func(ctx context.Context) error {
			out := h.fn.Call(append([]reflect.Value{reflect.ValueOf(&ctx).Elem()}, in...))
			return h.errorOf(out)
		}, nil
	}

	out := h.fn.Call(in)
	if h.result == resultTask {
		if out[0].IsNil() {
			return nil, nil
		}
		return out[0].Convert(taskType).Interface().(pkgif.Task), nil
	}
	return nil, h.errorOf(out)
}

// values 按声明的参数类型构造反射参数
func (h *reflectHandler) values(args []any) ([]reflect.Value, error) {
	in := make([]reflect.Value, len(h.params))
	for i, pt := range h.params {
		v := argAt(args, i)
		switch {
		case v == nil:
			in[i] = reflect.Zero(pt)
		case reflect.TypeOf(v).AssignableTo(pt):
			in[i] = reflect.ValueOf(v)
		case types.IsEmptyPayload(v):
			in[i] = reflect.Zero(pt)
		default:
			return nil, fmt.Errorf("%w: param %d got %T, want %s", ErrArgType, i, v, pt)
		}
	}
	return in, nil
}

func (h *reflectHandler) errorOf(out []reflect.Value) error {
	if h.result != resultError || out[0].IsNil() {
		return nil
	}
	return out[0].Interface().(error)
}
