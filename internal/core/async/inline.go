package async

import (
	"context"

	pkgif "github.com/dep2p/go-eventsource/pkg/interfaces"
)

// InlineDetacher 在提交方 goroutine 中同步执行任务
//
// 任务错误不回传给分发循环，只交给 OnError。
type InlineDetacher struct {
	// Ctx 任务 context，nil 时使用 context.Background()
	Ctx context.Context

	// OnError 任务失败回调，可为 nil
	OnError ErrorHook
}

var _ pkgif.Detacher = (*InlineDetacher)(nil)

// Inline 创建同步执行的 Detacher
func Inline(onError ErrorHook) *InlineDetacher {
	return &InlineDetacher{OnError: onError}
}

// Detach 同步执行任务
func (d *InlineDetacher) Detach(task pkgif.Task) {
	if task == nil {
		return
	}

	ctx := d.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	if err := task(ctx); err != nil {
		logger.Debug("同步执行的任务失败", "err", err)
		if d.OnError != nil {
			d.OnError(err)
		}
	}
}
