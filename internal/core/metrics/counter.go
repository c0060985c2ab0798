package metrics

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"

	pkgif "github.com/dep2p/go-eventsource/pkg/interfaces"
)

// 发布者类型
const (
	// SourceEvent EventSource 分发
	SourceEvent = "event"
	// SourceObservable Observable 分发
	SourceObservable = "observable"
)

// sourceCounters 单类发布者的计数器
type sourceCounters struct {
	dispatches      atomic.Int64
	handlerCalls    atomic.Int64
	handlerFailures atomic.Int64
	dispatchNanos   atomic.Int64
	rate            *RateMeter
}

// DispatchCounter 分发计数器
//
// 使用原子操作实现并发安全的计数器，实现 interfaces.DispatchReporter。
type DispatchCounter struct {
	clock clock.Clock

	mu      sync.RWMutex
	sources map[string]*sourceCounters

	tasksDetached atomic.Int64
	tasksFinished atomic.Int64
	tasksFailed   atomic.Int64
	tasksPanicked atomic.Int64
	taskNanos     atomic.Int64
}

// 确保 DispatchCounter 实现 DispatchReporter 接口
var _ pkgif.DispatchReporter = (*DispatchCounter)(nil)

// NewDispatchCounter 创建新的 DispatchCounter
func NewDispatchCounter() *DispatchCounter {
	return NewDispatchCounterWithClock(clock.New())
}

// NewDispatchCounterWithClock 使用指定时钟创建 DispatchCounter
func NewDispatchCounterWithClock(clk clock.Clock) *DispatchCounter {
	return &DispatchCounter{
		clock:   clk,
		sources: make(map[string]*sourceCounters),
	}
}

// source 获取或创建发布者计数器
func (c *DispatchCounter) source(name string) *sourceCounters {
	c.mu.RLock()
	sc, ok := c.sources[name]
	c.mu.RUnlock()
	if ok {
		return sc
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if sc, ok = c.sources[name]; !ok {
		sc = &sourceCounters{rate: NewRateMeter(c.clock)}
		c.sources[name] = sc
	}
	return sc
}

// ObserveDispatch 记录一次分发
func (c *DispatchCounter) ObserveDispatch(source string, handlers int, elapsed time.Duration) {
	sc := c.source(source)
	sc.dispatches.Add(1)
	sc.rate.Add(1)
	sc.handlerCalls.Add(int64(handlers))
	sc.dispatchNanos.Add(int64(elapsed))
}

// HandlerFailed 记录同步处理器失败
func (c *DispatchCounter) HandlerFailed(source string) {
	c.source(source).handlerFailures.Add(1)
}

// TaskDetached 记录一个异步任务被提交
func (c *DispatchCounter) TaskDetached() {
	c.tasksDetached.Add(1)
}

// TaskFinished 记录异步任务结束
func (c *DispatchCounter) TaskFinished(err error, elapsed time.Duration) {
	c.tasksFinished.Add(1)
	c.taskNanos.Add(int64(elapsed))
	if err != nil {
		c.tasksFailed.Add(1)
	}
}

// TaskPanicked 记录异步任务 panic
func (c *DispatchCounter) TaskPanicked() {
	c.tasksPanicked.Add(1)
}

// Snapshot 获取当前统计快照
func (c *DispatchCounter) Snapshot() Stats {
	c.mu.RLock()
	sources := make(map[string]SourceStats, len(c.sources))
	for name, sc := range c.sources {
		sources[name] = SourceStats{
			Dispatches:      sc.dispatches.Load(),
			HandlerCalls:    sc.handlerCalls.Load(),
			HandlerFailures: sc.handlerFailures.Load(),
			DispatchTime:    time.Duration(sc.dispatchNanos.Load()),
			DispatchRate:    sc.rate.Rate(),
		}
	}
	c.mu.RUnlock()

	return Stats{
		Sources:       sources,
		TasksDetached: c.tasksDetached.Load(),
		TasksFinished: c.tasksFinished.Load(),
		TasksFailed:   c.tasksFailed.Load(),
		TasksPanicked: c.tasksPanicked.Load(),
		TaskTime:      time.Duration(c.taskNanos.Load()),
	}
}

// Reset 重置所有统计
func (c *DispatchCounter) Reset() {
	c.mu.Lock()
	c.sources = make(map[string]*sourceCounters)
	c.mu.Unlock()

	c.tasksDetached.Store(0)
	c.tasksFinished.Store(0)
	c.tasksFailed.Store(0)
	c.tasksPanicked.Store(0)
	c.taskNanos.Store(0)
}

// ============================================================================
//                              Nop
// ============================================================================

// nopReporter 丢弃所有指标
type nopReporter struct{}

func (nopReporter) ObserveDispatch(string, int, time.Duration) {}
func (nopReporter) HandlerFailed(string)                       {}
func (nopReporter) TaskDetached()                              {}
func (nopReporter) TaskFinished(error, time.Duration)          {}
func (nopReporter) TaskPanicked()                              {}

// Nop 返回丢弃所有指标的上报器
func Nop() pkgif.DispatchReporter {
	return nopReporter{}
}
