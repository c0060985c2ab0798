package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// DefaultNamespace 默认指标命名空间
const DefaultNamespace = "eventsource"

// Collector 将 DispatchCounter 导出为 Prometheus 指标
//
// 每次 Collect 读取一次快照并生成常量指标，不额外维护状态。
type Collector struct {
	counter *DispatchCounter

	dispatches      *prometheus.Desc
	handlerCalls    *prometheus.Desc
	handlerFailures *prometheus.Desc
	dispatchSeconds *prometheus.Desc
	dispatchRate    *prometheus.Desc
	tasksDetached   *prometheus.Desc
	tasksFinished   *prometheus.Desc
	tasksFailed     *prometheus.Desc
	tasksPanicked   *prometheus.Desc
	tasksPending    *prometheus.Desc
	taskSeconds     *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector 创建 Prometheus 收集器
func NewCollector(namespace string, counter *DispatchCounter) *Collector {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	source := []string{"source"}
	desc := func(name, help string, labels []string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "", name), help, labels, nil)
	}

	return &Collector{
		counter:         counter,
		dispatches:      desc("dispatches_total", "Number of dispatch loops run.", source),
		handlerCalls:    desc("handler_calls_total", "Number of handler invocations.", source),
		handlerFailures: desc("handler_failures_total", "Number of synchronous handler failures.", source),
		dispatchSeconds: desc("dispatch_seconds_total", "Time spent in dispatch loops.", source),
		dispatchRate:    desc("dispatch_rate", "Dispatches per second averaged over the last minute.", source),
		tasksDetached:   desc("tasks_detached_total", "Number of asynchronous tasks detached.", nil),
		tasksFinished:   desc("tasks_finished_total", "Number of detached tasks that finished.", nil),
		tasksFailed:     desc("tasks_failed_total", "Number of detached tasks that failed.", nil),
		tasksPanicked:   desc("tasks_panicked_total", "Number of detached tasks that panicked.", nil),
		tasksPending:    desc("tasks_pending", "Number of detached tasks still running.", nil),
		taskSeconds:     desc("task_seconds_total", "Time spent in detached tasks.", nil),
	}
}

// Describe 实现 prometheus.Collector
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.dispatches
	ch <- c.handlerCalls
	ch <- c.handlerFailures
	ch <- c.dispatchSeconds
	ch <- c.dispatchRate
	ch <- c.tasksDetached
	ch <- c.tasksFinished
	ch <- c.tasksFailed
	ch <- c.tasksPanicked
	ch <- c.tasksPending
	ch <- c.taskSeconds
}

// Collect 实现 prometheus.Collector
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.counter.Snapshot()

	for name, src := range s.Sources {
		ch <- prometheus.MustNewConstMetric(c.dispatches, prometheus.CounterValue, float64(src.Dispatches), name)
		ch <- prometheus.MustNewConstMetric(c.handlerCalls, prometheus.CounterValue, float64(src.HandlerCalls), name)
		ch <- prometheus.MustNewConstMetric(c.handlerFailures, prometheus.CounterValue, float64(src.HandlerFailures), name)
		ch <- prometheus.MustNewConstMetric(c.dispatchSeconds, prometheus.CounterValue, src.DispatchTime.Seconds(), name)
		ch <- prometheus.MustNewConstMetric(c.dispatchRate, prometheus.GaugeValue, src.DispatchRate, name)
	}

	ch <- prometheus.MustNewConstMetric(c.tasksDetached, prometheus.CounterValue, float64(s.TasksDetached))
	ch <- prometheus.MustNewConstMetric(c.tasksFinished, prometheus.CounterValue, float64(s.TasksFinished))
	ch <- prometheus.MustNewConstMetric(c.tasksFailed, prometheus.CounterValue, float64(s.TasksFailed))
	ch <- prometheus.MustNewConstMetric(c.tasksPanicked, prometheus.CounterValue, float64(s.TasksPanicked))
	ch <- prometheus.MustNewConstMetric(c.tasksPending, prometheus.GaugeValue, float64(s.Pending()))
	ch <- prometheus.MustNewConstMetric(c.taskSeconds, prometheus.CounterValue, s.TaskTime.Seconds())
}
