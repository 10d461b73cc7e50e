package fsmtask

import "sync/atomic"

// Metrics 引擎指标统计
type Metrics struct {
	submitted   atomic.Uint64 // 总投递数
	asyncSubmit atomic.Uint64 // 异步上下文投递数
	overwritten atomic.Uint64 // 被覆盖丢失的事件数
	dispatched  atomic.Uint64 // 已分发给处理函数的事件数
	transitions atomic.Uint64 // 实际发生的状态转换数
}

// snapshot 生成快照
func (m *Metrics) snapshot(spurious uint64, pending bool) MetricsSnapshot {
	return MetricsSnapshot{
		Submitted:      m.submitted.Load(),
		AsyncSubmitted: m.asyncSubmit.Load(),
		Overwritten:    m.overwritten.Load(),
		Dispatched:     m.dispatched.Load(),
		Transitions:    m.transitions.Load(),
		SpuriousWakes:  spurious,
		Pending:        pending,
	}
}

// MetricsSnapshot 指标快照
type MetricsSnapshot struct {
	Submitted      uint64 // 总投递数
	AsyncSubmitted uint64 // 异步投递数
	Overwritten    uint64 // 覆盖丢失数
	Dispatched     uint64 // 分发数
	Transitions    uint64 // 转换数
	SpuriousWakes  uint64 // 伪唤醒次数
	Pending        bool   // 是否有未消费事件
}
