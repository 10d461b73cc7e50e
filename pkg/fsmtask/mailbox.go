package fsmtask

import (
	"runtime"
	"sync/atomic"
)

// Mailbox 单槽事件邮箱
//
// 只保存最近一次投递的事件，外加一个二值就绪信号。它不是队列：
// 在消费者取走之前的第二次投递会覆盖前一个事件，信号保持置位，
// 被覆盖的事件直接丢失。Submit 可以被任意数量的普通协程和异步上下文
// 并发调用；Wait 只能由唯一的消费者调用。
type Mailbox[E any] struct {
	slot     atomic.Pointer[E]
	ready    chan struct{} // 容量为 1 的二值信号量
	waiting  atomic.Bool   // 消费者是否阻塞在 Wait 中
	spurious atomic.Uint64 // 伪唤醒次数
	yield    func()
}

// NewMailbox 创建邮箱，初始信号为清除状态
func NewMailbox[E any]() *Mailbox[E] {
	return &Mailbox[E]{
		ready: make(chan struct{}, 1),
		yield: runtime.Gosched,
	}
}

// Submit 写入事件并置位就绪信号，返回是否覆盖了未消费的事件
//
// fromAsync 为 true 时走异步路径：不加锁、不阻塞，若本次置位唤醒了
// 阻塞中的消费者则调用 yield 请求让出执行权。
func (m *Mailbox[E]) Submit(event E, fromAsync bool) bool {
	old := m.slot.Swap(&event)
	woke := m.give()
	if fromAsync && woke {
		m.yield()
	}
	return old != nil
}

// give 置位信号，信号已置位时保持不变
func (m *Mailbox[E]) give() bool {
	select {
	case m.ready <- struct{}{}:
		return m.waiting.Load()
	default:
		return false
	}
}

// Wait 阻塞直到信号置位，清除信号并取走事件
//
// quit 关闭时返回 false。槽为空的唤醒（生产者写槽与置位之间被消费者
// 抢先取走）视为伪唤醒，计数后继续等待。
func (m *Mailbox[E]) Wait(quit <-chan struct{}) (E, bool) {
	for {
		m.waiting.Store(true)
		select {
		case <-m.ready:
		case <-quit:
			m.waiting.Store(false)
			var zero E
			return zero, false
		}
		m.waiting.Store(false)

		if p := m.slot.Swap(nil); p != nil {
			return *p, true
		}
		m.spurious.Add(1)
	}
}

// Pending 返回当前是否有未消费的事件
func (m *Mailbox[E]) Pending() bool {
	return m.slot.Load() != nil
}

// Spurious 返回伪唤醒次数
func (m *Mailbox[E]) Spurious() uint64 {
	return m.spurious.Load()
}
