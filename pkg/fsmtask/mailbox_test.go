package fsmtask

import (
	"sync/atomic"
	"testing"
)

func TestMailbox_Overwrite(t *testing.T) {
	m := NewMailbox[int]()

	if m.Submit(1, false) {
		t.Error("空邮箱投递不应报告覆盖")
	}
	if !m.Submit(2, false) {
		t.Error("第二次投递应报告覆盖")
	}
	if !m.Pending() {
		t.Error("应有未消费事件")
	}

	quit := make(chan struct{})
	got, ok := m.Wait(quit)
	if !ok || got != 2 {
		t.Errorf("期望取到最后一次投递的 2, got %v ok=%v", got, ok)
	}
	if m.Pending() {
		t.Error("取走后不应有未消费事件")
	}
}

func TestMailbox_Quit(t *testing.T) {
	m := NewMailbox[int]()
	quit := make(chan struct{})
	close(quit)

	if _, ok := m.Wait(quit); ok {
		t.Error("quit 关闭后 Wait 应返回 false")
	}
}

// 信号置位但槽为空时，Wait 记为伪唤醒并继续等待
func TestMailbox_SpuriousWake(t *testing.T) {
	m := NewMailbox[int]()
	m.ready <- struct{}{}

	quit := make(chan struct{})
	result := make(chan int, 1)
	go func() {
		v, _ := m.Wait(quit)
		result <- v
	}()

	waitFor(t, "伪唤醒", func() bool { return m.Spurious() == 1 })
	m.Submit(7, false)

	if v := <-result; v != 7 {
		t.Errorf("期望 7, got %d", v)
	}
	if m.Spurious() != 1 {
		t.Errorf("期望伪唤醒 1 次, got %d", m.Spurious())
	}
}

func TestMailbox_AsyncYield(t *testing.T) {
	var yields atomic.Int32
	m := NewMailbox[int]()
	m.yield = func() { yields.Add(1) }

	// 没有等待者：不让出
	m.Submit(1, true)
	if yields.Load() != 0 {
		t.Errorf("没有等待者时不应让出, got %d", yields.Load())
	}

	quit := make(chan struct{})
	if v, _ := m.Wait(quit); v != 1 {
		t.Fatalf("期望 1, got %d", v)
	}

	result := make(chan int, 1)
	go func() {
		v, _ := m.Wait(quit)
		result <- v
	}()
	waitFor(t, "消费者等待", m.waiting.Load)

	m.Submit(2, true)
	if v := <-result; v != 2 {
		t.Errorf("期望 2, got %d", v)
	}
	if yields.Load() != 1 {
		t.Errorf("唤醒等待者后应让出一次, got %d", yields.Load())
	}
}

func BenchmarkMailbox_SubmitWait(b *testing.B) {
	m := NewMailbox[int]()
	quit := make(chan struct{})
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		m.Submit(i, false)
		m.Wait(quit)
	}
}
