package fsmtask

import (
	"context"
	"testing"
)

func TestGoroutineScheduler(t *testing.T) {
	done := make(chan struct{})
	if err := (GoroutineScheduler{}).Spawn(TaskAttr{Name: "g"}, func() { close(done) }); err != nil {
		t.Fatalf("启动失败: %v", err)
	}
	<-done

	if err := (GoroutineScheduler{}).Spawn(TaskAttr{Name: "g", Priority: 1}, func() {}); err == nil {
		t.Error("普通协程调度器应拒绝优先级")
	}
	if err := (GoroutineScheduler{}).Spawn(TaskAttr{Name: "g", Affinity: []int{0}}, func() {}); err == nil {
		t.Error("普通协程调度器应拒绝亲和性")
	}
}

func TestThreadScheduler_Default(t *testing.T) {
	done := make(chan struct{})
	if err := (ThreadScheduler{}).Spawn(TaskAttr{Name: "t", StackSize: DefaultStackSize}, func() { close(done) }); err != nil {
		t.Fatalf("启动失败: %v", err)
	}
	<-done
}

func TestEngine_ThreadScheduler(t *testing.T) {
	e, err := New[lampState, lampEvent](newLamp(), testConfig(false, false), WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("创建状态机失败: %v", err)
	}
	defer e.Stop(context.Background())

	e.Submit(toggle{})
	waitFor(t, "转换完成", func() bool { return e.Metrics().Transitions == 1 })
}
