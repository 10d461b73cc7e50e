package fsmtask

import (
	"context"
	"fmt"
	"runtime"
	"runtime/pprof"
	"strconv"
)

// TaskAttr 分发协程的任务属性
type TaskAttr struct {
	Name      string // 任务名称
	StackSize int    // 栈大小
	Priority  int    // 优先级，0 表示继承，正数提高，负数降低
	Affinity  []int  // 绑定的 CPU 列表
}

// Scheduler 创建分发协程的底层调度器
//
// Spawn 必须在 fn 开始运行之前报告任务属性应用失败，
// 返回错误时 fn 不会被执行。
type Scheduler interface {
	Spawn(attr TaskAttr, fn func()) error
}

// SchedulerFunc 函数适配器
type SchedulerFunc func(attr TaskAttr, fn func()) error

// Spawn 实现 Scheduler
func (f SchedulerFunc) Spawn(attr TaskAttr, fn func()) error {
	return f(attr, fn)
}

// ThreadScheduler 默认调度器：每个任务独占一个锁定的系统线程
type ThreadScheduler struct{}

// Spawn 启动协程并锁定到独立线程，应用优先级与亲和性
func (ThreadScheduler) Spawn(attr TaskAttr, fn func()) error {
	started := make(chan error, 1)

	go func() {
		// 不解锁：协程退出时线程随之销毁，修改过的线程属性不会泄漏
		runtime.LockOSThread()

		if err := applyThreadAttr(attr); err != nil {
			started <- err
			return
		}

		labels := pprof.Labels(
			"fsm_task", attr.Name,
			"stack_size", strconv.Itoa(attr.StackSize),
			"priority", strconv.Itoa(attr.Priority),
		)
		pprof.SetGoroutineLabels(pprof.WithLabels(context.Background(), labels))

		started <- nil
		fn()
	}()

	if err := <-started; err != nil {
		return fmt.Errorf("apply task attr for %q: %w", attr.Name, err)
	}
	return nil
}

// GoroutineScheduler 轻量调度器：普通协程，不支持优先级与亲和性
type GoroutineScheduler struct{}

// Spawn 启动普通协程
func (GoroutineScheduler) Spawn(attr TaskAttr, fn func()) error {
	if attr.Priority != 0 || len(attr.Affinity) > 0 {
		return fmt.Errorf("goroutine scheduler: priority/affinity for %q not supported", attr.Name)
	}
	go fn()
	return nil
}
