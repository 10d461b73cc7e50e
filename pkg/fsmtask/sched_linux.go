//go:build linux

package fsmtask

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// applyThreadAttr 在当前线程上应用优先级与 CPU 亲和性
//
// Linux 的 nice 值按线程生效，优先级 p 映射为 nice -p。
func applyThreadAttr(attr TaskAttr) error {
	if attr.Priority != 0 {
		tid := unix.Gettid()
		nice := clampNice(-attr.Priority)
		if err := unix.Setpriority(unix.PRIO_PROCESS, tid, nice); err != nil {
			return fmt.Errorf("setpriority(nice=%d): %w", nice, err)
		}
	}

	if len(attr.Affinity) > 0 {
		var set unix.CPUSet
		set.Zero()
		for _, cpu := range attr.Affinity {
			set.Set(cpu)
		}
		if err := unix.SchedSetaffinity(0, &set); err != nil {
			return fmt.Errorf("sched_setaffinity(%v): %w", attr.Affinity, err)
		}
	}

	return nil
}

func clampNice(n int) int {
	if n < -20 {
		return -20
	}
	if n > 19 {
		return 19
	}
	return n
}
