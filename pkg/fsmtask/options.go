package fsmtask

import (
	"runtime"

	"github.com/junbin-yang/go-fsmtask/pkg/logger"
)

// options 引擎构造选项
type options struct {
	logger    logger.Logger
	scheduler Scheduler
	yield     func()
	observer  any // TransitionObserver[S]，在 New 中按 S 断言
}

// Option 引擎配置选项
type Option func(*options)

func defaultOptions() *options {
	return &options{
		logger:    logger.Default(),
		scheduler: ThreadScheduler{},
		yield:     runtime.Gosched,
	}
}

// WithLogger 设置日志实现
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithScheduler 设置底层调度器
func WithScheduler(s Scheduler) Option {
	return func(o *options) {
		if s != nil {
			o.scheduler = s
		}
	}
}

// WithYield 设置异步投递唤醒消费者后的让出函数，默认 runtime.Gosched
func WithYield(fn func()) Option {
	return func(o *options) {
		if fn != nil {
			o.yield = fn
		}
	}
}

// WithTransitionObserver 设置状态转换观察回调，在进入钩子之后调用
func WithTransitionObserver[S any](fn func(from, to S)) Option {
	return func(o *options) {
		if fn != nil {
			o.observer = TransitionObserver[S](fn)
		}
	}
}
