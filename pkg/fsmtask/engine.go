package fsmtask

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/junbin-yang/go-fsmtask/pkg/logger"
)

// Engine 运行在独立协程上的有限状态机
//
// 事件通过单槽邮箱交给分发协程，分发协程逐个调用 Machine.Handle，
// 并按返回值执行退出钩子、状态替换、进入钩子。状态只在分发协程中修改。
type Engine[S, E any] struct {
	id       string
	cfg      Config
	machine  Machine[S, E]
	mailbox  *Mailbox[E]
	current  atomic.Pointer[S]
	apply    func(cur, next S)
	observer TransitionObserver[S]
	log      logger.Logger
	metrics  Metrics

	lastOverwritten uint64 // 仅分发协程访问

	quit     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// New 创建状态机任务并启动分发协程
//
// 返回的错误都包含 ErrCreateTask，任何失败都不会留下运行中的协程。
func New[S, E any](machine Machine[S, E], cfg Config, opts ...Option) (*Engine[S, E], error) {
	e, err := newEngine(machine, cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCreateTask, err)
	}
	return e, nil
}

func newEngine[S, E any](machine Machine[S, E], cfg Config, opts ...Option) (*Engine[S, E], error) {
	if machine == nil {
		return nil, ErrNilMachine
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	e := &Engine[S, E]{
		id:      uuid.NewString(),
		cfg:     cfg,
		machine: machine,
		mailbox: NewMailbox[E](),
		log:     o.logger,
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	e.mailbox.yield = o.yield

	if o.observer != nil {
		fn, ok := o.observer.(TransitionObserver[S])
		if !ok {
			return nil, fmt.Errorf("%w: observer type %T does not match state type", ErrInvalidConfig, o.observer)
		}
		e.observer = fn
	}

	if err := e.selectApplicator(); err != nil {
		return nil, err
	}

	initial := machine.Initial()
	e.current.Store(&initial)

	if err := o.scheduler.Spawn(cfg.TaskAttr(), e.run); err != nil {
		return nil, err
	}

	e.log.Info("fsm task started",
		logger.String("task", cfg.Name),
		logger.String("instance", e.id),
		logger.Int("stack_size", cfg.StackSize),
		logger.Int("priority", cfg.Priority),
		logger.Any("affinity", cfg.Affinity),
		logger.Bool("entry_hooks", cfg.EntryHooks),
		logger.Bool("exit_hooks", cfg.ExitHooks),
		logger.Stringer("initial", typeOf{initial}),
	)
	return e, nil
}

// MustNew 创建状态机任务，失败时 panic
func MustNew[S, E any](machine Machine[S, E], cfg Config, opts ...Option) *Engine[S, E] {
	e, err := New(machine, cfg, opts...)
	if err != nil {
		panic(err)
	}
	return e
}

// Dispatch 投递事件，fromAsync 表示调用方处于异步（中断）上下文
func (e *Engine[S, E]) Dispatch(event E, fromAsync bool) {
	e.metrics.submitted.Add(1)
	if fromAsync {
		e.metrics.asyncSubmit.Add(1)
	}
	if e.mailbox.Submit(event, fromAsync) {
		e.metrics.overwritten.Add(1)
	}
}

// Submit 从普通上下文投递事件
func (e *Engine[S, E]) Submit(event E) {
	e.Dispatch(event, false)
}

// SubmitAsync 从异步上下文投递事件（信号处理、定时器回调等）
func (e *Engine[S, E]) SubmitAsync(event E) {
	e.Dispatch(event, true)
}

// CurrentState 返回当前状态快照，可在任意上下文调用
func (e *Engine[S, E]) CurrentState() S {
	return *e.current.Load()
}

// Name 返回任务名称
func (e *Engine[S, E]) Name() string {
	return e.cfg.Name
}

// ID 返回实例标识
func (e *Engine[S, E]) ID() string {
	return e.id
}

// Config 返回任务配置
func (e *Engine[S, E]) Config() Config {
	return e.cfg
}

// Metrics 返回指标快照
func (e *Engine[S, E]) Metrics() MetricsSnapshot {
	return e.metrics.snapshot(e.mailbox.Spurious(), e.mailbox.Pending())
}

// Done 返回分发协程退出后关闭的通道
func (e *Engine[S, E]) Done() <-chan struct{} {
	return e.done
}

// Stop 停止分发协程并等待其退出
//
// 不能在处理函数或钩子中调用，否则会一直等到 ctx 结束。
// 停止后仍可投递事件，但不会再被处理。
func (e *Engine[S, E]) Stop(ctx context.Context) error {
	e.stopOnce.Do(func() {
		close(e.quit)
	})

	select {
	case <-e.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run 分发循环，Wait 是唯一的挂起点
func (e *Engine[S, E]) run() {
	defer close(e.done)

	for {
		event, ok := e.mailbox.Wait(e.quit)
		if !ok {
			e.log.Info("fsm task stopped",
				logger.String("task", e.cfg.Name),
				logger.String("instance", e.id),
				logger.Uint64("dispatched", e.metrics.dispatched.Load()),
			)
			return
		}
		e.dispatch(event)
	}
}

// dispatch 处理一个事件并执行转换
func (e *Engine[S, E]) dispatch(event E) {
	e.metrics.dispatched.Add(1)
	e.reportOverwrites()

	cur := e.CurrentState()
	e.log.Debug("dispatch event",
		logger.String("task", e.cfg.Name),
		logger.Stringer("state", typeOf{cur}),
		logger.Stringer("event", typeOf{event}),
	)

	next, changed := e.machine.Handle(cur, event)
	if !changed {
		return
	}
	if any(next) == nil {
		panic(fmt.Errorf("%w: %T on %T", ErrNilState, cur, event))
	}

	e.apply(cur, next)
	e.metrics.transitions.Add(1)

	e.log.Debug("state transition",
		logger.String("task", e.cfg.Name),
		logger.Stringer("from", typeOf{cur}),
		logger.Stringer("to", typeOf{next}),
	)

	if e.observer != nil {
		e.observer(cur, next)
	}
}

// reportOverwrites 在消费侧记录自上次分发以来被覆盖的事件数
func (e *Engine[S, E]) reportOverwrites() {
	total := e.metrics.overwritten.Load()
	if total == e.lastOverwritten {
		return
	}
	e.log.Debug("pending events overwritten",
		logger.String("task", e.cfg.Name),
		logger.Uint64("lost", total-e.lastOverwritten),
		logger.Uint64("total", total),
	)
	e.lastOverwritten = total
}

// typeOf 延迟格式化类型名，仅在日志输出时求值
type typeOf struct {
	v any
}

func (t typeOf) String() string {
	return fmt.Sprintf("%T", t.v)
}
