package lifecycle

import "context"

// RunFunc 协程运行函数，ctx 取消时应尽快返回
type RunFunc func(ctx context.Context) error

// StopFunc 协程停止函数，用于无法通过 ctx 打断的阻塞（如 Engine.Stop、Server.Shutdown）
type StopFunc func(ctx context.Context) error

// Worker 受管理的具名协程
type Worker struct {
	name     string
	runFunc  RunFunc
	stopFunc StopFunc

	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

// WorkerOption 协程配置选项
type WorkerOption func(*Worker)

// NewWorker 创建协程
func NewWorker(name string, runFunc RunFunc, opts ...WorkerOption) *Worker {
	w := &Worker{
		name:    name,
		runFunc: runFunc,
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WithStopFunc 设置停止函数
func WithStopFunc(stopFunc StopFunc) WorkerOption {
	return func(w *Worker) {
		w.stopFunc = stopFunc
	}
}

// Name 返回协程名称
func (w *Worker) Name() string {
	return w.name
}

// Run 运行协程，返回后 Done 关闭
func (w *Worker) Run(ctx context.Context) error {
	defer close(w.done)
	w.err = w.runFunc(ctx)
	return w.err
}

// Stop 调用停止函数
func (w *Worker) Stop(ctx context.Context) error {
	if w.stopFunc != nil {
		return w.stopFunc(ctx)
	}
	return nil
}

// Done 返回协程退出后关闭的通道
func (w *Worker) Done() <-chan struct{} {
	return w.done
}

// Err 返回协程退出错误，Done 关闭后有效
func (w *Worker) Err() error {
	return w.err
}
