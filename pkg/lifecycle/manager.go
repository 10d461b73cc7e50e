package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/junbin-yang/go-fsmtask/pkg/logger"
)

// Manager 生命周期管理器
//
// 所有协程运行在同一个 errgroup 中：任一协程返回非取消错误时，其余协程的
// ctx 被取消并进入退出流程。退出时按注册顺序的逆序调用停止函数。
// 运行期间自行退出的协程从列表移除；因退出流程而返回的协程保留在列表中，
// 由 shutdown 调用其停止函数。
type Manager struct {
	mu              sync.Mutex
	workers         []*Worker // 注册顺序
	hooks           hooks
	signals         []os.Signal
	shutdownTimeout time.Duration
	rootCtx         context.Context
	log             logger.Logger

	running  bool
	stopping bool
	cancel   context.CancelFunc
	group    *errgroup.Group
	groupCtx context.Context
	done     chan struct{}
	result   error
}

// NewManager 创建生命周期管理器
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		signals:         []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		shutdownTimeout: 30 * time.Second,
		rootCtx:         context.Background(),
		log:             logger.Default(),
		done:            make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AddWorker 添加协程，管理器运行中时立即启动
func (m *Manager) AddWorker(name string, runFunc RunFunc, opts ...WorkerOption) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stopping {
		return ErrStopping
	}
	if m.find(name) != nil {
		return ErrWorkerExists
	}

	w := NewWorker(name, runFunc, opts...)
	m.workers = append(m.workers, w)
	if m.running {
		m.startLocked(w)
	}
	return nil
}

// StopWorker 停止指定协程并等待其退出
func (m *Manager) StopWorker(name string) error {
	m.mu.Lock()
	w := m.find(name)
	var cancel context.CancelFunc
	if w != nil {
		cancel = w.cancel
		if cancel == nil {
			m.removeLocked(w)
		}
	}
	m.mu.Unlock()

	if w == nil {
		return ErrWorkerNotFound
	}

	ctx, timeoutCancel := context.WithTimeout(context.Background(), m.shutdownTimeout)
	defer timeoutCancel()

	if cancel != nil {
		cancel()
	}
	err := w.Stop(ctx)
	if cancel == nil {
		return err
	}

	select {
	case <-w.Done():
		return err
	case <-ctx.Done():
		return ErrShutdownTimeout
	}
}

// Workers 返回当前协程名称（注册顺序）
func (m *Manager) Workers() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.workers))
	for _, w := range m.workers {
		names = append(names, w.name)
	}
	return names
}

// OnStartup 注册启动钩子，任一返回错误则 Run 直接返回该错误
func (m *Manager) OnStartup(fn HookFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks.startup = append(m.hooks.startup, fn)
}

// OnWorkerStart 注册协程启动钩子
func (m *Manager) OnWorkerStart(fn WorkerHookFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks.workerStart = append(m.hooks.workerStart, fn)
}

// OnWorkerExit 注册协程退出钩子
func (m *Manager) OnWorkerExit(fn WorkerHookFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks.workerExit = append(m.hooks.workerExit, fn)
}

// OnShutdown 注册退出钩子，所有协程退出后调用
func (m *Manager) OnShutdown(fn HookFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks.shutdown = append(m.hooks.shutdown, fn)
}

// OnTimeout 注册超时钩子
func (m *Manager) OnTimeout(fn HookFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks.timeout = append(m.hooks.timeout, fn)
}

// Run 启动所有协程并阻塞，直到收到信号、调用 Shutdown 或协程出错
func (m *Manager) Run() error {
	m.mu.Lock()
	if m.running || m.stopping {
		m.mu.Unlock()
		return ErrAlreadyRunning
	}
	ctx, cancel := context.WithCancel(m.rootCtx)
	m.running = true
	m.cancel = cancel
	m.mu.Unlock()

	err := m.run(ctx, cancel)
	m.result = err
	close(m.done)
	return err
}

// Shutdown 手动触发退出，等待 Run 返回
func (m *Manager) Shutdown() error {
	m.mu.Lock()
	running, cancel := m.running, m.cancel
	m.mu.Unlock()

	if !running {
		return nil
	}
	cancel()
	<-m.done
	return m.result
}

func (m *Manager) run(ctx context.Context, cancel context.CancelFunc) error {
	defer cancel()

	if len(m.signals) > 0 {
		var stop context.CancelFunc
		ctx, stop = signal.NotifyContext(ctx, m.signals...)
		defer stop()
	}

	m.mu.Lock()
	startup := m.hooks.startup
	m.mu.Unlock()
	if err := runUntilError(ctx, startup); err != nil {
		m.log.Error("startup hook failed", logger.Err(err))
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	m.mu.Lock()
	m.group, m.groupCtx = g, gctx
	for _, w := range m.workers {
		m.startLocked(w)
	}
	count := len(m.workers)
	m.mu.Unlock()

	m.log.Info("lifecycle started", logger.Int("workers", count))

	<-gctx.Done()
	m.log.Info("shutdown requested", logger.Bool("worker_failed", ctx.Err() == nil))
	return m.shutdown(g, cancel)
}

// startLocked 在 errgroup 中启动协程，调用方持有 m.mu
func (m *Manager) startLocked(w *Worker) {
	gctx := m.groupCtx
	ctx, cancel := context.WithCancel(gctx)
	w.cancel = cancel
	hk := m.hooks

	m.group.Go(func() error {
		defer cancel()

		m.log.Debug("worker started", logger.String("worker", w.name))
		notifyWorker(hk.workerStart, w.name, nil)
		err := w.Run(ctx)
		notifyWorker(hk.workerExit, w.name, err)

		// 退出流程中的协程保留，由 shutdown 调用其停止函数
		m.mu.Lock()
		if gctx.Err() == nil {
			m.removeLocked(w)
		}
		m.mu.Unlock()

		if err != nil && !errors.Is(err, context.Canceled) {
			m.log.Error("worker failed", logger.String("worker", w.name), logger.Err(err))
			return fmt.Errorf("worker %s: %w", w.name, err)
		}
		m.log.Debug("worker exited", logger.String("worker", w.name))
		return nil
	})
}

// shutdown 取消所有协程，逆序调用停止函数并等待退出
func (m *Manager) shutdown(g *errgroup.Group, cancel context.CancelFunc) error {
	shutdownCtx, timeoutCancel := context.WithTimeout(context.Background(), m.shutdownTimeout)
	defer timeoutCancel()

	m.mu.Lock()
	m.stopping = true
	workers := append([]*Worker(nil), m.workers...)
	hk := m.hooks
	m.mu.Unlock()

	cancel()

	var errs []error
	for i := len(workers) - 1; i >= 0; i-- {
		if err := workers[i].Stop(shutdownCtx); err != nil {
			m.log.Warn("worker stop failed", logger.String("worker", workers[i].name), logger.Err(err))
			errs = append(errs, err)
		}
	}

	waitErr := make(chan error, 1)
	go func() {
		waitErr <- g.Wait()
	}()

	select {
	case err := <-waitErr:
		if err != nil {
			return err
		}
	case <-shutdownCtx.Done():
		m.log.Error("shutdown timeout", logger.Duration("timeout", m.shutdownTimeout))
		_ = runAll(shutdownCtx, hk.timeout)
		return ErrShutdownTimeout
	}

	errs = append(errs, runAll(shutdownCtx, hk.shutdown))
	m.log.Info("lifecycle stopped")
	return errors.Join(errs...)
}

func (m *Manager) find(name string) *Worker {
	for _, w := range m.workers {
		if w.name == name {
			return w
		}
	}
	return nil
}

func (m *Manager) removeLocked(target *Worker) {
	for i, w := range m.workers {
		if w == target {
			m.workers = append(m.workers[:i], m.workers[i+1:]...)
			return
		}
	}
}
