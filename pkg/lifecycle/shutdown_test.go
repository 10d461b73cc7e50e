package lifecycle

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/junbin-yang/go-fsmtask/pkg/fsmtask"
	"github.com/junbin-yang/go-fsmtask/pkg/logger"
)

// counter 每个事件把状态加一
type counter struct{}

func (counter) Initial() int { return 0 }

func (counter) Handle(s, e int) (int, bool) {
	return s + e, e != 0
}

func TestManager_EngineShutdown(t *testing.T) {
	quiet := logger.New(io.Discard, logger.ErrorLevel)
	m := NewManager(WithShutdownTimeout(5*time.Second), WithSignals(), WithLogger(quiet))

	cfg := fsmtask.DefaultConfig()
	cfg.Name = "counter"
	engine, err := fsmtask.New[int, int](counter{}, cfg,
		fsmtask.WithScheduler(fsmtask.GoroutineScheduler{}),
		fsmtask.WithLogger(quiet),
	)
	if err != nil {
		t.Fatalf("创建状态机失败: %v", err)
	}

	_ = m.AddWorker("fsm",
		func(ctx context.Context) error {
			select {
			case <-ctx.Done():
			case <-engine.Done():
			}
			return nil
		},
		WithStopFunc(engine.Stop),
	)

	shutdownCalled := false
	m.OnShutdown(func(ctx context.Context) error {
		shutdownCalled = true
		return nil
	})

	done := make(chan error, 1)
	go func() {
		done <- m.Run()
	}()

	time.Sleep(100 * time.Millisecond)
	engine.Submit(1)

	start := time.Now()
	if err := m.Shutdown(); err != nil {
		t.Errorf("Shutdown 返回错误: %v", err)
	}
	elapsed := time.Since(start)

	<-done

	if elapsed > 2*time.Second {
		t.Errorf("Shutdown 耗时过长: %v", elapsed)
	}
	if !shutdownCalled {
		t.Error("OnShutdown 未被调用")
	}

	select {
	case <-engine.Done():
	default:
		t.Error("状态机分发协程未退出")
	}
}
