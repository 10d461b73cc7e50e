package fsmtask

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/junbin-yang/go-fsmtask/pkg/logger"
)

// 测试用的台灯状态机：off/on 两个状态，toggle/dim/noop 三个事件

type lampState interface{ isLampState() }

type off struct{}

type on struct{ level int }

func (off) isLampState() {}
func (on) isLampState()  {}

type lampEvent interface{ isLampEvent() }

type toggle struct{}

type dim struct{ level int }

type noop struct{}

func (toggle) isLampEvent() {}
func (dim) isLampEvent()    {}
func (noop) isLampEvent()   {}

type lamp struct {
	mu     sync.Mutex
	record []string

	block   chan struct{} // 非空时 toggle 处理阻塞直到关闭
	entered chan struct{}
}

func newLamp() *lamp {
	return &lamp{entered: make(chan struct{}, 1)}
}

func (l *lamp) Initial() lampState { return off{} }

func (l *lamp) Handle(s lampState, e lampEvent) (lampState, bool) {
	l.log(fmt.Sprintf("handle %s %s", name(s), name(e)))

	switch e := e.(type) {
	case toggle:
		if l.block != nil {
			l.entered <- struct{}{}
			<-l.block
		}
		if _, ok := s.(off); ok {
			return on{level: 100}, true
		}
		return off{}, true
	case dim:
		if _, ok := s.(on); ok {
			return on{level: e.level}, true
		}
	}
	return s, false
}

func (l *lamp) log(entry string) {
	l.mu.Lock()
	l.record = append(l.record, entry)
	l.mu.Unlock()
}

func (l *lamp) Record() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.record...)
}

// hookedLamp 同时实现进入与退出钩子
type hookedLamp struct {
	*lamp
}

func (h hookedLamp) OnEntry(s lampState) { h.log("entry " + name(s)) }
func (h hookedLamp) OnExit(s lampState)  { h.log("exit " + name(s)) }

func name(v any) string {
	switch v := v.(type) {
	case on:
		return fmt.Sprintf("on(%d)", v.level)
	default:
		return strings.TrimPrefix(fmt.Sprintf("%T", v), "fsmtask.")
	}
}

func quietLogger() logger.Logger {
	return logger.New(io.Discard, logger.ErrorLevel)
}

func testConfig(entry, exit bool) Config {
	cfg := DefaultConfig()
	cfg.Name = "lamp"
	cfg.EntryHooks = entry
	cfg.ExitHooks = exit
	return cfg
}

func newTestEngine(t *testing.T, m Machine[lampState, lampEvent], cfg Config, opts ...Option) *Engine[lampState, lampEvent] {
	t.Helper()
	opts = append([]Option{WithLogger(quietLogger()), WithScheduler(GoroutineScheduler{})}, opts...)
	e, err := New(m, cfg, opts...)
	if err != nil {
		t.Fatalf("创建状态机失败: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = e.Stop(ctx)
	})
	return e
}

// waitFor 轮询直到条件成立
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("等待超时: %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}
