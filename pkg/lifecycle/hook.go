package lifecycle

import (
	"context"
	"errors"
)

// HookFunc 钩子函数
type HookFunc func(ctx context.Context) error

// WorkerHookFunc 协程钩子函数，err 为协程的退出错误
type WorkerHookFunc func(name string, err error)

// hooks 钩子集合，注册后只读
type hooks struct {
	startup     []HookFunc
	workerStart []WorkerHookFunc
	workerExit  []WorkerHookFunc
	shutdown    []HookFunc
	timeout     []HookFunc
}

// runUntilError 依次执行，遇到第一个错误即停止（启动阶段）
func runUntilError(ctx context.Context, fns []HookFunc) error {
	for _, fn := range fns {
		if err := fn(ctx); err != nil {
			return err
		}
	}
	return nil
}

// runAll 全部执行并合并错误（退出阶段）
func runAll(ctx context.Context, fns []HookFunc) error {
	var errs []error
	for _, fn := range fns {
		if err := fn(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func notifyWorker(fns []WorkerHookFunc, name string, err error) {
	for _, fn := range fns {
		fn(name, err)
	}
}
