package fsmtask

import "fmt"

// selectApplicator 按钩子开关选择转换执行函数
//
// 构造时一次性选定，运行时不再判断开关。
func (e *Engine[S, E]) selectApplicator() error {
	var (
		entry EntryHooks[S]
		exit  ExitHooks[S]
	)

	if e.cfg.EntryHooks {
		h, ok := e.machine.(EntryHooks[S])
		if !ok {
			return fmt.Errorf("%w: entry hooks for %T", ErrHooksNotImplemented, e.machine)
		}
		entry = h
	}
	if e.cfg.ExitHooks {
		h, ok := e.machine.(ExitHooks[S])
		if !ok {
			return fmt.Errorf("%w: exit hooks for %T", ErrHooksNotImplemented, e.machine)
		}
		exit = h
	}

	switch {
	case entry != nil && exit != nil:
		e.apply = func(cur, next S) {
			exit.OnExit(cur)
			e.replace(next)
			entry.OnEntry(next)
		}
	case exit != nil:
		e.apply = func(cur, next S) {
			exit.OnExit(cur)
			e.replace(next)
		}
	case entry != nil:
		e.apply = func(_, next S) {
			e.replace(next)
			entry.OnEntry(next)
		}
	default:
		e.apply = func(_, next S) {
			e.replace(next)
		}
	}
	return nil
}

// replace 替换当前状态
func (e *Engine[S, E]) replace(next S) {
	e.current.Store(&next)
}
