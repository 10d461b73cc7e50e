package fsmtask

// Machine 应用侧实现的状态机能力接口
//
// S 为状态类型集合（通常是密封接口），E 为事件类型集合。
// Handle 按 (状态类型, 事件类型) 选择最具体的处理函数并执行，
// changed 为 false 表示状态不变。Handle 不得直接修改引擎持有的状态，
// 只能通过返回值表达新状态。
type Machine[S, E any] interface {
	// Initial 返回初始状态（第一个声明的状态类型的零值）
	Initial() S

	// Handle 处理事件，返回新状态及是否发生转换
	Handle(state S, event E) (next S, changed bool)
}

// EntryHooks 状态进入钩子
type EntryHooks[S any] interface {
	OnEntry(state S)
}

// ExitHooks 状态退出钩子
type ExitHooks[S any] interface {
	OnExit(state S)
}

// TransitionObserver 状态转换完成后的观察回调
type TransitionObserver[S any] func(from, to S)
