package fsmtask

import "fmt"

var (
	// ErrInvalidConfig 当任务配置不合法时返回
	ErrInvalidConfig = fmt.Errorf("invalid fsm task config")

	// ErrNilMachine 当未提供状态机实现时返回
	ErrNilMachine = fmt.Errorf("nil machine")

	// ErrHooksNotImplemented 当启用了钩子但状态机未实现对应接口时返回
	ErrHooksNotImplemented = fmt.Errorf("hooks enabled but not implemented")

	// ErrCreateTask 当调度器无法创建分发协程时返回
	ErrCreateTask = fmt.Errorf("create fsm task failed")

	// ErrNilState 当处理函数声明转换却返回空状态时触发
	ErrNilState = fmt.Errorf("handler returned nil state")
)
