package fsmtask

import "fmt"

const (
	// DefaultStackSize 默认栈大小（仅记录，goroutine 栈动态增长）
	DefaultStackSize = 4096

	// DefaultName 默认任务名称
	DefaultName = "fsm_task"
)

// Config 状态机任务配置
type Config struct {
	Name       string `yaml:"name" json:"name" ini:"name" env:"NAME"`                      // 任务名称
	StackSize  int    `yaml:"stack_size" json:"stack_size" ini:"stack_size" env:"STACK_SIZE"` // 栈大小
	Priority   int    `yaml:"priority" json:"priority" ini:"priority" env:"PRIORITY"`         // 调度优先级，0 表示继承
	Affinity   []int  `yaml:"affinity" json:"affinity" ini:"affinity" env:"AFFINITY"`         // 绑定的 CPU，空表示不绑定
	EntryHooks bool   `yaml:"entry_hooks" json:"entry_hooks" ini:"entry_hooks" env:"ENTRY_HOOKS"`
	ExitHooks  bool   `yaml:"exit_hooks" json:"exit_hooks" ini:"exit_hooks" env:"EXIT_HOOKS"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		Name:      DefaultName,
		StackSize: DefaultStackSize,
	}
}

// Validate 校验配置
func (c Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidConfig)
	}
	if c.StackSize <= 0 {
		return fmt.Errorf("%w: stack size must be positive, got %d", ErrInvalidConfig, c.StackSize)
	}
	for _, cpu := range c.Affinity {
		if cpu < 0 {
			return fmt.Errorf("%w: negative cpu %d in affinity", ErrInvalidConfig, cpu)
		}
	}
	return nil
}

// TaskAttr 返回调度器使用的任务属性
func (c Config) TaskAttr() TaskAttr {
	return TaskAttr{
		Name:      c.Name,
		StackSize: c.StackSize,
		Priority:  c.Priority,
		Affinity:  append([]int(nil), c.Affinity...),
	}
}
