package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/junbin-yang/go-fsmtask/pkg/logger"
)

// Manager 类型化配置管理器
//
// 加载顺序：配置文件 → .env 文件 → 环境变量覆盖。重载时创建新实例，
// 旧实例保持不变，Get 返回的指针可以安全地长期持有。
type Manager[T any] struct {
	opts *options

	mu         sync.RWMutex
	current    *T
	path       string
	serializer Serializer
	defaults   *T // Load 传入的默认值副本，重载时复用
	callbacks  []func(old, new *T)

	watcher   *fsnotify.Watcher
	watchQuit chan struct{}
	watchDone chan struct{}
	closeOnce sync.Once
}

// NewManager 创建配置管理器
func NewManager[T any](opts ...Option) *Manager[T] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return &Manager[T]{
		opts:       o,
		serializer: o.serializer,
		watchQuit:  make(chan struct{}),
	}
}

// Load 加载配置文件，path 为空时按默认路径查找
//
// defaults 非空时作为解析前的初始值，文件中缺省的字段保留默认值。
func (m *Manager[T]) Load(path string, defaults *T) error {
	m.mu.Lock()
	if path != "" {
		if err := validateConfigPath(path); err != nil {
			m.mu.Unlock()
			return fmt.Errorf("invalid config path: %w", err)
		}
		m.path = path
		m.chooseSerializer(path)
	} else {
		found, err := m.findDefaultConfigPath()
		if err != nil {
			m.mu.Unlock()
			return err
		}
		m.path = found
	}

	m.defaults = nil
	if defaults != nil {
		d := *defaults
		m.defaults = &d
	}

	cfg, err := m.parse(m.path, m.serializer, m.defaults)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	m.current = cfg
	m.mu.Unlock()

	m.opts.logger.Info("config loaded",
		logger.String("path", m.path),
		logger.String("format", m.serializer.GetName()),
	)

	if m.opts.enableWatch {
		return m.startWatch()
	}
	return nil
}

// Get 返回当前配置
func (m *Manager[T]) Get() (*T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return nil, ErrNotLoaded
	}
	return m.current, nil
}

// Path 返回当前配置文件路径
func (m *Manager[T]) Path() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.path
}

// Save 保存当前配置到文件
func (m *Manager[T]) Save() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.current == nil || m.path == "" {
		return ErrNotLoaded
	}

	data, err := m.serializer.Marshal(m.current)
	if err != nil {
		return fmt.Errorf("marshal config failed: %w", err)
	}

	// 先写入临时文件（避免文件损坏）
	tmpPath := m.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("write temp config failed: %w", err)
	}
	if err := os.Rename(tmpPath, m.path); err != nil {
		return fmt.Errorf("rename temp config failed: %w", err)
	}
	return nil
}

// Reload 重新加载配置并触发变更回调，Load 传入的默认值继续生效
func (m *Manager[T]) Reload() error {
	m.mu.Lock()
	if m.path == "" {
		m.mu.Unlock()
		return ErrNotLoaded
	}

	cfg, err := m.parse(m.path, m.serializer, m.defaults)
	if err != nil {
		m.mu.Unlock()
		return err
	}

	old := m.current
	m.current = cfg

	// 复制回调列表，在锁外执行
	callbacks := make([]func(old, new *T), len(m.callbacks))
	copy(callbacks, m.callbacks)
	m.mu.Unlock()

	for _, cb := range callbacks {
		cb(old, cfg)
	}
	return nil
}

// OnChange 注册配置变更回调
func (m *Manager[T]) OnChange(callback func(old, new *T)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callbacks = append(m.callbacks, callback)
}

// Close 停止监听
func (m *Manager[T]) Close() {
	m.closeOnce.Do(func() {
		close(m.watchQuit)
		m.mu.Lock()
		w, done := m.watcher, m.watchDone
		m.mu.Unlock()
		if w != nil {
			_ = w.Close()
			<-done
		}
	})
}

/* ------------------------------ 内部方法 ------------------------------ */

// parse 读取并解析配置文件，随后应用 .env 与环境变量覆盖
func (m *Manager[T]) parse(path string, s Serializer, defaults *T) (*T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file failed: %w", err)
	}

	cfg := new(T)
	if defaults != nil {
		*cfg = *defaults
	}
	if err := s.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal failed (%s): %w", s.GetName(), err)
	}

	if err := loadDotEnv(m.opts.dotEnvFiles); err != nil {
		return nil, fmt.Errorf("load dotenv failed: %w", err)
	}
	if err := applyEnvOverrides(cfg, m.opts.envPrefix); err != nil {
		return nil, fmt.Errorf("apply env overrides failed: %w", err)
	}
	return cfg, nil
}

// chooseSerializer 选择序列化器（强制格式 > 后缀识别 > 默认）
func (m *Manager[T]) chooseSerializer(path string) {
	if m.opts.forceFormat != nil {
		m.serializer = m.opts.forceFormat
		return
	}

	ext := filepath.Ext(path)
	for _, format := range m.opts.supportedFormats {
		for _, e := range format.GetFileExts() {
			if e == ext {
				m.serializer = format
				return
			}
		}
	}
}

// findDefaultConfigPath 查找默认配置路径
func (m *Manager[T]) findDefaultConfigPath() (string, error) {
	execPath, _ := os.Executable()
	execDir := filepath.Dir(execPath)

	for _, pathTpl := range m.opts.defaultPaths {
		basePath, err := expandPath(pathTpl, pathVars{AppName: m.opts.appName, ExecDir: execDir})
		if err != nil {
			m.opts.logger.Warn("skip default config path", logger.Err(err))
			continue
		}

		// 先尝试无后缀文件
		if err := validateConfigPath(basePath); err == nil {
			m.chooseSerializer(basePath)
			return basePath, nil
		}

		// 尝试带后缀的文件
		for _, format := range m.opts.supportedFormats {
			for _, ext := range format.GetFileExts() {
				fullPath := basePath + ext
				if err := validateConfigPath(fullPath); err == nil {
					m.serializer = format
					if m.opts.forceFormat != nil {
						m.serializer = m.opts.forceFormat
					}
					return fullPath, nil
				}
			}
		}
	}

	return "", fmt.Errorf("%w (app %q)", ErrNotFound, m.opts.appName)
}

// startWatch 启动配置文件监听
//
// 监听所在目录而不是文件本身，编辑器的原子替换（rename）不会丢失监听。
func (m *Manager[T]) startWatch() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.watcher != nil {
		return nil
	}
	select {
	case <-m.watchQuit:
		return ErrClosed
	default:
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher failed: %w", err)
	}
	if err := w.Add(filepath.Dir(m.path)); err != nil {
		_ = w.Close()
		return fmt.Errorf("add watch path failed: %w", err)
	}

	m.watcher = w
	m.watchDone = make(chan struct{})
	go m.watchLoop(w, filepath.Clean(m.path), m.watchDone)
	return nil
}

// watchLoop 监听文件变化循环
func (m *Manager[T]) watchLoop(w *fsnotify.Watcher, target string, done chan struct{}) {
	defer close(done)

	debounce := time.NewTimer(0)
	if !debounce.Stop() {
		<-debounce.C
	}
	defer debounce.Stop()

	for {
		select {
		case event, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				debounce.Reset(m.opts.watchDebounce)
			}

		case <-debounce.C:
			if err := m.Reload(); err != nil {
				m.opts.logger.Warn("config auto reload failed",
					logger.String("path", target),
					logger.Err(err),
				)
			} else {
				m.opts.logger.Info("config auto reloaded", logger.String("path", target))
			}

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			m.opts.logger.Warn("config watch error", logger.Err(err))

		case <-m.watchQuit:
			return
		}
	}
}
