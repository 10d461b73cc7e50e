package config

import (
	"time"

	"github.com/junbin-yang/go-fsmtask/pkg/logger"
)

// options 管理器选项
type options struct {
	appName          string       // 应用名称
	serializer       Serializer   // 默认序列化器
	forceFormat      Serializer   // 强制格式（优先级最高）
	supportedFormats []Serializer // 支持的格式
	defaultPaths     []string     // 默认路径模板
	envPrefix        string       // 环境变量前缀
	dotEnvFiles      []string     // 需要加载的 .env 文件
	enableWatch      bool         // 是否启用监听
	watchDebounce    time.Duration
	logger           logger.Logger
}

// Option 配置管理器选项
type Option func(*options)

func defaultOptions() *options {
	return &options{
		appName:          "app",
		serializer:       &YAMLSerializer{},
		supportedFormats: []Serializer{&YAMLSerializer{}, &JSONSerializer{}, &INISerializer{}},
		defaultPaths: []string{
			"./{{.AppName}}",
			"{{.ExecDir}}/{{.AppName}}",
			"/etc/{{.AppName}}",
		},
		watchDebounce: 500 * time.Millisecond,
		logger:        logger.Default(),
	}
}

// WithAppName 设置应用名称（用于默认配置文件名）
func WithAppName(name string) Option {
	return func(o *options) {
		o.appName = name
	}
}

// WithSerializer 设置默认序列化器
func WithSerializer(s Serializer) Option {
	return func(o *options) {
		o.serializer = s
	}
}

// WithForceFormat 强制指定配置格式（无视文件后缀）
func WithForceFormat(s Serializer) Option {
	return func(o *options) {
		o.forceFormat = s
	}
}

// WithDefaultPaths 设置默认配置文件查找路径
func WithDefaultPaths(paths ...string) Option {
	return func(o *options) {
		o.defaultPaths = paths
	}
}

// WithConfigFormats 设置支持的配置格式列表
func WithConfigFormats(formats ...Serializer) Option {
	return func(o *options) {
		o.supportedFormats = formats
	}
}

// WithEnvPrefix 设置环境变量前缀
func WithEnvPrefix(prefix string) Option {
	return func(o *options) {
		o.envPrefix = prefix
	}
}

// WithDotEnv 加载 .env 文件后再应用环境变量覆盖，文件不存在时忽略
func WithDotEnv(files ...string) Option {
	return func(o *options) {
		o.dotEnvFiles = files
	}
}

// WithConfigWatch 启用配置文件监听（文件变化自动重载）
func WithConfigWatch(enable bool, interval time.Duration) Option {
	return func(o *options) {
		o.enableWatch = enable
		if interval > 0 {
			o.watchDebounce = interval
		}
	}
}

// WithLogger 设置日志
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
