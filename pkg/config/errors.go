package config

import "fmt"

var (
	// ErrNotLoaded 当配置尚未加载时返回
	ErrNotLoaded = fmt.Errorf("config not loaded")

	// ErrNotFound 当默认路径中找不到配置文件时返回
	ErrNotFound = fmt.Errorf("no valid config file found")

	// ErrClosed 当管理器已关闭时返回
	ErrClosed = fmt.Errorf("config manager closed")
)
