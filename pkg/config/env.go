package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// loadDotEnv 加载 .env 文件，已存在的环境变量不会被覆盖
func loadDotEnv(files []string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// applyEnvOverrides 按 env 标签应用环境变量覆盖
func applyEnvOverrides(v interface{}, prefix string) error {
	return env.ParseWithOptions(v, env.Options{Prefix: prefix})
}
