package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"text/template"
)

// pathVars 默认路径模板可用的变量
type pathVars struct {
	AppName string
	ExecDir string
}

// expandPath 展开路径模板（如 {{.ExecDir}}/configs/{{.AppName}}）
func expandPath(tpl string, vars pathVars) (string, error) {
	t, err := template.New("path").Parse(tpl)
	if err != nil {
		return "", fmt.Errorf("parse path template %q: %w", tpl, err)
	}
	var sb strings.Builder
	if err := t.Execute(&sb, vars); err != nil {
		return "", fmt.Errorf("expand path template %q: %w", tpl, err)
	}
	return sb.String(), nil
}

// validateConfigPath 确认路径指向一个已存在的普通文件
func validateConfigPath(path string) error {
	if path == "" {
		return errors.New("path is empty")
	}

	fi, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("file does not exist: %s", path)
	case err != nil:
		return fmt.Errorf("stat path failed: %w", err)
	case fi.IsDir():
		return fmt.Errorf("path is a directory: %s", path)
	}
	return nil
}
