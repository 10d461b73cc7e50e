//go:build !linux

package fsmtask

import (
	"errors"
	"fmt"
)

// applyThreadAttr 非 Linux 平台只接受默认属性
func applyThreadAttr(attr TaskAttr) error {
	if attr.Priority != 0 {
		return fmt.Errorf("thread priority: %w", errors.ErrUnsupported)
	}
	if len(attr.Affinity) > 0 {
		return fmt.Errorf("cpu affinity: %w", errors.ErrUnsupported)
	}
	return nil
}
