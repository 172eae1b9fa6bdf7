package storage

import (
	"errors"
	"fmt"
)

// Migrate 将源存储中目标不存在的键复制过去（切换后端时使用）
// Migrate copies keys that are missing in dst from src, used when switching backends
func Migrate(src, dst Store) (int, error) {
	if src == nil || dst == nil {
		return 0, nil
	}
	keys, err := src.Keys()
	if err != nil {
		return 0, fmt.Errorf("list source keys: %w", err)
	}

	migrated := 0
	for _, key := range keys {
		// 检查是否已存在 / Check if already migrated
		if _, err := dst.Get(key); err == nil {
			continue
		} else if !errors.Is(err, ErrNotFound) {
			return migrated, fmt.Errorf("check %s: %w", key, err)
		}
		value, err := src.Get(key)
		if err != nil {
			return migrated, fmt.Errorf("read %s: %w", key, err)
		}
		if err := dst.Put(key, value); err != nil {
			return migrated, fmt.Errorf("migrate %s: %w", key, err)
		}
		migrated++
	}
	return migrated, nil
}
