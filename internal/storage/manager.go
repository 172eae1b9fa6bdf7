package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Manager 管理数据目录布局 / Manager owns the on-disk data directory layout
type Manager struct {
	baseDir  string
	stateDir string
	logsDir  string
	cacheDir string
}

// NewManager 创建数据目录 / NewManager creates the data directories
func NewManager(baseDir string) (*Manager, error) {
	baseDir = strings.TrimSpace(baseDir)
	if baseDir == "" {
		return nil, fmt.Errorf("storage base dir is empty")
	}
	m := &Manager{
		baseDir:  baseDir,
		stateDir: filepath.Join(baseDir, "state"),
		logsDir:  filepath.Join(baseDir, "logs"),
		cacheDir: filepath.Join(baseDir, "cache"),
	}
	for _, dir := range []string{m.baseDir, m.stateDir, m.logsDir, m.cacheDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir %s: %w", dir, err)
		}
	}
	return m, nil
}

func (m *Manager) BaseDir() string  { return m.baseDir }
func (m *Manager) StateDir() string { return m.stateDir }
func (m *Manager) LogsDir() string  { return m.logsDir }
func (m *Manager) CacheDir() string { return m.cacheDir }

// DBPath SQLite 数据库路径 / DBPath is the SQLite database path
func (m *Manager) DBPath() string {
	return filepath.Join(m.baseDir, "bricktrack.db")
}

// HistoryPath 命令行历史文件 / HistoryPath is the line-shell history file
func (m *Manager) HistoryPath() string {
	return filepath.Join(m.stateDir, "shell.history")
}
