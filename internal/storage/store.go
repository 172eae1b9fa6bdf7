package storage

import "errors"

// 固定的持久化键 / Fixed persistence keys
const (
	// SetsKey 保存全部套装的 JSON 数组 / SetsKey holds the JSON array of every set
	SetsKey = "trackmybrick_sets_v2"
	// LangKey 保存两位语言代码 / LangKey holds the two-letter language preference
	LangKey = "trackmybrick_lang_v2"
)

// ErrNotFound 键不存在 / ErrNotFound is returned when a key has no value
var ErrNotFound = errors.New("storage: key not found")

// Store 键值持久化接口，支持多后端 (SQLite / JSON 文件)
// Store is the key-value persistence interface supporting multiple backends
type Store interface {
	// Get 读取键对应的值 / Get reads the value stored under key
	Get(key string) ([]byte, error)
	// Put 整体替换键对应的值 / Put replaces the value stored under key
	Put(key string, value []byte) error
	// Keys 列出全部键 / Keys lists every stored key
	Keys() ([]string, error)

	// 生命周期 / Lifecycle
	Close() error
}

// Open 按后端名称打开存储 / Open opens the store for the named backend
func Open(backend string, m *Manager) (Store, error) {
	switch backend {
	case "json":
		return NewFileStore(m.StateDir())
	default:
		return NewSQLiteStore(m.DBPath())
	}
}
