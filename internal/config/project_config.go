package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// scaffoldTemplate is the commented project config. API keys stay in the
// environment so the file can be committed.
const scaffoldTemplate = `{
  // gemini, openai or none. Set BRICKTRACK_API_KEY (or GEMINI_API_KEY) to enable.
  "ai": {
    "provider": %q,
    "insight_model": %q,
    "vision_model": %q,
    "search_model": %q,
    "timeout_ms": %d,
    "insight_token_budget": %d
  },
  // sqlite or json. json keeps one file per key under <base_dir>/state.
  "storage": {
    "base_dir": %q,
    "backend": %q
  },
  // language: en or fr, detected from the environment when empty.
  // default_view: tracker or gallery. theme: dark or light.
  "ui": {
    "language": "",
    "default_view": %q,
    "theme": %q
  }
}
`

// InitProjectConfigScaffold 在 dir 下写入带注释的 .bricktrack/config.json，已存在则保留，返回文件路径。
// InitProjectConfigScaffold writes a commented .bricktrack/config.json under dir, keeping an existing one, and returns its path.
func InitProjectConfigScaffold(dir string) (string, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get current working directory: %w", err)
		}
		dir = cwd
	}
	path := filepath.Join(dir, ".bricktrack", "config.json")

	info, err := os.Stat(path)
	switch {
	case err == nil && info.IsDir():
		return "", fmt.Errorf("project config path is a directory: %s", path)
	case err == nil:
		return path, nil
	case !errors.Is(err, os.ErrNotExist):
		return "", fmt.Errorf("stat project config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("mkdir .bricktrack: %w", err)
	}
	def := Default()
	body := fmt.Sprintf(scaffoldTemplate,
		def.AI.Provider, def.AI.InsightModel, def.AI.VisionModel, def.AI.SearchModel,
		def.AI.TimeoutMS, def.AI.InsightTokenBudget,
		def.Storage.BaseDir, def.Storage.Backend,
		def.UI.DefaultView, def.UI.Theme)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return "", fmt.Errorf("write project config: %w", err)
	}
	return path, nil
}
