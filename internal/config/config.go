package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Provider names accepted in ai.provider.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderNone   = "none"
)

type AIConfig struct {
	Provider           string `json:"provider"`
	BaseURL            string `json:"base_url"`
	APIKey             string `json:"api_key"`
	InsightModel       string `json:"insight_model"`
	VisionModel        string `json:"vision_model"`
	SearchModel        string `json:"search_model"`
	TimeoutMS          int    `json:"timeout_ms"`
	InsightTokenBudget int    `json:"insight_token_budget"`
}

type StorageConfig struct {
	BaseDir string `json:"base_dir"`
	// Backend 为 sqlite 或 json / Either sqlite or json
	Backend string `json:"backend"`
}

type UIConfig struct {
	// Language 为空时按环境检测 / Detected from the environment when empty
	Language    string `json:"language"`
	DefaultView string `json:"default_view"`
	Theme       string `json:"theme"`
}

type Config struct {
	AI      AIConfig      `json:"ai"`
	Storage StorageConfig `json:"storage"`
	UI      UIConfig      `json:"ui"`
}

type fileConfig struct {
	AI      *AIConfig      `json:"ai"`
	Storage *StorageConfig `json:"storage"`
	UI      *UIConfig      `json:"ui"`
}

func Default() Config {
	return Config{
		AI: AIConfig{
			Provider:           DefaultProvider,
			InsightModel:       DefaultInsightModel,
			VisionModel:        DefaultVisionModel,
			SearchModel:        DefaultSearchModel,
			TimeoutMS:          DefaultTimeoutMS,
			InsightTokenBudget: DefaultInsightTokenBudget,
		},
		Storage: StorageConfig{
			BaseDir: DefaultBaseDir,
			Backend: DefaultBackend,
		},
		UI: UIConfig{
			DefaultView: DefaultView,
			Theme:       DefaultTheme,
		},
	}
}

// Load 按 默认值 → 全局配置 → 项目配置 → 环境变量 的顺序合并
// Load merges defaults, the global file, the project file and the environment, in that order
func Load(path string) (Config, error) {
	cfg := Default()

	for _, globalPath := range globalConfigPaths() {
		if err := mergeFromFile(&cfg, globalPath); err != nil {
			return Config{}, err
		}
	}

	resolvedPath := strings.TrimSpace(path)
	if envPath := strings.TrimSpace(os.Getenv("BRICKTRACK_CONFIG_PATH")); envPath != "" {
		resolvedPath = envPath
	}
	if resolvedPath == "" {
		resolvedPath = findProjectConfigPath()
	}
	if err := mergeFromFile(&cfg, resolvedPath); err != nil {
		return Config{}, err
	}

	if err := normalize(&cfg); err != nil {
		return Config{}, err
	}
	return applyEnv(cfg)
}

func globalConfigPaths() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return []string{filepath.Join(home, ".bricktrack", "config.json")}
}

func findProjectConfigPath() string {
	candidates := []string{
		"bricktrack.config.json",
		".bricktrack/config.json",
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}

func mergeFromFile(cfg *Config, path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}

	resolved, err := expandPath(path)
	if err != nil {
		return fmt.Errorf("expand config path %q: %w", path, err)
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %q: %w", resolved, err)
	}

	cleaned := stripJSONComments(data)
	var fileCfg fileConfig
	if err := json.Unmarshal(cleaned, &fileCfg); err != nil {
		return fmt.Errorf("parse config %q: %w", resolved, err)
	}
	applyFileConfig(cfg, fileCfg)
	return nil
}

func applyFileConfig(cfg *Config, fc fileConfig) {
	if fc.AI != nil {
		cfg.AI = mergeAI(cfg.AI, *fc.AI)
	}
	if fc.Storage != nil {
		cfg.Storage = mergeStorage(cfg.Storage, *fc.Storage)
	}
	if fc.UI != nil {
		cfg.UI = mergeUI(cfg.UI, *fc.UI)
	}
}

func mergeAI(base AIConfig, override AIConfig) AIConfig {
	if strings.TrimSpace(override.Provider) != "" {
		base.Provider = override.Provider
	}
	if strings.TrimSpace(override.BaseURL) != "" {
		base.BaseURL = override.BaseURL
	}
	if strings.TrimSpace(override.APIKey) != "" {
		base.APIKey = override.APIKey
	}
	if strings.TrimSpace(override.InsightModel) != "" {
		base.InsightModel = override.InsightModel
	}
	if strings.TrimSpace(override.VisionModel) != "" {
		base.VisionModel = override.VisionModel
	}
	if strings.TrimSpace(override.SearchModel) != "" {
		base.SearchModel = override.SearchModel
	}
	if override.TimeoutMS > 0 {
		base.TimeoutMS = override.TimeoutMS
	}
	if override.InsightTokenBudget > 0 {
		base.InsightTokenBudget = override.InsightTokenBudget
	}
	return base
}

func mergeStorage(base StorageConfig, override StorageConfig) StorageConfig {
	if strings.TrimSpace(override.BaseDir) != "" {
		base.BaseDir = override.BaseDir
	}
	if strings.TrimSpace(override.Backend) != "" {
		base.Backend = override.Backend
	}
	return base
}

func mergeUI(base UIConfig, override UIConfig) UIConfig {
	if strings.TrimSpace(override.Language) != "" {
		base.Language = override.Language
	}
	if strings.TrimSpace(override.DefaultView) != "" {
		base.DefaultView = override.DefaultView
	}
	if strings.TrimSpace(override.Theme) != "" {
		base.Theme = override.Theme
	}
	return base
}

func normalize(cfg *Config) error {
	def := Default()

	cfg.AI.Provider = strings.ToLower(strings.TrimSpace(cfg.AI.Provider))
	switch cfg.AI.Provider {
	case ProviderGemini, ProviderOpenAI, ProviderNone:
	case "":
		cfg.AI.Provider = def.AI.Provider
	default:
		return fmt.Errorf("unknown ai.provider %q (want gemini, openai or none)", cfg.AI.Provider)
	}
	cfg.AI.BaseURL = strings.TrimSpace(cfg.AI.BaseURL)
	cfg.AI.APIKey = strings.TrimSpace(cfg.AI.APIKey)
	if cfg.AI.Provider == ProviderOpenAI {
		// OpenAI 兼容服务的默认模型 / Gemini model names mean nothing to an OpenAI-compatible server
		if cfg.AI.BaseURL == "" {
			cfg.AI.BaseURL = DefaultOpenAIBaseURL
		}
		for _, m := range []*string{&cfg.AI.InsightModel, &cfg.AI.VisionModel, &cfg.AI.SearchModel} {
			if strings.HasPrefix(*m, "gemini-") {
				*m = DefaultOpenAIModel
			}
		}
	}
	if strings.TrimSpace(cfg.AI.InsightModel) == "" {
		cfg.AI.InsightModel = def.AI.InsightModel
	}
	if strings.TrimSpace(cfg.AI.VisionModel) == "" {
		cfg.AI.VisionModel = def.AI.VisionModel
	}
	if strings.TrimSpace(cfg.AI.SearchModel) == "" {
		cfg.AI.SearchModel = def.AI.SearchModel
	}
	if cfg.AI.TimeoutMS <= 0 {
		cfg.AI.TimeoutMS = def.AI.TimeoutMS
	}
	if cfg.AI.InsightTokenBudget <= 0 {
		cfg.AI.InsightTokenBudget = def.AI.InsightTokenBudget
	}

	if strings.TrimSpace(cfg.Storage.BaseDir) == "" {
		cfg.Storage.BaseDir = def.Storage.BaseDir
	}
	storageDir, err := expandPath(cfg.Storage.BaseDir)
	if err != nil {
		return err
	}
	cfg.Storage.BaseDir = storageDir
	cfg.Storage.Backend = strings.ToLower(strings.TrimSpace(cfg.Storage.Backend))
	switch cfg.Storage.Backend {
	case "sqlite", "json":
	case "":
		cfg.Storage.Backend = def.Storage.Backend
	default:
		return fmt.Errorf("unknown storage.backend %q (want sqlite or json)", cfg.Storage.Backend)
	}

	cfg.UI.Language = strings.ToLower(strings.TrimSpace(cfg.UI.Language))
	cfg.UI.DefaultView = strings.ToLower(strings.TrimSpace(cfg.UI.DefaultView))
	if cfg.UI.DefaultView != "tracker" && cfg.UI.DefaultView != "gallery" {
		cfg.UI.DefaultView = def.UI.DefaultView
	}
	cfg.UI.Theme = strings.ToLower(strings.TrimSpace(cfg.UI.Theme))
	if cfg.UI.Theme == "" {
		cfg.UI.Theme = def.UI.Theme
	}
	return nil
}

func applyEnv(cfg Config) (Config, error) {
	for _, name := range []string{"BRICKTRACK_API_KEY", "GEMINI_API_KEY", "API_KEY"} {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			cfg.AI.APIKey = v
			break
		}
	}
	if v := strings.TrimSpace(os.Getenv("BRICKTRACK_PROVIDER")); v != "" {
		cfg.AI.Provider = v
	}
	if v := strings.TrimSpace(os.Getenv("BRICKTRACK_BASE_URL")); v != "" {
		cfg.AI.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("BRICKTRACK_MODEL")); v != "" {
		cfg.AI.InsightModel = v
		cfg.AI.VisionModel = v
		cfg.AI.SearchModel = v
	}
	if v := strings.TrimSpace(os.Getenv("BRICKTRACK_TIMEOUT_MS")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("invalid BRICKTRACK_TIMEOUT_MS: %q", v)
		}
		cfg.AI.TimeoutMS = n
	}
	if v := strings.TrimSpace(os.Getenv("BRICKTRACK_DATA_DIR")); v != "" {
		cfg.Storage.BaseDir = v
	}
	if v := strings.TrimSpace(os.Getenv("BRICKTRACK_LANG")); v != "" {
		cfg.UI.Language = v
	}

	return cfg, normalize(&cfg)
}

// EffectiveProvider 没有 API key 时返回 none
// EffectiveProvider is the configured provider, or none when no API key is set
func (c AIConfig) EffectiveProvider() string {
	if strings.TrimSpace(c.APIKey) == "" {
		return ProviderNone
	}
	return c.Provider
}

func expandPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", nil
	}
	if strings.HasPrefix(path, "~/") || path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		if path == "~" {
			path = home
		} else {
			path = filepath.Join(home, strings.TrimPrefix(path, "~/"))
		}
	}
	return filepath.Abs(path)
}

func stripJSONComments(data []byte) []byte {
	const (
		stateNormal = iota
		stateString
		stateLineComment
		stateBlockComment
	)

	state := stateNormal
	escaped := false
	out := bytes.Buffer{}

	for i := 0; i < len(data); i++ {
		c := data[i]
		next := byte(0)
		if i+1 < len(data) {
			next = data[i+1]
		}

		switch state {
		case stateNormal:
			if c == '"' {
				state = stateString
				out.WriteByte(c)
				continue
			}
			if c == '/' && next == '/' {
				state = stateLineComment
				i++
				continue
			}
			if c == '/' && next == '*' {
				state = stateBlockComment
				i++
				continue
			}
			out.WriteByte(c)
		case stateString:
			out.WriteByte(c)
			if escaped {
				escaped = false
				continue
			}
			if c == '\\' {
				escaped = true
				continue
			}
			if c == '"' {
				state = stateNormal
			}
		case stateLineComment:
			if c == '\n' {
				state = stateNormal
				out.WriteByte(c)
			}
		case stateBlockComment:
			if c == '*' && next == '/' {
				state = stateNormal
				i++
			}
		}
	}

	return out.Bytes()
}
