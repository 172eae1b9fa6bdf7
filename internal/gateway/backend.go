package gateway

import (
	"context"
	"fmt"

	"bricktrack/internal/config"
	"bricktrack/internal/model"
)

// Backend 一个 AI 服务的最小能力集
// Backend is the minimal surface of one AI service. Implementations return
// raw model text; prompt building and reply parsing live in Gateway.
type Backend interface {
	// Name 返回 provider 名称 / Name returns the provider name
	Name() string

	// Generate 纯文本生成 / Generate answers a text prompt
	Generate(ctx context.Context, prompt string) (string, error)

	// Identify 图片 + 文本，要求 JSON 回复 / Identify answers about an image with JSON
	Identify(ctx context.Context, prompt string, image []byte, mimeType string) (string, error)

	// Search 联网检索并返回 JSON 和来源 / Search answers with JSON plus the sources it used
	Search(ctx context.Context, prompt string) (string, []model.Citation, error)
}

// NewBackend 根据配置创建 backend；没有 API key 时返回 nil
// NewBackend builds the configured backend, or nil when AI is disabled
func NewBackend(ctx context.Context, cfg config.AIConfig) (Backend, error) {
	switch cfg.EffectiveProvider() {
	case config.ProviderNone:
		return nil, nil
	case config.ProviderGemini:
		return NewGeminiBackend(ctx, GeminiConfig{
			APIKey:       cfg.APIKey,
			BaseURL:      cfg.BaseURL,
			InsightModel: cfg.InsightModel,
			VisionModel:  cfg.VisionModel,
			SearchModel:  cfg.SearchModel,
		})
	case config.ProviderOpenAI:
		return NewOpenAIBackend(OpenAIConfig{
			APIKey:       cfg.APIKey,
			BaseURL:      cfg.BaseURL,
			InsightModel: cfg.InsightModel,
			VisionModel:  cfg.VisionModel,
			SearchModel:  cfg.SearchModel,
			TimeoutMS:    cfg.TimeoutMS,
		}), nil
	default:
		return nil, fmt.Errorf("unknown ai provider %q", cfg.Provider)
	}
}
