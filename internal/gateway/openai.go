package gateway

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"bricktrack/internal/model"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIConfig OpenAI 兼容 backend 配置
// OpenAIConfig configures an OpenAI-compatible backend
type OpenAIConfig struct {
	APIKey       string
	BaseURL      string
	InsightModel string
	VisionModel  string
	SearchModel  string
	TimeoutMS    int
}

// OpenAIBackend 使用 go-openai SDK 的 Backend 实现；不支持联网检索，来源列表为空
// OpenAIBackend implements Backend with the go-openai SDK. It has no search
// grounding, so Search answers from model knowledge with no sources.
type OpenAIBackend struct {
	client *openai.Client
	cfg    OpenAIConfig
}

func NewOpenAIBackend(cfg OpenAIConfig) *OpenAIBackend {
	config := openai.DefaultConfig(cfg.APIKey)
	if base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"); base != "" {
		config.BaseURL = base
	}
	httpClient := &http.Client{}
	if cfg.TimeoutMS > 0 {
		httpClient.Timeout = time.Duration(cfg.TimeoutMS) * time.Millisecond
	}
	config.HTTPClient = httpClient

	return &OpenAIBackend{client: openai.NewClientWithConfig(config), cfg: cfg}
}

func (o *OpenAIBackend) Name() string { return "openai" }

func (o *OpenAIBackend) Generate(ctx context.Context, prompt string) (string, error) {
	return o.complete(ctx, openai.ChatCompletionRequest{
		Model: o.cfg.InsightModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
}

func (o *OpenAIBackend) Identify(ctx context.Context, prompt string, image []byte, mimeType string) (string, error) {
	dataURI := "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(image)
	return o.complete(ctx, openai.ChatCompletionRequest{
		Model: o.cfg.VisionModel,
		Messages: []openai.ChatCompletionMessage{{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{Type: openai.ChatMessagePartTypeText, Text: prompt},
				{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{URL: dataURI}},
			},
		}},
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
	})
}

func (o *OpenAIBackend) Search(ctx context.Context, prompt string) (string, []model.Citation, error) {
	text, err := o.complete(ctx, openai.ChatCompletionRequest{
		Model: o.cfg.SearchModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
	})
	if err != nil {
		return "", nil, err
	}
	return text, []model.Citation{}, nil
}

func (o *OpenAIBackend) complete(ctx context.Context, req openai.ChatCompletionRequest) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai chat completion: no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
