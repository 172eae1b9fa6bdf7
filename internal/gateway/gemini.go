package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bricktrack/internal/model"

	"google.golang.org/genai"
)

// GeminiConfig Gemini backend 配置
// GeminiConfig configures the Gemini backend
type GeminiConfig struct {
	APIKey       string
	BaseURL      string
	InsightModel string
	VisionModel  string
	SearchModel  string
}

// GeminiBackend 使用 google.golang.org/genai 的 Backend 实现
// GeminiBackend implements Backend with google.golang.org/genai
type GeminiBackend struct {
	client *genai.Client
	cfg    GeminiConfig
}

func NewGeminiBackend(ctx context.Context, cfg GeminiConfig) (*GeminiBackend, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("gemini API key is required")
	}
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: base}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GeminiBackend{client: client, cfg: cfg}, nil
}

func (g *GeminiBackend) Name() string { return "gemini" }

func (g *GeminiBackend) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.cfg.InsightModel, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return resp.Text(), nil
}

func (g *GeminiBackend) Identify(ctx context.Context, prompt string, image []byte, mimeType string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(image, mimeType),
			genai.NewPartFromText(prompt),
		}, genai.RoleUser),
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.cfg.VisionModel, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   draftSchema(false),
	})
	if err != nil {
		return "", fmt.Errorf("gemini identify: %w", err)
	}
	return resp.Text(), nil
}

func (g *GeminiBackend) Search(ctx context.Context, prompt string) (string, []model.Citation, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.cfg.SearchModel, genai.Text(prompt), &genai.GenerateContentConfig{
		Tools:            []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
		ResponseMIMEType: "application/json",
		ResponseSchema:   draftSchema(true),
	})
	if err != nil {
		return "", nil, fmt.Errorf("gemini search: %w", err)
	}
	return resp.Text(), groundingCitations(resp), nil
}

// draftSchema 描述 set 草稿的 JSON 结构 / The JSON shape a draft reply must follow
func draftSchema(search bool) *genai.Schema {
	props := map[string]*genai.Schema{
		"name":        {Type: genai.TypeString},
		"setNumber":   {Type: genai.TypeString},
		"totalPieces": {Type: genai.TypeNumber},
		"totalBags":   {Type: genai.TypeNumber},
		"theme":       {Type: genai.TypeString},
	}
	required := []string{"name", "setNumber", "totalPieces", "totalBags"}
	if search {
		props["imageUrl"] = &genai.Schema{Type: genai.TypeString, Description: "URL to the official product image"}
		required = append(required, "theme")
	}
	return &genai.Schema{Type: genai.TypeObject, Properties: props, Required: required}
}

func groundingCitations(resp *genai.GenerateContentResponse) []model.Citation {
	out := []model.Citation{}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return out
	}
	meta := resp.Candidates[0].GroundingMetadata
	if meta == nil {
		return out
	}
	for _, chunk := range meta.GroundingChunks {
		if chunk == nil || chunk.Web == nil {
			continue
		}
		out = append(out, model.Citation{Title: chunk.Web.Title, URI: chunk.Web.URI})
	}
	return out
}
