package gateway

import (
	"strings"
	"sync"
	"unicode/utf8"

	tiktoken "github.com/pkoukk/tiktoken-go"
)

// Tokenizer 统计洞察提示词的 token 数 / Tokenizer counts tokens of insight prompts
//
// Without BPE data (offline, or an unknown encoding) it estimates instead.
type Tokenizer struct {
	mu       sync.Mutex
	encoder  *tiktoken.Tiktoken
	encoding string
}

// NewTokenizer 加载 encoding，失败时退回估算 / NewTokenizer loads encoding, estimating when that fails
func NewTokenizer(encoding string) *Tokenizer {
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return &Tokenizer{encoding: "estimate"}
	}
	return &Tokenizer{encoder: enc, encoding: encoding}
}

// NewHeuristicTokenizer 从不加载 BPE / NewHeuristicTokenizer never loads BPE data
func NewHeuristicTokenizer() *Tokenizer {
	return &Tokenizer{encoding: "estimate"}
}

// NewTokenizerForModel 按模型名选择 encoding / NewTokenizerForModel picks the encoding for a model name
func NewTokenizerForModel(model string) *Tokenizer {
	return NewTokenizer(modelToEncoding(model))
}

// CountText 返回 text 的 token 数 / CountText returns the token count of text
func (t *Tokenizer) CountText(text string) int {
	if text == "" {
		return 0
	}
	if t.encoder == nil {
		return estimateTokens(text)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.encoder.Encode(text, nil, nil))
}

// IsPrecise 是否使用 BPE 计数 / IsPrecise reports whether counts come from BPE data
func (t *Tokenizer) IsPrecise() bool { return t.encoder != nil }

func (t *Tokenizer) EncodingName() string { return t.encoding }

// estimateTokens approximates BPE counts for the JSON set summaries: about
// four characters per token, and JSON punctuation splits into its own token.
func estimateTokens(text string) int {
	punct := 0
	for _, r := range text {
		if strings.ContainsRune(`{}[]":,`, r) {
			punct++
		}
	}
	n := (utf8.RuneCountInString(text)-punct+3)/4 + punct
	if n < 1 {
		n = 1
	}
	return n
}

// modelToEncoding maps an insight model onto a tiktoken encoding. Gemini
// publishes no BPE; cl100k_base is close enough for a prompt budget.
func modelToEncoding(model string) string {
	m := strings.ToLower(strings.TrimSpace(model))
	for _, prefix := range []string{"gpt-4o", "gpt-4.1", "gpt-5", "chatgpt-4o", "o1", "o3", "o4"} {
		if strings.HasPrefix(m, prefix) {
			return "o200k_base"
		}
	}
	return "cl100k_base"
}
