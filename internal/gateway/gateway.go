// Package gateway wraps the AI service behind three best-effort operations.
//
// None of them return an error: insight degrades to a localized fallback
// message, identification and search degrade to nil. Callers decide whether
// to merge a result into a draft; the gateway never touches stored sets.
package gateway

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"bricktrack/internal/i18n"
	"bricktrack/internal/logging"
	"bricktrack/internal/model"

	"go.uber.org/zap"
)

// IdentifyPrompt is sent along with a box photo.
const IdentifyPrompt = "Identify this Lego set. Return a JSON object with 'name', 'setNumber', 'totalPieces', 'totalBags', and 'theme'."

// searchPrompt asks for the set details and a box image for query.
func searchPrompt(query string) string {
	return fmt.Sprintf("Find the official name, set number, piece count, number of numbered bags, and theme for Lego set %q. "+
		"IMPORTANT: Also find a direct high-quality URL for the set's main box image (usually from lego.com or brickset). "+
		"Return the details as a JSON object with 'name', 'setNumber', 'totalPieces', 'totalBags', 'theme' and 'imageUrl'.", query)
}

// Options configures a Gateway. A nil Backend disables AI: every call
// returns its fallback immediately.
type Options struct {
	Backend     Backend
	Timeout     time.Duration
	TokenBudget int
	// Tokenizer defaults to a tiktoken encoder for TokenizerModel, built on first use.
	Tokenizer      *Tokenizer
	TokenizerModel string
	Logger         *zap.Logger
}

type Gateway struct {
	backend  Backend
	timeout  time.Duration
	budget   int
	tokModel string
	log      *zap.Logger

	tokOnce sync.Once
	tok     *Tokenizer
}

func New(opts Options) *Gateway {
	g := &Gateway{
		backend:  opts.Backend,
		timeout:  opts.Timeout,
		budget:   opts.TokenBudget,
		tokModel: opts.TokenizerModel,
		tok:      opts.Tokenizer,
		log:      logging.OrNop(opts.Logger),
	}
	return g
}

// Available reports whether a backend is configured.
func (g *Gateway) Available() bool { return g.backend != nil }

// Provider names the backend, or "none".
func (g *Gateway) Provider() string {
	if g.backend == nil {
		return "none"
	}
	return g.backend.Name()
}

func (g *Gateway) tokenizer() *Tokenizer {
	g.tokOnce.Do(func() {
		if g.tok == nil {
			g.tok = NewTokenizerForModel(g.tokModel)
		}
		g.log.Debug("insight tokenizer ready",
			zap.String("encoding", g.tok.EncodingName()),
			zap.Bool("precise", g.tok.IsPrecise()))
	})
	return g.tok
}

func (g *Gateway) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, g.timeout)
}

// GenerateInsight asks for a narrative about the user's building pace in
// lang. Any failure yields the localized fallback text.
func (g *Gateway) GenerateInsight(ctx context.Context, sets []model.Set, lang string) string {
	msgs := i18n.New(lang)
	if g.backend == nil {
		return msgs.T("insight.error")
	}

	summary, dropped := fitBudget(Summarize(sets), g.tokenizer(), g.budget)
	if dropped > 0 {
		g.log.Info("insight summary trimmed to budget", zap.Int("dropped", dropped), zap.Int("budget", g.budget))
	}
	prompt := msgs.T("insight.prompt", summary)

	ctx, cancel := g.withTimeout(ctx)
	defer cancel()
	start := time.Now()
	text, err := g.backend.Generate(ctx, prompt)
	if err != nil {
		g.log.Error("insight failed", zap.String("provider", g.backend.Name()), zap.Error(err))
		return msgs.T("insight.error")
	}
	g.log.Info("insight generated", zap.Int("sets", len(sets)), zap.Duration("took", time.Since(start)))
	if strings.TrimSpace(text) == "" {
		return msgs.T("insight.fallback")
	}
	return text
}

// IdentifyFromImage extracts draft fields from a box photo. mimeType is
// sniffed from the bytes when empty. It returns nil on any failure.
func (g *Gateway) IdentifyFromImage(ctx context.Context, image []byte, mimeType string) *model.Draft {
	if g.backend == nil || len(image) == 0 {
		return nil
	}
	if strings.TrimSpace(mimeType) == "" {
		mimeType = http.DetectContentType(image)
	}

	ctx, cancel := g.withTimeout(ctx)
	defer cancel()
	text, err := g.backend.Identify(ctx, IdentifyPrompt, image, mimeType)
	if err != nil {
		g.log.Error("identification failed", zap.String("provider", g.backend.Name()), zap.Error(err))
		return nil
	}
	draft, err := parseDraft(text)
	if err != nil {
		g.log.Warn("identification reply unusable", zap.Error(err), zap.Int("len", len(text)))
		return nil
	}
	return &draft
}

// SearchByQuery looks a set up by name or number. It returns nil for a
// blank query and on any failure.
func (g *Gateway) SearchByQuery(ctx context.Context, query string) *model.SearchResult {
	query = strings.TrimSpace(query)
	if g.backend == nil || query == "" {
		return nil
	}

	ctx, cancel := g.withTimeout(ctx)
	defer cancel()
	text, sources, err := g.backend.Search(ctx, searchPrompt(query))
	if err != nil {
		g.log.Error("search failed", zap.String("provider", g.backend.Name()), zap.String("query", query), zap.Error(err))
		return nil
	}
	draft, err := parseDraft(text)
	if err != nil {
		g.log.Warn("search reply unusable", zap.String("query", query), zap.Error(err))
		return nil
	}
	if sources == nil {
		sources = []model.Citation{}
	}
	return &model.SearchResult{Draft: draft, Sources: sources}
}
