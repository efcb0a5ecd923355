package signal

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/quantfold/fxlab/internal/core"
	"github.com/quantfold/fxlab/internal/llm"
)

const (
	// Candles included in the prompt. More history adds tokens without
	// improving the verdict much.
	promptCandles = 50

	llmSystemPrompt = `You are a forex market analyst. You are given recent OHLCV candles ` +
		`for a currency pair. Reply with a single JSON object and nothing else, using exactly ` +
		`these fields: "trend" ("BULLISH" or "BEARISH"), "confidence" (number in [0,1]), ` +
		`"entry_price", "stop_loss", "target_price", "support", "resistance", "risk_reward" ` +
		`(numbers), "patterns" (array of strings, may be empty). Prices use the same scale ` +
		`as the input candles.`
)

// LLM is a signal source that delegates market analysis to a
// chat-completion provider and validates its structured reply.
type LLM struct {
	provider llm.Provider
	log      *zap.Logger
}

// NewLLM creates an LLM-backed source. A nil logger disables logging.
func NewLLM(provider llm.Provider, log *zap.Logger) *LLM {
	if log == nil {
		log = zap.NewNop()
	}
	return &LLM{provider: provider, log: log.Named("signal.llm")}
}

func (s *LLM) Name() string {
	return "llm"
}

// Evaluate sends the recent candle history to the provider and parses
// the reply. Replies that do not conform to the schema yield
// core.ErrSignalInvalid.
func (s *LLM) Evaluate(ctx context.Context, candles []core.Candle) (*core.Analysis, error) {
	if len(candles) == 0 {
		return nil, nil
	}

	resp, err := s.provider.Chat(ctx, llm.ChatRequest{
		SystemPrompt: llmSystemPrompt,
		Messages: []llm.Message{
			{Role: "user", Content: buildPrompt(candles)},
		},
		MaxTokens:   1024,
		Temperature: 0.2,
		JSONMode:    true,
	})
	if err != nil {
		return nil, err
	}

	analysis, err := parseAnalysis(resp.Content)
	if err != nil {
		return nil, err
	}

	analysis.Symbol = candles[0].Symbol
	analysis.Source = s.Name()
	analysis.GeneratedAt = time.Now().UTC()

	if !analysis.IsValid() {
		return nil, core.WrapError(core.ErrSignalInvalid,
			fmt.Errorf("analysis failed validation: trend=%s confidence=%f", analysis.Trend, analysis.Confidence))
	}

	s.log.Debug("evaluated",
		zap.String("provider", s.provider.Name()),
		zap.String("trend", string(analysis.Trend)),
		zap.Float64("confidence", analysis.Confidence),
	)

	return analysis, nil
}

func buildPrompt(candles []core.Candle) string {
	if len(candles) > promptCandles {
		candles = candles[len(candles)-promptCandles:]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Symbol: %s\nTimeframe: %s\nCandles (time, open, high, low, close, volume):\n",
		candles[0].Symbol, candles[0].Timeframe)
	for _, c := range candles {
		fmt.Fprintf(&b, "%s,%.5f,%.5f,%.5f,%.5f,%d\n",
			c.Time.UTC().Format(time.RFC3339), c.Open, c.High, c.Low, c.Close, c.Volume)
	}
	b.WriteString("\nAnalyze the current market state and reply with the JSON object.")
	return b.String()
}

// parseAnalysis decodes the provider reply, tolerating markdown code
// fences around the JSON object.
func parseAnalysis(content string) (*core.Analysis, error) {
	content = strings.TrimSpace(content)
	if after, ok := strings.CutPrefix(content, "```json"); ok {
		content = after
	} else if after, ok := strings.CutPrefix(content, "```"); ok {
		content = after
	}
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	content = strings.TrimSpace(content)

	var analysis core.Analysis
	if err := json.Unmarshal([]byte(content), &analysis); err != nil {
		return nil, core.WrapError(core.ErrSignalInvalid, fmt.Errorf("decoding reply: %w", err))
	}
	return &analysis, nil
}
