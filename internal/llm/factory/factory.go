// internal/llm/factory/factory.go
package factory

import (
	"fmt"

	"github.com/quantfold/fxlab/internal/config"
	"github.com/quantfold/fxlab/internal/core"
	"github.com/quantfold/fxlab/internal/llm"
	"github.com/quantfold/fxlab/internal/llm/claude"
	"github.com/quantfold/fxlab/internal/llm/openai"
)

// New creates an LLM provider based on configuration.
func New(cfg config.LLMConfig) (llm.Provider, error) {
	switch cfg.Provider {
	case "claude":
		return claude.New(cfg.Claude.APIKey, cfg.Claude.Model)
	case "openai":
		return openai.New(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	default:
		return nil, core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("unknown LLM provider: %s", cfg.Provider))
	}
}
