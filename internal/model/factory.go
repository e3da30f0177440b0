package model

import (
	"strings"

	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/windlant/mcp-toolbridge/internal/config"
	"github.com/windlant/mcp-toolbridge/internal/errs"
)

// New builds the backend selected by cfg.Model.Provider.
func New(cfg *config.Config) (Model, error) {
	if cfg.APIKey == "" {
		return nil, errs.Config("model API key is required")
	}
	switch strings.ToLower(cfg.Model.Provider) {
	case config.ProviderAnthropic:
		var opts []option.RequestOption
		if cfg.Model.BaseURL != "" {
			opts = append(opts, option.WithBaseURL(cfg.Model.BaseURL))
		}
		return NewAnthropicModel(cfg.APIKey, opts...), nil
	case config.ProviderDeepSeek:
		base := cfg.Model.BaseURL
		if base == "" {
			base = DeepSeekBaseURL
		}
		return NewOpenAIModel(cfg.APIKey, base), nil
	case config.ProviderOpenAI:
		return NewOpenAIModel(cfg.APIKey, cfg.Model.BaseURL), nil
	default:
		return nil, errs.Config("unknown model provider %q", cfg.Model.Provider)
	}
}
