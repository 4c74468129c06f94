package llm

import (
	"fmt"
	"time"

	"github.com/Harshitk-cp/lide/internal/domain"
)

// Provider constants
const (
	ProviderNone      = "none"
	ProviderOpenAI    = "openai"
	ProviderCerebras  = "cerebras"
	ProviderAnthropic = "anthropic"
	ProviderCodex     = "codex"
	ProviderMock      = "mock"
)

const defaultTimeout = 30 * time.Second

// Options configures a provider. Zero values fall back to the provider's
// defaults.
type Options struct {
	APIKey   string
	BaseURL  string
	Model    string
	CodexBin string
	Timeout  time.Duration
}

func (o Options) timeout() time.Duration {
	if o.Timeout <= 0 {
		return defaultTimeout
	}
	return o.Timeout
}

// NewClient creates an LLM client based on the provider name.
// Returns (nil, nil) for "none" or an empty provider: augmentation is off.
func NewClient(provider string, opts Options) (domain.LLMClient, error) {
	switch provider {
	case "", ProviderNone:
		return nil, nil

	case ProviderOpenAI:
		if opts.APIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required for OpenAI provider")
		}
		return NewOpenAIClient(opts), nil

	case ProviderCerebras:
		if opts.APIKey == "" {
			return nil, fmt.Errorf("CEREBRAS_API_KEY is required for Cerebras provider")
		}
		if opts.BaseURL == "" {
			opts.BaseURL = cerebrasBaseURL
		}
		if opts.Model == "" {
			opts.Model = cerebrasModel
		}
		return NewOpenAIClient(opts), nil

	case ProviderAnthropic:
		if opts.APIKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY is required for Anthropic provider")
		}
		return NewAnthropicClient(opts), nil

	case ProviderCodex:
		return NewCodexClient(opts), nil

	case ProviderMock:
		return NewMockClient(), nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (valid options: none, openai, cerebras, anthropic, codex, mock)", provider)
	}
}
