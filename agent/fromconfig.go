package agent

import (
	"fmt"
	"time"

	"github.com/flowloop/agentkit/config"
	"github.com/flowloop/agentkit/format"
	"github.com/flowloop/agentkit/model"
	"github.com/flowloop/agentkit/model/anthropic"
	"github.com/flowloop/agentkit/model/openai"
)

// FromConfig builds an Agent from a config.AgentConfig, choosing the
// model.Adapter and format.Formatter the config names and layering extra
// Options (typically WithTool calls, since the registry has no YAML
// representation) on top. This is the construction path config.LoadConfig
// feeds into: one YAML document, many named agents, each built the same
// way.
func FromConfig(cfg config.AgentConfig, opts ...Option) (*Agent, error) {
	adapter, err := buildAdapter(cfg.Provider)
	if err != nil {
		return nil, err
	}

	var formatter format.Formatter
	switch cfg.Formatter {
	case config.FormatterMultiAgent:
		formatter = format.NewMultiAgent(cfg.Provider.Type)
	default:
		formatter = format.NewSingleChat(cfg.Provider.Type)
	}

	temperature := cfg.Provider.Temperature
	maxTokens := cfg.Provider.MaxTokens

	base := []Option{
		WithAdapter(adapter),
		WithFormatter(formatter),
		WithSystemPrompt(cfg.SystemPrompt),
		WithMaxIters(cfg.Reasoning.MaxIterations),
		WithParallelTools(cfg.Reasoning.ParallelTools),
		WithGenerateOptions(model.GenerateOptions{
			Temperature: &temperature,
			MaxTokens:   &maxTokens,
		}),
	}
	return New(append(base, opts...)...)
}

func buildAdapter(p config.LLMProviderConfig) (model.Adapter, error) {
	timeout := time.Duration(p.Timeout) * time.Second
	switch p.Type {
	case "anthropic":
		return anthropic.New(anthropic.Config{
			APIKey:  p.APIKey,
			Model:   p.Model,
			Host:    p.Host,
			Timeout: timeout,
		}), nil
	case "openai", "":
		return openai.New(openai.Config{
			APIKey:  p.APIKey,
			Model:   p.Model,
			Host:    p.Host,
			Timeout: timeout,
		}), nil
	default:
		return nil, fmt.Errorf("agent: unknown provider type %q", p.Type)
	}
}
