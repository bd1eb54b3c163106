// Package config provides YAML-driven configuration for building an
// Agent, following a SetDefaults()/Validate() pair pattern and
// yaml:"..." tag convention, trimmed to the concerns this module
// actually has: an LLM provider, the ReAct loop's knobs, and an agent's
// name/prompt/formatter choice.
package config

import "fmt"

// LLMProviderConfig configures one model.Adapter: Type ("openai" or
// "anthropic") picks the adapter, Model/APIKey/Host/Timeout go into its
// Config, and Temperature/MaxTokens become the agent's GenerateOptions.
type LLMProviderConfig struct {
	Type        string  `yaml:"type"`
	Model       string  `yaml:"model"`
	APIKey      string  `yaml:"api_key"`
	Host        string  `yaml:"host"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	Timeout     int     `yaml:"timeout"` // seconds
}

func (c *LLMProviderConfig) Validate() error {
	if c.Type == "" {
		return fmt.Errorf("type is required")
	}
	if c.Type != "openai" && c.Type != "anthropic" {
		return fmt.Errorf("type must be one of: openai, anthropic")
	}
	if c.Model == "" {
		return fmt.Errorf("model is required")
	}
	if c.Type == "openai" && c.APIKey == "" {
		return fmt.Errorf("api_key is required for openai")
	}
	if c.Type == "anthropic" && c.APIKey == "" {
		return fmt.Errorf("api_key is required for anthropic")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2")
	}
	if c.MaxTokens < 0 {
		return fmt.Errorf("max_tokens must be non-negative")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative")
	}
	return nil
}

func (c *LLMProviderConfig) SetDefaults() {
	if c.Type == "" {
		c.Type = "openai"
	}
	if c.Host == "" {
		switch c.Type {
		case "anthropic":
			c.Host = "https://api.anthropic.com"
		default:
			c.Host = "https://api.openai.com/v1"
		}
	}
	if c.Model == "" {
		switch c.Type {
		case "anthropic":
			c.Model = "claude-3-5-sonnet-latest"
		default:
			c.Model = "gpt-4o"
		}
	}
	if c.Temperature == 0 {
		c.Temperature = 0.7
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = 2000
	}
	if c.Timeout == 0 {
		c.Timeout = 120
	}
}

// ReasoningConfig configures the react.Executor's loop knobs.
type ReasoningConfig struct {
	MaxIterations int  `yaml:"max_iterations"`
	ParallelTools bool `yaml:"parallel_tools"`
}

func (c *ReasoningConfig) Validate() error {
	if c.MaxIterations < 0 {
		return fmt.Errorf("max_iterations must be non-negative")
	}
	return nil
}

func (c *ReasoningConfig) SetDefaults() {
	if c.MaxIterations == 0 {
		c.MaxIterations = 10
	}
}

// FormatterKind selects which format.Formatter an Agent builds.
type FormatterKind string

const (
	FormatterSingleChat FormatterKind = "single_chat"
	FormatterMultiAgent FormatterKind = "multi_agent"
)

// AgentConfig is the complete description of one agent instance, the
// unit agent.FromConfig consumes.
type AgentConfig struct {
	Name         string          `yaml:"name"`
	Description  string          `yaml:"description,omitempty"`
	Provider     LLMProviderConfig `yaml:"provider"`
	Reasoning    ReasoningConfig   `yaml:"reasoning,omitempty"`
	SystemPrompt string            `yaml:"system_prompt,omitempty"`
	Formatter    FormatterKind     `yaml:"formatter,omitempty"`
}

func (c *AgentConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("name is required")
	}
	if err := c.Provider.Validate(); err != nil {
		return fmt.Errorf("provider: %w", err)
	}
	if err := c.Reasoning.Validate(); err != nil {
		return fmt.Errorf("reasoning: %w", err)
	}
	if c.Formatter != "" && c.Formatter != FormatterSingleChat && c.Formatter != FormatterMultiAgent {
		return fmt.Errorf("formatter must be one of: %s, %s", FormatterSingleChat, FormatterMultiAgent)
	}
	return nil
}

func (c *AgentConfig) SetDefaults() {
	c.Provider.SetDefaults()
	c.Reasoning.SetDefaults()
	if c.Formatter == "" {
		c.Formatter = FormatterSingleChat
	}
}
