package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the single YAML document describing every named agent and
// LLM provider this module's host process might build, matching the
// teacher's single-entry-point Config shape (config/config.go)
// trimmed to this module's scope.
type Config struct {
	Version string                 `yaml:"version,omitempty"`
	LLMs    map[string]LLMProviderConfig `yaml:"llms,omitempty"`
	Agents  map[string]AgentConfig       `yaml:"agents,omitempty"`
}

func (c *Config) Validate() error {
	for name, llm := range c.LLMs {
		if err := llm.Validate(); err != nil {
			return fmt.Errorf("llm %q: %w", name, err)
		}
	}
	for name, a := range c.Agents {
		if err := a.Validate(); err != nil {
			return fmt.Errorf("agent %q: %w", name, err)
		}
	}
	return nil
}

func (c *Config) SetDefaults() {
	if c.LLMs == nil {
		c.LLMs = make(map[string]LLMProviderConfig)
	}
	if c.Agents == nil {
		c.Agents = make(map[string]AgentConfig)
	}
	for name, llm := range c.LLMs {
		llm.SetDefaults()
		c.LLMs[name] = llm
	}
	for name, a := range c.Agents {
		a.SetDefaults()
		c.Agents[name] = a
	}
}

// LoadConfig reads and parses a YAML document from filePath, expanding
// ${VAR}/${VAR:-default}/$VAR references against the process
// environment (and any .env files LoadEnvFiles picked up) before
// defaults are applied.
func LoadConfig(filePath string) (*Config, error) {
	if err := LoadEnvFiles(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", filePath, err)
	}
	return LoadConfigFromString(string(data))
}

// LoadConfigFromString parses a YAML document already in memory,
// applying the same env-expansion and defaulting LoadConfig does.
func LoadConfigFromString(yamlContent string) (*Config, error) {
	var raw map[string]any
	if err := yaml.Unmarshal([]byte(yamlContent), &raw); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}
	expanded := ExpandEnvVarsInData(raw)

	expandedYAML, err := yaml.Marshal(expanded)
	if err != nil {
		return nil, fmt.Errorf("config: re-marshal expanded config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(expandedYAML, &cfg); err != nil {
		return nil, fmt.Errorf("config: decode config: %w", err)
	}
	if err := applyDefaultsAndValidate(&cfg); err != nil {
		return nil, fmt.Errorf("config: invalid config: %w", err)
	}
	return &cfg, nil
}

// GetAgent returns an agent's configuration by name.
func (c *Config) GetAgent(name string) (*AgentConfig, bool) {
	a, ok := c.Agents[name]
	if !ok {
		return nil, false
	}
	return &a, true
}
