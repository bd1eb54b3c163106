package config

// ConfigInterface is the common shape every config struct in this package
// implements, so a loader can default-and-validate any of them uniformly
// without a type switch.
type ConfigInterface interface {
	// Validate checks if the configuration is valid and returns an error if not.
	Validate() error

	// SetDefaults sets default values for any unset fields.
	SetDefaults()
}

var (
	_ ConfigInterface = (*Config)(nil)
	_ ConfigInterface = (*LLMProviderConfig)(nil)
	_ ConfigInterface = (*ReasoningConfig)(nil)
	_ ConfigInterface = (*AgentConfig)(nil)
)

// applyDefaultsAndValidate runs the standard SetDefaults-then-Validate
// sequence against any ConfigInterface value.
func applyDefaultsAndValidate(c ConfigInterface) error {
	c.SetDefaults()
	return c.Validate()
}
