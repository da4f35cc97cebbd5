package config

// fallbackString fills dst from src when dst is empty.
func fallbackString(dst *string, src string) {
	if *dst == "" {
		*dst = src
	}
}

// applyOperationDefaults fills unset operation fields from the global AI
// config. Pointer fields distinguish "not set" from explicit zero values.
func (c *Config) applyOperationDefaults(opCfg *OperationAIConfig) {
	fallbackString(&opCfg.Provider, c.AI.Provider)
	fallbackString(&opCfg.Model, c.AI.Model)
	fallbackString(&opCfg.APIKey, c.AI.APIKey)

	if opCfg.Timeout == nil {
		opCfg.Timeout = &c.AI.Timeout
	}
	if opCfg.MaxRetries == nil {
		opCfg.MaxRetries = &c.AI.MaxRetries
	}
	if opCfg.Temperature == nil {
		opCfg.Temperature = &c.AI.Temperature
	}
	if opCfg.RequestsPerMin == nil {
		opCfg.RequestsPerMin = &c.AI.RequestsPerMin
	}
	if opCfg.UseSystemPrompts == nil {
		opCfg.UseSystemPrompts = &c.AI.UseSystemPrompts
	}
}

// GetTailorConfig resolves the tailor operation config against the global AI
// defaults, including prompt text and prompt file paths.
func (c *Config) GetTailorConfig() OperationAIConfig {
	resolved := c.AI.Tailor
	c.applyOperationDefaults(&resolved)

	global := c.AI.CustomPrompts
	prompts := &resolved.CustomPrompts
	fallbackString(&prompts.SystemPrompts.TailorResume, global.SystemPrompts.TailorResume)
	fallbackString(&prompts.UserPrompts.TailorResume, global.UserPrompts.TailorResume)
	fallbackString(&prompts.SystemPrompts.TailorResumeFile, global.SystemPrompts.TailorResumeFile)
	fallbackString(&prompts.UserPrompts.TailorResumeFile, global.UserPrompts.TailorResumeFile)

	return resolved
}

// GetLoadedTailorPrompts returns a copy of the loaded prompts for tailor operation
func (c *Config) GetLoadedTailorPrompts() OperationLoadedPrompts {
	return loadedPrompts.Tailor
}

// GetLoadedGlobalPrompts returns a copy of the loaded global prompts
func (c *Config) GetLoadedGlobalPrompts() LoadedPrompts {
	return loadedPrompts.Global
}
