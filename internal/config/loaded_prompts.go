package config

import (
	"sync"
)

var (
	loadedPrompts     AllLoadedPrompts
	loadedPromptsOnce sync.Once
)

// LoadedSystemPrompts contains system-level instruction text resolved from
// files or inline config.
type LoadedSystemPrompts struct {
	TailorResume string
}

// LoadedUserPrompts contains user-level prompt template text.
type LoadedUserPrompts struct {
	TailorResume string
}

// LoadedPrompts pairs the system and user prompt text for one scope.
type LoadedPrompts struct {
	SystemPrompts LoadedSystemPrompts
	UserPrompts   LoadedUserPrompts
}

// OperationLoadedPrompts is the per-operation view of loaded prompt text.
type OperationLoadedPrompts = LoadedPrompts

// AllLoadedPrompts holds the global fallback prompts plus per-operation
// overrides.
type AllLoadedPrompts struct {
	Global LoadedPrompts
	Tailor OperationLoadedPrompts
}

// GetPromptsForOperation returns a copy of the loaded prompts for an
// operation, falling back to the global scope for unknown operations.
func GetPromptsForOperation(operationType string) OperationLoadedPrompts {
	if operationType == "tailor" {
		return loadedPrompts.Tailor
	}
	return loadedPrompts.Global
}
