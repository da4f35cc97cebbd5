package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// promptFileBinding ties a configured file path to the loaded-prompt slot it
// fills, with labels for log and error messages.
type promptFileBinding struct {
	path       string
	target     *string
	promptType string // "system" or "user"
	scope      string // which config section the path came from
}

// GetLoadedPrompts returns the loaded prompt content in a thread-safe way
func GetLoadedPrompts() *AllLoadedPrompts {
	return &loadedPrompts
}

// promptFileBindings enumerates every configured prompt file slot, global
// scope first so operation overrides land on top.
func (c *Config) promptFileBindings() []promptFileBinding {
	return []promptFileBinding{
		{c.AI.CustomPrompts.SystemPrompts.TailorResumeFile,
			&loadedPrompts.Global.SystemPrompts.TailorResume, "system", "tailorResume"},
		{c.AI.CustomPrompts.UserPrompts.TailorResumeFile,
			&loadedPrompts.Global.UserPrompts.TailorResume, "user", "tailorResume"},
		{c.AI.Tailor.CustomPrompts.SystemPrompts.TailorResumeFile,
			&loadedPrompts.Tailor.SystemPrompts.TailorResume, "tailor system", "tailorResume"},
		{c.AI.Tailor.CustomPrompts.UserPrompts.TailorResumeFile,
			&loadedPrompts.Tailor.UserPrompts.TailorResume, "tailor user", "tailorResume"},
	}
}

// loadPromptsFromFiles reads every configured prompt file into the global
// loaded-prompt store. File paths in the config are left untouched.
func (c *Config) loadPromptsFromFiles() error {
	log.Println("[CONFIG] Starting custom prompt loading from files")

	loadedPromptsOnce.Do(func() {
		loadedPrompts = AllLoadedPrompts{}
	})

	for _, binding := range c.promptFileBindings() {
		if binding.path == "" {
			continue
		}
		content, err := c.loadPromptFromFile(binding.path, binding.promptType, binding.scope)
		if err != nil {
			return fmt.Errorf("failed to load %s prompts: %w", binding.promptType, err)
		}
		*binding.target = content
	}

	c.logPromptLoadingSummary()
	return nil
}

// loadPromptFromFile reads one prompt file, rejecting missing and empty files.
func (c *Config) loadPromptFromFile(filePath, promptType, operation string) (string, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path for %s %s prompt file '%s': %w", promptType, operation, filePath, err)
	}

	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return "", fmt.Errorf("%s %s prompt file not found: %s", promptType, operation, absPath)
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		return "", fmt.Errorf("failed to read %s %s prompt file '%s': %w", promptType, operation, absPath, err)
	}

	trimmed := strings.TrimSpace(string(content))
	if trimmed == "" {
		return "", fmt.Errorf("%s %s prompt file '%s' is empty", promptType, operation, absPath)
	}

	log.Printf("[CONFIG] Successfully loaded %s %s prompt from file: %s (%d characters)",
		promptType, operation, absPath, len(trimmed))
	return trimmed, nil
}

// validatePromptFiles checks that every configured prompt file exists before
// any loading starts, so a bad path fails the whole config load up front.
func (c *Config) validatePromptFiles() error {
	var problems []string

	for _, binding := range c.promptFileBindings() {
		if binding.path == "" {
			continue
		}
		absPath, err := filepath.Abs(binding.path)
		if err != nil {
			problems = append(problems, fmt.Sprintf("invalid path for %s %s prompt: %s",
				binding.promptType, binding.scope, binding.path))
			continue
		}
		if _, err := os.Stat(absPath); os.IsNotExist(err) {
			problems = append(problems, fmt.Sprintf("%s %s prompt file not found: %s",
				binding.promptType, binding.scope, absPath))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("prompt file validation failed:\n%s", strings.Join(problems, "\n"))
	}
	return nil
}

func (c *Config) logPromptLoadingSummary() {
	log.Println("[CONFIG] === Custom Prompt Loading Summary ===")

	loaded := 0
	for _, entry := range []struct {
		content string
		message string
	}{
		{loadedPrompts.Global.SystemPrompts.TailorResume, "[CONFIG] Global system tailor prompt: loaded from config/file"},
		{loadedPrompts.Global.UserPrompts.TailorResume, "[CONFIG] Global user tailor prompt: loaded from config/file"},
		{loadedPrompts.Tailor.SystemPrompts.TailorResume, "[CONFIG] Tailor-specific system prompt: loaded from config/file"},
		{loadedPrompts.Tailor.UserPrompts.TailorResume, "[CONFIG] Tailor-specific user prompt: loaded from config/file"},
	} {
		if entry.content != "" {
			log.Println(entry.message)
			loaded++
		}
	}

	if loaded == 0 {
		log.Println("[CONFIG] No custom prompts loaded - using built-in defaults")
	} else {
		log.Printf("[CONFIG] Total custom prompts loaded: %d", loaded)
	}

	log.Println("[CONFIG] ==========================================")
}
