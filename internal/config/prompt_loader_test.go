package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writePromptFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write prompt file %s: %v", name, err)
	}
	return path
}

func tailorPromptConfig(systemFile, userFile string) *Config {
	return &Config{
		AI: AIConfig{
			Tailor: OperationAIConfig{
				CustomPrompts: PromptConfig{
					SystemPrompts: SystemPrompts{TailorResumeFile: systemFile},
					UserPrompts:   UserPrompts{TailorResumeFile: userFile},
				},
			},
		},
	}
}

func TestLoadPromptsFromFiles(t *testing.T) {
	tempDir := t.TempDir()
	systemContent := "Test system prompt for tailoring"
	userContent := "Test user prompt template: %s and %s"

	systemFile := writePromptFile(t, tempDir, "system.tailor.md", systemContent)
	userFile := writePromptFile(t, tempDir, "user.tailor.md", userContent)

	cfg := tailorPromptConfig(systemFile, userFile)
	if err := cfg.loadPromptsFromFiles(); err != nil {
		t.Fatalf("loadPromptsFromFiles failed: %v", err)
	}

	loaded := GetPromptsForOperation("tailor")
	if loaded.SystemPrompts.TailorResume != systemContent {
		t.Errorf("loaded system prompt = %q, want %q", loaded.SystemPrompts.TailorResume, systemContent)
	}
	if loaded.UserPrompts.TailorResume != userContent {
		t.Errorf("loaded user prompt = %q, want %q", loaded.UserPrompts.TailorResume, userContent)
	}

	// Loading fills the prompt store without touching the configured paths.
	if cfg.AI.Tailor.CustomPrompts.SystemPrompts.TailorResumeFile != systemFile {
		t.Error("system prompt file path was not preserved")
	}
	if cfg.AI.Tailor.CustomPrompts.UserPrompts.TailorResumeFile != userFile {
		t.Error("user prompt file path was not preserved")
	}
}

func TestValidatePromptFiles(t *testing.T) {
	tempDir := t.TempDir()
	validFile := writePromptFile(t, tempDir, "valid.md", "Valid content")

	cfg := tailorPromptConfig(validFile, "")
	if err := cfg.validatePromptFiles(); err != nil {
		t.Errorf("expected validation to pass for existing file, got: %v", err)
	}

	cfg.AI.Tailor.CustomPrompts.SystemPrompts.TailorResumeFile = filepath.Join(tempDir, "nonexistent.md")
	if err := cfg.validatePromptFiles(); err == nil {
		t.Error("expected validation to fail for missing file")
	}
}

func TestLoadPromptFromFile(t *testing.T) {
	tempDir := t.TempDir()
	cfg := &Config{}

	t.Run("valid file", func(t *testing.T) {
		content := "Test prompt content"
		path := writePromptFile(t, tempDir, "test.md", content)

		got, err := cfg.loadPromptFromFile(path, "system", "tailor")
		if err != nil {
			t.Fatalf("loadPromptFromFile failed: %v", err)
		}
		if got != content {
			t.Errorf("content = %q, want %q", got, content)
		}
	})

	t.Run("empty file", func(t *testing.T) {
		path := writePromptFile(t, tempDir, "empty.md", "")
		if _, err := cfg.loadPromptFromFile(path, "system", "tailor"); err == nil {
			t.Error("expected error for empty file")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		missing := filepath.Join(tempDir, "nonexistent.md")
		if _, err := cfg.loadPromptFromFile(missing, "system", "tailor"); err == nil {
			t.Error("expected error for missing file")
		}
	})
}

func TestPromptFileIntegration(t *testing.T) {
	tempDir := t.TempDir()
	systemPrompt := "Custom system prompt for testing"
	userPrompt := "Custom user prompt: %s %s"

	systemFile := writePromptFile(t, tempDir, "system.md", systemPrompt)
	userFile := writePromptFile(t, tempDir, "user.md", userPrompt)

	cfg := tailorPromptConfig(systemFile, userFile)
	cfg.AI.Provider = "gemini"
	cfg.AI.Model = "test-model"
	cfg.AI.Timeout = 60 * time.Second
	cfg.AI.APIKey = "test-key"
	cfg.AI.MaxRetries = 3
	cfg.AI.Temperature = 0.7
	cfg.App = AppConfig{
		LogLevel:         "info",
		DefaultFormat:    "json",
		SupportedFormats: []string{"json", "text", "markdown"},
		MaxFileSize:      1024 * 1024,
	}
	cfg.Server = ServerConfig{Host: "localhost", Port: "8080"}

	// Run the same steps the full config load performs.
	cfg.applyFallbacks()
	if err := cfg.validatePromptFiles(); err != nil {
		t.Fatalf("prompt file validation failed: %v", err)
	}
	if err := cfg.loadPromptsFromFiles(); err != nil {
		t.Fatalf("loadPromptsFromFiles failed: %v", err)
	}

	loaded := GetPromptsForOperation("tailor")
	if loaded.SystemPrompts.TailorResume != systemPrompt {
		t.Errorf("system prompt = %q, want %q", loaded.SystemPrompts.TailorResume, systemPrompt)
	}
	if loaded.UserPrompts.TailorResume != userPrompt {
		t.Errorf("user prompt = %q, want %q", loaded.UserPrompts.TailorResume, userPrompt)
	}

	if cfg.AI.Tailor.CustomPrompts.SystemPrompts.TailorResumeFile != systemFile {
		t.Error("system prompt file path was not preserved")
	}
	if cfg.AI.Tailor.CustomPrompts.UserPrompts.TailorResumeFile != userFile {
		t.Error("user prompt file path was not preserved")
	}
}
