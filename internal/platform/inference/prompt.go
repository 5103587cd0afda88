package inference

import (
	"embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed prompts/*.yaml
var promptFS embed.FS

// Prompt is a versioned system instruction.
type Prompt struct {
	Name    string `yaml:"name" json:"name"`
	Version string `yaml:"version" json:"version"`
	System  string `yaml:"system" json:"system"`
}

// DefaultGenomePrompt returns the embedded genome interpretation prompt.
func DefaultGenomePrompt() (*Prompt, error) {
	data, err := promptFS.ReadFile("prompts/genome.yaml")
	if err != nil {
		return nil, err
	}
	return ParsePrompt(data)
}

// LoadPrompt reads a prompt file from disk. An empty path returns the
// embedded default.
func LoadPrompt(path string) (*Prompt, error) {
	if path == "" {
		return DefaultGenomePrompt()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prompt: %w", err)
	}
	return ParsePrompt(data)
}

func ParsePrompt(data []byte) (*Prompt, error) {
	var p Prompt
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse prompt: %w", err)
	}
	if strings.TrimSpace(p.System) == "" {
		return nil, fmt.Errorf("prompt %q has no system text", p.Name)
	}
	if p.Version == "" {
		return nil, fmt.Errorf("prompt %q has no version", p.Name)
	}
	return &p, nil
}
