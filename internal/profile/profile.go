// Package profile loads the assistant profile yaml: the persona prepended
// to every prompt and the provider priority order. A missing file falls
// back to built-in defaults so the portal runs without one.
package profile

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPersona is used when no profile file is configured.
const DefaultPersona = "You are the campus information assistant. " +
	"Answer questions about campus events, notices, facilities and services. " +
	"Be concise and factual. If you are not sure, say so and point the " +
	"visitor to the campus office."

// DefaultProviderOrder is the fallback chain when the profile omits one.
var DefaultProviderOrder = []string{"gemini", "groq", "openrouter"}

// Profile is the parsed assistant profile.
type Profile struct {
	Persona   string   `yaml:"persona"`
	Providers []string `yaml:"providers"`
}

// Loader handles loading and parsing of the profile yaml.
type Loader struct {
	filePath string
}

func NewLoader(filePath string) *Loader {
	return &Loader{filePath: filePath}
}

// Load reads and parses the profile file. An empty path returns the
// defaults without touching the filesystem.
func (l *Loader) Load() (Profile, error) {
	if l.filePath == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return Profile{}, fmt.Errorf("failed to read profile file: %w", err)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("failed to parse profile yaml: %w", err)
	}

	if strings.TrimSpace(p.Persona) == "" {
		p.Persona = DefaultPersona
	}
	if len(p.Providers) == 0 {
		p.Providers = append([]string(nil), DefaultProviderOrder...)
	}
	return p, nil
}

// Default returns the built-in profile.
func Default() Profile {
	return Profile{
		Persona:   DefaultPersona,
		Providers: append([]string(nil), DefaultProviderOrder...),
	}
}
