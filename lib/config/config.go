// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvironmentVariable names the variable Load reads the config path
// from.
const EnvironmentVariable = "BUNDLEVIZ_CONFIG"

// Config is the bundleviz tool configuration.
type Config struct {
	// Profile selects an entry of Profiles to apply over the base
	// values. Empty means no profile.
	Profile string `yaml:"profile"`

	// Diagram is the default diagram type: "plantuml" or "mermaid".
	Diagram string `yaml:"diagram"`

	// Output is the output base path. Sources go to
	// <output>/source/<env>.<ext>, images to <output>_<env>.png.
	Output string `yaml:"output"`

	// Timeout bounds each renderer invocation. Zero disables the bound.
	Timeout Duration `yaml:"timeout"`

	// Bin is an optional directory searched for renderer binaries
	// before PATH.
	Bin string `yaml:"bin"`

	// Renderers configures the external renderers.
	Renderers RenderersConfig `yaml:"renderers"`

	// Profiles contains named overrides. The active profile is applied
	// after the file is loaded.
	Profiles map[string]*Overrides `yaml:"profiles,omitempty"`
}

// RenderersConfig configures the external renderers.
type RenderersConfig struct {
	PlantUML PlantUMLConfig `yaml:"plantuml"`
	Mermaid  MermaidConfig  `yaml:"mermaid"`
}

// PlantUMLConfig configures the PlantUML renderer.
type PlantUMLConfig struct {
	// Binary is the plantuml executable name or path.
	// Default: plantuml
	Binary string `yaml:"binary"`
}

// MermaidConfig configures the Mermaid renderer.
type MermaidConfig struct {
	// Binary is the mermaid CLI executable name or path.
	// Default: mmdc
	Binary string `yaml:"binary"`

	// Theme is passed to mmdc with -t.
	// Default: dark
	Theme string `yaml:"theme"`
}

// Overrides contains fields that a profile can override. Empty
// strings and nil pointers leave the base value alone.
type Overrides struct {
	Diagram   string           `yaml:"diagram,omitempty"`
	Output    string           `yaml:"output,omitempty"`
	Timeout   *Duration        `yaml:"timeout,omitempty"`
	Bin       string           `yaml:"bin,omitempty"`
	Renderers *RenderersConfig `yaml:"renderers,omitempty"`
}

// Duration is a time.Duration that reads from YAML as a Go duration
// string ("90s", "2m").
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var text string
	if err := node.Decode(&text); err != nil {
		return fmt.Errorf("line %d: duration must be a string: %w", node.Line, err)
	}
	parsed, err := time.ParseDuration(text)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Default returns the default configuration. LoadFile starts from
// these values, and commands use them as-is when no config file is
// given.
func Default() *Config {
	return &Config{
		Diagram: "plantuml",
		Output:  filepath.Join("figures", "dabs_visualization"),
		Timeout: Duration(2 * time.Minute),
		Renderers: RenderersConfig{
			PlantUML: PlantUMLConfig{Binary: "plantuml"},
			Mermaid:  MermaidConfig{Binary: "mmdc", Theme: "dark"},
		},
	}
}

// Load loads configuration from the path in BUNDLEVIZ_CONFIG. When the
// variable is unset, Load returns Default().
func Load() (*Config, error) {
	configPath := os.Getenv(EnvironmentVariable)
	if configPath == "" {
		return Default(), nil
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path, applies the
// active profile, and expands ${VAR} references in path fields.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}

	if err := cfg.applyProfileOverrides(); err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}

	cfg.expandVariables()

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, c)
}

func (c *Config) applyProfileOverrides() error {
	if c.Profile == "" {
		return nil
	}
	overrides, ok := c.Profiles[c.Profile]
	if !ok {
		return fmt.Errorf("profile %q is not defined", c.Profile)
	}
	if overrides == nil {
		return nil
	}

	if overrides.Diagram != "" {
		c.Diagram = overrides.Diagram
	}
	if overrides.Output != "" {
		c.Output = overrides.Output
	}
	if overrides.Timeout != nil {
		c.Timeout = *overrides.Timeout
	}
	if overrides.Bin != "" {
		c.Bin = overrides.Bin
	}
	if overrides.Renderers != nil {
		if overrides.Renderers.PlantUML.Binary != "" {
			c.Renderers.PlantUML.Binary = overrides.Renderers.PlantUML.Binary
		}
		if overrides.Renderers.Mermaid.Binary != "" {
			c.Renderers.Mermaid.Binary = overrides.Renderers.Mermaid.Binary
		}
		if overrides.Renderers.Mermaid.Theme != "" {
			c.Renderers.Mermaid.Theme = overrides.Renderers.Mermaid.Theme
		}
	}
	return nil
}

func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}

	c.Output = expandVars(c.Output, vars)
	c.Bin = expandVars(c.Bin, vars)
	c.Renderers.PlantUML.Binary = expandVars(c.Renderers.PlantUML.Binary, vars)
	c.Renderers.Mermaid.Binary = expandVars(c.Renderers.Mermaid.Binary, vars)
}

// varPattern matches ${VAR} and ${VAR:-default}.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Diagram != "plantuml" && c.Diagram != "mermaid" {
		errs = append(errs, fmt.Errorf("diagram must be plantuml or mermaid, got %q", c.Diagram))
	}
	if c.Output == "" {
		errs = append(errs, errors.New("output is required"))
	}
	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout must not be negative, got %s", time.Duration(c.Timeout)))
	}
	if c.Renderers.PlantUML.Binary == "" {
		errs = append(errs, errors.New("renderers.plantuml.binary is required"))
	}
	if c.Renderers.Mermaid.Binary == "" {
		errs = append(errs, errors.New("renderers.mermaid.binary is required"))
	}
	if c.Renderers.Mermaid.Theme == "" {
		errs = append(errs, errors.New("renderers.mermaid.theme is required"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// BinaryPath resolves a renderer binary. Names containing a path
// separator are returned as-is. Otherwise Bin is searched first, then
// PATH.
func (c *Config) BinaryPath(name string) (string, error) {
	if filepath.Base(name) != name {
		return name, nil
	}

	if c.Bin != "" {
		binPath := filepath.Join(c.Bin, name)
		if _, err := os.Stat(binPath); err == nil {
			return binPath, nil
		}
	}

	path, err := exec.LookPath(name)
	if err != nil {
		if c.Bin != "" {
			return "", fmt.Errorf("%s not found in %s or PATH", name, c.Bin)
		}
		return "", fmt.Errorf("%s not found in PATH", name)
	}
	return path, nil
}
