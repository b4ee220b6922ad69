// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "bundleviz.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return configPath
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Diagram != "plantuml" {
		t.Errorf("expected diagram=plantuml, got %s", cfg.Diagram)
	}
	if cfg.Output != filepath.Join("figures", "dabs_visualization") {
		t.Errorf("expected output=figures/dabs_visualization, got %s", cfg.Output)
	}
	if time.Duration(cfg.Timeout) != 2*time.Minute {
		t.Errorf("expected timeout=2m, got %s", time.Duration(cfg.Timeout))
	}
	if cfg.Renderers.Mermaid.Theme != "dark" {
		t.Errorf("expected mermaid theme=dark, got %s", cfg.Renderers.Mermaid.Theme)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config does not validate: %v", err)
	}
}

func TestLoad_WithoutEnvironmentVariable(t *testing.T) {
	t.Setenv(EnvironmentVariable, "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Renderers.PlantUML.Binary != "plantuml" {
		t.Errorf("expected default plantuml binary, got %s", cfg.Renderers.PlantUML.Binary)
	}
}

func TestLoad_WithEnvironmentVariable(t *testing.T) {
	configPath := writeConfig(t, `
diagram: mermaid
output: out/viz
`)
	t.Setenv(EnvironmentVariable, configPath)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Diagram != "mermaid" {
		t.Errorf("expected diagram=mermaid, got %s", cfg.Diagram)
	}
	if cfg.Output != "out/viz" {
		t.Errorf("expected output=out/viz, got %s", cfg.Output)
	}
}

func TestLoadFile(t *testing.T) {
	configPath := writeConfig(t, `
diagram: mermaid
timeout: 45s
bin: /opt/renderers
renderers:
  plantuml:
    binary: /usr/local/bin/plantuml
  mermaid:
    theme: forest
`)

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.Diagram != "mermaid" {
		t.Errorf("expected diagram=mermaid, got %s", cfg.Diagram)
	}
	if time.Duration(cfg.Timeout) != 45*time.Second {
		t.Errorf("expected timeout=45s, got %s", time.Duration(cfg.Timeout))
	}
	if cfg.Bin != "/opt/renderers" {
		t.Errorf("expected bin=/opt/renderers, got %s", cfg.Bin)
	}
	if cfg.Renderers.PlantUML.Binary != "/usr/local/bin/plantuml" {
		t.Errorf("expected plantuml binary override, got %s", cfg.Renderers.PlantUML.Binary)
	}
	// Unset fields keep their defaults.
	if cfg.Renderers.Mermaid.Binary != "mmdc" {
		t.Errorf("expected mermaid binary=mmdc, got %s", cfg.Renderers.Mermaid.Binary)
	}
	if cfg.Renderers.Mermaid.Theme != "forest" {
		t.Errorf("expected mermaid theme=forest, got %s", cfg.Renderers.Mermaid.Theme)
	}
}

func TestLoadFile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "bad duration",
			content: "timeout: soon\n",
			want:    "invalid duration",
		},
		{
			name:    "undefined profile",
			content: "profile: ci\n",
			want:    `profile "ci" is not defined`,
		},
		{
			name:    "malformed yaml",
			content: "diagram: [unterminated\n",
			want:    "loading config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file, got nil")
	}
}

func TestProfileOverrides(t *testing.T) {
	configPath := writeConfig(t, `
profile: ci
diagram: plantuml
output: figures/local
timeout: 2m
renderers:
  mermaid:
    theme: dark

profiles:
  ci:
    diagram: mermaid
    timeout: 30s
    renderers:
      mermaid:
        binary: /ci/mmdc
  docs:
    output: docs/figures
`)

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.Diagram != "mermaid" {
		t.Errorf("expected diagram=mermaid from profile, got %s", cfg.Diagram)
	}
	if time.Duration(cfg.Timeout) != 30*time.Second {
		t.Errorf("expected timeout=30s from profile, got %s", time.Duration(cfg.Timeout))
	}
	if cfg.Renderers.Mermaid.Binary != "/ci/mmdc" {
		t.Errorf("expected mermaid binary=/ci/mmdc from profile, got %s", cfg.Renderers.Mermaid.Binary)
	}
	// Fields the profile leaves empty keep the base value.
	if cfg.Output != "figures/local" {
		t.Errorf("expected output=figures/local, got %s", cfg.Output)
	}
	if cfg.Renderers.Mermaid.Theme != "dark" {
		t.Errorf("expected theme=dark, got %s", cfg.Renderers.Mermaid.Theme)
	}
}

func TestExpandVariables(t *testing.T) {
	t.Setenv("HOME", "/home/builder")
	t.Setenv("BUNDLEVIZ_TEST_TOOLS", "")

	configPath := writeConfig(t, `
output: ${HOME}/figures/viz
bin: ${BUNDLEVIZ_TEST_TOOLS:-/opt/tools}
`)

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.Output != "/home/builder/figures/viz" {
		t.Errorf("expected output=/home/builder/figures/viz, got %s", cfg.Output)
	}
	if cfg.Bin != "/opt/tools" {
		t.Errorf("expected bin=/opt/tools, got %s", cfg.Bin)
	}
}

func TestExpandVars(t *testing.T) {
	tests := []struct {
		input    string
		vars     map[string]string
		expected string
	}{
		{
			input:    "${HOME}/figures",
			vars:     map[string]string{"HOME": "/home/user"},
			expected: "/home/user/figures",
		},
		{
			input:    "${BUNDLEVIZ_TEST_MISSING:-default}",
			vars:     map[string]string{},
			expected: "default",
		},
		{
			input:    "${PRESENT:-default}",
			vars:     map[string]string{"PRESENT": "value"},
			expected: "value",
		},
		{
			input:    "${A}/${B}",
			vars:     map[string]string{"A": "first", "B": "second"},
			expected: "first/second",
		},
		{
			input:    "no variables here",
			vars:     map[string]string{},
			expected: "no variables here",
		},
	}

	for _, tt := range tests {
		result := expandVars(tt.input, tt.vars)
		if result != tt.expected {
			t.Errorf("expandVars(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name: "unknown diagram",
			modify: func(c *Config) {
				c.Diagram = "graphviz"
			},
			wantErr: true,
		},
		{
			name: "empty output",
			modify: func(c *Config) {
				c.Output = ""
			},
			wantErr: true,
		},
		{
			name: "negative timeout",
			modify: func(c *Config) {
				c.Timeout = Duration(-time.Second)
			},
			wantErr: true,
		},
		{
			name: "zero timeout disables the bound",
			modify: func(c *Config) {
				c.Timeout = 0
			},
			wantErr: false,
		},
		{
			name: "empty mermaid theme",
			modify: func(c *Config) {
				c.Renderers.Mermaid.Theme = ""
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.Diagram = ""
	cfg.Output = ""

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	for _, want := range []string{"diagram must be", "output is required"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}

func TestBinaryPath(t *testing.T) {
	binDir := t.TempDir()
	binary := filepath.Join(binDir, "plantuml")
	if err := os.WriteFile(binary, []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatalf("failed to write binary: %v", err)
	}

	cfg := Default()
	cfg.Bin = binDir

	path, err := cfg.BinaryPath("plantuml")
	if err != nil {
		t.Fatalf("BinaryPath failed: %v", err)
	}
	if path != binary {
		t.Errorf("expected %s, got %s", binary, path)
	}

	if path, err := cfg.BinaryPath("/explicit/mmdc"); err != nil || path != "/explicit/mmdc" {
		t.Errorf("BinaryPath(/explicit/mmdc) = %q, %v", path, err)
	}

	_, err = cfg.BinaryPath("bundleviz-no-such-renderer")
	if err == nil {
		t.Fatal("expected error for missing binary, got nil")
	}
	if !strings.Contains(err.Error(), binDir) {
		t.Errorf("error %q does not mention the bin directory", err)
	}
}
