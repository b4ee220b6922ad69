// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bundle

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"

	"github.com/bureau-foundation/bundleviz/lib/ordered"
)

// DefaultBundleName is used when the root document has no bundle.name.
const DefaultBundleName = "unknown_bundle"

// Document is the parsed root document of a bundle. It is not modified
// after loading.
type Document struct {
	// Name is bundle.name, or DefaultBundleName.
	Name string

	// Include holds the include glob patterns in declaration order.
	Include []string

	// Variables holds the declared variables in declaration order.
	Variables []VariableDefinition

	// Targets holds the deployment targets in declaration order.
	Targets []*Target

	// Path is the absolute path of the root document.
	Path string

	// Dir is the directory containing the root document. Include
	// patterns are resolved against it.
	Dir string
}

// VariableDefinition is a declared bundle variable.
type VariableDefinition struct {
	Name string

	// Default is the declared default value. HasDefault distinguishes
	// an absent default from an explicit null.
	Default    any
	HasDefault bool

	Description string
}

// Target is one deployment environment from the root document's
// targets section. The raw mapping is kept in Body; the accessor
// methods read the fields the visualizer cares about.
type Target struct {
	Name string
	Body *ordered.Map
}

// Mode returns the target's deployment mode, or "unknown".
func (t *Target) Mode() string {
	return t.Body.String("mode", "unknown")
}

// WorkspaceHost returns workspace.host, or "unknown".
func (t *Target) WorkspaceHost() string {
	return t.Body.Map("workspace").String("host", "unknown")
}

// Overrides returns the target's variables mapping, or nil.
func (t *Target) Overrides() *ordered.Map {
	return t.Body.Map("variables")
}

// Override returns the target's override for a variable. The second
// result is false when the target does not override the variable or
// overrides it with null.
func (t *Target) Override(name string) (any, bool) {
	value, exists := t.Overrides().Get(name)
	if !exists || value == nil {
		return nil, false
	}
	return value, true
}

// IsDefault reports whether the target is marked default: true.
func (t *Target) IsDefault() bool {
	value, _ := t.Body.Get("default")
	marked, _ := value.(bool)
	return marked
}

// Target returns the target with the given name, or nil.
func (d *Document) Target(name string) *Target {
	for _, target := range d.Targets {
		if target.Name == name {
			return target
		}
	}
	return nil
}

// TargetNames returns the target names in declaration order.
func (d *Document) TargetNames() []string {
	names := make([]string, len(d.Targets))
	for index, target := range d.Targets {
		names[index] = target.Name
	}
	return names
}

// LoadDocument reads and parses the root document at path. Any failure
// is returned as a *ConfigLoadError.
func LoadDocument(path string) (*Document, error) {
	absolute, err := filepath.Abs(path)
	if err != nil {
		return nil, &ConfigLoadError{Path: path, Err: err}
	}
	data, err := os.ReadFile(absolute)
	if err != nil {
		return nil, &ConfigLoadError{Path: path, Err: err}
	}
	value, err := decodeFile(absolute, data)
	if err != nil {
		return nil, &ConfigLoadError{Path: path, Err: err}
	}
	document, err := ParseDocument(value)
	if err != nil {
		return nil, &ConfigLoadError{Path: path, Err: err}
	}
	document.Path = absolute
	document.Dir = filepath.Dir(absolute)
	return document, nil
}

// ParseDocument interprets a decoded root document. Path and Dir are
// left empty.
func ParseDocument(value any) (*Document, error) {
	if value == nil {
		return nil, errors.New("document is empty")
	}
	root, ok := value.(*ordered.Map)
	if !ok {
		return nil, fmt.Errorf("document must be a mapping, got %s", ordered.Kind(value))
	}

	document := &Document{
		Name: root.Map("bundle").String("name", DefaultBundleName),
	}

	include, err := parseInclude(root)
	if err != nil {
		return nil, err
	}
	document.Include = include

	if variables, exists := root.Get("variables"); exists && variables != nil {
		declared, ok := variables.(*ordered.Map)
		if !ok {
			return nil, fmt.Errorf("variables must be a mapping, got %s", ordered.Kind(variables))
		}
		for name, declaration := range declared.All() {
			document.Variables = append(document.Variables, parseVariable(name, declaration))
		}
	}

	if targets, exists := root.Get("targets"); exists && targets != nil {
		declared, ok := targets.(*ordered.Map)
		if !ok {
			return nil, fmt.Errorf("targets must be a mapping, got %s", ordered.Kind(targets))
		}
		for name, body := range declared.All() {
			switch typed := body.(type) {
			case nil:
				document.Targets = append(document.Targets, &Target{Name: name, Body: ordered.NewMap()})
			case *ordered.Map:
				document.Targets = append(document.Targets, &Target{Name: name, Body: typed})
			default:
				return nil, fmt.Errorf("target %q must be a mapping, got %s", name, ordered.Kind(body))
			}
		}
	}

	return document, nil
}

func parseInclude(root *ordered.Map) ([]string, error) {
	value, exists := root.Get("include")
	if !exists || value == nil {
		return nil, nil
	}
	switch typed := value.(type) {
	case string:
		return []string{typed}, nil
	case []any:
		patterns := make([]string, 0, len(typed))
		for index, element := range typed {
			pattern, ok := element.(string)
			if !ok {
				return nil, fmt.Errorf("include[%d] must be a string, got %s", index, ordered.Kind(element))
			}
			patterns = append(patterns, pattern)
		}
		return patterns, nil
	default:
		return nil, fmt.Errorf("include must be a list of patterns, got %s", ordered.Kind(value))
	}
}

// parseVariable accepts the full form {default: ..., description: ...}
// and a bare scalar, which is taken as the default.
func parseVariable(name string, declaration any) VariableDefinition {
	definition := VariableDefinition{Name: name}
	switch typed := declaration.(type) {
	case nil:
	case *ordered.Map:
		definition.Default, definition.HasDefault = typed.Get("default")
		definition.Description = typed.String("description", "")
	default:
		definition.Default = typed
		definition.HasDefault = true
	}
	return definition
}

// decodeFile parses a bundle file by extension: .json and .jsonc are
// stripped of comments and trailing commas first, everything else is
// parsed as YAML.
func decodeFile(path string, data []byte) (any, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		data = jsonc.ToJSON(data)
	}
	return ordered.Decode(data)
}
