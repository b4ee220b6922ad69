// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package variables

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/bureau-foundation/bundleviz/lib/bundle"
	"github.com/bureau-foundation/bundleviz/lib/ordered"
)

const (
	// TargetPlaceholder expands to the target name.
	TargetPlaceholder = "${bundle.target}"

	// CurrentUserPlaceholder expands to CurrentUserSentinel.
	CurrentUserPlaceholder = "${workspace.current_user.userName}"

	// CurrentUserSentinel stands in for the deploying user's name.
	CurrentUserSentinel = "[CURRENT USER]"

	// AbsentMarker is the value of a variable with neither an override
	// nor a default.
	AbsentMarker = "None"
)

// Placeholder returns the ${var.NAME} token for a variable.
func Placeholder(name string) string {
	return "${var." + name + "}"
}

// Replacement is one placeholder and the text that replaces it.
type Replacement struct {
	Placeholder string
	Value       string
}

// Table is an ordered set of replacements, at most one per
// placeholder.
type Table struct {
	entries []Replacement
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{}
}

// Set adds a replacement, or changes the value of an existing
// placeholder in place.
func (t *Table) Set(placeholder, value string) {
	for index := range t.entries {
		if t.entries[index].Placeholder == placeholder {
			t.entries[index].Value = value
			return
		}
	}
	t.entries = append(t.entries, Replacement{Placeholder: placeholder, Value: value})
}

// Lookup returns the value for placeholder.
func (t *Table) Lookup(placeholder string) (string, bool) {
	for _, entry := range t.entries {
		if entry.Placeholder == placeholder {
			return entry.Value, true
		}
	}
	return "", false
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.entries)
}

// Entries returns a copy of the entries in order.
func (t *Table) Entries() []Replacement {
	entries := make([]Replacement, len(t.entries))
	copy(entries, t.entries)
	return entries
}

// Apply replaces every placeholder in text in a single left-to-right
// pass. Where two placeholders match at the same position the longer
// one wins.
func (t *Table) Apply(text string) string {
	return t.replacer(func(value string) string { return value }).Replace(text)
}

// ApplyJSON is Apply for text that is a JSON document: each value is
// escaped as the body of a JSON string before insertion.
func (t *Table) ApplyJSON(text string) string {
	return t.replacer(escapeJSON).Replace(text)
}

func (t *Table) replacer(encode func(string) string) *strings.Replacer {
	entries := t.Entries()
	sort.SliceStable(entries, func(i, j int) bool {
		return len(entries[i].Placeholder) > len(entries[j].Placeholder)
	})
	pairs := make([]string, 0, 2*len(entries))
	for _, entry := range entries {
		if entry.Placeholder == "" {
			continue
		}
		pairs = append(pairs, entry.Placeholder, encode(entry.Value))
	}
	return strings.NewReplacer(pairs...)
}

func escapeJSON(value string) string {
	encoded, err := json.Marshal(value)
	if err != nil {
		return value
	}
	return string(encoded[1 : len(encoded)-1])
}

// BaseReplacements returns the fixed placeholders for a target:
// ${bundle.target} and ${workspace.current_user.userName}.
func BaseReplacements(targetName string) *Table {
	table := NewTable()
	table.Set(TargetPlaceholder, targetName)
	table.Set(CurrentUserPlaceholder, CurrentUserSentinel)
	return table
}

// Stringify renders a variable value as replacement text: nil becomes
// AbsentMarker, everything else is formatted with ordered.Format.
// Booleans therefore read true and false, as spelled in the bundle
// YAML, not True and False, and whole floats keep their ".0".
func Stringify(value any) string {
	if value == nil {
		return AbsentMarker
	}
	return ordered.Format(value)
}

// ResolveTable builds the ${var.NAME} entries for a target, one per
// declared variable in declaration order. A non-null target override
// wins over the declared default; with neither, the value is
// AbsentMarker. The base replacements are applied to each value once.
func ResolveTable(declared []bundle.VariableDefinition, target *bundle.Target, base *Table) *Table {
	table := NewTable()
	for _, definition := range declared {
		value, overridden := target.Override(definition.Name)
		if !overridden {
			value = definition.Default
		}
		table.Set(Placeholder(definition.Name), base.Apply(Stringify(value)))
	}
	return table
}

// Merge combines variable entries with base entries into a new table.
// Variable entries come first and win when both define a placeholder.
func Merge(variables, base *Table) *Table {
	merged := NewTable()
	for _, entry := range variables.entries {
		merged.Set(entry.Placeholder, entry.Value)
	}
	for _, entry := range base.entries {
		if _, exists := merged.Lookup(entry.Placeholder); !exists {
			merged.Set(entry.Placeholder, entry.Value)
		}
	}
	return merged
}
