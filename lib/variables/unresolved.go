// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package variables

import (
	"encoding/json"
	"regexp"
	"sort"

	"github.com/bureau-foundation/bundleviz/lib/bundle"
)

var variableReference = regexp.MustCompile(`\$\{var\.[A-Za-z0-9_.\-]+\}`)

// Unresolved returns the distinct ${var.NAME} tokens still present in
// value, sorted. After Resolve these are either references to
// variables the root document never declared or tokens that a
// replacement value introduced; [Classify] tells them apart. Other
// placeholder namespaces (${resources...}, ${workspace...}) are left
// alone.
func Unresolved(value any) ([]string, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var tokens []string
	for _, match := range variableReference.FindAll(data, -1) {
		token := string(match)
		if seen[token] {
			continue
		}
		seen[token] = true
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)
	return tokens, nil
}

// Classify splits tokens returned by [Unresolved]. undeclared holds
// references to variables missing from declared. residual holds tokens
// of declared variables: they were inserted by another variable's
// value and substitution, being a single pass, does not expand them.
func Classify(tokens []string, declared []bundle.VariableDefinition) (undeclared, residual []string) {
	known := make(map[string]bool, len(declared))
	for _, definition := range declared {
		known[Placeholder(definition.Name)] = true
	}
	for _, token := range tokens {
		if known[token] {
			residual = append(residual, token)
		} else {
			undeclared = append(undeclared, token)
		}
	}
	return undeclared, residual
}
