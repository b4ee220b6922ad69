// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package variables

import (
	"fmt"

	"github.com/bureau-foundation/bundleviz/lib/bundle"
	"github.com/bureau-foundation/bundleviz/lib/ordered"
)

// Resolved is a target and resource tree with every known placeholder
// substituted.
type Resolved struct {
	TargetName string

	// Target is a resolved copy of the target; the document's target
	// is not modified.
	Target *bundle.Target

	// Tree is a resolved copy of the merged tree.
	Tree *bundle.Tree

	// Table is the merged replacement table that was applied.
	Table *Table
}

// Substitute serializes value with ordered.Serialize, applies the
// table to the text, and parses the result back into a value tree.
func Substitute(value any, table *Table) (any, error) {
	data, err := ordered.Serialize(value)
	if err != nil {
		return nil, fmt.Errorf("serializing for substitution: %w", err)
	}
	substituted := table.ApplyJSON(string(data))
	result, err := ordered.Decode([]byte(substituted))
	if err != nil {
		return nil, fmt.Errorf("parsing substituted document: %w", err)
	}
	return result, nil
}

// Resolve substitutes the variables of one target into copies of the
// target body and the merged tree.
func Resolve(tree *bundle.Tree, declared []bundle.VariableDefinition, target *bundle.Target) (*Resolved, error) {
	base := BaseReplacements(target.Name)
	table := Merge(ResolveTable(declared, target, base), base)

	body, err := Substitute(target.Body, table)
	if err != nil {
		return nil, fmt.Errorf("target %q: %w", target.Name, err)
	}
	resolvedBody, ok := body.(*ordered.Map)
	if !ok {
		return nil, fmt.Errorf("target %q: substituted body is a %s, not a mapping", target.Name, ordered.Kind(body))
	}

	resources, err := Substitute(tree.Resources(), table)
	if err != nil {
		return nil, fmt.Errorf("target %q resources: %w", target.Name, err)
	}
	resolvedTree, err := bundle.TreeFromValue(resources)
	if err != nil {
		return nil, fmt.Errorf("target %q resources: %w", target.Name, err)
	}

	return &Resolved{
		TargetName: target.Name,
		Target:     &bundle.Target{Name: target.Name, Body: resolvedBody},
		Tree:       resolvedTree,
		Table:      table,
	}, nil
}
