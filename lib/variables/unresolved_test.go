// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package variables

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/bureau-foundation/bundleviz/lib/bundle"
	"github.com/bureau-foundation/bundleviz/lib/ordered"
)

func TestUnresolved(t *testing.T) {
	t.Parallel()

	value, err := ordered.Decode([]byte(`
resources:
  jobs:
    etl:
      name: ${var.env_name} etl
      tags:
        owner: ${var.owner}
        stage: ${var.env_name}
      tasks:
        - task_key: load
          notebook_task:
            notebook_path: ${workspace.file_path}/load
            base_parameters:
              upstream: ${resources.jobs.ingest.id}
              catalog: ${var.catalog.name}
`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	got, err := Unresolved(value)
	if err != nil {
		t.Fatalf("Unresolved: %v", err)
	}
	want := []string{"${var.catalog.name}", "${var.env_name}", "${var.owner}"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Unresolved mismatch (-want +got):\n%s", diff)
	}
}

func TestUnresolvedAfterResolve(t *testing.T) {
	t.Parallel()

	resources, err := ordered.Decode([]byte(`
jobs:
  etl:
    name: ${var.declared} and ${var.undeclared}
`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	tree := bundle.NewTree()
	tree.Add(&bundle.Fragment{Path: "jobs.yml", Resources: resources.(*ordered.Map)})

	declared := []bundle.VariableDefinition{{Name: "declared", Default: "x", HasDefault: true}}
	resolved, err := Resolve(tree, declared, &bundle.Target{Name: "dev", Body: ordered.NewMap()})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	got, err := Unresolved(resolved.Tree)
	if err != nil {
		t.Fatalf("Unresolved: %v", err)
	}
	if diff := cmp.Diff([]string{"${var.undeclared}"}, got); diff != "" {
		t.Errorf("Unresolved mismatch (-want +got):\n%s", diff)
	}
}

func TestClassifySeparatesResidualTokens(t *testing.T) {
	t.Parallel()

	tree := bundle.NewTree()
	tree.Add(&bundle.Fragment{Path: "jobs.yml", Resources: decodeMap(t, `
jobs:
  etl:
    name: ${var.alias} ${var.missing}
`)})
	declared := []bundle.VariableDefinition{
		{Name: "alias", Default: "${var.catalog}", HasDefault: true},
		{Name: "catalog", Default: "main", HasDefault: true},
	}
	resolved, err := Resolve(tree, declared, &bundle.Target{Name: "dev", Body: ordered.NewMap()})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	tokens, err := Unresolved(resolved.Tree)
	if err != nil {
		t.Fatalf("Unresolved: %v", err)
	}
	undeclared, residual := Classify(tokens, declared)
	if diff := cmp.Diff([]string{"${var.missing}"}, undeclared); diff != "" {
		t.Errorf("undeclared mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"${var.catalog}"}, residual); diff != "" {
		t.Errorf("residual mismatch (-want +got):\n%s", diff)
	}
}
