// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package variables

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/bureau-foundation/bundleviz/lib/bundle"
	"github.com/bureau-foundation/bundleviz/lib/ordered"
	"github.com/bureau-foundation/bundleviz/lib/testutil"
)

func decodeMap(t *testing.T, text string) *ordered.Map {
	t.Helper()
	value, err := ordered.Decode([]byte(text))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	m, ok := value.(*ordered.Map)
	if !ok {
		t.Fatalf("Decode(%q) = %T, want *ordered.Map", text, value)
	}
	return m
}

func TestResolveTablePrecedence(t *testing.T) {
	t.Parallel()

	declared := []bundle.VariableDefinition{
		{Name: "overridden", Default: "default", HasDefault: true},
		{Name: "defaulted", Default: "fallback", HasDefault: true},
		{Name: "missing"},
		{Name: "null_override", Default: "kept", HasDefault: true},
		{Name: "null_default", Default: nil, HasDefault: true},
		{Name: "templated", Default: "${bundle.target}_${workspace.current_user.userName}", HasDefault: true},
	}
	target := &bundle.Target{Name: "prod", Body: decodeMap(t, `
variables:
  overridden: from_target
  null_override: null
`)}

	table := ResolveTable(declared, target, BaseReplacements(target.Name))
	want := []Replacement{
		{Placeholder: "${var.overridden}", Value: "from_target"},
		{Placeholder: "${var.defaulted}", Value: "fallback"},
		{Placeholder: "${var.missing}", Value: AbsentMarker},
		{Placeholder: "${var.null_override}", Value: "kept"},
		{Placeholder: "${var.null_default}", Value: AbsentMarker},
		{Placeholder: "${var.templated}", Value: "prod_[CURRENT USER]"},
	}
	if diff := cmp.Diff(want, table.Entries()); diff != "" {
		t.Errorf("ResolveTable mismatch (-want +got):\n%s", diff)
	}
}

func TestStringify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"nil", nil, "None"},
		{"string", "abc", "abc"},
		{"bool", true, "true"},
		{"false", false, "false"},
		{"whole float", 4.0, "4.0"},
		{"integer", int64(7), "7"},
		{"float", 2.5, "2.5"},
		{"list", []any{"a", "b"}, `["a","b"]`},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			if got := Stringify(test.value); got != test.want {
				t.Errorf("Stringify(%#v) = %q, want %q", test.value, got, test.want)
			}
		})
	}
}

func TestApplySinglePass(t *testing.T) {
	t.Parallel()

	table := NewTable()
	table.Set("${var.a}", "${var.b}")
	table.Set("${var.b}", "final")

	got := table.Apply("a=${var.a} b=${var.b} c=${var.c}")
	want := "a=${var.b} b=final c=${var.c}"
	if got != want {
		t.Errorf("Apply = %q, want %q", got, want)
	}
}

func TestApplyLongestMatchWins(t *testing.T) {
	t.Parallel()

	table := NewTable()
	table.Set("${x", "short")
	table.Set("${x}", "long")

	if got := table.Apply("[${x}]"); got != "[long]" {
		t.Errorf("Apply = %q, want %q", got, "[long]")
	}
}

func TestMergePrefersVariables(t *testing.T) {
	t.Parallel()

	variables := NewTable()
	variables.Set("${var.a}", "1")
	variables.Set(TargetPlaceholder, "shadowed")
	merged := Merge(variables, BaseReplacements("dev"))

	want := []Replacement{
		{Placeholder: "${var.a}", Value: "1"},
		{Placeholder: TargetPlaceholder, Value: "shadowed"},
		{Placeholder: CurrentUserPlaceholder, Value: CurrentUserSentinel},
	}
	if diff := cmp.Diff(want, merged.Entries()); diff != "" {
		t.Errorf("Merge mismatch (-want +got):\n%s", diff)
	}
}

func TestSubstituteEscapesAndRewritesKeys(t *testing.T) {
	t.Parallel()

	table := NewTable()
	table.Set("${var.quote}", `say "hi" \ bye`)
	table.Set(TargetPlaceholder, "dev")

	input := decodeMap(t, `
${bundle.target}_job:
  description: ${var.quote}
  count: 3
  nested:
    - prefix-${bundle.target}
    - ${var.unknown}
`)
	value, err := Substitute(input, table)
	if err != nil {
		t.Fatalf("Substitute: %v", err)
	}
	result := value.(*ordered.Map)

	if diff := cmp.Diff([]string{"dev_job"}, result.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
	job := result.Map("dev_job")
	if got := job.String("description", ""); got != `say "hi" \ bye` {
		t.Errorf("description = %q, want the value verbatim", got)
	}
	if count, _ := job.Get("count"); count != int64(3) {
		t.Errorf("count = %#v, want int64(3)", count)
	}
	if diff := cmp.Diff([]any{"prefix-dev", "${var.unknown}"}, job.List("nested")); diff != "" {
		t.Errorf("nested mismatch (-want +got):\n%s", diff)
	}
	if !input.Has("${bundle.target}_job") {
		t.Error("Substitute modified its input")
	}
}

func TestResolveDevProd(t *testing.T) {
	t.Parallel()

	dir := testutil.WriteBundle(t, map[string]string{
		"databricks.yml": `
bundle:
  name: sales
include:
  - resources/*.yml
variables:
  catalog:
    default: dev_catalog
  owner:
    description: no default
targets:
  dev:
    mode: development
    workspace:
      host: https://dev.example.com
      root_path: /Users/${workspace.current_user.userName}/${bundle.target}
  prod:
    mode: production
    variables:
      catalog: prod_catalog
      owner: data-team
`,
		"resources/etl.yml": `
resources:
  jobs:
    etl:
      name: "[${bundle.target}] etl"
      tasks:
        - task_key: ingest
          notebook_task:
            base_parameters:
              catalog: ${var.catalog}
              owner: ${var.owner}
`,
		"resources/etl_extra.yml": `
resources:
  jobs:
    etl:
      tasks:
        - task_key: publish
          depends_on:
            - task_key: ingest
`,
	})

	logger, _ := testutil.Logger()
	document, fragments, err := bundle.Load(filepath.Join(dir, "databricks.yml"), logger)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	tree := bundle.Merge(fragments...)
	before := ordered.Format(tree.Resources())

	tests := []struct {
		target  string
		name    string
		catalog string
		owner   string
	}{
		{"dev", "[dev] etl", "dev_catalog", AbsentMarker},
		{"prod", "[prod] etl", "prod_catalog", "data-team"},
	}
	for _, test := range tests {
		resolved, err := Resolve(tree, document.Variables, document.Target(test.target))
		if err != nil {
			t.Fatalf("Resolve(%s): %v", test.target, err)
		}
		job := resolved.Tree.Job("etl")
		if job.Name != test.name {
			t.Errorf("%s: job name = %q, want %q", test.target, job.Name, test.name)
		}
		if len(job.Tasks) != 2 {
			t.Fatalf("%s: len(tasks) = %d, want 2", test.target, len(job.Tasks))
		}
		parameters := job.Tasks[0].BaseParameters
		if got := parameters.String("catalog", ""); got != test.catalog {
			t.Errorf("%s: catalog = %q, want %q", test.target, got, test.catalog)
		}
		if got := parameters.String("owner", ""); got != test.owner {
			t.Errorf("%s: owner = %q, want %q", test.target, got, test.owner)
		}
	}

	dev, err := Resolve(tree, document.Variables, document.Target("dev"))
	if err != nil {
		t.Fatalf("Resolve(dev): %v", err)
	}
	rootPath := dev.Target.Body.Map("workspace").String("root_path", "")
	if rootPath != "/Users/[CURRENT USER]/dev" {
		t.Errorf("dev root_path = %q, want %q", rootPath, "/Users/[CURRENT USER]/dev")
	}
	if dev.Target.WorkspaceHost() != "https://dev.example.com" {
		t.Errorf("dev host = %q", dev.Target.WorkspaceHost())
	}

	if after := ordered.Format(tree.Resources()); after != before {
		t.Errorf("Resolve modified the merged tree:\nbefore %s\nafter  %s", before, after)
	}
	if got := document.Target("dev").Body.Map("workspace").String("root_path", ""); got == rootPath {
		t.Error("Resolve modified the document's target")
	}
}

func TestResolveKeepsNumericValues(t *testing.T) {
	t.Parallel()

	tree := bundle.NewTree()
	tree.Add(&bundle.Fragment{Path: "jobs.yml", Resources: decodeMap(t, `
jobs:
  j1:
    max: 1.0
    big: 99999999999999999999
    name: ${var.catalog}
  j2:
    limit: .inf
    floor: -.inf
    ratio: .nan
`)})
	target := &bundle.Target{Name: "dev", Body: decodeMap(t, "timeout: .inf\n")}
	declared := []bundle.VariableDefinition{{Name: "catalog", Default: "main", HasDefault: true}}

	resolved, err := Resolve(tree, declared, target)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	j1 := resolved.Tree.Group("jobs").Map("j1")
	if got := j1.String("max", ""); got != "1.0" {
		t.Errorf("max = %q, want 1.0", got)
	}
	if got := j1.String("big", ""); got != "99999999999999999999" {
		t.Errorf("big = %q, want the literal digits", got)
	}
	if got := j1.String("name", ""); got != "main" {
		t.Errorf("name = %q, want main", got)
	}

	j2 := resolved.Tree.Group("jobs").Map("j2")
	for key, want := range map[string]string{"limit": ".inf", "floor": "-.inf", "ratio": ".nan"} {
		value, _ := j2.Get(key)
		if ordered.Kind(value) != "float" || ordered.Format(value) != want {
			t.Errorf("%s = %#v, want float %s", key, value, want)
		}
	}
	if got := resolved.Target.Body.String("timeout", ""); got != ".inf" {
		t.Errorf("target timeout = %q, want .inf", got)
	}
}
