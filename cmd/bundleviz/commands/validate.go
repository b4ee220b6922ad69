// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/bundleviz/cmd/bundleviz/cli"
	"github.com/bureau-foundation/bundleviz/lib/bundle"
	"github.com/bureau-foundation/bundleviz/lib/driver"
	"github.com/bureau-foundation/bundleviz/lib/ordered"
	"github.com/bureau-foundation/bundleviz/lib/variables"
)

type validateParams struct {
	bundleParams
	cli.JSONOutput
}

type validateReport struct {
	Bundle            string              `json:"bundle"`
	Root              string              `json:"root"`
	Fragments         []fragmentReport    `json:"fragments"`
	Targets           []string            `json:"targets"`
	Resources         []resourceCount     `json:"resources"`
	Jobs              int                 `json:"jobs"`
	DuplicateTaskKeys []duplicateReport   `json:"duplicate_task_keys"`
	Unresolved        []unresolvedReport  `json:"unresolved_variables"`
	Residual          []unresolvedReport  `json:"residual_placeholders"`
	ResolveErrors     []resolveErrorEntry `json:"resolve_errors"`
	Problems          int                 `json:"problems"`
}

type fragmentReport struct {
	Path      string `json:"path"`
	Status    string `json:"status"`
	Resources int    `json:"resources"`
	Error     string `json:"error,omitempty"`
}

type resourceCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

type duplicateReport struct {
	Job     string `json:"job"`
	TaskKey string `json:"task_key"`
	Count   int    `json:"count"`
}

type unresolvedReport struct {
	Target     string   `json:"target"`
	References []string `json:"references"`
}

type resolveErrorEntry struct {
	Target string `json:"target"`
	Error  string `json:"error"`
}

func validateCommand(out streams) *cli.Command {
	var params validateParams
	return &cli.Command{
		Name:    "validate",
		Summary: "Check a bundle for loading and merge problems",
		Description: `Check a bundle for loading and merge problems.

Loads the root document and every included fragment, merges them, and
resolves each target. Reports fragments that could not be loaded, task
keys that occur more than once in a merged job, and ${var.NAME}
references to variables the root document does not declare. Tokens of
declared variables that another variable's value leaves behind are
listed separately and are not problems, since substitution is a single
pass. Exits 1 when any problem is found.`,
		Usage: "bundleviz validate [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("validate", &params)
		},
		Run: func(_ context.Context, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument %q", args[0])
			}
			return runValidate(&params, out)
		},
	}
}

func runValidate(params *validateParams, out streams) error {
	logger := out.newLogger(params.Verbose).With("command", "validate")

	document, err := bundle.LoadDocument(params.Input)
	if err != nil {
		return err
	}

	report := validateReport{Bundle: document.Name, Root: document.Path}

	var fragments []*bundle.Fragment
	for _, path := range bundle.ExpandIncludes(document.Dir, document.Include, logger) {
		fragment, err := bundle.LoadFragment(path)
		entry := fragmentReport{Path: path}
		switch {
		case err != nil:
			entry.Status = "error"
			entry.Error = err.Error()
			report.Problems++
		case fragment.Resources.Len() == 0:
			entry.Status = "empty"
		default:
			entry.Status = "ok"
			for _, group := range fragment.Resources.All() {
				if resources, ok := group.(*ordered.Map); ok {
					entry.Resources += resources.Len()
				}
			}
			fragments = append(fragments, fragment)
		}
		report.Fragments = append(report.Fragments, entry)
	}

	tree := bundle.Merge(fragments...)
	for _, resourceType := range tree.Types() {
		report.Resources = append(report.Resources, resourceCount{
			Type:  resourceType,
			Count: tree.Group(resourceType).Len(),
		})
	}
	report.Jobs = len(tree.Jobs())
	for _, duplicate := range tree.DuplicateTaskKeys() {
		report.DuplicateTaskKeys = append(report.DuplicateTaskKeys, duplicateReport{
			Job:     duplicate.Job,
			TaskKey: duplicate.TaskKey,
			Count:   duplicate.Count,
		})
		report.Problems++
	}

	targets, err := driver.SelectTargets(document, params.Targets)
	if err != nil {
		return err
	}
	for _, target := range targets {
		report.Targets = append(report.Targets, target.Name)

		resolved, err := variables.Resolve(tree, document.Variables, target)
		if err != nil {
			report.ResolveErrors = append(report.ResolveErrors, resolveErrorEntry{Target: target.Name, Error: err.Error()})
			report.Problems++
			continue
		}
		tokens, err := variables.Unresolved([]any{resolved.Target.Body, resolved.Tree})
		if err != nil {
			return fmt.Errorf("target %q: %w", target.Name, err)
		}
		undeclared, residual := variables.Classify(tokens, document.Variables)
		if len(undeclared) > 0 {
			report.Unresolved = append(report.Unresolved, unresolvedReport{Target: target.Name, References: undeclared})
			report.Problems += len(undeclared)
		}
		if len(residual) > 0 {
			report.Residual = append(report.Residual, unresolvedReport{Target: target.Name, References: residual})
		}
	}

	if done, err := params.EmitJSON(out.stdout, report); done {
		if err != nil {
			return err
		}
		return exitForProblems(report.Problems)
	}

	printValidateReport(out, report)
	return exitForProblems(report.Problems)
}

func printValidateReport(out streams, report validateReport) {
	w := out.stdout
	fmt.Fprintf(w, "bundle %s (%s)\n", report.Bundle, report.Root)

	fmt.Fprintf(w, "fragments: %d\n", len(report.Fragments))
	for _, fragment := range report.Fragments {
		switch fragment.Status {
		case "error":
			fmt.Fprintf(w, "  %-5s  %s: %s\n", fragment.Status, fragment.Path, fragment.Error)
		case "ok":
			fmt.Fprintf(w, "  %-5s  %s (%d %s)\n", fragment.Status, fragment.Path,
				fragment.Resources, plural(fragment.Resources, "resource", "resources"))
		default:
			fmt.Fprintf(w, "  %-5s  %s\n", fragment.Status, fragment.Path)
		}
	}

	fmt.Fprintf(w, "targets: %s\n", strings.Join(report.Targets, ", "))
	counts := make([]string, 0, len(report.Resources))
	for _, resource := range report.Resources {
		counts = append(counts, fmt.Sprintf("%s %d", resource.Type, resource.Count))
	}
	fmt.Fprintf(w, "resources: %s\n", strings.Join(counts, ", "))
	fmt.Fprintf(w, "jobs: %d\n", report.Jobs)

	if len(report.DuplicateTaskKeys) > 0 {
		fmt.Fprintln(w, "duplicate task keys:")
		for _, duplicate := range report.DuplicateTaskKeys {
			fmt.Fprintf(w, "  job %s: task_key %q appears %d times\n", duplicate.Job, duplicate.TaskKey, duplicate.Count)
		}
	}
	if len(report.Unresolved) > 0 {
		fmt.Fprintln(w, "undeclared variables:")
		for _, entry := range report.Unresolved {
			fmt.Fprintf(w, "  %s: %s\n", entry.Target, strings.Join(entry.References, ", "))
		}
	}
	if len(report.Residual) > 0 {
		fmt.Fprintln(w, "placeholders left by variable values (not expanded again):")
		for _, entry := range report.Residual {
			fmt.Fprintf(w, "  %s: %s\n", entry.Target, strings.Join(entry.References, ", "))
		}
	}
	for _, entry := range report.ResolveErrors {
		fmt.Fprintf(w, "resolve failed for %s: %s\n", entry.Target, entry.Error)
	}

	if report.Problems == 0 {
		fmt.Fprintln(w, "no problems found")
	} else {
		fmt.Fprintf(w, "%d %s found\n", report.Problems, plural(report.Problems, "problem", "problems"))
	}
}

func exitForProblems(problems int) error {
	if problems > 0 {
		return &cli.ExitError{Code: 1}
	}
	return nil
}
