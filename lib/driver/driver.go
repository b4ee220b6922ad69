// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package driver runs the bundle pipeline: load the bundle once, merge
// its fragments once, then resolve variables separately for each
// deployment target and hand each resolved environment to a visitor
// (typically a diagram emitter followed by a renderer).
//
// Targets are processed one at a time in declaration order. A visitor
// failure for one environment is logged and does not stop the others;
// [Plan.Walk] reports the failed environments together as a
// [*PartialError] once every environment has been visited.
package driver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bureau-foundation/bundleviz/lib/bundle"
	"github.com/bureau-foundation/bundleviz/lib/variables"
)

// Options controls which targets are processed.
type Options struct {
	// Targets restricts processing to the named targets, in the order
	// the document declares them. Empty means every target. Naming a
	// target the document does not declare is an error.
	Targets []string

	// Logger receives progress and warning messages. Required.
	Logger *slog.Logger
}

// Environment is one fully resolved deployment target.
type Environment struct {
	BundleName string
	Name       string

	// Target is the target body with placeholders substituted.
	Target *bundle.Target

	// Tree is the merged resource tree with placeholders substituted.
	Tree *bundle.Tree

	// Variables is the replacement table applied for this target.
	Variables *variables.Table
}

// Visitor consumes one resolved environment.
type Visitor func(ctx context.Context, environment *Environment) error

// Plan is a loaded and merged bundle ready to be resolved per target.
type Plan struct {
	Document  *bundle.Document
	Fragments []*bundle.Fragment
	Tree      *bundle.Tree

	// Targets are the selected targets in declaration order.
	Targets []*bundle.Target

	logger *slog.Logger
}

// Prepare loads the bundle at rootPath, merges its fragments, and
// selects targets. Duplicate task keys in the merged tree are logged
// at WARN; they are kept in the tree.
func Prepare(rootPath string, options Options) (*Plan, error) {
	logger := options.Logger
	if logger == nil {
		return nil, errors.New("driver: Options.Logger is required")
	}

	document, fragments, err := bundle.Load(rootPath, logger)
	if err != nil {
		return nil, err
	}
	tree := bundle.Merge(fragments...)

	for _, duplicate := range tree.DuplicateTaskKeys() {
		logger.Warn("duplicate task key after merge",
			"job", duplicate.Job,
			"task_key", duplicate.TaskKey,
			"count", duplicate.Count,
		)
	}

	targets, err := SelectTargets(document, options.Targets)
	if err != nil {
		return nil, err
	}

	return &Plan{
		Document:  document,
		Fragments: fragments,
		Tree:      tree,
		Targets:   targets,
		logger:    logger,
	}, nil
}

// SelectTargets returns the named targets in declaration order, or
// every target when names is empty. Unknown names are an error that
// lists the declared targets.
func SelectTargets(document *bundle.Document, names []string) ([]*bundle.Target, error) {
	if len(names) == 0 {
		return document.Targets, nil
	}
	wanted := make(map[string]bool, len(names))
	var unknown []string
	for _, name := range names {
		if document.Target(name) == nil {
			unknown = append(unknown, name)
			continue
		}
		wanted[name] = true
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("unknown target %s (declared: %s)",
			strings.Join(quoteAll(unknown), ", "),
			strings.Join(document.TargetNames(), ", "))
	}
	var selected []*bundle.Target
	for _, target := range document.Targets {
		if wanted[target.Name] {
			selected = append(selected, target)
		}
	}
	return selected, nil
}

func quoteAll(values []string) []string {
	quoted := make([]string, len(values))
	for index, value := range values {
		quoted[index] = fmt.Sprintf("%q", value)
	}
	return quoted
}

// Resolve substitutes variables for one target.
func (p *Plan) Resolve(target *bundle.Target) (*Environment, error) {
	resolved, err := variables.Resolve(p.Tree, p.Document.Variables, target)
	if err != nil {
		return nil, err
	}
	return &Environment{
		BundleName: p.Document.Name,
		Name:       target.Name,
		Target:     resolved.Target,
		Tree:       resolved.Tree,
		Variables:  resolved.Table,
	}, nil
}

// Walk resolves each selected target in order and passes it to visit.
// Resolution and visitor errors are logged with the environment name
// and the walk continues. If any environment failed, Walk returns a
// *PartialError after the last one. A cancelled context stops the walk
// before the next environment.
func (p *Plan) Walk(ctx context.Context, visit Visitor) error {
	var failures []EnvironmentFailure
	for _, target := range p.Targets {
		if err := ctx.Err(); err != nil {
			return err
		}

		environment, err := p.Resolve(target)
		if err == nil {
			err = visit(ctx, environment)
		}
		if err != nil {
			p.logger.Error("environment failed", "target", target.Name, "error", err)
			failures = append(failures, EnvironmentFailure{Name: target.Name, Err: err})
			continue
		}
		p.logger.Debug("environment done", "target", target.Name)
	}
	if len(failures) > 0 {
		return &PartialError{Total: len(p.Targets), Failures: failures}
	}
	return nil
}

// Walk prepares the bundle at rootPath and walks its targets.
func Walk(ctx context.Context, rootPath string, options Options, visit Visitor) error {
	plan, err := Prepare(rootPath, options)
	if err != nil {
		return err
	}
	return plan.Walk(ctx, visit)
}

// Run prepares the bundle at rootPath and returns every resolved
// environment. Environments that fail to resolve are left out and
// reported through a *PartialError alongside the rest.
func Run(rootPath string, options Options) ([]*Environment, error) {
	var environments []*Environment
	err := Walk(context.Background(), rootPath, options, func(_ context.Context, environment *Environment) error {
		environments = append(environments, environment)
		return nil
	})
	return environments, err
}
