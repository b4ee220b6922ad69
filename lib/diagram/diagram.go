// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package diagram turns one resolved environment into diagram source
// text. Two emitters are provided: [PlantUML] and [Mermaid]. Both draw
// the same picture: an environment container holding one node per job,
// each job's task workflow with depends-on edges, notebook base
// parameters, and the job clusters the job uses.
//
// Labels use the diagram languages' "\n" escape for line breaks, so the
// emitted text contains a literal backslash followed by n.
package diagram

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bureau-foundation/bundleviz/lib/bundle"
)

// Input is everything an emitter needs for one environment.
type Input struct {
	BundleName string
	TargetName string
	Target     *bundle.Target
	Tree       *bundle.Tree
}

// Emitter produces diagram source for one environment.
type Emitter interface {
	// Name is the diagram type name used on the command line.
	Name() string

	// Extension is the source file extension, without the dot.
	Extension() string

	Emit(input Input) string
}

var emitters = map[string]Emitter{
	PlantUML{}.Name(): PlantUML{},
	Mermaid{}.Name():  Mermaid{},
}

// ByName returns the emitter for a diagram type name.
func ByName(name string) (Emitter, error) {
	emitter, exists := emitters[name]
	if !exists {
		return nil, fmt.Errorf("unknown diagram type %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return emitter, nil
}

// Names returns the known diagram type names, sorted.
func Names() []string {
	names := make([]string, 0, len(emitters))
	for name := range emitters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// lineBreak is the label line-break escape understood by both PlantUML
// and Mermaid.
const lineBreak = `\n`

// notificationLines renders the notification lines appended to a job
// label, each starting with a line break.
func notificationLines(job *bundle.Job) string {
	var builder strings.Builder
	for _, notification := range job.EmailNotifications {
		fmt.Fprintf(&builder, "%snotify %s: %s", lineBreak, notification.Event, strings.Join(notification.Recipients, ", "))
	}
	return builder.String()
}

func triggerText(job *bundle.Job) string {
	if job.Trigger == nil {
		return ""
	}
	return fmt.Sprintf("trigger: periodic (%s %s)", job.Trigger.Interval, job.Trigger.Unit)
}

func clusterLabel(cluster bundle.Cluster) string {
	return fmt.Sprintf("Cluster: %s%s%s, %s, %s", cluster.Key, lineBreak, cluster.SparkVersion, cluster.NodeTypeID, cluster.RuntimeEngine)
}
