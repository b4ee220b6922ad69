// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package diagram

import (
	"fmt"
	"strings"

	"github.com/bureau-foundation/bundleviz/lib/bundle"
)

// Mermaid emits Mermaid flowchart source.
type Mermaid struct{}

func (Mermaid) Name() string      { return "mermaid" }
func (Mermaid) Extension() string { return "mmd" }

// Emit renders the environment as a left-to-right flowchart with a
// subgraph for the environment, one for all jobs, and one Workflow
// subgraph per job. Node identifiers replace "-" with "_".
func (Mermaid) Emit(input Input) string {
	target := input.TargetName
	lines := []string{
		"---",
		fmt.Sprintf("title %s (%s mode %s)", input.BundleName, target, input.Target.Mode()),
		fmt.Sprintf("host %s", input.Target.WorkspaceHost()),
		"---",
		"flowchart LR",
		"    classDef default fill:#f9f,stroke:#333,stroke-width:2px;",
		"",
		fmt.Sprintf(`    subgraph %s[" "]`, target),
		"    direction LR",
		"",
		"    subgraph Jobs",
		"    direction LR",
	}

	if input.Tree.Group(bundle.JobsResourceType) != nil {
		for _, job := range input.Tree.Jobs() {
			jobID := mermaidID(job.Key)
			label := job.Name + lineBreak + triggerText(job) + notificationLines(job)
			lines = append(lines,
				fmt.Sprintf(`    %s["%s"]`, jobID, label),
				fmt.Sprintf("    subgraph Workflow_%s[Workflow]", jobID),
				"    direction LR",
			)

			for _, task := range job.Tasks {
				if task.Key == "" {
					continue
				}
				taskID := mermaidID(task.Key)
				lines = append(lines, fmt.Sprintf(`    %s["%s"]`, taskID, mermaidTaskLabel(task)))
				if task.BaseParameters.Len() > 0 {
					lines = append(lines,
						fmt.Sprintf(`    %s_params["%s"]`, taskID, strings.Join(task.BaseParameters.Keys(), lineBreak)),
						fmt.Sprintf("    %s --> %s_params", taskID, taskID),
					)
				}
			}

			for _, task := range job.Tasks {
				if task.Key == "" {
					continue
				}
				for _, dependency := range task.DependsOn {
					lines = append(lines, fmt.Sprintf("    %s --> %s", mermaidID(dependency), mermaidID(task.Key)))
				}
			}

			lines = append(lines, "    end")

			// Every cluster of a job shares one node identifier, so
			// Mermaid draws the last cluster's label.
			for _, cluster := range job.Clusters {
				if cluster.Key == "" {
					continue
				}
				clusterID := "cluster_" + jobID
				lines = append(lines,
					fmt.Sprintf(`    %s["%s"]`, clusterID, clusterLabel(cluster)),
					fmt.Sprintf("    %s --> %s", jobID, clusterID),
				)
			}

			lines = append(lines, fmt.Sprintf("    %s --> Workflow_%s", jobID, jobID))
		}
	}

	lines = append(lines,
		"    end",
		"    end",
	)
	return strings.Join(lines, "\n")
}

func mermaidID(key string) string {
	return strings.ReplaceAll(key, "-", "_")
}

func mermaidTaskLabel(task bundle.Task) string {
	switch task.Kind {
	case bundle.TaskKindNotebook, bundle.TaskKindPythonWheel:
		return fmt.Sprintf("%s (%s)", task.Key, task.Kind)
	default:
		return task.Key
	}
}
