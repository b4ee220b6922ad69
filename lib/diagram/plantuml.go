// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package diagram

import (
	"fmt"
	"strings"

	"github.com/bureau-foundation/bundleviz/lib/bundle"
)

// PlantUML emits PlantUML component-diagram source.
type PlantUML struct{}

func (PlantUML) Name() string      { return "plantuml" }
func (PlantUML) Extension() string { return "puml" }

// Emit renders the environment as nested packages: environment, Jobs,
// then per job a Workflow package holding one package per task.
// Aliases carry the target name so that diagrams of different targets
// never collide.
func (PlantUML) Emit(input Input) string {
	target := input.TargetName
	lines := []string{
		"@startuml",
		"!theme plain",
		fmt.Sprintf(`package "%s - %s (mode: %s)%s(host: %s)" {`,
			input.BundleName, target, input.Target.Mode(), lineBreak, input.Target.WorkspaceHost()),
	}

	if input.Tree.Group(bundle.JobsResourceType) != nil {
		lines = append(lines, fmt.Sprintf(`  package "Jobs" as Jobs_%s {`, target))

		for _, job := range input.Tree.Jobs() {
			label := job.Name
			if trigger := triggerText(job); trigger != "" {
				label += lineBreak + trigger
			}
			label += notificationLines(job)

			jobAlias := fmt.Sprintf("jobs_%s_%s", job.Key, target)
			workflowAlias := fmt.Sprintf("Workflow_%s_%s", job.Key, target)
			lines = append(lines,
				fmt.Sprintf(`    rectangle "%s" as %s`, label, jobAlias),
				fmt.Sprintf(`    package "Workflow" as %s {`, workflowAlias),
				fmt.Sprintf(`      %s --> %s : contains`, jobAlias, workflowAlias),
			)

			for _, task := range job.Tasks {
				if task.Key == "" {
					continue
				}
				taskAlias := plantUMLTaskAlias(job.Key, task.Key, target)
				lines = append(lines, fmt.Sprintf(`      package "%s" as %s {`, plantUMLTaskLabel(task), taskAlias))
				for _, dependency := range task.DependsOn {
					lines = append(lines, fmt.Sprintf(`      %s --> %s : depends on`,
						plantUMLTaskAlias(job.Key, dependency, target), taskAlias))
				}
				if task.BaseParameters.Len() > 0 {
					// The rectangle alias is prefixed with the last
					// parameter name.
					var values strings.Builder
					var last string
					for name := range task.BaseParameters.All() {
						values.WriteString(name + lineBreak)
						last = name
					}
					lines = append(lines, fmt.Sprintf(`        rectangle "%s" as %s_parameters_%s`,
						strings.TrimSpace(values.String()), last, taskAlias))
				}
				lines = append(lines, "      }")
			}

			lines = append(lines, "    }")

			for _, cluster := range job.Clusters {
				if cluster.Key == "" {
					continue
				}
				clusterAlias := fmt.Sprintf("job_cluster_%s_%s_%s", job.Key, cluster.Key, target)
				lines = append(lines,
					fmt.Sprintf(`    rectangle "%s" as %s`, clusterLabel(cluster), clusterAlias),
					fmt.Sprintf(`    %s --> %s : uses`, jobAlias, clusterAlias),
				)
			}
		}

		lines = append(lines, "  }")
	}

	lines = append(lines, "}", "@enduml")
	return strings.Join(lines, "\n")
}

func plantUMLTaskAlias(jobKey, taskKey, target string) string {
	return fmt.Sprintf("task_%s_%s_%s", jobKey, taskKey, target)
}

func plantUMLTaskLabel(task bundle.Task) string {
	switch task.Kind {
	case bundle.TaskKindNotebook, bundle.TaskKindPythonWheel:
		return fmt.Sprintf("%s%s(%s)", task.Key, lineBreak, task.Kind)
	default:
		return task.Key
	}
}
