// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package diagram

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/bureau-foundation/bundleviz/lib/bundle"
	"github.com/bureau-foundation/bundleviz/lib/ordered"
)

func testInput(t *testing.T, resources string) Input {
	t.Helper()

	value, err := ordered.Decode([]byte(resources))
	if err != nil {
		t.Fatalf("Decode resources: %v", err)
	}
	tree, err := bundle.TreeFromValue(value)
	if err != nil {
		t.Fatalf("TreeFromValue: %v", err)
	}
	targetBody, err := ordered.Decode([]byte("mode: development\nworkspace:\n  host: https://h\n"))
	if err != nil {
		t.Fatalf("Decode target: %v", err)
	}
	return Input{
		BundleName: "demo",
		TargetName: "dev",
		Target:     &bundle.Target{Name: "dev", Body: targetBody.(*ordered.Map)},
		Tree:       tree,
	}
}

const sampleResources = `
jobs:
  my-job:
    name: Nightly
    trigger:
      periodic:
        interval: 1
        unit: DAYS
    email_notifications:
      on_failure: [a@x]
    tasks:
      - task_key: ingest
        notebook_task:
          base_parameters:
            catalog: c
            env: e
      - task_key: train-model
        python_wheel_task: {}
        depends_on:
          - task_key: ingest
      - description: no key, not drawn
    job_clusters:
      - job_cluster_key: main
        new_cluster:
          spark_version: "13.3"
          node_type_id: small
          runtime_engine: STANDARD
      - new_cluster: {}
`

func TestPlantUMLEmit(t *testing.T) {
	t.Parallel()

	want := strings.TrimPrefix(`
@startuml
!theme plain
package "demo - dev (mode: development)\n(host: https://h)" {
  package "Jobs" as Jobs_dev {
    rectangle "Nightly\ntrigger: periodic (1 DAYS)\nnotify on_failure: a@x" as jobs_my-job_dev
    package "Workflow" as Workflow_my-job_dev {
      jobs_my-job_dev --> Workflow_my-job_dev : contains
      package "ingest\n(notebook)" as task_my-job_ingest_dev {
        rectangle "catalog\nenv\n" as env_parameters_task_my-job_ingest_dev
      }
      package "train-model\n(python_wheel)" as task_my-job_train-model_dev {
      task_my-job_ingest_dev --> task_my-job_train-model_dev : depends on
      }
    }
    rectangle "Cluster: main\n13.3, small, STANDARD" as job_cluster_my-job_main_dev
    jobs_my-job_dev --> job_cluster_my-job_main_dev : uses
  }
}
@enduml`, "\n")

	got := PlantUML{}.Emit(testInput(t, sampleResources))
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("PlantUML source mismatch (-want +got):\n%s", diff)
	}
}

func TestMermaidEmit(t *testing.T) {
	t.Parallel()

	want := strings.TrimPrefix(`
---
title demo (dev mode development)
host https://h
---
flowchart LR
    classDef default fill:#f9f,stroke:#333,stroke-width:2px;

    subgraph dev[" "]
    direction LR

    subgraph Jobs
    direction LR
    my_job["Nightly\ntrigger: periodic (1 DAYS)\nnotify on_failure: a@x"]
    subgraph Workflow_my_job[Workflow]
    direction LR
    ingest["ingest (notebook)"]
    ingest_params["catalog\nenv"]
    ingest --> ingest_params
    train_model["train-model (python_wheel)"]
    ingest --> train_model
    end
    cluster_my_job["Cluster: main\n13.3, small, STANDARD"]
    my_job --> cluster_my_job
    my_job --> Workflow_my_job
    end
    end`, "\n")

	got := Mermaid{}.Emit(testInput(t, sampleResources))
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Mermaid source mismatch (-want +got):\n%s", diff)
	}
}

func TestEmitWithoutJobs(t *testing.T) {
	t.Parallel()

	input := testInput(t, "pipelines:\n  dlt: {}\n")

	plantUML := PlantUML{}.Emit(input)
	if strings.Contains(plantUML, `package "Jobs"`) {
		t.Errorf("PlantUML emitted a Jobs package without jobs:\n%s", plantUML)
	}
	if !strings.HasSuffix(plantUML, "}\n@enduml") {
		t.Errorf("PlantUML source is not closed:\n%s", plantUML)
	}

	mermaid := Mermaid{}.Emit(input)
	subgraphs := strings.Count(mermaid, "subgraph ")
	ends := strings.Count(mermaid, "\n    end")
	if subgraphs != ends {
		t.Errorf("Mermaid has %d subgraphs but %d end lines:\n%s", subgraphs, ends, mermaid)
	}
}

func TestJobLabelWithoutTrigger(t *testing.T) {
	t.Parallel()

	input := testInput(t, "jobs:\n  plain: {}\n")
	if got := (PlantUML{}).Emit(input); !strings.Contains(got, `rectangle "plain" as jobs_plain_dev`) {
		t.Errorf("PlantUML job label wrong:\n%s", got)
	}
	if got := (Mermaid{}).Emit(input); !strings.Contains(got, `plain["plain\n"]`) {
		t.Errorf("Mermaid job label wrong:\n%s", got)
	}
}

func TestByName(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"plantuml", "mermaid"} {
		emitter, err := ByName(name)
		if err != nil {
			t.Fatalf("ByName(%q): %v", name, err)
		}
		if emitter.Name() != name {
			t.Errorf("ByName(%q).Name() = %q", name, emitter.Name())
		}
	}
	if _, err := ByName("graphviz"); err == nil {
		t.Error("ByName(graphviz) succeeded")
	}
	if diff := cmp.Diff([]string{"mermaid", "plantuml"}, Names()); diff != "" {
		t.Errorf("Names mismatch (-want +got):\n%s", diff)
	}
}
