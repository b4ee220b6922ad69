// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bundle

import (
	"github.com/bureau-foundation/bundleviz/lib/ordered"
)

// TaskKind classifies a task by the kind of work it runs.
type TaskKind string

const (
	TaskKindNotebook    TaskKind = "notebook"
	TaskKindPythonWheel TaskKind = "python_wheel"
	TaskKindOther       TaskKind = "other"
)

// Job is a read-only view of a job body. The body itself stays the
// source of truth; fields not surfaced here remain in Body.
type Job struct {
	// Key is the job's resource key.
	Key string

	// Name is the body's name field, or Key when it has none.
	Name string

	Tasks    []Task
	Clusters []Cluster

	// Trigger is nil unless the job has a periodic trigger.
	Trigger *Trigger

	// EmailNotifications lists notification events in body order.
	EmailNotifications []Notification

	Body *ordered.Map
}

// Task is a view of one entry in a job's tasks list.
type Task struct {
	// Key is task_key. Empty when the task has none.
	Key string

	// DependsOn lists the task_key of every depends_on entry that has
	// one, in order.
	DependsOn []string

	Kind TaskKind

	// BaseParameters is notebook_task.base_parameters for notebook
	// tasks, or nil.
	BaseParameters *ordered.Map

	Body *ordered.Map
}

// Cluster is a view of one entry in a job's job_clusters list.
type Cluster struct {
	// Key is job_cluster_key. Empty when the cluster has none.
	Key string

	SparkVersion  string
	NodeTypeID    string
	RuntimeEngine string
}

// Trigger describes a periodic job trigger.
type Trigger struct {
	Interval string
	Unit     string
}

// Notification is one email_notifications event and its recipients.
type Notification struct {
	Event      string
	Recipients []string
}

// NewJob builds a view over a job body. A body that is not a mapping
// yields a job with only Key and Name set.
func NewJob(key string, body any) *Job {
	definition, _ := body.(*ordered.Map)
	job := &Job{
		Key:  key,
		Name: definition.String("name", key),
		Body: definition,
	}

	for _, element := range definition.List("tasks") {
		if task, ok := element.(*ordered.Map); ok {
			job.Tasks = append(job.Tasks, newTask(task))
		}
	}

	for _, element := range definition.List("job_clusters") {
		if cluster, ok := element.(*ordered.Map); ok {
			job.Clusters = append(job.Clusters, newCluster(cluster))
		}
	}

	if periodic := definition.Map("trigger").Map("periodic"); periodic != nil {
		job.Trigger = &Trigger{
			Interval: periodic.String("interval", ""),
			Unit:     periodic.String("unit", ""),
		}
	}

	for event, recipients := range definition.Map("email_notifications").All() {
		notification := Notification{Event: event}
		switch typed := recipients.(type) {
		case []any:
			for _, recipient := range typed {
				notification.Recipients = append(notification.Recipients, ordered.Format(recipient))
			}
		case nil:
		default:
			notification.Recipients = []string{ordered.Format(typed)}
		}
		job.EmailNotifications = append(job.EmailNotifications, notification)
	}

	return job
}

func newTask(body *ordered.Map) Task {
	task := Task{
		Key:  body.String("task_key", ""),
		Kind: TaskKindOther,
		Body: body,
	}
	switch {
	case body.Has("notebook_task"):
		task.Kind = TaskKindNotebook
		task.BaseParameters = body.Map("notebook_task").Map("base_parameters")
	case body.Has("python_wheel_task"):
		task.Kind = TaskKindPythonWheel
	}
	for _, element := range body.List("depends_on") {
		dependency, ok := element.(*ordered.Map)
		if !ok {
			continue
		}
		if key := dependency.String("task_key", ""); key != "" {
			task.DependsOn = append(task.DependsOn, key)
		}
	}
	return task
}

func newCluster(body *ordered.Map) Cluster {
	spec := body.Map("new_cluster")
	return Cluster{
		Key:           body.String("job_cluster_key", ""),
		SparkVersion:  spec.String("spark_version", ""),
		NodeTypeID:    spec.String("node_type_id", ""),
		RuntimeEngine: spec.String("runtime_engine", ""),
	}
}

// Job returns the view of the job with the given key, or nil.
func (t *Tree) Job(key string) *Job {
	body, exists := t.Group(JobsResourceType).Get(key)
	if !exists {
		return nil
	}
	return NewJob(key, body)
}
