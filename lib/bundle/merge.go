// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bundle

import (
	"encoding/json"
	"fmt"

	"github.com/bureau-foundation/bundleviz/lib/ordered"
)

// JobsResourceType is the resource type whose definitions accumulate
// across fragments instead of replacing each other.
const JobsResourceType = "jobs"

// Tree is the merged resource tree: resource type → key → body, all in
// first-seen order. A Tree built by Merge is not modified afterwards
// by anything in this module; variable resolution works on a
// serialized copy.
type Tree struct {
	resources *ordered.Map
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{resources: ordered.NewMap()}
}

// Merge folds fragments, in order, into a new tree.
func Merge(fragments ...*Fragment) *Tree {
	tree := NewTree()
	for _, fragment := range fragments {
		tree.Add(fragment)
	}
	return tree
}

// Add merges one fragment into the tree. Values from the fragment are
// deep-copied; the fragment is never aliased by the tree.
//
// A key not yet in the tree is inserted verbatim. A job key already in
// the tree gets the fragment's tasks appended and the fragment's job
// clusters added where no cluster with the same job_cluster_key exists
// yet; the rest of the fragment's job body is ignored. Any other
// repeated key is overwritten in place.
func (t *Tree) Add(fragment *Fragment) {
	if fragment == nil {
		return
	}
	for resourceType, group := range fragment.Resources.All() {
		definitions, ok := group.(*ordered.Map)
		if !ok {
			continue
		}
		existing := t.resources.Map(resourceType)
		if existing == nil {
			existing = ordered.NewMap()
			t.resources.Set(resourceType, existing)
		}
		for key, body := range definitions.All() {
			if resourceType == JobsResourceType && existing.Has(key) {
				current, _ := existing.Get(key)
				existing.Set(key, mergeJob(current, body))
				continue
			}
			existing.Set(key, ordered.Clone(body))
		}
	}
}

// mergeJob extends current with the tasks and job clusters of
// incoming and returns the updated body.
func mergeJob(current, incoming any) any {
	addition, ok := incoming.(*ordered.Map)
	if !ok {
		return current
	}
	job, ok := current.(*ordered.Map)
	if !ok {
		job = ordered.NewMap()
	}

	if addition.Has("tasks") {
		tasks := job.List("tasks")
		for _, task := range addition.List("tasks") {
			tasks = append(tasks, ordered.Clone(task))
		}
		if tasks == nil {
			tasks = []any{}
		}
		job.Set("tasks", tasks)
	}

	if addition.Has("job_clusters") {
		clusters := job.List("job_clusters")
		for _, candidate := range addition.List("job_clusters") {
			if !containsCluster(clusters, clusterKey(candidate)) {
				clusters = append(clusters, ordered.Clone(candidate))
			}
		}
		if clusters == nil {
			clusters = []any{}
		}
		job.Set("job_clusters", clusters)
	}

	return job
}

// clusterKey returns a cluster's job_cluster_key. A missing key and a
// null key are both nil and compare equal.
func clusterKey(cluster any) any {
	definition, ok := cluster.(*ordered.Map)
	if !ok {
		return nil
	}
	key, _ := definition.Get("job_cluster_key")
	return key
}

func containsCluster(clusters []any, key any) bool {
	for _, cluster := range clusters {
		if sameScalar(clusterKey(cluster), key) {
			return true
		}
	}
	return false
}

func sameScalar(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return ordered.Kind(a) == ordered.Kind(b) && ordered.Format(a) == ordered.Format(b)
}

// Resources returns the underlying type → key → body mapping.
func (t *Tree) Resources() *ordered.Map {
	return t.resources
}

// Group returns the definitions of one resource type, or nil.
func (t *Tree) Group(resourceType string) *ordered.Map {
	return t.resources.Map(resourceType)
}

// Types returns the resource types in first-seen order.
func (t *Tree) Types() []string {
	return t.resources.Keys()
}

// Jobs returns a view of every job definition in order.
func (t *Tree) Jobs() []*Job {
	group := t.Group(JobsResourceType)
	jobs := make([]*Job, 0, group.Len())
	for key, body := range group.All() {
		jobs = append(jobs, NewJob(key, body))
	}
	return jobs
}

// Fragment returns a deep copy of the tree as an in-memory fragment, so
// that a merged tree can be merged again.
func (t *Tree) Fragment() *Fragment {
	return &Fragment{Resources: t.resources.Clone()}
}

// DuplicateTaskKey is a task_key that occurs more than once in one
// merged job.
type DuplicateTaskKey struct {
	Job     string
	TaskKey string
	Count   int
}

// DuplicateTaskKeys reports task keys that occur more than once within
// a job, in job order and first-occurrence order within each job.
// Tasks without a task_key are not counted.
func (t *Tree) DuplicateTaskKeys() []DuplicateTaskKey {
	var duplicates []DuplicateTaskKey
	for _, job := range t.Jobs() {
		counts := make(map[string]int)
		var order []string
		for _, task := range job.Tasks {
			if task.Key == "" {
				continue
			}
			if counts[task.Key] == 0 {
				order = append(order, task.Key)
			}
			counts[task.Key]++
		}
		for _, key := range order {
			if counts[key] > 1 {
				duplicates = append(duplicates, DuplicateTaskKey{Job: job.Key, TaskKey: key, Count: counts[key]})
			}
		}
	}
	return duplicates
}

// MarshalJSON encodes the tree as a JSON object in tree order.
func (t *Tree) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.resources)
}

// MarshalYAML encodes the tree as a YAML mapping in tree order.
func (t *Tree) MarshalYAML() (any, error) {
	return ordered.ToNode(t.resources)
}

// TreeFromValue wraps a decoded type → key → body mapping as a Tree.
// A nil value yields an empty tree.
func TreeFromValue(value any) (*Tree, error) {
	if value == nil {
		return NewTree(), nil
	}
	resources, ok := value.(*ordered.Map)
	if !ok {
		return nil, fmt.Errorf("resource tree must be a mapping, got %s", ordered.Kind(value))
	}
	for resourceType, group := range resources.All() {
		if _, ok := group.(*ordered.Map); !ok {
			return nil, fmt.Errorf("resource type %q must be a mapping, got %s", resourceType, ordered.Kind(group))
		}
	}
	return &Tree{resources: resources}, nil
}
