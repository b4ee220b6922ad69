// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package bundle loads a workflow bundle from disk and merges its
// resource fragments into a single resource tree.
//
// A bundle is a root document (conventionally databricks.yml) that
// names the bundle, declares variables and deployment targets, and
// lists include patterns. Each include pattern is a glob, resolved
// relative to the root document's directory, that matches resource
// fragment files. A fragment contributes definitions under
// resources.<type>.<key>.
//
// The typical flow:
//
//  1. Load: root document → [Document], include patterns → ordered
//     fragment paths → []*[Fragment]. Unreadable fragments are logged
//     and skipped; only a bad root document is fatal.
//  2. Merge: fold the fragments, in load order, into one [Tree].
//  3. Jobs: view merged job bodies through the typed [Job] accessors.
//
// Merge semantics differ by resource type. A job key seen in several
// fragments accumulates: task lists are concatenated in fragment order
// (tasks with equal task_key are all kept) and job clusters are unioned
// by job_cluster_key, first definition wins. Every other field of a
// later job definition is ignored. For all other resource types the
// last fragment's definition replaces the earlier one in place.
//
// Bodies are kept as opaque [ordered.Map] values so that fields the
// typed views do not know about survive merging and variable
// substitution unchanged.
package bundle
