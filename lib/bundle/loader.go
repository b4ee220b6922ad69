// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bundle

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/bureau-foundation/bundleviz/lib/ordered"
)

// Fragment is the resources section of one included file.
type Fragment struct {
	// Path is the file the fragment was read from. Empty for fragments
	// built in memory.
	Path string

	// Resources maps resource type to an ordered mapping of resource
	// key to body.
	Resources *ordered.Map
}

// Load reads the root document at rootPath and every fragment its
// include patterns match. Fragments are returned in load order:
// patterns in declaration order, each pattern's matches sorted
// lexicographically. A fragment that cannot be read or parsed is
// logged at WARN and skipped. A fragment without resources is skipped
// with a debug log.
func Load(rootPath string, logger *slog.Logger) (*Document, []*Fragment, error) {
	document, err := LoadDocument(rootPath)
	if err != nil {
		return nil, nil, err
	}

	paths := ExpandIncludes(document.Dir, document.Include, logger)
	fragments := make([]*Fragment, 0, len(paths))
	for _, path := range paths {
		fragment, err := LoadFragment(path)
		if err != nil {
			logger.Warn("skipping resource fragment", "path", path, "error", err)
			continue
		}
		if fragment.Resources.Len() == 0 {
			logger.Debug("fragment has no resources", "path", path)
			continue
		}
		fragments = append(fragments, fragment)
	}

	logger.Debug("bundle loaded",
		"bundle", document.Name,
		"path", document.Path,
		"patterns", len(document.Include),
		"fragments", len(fragments),
	)
	return document, fragments, nil
}

// ExpandIncludes resolves include patterns against dir and returns the
// matching file paths. Patterns support ** for recursive matches. An
// absolute pattern is used as is. A pattern that matches nothing
// contributes nothing; a malformed pattern is logged at WARN and
// skipped. A file matched by more than one pattern appears once per
// match.
func ExpandIncludes(dir string, patterns []string, logger *slog.Logger) []string {
	var paths []string
	for _, pattern := range patterns {
		full := pattern
		if !filepath.IsAbs(pattern) {
			full = filepath.Join(dir, pattern)
		}
		matches, err := doublestar.FilepathGlob(full, doublestar.WithFilesOnly())
		if err != nil {
			logger.Warn("invalid include pattern", "pattern", pattern, "error", err)
			continue
		}
		if len(matches) == 0 {
			logger.Debug("include pattern matched no files", "pattern", pattern)
			continue
		}
		sort.Strings(matches)
		paths = append(paths, matches...)
	}
	return paths
}

// LoadFragment reads and parses one fragment file.
func LoadFragment(path string) (*Fragment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	value, err := decodeFile(path, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	fragment, err := ParseFragment(value)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	fragment.Path = path
	return fragment, nil
}

// ParseFragment extracts the resources section from a decoded fragment
// document. A nil document, or one without resources, yields a
// fragment with no resources. Job bodies are checked for the shape the
// merger relies on.
func ParseFragment(value any) (*Fragment, error) {
	fragment := &Fragment{Resources: ordered.NewMap()}
	if value == nil {
		return fragment, nil
	}
	root, ok := value.(*ordered.Map)
	if !ok {
		return nil, fmt.Errorf("fragment must be a mapping, got %s", ordered.Kind(value))
	}
	resources, exists := root.Get("resources")
	if !exists || resources == nil {
		return fragment, nil
	}
	groups, ok := resources.(*ordered.Map)
	if !ok {
		return nil, fmt.Errorf("resources must be a mapping, got %s", ordered.Kind(resources))
	}
	for resourceType, group := range groups.All() {
		if group == nil {
			continue
		}
		definitions, ok := group.(*ordered.Map)
		if !ok {
			return nil, fmt.Errorf("resources.%s must be a mapping, got %s", resourceType, ordered.Kind(group))
		}
		if resourceType == JobsResourceType {
			for key, body := range definitions.All() {
				if err := checkJobBody(body); err != nil {
					return nil, fmt.Errorf("resources.jobs.%s: %w", key, err)
				}
			}
		}
		fragment.Resources.Set(resourceType, definitions)
	}
	return fragment, nil
}

func checkJobBody(body any) error {
	if body == nil {
		return nil
	}
	job, ok := body.(*ordered.Map)
	if !ok {
		return fmt.Errorf("job must be a mapping, got %s", ordered.Kind(body))
	}
	for _, field := range []string{"tasks", "job_clusters"} {
		value, exists := job.Get(field)
		if !exists || value == nil {
			continue
		}
		list, ok := value.([]any)
		if !ok {
			return fmt.Errorf("%s must be a sequence, got %s", field, ordered.Kind(value))
		}
		if field != "job_clusters" {
			continue
		}
		for index, element := range list {
			if _, ok := element.(*ordered.Map); !ok {
				return fmt.Errorf("job_clusters[%d] must be a mapping, got %s", index, ordered.Kind(element))
			}
		}
	}
	return nil
}
