// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"testing"

	"github.com/spf13/pflag"
)

func TestEditDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"abc", "abc", 0},
		{"abc", "abd", 1}, // substitution
		{"abc", "ab", 1},  // deletion
		{"ab", "abc", 1},  // insertion
		{"kitten", "sitting", 3},
		{"render", "rendr", 1},
		{"targets", "tragets", 2},
	}

	for _, test := range tests {
		t.Run(test.a+"->"+test.b, func(t *testing.T) {
			got := editDistance(test.a, test.b)
			if got != test.want {
				t.Errorf("editDistance(%q, %q) = %d, want %d", test.a, test.b, got, test.want)
			}
		})
	}
}

func TestSuggestCommand(t *testing.T) {
	commands := []*Command{
		{Name: "render"},
		{Name: "resolve"},
		{Name: "validate"},
		{Name: "targets"},
		{Name: "version"},
	}

	tests := []struct {
		input string
		want  string
	}{
		{"rendr", "render"},
		{"reslove", "resolve"},
		{"valdate", "validate"},
		{"target", "targets"},
		{"verison", "version"},
		{"completely-different", ""},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			got := suggestCommand(test.input, commands)
			if got != test.want {
				t.Errorf("suggestCommand(%q) = %q, want %q", test.input, got, test.want)
			}
		})
	}
}

func TestSuggestFlag(t *testing.T) {
	newFlagSet := func() *pflag.FlagSet {
		flagSet := pflag.NewFlagSet("render", pflag.ContinueOnError)
		flagSet.StringP("output", "o", "", "")
		flagSet.String("snapshot", "", "")
		flagSet.Bool("force", false, "")
		return flagSet
	}

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"long typo", []string{"--ouput", "x"}, "--output"},
		{"with value", []string{"--snapshto=envs.json"}, "--snapshot"},
		{"known flags skipped", []string{"-o", "x", "--forse"}, "--force"},
		{"nothing close", []string{"--zzzzzzzzzz"}, ""},
		{"after terminator", []string{"--", "--ouput"}, ""},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := suggestFlag(test.args, newFlagSet())
			if got != test.want {
				t.Errorf("suggestFlag(%v) = %q, want %q", test.args, got, test.want)
			}
		})
	}
}
