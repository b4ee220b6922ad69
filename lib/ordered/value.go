// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ordered

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Decode parses YAML (or JSON, which is a subset) into a value tree.
// Empty or comment-only input decodes to nil.
func Decode(data []byte) (any, error) {
	var document yaml.Node
	if err := yaml.Unmarshal(data, &document); err != nil {
		return nil, err
	}
	return FromNode(&document)
}

// FromNode converts a parsed YAML node into a value tree. Mapping keys
// are taken as their scalar text. A key that appears twice in one
// mapping keeps its first position and its last value. Merge keys
// ("<<") contribute entries the mapping does not set itself.
func FromNode(node *yaml.Node) (any, error) {
	if node == nil {
		return nil, nil
	}
	switch node.Kind {
	case 0:
		return nil, nil
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}
		return FromNode(node.Content[0])
	case yaml.AliasNode:
		return FromNode(node.Alias)
	case yaml.ScalarNode:
		return scalar(node)
	case yaml.SequenceNode:
		list := make([]any, 0, len(node.Content))
		for _, child := range node.Content {
			value, err := FromNode(child)
			if err != nil {
				return nil, err
			}
			list = append(list, value)
		}
		return list, nil
	case yaml.MappingNode:
		return mapping(node)
	default:
		return nil, fmt.Errorf("line %d: unsupported YAML node kind %d", node.Line, node.Kind)
	}
}

func mapping(node *yaml.Node) (*Map, error) {
	result := NewMap()
	var merged []*Map
	for index := 0; index+1 < len(node.Content); index += 2 {
		keyNode, valueNode := node.Content[index], node.Content[index+1]
		if keyNode.Kind == yaml.ScalarNode && keyNode.ShortTag() == "!!merge" {
			sources, err := mergeSources(valueNode)
			if err != nil {
				return nil, err
			}
			merged = append(merged, sources...)
			continue
		}
		if keyNode.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: mapping keys must be scalars", keyNode.Line)
		}
		value, err := FromNode(valueNode)
		if err != nil {
			return nil, err
		}
		result.Set(keyNode.Value, value)
	}
	for _, source := range merged {
		for key, value := range source.All() {
			if !result.Has(key) {
				result.Set(key, Clone(value))
			}
		}
	}
	return result, nil
}

func mergeSources(node *yaml.Node) ([]*Map, error) {
	value, err := FromNode(node)
	if err != nil {
		return nil, err
	}
	switch typed := value.(type) {
	case *Map:
		return []*Map{typed}, nil
	case []any:
		sources := make([]*Map, 0, len(typed))
		for _, element := range typed {
			source, ok := element.(*Map)
			if !ok {
				return nil, fmt.Errorf("line %d: merge key sequence must contain mappings", node.Line)
			}
			sources = append(sources, source)
		}
		return sources, nil
	default:
		return nil, fmt.Errorf("line %d: merge key requires a mapping", node.Line)
	}
}

func scalar(node *yaml.Node) (any, error) {
	switch node.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var value bool
		if err := node.Decode(&value); err != nil {
			return nil, fmt.Errorf("line %d: %w", node.Line, err)
		}
		return value, nil
	case "!!int":
		var value int64
		if err := node.Decode(&value); err != nil {
			// Out of int64 range: keep the literal text.
			if decimalInteger.MatchString(node.Value) {
				return json.Number(node.Value), nil
			}
			return node.Value, nil
		}
		return value, nil
	case "!!float":
		// yaml.v3 resolves integers too large for 64 bits as floats.
		if node.Style == 0 && decimalInteger.MatchString(node.Value) {
			return json.Number(node.Value), nil
		}
		var value float64
		if err := node.Decode(&value); err != nil {
			return nil, fmt.Errorf("line %d: %w", node.Line, err)
		}
		return value, nil
	default:
		return node.Value, nil
	}
}

var decimalInteger = regexp.MustCompile(`^[-+]?[0-9]+$`)

// ToNode converts a value tree into a YAML node. Mappings keep their
// key order.
func ToNode(value any) (*yaml.Node, error) {
	switch typed := value.(type) {
	case *Map:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		if typed == nil {
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
		}
		for key, child := range typed.All() {
			keyNode := &yaml.Node{}
			if err := keyNode.Encode(key); err != nil {
				return nil, err
			}
			valueNode, err := ToNode(child)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", key, err)
			}
			node.Content = append(node.Content, keyNode, valueNode)
		}
		return node, nil
	case []any:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, child := range typed {
			childNode, err := ToNode(child)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, childNode)
		}
		return node, nil
	case json.Number:
		return &yaml.Node{Kind: yaml.ScalarNode, Value: string(typed)}, nil
	case float64:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: formatFloat(typed)}, nil
	default:
		node := &yaml.Node{}
		if err := node.Encode(value); err != nil {
			return nil, err
		}
		return node, nil
	}
}

// Clone returns a deep copy of a value tree. Scalars are returned as is.
func Clone(value any) any {
	switch typed := value.(type) {
	case *Map:
		return typed.Clone()
	case []any:
		if typed == nil {
			return []any(nil)
		}
		list := make([]any, len(typed))
		for index, element := range typed {
			list[index] = Clone(element)
		}
		return list
	default:
		return value
	}
}

// Plain converts a value tree into builtin Go types: every *Map becomes
// a map[string]any and an integer literal outside the int64 range
// becomes a *big.Int. Key order is lost.
func Plain(value any) any {
	switch typed := value.(type) {
	case *Map:
		if typed == nil {
			return nil
		}
		plain := make(map[string]any, typed.Len())
		for key, child := range typed.All() {
			plain[key] = Plain(child)
		}
		return plain
	case []any:
		list := make([]any, len(typed))
		for index, element := range typed {
			list[index] = Plain(element)
		}
		return list
	case json.Number:
		if integer, err := typed.Int64(); err == nil {
			return integer
		}
		if integer, ok := new(big.Int).SetString(string(typed), 10); ok {
			return integer
		}
		return string(typed)
	default:
		return value
	}
}

// Format renders a value as display text: strings verbatim, booleans as
// true/false, integers in decimal, floats as described for
// [Serialize], nil as the empty string, and sequences or mappings as
// compact JSON.
func Format(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case bool:
		return strconv.FormatBool(typed)
	case int:
		return strconv.Itoa(typed)
	case int64:
		return strconv.FormatInt(typed, 10)
	case uint64:
		return strconv.FormatUint(typed, 10)
	case json.Number:
		return string(typed)
	case float64:
		return formatFloat(typed)
	case *Map, []any:
		encoded, err := json.Marshal(typed)
		if err != nil {
			return fmt.Sprint(typed)
		}
		return string(encoded)
	default:
		return fmt.Sprint(typed)
	}
}

// Kind names the type of a value for error messages.
func Kind(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case int, int64, uint64, json.Number:
		return "integer"
	case float64:
		return "float"
	case string:
		return "string"
	case []any:
		return "sequence"
	case *Map:
		return "mapping"
	default:
		return fmt.Sprintf("%T", value)
	}
}

// formatFloat writes a float so that it reads back as a float: a whole
// number keeps a ".0", very large or small magnitudes use an exponent,
// and non-finite values are the YAML tokens .inf, -.inf and .nan.
func formatFloat(value float64) string {
	switch {
	case math.IsNaN(value):
		return ".nan"
	case math.IsInf(value, 1):
		return ".inf"
	case math.IsInf(value, -1):
		return "-.inf"
	}
	magnitude := math.Abs(value)
	if magnitude != 0 && (magnitude < 1e-4 || magnitude >= 1e16) {
		return strconv.FormatFloat(value, 'e', -1, 64)
	}
	text := strconv.FormatFloat(value, 'f', -1, 64)
	if !strings.Contains(text, ".") {
		text += ".0"
	}
	return text
}
