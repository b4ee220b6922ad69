// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ordered

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Serialize writes a value tree as compact JSON text with mapping keys
// in order. Floats always carry a fraction or an exponent, and integer
// literals too large for 64 bits are written digit for digit, so
// [Decode] reads every number back with its original kind. Non-finite
// floats are written as the bare YAML tokens .inf, -.inf and .nan:
// the output is then no longer strict JSON, but it is still YAML that
// Decode accepts.
func Serialize(value any) ([]byte, error) {
	var buffer bytes.Buffer
	if err := writeValue(&buffer, value, false); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

// writeValue appends value to buffer. With strict set, non-finite
// floats are quoted so the output stays valid JSON.
func writeValue(buffer *bytes.Buffer, value any, strict bool) error {
	switch typed := value.(type) {
	case nil:
		buffer.WriteString("null")
	case *Map:
		if typed == nil {
			buffer.WriteString("null")
			return nil
		}
		buffer.WriteByte('{')
		for index, key := range typed.keys {
			if index > 0 {
				buffer.WriteByte(',')
			}
			if err := writeString(buffer, key); err != nil {
				return err
			}
			buffer.WriteByte(':')
			if err := writeValue(buffer, typed.values[key], strict); err != nil {
				return fmt.Errorf("key %q: %w", key, err)
			}
		}
		buffer.WriteByte('}')
	case []any:
		if typed == nil {
			buffer.WriteString("null")
			return nil
		}
		buffer.WriteByte('[')
		for index, element := range typed {
			if index > 0 {
				buffer.WriteByte(',')
			}
			if err := writeValue(buffer, element, strict); err != nil {
				return fmt.Errorf("index %d: %w", index, err)
			}
		}
		buffer.WriteByte(']')
	case string:
		return writeString(buffer, typed)
	case bool:
		buffer.WriteString(strconv.FormatBool(typed))
	case int:
		buffer.WriteString(strconv.Itoa(typed))
	case int64:
		buffer.WriteString(strconv.FormatInt(typed, 10))
	case uint64:
		buffer.WriteString(strconv.FormatUint(typed, 10))
	case json.Number:
		buffer.WriteString(string(typed))
	case float64:
		text := formatFloat(typed)
		if strict && (math.IsNaN(typed) || math.IsInf(typed, 0)) {
			return writeString(buffer, text)
		}
		buffer.WriteString(text)
	default:
		encoded, err := json.Marshal(value)
		if err != nil {
			return err
		}
		buffer.Write(encoded)
	}
	return nil
}

func writeString(buffer *bytes.Buffer, text string) error {
	encoded, err := json.Marshal(text)
	if err != nil {
		return err
	}
	buffer.Write(encoded)
	return nil
}
