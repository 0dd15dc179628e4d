/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package refdb

import (
	"bytes"
	"fmt"
	"strconv"
	"unicode"
	"unicode/utf16"

	"gopkg.in/yaml.v3"
)

const (
	fieldsKey      = "fields"
	legacyOrderKey = "legacy_order"
	typeKey        = "type"
)

// yamlEscapes rewrites the JSON string escapes that YAML double quoted
// scalars do not know: `\/` becomes `/`, a UTF-16 surrogate pair becomes
// a single `\U` escape and a lone surrogate becomes U+FFFD, the way
// encoding/json reads it. Other escapes mean the same in both.
func yamlEscapes(raw []byte) []byte {
	if bytes.IndexByte(raw, '\\') < 0 {
		return raw
	}
	out := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] != '\\' || i+1 == len(raw) {
			out = append(out, raw[i])
			continue
		}
		switch raw[i+1] {
		case '/':
			out = append(out, '/')
			i++
		case 'u':
			r1, ok := hex4(raw, i+2)
			if !ok || !utf16.IsSurrogate(r1) {
				out = append(out, raw[i:i+2]...)
				i++
				continue
			}
			if r2, ok := hex4(raw, i+8); ok && raw[i+6] == '\\' && raw[i+7] == 'u' {
				if r := utf16.DecodeRune(r1, r2); r != unicode.ReplacementChar {
					out = append(out, fmt.Sprintf("\\U%08X", r)...)
					i += 11
					continue
				}
			}
			out = append(out, `\uFFFD`...)
			i += 5
		default:
			out = append(out, raw[i:i+2]...)
			i++
		}
	}
	return out
}

// hex4 decodes the four hex digits at raw[at:]
func hex4(raw []byte, at int) (rune, bool) {
	if at+4 > len(raw) {
		return 0, false
	}
	v, err := strconv.ParseUint(string(raw[at:at+4]), 16, 32)
	if err != nil {
		return 0, false
	}
	return rune(v), true
}

// parseDocument parses one JSON object keeping the order of keys.
// JSON is a subset of YAML and yaml.Node preserves mapping order,
// which a Go map would lose.
func parseDocument(raw []byte) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(yamlEscapes(raw), &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 {
		return nil, fmt.Errorf("expected a single object")
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("expected an object, got %s", kindName(root.Kind))
	}
	return root, nil
}

func kindName(kind yaml.Kind) string {
	switch kind {
	case yaml.SequenceNode:
		return "an array"
	case yaml.MappingNode:
		return "an object"
	case yaml.ScalarNode:
		return "a scalar"
	case yaml.AliasNode:
		return "an alias"
	default:
		return "nothing"
	}
}

// mappingValue returns the value of key in a mapping node or nil
func mappingValue(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

func parseMask(s string) (uint32, error) {
	mask, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("mask %q is not a 32 bit decimal number", s)
	}
	if mask == 0 {
		return 0, fmt.Errorf("mask must not be zero")
	}
	return uint32(mask), nil
}

// parseFields parses the field map of a port. In legacy mode numeric
// types are converted to their symbolic names and counted in stats.
func parseFields(tag string, node *yaml.Node, legacy *MigrateStats) ([]Field, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("port %s: fields must be an object, got %s", tag, kindName(node.Kind))
	}
	fields := make([]Field, 0, len(node.Content)/2)
	seen := make(map[uint32]bool, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		mask, err := parseMask(key.Value)
		if err != nil {
			return nil, fmt.Errorf("port %s: %w", tag, err)
		}
		if seen[mask] {
			return nil, fmt.Errorf("port %s: mask %d listed twice", tag, mask)
		}
		seen[mask] = true
		if value.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("port %s mask %d: field must be an object, got %s", tag, mask, kindName(value.Kind))
		}
		field := Field{Mask: mask}
		if typeNode := mappingValue(value, typeKey); typeNode != nil && typeNode.ShortTag() == "!!int" {
			if legacy == nil {
				return nil, fmt.Errorf("port %s mask %d: numeric type %s, the export may need `go-inp refdb migrate`", tag, mask, typeNode.Value)
			}
			ordinal, err := strconv.Atoi(typeNode.Value)
			if err != nil {
				return nil, fmt.Errorf("port %s mask %d: type: %w", tag, mask, err)
			}
			name, ok := IoportTypeName(ordinal)
			if !ok {
				return nil, fmt.Errorf("port %s mask %d: unknown type ordinal %d", tag, mask, ordinal)
			}
			typeNode.Tag, typeNode.Value, typeNode.Style = "!!str", name, 0
			legacy.ConvertedTypes++
		}
		if err := value.Decode(&field.FieldMeta); err != nil {
			return nil, fmt.Errorf("port %s mask %d: %w", tag, mask, err)
		}
		fields = append(fields, field)
	}
	return fields, nil
}

func parsePort(tag string, node *yaml.Node, legacy *MigrateStats) (PortRef, error) {
	port := PortRef{Tag: tag}
	if node.Kind != yaml.MappingNode {
		return port, fmt.Errorf("port %s must be an object, got %s", tag, kindName(node.Kind))
	}
	fieldsNode := mappingValue(node, fieldsKey)
	if fieldsNode == nil {
		if legacy == nil {
			return port, fmt.Errorf("port %s has no %q map, the export may need `go-inp refdb migrate`", tag, fieldsKey)
		}
		// unwrapped port: the node is the field map itself
		legacy.WrappedPorts++
		fields, err := parseFields(tag, node, legacy)
		port.Fields = fields
		return port, err
	}
	fields, err := parseFields(tag, fieldsNode, legacy)
	if err != nil {
		return port, err
	}
	port.Fields = fields

	if orderNode := mappingValue(node, legacyOrderKey); orderNode != nil && orderNode.ShortTag() != "!!null" {
		var order int
		if err := orderNode.Decode(&order); err != nil {
			return port, fmt.Errorf("port %s: %s: %w", tag, legacyOrderKey, err)
		}
		port.LegacyOrder = &order
	}
	return port, nil
}

// parseMachine parses the canonical JSON entry of one machine
func parseMachine(name string, raw []byte) (*Machine, error) {
	return parseEntry(name, raw, nil)
}

func parseEntry(name string, raw []byte, legacy *MigrateStats) (*Machine, error) {
	root, err := parseDocument(raw)
	if err != nil {
		return nil, ErrUnsupportedGame{Machine: name, Reason: fmt.Sprintf("malformed reference entry: %s", err)}
	}

	machine := &Machine{Name: name}
	seen := make(map[string]bool, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		tag := root.Content[i].Value
		if seen[tag] {
			return nil, ErrUnsupportedGame{Machine: name, Reason: fmt.Sprintf("malformed reference entry: port %s listed twice", tag)}
		}
		seen[tag] = true
		port, err := parsePort(tag, root.Content[i+1], legacy)
		if err != nil {
			return nil, ErrUnsupportedGame{Machine: name, Reason: fmt.Sprintf("malformed reference entry: %s", err)}
		}
		machine.Ports = append(machine.Ports, port)
	}
	return machine, nil
}
