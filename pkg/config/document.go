package config

import (
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ajitpratap0/strata/pkg/json"
)

// Entry is one key/value pair of a Mapping.
type Entry struct {
	Key   string
	Value any
}

// Mapping is an ordered document node. Values are scalars (string, int,
// int64, uint64, float64, bool, nil), nested Mappings, or opaque []any lists.
type Mapping []Entry

// Get returns the last value stored under key.
func (m Mapping) Get(key string) (any, bool) {
	for i := len(m) - 1; i >= 0; i-- {
		if m[i].Key == key {
			return m[i].Value, true
		}
	}
	return nil, false
}

// Decoder parses a whole document. A document without content (empty, only
// comments, or an explicit null) decodes to a nil Mapping and no error.
type Decoder interface {
	Decode(data []byte) (Mapping, error)
}

// DecoderFunc adapts a function to Decoder.
type DecoderFunc func(data []byte) (Mapping, error)

// Decode implements Decoder.
func (f DecoderFunc) Decode(data []byte) (Mapping, error) { return f(data) }

var (
	// YAML decodes YAML documents, keeping key order.
	YAML Decoder = DecoderFunc(decodeYAML)
	// JSON decodes JSON documents. Object keys are sorted.
	JSON Decoder = DecoderFunc(decodeJSON)
)

func defaultDecoders() map[string]Decoder {
	return map[string]Decoder{
		".yaml": YAML,
		".yml":  YAML,
		".json": JSON,
	}
}

// documentExt returns the lowercased extension used to pick a decoder.
func documentExt(name string) string {
	return strings.ToLower(path.Ext(name))
}

func decodeYAML(data []byte) (Mapping, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, nil
	}

	root := doc.Content[0]
	for root.Kind == yaml.AliasNode {
		root = root.Alias
	}
	switch {
	case root.Kind == yaml.MappingNode:
		return yamlMapping(root)
	case root.Kind == yaml.ScalarNode && root.ShortTag() == "!!null":
		return nil, nil
	default:
		return nil, fmt.Errorf("line %d: top-level value must be a mapping", root.Line)
	}
}

func yamlMapping(n *yaml.Node) (Mapping, error) {
	var merged, explicit Mapping
	seen := make(map[string]bool)

	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]

		if k.Kind == yaml.ScalarNode && k.ShortTag() == "!!merge" {
			entries, err := yamlMergeEntries(v)
			if err != nil {
				return nil, err
			}
			merged = append(merged, entries...)
			continue
		}

		if k.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: mapping keys must be scalars", k.Line)
		}
		val, err := yamlValue(v)
		if err != nil {
			return nil, err
		}
		explicit = append(explicit, Entry{Key: k.Value, Value: val})
		seen[k.Value] = true
	}

	if len(merged) == 0 {
		if explicit == nil {
			return Mapping{}, nil
		}
		return explicit, nil
	}

	// Explicit keys replace merged ones; among merged sources the first wins.
	out := make(Mapping, 0, len(merged)+len(explicit))
	for _, e := range merged {
		if seen[e.Key] {
			continue
		}
		seen[e.Key] = true
		out = append(out, e)
	}
	return append(out, explicit...), nil
}

func yamlMergeEntries(v *yaml.Node) (Mapping, error) {
	for v.Kind == yaml.AliasNode {
		v = v.Alias
	}
	switch v.Kind {
	case yaml.MappingNode:
		return yamlMapping(v)
	case yaml.SequenceNode:
		var out Mapping
		for _, item := range v.Content {
			entries, err := yamlMergeEntries(item)
			if err != nil {
				return nil, err
			}
			out = append(out, entries...)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("line %d: merge value must be a mapping or a list of mappings", v.Line)
	}
}

func yamlValue(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return yamlValue(n.Alias)
	case yaml.MappingNode:
		return yamlMapping(n)
	case yaml.SequenceNode:
		items := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := yamlValue(c)
			if err != nil {
				return nil, err
			}
			if m, ok := v.(Mapping); ok {
				v = m.plain()
			}
			items = append(items, v)
		}
		return items, nil
	default:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return v, nil
	}
}

// plain converts m into nested map[string]any, for values kept opaque.
func (m Mapping) plain() map[string]any {
	out := make(map[string]any, len(m))
	for _, e := range m {
		if nested, ok := e.Value.(Mapping); ok {
			out[e.Key] = nested.plain()
			continue
		}
		out[e.Key] = e.Value
	}
	return out
}

func decodeJSON(data []byte) (Mapping, error) {
	v, err := json.Decode(data)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}

	switch top := v.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return jsonMapping(top), nil
	default:
		return nil, fmt.Errorf("top-level value must be an object, got %T", v)
	}
}

func jsonMapping(obj map[string]any) Mapping {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	m := make(Mapping, 0, len(keys))
	for _, k := range keys {
		v := obj[k]
		if nested, ok := v.(map[string]any); ok {
			m = append(m, Entry{Key: k, Value: jsonMapping(nested)})
			continue
		}
		m = append(m, Entry{Key: k, Value: jsonValue(v)})
	}
	return m
}

func jsonValue(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := strconv.ParseInt(t.String(), 10, 64); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(t.String(), 64); err == nil {
			return f
		}
		return t.String()
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = jsonValue(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = jsonValue(item)
		}
		return out
	default:
		return v
	}
}
