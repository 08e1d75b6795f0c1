package config

// Flatten converts a nested Mapping into dotted keys. Nested mappings are
// walked depth-first in document order and a later write to the same key
// replaces an earlier one. Lists are stored as opaque values.
func Flatten(m Mapping) map[string]any {
	out := make(map[string]any)
	flatten("", m, out)
	return out
}

func flatten(prefix string, m Mapping, into map[string]any) {
	for _, e := range m {
		fullKey := e.Key
		if prefix != "" {
			fullKey = prefix + "." + e.Key
		}

		if nested, ok := e.Value.(Mapping); ok {
			flatten(fullKey, nested, into)
			continue
		}
		into[fullKey] = e.Value
	}
}
