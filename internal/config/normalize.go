package config

import (
	"fmt"
	"sort"
	"strings"
)

// enum maps loosely written config strings onto typed values.
type enum[T comparable] struct {
	values map[string]T
	def    T
	keys   []string
}

func newEnum[T comparable](values map[string]T, def T) *enum[T] {
	e := &enum[T]{values: make(map[string]T, len(values)), def: def}
	for k, v := range values {
		k = normalizeKey(k)
		e.values[k] = v
		e.keys = append(e.keys, k)
	}
	sort.Strings(e.keys)
	return e
}

// normalize returns the matching value, or the default for blank or unknown input.
func (e *enum[T]) normalize(raw string) T {
	if v, ok := e.values[normalizeKey(raw)]; ok {
		return v
	}
	return e.def
}

// parse is like normalize but rejects unknown non-blank input.
func (e *enum[T]) parse(raw string) (T, error) {
	key := normalizeKey(raw)
	if key == "" {
		return e.def, nil
	}
	if v, ok := e.values[key]; ok {
		return v, nil
	}
	var zero T
	return zero, fmt.Errorf("invalid value %q, valid options: %v", raw, e.keys)
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
