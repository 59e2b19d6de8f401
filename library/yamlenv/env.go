// Package yamlenv provides YAML scalars that may reference environment
// variables as ${NAME} or ${NAME:default}.
package yamlenv

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

var reference = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::([^}]*))?\}`)

// Env is a config value resolved once at load time.
type Env[T any] struct {
	Raw   string
	Value T
}

// New wraps an already known value, mostly for tests and defaults.
func New[T any](v T) *Env[T] {
	return &Env[T]{Raw: fmt.Sprint(v), Value: v}
}

func (e *Env[T]) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected scalar value, got kind %d", node.Line, node.Kind)
	}

	e.Raw = node.Value
	resolved := Expand(node.Value)

	var value T
	if resolved != "" {
		scalar := yaml.Node{Kind: yaml.ScalarNode, Value: resolved}
		if err := scalar.Decode(&value); err != nil {
			return fmt.Errorf("line %d: decode %q: %w", node.Line, resolved, err)
		}
	}

	e.Value = value

	return nil
}

// Expand substitutes every ${NAME[:default]} reference in s. An unset or empty
// variable yields its default, or "" when there is none.
func Expand(s string) string {
	return reference.ReplaceAllStringFunc(s, func(m string) string {
		parts := reference.FindStringSubmatch(m)

		if v, ok := os.LookupEnv(parts[1]); ok && v != "" {
			return v
		}

		return parts[2]
	})
}
