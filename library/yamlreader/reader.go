package yamlreader

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type validator interface {
	Validate() error
}

// NewConfig reads a YAML file into T. If *T implements Validate, it is called
// after decoding.
func NewConfig[T any](path string) (*T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile: %w", err)
	}

	cfg := new(T)
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("yaml.Unmarshal %s: %w", path, err)
	}

	if v, ok := any(cfg).(validator); ok {
		if err := v.Validate(); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	}

	return cfg, nil
}
