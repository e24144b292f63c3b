package commons

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"cafeteria/internal/config"
)

// LoadConfig reads a YAML file on top of config.Defaults, so keys missing
// from the file keep their default value.
func LoadConfig(path string) (*config.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := config.Defaults()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return &cfg, nil
}
