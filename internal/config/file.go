package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// loadFile overlays the YAML document at path onto c. Keys missing from
// the file keep their current values.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("[config loadFile] read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("[config loadFile] parse %s: %w", path, err)
	}
	c.Database.Driver = normaliseDriver(c.Database.Driver)
	return nil
}
