package relhist

import "github.com/goccy/go-yaml"

// Config holds defaults for the command line flags that tend to repeat
// between runs of the same repository.
type Config struct {
	Branch    string `yaml:"branch,omitempty"`
	CachePath string `yaml:"cache_path,omitempty"`
	Verbose   bool   `yaml:"verbose,omitempty"`
}

// ParseConfigYAML parses the YAML defaults file.
func ParseConfigYAML(file []byte) (*Config, error) {
	result := &Config{}

	if err := yaml.Unmarshal(file, result); err != nil {
		return nil, err
	}

	return result, nil
}
