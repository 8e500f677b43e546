package agent

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// descriptorFile is the on-disk shape of an agents.yaml file.
type descriptorFile struct {
	Agents []Descriptor `yaml:"agents"`
}

// LoadFile reads user agent descriptors from a YAML file.
//
//	agents:
//	  - name: goose
//	    patterns: ["goose"]
//	    waiting: ["approve this plan"]
//
// A missing file is not an error; it just yields no descriptors.
func LoadFile(path string) ([]Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading agents file: %w", err)
	}

	var f descriptorFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing agents file %s: %w", path, err)
	}
	return f.Agents, nil
}
