package manifest

import (
	"fmt"

	"go.yaml.in/yaml/v3"
)

// Decode converts a validated manifest into its typed view.
func Decode(m Manifest) (*Analysis, error) {
	data, err := yaml.Marshal(map[string]any(m))
	if err != nil {
		return nil, fmt.Errorf("encoding manifest: %w", err)
	}

	var a Analysis
	if err := yaml.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decoding manifest: %w", err)
	}
	return &a, nil
}

// parse decodes manifest bytes into plain maps, slices, and scalars, so
// untrusted input cannot construct arbitrary values. Any YAML document is
// accepted here; its shape is left to the schema.
func parse(data []byte) (any, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}
