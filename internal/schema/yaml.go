package schema

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// DecodeYAML reads one record tree from YAML bytes. Selection fields
// accept the same boolean, list and object forms as JSON.
func DecodeYAML(data []byte) (RawProvision, error) {
	var raw RawProvision
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return RawProvision{}, fmt.Errorf("decoding provision record: %w", err)
	}
	return raw, nil
}

// DecodeYAMLList reads a list of record trees from YAML bytes.
func DecodeYAMLList(data []byte) ([]RawProvision, error) {
	var raws []RawProvision
	if err := yaml.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("decoding provision records: %w", err)
	}
	return raws, nil
}

// IndexYAML reads a list of named records from YAML bytes and collects
// them into a name index. Unnamed records are rejected.
func IndexYAML(data []byte) (*NameIndex, error) {
	raws, err := DecodeYAMLList(data)
	if err != nil {
		return nil, err
	}
	idx := NewNameIndex()
	for _, raw := range raws {
		if err := idx.Insert(raw); err != nil {
			return nil, err
		}
	}
	return idx, nil
}
