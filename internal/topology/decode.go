package topology

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/Bnaya/typescript-monorepo-toolkit/internal/workspace"
)

// envelope is the line yarn prints when it is not silenced, with the real
// mapping string-encoded in Data.
type envelope struct {
	Type string  `json:"type"`
	Data *string `json:"data"`
}

// Decode parses the package mapping. The payload is decoded directly first;
// when that fails it is treated as an envelope and one layer of
// string-encoded JSON is unwrapped from its "data" field.
func Decode(b []byte) (map[string]workspace.PackageRecord, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil, errors.New("empty workspace info")
	}

	direct, directErr := decodeMapping(b)
	if directErr == nil {
		return direct, nil
	}

	var env envelope
	if err := json.Unmarshal(b, &env); err != nil || env.Data == nil {
		return nil, fmt.Errorf("decode workspace info: %w", directErr)
	}
	wrapped, err := decodeMapping([]byte(*env.Data))
	if err != nil {
		return nil, fmt.Errorf("decode workspace info data field: %w", err)
	}
	return wrapped, nil
}

// DecodeYAML parses a hand-maintained mapping written in YAML, with the
// same keys as the JSON form.
func DecodeYAML(b []byte) (map[string]workspace.PackageRecord, error) {
	var m map[string]workspace.PackageRecord
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("decode workspace info: %w", err)
	}
	return named(m)
}

func decodeMapping(b []byte) (map[string]workspace.PackageRecord, error) {
	var m map[string]workspace.PackageRecord
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return named(m)
}

func named(m map[string]workspace.PackageRecord) (map[string]workspace.PackageRecord, error) {
	if m == nil {
		return nil, errors.New("workspace info is empty")
	}
	for name, rec := range m {
		rec.Name = name
		m[name] = rec
	}
	return m, nil
}
