// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package catalog loads problem-statement candidates from JSON or YAML files.
package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/poiesic/psenrich/core"
	"gopkg.in/yaml.v3"
)

// Format identifies the encoding of a catalog document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var (
	// ErrNotAList is returned when the top-level document is not a list.
	ErrNotAList = errors.New("catalog: top-level document is not a list")

	// ErrUnsupportedFormat is returned for file extensions other than
	// .json, .yaml and .yml.
	ErrUnsupportedFormat = errors.New("catalog: unsupported format")
)

// FormatFor picks the format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Load reads and parses the catalog at path.
func Load(path string) ([]core.Candidate, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	candidates, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return candidates, nil
}

// Parse decodes data as a list of candidates.
// Elements are not validated here; the pipeline reports invalid ones per item.
func Parse(data []byte, format Format) ([]core.Candidate, error) {
	switch format {
	case FormatJSON:
		return parseJSON(data)
	case FormatYAML:
		return parseYAML(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func parseJSON(data []byte) ([]core.Candidate, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		if len(trimmed) > 0 && !json.Valid(trimmed) {
			return nil, errors.New("catalog: decode json: invalid document")
		}
		return nil, ErrNotAList
	}

	var candidates []core.Candidate
	if err := json.Unmarshal(trimmed, &candidates); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	if candidates == nil {
		candidates = []core.Candidate{}
	}
	return candidates, nil
}

func parseYAML(data []byte) ([]core.Candidate, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.SequenceNode {
		return nil, ErrNotAList
	}

	candidates := []core.Candidate{}
	if err := doc.Content[0].Decode(&candidates); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return candidates, nil
}
