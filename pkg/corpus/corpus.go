// Package corpus loads timespan corpora from YAML or JSON documents into
// a spantree index. JSON input is validated against the embedded corpus
// schema before decoding; YAML trades schema validation for readability
// and relies on the same structural checks during building.
package corpus

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/spantree/pkg/offset"
	"github.com/Sumatoshi-tech/spantree/pkg/spantree"
)

//go:embed schema.json
var schemaBytes []byte

// Sentinel errors.
var (
	ErrUnsupportedFormat = errors.New("unsupported corpus format")
	ErrSchemaViolation   = errors.New("corpus does not match schema")
	ErrNoGroups          = errors.New("corpus has no groups")
	ErrUnnamedGroup      = errors.New("corpus group has no name")
)

// Document is the on-disk corpus shape: named groups of timed events.
type Document struct {
	Title  string  `json:"title,omitempty" yaml:"title,omitempty"`
	Groups []Group `json:"groups"          yaml:"groups"`
}

// Group is one voice or layer of the corpus.
type Group struct {
	Name   string  `json:"name"   yaml:"name"`
	Events []Event `json:"events" yaml:"events"`
}

// Event is a single timed entry. Start and Stop are exact rational
// offsets in the textual forms offset.Parse accepts ("3", "3/2", "1.5").
type Event struct {
	Start  string          `json:"start"            yaml:"start"`
	Stop   string          `json:"stop"             yaml:"stop"`
	Values []spantree.Value `json:"values,omitempty" yaml:"values,omitempty"`
}

// LoadFile reads a corpus document from path, dispatching on extension:
// .json is schema-validated, .yaml and .yml decode directly.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return ParseJSON(data)
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// ParseJSON validates data against the corpus schema, then decodes it.
func ParseJSON(data []byte) (*Document, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaBytes),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("validate corpus: %w", err)
	}

	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, verr := range result.Errors() {
			details = append(details, fmt.Sprintf("%s: %s", verr.Field(), verr.Description()))
		}

		return nil, fmt.Errorf("%w: %s", ErrSchemaViolation, strings.Join(details, "; "))
	}

	var doc Document

	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode corpus: %w", err)
	}

	return &doc, nil
}

// ParseYAML decodes a YAML corpus document.
func ParseYAML(data []byte) (*Document, error) {
	var doc Document

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode corpus: %w", err)
	}

	return &doc, nil
}

// Build converts the document into a populated index. Every event becomes
// a value-carrying timespan owned by its group.
func (d *Document) Build(opts ...spantree.IndexOption) (*spantree.Index, error) {
	if len(d.Groups) == 0 {
		return nil, ErrNoGroups
	}

	ix := spantree.NewIndex(opts...)

	for _, group := range d.Groups {
		if group.Name == "" {
			return nil, ErrUnnamedGroup
		}

		for i, event := range group.Events {
			payload, err := event.payload(spantree.GroupID(group.Name))
			if err != nil {
				return nil, fmt.Errorf("group %s event %d: %w", group.Name, i, err)
			}

			if err := ix.InsertPayloads(payload); err != nil {
				return nil, fmt.Errorf("group %s event %d: %w", group.Name, i, err)
			}
		}
	}

	return ix, nil
}

func (e Event) payload(group spantree.GroupID) (spantree.Payload, error) {
	start, err := offset.Parse(e.Start)
	if err != nil {
		return nil, fmt.Errorf("start %q: %w", e.Start, err)
	}

	stop, err := offset.Parse(e.Stop)
	if err != nil {
		return nil, fmt.Errorf("stop %q: %w", e.Stop, err)
	}

	return spantree.NewValueSpan(start, stop, group, e.Values...), nil
}
