// Package diffscript reads YAML scripts of list diffs.
//
// A script names its format version and lists one diff per step:
//
//	format: v1.0.0
//	steps:
//	  - set: [inbox, drafts, sent]
//	  - append: [archive]
//	  - move_up: 1
//	  - move_down: 0
//
// Scripts are used to replay a sequence of diffs against a store, for
// example to reproduce what a list view observed.
package diffscript

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/liststore/pkg/liststore"
)

// FormatVersion is the newest script format this package understands.
const FormatVersion = "v1.0.0"

// Script is a decoded diff script.
type Script struct {
	Format string `yaml:"format"`
	Steps  []Step `yaml:"steps"`
}

// Step is a single diff. Items holds the raw values of set and append
// steps; Index holds the position of move steps.
type Step struct {
	Kind  liststore.DiffKind
	Items []string
	Index int
	// Line is the line of the step in the source, when known.
	Line int
}

var stepKeys = map[string]liststore.DiffKind{
	"set":       liststore.DiffSet,
	"append":    liststore.DiffAppend,
	"move_up":   liststore.DiffMoveUp,
	"move_down": liststore.DiffMoveDown,
}

// UnmarshalYAML decodes a step mapping holding exactly one diff key.
func (s *Step) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: step must be a mapping", node.Line)
	}
	if len(node.Content) != 2 {
		return fmt.Errorf("line %d: step must have exactly one key, got %d", node.Line, len(node.Content)/2)
	}
	key, value := node.Content[0], node.Content[1]
	kind, ok := stepKeys[key.Value]
	if !ok {
		return fmt.Errorf("line %d: unknown step %q", key.Line, key.Value)
	}

	*s = Step{Kind: kind, Line: key.Line}
	switch kind {
	case liststore.DiffSet, liststore.DiffAppend:
		if err := value.Decode(&s.Items); err != nil {
			return fmt.Errorf("line %d: %s expects a list: %w", value.Line, key.Value, err)
		}
	default:
		if err := value.Decode(&s.Index); err != nil {
			return fmt.Errorf("line %d: %s expects an index: %w", value.Line, key.Value, err)
		}
		if s.Index < 0 {
			return fmt.Errorf("line %d: %s index must not be negative", value.Line, key.Value)
		}
	}
	return nil
}

// MarshalYAML encodes the step as a single-key mapping.
func (s Step) MarshalYAML() (any, error) {
	switch s.Kind {
	case liststore.DiffSet, liststore.DiffAppend:
		items := s.Items
		if items == nil {
			items = []string{}
		}
		return map[string][]string{s.Kind.String(): items}, nil
	case liststore.DiffMoveUp, liststore.DiffMoveDown:
		return map[string]int{s.Kind.String(): s.Index}, nil
	default:
		return nil, fmt.Errorf("unknown step kind %s", s.Kind)
	}
}

// Decode reads a script from r and checks its format version.
func Decode(r io.Reader) (*Script, error) {
	var script Script
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&script); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("empty script")
		}
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	if err := checkFormat(script.Format); err != nil {
		return nil, err
	}
	return &script, nil
}

// Load reads and decodes the script at path.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	script, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return script, nil
}

// Encode writes the script as YAML.
func Encode(w io.Writer, script *Script) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(script); err != nil {
		return err
	}
	return enc.Close()
}

func checkFormat(format string) error {
	if format == "" {
		return fmt.Errorf("script format is required (use %s)", FormatVersion)
	}
	if !semver.IsValid(format) {
		return fmt.Errorf("script format %q is not a semantic version", format)
	}
	if semver.Major(format) != semver.Major(FormatVersion) {
		return fmt.Errorf("unsupported script format %s (want %s.x)", format, semver.Major(FormatVersion))
	}
	if semver.Compare(format, FormatVersion) > 0 {
		return fmt.Errorf("script format %s is newer than supported %s", format, FormatVersion)
	}
	return nil
}
