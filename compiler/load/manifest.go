package load

import (
	"fmt"
	"go/token"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DefaultManifest is the manifest file name looked up by the CLI.
const DefaultManifest = "atomflag.yaml"

// Manifest is the declarative alternative to comment directives.
//
//	types:
//	  - name: Perm
//	  - name: Status
//	    package: example.com/app/status
//	    ownership: Arc
type Manifest struct {
	Types []*ManifestType `yaml:"types"`
	// path of the file the manifest was read from, if any.
	path string
}

// ManifestType configures one flag-set type.
type ManifestType struct {
	// Name of the Go type.
	Name string `yaml:"name"`
	// Package optionally restricts the lookup to one import path.
	Package string `yaml:"package,omitempty"`
	// Ownership is kept as a raw node, so that a non-string value is
	// reported by the resolver instead of being coerced here.
	Ownership yaml.Node `yaml:"ownership,omitempty"`

	line int
}

// UnmarshalYAML records the entry position.
func (t *ManifestType) UnmarshalYAML(value *yaml.Node) error {
	type plain ManifestType
	if err := value.Decode((*plain)(t)); err != nil {
		return err
	}
	t.line = value.Line
	return nil
}

// ReadManifest reads and decodes a manifest file.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	m.path = path
	return m, nil
}

// ParseManifest decodes manifest data.
func ParseManifest(data []byte) (*Manifest, error) {
	m := &Manifest{}
	if err := yaml.Unmarshal(data, m); err != nil {
		return nil, err
	}
	for i, t := range m.Types {
		if t == nil || t.Name == "" {
			return nil, fmt.Errorf("types[%d]: missing name", i)
		}
	}
	return m, nil
}

// Directive converts the entry into a directive with the same meaning as
// the equivalent comment. A missing ownership key yields empty arguments.
func (t *ManifestType) Directive(m *Manifest) *Directive {
	d := &Directive{
		Source: SourceManifest,
		Pos:    token.Position{Filename: m.path, Line: t.line},
	}
	n := &t.Ownership
	switch {
	case n.Kind == 0:
	case n.Kind == yaml.ScalarNode && n.Tag == "!!str":
		d.Args = "ownership=" + strconv.Quote(n.Value)
	case n.Kind == yaml.ScalarNode:
		// Numbers stay literals, booleans and null become identifiers.
		d.Args = "ownership=" + n.Value
	default:
		d.Args = "ownership=struct{}{}"
	}
	if n.Line > 0 {
		d.Pos.Line = n.Line
	}
	return d
}
