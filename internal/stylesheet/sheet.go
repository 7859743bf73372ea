// Package stylesheet loads the utility order a project sorts classes by and
// turns it into a class-order context.
//
// A stylesheet is a YAML file listing layers in order, each with its
// utilities in order, plus the known variants. It stands in for a full
// Tailwind build: classes are ranked from the stylesheet alone.
package stylesheet

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/Trapfether/tailwind-raw-reorder/pkg/classorder"
)

//go:embed default.yaml
var defaultStylesheet []byte

// DefaultSeparator separates variants from the utility ("hover:p-4").
const DefaultSeparator = ":"

// maxVariants keeps variant bits inside their slot of the order key; the
// last bit is reserved for arbitrary variants.
const maxVariants = 63

// Sheet is the decoded stylesheet file.
type Sheet struct {
	Prefix    string   `koanf:"prefix" yaml:"prefix"`
	Separator string   `koanf:"separator" yaml:"separator"`
	Variants  []string `koanf:"variants" yaml:"variants"`
	Layers    []Layer  `koanf:"layers" yaml:"layers"`
}

// Layer is an ordered group of utilities.
type Layer struct {
	Name      string    `koanf:"name" yaml:"name"`
	Utilities []Utility `koanf:"utilities" yaml:"utilities,omitempty"`
}

// Utility describes the classes generated at one position.
//
// Without Values, Name and Names are matched exactly. With Values, the class
// is "<name>-<value>" where value is listed or Values contains "*".
type Utility struct {
	Name     string   `koanf:"name" yaml:"name,omitempty"`
	Names    []string `koanf:"names" yaml:"names,omitempty,flow"`
	Values   []string `koanf:"values" yaml:"values,omitempty,flow"`
	Default  bool     `koanf:"default" yaml:"default,omitempty"`
	Negative bool     `koanf:"negative" yaml:"negative,omitempty"`
}

// AllNames returns Name followed by Names.
func (u Utility) AllNames() []string {
	if u.Name == "" {
		return u.Names
	}
	return append([]string{u.Name}, u.Names...)
}

// ErrInvalid is wrapped by validation failures.
var ErrInvalid = errors.New("invalid stylesheet")

// LoadError reports a stylesheet that could not be read or decoded.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load stylesheet %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Load reads and validates the stylesheet at path.
func Load(path string) (*Sheet, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	var s Sheet
	if err := k.Unmarshal("", &s); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	if err := s.Validate(); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return &s, nil
}

// Parse decodes and validates stylesheet YAML.
func Parse(data []byte) (*Sheet, error) {
	var s Sheet
	if err := yamlv3.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode stylesheet: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Default returns the built-in stylesheet.
func Default() *Sheet {
	s, err := Parse(defaultStylesheet)
	if err != nil {
		panic(fmt.Sprintf("built-in stylesheet: %v", err))
	}
	return s
}

// DefaultYAML returns the built-in stylesheet source, comments included.
func DefaultYAML() []byte {
	return append([]byte(nil), defaultStylesheet...)
}

// Marshal encodes the sheet as YAML.
func (s *Sheet) Marshal() ([]byte, error) {
	return yamlv3.Marshal(s)
}

// Validate checks the sheet and fills defaults.
func (s *Sheet) Validate() error {
	if s.Separator == "" {
		s.Separator = DefaultSeparator
	}
	if len(s.Layers) == 0 {
		return fmt.Errorf("%w: no layers", ErrInvalid)
	}
	if len(s.Variants) > maxVariants {
		return fmt.Errorf("%w: %d variants, at most %d supported", ErrInvalid, len(s.Variants), maxVariants)
	}

	seen := make(map[string]bool, len(s.Variants))
	for _, v := range s.Variants {
		if v == "" {
			return fmt.Errorf("%w: empty variant name", ErrInvalid)
		}
		if seen[v] {
			return fmt.Errorf("%w: duplicate variant %q", ErrInvalid, v)
		}
		seen[v] = true
	}

	layers := make(map[string]bool, len(s.Layers))
	for i, l := range s.Layers {
		if l.Name == "" {
			return fmt.Errorf("%w: layer %d has no name", ErrInvalid, i)
		}
		if layers[l.Name] {
			return fmt.Errorf("%w: duplicate layer %q", ErrInvalid, l.Name)
		}
		layers[l.Name] = true

		for j, u := range l.Utilities {
			if len(u.AllNames()) == 0 {
				return fmt.Errorf("%w: layer %q utility %d has no name", ErrInvalid, l.Name, j)
			}
			if len(u.Values) > 0 && len(u.Names) > 0 {
				return fmt.Errorf("%w: layer %q utility %d: values need a single name", ErrInvalid, l.Name, j)
			}
		}
	}
	if !layers[classorder.ComponentsLayer] {
		return fmt.Errorf("%w: no %q layer", ErrInvalid, classorder.ComponentsLayer)
	}
	return nil
}
