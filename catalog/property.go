package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hugr-lab/gridfilter/predicate"
)

// propertySet is the read-only path index shared by entity implementations.
type propertySet struct {
	props       map[string]predicate.Property
	unsupported map[string]error
	order       []string
	rejected    []string
}

func newPropertySet() *propertySet {
	return &propertySet{
		props:       make(map[string]predicate.Property),
		unsupported: make(map[string]error),
	}
}

func (s *propertySet) add(p predicate.Property) {
	if _, ok := s.props[p.Path]; !ok {
		s.order = append(s.order, p.Path)
	}
	s.props[p.Path] = p
}

func (s *propertySet) reject(path string, err error) {
	if _, ok := s.unsupported[path]; !ok {
		s.rejected = append(s.rejected, path)
	}
	s.unsupported[path] = err
}

func (s *propertySet) seal() {
	sort.Strings(s.order)
	sort.Strings(s.rejected)
}

// resolve looks a path up exactly first, then ignoring case. The returned
// property carries the canonical path.
func (s *propertySet) resolve(entity, path string) (predicate.Property, error) {
	if p, ok := s.props[path]; ok {
		return p, nil
	}
	if err, ok := s.unsupported[path]; ok {
		return predicate.Property{}, err
	}
	for _, name := range s.order {
		if strings.EqualFold(name, path) {
			return s.props[name], nil
		}
	}
	for _, name := range s.rejected {
		if strings.EqualFold(name, path) {
			return predicate.Property{}, s.unsupported[name]
		}
	}
	return predicate.Property{}, fmt.Errorf("property %s of %s: %w", path, entity, ErrNotFound)
}

func (s *propertySet) list() []predicate.Property {
	out := make([]predicate.Property, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.props[name])
	}
	return out
}

// PropertyEntity is an entity described by an explicit property map.
type PropertyEntity struct {
	name    string
	comment string
	props   *propertySet
}

// NewPropertyEntity creates an entity from a path to property map.
// Map keys are dotted property paths. The Path field of each property is
// set from its key.
func NewPropertyEntity(name, comment string, props map[string]predicate.Property) (*PropertyEntity, error) {
	if name == "" {
		return nil, fmt.Errorf("entity name cannot be empty")
	}
	set := newPropertySet()
	for path, p := range props {
		if path == "" {
			return nil, fmt.Errorf("entity %s: property path cannot be empty", name)
		}
		if !p.Type.IsValid() || p.Type == predicate.TypeCollection {
			return nil, fmt.Errorf("entity %s: property %s: %w %q", name, path, ErrUnsupportedType, p.Type)
		}
		p.Path = path
		set.add(p)
	}
	set.seal()
	return &PropertyEntity{name: name, comment: comment, props: set}, nil
}

// Name implements Entity interface.
func (e *PropertyEntity) Name() string {
	return e.name
}

// Comment implements Entity interface.
func (e *PropertyEntity) Comment() string {
	return e.comment
}

// Resolve implements predicate.Accessor.
func (e *PropertyEntity) Resolve(path string) (predicate.Property, error) {
	return e.props.resolve(e.name, path)
}

// Properties implements Entity interface.
func (e *PropertyEntity) Properties() []predicate.Property {
	return e.props.list()
}
