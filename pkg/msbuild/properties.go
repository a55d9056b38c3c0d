package msbuild

import "github.com/iancoleman/orderedmap"

// Properties is an insertion-ordered string-to-string bag, the shape MSBuild
// evaluation hands out for both rule properties and item metadata. Lookup of
// an absent name is a routine case (optional metadata), so Get reports
// presence instead of panicking or returning a sentinel value.
type Properties struct {
	om *orderedmap.OrderedMap
}

func NewProperties() *Properties {
	return &Properties{om: orderedmap.New()}
}

// Set records a value, keeping the position of an already-present name.
func (p *Properties) Set(name, value string) {
	p.om.Set(name, value)
}

func (p *Properties) Get(name string) (string, bool) {
	if p == nil || p.om == nil {
		return "", false
	}
	v, ok := p.om.Get(name)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Names returns the property names in insertion order.
func (p *Properties) Names() []string {
	if p == nil || p.om == nil {
		return nil
	}
	return p.om.Keys()
}

func (p *Properties) Len() int {
	if p == nil || p.om == nil {
		return 0
	}
	return len(p.om.Keys())
}

// Clone returns an independent copy. Descriptors built by the aggregator
// always clone their inputs so the result never aliases event data.
func (p *Properties) Clone() *Properties {
	c := NewProperties()
	if p == nil || p.om == nil {
		return c
	}
	for _, name := range p.om.Keys() {
		if v, ok := p.Get(name); ok {
			c.Set(name, v)
		}
	}
	return c
}

// MarshalJSON emits the bag as a JSON object in insertion order, which keeps
// serialized nominations byte-stable across runs over the same input.
func (p *Properties) MarshalJSON() ([]byte, error) {
	if p == nil || p.om == nil {
		return []byte("{}"), nil
	}
	return p.om.MarshalJSON()
}
