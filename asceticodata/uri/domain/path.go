package uri

import "strings"

// Parameter is a key predicate or an operation parameter: a name bound
// either to a value or to a parameter alias.
type Parameter struct {
	name       string
	text       string
	expression Expression
	alias      string
}

func NewParameter(name, text string, expression Expression) Parameter {
	return Parameter{
		name:       name,
		text:       text,
		expression: expression,
	}
}

func NewAliasParameter(name, alias string) Parameter {
	return Parameter{
		name:  name,
		alias: alias,
	}
}

func (p Parameter) Name() string {
	return p.name
}

func (p Parameter) Text() string {
	return p.text
}

func (p Parameter) Expression() Expression {
	return p.expression
}

// Alias is the referenced alias name without "@", empty for a value.
func (p Parameter) Alias() string {
	return p.alias
}

func (p Parameter) String() string {
	if p.alias != "" {
		return p.name + "=@" + p.alias
	}
	return p.name + "=" + p.text
}

// ResourcePath is an immutable sequence of resolved segments.
type ResourcePath struct {
	segments []Segment
}

func NewResourcePath(segments ...Segment) ResourcePath {
	return ResourcePath{segments: append([]Segment(nil), segments...)}
}

func (p ResourcePath) Segments() []Segment {
	return append([]Segment(nil), p.segments...)
}

func (p ResourcePath) Len() int {
	return len(p.segments)
}

func (p ResourcePath) IsEmpty() bool {
	return len(p.segments) == 0
}

func (p ResourcePath) At(i int) Segment {
	return p.segments[i]
}

// First returns nil for an empty path.
func (p ResourcePath) First() Segment {
	if len(p.segments) == 0 {
		return nil
	}
	return p.segments[0]
}

// Last returns nil for an empty path.
func (p ResourcePath) Last() Segment {
	if len(p.segments) == 0 {
		return nil
	}
	return p.segments[len(p.segments)-1]
}

func (p ResourcePath) String() string {
	parts := make([]string, 0, len(p.segments))
	for _, s := range p.segments {
		parts = append(parts, s.String())
	}
	return strings.Join(parts, "/")
}
