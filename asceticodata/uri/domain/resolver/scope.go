package resolver

import (
	"github.com/krew-solutions/ascetic-odata-go/asceticodata/edm"
	uri "github.com/krew-solutions/ascetic-odata-go/asceticodata/uri/domain"
)

// typeContext is the root member lookups start from.
type typeContext struct {
	typ          edm.Type
	isCollection bool
}

type typeStack struct {
	items []typeContext
}

func (s *typeStack) push(typ edm.Type, isCollection bool) {
	s.items = append(s.items, typeContext{typ: typ, isCollection: isCollection})
}

func (s *typeStack) pop() {
	s.items = s.items[:len(s.items)-1]
}

func (s *typeStack) peek() (typeContext, error) {
	if len(s.items) == 0 {
		return typeContext{}, semanticError("", "no type context")
	}
	return s.items[len(s.items)-1], nil
}

func (s *typeStack) depth() int {
	return len(s.items)
}

type lambdaVariable struct {
	name         string
	typ          edm.Type
	isCollection bool
}

type lambdaScope struct {
	variables []lambdaVariable
}

// push makes the variable visible until the returned release is called.
func (s *lambdaScope) push(v lambdaVariable) (release func()) {
	s.variables = append(s.variables, v)
	n := len(s.variables)
	return func() {
		s.variables = s.variables[:n-1]
	}
}

func (s *lambdaScope) lookup(name string) (lambdaVariable, bool) {
	for i := len(s.variables) - 1; i >= 0; i-- {
		if s.variables[i].name == name {
			return s.variables[i], true
		}
	}
	return lambdaVariable{}, false
}

func (s *lambdaScope) depth() int {
	return len(s.variables)
}

// pathBuilder is the in-progress path of one resolution step. Only the last
// segment is ever replaced: key predicates, type filters and the unbound
// function rewrite of an explicit $it.
type pathBuilder struct {
	segments []uri.Segment
}

func newPathBuilder(segments ...uri.Segment) *pathBuilder {
	return &pathBuilder{segments: segments}
}

func (b *pathBuilder) add(s uri.Segment) {
	b.segments = append(b.segments, s)
}

func (b *pathBuilder) last() uri.Segment {
	if len(b.segments) == 0 {
		return nil
	}
	return b.segments[len(b.segments)-1]
}

func (b *pathBuilder) replaceLast(s uri.Segment) {
	b.segments[len(b.segments)-1] = s
}

func (b *pathBuilder) len() int {
	return len(b.segments)
}

// lastTyped returns the nearest typed segment, skipping $count, $value and
// $ref.
func (b *pathBuilder) lastTyped() (uri.TypedSegment, bool) {
	for i := len(b.segments) - 1; i >= 0; i-- {
		if t, ok := b.segments[i].(uri.TypedSegment); ok {
			return t, true
		}
	}
	return nil, false
}

func (b *pathBuilder) build() uri.ResourcePath {
	return uri.NewResourcePath(b.segments...)
}
