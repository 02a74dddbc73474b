// Package memory provides an immutable in-memory edm.Provider assembled with
// a fluent Builder.
//
//	provider, err := memory.NewBuilder("Sales").
//	    EntitySet("Customers", "Customer").
//	    Build()
package memory

import (
	"sort"

	"github.com/krew-solutions/ascetic-odata-go/asceticodata/edm"
)

// Provider is safe for concurrent use once Build returned it.
type Provider struct {
	types           map[edm.FullQualifiedName]edm.Type
	entitySets      map[string]edm.EntitySet
	singletons      map[string]edm.Singleton
	actionImports   map[string]edm.ActionImport
	functionImports map[string]edm.FunctionImport
	actions         map[edm.FullQualifiedName][]*operation
	functions       map[edm.FullQualifiedName][]*operation
}

var _ edm.Provider = (*Provider)(nil)

func newProvider() *Provider {
	return &Provider{
		types:           make(map[edm.FullQualifiedName]edm.Type),
		entitySets:      make(map[string]edm.EntitySet),
		singletons:      make(map[string]edm.Singleton),
		actionImports:   make(map[string]edm.ActionImport),
		functionImports: make(map[string]edm.FunctionImport),
		actions:         make(map[edm.FullQualifiedName][]*operation),
		functions:       make(map[edm.FullQualifiedName][]*operation),
	}
}

func (p *Provider) lookupType(name edm.FullQualifiedName) (edm.Type, bool) {
	if t, ok := edm.PrimitiveType(name); ok {
		return t, true
	}
	t, ok := p.types[name]
	return t, ok
}

func (p *Provider) EntitySet(name string) (edm.EntitySet, bool) {
	s, ok := p.entitySets[name]
	return s, ok
}

func (p *Provider) Singleton(name string) (edm.Singleton, bool) {
	s, ok := p.singletons[name]
	return s, ok
}

func (p *Provider) ActionImport(name string) (edm.ActionImport, bool) {
	i, ok := p.actionImports[name]
	return i, ok
}

func (p *Provider) FunctionImport(name string) (edm.FunctionImport, bool) {
	i, ok := p.functionImports[name]
	return i, ok
}

func (p *Provider) EntityType(name edm.FullQualifiedName) (edm.EntityType, bool) {
	t, ok := p.types[name].(*entityType)
	if !ok {
		return nil, false
	}
	return t, true
}

func (p *Provider) ComplexType(name edm.FullQualifiedName) (edm.ComplexType, bool) {
	t, ok := p.types[name].(*complexType)
	if !ok {
		return nil, false
	}
	return t, true
}

func (p *Provider) TypeDefinition(name edm.FullQualifiedName) (edm.Type, bool) {
	return p.lookupType(name)
}

func (p *Provider) Action(name edm.FullQualifiedName, binding *edm.Binding) (edm.Action, bool) {
	op, ok := p.findOperation(p.actions[name], binding, nil)
	if !ok {
		return nil, false
	}
	return op, true
}

func (p *Provider) Function(name edm.FullQualifiedName, binding *edm.Binding, parameterNames []string) (edm.Function, bool) {
	op, ok := p.findOperation(p.functions[name], binding, parameterNames)
	if !ok {
		return nil, false
	}
	return op, true
}

// findOperation matches the binding type first and then each of its base
// types, so an operation bound to a base type applies to derived types.
func (p *Provider) findOperation(overloads []*operation, binding *edm.Binding, parameterNames []string) (*operation, bool) {
	if len(overloads) == 0 {
		return nil, false
	}
	if binding == nil {
		for _, op := range overloads {
			if op.binding == nil && sameNames(op.parameterNames, parameterNames) {
				return op, true
			}
		}
		return nil, false
	}
	candidate := binding.Type
	for {
		for _, op := range overloads {
			if op.binding == nil {
				continue
			}
			if op.binding.Type == candidate && op.binding.IsCollection == binding.IsCollection &&
				sameNames(op.parameterNames, parameterNames) {
				return op, true
			}
		}
		st, ok := p.types[candidate].(edm.StructuralType)
		if !ok || st.BaseType() == nil {
			return nil, false
		}
		candidate = edm.NameOf(st.BaseType())
	}
}

// sameNames compares parameter names ignoring order. A nil filter matches
// everything.
func sameNames(declared, requested []string) bool {
	if requested == nil {
		return true
	}
	if len(declared) != len(requested) {
		return false
	}
	a := append([]string(nil), declared...)
	b := append([]string(nil), requested...)
	sort.Strings(a)
	sort.Strings(b)
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
