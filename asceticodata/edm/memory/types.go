package memory

import "github.com/krew-solutions/ascetic-odata-go/asceticodata/edm"

type structuralType struct {
	namespace  string
	name       string
	kind       edm.TypeKind
	base       edm.StructuralType
	properties map[string]*element
}

func (t *structuralType) Namespace() string {
	return t.namespace
}

func (t *structuralType) Name() string {
	return t.name
}

func (t *structuralType) Kind() edm.TypeKind {
	return t.kind
}

func (t *structuralType) String() string {
	return t.namespace + "." + t.name
}

func (t *structuralType) BaseType() edm.StructuralType {
	return t.base
}

func (t *structuralType) Property(name string) (edm.Element, bool) {
	if p, ok := t.properties[name]; ok {
		return p, true
	}
	if t.base != nil {
		return t.base.Property(name)
	}
	return nil, false
}

func (t *structuralType) CompatibleTo(target edm.Type) bool {
	if target == nil || target.Kind() != t.kind {
		return false
	}
	if t.namespace == target.Namespace() && t.name == target.Name() {
		return true
	}
	for base := t.base; base != nil; base = base.BaseType() {
		if base.Namespace() == target.Namespace() && base.Name() == target.Name() {
			return true
		}
	}
	return false
}

type entityType struct {
	*structuralType
	keys []string
}

func (t *entityType) KeyPropertyNames() []string {
	if len(t.keys) == 0 {
		if base, ok := t.base.(edm.EntityType); ok {
			return base.KeyPropertyNames()
		}
	}
	keys := make([]string, len(t.keys))
	copy(keys, t.keys)
	return keys
}

type complexType struct {
	*structuralType
}

type typeDefinition struct {
	namespace  string
	name       string
	kind       edm.TypeKind
	underlying edm.Type
}

func (t *typeDefinition) Namespace() string {
	return t.namespace
}

func (t *typeDefinition) Name() string {
	return t.name
}

func (t *typeDefinition) Kind() edm.TypeKind {
	return t.kind
}

func (t *typeDefinition) Underlying() edm.Type {
	return t.underlying
}

type element struct {
	name         string
	typ          edm.Type
	isCollection bool
	kind         edm.ElementKind
}

func (e *element) Name() string {
	return e.name
}

func (e *element) Type() edm.Type {
	return e.typ
}

func (e *element) IsCollection() bool {
	return e.isCollection
}

func (e *element) ElementKind() edm.ElementKind {
	return e.kind
}

type operation struct {
	name              edm.FullQualifiedName
	binding           *edm.Binding
	parameterNames    []string
	returnType        edm.Type
	returnsCollection bool
	composable        bool
}

func (o *operation) FullQualifiedName() edm.FullQualifiedName {
	return o.name
}

func (o *operation) IsBound() bool {
	return o.binding != nil
}

func (o *operation) ReturnType() edm.Type {
	return o.returnType
}

func (o *operation) ReturnsCollection() bool {
	return o.returnsCollection
}

func (o *operation) ParameterNames() []string {
	names := make([]string, len(o.parameterNames))
	copy(names, o.parameterNames)
	return names
}

func (o *operation) IsComposable() bool {
	return o.composable
}

type entitySet struct {
	name       string
	entityType edm.EntityType
}

func (s *entitySet) Name() string {
	return s.name
}

func (s *entitySet) EntityType() edm.EntityType {
	return s.entityType
}

type singleton struct {
	entitySet
}

type actionImport struct {
	name   string
	action edm.Action
}

func (i *actionImport) Name() string {
	return i.name
}

func (i *actionImport) Action() edm.Action {
	return i.action
}

type functionImport struct {
	name     string
	function edm.Function
}

func (i *functionImport) Name() string {
	return i.name
}

func (i *functionImport) Function() edm.Function {
	return i.function
}
