package memory

import (
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/krew-solutions/ascetic-odata-go/asceticodata/edm"
)

type propertyDef struct {
	name         string
	typeName     string
	isCollection bool
	navigation   bool
}

// StructuralTypeBuilder collects the definition of an entity or complex type.
type StructuralTypeBuilder struct {
	kind       edm.TypeKind
	name       string
	baseName   string
	keys       []string
	properties []propertyDef
}

// BaseType sets the base type. Unqualified names are resolved against the
// schema namespace.
func (t *StructuralTypeBuilder) BaseType(name string) *StructuralTypeBuilder {
	t.baseName = name
	return t
}

func (t *StructuralTypeBuilder) Key(names ...string) *StructuralTypeBuilder {
	t.keys = append(t.keys, names...)
	return t
}

func (t *StructuralTypeBuilder) Property(name, typeName string) *StructuralTypeBuilder {
	t.properties = append(t.properties, propertyDef{name: name, typeName: typeName})
	return t
}

func (t *StructuralTypeBuilder) CollectionProperty(name, typeName string) *StructuralTypeBuilder {
	t.properties = append(t.properties, propertyDef{name: name, typeName: typeName, isCollection: true})
	return t
}

func (t *StructuralTypeBuilder) NavigationProperty(name, target string) *StructuralTypeBuilder {
	t.properties = append(t.properties, propertyDef{name: name, typeName: target, navigation: true})
	return t
}

func (t *StructuralTypeBuilder) CollectionNavigationProperty(name, target string) *StructuralTypeBuilder {
	t.properties = append(t.properties, propertyDef{
		name: name, typeName: target, isCollection: true, navigation: true,
	})
	return t
}

type bindingDef struct {
	typeName     string
	isCollection bool
}

// OperationBuilder collects the definition of an action or function.
type OperationBuilder struct {
	isFunction        bool
	name              string
	binding           *bindingDef
	parameters        []propertyDef
	returnType        string
	returnsCollection bool
	composable        bool
}

func (o *OperationBuilder) BoundTo(typeName string, isCollection bool) *OperationBuilder {
	o.binding = &bindingDef{typeName: typeName, isCollection: isCollection}
	return o
}

func (o *OperationBuilder) Parameter(name, typeName string) *OperationBuilder {
	o.parameters = append(o.parameters, propertyDef{name: name, typeName: typeName})
	return o
}

func (o *OperationBuilder) Returns(typeName string, isCollection bool) *OperationBuilder {
	o.returnType = typeName
	o.returnsCollection = isCollection
	return o
}

func (o *OperationBuilder) Composable() *OperationBuilder {
	o.composable = true
	return o
}

type containerDef struct {
	name   string
	target string
}

type typeDefinitionDef struct {
	kind       edm.TypeKind
	name       string
	underlying string
}

// Builder assembles an immutable Provider for a single schema namespace.
// Type references may point forward; they are resolved by Build.
type Builder struct {
	namespace       string
	structural      []*StructuralTypeBuilder
	typeDefinitions []typeDefinitionDef
	operations      []*OperationBuilder
	entitySets      []containerDef
	singletons      []containerDef
	actionImports   []containerDef
	functionImports []containerDef
}

func NewBuilder(namespace string) *Builder {
	return &Builder{namespace: namespace}
}

func (b *Builder) EntityType(name string) *StructuralTypeBuilder {
	t := &StructuralTypeBuilder{kind: edm.KindEntity, name: name}
	b.structural = append(b.structural, t)
	return t
}

func (b *Builder) ComplexType(name string) *StructuralTypeBuilder {
	t := &StructuralTypeBuilder{kind: edm.KindComplex, name: name}
	b.structural = append(b.structural, t)
	return t
}

func (b *Builder) EnumType(name string) *Builder {
	b.typeDefinitions = append(b.typeDefinitions, typeDefinitionDef{kind: edm.KindEnum, name: name})
	return b
}

func (b *Builder) TypeDefinition(name, underlying string) *Builder {
	b.typeDefinitions = append(b.typeDefinitions, typeDefinitionDef{
		kind: edm.KindTypeDefinition, name: name, underlying: underlying,
	})
	return b
}

func (b *Builder) Action(name string) *OperationBuilder {
	o := &OperationBuilder{name: name}
	b.operations = append(b.operations, o)
	return o
}

func (b *Builder) Function(name string) *OperationBuilder {
	o := &OperationBuilder{name: name, isFunction: true}
	b.operations = append(b.operations, o)
	return o
}

func (b *Builder) EntitySet(name, entityType string) *Builder {
	b.entitySets = append(b.entitySets, containerDef{name: name, target: entityType})
	return b
}

func (b *Builder) Singleton(name, entityType string) *Builder {
	b.singletons = append(b.singletons, containerDef{name: name, target: entityType})
	return b
}

func (b *Builder) ActionImport(name, action string) *Builder {
	b.actionImports = append(b.actionImports, containerDef{name: name, target: action})
	return b
}

func (b *Builder) FunctionImport(name, function string) *Builder {
	b.functionImports = append(b.functionImports, containerDef{name: name, target: function})
	return b
}

func (b *Builder) qualify(name string) edm.FullQualifiedName {
	if strings.Contains(name, ".") {
		return edm.ParseFullQualifiedName(name)
	}
	return edm.NewFullQualifiedName(b.namespace, name)
}

// Build validates the collected schema and returns the provider. All
// problems found are reported together.
func (b *Builder) Build() (*Provider, error) {
	var result *multierror.Error
	p := newProvider()

	shells := make(map[edm.FullQualifiedName]*structuralType)
	for _, def := range b.structural {
		fqn := b.qualify(def.name)
		if _, exists := p.types[fqn]; exists {
			result = multierror.Append(result, errors.Errorf("type %s is declared twice", fqn))
			continue
		}
		shell := &structuralType{
			namespace:  fqn.Namespace,
			name:       fqn.Name,
			kind:       def.kind,
			properties: make(map[string]*element),
		}
		shells[fqn] = shell
		if def.kind == edm.KindEntity {
			p.types[fqn] = &entityType{structuralType: shell, keys: def.keys}
		} else {
			p.types[fqn] = &complexType{structuralType: shell}
		}
	}
	for _, def := range b.typeDefinitions {
		fqn := b.qualify(def.name)
		if _, exists := p.types[fqn]; exists {
			result = multierror.Append(result, errors.Errorf("type %s is declared twice", fqn))
			continue
		}
		p.types[fqn] = &typeDefinition{namespace: fqn.Namespace, name: fqn.Name, kind: def.kind}
	}
	for _, def := range b.typeDefinitions {
		if def.underlying == "" {
			continue
		}
		fqn := b.qualify(def.name)
		underlying, ok := p.lookupType(b.qualify(def.underlying))
		if !ok {
			result = multierror.Append(result, errors.Errorf(
				"type definition %s: unknown underlying type %s", fqn, def.underlying))
			continue
		}
		if td, ok := p.types[fqn].(*typeDefinition); ok {
			td.underlying = underlying
		}
	}

	for _, def := range b.structural {
		fqn := b.qualify(def.name)
		shell := shells[fqn]
		if shell == nil {
			continue
		}
		if def.baseName != "" {
			base, ok := p.types[b.qualify(def.baseName)].(edm.StructuralType)
			if !ok || base.Kind() != def.kind {
				result = multierror.Append(result, errors.Errorf(
					"type %s: unknown base type %s", fqn, def.baseName))
			} else {
				shell.base = base
			}
		}
		for _, prop := range def.properties {
			if _, dup := shell.properties[prop.name]; dup {
				result = multierror.Append(result, errors.Errorf(
					"type %s: property %s is declared twice", fqn, prop.name))
				continue
			}
			el, err := b.element(p, prop)
			if err != nil {
				result = multierror.Append(result, errors.Wrapf(err, "type %s", fqn))
				continue
			}
			shell.properties[prop.name] = el
		}
	}

	for fqn, shell := range shells {
		if hasInheritanceCycle(shell) {
			result = multierror.Append(result, errors.Errorf("type %s: cyclic base type", fqn))
			shell.base = nil
		}
	}

	for _, def := range b.structural {
		if def.kind != edm.KindEntity {
			continue
		}
		fqn := b.qualify(def.name)
		et, ok := p.types[fqn].(*entityType)
		if !ok {
			continue
		}
		keys := et.KeyPropertyNames()
		if len(keys) == 0 {
			result = multierror.Append(result, errors.Errorf("entity type %s declares no key", fqn))
		}
		for _, key := range def.keys {
			prop, ok := et.Property(key)
			if !ok || prop.ElementKind() != edm.ElementPrimitive || prop.IsCollection() {
				result = multierror.Append(result, errors.Errorf(
					"entity type %s: key %s is not a primitive property", fqn, key))
			}
		}
	}

	for _, def := range b.entitySets {
		et, err := b.entityTypeRef(p, def.target)
		if err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "entity set %s", def.name))
			continue
		}
		p.entitySets[def.name] = &entitySet{name: def.name, entityType: et}
	}
	for _, def := range b.singletons {
		et, err := b.entityTypeRef(p, def.target)
		if err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "singleton %s", def.name))
			continue
		}
		p.singletons[def.name] = &singleton{entitySet{name: def.name, entityType: et}}
	}

	for _, def := range b.operations {
		op, err := b.operation(p, def)
		if err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "operation %s", def.name))
			continue
		}
		if def.isFunction {
			p.functions[op.name] = append(p.functions[op.name], op)
		} else {
			p.actions[op.name] = append(p.actions[op.name], op)
		}
	}

	for _, def := range b.actionImports {
		action, ok := p.Action(b.qualify(def.target), nil)
		if !ok {
			result = multierror.Append(result, errors.Errorf(
				"action import %s: unknown unbound action %s", def.name, def.target))
			continue
		}
		p.actionImports[def.name] = &actionImport{name: def.name, action: action}
	}
	for _, def := range b.functionImports {
		function, ok := p.Function(b.qualify(def.target), nil, nil)
		if !ok {
			result = multierror.Append(result, errors.Errorf(
				"function import %s: unknown unbound function %s", def.name, def.target))
			continue
		}
		p.functionImports[def.name] = &functionImport{name: def.name, function: function}
	}

	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return p, nil
}

func (b *Builder) element(p *Provider, def propertyDef) (*element, error) {
	t, ok := p.lookupType(b.qualify(def.typeName))
	if !ok {
		return nil, errors.Errorf("property %s: unknown type %s", def.name, def.typeName)
	}
	el := &element{name: def.name, typ: t, isCollection: def.isCollection}
	switch {
	case def.navigation:
		if t.Kind() != edm.KindEntity {
			return nil, errors.Errorf("navigation property %s: %s is not an entity type", def.name, def.typeName)
		}
		el.kind = edm.ElementNavigation
	case t.Kind() == edm.KindComplex:
		el.kind = edm.ElementComplex
	case t.Kind() == edm.KindEntity:
		return nil, errors.Errorf("property %s: entity type %s requires a navigation property", def.name, def.typeName)
	default:
		el.kind = edm.ElementPrimitive
	}
	return el, nil
}

func (b *Builder) entityTypeRef(p *Provider, name string) (edm.EntityType, error) {
	et, ok := p.types[b.qualify(name)].(*entityType)
	if !ok {
		return nil, errors.Errorf("unknown entity type %s", name)
	}
	return et, nil
}

func (b *Builder) operation(p *Provider, def *OperationBuilder) (*operation, error) {
	op := &operation{
		name:              b.qualify(def.name),
		returnsCollection: def.returnsCollection,
		composable:        def.composable,
	}
	if def.binding != nil {
		bindingName := b.qualify(def.binding.typeName)
		if _, ok := p.lookupType(bindingName); !ok {
			return nil, errors.Errorf("unknown binding type %s", def.binding.typeName)
		}
		op.binding = &edm.Binding{Type: bindingName, IsCollection: def.binding.isCollection}
	}
	for _, param := range def.parameters {
		if _, ok := p.lookupType(b.qualify(param.typeName)); !ok {
			return nil, errors.Errorf("parameter %s: unknown type %s", param.name, param.typeName)
		}
		op.parameterNames = append(op.parameterNames, param.name)
	}
	if def.returnType != "" {
		t, ok := p.lookupType(b.qualify(def.returnType))
		if !ok {
			return nil, errors.Errorf("unknown return type %s", def.returnType)
		}
		op.returnType = t
	} else if def.isFunction {
		return nil, errors.New("function without return type")
	}
	return op, nil
}

func hasInheritanceCycle(t *structuralType) bool {
	seen := map[edm.FullQualifiedName]bool{{Namespace: t.namespace, Name: t.name}: true}
	for base := t.base; base != nil; base = base.BaseType() {
		fqn := edm.NameOf(base)
		if seen[fqn] {
			return true
		}
		seen[fqn] = true
	}
	return false
}
