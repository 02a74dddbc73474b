// Package edm declares the read-only view of an Entity Data Model that the
// address resolver consumes.
//
// Implementations must be safe for concurrent reads: one Provider is
// typically shared by every resolution running in a process.
package edm

type TypeKind string

const (
	KindPrimitive      TypeKind = "PRIMITIVE"
	KindEnum           TypeKind = "ENUM"
	KindTypeDefinition TypeKind = "TYPE_DEFINITION"
	KindComplex        TypeKind = "COMPLEX"
	KindEntity         TypeKind = "ENTITY"
)

type Type interface {
	Namespace() string
	Name() string
	Kind() TypeKind
}

// StructuralType is an entity or complex type.
type StructuralType interface {
	Type
	BaseType() StructuralType
	// Property looks the name up in the type and its base types.
	Property(name string) (Element, bool)
	// CompatibleTo reports whether the type is the target type or one of
	// its subtypes.
	CompatibleTo(target Type) bool
}

type EntityType interface {
	StructuralType
	KeyPropertyNames() []string
}

type ComplexType interface {
	StructuralType
}

type ElementKind string

const (
	ElementPrimitive  ElementKind = "PRIMITIVE"
	ElementComplex    ElementKind = "COMPLEX"
	ElementNavigation ElementKind = "NAVIGATION"
)

// Element is a structural or navigation property of a structural type.
type Element interface {
	Name() string
	Type() Type
	IsCollection() bool
	ElementKind() ElementKind
}

type EntitySet interface {
	Name() string
	EntityType() EntityType
}

type Singleton interface {
	Name() string
	EntityType() EntityType
}

// Operation is the common part of actions and functions. ReturnType is nil
// for actions without a result.
type Operation interface {
	FullQualifiedName() FullQualifiedName
	IsBound() bool
	ReturnType() Type
	ReturnsCollection() bool
}

type Action interface {
	Operation
}

type Function interface {
	Operation
	ParameterNames() []string
	IsComposable() bool
}

type ActionImport interface {
	Name() string
	Action() Action
}

type FunctionImport interface {
	Name() string
	Function() Function
}

// Provider is the lookup surface of the EDM. Every lookup reports absence
// with a false second result.
type Provider interface {
	EntitySet(name string) (EntitySet, bool)
	Singleton(name string) (Singleton, bool)
	ActionImport(name string) (ActionImport, bool)
	FunctionImport(name string) (FunctionImport, bool)

	EntityType(name FullQualifiedName) (EntityType, bool)
	ComplexType(name FullQualifiedName) (ComplexType, bool)
	// TypeDefinition resolves any named type, primitive types included
	// ("Edm.String").
	TypeDefinition(name FullQualifiedName) (Type, bool)

	// Action finds an action by name. A nil binding asks for an unbound
	// action.
	Action(name FullQualifiedName, binding *Binding) (Action, bool)
	// Function finds a function overload by name, binding and the names of
	// its non-binding parameters. A nil binding asks for an unbound
	// function; nil parameterNames match any overload.
	Function(name FullQualifiedName, binding *Binding, parameterNames []string) (Function, bool)
}
