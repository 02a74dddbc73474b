package uri

import (
	"github.com/krew-solutions/ascetic-odata-go/asceticodata/edm"
)

type SegmentKind string

const (
	SegmentEntitySet       SegmentKind = "entitySet"
	SegmentSingleton       SegmentKind = "singleton"
	SegmentNavigation      SegmentKind = "navigationProperty"
	SegmentSimpleProperty  SegmentKind = "simpleProperty"
	SegmentComplexProperty SegmentKind = "complexProperty"
	SegmentActionImport    SegmentKind = "actionImport"
	SegmentAction          SegmentKind = "action"
	SegmentFunctionImport  SegmentKind = "functionImport"
	SegmentFunction        SegmentKind = "function"
	SegmentLambdaVariable  SegmentKind = "lambdaVariable"
	SegmentIt              SegmentKind = "it"
	SegmentRoot            SegmentKind = "root"
	SegmentValue           SegmentKind = "value"
	SegmentCount           SegmentKind = "count"
	SegmentRef             SegmentKind = "ref"
)

type Segment interface {
	Kind() SegmentKind
	String() string
}

// TypedSegment is a segment that addresses an instance or a collection of a
// known type. Type may be nil for actions without a return type.
type TypedSegment interface {
	Segment
	Type() edm.Type
	IsCollection() bool
}

// CastableSegment carries a single type filter slot.
type CastableSegment interface {
	TypedSegment
	TypeFilter() edm.Type
	WithTypeFilter(edm.Type) CastableSegment
}

// KeyPredicateSegment carries key predicates and two type filter slots: the
// collection filter narrows the addressed collection, the entry filter
// narrows the entry selected by the key predicates.
type KeyPredicateSegment interface {
	TypedSegment
	KeyPredicates() []Parameter
	EntryTypeFilter() edm.Type
	CollectionTypeFilter() edm.Type
	WithKeyPredicates([]Parameter) KeyPredicateSegment
	WithEntryTypeFilter(edm.Type) KeyPredicateSegment
	WithCollectionTypeFilter(edm.Type) KeyPredicateSegment
}

// EffectiveType returns the type a following segment is resolved against:
// the entry filter, else the collection filter, else the type filter, else
// the nominal type. Untyped segments yield nil.
func EffectiveType(s Segment) edm.Type {
	switch seg := s.(type) {
	case KeyPredicateSegment:
		if seg.EntryTypeFilter() != nil {
			return seg.EntryTypeFilter()
		}
		if seg.CollectionTypeFilter() != nil {
			return seg.CollectionTypeFilter()
		}
		return seg.Type()
	case CastableSegment:
		if seg.TypeFilter() != nil {
			return seg.TypeFilter()
		}
		return seg.Type()
	case TypedSegment:
		return seg.Type()
	}
	return nil
}

type typed struct {
	typ          edm.Type
	isCollection bool
}

func (s typed) Type() edm.Type {
	return s.typ
}

func (s typed) IsCollection() bool {
	return s.isCollection
}

type castable struct {
	typed
	typeFilter edm.Type
}

func (s castable) TypeFilter() edm.Type {
	return s.typeFilter
}

type keyed struct {
	typed
	keys                 []Parameter
	entryTypeFilter      edm.Type
	collectionTypeFilter edm.Type
}

func (s keyed) IsCollection() bool {
	return s.isCollection && len(s.keys) == 0
}

func (s keyed) KeyPredicates() []Parameter {
	return append([]Parameter(nil), s.keys...)
}

func (s keyed) EntryTypeFilter() edm.Type {
	return s.entryTypeFilter
}

func (s keyed) CollectionTypeFilter() edm.Type {
	return s.collectionTypeFilter
}

func NewEntitySetSegment(entitySet edm.EntitySet) EntitySetSegment {
	return EntitySetSegment{
		keyed:     keyed{typed: typed{typ: entitySet.EntityType(), isCollection: true}},
		entitySet: entitySet,
	}
}

type EntitySetSegment struct {
	keyed
	entitySet edm.EntitySet
}

func (s EntitySetSegment) EntitySet() edm.EntitySet {
	return s.entitySet
}

func (s EntitySetSegment) Kind() SegmentKind {
	return SegmentEntitySet
}

func (s EntitySetSegment) String() string {
	return s.entitySet.Name()
}

func (s EntitySetSegment) WithKeyPredicates(keys []Parameter) KeyPredicateSegment {
	s.keys = keys
	return s
}

func (s EntitySetSegment) WithEntryTypeFilter(t edm.Type) KeyPredicateSegment {
	s.entryTypeFilter = t
	return s
}

func (s EntitySetSegment) WithCollectionTypeFilter(t edm.Type) KeyPredicateSegment {
	s.collectionTypeFilter = t
	return s
}

func NewSingletonSegment(singleton edm.Singleton) SingletonSegment {
	return SingletonSegment{
		castable:  castable{typed: typed{typ: singleton.EntityType()}},
		singleton: singleton,
	}
}

type SingletonSegment struct {
	castable
	singleton edm.Singleton
}

func (s SingletonSegment) Singleton() edm.Singleton {
	return s.singleton
}

func (s SingletonSegment) Kind() SegmentKind {
	return SegmentSingleton
}

func (s SingletonSegment) String() string {
	return s.singleton.Name()
}

func (s SingletonSegment) WithTypeFilter(t edm.Type) CastableSegment {
	s.typeFilter = t
	return s
}

func NewNavigationPropertySegment(property edm.Element) NavigationPropertySegment {
	return NavigationPropertySegment{
		keyed:    keyed{typed: typed{typ: property.Type(), isCollection: property.IsCollection()}},
		property: property,
	}
}

type NavigationPropertySegment struct {
	keyed
	property edm.Element
}

func (s NavigationPropertySegment) Property() edm.Element {
	return s.property
}

func (s NavigationPropertySegment) Kind() SegmentKind {
	return SegmentNavigation
}

func (s NavigationPropertySegment) String() string {
	return s.property.Name()
}

func (s NavigationPropertySegment) WithKeyPredicates(keys []Parameter) KeyPredicateSegment {
	s.keys = keys
	return s
}

func (s NavigationPropertySegment) WithEntryTypeFilter(t edm.Type) KeyPredicateSegment {
	s.entryTypeFilter = t
	return s
}

func (s NavigationPropertySegment) WithCollectionTypeFilter(t edm.Type) KeyPredicateSegment {
	s.collectionTypeFilter = t
	return s
}

func NewSimplePropertySegment(property edm.Element) SimplePropertySegment {
	return SimplePropertySegment{
		typed:    typed{typ: property.Type(), isCollection: property.IsCollection()},
		property: property,
	}
}

// SimplePropertySegment addresses a primitive, enum or type definition
// property.
type SimplePropertySegment struct {
	typed
	property edm.Element
}

func (s SimplePropertySegment) Property() edm.Element {
	return s.property
}

func (s SimplePropertySegment) Kind() SegmentKind {
	return SegmentSimpleProperty
}

func (s SimplePropertySegment) String() string {
	return s.property.Name()
}

func NewComplexPropertySegment(property edm.Element) ComplexPropertySegment {
	return ComplexPropertySegment{
		castable: castable{typed: typed{typ: property.Type(), isCollection: property.IsCollection()}},
		property: property,
	}
}

type ComplexPropertySegment struct {
	castable
	property edm.Element
}

func (s ComplexPropertySegment) Property() edm.Element {
	return s.property
}

func (s ComplexPropertySegment) Kind() SegmentKind {
	return SegmentComplexProperty
}

func (s ComplexPropertySegment) String() string {
	return s.property.Name()
}

func (s ComplexPropertySegment) WithTypeFilter(t edm.Type) CastableSegment {
	s.typeFilter = t
	return s
}

func NewActionImportSegment(actionImport edm.ActionImport) ActionImportSegment {
	action := actionImport.Action()
	return ActionImportSegment{
		typed:        typed{typ: action.ReturnType(), isCollection: action.ReturnsCollection()},
		actionImport: actionImport,
	}
}

type ActionImportSegment struct {
	typed
	actionImport edm.ActionImport
}

func (s ActionImportSegment) ActionImport() edm.ActionImport {
	return s.actionImport
}

func (s ActionImportSegment) Kind() SegmentKind {
	return SegmentActionImport
}

func (s ActionImportSegment) String() string {
	return s.actionImport.Name()
}

func NewActionSegment(action edm.Action) ActionSegment {
	return ActionSegment{
		typed:  typed{typ: action.ReturnType(), isCollection: action.ReturnsCollection()},
		action: action,
	}
}

type ActionSegment struct {
	typed
	action edm.Action
}

func (s ActionSegment) Action() edm.Action {
	return s.action
}

func (s ActionSegment) Kind() SegmentKind {
	return SegmentAction
}

func (s ActionSegment) String() string {
	return s.action.FullQualifiedName().String()
}

func NewFunctionImportSegment(functionImport edm.FunctionImport, parameters []Parameter) FunctionImportSegment {
	function := functionImport.Function()
	return FunctionImportSegment{
		keyed:          keyed{typed: typed{typ: function.ReturnType(), isCollection: function.ReturnsCollection()}},
		functionImport: functionImport,
		parameters:     parameters,
	}
}

type FunctionImportSegment struct {
	keyed
	functionImport edm.FunctionImport
	parameters     []Parameter
}

func (s FunctionImportSegment) FunctionImport() edm.FunctionImport {
	return s.functionImport
}

func (s FunctionImportSegment) Parameters() []Parameter {
	return append([]Parameter(nil), s.parameters...)
}

func (s FunctionImportSegment) Kind() SegmentKind {
	return SegmentFunctionImport
}

func (s FunctionImportSegment) String() string {
	return s.functionImport.Name()
}

func (s FunctionImportSegment) WithKeyPredicates(keys []Parameter) KeyPredicateSegment {
	s.keys = keys
	return s
}

func (s FunctionImportSegment) WithEntryTypeFilter(t edm.Type) KeyPredicateSegment {
	s.entryTypeFilter = t
	return s
}

func (s FunctionImportSegment) WithCollectionTypeFilter(t edm.Type) KeyPredicateSegment {
	s.collectionTypeFilter = t
	return s
}

func NewFunctionSegment(function edm.Function, parameters []Parameter) FunctionSegment {
	return FunctionSegment{
		keyed:      keyed{typed: typed{typ: function.ReturnType(), isCollection: function.ReturnsCollection()}},
		function:   function,
		parameters: parameters,
	}
}

type FunctionSegment struct {
	keyed
	function   edm.Function
	parameters []Parameter
}

func (s FunctionSegment) Function() edm.Function {
	return s.function
}

func (s FunctionSegment) Parameters() []Parameter {
	return append([]Parameter(nil), s.parameters...)
}

func (s FunctionSegment) Kind() SegmentKind {
	return SegmentFunction
}

func (s FunctionSegment) String() string {
	return s.function.FullQualifiedName().String()
}

func (s FunctionSegment) WithKeyPredicates(keys []Parameter) KeyPredicateSegment {
	s.keys = keys
	return s
}

func (s FunctionSegment) WithEntryTypeFilter(t edm.Type) KeyPredicateSegment {
	s.entryTypeFilter = t
	return s
}

func (s FunctionSegment) WithCollectionTypeFilter(t edm.Type) KeyPredicateSegment {
	s.collectionTypeFilter = t
	return s
}

func NewLambdaVariableSegment(variable string, typ edm.Type, isCollection bool) LambdaVariableSegment {
	return LambdaVariableSegment{
		castable: castable{typed: typed{typ: typ, isCollection: isCollection}},
		variable: variable,
	}
}

// LambdaVariableSegment references the variable of an enclosing any/all.
type LambdaVariableSegment struct {
	castable
	variable string
}

func (s LambdaVariableSegment) Variable() string {
	return s.variable
}

func (s LambdaVariableSegment) Kind() SegmentKind {
	return SegmentLambdaVariable
}

func (s LambdaVariableSegment) String() string {
	return s.variable
}

func (s LambdaVariableSegment) WithTypeFilter(t edm.Type) CastableSegment {
	s.typeFilter = t
	return s
}

// NewItSegment anchors a member path at the current instance. Explicit is
// true when the address spelled "$it".
func NewItSegment(typ edm.Type, isCollection, explicit bool) ItSegment {
	return ItSegment{
		castable: castable{typed: typed{typ: typ, isCollection: isCollection}},
		explicit: explicit,
	}
}

type ItSegment struct {
	castable
	explicit bool
}

func (s ItSegment) IsExplicit() bool {
	return s.explicit
}

func (s ItSegment) Kind() SegmentKind {
	return SegmentIt
}

func (s ItSegment) String() string {
	return "$it"
}

func (s ItSegment) WithTypeFilter(t edm.Type) CastableSegment {
	s.typeFilter = t
	return s
}

// RootSegment starts a "$root/..." member path; the next segment resolves
// from the service root.
type RootSegment struct{}

func (RootSegment) Kind() SegmentKind {
	return SegmentRoot
}

func (RootSegment) String() string {
	return "$root"
}

type ValueSegment struct{}

func (ValueSegment) Kind() SegmentKind {
	return SegmentValue
}

func (ValueSegment) String() string {
	return "$value"
}

type CountSegment struct{}

func (CountSegment) Kind() SegmentKind {
	return SegmentCount
}

func (CountSegment) String() string {
	return "$count"
}

type RefSegment struct{}

func (RefSegment) Kind() SegmentKind {
	return SegmentRef
}

func (RefSegment) String() string {
	return "$ref"
}
