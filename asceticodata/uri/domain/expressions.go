package uri

import (
	"github.com/krew-solutions/ascetic-odata-go/asceticodata/edm"
	"github.com/krew-solutions/ascetic-odata-go/asceticodata/uri/domain/operators"
)

type Expression interface {
	Accept(ExpressionVisitor) error
}

type ExpressionVisitor interface {
	VisitBinary(BinaryNode) error
	VisitUnary(UnaryNode) error
	VisitMethod(MethodNode) error
	VisitLiteral(LiteralNode) error
	VisitTypeLiteral(TypeLiteralNode) error
	VisitMember(MemberNode) error
	VisitAlias(AliasNode) error
	VisitLambda(LambdaNode) error
}

func NewBinaryNode(left Expression, operator operators.BinaryOperator, right Expression) BinaryNode {
	return BinaryNode{
		left:     left,
		operator: operator,
		right:    right,
	}
}

type BinaryNode struct {
	left     Expression
	operator operators.BinaryOperator
	right    Expression
}

func (n BinaryNode) Left() Expression {
	return n.left
}

func (n BinaryNode) Operator() operators.BinaryOperator {
	return n.operator
}

func (n BinaryNode) Right() Expression {
	return n.right
}

func (n BinaryNode) Accept(v ExpressionVisitor) error {
	return v.VisitBinary(n)
}

func NewUnaryNode(operator operators.UnaryOperator, operand Expression) UnaryNode {
	return UnaryNode{
		operator: operator,
		operand:  operand,
	}
}

type UnaryNode struct {
	operator operators.UnaryOperator
	operand  Expression
}

func (n UnaryNode) Operator() operators.UnaryOperator {
	return n.operator
}

func (n UnaryNode) Operand() Expression {
	return n.operand
}

func (n UnaryNode) Accept(v ExpressionVisitor) error {
	return v.VisitUnary(n)
}

func NewMethodNode(method operators.Method, parameters ...Expression) MethodNode {
	return MethodNode{
		method:     method,
		parameters: parameters,
	}
}

type MethodNode struct {
	method     operators.Method
	parameters []Expression
}

func (n MethodNode) Method() operators.Method {
	return n.method
}

func (n MethodNode) Parameters() []Expression {
	return append([]Expression(nil), n.parameters...)
}

func (n MethodNode) Accept(v ExpressionVisitor) error {
	return v.VisitMethod(n)
}

func NewTypeLiteralNode(t edm.Type) TypeLiteralNode {
	return TypeLiteralNode{typ: t}
}

// TypeLiteralNode is the type argument of cast and isof.
type TypeLiteralNode struct {
	typ edm.Type
}

func (n TypeLiteralNode) Type() edm.Type {
	return n.typ
}

func (n TypeLiteralNode) Accept(v ExpressionVisitor) error {
	return v.VisitTypeLiteral(n)
}

func NewMemberNode(path ResourcePath) MemberNode {
	return MemberNode{path: path}
}

// MemberNode is a path relative to $it, a lambda variable or $root.
type MemberNode struct {
	path ResourcePath
}

func (n MemberNode) Path() ResourcePath {
	return n.path
}

// Type is the effective type of the last typed segment, nil when the path
// ends in an untyped segment.
func (n MemberNode) Type() edm.Type {
	return EffectiveType(n.path.Last())
}

func (n MemberNode) Accept(v ExpressionVisitor) error {
	return v.VisitMember(n)
}

func NewAliasNode(name string) AliasNode {
	return AliasNode{name: name}
}

// AliasNode references a parameter alias by its name without "@".
type AliasNode struct {
	name string
}

func (n AliasNode) Name() string {
	return n.name
}

func (n AliasNode) Accept(v ExpressionVisitor) error {
	return v.VisitAlias(n)
}

type LambdaKind string

const (
	LambdaAny LambdaKind = "any"
	LambdaAll LambdaKind = "all"
)

func NewLambdaNode(kind LambdaKind, collection MemberNode, variable string, elementType edm.Type, isCollection bool, body Expression) LambdaNode {
	return LambdaNode{
		kind:         kind,
		collection:   collection,
		variable:     variable,
		elementType:  elementType,
		isCollection: isCollection,
		body:         body,
	}
}

// LambdaNode is "collection/any(variable:body)" or its all form. Variable
// and Body are empty for a bare "any()".
type LambdaNode struct {
	kind         LambdaKind
	collection   MemberNode
	variable     string
	elementType  edm.Type
	isCollection bool
	body         Expression
}

func (n LambdaNode) Kind() LambdaKind {
	return n.kind
}

func (n LambdaNode) Collection() MemberNode {
	return n.collection
}

func (n LambdaNode) Variable() string {
	return n.variable
}

func (n LambdaNode) ElementType() edm.Type {
	return n.elementType
}

// IsCollection reports whether the lambda variable itself is a collection.
func (n LambdaNode) IsCollection() bool {
	return n.isCollection
}

func (n LambdaNode) Body() Expression {
	return n.body
}

func (n LambdaNode) Accept(v ExpressionVisitor) error {
	return v.VisitLambda(n)
}
