package syntax

import "strings"

func Segment(name string, lists ...NameValueOptList) PathSegment {
	return PathSegment{Name: name, Lists: lists}
}

// QualifiedSegment splits "NS.Name" at the last dot and keeps the trailing
// separator on the namespace, the way the grammar matches it.
func QualifiedSegment(qualifiedName string, lists ...NameValueOptList) PathSegment {
	i := strings.LastIndex(qualifiedName, ".")
	if i < 0 {
		return Segment(qualifiedName, lists...)
	}
	return PathSegment{
		Namespace: qualifiedName[:i+1],
		Name:      qualifiedName[i+1:],
		Lists:     lists,
	}
}

func Segments(segments ...PathSegment) *PathSegments {
	return &PathSegments{Segments: segments}
}

// KeyValue is a single unnamed value in parentheses: "(42)".
func KeyValue(text string) NameValueOptList {
	return NameValueOptList{Value: &ValueOpt{Text: text, Value: Literal(text)}}
}

// NamedValues is a list of named values in parentheses: "(a=1,b=2)".
func NamedValues(pairs ...NameValuePair) NameValueOptList {
	if pairs == nil {
		pairs = []NameValuePair{}
	}
	return NameValueOptList{Pairs: pairs}
}

func Pair(name, text string) NameValuePair {
	return NameValuePair{Name: name, Text: text, Value: Literal(text)}
}

func AliasPair(name, alias string) NameValuePair {
	return NameValuePair{Name: name, Alias: alias}
}

func Literal(text string) LiteralExpr {
	return LiteralExpr{Text: text}
}

// Member builds an implicit-$it member path of unqualified names.
func Member(names ...string) MemberExpr {
	segments := make([]PathSegment, 0, len(names))
	for _, name := range names {
		segments = append(segments, Segment(name))
	}
	return MemberExpr{Path: Segments(segments...)}
}

func Binary(left Expr, operator string, right Expr) BinaryExpr {
	return BinaryExpr{Operator: operator, Left: left, Right: right}
}

func Equal(left, right Expr) BinaryExpr {
	return Binary(left, OpEq, right)
}

func And(left, right Expr) BinaryExpr {
	return Binary(left, OpAnd, right)
}

func Or(left, right Expr) BinaryExpr {
	return Binary(left, OpOr, right)
}

func Not(operand Expr) UnaryExpr {
	return UnaryExpr{Operator: OpNot, Operand: operand}
}

func Call(method string, args ...Expr) MethodCallExpr {
	return MethodCallExpr{Method: method, Args: args}
}

func Any(variable string, body Expr) *LambdaExpr {
	return &LambdaExpr{Kind: ConstAny, Variable: variable, Body: body}
}

func All(variable string, body Expr) *LambdaExpr {
	return &LambdaExpr{Kind: ConstAll, Variable: variable, Body: body}
}

// Resource builds a ResourceURI from path segments and options.
func Resource(segments []PathSegment, options ...QueryOption) ResourceURI {
	return ResourceURI{
		Path:    ResourcePath{Segments: Segments(segments...)},
		Options: options,
	}
}
