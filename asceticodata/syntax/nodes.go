// Package syntax holds the parse tree of an OData resource address: one Go
// type per grammar rule, with the matched terminals and sub-rules as
// fields. Building the tree from text is the job of a grammar front end;
// the resolver only walks it.
package syntax

// URI is one of the top-level alternatives of the address grammar.
type URI interface {
	uri()
}

type BatchURI struct{}

func (BatchURI) uri() {}

// MetadataURI is "$metadata", optionally with "?$format=..." and a context
// fragment ("#...").
type MetadataURI struct {
	Format   *FormatOption
	Fragment string
}

func (MetadataURI) uri() {}

// EntityURI is "$entity?..." or, when Name is set, "$entity/NS.Type?...".
type EntityURI struct {
	Namespace string
	Name      string
	Options   []QueryOption
}

func (EntityURI) uri() {}

// ResourceURI is a resource path followed by optional query options.
type ResourceURI struct {
	Path    ResourcePath
	Options []QueryOption
}

func (ResourceURI) uri() {}

// ResourcePath is exactly one of "$all", "$crossjoin(...)" or a sequence of
// path segments.
type ResourcePath struct {
	All       bool
	CrossJoin []string
	Segments  *PathSegments
}

type PathSegments struct {
	Segments []PathSegment
	Const    *ConstSegment
}

// PathSegment is "[NS.]Name" followed by zero or more parenthesized lists.
// Namespace keeps the trailing separator as matched by the grammar
// ("Sales.").
type PathSegment struct {
	Namespace string
	Name      string
	Lists     []NameValueOptList
}

// NameValueOptList is the content of one pair of parentheses: either a
// single unnamed value or a list of named values. Both empty means "()".
type NameValueOptList struct {
	Value *ValueOpt
	Pairs []NameValuePair
}

type ValueOpt struct {
	Text  string
	Value Expr
}

// NameValuePair is "name=value" or "name=@alias".
type NameValuePair struct {
	Name  string
	Text  string
	Value Expr
	Alias string
}

type ConstKind string

const (
	ConstValue ConstKind = "$value"
	ConstCount ConstKind = "$count"
	ConstRef   ConstKind = "$ref"
	ConstAny   ConstKind = "any"
	ConstAll   ConstKind = "all"
)

// ConstSegment terminates a path. Lambda is set for ConstAny and ConstAll.
type ConstSegment struct {
	Kind   ConstKind
	Lambda *LambdaExpr
}
