package syntax

// QueryOption is one "name=value" pair of the query string.
type QueryOption interface {
	queryOption()
}

type FilterOption struct {
	Text string
	Expr Expr
}

func (FilterOption) queryOption() {}

// OrderByOption lists the ordering items left to right. Direction is "asc",
// "desc" or empty.
type OrderByOption struct {
	Text  string
	Items []OrderByItem
}

type OrderByItem struct {
	Expr      Expr
	Direction string
}

func (OrderByOption) queryOption() {}

type SelectOption struct {
	Text  string
	Items []SelectItem
}

func (SelectOption) queryOption() {}

type SelectItem struct {
	Segments []SelectSegment
}

// SelectSegment is "*", "NS.*", "Name" or "NS.Name". Namespace keeps the
// trailing separator.
type SelectSegment struct {
	Star      bool
	Namespace string
	Name      string
}

type ExpandOption struct {
	Text  string
	Items []ExpandItem
}

func (ExpandOption) queryOption() {}

// ExpandItem is either a star ("*", "*/$ref", "*($levels=n)") or a path
// with an optional extension.
type ExpandItem struct {
	Star      bool
	Ref       bool
	Levels    string
	Path      []PathSegment
	Extension *ExpandPathExtension
}

// ExpandPathExtension follows an expand path: "/$ref", "/$count" and/or a
// parenthesized list of nested options.
type ExpandPathExtension struct {
	Ref     bool
	Count   bool
	Options []QueryOption
}

// LevelsOption is "$levels=n" or "$levels=max" inside an expand item.
type LevelsOption struct {
	Text string
}

func (LevelsOption) queryOption() {}

type CountOption struct {
	Text string
}

func (CountOption) queryOption() {}

type InlineCountOption struct {
	Text string
}

func (InlineCountOption) queryOption() {}

type TopOption struct {
	Text string
}

func (TopOption) queryOption() {}

type SkipOption struct {
	Text string
}

func (SkipOption) queryOption() {}

type SkipTokenOption struct {
	Text string
}

func (SkipTokenOption) queryOption() {}

type IdOption struct {
	Text string
}

func (IdOption) queryOption() {}

// FormatOption is "$format=json|atom|xml" or a media type.
type FormatOption struct {
	Text string
}

func (FormatOption) queryOption() {}

type SearchOption struct {
	Text string
	Expr SearchExpr
}

func (SearchOption) queryOption() {}

// AliasOption is "@name=value".
type AliasOption struct {
	Name  string
	Text  string
	Value Expr
}

func (AliasOption) queryOption() {}

// CustomOption is a query parameter that is not a system option. HasValue
// distinguishes "name" from "name=".
type CustomOption struct {
	Name     string
	Text     string
	HasValue bool
}

func (CustomOption) queryOption() {}

// SearchExpr is a node of the $search grammar.
type SearchExpr interface {
	searchExpr()
}

type SearchTerm struct {
	Text   string
	Phrase bool
}

func (SearchTerm) searchExpr() {}

type SearchBinary struct {
	Operator string
	Left     SearchExpr
	Right    SearchExpr
}

func (SearchBinary) searchExpr() {}

type SearchNot struct {
	Operand SearchExpr
}

func (SearchNot) searchExpr() {}
