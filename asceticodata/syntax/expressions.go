package syntax

// Expr is one of the alternatives of the common expression rule.
type Expr interface {
	expr()
}

// Operator tokens as they appear in the address.
const (
	OpAnd  = "and"
	OpOr   = "or"
	OpEq   = "eq"
	OpNe   = "ne"
	OpGt   = "gt"
	OpGe   = "ge"
	OpLt   = "lt"
	OpLe   = "le"
	OpHas  = "has"
	OpIsOf = "isof"
	OpAdd  = "add"
	OpSub  = "sub"
	OpMul  = "mul"
	OpDiv  = "div"
	OpMod  = "mod"
	OpNot  = "not"
	OpNeg  = "-"
)

type BinaryExpr struct {
	Operator string
	Left     Expr
	Right    Expr
}

func (BinaryExpr) expr() {}

type UnaryExpr struct {
	Operator string
	Operand  Expr
}

func (UnaryExpr) expr() {}

// LiteralExpr is a primitive literal with its exact text ("'abc'", "42",
// "null", "2012-12-03").
type LiteralExpr struct {
	Text string
}

func (LiteralExpr) expr() {}

// MemberExpr is a property path relative to the current instance. It is
// true when the address spelled "$it" explicitly; Path may then be nil.
type MemberExpr struct {
	It   bool
	Path *PathSegments
}

func (MemberExpr) expr() {}

// RootExpr is "$root/..." addressing a resource from the service root.
type RootExpr struct {
	Path *PathSegments
}

func (RootExpr) expr() {}

// LambdaExpr is "any(v:body)", "all(v:body)" or a bare "any()".
type LambdaExpr struct {
	Kind     ConstKind
	Variable string
	Body     Expr
}

func (LambdaExpr) expr() {}

// MethodCallExpr is a call of a built-in method such as "contains(a,b)".
type MethodCallExpr struct {
	Method string
	Args   []Expr
}

func (MethodCallExpr) expr() {}

// CastExpr is "cast([expr,]NS.Type)". Namespace has no trailing separator.
type CastExpr struct {
	Operand   Expr
	Namespace string
	Name      string
}

func (CastExpr) expr() {}

// IsOfExpr is "isof([expr,]NS.Type)".
type IsOfExpr struct {
	Operand   Expr
	Namespace string
	Name      string
}

func (IsOfExpr) expr() {}

// AliasExpr references a parameter alias ("@p").
type AliasExpr struct {
	Name string
}

func (AliasExpr) expr() {}
