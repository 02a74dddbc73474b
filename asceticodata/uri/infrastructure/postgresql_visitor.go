package uri

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jinzhu/inflection"
	"github.com/pkg/errors"

	"github.com/krew-solutions/ascetic-odata-go/asceticodata/edm"
	u "github.com/krew-solutions/ascetic-odata-go/asceticodata/uri/domain"
	"github.com/krew-solutions/ascetic-odata-go/asceticodata/uri/domain/operators"
)

var ErrUnsupported = errors.New("not supported by the PostgreSQL compiler")

type PostgresqlVisitorOption func(*PostgresqlVisitor)

// PlaceholderIndex offsets placeholder numbering for fragments appended to a
// statement that already binds parameters.
func PlaceholderIndex(index uint8) PostgresqlVisitorOption {
	return func(v *PostgresqlVisitor) {
		v.placeholderIndex = index
	}
}

// WithSchema sets the table mapping of the addressed entity set
func WithSchema(schema *SchemaRegistry) PostgresqlVisitorOption {
	return func(v *PostgresqlVisitor) {
		v.schema = schema
	}
}

// WithAliases makes the parameter aliases of an address available to alias
// references.
func WithAliases(aliases []u.AliasOption) PostgresqlVisitorOption {
	return func(v *PostgresqlVisitor) {
		for _, a := range aliases {
			v.aliases[a.Name()] = a.Expression()
		}
	}
}

func NewPostgresqlVisitor(opts ...PostgresqlVisitorOption) *PostgresqlVisitor {
	v := &PostgresqlVisitor{
		precedenceMapping: make(map[string]int),
		aliases:           make(map[string]u.Expression),
		expanding:         make(map[string]bool),
	}
	// https://www.postgresql.org/docs/14/sql-syntax-lexical.html#SQL-PRECEDENCE-TABLE
	v.setPrecedence(160, ". LEFT")
	v.setPrecedence(160, ":: LEFT")
	v.setPrecedence(150, "[ LEFT")
	v.setPrecedence(140, "+ RIGHT", "- RIGHT")
	v.setPrecedence(130, "^ LEFT")
	v.setPrecedence(120, "* LEFT", "/ LEFT", "% LEFT")
	v.setPrecedence(110, "+ LEFT", "- LEFT")
	// all other native and user-defined operators 👇️
	v.setPrecedence(100, "(any other operator) LEFT")
	v.setPrecedence(90, "BETWEEN NON", "IN NON", "LIKE NON", "ILIKE NON", "SIMILAR NON")
	v.setPrecedence(80, "< NON", "> NON", "= NON", "<= NON", ">= NON", "<> NON")
	v.setPrecedence(70, "IS NON", "ISNULL NON", "NOTNULL NON")
	v.setPrecedence(60, "NOT RIGHT")
	v.setPrecedence(50, "AND LEFT")
	v.setPrecedence(40, "OR LEFT")
	for i := range opts {
		opts[i](v)
	}
	v.scopes = []scope{{alias: v.schema.Ref(), schema: v.schema}}
	return v
}

// scope is the row a member path is resolved against: the addressed table
// or the current row of an any/all subquery.
type scope struct {
	variable string
	alias    string
	schema   *SchemaRegistry
	// embedded is true when alias names an unnested array element
	embedded bool
}

type PostgresqlVisitor struct {
	sql               string
	placeholderIndex  uint8
	parameters        []any
	precedence        int
	precedenceMapping map[string]int
	// strict parenthesizes an operand of equal precedence (right operand of
	// a left-associative operator)
	strict       bool
	scopes       []scope
	aliasCounter int
	schema       *SchemaRegistry
	aliases      map[string]u.Expression
	expanding    map[string]bool
}

var binaryOperators = map[operators.BinaryOperator]string{
	operators.OperatorAnd: "AND",
	operators.OperatorOr:  "OR",
	operators.OperatorEq:  "=",
	operators.OperatorNe:  "<>",
	operators.OperatorGt:  ">",
	operators.OperatorGe:  ">=",
	operators.OperatorLt:  "<",
	operators.OperatorLe:  "<=",
	operators.OperatorAdd: "+",
	operators.OperatorSub: "-",
	operators.OperatorMul: "*",
	operators.OperatorDiv: "/",
	operators.OperatorMod: "%",
}

var methodTemplates = map[operators.Method]string{
	operators.MethodContains:           "(strpos(%s, %s) > 0)",
	operators.MethodSubstringOf:        "(strpos(%[2]s, %[1]s) > 0)",
	operators.MethodStartsWith:         "starts_with(%s, %s)",
	operators.MethodEndsWith:           "(right(%[1]s, char_length(%[2]s)) = %[2]s)",
	operators.MethodLength:             "char_length(%s)",
	operators.MethodIndexOf:            "(strpos(%s, %s) - 1)",
	operators.MethodToLower:            "lower(%s)",
	operators.MethodToUpper:            "upper(%s)",
	operators.MethodTrim:               "btrim(%s)",
	operators.MethodConcat:             "(%s || %s)",
	operators.MethodYear:               "EXTRACT(YEAR FROM %s)",
	operators.MethodMonth:              "EXTRACT(MONTH FROM %s)",
	operators.MethodDay:                "EXTRACT(DAY FROM %s)",
	operators.MethodHour:               "EXTRACT(HOUR FROM %s)",
	operators.MethodMinute:             "EXTRACT(MINUTE FROM %s)",
	operators.MethodSecond:             "floor(EXTRACT(SECOND FROM %s))",
	operators.MethodTotalSeconds:       "EXTRACT(EPOCH FROM %s)",
	operators.MethodTotalOffsetMinutes: "(EXTRACT(TIMEZONE FROM %s) / 60)",
	operators.MethodDate:               "CAST(%s AS date)",
	operators.MethodTime:               "CAST(%s AS time)",
	operators.MethodNow:                "now()",
	operators.MethodMinDateTime:        "'-infinity'::timestamptz",
	operators.MethodMaxDateTime:        "'infinity'::timestamptz",
	operators.MethodRound:              "round(%s)",
	operators.MethodFloor:              "floor(%s)",
	operators.MethodCeiling:            "ceil(%s)",
}

var columnTypes = map[string]string{
	"Binary":         "bytea",
	"Boolean":        "boolean",
	"Byte":           "smallint",
	"Date":           "date",
	"DateTimeOffset": "timestamptz",
	"Decimal":        "numeric",
	"Double":         "double precision",
	"Duration":       "interval",
	"Guid":           "uuid",
	"Int16":          "smallint",
	"Int32":          "integer",
	"Int64":          "bigint",
	"SByte":          "smallint",
	"Single":         "real",
	"String":         "text",
	"TimeOfDay":      "time",
}

func (v PostgresqlVisitor) setPrecedence(precedence int, operators ...string) {
	for _, op := range operators {
		v.precedenceMapping[op] = precedence
	}
}

func (v *PostgresqlVisitor) visit(precedenceKey string, callable func() error) error {
	outerPrecedence := v.precedence
	innerPrecedence, ok := v.precedenceMapping[precedenceKey]
	if !ok {
		innerPrecedence, ok = v.precedenceMapping["(any other operator) LEFT"]
		if !ok {
			innerPrecedence = outerPrecedence
		}
	}
	wrap := innerPrecedence < outerPrecedence || (v.strict && innerPrecedence == outerPrecedence)
	v.strict = false
	v.precedence = innerPrecedence
	if wrap {
		v.sql += "("
	}
	err := callable()
	if err != nil {
		return err
	}
	if wrap {
		v.sql += ")"
	}
	v.precedence = outerPrecedence
	return nil
}

// render compiles e on its own at the given outer precedence. Parameters
// keep accumulating.
func (v *PostgresqlVisitor) render(e u.Expression, precedence int) (string, error) {
	outerSQL, outerPrecedence := v.sql, v.precedence
	v.sql, v.precedence, v.strict = "", precedence, false
	err := e.Accept(v)
	sql := v.sql
	v.sql, v.precedence = outerSQL, outerPrecedence
	return sql, err
}

func (v *PostgresqlVisitor) placeholder(value any) string {
	v.parameters = append(v.parameters, value)
	return fmt.Sprintf("$%d", int(v.placeholderIndex)+len(v.parameters))
}

func (v *PostgresqlVisitor) VisitBinary(n u.BinaryNode) error {
	if n.Operator() == operators.OperatorEq || n.Operator() == operators.OperatorNe {
		negate := n.Operator() == operators.OperatorNe
		if isNull(n.Right()) {
			return v.visitIsNull(n.Left(), negate)
		}
		if isNull(n.Left()) {
			return v.visitIsNull(n.Right(), negate)
		}
	}
	operator, ok := binaryOperators[n.Operator()]
	if !ok {
		return errors.Wrapf(ErrUnsupported, "operator %s", n.Operator())
	}
	associativity := "LEFT"
	if n.Operator().IsComparison() {
		associativity = "NON"
	}
	return v.visit(fmt.Sprintf("%s %s", operator, associativity), func() error {
		err := n.Left().Accept(v)
		if err != nil {
			return err
		}
		v.sql += fmt.Sprintf(" %s ", operator)
		v.strict = true
		err = n.Right().Accept(v)
		v.strict = false
		return err
	})
}

func (v *PostgresqlVisitor) visitIsNull(operand u.Expression, negate bool) error {
	return v.visit("IS NON", func() error {
		err := operand.Accept(v)
		if err != nil {
			return err
		}
		if negate {
			v.sql += " IS NOT NULL"
		} else {
			v.sql += " IS NULL"
		}
		return nil
	})
}

func isNull(e u.Expression) bool {
	l, ok := e.(u.LiteralNode)
	return ok && l.Kind() == u.LiteralNull
}

func (v *PostgresqlVisitor) VisitUnary(n u.UnaryNode) error {
	switch n.Operator() {
	case operators.OperatorNot:
		return v.visit("NOT RIGHT", func() error {
			v.sql += "NOT "
			return n.Operand().Accept(v)
		})
	case operators.OperatorMinus:
		return v.visit("- RIGHT", func() error {
			v.sql += "-"
			return n.Operand().Accept(v)
		})
	}
	return errors.Wrapf(ErrUnsupported, "operator %s", n.Operator())
}

func (v *PostgresqlVisitor) VisitLiteral(n u.LiteralNode) error {
	if n.Kind() == u.LiteralNull {
		v.sql += "NULL"
		return nil
	}
	value, err := n.Value()
	if err != nil {
		return err
	}
	v.sql += v.placeholder(value)
	return nil
}

func (v *PostgresqlVisitor) VisitTypeLiteral(n u.TypeLiteralNode) error {
	return errors.Wrapf(ErrUnsupported, "type literal %s outside cast", edm.NameOf(n.Type()))
}

func (v *PostgresqlVisitor) VisitAlias(n u.AliasNode) error {
	e, ok := v.aliases[n.Name()]
	if !ok || e == nil {
		return errors.Errorf("alias @%s is not defined", n.Name())
	}
	if v.expanding[n.Name()] {
		return errors.Errorf("alias @%s references itself", n.Name())
	}
	v.expanding[n.Name()] = true
	defer delete(v.expanding, n.Name())
	return e.Accept(v)
}

func (v *PostgresqlVisitor) VisitMethod(n u.MethodNode) error {
	switch n.Method() {
	case operators.MethodCast:
		return v.visitCast(n)
	case operators.MethodSubstring:
		if len(n.Parameters()) == 3 {
			return v.call("substr(%s, %s + 1, %s)", n.Parameters())
		}
		return v.call("substr(%s, %s + 1)", n.Parameters())
	}
	template, ok := methodTemplates[n.Method()]
	if !ok {
		return errors.Wrapf(ErrUnsupported, "method %s", n.Method())
	}
	return v.call(template, n.Parameters())
}

func (v *PostgresqlVisitor) call(template string, params []u.Expression) error {
	args := make([]any, 0, len(params))
	for _, p := range params {
		arg, err := v.render(p, 0)
		if err != nil {
			return err
		}
		args = append(args, arg)
	}
	v.sql += fmt.Sprintf(template, args...)
	return nil
}

func (v *PostgresqlVisitor) visitCast(n u.MethodNode) error {
	params := n.Parameters()
	if len(params) != 2 {
		return errors.Wrap(ErrUnsupported, "cast of the current instance")
	}
	target, ok := params[1].(u.TypeLiteralNode)
	if !ok {
		return errors.Wrap(ErrUnsupported, "cast target is not a type")
	}
	columnType, ok := columnTypes[target.Type().Name()]
	if !ok || target.Type().Kind() != edm.KindPrimitive {
		return errors.Wrapf(ErrUnsupported, "cast to %s", edm.NameOf(target.Type()))
	}
	operand, err := v.render(params[0], 0)
	if err != nil {
		return err
	}
	v.sql += fmt.Sprintf("CAST(%s AS %s)", operand, columnType)
	return nil
}

// memberRef is a member path split into the row it starts from and the
// property path below it.
type memberRef struct {
	scope      scope
	names      []string
	navigation string
	collection bool
	count      bool
}

func (v *PostgresqlVisitor) member(path u.ResourcePath) (memberRef, error) {
	var ref memberRef
	for i, seg := range path.Segments() {
		if ref.collection && seg.Kind() != u.SegmentCount {
			return ref, errors.Wrapf(ErrUnsupported, "path continues after collection %s", seg)
		}
		switch s := seg.(type) {
		case u.ItSegment:
			if i != 0 {
				return ref, errors.Errorf("unexpected %s", seg)
			}
			ref.scope = v.scopes[len(v.scopes)-1]
		case u.LambdaVariableSegment:
			if i != 0 {
				return ref, errors.Wrapf(ErrUnsupported, "lambda variable %s after %s", s.Variable(), path.First())
			}
			found := false
			for j := len(v.scopes) - 1; j > 0; j-- {
				if v.scopes[j].variable == s.Variable() {
					ref.scope, found = v.scopes[j], true
					break
				}
			}
			if !found {
				return ref, errors.Errorf("lambda variable %s is not in scope", s.Variable())
			}
		case u.SimplePropertySegment:
			ref.names = append(ref.names, s.String())
			ref.collection = s.IsCollection()
		case u.ComplexPropertySegment:
			if s.IsCollection() {
				return ref, errors.Wrapf(ErrUnsupported, "complex collection %s", s)
			}
			ref.names = append(ref.names, s.String())
		case u.NavigationPropertySegment:
			if !s.IsCollection() || len(ref.names) > 0 {
				return ref, errors.Wrapf(ErrUnsupported, "navigation %s outside any, all and $count", s)
			}
			ref.navigation = s.String()
			ref.collection = true
		case u.CountSegment:
			ref.count = true
		default:
			return ref, errors.Wrapf(ErrUnsupported, "path segment %s", seg)
		}
	}
	return ref, nil
}

func (v *PostgresqlVisitor) VisitMember(n u.MemberNode) error {
	ref, err := v.member(n.Path())
	if err != nil {
		return err
	}
	switch {
	case ref.count:
		return v.visitCount(ref)
	case ref.collection:
		return errors.Wrapf(ErrUnsupported, "collection %s used as a value", n.Path())
	case ref.scope.embedded && len(ref.names) == 0:
		v.sql += identifier(ref.scope.alias)
	case ref.scope.embedded:
		return errors.Wrapf(ErrUnsupported, "property of an array element %s", n.Path())
	case len(ref.names) == 0:
		return errors.Wrapf(ErrUnsupported, "row %s used as a value", n.Path())
	default:
		v.sql += identifier(ref.scope.alias, ref.scope.schema.Column(ref.names...))
	}
	return nil
}

func (v *PostgresqlVisitor) visitCount(ref memberRef) error {
	if ref.navigation == "" {
		v.sql += fmt.Sprintf("cardinality(%s)", identifier(ref.scope.alias, ref.scope.schema.Column(ref.names...)))
		return nil
	}
	from, conditions, _, err := v.relational(ref, "")
	if err != nil {
		return err
	}
	v.sql += fmt.Sprintf("(SELECT count(*) FROM %s WHERE %s)", from, strings.Join(conditions, " AND "))
	return nil
}

func (v *PostgresqlVisitor) VisitLambda(n u.LambdaNode) error {
	ref, err := v.member(n.Collection().Path())
	if err != nil {
		return err
	}
	if !ref.collection || ref.count {
		return errors.Errorf("%s over a non-collection %s", n.Kind(), n.Collection().Path())
	}
	if n.Kind() == u.LambdaAll {
		if n.Body() == nil {
			return errors.New("all without a predicate")
		}
		return v.visit("NOT RIGHT", func() error {
			v.sql += "NOT "
			return v.exists(ref, n, true)
		})
	}
	return v.exists(ref, n, false)
}

// exists emits the EXISTS subquery over the collection; all is rendered as
// NOT EXISTS over the rows violating the body.
func (v *PostgresqlVisitor) exists(ref memberRef, n u.LambdaNode, negate bool) error {
	var from string
	var conditions []string
	var inner scope
	if ref.navigation != "" {
		var err error
		from, conditions, inner, err = v.relational(ref, n.Variable())
		if err != nil {
			return err
		}
	} else {
		alias := v.nextAlias(inflection.Singular(ref.names[len(ref.names)-1]))
		column := identifier(ref.scope.alias, ref.scope.schema.Column(ref.names...))
		from = fmt.Sprintf("unnest(%s) AS %s", column, identifier(alias))
		inner = scope{variable: n.Variable(), alias: alias, embedded: true}
	}

	if n.Body() != nil {
		v.scopes = append(v.scopes, inner)
		var body string
		var err error
		if negate {
			body, err = v.render(n.Body(), 0)
			body = "NOT (" + body + ")"
		} else {
			body, err = v.render(n.Body(), v.precedenceMapping["AND LEFT"])
		}
		v.scopes = v.scopes[:len(v.scopes)-1]
		if err != nil {
			return err
		}
		conditions = append(conditions, body)
	}

	v.sql += "EXISTS (SELECT 1 FROM " + from
	if len(conditions) > 0 {
		v.sql += " WHERE " + strings.Join(conditions, " AND ")
	}
	v.sql += ")"
	return nil
}

// relational returns the FROM item and the join conditions of a collection
// navigation stored in a child table.
func (v *PostgresqlVisitor) relational(ref memberRef, variable string) (string, []string, scope, error) {
	mapping, ok := ref.scope.schema.Get(ref.navigation)
	if !ok || mapping.Storage != StorageRelational {
		return "", nil, scope{}, errors.Wrapf(ErrUnsupported, "navigation %s has no relational mapping", ref.navigation)
	}
	base := mapping.Alias
	if base == "" {
		base = inflection.Singular(ref.navigation)
	}
	alias := v.nextAlias(base)
	conditions := make([]string, 0, len(mapping.ForeignKeys))
	for _, fk := range mapping.ForeignKeys {
		conditions = append(conditions, fmt.Sprintf("%s = %s",
			identifier(alias, fk.ChildColumn), identifier(ref.scope.alias, fk.ParentColumn)))
	}
	child := mapping.Schema
	if child == nil {
		child = NewSchemaRegistry(mapping.Table)
	}
	from := fmt.Sprintf("%s AS %s", identifier(mapping.Table), identifier(alias))
	return from, conditions, scope{variable: variable, alias: alias, schema: child}, nil
}

func (v *PostgresqlVisitor) nextAlias(base string) string {
	v.aliasCounter++
	return fmt.Sprintf("%s_%d", strings.ToLower(base), v.aliasCounter)
}

// identifier quotes the non-empty parts as one qualified name.
func identifier(parts ...string) string {
	id := make(pgx.Identifier, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			id = append(id, p)
		}
	}
	return id.Sanitize()
}

func (v PostgresqlVisitor) Result() (sql string, params []any, err error) {
	return v.sql, v.parameters, nil
}
