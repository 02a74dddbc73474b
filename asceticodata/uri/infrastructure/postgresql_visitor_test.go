package uri

import (
	"reflect"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/krew-solutions/ascetic-odata-go/asceticodata/edm"
	"github.com/krew-solutions/ascetic-odata-go/asceticodata/edm/memory"
	u "github.com/krew-solutions/ascetic-odata-go/asceticodata/uri/domain"
	"github.com/krew-solutions/ascetic-odata-go/asceticodata/uri/domain/operators"
)

type salesModel struct {
	provider  *memory.Provider
	customers edm.EntitySet
	customer  edm.EntityType
	order     edm.EntityType
	line      edm.EntityType
}

func newSalesModel(t *testing.T) salesModel {
	t.Helper()
	b := memory.NewBuilder("Sales")
	b.ComplexType("Address").
		Property("Street", "Edm.String").
		Property("City", "Edm.String")
	b.EntityType("Customer").
		Key("ID").
		Property("ID", "Edm.Int32").
		Property("Name", "Edm.String").
		Property("Age", "Edm.Int32").
		Property("Since", "Edm.DateTimeOffset").
		Property("Address", "Address").
		CollectionProperty("Tags", "Edm.String").
		CollectionNavigationProperty("Orders", "Order")
	b.EntityType("Order").
		Key("ID").
		Property("ID", "Edm.Int32").
		Property("Total", "Edm.Decimal").
		CollectionNavigationProperty("Lines", "Line")
	b.EntityType("Line").
		Key("ID").
		Property("ID", "Edm.Int32").
		Property("Quantity", "Edm.Int32")
	b.EntitySet("Customers", "Customer").
		EntitySet("Orders", "Order")
	p, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	m := salesModel{provider: p}
	m.customers, _ = p.EntitySet("Customers")
	m.customer = m.customers.EntityType()
	m.order, _ = p.EntityType(edm.NewFullQualifiedName("Sales", "Order"))
	m.line, _ = p.EntityType(edm.NewFullQualifiedName("Sales", "Line"))
	return m
}

func (m salesModel) it() u.Segment {
	return u.NewItSegment(m.customer, false, false)
}

// member walks names from head; "$count" appends a count segment.
func member(t *testing.T, head u.Segment, names ...string) u.MemberNode {
	t.Helper()
	segments := []u.Segment{head}
	current := u.EffectiveType(head)
	for _, name := range names {
		if name == "$count" {
			segments = append(segments, u.CountSegment{})
			continue
		}
		st, ok := current.(edm.StructuralType)
		if !ok {
			t.Fatalf("%s has no properties", name)
		}
		p, ok := st.Property(name)
		if !ok {
			t.Fatalf("Unknown property %s", name)
		}
		switch p.ElementKind() {
		case edm.ElementNavigation:
			segments = append(segments, u.NewNavigationPropertySegment(p))
		case edm.ElementComplex:
			segments = append(segments, u.NewComplexPropertySegment(p))
		default:
			segments = append(segments, u.NewSimplePropertySegment(p))
		}
		current = p.Type()
	}
	return u.NewMemberNode(u.NewResourcePath(segments...))
}

func variable(name string, typ edm.Type) u.Segment {
	return u.NewLambdaVariableSegment(name, typ, false)
}

func lit(text string) u.LiteralNode {
	return u.NewLiteralNode(text)
}

func bin(left u.Expression, op operators.BinaryOperator, right u.Expression) u.BinaryNode {
	return u.NewBinaryNode(left, op, right)
}

func customersSchema() *SchemaRegistry {
	return NewSchemaRegistry("customers").WithAlias("c")
}

func compileExpr(t *testing.T, e u.Expression, opts ...PostgresqlVisitorOption) (string, []any) {
	t.Helper()
	visitor := NewPostgresqlVisitor(opts...)
	err := e.Accept(visitor)
	if err != nil {
		t.Fatalf("Accept failed: %v", err)
	}
	sql, params, err := visitor.Result()
	if err != nil {
		t.Fatalf("Result failed: %v", err)
	}
	return sql, params
}

func assertSQL(t *testing.T, expectedSQL, sql string) {
	t.Helper()
	if sql != expectedSQL {
		t.Errorf("Expected SQL:\n  %s\nGot:\n  %s", expectedSQL, sql)
	}
}

func assertParams(t *testing.T, expected, params []any) {
	t.Helper()
	if !reflect.DeepEqual(expected, params) {
		t.Errorf("Expected params %v, got %v", expected, params)
	}
}

func TestPostgresqlVisitor_Precedence(t *testing.T) {
	m := newSalesModel(t)
	age := member(t, m.it(), "Age")
	name := member(t, m.it(), "Name")

	cases := []struct {
		name        string
		expr        u.Expression
		expectedSQL string
	}{
		{
			name: "or inside and",
			expr: bin(bin(age, operators.OperatorGt, lit("18")), operators.OperatorAnd,
				bin(bin(name, operators.OperatorEq, lit("'Bob'")), operators.OperatorOr, bin(name, operators.OperatorEq, lit("'Ann'")))),
			expectedSQL: `"c"."age" > $1 AND ("c"."name" = $2 OR "c"."name" = $3)`,
		},
		{
			name: "left nested or",
			expr: bin(bin(bin(name, operators.OperatorEq, lit("'A'")), operators.OperatorOr, bin(name, operators.OperatorEq, lit("'B'"))),
				operators.OperatorOr, bin(name, operators.OperatorEq, lit("'C'"))),
			expectedSQL: `"c"."name" = $1 OR "c"."name" = $2 OR "c"."name" = $3`,
		},
		{
			name: "right nested or",
			expr: bin(bin(name, operators.OperatorEq, lit("'A'")), operators.OperatorOr,
				bin(bin(name, operators.OperatorEq, lit("'B'")), operators.OperatorOr, bin(name, operators.OperatorEq, lit("'C'")))),
			expectedSQL: `"c"."name" = $1 OR ("c"."name" = $2 OR "c"."name" = $3)`,
		},
		{
			name:        "right nested sub",
			expr:        bin(age, operators.OperatorSub, bin(age, operators.OperatorSub, lit("1"))),
			expectedSQL: `"c"."age" - ("c"."age" - $1)`,
		},
		{
			name:        "mul inside add",
			expr:        bin(age, operators.OperatorAdd, bin(age, operators.OperatorMul, lit("2"))),
			expectedSQL: `"c"."age" + "c"."age" * $1`,
		},
		{
			name:        "add inside mul",
			expr:        bin(bin(age, operators.OperatorAdd, lit("1")), operators.OperatorMul, lit("2")),
			expectedSQL: `("c"."age" + $1) * $2`,
		},
		{
			name:        "not over comparison",
			expr:        u.NewUnaryNode(operators.OperatorNot, bin(age, operators.OperatorGt, lit("18"))),
			expectedSQL: `NOT "c"."age" > $1`,
		},
		{
			name: "not over and",
			expr: u.NewUnaryNode(operators.OperatorNot,
				bin(bin(age, operators.OperatorGt, lit("18")), operators.OperatorAnd, bin(name, operators.OperatorNe, lit("'Bob'")))),
			expectedSQL: `NOT ("c"."age" > $1 AND "c"."name" <> $2)`,
		},
		{
			name:        "negation",
			expr:        bin(u.NewUnaryNode(operators.OperatorMinus, age), operators.OperatorLt, lit("-5")),
			expectedSQL: `-"c"."age" < $1`,
		},
		{
			name:        "modulo",
			expr:        bin(bin(age, operators.OperatorMod, lit("2")), operators.OperatorEq, lit("0")),
			expectedSQL: `"c"."age" % $1 = $2`,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			sql, _ := compileExpr(t, c.expr, WithSchema(customersSchema()))
			assertSQL(t, c.expectedSQL, sql)
		})
	}
}

func TestPostgresqlVisitor_Params(t *testing.T) {
	m := newSalesModel(t)
	expr := bin(bin(member(t, m.it(), "Age"), operators.OperatorGe, lit("18")), operators.OperatorAnd,
		bin(member(t, m.it(), "Name"), operators.OperatorEq, lit("'O''Hara'")))

	sql, params := compileExpr(t, expr, WithSchema(customersSchema()))

	assertSQL(t, `"c"."age" >= $1 AND "c"."name" = $2`, sql)
	assertParams(t, []any{int32(18), "O'Hara"}, params)
}

func TestPostgresqlVisitor_PlaceholderIndex(t *testing.T) {
	m := newSalesModel(t)
	expr := bin(member(t, m.it(), "Age"), operators.OperatorGt, lit("18"))

	sql, params := compileExpr(t, expr, WithSchema(customersSchema()), PlaceholderIndex(2))

	assertSQL(t, `"c"."age" > $3`, sql)
	assertParams(t, []any{int32(18)}, params)
}

func TestPostgresqlVisitor_Null(t *testing.T) {
	m := newSalesModel(t)
	name := member(t, m.it(), "Name")

	sql, params := compileExpr(t, bin(bin(name, operators.OperatorEq, lit("null")), operators.OperatorAnd,
		bin(member(t, m.it(), "Age"), operators.OperatorGt, lit("1"))), WithSchema(customersSchema()))
	assertSQL(t, `"c"."name" IS NULL AND "c"."age" > $1`, sql)
	assertParams(t, []any{int32(1)}, params)

	sql, params = compileExpr(t, bin(lit("null"), operators.OperatorNe, name), WithSchema(customersSchema()))
	assertSQL(t, `"c"."name" IS NOT NULL`, sql)
	if len(params) != 0 {
		t.Errorf("Expected no params, got %v", params)
	}
}

func TestPostgresqlVisitor_Columns(t *testing.T) {
	m := newSalesModel(t)
	expr := bin(member(t, m.it(), "Address", "City"), operators.OperatorEq, lit("'Paris'"))

	sql, _ := compileExpr(t, expr, WithSchema(customersSchema()))
	assertSQL(t, `"c"."address_city" = $1`, sql)

	sql, _ = compileExpr(t, expr, WithSchema(customersSchema().MapColumn("Address/City", "city")))
	assertSQL(t, `"c"."city" = $1`, sql)

	sql, _ = compileExpr(t, expr)
	assertSQL(t, `"address_city" = $1`, sql)
}

func TestPostgresqlVisitor_Any_Relational(t *testing.T) {
	m := newSalesModel(t)
	schema := customersSchema().RegisterRelational("Orders", "orders", "customer_id", "id")
	body := bin(member(t, variable("o", m.order), "Total"), operators.OperatorGt, lit("100"))
	expr := u.NewLambdaNode(u.LambdaAny, member(t, m.it(), "Orders"), "o", m.order, false, body)

	sql, params := compileExpr(t, expr, WithSchema(schema))

	expectedSQL := `EXISTS (SELECT 1 FROM "orders" AS "order_1" WHERE "order_1"."customer_id" = "c"."id" AND "order_1"."total" > $1)`
	assertSQL(t, expectedSQL, sql)
	assertParams(t, []any{int32(100)}, params)
}

func TestPostgresqlVisitor_Any_BodyPrecedence(t *testing.T) {
	m := newSalesModel(t)
	schema := customersSchema().RegisterRelational("Orders", "orders", "customer_id", "id")
	total := member(t, variable("o", m.order), "Total")
	body := bin(bin(total, operators.OperatorGt, lit("100")), operators.OperatorOr, bin(total, operators.OperatorLt, lit("10")))
	expr := u.NewLambdaNode(u.LambdaAny, member(t, m.it(), "Orders"), "o", m.order, false, body)

	sql, _ := compileExpr(t, expr, WithSchema(schema))

	expectedSQL := `EXISTS (SELECT 1 FROM "orders" AS "order_1" WHERE "order_1"."customer_id" = "c"."id" AND ("order_1"."total" > $1 OR "order_1"."total" < $2))`
	assertSQL(t, expectedSQL, sql)
}

func TestPostgresqlVisitor_All_Relational(t *testing.T) {
	m := newSalesModel(t)
	schema := customersSchema().RegisterRelational("Orders", "orders", "customer_id", "id")
	body := bin(member(t, variable("o", m.order), "Total"), operators.OperatorGt, lit("100"))
	expr := u.NewLambdaNode(u.LambdaAll, member(t, m.it(), "Orders"), "o", m.order, false, body)

	sql, _ := compileExpr(t, expr, WithSchema(schema))

	expectedSQL := `NOT EXISTS (SELECT 1 FROM "orders" AS "order_1" WHERE "order_1"."customer_id" = "c"."id" AND NOT ("order_1"."total" > $1))`
	assertSQL(t, expectedSQL, sql)
}

func TestPostgresqlVisitor_All_WithoutBody(t *testing.T) {
	m := newSalesModel(t)
	schema := customersSchema().RegisterRelational("Orders", "orders", "customer_id", "id")
	expr := u.NewLambdaNode(u.LambdaAll, member(t, m.it(), "Orders"), "", m.order, false, nil)

	err := expr.Accept(NewPostgresqlVisitor(WithSchema(schema)))
	if err == nil {
		t.Fatal("Expected error for all without a predicate")
	}
}

func TestPostgresqlVisitor_Any_CompositeKey(t *testing.T) {
	m := newSalesModel(t)
	schema := customersSchema().RegisterRelationalComposite("Orders", "orders", []ForeignKeyPair{
		{ChildColumn: "tenant_id", ParentColumn: "tenant_id"},
		{ChildColumn: "customer_id", ParentColumn: "id"},
	})
	expr := u.NewLambdaNode(u.LambdaAny, member(t, m.it(), "Orders"), "", m.order, false, nil)

	sql, _ := compileExpr(t, expr, WithSchema(schema))

	expectedSQL := `EXISTS (SELECT 1 FROM "orders" AS "order_1" WHERE "order_1"."tenant_id" = "c"."tenant_id" AND "order_1"."customer_id" = "c"."id")`
	assertSQL(t, expectedSQL, sql)
}

func TestPostgresqlVisitor_Any_MappingAlias(t *testing.T) {
	m := newSalesModel(t)
	schema := customersSchema().Register("Orders", CollectionMapping{
		Storage:     StorageRelational,
		Table:       "orders",
		ForeignKeys: []ForeignKeyPair{{ChildColumn: "customer_id", ParentColumn: "id"}},
		Alias:       "ord",
		Schema:      NewSchemaRegistry("orders").MapColumn("Total", "grand_total"),
	})
	body := bin(member(t, variable("o", m.order), "Total"), operators.OperatorGt, lit("100"))
	expr := u.NewLambdaNode(u.LambdaAny, member(t, m.it(), "Orders"), "o", m.order, false, body)

	sql, _ := compileExpr(t, expr, WithSchema(schema))

	expectedSQL := `EXISTS (SELECT 1 FROM "orders" AS "ord_1" WHERE "ord_1"."customer_id" = "c"."id" AND "ord_1"."grand_total" > $1)`
	assertSQL(t, expectedSQL, sql)
}

func TestPostgresqlVisitor_Any_Embedded(t *testing.T) {
	m := newSalesModel(t)
	tag := u.NewMemberNode(u.NewResourcePath(variable("t", edm.String)))
	body := bin(tag, operators.OperatorEq, lit("'vip'"))
	expr := u.NewLambdaNode(u.LambdaAny, member(t, m.it(), "Tags"), "t", edm.String, false, body)

	sql, params := compileExpr(t, expr, WithSchema(customersSchema()))

	assertSQL(t, `EXISTS (SELECT 1 FROM unnest("c"."tags") AS "tag_1" WHERE "tag_1" = $1)`, sql)
	assertParams(t, []any{"vip"}, params)

	bare := u.NewLambdaNode(u.LambdaAny, member(t, m.it(), "Tags"), "", edm.String, false, nil)
	sql, _ = compileExpr(t, bare, WithSchema(customersSchema()))
	assertSQL(t, `EXISTS (SELECT 1 FROM unnest("c"."tags") AS "tag_1")`, sql)
}

func TestPostgresqlVisitor_Any_Nested(t *testing.T) {
	m := newSalesModel(t)
	schema := customersSchema().Register("Orders", CollectionMapping{
		Storage:     StorageRelational,
		Table:       "orders",
		ForeignKeys: []ForeignKeyPair{{ChildColumn: "customer_id", ParentColumn: "id"}},
		Schema:      NewSchemaRegistry("orders").RegisterRelational("Lines", "order_lines", "order_id", "id"),
	})
	inner := u.NewLambdaNode(u.LambdaAny, member(t, variable("o", m.order), "Lines"), "l", m.line, false,
		bin(member(t, variable("l", m.line), "Quantity"), operators.OperatorGt, member(t, variable("o", m.order), "ID")))
	expr := u.NewLambdaNode(u.LambdaAny, member(t, m.it(), "Orders"), "o", m.order, false, inner)

	sql, params := compileExpr(t, expr, WithSchema(schema))

	expectedSQL := `EXISTS (SELECT 1 FROM "orders" AS "order_1" WHERE "order_1"."customer_id" = "c"."id" AND ` +
		`EXISTS (SELECT 1 FROM "order_lines" AS "line_2" WHERE "line_2"."order_id" = "order_1"."id" AND "line_2"."quantity" > "order_1"."id"))`
	assertSQL(t, expectedSQL, sql)
	if len(params) != 0 {
		t.Errorf("Expected no params, got %v", params)
	}
}

func TestPostgresqlVisitor_Any_ImplicitMemberInBody(t *testing.T) {
	m := newSalesModel(t)
	schema := customersSchema().RegisterRelational("Orders", "orders", "customer_id", "id")
	// Inside the body the implicit $it is the order row.
	body := bin(member(t, u.NewItSegment(m.order, false, false), "Total"), operators.OperatorGt, lit("1"))
	expr := u.NewLambdaNode(u.LambdaAny, member(t, m.it(), "Orders"), "o", m.order, false, body)

	sql, _ := compileExpr(t, expr, WithSchema(schema))

	expectedSQL := `EXISTS (SELECT 1 FROM "orders" AS "order_1" WHERE "order_1"."customer_id" = "c"."id" AND "order_1"."total" > $1)`
	assertSQL(t, expectedSQL, sql)
}

func TestPostgresqlVisitor_Count(t *testing.T) {
	m := newSalesModel(t)
	schema := customersSchema().RegisterRelational("Orders", "orders", "customer_id", "id")

	sql, params := compileExpr(t, bin(member(t, m.it(), "Orders", "$count"), operators.OperatorGt, lit("2")), WithSchema(schema))
	assertSQL(t, `(SELECT count(*) FROM "orders" AS "order_1" WHERE "order_1"."customer_id" = "c"."id") > $1`, sql)
	assertParams(t, []any{int32(2)}, params)

	sql, _ = compileExpr(t, bin(member(t, m.it(), "Tags", "$count"), operators.OperatorEq, lit("0")), WithSchema(schema))
	assertSQL(t, `cardinality("c"."tags") = $1`, sql)
}

func TestPostgresqlVisitor_Methods(t *testing.T) {
	m := newSalesModel(t)
	name := member(t, m.it(), "Name")
	age := member(t, m.it(), "Age")
	since := member(t, m.it(), "Since")
	call := u.NewMethodNode

	cases := []struct {
		name        string
		expr        u.Expression
		expectedSQL string
	}{
		{"contains", call(operators.MethodContains, name, lit("'ab'")), `(strpos("c"."name", $1) > 0)`},
		{"substringof", call(operators.MethodSubstringOf, lit("'ab'"), name), `(strpos("c"."name", $1) > 0)`},
		{"startswith", call(operators.MethodStartsWith, name, lit("'ab'")), `starts_with("c"."name", $1)`},
		{"endswith", call(operators.MethodEndsWith, name, lit("'ab'")), `(right("c"."name", char_length($1)) = $1)`},
		{"length", bin(call(operators.MethodLength, name), operators.OperatorGt, lit("3")), `char_length("c"."name") > $1`},
		{"indexof", bin(call(operators.MethodIndexOf, name, lit("'b'")), operators.OperatorEq, lit("1")), `(strpos("c"."name", $1) - 1) = $2`},
		{"substring", bin(call(operators.MethodSubstring, name, lit("1")), operators.OperatorEq, lit("'x'")), `substr("c"."name", $1 + 1) = $2`},
		{"substring with length", call(operators.MethodSubstring, name, lit("1"), lit("2")), `substr("c"."name", $1 + 1, $2)`},
		{"tolower", bin(call(operators.MethodToLower, name), operators.OperatorEq, lit("'bob'")), `lower("c"."name") = $1`},
		{"toupper", call(operators.MethodToUpper, name), `upper("c"."name")`},
		{"trim", call(operators.MethodTrim, name), `btrim("c"."name")`},
		{"concat", call(operators.MethodConcat, name, lit("'x'")), `("c"."name" || $1)`},
		{"year", bin(call(operators.MethodYear, since), operators.OperatorEq, lit("2024")), `EXTRACT(YEAR FROM "c"."since") = $1`},
		{"second", call(operators.MethodSecond, since), `floor(EXTRACT(SECOND FROM "c"."since"))`},
		{"date", call(operators.MethodDate, since), `CAST("c"."since" AS date)`},
		{"now", bin(since, operators.OperatorLt, call(operators.MethodNow)), `"c"."since" < now()`},
		{"maxdatetime", bin(since, operators.OperatorLt, call(operators.MethodMaxDateTime)), `"c"."since" < 'infinity'::timestamptz`},
		{"round", call(operators.MethodRound, bin(age, operators.OperatorDiv, lit("3"))), `round("c"."age" / $1)`},
		{"ceiling", call(operators.MethodCeiling, age), `ceil("c"."age")`},
		{"cast", call(operators.MethodCast, age, u.NewTypeLiteralNode(edm.String)), `CAST("c"."age" AS text)`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			sql, _ := compileExpr(t, c.expr, WithSchema(customersSchema()))
			assertSQL(t, c.expectedSQL, sql)
		})
	}
}

func TestPostgresqlVisitor_EndsWithPatternCharacters(t *testing.T) {
	m := newSalesModel(t)
	cases := map[string]string{
		"underscore": "'a_c'",
		"percent":    "'50%'",
		"backslash":  "'a\\'",
	}
	for label, suffix := range cases {
		t.Run(label, func(t *testing.T) {
			expr := u.NewMethodNode(operators.MethodEndsWith, member(t, m.it(), "Name"), lit(suffix))

			sql, params := compileExpr(t, expr, WithSchema(customersSchema()))

			assertSQL(t, `(right("c"."name", char_length($1)) = $1)`, sql)
			if strings.Contains(sql, "LIKE") {
				t.Errorf("Expected no pattern matching, got %s", sql)
			}
			assertParams(t, []any{suffix[1 : len(suffix)-1]}, params)
		})
	}
}

func TestPostgresqlVisitor_Aliases(t *testing.T) {
	m := newSalesModel(t)
	expr := bin(member(t, m.it(), "Age"), operators.OperatorGt, u.NewAliasNode("min"))
	aliases := []u.AliasOption{u.NewAliasOption("min", "18", lit("18"))}

	sql, params := compileExpr(t, expr, WithSchema(customersSchema()), WithAliases(aliases))

	assertSQL(t, `"c"."age" > $1`, sql)
	assertParams(t, []any{int32(18)}, params)

	err := expr.Accept(NewPostgresqlVisitor())
	if err == nil || !strings.Contains(err.Error(), "@min is not defined") {
		t.Errorf("Expected undefined alias error, got %v", err)
	}

	loop := []u.AliasOption{u.NewAliasOption("min", "@min", u.NewAliasNode("min"))}
	err = expr.Accept(NewPostgresqlVisitor(WithAliases(loop)))
	if err == nil || !strings.Contains(err.Error(), "references itself") {
		t.Errorf("Expected self reference error, got %v", err)
	}
}

func TestPostgresqlVisitor_Unsupported(t *testing.T) {
	m := newSalesModel(t)
	name := member(t, m.it(), "Name")
	age := member(t, m.it(), "Age")
	inner := u.NewMemberNode(u.NewResourcePath(m.it(),
		u.NewComplexPropertySegment(property(t, m.customer, "Address")), variable("c", m.customer)))

	cases := map[string]u.Expression{
		"has":            bin(name, operators.OperatorHas, lit("Sales.Color'Red'")),
		"isof":           u.NewMethodNode(operators.MethodIsOf, u.NewTypeLiteralNode(m.customer)),
		"geo.distance":   u.NewMethodNode(operators.MethodGeoDistance, name, name),
		"type literal":   u.NewTypeLiteralNode(edm.String),
		"cast to type":   u.NewMethodNode(operators.MethodCast, age, u.NewTypeLiteralNode(m.order)),
		"root":           bin(u.NewMemberNode(u.NewResourcePath(u.RootSegment{}, u.NewEntitySetSegment(m.customers))), operators.OperatorEq, lit("null")),
		"collection":     bin(member(t, m.it(), "Tags"), operators.OperatorEq, lit("null")),
		"unmapped any":   u.NewLambdaNode(u.LambdaAny, member(t, m.it(), "Orders"), "", m.order, false, nil),
		"unmapped $cnt":  bin(member(t, m.it(), "Orders", "$count"), operators.OperatorGt, lit("1")),
		"inner variable": bin(inner, operators.OperatorEq, lit("null")),
	}
	for label, expr := range cases {
		t.Run(label, func(t *testing.T) {
			err := expr.Accept(NewPostgresqlVisitor(WithSchema(customersSchema())))
			if !errors.Is(err, ErrUnsupported) {
				t.Errorf("Expected ErrUnsupported, got %v", err)
			}
		})
	}
}

func TestPostgresqlVisitor_VariableOutOfScope(t *testing.T) {
	m := newSalesModel(t)
	expr := bin(member(t, variable("o", m.order), "Total"), operators.OperatorGt, lit("1"))

	err := expr.Accept(NewPostgresqlVisitor(WithSchema(customersSchema())))
	if err == nil || !strings.Contains(err.Error(), "lambda variable o is not in scope") {
		t.Errorf("Expected scope error, got %v", err)
	}
}
