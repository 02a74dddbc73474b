package resolver

import (
	"testing"

	"github.com/go-logr/logr/testr"
	"github.com/stretchr/testify/require"

	"github.com/krew-solutions/ascetic-odata-go/asceticodata/edm"
	"github.com/krew-solutions/ascetic-odata-go/asceticodata/edm/memory"
	"github.com/krew-solutions/ascetic-odata-go/asceticodata/syntax"
	uri "github.com/krew-solutions/ascetic-odata-go/asceticodata/uri/domain"
)

func salesModel(t *testing.T) *memory.Provider {
	t.Helper()
	b := memory.NewBuilder("Sales")

	b.ComplexType("Address").
		Property("Street", "Edm.String").
		Property("City", "Edm.String")
	b.ComplexType("PostalAddress").
		BaseType("Address").
		Property("Zip", "Edm.String")

	b.EntityType("Customer").
		Key("ID").
		Property("ID", "Edm.Int32").
		Property("Name", "Edm.String").
		Property("Photo", "Edm.Binary").
		Property("Address", "Address").
		CollectionProperty("Tags", "Edm.String").
		CollectionNavigationProperty("Orders", "Order").
		NavigationProperty("BestFriend", "Customer")
	b.EntityType("VipCustomer").
		BaseType("Customer").
		Property("Level", "Edm.Int32")
	b.EntityType("Order").
		Key("ID").
		Property("ID", "Edm.Int32").
		Property("Amount", "Edm.Decimal").
		NavigationProperty("Customer", "Customer").
		CollectionNavigationProperty("Items", "OrderItem")
	b.EntityType("OrderItem").
		Key("OrderID", "Line").
		Property("OrderID", "Edm.Int32").
		Property("Line", "Edm.Int32").
		Property("Quantity", "Edm.Int32")
	b.EntityType("Product").
		Key("ID").
		Property("ID", "Edm.Guid")

	b.Action("Reset")
	b.Action("Promote").BoundTo("Customer", false)
	b.Action("PromoteAll").BoundTo("Customer", true)
	b.Function("TopCustomers").
		Parameter("count", "Edm.Int32").
		Returns("Customer", true)
	b.Function("MostRecentOrder").
		BoundTo("Customer", false).
		Returns("Order", false)
	b.Function("Rank").
		BoundTo("Customer", false).
		Returns("Edm.Int32", false)
	b.Function("Rank").
		Returns("Edm.Int32", false)
	b.Function("Today").
		Returns("Edm.Date", false)

	b.EntitySet("Customers", "Customer").
		EntitySet("Orders", "Order").
		EntitySet("OrderItems", "OrderItem").
		EntitySet("Products", "Product").
		Singleton("Me", "Customer").
		ActionImport("ResetAll", "Reset").
		FunctionImport("Top", "TopCustomers")

	provider, err := b.Build()
	require.NoError(t, err)
	return provider
}

func newTestResolver(t *testing.T, opts ...Option) *Resolver {
	t.Helper()
	opts = append([]Option{WithLogger(testr.NewWithOptions(t, testr.Options{Verbosity: 1}))}, opts...)
	return New(salesModel(t), opts...)
}

func resolve(t *testing.T, tree syntax.URI, opts ...Option) *uri.Address {
	t.Helper()
	address, err := newTestResolver(t, opts...).Resolve(tree)
	require.NoError(t, err)
	return address
}

func resolveErr(t *testing.T, tree syntax.URI, opts ...Option) error {
	t.Helper()
	_, err := newTestResolver(t, opts...).Resolve(tree)
	require.Error(t, err)
	return err
}

func segs(segments ...syntax.PathSegment) []syntax.PathSegment {
	return segments
}

// filterOn builds "<set>?$filter=<expr>".
func filterOn(set string, expr syntax.Expr) syntax.ResourceURI {
	return syntax.Resource(segs(syntax.Segment(set)), syntax.FilterOption{Expr: expr})
}

func filterExpression(t *testing.T, address *uri.Address) uri.Expression {
	t.Helper()
	f, ok := address.Options().Filter()
	require.True(t, ok)
	return f.Expression()
}

func typeName(t edm.Type) string {
	if t == nil {
		return ""
	}
	return edm.NameOf(t).String()
}

func segmentKinds(p uri.ResourcePath) []uri.SegmentKind {
	kinds := make([]uri.SegmentKind, 0, p.Len())
	for _, s := range p.Segments() {
		kinds = append(kinds, s.Kind())
	}
	return kinds
}
