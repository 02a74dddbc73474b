package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krew-solutions/ascetic-odata-go/asceticodata/syntax"
	uri "github.com/krew-solutions/ascetic-odata-go/asceticodata/uri/domain"
)

func expandPath(names []string, ext *syntax.ExpandPathExtension) syntax.ExpandItem {
	item := syntax.ExpandItem{Extension: ext}
	for _, name := range names {
		item.Path = append(item.Path, syntax.QualifiedSegment(name))
	}
	return item
}

func nested(options ...syntax.QueryOption) *syntax.ExpandPathExtension {
	return &syntax.ExpandPathExtension{Options: options}
}

func expandOn(set string, items ...syntax.ExpandItem) syntax.ResourceURI {
	return syntax.Resource(segs(syntax.Segment(set)), syntax.ExpandOption{Items: items})
}

func expandItems(t *testing.T, address *uri.Address) []uri.ExpandItem {
	t.Helper()
	option, ok := address.Options().Expand()
	require.True(t, ok)
	return option.Items()
}

func TestExpandWithNestedSelect(t *testing.T) {
	address := resolve(t, expandOn("Customers", expandPath([]string{"Orders"}, nested(
		syntax.SelectOption{Items: []syntax.SelectItem{sel("Amount")}},
	))))

	items := expandItems(t, address)
	require.Len(t, items, 1)
	item := items[0]
	assert.False(t, item.IsStar())
	assert.Equal(t, "Orders", item.Path().String())
	assert.Equal(t, uri.SegmentNavigation, item.Path().Last().Kind())

	selected, ok := item.Options().Select()
	require.True(t, ok)
	property := selected.Items()[0].Segments()[0].(uri.SelectPropertySegment)
	assert.Equal(t, "Amount", property.Property().Name())
}

func TestNestedOptionsAreAnchoredAtTarget(t *testing.T) {
	// Amount belongs to Order, not to Customer.
	err := resolveErr(t, expandOn("Customers", expandPath([]string{"BestFriend"}, nested(
		syntax.SelectOption{Items: []syntax.SelectItem{sel("Amount")}},
	))))
	assert.True(t, IsSemantic(err))

	address := resolve(t, expandOn("Customers", expandPath([]string{"Orders"}, nested(
		syntax.FilterOption{Expr: syntax.Binary(syntax.Member("Amount"), syntax.OpGt, syntax.Literal("5"))},
		syntax.OrderByOption{Items: []syntax.OrderByItem{{Expr: syntax.Member("ID"), Direction: "desc"}}},
		syntax.TopOption{Text: "3"},
		syntax.CountOption{Text: "true"},
	))))
	options := expandItems(t, address)[0].Options()
	filter, ok := options.Filter()
	require.True(t, ok)
	left := filter.Expression().(uri.BinaryNode).Left().(uri.MemberNode)
	assert.Equal(t, "Sales.Order", typeName(left.Path().First().(uri.ItSegment).Type()))
	assert.ElementsMatch(t,
		[]uri.OptionKind{uri.OptionFilter, uri.OptionOrderBy, uri.OptionTop, uri.OptionCount},
		options.SystemKinds())
}

func TestExpandMultiSegmentPath(t *testing.T) {
	address := resolve(t, expandOn("Customers",
		expandPath([]string{"BestFriend", "Orders"}, nil),
		expandPath([]string{"BestFriend", "Sales.VipCustomer"}, nil),
	))
	items := expandItems(t, address)
	require.Len(t, items, 2)
	assert.Equal(t, "BestFriend/Orders", items[0].Path().String())

	friend, ok := items[1].Path().Last().(uri.NavigationPropertySegment)
	require.True(t, ok)
	assert.Equal(t, "Sales.VipCustomer", typeName(friend.EntryTypeFilter()))
	assert.Equal(t, "Sales.VipCustomer", typeName(uri.EffectiveType(friend)))
}

func TestExpandRefAndCount(t *testing.T) {
	address := resolve(t, expandOn("Customers",
		expandPath([]string{"Orders"}, &syntax.ExpandPathExtension{Ref: true}),
		expandPath([]string{"BestFriend"}, &syntax.ExpandPathExtension{Ref: true}),
	))
	for _, item := range expandItems(t, address) {
		assert.True(t, item.IsRef())
		assert.False(t, item.IsCount())
	}

	address = resolve(t, expandOn("Customers", expandPath([]string{"Orders"}, &syntax.ExpandPathExtension{Count: true})))
	assert.True(t, expandItems(t, address)[0].IsCount())
}

func TestExpandErrors(t *testing.T) {
	semantic := map[string]syntax.ExpandItem{
		"not a navigation":         expandPath([]string{"Name"}, nil),
		"complex property":         expandPath([]string{"Address"}, nil),
		"unknown property":         expandPath([]string{"Friends"}, nil),
		"through a collection":     expandPath([]string{"Orders", "Items"}, nil),
		"count of single":          expandPath([]string{"BestFriend"}, &syntax.ExpandPathExtension{Count: true}),
		"nested option not on set": expandPath([]string{"Orders"}, nested(syntax.SelectOption{Items: []syntax.SelectItem{sel("Name")}})),
	}
	for name, item := range semantic {
		t.Run(name, func(t *testing.T) {
			err := resolveErr(t, expandOn("Customers", item))
			assert.True(t, IsSemantic(err), err.Error())
		})
	}

	syntactic := map[string]syntax.ExpandItem{
		"ref and count":   expandPath([]string{"Orders"}, &syntax.ExpandPathExtension{Ref: true, Count: true}),
		"empty path":      {},
		"star ref levels": {Star: true, Ref: true, Levels: "2"},
		"bad star levels": {Star: true, Levels: "0"},
	}
	for name, item := range syntactic {
		t.Run(name, func(t *testing.T) {
			err := resolveErr(t, expandOn("Customers", item))
			assert.True(t, IsSyntax(err), err.Error())
		})
	}

	err := resolveErr(t, syntax.Resource(segs(syntax.Segment("Customers")), syntax.ExpandOption{}))
	assert.True(t, IsSyntax(err))
}

func TestExpandStar(t *testing.T) {
	address := resolve(t, expandOn("Customers",
		syntax.ExpandItem{Star: true},
		syntax.ExpandItem{Star: true, Ref: true},
	))
	items := expandItems(t, address)
	require.Len(t, items, 2)
	assert.True(t, items[0].IsStar())
	assert.False(t, items[0].IsRef())
	_, ok := items[0].Levels()
	assert.False(t, ok)
	assert.True(t, items[1].IsRef())

	address = resolve(t, expandOn("Customers", syntax.ExpandItem{Star: true, Levels: "max"}))
	levels, ok := expandItems(t, address)[0].Levels()
	require.True(t, ok)
	assert.True(t, levels.IsMax())
}

func TestNestedExpand(t *testing.T) {
	tree := expandOn("Customers", expandPath([]string{"Orders"}, nested(
		syntax.ExpandOption{Items: []syntax.ExpandItem{expandPath([]string{"Items"}, nested(
			syntax.SelectOption{Items: []syntax.SelectItem{sel("Quantity")}},
		))}},
		syntax.LevelsOption{Text: "2"},
	)))

	address := resolve(t, tree)
	orders := expandItems(t, address)[0]
	levels, ok := orders.Options().Levels()
	require.True(t, ok)
	assert.Equal(t, 2, levels.Levels().Value())

	inner, ok := orders.Options().Expand()
	require.True(t, ok)
	assert.Equal(t, "Items", inner.Items()[0].Path().String())

	resolve(t, tree, WithMaxExpandDepth(2))
	err := resolveErr(t, tree, WithMaxExpandDepth(1))
	assert.True(t, IsSemantic(err))
	assert.Contains(t, err.Error(), "1 levels")
}
