package uri

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	"github.com/krew-solutions/ascetic-odata-go/asceticodata/edm"
	u "github.com/krew-solutions/ascetic-odata-go/asceticodata/uri/domain"
)

// CompileFilter compiles a $filter expression to a SQL condition
func CompileFilter(filter u.Expression, opts ...PostgresqlVisitorOption) (sql string, params []any, err error) {
	v := NewPostgresqlVisitor(opts...)
	err = filter.Accept(v)
	if err != nil {
		return "", nil, err
	}
	return v.Result()
}

// CompileOrderBy compiles $orderby items to an ORDER BY list
func CompileOrderBy(orderBy u.OrderByOption, opts ...PostgresqlVisitorOption) (sql string, params []any, err error) {
	v := NewPostgresqlVisitor(opts...)
	sql, err = v.orderBy(orderBy)
	if err != nil {
		return "", nil, err
	}
	return sql, v.parameters, nil
}

func (v *PostgresqlVisitor) orderBy(orderBy u.OrderByOption) (string, error) {
	items := orderBy.Items()
	parts := make([]string, 0, len(items))
	for _, item := range items {
		part, err := v.render(item.Expression(), 0)
		if err != nil {
			return "", err
		}
		if item.IsDescending() {
			part += " DESC"
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, ", "), nil
}

// CompileQuery compiles an address of an entity set, optionally keyed or
// counted, to a single SELECT. A nil schema maps the entity set to the
// lower-cased table of the same name.
func CompileQuery(address *u.Address, schema *SchemaRegistry) (sql string, params []any, err error) {
	if address == nil || address.Kind() != u.AddressResource {
		return "", nil, errors.Wrap(ErrUnsupported, "only resource addresses are queried")
	}
	path := address.Path()
	set, ok := path.First().(u.EntitySetSegment)
	if !ok {
		return "", nil, errors.Wrapf(ErrUnsupported, "query of %s", path)
	}
	if set.CollectionTypeFilter() != nil || set.EntryTypeFilter() != nil {
		return "", nil, errors.Wrapf(ErrUnsupported, "type cast of %s", set)
	}
	count := false
	switch {
	case path.Len() == 1:
	case path.Len() == 2 && path.Last().Kind() == u.SegmentCount:
		count = true
	default:
		return "", nil, errors.Wrapf(ErrUnsupported, "query of %s", path)
	}
	options := address.Options()
	for _, kind := range []u.OptionKind{u.OptionSearch, u.OptionSkipToken} {
		if _, ok := options.System(kind); ok {
			return "", nil, errors.Wrapf(ErrUnsupported, "option %s", kind)
		}
	}
	if schema == nil {
		schema = NewSchemaRegistry(strings.ToLower(set.EntitySet().Name()))
	}

	v := NewPostgresqlVisitor(WithSchema(schema), WithAliases(options.Aliases()))
	var conditions []string
	for _, key := range set.KeyPredicates() {
		value := key.Expression()
		if key.Alias() != "" {
			value = u.NewAliasNode(key.Alias())
		}
		rendered, err := v.render(value, v.precedenceMapping["= NON"])
		if err != nil {
			return "", nil, err
		}
		conditions = append(conditions, identifier(schema.Ref(), schema.Column(key.Name()))+" = "+rendered)
	}
	if filter, ok := options.Filter(); ok {
		rendered, err := v.render(filter.Expression(), v.precedenceMapping["AND LEFT"])
		if err != nil {
			return "", nil, err
		}
		conditions = append(conditions, rendered)
	}

	var b strings.Builder
	if count {
		b.WriteString("SELECT count(*)")
	} else {
		columns, err := selectList(options, schema)
		if err != nil {
			return "", nil, err
		}
		b.WriteString("SELECT " + columns)
	}
	b.WriteString(" FROM " + identifier(schema.Table))
	if schema.Alias != "" {
		b.WriteString(" AS " + identifier(schema.Alias))
	}
	if len(conditions) > 0 {
		b.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	if count {
		return b.String(), v.parameters, nil
	}

	if orderBy, ok := options.OrderBy(); ok {
		rendered, err := v.orderBy(orderBy)
		if err != nil {
			return "", nil, err
		}
		b.WriteString(" ORDER BY " + rendered)
	}
	if top, ok := options.Top(); ok {
		b.WriteString(" LIMIT " + v.placeholder(top.Value()))
	}
	if skip, ok := options.Skip(); ok {
		b.WriteString(" OFFSET " + v.placeholder(skip.Value()))
	}
	return b.String(), v.parameters, nil
}

// selectList returns the columns of $select, or "*". Operations in $select
// only advertise what may be invoked and add no columns.
func selectList(options u.QueryOptions, schema *SchemaRegistry) (string, error) {
	sel, ok := options.Select()
	if !ok {
		return "*", nil
	}
	var columns []string
	for _, item := range sel.Items() {
		if item.IsStar() {
			return "*", nil
		}
		var names []string
		var last edm.Element
		for _, seg := range item.Segments() {
			switch s := seg.(type) {
			case u.SelectPropertySegment:
				names = append(names, s.Property().Name())
				last = s.Property()
			case u.SelectActionSegment, u.SelectFunctionSegment:
			default:
				return "", errors.Wrapf(ErrUnsupported, "select of %s", seg)
			}
		}
		if last == nil {
			continue
		}
		if last.ElementKind() != edm.ElementPrimitive {
			return "", errors.Wrapf(ErrUnsupported, "select of %s", last.Name())
		}
		columns = append(columns, identifier(schema.Ref(), schema.Column(names...)))
	}
	if len(columns) == 0 {
		return "*", nil
	}
	return strings.Join(columns, ", "), nil
}

// Querier is satisfied by *pgx.Conn, pgx.Tx and *pgxpool.Pool.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Find runs the query of address and returns its rows.
func Find(ctx context.Context, q Querier, address *u.Address, schema *SchemaRegistry) (pgx.Rows, error) {
	sql, params, err := CompileQuery(address, schema)
	if err != nil {
		return nil, errors.Wrap(err, "compile query")
	}
	return q.Query(ctx, sql, params...)
}
