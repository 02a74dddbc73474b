package resolver

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/krew-solutions/ascetic-odata-go/asceticodata/syntax"
	uri "github.com/krew-solutions/ascetic-odata-go/asceticodata/uri/domain"
)

// queryOptions resolves the options of one address against the type
// context on top of the stack.
func (r *resolution) queryOptions(options []syntax.QueryOption) (uri.QueryOptions, error) {
	b := uri.NewQueryOptionsBuilder()
	for _, o := range options {
		opt, err := r.queryOption(o)
		if err != nil {
			return uri.QueryOptions{}, err
		}
		if err := b.Add(opt); err != nil {
			switch {
			case errors.Is(err, uri.ErrDuplicateOption):
				return uri.QueryOptions{}, semanticError(opt.Name(), "system query option given more than once")
			case errors.Is(err, uri.ErrDuplicateAlias):
				return uri.QueryOptions{}, semanticError("@"+opt.Name(), "alias defined more than once")
			}
			return uri.QueryOptions{}, err
		}
		r.logger.V(1).Info("query option resolved", "name", opt.Name())
	}
	return b.Build(), nil
}

func (r *resolution) queryOption(o syntax.QueryOption) (uri.QueryOption, error) {
	switch n := o.(type) {
	case syntax.FilterOption:
		return r.filter(n)
	case syntax.OrderByOption:
		return r.orderBy(n)
	case syntax.SelectOption:
		return r.selectOption(n)
	case syntax.ExpandOption:
		return r.expandOption(n)
	case syntax.CountOption:
		v, err := parseBool(string(uri.OptionCount), n.Text)
		if err != nil {
			return nil, err
		}
		return uri.NewCountOption(n.Text, v), nil
	case syntax.InlineCountOption:
		switch strings.ToLower(n.Text) {
		case "allpages", "true":
			return uri.NewInlineCountOption(n.Text, true), nil
		case "none", "false":
			return uri.NewInlineCountOption(n.Text, false), nil
		}
		return nil, syntaxError(n.Text, "$inlinecount expects allpages or none")
	case syntax.TopOption:
		v, err := parseNonNegative(string(uri.OptionTop), n.Text)
		if err != nil {
			return nil, err
		}
		return uri.NewTopOption(n.Text, v), nil
	case syntax.SkipOption:
		v, err := parseNonNegative(string(uri.OptionSkip), n.Text)
		if err != nil {
			return nil, err
		}
		return uri.NewSkipOption(n.Text, v), nil
	case syntax.SkipTokenOption:
		return uri.NewSkipTokenOption(n.Text), nil
	case syntax.IdOption:
		if n.Text == "" {
			return nil, syntaxError(string(uri.OptionId), "entity id is empty")
		}
		return uri.NewIdOption(n.Text), nil
	case syntax.FormatOption:
		if n.Text == "" {
			return nil, syntaxError(string(uri.OptionFormat), "format is empty")
		}
		return uri.NewFormatOption(n.Text), nil
	case syntax.SearchOption:
		if n.Expr == nil {
			return nil, syntaxError(n.Text, "$search expression is missing")
		}
		e, err := search(n.Expr)
		if err != nil {
			return nil, err
		}
		return uri.NewSearchOption(n.Text, e), nil
	case syntax.LevelsOption:
		levels, err := parseLevels(n.Text)
		if err != nil {
			return nil, err
		}
		return uri.NewLevelsOption(n.Text, levels), nil
	case syntax.AliasOption:
		name := strings.TrimPrefix(n.Name, "@")
		if name == "" {
			return nil, syntaxError(n.Name, "alias name is empty")
		}
		e, err := r.value(n.Text, n.Value)
		if err != nil {
			return nil, err
		}
		return uri.NewAliasOption(name, n.Text, e), nil
	case syntax.CustomOption:
		if strings.HasPrefix(n.Name, "$") {
			return nil, syntaxError(n.Name, "unknown system query option")
		}
		return uri.NewCustomOption(n.Name, n.Text), nil
	}
	return nil, syntaxError("", "unsupported query option %T", o)
}

func (r *resolution) filter(n syntax.FilterOption) (uri.QueryOption, error) {
	ctx, err := r.types.peek()
	if err != nil {
		return nil, err
	}
	r.types.push(ctx.typ, false)
	defer r.types.pop()
	e, err := r.expression(n.Expr)
	if err != nil {
		return nil, err
	}
	return uri.NewFilterOption(n.Text, e), nil
}

// orderBy keeps the items in significance order; a missing direction is
// ascending.
func (r *resolution) orderBy(n syntax.OrderByOption) (uri.QueryOption, error) {
	if len(n.Items) == 0 {
		return nil, syntaxError(string(uri.OptionOrderBy), "no ordering items")
	}
	ctx, err := r.types.peek()
	if err != nil {
		return nil, err
	}
	r.types.push(ctx.typ, false)
	defer r.types.pop()
	items := make([]uri.OrderByItem, 0, len(n.Items))
	for _, item := range n.Items {
		var descending bool
		switch strings.ToLower(item.Direction) {
		case "", "asc":
		case "desc":
			descending = true
		default:
			return nil, syntaxError(item.Direction, "unknown ordering direction")
		}
		e, err := r.expression(item.Expr)
		if err != nil {
			return nil, err
		}
		items = append(items, uri.NewOrderByItem(e, descending))
	}
	return uri.NewOrderByOption(n.Text, items), nil
}

func search(e syntax.SearchExpr) (uri.SearchExpression, error) {
	switch n := e.(type) {
	case syntax.SearchTerm:
		if n.Text == "" {
			return nil, syntaxError("", "empty search term")
		}
		return uri.NewSearchTermNode(n.Text, n.Phrase), nil
	case syntax.SearchNot:
		operand, err := search(n.Operand)
		if err != nil {
			return nil, err
		}
		return uri.NewSearchNotNode(operand), nil
	case syntax.SearchBinary:
		var op uri.SearchOperator
		switch strings.ToUpper(n.Operator) {
		case "AND", "":
			op = uri.SearchAnd
		case "OR":
			op = uri.SearchOr
		default:
			return nil, syntaxError(n.Operator, "unknown search operator")
		}
		left, err := search(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := search(n.Right)
		if err != nil {
			return nil, err
		}
		return uri.NewSearchBinaryNode(left, op, right), nil
	}
	return nil, syntaxError("", "unsupported search expression %T", e)
}

func parseBool(option, text string) (bool, error) {
	switch strings.ToLower(text) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, syntaxError(text, "%s expects true or false", option)
}

func parseNonNegative(option, text string) (int, error) {
	v, err := strconv.Atoi(text)
	if err != nil || v < 0 {
		return 0, syntaxError(text, "%s expects a non-negative integer", option)
	}
	return v, nil
}

func parseLevels(text string) (uri.Levels, error) {
	if strings.ToLower(text) == "max" {
		return uri.MaxLevels(), nil
	}
	v, err := strconv.Atoi(text)
	if err != nil || v < 1 {
		return uri.Levels{}, syntaxError(text, "$levels expects max or a positive integer")
	}
	return uri.NewLevels(v), nil
}
