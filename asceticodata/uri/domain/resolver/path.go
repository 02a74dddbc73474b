package resolver

import (
	"sort"
	"strings"

	"github.com/krew-solutions/ascetic-odata-go/asceticodata/edm"
	"github.com/krew-solutions/ascetic-odata-go/asceticodata/syntax"
	uri "github.com/krew-solutions/ascetic-odata-go/asceticodata/uri/domain"
)

// resourcePath resolves a path addressed from the service root.
func (r *resolution) resourcePath(p *syntax.PathSegments) (*pathBuilder, error) {
	path := newPathBuilder()
	for i, seg := range p.Segments {
		var err error
		if i == 0 {
			err = r.firstSegment(path, seg)
		} else {
			err = r.nextSegment(path, seg)
		}
		if err != nil {
			return nil, err
		}
	}
	if p.Const != nil {
		switch p.Const.Kind {
		case syntax.ConstAny, syntax.ConstAll:
			return nil, syntaxError(string(p.Const.Kind), "lambda expressions are not allowed in a resource path")
		}
		if err := r.constSegment(path, p.Const.Kind); err != nil {
			return nil, err
		}
	}
	return path, nil
}

// firstSegment tries entity sets, singletons, action imports and function
// imports, in that order.
func (r *resolution) firstSegment(path *pathBuilder, seg syntax.PathSegment) error {
	token := segmentToken(seg)
	if seg.Namespace != "" {
		return semanticError(token, "unknown path segment")
	}
	lists := seg.Lists
	if es, ok := r.provider.EntitySet(seg.Name); ok {
		path.add(uri.NewEntitySetSegment(es))
	} else if s, ok := r.provider.Singleton(seg.Name); ok {
		path.add(uri.NewSingletonSegment(s))
	} else if ai, ok := r.provider.ActionImport(seg.Name); ok {
		if len(lists) > 0 {
			if !isEmptyList(lists[0]) {
				return semanticError(token, "action parameters are not allowed in the address")
			}
			lists = lists[1:]
		}
		path.add(uri.NewActionImportSegment(ai))
	} else if fi, ok := r.provider.FunctionImport(seg.Name); ok {
		params, rest, err := r.parameters(lists, token)
		if err != nil {
			return err
		}
		if !sameNames(fi.Function().ParameterNames(), parameterNames(params)) {
			return semanticError(token, "parameters do not match function import")
		}
		lists = rest
		path.add(uri.NewFunctionImportSegment(fi, params))
	} else {
		return semanticError(token, "unknown path segment")
	}
	r.traceSegment(path)
	return r.keyPredicates(path, lists, token)
}

// nextSegment resolves a segment relative to the last segment of path.
func (r *resolution) nextSegment(path *pathBuilder, seg syntax.PathSegment) error {
	var err error
	if seg.Namespace == "" {
		err = r.memberSegment(path, seg)
	} else {
		err = r.qualifiedSegment(path, seg)
	}
	if err != nil {
		return err
	}
	r.traceSegment(path)
	return nil
}

func (r *resolution) memberSegment(path *pathBuilder, seg syntax.PathSegment) error {
	prev := path.last()
	if v, ok := r.lambdas.lookup(seg.Name); ok {
		variable := uri.NewLambdaVariableSegment(v.name, v.typ, v.isCollection)
		if it, ok := prev.(uri.ItSegment); ok && !it.IsExplicit() && path.len() == 1 {
			path.replaceLast(variable)
		} else {
			path.add(variable)
		}
		return r.keyPredicates(path, seg.Lists, seg.Name)
	}
	typedPrev, ok := prev.(uri.TypedSegment)
	if !ok || uri.EffectiveType(prev) == nil {
		return semanticError(seg.Name, "previous path segment not typed")
	}
	st, ok := uri.EffectiveType(prev).(edm.StructuralType)
	if !ok {
		return semanticError(seg.Name, "previous path segment is not a structural type")
	}
	if typedPrev.IsCollection() {
		return semanticError(seg.Name, "property is not allowed after a collection")
	}
	property, ok := st.Property(seg.Name)
	if !ok {
		return semanticError(seg.Name, "unknown property of %s", edm.NameOf(st))
	}
	switch property.ElementKind() {
	case edm.ElementNavigation:
		path.add(uri.NewNavigationPropertySegment(property))
	case edm.ElementComplex:
		path.add(uri.NewComplexPropertySegment(property))
	default:
		path.add(uri.NewSimplePropertySegment(property))
	}
	return r.keyPredicates(path, seg.Lists, seg.Name)
}

// qualifiedSegment tries a compatible type cast, a bound action, a bound
// function and, after an explicit $it, an unbound function.
func (r *resolution) qualifiedSegment(path *pathBuilder, seg syntax.PathSegment) error {
	token := segmentToken(seg)
	name := edm.NewFullQualifiedName(strings.TrimSuffix(seg.Namespace, "."), seg.Name)
	prev := path.last()
	typedPrev, ok := prev.(uri.TypedSegment)
	lastType := uri.EffectiveType(prev)
	if !ok || lastType == nil {
		return semanticError(token, "previous path segment not typed")
	}

	incompatible := false
	if cast, ok := r.structuralType(name, lastType.Kind()); ok {
		if cast.CompatibleTo(lastType) {
			if err := r.typeFilter(path, cast, token); err != nil {
				return err
			}
			return r.keyPredicates(path, seg.Lists, token)
		}
		incompatible = true
	}

	binding := &edm.Binding{Type: edm.NameOf(lastType), IsCollection: typedPrev.IsCollection()}
	if action, ok := r.provider.Action(name, binding); ok {
		lists := seg.Lists
		if len(lists) > 0 {
			if !isEmptyList(lists[0]) {
				return semanticError(token, "action parameters are not allowed in the address")
			}
			lists = lists[1:]
		}
		path.add(uri.NewActionSegment(action))
		return r.keyPredicates(path, lists, token)
	}

	params, rest, err := r.parameters(seg.Lists, token)
	if err != nil {
		return err
	}
	names := parameterNames(params)
	if fn, ok := r.provider.Function(name, binding, names); ok {
		path.add(uri.NewFunctionSegment(fn, params))
		return r.keyPredicates(path, rest, token)
	}
	if it, ok := prev.(uri.ItSegment); ok && it.IsExplicit() {
		if fn, ok := r.provider.Function(name, nil, names); ok {
			path.replaceLast(uri.NewFunctionSegment(fn, params))
			return r.keyPredicates(path, rest, token)
		}
	}

	if incompatible {
		return semanticError(token, "type %s is not compatible with %s and no bound operation matches", name, edm.NameOf(lastType))
	}
	return semanticError(token, "unresolved qualified name %s", name)
}

// structuralType looks up a cast target of the same kind as the type being
// cast.
func (r *resolution) structuralType(name edm.FullQualifiedName, kind edm.TypeKind) (edm.StructuralType, bool) {
	switch kind {
	case edm.KindEntity:
		t, ok := r.provider.EntityType(name)
		if !ok {
			return nil, false
		}
		return t, true
	case edm.KindComplex:
		t, ok := r.provider.ComplexType(name)
		if !ok {
			return nil, false
		}
		return t, true
	}
	return nil, false
}

// typeFilter attaches a cast to the last segment: to the entry slot when it
// addresses a single instance, to the collection slot otherwise. Each slot
// is filled at most once.
func (r *resolution) typeFilter(path *pathBuilder, cast edm.Type, token string) error {
	switch s := path.last().(type) {
	case uri.KeyPredicateSegment:
		if s.IsCollection() {
			if s.CollectionTypeFilter() != nil {
				return semanticError(token, "type filters are not chainable")
			}
			path.replaceLast(s.WithCollectionTypeFilter(cast))
			return nil
		}
		if s.EntryTypeFilter() != nil {
			return semanticError(token, "type filters are not chainable")
		}
		path.replaceLast(s.WithEntryTypeFilter(cast))
		return nil
	case uri.CastableSegment:
		if s.TypeFilter() != nil {
			return semanticError(token, "type filters are not chainable")
		}
		path.replaceLast(s.WithTypeFilter(cast))
		return nil
	}
	return semanticError(token, "type filter is not allowed on %s", path.last())
}

// keyPredicates attaches the remaining parenthesized list, if any, to the
// last segment.
func (r *resolution) keyPredicates(path *pathBuilder, lists []syntax.NameValueOptList, token string) error {
	if len(lists) == 0 {
		return nil
	}
	if len(lists) > 1 {
		return syntaxError(token, "only one key predicate list is allowed")
	}
	seg, ok := path.last().(uri.KeyPredicateSegment)
	if !ok {
		return semanticError(token, "key properties not allowed")
	}
	if !seg.IsCollection() {
		return semanticError(token, "key predicates require a collection")
	}
	et, ok := uri.EffectiveType(seg).(edm.EntityType)
	if !ok || len(et.KeyPropertyNames()) == 0 {
		return semanticError(token, "key properties not allowed")
	}
	keys := et.KeyPropertyNames()
	list := lists[0]

	var predicates []uri.Parameter
	switch {
	case list.Value != nil:
		if len(keys) != 1 {
			return semanticError(token, "a single key value requires exactly one key property, %s has %d", edm.NameOf(et), len(keys))
		}
		expr, err := r.value(list.Value.Text, list.Value.Value)
		if err != nil {
			return err
		}
		predicates = []uri.Parameter{uri.NewParameter(keys[0], list.Value.Text, expr)}
	case len(list.Pairs) > 0:
		if len(list.Pairs) != len(keys) {
			return semanticError(token, "key predicate must name all %d key properties", len(keys))
		}
		seen := make(map[string]bool, len(keys))
		for _, k := range keys {
			seen[k] = false
		}
		for _, pair := range list.Pairs {
			used, isKey := seen[pair.Name]
			if !isKey {
				return semanticError(pair.Name, "not a key property of %s", edm.NameOf(et))
			}
			if used {
				return semanticError(pair.Name, "duplicate key property")
			}
			seen[pair.Name] = true
			p, err := r.parameter(pair)
			if err != nil {
				return err
			}
			predicates = append(predicates, p)
		}
	default:
		return syntaxError(token, "key predicate has neither a single value nor named values")
	}
	path.replaceLast(seg.WithKeyPredicates(predicates))
	return nil
}

// parameters consumes the first list as named operation parameters. No list
// means no parameters.
func (r *resolution) parameters(lists []syntax.NameValueOptList, token string) ([]uri.Parameter, []syntax.NameValueOptList, error) {
	if len(lists) == 0 {
		return []uri.Parameter{}, nil, nil
	}
	list := lists[0]
	if list.Value != nil {
		return nil, nil, syntaxError(token, "operation parameters must be named")
	}
	params := make([]uri.Parameter, 0, len(list.Pairs))
	seen := make(map[string]bool, len(list.Pairs))
	for _, pair := range list.Pairs {
		if seen[pair.Name] {
			return nil, nil, semanticError(pair.Name, "duplicate parameter")
		}
		seen[pair.Name] = true
		p, err := r.parameter(pair)
		if err != nil {
			return nil, nil, err
		}
		params = append(params, p)
	}
	return params, lists[1:], nil
}

func (r *resolution) parameter(pair syntax.NameValuePair) (uri.Parameter, error) {
	if pair.Alias != "" {
		return uri.NewAliasParameter(pair.Name, strings.TrimPrefix(pair.Alias, "@")), nil
	}
	expr, err := r.value(pair.Text, pair.Value)
	if err != nil {
		return uri.Parameter{}, err
	}
	return uri.NewParameter(pair.Name, pair.Text, expr), nil
}

// value resolves a parameter or key value; bare text is a literal.
func (r *resolution) value(text string, expr syntax.Expr) (uri.Expression, error) {
	if expr == nil {
		return uri.NewLiteralNode(text), nil
	}
	return r.expression(expr)
}

// constSegment validates and appends $value, $count or $ref.
func (r *resolution) constSegment(path *pathBuilder, kind syntax.ConstKind) error {
	prev, ok := path.last().(uri.TypedSegment)
	if !ok || uri.EffectiveType(prev) == nil {
		return semanticError(string(kind), "previous path segment not typed")
	}
	t := uri.EffectiveType(prev)
	switch kind {
	case syntax.ConstValue:
		if prev.IsCollection() {
			return semanticError(string(kind), "$value is not allowed on a collection")
		}
		switch t.Kind() {
		case edm.KindPrimitive, edm.KindEnum, edm.KindTypeDefinition, edm.KindEntity:
		default:
			return semanticError(string(kind), "$value is not allowed on %s", edm.NameOf(t))
		}
		path.add(uri.ValueSegment{})
	case syntax.ConstCount:
		if !prev.IsCollection() {
			return semanticError(string(kind), "$count requires a collection")
		}
		path.add(uri.CountSegment{})
	case syntax.ConstRef:
		if t.Kind() != edm.KindEntity {
			return semanticError(string(kind), "$ref requires entities")
		}
		path.add(uri.RefSegment{})
	default:
		return syntaxError(string(kind), "unsupported path segment")
	}
	r.traceSegment(path)
	return nil
}

func (r *resolution) traceSegment(path *pathBuilder) {
	s := path.last()
	r.logger.V(1).Info("segment resolved", "kind", s.Kind(), "segment", s.String())
}

func segmentToken(seg syntax.PathSegment) string {
	return seg.Namespace + seg.Name
}

func isEmptyList(list syntax.NameValueOptList) bool {
	return list.Value == nil && len(list.Pairs) == 0
}

func parameterNames(params []uri.Parameter) []string {
	names := make([]string, 0, len(params))
	for _, p := range params {
		names = append(names, p.Name())
	}
	return names
}

func sameNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	x := append([]string(nil), a...)
	y := append([]string(nil), b...)
	sort.Strings(x)
	sort.Strings(y)
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}
