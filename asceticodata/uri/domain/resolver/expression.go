package resolver

import (
	"strings"

	"github.com/krew-solutions/ascetic-odata-go/asceticodata/edm"
	"github.com/krew-solutions/ascetic-odata-go/asceticodata/syntax"
	uri "github.com/krew-solutions/ascetic-odata-go/asceticodata/uri/domain"
	"github.com/krew-solutions/ascetic-odata-go/asceticodata/uri/domain/operators"
)

func (r *resolution) expression(e syntax.Expr) (uri.Expression, error) {
	switch n := e.(type) {
	case syntax.BinaryExpr:
		return r.binary(n)
	case syntax.UnaryExpr:
		return r.unary(n)
	case syntax.LiteralExpr:
		return uri.NewLiteralNode(n.Text), nil
	case syntax.MemberExpr:
		return r.member(n)
	case syntax.RootExpr:
		return r.root(n)
	case syntax.MethodCallExpr:
		return r.method(n)
	case syntax.CastExpr:
		return r.typeMethod(operators.MethodCast, n.Operand, n.Namespace, n.Name)
	case syntax.IsOfExpr:
		return r.typeMethod(operators.MethodIsOf, n.Operand, n.Namespace, n.Name)
	case syntax.AliasExpr:
		return uri.NewAliasNode(strings.TrimPrefix(n.Name, "@")), nil
	case syntax.LambdaExpr, *syntax.LambdaExpr:
		return nil, syntaxError("", "any and all require a collection path")
	case nil:
		return nil, syntaxError("", "missing expression")
	}
	return nil, syntaxError("", "unsupported expression %T", e)
}

func (r *resolution) binary(n syntax.BinaryExpr) (uri.Expression, error) {
	op, ok := operators.ParseBinary(n.Operator)
	if !ok {
		return nil, syntaxError(n.Operator, "unknown binary operator")
	}
	left, err := r.expression(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := r.expression(n.Right)
	if err != nil {
		return nil, err
	}
	return uri.NewBinaryNode(left, op, right), nil
}

func (r *resolution) unary(n syntax.UnaryExpr) (uri.Expression, error) {
	op, ok := operators.ParseUnary(n.Operator)
	if !ok {
		return nil, syntaxError(n.Operator, "unknown unary operator")
	}
	operand, err := r.expression(n.Operand)
	if err != nil {
		return nil, err
	}
	return uri.NewUnaryNode(op, operand), nil
}

func (r *resolution) method(n syntax.MethodCallExpr) (uri.Expression, error) {
	m, arity, ok := operators.ParseMethod(n.Method)
	if !ok {
		return nil, syntaxError(n.Method, "unknown method")
	}
	if m == operators.MethodCast || m == operators.MethodIsOf {
		return nil, syntaxError(n.Method, "type argument is missing")
	}
	if !arity.Accepts(len(n.Args)) {
		if arity.Min == arity.Max {
			return nil, syntaxError(n.Method, "expects %d arguments, got %d", arity.Min, len(n.Args))
		}
		return nil, syntaxError(n.Method, "expects %d to %d arguments, got %d", arity.Min, arity.Max, len(n.Args))
	}
	params := make([]uri.Expression, 0, len(n.Args))
	for _, arg := range n.Args {
		p, err := r.expression(arg)
		if err != nil {
			return nil, err
		}
		params = append(params, p)
	}
	return uri.NewMethodNode(m, params...), nil
}

// typeMethod builds cast and isof. Without an operand they apply to $it.
func (r *resolution) typeMethod(m operators.Method, operand syntax.Expr, namespace, name string) (uri.Expression, error) {
	fqn := edm.NewFullQualifiedName(strings.TrimSuffix(namespace, "."), name)
	t, ok := r.provider.TypeDefinition(fqn)
	if !ok {
		return nil, semanticError(fqn.String(), "unknown type")
	}
	if operand == nil {
		return uri.NewMethodNode(m, uri.NewTypeLiteralNode(t)), nil
	}
	e, err := r.expression(operand)
	if err != nil {
		return nil, err
	}
	return uri.NewMethodNode(m, e, uri.NewTypeLiteralNode(t)), nil
}

// member resolves a path against a $it anchor typed from the type context,
// not from the address path.
func (r *resolution) member(n syntax.MemberExpr) (uri.Expression, error) {
	ctx, err := r.types.peek()
	if err != nil {
		return nil, err
	}
	path := newPathBuilder(uri.NewItSegment(ctx.typ, ctx.isCollection, n.It))
	if n.Path == nil {
		if !n.It {
			return nil, syntaxError("", "empty member path")
		}
		return uri.NewMemberNode(path.build()), nil
	}
	for _, seg := range n.Path.Segments {
		if err := r.nextSegment(path, seg); err != nil {
			return nil, err
		}
	}
	return r.memberTail(path, n.Path.Const)
}

func (r *resolution) root(n syntax.RootExpr) (uri.Expression, error) {
	if n.Path == nil || len(n.Path.Segments) == 0 {
		return nil, syntaxError("$root", "path is missing")
	}
	path := newPathBuilder(uri.RootSegment{})
	for i, seg := range n.Path.Segments {
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
	return r.memberTail(path, n.Path.Const)
}

func (r *resolution) memberTail(path *pathBuilder, c *syntax.ConstSegment) (uri.Expression, error) {
	if c == nil {
		return uri.NewMemberNode(path.build()), nil
	}
	switch c.Kind {
	case syntax.ConstAny:
		return r.lambda(path, uri.LambdaAny, c.Lambda)
	case syntax.ConstAll:
		return r.lambda(path, uri.LambdaAll, c.Lambda)
	}
	if err := r.constSegment(path, c.Kind); err != nil {
		return nil, err
	}
	return uri.NewMemberNode(path.build()), nil
}

// lambda resolves the body with the variable and the element type in scope.
// Both are released on every exit path.
func (r *resolution) lambda(path *pathBuilder, kind uri.LambdaKind, l *syntax.LambdaExpr) (uri.Expression, error) {
	collection, ok := path.last().(uri.TypedSegment)
	if !ok || !collection.IsCollection() || uri.EffectiveType(collection) == nil {
		return nil, semanticError(string(kind), "%s requires a collection", kind)
	}
	elementType := uri.EffectiveType(collection)
	member := uri.NewMemberNode(path.build())
	if l == nil || l.Variable == "" {
		if l != nil && l.Body != nil {
			return nil, syntaxError(string(kind), "lambda body without a variable")
		}
		return uri.NewLambdaNode(kind, member, "", elementType, false, nil), nil
	}
	if l.Body == nil {
		return nil, syntaxError(l.Variable, "lambda variable without a body")
	}

	r.types.push(elementType, false)
	defer r.types.pop()
	release := r.lambdas.push(lambdaVariable{name: l.Variable, typ: elementType})
	defer release()
	r.logger.V(1).Info("lambda entered", "kind", kind, "variable", l.Variable, "depth", r.lambdas.depth())

	body, err := r.expression(l.Body)
	if err != nil {
		return nil, err
	}
	r.logger.V(1).Info("lambda left", "kind", kind, "variable", l.Variable)
	return uri.NewLambdaNode(kind, member, l.Variable, elementType, false, body), nil
}
