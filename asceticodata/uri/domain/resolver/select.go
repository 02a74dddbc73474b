package resolver

import (
	"strings"

	"github.com/krew-solutions/ascetic-odata-go/asceticodata/edm"
	"github.com/krew-solutions/ascetic-odata-go/asceticodata/syntax"
	uri "github.com/krew-solutions/ascetic-odata-go/asceticodata/uri/domain"
)

// selectState is the select item being filled. Its running type is
// independent of the type stack.
type selectState struct {
	typ      edm.Type
	segments []uri.SelectSegment
	closed   bool
}

func (r *resolution) selectOption(n syntax.SelectOption) (uri.QueryOption, error) {
	if len(n.Items) == 0 {
		return nil, syntaxError(string(uri.OptionSelect), "no select items")
	}
	anchor, err := r.types.peek()
	if err != nil {
		return nil, err
	}
	items := make([]uri.SelectItem, 0, len(n.Items))
	for _, item := range n.Items {
		si, err := r.selectItem(anchor, item)
		if err != nil {
			return nil, err
		}
		items = append(items, si)
	}
	return uri.NewSelectOption(n.Text, items), nil
}

func (r *resolution) selectItem(anchor typeContext, item syntax.SelectItem) (uri.SelectItem, error) {
	if len(item.Segments) == 0 {
		return uri.SelectItem{}, syntaxError("", "empty select item")
	}
	outer := r.selecting
	r.selecting = &selectState{typ: anchor.typ}
	defer func() {
		r.selecting = outer
	}()
	for _, seg := range item.Segments {
		if err := r.selectSegment(seg); err != nil {
			return uri.SelectItem{}, err
		}
	}
	return uri.NewSelectItem(r.selecting.segments...), nil
}

func (r *resolution) selectSegment(seg syntax.SelectSegment) error {
	state := r.selecting
	token := seg.Namespace + seg.Name
	if seg.Star {
		token = seg.Namespace + "*"
	}
	if state.closed {
		return semanticError(token, "select path cannot continue after %s", state.segments[len(state.segments)-1])
	}
	switch {
	case seg.Star && seg.Namespace == "":
		state.add(uri.SelectStarSegment{}, true)
		return nil
	case seg.Star:
		state.add(uri.NewSelectNamespaceStarSegment(strings.TrimSuffix(seg.Namespace, ".")), true)
		return nil
	case seg.Namespace == "":
		return r.selectProperty(seg.Name)
	}
	return r.selectQualified(edm.NewFullQualifiedName(strings.TrimSuffix(seg.Namespace, "."), seg.Name), token)
}

func (r *resolution) selectProperty(name string) error {
	state := r.selecting
	st, ok := state.typ.(edm.StructuralType)
	if !ok {
		return semanticError(name, "select path is not on a structural type")
	}
	property, ok := st.Property(name)
	if !ok {
		return semanticError(name, "unknown property of %s", edm.NameOf(st))
	}
	state.typ = property.Type()
	state.add(uri.NewSelectPropertySegment(property), property.ElementKind() != edm.ElementComplex)
	return nil
}

// selectQualified tries a compatible cast, then actions and functions bound
// to the running type, single before collection binding.
func (r *resolution) selectQualified(name edm.FullQualifiedName, token string) error {
	state := r.selecting
	if state.typ == nil {
		return semanticError(token, "select path is not typed")
	}
	if cast, ok := r.structuralType(name, state.typ.Kind()); ok && cast.CompatibleTo(state.typ) {
		state.typ = cast
		state.add(uri.NewSelectTypeCastSegment(cast), false)
		return nil
	}
	for _, isCollection := range []bool{false, true} {
		binding := &edm.Binding{Type: edm.NameOf(state.typ), IsCollection: isCollection}
		if action, ok := r.provider.Action(name, binding); ok {
			state.add(uri.NewSelectActionSegment(action), true)
			return nil
		}
		if fn, ok := r.provider.Function(name, binding, nil); ok {
			state.add(uri.NewSelectFunctionSegment(fn), true)
			return nil
		}
	}
	return semanticError(token, "unresolved qualified name %s in select", name)
}

// add appends a segment; closed segments end the select path.
func (s *selectState) add(seg uri.SelectSegment, closes bool) {
	s.segments = append(s.segments, seg)
	s.closed = closes
}
