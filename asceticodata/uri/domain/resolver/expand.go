package resolver

import (
	"github.com/krew-solutions/ascetic-odata-go/asceticodata/syntax"
	uri "github.com/krew-solutions/ascetic-odata-go/asceticodata/uri/domain"
)

func (r *resolution) expandOption(n syntax.ExpandOption) (uri.QueryOption, error) {
	if len(n.Items) == 0 {
		return nil, syntaxError(string(uri.OptionExpand), "no expand items")
	}
	if r.maxExpandDepth > 0 && r.expandDepth >= r.maxExpandDepth {
		return nil, semanticError(string(uri.OptionExpand), "expand nesting exceeds %d levels", r.maxExpandDepth)
	}
	r.expandDepth++
	defer func() {
		r.expandDepth--
	}()
	anchor, err := r.types.peek()
	if err != nil {
		return nil, err
	}
	items := make([]uri.ExpandItem, 0, len(n.Items))
	for _, item := range n.Items {
		ei, err := r.expandItem(anchor, item)
		if err != nil {
			return nil, err
		}
		items = append(items, ei)
	}
	return uri.NewExpandOption(n.Text, items), nil
}

func (r *resolution) expandItem(anchor typeContext, item syntax.ExpandItem) (uri.ExpandItem, error) {
	if item.Star {
		return r.expandStar(item)
	}
	if len(item.Path) == 0 {
		return uri.ExpandItem{}, syntaxError("", "empty expand item")
	}

	path := newPathBuilder(uri.NewItSegment(anchor.typ, false, false))
	for _, seg := range item.Path {
		if err := r.nextSegment(path, seg); err != nil {
			return uri.ExpandItem{}, err
		}
	}
	target, ok := path.last().(uri.NavigationPropertySegment)
	if !ok {
		return uri.ExpandItem{}, semanticError(segmentToken(item.Path[len(item.Path)-1]), "expand path must end in a navigation property")
	}
	resolved := uri.NewResourcePath(path.build().Segments()[1:]...)

	var ref, count bool
	options := uri.NewQueryOptionsBuilder().Build()
	if ext := item.Extension; ext != nil {
		ref, count = ext.Ref, ext.Count
		if ref && count {
			return uri.ExpandItem{}, syntaxError(target.String(), "$ref and $count cannot be combined")
		}
		if count && !target.IsCollection() {
			return uri.ExpandItem{}, semanticError(target.String(), "$count requires a collection")
		}
		if len(ext.Options) > 0 {
			r.types.push(uri.EffectiveType(target), target.IsCollection())
			defer r.types.pop()
			nested, err := r.queryOptions(ext.Options)
			if err != nil {
				return uri.ExpandItem{}, err
			}
			options = nested
		}
	}
	r.logger.V(1).Info("expand item resolved", "path", resolved.String(), "depth", r.expandDepth)
	return uri.NewPathExpandItem(resolved, ref, count, options), nil
}

func (r *resolution) expandStar(item syntax.ExpandItem) (uri.ExpandItem, error) {
	if item.Ref && item.Levels != "" {
		return uri.ExpandItem{}, syntaxError("*", "$ref and $levels cannot be combined")
	}
	if item.Levels == "" {
		return uri.NewStarExpandItem(item.Ref, nil), nil
	}
	levels, err := parseLevels(item.Levels)
	if err != nil {
		return uri.ExpandItem{}, err
	}
	return uri.NewStarExpandItem(item.Ref, &levels), nil
}
