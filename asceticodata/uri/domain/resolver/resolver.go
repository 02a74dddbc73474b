// Package resolver turns a parsed address into a uri.Address validated
// against an EDM. Resolution is a single recursive descent over the parse
// tree that aborts on the first error.
package resolver

import (
	"strings"

	"github.com/go-logr/logr"
	"github.com/oklog/ulid/v2"
	"github.com/pkg/errors"

	"github.com/krew-solutions/ascetic-odata-go/asceticodata/edm"
	"github.com/krew-solutions/ascetic-odata-go/asceticodata/syntax"
	uri "github.com/krew-solutions/ascetic-odata-go/asceticodata/uri/domain"
)

// Resolver holds configuration only. Every Resolve call runs on its own
// resolution state, so one Resolver may serve concurrent calls as long as
// the provider is safe for concurrent reads.
type Resolver struct {
	provider       edm.Provider
	logger         logr.Logger
	maxExpandDepth int
}

func New(provider edm.Provider, opts ...Option) *Resolver {
	r := &Resolver{
		provider: provider,
		logger:   logr.Discard(),
	}
	for i := range opts {
		opts[i](r)
	}
	return r
}

// Resolve validates the parse tree and returns the resolved address. No
// partial address is returned on error.
func (r *Resolver) Resolve(tree syntax.URI) (*uri.Address, error) {
	res := &resolution{
		provider:       r.provider,
		logger:         r.logger.WithValues("pass", ulid.Make().String()),
		maxExpandDepth: r.maxExpandDepth,
	}
	address, err := res.resolve(tree)
	if err != nil {
		res.logger.V(1).Info("resolution aborted", "error", err.Error())
		return nil, errors.Wrap(err, "resolve address")
	}
	res.logger.V(1).Info("address resolved", "kind", address.Kind())
	return address, nil
}

// resolution is the mutable state of one pass.
type resolution struct {
	provider       edm.Provider
	logger         logr.Logger
	maxExpandDepth int
	lambdas        lambdaScope
	types          typeStack
	selecting      *selectState
	expandDepth    int
}

func (r *resolution) resolve(tree syntax.URI) (*uri.Address, error) {
	switch n := tree.(type) {
	case syntax.BatchURI:
		return uri.NewBatchAddress(), nil
	case syntax.MetadataURI:
		return r.metadata(n)
	case syntax.EntityURI:
		return r.entity(n)
	case syntax.ResourceURI:
		return r.resource(n)
	case nil:
		return nil, syntaxError("", "empty address")
	}
	return nil, syntaxError("", "unsupported address form %T", tree)
}

func (r *resolution) metadata(n syntax.MetadataURI) (*uri.Address, error) {
	if n.Fragment != "" {
		return nil, syntaxError(n.Fragment, "metadata context fragments are not supported")
	}
	b := uri.NewQueryOptionsBuilder()
	if n.Format != nil {
		if err := b.Add(uri.NewFormatOption(n.Format.Text)); err != nil {
			return nil, errors.WithStack(err)
		}
	}
	return uri.NewMetadataAddress(b.Build()), nil
}

func (r *resolution) entity(n syntax.EntityURI) (*uri.Address, error) {
	var cast edm.EntityType
	if n.Name != "" {
		name := edm.NewFullQualifiedName(strings.TrimSuffix(n.Namespace, "."), n.Name)
		t, ok := r.provider.EntityType(name)
		if !ok {
			return nil, semanticError(name.String(), "unknown entity type")
		}
		cast = t
		r.types.push(t, false)
		defer r.types.pop()
	}
	options, err := r.queryOptions(n.Options)
	if err != nil {
		return nil, err
	}
	if _, ok := options.Id(); !ok {
		return nil, semanticError("$entity", "$id is required")
	}
	return uri.NewEntityIdAddress(cast, options), nil
}

func (r *resolution) resource(n syntax.ResourceURI) (*uri.Address, error) {
	switch {
	case n.Path.All:
		options, err := r.queryOptions(n.Options)
		if err != nil {
			return nil, err
		}
		return uri.NewAllAddress(options), nil
	case n.Path.CrossJoin != nil:
		if len(n.Path.CrossJoin) == 0 {
			return nil, syntaxError("$crossjoin", "entity set list is empty")
		}
		for _, name := range n.Path.CrossJoin {
			if _, ok := r.provider.EntitySet(name); !ok {
				return nil, semanticError(name, "crossjoin requires entity sets")
			}
		}
		options, err := r.queryOptions(n.Options)
		if err != nil {
			return nil, err
		}
		return uri.NewCrossJoinAddress(n.Path.CrossJoin, options), nil
	case n.Path.Segments == nil || len(n.Path.Segments.Segments) == 0:
		return nil, syntaxError("", "empty resource path")
	}

	path, err := r.resourcePath(n.Path.Segments)
	if err != nil {
		return nil, err
	}
	if anchor, ok := path.lastTyped(); ok && uri.EffectiveType(anchor) != nil {
		r.types.push(uri.EffectiveType(anchor), anchor.IsCollection())
		defer r.types.pop()
	}
	options, err := r.queryOptions(n.Options)
	if err != nil {
		return nil, err
	}
	return uri.NewResourceAddress(path.build(), options), nil
}
