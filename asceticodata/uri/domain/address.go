// Package uri is the resolved form of an OData resource address: typed path
// segments, query options and expression trees, validated against an EDM
// and interpreted without further schema lookups.
package uri

import (
	"github.com/pkg/errors"

	"github.com/krew-solutions/ascetic-odata-go/asceticodata/edm"
)

type AddressKind string

const (
	AddressResource  AddressKind = "resource"
	AddressBatch     AddressKind = "batch"
	AddressMetadata  AddressKind = "metadata"
	AddressEntityId  AddressKind = "entityId"
	AddressCrossJoin AddressKind = "crossjoin"
	AddressAll       AddressKind = "all"
)

var (
	ErrDuplicateOption = errors.New("duplicate system query option")
	ErrDuplicateAlias  = errors.New("duplicate alias")
)

type QueryOptions struct {
	system  map[OptionKind]SystemQueryOption
	aliases []AliasOption
	custom  []CustomOption
}

func (o QueryOptions) IsEmpty() bool {
	return len(o.system) == 0 && len(o.aliases) == 0 && len(o.custom) == 0
}

func (o QueryOptions) System(kind OptionKind) (SystemQueryOption, bool) {
	opt, ok := o.system[kind]
	return opt, ok
}

// SystemKinds lists the present system options in a stable order.
func (o QueryOptions) SystemKinds() []OptionKind {
	kinds := make([]OptionKind, 0, len(o.system))
	for _, k := range optionOrder {
		if _, ok := o.system[k]; ok {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

var optionOrder = []OptionKind{
	OptionFilter, OptionOrderBy, OptionSelect, OptionExpand, OptionCount,
	OptionInlineCount, OptionTop, OptionSkip, OptionSkipToken, OptionSearch,
	OptionFormat, OptionId, OptionLevels,
}

func (o QueryOptions) Aliases() []AliasOption {
	return append([]AliasOption(nil), o.aliases...)
}

func (o QueryOptions) Alias(name string) (AliasOption, bool) {
	for _, a := range o.aliases {
		if a.name == name {
			return a, true
		}
	}
	return AliasOption{}, false
}

func (o QueryOptions) Custom() []CustomOption {
	return append([]CustomOption(nil), o.custom...)
}

func (o QueryOptions) Filter() (FilterOption, bool) {
	opt, ok := o.system[OptionFilter].(FilterOption)
	return opt, ok
}

func (o QueryOptions) OrderBy() (OrderByOption, bool) {
	opt, ok := o.system[OptionOrderBy].(OrderByOption)
	return opt, ok
}

func (o QueryOptions) Select() (SelectOption, bool) {
	opt, ok := o.system[OptionSelect].(SelectOption)
	return opt, ok
}

func (o QueryOptions) Expand() (ExpandOption, bool) {
	opt, ok := o.system[OptionExpand].(ExpandOption)
	return opt, ok
}

func (o QueryOptions) Count() (CountOption, bool) {
	opt, ok := o.system[OptionCount].(CountOption)
	return opt, ok
}

func (o QueryOptions) InlineCount() (InlineCountOption, bool) {
	opt, ok := o.system[OptionInlineCount].(InlineCountOption)
	return opt, ok
}

func (o QueryOptions) Top() (TopOption, bool) {
	opt, ok := o.system[OptionTop].(TopOption)
	return opt, ok
}

func (o QueryOptions) Skip() (SkipOption, bool) {
	opt, ok := o.system[OptionSkip].(SkipOption)
	return opt, ok
}

func (o QueryOptions) SkipToken() (SkipTokenOption, bool) {
	opt, ok := o.system[OptionSkipToken].(SkipTokenOption)
	return opt, ok
}

func (o QueryOptions) Search() (SearchOption, bool) {
	opt, ok := o.system[OptionSearch].(SearchOption)
	return opt, ok
}

func (o QueryOptions) Format() (FormatOption, bool) {
	opt, ok := o.system[OptionFormat].(FormatOption)
	return opt, ok
}

func (o QueryOptions) Id() (IdOption, bool) {
	opt, ok := o.system[OptionId].(IdOption)
	return opt, ok
}

func (o QueryOptions) Levels() (LevelsOption, bool) {
	opt, ok := o.system[OptionLevels].(LevelsOption)
	return opt, ok
}

// QueryOptionsBuilder accumulates the options of one address. It is the
// only mutable part of a resolved address and is frozen by Build.
type QueryOptionsBuilder struct {
	options QueryOptions
}

func NewQueryOptionsBuilder() *QueryOptionsBuilder {
	return &QueryOptionsBuilder{
		options: QueryOptions{system: make(map[OptionKind]SystemQueryOption)},
	}
}

// Add rejects a second system option of the same kind and a second alias of
// the same name. Custom options may repeat.
func (b *QueryOptionsBuilder) Add(opt QueryOption) error {
	switch o := opt.(type) {
	case SystemQueryOption:
		if _, exists := b.options.system[o.Kind()]; exists {
			return errors.Wrap(ErrDuplicateOption, string(o.Kind()))
		}
		b.options.system[o.Kind()] = o
	case AliasOption:
		if _, exists := b.options.Alias(o.name); exists {
			return errors.Wrap(ErrDuplicateAlias, "@"+o.name)
		}
		b.options.aliases = append(b.options.aliases, o)
	case CustomOption:
		b.options.custom = append(b.options.custom, o)
	default:
		return errors.Errorf("unsupported query option %T", opt)
	}
	return nil
}

func (b *QueryOptionsBuilder) Build() QueryOptions {
	system := make(map[OptionKind]SystemQueryOption, len(b.options.system))
	for k, v := range b.options.system {
		system[k] = v
	}
	return QueryOptions{
		system:  system,
		aliases: append([]AliasOption(nil), b.options.aliases...),
		custom:  append([]CustomOption(nil), b.options.custom...),
	}
}

// Address is the resolved form of a whole resource address.
type Address struct {
	kind           AddressKind
	path           ResourcePath
	entitySetNames []string
	entityTypeCast edm.EntityType
	options        QueryOptions
}

func NewResourceAddress(path ResourcePath, options QueryOptions) *Address {
	return &Address{kind: AddressResource, path: path, options: options}
}

func NewBatchAddress() *Address {
	return &Address{kind: AddressBatch}
}

func NewMetadataAddress(options QueryOptions) *Address {
	return &Address{kind: AddressMetadata, options: options}
}

// NewEntityIdAddress builds "$entity?$id=..."; cast is nil unless the
// address was "$entity/NS.Type".
func NewEntityIdAddress(cast edm.EntityType, options QueryOptions) *Address {
	return &Address{kind: AddressEntityId, entityTypeCast: cast, options: options}
}

func NewCrossJoinAddress(entitySetNames []string, options QueryOptions) *Address {
	return &Address{
		kind:           AddressCrossJoin,
		entitySetNames: append([]string(nil), entitySetNames...),
		options:        options,
	}
}

func NewAllAddress(options QueryOptions) *Address {
	return &Address{kind: AddressAll, options: options}
}

func (a *Address) Kind() AddressKind {
	return a.kind
}

func (a *Address) Path() ResourcePath {
	return a.path
}

func (a *Address) EntitySetNames() []string {
	return append([]string(nil), a.entitySetNames...)
}

func (a *Address) EntityTypeCast() edm.EntityType {
	return a.entityTypeCast
}

func (a *Address) Options() QueryOptions {
	return a.options
}
