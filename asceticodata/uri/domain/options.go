package uri

import (
	"strconv"

	"github.com/krew-solutions/ascetic-odata-go/asceticodata/edm"
)

type OptionKind string

const (
	OptionFilter      OptionKind = "$filter"
	OptionOrderBy     OptionKind = "$orderby"
	OptionSelect      OptionKind = "$select"
	OptionExpand      OptionKind = "$expand"
	OptionCount       OptionKind = "$count"
	OptionInlineCount OptionKind = "$inlinecount"
	OptionTop         OptionKind = "$top"
	OptionSkip        OptionKind = "$skip"
	OptionSkipToken   OptionKind = "$skiptoken"
	OptionSearch      OptionKind = "$search"
	OptionFormat      OptionKind = "$format"
	OptionId          OptionKind = "$id"
	OptionLevels      OptionKind = "$levels"
)

// QueryOption is a system option, an alias or a custom option.
type QueryOption interface {
	Name() string
	Text() string
}

// SystemQueryOption is one of the "$"-prefixed options; an address holds at
// most one per kind.
type SystemQueryOption interface {
	QueryOption
	Kind() OptionKind
}

type option struct {
	text string
}

func (o option) Text() string {
	return o.text
}

func NewFilterOption(text string, expression Expression) FilterOption {
	return FilterOption{option: option{text}, expression: expression}
}

type FilterOption struct {
	option
	expression Expression
}

func (o FilterOption) Expression() Expression {
	return o.expression
}

func (FilterOption) Kind() OptionKind { return OptionFilter }
func (FilterOption) Name() string { return string(OptionFilter) }

func NewOrderByItem(expression Expression, descending bool) OrderByItem {
	return OrderByItem{expression: expression, descending: descending}
}

type OrderByItem struct {
	expression Expression
	descending bool
}

func (i OrderByItem) Expression() Expression {
	return i.expression
}

func (i OrderByItem) IsDescending() bool {
	return i.descending
}

func NewOrderByOption(text string, items []OrderByItem) OrderByOption {
	return OrderByOption{option: option{text}, items: items}
}

// OrderByOption lists the sort keys in significance order.
type OrderByOption struct {
	option
	items []OrderByItem
}

func (o OrderByOption) Items() []OrderByItem {
	return append([]OrderByItem(nil), o.items...)
}

func (OrderByOption) Kind() OptionKind { return OptionOrderBy }
func (OrderByOption) Name() string { return string(OptionOrderBy) }

// SelectSegment is one "/"-separated step of a select item.
type SelectSegment interface {
	String() string
	selectSegment()
}

func NewSelectPropertySegment(property edm.Element) SelectPropertySegment {
	return SelectPropertySegment{property: property}
}

type SelectPropertySegment struct {
	property edm.Element
}

func (s SelectPropertySegment) Property() edm.Element {
	return s.property
}

func (s SelectPropertySegment) String() string {
	return s.property.Name()
}

func (SelectPropertySegment) selectSegment() {}

func NewSelectTypeCastSegment(t edm.StructuralType) SelectTypeCastSegment {
	return SelectTypeCastSegment{typ: t}
}

type SelectTypeCastSegment struct {
	typ edm.StructuralType
}

func (s SelectTypeCastSegment) Type() edm.StructuralType {
	return s.typ
}

func (s SelectTypeCastSegment) String() string {
	return edm.NameOf(s.typ).String()
}

func (SelectTypeCastSegment) selectSegment() {}

func NewSelectActionSegment(action edm.Action) SelectActionSegment {
	return SelectActionSegment{action: action}
}

type SelectActionSegment struct {
	action edm.Action
}

func (s SelectActionSegment) Action() edm.Action {
	return s.action
}

func (s SelectActionSegment) String() string {
	return s.action.FullQualifiedName().String()
}

func (SelectActionSegment) selectSegment() {}

func NewSelectFunctionSegment(function edm.Function) SelectFunctionSegment {
	return SelectFunctionSegment{function: function}
}

type SelectFunctionSegment struct {
	function edm.Function
}

func (s SelectFunctionSegment) Function() edm.Function {
	return s.function
}

func (s SelectFunctionSegment) String() string {
	return s.function.FullQualifiedName().String()
}

func (SelectFunctionSegment) selectSegment() {}

type SelectStarSegment struct{}

func (SelectStarSegment) String() string {
	return "*"
}

func (SelectStarSegment) selectSegment() {}

func NewSelectNamespaceStarSegment(namespace string) SelectNamespaceStarSegment {
	return SelectNamespaceStarSegment{namespace: namespace}
}

// SelectNamespaceStarSegment selects every operation of a schema ("NS.*").
type SelectNamespaceStarSegment struct {
	namespace string
}

func (s SelectNamespaceStarSegment) Namespace() string {
	return s.namespace
}

func (s SelectNamespaceStarSegment) String() string {
	return s.namespace + ".*"
}

func (SelectNamespaceStarSegment) selectSegment() {}

func NewSelectItem(segments ...SelectSegment) SelectItem {
	return SelectItem{segments: segments}
}

type SelectItem struct {
	segments []SelectSegment
}

func (i SelectItem) Segments() []SelectSegment {
	return append([]SelectSegment(nil), i.segments...)
}

func (i SelectItem) IsStar() bool {
	if len(i.segments) != 1 {
		return false
	}
	_, ok := i.segments[0].(SelectStarSegment)
	return ok
}

func NewSelectOption(text string, items []SelectItem) SelectOption {
	return SelectOption{option: option{text}, items: items}
}

type SelectOption struct {
	option
	items []SelectItem
}

func (o SelectOption) Items() []SelectItem {
	return append([]SelectItem(nil), o.items...)
}

func (SelectOption) Kind() OptionKind { return OptionSelect }
func (SelectOption) Name() string { return string(OptionSelect) }

// Levels is the value of $levels: a positive depth or "max".
type Levels struct {
	max   bool
	value int
}

func MaxLevels() Levels {
	return Levels{max: true}
}

func NewLevels(value int) Levels {
	return Levels{value: value}
}

func (l Levels) IsMax() bool {
	return l.max
}

func (l Levels) Value() int {
	return l.value
}

func (l Levels) String() string {
	if l.max {
		return "max"
	}
	return strconv.Itoa(l.value)
}

// NewStarExpandItem builds "*", "*/$ref" or "*($levels=n)". Levels is nil
// when absent.
func NewStarExpandItem(ref bool, levels *Levels) ExpandItem {
	return ExpandItem{star: true, ref: ref, levels: levels}
}

func NewPathExpandItem(path ResourcePath, ref, count bool, options QueryOptions) ExpandItem {
	return ExpandItem{path: path, ref: ref, count: count, options: options}
}

type ExpandItem struct {
	star    bool
	ref     bool
	count   bool
	levels  *Levels
	path    ResourcePath
	options QueryOptions
}

func (i ExpandItem) IsStar() bool {
	return i.star
}

func (i ExpandItem) IsRef() bool {
	return i.ref
}

func (i ExpandItem) IsCount() bool {
	return i.count
}

// Levels returns the star form's $levels, or the nested $levels option of a
// path item.
func (i ExpandItem) Levels() (Levels, bool) {
	if i.levels != nil {
		return *i.levels, true
	}
	if o, ok := i.options.Levels(); ok {
		return o.Levels(), true
	}
	return Levels{}, false
}

// Path is the expanded path relative to the expanding segment, without the
// $it anchor it was resolved from.
func (i ExpandItem) Path() ResourcePath {
	return i.path
}

func (i ExpandItem) Options() QueryOptions {
	return i.options
}

func NewExpandOption(text string, items []ExpandItem) ExpandOption {
	return ExpandOption{option: option{text}, items: items}
}

type ExpandOption struct {
	option
	items []ExpandItem
}

func (o ExpandOption) Items() []ExpandItem {
	return append([]ExpandItem(nil), o.items...)
}

func (ExpandOption) Kind() OptionKind { return OptionExpand }
func (ExpandOption) Name() string { return string(OptionExpand) }

func NewLevelsOption(text string, levels Levels) LevelsOption {
	return LevelsOption{option: option{text}, levels: levels}
}

type LevelsOption struct {
	option
	levels Levels
}

func (o LevelsOption) Levels() Levels {
	return o.levels
}

func (LevelsOption) Kind() OptionKind { return OptionLevels }
func (LevelsOption) Name() string { return string(OptionLevels) }

func NewCountOption(text string, value bool) CountOption {
	return CountOption{option: option{text}, value: value}
}

type CountOption struct {
	option
	value bool
}

func (o CountOption) Value() bool {
	return o.value
}

func (CountOption) Kind() OptionKind { return OptionCount }
func (CountOption) Name() string { return string(OptionCount) }

func NewInlineCountOption(text string, value bool) InlineCountOption {
	return InlineCountOption{option: option{text}, value: value}
}

type InlineCountOption struct {
	option
	value bool
}

func (o InlineCountOption) Value() bool {
	return o.value
}

func (InlineCountOption) Kind() OptionKind { return OptionInlineCount }
func (InlineCountOption) Name() string { return string(OptionInlineCount) }

func NewTopOption(text string, value int) TopOption {
	return TopOption{option: option{text}, value: value}
}

type TopOption struct {
	option
	value int
}

func (o TopOption) Value() int {
	return o.value
}

func (TopOption) Kind() OptionKind { return OptionTop }
func (TopOption) Name() string { return string(OptionTop) }

func NewSkipOption(text string, value int) SkipOption {
	return SkipOption{option: option{text}, value: value}
}

type SkipOption struct {
	option
	value int
}

func (o SkipOption) Value() int {
	return o.value
}

func (SkipOption) Kind() OptionKind { return OptionSkip }
func (SkipOption) Name() string { return string(OptionSkip) }

func NewSkipTokenOption(text string) SkipTokenOption {
	return SkipTokenOption{option: option{text}}
}

type SkipTokenOption struct {
	option
}

func (SkipTokenOption) Kind() OptionKind { return OptionSkipToken }
func (SkipTokenOption) Name() string { return string(OptionSkipToken) }

func NewIdOption(text string) IdOption {
	return IdOption{option: option{text}}
}

type IdOption struct {
	option
}

func (IdOption) Kind() OptionKind { return OptionId }
func (IdOption) Name() string { return string(OptionId) }

func NewSearchOption(text string, expression SearchExpression) SearchOption {
	return SearchOption{option: option{text}, expression: expression}
}

type SearchOption struct {
	option
	expression SearchExpression
}

func (o SearchOption) Expression() SearchExpression {
	return o.expression
}

func (SearchOption) Kind() OptionKind { return OptionSearch }
func (SearchOption) Name() string { return string(OptionSearch) }

const (
	FormatJSON = "application/json"
	FormatAtom = "application/atom+xml"
	FormatXML  = "application/xml"
)

var formats = map[string]string{
	"json": FormatJSON,
	"atom": FormatAtom,
	"xml":  FormatXML,
}

// NewFormatOption maps the reserved tokens json, atom and xml to their media
// types and keeps any other text as given.
func NewFormatOption(text string) FormatOption {
	format, ok := formats[text]
	if !ok {
		format = text
	}
	return FormatOption{option: option{text}, format: format}
}

type FormatOption struct {
	option
	format string
}

func (o FormatOption) Format() string {
	return o.format
}

func (FormatOption) Kind() OptionKind { return OptionFormat }
func (FormatOption) Name() string { return string(OptionFormat) }

func NewAliasOption(name, text string, expression Expression) AliasOption {
	return AliasOption{option: option{text}, name: name, expression: expression}
}

// AliasOption is "@name=value". Name excludes "@".
type AliasOption struct {
	option
	name       string
	expression Expression
}

func (o AliasOption) Name() string {
	return o.name
}

func (o AliasOption) Expression() Expression {
	return o.expression
}

func NewCustomOption(name, text string) CustomOption {
	return CustomOption{option: option{text}, name: name}
}

type CustomOption struct {
	option
	name string
}

func (o CustomOption) Name() string {
	return o.name
}
