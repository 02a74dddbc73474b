package uri

import "strconv"

type SearchExpression interface {
	String() string
	searchExpression()
}

type SearchOperator string

const (
	SearchAnd SearchOperator = "AND"
	SearchOr  SearchOperator = "OR"
)

func NewSearchTermNode(text string, phrase bool) SearchTermNode {
	return SearchTermNode{text: text, phrase: phrase}
}

// SearchTermNode is a single word or, when IsPhrase, an unquoted phrase.
type SearchTermNode struct {
	text   string
	phrase bool
}

func (n SearchTermNode) Text() string {
	return n.text
}

func (n SearchTermNode) IsPhrase() bool {
	return n.phrase
}

func (n SearchTermNode) String() string {
	if n.phrase {
		return strconv.Quote(n.text)
	}
	return n.text
}

func (SearchTermNode) searchExpression() {}

func NewSearchBinaryNode(left SearchExpression, operator SearchOperator, right SearchExpression) SearchBinaryNode {
	return SearchBinaryNode{left: left, operator: operator, right: right}
}

type SearchBinaryNode struct {
	left     SearchExpression
	operator SearchOperator
	right    SearchExpression
}

func (n SearchBinaryNode) Left() SearchExpression {
	return n.left
}

func (n SearchBinaryNode) Operator() SearchOperator {
	return n.operator
}

func (n SearchBinaryNode) Right() SearchExpression {
	return n.right
}

func (n SearchBinaryNode) String() string {
	return "(" + n.left.String() + " " + string(n.operator) + " " + n.right.String() + ")"
}

func (SearchBinaryNode) searchExpression() {}

func NewSearchNotNode(operand SearchExpression) SearchNotNode {
	return SearchNotNode{operand: operand}
}

type SearchNotNode struct {
	operand SearchExpression
}

func (n SearchNotNode) Operand() SearchExpression {
	return n.operand
}

func (n SearchNotNode) String() string {
	return "NOT " + n.operand.String()
}

func (SearchNotNode) searchExpression() {}
