package operators

type BinaryOperator string

const (
	// Logical

	OperatorAnd BinaryOperator = "and"
	OperatorOr  BinaryOperator = "or"

	// Comparison

	OperatorEq  BinaryOperator = "eq"
	OperatorNe  BinaryOperator = "ne"
	OperatorGt  BinaryOperator = "gt"
	OperatorGe  BinaryOperator = "ge"
	OperatorLt  BinaryOperator = "lt"
	OperatorLe  BinaryOperator = "le"
	OperatorHas BinaryOperator = "has"

	// Type

	OperatorIsOf BinaryOperator = "isof"

	// Arithmetic

	OperatorAdd BinaryOperator = "add"
	OperatorSub BinaryOperator = "sub"
	OperatorMul BinaryOperator = "mul"
	OperatorDiv BinaryOperator = "div"
	OperatorMod BinaryOperator = "mod"
)

var binaryOperators = map[string]BinaryOperator{
	string(OperatorAnd):  OperatorAnd,
	string(OperatorOr):   OperatorOr,
	string(OperatorEq):   OperatorEq,
	string(OperatorNe):   OperatorNe,
	string(OperatorGt):   OperatorGt,
	string(OperatorGe):   OperatorGe,
	string(OperatorLt):   OperatorLt,
	string(OperatorLe):   OperatorLe,
	string(OperatorHas):  OperatorHas,
	string(OperatorIsOf): OperatorIsOf,
	string(OperatorAdd):  OperatorAdd,
	string(OperatorSub):  OperatorSub,
	string(OperatorMul):  OperatorMul,
	string(OperatorDiv):  OperatorDiv,
	string(OperatorMod):  OperatorMod,
}

func ParseBinary(token string) (BinaryOperator, bool) {
	op, ok := binaryOperators[token]
	return op, ok
}

// IsComparison is true for operators whose result is Edm.Boolean computed
// from two operands of the same kind.
func (o BinaryOperator) IsComparison() bool {
	switch o {
	case OperatorEq, OperatorNe, OperatorGt, OperatorGe, OperatorLt, OperatorLe, OperatorHas:
		return true
	}
	return false
}

func (o BinaryOperator) IsLogical() bool {
	return o == OperatorAnd || o == OperatorOr
}

type UnaryOperator string

const (
	OperatorNot   UnaryOperator = "not"
	OperatorMinus UnaryOperator = "-"
)

func ParseUnary(token string) (UnaryOperator, bool) {
	switch UnaryOperator(token) {
	case OperatorNot:
		return OperatorNot, true
	case OperatorMinus:
		return OperatorMinus, true
	}
	return "", false
}
