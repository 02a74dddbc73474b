package uri

import (
	"encoding/base64"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/krew-solutions/ascetic-odata-go/asceticodata/edm"
)

type LiteralKind string

const (
	LiteralNull           LiteralKind = "null"
	LiteralBoolean        LiteralKind = "boolean"
	LiteralString         LiteralKind = "string"
	LiteralInt32          LiteralKind = "int32"
	LiteralInt64          LiteralKind = "int64"
	LiteralDecimal        LiteralKind = "decimal"
	LiteralDouble         LiteralKind = "double"
	LiteralGuid           LiteralKind = "guid"
	LiteralDate           LiteralKind = "date"
	LiteralDateTimeOffset LiteralKind = "dateTimeOffset"
	LiteralTimeOfDay      LiteralKind = "timeOfDay"
	LiteralDuration       LiteralKind = "duration"
	LiteralBinary         LiteralKind = "binary"
	LiteralEnum           LiteralKind = "enum"
	LiteralUnknown        LiteralKind = "unknown"
)

var (
	integerPattern   = regexp.MustCompile(`^[+-]?[0-9]+$`)
	decimalPattern   = regexp.MustCompile(`^[+-]?[0-9]+\.[0-9]+$`)
	doublePattern    = regexp.MustCompile(`^[+-]?[0-9]+(\.[0-9]+)?[eE][+-]?[0-9]+$`)
	datePattern      = regexp.MustCompile(`^-?[0-9]{4,}-[0-9]{2}-[0-9]{2}$`)
	timeOfDayPattern = regexp.MustCompile(`^[0-9]{2}:[0-9]{2}(:[0-9]{2}(\.[0-9]{1,12})?)?$`)
	enumPattern      = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*\.)+[A-Za-z_][A-Za-z0-9_]*'[^']*'$`)
)

// ClassifyLiteral determines the primitive kind of a literal from its text.
func ClassifyLiteral(text string) LiteralKind {
	lower := strings.ToLower(text)
	switch {
	case text == "null":
		return LiteralNull
	case lower == "true" || lower == "false":
		return LiteralBoolean
	case len(text) >= 2 && text[0] == '\'' && text[len(text)-1] == '\'':
		return LiteralString
	case text == "INF" || text == "-INF" || text == "NaN":
		return LiteralDouble
	case integerPattern.MatchString(text):
		if _, err := strconv.ParseInt(text, 10, 32); err == nil {
			return LiteralInt32
		}
		if _, err := strconv.ParseInt(text, 10, 64); err == nil {
			return LiteralInt64
		}
		return LiteralDecimal
	case decimalPattern.MatchString(text):
		return LiteralDecimal
	case doublePattern.MatchString(text):
		return LiteralDouble
	case isGuid(text):
		return LiteralGuid
	case datePattern.MatchString(text):
		return LiteralDate
	case timeOfDayPattern.MatchString(text):
		return LiteralTimeOfDay
	case isDateTimeOffset(text):
		return LiteralDateTimeOffset
	case hasQuotedPrefix(lower, "duration"):
		return LiteralDuration
	case hasQuotedPrefix(lower, "binary"):
		return LiteralBinary
	case enumPattern.MatchString(text):
		return LiteralEnum
	}
	return LiteralUnknown
}

func isGuid(text string) bool {
	if len(text) != 36 {
		return false
	}
	_, err := uuid.Parse(text)
	return err == nil
}

func isDateTimeOffset(text string) bool {
	_, err := time.Parse(time.RFC3339Nano, text)
	return err == nil
}

func hasQuotedPrefix(lower, prefix string) bool {
	return strings.HasPrefix(lower, prefix+"'") && strings.HasSuffix(lower, "'") && len(lower) > len(prefix)+1
}

func unquote(text string) string {
	start := strings.IndexByte(text, '\'')
	inner := text[start+1 : len(text)-1]
	return strings.ReplaceAll(inner, "''", "'")
}

var literalTypes = map[LiteralKind]edm.Type{
	LiteralBoolean:        edm.Boolean,
	LiteralString:         edm.String,
	LiteralInt32:          edm.Int32,
	LiteralInt64:          edm.Int64,
	LiteralDecimal:        edm.Decimal,
	LiteralDouble:         edm.Double,
	LiteralGuid:           edm.Guid,
	LiteralDate:           edm.Date,
	LiteralDateTimeOffset: edm.DateTimeOffset,
	LiteralTimeOfDay:      edm.TimeOfDay,
	LiteralDuration:       edm.Duration,
	LiteralBinary:         edm.Binary,
}

func NewLiteralNode(text string) LiteralNode {
	return LiteralNode{
		text: text,
		kind: ClassifyLiteral(text),
	}
}

// LiteralNode keeps the literal text exactly as written in the address.
type LiteralNode struct {
	text string
	kind LiteralKind
}

func (n LiteralNode) Text() string {
	return n.text
}

func (n LiteralNode) Kind() LiteralKind {
	return n.kind
}

// Type is the primitive type of the literal, nil for null, enum members and
// unrecognised text.
func (n LiteralNode) Type() edm.Type {
	return literalTypes[n.kind]
}

// Value converts the literal into a Go value: nil, bool, string, int32,
// int64, float64, uuid.UUID, time.Time or []byte. Decimals, times of day,
// durations and enum members stay textual.
func (n LiteralNode) Value() (any, error) {
	switch n.kind {
	case LiteralNull:
		return nil, nil
	case LiteralBoolean:
		return strings.ToLower(n.text) == "true", nil
	case LiteralString:
		return unquote(n.text), nil
	case LiteralInt32:
		v, err := strconv.ParseInt(n.text, 10, 32)
		return int32(v), errors.Wrapf(err, "literal %s", n.text)
	case LiteralInt64:
		v, err := strconv.ParseInt(n.text, 10, 64)
		return v, errors.Wrapf(err, "literal %s", n.text)
	case LiteralDouble:
		switch n.text {
		case "INF":
			return math.Inf(1), nil
		case "-INF":
			return math.Inf(-1), nil
		case "NaN":
			return math.NaN(), nil
		}
		v, err := strconv.ParseFloat(n.text, 64)
		return v, errors.Wrapf(err, "literal %s", n.text)
	case LiteralDecimal, LiteralTimeOfDay:
		return n.text, nil
	case LiteralGuid:
		v, err := uuid.Parse(n.text)
		return v, errors.Wrapf(err, "literal %s", n.text)
	case LiteralDate:
		v, err := time.Parse("2006-01-02", n.text)
		return v, errors.Wrapf(err, "literal %s", n.text)
	case LiteralDateTimeOffset:
		v, err := time.Parse(time.RFC3339Nano, n.text)
		return v, errors.Wrapf(err, "literal %s", n.text)
	case LiteralDuration, LiteralEnum:
		return unquote(n.text), nil
	case LiteralBinary:
		v, err := base64.URLEncoding.DecodeString(unquote(n.text))
		return v, errors.Wrapf(err, "literal %s", n.text)
	}
	return nil, errors.Errorf("literal %s has no value of a known type", n.text)
}

func (n LiteralNode) Accept(v ExpressionVisitor) error {
	return v.VisitLiteral(n)
}
