package operators

type Method string

const (
	// String

	MethodContains    Method = "contains"
	MethodStartsWith  Method = "startswith"
	MethodEndsWith    Method = "endswith"
	MethodLength      Method = "length"
	MethodIndexOf     Method = "indexof"
	MethodSubstring   Method = "substring"
	MethodToLower     Method = "tolower"
	MethodToUpper     Method = "toupper"
	MethodTrim        Method = "trim"
	MethodConcat      Method = "concat"
	MethodSubstringOf Method = "substringof"

	// Date and time

	MethodYear               Method = "year"
	MethodMonth              Method = "month"
	MethodDay                Method = "day"
	MethodHour               Method = "hour"
	MethodMinute             Method = "minute"
	MethodSecond             Method = "second"
	MethodFractionalSeconds  Method = "fractionalseconds"
	MethodTotalSeconds       Method = "totalseconds"
	MethodDate               Method = "date"
	MethodTime               Method = "time"
	MethodTotalOffsetMinutes Method = "totaloffsetminutes"
	MethodMinDateTime        Method = "mindatetime"
	MethodMaxDateTime        Method = "maxdatetime"
	MethodNow                Method = "now"

	// Arithmetic

	MethodRound   Method = "round"
	MethodFloor   Method = "floor"
	MethodCeiling Method = "ceiling"

	// Geo

	MethodGeoDistance   Method = "geo.distance"
	MethodGeoLength     Method = "geo.length"
	MethodGeoIntersects Method = "geo.intersects"

	// Type

	MethodCast Method = "cast"
	MethodIsOf Method = "isof"
)

// Arity is the accepted argument count range of a method, both ends
// inclusive.
type Arity struct {
	Min int
	Max int
}

func (a Arity) Accepts(n int) bool {
	return n >= a.Min && n <= a.Max
}

func exactly(n int) Arity {
	return Arity{Min: n, Max: n}
}

var arities = map[Method]Arity{
	MethodContains:    exactly(2),
	MethodStartsWith:  exactly(2),
	MethodEndsWith:    exactly(2),
	MethodLength:      exactly(1),
	MethodIndexOf:     exactly(2),
	MethodSubstring:   {Min: 2, Max: 3},
	MethodToLower:     exactly(1),
	MethodToUpper:     exactly(1),
	MethodTrim:        exactly(1),
	MethodConcat:      exactly(2),
	MethodSubstringOf: exactly(2),

	MethodYear:               exactly(1),
	MethodMonth:              exactly(1),
	MethodDay:                exactly(1),
	MethodHour:               exactly(1),
	MethodMinute:             exactly(1),
	MethodSecond:             exactly(1),
	MethodFractionalSeconds:  exactly(1),
	MethodTotalSeconds:       exactly(1),
	MethodDate:               exactly(1),
	MethodTime:               exactly(1),
	MethodTotalOffsetMinutes: exactly(1),
	MethodMinDateTime:        exactly(0),
	MethodMaxDateTime:        exactly(0),
	MethodNow:                exactly(0),

	MethodRound:   exactly(1),
	MethodFloor:   exactly(1),
	MethodCeiling: exactly(1),

	MethodGeoDistance:   exactly(2),
	MethodGeoLength:     exactly(1),
	MethodGeoIntersects: exactly(2),

	MethodCast: {Min: 1, Max: 2},
	MethodIsOf: {Min: 1, Max: 2},
}

// ParseMethod returns the method named by token with its arity.
func ParseMethod(token string) (Method, Arity, bool) {
	m := Method(token)
	a, ok := arities[m]
	if !ok {
		return "", Arity{}, false
	}
	return m, a, true
}

func (m Method) Arity() Arity {
	return arities[m]
}
