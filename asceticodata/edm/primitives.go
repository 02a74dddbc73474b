package edm

const EdmNamespace = "Edm"

type primitiveType struct {
	name string
}

func (t primitiveType) Namespace() string { return EdmNamespace }
func (t primitiveType) Name() string      { return t.name }
func (t primitiveType) Kind() TypeKind    { return KindPrimitive }
func (t primitiveType) String() string    { return EdmNamespace + "." + t.name }

var (
	Binary              Type = primitiveType{"Binary"}
	Boolean             Type = primitiveType{"Boolean"}
	Byte                Type = primitiveType{"Byte"}
	Date                Type = primitiveType{"Date"}
	DateTimeOffset      Type = primitiveType{"DateTimeOffset"}
	Decimal             Type = primitiveType{"Decimal"}
	Double              Type = primitiveType{"Double"}
	Duration            Type = primitiveType{"Duration"}
	Guid                Type = primitiveType{"Guid"}
	Int16               Type = primitiveType{"Int16"}
	Int32               Type = primitiveType{"Int32"}
	Int64               Type = primitiveType{"Int64"}
	SByte               Type = primitiveType{"SByte"}
	Single              Type = primitiveType{"Single"}
	String              Type = primitiveType{"String"}
	TimeOfDay           Type = primitiveType{"TimeOfDay"}
	GeographyPoint      Type = primitiveType{"GeographyPoint"}
	GeographyLineString Type = primitiveType{"GeographyLineString"}
	GeographyPolygon    Type = primitiveType{"GeographyPolygon"}
	GeometryPoint       Type = primitiveType{"GeometryPoint"}
)

var primitives = map[string]Type{}

func init() {
	for _, t := range []Type{
		Binary, Boolean, Byte, Date, DateTimeOffset, Decimal, Double, Duration, Guid,
		Int16, Int32, Int64, SByte, Single, String, TimeOfDay,
		GeographyPoint, GeographyLineString, GeographyPolygon, GeometryPoint,
	} {
		primitives[t.Name()] = t
	}
}

// PrimitiveType returns the Edm primitive type with the given name.
func PrimitiveType(name FullQualifiedName) (Type, bool) {
	if name.Namespace != EdmNamespace {
		return nil, false
	}
	t, ok := primitives[name.Name]
	return t, ok
}
