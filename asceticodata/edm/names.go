package edm

import "strings"

// FullQualifiedName identifies a schema element by namespace and name.
type FullQualifiedName struct {
	Namespace string
	Name      string
}

func NewFullQualifiedName(namespace, name string) FullQualifiedName {
	return FullQualifiedName{Namespace: namespace, Name: name}
}

// ParseFullQualifiedName splits "NS.Sub.Name" at the last dot.
// A name without a dot yields an empty namespace.
func ParseFullQualifiedName(text string) FullQualifiedName {
	i := strings.LastIndex(text, ".")
	if i < 0 {
		return FullQualifiedName{Name: text}
	}
	return FullQualifiedName{Namespace: text[:i], Name: text[i+1:]}
}

func (n FullQualifiedName) String() string {
	if n.Namespace == "" {
		return n.Name
	}
	return n.Namespace + "." + n.Name
}

func (n FullQualifiedName) IsZero() bool {
	return n.Namespace == "" && n.Name == ""
}

// NameOf returns the qualified name of t.
func NameOf(t Type) FullQualifiedName {
	return FullQualifiedName{Namespace: t.Namespace(), Name: t.Name()}
}

// Binding describes the first (binding) parameter of a bound operation.
type Binding struct {
	Type         FullQualifiedName
	IsCollection bool
}
