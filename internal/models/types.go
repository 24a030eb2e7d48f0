package models

// DartKind categorizes an inferred Dart type.
type DartKind int

const (
	Dynamic DartKind = iota
	String
	Int
	Double
	Bool
	List
	Object
)

// String returns the name of the kind.
func (k DartKind) String() string {
	switch k {
	case String:
		return "String"
	case Int:
		return "int"
	case Double:
		return "double"
	case Bool:
		return "bool"
	case List:
		return "List"
	case Object:
		return "Object"
	default:
		return "dynamic"
	}
}

// Flavor selects which generated class family a type reference points at.
type Flavor int

const (
	EntityFlavor Flavor = iota
	ModelFlavor
)

// Suffix returns the class-name suffix for the flavor.
func (f Flavor) Suffix() string {
	if f == ModelFlavor {
		return "Model"
	}
	return "Entity"
}

// DartType is an inferred Dart type.
// ClassName is set for Object kinds, Elem for List kinds.
type DartType struct {
	Kind      DartKind
	ClassName string
	Elem      *DartType
}

// IsPrimitive reports whether the type is String, int, double or bool.
func (t DartType) IsPrimitive() bool {
	switch t.Kind {
	case String, Int, Double, Bool:
		return true
	}
	return false
}

// Ref renders the type as it appears in Dart source, e.g. "List<AddressEntity>".
func (t DartType) Ref(flavor Flavor) string {
	switch t.Kind {
	case Object:
		return t.ClassName + flavor.Suffix()
	case List:
		if t.Elem == nil {
			return "List<dynamic>"
		}
		return "List<" + t.Elem.Ref(flavor) + ">"
	default:
		return t.Kind.String()
	}
}
