package idl

// FieldsShape tags which of the three field layouts (§3) a struct/enum
// variant body uses.
type FieldsShape int

const (
	FieldsNone FieldsShape = iota
	FieldsNamed
	FieldsUnnamed
)

// NamedField is one (name, docs, type) entry of a Named fields list.
// Generic code shares this shape at both the flat and full stage; Type is
// an interface{} holding either *TypeFlat or *TypeFull depending on which
// tree the enclosing Fields value belongs to.
type NamedField struct {
	Name string
	Docs []string
	Type interface{}
}

// Fields is the three-shape field list from §3. Exactly one of Named or
// Unnamed is populated, selected by Shape; FieldsNone means an empty body
// (e.g. a unit struct or a fieldless enum variant).
type Fields struct {
	Shape   FieldsShape
	Named   []NamedField
	Unnamed []interface{} // []*TypeFlat or []*TypeFull
}

func (f Fields) IsEmpty() bool {
	return f.Shape == FieldsNone || (f.Shape == FieldsNamed && len(f.Named) == 0) ||
		(f.Shape == FieldsUnnamed && len(f.Unnamed) == 0)
}
