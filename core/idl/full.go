package idl

// TypeFullKind tags the variant of a TypeFull (§2/C3). It parallels
// TypeFlatKind but drops Generic/Const (fully reduced away by hydration)
// and adds Typedef (the cycle-breaking envelope of §9).
type TypeFullKind int

const (
	FullPrimitive TypeFullKind = iota
	FullOption
	FullVec
	FullArray
	FullStruct
	FullEnum
	FullPadded
	FullString
	FullTypedef
)

// TypeFull is the resolved, generics-free type tree produced by the
// hydrator. Array lengths are concrete ints; every Defined reference from
// the flat tree becomes a Typedef envelope here.
type TypeFull struct {
	Kind TypeFullKind

	Primitive Primitive

	OptionPrefix  Prefix
	OptionContent *TypeFull

	VecPrefix Prefix
	VecItems  *TypeFull

	ArrayItems  *TypeFull
	ArrayLength int

	StructFields Fields

	EnumPrefix   Prefix
	EnumVariants []EnumVariantFull

	PaddedBefore  int
	PaddedMinSize int
	PaddedAfter   int
	PaddedContent *TypeFull

	StringPrefix Prefix

	// FullTypedef
	TypedefName    string
	TypedefRepr    Repr
	TypedefContent *TypeFull
	// TypedefLayout is populated only when the owning Typedef's
	// serialization is "bytemuck" (§4.3); nil for borsh/unset typedefs.
	TypedefLayout *Layout
}

// EnumVariantFull mirrors EnumVariantFlat after hydration: Code is always
// concrete (ordinal assigned if the dialect left it implicit).
type EnumVariantFull struct {
	Name   string
	Docs   []string
	Code   int
	Fields Fields
}

// Repr is the bytemuck layout rule a typedef is rendered under (§4.3).
type Repr int

const (
	ReprUnset Repr = iota
	ReprC
	ReprRust
	ReprTransparent
)

func (r Repr) String() string {
	switch r {
	case ReprC:
		return "c"
	case ReprRust:
		return "rust"
	case ReprTransparent:
		return "transparent"
	default:
		return "unset"
	}
}

// Serialization names a typedef's wire-layout family (§3).
type Serialization int

const (
	SerializationUnset Serialization = iota
	SerializationBorsh
	SerializationBytemuck
)

// Layout is the computed byte alignment and size of a bytemuck-laid-out
// type (§4.3). Size includes all padding; Align is the type's own required
// alignment, used by an enclosing struct to place this field.
type Layout struct {
	Align int
	Size  int
}

func FullPrim(p Primitive) *TypeFull { return &TypeFull{Kind: FullPrimitive, Primitive: p} }

func FullOptionOf(prefix Prefix, content *TypeFull) *TypeFull {
	return &TypeFull{Kind: FullOption, OptionPrefix: prefix, OptionContent: content}
}

func FullVecOf(prefix Prefix, items *TypeFull) *TypeFull {
	return &TypeFull{Kind: FullVec, VecPrefix: prefix, VecItems: items}
}

func FullArrayOf(items *TypeFull, length int) *TypeFull {
	return &TypeFull{Kind: FullArray, ArrayItems: items, ArrayLength: length}
}

func FullStructOf(fields Fields) *TypeFull { return &TypeFull{Kind: FullStruct, StructFields: fields} }

func FullEnumOf(prefix Prefix, variants []EnumVariantFull) *TypeFull {
	return &TypeFull{Kind: FullEnum, EnumPrefix: prefix, EnumVariants: variants}
}

func FullStringOf(prefix Prefix) *TypeFull { return &TypeFull{Kind: FullString, StringPrefix: prefix} }

func FullPaddedOf(before, minSize, after int, content *TypeFull) *TypeFull {
	return &TypeFull{Kind: FullPadded, PaddedBefore: before, PaddedMinSize: minSize, PaddedAfter: after, PaddedContent: content}
}

func FullTypedefOf(name string, repr Repr, content *TypeFull) *TypeFull {
	return &TypeFull{Kind: FullTypedef, TypedefName: name, TypedefRepr: repr, TypedefContent: content}
}

// Deref walks through Typedef envelopes to the first non-Typedef node,
// the shape the codec and size/alignment computations actually operate on.
func (t *TypeFull) Deref() *TypeFull {
	for t != nil && t.Kind == FullTypedef {
		t = t.TypedefContent
	}
	return t
}
