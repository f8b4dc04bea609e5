package idl

// Primitive names one of the scalar wire types from §4.1. The name "Pubkey"
// refers to a 32-byte address, encoded on the wire as 32 raw bytes and in
// the value tree as base58 text.
type Primitive int

const (
	PrimitiveInvalid Primitive = iota
	PrimitiveU8
	PrimitiveU16
	PrimitiveU32
	PrimitiveU64
	PrimitiveU128
	PrimitiveI8
	PrimitiveI16
	PrimitiveI32
	PrimitiveI64
	PrimitiveI128
	PrimitiveF32
	PrimitiveF64
	PrimitiveBool
	PrimitivePubkey
)

var primitiveNames = map[Primitive]string{
	PrimitiveU8:     "u8",
	PrimitiveU16:    "u16",
	PrimitiveU32:    "u32",
	PrimitiveU64:    "u64",
	PrimitiveU128:   "u128",
	PrimitiveI8:     "i8",
	PrimitiveI16:    "i16",
	PrimitiveI32:    "i32",
	PrimitiveI64:    "i64",
	PrimitiveI128:   "i128",
	PrimitiveF32:    "f32",
	PrimitiveF64:    "f64",
	PrimitiveBool:   "bool",
	PrimitivePubkey: "pubkey",
}

var namesToPrimitive = func() map[string]Primitive {
	m := make(map[string]Primitive, len(primitiveNames))
	for p, n := range primitiveNames {
		m[n] = p
	}
	// camelCase alias accepted by the parser (§4.5 rule 3).
	m["publicKey"] = PrimitivePubkey
	return m
}()

func (p Primitive) String() string {
	if n, ok := primitiveNames[p]; ok {
		return n
	}
	return "invalid"
}

// ParsePrimitive accepts both snake_case and camelCase spellings
// ("publicKey" <-> "pubkey"), returning ok=false for anything else so the
// caller can fall back to treating the name as a Defined reference.
func ParsePrimitive(name string) (Primitive, bool) {
	p, ok := namesToPrimitive[name]
	return p, ok
}

// Size returns the primitive's fixed wire width in bytes.
func (p Primitive) Size() int {
	switch p {
	case PrimitiveU8, PrimitiveI8, PrimitiveBool:
		return 1
	case PrimitiveU16, PrimitiveI16:
		return 2
	case PrimitiveU32, PrimitiveI32, PrimitiveF32:
		return 4
	case PrimitiveU64, PrimitiveI64, PrimitiveF64:
		return 8
	case PrimitiveU128, PrimitiveI128:
		return 16
	case PrimitivePubkey:
		return 32
	default:
		return 0
	}
}

// IsSigned reports whether the primitive is a signed integer type.
func (p Primitive) IsSigned() bool {
	switch p {
	case PrimitiveI8, PrimitiveI16, PrimitiveI32, PrimitiveI64, PrimitiveI128:
		return true
	default:
		return false
	}
}

// IsInteger reports whether the primitive is any integer width.
func (p Primitive) IsInteger() bool {
	switch p {
	case PrimitiveU8, PrimitiveU16, PrimitiveU32, PrimitiveU64, PrimitiveU128,
		PrimitiveI8, PrimitiveI16, PrimitiveI32, PrimitiveI64, PrimitiveI128:
		return true
	default:
		return false
	}
}

// IsFloat reports whether the primitive is f32/f64.
func (p Primitive) IsFloat() bool {
	return p == PrimitiveF32 || p == PrimitiveF64
}

// Alignment returns the primitive's natural alignment for bytemuck layout
// purposes (§4.3): equal to its own size, except pubkey, which aligns to 1
// like the 32-byte array it is in repr(C)/repr(Rust) terms.
func (p Primitive) Alignment() int {
	if p == PrimitivePubkey {
		return 1
	}
	return p.Size()
}

// Prefix is a length/discriminator tag width, always little-endian
// unsigned. Valid widths are 1, 2, 4, or 8 bytes (§3).
type Prefix int

const (
	Prefix1 Prefix = 1
	Prefix2 Prefix = 2
	Prefix4 Prefix = 4
	Prefix8 Prefix = 8
)

// DefaultPrefix is the width used for Option/Vec/String/Enum when a dialect
// does not specify otherwise (§3).
const DefaultPrefix = Prefix1
