package codec

import (
	"fmt"
	"unicode/utf8"

	"github.com/solana-toolbox/toolbox-idl-go/core/idl"
	"github.com/solana-toolbox/toolbox-idl-go/core/idlerr"
)

// Decode reads t's wire encoding starting at data[0], returning the decoded
// value and the number of bytes consumed (§4.4). It does not require data
// to be consumed exactly - a caller that needs "the whole buffer was used"
// compares the returned count against len(data) itself.
// DecodeWithDiscriminator, which the account, event and instruction
// decoders build on, drops the count, so trailing bytes are not rejected.
func Decode(data []byte, t *idl.TypeFull) (*idl.Value, int, error) {
	return decodeAt(data, 0, t)
}

// DecodeWithDiscriminator strips and checks disc before decoding the rest
// of data against t (§4.4 table, BadDiscriminator per §7).
func DecodeWithDiscriminator(disc []byte, data []byte, t *idl.TypeFull) (*idl.Value, error) {
	if len(data) < len(disc) {
		return nil, idlerr.BadDiscriminator(disc, data)
	}
	found := data[:len(disc)]
	for i := range disc {
		if found[i] != disc[i] {
			return nil, idlerr.BadDiscriminator(disc, found)
		}
	}
	v, _, err := Decode(data[len(disc):], t)
	return v, err
}

func decodeAt(data []byte, offset int, t *idl.TypeFull) (*idl.Value, int, error) {
	if t == nil {
		return nil, 0, idlerr.New(idlerr.KindParseFailure, "nil type")
	}
	switch t.Kind {
	case idl.FullPrimitive:
		consumed, v, err := ReadPrimitive(t.Primitive, data, offset)
		return v, consumed, err

	case idl.FullString:
		n, consumed, err := readPrefix(int(t.StringPrefix), data, offset)
		if err != nil {
			return nil, 0, err
		}
		start := offset + consumed
		end := start + int(n)
		if end > len(data) {
			return nil, 0, idlerr.New(idlerr.KindUnderflowReadingByte, fmt.Sprintf("string of %d bytes at %d", n, start))
		}
		raw := data[start:end]
		if !utf8.Valid(raw) {
			return nil, 0, idlerr.New(idlerr.KindInvalidUtf8, "")
		}
		return idl.Str(string(raw)), consumed + int(n), nil

	case idl.FullVec:
		n, consumed, err := readPrefix(int(t.VecPrefix), data, offset)
		if err != nil {
			return nil, 0, err
		}
		pos := offset + consumed
		if isByteVec(t) {
			end := pos + int(n)
			if end > len(data) {
				return nil, 0, idlerr.New(idlerr.KindUnderflowReadingByte, "vec<u8>")
			}
			return idl.Bytes(data[pos:end]), consumed + int(n), nil
		}
		items := make([]*idl.Value, 0, n)
		for i := uint64(0); i < n; i++ {
			v, used, err := decodeAt(data, pos, t.VecItems)
			if err != nil {
				return nil, 0, idlerr.Crumb(err, fmt.Sprintf("%d", i))
			}
			items = append(items, v)
			pos += used
		}
		return idl.Arr(items...), pos - offset, nil

	case idl.FullArray:
		if isByteArray(t) {
			end := offset + t.ArrayLength
			if end > len(data) {
				return nil, 0, idlerr.New(idlerr.KindUnderflowReadingByte, "array<u8,n>")
			}
			return idl.Bytes(data[offset:end]), t.ArrayLength, nil
		}
		pos := offset
		items := make([]*idl.Value, 0, t.ArrayLength)
		for i := 0; i < t.ArrayLength; i++ {
			v, used, err := decodeAt(data, pos, t.ArrayItems)
			if err != nil {
				return nil, 0, idlerr.Crumb(err, fmt.Sprintf("%d", i))
			}
			items = append(items, v)
			pos += used
		}
		return idl.Arr(items...), pos - offset, nil

	case idl.FullOption:
		tag, consumed, err := readPrefix(int(t.OptionPrefix), data, offset)
		if err != nil {
			return nil, 0, err
		}
		switch tag {
		case 0:
			return idl.Null(), consumed, nil
		case 1:
			v, used, err := decodeAt(data, offset+consumed, t.OptionContent)
			if err != nil {
				return nil, 0, err
			}
			return v, consumed + used, nil
		default:
			return nil, 0, idlerr.New(idlerr.KindInvalidOptionTag, fmt.Sprintf("%d", tag))
		}

	case idl.FullStruct:
		v, used, err := decodeFields(data, offset, t.StructFields)
		return v, used, err

	case idl.FullEnum:
		return decodeEnum(data, offset, t)

	case idl.FullPadded:
		pos := offset + t.PaddedBefore
		contentStart := pos
		v, used, err := decodeAt(data, pos, t.PaddedContent)
		if err != nil {
			return nil, 0, idlerr.Crumb(err, "padded")
		}
		pos += used
		if used < t.PaddedMinSize {
			pos = contentStart + t.PaddedMinSize
		}
		pos += t.PaddedAfter
		return v, pos - offset, nil

	case idl.FullTypedef:
		return decodeAt(data, offset, t.TypedefContent)
	}
	return nil, 0, idlerr.New(idlerr.KindParseFailure, "unknown full type kind")
}

func decodeFields(data []byte, offset int, fields idl.Fields) (*idl.Value, int, error) {
	switch fields.Shape {
	case idl.FieldsNone:
		return idl.Obj(), 0, nil
	case idl.FieldsNamed:
		pos := offset
		pairs := make([]idl.KV, 0, len(fields.Named))
		for _, nf := range fields.Named {
			v, used, err := decodeAt(data, pos, nf.Type.(*idl.TypeFull))
			if err != nil {
				return nil, 0, idlerr.Crumb(err, nf.Name)
			}
			pairs = append(pairs, idl.KV{Key: nf.Name, Val: v})
			pos += used
		}
		return idl.Obj(pairs...), pos - offset, nil
	case idl.FieldsUnnamed:
		pos := offset
		items := make([]*idl.Value, 0, len(fields.Unnamed))
		for i, u := range fields.Unnamed {
			v, used, err := decodeAt(data, pos, u.(*idl.TypeFull))
			if err != nil {
				return nil, 0, idlerr.Crumb(err, fmt.Sprintf("%d", i))
			}
			items = append(items, v)
			pos += used
		}
		return idl.Arr(items...), pos - offset, nil
	}
	return idl.Obj(), 0, nil
}

// decodeEnum reads the variant code, looks it up (UnknownEnumVariant if no
// declared variant matches), and emits the compact form: a bare string for
// an empty-fields variant, or {"VariantName": fields} otherwise (§4.4).
func decodeEnum(data []byte, offset int, t *idl.TypeFull) (*idl.Value, int, error) {
	code, consumed, err := readPrefix(int(t.EnumPrefix), data, offset)
	if err != nil {
		return nil, 0, err
	}
	for _, variant := range t.EnumVariants {
		if uint64(uint32(variant.Code)) != code {
			continue
		}
		fv, used, err := decodeFields(data, offset+consumed, variant.Fields)
		if err != nil {
			return nil, 0, idlerr.Crumb(err, variant.Name)
		}
		total := consumed + used
		if variant.Fields.IsEmpty() {
			return idl.Str(variant.Name), total, nil
		}
		return idl.Obj(idl.KV{Key: variant.Name, Val: fv}), total, nil
	}
	return nil, 0, idlerr.New(idlerr.KindUnknownEnumVariant, fmt.Sprintf("%d", code))
}
