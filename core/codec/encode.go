package codec

import (
	"fmt"

	"github.com/solana-toolbox/toolbox-idl-go/core/idl"
	"github.com/solana-toolbox/toolbox-idl-go/core/idlerr"
)

// Encode writes v's wire encoding against t (§4.4) and returns it.
func Encode(v *idl.Value, t *idl.TypeFull) ([]byte, error) {
	return appendEncode(nil, v, t)
}

// EncodeWithDiscriminator is Encode with disc prepended verbatim - the
// shape every account/instruction/event payload actually takes on the
// wire (§4.4 table, "envelope is transparent").
func EncodeWithDiscriminator(disc []byte, v *idl.Value, t *idl.TypeFull) ([]byte, error) {
	body, err := appendEncode(nil, v, t)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(disc)+len(body))
	out = append(out, disc...)
	out = append(out, body...)
	return out, nil
}

func appendEncode(out []byte, v *idl.Value, t *idl.TypeFull) ([]byte, error) {
	if t == nil {
		return nil, idlerr.New(idlerr.KindParseFailure, "nil type")
	}
	switch t.Kind {
	case idl.FullPrimitive:
		return WritePrimitive(t.Primitive, v, out)

	case idl.FullString:
		s, ok := acceptString(v)
		if !ok {
			return nil, idlerr.New(idlerr.KindParseFailure, "expected a string")
		}
		b := []byte(s)
		out = writePrefix(int(t.StringPrefix), uint64(len(b)), out)
		return append(out, b...), nil

	case idl.FullVec:
		if isByteVec(t) {
			raw, ok := acceptBytes(v)
			if !ok {
				return nil, idlerr.New(idlerr.KindParseFailure, "expected bytes")
			}
			out = writePrefix(int(t.VecPrefix), uint64(len(raw)), out)
			return append(out, raw...), nil
		}
		items, ok := v.AsArray()
		if !ok {
			return nil, idlerr.New(idlerr.KindParseFailure, "expected array for vec")
		}
		out = writePrefix(int(t.VecPrefix), uint64(len(items)), out)
		for i, item := range items {
			var err error
			out, err = appendEncode(out, item, t.VecItems)
			if err != nil {
				return nil, idlerr.Crumb(err, fmt.Sprintf("%d", i))
			}
		}
		return out, nil

	case idl.FullArray:
		if isByteArray(t) {
			raw, ok := acceptBytes(v)
			if ok {
				if len(raw) != t.ArrayLength {
					return nil, idlerr.New(idlerr.KindExpectedExactBytes,
						fmt.Sprintf("array length %d, got %d bytes", t.ArrayLength, len(raw)))
				}
				return append(out, raw...), nil
			}
		}
		items, ok := v.AsArray()
		if !ok {
			return nil, idlerr.New(idlerr.KindParseFailure, "expected array")
		}
		if len(items) != t.ArrayLength {
			return nil, idlerr.New(idlerr.KindParseFailure,
				fmt.Sprintf("array length %d, got %d items", t.ArrayLength, len(items)))
		}
		for i, item := range items {
			var err error
			out, err = appendEncode(out, item, t.ArrayItems)
			if err != nil {
				return nil, idlerr.Crumb(err, fmt.Sprintf("%d", i))
			}
		}
		return out, nil

	case idl.FullOption:
		if v.IsNull() {
			return writePrefix(int(t.OptionPrefix), 0, out), nil
		}
		out = writePrefix(int(t.OptionPrefix), 1, out)
		return appendEncode(out, v, t.OptionContent)

	case idl.FullStruct:
		return encodeFields(out, v, t.StructFields)

	case idl.FullEnum:
		return encodeEnum(out, v, t)

	case idl.FullPadded:
		before := make([]byte, t.PaddedBefore)
		out = append(out, before...)
		contentStart := len(out)
		var err error
		out, err = appendEncode(out, v, t.PaddedContent)
		if err != nil {
			return nil, idlerr.Crumb(err, "padded")
		}
		written := len(out) - contentStart
		if written < t.PaddedMinSize {
			out = append(out, make([]byte, t.PaddedMinSize-written)...)
		}
		return append(out, make([]byte, t.PaddedAfter)...), nil

	case idl.FullTypedef:
		return appendEncode(out, v, t.TypedefContent)
	}
	return nil, idlerr.New(idlerr.KindParseFailure, "unknown full type kind")
}

func encodeFields(out []byte, v *idl.Value, fields idl.Fields) ([]byte, error) {
	switch fields.Shape {
	case idl.FieldsNone:
		return out, nil
	case idl.FieldsNamed:
		for _, nf := range fields.Named {
			fv, ok := v.ObjectGet(nf.Name)
			if !ok {
				return nil, idlerr.New(idlerr.KindParseFailure, "missing field "+nf.Name)
			}
			var err error
			out, err = appendEncode(out, fv, nf.Type.(*idl.TypeFull))
			if err != nil {
				return nil, idlerr.Crumb(err, nf.Name)
			}
		}
		return out, nil
	case idl.FieldsUnnamed:
		items, ok := v.AsArray()
		if !ok {
			return nil, idlerr.New(idlerr.KindParseFailure, "expected array for unnamed fields")
		}
		if len(items) != len(fields.Unnamed) {
			return nil, idlerr.New(idlerr.KindParseFailure, "unnamed field count mismatch")
		}
		for i, u := range fields.Unnamed {
			var err error
			out, err = appendEncode(out, items[i], u.(*idl.TypeFull))
			if err != nil {
				return nil, idlerr.Crumb(err, fmt.Sprintf("%d", i))
			}
		}
		return out, nil
	}
	return out, nil
}

// encodeEnum accepts any of the three value forms from §4.4: a bare
// variant-name string (only legal when that variant has no fields), a
// {"VariantName": fields} object, or a {"name":..., "fields":...} object.
func encodeEnum(out []byte, v *idl.Value, t *idl.TypeFull) ([]byte, error) {
	name, fieldsVal, err := decomposeEnumValue(v, t)
	if err != nil {
		return nil, err
	}
	for _, variant := range t.EnumVariants {
		if variant.Name != name {
			continue
		}
		out = writePrefix(int(t.EnumPrefix), uint64(uint32(variant.Code)), out)
		return encodeFields(out, fieldsVal, variant.Fields)
	}
	return nil, idlerr.New(idlerr.KindUnknownEnumVariant, name)
}

func decomposeEnumValue(v *idl.Value, t *idl.TypeFull) (string, *idl.Value, error) {
	if s, ok := v.AsString(); ok {
		return s, idl.Obj(), nil
	}
	om, ok := v.AsObject()
	if !ok {
		return "", nil, idlerr.New(idlerr.KindParseFailure, "expected enum variant string or object")
	}
	keys := om.Keys()
	if len(keys) == 1 && keys[0] != "name" && keys[0] != "fields" {
		fv, _ := v.ObjectGet(keys[0])
		return keys[0], fv, nil
	}
	nameVal, ok := v.ObjectGet("name")
	if !ok {
		return "", nil, idlerr.New(idlerr.KindParseFailure, "enum object missing name")
	}
	name, ok := nameVal.AsString()
	if !ok {
		return "", nil, idlerr.New(idlerr.KindParseFailure, "enum name must be a string")
	}
	fieldsVal, ok := v.ObjectGet("fields")
	if !ok {
		fieldsVal = idl.Obj()
	}
	return name, fieldsVal, nil
}

func isByteVec(t *idl.TypeFull) bool {
	return t.VecItems != nil && t.VecItems.Kind == idl.FullPrimitive && t.VecItems.Primitive == idl.PrimitiveU8
}

func isByteArray(t *idl.TypeFull) bool {
	return t.ArrayItems != nil && t.ArrayItems.Kind == idl.FullPrimitive && t.ArrayItems.Primitive == idl.PrimitiveU8
}
