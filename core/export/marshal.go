package export

import (
	"encoding/json"

	"github.com/iancoleman/orderedmap"

	"github.com/solana-toolbox/toolbox-idl-go/core/idl"
)

// ToJSON renders a document value tree to indented JSON, preserving the
// object key order the exporter assembled it in.
func ToJSON(v *idl.Value) ([]byte, error) {
	return json.MarshalIndent(toPlain(v), "", "  ")
}

func toPlain(v *idl.Value) interface{} {
	if v == nil || v.IsNull() {
		return nil
	}
	switch v.Kind {
	case idl.KindBool:
		b, _ := v.AsBool()
		return b
	case idl.KindNumber:
		n, _ := v.AsNumber()
		switch {
		case n.Big != "":
			return json.Number(n.Big)
		case n.IsFloat:
			return n.Float
		default:
			return n.Int
		}
	case idl.KindString:
		s, _ := v.AsString()
		return s
	case idl.KindBytes:
		b, _ := v.AsBytes()
		out := make([]int, len(b))
		for i, x := range b {
			out[i] = int(x)
		}
		return out
	case idl.KindArray:
		items, _ := v.AsArray()
		out := make([]interface{}, len(items))
		for i, it := range items {
			out[i] = toPlain(it)
		}
		return out
	case idl.KindObject:
		om := orderedmap.New()
		for _, k := range v.ObjectKeys() {
			val, _ := v.ObjectGet(k)
			om.Set(k, toPlain(val))
		}
		return om
	default:
		return nil
	}
}
