package parse

import (
	"encoding/json"
	"fmt"

	"github.com/iancoleman/orderedmap"

	"github.com/solana-toolbox/toolbox-idl-go/core/idl"
	"github.com/solana-toolbox/toolbox-idl-go/core/idlerr"
)

// FromJSON decodes raw IDL document bytes into the value tree, using an
// insertion-order-preserving map for every JSON object so downstream
// parsing (and any error message quoting a field's position) reflects the
// document's own declaration order.
func FromJSON(data []byte) (*idl.Value, error) {
	om := orderedmap.New()
	if err := json.Unmarshal(data, om); err != nil {
		// A top-level JSON array or scalar is legal for some dialect
		// fragments (e.g. an array-of-accounts document); fall back to a
		// generic decode in that case.
		var generic interface{}
		if err2 := json.Unmarshal(data, &generic); err2 != nil {
			return nil, idlerr.Wrap(idlerr.KindParseFailure, "invalid JSON", err)
		}
		return convert(generic), nil
	}
	return convert(om), nil
}

func convert(raw interface{}) *idl.Value {
	switch t := raw.(type) {
	case nil:
		return idl.Null()
	case bool:
		return idl.Bool(t)
	case float64:
		if t == float64(int64(t)) {
			return idl.Int(int64(t))
		}
		return idl.Float(t)
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return idl.Int(n)
		}
		if f, err := t.Float64(); err == nil {
			return idl.Float(f)
		}
		return idl.BigInt(t.String())
	case string:
		return idl.Str(t)
	case []interface{}:
		items := make([]*idl.Value, len(t))
		for i, it := range t {
			items[i] = convert(it)
		}
		return idl.Arr(items...)
	case *orderedmap.OrderedMap:
		pairs := make([]idl.KV, 0, len(t.Keys()))
		for _, k := range t.Keys() {
			val, _ := t.Get(k)
			pairs = append(pairs, idl.KV{Key: k, Val: convert(val)})
		}
		return idl.Obj(pairs...)
	case map[string]interface{}:
		pairs := make([]idl.KV, 0, len(t))
		for k, val := range t {
			pairs = append(pairs, idl.KV{Key: k, Val: convert(val)})
		}
		return idl.Obj(pairs...)
	default:
		return idl.Str(fmt.Sprintf("%v", t))
	}
}
