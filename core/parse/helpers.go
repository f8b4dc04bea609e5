package parse

import (
	"github.com/mr-tron/base58"

	"github.com/solana-toolbox/toolbox-idl-go/core/idl"
	"github.com/solana-toolbox/toolbox-idl-go/core/idlerr"
)

// namedEntry is one entity read out of a "types"/"accounts"/... collection,
// with its declared name attached regardless of whether the source
// collection was a JSON object (name = key) or an array (name = the
// entry's own "name" field, §4.5 rule 1).
type namedEntry struct {
	Name string
	Body *idl.Value
}

// iterateNamed reads collection under key from root, accepting either an
// object (name = key, in declaration order) or an array (name = each
// entry's "name" field). Returns nil, nil if the key is absent.
func iterateNamed(root *idl.Value, key string) ([]namedEntry, error) {
	coll, ok := root.ObjectGet(key)
	if !ok || coll.IsNull() {
		return nil, nil
	}
	if om, ok := coll.AsObject(); ok {
		out := make([]namedEntry, 0, len(om.Keys()))
		for _, k := range om.Keys() {
			body, _ := coll.ObjectGet(k)
			out = append(out, namedEntry{Name: k, Body: body})
		}
		return out, nil
	}
	if arr, ok := coll.AsArray(); ok {
		out := make([]namedEntry, 0, len(arr))
		for i, entry := range arr {
			name, ok := getOptString(entry, "name")
			if !ok {
				return nil, idlerr.New(idlerr.KindParseFailure, "entry missing name").WithCrumbf("%s.%d", key, i)
			}
			out = append(out, namedEntry{Name: name, Body: entry})
		}
		return out, nil
	}
	return nil, idlerr.New(idlerr.KindParseFailure, key+" must be an object or array").WithCrumb(key)
}

func getOptString(v *idl.Value, key string) (string, bool) {
	f, ok := v.ObjectGet(key)
	if !ok {
		return "", false
	}
	return f.AsString()
}

func getString(v *idl.Value, key string) string {
	s, _ := getOptString(v, key)
	return s
}

// getDocs reads a "docs" field, accepting either a single string or an
// array of strings (both are common across dialects).
func getDocs(v *idl.Value) []string {
	f, ok := v.ObjectGet("docs")
	if !ok {
		return nil
	}
	if s, ok := f.AsString(); ok {
		return []string{s}
	}
	if items, ok := f.AsArray(); ok {
		out := make([]string, 0, len(items))
		for _, it := range items {
			if s, ok := it.AsString(); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// getBoolSynonym looks up the first of several key spellings that is
// present (§4.5 rule 6: camelCase/snake_case synonyms), defaulting false.
func getBoolSynonym(v *idl.Value, keys ...string) bool {
	for _, k := range keys {
		if f, ok := v.ObjectGet(k); ok {
			b, _ := f.AsBool()
			return b
		}
	}
	return false
}

func getOptInt(v *idl.Value, key string) (int, bool) {
	f, ok := v.ObjectGet(key)
	if !ok {
		return 0, false
	}
	n, ok := f.AsNumber()
	if !ok {
		return 0, false
	}
	return int(n.Int), true
}

// decodeByteArray reads a JSON array of 0..255 numbers into bytes (used for
// explicit `discriminator`/blob `bytes` fields, §4.5 rule 5 / §3).
func decodeByteArray(v *idl.Value) ([]byte, error) {
	items, ok := v.AsArray()
	if !ok {
		return nil, idlerr.New(idlerr.KindParseFailure, "expected byte array")
	}
	out := make([]byte, 0, len(items))
	for _, it := range items {
		n, ok := it.AsNumber()
		if !ok || n.IsFloat || n.Int < 0 || n.Int > 255 {
			return nil, idlerr.New(idlerr.KindParseFailure, "byte array entries must be 0..255")
		}
		out = append(out, byte(n.Int))
	}
	return out, nil
}

// decodeAddress accepts a constant address as a base58 string or a byte
// array, the two forms dialects use interchangeably.
func decodeAddress(v *idl.Value) ([]byte, error) {
	if s, ok := v.AsString(); ok {
		b, err := base58.Decode(s)
		if err != nil {
			return nil, idlerr.Wrap(idlerr.KindParseFailure, "invalid base58 address", err)
		}
		return b, nil
	}
	return decodeByteArray(v)
}
