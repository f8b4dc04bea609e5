package codec

import (
	"encoding/base64"
	"encoding/hex"

	"github.com/mr-tron/base58"

	"github.com/solana-toolbox/toolbox-idl-go/core/idl"
)

// acceptString accepts a plain String value.
func acceptString(v *idl.Value) (string, bool) {
	return v.AsString()
}

// acceptBytes implements the §4.4 Bytes acceptance rules: a Bytes value
// directly, a JSON array of 0..=255 numbers, a UTF-8 string encoded as raw
// bytes, or a structured {base16|base58|base64|utf8: text} object.
func acceptBytes(v *idl.Value) ([]byte, bool) {
	if b, ok := v.AsBytes(); ok {
		return b, true
	}
	if items, ok := v.AsArray(); ok {
		out := make([]byte, 0, len(items))
		for _, it := range items {
			n, ok := it.AsNumber()
			if !ok || n.IsFloat || n.Int < 0 || n.Int > 255 {
				return nil, false
			}
			out = append(out, byte(n.Int))
		}
		return out, true
	}
	if s, ok := v.AsString(); ok {
		return []byte(s), true
	}
	if om, ok := v.AsObject(); ok {
		keys := om.Keys()
		if len(keys) != 1 {
			return nil, false
		}
		textVal, _ := v.ObjectGet(keys[0])
		text, ok := textVal.AsString()
		if !ok {
			return nil, false
		}
		switch keys[0] {
		case "base16":
			b, err := hex.DecodeString(text)
			return b, err == nil
		case "base58":
			b, err := base58.Decode(text)
			return b, err == nil
		case "base64":
			b, err := base64.StdEncoding.DecodeString(text)
			return b, err == nil
		case "utf8":
			return []byte(text), true
		}
	}
	return nil, false
}
