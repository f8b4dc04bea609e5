package codec

import (
	"github.com/solana-toolbox/toolbox-idl-go/core/idl"
	"github.com/solana-toolbox/toolbox-idl-go/core/idlerr"
)

// EncodeEvent and DecodeEvent mirror EncodeAccount/DecodeAccount for the
// Event entity, which carries a discriminator and content type but no
// space/blobs (events are not stored, §3).
func EncodeEvent(e *idl.Event, v *idl.Value) ([]byte, error) {
	out, err := EncodeWithDiscriminator(e.Discriminator, v, e.ContentTypeFull)
	if err != nil {
		return nil, idlerr.Crumb(err, e.Name)
	}
	return out, nil
}

func DecodeEvent(e *idl.Event, data []byte) (*idl.Value, error) {
	v, err := DecodeWithDiscriminator(e.Discriminator, data, e.ContentTypeFull)
	if err != nil {
		return nil, idlerr.Crumb(err, e.Name)
	}
	return v, nil
}
