package codec

import (
	"bytes"
	"fmt"

	"github.com/solana-toolbox/toolbox-idl-go/core/idl"
	"github.com/solana-toolbox/toolbox-idl-go/core/idlerr"
)

// EncodeAccount renders an account's content as its full wire
// representation: discriminator followed by the content encoding (§4.4
// table). If a.Space is set, the result must match it exactly.
func EncodeAccount(a *idl.Account, v *idl.Value) ([]byte, error) {
	out, err := EncodeWithDiscriminator(a.Discriminator, v, a.ContentTypeFull)
	if err != nil {
		return nil, idlerr.Crumb(err, a.Name)
	}
	if a.Space != nil && len(out) != *a.Space {
		return nil, idlerr.BadSpace(*a.Space, len(out))
	}
	return out, nil
}

// DecodeAccount checks discriminator, space, and blob invariants (§7) and
// decodes the content.
func DecodeAccount(a *idl.Account, data []byte) (*idl.Value, error) {
	if a.Space != nil && len(data) != *a.Space {
		return nil, idlerr.BadSpace(*a.Space, len(data))
	}
	for _, b := range a.Blobs {
		end := b.Offset + len(b.Bytes)
		if end > len(data) || !bytes.Equal(data[b.Offset:end], b.Bytes) {
			return nil, idlerr.BadBlob(b.Offset, b.Bytes)
		}
	}
	v, err := DecodeWithDiscriminator(a.Discriminator, data, a.ContentTypeFull)
	if err != nil {
		return nil, idlerr.Crumb(err, a.Name)
	}
	return v, nil
}

// GuessAccount tries every declared account whose discriminator prefixes
// data (declaration order), decoding against the first whose space/blob
// checks also pass (SPEC_FULL.md supplemented feature 2). It distinguishes
// "nothing matched the discriminator at all" from "a discriminator matched
// but the space/blob checks failed" so callers can tell a genuinely
// unknown account from a corrupted one.
func GuessAccount(p *idl.Program, data []byte) (*idl.Account, *idl.Value, error) {
	candidates := p.AccountCandidates(data)
	if len(candidates) == 0 {
		return nil, nil, idlerr.New(idlerr.KindBadDiscriminator, fmt.Sprintf("no account discriminator matches %x", firstBytes(data, 8)))
	}
	var lastErr error
	for _, a := range candidates {
		v, err := DecodeAccount(a, data)
		if err == nil {
			return a, v, nil
		}
		lastErr = err
	}
	return nil, nil, idlerr.Wrap(idlerr.KindBadDiscriminator, "all discriminator-matching accounts failed further checks", lastErr)
}

func firstBytes(b []byte, n int) []byte {
	if len(b) < n {
		return b
	}
	return b[:n]
}
