package idl

import "crypto/sha256"

// DiscriminatorTag names the three tagged-string families the default
// discriminator is derived from (§4.5 rule 5, §4.9). sha256 comes from the
// standard library, while base58 and the curve-point check use the
// third-party libraries the codec, parser and resolver import directly.
type DiscriminatorTag string

const (
	TagAccount DiscriminatorTag = "account:"
	TagGlobal  DiscriminatorTag = "global:"
	TagEvent   DiscriminatorTag = "event:"
)

// DefaultDiscriminator returns the first 8 bytes of SHA-256 over tag+name
// (§4.9). Every tag is followed by the name exactly as given: the parser
// passes each account, event and instruction name as declared, with no
// case conversion, so an instruction declared as "initVault" hashes
// "global:initVault".
func DefaultDiscriminator(tag DiscriminatorTag, name string) []byte {
	h := sha256.Sum256([]byte(string(tag) + name))
	out := make([]byte, 8)
	copy(out, h[:8])
	return out
}
