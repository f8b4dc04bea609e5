package resolve

import (
	"crypto/sha256"

	"filippo.io/edwards25519"

	"github.com/solana-toolbox/toolbox-idl-go/core/idlerr"
)

// pdaMarker is the platform's fixed domain-separation suffix for program-
// derived addresses; not a secret, just a constant every implementation of
// the derivation rule hashes in verbatim.
var pdaMarker = []byte("ProgramDerivedAddress")

// derivePdaAddress implements the platform's address derivation rule
// (§4.7 step 3b): SHA-256 over the concatenated seeds, a bump byte, the
// deriving program id, and the marker, iterating the bump from 255 downward
// until the digest does not decode to a point on the ed25519 curve. A valid
// PDA must be off-curve, since it has no corresponding private key.
func derivePdaAddress(seeds [][]byte, programID []byte) ([]byte, error) {
	for bump := 255; bump >= 0; bump-- {
		h := sha256.New()
		for _, s := range seeds {
			h.Write(s)
		}
		h.Write([]byte{byte(bump)})
		h.Write(programID)
		h.Write(pdaMarker)
		candidate := h.Sum(nil)
		if !isOnCurve(candidate) {
			return candidate, nil
		}
	}
	return nil, idlerr.New(idlerr.KindParseFailure, "pda derivation exhausted the bump seed search")
}

// isOnCurve reports whether b decodes as a valid ed25519 curve point.
// SetBytes only succeeds for well-formed points on the curve, which is
// exactly the encoding a legitimate program-derived address must avoid.
func isOnCurve(b []byte) bool {
	if len(b) != 32 {
		return false
	}
	_, err := edwards25519.NewIdentityPoint().SetBytes(b)
	return err == nil
}
