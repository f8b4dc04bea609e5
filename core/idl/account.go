package idl

// Blob is a constant-bytes check applied at a fixed offset in an account's
// data (§3); used both as an account invariant and as a seed source for PDA
// derivation (see instruction.go).
type Blob struct {
	Offset int
	Bytes  []byte
}

// Account is the on-chain account schema entity (§3). Discriminator is
// zero or more bytes every valid encoding must begin with; Space, if set,
// constrains the account's total byte length exactly.
type Account struct {
	Name            string
	Docs            []string
	Space           *int
	Blobs           []Blob
	Discriminator   []byte
	ContentTypeFlat *TypeFlat
	ContentTypeFull *TypeFull // populated by the hydrator
}
