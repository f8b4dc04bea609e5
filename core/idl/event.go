package idl

// Event mirrors Account but for emitted events (§3): same discriminator
// and content-type shape, no space/blobs (events are not stored, so a byte
// length or constant-region check would be meaningless).
type Event struct {
	Name            string
	Docs            []string
	Discriminator   []byte
	ContentTypeFlat *TypeFlat
	ContentTypeFull *TypeFull
}
