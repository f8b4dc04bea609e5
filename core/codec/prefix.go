package codec

import (
	"encoding/binary"
	"fmt"

	"github.com/solana-toolbox/toolbox-idl-go/core/idlerr"
)

// writePrefix appends n encoded as a little-endian unsigned integer of the
// given width (§3).
func writePrefix(prefix int, n uint64, out []byte) []byte {
	buf := make([]byte, prefix)
	switch prefix {
	case 1:
		buf[0] = byte(n)
	case 2:
		binary.LittleEndian.PutUint16(buf, uint16(n))
	case 4:
		binary.LittleEndian.PutUint32(buf, uint32(n))
	case 8:
		binary.LittleEndian.PutUint64(buf, n)
	}
	return append(out, buf...)
}

// readPrefix reads a little-endian unsigned integer of the given width at
// offset, returning the value and bytes consumed.
func readPrefix(prefix int, data []byte, offset int) (uint64, int, error) {
	if offset+prefix > len(data) {
		return 0, 0, idlerr.New(idlerr.KindUnderflowReadingByte,
			fmt.Sprintf("need %d prefix bytes at offset %d, have %d", prefix, offset, len(data)))
	}
	raw := data[offset : offset+prefix]
	var n uint64
	switch prefix {
	case 1:
		n = uint64(raw[0])
	case 2:
		n = uint64(binary.LittleEndian.Uint16(raw))
	case 4:
		n = uint64(binary.LittleEndian.Uint32(raw))
	case 8:
		n = binary.LittleEndian.Uint64(raw)
	}
	return n, prefix, nil
}
