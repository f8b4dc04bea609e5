// Package codec implements C5: the byte-exact two-way transform between a
// full type tree and a value tree (§4.4), plus the C1 primitive codec its
// scalar cases bottom out on.
package codec

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/holiman/uint256"
	"github.com/mr-tron/base58"

	"github.com/solana-toolbox/toolbox-idl-go/core/idl"
	"github.com/solana-toolbox/toolbox-idl-go/core/idlerr"
)

// WritePrimitive appends the wire encoding of v (interpreted as p) to out,
// returning the extended slice (§4.1).
func WritePrimitive(p idl.Primitive, v *idl.Value, out []byte) ([]byte, error) {
	switch {
	case p == idl.PrimitiveBool:
		b, ok := v.AsBool()
		if !ok {
			return nil, idlerr.New(idlerr.KindParseFailure, "expected bool")
		}
		if b {
			return append(out, 1), nil
		}
		return append(out, 0), nil

	case p == idl.PrimitivePubkey:
		s, ok := v.AsString()
		if !ok {
			return nil, idlerr.New(idlerr.KindParseFailure, "expected base58 pubkey string")
		}
		raw, err := base58.Decode(s)
		if err != nil {
			return nil, idlerr.Wrap(idlerr.KindParseFailure, "invalid base58 pubkey", err)
		}
		if len(raw) != 32 {
			return nil, idlerr.New(idlerr.KindExpectedExactBytes, fmt.Sprintf("pubkey must decode to 32 bytes, got %d", len(raw)))
		}
		return append(out, raw...), nil

	case p.IsFloat():
		f, err := numberToFloat(v)
		if err != nil {
			return nil, err
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, idlerr.New(idlerr.KindInvalidFloat, fmt.Sprintf("%v", f))
		}
		if p == idl.PrimitiveF32 {
			buf := make([]byte, 4)
			binary.LittleEndian.PutUint32(buf, math.Float32bits(float32(f)))
			return append(out, buf...), nil
		}
		buf := make([]byte, 8)
		binary.LittleEndian.PutUint64(buf, math.Float64bits(f))
		return append(out, buf...), nil

	case p.IsInteger():
		return writeInteger(p, v, out)
	}
	return nil, idlerr.New(idlerr.KindParseFailure, "unknown primitive")
}

// ReadPrimitive reads p's wire encoding starting at offset in data,
// returning the number of bytes consumed and the decoded value (§4.1).
func ReadPrimitive(p idl.Primitive, data []byte, offset int) (int, *idl.Value, error) {
	size := p.Size()
	if offset < 0 || offset+size > len(data) {
		return 0, nil, idlerr.New(idlerr.KindUnderflowReadingByte,
			fmt.Sprintf("need %d bytes at offset %d, have %d", size, offset, len(data)))
	}
	raw := data[offset : offset+size]

	switch {
	case p == idl.PrimitiveBool:
		switch raw[0] {
		case 0:
			return 1, idl.Bool(false), nil
		case 1:
			return 1, idl.Bool(true), nil
		default:
			return 0, nil, idlerr.New(idlerr.KindParseFailure, fmt.Sprintf("invalid bool byte %d", raw[0]))
		}

	case p == idl.PrimitivePubkey:
		return size, idl.Str(base58.Encode(raw)), nil

	case p == idl.PrimitiveF32:
		f := math.Float32frombits(binary.LittleEndian.Uint32(raw))
		return size, idl.Float(float64(f)), nil

	case p == idl.PrimitiveF64:
		f := math.Float64frombits(binary.LittleEndian.Uint64(raw))
		return size, idl.Float(f), nil

	case p.IsInteger():
		return readInteger(p, raw)
	}
	return 0, nil, idlerr.New(idlerr.KindParseFailure, "unknown primitive")
}

func numberToFloat(v *idl.Value) (float64, error) {
	if n, ok := v.AsNumber(); ok {
		if n.IsFloat {
			return n.Float, nil
		}
		if n.Big != "" {
			f, _, err := big.ParseFloat(n.Big, 10, 64, big.ToNearestEven)
			if err != nil {
				return 0, idlerr.Wrap(idlerr.KindInvalidFloat, n.Big, err)
			}
			out, _ := f.Float64()
			return out, nil
		}
		return float64(n.Int), nil
	}
	if s, ok := v.AsString(); ok {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, idlerr.Wrap(idlerr.KindInvalidFloat, s, err)
		}
		return f, nil
	}
	return 0, idlerr.New(idlerr.KindInvalidFloat, "expected a number")
}

// writeInteger accepts a Number or numeric string and range-checks it
// against p's width before writing little-endian bytes.
func writeInteger(p idl.Primitive, v *idl.Value, out []byte) ([]byte, error) {
	bi, err := valueToBigInt(v)
	if err != nil {
		return nil, err
	}
	if err := checkRange(p, bi); err != nil {
		return nil, err
	}

	size := p.Size()
	buf := make([]byte, size)
	if size <= 8 {
		u := new(big.Int).Set(bi)
		if p.IsSigned() && bi.Sign() < 0 {
			mod := new(big.Int).Lsh(big.NewInt(1), uint(size*8))
			u.Add(bi, mod)
		}
		var raw uint64
		if u.IsUint64() {
			raw = u.Uint64()
		}
		switch size {
		case 1:
			buf[0] = byte(raw)
		case 2:
			binary.LittleEndian.PutUint16(buf, uint16(raw))
		case 4:
			binary.LittleEndian.PutUint32(buf, uint32(raw))
		case 8:
			binary.LittleEndian.PutUint64(buf, raw)
		}
		return append(out, buf...), nil
	}

	// 128-bit path.
	u := new(big.Int).Set(bi)
	if p.IsSigned() && bi.Sign() < 0 {
		mod := new(big.Int).Lsh(big.NewInt(1), 128)
		u.Add(bi, mod)
	}
	u256, overflow := uint256.FromBig(u)
	if overflow {
		return nil, idlerr.New(idlerr.KindNumericOutOfRange, bi.String())
	}
	le := u256.Bytes32()
	// uint256.Bytes32 is big-endian; reverse the low 16 bytes into our
	// little-endian 128-bit buffer.
	for i := 0; i < 16; i++ {
		buf[i] = le[31-i]
	}
	return append(out, buf...), nil
}

func readInteger(p idl.Primitive, raw []byte) (int, *idl.Value, error) {
	size := len(raw)
	if size <= 8 {
		var u uint64
		switch size {
		case 1:
			u = uint64(raw[0])
		case 2:
			u = uint64(binary.LittleEndian.Uint16(raw))
		case 4:
			u = uint64(binary.LittleEndian.Uint32(raw))
		case 8:
			u = binary.LittleEndian.Uint64(raw)
		}
		if p.IsSigned() {
			signed := signExtend(u, size)
			return size, idl.Int(signed), nil
		}
		if u <= math.MaxInt64 {
			return size, idl.Int(int64(u)), nil
		}
		return size, idl.BigInt(strconv.FormatUint(u, 10)), nil
	}

	// 128-bit path: reverse little-endian 16 bytes into a big-endian
	// buffer uint256 understands.
	var be [32]byte
	for i := 0; i < 16; i++ {
		be[31-i] = raw[i]
	}
	u256 := new(uint256.Int).SetBytes(be[:])
	bi := u256.ToBig()
	if p.IsSigned() {
		// Two's-complement: if the top bit is set, subtract 2^128.
		if raw[15]&0x80 != 0 {
			mod := new(big.Int).Lsh(big.NewInt(1), 128)
			bi = new(big.Int).Sub(bi, mod)
		}
	}
	if bi.IsInt64() {
		return 16, idl.Int(bi.Int64()), nil
	}
	return 16, idl.BigInt(bi.String()), nil
}

func signExtend(u uint64, size int) int64 {
	bits := uint(size * 8)
	shift := 64 - bits
	return int64(u<<shift) >> shift
}

// valueToBigInt accepts any Number or numeric string input (§4.1).
func valueToBigInt(v *idl.Value) (*big.Int, error) {
	if n, ok := v.AsNumber(); ok {
		if n.Big != "" {
			bi, ok := new(big.Int).SetString(n.Big, 10)
			if !ok {
				return nil, idlerr.New(idlerr.KindNumericOutOfRange, n.Big)
			}
			return bi, nil
		}
		if n.IsFloat {
			if n.Float != math.Trunc(n.Float) {
				return nil, idlerr.New(idlerr.KindNumericOutOfRange, fmt.Sprintf("%v is not an integer", n.Float))
			}
			return big.NewInt(int64(n.Float)), nil
		}
		return big.NewInt(n.Int), nil
	}
	if s, ok := v.AsString(); ok {
		s = strings.TrimSpace(s)
		bi, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return nil, idlerr.New(idlerr.KindNumericOutOfRange, s)
		}
		return bi, nil
	}
	return nil, idlerr.New(idlerr.KindNumericOutOfRange, "expected an integer or numeric string")
}

func checkRange(p idl.Primitive, bi *big.Int) error {
	size := p.Size()
	bits := uint(size * 8)
	var lo, hi *big.Int
	if p.IsSigned() {
		hi = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), bits-1), big.NewInt(1))
		lo = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), bits-1))
	} else {
		lo = big.NewInt(0)
		hi = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), bits), big.NewInt(1))
	}
	if bi.Cmp(lo) < 0 || bi.Cmp(hi) > 0 {
		return idlerr.New(idlerr.KindNumericOutOfRange, fmt.Sprintf("%s outside [%s, %s]", bi.String(), lo.String(), hi.String()))
	}
	return nil
}
