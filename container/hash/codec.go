package hash

import "encoding/binary"

// Codec fixes the on-disk width of a Key or Value type and (de)serializes
// it into a block page's fixed-width slot. This is the trait bound the
// source expresses through C++ template instantiation at a handful of
// fixed key widths; here it is an explicit interface so HashIndex can be
// generic over any T with a constant-width encoding.
type Codec[T any] interface {
	// Size is the fixed number of bytes T occupies in a slot.
	Size() int
	// Encode writes t into dst, which is exactly Size() bytes long.
	Encode(t T, dst []byte)
	// Decode reads a T out of src, which is exactly Size() bytes long.
	Decode(src []byte) T
}

// Int32Codec encodes an int32 key or value as 4 little-endian bytes.
type Int32Codec struct{}

func (Int32Codec) Size() int { return 4 }

func (Int32Codec) Encode(v int32, dst []byte) {
	binary.LittleEndian.PutUint32(dst, uint32(v))
}

func (Int32Codec) Decode(src []byte) int32 {
	return int32(binary.LittleEndian.Uint32(src))
}

// Uint32Codec encodes a uint32 key or value as 4 little-endian bytes.
type Uint32Codec struct{}

func (Uint32Codec) Size() int { return 4 }

func (Uint32Codec) Encode(v uint32, dst []byte) {
	binary.LittleEndian.PutUint32(dst, v)
}

func (Uint32Codec) Decode(src []byte) uint32 {
	return binary.LittleEndian.Uint32(src)
}

// FixedStringCodec encodes a string as exactly Width bytes, zero-padded or
// truncated, for keys/values that are short fixed-format identifiers
// rather than arbitrary-length text.
type FixedStringCodec struct {
	Width int
}

func (c FixedStringCodec) Size() int { return c.Width }

func (c FixedStringCodec) Encode(v string, dst []byte) {
	for i := range dst {
		dst[i] = 0
	}
	copy(dst, v)
}

func (c FixedStringCodec) Decode(src []byte) string {
	end := len(src)
	for end > 0 && src[end-1] == 0 {
		end--
	}
	return string(src[:end])
}

// IntComparator orders keys the natural way for any Go ordered integer
// type, returning -1/0/1.
func IntComparator[T int32 | uint32 | int64 | uint64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// StringComparator orders string keys lexicographically, returning -1/0/1.
func StringComparator(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// MurmurHash returns a HashFunction for any keyed type with a Codec,
// hashing the codec's encoded bytes with murmur3 exactly as the source's
// GenHashMurMur does for raw key bytes.
func MurmurHash[T any](codec Codec[T]) func(T) uint32 {
	size := codec.Size()
	return func(key T) uint32 {
		buf := make([]byte, size)
		codec.Encode(key, buf)
		return GenHashMurMur(buf)
	}
}
