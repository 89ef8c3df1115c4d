// Package codec implements the wire formats of the todo program: the tag-prefixed instruction
// payload and the item collection stored in the program-owned account.
//
// Both formats use little-endian fixed-width integers and length-prefixed strings
// (u32 byte length followed by UTF-8 bytes).
package codec

import (
	"encoding/binary"
	"errors"
	"unicode/utf8"
)

const (
	lengthPrefixSize = 4
	doneSize         = 1
	createdAtSize    = 8

	// minItemSize is the encoded size of an item with an empty name.
	minItemSize = lengthPrefixSize + doneSize + createdAtSize
)

var (
	errTruncated   = errors.New("unexpected end of data")
	errInvalidUTF8 = errors.New("string is not valid utf-8")
	errInvalidBool = errors.New("invalid bool byte")
)

type reader struct {
	buf []byte
	off int
}

func (r *reader) remaining() int {
	return len(r.buf) - r.off
}

func (r *reader) take(n int) ([]byte, error) {
	if n < 0 || r.remaining() < n {
		return nil, errTruncated
	}

	b := r.buf[r.off : r.off+n]
	r.off += n

	return b, nil
}

func (r *reader) u8() (byte, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}

	return b[0], nil
}

func (r *reader) u32() (uint32, error) {
	b, err := r.take(lengthPrefixSize)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint32(b), nil
}

func (r *reader) u64() (uint64, error) {
	b, err := r.take(createdAtSize)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint64(b), nil
}

func (r *reader) bool() (bool, error) {
	b, err := r.u8()
	if err != nil {
		return false, err
	}

	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, errInvalidBool
	}
}

func (r *reader) string() (string, error) {
	n, err := r.u32()
	if err != nil {
		return "", err
	}

	if uint64(n) > uint64(r.remaining()) {
		return "", errTruncated
	}

	b, err := r.take(int(n))
	if err != nil {
		return "", err
	}

	if !utf8.Valid(b) {
		return "", errInvalidUTF8
	}

	return string(b), nil
}

func appendString(buf []byte, s string) []byte {
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(s)))

	return append(buf, s...)
}

func appendBool(buf []byte, v bool) []byte {
	if v {
		return append(buf, 1)
	}

	return append(buf, 0)
}
