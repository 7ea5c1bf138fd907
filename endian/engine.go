// Package endian provides byte order utilities for binary encoding and
// decoding.
//
// This package extends Go's standard encoding/binary package by combining
// ByteOrder and AppendByteOrder interfaces into a unified EndianEngine
// interface. OPAT files are always written little-endian on disk, and
// every field this package's callers read or write is either that fixed
// wire-format integer layout or an IEEE-754 double decoded byte-by-byte
// (see Float64FromLE); there is no host-endianness branch to take.
//
// # Basic Usage
//
//	import "github.com/opat-format/opat/endian"
//
//	engine := endian.GetLittleEndianEngine()
//	v := engine.Uint64(buf[8:16])
//
// # Thread Safety
//
// All functions and methods in this package are safe for concurrent use.
// The returned EndianEngine instances are immutable and stateless.
package endian

import (
	"encoding/binary"
	"math"
)

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from
// encoding/binary into a single interface for convenient byte order
// operations.
//
// This interface is satisfied by binary.LittleEndian and binary.BigEndian
// from the standard library.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the little-endian engine. OPAT's wire
// format is always little-endian, so this is the engine the codec uses
// for every on-disk integer field.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// Float64FromLE reads a little-endian IEEE-754 double at the start of b.
// b must have length >= 8. A double's bit pattern needs no reinterpretation
// on a big-endian host as long as its 8 raw bytes are read in the
// producer's little-endian order; this helper makes that byte-order step
// explicit rather than relying on the host's native float representation.
func Float64FromLE(b []byte) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(b))
}

// PutFloat64LE writes v as 8 little-endian bytes at the start of b.
// b must have length >= 8.
func PutFloat64LE(b []byte, v float64) {
	binary.LittleEndian.PutUint64(b, math.Float64bits(v))
}

// ReadFloat64sLE decodes n consecutive little-endian doubles from b into
// out. b must have length >= 8*len(out).
func ReadFloat64sLE(b []byte, out []float64) {
	for i := range out {
		out[i] = Float64FromLE(b[i*8 : i*8+8])
	}
}

// PutFloat64sLE encodes the doubles in in into b as consecutive
// little-endian 8-byte fields. b must have length >= 8*len(in).
func PutFloat64sLE(b []byte, in []float64) {
	for i, v := range in {
		PutFloat64LE(b[i*8:i*8+8], v)
	}
}

// TrimCString returns the logical value of a fixed-length char array
// field: the prefix of b up to (but excluding) the first zero byte. If b
// contains no zero byte, the entire slice is returned.
func TrimCString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}

	return string(b)
}

// PutCString copies s into b, zero-padding the remainder. It truncates s
// if it is longer than len(b).
func PutCString(b []byte, s string) {
	n := copy(b, s)
	for i := n; i < len(b); i++ {
		b[i] = 0
	}
}
