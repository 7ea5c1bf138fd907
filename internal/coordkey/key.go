// Package coordkey implements the quantized coordinate key used to
// identify a card by its coordinate vector.
//
// A hash map keyed on raw float64 vectors would be fragile under
// producer-side rounding, so each component is projected to an integer
// representative (multiply by 10^p, truncate toward zero, round to the
// nearest multiple of ten) and that integer tuple is what defines
// identity and hashing. The raw float64 values are retained alongside
// the quantized form for geometric work (triangulation, barycentric
// solving), which must operate on the unquantized coordinates.
package coordkey

import (
	"math"

	"github.com/opat-format/opat/errs"
	"github.com/opat-format/opat/internal/hash"
	"github.com/opat-format/opat/internal/pool"
)

// DefaultPrecision is the hash precision used when a caller does not
// specify one explicitly.
const DefaultPrecision uint8 = 8

// Key is a fixed-length coordinate vector paired with a hash precision.
// Two keys are equal iff their quantized vectors are element-wise equal
// and their precision matches. Key is immutable after construction and
// is itself a valid, comparable map key via its MapKey method (Key
// cannot be used directly as a Go map key because it embeds a slice).
type Key struct {
	raw       []float64
	precision uint8
	mapKey    string
	hash      uint64
	valid     bool
}

// New constructs a Key from vector with the given hash precision.
//
// Fails with errs.ErrInvalidArgument if vector is empty or precision is
// outside [1,13].
func New(vector []float64, precision uint8) (Key, error) {
	if len(vector) == 0 {
		return Key{}, errs.ErrInvalidArgument
	}
	if precision < 1 || precision > 13 {
		return Key{}, errs.ErrInvalidArgument
	}

	raw := make([]float64, len(vector))
	copy(raw, vector)

	quantized, release := pool.GetInt64Slice(len(vector))
	defer release()
	scale := math.Pow10(int(precision))
	for i, v := range vector {
		quantized[i] = quantizeComponent(v, scale)
	}

	imageBytes := make([]byte, len(quantized)*8+1)
	for i, q := range quantized {
		putInt64LE(imageBytes[i*8:i*8+8], q)
	}
	imageBytes[len(imageBytes)-1] = precision

	return Key{
		raw:       raw,
		precision: precision,
		mapKey:    string(imageBytes),
		hash:      hash.Bytes(imageBytes),
		valid:     true,
	}, nil
}

// NewDefault constructs a Key using DefaultPrecision.
func NewDefault(vector []float64) (Key, error) {
	return New(vector, DefaultPrecision)
}

// quantizeComponent multiplies v by scale (10^p), truncates toward zero
// to an integer, then rounds that integer to the nearest multiple of ten.
func quantizeComponent(v float64, scale float64) int64 {
	truncated := int64(v * scale) // Go's float->int conversion truncates toward zero.

	return int64(math.Round(float64(truncated)/10.0)) * 10
}

func putInt64LE(b []byte, v int64) {
	u := uint64(v)
	for i := range 8 {
		b[i] = byte(u >> (8 * i))
	}
}

// Valid reports whether the key was successfully constructed.
func (k Key) Valid() bool { return k.valid }

// Len returns the number of components in the coordinate vector.
func (k Key) Len() int { return len(k.raw) }

// Precision returns the hash precision used to quantize this key.
func (k Key) Precision() uint8 { return k.precision }

// At returns the raw (unquantized) value of the i-th component.
func (k Key) At(i int) float64 { return k.raw[i] }

// Raw returns a copy of the raw coordinate vector, for geometric use.
func (k Key) Raw() []float64 {
	out := make([]float64, len(k.raw))
	copy(out, k.raw)

	return out
}

// Hash returns the 64-bit hash of the quantized byte image.
func (k Key) Hash() uint64 { return k.hash }

// MapKey returns a comparable string suitable for use as a Go map key.
// It encodes the quantized vector and precision, so two Keys with equal
// MapKey values are Equal, and vice versa.
func (k Key) MapKey() string { return k.mapKey }

// Equals reports whether k and other identify the same coordinate: both
// must be initialized, have the same length and precision, and have
// identical quantized components.
func (k Key) Equals(other Key) bool {
	if !k.valid || !other.valid {
		return false
	}

	return k.mapKey == other.mapKey
}
