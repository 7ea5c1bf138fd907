// Package opat reads OPAT files: a binary container format holding a
// catalog of data "cards", each keyed by an N-dimensional coordinate
// vector, and provides N-dimensional Delaunay-triangulation
// interpolation between cards.
//
// # Basic Usage
//
// Opening a file and reading a card by a coordinate key from its catalog:
//
//	r, err := opat.Open("table.opat")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
//	file, err := r.Decode()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	keys := file.Keys()
//	card, err := file.Get(keys[0])
//
// Interpolating at an arbitrary point between cards:
//
//	ip, err := opat.NewInterpolator(file)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	card, err := ip.Get([]float64{0.021, 1.4e6})
//
// # Package Structure
//
// This package provides convenient top-level wrappers around codec,
// model, and interp. For advanced usage — custom reader options or
// direct catalog inspection — use those packages directly. Linear is
// the only interpolation strategy implemented.
package opat

import (
	"github.com/opat-format/opat/codec"
	"github.com/opat-format/opat/format"
	"github.com/opat-format/opat/interp"
	"github.com/opat-format/opat/model"
)

// Reader decodes an OPAT file into a model.File.
type Reader = codec.Reader

// Interpolator synthesizes cards at arbitrary query points.
type Interpolator = interp.Interpolator

// Open opens the OPAT file at path and prepares it for decoding. By
// default the file is memory-mapped; pass codec.WithMmap(false) to
// fall back to a full read into memory.
//
// Example:
//
//	r, err := opat.Open("table.opat")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
func Open(path string, opts ...codec.Option) (*Reader, error) {
	return codec.Open(path, opts...)
}

// NewReader wraps an in-memory OPAT image for decoding.
func NewReader(data []byte, opts ...codec.Option) (*Reader, error) {
	return codec.NewReader(data, opts...)
}

// NewInterpolator builds a Linear Interpolator over file.
//
// Example:
//
//	ip, err := opat.NewInterpolator(file)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	card, err := ip.Get([]float64{0.3, 1.1e6})
func NewInterpolator(file *model.File) (*Interpolator, error) {
	return interp.New(file)
}

// NewInterpolatorWithType builds an Interpolator over file using the
// given strategy. Only format.Linear is currently implemented; other
// values fail with errs.ErrUnsupported.
func NewInterpolatorWithType(file *model.File, kind format.InterpolationType) (*Interpolator, error) {
	return interp.NewWithType(file, kind)
}
