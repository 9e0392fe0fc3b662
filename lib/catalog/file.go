package catalog

import (
	"fmt"
	"math"

	"github.com/batchatco/go-native-netcdf/netcdf/api"
)

// HandleMode says who is responsible for closing the chunk file wrapped by a
// Handle.
type HandleMode int

const (
	// OwnedHandle means the reader owns the file: it opens the file itself
	// if Handle.Group is nil, and closes whatever it ends up using.
	OwnedHandle HandleMode = iota
	// BorrowedHandle means the caller opened Handle.Group and keeps
	// responsibility for closing it. The reader must never close a borrowed
	// handle.
	BorrowedHandle
)

// Handle optionally carries an already-open chunk file into a position read,
// so a caller looping over many reads can pay for one open/close instead of
// one per read. The zero value tells the reader to open and close the file
// itself.
type Handle struct {
	Mode  HandleMode
	Group api.Group
}

// Borrow wraps an open chunk file in a Handle that the reader will not
// close.
func Borrow(g api.Group) Handle {
	return Handle{ Mode: BorrowedHandle, Group: g }
}

// PositionReader reads the raw position vectors stored for one particle type
// in a single catalogue chunk, in the catalogue's native length unit. The
// returned array is freshly allocated on every call and shaped N×3, where N
// is the full on-disk record count of the chunk; any sub-range restriction
// happens above this interface.
type PositionReader interface {
	ReadPositions(ptype string, h Handle) ([][3]float64, error)
}

// File represents a single on-disk chunk of a halo catalogue: its identity
// within the catalogue, an optional [start, end) record window, its
// per-type record counts, and the reader that knows the chunk's format.
// Files are owned exclusively by their catalogue's Index.
type File struct {
	ds       *Dataset
	filename string
	id       int

	start, end int
	hasRange   bool

	counts map[string]int
	reader PositionReader
	header map[string]interface{}
}

// NewFile creates a chunk descriptor with the given identity, per-type
// record counts, and format-specific reader. Passing a nil reader leaves the
// chunk format-agnostic: every position read will fail with a
// not-implemented error.
func NewFile(
	ds *Dataset, filename string, id int,
	counts map[string]int, reader PositionReader,
) *File {
	if reader == nil {
		reader = &notImplementedReader{ filename }
	}
	return &File{
		ds: ds, filename: filename, id: id,
		counts: counts, reader: reader,
	}
}

// Filename returns the path of the chunk's on-disk file.
func (f *File) Filename() string { return f.filename }

// ID returns the chunk's ordinal within the catalogue.
func (f *File) ID() int { return f.id }

// TotalParticles returns the chunk's record count for each particle type.
func (f *File) TotalParticles() map[string]int { return f.counts }

// Header returns the chunk's top-level attributes, or nil if the chunk's
// format doesn't carry any.
func (f *File) Header() map[string]interface{} { return f.header }

// SetRange restricts future position reads to the record window
// [start, end). The window is applied after the full chunk is read, before
// periodic correction.
func (f *File) SetRange(start, end int) {
	f.start, f.end, f.hasRange = start, end, true
}

// ClearRange removes the record window set by SetRange.
func (f *File) ClearRange() {
	f.start, f.end, f.hasRange = 0, 0, false
}

// Positions returns the chunk's positions for the given particle type,
// wrapped back into the periodic domain: every returned coordinate x
// satisfies left <= x < left + width along each dimension, no matter how far
// outside the domain the stored coordinate was. If the chunk holds no
// records of the type, Positions returns (nil, nil) and callers must check
// for it.
//
// The correction is applied in place to the freshly-read array, which the
// caller then owns outright. An optional Handle lets the caller share one
// open file across many reads; see Handle for the ownership contract.
func (f *File) Positions(ptype string, h Handle) ([][3]float64, error) {
	if f.counts[ptype] == 0 { return nil, nil }

	pos, err := f.reader.ReadPositions(ptype, h)
	if err != nil { return nil, err }

	if f.hasRange {
		if f.start < 0 || f.end > len(pos) || f.start > f.end {
			return nil, fmt.Errorf("The chunk %s has %d records, which "+
				"cannot satisfy the record window [%d, %d).",
				f.filename, len(pos), f.start, f.end)
		}
		pos = pos[f.start:f.end]
	}

	dle, dw := f.ds.DomainLeftEdge, f.ds.DomainWidth
	for i := range pos {
		for dim := 0; dim < 3; dim++ {
			x := math.Mod(pos[i][dim]-dle[dim], dw[dim])
			if x < 0 { x += dw[dim] }
			pos[i][dim] = x + dle[dim]
		}
	}

	return pos, nil
}

// notImplementedReader is the reader attached to format-agnostic chunks.
// Only format-specific readers can actually produce positions.
type notImplementedReader struct {
	filename string
}

func (r *notImplementedReader) ReadPositions(
	ptype string, h Handle,
) ([][3]float64, error) {
	return nil, fmt.Errorf("Reading positions from %s is not implemented: "+
		"the chunk was created without a format-specific reader.", r.filename)
}

// Type assertion
var (
	_ PositionReader = &notImplementedReader{ }
)
