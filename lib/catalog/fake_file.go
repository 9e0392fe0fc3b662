package catalog

import (
	"fmt"
)

// FakeReader is an object that implements the PositionReader interface for
// testing purposes, but can be initialized directly from arrays instead of
// an on-disk HDF5 file. Every read hands back a fresh copy of the backing
// array, matching the allocation contract of the real readers.
type FakeReader struct {
	x [][3]float64

	// Reads counts ReadPositions calls, and LastHandle records the Handle
	// the most recent call received, so tests can check the ownership
	// plumbing.
	Reads      int
	LastHandle Handle
}

// Type assertion
var (
	_ PositionReader = &FakeReader{ }
)

// NewFakeReader creates a FakeReader backed by the given position vectors.
func NewFakeReader(x [][3]float64) *FakeReader {
	return &FakeReader{ x: x }
}

func (f *FakeReader) ReadPositions(
	ptype string, h Handle,
) ([][3]float64, error) {
	f.Reads++
	f.LastHandle = h

	if ptype != HaloType {
		return nil, fmt.Errorf("FakeReader only supports the particle type "+
			"'%s', not '%s'.", HaloType, ptype)
	}

	out := make([][3]float64, len(f.x))
	copy(out, f.x)
	return out, nil
}

// NewFakeFile creates a chunk descriptor backed by in-memory positions. The
// chunk reports len(x) records of type HaloType.
func NewFakeFile(ds *Dataset, filename string, id int, x [][3]float64) *File {
	counts := map[string]int{ HaloType: len(x) }
	return NewFile(ds, filename, id, counts, NewFakeReader(x))
}
