package catalog

import (
	"fmt"
)

// FileOpener constructs the chunk descriptors used by an Index. HDF5
// catalogues use OpenHDF5File; tests substitute in-memory fakes.
type FileOpener func(ds *Dataset, filename string, id int) (*File, error)

// Index enumerates the chunks of a halo catalogue in id order and holds the
// catalogue-wide record total.
type Index struct {
	ds *Dataset

	// Files lists the catalogue's chunks, ordered by id.
	Files []*File
	// TotalParticles is the sum of every chunk's per-type record counts.
	TotalParticles int64
}

// NewIndex builds the chunk list for ds. Multi-chunk catalogues get one
// chunk per id in [0, FileCount), each named by expanding the filename
// template; single-chunk catalogues get exactly one chunk pointing at the
// originally supplied path. A chunk that cannot be opened fails the whole
// index: there is no partial recovery.
func NewIndex(ds *Dataset, open FileOpener) (*Index, error) {
	var files []*File

	if ds.FileCount > 1 {
		files = make([]*File, ds.FileCount)
		for i := range files {
			f, err := open(ds, fmt.Sprintf(ds.FilenameTemplate, i), i)
			if err != nil { return nil, err }
			files[i] = f
		}
	} else {
		f, err := open(ds, ds.Filename, 0)
		if err != nil { return nil, err }
		files = []*File{ f }
	}

	idx := &Index{ ds: ds, Files: files }
	for _, f := range files {
		for _, n := range f.counts {
			idx.TotalParticles += int64(n)
		}
	}

	return idx, nil
}
