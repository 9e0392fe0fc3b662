package catalog

import (
	"fmt"

	"github.com/batchatco/go-native-netcdf/netcdf/api"
	"github.com/batchatco/go-native-netcdf/netcdf/hdf5"
)

// axisNames gives the fixed naming convention of the position datasets:
// particle_position_x, particle_position_y, particle_position_z.
var axisNames = [3]string{"x", "y", "z"}

// HDF5File implements the PositionReader interface for HDF5 catalogue
// chunks. Positions are stored as three separate 1-D float64 datasets, one
// per axis, each num_halos long.
type HDF5File struct {
	filename string
	nHalos   int
}

// Type assertion
var (
	_ PositionReader = &HDF5File{ }
)

// OpenHDF5File creates the chunk descriptor for one HDF5 catalogue file. The
// chunk's top-level attributes are read into its header in a single
// open/close here; position data stays on disk until a Positions call asks
// for it.
func OpenHDF5File(ds *Dataset, filename string, id int) (*File, error) {
	g, err := hdf5.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("The chunk file %s does not exist or cannot "+
			"be read as HDF5: %s", filename, err.Error())
	}
	header := readAttrs(g)
	g.Close()

	nHalos, err := attrInt(header, "num_halos")
	if err != nil {
		return nil, fmt.Errorf("The chunk file %s has a malformed header: "+
			"%s", filename, err.Error())
	}

	rd := &HDF5File{ filename: filename, nHalos: nHalos }
	f := NewFile(ds, filename, id, map[string]int{ HaloType: nHalos }, rd)
	f.header = header
	return f, nil
}

// ReadPositions reads every position vector in the chunk into a fresh N×3
// array, N being the header's recorded halo count. If h carries an open
// file it is used directly and, when borrowed, left open for the caller;
// otherwise the chunk is opened and closed here.
func (f *HDF5File) ReadPositions(
	ptype string, h Handle,
) ([][3]float64, error) {
	if ptype != HaloType {
		return nil, fmt.Errorf("The chunk file %s only stores particles of "+
			"type '%s', not '%s'.", f.filename, HaloType, ptype)
	}

	g := h.Group
	if g == nil {
		var err error
		g, err = hdf5.Open(f.filename)
		if err != nil {
			return nil, fmt.Errorf("The chunk file %s does not exist or "+
				"cannot be read as HDF5: %s", f.filename, err.Error())
		}
		defer g.Close()
	} else if h.Mode == OwnedHandle {
		defer g.Close()
	}

	pos := make([][3]float64, f.nHalos)
	for dim := 0; dim < 3; dim++ {
		name := "particle_position_" + axisNames[dim]

		v, err := g.GetVariable(name)
		if err != nil {
			return nil, fmt.Errorf("The chunk file %s is missing the "+
				"dataset '%s': %s", f.filename, name, err.Error())
		}

		col, ok := floatColumn(v.Values)
		if !ok {
			return nil, fmt.Errorf("The dataset '%s' in the chunk file %s "+
				"is not a 1-D float array.", name, f.filename)
		}
		if len(col) != len(pos) {
			return nil, fmt.Errorf("The dataset '%s' in the chunk file %s "+
				"has %d values, but the header's num_halos attribute says "+
				"it should have %d.", name, f.filename, len(col), len(pos))
		}

		for i := range col {
			pos[i][dim] = col[i]
		}
	}

	return pos, nil
}

// readAttrs copies every top-level attribute of an open file into a plain
// map.
func readAttrs(g api.Group) map[string]interface{} {
	am := g.Attributes()
	header := map[string]interface{}{ }
	for _, key := range am.Keys() {
		val, has := am.Get(key)
		if !has { continue }
		header[key] = val
	}
	return header
}

// floatColumn coerces a dataset's values to []float64. HDF5 files written by
// different tools store the position columns as either float64 or float32.
func floatColumn(values interface{}) ([]float64, bool) {
	switch col := values.(type) {
	case []float64:
		return col, true
	case []float32:
		out := make([]float64, len(col))
		for i := range col {
			out[i] = float64(col[i])
		}
		return out, true
	}
	return nil, false
}
