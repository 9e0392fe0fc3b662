/*package catalog reads halo catalogues stored as one or more HDF5 chunk
files. A catalogue is a set of files sharing the naming convention
<prefix>.<id>.h5, each carrying the catalogue's global attributes (domain
edges, cosmology, a "data_type" tag equal to "halo_catalog") along with a
per-chunk halo count and three 1-D position datasets, particle_position_x/y/z.

The entry point is Open, which recognizes the format, parses the shared
parameters out of the file's top-level attributes, discovers the sibling
chunks on disk and builds an Index over them. Positions are then read
per-chunk through File.Positions, which wraps every coordinate back into the
periodic domain.
*/
package catalog

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/batchatco/go-native-netcdf/netcdf/hdf5"
)

// Suffix is the file extension shared by every catalogue chunk.
const Suffix = ".h5"

// HaloType is the single particle type stored in a halo catalogue. Every
// record in every chunk is a halo.
const HaloType = "halos"

// savedAttrs are the global attributes shared by every chunk of a catalogue.
// They are parsed once, from the file handed to Open.
var savedAttrs = []string{
	"cosmological_simulation",
	"current_time", "current_redshift",
	"hubble_constant", "omega_matter", "omega_lambda",
	"domain_left_edge", "domain_right_edge",
}

// Dataset holds the global parameters of a halo catalogue: its domain
// geometry, its cosmology, and the naming template that ties its chunks
// together. A Dataset is immutable once Open returns it.
type Dataset struct {
	// Filename is the path Open was originally given.
	Filename string
	// FilenameTemplate contains a single %d verb which expands to a chunk
	// id. It is only meaningful when FileCount > 1.
	FilenameTemplate string
	// FileCount is the number of sibling chunk files found on disk.
	FileCount int

	DomainLeftEdge, DomainRightEdge, DomainWidth [3]float64
	DomainDimensions                             [3]int
	Dimensionality                               int
	RefineBy                                     int
	Periodicity                                  [3]bool

	CosmologicalSimulation bool
	CurrentTime            float64
	CurrentRedshift        float64
	HubbleConstant         float64
	OmegaMatter            float64
	OmegaLambda            float64

	// ParticleTypes lists the particle types stored in the catalogue. Halo
	// catalogues only ever contain one, HaloType.
	ParticleTypes []string

	// Index enumerates the catalogue's chunks. Built by Open.
	Index *Index

	header map[string]interface{}
}

// IsValid reports whether the file at path is a halo catalogue this package
// can read. Paths without the .h5 suffix are rejected without touching the
// disk. A suffix-matching file that cannot be opened or parsed as HDF5
// surfaces that failure as an error rather than silently reporting false.
func IsValid(path string) (bool, error) {
	if !strings.HasSuffix(path, Suffix) { return false, nil }

	g, err := hdf5.Open(path)
	if err != nil {
		return false, fmt.Errorf("The file %s has the suffix of a halo "+
			"catalogue, but cannot be opened as HDF5: %s", path, err.Error())
	}
	defer g.Close()

	val, has := g.Attributes().Get("data_type")
	if !has { return false, nil }
	s, ok := attrToString(val)
	return ok && s == "halo_catalog", nil
}

// Open reads the catalogue whose first (or only) chunk is at path. It
// validates the format, parses the global parameters out of the file's
// top-level attributes, and builds an index over every sibling chunk found
// on disk. Any chunk that is missing or unreadable makes Open fail.
func Open(path string) (*Dataset, error) {
	ok, err := IsValid(path)
	if err != nil {
		return nil, err
	} else if !ok {
		return nil, fmt.Errorf("The file %s is not a halo catalogue: either "+
			"it does not end in %s or its 'data_type' attribute is not "+
			"'halo_catalog'.", path, Suffix)
	}

	ds := &Dataset{ Filename: path }
	if err := ds.parseParameters(); err != nil { return nil, err }

	ds.Index, err = NewIndex(ds, OpenHDF5File)
	if err != nil { return nil, err }

	return ds, nil
}

// parseParameters fills in the Dataset's fixed geometry, derives the chunk
// filename template, counts the sibling chunks on disk, and parses the
// shared attributes out of the catalogue's header.
func (ds *Dataset) parseParameters() error {
	ds.RefineBy = 2
	ds.Dimensionality = 3
	ds.DomainDimensions = [3]int{1, 1, 1}
	ds.Periodicity = [3]bool{true, true, true}
	ds.ParticleTypes = []string{HaloType}

	prefix, template := SplitTemplate(ds.Filename)
	ds.FilenameTemplate = template

	n, err := countChunks(prefix)
	if err != nil { return err }
	ds.FileCount = n

	g, err := hdf5.Open(ds.Filename)
	if err != nil {
		return fmt.Errorf("The catalogue file %s does not exist or cannot "+
			"be accessed: %s", ds.Filename, err.Error())
	}
	ds.header = readAttrs(g)
	g.Close()

	return ds.parseSavedAttrs()
}

// parseSavedAttrs parses the attributes every chunk of a saved catalogue
// carries: the cosmology flags and the domain edges.
func (ds *Dataset) parseSavedAttrs() error {
	for _, name := range savedAttrs {
		if _, ok := ds.header[name]; !ok {
			return fmt.Errorf("The catalogue file %s is missing the "+
				"required attribute '%s'.", ds.Filename, name)
		}
	}

	var err error
	if ds.CosmologicalSimulation, err =
		attrBool(ds.header, "cosmological_simulation"); err != nil {
		return ds.attrError(err)
	}
	if ds.CurrentTime, err = attrFloat(ds.header, "current_time"); err != nil {
		return ds.attrError(err)
	}
	if ds.CurrentRedshift, err =
		attrFloat(ds.header, "current_redshift"); err != nil {
		return ds.attrError(err)
	}
	if ds.HubbleConstant, err =
		attrFloat(ds.header, "hubble_constant"); err != nil {
		return ds.attrError(err)
	}
	if ds.OmegaMatter, err = attrFloat(ds.header, "omega_matter"); err != nil {
		return ds.attrError(err)
	}
	if ds.OmegaLambda, err = attrFloat(ds.header, "omega_lambda"); err != nil {
		return ds.attrError(err)
	}
	if ds.DomainLeftEdge, err =
		attrVec3(ds.header, "domain_left_edge"); err != nil {
		return ds.attrError(err)
	}
	if ds.DomainRightEdge, err =
		attrVec3(ds.header, "domain_right_edge"); err != nil {
		return ds.attrError(err)
	}

	for dim := 0; dim < 3; dim++ {
		ds.DomainWidth[dim] = ds.DomainRightEdge[dim] - ds.DomainLeftEdge[dim]
		if ds.DomainWidth[dim] <= 0 {
			return fmt.Errorf("The catalogue file %s has domain_left_edge = "+
				"%g and domain_right_edge = %g, which give the domain a "+
				"non-positive width along dimension %d.", ds.Filename,
				ds.DomainLeftEdge, ds.DomainRightEdge, dim)
		}
	}

	return nil
}

func (ds *Dataset) attrError(err error) error {
	return fmt.Errorf("The catalogue file %s has a malformed header: %s",
		ds.Filename, err.Error())
}

// Header returns the top-level attributes of the file Open was given, as a
// map from attribute name to scalar or array value.
func (ds *Dataset) Header() map[string]interface{} { return ds.header }

// SplitTemplate derives the chunk naming convention from the path of any one
// chunk. The trailing .h5 suffix and, when present, the dot-separated chunk
// id before it are stripped off: "run.3.h5" gives the prefix "run" and the
// template "run.%d.h5". Paths with no id component, like "catalog.h5", keep
// everything before the suffix as the prefix.
func SplitTemplate(path string) (prefix, template string) {
	prefix = strings.TrimSuffix(path, Suffix)
	// Only strip dots in the final path component, so a dotted directory
	// name doesn't get mangled.
	if i := strings.LastIndex(prefix, "."); i >
		strings.LastIndex(prefix, string(filepath.Separator)) {
		prefix = prefix[:i]
	}
	return prefix, prefix + ".%d" + Suffix
}

// countChunks counts the files on disk which share a catalogue's prefix and
// suffix.
func countChunks(prefix string) (int, error) {
	matches, err := filepath.Glob(prefix + "*" + Suffix)
	if err != nil {
		return 0, fmt.Errorf("Internal error: the chunk prefix %s produced "+
			"an invalid glob pattern: %s", prefix, err.Error())
	}
	return len(matches), nil
}
