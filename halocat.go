package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/phil-mansfield/halocat/lib"
	"github.com/phil-mansfield/halocat/lib/binc"
	"github.com/phil-mansfield/halocat/lib/catalog"
	"github.com/phil-mansfield/halocat/lib/error"
	"github.com/phil-mansfield/halocat/lib/stats"
)

func main() {
	if len(os.Args) < 2 {
		PrintHelp()
		return
	}
	mode := os.Args[1]

	if mode == "help" {
		PrintHelp()
		return
	}

	if len(os.Args) < 3 {
		error.External(
			"You attempted to run halocat in the mode '%s' without giving "+
				"it a catalogue. Run it as:\n"+
				"$ halocat %s <catalogue.h5> [config file]", mode, mode,
		)
	}
	path := os.Args[2]

	cfg := lib.DefaultConfig()
	if len(os.Args) >= 4 {
		fileCfg, err := lib.ParseConfigFile(os.Args[3])
		if err != nil { error.External(err.Error()) }
		cfg = fileCfg
	}

	switch mode {
	case "info":
		Info(path)
	case "stats":
		Stats(path, cfg)
	case "convert":
		Convert(path, cfg)
	default:
		error.External(
			"You attempted to run halocat in the mode '%s', but the only "+
				"valid modes are 'help', 'info', 'stats', and 'convert'.", mode,
		)
	}
}

// PrintHelp runs halocat's "help" mode.
func PrintHelp() {
	fmt.Println(`halocat reads Gadget-style HDF5 halo catalogues.

Usage:
$ halocat <mode> <catalogue.h5> [config file]

Modes:
    help     Print this message.
    info     Print the catalogue's header and chunk layout.
    stats    Print summary statistics of the halo positions.
    convert  Write the halo positions to a compressed .binc file.

The catalogue may be a single file or one chunk of a multi-file catalogue
(e.g. catalog.0.h5); the other chunks are found automatically.`)
}

// Info runs halocat's "info" mode, which prints the parsed header and the
// chunk layout of a catalogue.
func Info(path string) {
	ds := open(path)

	fmt.Printf("Catalogue: %s\n", ds.Filename)
	if ds.FileCount > 1 {
		fmt.Printf("Chunks: %d (template %s)\n",
			ds.FileCount, ds.FilenameTemplate)
	} else {
		fmt.Println("Chunks: 1")
	}
	fmt.Printf("Haloes: %d\n", ds.Index.TotalParticles)

	fmt.Printf("Domain: left edge %.6g, right edge %.6g\n",
		ds.DomainLeftEdge, ds.DomainRightEdge)
	if ds.CosmologicalSimulation {
		fmt.Printf("Cosmology: z = %.6g, t = %.6g, h = %.6g, "+
			"Omega_m = %.6g, Omega_L = %.6g\n",
			ds.CurrentRedshift, ds.CurrentTime, ds.HubbleConstant,
			ds.OmegaMatter, ds.OmegaLambda)
	}

	for _, f := range ds.Index.Files {
		fmt.Printf("    %s: %d haloes\n",
			f.Filename(), f.TotalParticles()[catalog.HaloType])
	}

	header := ds.Header()
	keys := make([]string, 0, len(header))
	for key := range header { keys = append(keys, key) }
	sort.Strings(keys)

	fmt.Println("Header attributes:")
	for _, key := range keys {
		fmt.Printf("    %s = %v\n", key, header[key])
	}
}

// Stats runs halocat's "stats" mode, which prints per-axis moments and axis
// ratios of the halo distribution, plus the most bound halo if a softening
// scale was configured.
func Stats(path string, cfg *lib.Config) {
	ds := open(path)
	x := allPositions(ds)

	s := stats.Summarize(x, ds.DomainWidth)
	fmt.Printf("Haloes: %d\n", s.N)
	fmt.Printf("Mean position: %.6g\n", s.Mean)
	fmt.Printf("Std. dev.: %.6g\n", s.Std)
	if s.CA >= 0 {
		fmt.Printf("Axis ratios: c/a = %.4g, b/a = %.4g\n", s.CA, s.BA)
	}

	if cfg.Stats.Eps > 0 && len(x) >= 2 {
		pe := stats.PotentialEnergies(x, cfg.Stats.Eps, ds.DomainWidth)
		iMin := 0
		for i := range pe {
			if pe[i] < pe[iMin] { iMin = i }
		}
		fmt.Printf("Most bound halo: %d at %.6g\n", iMin, x[iMin])
	}
}

// Convert runs halocat's "convert" mode, which gathers the halo positions
// from every chunk and writes them as .binc columns.
func Convert(path string, cfg *lib.Config) {
	ds := open(path)
	x := allPositions(ds)

	cols := [][]float64{
		make([]float64, len(x)),
		make([]float64, len(x)),
		make([]float64, len(x)),
	}
	for i := range x {
		for dim := 0; dim < 3; dim++ { cols[dim][i] = x[i][dim] }
	}

	err := binc.WriteFile(cfg.Convert.Output,
		[]string{"x", "y", "z"}, cols, cfg.Convert.Level)
	if err != nil { error.External(err.Error()) }

	fmt.Printf("Wrote %d haloes to %s.\n", len(x), cfg.Convert.Output)
}

func open(path string) *catalog.Dataset {
	ds, err := catalog.Open(path)
	if err != nil { error.External(err.Error()) }
	return ds
}

// allPositions concatenates the wrapped halo positions of every chunk.
func allPositions(ds *catalog.Dataset) [][3]float64 {
	x := make([][3]float64, 0, ds.Index.TotalParticles)
	for _, f := range ds.Index.Files {
		fx, err := f.Positions(catalog.HaloType, catalog.Handle{ })
		if err != nil { error.External(err.Error()) }
		x = append(x, fx...)
	}
	return x
}
