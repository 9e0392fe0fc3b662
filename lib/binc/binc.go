/*package binc reads and writes .binc files, a small compressed binary format
for halo catalogue columns. A .binc file holds a fixed-width little-endian
header (magic number, version, column and halo counts), a comma-separated
column name block, and then one zstd-compressed block per column, each block
prefixed by its compressed byte length. Columns are float64 and all the same
length.

The format exists so large HDF5 catalogues can be boiled down to the handful
of columns an analysis actually touches, at a fraction of the disk cost.
*/
package binc

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/DataDog/zstd"
)

const (
	Magic   = int64(0xba10c47)
	Version = int64(1)

	// DefaultLevel is the zstd compression level used when the caller
	// doesn't choose one. Position columns are nearly incompressible noise
	// in the mantissa bits, so cranking the level up buys very little.
	DefaultLevel = 3
)

// fixedHeader is the fixed-width portion at the front of every .binc file.
type fixedHeader struct {
	Magic, Version int64
	Columns, Haloes int64
	NamesLength int64
}

// WriteFile writes the named columns to fname. Every column must have the
// same length. The zstd compression level is given by level; use
// DefaultLevel unless you have a reason not to.
func WriteFile(
	fname string, names []string, cols [][]float64, level int,
) error {
	if len(names) != len(cols) {
		return fmt.Errorf("Internal error: %d column names were given, "+
			"but %d columns.", len(names), len(cols))
	}
	for i := range names {
		if strings.Contains(names[i], ",") {
			return fmt.Errorf("The column name '%s' contains a comma, "+
				"which the .binc name block can't represent.", names[i])
		}
	}

	nHaloes := 0
	if len(cols) > 0 { nHaloes = len(cols[0]) }
	for i := range cols {
		if len(cols[i]) != nHaloes {
			return fmt.Errorf("The column '%s' has %d values, but '%s' "+
				"has %d. All .binc columns must be the same length.",
				names[i], len(cols[i]), names[0], nHaloes)
		}
	}

	f, err := os.Create(fname)
	if err != nil {
		return fmt.Errorf("The file %s cannot be created: %s",
			fname, err.Error())
	}
	defer f.Close()

	nameBlock := []byte(strings.Join(names, ","))
	hd := fixedHeader{
		Magic: Magic, Version: Version,
		Columns: int64(len(cols)), Haloes: int64(nHaloes),
		NamesLength: int64(len(nameBlock)),
	}

	if err := binary.Write(f, binary.LittleEndian, hd); err != nil {
		return err
	}
	if _, err := f.Write(nameBlock); err != nil { return err }

	for i := range cols {
		if err := writeColumn(f, cols[i], level); err != nil {
			return fmt.Errorf("The column '%s' could not be written to "+
				"%s: %s", names[i], fname, err.Error())
		}
	}

	return nil
}

// writeColumn compresses one column and writes it as a length-prefixed
// block.
func writeColumn(wr io.Writer, col []float64, level int) error {
	raw := &bytes.Buffer{ }
	if err := binary.Write(raw, binary.LittleEndian, col); err != nil {
		return err
	}

	buf, err := zstd.CompressLevel(nil, raw.Bytes(), level)
	if err != nil { return err }

	if err := binary.Write(
		wr, binary.LittleEndian, int64(len(buf)),
	); err != nil {
		return err
	}
	_, err = wr.Write(buf)
	return err
}

// ReadFile reads back the column names and columns stored in a .binc file.
func ReadFile(fname string) (names []string, cols [][]float64, err error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, nil, fmt.Errorf("The file %s does not exist or cannot "+
			"be accessed: %s", fname, err.Error())
	}
	defer f.Close()

	hd := fixedHeader{ }
	if err := binary.Read(f, binary.LittleEndian, &hd); err != nil {
		return nil, nil, fmt.Errorf("The file %s is too small to be a "+
			".binc file: %s", fname, err.Error())
	}

	if hd.Magic != Magic {
		return nil, nil, fmt.Errorf("The file %s is not a .binc file: its "+
			"magic number is %x instead of %x.", fname, hd.Magic, Magic)
	}
	if hd.Version != Version {
		return nil, nil, fmt.Errorf("The file %s uses .binc version %d, "+
			"but this reader is version %d.", fname, hd.Version, Version)
	}
	if hd.Columns < 0 || hd.Haloes < 0 || hd.NamesLength < 0 {
		return nil, nil, fmt.Errorf("The file %s has a garbage .binc "+
			"header: %d columns, %d haloes, name block length %d.",
			fname, hd.Columns, hd.Haloes, hd.NamesLength)
	}

	nameBlock := make([]byte, hd.NamesLength)
	if _, err := io.ReadFull(f, nameBlock); err != nil {
		return nil, nil, fmt.Errorf("The file %s ends inside its column "+
			"name block: %s", fname, err.Error())
	}
	names = strings.Split(string(nameBlock), ",")
	if hd.Columns == 0 { names = []string{ } }
	if int64(len(names)) != hd.Columns {
		return nil, nil, fmt.Errorf("The file %s declares %d columns but "+
			"names %d.", fname, hd.Columns, len(names))
	}

	cols = make([][]float64, hd.Columns)
	for i := range cols {
		cols[i] = make([]float64, hd.Haloes)
		if err := readColumn(f, cols[i]); err != nil {
			return nil, nil, fmt.Errorf("The column '%s' in %s could not "+
				"be read: %s", names[i], fname, err.Error())
		}
	}

	return names, cols, nil
}

// readColumn reads one length-prefixed block and decompresses it into col.
func readColumn(rd io.Reader, col []float64) error {
	nBuf := int64(0)
	if err := binary.Read(rd, binary.LittleEndian, &nBuf); err != nil {
		return err
	}
	if nBuf < 0 {
		return fmt.Errorf("the block has a negative compressed length, %d",
			nBuf)
	}

	buf := make([]byte, nBuf)
	if _, err := io.ReadFull(rd, buf); err != nil { return err }

	raw, err := zstd.Decompress(nil, buf)
	if err != nil { return err }
	if len(raw) != 8*len(col) {
		return fmt.Errorf("the block decompressed to %d bytes, but the "+
			"column needs %d", len(raw), 8*len(col))
	}

	return binary.Read(bytes.NewReader(raw), binary.LittleEndian, col)
}
