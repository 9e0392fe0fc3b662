package catalog

import (
	"fmt"
	"testing"

	"github.com/batchatco/go-native-netcdf/netcdf/api"
	"github.com/phil-mansfield/halocat/lib/eq"
)

// tallyGroup is an in-memory chunk file that counts how many times it gets
// closed, so tests can check the Handle ownership contract. Only the methods
// ReadPositions touches are implemented; calling anything else panics
// through the embedded nil interface.
type tallyGroup struct {
	api.Group
	x      [3][]float64
	failOn string
	Closes int
}

func newTallyGroup(x [][3]float64) *tallyGroup {
	g := &tallyGroup{ }
	for dim := 0; dim < 3; dim++ {
		g.x[dim] = make([]float64, len(x))
		for i := range x { g.x[dim][i] = x[i][dim] }
	}
	return g
}

func (g *tallyGroup) Close() { g.Closes++ }

func (g *tallyGroup) GetVariable(name string) (*api.Variable, error) {
	if name == g.failOn {
		return nil, fmt.Errorf("the dataset '%s' is corrupt", name)
	}
	for dim := 0; dim < 3; dim++ {
		if name == "particle_position_"+axisNames[dim] {
			return &api.Variable{ Values: g.x[dim] }, nil
		}
	}
	return nil, fmt.Errorf("the dataset '%s' does not exist", name)
}

func TestReadPositionsBorrowedHandle(t *testing.T) {
	x := [][3]float64{ {0, 1, 2}, {3, 4, 5} }
	g := newTallyGroup(x)
	rd := &HDF5File{ filename: "cat.0.h5", nHalos: len(x) }

	pos, err := rd.ReadPositions(HaloType, Borrow(g))
	if err != nil {
		t.Fatalf("Expected a valid position read, got the error '%s'.",
			err.Error())
	}
	if !eq.Vec64s(pos, x) {
		t.Errorf("Expected the positions %.1f, got %.1f.", x, pos)
	}
	if g.Closes != 0 {
		t.Errorf("Expected a borrowed chunk file to stay open, but it was "+
			"closed %d times.", g.Closes)
	}

	// The caller still holds the handle, so a second read must work.
	if _, err := rd.ReadPositions(HaloType, Borrow(g)); err != nil {
		t.Fatalf("Expected a second read through a borrowed handle to "+
			"succeed, got the error '%s'.", err.Error())
	}
	if g.Closes != 0 {
		t.Errorf("Expected a borrowed chunk file to stay open across reads, "+
			"but it was closed %d times.", g.Closes)
	}
}

func TestReadPositionsOwnedHandle(t *testing.T) {
	x := [][3]float64{ {0, 1, 2} }
	g := newTallyGroup(x)
	rd := &HDF5File{ filename: "cat.0.h5", nHalos: len(x) }

	_, err := rd.ReadPositions(HaloType, Handle{ Mode: OwnedHandle, Group: g })
	if err != nil {
		t.Fatalf("Expected a valid position read, got the error '%s'.",
			err.Error())
	}
	if g.Closes != 1 {
		t.Errorf("Expected an owned chunk file to be closed exactly once, "+
			"got %d closes.", g.Closes)
	}
}

func TestReadPositionsHandleCloseOnError(t *testing.T) {
	x := [][3]float64{ {0, 1, 2} }

	// An owned handle is closed even when the read fails partway through.
	g := newTallyGroup(x)
	g.failOn = "particle_position_y"
	rd := &HDF5File{ filename: "cat.0.h5", nHalos: len(x) }

	_, err := rd.ReadPositions(HaloType, Handle{ Mode: OwnedHandle, Group: g })
	if err == nil {
		t.Fatalf("Expected a read with a corrupt dataset to fail, but it " +
			"succeeded.")
	}
	if g.Closes != 1 {
		t.Errorf("Expected an owned chunk file to be closed after a failed "+
			"read, got %d closes.", g.Closes)
	}

	// A borrowed handle is never closed, failed read or not.
	g = newTallyGroup(x)
	g.failOn = "particle_position_y"
	if _, err := rd.ReadPositions(HaloType, Borrow(g)); err == nil {
		t.Fatalf("Expected a read with a corrupt dataset to fail, but it " +
			"succeeded.")
	}
	if g.Closes != 0 {
		t.Errorf("Expected a borrowed chunk file to stay open after a "+
			"failed read, but it was closed %d times.", g.Closes)
	}
}

func TestReadPositionsLengthMismatch(t *testing.T) {
	// The header's halo count and the dataset lengths must agree.
	g := newTallyGroup([][3]float64{ {0, 1, 2}, {3, 4, 5} })
	rd := &HDF5File{ filename: "cat.0.h5", nHalos: 3 }

	if _, err := rd.ReadPositions(HaloType, Borrow(g)); err == nil {
		t.Errorf("Expected a dataset shorter than num_halos to fail, but " +
			"it succeeded.")
	}
}
