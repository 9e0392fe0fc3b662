package catalog

import (
	"fmt"
)

/* HDF5 attributes come back from the reader as whatever Go type most
closely matches the stored datatype, which varies with the tool that wrote
the catalogue: h5py writes Python ints as 64-bit, numpy scalars keep their
width, and scalar attributes are sometimes stored as length-1 arrays. The
helpers here coerce all of those spellings to the type the Dataset wants. */

// attrToString coerces a string-typed attribute value.
func attrToString(val interface{}) (string, bool) {
	switch v := val.(type) {
	case string:
		return v, true
	case []string:
		if len(v) == 1 { return v[0], true }
	case []byte:
		return string(v), true
	}
	return "", false
}

// unwrapScalar reduces a length-1 array attribute to its single element.
func unwrapScalar(val interface{}) interface{} {
	switch v := val.(type) {
	case []float64:
		if len(v) == 1 { return v[0] }
	case []float32:
		if len(v) == 1 { return v[0] }
	case []int64:
		if len(v) == 1 { return v[0] }
	case []int32:
		if len(v) == 1 { return v[0] }
	case []uint64:
		if len(v) == 1 { return v[0] }
	case []uint32:
		if len(v) == 1 { return v[0] }
	case []int8:
		if len(v) == 1 { return v[0] }
	case []uint8:
		if len(v) == 1 { return v[0] }
	}
	return val
}

// attrFloat reads a scalar numeric attribute as a float64.
func attrFloat(header map[string]interface{}, name string) (float64, error) {
	val, ok := header[name]
	if !ok {
		return 0, fmt.Errorf("the attribute '%s' is missing", name)
	}

	switch v := unwrapScalar(val).(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case uint32:
		return float64(v), nil
	case int8:
		return float64(v), nil
	case uint8:
		return float64(v), nil
	}
	return 0, fmt.Errorf("the attribute '%s' is not a numeric scalar "+
		"(it has type %T)", name, val)
}

// attrInt reads a scalar numeric attribute as an int, failing if the stored
// value has a fractional part or is negative. Every integer attribute a
// catalogue stores is a count or a 0/1 flag.
func attrInt(header map[string]interface{}, name string) (int, error) {
	x, err := attrFloat(header, name)
	if err != nil { return 0, err }
	n := int(x)
	if float64(n) != x {
		return 0, fmt.Errorf("the attribute '%s' is %g, which is not an "+
			"integer", name, x)
	}
	if n < 0 {
		return 0, fmt.Errorf("the attribute '%s' is %d, but counts and "+
			"flags cannot be negative", name, n)
	}
	return n, nil
}

// attrBool reads a 0/1 flag attribute, the way cosmological_simulation is
// stored.
func attrBool(header map[string]interface{}, name string) (bool, error) {
	n, err := attrInt(header, name)
	if err != nil { return false, err }
	return n != 0, nil
}

// attrVec3 reads a length-3 float array attribute, the way the domain edges
// are stored.
func attrVec3(header map[string]interface{}, name string) ([3]float64, error) {
	val, ok := header[name]
	if !ok {
		return [3]float64{ }, fmt.Errorf("the attribute '%s' is missing",
			name)
	}

	out := [3]float64{ }
	switch v := val.(type) {
	case []float64:
		if len(v) != 3 { break }
		copy(out[:], v)
		return out, nil
	case []float32:
		if len(v) != 3 { break }
		for i := range out { out[i] = float64(v[i]) }
		return out, nil
	case [3]float64:
		return v, nil
	}
	return out, fmt.Errorf("the attribute '%s' is not a 3-vector "+
		"(it has type %T)", name, val)
}
