package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestSplitTemplate(t *testing.T) {
	tests := []struct{
		path, prefix, template string
	} {
		{ "run.3.h5", "run", "run.%d.h5" },
		{ "run.0.h5", "run", "run.%d.h5" },
		{ "catalog.h5", "catalog", "catalog.%d.h5" },
		{ "/data/cat.12.h5", "/data/cat", "/data/cat.%d.h5" },
		{ "/my.data/catalog.h5", "/my.data/catalog",
			"/my.data/catalog.%d.h5" },
		{ "halos.final.h5", "halos", "halos.%d.h5" },
	}

	for i := range tests {
		prefix, template := SplitTemplate(tests[i].path)
		if prefix != tests[i].prefix {
			t.Errorf("%d) Expected SplitTemplate(%s) to give the prefix "+
				"'%s', got '%s'.", i, tests[i].path, tests[i].prefix, prefix)
		}
		if template != tests[i].template {
			t.Errorf("%d) Expected SplitTemplate(%s) to give the template "+
				"'%s', got '%s'.", i, tests[i].path, tests[i].template,
				template)
		}
	}
}

func TestCountChunks(t *testing.T) {
	dir := t.TempDir()

	for i := 0; i < 4; i++ {
		name := filepath.Join(dir, fmt.Sprintf("cat.%d.h5", i))
		f, err := os.Create(name)
		if err != nil { t.Fatalf("Couldn't create %s: %s", name, err.Error()) }
		f.Close()
	}
	// Files outside the catalogue's prefix shouldn't be counted.
	for _, name := range []string{"other.0.h5", "cat.0.txt"} {
		f, err := os.Create(filepath.Join(dir, name))
		if err != nil { t.Fatalf("Couldn't create %s: %s", name, err.Error()) }
		f.Close()
	}

	prefix, _ := SplitTemplate(filepath.Join(dir, "cat.0.h5"))
	n, err := countChunks(prefix)
	if err != nil {
		t.Fatalf("Expected countChunks to succeed, got the error '%s'.",
			err.Error())
	}
	if n != 4 {
		t.Errorf("Expected countChunks to find 4 chunks, got %d.", n)
	}
}

func TestIsValidSuffix(t *testing.T) {
	// A non-matching suffix must be rejected without touching the disk, so
	// the file not existing can't matter.
	ok, err := IsValid("halos_that_don't_exist.txt")
	if err != nil {
		t.Errorf("Expected IsValid on a non-.h5 path to return no error, "+
			"got '%s'.", err.Error())
	}
	if ok {
		t.Errorf("Expected IsValid to reject a non-.h5 path.")
	}

	// A suffix-matching file that can't be opened surfaces the failure.
	ok, err = IsValid("halos_that_don't_exist.h5")
	if ok {
		t.Errorf("Expected IsValid to reject a missing file.")
	}
	if err == nil {
		t.Errorf("Expected IsValid on a missing .h5 path to surface an " +
			"open error.")
	}
}
