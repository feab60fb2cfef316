//nolint:testpackage // Tests internal functions
package run

import (
	"errors"
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"sync"
	"testing"
)

// checkSource type-checks src as a package with the given import path.
func checkSource(t *testing.T, path, src string) *types.Package {
	t.Helper()

	fset := token.NewFileSet()

	file, err := parser.ParseFile(fset, "src.go", src, parser.ParseComments)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	conf := types.Config{Importer: importer.ForCompiler(fset, "source", nil)}

	pkg, err := conf.Check(path, fset, []*ast.File{file}, nil)
	if err != nil {
		t.Fatalf("type-check: %v", err)
	}

	return pkg
}

// fakeLoader hands out pre-checked packages.
type fakeLoader struct {
	pkgs     map[string]*types.Package
	requests []string
}

func (l *fakeLoader) Load(pattern string) (*types.Package, error) {
	l.requests = append(l.requests, pattern)

	pkg, ok := l.pkgs[pattern]
	if !ok {
		return nil, errNoPackagesFound
	}

	return pkg, nil
}

// memFS is an in-memory FileSystem.
type memFS struct {
	mu       sync.Mutex
	files    map[string][]byte
	writeErr error
}

func newMemFS() *memFS {
	return &memFS{files: map[string][]byte{}}
}

func (fs *memFS) ReadFile(name string) ([]byte, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	data, ok := fs.files[name]
	if !ok {
		return nil, os.ErrNotExist
	}

	return data, nil
}

func (fs *memFS) WriteFile(name string, data []byte, _ os.FileMode) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if fs.writeErr != nil {
		return fs.writeErr
	}

	fs.files[name] = data

	return nil
}

// unexported variables.
var (
	errDiskFull = errors.New("disk full")
)
