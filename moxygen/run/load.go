package run

import (
	"errors"
	"fmt"
	"go/types"

	"golang.org/x/tools/go/packages"
)

// PackageLoader resolves a package pattern to its type-checked package.
type PackageLoader interface {
	Load(pattern string) (*types.Package, error)
}

// PackagesLoader loads packages with golang.org/x/tools/go/packages.
type PackagesLoader struct {
	// Dir is the directory patterns are resolved from; empty means the
	// working directory.
	Dir string
}

// NewPackagesLoader returns a loader resolving patterns from the working directory.
func NewPackagesLoader() *PackagesLoader {
	return &PackagesLoader{}
}

// Load type-checks the package matched by pattern. Exactly one package must match.
func (l *PackagesLoader) Load(pattern string) (*types.Package, error) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedTypes | packages.NeedTypesInfo | packages.NeedSyntax,
		Dir:  l.Dir,
	}

	pkgs, err := packages.Load(cfg, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to load package %q: %w", pattern, err)
	}

	if len(pkgs) != 1 {
		return nil, fmt.Errorf("%w: pattern %q matched %d packages", errNoPackagesFound, pattern, len(pkgs))
	}

	pkg := pkgs[0]
	if len(pkg.Errors) > 0 {
		errs := make([]error, len(pkg.Errors))
		for i, e := range pkg.Errors {
			errs[i] = e
		}

		return nil, fmt.Errorf("failed to load package %q: %w", pattern, errors.Join(errs...))
	}

	return pkg.Types, nil
}

// unexported variables.
var (
	errNoPackagesFound = errors.New("no packages found")
)
