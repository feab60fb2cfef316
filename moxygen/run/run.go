// Package run implements the main logic for the moxygen tool in a testable way.
package run

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alexflint/go-arg"
)

// FileSystem interface for mocking.
type FileSystem interface {
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm os.FileMode) error
}

// Run executes the moxygen tool logic. It takes command-line arguments, an environment variable getter, a
// FileSystem for file operations, a PackageLoader for type information, and a writer for progress output. For
// every requested type it writes a generated_<Name>.go file holding the type's moxy substitute.
func Run(args []string, getEnv func(string) string, fileSys FileSystem, pkgLoader PackageLoader, out io.Writer) error {
	parsed, err := parseArgs(args)
	if err != nil {
		return err
	}

	job, err := planJob(parsed, fileSys)
	if err != nil {
		return err
	}

	pkg, err := pkgLoader.Load(job.pkg)
	if err != nil {
		return err
	}

	// go generate runs in the directory of the file holding the directive.
	goPackage := strings.TrimSuffix(getEnv("GOPACKAGE"), "_test")
	if job.pkg == "." && goPackage != "" && goPackage != pkg.Name() {
		return fmt.Errorf("%w: loaded package %s, but go generate runs in %s", errBadArguments, pkg.Name(), goPackage)
	}

	for _, entry := range job.mocks {
		model, err := buildModel(pkg, entry.Type, entry.Name)
		if err != nil {
			return err
		}

		code, err := render(model)
		if err != nil {
			return err
		}

		err = writeGenerated(code, model.MockName, job.out, fileSys, out)
		if err != nil {
			return err
		}
	}

	return nil
}

// cliArgs defines the command-line arguments for the generator.
type cliArgs struct {
	Types    []string `arg:"positional"   help:"types to mock (interfaces or structs in the package)"`
	Name     string   `arg:"--name"       help:"name for the generated substitute (single type only; defaults to <Type>Mock)"`
	Package  string   `arg:"--pkg"        help:"package pattern holding the types (defaults to the current package)"`
	Out      string   `arg:"--out"        help:"directory to write generated files to (defaults to .)"`
	Manifest string   `arg:"--manifest"   help:"YAML manifest listing the types to mock"`
}

// job is the resolved work for one run.
type job struct {
	pkg   string
	out   string
	mocks []ManifestEntry
}

// parseArgs parses command-line arguments into cliArgs.
func parseArgs(args []string) (cliArgs, error) {
	var parsed cliArgs

	parser, err := arg.NewParser(arg.Config{Program: "moxygen"}, &parsed)
	if err != nil {
		return cliArgs{}, fmt.Errorf("failed to create argument parser: %w", err)
	}

	var cmdArgs []string
	if len(args) > 1 {
		cmdArgs = args[1:]
	}

	err = parser.Parse(cmdArgs)
	if err != nil {
		return cliArgs{}, fmt.Errorf("failed to parse arguments: %w", err)
	}

	return parsed, nil
}

// planJob merges the command line with the manifest, if any. Command-line
// values win over the manifest's.
func planJob(parsed cliArgs, fileSys FileSystem) (job, error) {
	result := job{pkg: ".", out: "."}

	if parsed.Manifest != "" {
		data, err := fileSys.ReadFile(parsed.Manifest)
		if err != nil {
			return job{}, err
		}

		manifest, err := LoadManifest(bytes.NewReader(data))
		if err != nil {
			return job{}, err
		}

		if manifest.Package != "" {
			result.pkg = manifest.Package
		}

		if manifest.Out != "" {
			result.out = manifest.Out
		}

		result.mocks = append(result.mocks, manifest.Mocks...)
	}

	if parsed.Name != "" && len(parsed.Types) != 1 {
		return job{}, fmt.Errorf("%w: --name needs exactly one type, got %d", errBadArguments, len(parsed.Types))
	}

	for _, typ := range parsed.Types {
		result.mocks = append(result.mocks, ManifestEntry{Type: typ, Name: parsed.Name})
	}

	if len(result.mocks) == 0 {
		return job{}, fmt.Errorf("%w: no types to mock", errBadArguments)
	}

	if parsed.Package != "" {
		result.pkg = parsed.Package
	}

	if parsed.Out != "" {
		result.out = parsed.Out
	}

	return result, nil
}

// unexported variables.
var (
	errBadArguments = errors.New("bad arguments")
)
