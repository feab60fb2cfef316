// moxygen generates moxy substitutes for Go interfaces and structs.
// Add a `//go:generate go run github.com/roscopeco/moxy-sub002/moxygen <Type>...` comment next to the types to
// mock. Each type gets a generated_<Type>Mock.go file holding a <Type>Mock struct whose methods forward to a
// moxy proxy. Interface substitutes also register themselves, so moxy.Mock[T] can build them at runtime.
package main

import (
	"fmt"
	"os"

	"github.com/roscopeco/moxy-sub002/moxygen/run"
)

// main is the entry point of the moxygen tool.
func main() {
	if os.Args == nil {
		return
	}

	err := run.Run(os.Args, os.Getenv, &realFileSystem{}, run.NewPackagesLoader(), os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// realFileSystem implements run.FileSystem using os package.
type realFileSystem struct{}

// ReadFile reads the file named by name and returns the contents.
func (fs *realFileSystem) ReadFile(name string) ([]byte, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", name, err)
	}

	return data, nil
}

// WriteFile writes data to the file named by name.
func (fs *realFileSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	err := os.WriteFile(name, data, perm)
	if err != nil {
		return fmt.Errorf("failed to write file %s: %w", name, err)
	}

	return nil
}
