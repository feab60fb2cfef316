package run

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Manifest lists the substitutes to generate for one package, as read from
// moxygen.yaml:
//
//	package: ./internal/store
//	out: ./internal/store
//	mocks:
//	  - type: Store
//	  - type: Clock
//	    name: FakeClock
type Manifest struct {
	Package string          `yaml:"package"`
	Out     string          `yaml:"out"`
	Mocks   []ManifestEntry `yaml:"mocks"`
}

// ManifestEntry names one type to mock and, optionally, its substitute.
type ManifestEntry struct {
	Type string `yaml:"type"`
	Name string `yaml:"name"`
}

// LoadManifest decodes a manifest from r. Unknown keys are rejected.
func LoadManifest(r io.Reader) (*Manifest, error) {
	var manifest Manifest

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	err := dec.Decode(&manifest)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}

	for i, entry := range manifest.Mocks {
		if entry.Type == "" {
			return nil, fmt.Errorf("%w: mocks[%d] has no type", errInvalidManifest, i)
		}
	}

	return &manifest, nil
}

// unexported variables.
var (
	errInvalidManifest = errors.New("invalid manifest")
)
