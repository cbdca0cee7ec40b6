package taghelper

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidCatalog is returned for catalogues that cannot be used.
var ErrInvalidCatalog = errors.New("invalid tag helper catalog")

// catalogFile is the on-disk shape of a descriptor catalogue:
//
//	descriptors:
//	  - name: Acme.Tags.MythTagHelper
//	    assembly: Acme.Tags
//	    rules:
//	      - tag: myth
//	        attributes: [{name: req}]
//	    attributes:
//	      - {name: count, type: int}
type catalogFile struct {
	Descriptors []*Descriptor `yaml:"descriptors"`
}

// LoadCatalog decodes a YAML catalogue and validates every descriptor.
func LoadCatalog(r io.Reader) ([]*Descriptor, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var file catalogFile
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}

	var errs []error
	for _, d := range file.Descriptors {
		if d == nil {
			errs = append(errs, fmt.Errorf("%w: empty descriptor entry", ErrInvalidCatalog))
			continue
		}
		if err := d.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return file.Descriptors, nil
}

// LoadCatalogFile reads and decodes the catalogue at path.
func LoadCatalogFile(path string) ([]*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	descs, err := LoadCatalog(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return descs, nil
}

// MarshalCatalog encodes descriptors in the catalogue format.
func MarshalCatalog(descs []*Descriptor) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(catalogFile{Descriptors: descs}); err != nil {
		return nil, fmt.Errorf("encode catalog: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode catalog: %w", err)
	}
	return buf.Bytes(), nil
}
