package country

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed countries.yaml
var countriesYAML []byte

type document struct {
	Countries []Entry `yaml:"countries"`
}

// Load decodes a YAML document of the form
//
//	countries:
//	  - iso: US
//	    calling_code: "1"
//	    mask: "(###) ###-####"
//	    name: United States
func Load(r io.Reader) (*Table, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return NewTable(nil)
		}
		return nil, fmt.Errorf("country: decode table: %w", err)
	}
	return NewTable(doc.Countries)
}

func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("country: open table: %w", err)
	}
	defer f.Close()
	return Load(f)
}

var loadDefault = sync.OnceValues(func() (*Table, error) {
	return Load(bytes.NewReader(countriesYAML))
})

// Default returns the embedded table, decoded once per process.
func Default() (*Table, error) {
	return loadDefault()
}

// MustDefault panics when the embedded asset is broken, which only a bad
// build can cause.
func MustDefault() *Table {
	t, err := Default()
	if err != nil {
		panic(err)
	}
	return t
}
