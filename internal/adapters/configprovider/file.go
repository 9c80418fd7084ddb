package configprovider

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// File is a provider backed by a YAML, JSON, or TOML file. The parser is
// chosen by extension: .json and .toml select their parsers, anything else
// is read as YAML.
type File struct {
	*source
	path string
}

// NewFile creates an inert file provider. The file is read by Initialize or
// on first use. An empty id is replaced with a generated one.
func NewFile(id, path string) *File {
	return &File{
		source: newSource(id, "file "+path, func(k *koanf.Koanf) error {
			return k.Load(file.Provider(path), parserFor(path))
		}),
		path: path,
	}
}

// Path returns the file path the provider reads.
func (f *File) Path() string {
	return f.path
}

func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return json.Parser()
	case ".toml":
		return toml.Parser()
	default:
		return yaml.Parser()
	}
}

// String implements fmt.Stringer for diagnostics.
func (f *File) String() string {
	return fmt.Sprintf("file provider %q (%s)", f.id, f.path)
}
