package config

import (
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/a8m/envsubst"
	"github.com/pkg/errors"
	goutils "go.viam.com/utils"
)

// Read reads a project from the given file. ${ENV_VAR} style references in the file
// are substituted from the environment before parsing.
func Read(filePath string) (*Project, error) {
	buf, err := envsubst.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return FromReader(filePath, bytes.NewReader(buf))
}

// FromReader parses and validates a project from r. originalPath is used in error
// messages only.
func FromReader(originalPath string, r io.Reader) (*Project, error) {
	p := &Project{}
	if err := json.NewDecoder(r).Decode(p); err != nil {
		return nil, errors.Wrapf(err, "cannot parse project %q", originalPath)
	}
	if err := p.Ensure(); err != nil {
		return nil, err
	}
	return p, nil
}

// Write stores the project at the given file path as indented JSON.
func Write(filePath string, p *Project) error {
	//nolint:gosec
	f, err := os.Create(filePath)
	if err != nil {
		return err
	}
	defer goutils.UncheckedErrorFunc(f.Close)
	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	return encoder.Encode(p)
}
