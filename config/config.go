// Package config loads the generator configuration. Config files are
// TOML and may pull in further files through imports; imported values
// merge into the importing file without overriding it.
package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strconv"

	"dario.cat/mergo"
	"github.com/pelletier/go-toml/v2"
)

type Generate struct {
	// StateType and EventType name the two distinguished top-level
	// types of the wrapper surface.
	StateType string `toml:"state-type"`
	EventType string `toml:"event-type"`
	// Convention selects the identifier convention of the target
	// runtime ("runtime" or "camel").
	Convention string `toml:"convention"`
}

type Output struct {
	Path string `toml:"path"`
	// Profile is "bare" (plain JavaScript) or "typed" (inline type
	// annotations plus type declarations).
	Profile string `toml:"profile"`
}

type Config struct {
	Imports  []string `toml:"imports"`
	Model    string   `toml:"model"`
	Generate Generate `toml:"generate"`
	Outputs  []Output `toml:"output"`
}

type Error struct {
	filePath string
	err      error  // short, single-line error
	str      string // full, multi-line error string, or err string, if none
}

// Error returns a short error message.
func (e *Error) Error() string {
	return e.filePath + ": " + e.err.Error()
}

// String returns the full multi-line error string.
func (e *Error) String() string {
	if e.str != "" {
		return "Error in file " + strconv.Quote(e.filePath) + ":\n" + e.str
	}
	return e.Error()
}

func (e *Error) Unwrap() error {
	return e.err
}

// Load reads the config file at path, recursively loading and merging
// imported files. Relative paths (imports, model, outputs) are
// resolved against the importing file's directory.
func Load(path string) (_ *Config, err error) {
	defer func() {
		if err != nil {
			if tErr := (&toml.DecodeError{}); errors.As(err, &tErr) {
				err = &Error{filePath: path, err: err, str: tErr.String()}
			} else if tErr := (&toml.StrictMissingError{}); errors.As(err, &tErr) {
				err = &Error{filePath: path, err: err, str: tErr.String()}
			} else if _, ok := err.(*Error); !ok {
				err = &Error{filePath: path, err: err}
			}
		}
	}()

	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	c := &Config{}
	err = toml.NewDecoder(bytes.NewReader(file)).
		DisallowUnknownFields().
		Decode(&c)
	if err != nil {
		return nil, err
	}
	c.resolvePaths(filepath.Dir(path))

	// Collect imported files first so their imports don't leak into
	// our file's imports.
	var importedCs []*Config
	for _, imp := range c.Imports {
		newC, err := Load(imp)
		if err != nil {
			return nil, err
		}
		importedCs = append(importedCs, newC)
	}
	for _, newC := range importedCs {
		if err := mergo.Merge(c, newC, mergo.WithAppendSlice); err != nil {
			return nil, err
		}
	}

	return c, nil
}

func (c *Config) resolvePaths(dir string) {
	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}
	for i := range c.Imports {
		c.Imports[i] = resolve(c.Imports[i])
	}
	c.Model = resolve(c.Model)
	for i := range c.Outputs {
		c.Outputs[i].Path = resolve(c.Outputs[i].Path)
	}
}
