// Package jsonfile reads and writes single values as files. The format is
// picked from the extension: .json (default), .jsonc and .yaml/.yml. JSONC
// and YAML are converted to JSON first, so JSON marshalers and variant codecs
// apply unchanged.
package jsonfile

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joeydtaylor/steeze-codec/pkg/codec"
	"github.com/tidwall/jsonc"
	"sigs.k8s.io/yaml"
)

var (
	// ErrNotFound is returned when the file does not exist.
	ErrNotFound = errors.New("jsonfile: file not found")
	// ErrUnreadable is returned when the path exists but cannot be read or
	// written as a regular file.
	ErrUnreadable = errors.New("jsonfile: file unreadable")
)

// MalformedError reports a file that was read but did not decode.
type MalformedError struct {
	Path string
	Err  error
}

func (e *MalformedError) Error() string { return fmt.Sprintf("jsonfile: %s: %v", e.Path, e.Err) }
func (e *MalformedError) Unwrap() error { return e.Err }

type format int

const (
	formatJSON format = iota
	formatJSONC
	formatYAML
)

func formatOf(path string) format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonc":
		return formatJSONC
	case ".yaml", ".yml":
		return formatYAML
	default:
		return formatJSON
	}
}

type options struct {
	codec codec.Codec
}

// Option configures a Read or Write call.
type Option func(*options)

// WithCodec overrides the JSON engine. Reads default to codec.JSONLenient and
// writes to codec.JSONPretty.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c != nil {
			o.codec = c
		}
	}
}

func apply(def codec.Codec, opts []Option) options {
	o := options{codec: def}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Read decodes the file at path into a new T.
func Read[T any](path string, opts ...Option) (T, error) {
	var v T
	if err := ReadInto(path, &v, opts...); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// ReadInto decodes the file at path into v, which must be a pointer.
func ReadInto(path string, v any, opts ...Option) error {
	o := apply(codec.JSONLenient, opts)

	data, err := readFile(path)
	if err != nil {
		return err
	}

	switch formatOf(path) {
	case formatJSONC:
		data = jsonc.ToJSON(data)
	case formatYAML:
		data, err = yaml.YAMLToJSON(data)
		if err != nil {
			return &MalformedError{Path: path, Err: err}
		}
	}

	if err := o.codec.Unmarshal(data, v); err != nil {
		return &MalformedError{Path: path, Err: err}
	}
	return nil
}

func readFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadable, path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s is not a regular file", ErrUnreadable, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadable, path, err)
	}
	return data, nil
}

// Write encodes v and replaces the file at path. Parent directories are
// created as needed and the content always ends with a newline. The file is
// written to a temporary sibling and renamed into place.
func Write(path string, v any, opts ...Option) error {
	o := apply(codec.JSONPretty, opts)

	data, err := o.codec.Marshal(v)
	if err != nil {
		return fmt.Errorf("jsonfile: encode %s: %w", path, err)
	}
	if formatOf(path) == formatYAML {
		data, err = yaml.JSONToYAML(data)
		if err != nil {
			return fmt.Errorf("jsonfile: encode %s: %w", path, err)
		}
	}
	if !bytes.HasSuffix(data, []byte("\n")) {
		data = append(data, '\n')
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUnreadable, dir, err)
	}
	if info, err := os.Stat(path); err == nil && !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s is not a regular file", ErrUnreadable, path)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUnreadable, path, err)
	}
	name := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(name)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: %s: %v", ErrUnreadable, path, err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: %s: %v", ErrUnreadable, path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUnreadable, path, err)
	}
	if err = os.Chmod(name, 0o644); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUnreadable, path, err)
	}
	if err = os.Rename(name, path); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUnreadable, path, err)
	}
	return nil
}
