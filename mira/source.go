package mira

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Source is module source text together with the path it was read from, if
// any. The path is used as the module record's path and for diagnostics.
type Source struct {
	text string
	path string
}

// SourceFromString wraps in-memory source text. The path hint may be empty.
func SourceFromString(text, path string) *Source {
	return &Source{text: text, path: path}
}

// SourceFromFile reads source text from the filesystem.
func SourceFromFile(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read source %s: %w", path, err)
	}
	return &Source{text: string(data), path: filepath.Clean(path)}, nil
}

// SourceFromFS reads source text from an fs.FS, keeping the slash-separated
// name as the path hint.
func SourceFromFS(fsys fs.FS, name string) (*Source, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read source %s: %w", name, err)
	}
	return &Source{text: string(data), path: name}, nil
}

// SourceFromReader drains r. The path hint may be empty.
func SourceFromReader(r io.Reader, path string) (*Source, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read source %s: %w", path, err)
	}
	return &Source{text: string(data), path: path}, nil
}

// Text returns the source text.
func (s *Source) Text() string {
	return s.text
}

// Path returns the path hint, or "" for in-memory sources without one.
func (s *Source) Path() string {
	return s.path
}
