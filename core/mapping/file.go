package mapping

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/renameio/v2"
	"gopkg.in/yaml.v3"
)

// FileBackend stores mappings in a local file. Files ending in .yaml or .yml
// are YAML, everything else is JSON.
type FileBackend struct {
	Path string
}

// NewFileBackend creates a file backend for path.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{Path: path}
}

func (b *FileBackend) isYAML() bool {
	switch strings.ToLower(filepath.Ext(b.Path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// Describe implements Backend.
func (b *FileBackend) Describe() string {
	return "file " + b.Path
}

// Load implements Backend. A missing file is an empty store.
func (b *FileBackend) Load(_ context.Context) ([]Entry, error) {
	data, err := os.ReadFile(b.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []Entry{}, nil
		}
		return nil, err
	}

	if b.isYAML() {
		return decodeYAML(data)
	}
	return decodeJSON(data)
}

// Save implements Backend. The file is replaced atomically.
func (b *FileBackend) Save(_ context.Context, entries []Entry) error {
	var (
		data []byte
		err  error
	)
	if b.isYAML() {
		data, err = encodeYAML(entries)
	} else {
		data, err = encodeJSON(entries)
	}
	if err != nil {
		return err
	}

	if dir := filepath.Dir(b.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return renameio.WriteFile(b.Path, data, 0o644)
}

// decodeJSON reads one or more concatenated JSON arrays. Older tooling appended
// a new array to the file on every run instead of rewriting it.
func decodeJSON(data []byte) ([]Entry, error) {
	entries := []Entry{}
	if len(bytes.TrimSpace(data)) == 0 {
		return entries, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	for {
		var batch []Entry
		err := dec.Decode(&batch)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("invalid mapping data: %w", err)
		}
		entries = append(entries, batch...)
	}
	return entries, nil
}

func encodeJSON(entries []Entry) ([]byte, error) {
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.MarshalIndent(entries, "", "    ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func decodeYAML(data []byte) ([]Entry, error) {
	entries := []Entry{}
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("invalid mapping data: %w", err)
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}

func encodeYAML(entries []Entry) ([]byte, error) {
	if entries == nil {
		entries = []Entry{}
	}
	return yaml.Marshal(entries)
}
