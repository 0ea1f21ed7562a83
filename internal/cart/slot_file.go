package cart

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// FileSlot persists the cart as a JSON file on the browsing device. It is the
// default backend: the closest analog to the storefront's local storage.
type FileSlot struct {
	Path string
}

func NewFileSlot(path string) *FileSlot {
	return &FileSlot{Path: path}
}

func (s *FileSlot) Ping(ctx context.Context) error {
	dir := filepath.Dir(s.Path)
	_, err := os.Stat(dir)
	return err
}

func (s *FileSlot) Load(ctx context.Context) ([]Line, bool, error) {
	b, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var lines []Line
	if err := json.Unmarshal(b, &lines); err != nil {
		return nil, false, err
	}
	return lines, true, nil
}

func (s *FileSlot) Save(ctx context.Context, lines []Line) error {
	b, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	return os.WriteFile(s.Path, b, 0o600)
}

func (s *FileSlot) Clear(ctx context.Context) error {
	err := os.Remove(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
