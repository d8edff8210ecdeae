package files

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

var (
	ErrFileNotFound      = errors.New("file not found")
	ErrFileAlreadyExists = errors.New("file already exists")
	ErrIO                = errors.New("i/o failure")
)

// Metadata describes one file of a daily folder.
type Metadata struct {
	Name     string
	Path     string
	Created  time.Time
	Modified time.Time
	Size     int64
	// CreatedIsBirth is false when the platform could not report a birth
	// time and Created holds the modification time instead.
	CreatedIsBirth bool
}

// Expand replaces a leading ~ with the user's home directory.
func Expand(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// Exists reports whether path exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ReadText returns the content of a text file.
func ReadText(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", wrap(err, path)
	}
	return string(b), nil
}

// EnsureDir creates dir and its parents. Pre-existence is success; created
// reports whether this call made the final directory.
func EnsureDir(dir string) (created bool, err error) {
	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return false, fmt.Errorf("%w: %s is not a directory", ErrIO, dir)
		}
		return false, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return false, wrap(err, dir)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return false, wrap(err, dir)
	}
	return true, nil
}

// WriteNew creates path with content and fails with ErrFileAlreadyExists
// when the file is already present. Nothing is written in that case.
func WriteNew(path, content string) error {
	if _, err := EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return wrap(err, path)
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return wrap(err, path)
	}
	if err := f.Close(); err != nil {
		return wrap(err, path)
	}
	return nil
}

// Write creates or replaces path with content.
func Write(path, content string) error {
	if _, err := EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return wrap(err, path)
	}
	return nil
}

// Stat returns the metadata of a single file.
func Stat(path string) (Metadata, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Metadata{}, wrap(err, path)
	}
	return metadataFor(path, info), nil
}

// List returns the regular, non-hidden files of dir ordered by creation time.
func List(dir string) ([]Metadata, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, wrap(err, dir)
	}
	var out []Metadata
	for _, e := range entries {
		if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, metadataFor(filepath.Join(dir, e.Name()), info))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Created.Equal(out[j].Created) {
			return out[i].Created.Before(out[j].Created)
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func metadataFor(path string, info fs.FileInfo) Metadata {
	md := Metadata{
		Name:     info.Name(),
		Path:     path,
		Modified: info.ModTime(),
		Size:     info.Size(),
	}
	if born, ok := birthTime(path, info); ok {
		md.Created = born
		md.CreatedIsBirth = true
	} else {
		md.Created = info.ModTime()
	}
	return md
}

func wrap(err error, path string) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %s", ErrFileNotFound, path)
	case errors.Is(err, fs.ErrExist):
		return fmt.Errorf("%w: %s", ErrFileAlreadyExists, path)
	default:
		return fmt.Errorf("%w: %s: %v", ErrIO, path, err)
	}
}
