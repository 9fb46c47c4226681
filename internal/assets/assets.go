// Package assets loads named shader snippets for #snippet directives and
// snippet-backed patch descriptors.
package assets

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	perrors "github.com/shaderpatch/shaderpatch/internal/errors"
)

// Store loads the text of a named asset
type Store interface {
	Load(name string) (string, error)
}

// DirStore loads assets from a file system. Names without an extension get
// Extension appended.
type DirStore struct {
	FS        fs.FS
	Extension string
}

// NewDirStore creates a store reading from dir on disk
func NewDirStore(dir, extension string) *DirStore {
	return &DirStore{FS: os.DirFS(dir), Extension: extension}
}

// Load implements Store. Failures are returned as AST001 errors wrapping the
// underlying file system error.
func (s *DirStore) Load(name string) (string, error) {
	file := s.resolve(name)
	if !fs.ValidPath(file) {
		return "", perrors.NewAssetMissing(name, fmt.Errorf("invalid asset path %q", file))
	}

	data, err := fs.ReadFile(s.FS, file)
	if err != nil {
		return "", perrors.NewAssetMissing(name, err)
	}
	return string(data), nil
}

func (s *DirStore) resolve(name string) string {
	name = strings.TrimSpace(strings.ReplaceAll(name, "\\", "/"))
	if path.Ext(name) == "" && s.Extension != "" {
		ext := s.Extension
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		name += ext
	}
	return name
}

// MapStore is an in-memory Store keyed by asset name
type MapStore map[string]string

// Load implements Store
func (m MapStore) Load(name string) (string, error) {
	text, ok := m[name]
	if !ok {
		return "", perrors.NewAssetMissing(name, fs.ErrNotExist)
	}
	return text, nil
}

// Names returns the asset names in sorted order
func (m MapStore) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
