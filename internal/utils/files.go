package utils

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// FindShaderFiles recursively finds the shader files under dir accepted by
// isShader. Paths are returned relative to dir with forward slashes, sorted.
func FindShaderFiles(dir string, isShader func(path string) bool) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// Skip directories, but not their contents
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if !isShader(path) {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))

		return nil
	})

	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// ShaderName converts path into a name relative to dir when path lies inside it.
// Anything else is returned unchanged with forward slashes.
func ShaderName(dir, path string) string {
	if filepath.IsAbs(path) || strings.HasPrefix(filepath.Clean(path), filepath.Clean(dir)+string(filepath.Separator)) {
		absDir, err1 := filepath.Abs(dir)
		absPath, err2 := filepath.Abs(path)
		if err1 == nil && err2 == nil {
			if rel, err := filepath.Rel(absDir, absPath); err == nil && !strings.HasPrefix(rel, "..") {
				return filepath.ToSlash(rel)
			}
		}
	}
	return filepath.ToSlash(path)
}
