package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/SpritzLanguage/Spritz-sub000/pkg/interpreter"
)

// FileImporter resolves imports against source directories and installed
// dependency packages.
//
// `import a.b` loads a/b.spz below the first root containing it, unless a
// names a package, in which case b.spz is loaded from the package
// directory.  `import pkg` loads the main file of a package.  A quoted
// import is a file path relative to the roots.
type FileImporter struct {
	Roots    []string
	Packages map[string]string
}

// Import implements interpreter.Importer.
func (f *FileImporter) Import(segments []string) (*interpreter.Source, error) {
	display := strings.Join(segments, ".")
	for _, candidate := range f.candidates(segments) {
		info, err := os.Stat(candidate)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, err
		}
		if info.IsDir() {
			continue
		}
		data, err := os.ReadFile(candidate)
		if err != nil {
			return nil, fmt.Errorf("import %s: %w", display, err)
		}
		abs, err := filepath.Abs(candidate)
		if err != nil {
			return nil, fmt.Errorf("import %s: %w", display, err)
		}
		return &interpreter.Source{Key: abs, Name: abs, Text: string(data)}, nil
	}
	return nil, fmt.Errorf("import %s: %w", display, interpreter.ErrImportNotFound)
}

func (f *FileImporter) candidates(segments []string) []string {
	if len(segments) == 1 && isFilePath(segments[0]) {
		p := filepath.FromSlash(segments[0])
		if filepath.Ext(p) == "" {
			p += SourceExt
		}
		if filepath.IsAbs(p) {
			return []string{p}
		}
		return f.underRoots(p)
	}

	if dir, ok := f.Packages[segments[0]]; ok {
		if len(segments) == 1 {
			return []string{packageEntry(dir)}
		}
		return []string{filepath.Join(dir, filepath.Join(segments[1:]...)+SourceExt)}
	}
	return f.underRoots(filepath.Join(segments...) + SourceExt)
}

func (f *FileImporter) underRoots(rel string) []string {
	out := make([]string, 0, len(f.Roots))
	for _, root := range f.Roots {
		out = append(out, filepath.Join(root, rel))
	}
	return out
}

func isFilePath(s string) bool {
	return strings.ContainsAny(s, `/\`) || filepath.Ext(s) != ""
}

// packageEntry returns the main file of a package directory: the main named
// by its manifest, or main.spz.
func packageEntry(dir string) string {
	if m, err := nestedManifest(dir); err == nil && m != nil && m.Main != "" {
		if entry, err := m.EntryPath(); err == nil {
			return entry
		}
	}
	return filepath.Join(dir, "main"+SourceExt)
}
