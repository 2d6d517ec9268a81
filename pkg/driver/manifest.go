// Package driver loads Spritz projects: manifests, lockfiles, dependency
// checkouts, and the importer that resolves modules on disk.
package driver

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"

	"github.com/SpritzLanguage/Spritz-sub000/pkg/report"
)

// ManifestNames lists the manifest file names searched for, in order.
var ManifestNames = []string{"spritz.yml", "spritz.yaml", "spritz.toml"}

// SourceExt is the extension of Spritz source files.
const SourceExt = ".spz"

var ErrManifestNotFound = errors.New("spritz manifest not found")

// Manifest represents the parsed contents of spritz.yml or spritz.toml.
type Manifest struct {
	Path         string
	Name         string
	Version      string
	Main         string
	Sources      []string
	LogLevel     string
	MaxDepth     int
	Dependencies map[string]*DependencySpec
}

// DependencySpec describes where a dependency comes from.  Exactly one of
// Git and Path is set; git dependencies pin a Rev, Tag, or Branch.
type DependencySpec struct {
	Git    string `yaml:"git" toml:"git"`
	Rev    string `yaml:"rev" toml:"rev"`
	Tag    string `yaml:"tag" toml:"tag"`
	Branch string `yaml:"branch" toml:"branch"`
	Path   string `yaml:"path" toml:"path"`
}

// ValidationError aggregates manifest validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "manifest: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("manifest validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

type manifestFile struct {
	Name         string                     `yaml:"name" toml:"name"`
	Version      string                     `yaml:"version" toml:"version"`
	Main         string                     `yaml:"main" toml:"main"`
	Sources      []string                   `yaml:"sources" toml:"sources"`
	LogLevel     string                     `yaml:"log-level" toml:"log-level"`
	MaxDepth     int                        `yaml:"max-depth" toml:"max-depth"`
	Dependencies map[string]*DependencySpec `yaml:"dependencies" toml:"dependencies"`
}

// LoadManifest parses a manifest from disk, returning a validated manifest.
// The format is chosen by extension.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return nil, fmt.Errorf("manifest: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", absPath, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("manifest: %s is empty", absPath)
	}

	var raw manifestFile
	switch filepath.Ext(absPath) {
	case ".toml":
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("manifest: parse %s: %w", absPath, err)
		}
	default:
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&raw); err != nil {
			return nil, fmt.Errorf("manifest: parse %s: %w", absPath, err)
		}
	}

	manifest := raw.toManifest(absPath)
	if err := manifest.validate(); err != nil {
		return nil, err
	}
	return manifest, nil
}

// FindManifest walks upwards from start looking for a manifest file.
func FindManifest(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolve start directory %q: %w", start, err)
	}
	if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	origin := dir
	for {
		for _, name := range ManifestNames {
			candidate := filepath.Join(dir, name)
			info, err := os.Stat(candidate)
			if err == nil && !info.IsDir() {
				return candidate, nil
			}
			if err != nil && !errors.Is(err, os.ErrNotExist) {
				return "", err
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no manifest found from %s upwards: %w", origin, ErrManifestNotFound)
		}
		dir = parent
	}
}

// Dir returns the directory holding the manifest.
func (m *Manifest) Dir() string {
	return filepath.Dir(m.Path)
}

// EntryPath resolves the main source file of the project.
func (m *Manifest) EntryPath() (string, error) {
	if m.Main == "" {
		return "", fmt.Errorf("manifest %s does not name a main file", m.Path)
	}
	return m.resolve(m.Main), nil
}

// SourceDirs returns the absolute import search directories.  The manifest
// directory is searched when no sources are listed.
func (m *Manifest) SourceDirs() []string {
	if len(m.Sources) == 0 {
		return []string{m.Dir()}
	}
	dirs := make([]string, 0, len(m.Sources))
	for _, src := range m.Sources {
		dirs = append(dirs, m.resolve(src))
	}
	return dirs
}

func (m *Manifest) resolve(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(m.Dir(), filepath.FromSlash(p))
}

// DependencyNames returns the declared dependency names in sorted order.
func (m *Manifest) DependencyNames() []string {
	names := make([]string, 0, len(m.Dependencies))
	for name := range m.Dependencies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func (m *Manifest) validate() error {
	var errs ValidationError
	if m.Name == "" {
		errs.Issues = append(errs.Issues, "name must be provided")
	} else if !identifierPattern.MatchString(m.Name) {
		errs.Issues = append(errs.Issues, fmt.Sprintf("name %q must be a valid identifier", m.Name))
	}
	if m.Main != "" && filepath.Ext(m.Main) != SourceExt {
		errs.Issues = append(errs.Issues, fmt.Sprintf("main %q must be a %s file", m.Main, SourceExt))
	}
	for i, src := range m.Sources {
		if src == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("sources[%d] must be a non-empty path", i))
		}
	}
	if m.LogLevel != "" {
		if _, ok := report.ParseLogLevel(m.LogLevel); !ok {
			errs.Issues = append(errs.Issues, fmt.Sprintf("log-level %q must be one of %s", m.LogLevel, strings.Join(report.LogLevels, ", ")))
		}
	}
	if m.MaxDepth < 0 {
		errs.Issues = append(errs.Issues, "max-depth must not be negative")
	}

	for _, name := range m.DependencyNames() {
		dep := m.Dependencies[name]
		if !identifierPattern.MatchString(name) {
			errs.Issues = append(errs.Issues, fmt.Sprintf("dependencies.%s: name must be a valid identifier", name))
		}
		for _, issue := range dep.validate() {
			errs.Issues = append(errs.Issues, fmt.Sprintf("dependencies.%s: %s", name, issue))
		}
	}

	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

func (d *DependencySpec) validate() []string {
	var errs []string
	switch {
	case d.Git == "" && d.Path == "":
		errs = append(errs, "must specify git or path")
	case d.Git != "" && d.Path != "":
		errs = append(errs, "cannot specify both git and path")
	}

	pins := 0
	for _, pin := range []string{d.Rev, d.Tag, d.Branch} {
		if pin != "" {
			pins++
		}
	}
	if d.Path != "" && pins > 0 {
		errs = append(errs, "path dependencies cannot pin rev, tag, or branch")
	}
	if d.Git != "" && pins != 1 {
		errs = append(errs, "git dependencies require exactly one of rev, tag, or branch")
	}
	return errs
}

func (mf manifestFile) toManifest(path string) *Manifest {
	result := &Manifest{
		Path:         path,
		Name:         sanitizeSegment(mf.Name),
		Version:      strings.TrimSpace(mf.Version),
		Main:         strings.TrimSpace(mf.Main),
		LogLevel:     strings.ToLower(strings.TrimSpace(mf.LogLevel)),
		MaxDepth:     mf.MaxDepth,
		Dependencies: make(map[string]*DependencySpec, len(mf.Dependencies)),
	}
	for _, src := range mf.Sources {
		result.Sources = append(result.Sources, strings.TrimSpace(src))
	}
	for name, dep := range mf.Dependencies {
		if dep == nil {
			dep = &DependencySpec{}
		}
		result.Dependencies[sanitizeSegment(name)] = &DependencySpec{
			Git:    strings.TrimSpace(dep.Git),
			Rev:    strings.TrimSpace(dep.Rev),
			Tag:    strings.TrimSpace(dep.Tag),
			Branch: strings.TrimSpace(dep.Branch),
			Path:   strings.TrimSpace(dep.Path),
		}
	}
	return result
}

func sanitizeSegment(seg string) string {
	seg = strings.TrimSpace(seg)
	seg = strings.ReplaceAll(seg, "-", "_")
	return seg
}
