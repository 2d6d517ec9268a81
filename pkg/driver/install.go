package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Installer resolves the dependency graph of a manifest into a lockfile.
// Dependencies that declare a manifest of their own contribute their
// dependencies too.
type Installer struct {
	Cache *Cache
	Git   Fetcher
	Path  Fetcher
}

// NewInstaller returns an installer fetching into cache.
func NewInstaller(cache *Cache) *Installer {
	return &Installer{Cache: cache, Git: &GitFetcher{Cache: cache}, Path: PathFetcher{}}
}

type pendingDependency struct {
	name    string
	spec    *DependencySpec
	baseDir string
	from    string
}

// Install fetches every dependency reachable from m and records it in
// lock.  Locked git packages whose checkout is still cached are reused.
// It reports whether the lockfile changed, along with progress lines.
func (in *Installer) Install(m *Manifest, lock *Lockfile) (bool, []string, error) {
	var (
		changed bool
		logs    []string
		queue   []pendingDependency
	)
	for _, name := range m.DependencyNames() {
		queue = append(queue, pendingDependency{name: name, spec: m.Dependencies[name], baseDir: m.Dir(), from: m.Name})
	}

	resolved := make(map[string]*LockedPackage)
	for len(queue) > 0 {
		dep := queue[0]
		queue = queue[1:]

		if prev, ok := resolved[dep.name]; ok {
			if !sameOrigin(prev, dep.spec, dep.baseDir) {
				return false, logs, fmt.Errorf("dependency %q required by %s conflicts with %s", dep.name, dep.from, prev.Source)
			}
			continue
		}

		pkg, dir, reused, err := in.fetch(dep, lock)
		if err != nil {
			return false, logs, err
		}
		if reused {
			logs = append(logs, fmt.Sprintf("Using %s %s", pkg.Name, pkg.Version))
		} else {
			logs = append(logs, fmt.Sprintf("Fetched %s %s", pkg.Name, pkg.Version))
		}

		nested, err := nestedManifest(dir)
		if err != nil {
			return false, logs, fmt.Errorf("dependency %q: %w", dep.name, err)
		}
		if nested != nil {
			pkg.Requires = nested.DependencyNames()
			for _, name := range pkg.Requires {
				queue = append(queue, pendingDependency{name: name, spec: nested.Dependencies[name], baseDir: dir, from: dep.name})
			}
		}

		resolved[dep.name] = pkg
		if lock.Put(pkg) {
			changed = true
		}
	}

	kept := lock.Packages[:0]
	for _, pkg := range lock.Packages {
		if _, ok := resolved[pkg.Name]; ok {
			kept = append(kept, pkg)
		} else {
			logs = append(logs, fmt.Sprintf("Removed %s", pkg.Name))
			changed = true
		}
	}
	lock.Packages = kept
	return changed, logs, nil
}

func (in *Installer) fetch(dep pendingDependency, lock *Lockfile) (*LockedPackage, string, bool, error) {
	if dep.spec.Path != "" {
		pkg, dir, err := in.Path.Fetch(dep.name, dep.spec, dep.baseDir)
		return pkg, dir, false, err
	}

	if locked, ok := lock.Find(dep.name); ok && strings.HasPrefix(locked.Source, gitSourcePrefix+dep.spec.Git+"@") {
		if dir, err := in.Cache.PackageDir(locked); err == nil {
			if info, err := os.Stat(dir); err == nil && info.IsDir() {
				reused := *locked
				reused.Requires = nil
				return &reused, dir, true, nil
			}
		}
	}
	pkg, dir, err := in.Git.Fetch(dep.name, dep.spec, dep.baseDir)
	return pkg, dir, false, err
}

func sameOrigin(pkg *LockedPackage, spec *DependencySpec, baseDir string) bool {
	if spec.Path != "" {
		dir := spec.Path
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(baseDir, filepath.FromSlash(dir))
		}
		return pkg.Source == pathSourcePrefix+filepath.Clean(dir)
	}
	return strings.HasPrefix(pkg.Source, gitSourcePrefix+spec.Git+"@")
}

// nestedManifest loads the manifest at the root of a dependency, if any.
func nestedManifest(dir string) (*Manifest, error) {
	for _, name := range ManifestNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadManifest(path)
		}
	}
	return nil, nil
}
