package driver

import (
	"errors"
	"fmt"
	"os"
)

// Project is a loaded manifest together with its lockfile.
type Project struct {
	Manifest *Manifest
	Lock     *Lockfile
	Cache    *Cache
}

// OpenProject loads the manifest found from start upwards and its lockfile.
// A project declaring dependencies must have been installed first.
func OpenProject(start string) (*Project, error) {
	path, err := FindManifest(start)
	if err != nil {
		return nil, err
	}
	manifest, err := LoadManifest(path)
	if err != nil {
		return nil, err
	}
	home, err := ResolveHome()
	if err != nil {
		return nil, err
	}
	project := &Project{Manifest: manifest, Cache: &Cache{Root: home}}

	lock, err := LoadLockfile(LockfilePath(manifest))
	switch {
	case err == nil:
		if lock.Root != manifest.Name {
			return nil, fmt.Errorf("lockfile root %q does not match manifest name %q", lock.Root, manifest.Name)
		}
		project.Lock = lock
	case errors.Is(err, os.ErrNotExist):
		if len(manifest.Dependencies) > 0 {
			return nil, fmt.Errorf("%s missing for %q; run `spritz deps`", LockfileName, manifest.Name)
		}
	default:
		return nil, fmt.Errorf("failed to read lockfile: %w", err)
	}
	return project, nil
}

// Importer returns an importer over the project's source directories and
// locked packages.
func (p *Project) Importer() (*FileImporter, error) {
	importer := &FileImporter{Roots: p.Manifest.SourceDirs(), Packages: make(map[string]string)}
	if p.Lock == nil {
		return importer, nil
	}
	for _, pkg := range p.Lock.Packages {
		dir, err := p.Cache.PackageDir(pkg)
		if err != nil {
			return nil, err
		}
		importer.Packages[pkg.Name] = dir
	}
	return importer, nil
}
