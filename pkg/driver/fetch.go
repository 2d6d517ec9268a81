package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// HomeEnv overrides the dependency cache root.
const HomeEnv = "SPRITZ_HOME"

// ResolveHome returns the cache root: $SPRITZ_HOME, or ~/.spritz.
func ResolveHome() (string, error) {
	if home := strings.TrimSpace(os.Getenv(HomeEnv)); home != "" {
		abs, err := filepath.Abs(home)
		if err != nil {
			return "", fmt.Errorf("resolve %s %q: %w", HomeEnv, home, err)
		}
		return abs, nil
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve user home: %w", err)
	}
	return filepath.Join(userHome, ".spritz"), nil
}

// Cache is the on-disk dependency cache.
type Cache struct {
	Root string
}

func (c *Cache) checkoutBase(name string) string {
	return filepath.Join(c.Root, "pkg", "src", sanitizeSegment(name))
}

// checkoutDir is where one pinned version of a git package is checked out.
func (c *Cache) checkoutDir(name, version string) string {
	return filepath.Join(c.checkoutBase(name), versionSegment(version))
}

// PackageDir returns the directory holding the sources of a locked package.
func (c *Cache) PackageDir(pkg *LockedPackage) (string, error) {
	switch {
	case strings.HasPrefix(pkg.Source, pathSourcePrefix):
		return strings.TrimPrefix(pkg.Source, pathSourcePrefix), nil
	case strings.HasPrefix(pkg.Source, gitSourcePrefix):
		return c.checkoutDir(pkg.Name, pkg.Version), nil
	}
	return "", fmt.Errorf("lockfile: package %s has unsupported source %q", pkg.Name, pkg.Source)
}

const (
	gitSourcePrefix  = "git+"
	pathSourcePrefix = "path:"
)

// Fetcher materialises a dependency and returns its locked entry and source
// directory.  baseDir is the directory of the declaring manifest.
type Fetcher interface {
	Fetch(name string, spec *DependencySpec, baseDir string) (*LockedPackage, string, error)
}

// PathFetcher resolves dependencies that live in a local directory.
type PathFetcher struct{}

func (PathFetcher) Fetch(name string, spec *DependencySpec, baseDir string) (*LockedPackage, string, error) {
	dir := spec.Path
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(baseDir, filepath.FromSlash(dir))
	}
	dir = filepath.Clean(dir)
	info, err := os.Stat(dir)
	if err != nil {
		return nil, "", fmt.Errorf("dependency %q: %w", name, err)
	}
	if !info.IsDir() {
		return nil, "", fmt.Errorf("dependency %q: %s is not a directory", name, dir)
	}
	checksum, err := dirChecksum(dir)
	if err != nil {
		return nil, "", fmt.Errorf("dependency %q: checksum %s: %w", name, dir, err)
	}
	return &LockedPackage{
		Name:     sanitizeSegment(name),
		Version:  "path",
		Source:   pathSourcePrefix + dir,
		Checksum: checksum,
	}, dir, nil
}

// GitFetcher clones git dependencies into the cache, one directory per
// pinned version.
type GitFetcher struct {
	Cache *Cache
}

func (g *GitFetcher) Fetch(name string, spec *DependencySpec, baseDir string) (*LockedPackage, string, error) {
	if g == nil || g.Cache == nil {
		return nil, "", errors.New("git fetcher unavailable")
	}
	url := strings.TrimSpace(spec.Git)
	if url == "" {
		return nil, "", fmt.Errorf("dependency %q: git URL required", name)
	}
	pin, err := pinFor(spec)
	if err != nil {
		return nil, "", fmt.Errorf("dependency %q: %w", name, err)
	}

	version, commit, err := g.Cache.checkout(name, url, pin)
	if err != nil {
		return nil, "", fmt.Errorf("dependency %q: %w", name, err)
	}
	dir := g.Cache.checkoutDir(name, version)
	checksum, err := dirChecksum(dir)
	if err != nil {
		return nil, "", err
	}
	return &LockedPackage{
		Name:     sanitizeSegment(name),
		Version:  version,
		Source:   fmt.Sprintf("%s%s@%s", gitSourcePrefix, url, commit),
		Checksum: checksum,
	}, dir, nil
}

// gitPin is the revision a git dependency asks for.  label is the rev, tag,
// or branch as written in the manifest.
type gitPin struct {
	revision plumbing.Revision
	label    string
	branch   string
	commit   bool
}

func pinFor(spec *DependencySpec) (gitPin, error) {
	if rev := strings.TrimSpace(spec.Rev); rev != "" {
		return gitPin{revision: plumbing.Revision(rev), label: rev, commit: true}, nil
	}
	if tag := strings.TrimSpace(spec.Tag); tag != "" {
		return gitPin{revision: plumbing.Revision(plumbing.NewTagReferenceName(tag)), label: tag}, nil
	}
	if branch := strings.TrimSpace(spec.Branch); branch != "" {
		return gitPin{revision: plumbing.Revision(plumbing.NewBranchReferenceName(branch)), label: branch, branch: branch}, nil
	}
	return gitPin{}, errors.New("git dependencies require rev, tag, or branch")
}

// version names the checkout of commit: the commit itself for a rev pin,
// otherwise label@commit.
func (p gitPin) version(commit string) string {
	if p.commit || p.label == commit {
		return commit
	}
	return p.label + "@" + commit
}

// checkout clones url into a staging directory below the package's cache
// entry, checks out the pinned commit, and moves it into place.  A rev pin
// whose checkout already exists is reused without touching the network.
func (c *Cache) checkout(name, url string, pin gitPin) (version, commit string, err error) {
	base := c.checkoutBase(name)
	if err := os.MkdirAll(base, 0o755); err != nil {
		return "", "", err
	}
	if pin.commit {
		if _, err := os.Stat(c.checkoutDir(name, pin.label)); err == nil {
			return pin.label, pin.label, nil
		}
	}

	staging, err := os.MkdirTemp(base, ".clone-*")
	if err != nil {
		return "", "", err
	}
	defer os.RemoveAll(staging)

	cloneDir := filepath.Join(staging, "repo")
	repo, err := git.PlainClone(cloneDir, false, &git.CloneOptions{
		URL:               url,
		RecurseSubmodules: git.DefaultSubmoduleRecursionDepth,
	})
	if err != nil {
		return "", "", fmt.Errorf("git clone %s: %w", url, err)
	}

	hash, err := resolvePin(repo, pin)
	if err != nil {
		return "", "", err
	}
	commit = hash.String()
	version = pin.version(commit)
	target := c.checkoutDir(name, version)
	if _, err := os.Stat(target); err == nil {
		return version, commit, nil
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return "", "", err
	}
	if err := worktree.Checkout(&git.CheckoutOptions{Hash: *hash, Force: true}); err != nil {
		return "", "", fmt.Errorf("git checkout %s: %w", pin.revision, err)
	}
	if err := os.Rename(cloneDir, target); err != nil {
		return "", "", err
	}
	return version, commit, nil
}

// resolvePin finds the commit of pin.  A branch missing from the local heads
// of a fresh clone is looked up among the remote-tracking refs.
func resolvePin(repo *git.Repository, pin gitPin) (*plumbing.Hash, error) {
	hash, err := repo.ResolveRevision(pin.revision)
	if err != nil && pin.branch != "" {
		hash, err = repo.ResolveRevision(plumbing.Revision(plumbing.NewRemoteReferenceName("origin", pin.branch)))
	}
	if err != nil {
		return nil, fmt.Errorf("resolve revision %s: %w", pin.revision, err)
	}
	return hash, nil
}

// dirChecksum hashes the names and contents of every file below path.
func dirChecksum(path string) (string, error) {
	h := sha256.New()
	err := filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(path, p)
		if err != nil {
			return err
		}
		h.Write([]byte(filepath.ToSlash(rel)))
		h.Write(data)
		return nil
	})
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// versionSegment turns a version into a single directory name.
func versionSegment(version string) string {
	version = strings.TrimSpace(version)
	if version == "" {
		return "head"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z', '0' <= r && r <= '9', r == '.', r == '-', r == '_':
			return r
		}
		return '_'
	}, version)
}
