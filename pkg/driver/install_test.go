package driver

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

func initGitRepo(t *testing.T, dir string) string {
	t.Helper()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}
	if err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path == filepath.Join(dir, ".git") {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		_, err = worktree.Add(filepath.ToSlash(rel))
		return err
	}); err != nil {
		t.Fatalf("stage files: %v", err)
	}
	hash, err := worktree.Commit("init", &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Spritz CLI",
			Email: "spritz@example.com",
			When:  time.Now(),
		},
	})
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	return hash.String()
}

func loadTestManifest(t *testing.T, dir, contents string) *Manifest {
	t.Helper()
	path := filepath.Join(dir, "spritz.yml")
	writeFile(t, path, contents)
	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	return m
}

func TestInstallPathDependencies(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "strings", "main.spz"), "task shout(s) = s + \"!\"\n")
	writeFile(t, filepath.Join(root, "strings", "spritz.yml"), "name: strings\ndependencies:\n  chars:\n    path: ../chars\n")
	writeFile(t, filepath.Join(root, "chars", "main.spz"), "const a = \"a\"\n")

	app := filepath.Join(root, "app")
	manifest := loadTestManifest(t, app, "name: app\ndependencies:\n  strings:\n    path: ../strings\n")

	lock := NewLockfile(manifest.Name, "test")
	installer := NewInstaller(&Cache{Root: filepath.Join(root, "cache")})
	changed, logs, err := installer.Install(manifest, lock)
	if err != nil {
		t.Fatalf("Install: %v", err)
	}
	if !changed || len(lock.Packages) != 2 {
		t.Fatalf("unexpected install result changed=%v packages=%#v", changed, lock.Packages)
	}
	pkg, ok := lock.Find("strings")
	if !ok || pkg.Source != "path:"+filepath.Join(root, "strings") || strings.Join(pkg.Requires, ",") != "chars" {
		t.Fatalf("unexpected strings package %#v", pkg)
	}
	if pkg.Checksum == "" {
		t.Fatalf("expected checksum for %s", pkg.Name)
	}
	if len(logs) != 2 || !strings.HasPrefix(logs[0], "Fetched strings") {
		t.Fatalf("unexpected logs %v", logs)
	}

	changed, _, err = installer.Install(manifest, lock)
	if err != nil || changed {
		t.Fatalf("second install should be a no-op: changed=%v err=%v", changed, err)
	}
}

func TestInstallGitDependency(t *testing.T) {
	root := t.TempDir()
	repo := filepath.Join(root, "repo")
	writeFile(t, filepath.Join(repo, "main.spz"), "task value() = \"git\"\n")
	writeFile(t, filepath.Join(repo, "extra.spz"), "const n = 1\n")
	rev := initGitRepo(t, repo)

	for _, pin := range []string{"rev: " + rev, "branch: master"} {
		app := filepath.Join(root, "app")
		manifest := loadTestManifest(t, app, "name: app\ndependencies:\n  gitpkg:\n    git: "+repo+"\n    "+pin+"\n")

		cache := &Cache{Root: filepath.Join(root, "cache")}
		lock := NewLockfile(manifest.Name, "test")
		changed, _, err := NewInstaller(cache).Install(manifest, lock)
		if err != nil {
			t.Fatalf("%s: Install: %v", pin, err)
		}
		if !changed || len(lock.Packages) != 1 {
			t.Fatalf("%s: unexpected lock %#v", pin, lock.Packages)
		}
		pkg := lock.Packages[0]
		if pkg.Source != "git+"+repo+"@"+rev {
			t.Fatalf("%s: pkg.Source = %q", pin, pkg.Source)
		}
		if strings.HasPrefix(pin, "branch") && pkg.Version != "master@"+rev {
			t.Fatalf("%s: pkg.Version = %q", pin, pkg.Version)
		}

		dir, err := cache.PackageDir(pkg)
		if err != nil {
			t.Fatalf("PackageDir: %v", err)
		}
		if _, err := os.Stat(filepath.Join(dir, "extra.spz")); err != nil {
			t.Fatalf("%s: checkout missing files: %v", pin, err)
		}

		_, logs, err := NewInstaller(cache).Install(manifest, lock)
		if err != nil || len(logs) != 1 || !strings.HasPrefix(logs[0], "Using gitpkg") {
			t.Fatalf("%s: expected cached checkout reuse, logs=%v err=%v", pin, logs, err)
		}
	}
}

func TestInstallPrunesRemovedDependencies(t *testing.T) {
	root := t.TempDir()
	manifest := loadTestManifest(t, filepath.Join(root, "app"), "name: app\n")
	lock := NewLockfile("app", "test")
	lock.Put(&LockedPackage{Name: "old", Version: "path", Source: "path:/nowhere"})

	changed, logs, err := NewInstaller(&Cache{Root: root}).Install(manifest, lock)
	if err != nil || !changed || len(lock.Packages) != 0 || logs[0] != "Removed old" {
		t.Fatalf("unexpected prune result changed=%v logs=%v err=%v", changed, logs, err)
	}
}

func TestLockfileWriteAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, LockfileName)
	lock := NewLockfile("my-app", "spritz test")
	lock.Put(&LockedPackage{Name: "zeta", Version: "path", Source: "path:/z", Requires: []string{"b", "a"}})
	lock.Put(&LockedPackage{Name: "alpha", Version: "v1@abc", Source: "git+https://x@abc", Checksum: "ff"})
	if err := WriteLockfile(lock, path); err != nil {
		t.Fatalf("WriteLockfile: %v", err)
	}

	loaded, err := LoadLockfile(path)
	if err != nil {
		t.Fatalf("LoadLockfile: %v", err)
	}
	if loaded.Root != "my_app" || loaded.Tool != "spritz test" || len(loaded.Packages) != 2 {
		t.Fatalf("unexpected lockfile %#v", loaded)
	}
	if loaded.Packages[0].Name != "alpha" || strings.Join(loaded.Packages[1].Requires, ",") != "a,b" {
		t.Fatalf("packages not normalized: %#v", loaded.Packages)
	}
	if lock.Put(&LockedPackage{Name: "alpha", Version: "v1@abc", Source: "git+https://x@abc", Checksum: "ff"}) {
		t.Fatalf("identical package should not change the lockfile")
	}
}

func TestGitPins(t *testing.T) {
	cases := []struct {
		spec     DependencySpec
		revision string
		version  string
	}{
		{DependencySpec{Rev: "abc123"}, "abc123", "abc123"},
		{DependencySpec{Tag: "v1.2"}, "refs/tags/v1.2", "v1.2@abc123"},
		{DependencySpec{Branch: "main"}, "refs/heads/main", "main@abc123"},
	}
	for _, c := range cases {
		pin, err := pinFor(&c.spec)
		if err != nil {
			t.Fatalf("pinFor(%+v): %v", c.spec, err)
		}
		if string(pin.revision) != c.revision || pin.version("abc123") != c.version {
			t.Fatalf("pinFor(%+v) = %q / %q", c.spec, pin.revision, pin.version("abc123"))
		}
	}
	if _, err := pinFor(&DependencySpec{Git: "x"}); err == nil {
		t.Fatalf("expected an error for a spec without a pin")
	}

	if got := versionSegment("feature/x y@1"); got != "feature_x_y_1" {
		t.Fatalf("versionSegment = %q", got)
	}
	if got := versionSegment("  "); got != "head" {
		t.Fatalf("versionSegment = %q", got)
	}
}
