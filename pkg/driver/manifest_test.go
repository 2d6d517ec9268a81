package driver

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadManifestYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "spritz.yml")
	writeFile(t, path, `
name: hello-app
version: "0.1.0"
main: src/main.spz
sources:
  - src
  - lib
log-level: Verbose
max-depth: 512
dependencies:
  strings:
    path: ../strings
  colors:
    git: https://example.com/colors.git
    tag: v1.2.0
`)

	manifest, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest returned error: %v", err)
	}
	if got, want := manifest.Name, "hello_app"; got != want {
		t.Fatalf("Name = %q, want %q", got, want)
	}
	if manifest.LogLevel != "verbose" || manifest.MaxDepth != 512 {
		t.Fatalf("unexpected settings: %+v", manifest)
	}
	entry, err := manifest.EntryPath()
	if err != nil || entry != filepath.Join(dir, "src", "main.spz") {
		t.Fatalf("EntryPath = %q, %v", entry, err)
	}
	if got := manifest.SourceDirs(); len(got) != 2 || got[1] != filepath.Join(dir, "lib") {
		t.Fatalf("SourceDirs = %v", got)
	}
	if got := strings.Join(manifest.DependencyNames(), ","); got != "colors,strings" {
		t.Fatalf("DependencyNames = %q", got)
	}
	if dep := manifest.Dependencies["colors"]; dep.Git == "" || dep.Tag != "v1.2.0" {
		t.Fatalf("colors dependency not parsed: %#v", dep)
	}
}

func TestLoadManifestTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "spritz.toml")
	writeFile(t, path, `
name = "tool"
main = "main.spz"
log-level = "warn"

[dependencies.util]
path = "../util"
`)

	manifest, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest returned error: %v", err)
	}
	if manifest.Name != "tool" || manifest.LogLevel != "warn" {
		t.Fatalf("unexpected manifest %+v", manifest)
	}
	if dep := manifest.Dependencies["util"]; dep == nil || dep.Path != "../util" {
		t.Fatalf("util dependency not parsed: %#v", dep)
	}
	if got := manifest.SourceDirs(); len(got) != 1 || got[0] != dir {
		t.Fatalf("SourceDirs = %v", got)
	}
}

func TestLoadManifestValidation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "spritz.yml")
	writeFile(t, path, `
main: main.txt
log-level: loud
max-depth: -1
dependencies:
  both:
    git: https://example.com/x.git
    path: ../x
  unpinned:
    git: https://example.com/y.git
  pinned_path:
    path: ../z
    branch: main
`)

	_, err := LoadManifest(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	want := []string{
		"name must be provided",
		`main "main.txt" must be a .spz file`,
		`log-level "loud" must be one of silent, error, warn, verbose`,
		"max-depth must not be negative",
		"dependencies.both: cannot specify both git and path",
		"dependencies.pinned_path: path dependencies cannot pin rev, tag, or branch",
		"dependencies.unpinned: git dependencies require exactly one of rev, tag, or branch",
	}
	msg := verr.Error()
	for _, issue := range want {
		if !strings.Contains(msg, issue) {
			t.Fatalf("missing issue %q in:\n%s", issue, msg)
		}
	}
}

func TestLoadManifestRejectsUnknownFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "spritz.yml")
	writeFile(t, path, "name: app\ntargets: {}\n")
	if _, err := LoadManifest(path); err == nil || !strings.Contains(err.Error(), "targets") {
		t.Fatalf("expected unknown field error, got %v", err)
	}

	empty := filepath.Join(dir, "empty", "spritz.yml")
	writeFile(t, empty, "\n")
	if _, err := LoadManifest(empty); err == nil || !strings.Contains(err.Error(), "is empty") {
		t.Fatalf("expected empty manifest error, got %v", err)
	}
}

func TestFindManifest(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "spritz.toml"), "name = \"app\"\n")
	nested := filepath.Join(root, "src", "deep")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	found, err := FindManifest(nested)
	if err != nil || found != filepath.Join(root, "spritz.toml") {
		t.Fatalf("FindManifest = %q, %v", found, err)
	}

	if _, err := FindManifest(t.TempDir()); !errors.Is(err, ErrManifestNotFound) {
		t.Fatalf("expected ErrManifestNotFound, got %v", err)
	}
}
