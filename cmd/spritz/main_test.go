package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/SpritzLanguage/Spritz-sub000/pkg/driver"
	"github.com/SpritzLanguage/Spritz-sub000/pkg/report"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// captureReports redirects the global reporter for the rest of the test.
func captureReports(t *testing.T) *bytes.Buffer {
	t.Helper()
	report.InitReporter(report.LogLevelVerbose)
	var buf bytes.Buffer
	report.Global().SetOutput(&buf)
	t.Cleanup(func() { report.InitReporter(report.LogLevelVerbose) })
	return &buf
}

func TestRunStandaloneFile(t *testing.T) {
	t.Setenv(driver.HomeEnv, t.TempDir())
	captureReports(t)

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "helpers.spz"), "task twice(n) = n * 2\n")
	script := filepath.Join(dir, "script.spz")
	writeFile(t, script, "import helpers\nprint(\"result\", helpers.twice(21))\n")

	var out bytes.Buffer
	if code := runTarget(script, &out); code != 0 {
		t.Fatalf("runTarget exit code = %d", code)
	}
	if out.String() != "result 42\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestRunProjectEntry(t *testing.T) {
	t.Setenv(driver.HomeEnv, t.TempDir())
	captureReports(t)

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "spritz.yml"), "name: app\nmain: src/main.spz\nsources:\n  - src\nmax-depth: 64\n")
	writeFile(t, filepath.Join(dir, "src", "main.spz"), "task down(n) {\n\tif (n == 0) { return 0 }\n\treturn down(n - 1)\n}\nprint(down(10))\n")

	var out bytes.Buffer
	if code := runTarget(dir, &out); code != 0 {
		t.Fatalf("runTarget exit code = %d", code)
	}
	if out.String() != "0\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestRunHonoursManifestDepth(t *testing.T) {
	t.Setenv(driver.HomeEnv, t.TempDir())
	errs := captureReports(t)

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "spritz.yml"), "name: app\nmain: main.spz\nmax-depth: 8\n")
	writeFile(t, filepath.Join(dir, "main.spz"), "task down(n) {\n\tif (n == 0) { return 0 }\n\treturn down(n - 1)\n}\ndown(100)\n")

	var out bytes.Buffer
	if code := runTarget(dir, &out); code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(errs.String(), "maximum call depth exceeded") {
		t.Fatalf("expected a depth error, got %q", errs.String())
	}
}

func TestRunReportsRuntimeErrors(t *testing.T) {
	t.Setenv(driver.HomeEnv, t.TempDir())
	errs := captureReports(t)

	dir := t.TempDir()
	script := filepath.Join(dir, "broken.spz")
	writeFile(t, script, "task divide(a, b) = a / b\ndivide(1, 0)\n")

	var out bytes.Buffer
	if code := runTarget(script, &out); code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	for _, want := range []string{"Traceback (most recent call last):", "in divide", "division by zero"} {
		if !strings.Contains(errs.String(), want) {
			t.Fatalf("expected %q in %q", want, errs.String())
		}
	}
}

func TestRunRequiresEntry(t *testing.T) {
	t.Setenv(driver.HomeEnv, t.TempDir())
	errs := captureReports(t)

	var out bytes.Buffer
	if code := runTarget(t.TempDir(), &out); code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(errs.String(), "no manifest found") {
		t.Fatalf("unexpected report %q", errs.String())
	}
}

func TestDumpTokens(t *testing.T) {
	captureReports(t)
	path := filepath.Join(t.TempDir(), "decl.spz")
	writeFile(t, path, "mut x = 1")

	var out bytes.Buffer
	if code := dumpTokens(path, &out); code != 0 {
		t.Fatalf("dumpTokens exit code = %d", code)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	want := []string{
		"1:1\tKEYWORD\t\"mut\"",
		"1:5\tIDENTIFIER\t\"x\"",
		"1:7\t=",
		"1:9\tINT\t\"1\"",
	}
	if len(lines) != len(want)+1 {
		t.Fatalf("expected %d lines, got %q", len(want)+1, lines)
	}
	for idx, line := range want {
		if lines[idx] != line {
			t.Fatalf("line %d = %q, want %q", idx, lines[idx], line)
		}
	}
	if !strings.HasSuffix(lines[len(lines)-1], "EOF") {
		t.Fatalf("expected a trailing EOF token, got %q", lines[len(lines)-1])
	}
}

func TestDumpTokensReportsLexErrors(t *testing.T) {
	errs := captureReports(t)
	path := filepath.Join(t.TempDir(), "bad.spz")
	writeFile(t, path, "mut x = 1 & 2")

	var out bytes.Buffer
	if code := dumpTokens(path, &out); code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(errs.String(), report.IllegalCharacter) {
		t.Fatalf("unexpected report %q", errs.String())
	}
}

func TestNeedsMore(t *testing.T) {
	cases := []struct {
		src  string
		want bool
	}{
		{"1 + 2", false},
		{"task f() {", true},
		{"task f() {\n\treturn [1,", true},
		{"task f() {\n\treturn [1, 2]\n}", false},
		{"x)", false},
	}
	for _, c := range cases {
		if got := needsMore(c.src); got != c.want {
			t.Fatalf("needsMore(%q) = %v, want %v", c.src, got, c.want)
		}
	}
}

func TestSessionKeepsDefinitions(t *testing.T) {
	t.Setenv(driver.HomeEnv, t.TempDir())
	errs := captureReports(t)

	var out bytes.Buffer
	s, err := openSession(t.TempDir(), &out)
	if err != nil {
		t.Fatalf("openSession: %v", err)
	}
	s.evalLine("mut total = 40", &out)
	s.evalLine("total += 2", &out)
	s.evalLine("total", &out)
	s.evalLine("undefinedName", &out)

	if !strings.HasSuffix(out.String(), "42\n") {
		t.Fatalf("unexpected output %q", out.String())
	}
	if report.Global().ErrorCount() != 1 || !strings.Contains(errs.String(), "undefinedName") {
		t.Fatalf("expected one reported error, got %q", errs.String())
	}
}

func TestInstallDepsThenRun(t *testing.T) {
	t.Setenv(driver.HomeEnv, t.TempDir())
	captureReports(t)

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "greet", "main.spz"), "task hello(name) = \"hello \" + name\n")
	app := filepath.Join(root, "app")
	writeFile(t, filepath.Join(app, "spritz.yml"), "name: app\nmain: main.spz\ndependencies:\n  greet:\n    path: ../greet\n")
	writeFile(t, filepath.Join(app, "main.spz"), "import greet\nprint(greet.hello(\"deps\"))\n")

	var out bytes.Buffer
	if code := runTarget(app, &out); code != 1 {
		t.Fatalf("expected run without a lockfile to fail, got %d", code)
	}

	if code := installDeps(app); code != 0 {
		t.Fatalf("installDeps exit code = %d", code)
	}
	lock, err := driver.LoadLockfile(filepath.Join(app, driver.LockfileName))
	if err != nil {
		t.Fatalf("LoadLockfile: %v", err)
	}
	if _, ok := lock.Find("greet"); !ok || lock.Tool != toolVersion {
		t.Fatalf("unexpected lockfile %+v", lock)
	}

	if code := runTarget(app, &out); code != 0 {
		t.Fatalf("runTarget exit code = %d", code)
	}
	if out.String() != "hello deps\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestExecuteVersion(t *testing.T) {
	captureReports(t)
	var out bytes.Buffer
	if code := execute([]string{"spritz", "version"}, &out); code != 0 {
		t.Fatalf("execute exit code = %d", code)
	}
	if strings.TrimSpace(out.String()) != toolVersion {
		t.Fatalf("unexpected output %q", out.String())
	}
}
