package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/SpritzLanguage/Spritz-sub000/pkg/driver"
	"github.com/SpritzLanguage/Spritz-sub000/pkg/interpreter"
	"github.com/SpritzLanguage/Spritz-sub000/pkg/lexer"
	"github.com/SpritzLanguage/Spritz-sub000/pkg/report"
	"github.com/SpritzLanguage/Spritz-sub000/pkg/stdlib"
)

// session is an interpreter configured for one invocation.
type session struct {
	interp  *interpreter.Interpreter
	project *driver.Project
}

// openSession builds an interpreter for code found under dir.  When a
// manifest governs dir its options and packages apply; otherwise imports
// resolve relative to dir alone.
func openSession(dir string, out io.Writer) (*session, error) {
	project, err := driver.OpenProject(dir)
	if err != nil && !errors.Is(err, driver.ErrManifestNotFound) {
		return nil, err
	}

	opts := interpreter.Options{}
	var importer interpreter.Importer = &driver.FileImporter{Roots: []string{dir}}
	if project != nil {
		opts.MaxDepth = project.Manifest.MaxDepth
		fi, err := project.Importer()
		if err != nil {
			return nil, err
		}
		importer = fi
		if project.Manifest.LogLevel != "" {
			if level, ok := report.ParseLogLevel(project.Manifest.LogLevel); ok {
				report.InitReporter(level)
			}
		}
	}

	interp := interpreter.NewWithOptions(opts)
	interp.Importer = importer
	if err := stdlib.Install(interp, out); err != nil {
		return nil, err
	}
	return &session{interp: interp, project: project}, nil
}

// runTarget runs a source file, or the entry point of the project found from
// a directory (the working directory when target is empty).
func runTarget(target string, out io.Writer) int {
	if target == "" {
		target = "."
	}
	abs, err := filepath.Abs(target)
	if err != nil {
		report.ReportStdError("Path Error", err)
		return 1
	}
	info, err := os.Stat(abs)
	if err != nil {
		report.ReportStdError("Path Error", err)
		return 1
	}

	dir, entry := abs, ""
	if !info.IsDir() {
		dir, entry = filepath.Dir(abs), abs
	}

	s, err := openSession(dir, out)
	if err != nil {
		reportFailure("Project Error", err)
		return 1
	}
	if entry == "" {
		if s.project == nil {
			report.ReportStdError("Project Error", fmt.Errorf("no source file given and no manifest found from %s", dir))
			return 1
		}
		if entry, err = s.project.Manifest.EntryPath(); err != nil {
			report.ReportStdError("Project Error", err)
			return 1
		}
	}
	return s.runFile(entry)
}

func (s *session) runFile(path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		report.ReportStdError("Read Error", err)
		return 1
	}
	_, warnings, err := s.interp.Run(path, string(data))
	for _, w := range warnings {
		report.ReportWarning(w)
	}
	for _, w := range s.interp.Warnings() {
		report.ReportWarning(w)
	}
	if err != nil {
		reportFailure("Runtime Error", err)
		return 1
	}
	return 0
}

// dumpTokens prints one token per line with its one-based position.
func dumpTokens(path string, out io.Writer) int {
	data, err := os.ReadFile(path)
	if err != nil {
		report.ReportStdError("Read Error", err)
		return 1
	}
	toks, lerr := lexer.Lex(path, string(data))
	if lerr != nil {
		report.ReportError(lerr)
		return 1
	}
	for _, tok := range toks {
		fmt.Fprintln(out, formatToken(tok))
	}
	return 0
}

func formatToken(tok lexer.Token) string {
	var b strings.Builder
	if tok.Start != nil {
		fmt.Fprintf(&b, "%d:%d\t", tok.Start.Line+1, tok.Start.Column+1)
	}
	b.WriteString(tok.Kind.String())
	if tok.Value != "" && tok.Value != tok.Kind.String() {
		fmt.Fprintf(&b, "\t%q", tok.Value)
	}
	return b.String()
}
