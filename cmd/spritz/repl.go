package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/SpritzLanguage/Spritz-sub000/pkg/lexer"
	"github.com/SpritzLanguage/Spritz-sub000/pkg/report"
	"github.com/SpritzLanguage/Spritz-sub000/pkg/runtime"
)

const (
	historyFile = ".spritz_history"
	promptMain  = "spritz> "
	promptCont  = "   ...> "
	replName    = "<stdin>"
)

func runRepl(out io.Writer) int {
	wd, err := os.Getwd()
	if err != nil {
		report.ReportStdError("Path Error", err)
		return 1
	}
	s, err := openSession(wd, out)
	if err != nil {
		reportFailure("Project Error", err)
		return 1
	}

	fmt.Fprintf(out, "%s (type :quit to exit)\n", toolVersion)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	var histPath string
	if home, err := os.UserHomeDir(); err == nil {
		histPath = filepath.Join(home, historyFile)
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(histPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	for {
		code, ok := readByBalance(ln, promptMain, promptCont)
		if !ok {
			fmt.Fprintln(out)
			return 0
		}

		trimmed := strings.TrimSpace(code)
		switch {
		case trimmed == "":
			continue
		case trimmed == ":quit":
			return 0
		case strings.HasPrefix(trimmed, ":"):
			fmt.Fprintln(out, "unknown command. Type :quit to exit.")
			continue
		}

		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
		s.evalLine(code, out)
	}
}

// evalLine runs one entry in the persistent root context and echoes any
// value other than nothing.
func (s *session) evalLine(code string, out io.Writer) {
	seen := len(s.interp.Warnings())
	v, warnings, err := s.interp.Run(replName, code)
	for _, w := range warnings {
		report.ReportWarning(w)
	}
	for _, w := range s.interp.Warnings()[seen:] {
		report.ReportWarning(w)
	}
	if err != nil {
		reportFailure("Runtime Error", err)
		return
	}
	if v != nil && v.Kind() != runtime.KindNothing {
		fmt.Fprintln(out, v.String())
	}
}

// readByBalance reads lines until every bracket opened so far is closed.
// Input that fails to lex is returned as is so the error can be reported.
func readByBalance(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder
	for {
		p := prompt
		if b.Len() > 0 {
			p = cont
		}
		line, err := ln.Prompt(p)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			// ctrl-c discards the pending entry
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		if !needsMore(b.String()) {
			return b.String(), true
		}
	}
}

func needsMore(src string) bool {
	toks, err := lexer.Lex(replName, src)
	if err != nil {
		return false
	}
	depth := 0
	for _, tok := range toks {
		switch tok.Kind {
		case lexer.LParen, lexer.LBrace, lexer.LBracket:
			depth++
		case lexer.RParen, lexer.RBrace, lexer.RBracket:
			depth--
		}
	}
	return depth > 0
}
