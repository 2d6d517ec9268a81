package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ComedicChimera/olive"

	"github.com/SpritzLanguage/Spritz-sub000/pkg/report"
)

const toolVersion = "spritz 0.1.0"

func main() {
	os.Exit(execute(os.Args, os.Stdout))
}

// execute parses the command line and dispatches to a subcommand.  It returns
// the process exit code.
func execute(args []string, out io.Writer) int {
	cli := olive.NewCLI("spritz", "spritz runs and manages Spritz programs", true)
	logLvlArg := cli.AddSelectorArg("loglevel", "ll", "the diagnostic log level", false, report.LogLevels)
	logLvlArg.SetDefaultValue("verbose")

	runCmd := cli.AddSubcommand("run", "run a source file or the project entry point", true)
	runCmd.AddPrimaryArg("path", "the file or project directory to run", false)

	cli.AddSubcommand("repl", "start an interactive session", false)

	tokensCmd := cli.AddSubcommand("tokens", "print the tokens of a source file", true)
	tokensCmd.AddPrimaryArg("path", "the source file to lex", true)

	depsCmd := cli.AddSubcommand("deps", "fetch project dependencies and write the lockfile", true)
	depsCmd.AddPrimaryArg("path", "the project directory", false)

	cli.AddSubcommand("version", "print the Spritz version", false)

	result, err := olive.ParseArgs(cli, args)
	if err != nil {
		report.ReportStdError("CLI Usage Error", err)
		return 2
	}

	level, _ := report.ParseLogLevel(result.Arguments["loglevel"].(string))
	report.InitReporter(level)

	subcmdName, subResult, ok := result.Subcommand()
	if !ok {
		report.ReportStdError("CLI Usage Error", errors.New("expected a subcommand"))
		return 2
	}

	switch subcmdName {
	case "run":
		path, _ := subResult.PrimaryArg()
		return runTarget(path, out)
	case "repl":
		return runRepl(out)
	case "tokens":
		path, _ := subResult.PrimaryArg()
		return dumpTokens(path, out)
	case "deps":
		path, _ := subResult.PrimaryArg()
		return installDeps(path)
	case "version":
		fmt.Fprintln(out, toolVersion)
	}
	return 0
}

// reportFailure prints err through the reporter, using its located rendering
// when it has one.
func reportFailure(context string, err error) {
	var r report.Renderable
	if errors.As(err, &r) {
		report.ReportError(r)
		return
	}
	report.ReportStdError(context, err)
}
