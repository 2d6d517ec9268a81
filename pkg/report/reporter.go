package report

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/pterm/pterm"
)

// Enumeration of the different possible log levels.
const (
	LogLevelSilent  = iota // Displays no output.
	LogLevelError          // Displays only errors.
	LogLevelWarn           // Displays warnings and errors.
	LogLevelVerbose        // Displays everything (default).
)

// LogLevels lists the accepted log level names in order of verbosity.
var LogLevels = []string{"silent", "error", "warn", "verbose"}

// ParseLogLevel converts a log level name into its numeric level.
func ParseLogLevel(name string) (int, bool) {
	for i, level := range LogLevels {
		if strings.EqualFold(level, strings.TrimSpace(name)) {
			return i, true
		}
	}
	return LogLevelVerbose, false
}

// Renderable is any diagnostic with a plain text rendering.
type Renderable interface {
	Render() string
}

// Reporter prints diagnostics honouring the selected log level.  It is
// synchronized so host code may report from several goroutines.
type Reporter struct {
	m        *sync.Mutex
	out      io.Writer
	logLevel int
	errCount int
}

// rep is the global reporter instance.
var rep = NewReporter(os.Stderr, LogLevelVerbose)

// NewReporter creates a standalone reporter writing to out.
func NewReporter(out io.Writer, logLevel int) *Reporter {
	return &Reporter{m: &sync.Mutex{}, out: out, logLevel: logLevel}
}

// InitReporter resets the global reporter to the given log level.
func InitReporter(logLevel int) {
	rep = NewReporter(os.Stderr, logLevel)
}

// Global returns the process-wide reporter.
func Global() *Reporter {
	return rep
}

// SetOutput redirects reporter output.
func (r *Reporter) SetOutput(w io.Writer) {
	r.m.Lock()
	defer r.m.Unlock()
	r.out = w
}

// ErrorCount returns the number of errors reported so far.
func (r *Reporter) ErrorCount() int {
	r.m.Lock()
	defer r.m.Unlock()
	return r.errCount
}

// ReportError displays a positioned error.
func (r *Reporter) ReportError(err Renderable) {
	r.m.Lock()
	defer r.m.Unlock()
	r.errCount++
	if r.logLevel < LogLevelError {
		return
	}
	fmt.Fprint(r.out, pterm.NewStyle(pterm.BgRed, pterm.FgWhite).Sprint(" error "), " ")
	fmt.Fprintln(r.out, pterm.FgRed.Sprint(err.Render()))
}

// ReportStdError displays a plain Go error.
func (r *Reporter) ReportStdError(context string, err error) {
	r.m.Lock()
	defer r.m.Unlock()
	r.errCount++
	if r.logLevel < LogLevelError {
		return
	}
	fmt.Fprint(r.out, pterm.NewStyle(pterm.BgRed, pterm.FgWhite).Sprint(" error "), " ")
	fmt.Fprintln(r.out, pterm.FgRed.Sprintf("%s: %s", context, err))
}

// ReportWarning displays a warning.
func (r *Reporter) ReportWarning(w Renderable) {
	r.m.Lock()
	defer r.m.Unlock()
	if r.logLevel < LogLevelWarn {
		return
	}
	fmt.Fprintln(r.out, pterm.FgYellow.Sprint(w.Render()))
}

// LogInfo displays an informational line at verbose level only.
func (r *Reporter) LogInfo(format string, args ...interface{}) {
	r.m.Lock()
	defer r.m.Unlock()
	if r.logLevel < LogLevelVerbose {
		return
	}
	fmt.Fprintln(r.out, pterm.FgLightGreen.Sprint("::")+" "+fmt.Sprintf(format, args...))
}

// ReportError reports through the global reporter.
func ReportError(err Renderable) { rep.ReportError(err) }

// ReportStdError reports through the global reporter.
func ReportStdError(context string, err error) { rep.ReportStdError(context, err) }

// ReportWarning reports through the global reporter.
func ReportWarning(w Renderable) { rep.ReportWarning(w) }

// LogInfo logs through the global reporter.
func LogInfo(format string, args ...interface{}) { rep.LogInfo(format, args...) }
