package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/pterm/pterm"

	"powertun/application/logging"
)

// PtermLogger is a leveled console logger. When a file sink is attached every
// line is also written there as JSON.
type PtermLogger struct {
	console *pterm.Logger
	file    *pterm.Logger
}

// NewPtermLogger writes to w (stderr when nil). Debug lines are shown only
// when verbose is set.
func NewPtermLogger(w io.Writer, verbose bool) *PtermLogger {
	if w == nil {
		w = os.Stderr
	}
	console := pterm.DefaultLogger
	console.Writer = w
	console.ShowTime = true
	console.TimeFormat = "02 Jan 15:04:05"
	console.MaxWidth = 1000
	console.Level = levelFor(verbose)
	return &PtermLogger{console: &console}
}

// WithFile returns a copy that additionally writes JSON lines to w.
func (l *PtermLogger) WithFile(w io.Writer) *PtermLogger {
	file := pterm.DefaultLogger
	file.Writer = w
	file.Formatter = pterm.LogFormatterJSON
	file.ShowTime = true
	file.TimeFormat = "2006-01-02T15:04:05.000Z07:00"
	file.MaxWidth = 1000
	file.Level = l.console.Level
	return &PtermLogger{console: l.console, file: &file}
}

func (l *PtermLogger) Printf(format string, v ...any) {
	msg := fmt.Sprintf(format, v...)
	l.console.Info(msg)
	if l.file != nil {
		l.file.Info(msg)
	}
}

func (l *PtermLogger) Debugf(format string, v ...any) {
	if l.console.Level > pterm.LogLevelDebug {
		return
	}
	msg := fmt.Sprintf(format, v...)
	l.console.Debug(msg)
	if l.file != nil {
		l.file.Debug(msg)
	}
}

func levelFor(verbose bool) pterm.LogLevel {
	if verbose {
		return pterm.LogLevelDebug
	}
	return pterm.LogLevelInfo
}

var _ logging.Logger = (*PtermLogger)(nil)
