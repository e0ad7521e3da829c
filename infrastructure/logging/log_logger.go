package logging

import (
	"log"
	"powertun/application/logging"
)

// LogLogger writes through the standard library logger. Debug lines are
// dropped unless verbose is set.
type LogLogger struct {
	verbose bool
}

func NewLogLogger() logging.Logger {
	return &LogLogger{}
}

func NewVerboseLogLogger(verbose bool) logging.Logger {
	return &LogLogger{verbose: verbose}
}

func (l LogLogger) Printf(format string, v ...any) {
	log.Printf(format, v...)
}

func (l LogLogger) Debugf(format string, v ...any) {
	if !l.verbose {
		return
	}
	log.Printf("debug: "+format, v...)
}
