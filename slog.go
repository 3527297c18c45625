package hob

import (
	"fmt"
	"log"
)

// SLogger is the hob logging interface. Plugins get one injected on startup
type SLogger interface {
	Printf(format string, v ...interface{})

	Debugf(format string, v ...interface{})
}

type sLogger struct {
	logger *log.Logger
	debug  bool
	prefix string
}

// NewSLogger creates a new hob logger provided with an interface logger and a debug flag
func NewSLogger(log *log.Logger, debug bool) (l *sLogger) {
	sl := new(sLogger)
	sl.debug = debug
	sl.logger = log
	return sl
}

// Debugf logs a debug line after checking if the configuration is in debug mode
func (sl *sLogger) Debugf(format string, v ...interface{}) {
	if sl.debug {
		sl.output(fmt.Sprintf(format, v...))
	}
}

// Printf logs a line by delegating the call to Output
func (sl *sLogger) Printf(format string, v ...interface{}) {
	sl.output(fmt.Sprintf(format, v...))
}

func (sl *sLogger) output(s string) {
	sl.logger.Output(3, sl.prefix+s)
}

// withPrefix returns a logger writing to the same destination with every line prefixed
// by [name]. Plugins get one of those so their lines can be told apart
func (sl *sLogger) withPrefix(name string) (l *sLogger) {
	return &sLogger{logger: sl.logger, debug: sl.debug, prefix: fmt.Sprintf("[%s] ", name)}
}
