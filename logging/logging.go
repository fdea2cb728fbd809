// Package logging adapts the dvid-style leveled Logger interface to a
// standalone CLI tool: a Logger value is created explicitly and
// threaded through the pipeline instead of living behind a package
// level singleton, since this module has no long-lived server process
// to own one.
package logging

import (
	"fmt"
	"log"
	"time"

	"github.com/natefinch/lumberjack"
)

// ModeFlag selects the minimum severity that is actually written.
type ModeFlag uint

const (
	DebugMode ModeFlag = iota
	InfoMode
	WarningMode
	ErrorMode
	CriticalMode
	SilentMode
)

// Logger records messages at different severities. The default
// implementation writes through the standard log package; a
// FileConfig can redirect it to a rotating log file.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warningf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Criticalf(format string, args ...interface{})
	Shutdown()
}

type stdLogger struct {
	mode   ModeFlag
	rotate *lumberjack.Logger // nil unless a log file was configured
}

// FileConfig configures an optional rotating log file. The TOML tags
// match the nested [log] table a ply2lcc.toml config file may carry.
type FileConfig struct {
	Logfile string `toml:"logfile"`
	MaxSize int    `toml:"max_log_size"` // megabytes
	MaxAge  int    `toml:"max_log_age"`  // days
}

// New builds a Logger at the given severity, writing through the
// standard log package (stderr by default) unless cfg names a log file.
func New(mode ModeFlag, cfg *FileConfig) Logger {
	l := &stdLogger{mode: mode}
	if cfg != nil && cfg.Logfile != "" {
		l.rotate = &lumberjack.Logger{
			Filename: cfg.Logfile,
			MaxSize:  cfg.MaxSize,
			MaxAge:   cfg.MaxAge,
		}
		log.SetOutput(l.rotate)
		fmt.Printf("Sending log messages to: %s\n", cfg.Logfile)
	}
	return l
}

func (l *stdLogger) Debugf(format string, args ...interface{}) {
	if l.mode <= DebugMode {
		log.Printf(" DEBUG "+format, args...)
	}
}

func (l *stdLogger) Infof(format string, args ...interface{}) {
	if l.mode <= InfoMode {
		log.Printf(" INFO "+format, args...)
	}
}

func (l *stdLogger) Warningf(format string, args ...interface{}) {
	if l.mode <= WarningMode {
		log.Printf(" WARNING "+format, args...)
	}
}

func (l *stdLogger) Errorf(format string, args ...interface{}) {
	if l.mode <= ErrorMode {
		log.Printf(" ERROR "+format, args...)
	}
}

func (l *stdLogger) Criticalf(format string, args ...interface{}) {
	if l.mode <= CriticalMode {
		log.Printf(" CRITICAL "+format, args...)
	}
}

func (l *stdLogger) Shutdown() {
	if l.rotate != nil {
		l.rotate.Close()
	}
}

// TimeLog decorates a message with elapsed time since the wrapper was
// created. No pipeline stage in this module currently uses it.
type TimeLog struct {
	logger Logger
	start  time.Time
}

// NewTimeLog starts a timer against logger.
func NewTimeLog(logger Logger) TimeLog {
	return TimeLog{logger: logger, start: time.Now()}
}

func (t TimeLog) Infof(format string, args ...interface{}) {
	t.logger.Infof(format+": %s", append(args, time.Since(t.start))...)
}

func (t TimeLog) Debugf(format string, args ...interface{}) {
	t.logger.Debugf(format+": %s", append(args, time.Since(t.start))...)
}
