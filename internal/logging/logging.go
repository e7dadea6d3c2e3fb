// Package logging sets up the run log and the machine status log.
package logging

import (
	"fmt"
	"io"
	"os"
	"os/user"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

const (
	MainLogFile   = "main_log.log"
	StatusLogFile = "machine_status.log"
)

// Options configures the loggers
type Options struct {
	// Dir holds the log files; empty disables file logging
	Dir string

	// Console receives a human-readable copy of the main log
	Console io.Writer

	Debug bool
}

// Logs holds the two loggers used during a run
type Logs struct {
	Main   zerolog.Logger
	Status zerolog.Logger

	closers []io.Closer
	once    sync.Once
}

// New opens the log files under opts.Dir and returns the loggers. If the
// directory cannot be prepared, logging falls back to the console alone and
// the error is returned alongside usable loggers.
func New(opts Options) (*Logs, error) {
	zerolog.TimeFieldFormat = "2006-01-02 15:04:05"
	if opts.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	l := &Logs{}

	var mainOut []io.Writer
	if opts.Console != nil {
		mainOut = append(mainOut, zerolog.ConsoleWriter{Out: opts.Console, TimeFormat: "15:04:05"})
	}

	var statusOut io.Writer = io.Discard
	var setupErr error

	if opts.Dir != "" {
		mainFile, statusFile, err := openFiles(opts.Dir)
		if err != nil {
			setupErr = err
		} else {
			l.closers = append(l.closers, mainFile, statusFile)
			mainOut = append(mainOut, mainFile)
			statusOut = statusFile
		}
	}

	var mainWriter io.Writer = io.Discard
	if len(mainOut) > 0 {
		mainWriter = zerolog.MultiLevelWriter(mainOut...)
	}

	invoker := Invoker()
	l.Main = zerolog.New(mainWriter).With().Timestamp().Str("user", invoker).Logger()
	l.Status = zerolog.New(statusOut).With().Timestamp().Str("user", invoker).Logger()

	return l, setupErr
}

// WithIdentity adds the cloud caller identity to every later entry
func (l *Logs) WithIdentity(arn string) {
	if arn == "" {
		return
	}
	l.Main = l.Main.With().Str("aws_identity", arn).Logger()
	l.Status = l.Status.With().Str("aws_identity", arn).Logger()
}

// Close closes the log files
func (l *Logs) Close() error {
	var firstErr error
	l.once.Do(func() {
		for _, c := range l.closers {
			if err := c.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	})
	return firstErr
}

// Invoker returns the login name of the user running the process
func Invoker() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	return "unknown"
}

func openFiles(dir string) (*os.File, *os.File, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	mainFile, err := openAppend(filepath.Join(dir, MainLogFile))
	if err != nil {
		return nil, nil, err
	}

	statusFile, err := openAppend(filepath.Join(dir, StatusLogFile))
	if err != nil {
		mainFile.Close()
		return nil, nil, err
	}

	return mainFile, statusFile, nil
}

func openAppend(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	return f, nil
}
