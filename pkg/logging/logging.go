package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// sink is the writer behind every logger handed out by GetLogger.
// Loggers capture the global logger by value, so the only way to
// redirect output after the fact (AttachFile is called once the backup
// root is known, long after packages grabbed their loggers) is to swap
// the writer underneath them.
var sink swapWriter

type swapWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *swapWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.w == nil {
		return len(p), nil
	}
	return s.w.Write(p)
}

func (s *swapWriter) set(w io.Writer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.w = w
}

func init() {
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	sink.set(consoleWriter())
	log.Logger = zerolog.New(&sink).With().Timestamp().Logger()
}

// Setup configures the global log level based on verbosity. Output goes
// to the console only until AttachFile is called with the run log path
// (the log lives inside the backup root, which is not known until the
// command has resolved its configuration).
func Setup(verbosity int) {
	switch verbosity {
	case 0:
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case 1:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case 2:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	}

	logger := zerolog.New(&sink).With().Timestamp()
	if verbosity >= 2 {
		logger = logger.Caller()
	}
	log.Logger = logger.Logger()

	log.Debug().Int("verbosity", verbosity).Msg("Logger initialized")
}

// AttachFile adds the run log file to the logging sink so every message
// is written to both the console and the file. The file is opened in
// append mode and never truncated; repeated runs against the same
// backup root keep extending the same transcript. The returned writer
// is the raw file handle, used to mirror child-process output and user
// output into the same log.
func AttachFile(path string) (io.Writer, error) {
	logDir := filepath.Dir(path)
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	sink.set(io.MultiWriter(consoleWriter(), file))

	log.Debug().Str("logFile", path).Msg("Run log attached")
	return file, nil
}

// GetLogger returns a contextualized logger with the given name
func GetLogger(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

// WithFields returns a logger with additional fields
func WithFields(fields map[string]interface{}) zerolog.Logger {
	logger := log.Logger
	for k, v := range fields {
		logger = logger.With().Interface(k, v).Logger()
	}
	return logger
}

func consoleWriter() zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.Kitchen,
		NoColor:    os.Getenv("NO_COLOR") != "",
	}
}

// LogCommand logs an external command invocation with its arguments
func LogCommand(cmd string, args []string) {
	log.Debug().
		Str("command", cmd).
		Strs("args", args).
		Msg("Executing command")
}
