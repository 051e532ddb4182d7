// Package logging provides structured logging for the mining engine,
// ingestion, and the federation layer using bolt. Call sites tag events
// with typed fields (client, session, round, threshold) so mining runs
// and aggregation rounds can be correlated across processes.
package logging

import (
	"os"
	"sync"

	"github.com/felixgeelhaar/bolt/v3"
)

var (
	defaultLogger *bolt.Logger
	once          sync.Once
)

// Config configures the logger.
type Config struct {
	// Level is the minimum log level (trace, debug, info, warn, error).
	Level string

	// Format is the output format (json or console).
	Format string

	// Output is the output destination.
	Output *os.File
}

// DefaultConfig returns a console logger at info level. The
// UPGROWTH_LOG_LEVEL and UPGROWTH_LOG_FORMAT environment variables
// override the defaults, so a miner run can be put into debug without
// touching its config file.
func DefaultConfig() Config {
	cfg := Config{
		Level:  "info",
		Format: "console",
		Output: os.Stdout,
	}
	if lvl := os.Getenv("UPGROWTH_LOG_LEVEL"); lvl != "" {
		cfg.Level = lvl
	}
	if format := os.Getenv("UPGROWTH_LOG_FORMAT"); format != "" {
		cfg.Format = format
	}
	return cfg
}

// ProductionConfig returns a JSON configuration for aggregation servers
// whose output is shipped to a collector.
func ProductionConfig() Config {
	return Config{
		Level:  "info",
		Format: "json",
		Output: os.Stdout,
	}
}

func parseLevel(s string) bolt.Level {
	switch s {
	case "trace":
		return bolt.TRACE
	case "debug":
		return bolt.DEBUG
	case "info":
		return bolt.INFO
	case "warn":
		return bolt.WARN
	case "error":
		return bolt.ERROR
	default:
		return bolt.INFO
	}
}

// Init initializes the default logger with the given configuration.
// Subsequent calls are no-ops; the first caller wins.
func Init(config Config) {
	once.Do(func() {
		output := config.Output
		if output == nil {
			output = os.Stdout
		}

		var handler bolt.Handler
		if config.Format == "json" {
			handler = bolt.NewJSONHandler(output)
		} else {
			handler = bolt.NewConsoleHandler(output)
		}

		defaultLogger = bolt.New(handler).SetLevel(parseLevel(config.Level))
	})
}

// Get returns the default logger, initializing if necessary.
func Get() *bolt.Logger {
	if defaultLogger == nil {
		Init(DefaultConfig())
	}
	return defaultLogger
}

// SetLevel changes the log level of the default logger.
func SetLevel(level string) {
	Get().SetLevel(parseLevel(level))
}

// LogEvent is a wrapper that allows adding Fields to a bolt.Event.
type LogEvent struct {
	event *bolt.Event
}

// NewEvent wraps a bolt.Event for field application.
func NewEvent(e *bolt.Event) *LogEvent {
	return &LogEvent{event: e}
}

// Add applies a field to the event and returns the wrapper for chaining.
func (l *LogEvent) Add(f Field) *LogEvent {
	l.event = f(l.event)
	return l
}

// Msg sends the log event with a message.
func (l *LogEvent) Msg(msg string) {
	l.event.Msg(msg)
}

// Send sends the log event without a message.
func (l *LogEvent) Send() {
	l.event.Send()
}

// Scoped is a component-tagged view of the default logger. Packages
// that emit many events for one subsystem (the mining pipeline, the
// ingest watcher, the aggregation round loop) construct one Scoped
// logger instead of repeating the component field at every call site.
type Scoped struct {
	component string
}

// ForComponent returns a Scoped logger tagging every event with the
// component name.
func ForComponent(name string) Scoped {
	return Scoped{component: name}
}

func (s Scoped) Trace() *LogEvent { return Trace().Add(Component(s.component)) }
func (s Scoped) Debug() *LogEvent { return Debug().Add(Component(s.component)) }
func (s Scoped) Info() *LogEvent  { return Info().Add(Component(s.component)) }
func (s Scoped) Warn() *LogEvent  { return Warn().Add(Component(s.component)) }
func (s Scoped) Error() *LogEvent { return Error().Add(Component(s.component)) }

// Convenience constructors on the default logger.

// Trace returns a LogEvent wrapper for trace level logging.
func Trace() *LogEvent {
	return &LogEvent{event: Get().Trace()}
}

// Debug returns a LogEvent wrapper for debug level logging.
func Debug() *LogEvent {
	return &LogEvent{event: Get().Debug()}
}

// Info returns a LogEvent wrapper for info level logging.
func Info() *LogEvent {
	return &LogEvent{event: Get().Info()}
}

// Warn returns a LogEvent wrapper for warn level logging.
func Warn() *LogEvent {
	return &LogEvent{event: Get().Warn()}
}

// Error returns a LogEvent wrapper for error level logging.
func Error() *LogEvent {
	return &LogEvent{event: Get().Error()}
}

// Fatal returns a LogEvent wrapper for fatal level logging.
func Fatal() *LogEvent {
	return &LogEvent{event: Get().Fatal()}
}
