package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/atomic"
)

// Record is a single log record on its way to the sinks.
type Record struct {
	Time    time.Time
	Level   zerolog.Level
	Logger  string
	Message string
	fields  []func(*zerolog.Event)
}

// Sink receives records from the loggers it is attached to. Implementations
// must be safe for concurrent use.
type Sink interface {
	// Level is the sink's own threshold; records below it are not offered.
	Level() zerolog.Level
	Handle(rec *Record)
	Close() error
}

// FormatSink writes records as text lines of the form
//
//	2006-01-02 15:04:05 [INFO] name : message key=value
//
// to an io.Writer. Writes for a single record are issued as one Write call.
type FormatSink struct {
	out    io.Writer
	logger zerolog.Logger
	level  atomic.Int32
	loc    *time.Location
}

// NewFormatSink builds a FormatSink writing to w. Timestamps are rendered in
// loc; a nil loc means time.Local.
func NewFormatSink(w io.Writer, level zerolog.Level, loc *time.Location) *FormatSink {
	if loc == nil {
		loc = time.Local
	}
	s := &FormatSink{
		out:    w,
		logger: zerolog.New(newLineWriter(w)),
		loc:    loc,
	}
	s.level.Store(int32(level))
	return s
}

func (s *FormatSink) Level() zerolog.Level {
	return zerolog.Level(s.level.Load())
}

// SetLevel changes the sink threshold.
func (s *FormatSink) SetLevel(level zerolog.Level) {
	s.level.Store(int32(level))
}

func (s *FormatSink) Handle(rec *Record) {
	if rec == nil || rec.Level < s.Level() {
		return
	}
	e := s.logger.WithLevel(rec.Level)
	if e == nil {
		return
	}
	e.Str(zerolog.TimestampFieldName, rec.Time.In(s.loc).Format(TimestampLayout))
	e.Str(loggerFieldName, rec.Logger)
	for _, f := range rec.fields {
		f(e)
	}
	e.Msg(rec.Message)
}

// Close closes the underlying writer when it is an io.Closer. The standard
// streams are never closed.
func (s *FormatSink) Close() error {
	if s.out == os.Stderr || s.out == os.Stdout {
		return nil
	}
	if c, ok := s.out.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// newLineWriter configures a zerolog.ConsoleWriter to render the harness line
// format. The timestamp arrives preformatted so the writer never reparses it.
func newLineWriter(out io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:     out,
		NoColor: true,
		PartsOrder: []string{
			zerolog.TimestampFieldName,
			zerolog.LevelFieldName,
			loggerFieldName,
			zerolog.MessageFieldName,
		},
		FieldsExclude: []string{loggerFieldName},
		FormatTimestamp: func(i interface{}) string {
			if s, ok := i.(string); ok {
				return s
			}
			return time.Now().Format(TimestampLayout)
		},
		FormatLevel: func(i interface{}) string {
			s, _ := i.(string)
			l, err := zerolog.ParseLevel(s)
			if err != nil {
				return "[" + s + "]"
			}
			return "[" + LevelName(l) + "]"
		},
		FormatMessage: func(i interface{}) string {
			if i == nil {
				return ": "
			}
			return fmt.Sprintf(": %s", i)
		},
	}
}
