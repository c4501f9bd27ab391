package logging

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// LogEvent provides a fluent interface for structured logging with type-safe field methods.
// Fields are rendered after the message as key=value pairs.
type LogEvent interface {
	Str(key, val string) LogEvent
	Strs(key string, vals []string) LogEvent
	Int(key string, val int) LogEvent
	Int64(key string, val int64) LogEvent
	Uint64(key string, val uint64) LogEvent
	Float64(key string, val float64) LogEvent
	Bool(key string, val bool) LogEvent
	Dur(key string, val time.Duration) LogEvent
	Time(key string, val time.Time) LogEvent
	Err(err error) LogEvent
	AnErr(key string, err error) LogEvent
	Interface(key string, val interface{}) LogEvent
	Msg(msg string)
	Msgf(format string, v ...interface{})
	Send()
}

// LogContext provides a fluent interface for building a context logger with pre-populated fields.
type LogContext interface {
	Str(key, val string) LogContext
	Int(key string, val int) LogContext
	Int64(key string, val int64) LogContext
	Bool(key string, val bool) LogContext
	Err(err error) LogContext
	Interface(key string, val interface{}) LogContext
	// Logger creates and returns the new context logger
	Logger() *Logger
}

// logEvent accumulates fields for one record and dispatches it on Msg.
type logEvent struct {
	rec    *Record
	logger *Logger
	sent   bool
}

// noopEvent is returned for disabled levels.
var noopEvent LogEvent = noopLogEvent{}

func (e *logEvent) add(f func(*zerolog.Event)) LogEvent {
	if !e.sent {
		e.rec.fields = append(e.rec.fields, f)
	}
	return e
}

func (e *logEvent) Str(key, val string) LogEvent {
	return e.add(func(z *zerolog.Event) { z.Str(key, val) })
}

func (e *logEvent) Strs(key string, vals []string) LogEvent {
	return e.add(func(z *zerolog.Event) { z.Strs(key, vals) })
}

func (e *logEvent) Int(key string, val int) LogEvent {
	return e.add(func(z *zerolog.Event) { z.Int(key, val) })
}

func (e *logEvent) Int64(key string, val int64) LogEvent {
	return e.add(func(z *zerolog.Event) { z.Int64(key, val) })
}

func (e *logEvent) Uint64(key string, val uint64) LogEvent {
	return e.add(func(z *zerolog.Event) { z.Uint64(key, val) })
}

func (e *logEvent) Float64(key string, val float64) LogEvent {
	return e.add(func(z *zerolog.Event) { z.Float64(key, val) })
}

func (e *logEvent) Bool(key string, val bool) LogEvent {
	return e.add(func(z *zerolog.Event) { z.Bool(key, val) })
}

func (e *logEvent) Dur(key string, val time.Duration) LogEvent {
	return e.add(func(z *zerolog.Event) { z.Dur(key, val) })
}

func (e *logEvent) Time(key string, val time.Time) LogEvent {
	return e.add(func(z *zerolog.Event) { z.Time(key, val) })
}

func (e *logEvent) Err(err error) LogEvent {
	return e.AnErr(zerolog.ErrorFieldName, err)
}

// AnErr adds err under key. Chained errors also get <key>_history with the
// whole chain and <key>_root_op when the chain carries operation names.
func (e *logEvent) AnErr(key string, err error) LogEvent {
	if err == nil {
		return e
	}
	chain, _, _, rootOp := buildErrorChain(err)
	return e.add(func(z *zerolog.Event) {
		z.AnErr(key, err)
		if len(chain) > 1 {
			z.Str(key+"_history", joinChain(chain))
		}
		if rootOp != emptyString {
			z.Str(key+"_root_op", rootOp)
		}
	})
}

func (e *logEvent) Interface(key string, val interface{}) LogEvent {
	return e.add(func(z *zerolog.Event) { z.Interface(key, val) })
}

func (e *logEvent) Msg(msg string) {
	if e.sent {
		return
	}
	e.sent = true
	defer e.logger.done()
	e.rec.Message = msg
	e.logger.registry.dispatch(e.logger.node, e.rec)
}

func (e *logEvent) Msgf(format string, v ...interface{}) {
	if e.sent {
		return
	}
	e.Msg(fmt.Sprintf(format, v...))
}

func (e *logEvent) Send() {
	e.Msg(emptyString)
}

type noopLogEvent struct{}

func (n noopLogEvent) Str(string, string) LogEvent            { return n }
func (n noopLogEvent) Strs(string, []string) LogEvent         { return n }
func (n noopLogEvent) Int(string, int) LogEvent               { return n }
func (n noopLogEvent) Int64(string, int64) LogEvent           { return n }
func (n noopLogEvent) Uint64(string, uint64) LogEvent         { return n }
func (n noopLogEvent) Float64(string, float64) LogEvent       { return n }
func (n noopLogEvent) Bool(string, bool) LogEvent             { return n }
func (n noopLogEvent) Dur(string, time.Duration) LogEvent     { return n }
func (n noopLogEvent) Time(string, time.Time) LogEvent        { return n }
func (n noopLogEvent) Err(error) LogEvent                     { return n }
func (n noopLogEvent) AnErr(string, error) LogEvent           { return n }
func (n noopLogEvent) Interface(string, interface{}) LogEvent { return n }
func (n noopLogEvent) Msg(string)                             {}
func (n noopLogEvent) Msgf(string, ...interface{})            {}
func (n noopLogEvent) Send()                                  {}

// logContext collects fields for a child logger.
type logContext struct {
	parent *Logger
	fields []func(*zerolog.Event)
}

func (c *logContext) Str(key, val string) LogContext {
	c.fields = append(c.fields, func(z *zerolog.Event) { z.Str(key, val) })
	return c
}

func (c *logContext) Int(key string, val int) LogContext {
	c.fields = append(c.fields, func(z *zerolog.Event) { z.Int(key, val) })
	return c
}

func (c *logContext) Int64(key string, val int64) LogContext {
	c.fields = append(c.fields, func(z *zerolog.Event) { z.Int64(key, val) })
	return c
}

func (c *logContext) Bool(key string, val bool) LogContext {
	c.fields = append(c.fields, func(z *zerolog.Event) { z.Bool(key, val) })
	return c
}

func (c *logContext) Err(err error) LogContext {
	c.fields = append(c.fields, func(z *zerolog.Event) { z.Err(err) })
	return c
}

func (c *logContext) Interface(key string, val interface{}) LogContext {
	c.fields = append(c.fields, func(z *zerolog.Event) { z.Interface(key, val) })
	return c
}

func (c *logContext) Logger() *Logger {
	fields := make([]func(*zerolog.Event), len(c.fields))
	copy(fields, c.fields)
	return &Logger{node: c.parent.node, registry: c.parent.registry, fields: fields}
}
