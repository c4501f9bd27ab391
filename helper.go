package logging

import (
	stderrs "errors"
	"strings"

	smerrors "github.com/Station-Manager/errors"
	"github.com/rs/zerolog"
)

// Severity levels understood by the harness. They map one-to-one onto zerolog
// levels so sinks can filter with zerolog.Logger.Level.
const (
	DebugLevel    = zerolog.DebugLevel
	InfoLevel     = zerolog.InfoLevel
	WarningLevel  = zerolog.WarnLevel
	ErrorLevel    = zerolog.ErrorLevel
	CriticalLevel = zerolog.FatalLevel
)

// ParseLevel parses a level name. Both the harness names (DEBUG, INFO,
// WARNING, ERROR, CRITICAL) and zerolog's names are accepted, case-insensitively.
func ParseLevel(level string) (zerolog.Level, error) {
	const op smerrors.Op = "logging.ParseLevel"
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return DebugLevel, nil
	case "INFO":
		return InfoLevel, nil
	case "WARN", "WARNING":
		return WarningLevel, nil
	case "ERROR":
		return ErrorLevel, nil
	case "CRITICAL", "FATAL":
		return CriticalLevel, nil
	}
	l, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == emptyString {
		return zerolog.NoLevel, smerrors.New(op).Errorf("%s %q", errMsgInvalidLevel, level)
	}
	return l, nil
}

// LevelName returns the name a level is written as in log lines.
func LevelName(l zerolog.Level) string {
	switch l {
	case zerolog.DebugLevel:
		return "DEBUG"
	case zerolog.InfoLevel:
		return "INFO"
	case zerolog.WarnLevel:
		return "WARNING"
	case zerolog.ErrorLevel:
		return "ERROR"
	case zerolog.FatalLevel, zerolog.PanicLevel:
		return "CRITICAL"
	case zerolog.TraceLevel:
		return "TRACE"
	default:
		return "NOTSET"
	}
}

// buildErrorChain walks an error's cause chain and returns:
//   - chain: outermost -> innermost error messages
//   - ops: operation identifiers for DetailedError links ("" if not available)
//   - root: the innermost error message
//   - rootOp: the innermost operation identifier if available
//
// DetailedError.Cause() is preferred over errors.Unwrap. Depth is bounded and
// repeated messages stop the walk.
func buildErrorChain(err error) (chain []string, ops []string, root string, rootOp string) {
	const maxDepth = 50
	visited := 0
	seen := map[string]bool{}

	for err != nil && visited < maxDepth {
		visited++

		// Only the current link; AsDetailedError would skip outer wrappers
		if dErr, ok := err.(*smerrors.DetailedError); ok && dErr != nil {
			chain = append(chain, dErr.Error())
			ops = append(ops, string(dErr.Op()))
			err = dErr.Cause()
			continue
		}

		msg := err.Error()
		if seen[msg] {
			break
		}
		seen[msg] = true
		chain = append(chain, msg)
		ops = append(ops, "")
		err = stderrs.Unwrap(err)
	}

	if len(chain) > 0 {
		root = chain[len(chain)-1]
	}
	for i := len(ops) - 1; i >= 0; i-- {
		if ops[i] != "" {
			rootOp = ops[i]
			break
		}
	}
	return
}

// joinChain returns a single string for the error chain separated by " -> ".
func joinChain(chain []string) string {
	if len(chain) == 0 {
		return ""
	}
	return strings.Join(chain, " -> ")
}
