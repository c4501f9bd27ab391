package logging

import (
	"fmt"
	"os"
	"sync"
	"time"

	smerrors "github.com/Station-Manager/errors"
	"github.com/rs/zerolog"
	"go.uber.org/atomic"
)

// Service sets up harness logging once at process start and owns the sinks
// it attaches. Construct it in main, call Initialize before any goroutine
// logs, and hand Registry (or loggers from it) to the rest of the program.
type Service struct {
	Config   *Config
	Registry *Registry
	// Clock stamps records and drives rotation; nil means time.Now.
	Clock func() time.Time

	initOnce      sync.Once
	initErr       error
	isInitialized atomic.Bool
	isClosed      atomic.Bool
	closeOnce     sync.Once

	mu         sync.Mutex
	fileWriter *TimedRotatingWriter
	sinks      []Sink
}

// NewService returns a Service with its own Registry. A nil cfg means
// DefaultConfig().
func NewService(cfg *Config) *Service {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Service{Config: cfg, Registry: NewRegistry()}
}

// Initialize applies the configuration:
//   - each Config.Suppress logger gets the SuppressLevel threshold
//   - the root logger gets the RootLevel threshold
//   - a rotating file sink (and optionally a stderr sink) is attached to root
//
// A missing or unwritable log directory is returned as an error and nothing
// is attached. Only the first call does any work; later calls return the
// first call's result. A closed service cannot be initialized again.
func (s *Service) Initialize() error {
	const op smerrors.Op = "logging.Service.Initialize"
	if s == nil {
		return smerrors.New(op).Msg(errMsgNilService)
	}
	if s.isClosed.Load() {
		return smerrors.New(op).Msg(errMsgServiceClosed)
	}

	s.initOnce.Do(func() {
		s.initErr = s.initialize()
		if s.initErr == nil {
			s.isInitialized.Store(true)
		}
	})
	return s.initErr
}

// MustInitialize is Initialize for main: the process should not run without
// its log file.
func (s *Service) MustInitialize() *Service {
	if err := s.Initialize(); err != nil {
		panic(err)
	}
	return s
}

func (s *Service) initialize() error {
	if s.Config == nil {
		s.Config = DefaultConfig()
	}
	if err := validateConfig(s.Config); err != nil {
		return err
	}
	if s.Registry == nil {
		s.Registry = NewRegistry()
	}
	if s.Clock != nil {
		s.Registry.SetClock(s.Clock)
	}

	// Levels were checked by validateConfig
	suppressLevel, _ := ParseLevel(s.Config.SuppressLevel)
	rootLevel, _ := ParseLevel(s.Config.RootLevel)

	writer, err := NewTimedRotatingWriter(s.Config.FilePath, s.Config.policy(), s.Clock)
	if err != nil {
		return err
	}

	for _, name := range s.Config.Suppress {
		if err := s.Registry.SuppressLogger(name); err != nil {
			_ = writer.Close()
			return err
		}
		s.Registry.Logger(name).SetLevel(suppressLevel)
	}

	root := s.Registry.Root()
	root.SetLevel(rootLevel)

	sinks := []Sink{NewFormatSink(writer, zerolog.TraceLevel, nil)}
	if s.Config.Console {
		consoleLevel := InfoLevel
		if s.Config.ConsoleLevel != emptyString {
			consoleLevel, _ = ParseLevel(s.Config.ConsoleLevel)
		}
		sinks = append(sinks, NewFormatSink(os.Stderr, consoleLevel, nil))
	}
	for _, sink := range sinks {
		root.AddSink(sink)
	}

	s.mu.Lock()
	s.fileWriter = writer
	s.sinks = sinks
	s.mu.Unlock()

	return nil
}

// SuppressLogger raises the named logger to WARNING.
func (s *Service) SuppressLogger(name string) error {
	const op smerrors.Op = "logging.Service.SuppressLogger"
	if s == nil {
		return smerrors.New(op).Msg(errMsgNilService)
	}
	if s.Registry == nil {
		s.Registry = NewRegistry()
	}
	return s.Registry.SuppressLogger(name)
}

// Logger returns the named logger from the service registry.
func (s *Service) Logger(name string) *Logger {
	if s.Registry == nil {
		s.Registry = NewRegistry()
	}
	return s.Registry.Logger(name)
}

// Initialized reports whether Initialize succeeded.
func (s *Service) Initialized() bool {
	return s != nil && s.isInitialized.Load()
}

// FilePath returns the path of the active log file, or "" before Initialize.
func (s *Service) FilePath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fileWriter == nil {
		return emptyString
	}
	return s.fileWriter.Path()
}

// Close waits for in-flight events, up to Config.ShutdownTimeoutMS, then
// detaches and closes the sinks attached by Initialize.
// It's safe to call Close multiple times.
func (s *Service) Close() error {
	if s == nil || !s.isInitialized.Load() {
		return nil
	}

	var closeErr error
	s.closeOnce.Do(func() {
		s.isClosed.Store(true)
		s.waitForInFlight()

		s.mu.Lock()
		sinks := s.sinks
		s.sinks = nil
		s.fileWriter = nil
		s.mu.Unlock()

		root := s.Registry.Root()
		for _, sink := range sinks {
			root.RemoveSink(sink)
			if err := sink.Close(); err != nil && closeErr == nil {
				closeErr = err
			}
		}
		s.isInitialized.Store(false)
	})
	return closeErr
}

func (s *Service) waitForInFlight() {
	timeout := time.Duration(s.Config.ShutdownTimeoutMS) * time.Millisecond
	if timeout <= 0 {
		return
	}

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	tick := time.NewTicker(time.Millisecond)
	defer tick.Stop()

	for s.Registry.ActiveOperations() > 0 {
		select {
		case <-tick.C:
		case <-deadline.C:
			if s.Config.ShutdownTimeoutWarning {
				_, _ = fmt.Fprintf(os.Stderr, "Logger shutdown timeout exceeded (timeout=%s active_operations=%d)\n",
					timeout, s.Registry.ActiveOperations())
			}
			return
		}
	}
}
