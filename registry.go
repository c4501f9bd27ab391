package logging

import (
	"os"
	"strings"
	"sync"
	"time"

	smerrors "github.com/Station-Manager/errors"
	"github.com/rs/zerolog"
	"go.uber.org/atomic"
)

// levelNotSet marks a logger that inherits its threshold from its ancestors.
const levelNotSet = int32(-128)

// Registry owns the logger hierarchy for a process. Loggers are named with
// dot-separated paths; "a.b" is a child of "a", and every logger descends
// from the root. A Registry is created by the composition root and handed to
// whatever needs to log.
type Registry struct {
	mu    sync.RWMutex
	root  *node
	nodes map[string]*node

	clock      func() time.Time
	lastResort Sink

	// events created but not yet sent, drained by Service.Close
	activeOps atomic.Int64
}

// node is one logger in the hierarchy. Loggers handed out by the registry are
// views over a node plus optional bound fields.
type node struct {
	name      string
	parent    *node
	level     atomic.Int32
	propagate atomic.Bool
	sinks     atomic.Pointer[[]Sink]
}

func newNode(name string, parent *node) *node {
	n := &node{name: name, parent: parent}
	n.level.Store(levelNotSet)
	n.propagate.Store(true)
	empty := []Sink{}
	n.sinks.Store(&empty)
	return n
}

// NewRegistry returns a registry whose root logger has a WARNING threshold
// and no sinks. Records that find no sink at WARNING or above go to stderr.
func NewRegistry() *Registry {
	r := &Registry{
		root:       newNode(RootLoggerName, nil),
		nodes:      make(map[string]*node),
		clock:      time.Now,
		lastResort: NewFormatSink(os.Stderr, WarningLevel, nil),
	}
	r.root.level.Store(int32(WarningLevel))
	return r
}

// SetClock replaces the time source used to stamp records.
func (r *Registry) SetClock(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	r.mu.Lock()
	r.clock = now
	r.mu.Unlock()
}

func (r *Registry) now() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.clock()
}

// Root returns the root logger.
func (r *Registry) Root() *Logger {
	return &Logger{node: r.root, registry: r}
}

// Logger returns the logger with the given dotted name, creating it and any
// missing ancestors. Empty segments are ignored. An empty name or "root"
// yields the root logger.
func (r *Registry) Logger(name string) *Logger {
	return &Logger{node: r.lookup(name), registry: r}
}

// normalizeName drops empty segments, so "a..b" and ".a.b." both name "a.b".
func normalizeName(name string) string {
	if !strings.Contains(name, "..") && !strings.HasPrefix(name, ".") && !strings.HasSuffix(name, ".") {
		return name
	}
	parts := strings.Split(name, ".")
	kept := parts[:0]
	for _, p := range parts {
		if p != emptyString {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ".")
}

func (r *Registry) lookup(name string) *node {
	name = normalizeName(name)
	if name == emptyString || name == RootLoggerName {
		return r.root
	}

	r.mu.RLock()
	n, ok := r.nodes[name]
	r.mu.RUnlock()
	if ok {
		return n
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lookupLocked(name)
}

func (r *Registry) lookupLocked(name string) *node {
	if n, ok := r.nodes[name]; ok {
		return n
	}
	parent := r.root
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		parent = r.lookupLocked(name[:i])
	}
	n := newNode(name, parent)
	r.nodes[name] = n
	return n
}

// SuppressLogger raises the named logger's threshold to WARNING so its
// DEBUG and INFO records are dropped. Calling it again has no further effect.
func (r *Registry) SuppressLogger(name string) error {
	const op smerrors.Op = "logging.Registry.SuppressLogger"
	if strings.TrimSpace(normalizeName(name)) == emptyString {
		return smerrors.New(op).Msg(errMsgEmptyName)
	}
	r.Logger(name).SetLevel(WarningLevel)
	return nil
}

// Names lists the loggers created so far, excluding the root.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.nodes))
	for name := range r.nodes {
		names = append(names, name)
	}
	return names
}

// effectiveLevel walks up from n to the first logger with a threshold.
func effectiveLevel(n *node) zerolog.Level {
	for ; n != nil; n = n.parent {
		if l := n.level.Load(); l != levelNotSet {
			return zerolog.Level(l)
		}
	}
	return zerolog.NoLevel
}

// dispatch offers rec to the sinks of n and its ancestors until a logger
// stops propagation.
func (r *Registry) dispatch(n *node, rec *Record) {
	found := false
	for ; n != nil; n = n.parent {
		for _, s := range *n.sinks.Load() {
			found = true
			if rec.Level >= s.Level() {
				s.Handle(rec)
			}
		}
		if !n.propagate.Load() {
			break
		}
	}
	if !found && r.lastResort != nil && rec.Level >= r.lastResort.Level() {
		r.lastResort.Handle(rec)
	}
}

func (n *node) addSink(s Sink) {
	for {
		old := n.sinks.Load()
		for _, existing := range *old {
			if existing == s {
				return
			}
		}
		next := make([]Sink, 0, len(*old)+1)
		next = append(next, *old...)
		next = append(next, s)
		if n.sinks.CompareAndSwap(old, &next) {
			return
		}
	}
}

func (n *node) removeSink(s Sink) bool {
	for {
		old := n.sinks.Load()
		next := make([]Sink, 0, len(*old))
		removed := false
		for _, existing := range *old {
			if existing == s {
				removed = true
				continue
			}
			next = append(next, existing)
		}
		if !removed {
			return false
		}
		if n.sinks.CompareAndSwap(old, &next) {
			return true
		}
	}
}

// ActiveOperations returns the number of events created but not yet sent.
func (r *Registry) ActiveOperations() int64 {
	return r.activeOps.Load()
}
