package logging

import (
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureSink records what it is handed.
type captureSink struct {
	mu      sync.Mutex
	level   zerolog.Level
	records []*Record
	closed  bool
}

func (c *captureSink) Level() zerolog.Level { return c.level }

func (c *captureSink) Handle(rec *Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, rec)
}

func (c *captureSink) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *captureSink) messages() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.records))
	for _, r := range c.records {
		out = append(out, r.Message)
	}
	return out
}

func TestRegistry_Hierarchy(t *testing.T) {
	r := NewRegistry()

	abc := r.Logger("a.b.c")
	assert.Equal(t, "a.b.c", abc.Name())
	assert.Same(t, r.Logger("a.b").node, abc.node.parent)
	assert.Same(t, r.Logger("a").node, abc.node.parent.parent)
	assert.Same(t, r.root, abc.node.parent.parent.parent)

	assert.Same(t, abc.node, r.Logger("a.b.c").node, "same name yields the same logger")
	assert.Same(t, r.root, r.Logger("").node)
	assert.Same(t, r.root, r.Logger(RootLoggerName).node)
	assert.Equal(t, RootLoggerName, r.Root().Name())

	names := r.Names()
	sort.Strings(names)
	assert.Equal(t, []string{"a", "a.b", "a.b.c"}, names)
}

func TestRegistry_EffectiveLevel(t *testing.T) {
	r := NewRegistry()

	assert.Equal(t, WarningLevel, r.Root().EffectiveLevel(), "root starts at WARNING")

	child := r.Logger("svc.worker")
	_, set := child.Level()
	assert.False(t, set)
	assert.Equal(t, WarningLevel, child.EffectiveLevel())

	r.Root().SetLevel(DebugLevel)
	assert.Equal(t, DebugLevel, child.EffectiveLevel())

	r.Logger("svc").SetLevel(ErrorLevel)
	assert.Equal(t, ErrorLevel, child.EffectiveLevel())
	assert.False(t, child.Enabled(WarningLevel))
	assert.True(t, child.Enabled(CriticalLevel))

	child.SetLevel(InfoLevel)
	assert.Equal(t, InfoLevel, child.EffectiveLevel())

	child.ResetLevel()
	assert.Equal(t, ErrorLevel, child.EffectiveLevel())

	r.Root().ResetLevel()
	assert.Equal(t, DebugLevel, r.Root().EffectiveLevel(), "root keeps its threshold")
}

func TestRegistry_SuppressLogger(t *testing.T) {
	r := NewRegistry()
	r.Root().SetLevel(DebugLevel)

	require.NoError(t, r.SuppressLogger(ConnectionPoolLogger))
	require.NoError(t, r.SuppressLogger(ConnectionPoolLogger))

	lvl, ok := r.Logger(ConnectionPoolLogger).Level()
	require.True(t, ok)
	assert.Equal(t, WarningLevel, lvl)
	assert.Equal(t, DebugLevel, r.Logger("httpclient").EffectiveLevel())

	assert.Error(t, r.SuppressLogger(""))
	assert.Error(t, r.SuppressLogger("   "))
	assert.Error(t, r.SuppressLogger(".."))
	assert.Equal(t, DebugLevel, r.Root().EffectiveLevel(), "a name of only dots must not reach the root")
}

func TestRegistry_EmptySegments(t *testing.T) {
	r := NewRegistry()

	l := r.Logger("a..b")
	assert.Equal(t, "a.b", l.Name())
	assert.Same(t, r.Logger("a.b").node, l.node)
	assert.Same(t, r.Logger(".a.b.").node, l.node)
	assert.Same(t, r.Logger("a").node, l.node.parent)

	names := r.Names()
	sort.Strings(names)
	assert.Equal(t, []string{"a", "a.b"}, names)
}

func TestRegistry_Dispatch(t *testing.T) {
	t.Run("records propagate to ancestors", func(t *testing.T) {
		r := NewRegistry()
		r.Root().SetLevel(DebugLevel)
		rootSink := &captureSink{level: DebugLevel}
		midSink := &captureSink{level: DebugLevel}
		r.Root().AddSink(rootSink)
		r.Logger("a").AddSink(midSink)

		r.Logger("a.b").InfoWith().Msg("hello")

		assert.Equal(t, []string{"hello"}, rootSink.messages())
		assert.Equal(t, []string{"hello"}, midSink.messages())
	})

	t.Run("propagation can be stopped", func(t *testing.T) {
		r := NewRegistry()
		r.Root().SetLevel(DebugLevel)
		rootSink := &captureSink{level: DebugLevel}
		midSink := &captureSink{level: DebugLevel}
		r.Root().AddSink(rootSink)
		r.Logger("a").AddSink(midSink)
		r.Logger("a").SetPropagate(false)

		r.Logger("a.b").InfoWith().Msg("hello")

		assert.Empty(t, rootSink.messages())
		assert.Equal(t, []string{"hello"}, midSink.messages())
	})

	t.Run("sink thresholds filter", func(t *testing.T) {
		r := NewRegistry()
		r.Root().SetLevel(DebugLevel)
		all := &captureSink{level: DebugLevel}
		errorsOnly := &captureSink{level: ErrorLevel}
		r.Root().AddSink(all)
		r.Root().AddSink(errorsOnly)

		log := r.Logger("x")
		log.InfoWith().Msg("info")
		log.ErrorWith().Msg("error")

		assert.Equal(t, []string{"info", "error"}, all.messages())
		assert.Equal(t, []string{"error"}, errorsOnly.messages())
	})

	t.Run("logger threshold filters before sinks", func(t *testing.T) {
		r := NewRegistry()
		sink := &captureSink{level: DebugLevel}
		r.Root().AddSink(sink)

		r.Logger("x").InfoWith().Msg("dropped by root WARNING")
		r.Logger("x").WarnWith().Msg("kept")

		assert.Equal(t, []string{"kept"}, sink.messages())
	})

	t.Run("last resort only without sinks", func(t *testing.T) {
		r := NewRegistry()
		r.Root().SetLevel(DebugLevel)
		fallback := &captureSink{level: WarningLevel}
		r.lastResort = fallback

		r.Logger("x").InfoWith().Msg("info")
		r.Logger("x").WarnWith().Msg("warn")
		assert.Equal(t, []string{"warn"}, fallback.messages())

		r.Root().AddSink(&captureSink{level: CriticalLevel})
		r.Logger("x").ErrorWith().Msg("handled elsewhere")
		assert.Equal(t, []string{"warn"}, fallback.messages())
	})
}

func TestRegistry_Sinks(t *testing.T) {
	r := NewRegistry()
	root := r.Root()
	a := &captureSink{level: DebugLevel}
	b := &captureSink{level: DebugLevel}

	root.AddSink(a)
	root.AddSink(a)
	root.AddSink(b)
	root.AddSink(nil)
	assert.Len(t, root.Sinks(), 2)

	assert.True(t, root.RemoveSink(a))
	assert.False(t, root.RemoveSink(a))
	assert.Equal(t, []Sink{b}, root.Sinks())
}

func TestRegistry_ConcurrentSinkChanges(t *testing.T) {
	r := NewRegistry()
	r.Root().SetLevel(DebugLevel)
	root := r.Root()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s := &captureSink{level: DebugLevel}
			root.AddSink(s)
			r.Logger("w").DebugWith().Msg("x")
			root.RemoveSink(s)
		}()
		go func() {
			defer wg.Done()
			_ = r.Logger("w.child." + strings.Repeat("n", 3)).Name()
		}()
	}
	wg.Wait()

	assert.Empty(t, root.Sinks())
	assert.Zero(t, r.ActiveOperations())
}

func TestRegistry_Clock(t *testing.T) {
	r := NewRegistry()
	r.Root().SetLevel(DebugLevel)
	sink := &captureSink{level: DebugLevel}
	r.Root().AddSink(sink)

	at := time.Date(2026, 10, 16, 1, 2, 3, 0, time.UTC)
	r.SetClock(func() time.Time { return at })
	r.Logger("x").InfoWith().Msg("stamped")

	require.Len(t, sink.records, 1)
	assert.Equal(t, at, sink.records[0].Time)
	assert.Equal(t, "x", sink.records[0].Logger)
	assert.Equal(t, InfoLevel, sink.records[0].Level)
}
