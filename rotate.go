package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	smerrors "github.com/Station-Manager/errors"
	"gopkg.in/natefinch/lumberjack.v2"
)

const logFileMode os.FileMode = 0o644

// RotationPolicy describes when a TimedRotatingWriter starts a new file.
type RotationPolicy struct {
	When        string
	Interval    int
	UTC         bool
	BackupCount int
	MaxSizeMB   int
}

// TimedRotatingWriter is an io.Writer that appends to a single file and rolls
// it over on a time schedule. A finished period is renamed to
// <path>.<period start>, e.g. locust.log.2026-10-15 for daily rotation.
//
// Within a period lumberjack owns the file handle and caps its size.
type TimedRotatingWriter struct {
	path   string
	policy RotationPolicy
	now    func() time.Time
	loc    *time.Location
	step   time.Duration
	layout string

	mu         sync.Mutex
	file       *lumberjack.Logger
	rolloverAt time.Time
}

// NewTimedRotatingWriter opens (or creates) path for appending. The parent
// directory must already exist and be writable. A nil now means time.Now.
func NewTimedRotatingWriter(path string, policy RotationPolicy, now func() time.Time) (*TimedRotatingWriter, error) {
	const op smerrors.Op = "logging.NewTimedRotatingWriter"

	when := strings.ToUpper(policy.When)
	step, layout, ok := rotationUnit(when)
	if !ok {
		return nil, smerrors.New(op).Errorf("%s %q", errMsgInvalidWhen, policy.When)
	}
	if policy.Interval < 1 {
		policy.Interval = 1
	}
	policy.When = when
	if now == nil {
		now = time.Now
	}

	dir := filepath.Dir(path)
	info, err := os.Stat(dir)
	if err != nil {
		return nil, smerrors.New(op).Errorf("%s %s: %v", errMsgLogDirMissing, dir, err)
	}
	if !info.IsDir() {
		return nil, smerrors.New(op).Errorf("%s %s is not a directory", errMsgLogDirMissing, dir)
	}

	// Probe the file now so permission problems surface at startup rather
	// than on the first write.
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, logFileMode)
	if err != nil {
		return nil, smerrors.New(op).Errorf("%s %s: %v", errMsgLogFileOpen, path, err)
	}
	start := now()
	if fi, err := f.Stat(); err == nil && fi.Size() > 0 {
		start = fi.ModTime()
	}
	_ = f.Close()

	loc := time.Local
	if policy.UTC {
		loc = time.UTC
	}

	w := &TimedRotatingWriter{
		path:   path,
		policy: policy,
		now:    now,
		loc:    loc,
		step:   step * time.Duration(policy.Interval),
		layout: layout,
		file:   newLumberjack(path, policy),
	}
	w.rolloverAt = w.computeRollover(start)
	return w, nil
}

func newLumberjack(path string, policy RotationPolicy) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    policy.MaxSizeMB,
		MaxBackups: policy.BackupCount,
		LocalTime:  !policy.UTC,
	}
}

// rotationUnit returns the length of one unit and the suffix layout for a
// rotation unit.
func rotationUnit(when string) (time.Duration, string, bool) {
	switch when {
	case WhenSecond:
		return time.Second, "2006-01-02_15-04-05", true
	case WhenMinute:
		return time.Minute, "2006-01-02_15-04", true
	case WhenHour:
		return time.Hour, "2006-01-02_15", true
	case WhenDay, WhenMidnight:
		return 24 * time.Hour, "2006-01-02", true
	}
	return 0, emptyString, false
}

// computeRollover returns the first boundary after t.
func (w *TimedRotatingWriter) computeRollover(t time.Time) time.Time {
	if w.policy.When != WhenMidnight {
		return t.Add(w.step)
	}
	y, m, d := t.In(w.loc).Date()
	return time.Date(y, m, d+w.policy.Interval, 0, 0, 0, 0, w.loc)
}

// Write appends p to the current file, rolling over first when the current
// period has ended.
func (w *TimedRotatingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if now := w.now(); !now.Before(w.rolloverAt) {
		if err := w.rollover(now); err != nil {
			// Keep writing to the current file if rotation fails
			_, _ = fmt.Fprintf(os.Stderr, "log rotation failed: %v\n", err)
		}
	}
	return w.file.Write(p)
}

// NextRollover reports the boundary at which the next write will roll over.
func (w *TimedRotatingWriter) NextRollover() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.rolloverAt
}

// Path returns the path of the active file.
func (w *TimedRotatingWriter) Path() string {
	return w.path
}

// Close closes the active file. A later Write reopens it.
func (w *TimedRotatingWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}

func (w *TimedRotatingWriter) rollover(now time.Time) error {
	periodStart := w.rolloverAt.Add(-w.step)
	if w.policy.When == WhenMidnight {
		y, m, d := w.rolloverAt.In(w.loc).Date()
		periodStart = time.Date(y, m, d-w.policy.Interval, 0, 0, 0, 0, w.loc)
	}

	next := w.computeRollover(now)
	for !next.After(now) {
		next = next.Add(w.step)
	}
	w.rolloverAt = next

	if err := w.file.Close(); err != nil {
		return err
	}

	dest := w.path + "." + periodStart.In(w.loc).Format(w.layout)
	if _, err := os.Stat(dest); err == nil {
		if err := os.Remove(dest); err != nil {
			return err
		}
	}
	if err := os.Rename(w.path, dest); err != nil && !os.IsNotExist(err) {
		return err
	}

	// lumberjack creates missing files 0600; it keeps the mode of one that exists
	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, logFileMode)
	if err != nil {
		return err
	}
	_ = f.Close()

	return w.prune()
}

// prune deletes the oldest rolled-over files beyond BackupCount.
func (w *TimedRotatingWriter) prune() error {
	if w.policy.BackupCount <= 0 {
		return nil
	}
	backups, err := w.Backups()
	if err != nil {
		return err
	}
	if len(backups) <= w.policy.BackupCount {
		return nil
	}
	for _, name := range backups[:len(backups)-w.policy.BackupCount] {
		if err := os.Remove(name); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// Backups lists rolled-over files, oldest first.
func (w *TimedRotatingWriter) Backups() ([]string, error) {
	dir := filepath.Dir(w.path)
	prefix := filepath.Base(w.path) + "."

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, prefix) {
			continue
		}
		if _, err := time.Parse(w.layout, strings.TrimPrefix(name, prefix)); err != nil {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	// The suffix layouts sort chronologically
	sort.Strings(files)
	return files, nil
}
