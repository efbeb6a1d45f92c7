package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

const queueCapacity = 1024

// nonBlockingHook drains a bounded channel of log entries on its own
// goroutine, so a handler or the reactor never blocks on a slow sink.
type nonBlockingHook struct {
	entries chan *logrus.Entry
	out     *logrus.Logger
}

func newNonBlockingHook(out *logrus.Logger) *nonBlockingHook {
	h := &nonBlockingHook{entries: make(chan *logrus.Entry, queueCapacity), out: out}
	go h.drain()
	return h
}

func (h *nonBlockingHook) drain() {
	for entry := range h.entries {
		line, err := entry.String()
		if err != nil {
			continue
		}
		_, _ = h.out.Out.Write([]byte(line))
	}
}

func (h *nonBlockingHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *nonBlockingHook) Fire(entry *logrus.Entry) error {
	clone := *entry
	select {
	case h.entries <- &clone:
	default:
		// queue full: drop rather than block the caller.
	}
	return nil
}

// New builds a logrus logger at the given level (parsed via
// logrus.ParseLevel, defaulting to Info on a bad value), writing through
// a non-blocking hook and discarding the base logger's own synchronous
// output path.
func New(level string) *logrus.Logger {
	base := logrus.New()
	base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	base.SetLevel(lvl)

	sink := logrus.New()
	sink.SetFormatter(base.Formatter)
	sink.SetOutput(os.Stdout)

	base.SetOutput(discard{})
	base.AddHook(newNonBlockingHook(sink))
	return base
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
