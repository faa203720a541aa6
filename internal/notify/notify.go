// Package notify delivers fired reminders to the user. The terminal UI is
// the primary surface; the log notifier exists so deliveries leave a trace
// even when the UI is not watching.
package notify

import (
	"time"

	"go.uber.org/zap"
)

// Notifier receives reminders the moment they come due.
type Notifier interface {
	Deliver(title, body string, at time.Time)
}

// LogNotifier writes every delivery to the structured log.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Deliver(title, body string, at time.Time) {
	n.log.Info("reminder delivered",
		zap.String("title", title),
		zap.String("body", body),
		zap.Time("at", at))
}

// Multi fans a delivery out to several notifiers.
type Multi []Notifier

func (m Multi) Deliver(title, body string, at time.Time) {
	for _, n := range m {
		if n != nil {
			n.Deliver(title, body, at)
		}
	}
}
