// Package logrus adapts a *logrus.Entry to relcache.Logger.
package logrus

import (
	"github.com/sirupsen/logrus"
	"github.com/unkn0wn-root/relcache"
)

var _ relcache.Logger = LogrusLogger{}

type LogrusLogger struct{ E *logrus.Entry }

// New wraps a logger; use logrus.NewEntry(logrus.StandardLogger()) for the global one.
func New(e *logrus.Entry) LogrusLogger { return LogrusLogger{E: e} }

func (l LogrusLogger) Debug(msg string, f relcache.Fields) { l.E.WithFields(logrus.Fields(f)).Debug(msg) }
func (l LogrusLogger) Info(msg string, f relcache.Fields)  { l.E.WithFields(logrus.Fields(f)).Info(msg) }
func (l LogrusLogger) Warn(msg string, f relcache.Fields)  { l.E.WithFields(logrus.Fields(f)).Warn(msg) }
func (l LogrusLogger) Error(msg string, f relcache.Fields) {
	l.E.WithFields(logrus.Fields(f)).Error(msg)
}

func (l LogrusLogger) With(f relcache.Fields) relcache.Logger {
	return LogrusLogger{E: l.E.WithFields(logrus.Fields(f))}
}
