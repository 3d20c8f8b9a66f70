// Package zap adapts a *zap.Logger to relcache.Logger.
package zap

import (
	"github.com/unkn0wn-root/relcache"
	"go.uber.org/zap"
)

var _ relcache.Logger = ZapLogger{}

type ZapLogger struct{ L *zap.Logger }

func New(l *zap.Logger) ZapLogger { return ZapLogger{L: l} }

func (z ZapLogger) Debug(msg string, f relcache.Fields) { z.L.Debug(msg, zf(f)...) }
func (z ZapLogger) Info(msg string, f relcache.Fields)  { z.L.Info(msg, zf(f)...) }
func (z ZapLogger) Warn(msg string, f relcache.Fields)  { z.L.Warn(msg, zf(f)...) }
func (z ZapLogger) Error(msg string, f relcache.Fields) { z.L.Error(msg, zf(f)...) }

func (z ZapLogger) With(f relcache.Fields) relcache.Logger {
	return ZapLogger{L: z.L.With(zf(f)...)}
}

func zf(f relcache.Fields) []zap.Field {
	if len(f) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(f))
	for k, v := range f {
		if err, ok := v.(error); ok {
			out = append(out, zap.NamedError(k, err))
			continue
		}
		out = append(out, zap.Any(k, v))
	}
	return out
}
