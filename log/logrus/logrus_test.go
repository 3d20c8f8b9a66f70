package logrus

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unkn0wn-root/relcache"
)

func TestLogrusLogger(t *testing.T) {
	base, hook := test.NewNullLogger()
	base.SetLevel(logrus.DebugLevel)
	l := New(logrus.NewEntry(base)).With(relcache.Fields{"prefix": "poetry"})

	l.Warn("write-back failed", relcache.Fields{"key": "Query:poems"})
	l.Debug("removed relations", nil)

	require.Len(t, hook.AllEntries(), 2)
	e := hook.AllEntries()[0]
	assert.Equal(t, logrus.WarnLevel, e.Level)
	assert.Equal(t, "write-back failed", e.Message)
	assert.Equal(t, "poetry", e.Data["prefix"])
	assert.Equal(t, "Query:poems", e.Data["key"])
	assert.Equal(t, logrus.DebugLevel, hook.LastEntry().Level)
}
