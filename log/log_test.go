package log

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestInitLevels(t *testing.T) {
	c := qt.New(t)

	for _, lvl := range []string{LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError} {
		Init(lvl, "stderr")
		c.Assert(Level(), qt.Equals, lvl)
	}
}

func TestInitInvalidLevelPanics(t *testing.T) {
	c := qt.New(t)
	c.Assert(func() { Init("verbose", "stderr") }, qt.PanicMatches, `invalid log level: "verbose"`)
}
