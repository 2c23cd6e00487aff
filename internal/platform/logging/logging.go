package logging

import (
	"io"

	hclog "github.com/hashicorp/go-hclog"
)

// New returns the named structured logger used by the CLI. Unknown levels
// fall back to info.
func New(name, level string, out io.Writer) hclog.Logger {
	lvl := hclog.LevelFromString(level)
	if lvl == hclog.NoLevel {
		lvl = hclog.Info
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   name,
		Level:  lvl,
		Output: out,
	})
}

// Discard is a logger that drops everything, for tests and plugin hosts.
func Discard() hclog.Logger {
	return hclog.NewNullLogger()
}
