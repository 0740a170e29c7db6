package facevalue

import "github.com/rs/zerolog"

// Option configures a Handler.
type Option func(*config)

type config struct {
	onChange ChangeHandler
	logger   zerolog.Logger
}

func defaultConfig() *config {
	return &config{
		logger: zerolog.Nop(),
	}
}

// WithChangeHandler sets the handler consulted for every detected field
// change. A nil handler keeps the default flood behavior.
func WithChangeHandler(h ChangeHandler) Option {
	return func(c *config) {
		c.onChange = h
	}
}

// WithChangeFunc is WithChangeHandler for a plain function.
func WithChangeFunc(fn func(face Face, field int, h *Handler) Result) Option {
	return func(c *config) {
		if fn == nil {
			c.onChange = nil
			return
		}
		c.onChange = ChangeFunc(fn)
	}
}

// WithLogger sets the logger used for change tracing. Changes are logged at
// debug level. The default logger discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}
