package repl

import (
	"io"
	"os"
)

// Config holds configuration for the interactive advisor session.
type Config struct {
	// TopK is the page size for candidate suggestions.
	TopK int
	// DefaultServing is used when the user accepts the serving prompt as-is.
	DefaultServing string
	// In and Out default to stdin/stdout; tests substitute buffers.
	In  io.Reader
	Out io.Writer
}

// DefaultConfig returns a default configuration.
func DefaultConfig() Config {
	return Config{
		TopK:           5,
		DefaultServing: "100g",
		In:             os.Stdin,
		Out:            os.Stdout,
	}
}
